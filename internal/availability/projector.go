package availability

import (
	"context"
	"time"
)

// Projector writes places_left for a product from per-date booking counts.
type Projector struct {
	repo Repository
}

func NewProjector(repo Repository) *Projector {
	return &Projector{repo: repo}
}

// Project upserts places_left = totalPlaces - count for every date in counts.
// Running it twice over the same bookings stores the same values.
func (p *Projector) Project(ctx context.Context, productID string, totalPlaces int, counts DateCounts) error {
	rows := make([]Availability, len(counts))
	for i, c := range counts {
		rows[i] = Availability{
			ProductID:  productID,
			Date:       c.Date,
			PlacesLeft: totalPlaces - c.Count,
		}
	}
	return p.repo.Upsert(ctx, rows)
}

// LatestDate returns the last projected date of a product.
func (p *Projector) LatestDate(ctx context.Context, productID string) (time.Time, bool, error) {
	return p.repo.LatestDate(ctx, productID)
}
