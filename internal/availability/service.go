package availability

import (
	"context"
	"errors"
	"time"

	"github.com/nekogravitycat/noq-backend/internal/pkg/daterange"
	"github.com/nekogravitycat/noq-backend/internal/product"
)

// ProductReader is the product lookup the availability queries need.
type ProductReader interface {
	GetByID(ctx context.Context, id string) (*product.Product, error)
}

// Service answers availability queries over the projection.
type Service interface {
	// GetPlacesLeft returns the projected places of a product on date, or its total places when nothing is projected yet.
	GetPlacesLeft(ctx context.Context, productID string, date time.Time) (int, error)
	// ListRange returns one entry per date of span with the same fallback.
	ListRange(ctx context.Context, productID string, span daterange.Range) ([]DayPlaces, error)
}

type service struct {
	repo     Repository
	products ProductReader
}

func NewService(repo Repository, products ProductReader) Service {
	return &service{
		repo:     repo,
		products: products,
	}
}

func (s *service) GetPlacesLeft(ctx context.Context, productID string, date time.Time) (int, error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return 0, err
	}

	a, err := s.repo.Get(ctx, productID, date)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return p.TotalPlaces, nil
		}
		return 0, err
	}
	return a.PlacesLeft, nil
}

func (s *service) ListRange(ctx context.Context, productID string, span daterange.Range) ([]DayPlaces, error) {
	if err := span.Validate(); err != nil {
		return nil, ErrInvalidRange
	}
	if span.Days() > MaxRangeDays {
		return nil, ErrRangeTooLong
	}

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.ListRange(ctx, productID, span)
	if err != nil {
		return nil, err
	}
	byDate := make(map[string]int, len(rows))
	for _, a := range rows {
		byDate[daterange.Key(a.Date)] = a.PlacesLeft
	}

	dates := span.Dates()
	days := make([]DayPlaces, len(dates))
	for i, d := range dates {
		left, ok := byDate[daterange.Key(d)]
		if !ok {
			left = p.TotalPlaces
		}
		days[i] = DayPlaces{Date: d, PlacesLeft: left, Projected: ok}
	}
	return days, nil
}
