package availability

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/noq-backend/internal/pkg/daterange"
	"github.com/nekogravitycat/noq-backend/internal/product"
)

type memRepo struct {
	rows map[string]int
}

func newMemRepo() *memRepo {
	return &memRepo{rows: map[string]int{}}
}

func rowKey(productID string, d time.Time) string {
	return productID + "|" + daterange.Key(d)
}

func (r *memRepo) Upsert(ctx context.Context, rows []Availability) error {
	for _, a := range rows {
		r.rows[rowKey(a.ProductID, a.Date)] = a.PlacesLeft
	}
	return nil
}

func (r *memRepo) Get(ctx context.Context, productID string, date time.Time) (*Availability, error) {
	left, ok := r.rows[rowKey(productID, date)]
	if !ok {
		return nil, ErrNotFound
	}
	return &Availability{ProductID: productID, Date: daterange.Day(date), PlacesLeft: left}, nil
}

func (r *memRepo) ListRange(ctx context.Context, productID string, span daterange.Range) ([]*Availability, error) {
	var out []*Availability
	for _, d := range span.Dates() {
		if left, ok := r.rows[rowKey(productID, d)]; ok {
			out = append(out, &Availability{ProductID: productID, Date: d, PlacesLeft: left})
		}
	}
	return out, nil
}

func (r *memRepo) LatestDate(ctx context.Context, productID string) (time.Time, bool, error) {
	var latest time.Time
	for key := range r.rows {
		id, day, _ := strings.Cut(key, "|")
		if id != productID {
			continue
		}
		d, err := daterange.Parse(day)
		if err != nil {
			return time.Time{}, false, err
		}
		if d.After(latest) {
			latest = d
		}
	}
	return latest, !latest.IsZero(), nil
}

type stubProducts map[string]*product.Product

func (s stubProducts) GetByID(ctx context.Context, id string) (*product.Product, error) {
	p, ok := s[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return p, nil
}

func TestProjectorWritesPlacesLeft(t *testing.T) {
	repo := newMemRepo()
	counts := CountPerDate(daterange.Range{Start: day(0), End: day(8)}, overlapping(), "")

	require.NoError(t, NewProjector(repo).Project(context.Background(), "p1", 5, counts))

	got := make([]int, 8)
	for i := range got {
		got[i] = repo.rows[rowKey("p1", day(i))]
	}
	assert.Equal(t, []int{3, 2, 1, 0, 1, 2, 3, 4}, got)
}

func TestProjectorIsIdempotent(t *testing.T) {
	repo := newMemRepo()
	counts := CountPerDate(daterange.Range{Start: day(0), End: day(8)}, overlapping(), "")
	projector := NewProjector(repo)

	require.NoError(t, projector.Project(context.Background(), "p1", 5, counts))
	first := len(repo.rows)
	require.NoError(t, projector.Project(context.Background(), "p1", 5, counts))

	assert.Equal(t, first, len(repo.rows))
	assert.Equal(t, 0, repo.rows[rowKey("p1", day(3))])
}

func TestProjectorLatestDate(t *testing.T) {
	repo := newMemRepo()
	projector := NewProjector(repo)

	_, ok, err := projector.LatestDate(context.Background(), "p1")
	require.NoError(t, err)
	assert.False(t, ok)

	counts := CountPerDate(daterange.Range{Start: day(0), End: day(8)}, overlapping(), "")
	require.NoError(t, projector.Project(context.Background(), "p1", 5, counts))
	repo.rows[rowKey("p2", day(20))] = 1

	latest, ok, err := projector.LatestDate(context.Background(), "p1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, day(7), latest)
}

func TestGetPlacesLeft(t *testing.T) {
	repo := newMemRepo()
	repo.rows[rowKey("p1", day(2))] = 1
	svc := NewService(repo, stubProducts{"p1": {ID: "p1", TotalPlaces: 5}})
	ctx := context.Background()

	left, err := svc.GetPlacesLeft(ctx, "p1", day(2))
	require.NoError(t, err)
	assert.Equal(t, 1, left)

	t.Run("falls back to total places", func(t *testing.T) {
		left, err := svc.GetPlacesLeft(ctx, "p1", day(9))
		require.NoError(t, err)
		assert.Equal(t, 5, left)
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := svc.GetPlacesLeft(ctx, "nope", day(2))
		assert.ErrorIs(t, err, product.ErrNotFound)
	})
}

func TestListRange(t *testing.T) {
	repo := newMemRepo()
	repo.rows[rowKey("p1", day(1))] = 0
	svc := NewService(repo, stubProducts{"p1": {ID: "p1", TotalPlaces: 2}})
	ctx := context.Background()

	days, err := svc.ListRange(ctx, "p1", daterange.Range{Start: day(0), End: day(3)})
	require.NoError(t, err)
	require.Len(t, days, 3)
	assert.Equal(t, DayPlaces{Date: day(0), PlacesLeft: 2, Projected: false}, days[0])
	assert.Equal(t, DayPlaces{Date: day(1), PlacesLeft: 0, Projected: true}, days[1])
	assert.Equal(t, DayPlaces{Date: day(2), PlacesLeft: 2, Projected: false}, days[2])

	_, err = svc.ListRange(ctx, "p1", daterange.Range{Start: day(3), End: day(3)})
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = svc.ListRange(ctx, "p1", daterange.Range{Start: day(0), End: day(MaxRangeDays + 1)})
	assert.ErrorIs(t, err, ErrRangeTooLong)
}
