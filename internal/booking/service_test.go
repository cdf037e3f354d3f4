package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/noq-backend/internal/availability"
	"github.com/nekogravitycat/noq-backend/internal/client"
	"github.com/nekogravitycat/noq-backend/internal/db"
	"github.com/nekogravitycat/noq-backend/internal/pkg/clock"
	"github.com/nekogravitycat/noq-backend/internal/pkg/daterange"
	"github.com/nekogravitycat/noq-backend/internal/product"
)

// memStore holds bookings and availability rows; memTx restores it when a unit of work fails.
type memStore struct {
	bookings   map[string]*Booking
	places     map[string]int
	seq        int
	failUpsert bool
}

func newMemStore() *memStore {
	return &memStore{bookings: map[string]*Booking{}, places: map[string]int{}}
}

func (s *memStore) snapshot() (map[string]*Booking, map[string]int) {
	bookings := make(map[string]*Booking, len(s.bookings))
	for id, b := range s.bookings {
		cp := *b
		bookings[id] = &cp
	}
	places := make(map[string]int, len(s.places))
	for k, v := range s.places {
		places[k] = v
	}
	return bookings, places
}

type memTx struct {
	store *memStore
}

func (t memTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	bookings, places := t.store.snapshot()
	if err := fn(ctx); err != nil {
		t.store.bookings, t.store.places = bookings, places
		return err
	}
	return nil
}

type memRepo struct {
	store *memStore
}

func (r memRepo) Create(ctx context.Context, b *Booking) error {
	r.store.seq++
	b.ID = "b" + strconv.Itoa(r.store.seq)
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	cp := *b
	r.store.bookings[b.ID] = &cp
	return nil
}

func (r memRepo) GetByID(ctx context.Context, id string) (*Booking, error) {
	b, ok := r.store.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r memRepo) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	var out []*Booking
	for _, b := range r.store.bookings {
		if filter.ProductID != "" && b.ProductID != filter.ProductID {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (r memRepo) UpdateStatus(ctx context.Context, b *Booking) error {
	stored, ok := r.store.bookings[b.ID]
	if !ok {
		return ErrNotFound
	}
	stored.Status = b.Status
	stored.UpdatedAt = time.Now()
	return nil
}

func (r memRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.store.bookings[id]; !ok {
		return ErrNotFound
	}
	delete(r.store.bookings, id)
	return nil
}

func (r memRepo) ListByClient(ctx context.Context, clientID string) ([]*Booking, error) {
	var out []*Booking
	for _, b := range r.store.bookings {
		if b.ClientID == clientID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r memRepo) ListCountingStays(ctx context.Context, productID string, span daterange.Range) ([]availability.Stay, error) {
	var out []availability.Stay
	for _, b := range r.store.bookings {
		if b.ProductID != productID || !b.Status.CountsTowardCapacity() {
			continue
		}
		if daterange.Of(b.StartDate, b.EndDate).Overlaps(span) {
			out = append(out, b.Stay())
		}
	}
	return out, nil
}

func (r memRepo) LatestEndDate(ctx context.Context, productID string) (time.Time, bool, error) {
	var latest time.Time
	for _, b := range r.store.bookings {
		if b.ProductID == productID && b.EndDate.After(latest) {
			latest = b.EndDate
		}
	}
	return latest, !latest.IsZero(), nil
}

type memAvailability struct {
	store *memStore
}

func placeKey(productID string, d time.Time) string {
	return productID + "|" + daterange.Key(d)
}

func (r memAvailability) Upsert(ctx context.Context, rows []availability.Availability) error {
	if r.store.failUpsert {
		return errors.New("upsert availability failed")
	}
	for _, a := range rows {
		r.store.places[placeKey(a.ProductID, a.Date)] = a.PlacesLeft
	}
	return nil
}

func (r memAvailability) Get(ctx context.Context, productID string, date time.Time) (*availability.Availability, error) {
	left, ok := r.store.places[placeKey(productID, date)]
	if !ok {
		return nil, availability.ErrNotFound
	}
	return &availability.Availability{ProductID: productID, Date: date, PlacesLeft: left}, nil
}

func (r memAvailability) ListRange(ctx context.Context, productID string, span daterange.Range) ([]*availability.Availability, error) {
	var out []*availability.Availability
	for _, d := range span.Dates() {
		if a, err := r.Get(ctx, productID, d); err == nil {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r memAvailability) LatestDate(ctx context.Context, productID string) (time.Time, bool, error) {
	var latest time.Time
	for key := range r.store.places {
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

type memProducts map[string]*product.Product

func (m memProducts) GetByID(ctx context.Context, id string) (*product.Product, error) {
	p, ok := m[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m memProducts) Lock(ctx context.Context, id string) (*product.Product, error) {
	return m.GetByID(ctx, id)
}

type memClients map[string]*client.Client

func (m memClients) GetByID(ctx context.Context, id string) (*client.Client, error) {
	c, ok := m[id]
	if !ok {
		return nil, client.ErrNotFound
	}
	return c, nil
}

type fixture struct {
	store    *memStore
	products memProducts
	clients  memClients
	service  Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newMemStore()
	f := &fixture{
		store: store,
		products: memProducts{
			"shelter": {ID: "shelter", HostID: "h1", Name: "Dorm", TotalPlaces: 5, Type: product.TypeGeneral, HostMaxDays: 10},
			"single":  {ID: "single", HostID: "h1", Name: "Single room", TotalPlaces: 1, Type: product.TypeGeneral, HostMaxDays: 10},
			"women":   {ID: "women", HostID: "h1", Name: "Women's room", TotalPlaces: 3, Type: product.TypeWomanOnly, HostMaxDays: 10},
		},
		clients: memClients{},
	}
	for i := 1; i <= 6; i++ {
		id := "c" + strconv.Itoa(i)
		f.clients[id] = &client.Client{ID: id, Gender: client.GenderMale}
	}
	f.clients["anna"] = &client.Client{ID: "anna", FirstName: "Anna", LastName: "Berg", Gender: client.GenderFemale}

	projector := availability.NewProjector(memAvailability{store: store})
	f.service = NewService(memTx{store: store}, memRepo{store: store}, f.products, f.clients, projector, clock.Fixed(today.Add(9*time.Hour)))
	return f
}

func (f *fixture) placesLeft(productID string, from, to int) []int {
	out := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		left, ok := f.store.places[placeKey(productID, on(i))]
		if !ok {
			left = -1
		}
		out = append(out, left)
	}
	return out
}

func (f *fixture) create(t *testing.T, productID, clientID string, start, end int, status Status) *Booking {
	t.Helper()
	b, err := f.service.Create(context.Background(), CreateRequest{
		ProductID: productID,
		ClientID:  clientID,
		StartDate: on(start),
		EndDate:   on(end),
		Status:    status,
	})
	require.NoError(t, err)
	return b
}

// seedOverlapping books five clients on the shelter with starts 1,0,3,0,2 and ends 4,6,8,7,5.
func (f *fixture) seedOverlapping(t *testing.T) []*Booking {
	offsets := [][2]int{{1, 4}, {0, 6}, {3, 8}, {0, 7}, {2, 5}}
	out := make([]*Booking, len(offsets))
	for i, o := range offsets {
		out[i] = f.create(t, "shelter", "c"+strconv.Itoa(i+1), o[0], o[1], StatusPending)
	}
	return out
}

func TestCreateProjectsOverlappingBookings(t *testing.T) {
	f := newFixture(t)
	f.seedOverlapping(t)

	assert.Equal(t, []int{3, 2, 1, 0, 1, 2, 3, 4}, f.placesLeft("shelter", 0, 8))

	counts, err := f.service.CountPerDate(context.Background(), "shelter", daterange.Range{Start: on(0), End: on(8)}, "")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		"2026-05-01": 2, "2026-05-02": 3, "2026-05-03": 4, "2026-05-04": 5,
		"2026-05-05": 4, "2026-05-06": 3, "2026-05-07": 2, "2026-05-08": 1,
	}, counts.Map())
}

func TestCreateFillsDisplayNames(t *testing.T) {
	f := newFixture(t)
	b := f.create(t, "women", "anna", 0, 2, StatusPending)

	assert.Equal(t, "Anna Berg", b.ClientName)
	assert.Equal(t, "Women's room", b.ProductName)
	assert.Equal(t, "h1", b.HostID)
}

func TestCreateRejectsFullDate(t *testing.T) {
	f := newFixture(t)
	f.seedOverlapping(t)

	_, err := f.service.Create(context.Background(), CreateRequest{
		ProductID: "shelter", ClientID: "c6", StartDate: on(2), EndDate: on(5),
	})
	require.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Len(t, f.store.bookings, 5)
}

func TestDeleteRecomputesSpan(t *testing.T) {
	f := newFixture(t)
	bookings := f.seedOverlapping(t)

	require.NoError(t, f.service.Delete(context.Background(), bookings[0].ID))

	assert.Equal(t, []int{3, 3, 2, 1, 1, 2, 3, 4}, f.placesLeft("shelter", 0, 8))
	_, err := f.service.GetByID(context.Background(), bookings[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteUnknownBooking(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.service.Delete(context.Background(), "missing"), ErrNotFound)
}

func TestStatusChangesOnSingleRoom(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.create(t, "single", "c1", 0, 2, StatusPending)
	assert.Equal(t, []int{0, 0}, f.placesLeft("single", 0, 2))

	_, err := f.service.Create(ctx, CreateRequest{ProductID: "single", ClientID: "c2", StartDate: on(0), EndDate: on(2)})
	require.ErrorIs(t, err, ErrCapacityExceeded)

	queued := f.create(t, "single", "c2", 0, 2, StatusInQueue)
	assert.Equal(t, []int{0, 0}, f.placesLeft("single", 0, 2))

	declined, err := f.service.UpdateStatus(ctx, first.ID, StatusDeclined)
	require.NoError(t, err)
	assert.Equal(t, StatusDeclined, declined.Status)
	assert.Equal(t, []int{1, 1}, f.placesLeft("single", 0, 2))

	accepted, err := f.service.UpdateStatus(ctx, queued.ID, StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, accepted.Status)
	assert.Equal(t, []int{0, 0}, f.placesLeft("single", 0, 2))
}

func TestUpdateStatusBackToPendingChecksCapacity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.create(t, "single", "c1", 0, 2, StatusPending)
	queued := f.create(t, "single", "c2", 0, 2, StatusInQueue)

	_, err := f.service.UpdateStatus(ctx, queued.ID, StatusPending)
	require.ErrorIs(t, err, ErrCapacityExceeded)

	b, err := f.service.GetByID(ctx, queued.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusInQueue, b.Status)
}

func TestUpdateStatusSameStatusIsNoop(t *testing.T) {
	f := newFixture(t)
	b := f.create(t, "single", "c1", 0, 2, StatusPending)

	got, err := f.service.UpdateStatus(context.Background(), b.ID, StatusPending)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)
	b := f.create(t, "single", "c1", 0, 2, StatusPending)

	_, err := f.service.UpdateStatus(context.Background(), b.ID, Status("cancelled"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestCreateStartBeforeToday(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Create(ctx, CreateRequest{ProductID: "shelter", ClientID: "c1", StartDate: on(-1), EndDate: on(1)})
	require.ErrorIs(t, err, ErrStartBeforeToday)
	assert.Empty(t, f.store.bookings)

	b := f.create(t, "shelter", "c1", -1, 1, StatusCompleted)
	assert.Equal(t, StatusCompleted, b.Status)
}

func TestCreateGenderMismatchLeavesAvailabilityUntouched(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Create(context.Background(), CreateRequest{ProductID: "women", ClientID: "c1", StartDate: on(0), EndDate: on(2)})
	require.ErrorIs(t, err, ErrGenderMismatch)
	assert.Empty(t, f.store.bookings)
	assert.Empty(t, f.store.places)

	f.create(t, "women", "anna", 0, 2, StatusPending)
	assert.Equal(t, []int{2, 2}, f.placesLeft("women", 0, 2))
}

func TestCreateRejectsClientConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, "shelter", "c1", 1, 4, StatusDeclined)

	_, err := f.service.Create(ctx, CreateRequest{ProductID: "single", ClientID: "c1", StartDate: on(1), EndDate: on(2)})
	assert.ErrorIs(t, err, ErrDuplicateBookingDate)

	_, err = f.service.Create(ctx, CreateRequest{ProductID: "single", ClientID: "c1", StartDate: on(3), EndDate: on(5)})
	assert.ErrorIs(t, err, ErrOverlappingBooking)

	f.create(t, "single", "c1", 4, 6, StatusPending)
}

func TestCreateRollsBackWhenProjectionFails(t *testing.T) {
	f := newFixture(t)
	f.store.failUpsert = true

	_, err := f.service.Create(context.Background(), CreateRequest{ProductID: "shelter", ClientID: "c1", StartDate: on(0), EndDate: on(2)})
	require.Error(t, err)
	assert.Empty(t, f.store.bookings)
	assert.Empty(t, f.store.places)
}

func TestDeleteRollsBackWhenProjectionFails(t *testing.T) {
	f := newFixture(t)
	b := f.create(t, "shelter", "c1", 0, 2, StatusPending)
	f.store.failUpsert = true

	require.Error(t, f.service.Delete(context.Background(), b.ID))
	assert.Contains(t, f.store.bookings, b.ID)
	assert.Equal(t, []int{4, 4}, f.placesLeft("shelter", 0, 2))
}

func TestCreateUnknownProductOrClient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Create(ctx, CreateRequest{ProductID: "nope", ClientID: "c1", StartDate: on(0), EndDate: on(1)})
	assert.ErrorIs(t, err, product.ErrNotFound)

	_, err = f.service.Create(ctx, CreateRequest{ProductID: "shelter", ClientID: "nobody", StartDate: on(0), EndDate: on(1)})
	assert.ErrorIs(t, err, client.ErrNotFound)
}

func TestRecomputeAvailabilityRepairsDrift(t *testing.T) {
	f := newFixture(t)
	f.seedOverlapping(t)
	for i := 0; i < 8; i++ {
		f.store.places[placeKey("shelter", on(i))] = 99
	}

	err := f.service.RecomputeAvailability(context.Background(), "shelter", daterange.Range{Start: on(0), End: on(10)})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2, 1, 0, 1, 2, 3, 4, 5, 5}, f.placesLeft("shelter", 0, 10))
}

func TestRebuildAvailabilityCoversBookingsBeyondHorizon(t *testing.T) {
	f := newFixture(t)
	f.create(t, "shelter", "c1", 40, 42, StatusPending)
	assert.Equal(t, []int{4, 4}, f.placesLeft("shelter", 40, 42))

	f.products["shelter"].TotalPlaces = 3
	err := f.service.RebuildAvailability(context.Background(), "shelter", daterange.Extend(on(0), 30))
	require.NoError(t, err)

	assert.Equal(t, []int{2, 2}, f.placesLeft("shelter", 40, 42))
	assert.Equal(t, []int{3, 3}, f.placesLeft("shelter", 0, 2))
	assert.Equal(t, 3, f.store.places[placeKey("shelter", on(39))])
}

func TestRebuildAvailabilityCoversStaleRowsWithoutBookings(t *testing.T) {
	f := newFixture(t)
	b := f.create(t, "shelter", "c1", 50, 52, StatusPending)
	require.NoError(t, f.service.Delete(context.Background(), b.ID))
	assert.Equal(t, []int{5, 5}, f.placesLeft("shelter", 50, 52))

	f.products["shelter"].TotalPlaces = 2
	err := f.service.RebuildAvailability(context.Background(), "shelter", daterange.Extend(on(0), 30))
	require.NoError(t, err)

	assert.Equal(t, []int{2, 2, -1}, f.placesLeft("shelter", 50, 53))
}

func TestRebuildAvailabilityKeepsHorizonWhenNothingBeyond(t *testing.T) {
	f := newFixture(t)
	f.create(t, "shelter", "c1", 1, 3, StatusPending)

	err := f.service.RebuildAvailability(context.Background(), "shelter", daterange.Extend(on(0), 5))
	require.NoError(t, err)
	assert.Equal(t, []int{5, 4, 4, 5, 5, -1}, f.placesLeft("shelter", 0, 6))
}

func TestCountPerDateValidatesRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.CountPerDate(ctx, "shelter", daterange.Range{Start: on(2), End: on(2)}, "")
	assert.ErrorIs(t, err, ErrEndBeforeStart)

	_, err = f.service.CountPerDate(ctx, "shelter", daterange.Range{Start: on(0), End: on(availability.MaxRangeDays + 1)}, "")
	assert.ErrorIs(t, err, availability.ErrRangeTooLong)

	_, err = f.service.CountPerDate(ctx, "nope", daterange.Range{Start: on(0), End: on(1)}, "")
	assert.ErrorIs(t, err, product.ErrNotFound)
}

func TestCountPerDateExcludesBooking(t *testing.T) {
	f := newFixture(t)
	bookings := f.seedOverlapping(t)

	counts, err := f.service.CountPerDate(context.Background(), "shelter", daterange.Range{Start: on(0), End: on(4)}, bookings[0].ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"2026-05-01": 2, "2026-05-02": 2, "2026-05-03": 3, "2026-05-04": 4}, counts.Map())
}

type exhaustedTx struct{}

func (exhaustedTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fmt.Errorf("%w: could not serialize access", db.ErrTxRetriesExhausted)
}

func TestConcurrencyConflictAfterRetries(t *testing.T) {
	f := newFixture(t)
	svc := NewService(exhaustedTx{}, memRepo{store: f.store}, f.products, f.clients,
		availability.NewProjector(memAvailability{store: f.store}), clock.Fixed(today))

	_, err := svc.Create(context.Background(), CreateRequest{ProductID: "shelter", ClientID: "c1", StartDate: on(0), EndDate: on(1)})
	assert.ErrorIs(t, err, ErrConcurrencyConflict)
	assert.ErrorIs(t, err, db.ErrTxRetriesExhausted)

	_, err = svc.UpdateStatus(context.Background(), "b1", StatusAccepted)
	assert.ErrorIs(t, err, ErrConcurrencyConflict)

	assert.ErrorIs(t, svc.Delete(context.Background(), "b1"), ErrConcurrencyConflict)
}
