package product

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/noq-backend/internal/host"
)

type memRepo struct {
	Repository
	products map[string]*Product
}

func (r *memRepo) Create(ctx context.Context, p *Product) error {
	p.ID = "prod-" + p.Name
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memRepo) Update(ctx context.Context, p *Product) error {
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

type stubHosts struct {
	host.Service
	hosts map[string]*host.Host
}

func (s stubHosts) GetByID(ctx context.Context, id string) (*host.Host, error) {
	h, ok := s.hosts[id]
	if !ok {
		return nil, host.ErrNotFound
	}
	return h, nil
}

type recordingRefresher struct {
	refreshed []string
	err       error
}

func (r *recordingRefresher) RefreshProduct(ctx context.Context, productID string) error {
	r.refreshed = append(r.refreshed, productID)
	return r.err
}

func newTestService(refresher AvailabilityRefresher) Service {
	hosts := stubHosts{hosts: map[string]*host.Host{
		"open":   {ID: "open", Name: "Open house", MaxDaysPerBooking: 5, IsActive: true},
		"closed": {ID: "closed", Name: "Closed house", MaxDaysPerBooking: 5, IsActive: false},
	}}
	return NewService(&memRepo{products: map[string]*Product{}}, hosts, refresher)
}

func TestCreateProduct(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateRequest{HostID: "open", Name: "Dorm", TotalPlaces: 4})
	require.NoError(t, err)
	assert.Equal(t, TypeGeneral, p.Type)
	assert.Equal(t, 5, p.HostMaxDays)
	assert.Equal(t, "", p.RequiredGender())

	women, err := svc.Create(ctx, CreateRequest{HostID: "open", Name: "Women", TotalPlaces: 2, Type: TypeWomanOnly})
	require.NoError(t, err)
	assert.Equal(t, "female", women.RequiredGender())

	tests := []struct {
		name string
		req  CreateRequest
		want error
	}{
		{"blank name", CreateRequest{HostID: "open", Name: " "}, ErrEmptyName},
		{"negative places", CreateRequest{HostID: "open", Name: "A", TotalPlaces: -1}, ErrInvalidTotalPlaces},
		{"unknown type", CreateRequest{HostID: "open", Name: "A", Type: "vip"}, ErrInvalidType},
		{"inactive host", CreateRequest{HostID: "closed", Name: "A"}, ErrHostInactive},
		{"unknown host", CreateRequest{HostID: "nowhere", Name: "A"}, host.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUpdateRefreshesAvailabilityOnCapacityChange(t *testing.T) {
	refresher := &recordingRefresher{}
	svc := newTestService(refresher)
	ctx := context.Background()
	p, err := svc.Create(ctx, CreateRequest{HostID: "open", Name: "Dorm", TotalPlaces: 4})
	require.NoError(t, err)

	name := "Big dorm"
	_, err = svc.Update(ctx, p.ID, UpdateRequest{Name: &name})
	require.NoError(t, err)
	assert.Empty(t, refresher.refreshed)

	same := 4
	_, err = svc.Update(ctx, p.ID, UpdateRequest{TotalPlaces: &same})
	require.NoError(t, err)
	assert.Empty(t, refresher.refreshed)

	fewer := 2
	updated, err := svc.Update(ctx, p.ID, UpdateRequest{TotalPlaces: &fewer})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.TotalPlaces)
	assert.Equal(t, []string{p.ID}, refresher.refreshed)
}

func TestUpdateSurvivesRefreshFailure(t *testing.T) {
	refresher := &recordingRefresher{err: errors.New("db down")}
	svc := newTestService(refresher)
	ctx := context.Background()
	p, err := svc.Create(ctx, CreateRequest{HostID: "open", Name: "Dorm", TotalPlaces: 4})
	require.NoError(t, err)

	more := 6
	updated, err := svc.Update(ctx, p.ID, UpdateRequest{TotalPlaces: &more})
	require.NoError(t, err)
	assert.Equal(t, 6, updated.TotalPlaces)

	negative := -1
	_, err = svc.Update(ctx, p.ID, UpdateRequest{TotalPlaces: &negative})
	assert.ErrorIs(t, err, ErrInvalidTotalPlaces)
}
