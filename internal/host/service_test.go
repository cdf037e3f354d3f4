package host

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/noq-backend/internal/region"
	"github.com/nekogravitycat/noq-backend/internal/user"
)

type memRepo struct {
	Repository
	hosts   map[string]*Host
	members map[string]bool
}

func newMemRepo() *memRepo {
	return &memRepo{hosts: map[string]*Host{}, members: map[string]bool{}}
}

func (r *memRepo) Create(ctx context.Context, h *Host) error {
	h.ID = "host-" + h.Name
	cp := *h
	r.hosts[h.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(ctx context.Context, id string) (*Host, error) {
	h, ok := r.hosts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *h
	return &cp, nil
}

func (r *memRepo) Update(ctx context.Context, h *Host) error {
	cp := *h
	r.hosts[h.ID] = &cp
	return nil
}

func (r *memRepo) AddMember(ctx context.Context, hostID, userID string) error {
	if r.members[hostID+"/"+userID] {
		return ErrUserAlreadyMember
	}
	r.members[hostID+"/"+userID] = true
	return nil
}

func (r *memRepo) IsMember(ctx context.Context, hostID, userID string) (bool, error) {
	return r.members[hostID+"/"+userID], nil
}

type stubRegions struct {
	region.Service
	regions map[string]*region.Region
}

func (s stubRegions) GetByID(ctx context.Context, id string) (*region.Region, error) {
	r, ok := s.regions[id]
	if !ok {
		return nil, region.ErrNotFound
	}
	return r, nil
}

type stubUsers struct {
	user.Service
	ids map[string]bool
}

func (s stubUsers) GetByID(ctx context.Context, id string) (*user.User, error) {
	if !s.ids[id] {
		return nil, user.ErrNotFound
	}
	return &user.User{ID: id}, nil
}

func newTestService() (Service, *memRepo) {
	repo := newMemRepo()
	regions := stubRegions{regions: map[string]*region.Region{
		"sthlm":  {ID: "sthlm", Name: "Stockholm", IsActive: true},
		"closed": {ID: "closed", Name: "Closed", IsActive: false},
	}}
	users := stubUsers{ids: map[string]bool{"staff": true}}
	return NewService(repo, regions, users), repo
}

func TestCreateHost(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	h, err := svc.Create(ctx, CreateHostRequest{RegionID: "sthlm", Name: " Stadsmissionen "})
	require.NoError(t, err)
	assert.Equal(t, "Stadsmissionen", h.Name)
	assert.Equal(t, DefaultMaxDaysPerBooking, h.MaxDaysPerBooking)
	assert.Equal(t, "Stockholm", h.RegionName)
	assert.True(t, h.IsActive)

	zero := 0
	tests := []struct {
		name string
		req  CreateHostRequest
		want error
	}{
		{"blank name", CreateHostRequest{RegionID: "sthlm", Name: "  "}, ErrNameRequired},
		{"zero max days", CreateHostRequest{RegionID: "sthlm", Name: "A", MaxDaysPerBooking: &zero}, ErrInvalidMaxDays},
		{"inactive region", CreateHostRequest{RegionID: "closed", Name: "A"}, ErrRegionInactive},
		{"unknown region", CreateHostRequest{RegionID: "nowhere", Name: "A"}, region.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUpdateHostMaxDays(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	h, err := svc.Create(ctx, CreateHostRequest{RegionID: "sthlm", Name: "A"})
	require.NoError(t, err)

	seven := 7
	updated, err := svc.Update(ctx, h.ID, UpdateHostRequest{MaxDaysPerBooking: &seven})
	require.NoError(t, err)
	assert.Equal(t, 7, updated.MaxDaysPerBooking)

	zero := 0
	_, err = svc.Update(ctx, h.ID, UpdateHostRequest{MaxDaysPerBooking: &zero})
	assert.ErrorIs(t, err, ErrInvalidMaxDays)
}

func TestMembersAndCanManage(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	h, err := svc.Create(ctx, CreateHostRequest{RegionID: "sthlm", Name: "A"})
	require.NoError(t, err)

	ok, err := svc.CanManage(ctx, h.ID, "staff", "host")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, svc.AddMember(ctx, h.ID, "staff"))
	assert.ErrorIs(t, svc.AddMember(ctx, h.ID, "staff"), ErrUserAlreadyMember)
	assert.ErrorIs(t, svc.AddMember(ctx, h.ID, "ghost"), ErrUserNotFound)
	assert.ErrorIs(t, svc.AddMember(ctx, "missing", "staff"), ErrNotFound)

	ok, err = svc.CanManage(ctx, h.ID, "staff", "host")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CanManage(ctx, h.ID, "someone", "admin")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CanManage(ctx, h.ID, "", "admin")
	require.NoError(t, err)
	assert.False(t, ok)
}
