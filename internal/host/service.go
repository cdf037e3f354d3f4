package host

import (
	"context"
	"errors"
	"strings"

	"github.com/nekogravitycat/noq-backend/internal/logger"
	"github.com/nekogravitycat/noq-backend/internal/region"
	"github.com/nekogravitycat/noq-backend/internal/user"
)

// CreateHostRequest defines the fields for creating a host.
type CreateHostRequest struct {
	RegionID          string
	Name              string
	Street            string
	Postcode          string
	City              string
	Longitude         *float64
	Latitude          *float64
	MaxDaysPerBooking *int
}

// UpdateHostRequest defines the fields that can be updated. Nil fields are left unchanged.
type UpdateHostRequest struct {
	Name              *string
	Street            *string
	Postcode          *string
	City              *string
	Longitude         *float64
	Latitude          *float64
	MaxDaysPerBooking *int
	IsActive          *bool
}

// Service defines business logic for hosts and their staff.
type Service interface {
	Create(ctx context.Context, req CreateHostRequest) (*Host, error)
	GetByID(ctx context.Context, id string) (*Host, error)
	List(ctx context.Context, filter HostFilter) ([]*Host, int, error)
	Update(ctx context.Context, id string, req UpdateHostRequest) (*Host, error)
	Delete(ctx context.Context, id string) error
	// Member methods
	AddMember(ctx context.Context, hostID, userID string) error
	RemoveMember(ctx context.Context, hostID, userID string) error
	ListMembers(ctx context.Context, hostID string, filter MemberFilter) ([]*Member, int, error)
	// Permission methods
	CanManage(ctx context.Context, hostID, userID, role string) (bool, error)
}

type service struct {
	repo          Repository
	regionService region.Service
	userService   user.Service
}

// NewService creates a new host service.
func NewService(repo Repository, regionService region.Service, userService user.Service) Service {
	return &service{
		repo:          repo,
		regionService: regionService,
		userService:   userService,
	}
}

func (s *service) Create(ctx context.Context, req CreateHostRequest) (*Host, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	maxDays := DefaultMaxDaysPerBooking
	if req.MaxDaysPerBooking != nil {
		maxDays = *req.MaxDaysPerBooking
	}
	if maxDays < 1 {
		return nil, ErrInvalidMaxDays
	}

	reg, err := s.regionService.GetByID(ctx, req.RegionID)
	if err != nil {
		return nil, err
	}
	if !reg.IsActive {
		return nil, ErrRegionInactive
	}

	h := &Host{
		RegionID:          reg.ID,
		RegionName:        reg.Name,
		Name:              name,
		Street:            strings.TrimSpace(req.Street),
		Postcode:          strings.TrimSpace(req.Postcode),
		City:              strings.TrimSpace(req.City),
		Longitude:         req.Longitude,
		Latitude:          req.Latitude,
		MaxDaysPerBooking: maxDays,
		IsActive:          true,
	}
	if err := s.repo.Create(ctx, h); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "host created", "host_id", h.ID, "region_id", h.RegionID)
	return h, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Host, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter HostFilter) ([]*Host, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateHostRequest) (*Host, error) {
	h, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		h.Name = name
	}
	if req.Street != nil {
		h.Street = strings.TrimSpace(*req.Street)
	}
	if req.Postcode != nil {
		h.Postcode = strings.TrimSpace(*req.Postcode)
	}
	if req.City != nil {
		h.City = strings.TrimSpace(*req.City)
	}
	if req.Longitude != nil {
		h.Longitude = req.Longitude
	}
	if req.Latitude != nil {
		h.Latitude = req.Latitude
	}
	if req.MaxDaysPerBooking != nil {
		if *req.MaxDaysPerBooking < 1 {
			return nil, ErrInvalidMaxDays
		}
		h.MaxDaysPerBooking = *req.MaxDaysPerBooking
	}
	if req.IsActive != nil {
		h.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// ------------------------
//     Member methods
// ------------------------

func (s *service) AddMember(ctx context.Context, hostID, userID string) error {
	if _, err := s.repo.GetByID(ctx, hostID); err != nil {
		return err
	}

	if _, err := s.userService.GetByID(ctx, userID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	return s.repo.AddMember(ctx, hostID, userID)
}

func (s *service) RemoveMember(ctx context.Context, hostID, userID string) error {
	if _, err := s.repo.GetByID(ctx, hostID); err != nil {
		return err
	}
	return s.repo.RemoveMember(ctx, hostID, userID)
}

func (s *service) ListMembers(ctx context.Context, hostID string, filter MemberFilter) ([]*Member, int, error) {
	if _, err := s.repo.GetByID(ctx, hostID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListMembers(ctx, hostID, filter)
}

// CanManage reports whether the user may act on the host's products and bookings.
// Administrators may manage every host; everyone else must be a member.
func (s *service) CanManage(ctx context.Context, hostID, userID, role string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	if role == string(user.RoleAdmin) {
		return true, nil
	}
	return s.repo.IsMember(ctx, hostID, userID)
}
