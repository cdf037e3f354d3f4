package product

import (
	"context"
	"strings"

	"github.com/nekogravitycat/noq-backend/internal/host"
	"github.com/nekogravitycat/noq-backend/internal/logger"
)

type CreateRequest struct {
	HostID      string
	Name        string
	Description string
	TotalPlaces int
	Type        Type
}

type UpdateRequest struct {
	Name        *string
	Description *string
	TotalPlaces *int
	Type        *Type
}

// AvailabilityRefresher rebuilds the availability projection of a product.
type AvailabilityRefresher interface {
	RefreshProduct(ctx context.Context, productID string) error
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, filter Filter) ([]*Product, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Product, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo        Repository
	hostService host.Service
	refresher   AvailabilityRefresher
}

// NewService creates a product service. refresher may be nil; when set it runs after a capacity change.
func NewService(repo Repository, hostService host.Service, refresher AvailabilityRefresher) Service {
	return &service{
		repo:        repo,
		hostService: hostService,
		refresher:   refresher,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if req.TotalPlaces < 0 {
		return nil, ErrInvalidTotalPlaces
	}
	if req.Type == "" {
		req.Type = TypeGeneral
	}
	if !req.Type.IsValid() {
		return nil, ErrInvalidType
	}

	h, err := s.hostService.GetByID(ctx, req.HostID)
	if err != nil {
		return nil, err
	}
	if !h.IsActive {
		return nil, ErrHostInactive
	}

	p := &Product{
		HostID:      h.ID,
		HostName:    h.Name,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		TotalPlaces: req.TotalPlaces,
		Type:        req.Type,
		HostMaxDays: h.MaxDaysPerBooking,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Product, int, error) {
	return s.repo.List(ctx, filter)
}

// Update edits a product. Existing bookings stay valid when total_places shrinks.
func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	capacityChanged := false
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrEmptyName
		}
		p.Name = name
	}
	if req.Description != nil {
		p.Description = strings.TrimSpace(*req.Description)
	}
	if req.TotalPlaces != nil {
		if *req.TotalPlaces < 0 {
			return nil, ErrInvalidTotalPlaces
		}
		capacityChanged = *req.TotalPlaces != p.TotalPlaces
		p.TotalPlaces = *req.TotalPlaces
	}
	if req.Type != nil {
		if !req.Type.IsValid() {
			return nil, ErrInvalidType
		}
		p.Type = *req.Type
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	if capacityChanged && s.refresher != nil {
		// The nightly reconcile repairs the projection if this fails.
		if err := s.refresher.RefreshProduct(ctx, p.ID); err != nil {
			logger.WarnContext(ctx, "availability refresh after capacity change failed",
				"product_id", p.ID, "error", err)
		}
	}
	return p, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
