package region

import (
	"context"
	"strings"
)

// UpdateRegionRequest defines the fields that can be updated.
type UpdateRegionRequest struct {
	Name     *string
	IsActive *bool
}

// Service defines business logic for regions.
type Service interface {
	Create(ctx context.Context, name string) (*Region, error)
	GetByID(ctx context.Context, id string) (*Region, error)
	List(ctx context.Context, filter RegionFilter) ([]*Region, int, error)
	Update(ctx context.Context, id string, req UpdateRegionRequest) (*Region, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

// NewService creates a new region service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, name string) (*Region, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	reg := &Region{
		Name:     name,
		IsActive: true,
	}
	if err := s.repo.Create(ctx, reg); err != nil {
		return nil, err
	}
	return reg, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Region, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter RegionFilter) ([]*Region, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRegionRequest) (*Region, error) {
	reg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		reg.Name = name
	}
	if req.IsActive != nil {
		reg.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, reg); err != nil {
		return nil, err
	}
	return reg, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
