package client

import (
	"context"
	"strings"

	"github.com/nekogravitycat/noq-backend/internal/region"
)

type CreateRequest struct {
	RegionID  string
	FirstName string
	LastName  string
	Gender    Gender
	Unokod    *string
	Email     *string
	Phone     *string
}

type UpdateRequest struct {
	RegionID  *string
	FirstName *string
	LastName  *string
	Gender    *Gender
	Unokod    *string
	Email     *string
	Phone     *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Client, error)
	GetByID(ctx context.Context, id string) (*Client, error)
	List(ctx context.Context, filter Filter) ([]*Client, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Client, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo          Repository
	regionService region.Service
}

func NewService(repo Repository, regionService region.Service) Service {
	return &service{
		repo:          repo,
		regionService: regionService,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Client, error) {
	first := strings.TrimSpace(req.FirstName)
	last := strings.TrimSpace(req.LastName)
	if first == "" || last == "" {
		return nil, ErrNameRequired
	}
	if !req.Gender.IsValid() {
		return nil, ErrInvalidGender
	}
	if _, err := s.regionService.GetByID(ctx, req.RegionID); err != nil {
		return nil, err
	}

	cl := &Client{
		RegionID:  req.RegionID,
		FirstName: first,
		LastName:  last,
		Gender:    req.Gender,
		Unokod:    optional(req.Unokod),
		Email:     optional(req.Email),
		Phone:     optional(req.Phone),
	}
	if err := s.repo.Create(ctx, cl); err != nil {
		return nil, err
	}
	return cl, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Client, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Client, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Client, error) {
	cl, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.RegionID != nil {
		if _, err := s.regionService.GetByID(ctx, *req.RegionID); err != nil {
			return nil, err
		}
		cl.RegionID = *req.RegionID
	}
	if req.FirstName != nil {
		cl.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		cl.LastName = strings.TrimSpace(*req.LastName)
	}
	if cl.FirstName == "" || cl.LastName == "" {
		return nil, ErrNameRequired
	}
	if req.Gender != nil {
		if !req.Gender.IsValid() {
			return nil, ErrInvalidGender
		}
		cl.Gender = *req.Gender
	}
	if req.Unokod != nil {
		cl.Unokod = optional(req.Unokod)
	}
	if req.Email != nil {
		cl.Email = optional(req.Email)
	}
	if req.Phone != nil {
		cl.Phone = optional(req.Phone)
	}

	if err := s.repo.Update(ctx, cl); err != nil {
		return nil, err
	}
	return cl, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// optional trims s and maps a blank value to nil.
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
