package http

import (
	"time"

	"github.com/nekogravitycat/noq-backend/internal/pkg/request"
	"github.com/nekogravitycat/noq-backend/internal/region"
)

// ListRegionsRequest defines query parameters for listing regions.
type ListRegionsRequest struct {
	request.ListParams
	Name     string `form:"name"`
	IsActive *bool  `form:"is_active"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=name created_at"`
}

// RegionResponse is the API shape of a region.
type RegionResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateRegionRequest is the payload for POST /regions.
type CreateRegionRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateRegionRequest is the payload for PATCH /regions/:id.
type UpdateRegionRequest struct {
	Name     *string `json:"name"`
	IsActive *bool   `json:"is_active"`
}

func NewRegionResponse(r *region.Region) RegionResponse {
	return RegionResponse{
		ID:        r.ID,
		Name:      r.Name,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt,
	}
}
