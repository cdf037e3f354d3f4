package http

import (
	"time"

	"github.com/nekogravitycat/noq-backend/internal/pkg/request"
	"github.com/nekogravitycat/noq-backend/internal/product"
)

type ProductResponse struct {
	ID                string    `json:"id"`
	HostID            string    `json:"host_id"`
	HostName          string    `json:"host_name"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	TotalPlaces       int       `json:"total_places"`
	Type              string    `json:"type"`
	MaxDaysPerBooking int       `json:"max_days_per_booking"`
	CreatedAt         time.Time `json:"created_at"`
}

func NewProductResponse(p *product.Product) ProductResponse {
	return ProductResponse{
		ID:                p.ID,
		HostID:            p.HostID,
		HostName:          p.HostName,
		Name:              p.Name,
		Description:       p.Description,
		TotalPlaces:       p.TotalPlaces,
		Type:              string(p.Type),
		MaxDaysPerBooking: p.HostMaxDays,
		CreatedAt:         p.CreatedAt,
	}
}

type ListProductsRequest struct {
	request.ListParams
	HostID   string `form:"host_id" binding:"omitempty,uuid"`
	RegionID string `form:"region_id" binding:"omitempty,uuid"`
	Type     string `form:"type" binding:"omitempty,oneof=general woman_only"`
	Name     string `form:"name"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=name total_places created_at"`
}

type CreateProductRequest struct {
	HostID      string `json:"host_id" binding:"required,uuid"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	TotalPlaces *int   `json:"total_places" binding:"required,min=0"`
	Type        string `json:"type" binding:"omitempty,oneof=general woman_only"`
}

type UpdateProductRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	TotalPlaces *int    `json:"total_places" binding:"omitempty,min=0"`
	Type        *string `json:"type" binding:"omitempty,oneof=general woman_only"`
}
