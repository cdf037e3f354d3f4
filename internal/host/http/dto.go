package http

import (
	"time"

	"github.com/nekogravitycat/noq-backend/internal/host"
	"github.com/nekogravitycat/noq-backend/internal/pkg/request"
)

// ListHostsRequest defines query parameters for listing hosts.
type ListHostsRequest struct {
	request.ListParams
	RegionID string `form:"region_id" binding:"omitempty,uuid"`
	Name     string `form:"name"`
	City     string `form:"city"`
	IsActive *bool  `form:"is_active"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=name city max_days_per_booking created_at"`
}

// HostResponse is the API shape of a host.
type HostResponse struct {
	ID                string    `json:"id"`
	RegionID          string    `json:"region_id"`
	RegionName        string    `json:"region_name"`
	Name              string    `json:"name"`
	Street            string    `json:"street"`
	Postcode          string    `json:"postcode"`
	City              string    `json:"city"`
	Longitude         *float64  `json:"longitude"`
	Latitude          *float64  `json:"latitude"`
	MaxDaysPerBooking int       `json:"max_days_per_booking"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
}

func NewHostResponse(h *host.Host) HostResponse {
	return HostResponse{
		ID:                h.ID,
		RegionID:          h.RegionID,
		RegionName:        h.RegionName,
		Name:              h.Name,
		Street:            h.Street,
		Postcode:          h.Postcode,
		City:              h.City,
		Longitude:         h.Longitude,
		Latitude:          h.Latitude,
		MaxDaysPerBooking: h.MaxDaysPerBooking,
		IsActive:          h.IsActive,
		CreatedAt:         h.CreatedAt,
	}
}

// CreateHostRequest is the payload for POST /hosts.
type CreateHostRequest struct {
	RegionID          string   `json:"region_id" binding:"required,uuid"`
	Name              string   `json:"name" binding:"required"`
	Street            string   `json:"street"`
	Postcode          string   `json:"postcode"`
	City              string   `json:"city"`
	Longitude         *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
	Latitude          *float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	MaxDaysPerBooking *int     `json:"max_days_per_booking" binding:"omitempty,min=1"`
}

// UpdateHostRequest is the payload for PATCH /hosts/:id.
type UpdateHostRequest struct {
	Name              *string  `json:"name"`
	Street            *string  `json:"street"`
	Postcode          *string  `json:"postcode"`
	City              *string  `json:"city"`
	Longitude         *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
	Latitude          *float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	MaxDaysPerBooking *int     `json:"max_days_per_booking" binding:"omitempty,min=1"`
	IsActive          *bool    `json:"is_active"`
}

// HostMemberRequest binds /hosts/:id/members/:user_id.
type HostMemberRequest struct {
	ID     string `uri:"id" binding:"required,uuid"`
	UserID string `uri:"user_id" binding:"required,uuid"`
}

// AddMemberRequest is the payload for POST /hosts/:id/members.
type AddMemberRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

// ListMembersRequest defines query parameters for listing members.
type ListMembersRequest struct {
	request.ListParams
}

// MemberResponse is the API shape of a host member.
type MemberResponse struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName *string   `json:"display_name"`
	Role        string    `json:"role"`
	AddedAt     time.Time `json:"added_at"`
}

func NewMemberResponse(m *host.Member) MemberResponse {
	return MemberResponse{
		UserID:      m.UserID,
		Email:       m.Email,
		DisplayName: m.DisplayName,
		Role:        m.Role,
		AddedAt:     m.AddedAt,
	}
}
