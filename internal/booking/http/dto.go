package http

import (
	"time"

	"github.com/nekogravitycat/noq-backend/internal/booking"
	"github.com/nekogravitycat/noq-backend/internal/pkg/daterange"
	"github.com/nekogravitycat/noq-backend/internal/pkg/request"
)

// ListBookingsRequest defines query parameters for listing bookings.
type ListBookingsRequest struct {
	request.ListParams
	ProductID string `form:"product_id" binding:"omitempty,uuid"`
	HostID    string `form:"host_id" binding:"omitempty,uuid"`
	ClientID  string `form:"client_id" binding:"omitempty,uuid"`
	Status    string `form:"status" binding:"omitempty,oneof=pending accepted declined in_queue reserved confirmed checked_in completed"`
	StartFrom string `form:"start_from" binding:"omitempty,datetime=2006-01-02"`
	StartTo   string `form:"start_to" binding:"omitempty,datetime=2006-01-02"`
	SortBy    string `form:"sort_by" binding:"omitempty,oneof=start_date end_date created_at status"`
}

// CreateBookingRequest is the payload for POST /bookings.
type CreateBookingRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	ClientID  string `json:"client_id" binding:"required,uuid"`
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" binding:"required,datetime=2006-01-02"`
	Status    string `json:"status" binding:"omitempty,oneof=pending accepted declined in_queue reserved confirmed checked_in completed"`
}

// UpdateStatusRequest is the payload for PATCH /bookings/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending accepted declined in_queue reserved confirmed checked_in completed"`
}

type ProductTag struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	HostID string `json:"host_id"`
}

type ClientTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type BookingResponse struct {
	ID        string     `json:"id"`
	Product   ProductTag `json:"product"`
	Client    ClientTag  `json:"client"`
	StartDate string     `json:"start_date"`
	EndDate   string     `json:"end_date"`
	Nights    int        `json:"nights"`
	Status    string     `json:"status"`
	CreatedBy *string    `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:        b.ID,
		Product:   ProductTag{ID: b.ProductID, Name: b.ProductName, HostID: b.HostID},
		Client:    ClientTag{ID: b.ClientID, Name: b.ClientName},
		StartDate: daterange.Key(b.StartDate),
		EndDate:   daterange.Key(b.EndDate),
		Nights:    daterange.DaysBetween(b.StartDate, b.EndDate),
		Status:    string(b.Status),
		CreatedBy: b.CreatedBy,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
