package http

import (
	"github.com/nekogravitycat/noq-backend/internal/availability"
	"github.com/nekogravitycat/noq-backend/internal/pkg/daterange"
)

// PlacesLeftRequest binds ?date= for a single-day lookup.
type PlacesLeftRequest struct {
	Date string `form:"date" binding:"required,datetime=2006-01-02"`
}

// RangeRequest binds ?start=&end= as a half-open date range.
type RangeRequest struct {
	Start string `form:"start" binding:"required,datetime=2006-01-02"`
	End   string `form:"end" binding:"required,datetime=2006-01-02"`
}

// BookingCountsRequest binds the booking-count query.
type BookingCountsRequest struct {
	RangeRequest
	ExcludeBookingID string `form:"exclude_booking_id" binding:"omitempty,uuid"`
}

type PlacesLeftResponse struct {
	ProductID  string `json:"product_id"`
	Date       string `json:"date"`
	PlacesLeft int    `json:"places_left"`
}

type DayResponse struct {
	Date       string `json:"date"`
	PlacesLeft int    `json:"places_left"`
	Projected  bool   `json:"projected"`
}

type CalendarResponse struct {
	ProductID string        `json:"product_id"`
	Start     string        `json:"start"`
	End       string        `json:"end"`
	Days      []DayResponse `json:"days"`
}

func NewCalendarResponse(productID string, span daterange.Range, days []availability.DayPlaces) CalendarResponse {
	items := make([]DayResponse, len(days))
	for i, d := range days {
		items[i] = DayResponse{
			Date:       daterange.Key(d.Date),
			PlacesLeft: d.PlacesLeft,
			Projected:  d.Projected,
		}
	}
	return CalendarResponse{
		ProductID: productID,
		Start:     daterange.Key(span.Start),
		End:       daterange.Key(span.End),
		Days:      items,
	}
}

type BookingCountsResponse struct {
	ProductID string                  `json:"product_id"`
	Start     string                  `json:"start"`
	End       string                  `json:"end"`
	Counts    availability.DateCounts `json:"counts"`
}
