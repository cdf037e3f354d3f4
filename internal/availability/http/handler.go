package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/noq-backend/internal/availability"
	"github.com/nekogravitycat/noq-backend/internal/booking"
	"github.com/nekogravitycat/noq-backend/internal/pkg/daterange"
	"github.com/nekogravitycat/noq-backend/internal/pkg/request"
	"github.com/nekogravitycat/noq-backend/internal/pkg/response"
)

type Handler struct {
	service        availability.Service
	bookingService booking.Service
}

func NewHandler(service availability.Service, bookingService booking.Service) *Handler {
	return &Handler{
		service:        service,
		bookingService: bookingService,
	}
}

// PlacesLeft returns the free places of a product on one date.
func (h *Handler) PlacesLeft(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var req PlacesLeftRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	date, err := daterange.Parse(req.Date)
	if err != nil {
		response.BadRequest(c, "invalid date", err)
		return
	}

	left, err := h.service.GetPlacesLeft(c.Request.Context(), uri.ID, date)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, PlacesLeftResponse{
		ProductID:  uri.ID,
		Date:       daterange.Key(date),
		PlacesLeft: left,
	})
}

// Calendar returns free places for every date of [start, end).
func (h *Handler) Calendar(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var req RangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	span, ok := parseRange(c, req)
	if !ok {
		return
	}

	days, err := h.service.ListRange(c.Request.Context(), uri.ID, span)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewCalendarResponse(uri.ID, span, days))
}

// BookingCounts returns how many capacity-counting bookings cover each date of [start, end).
func (h *Handler) BookingCounts(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var req BookingCountsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	span, ok := parseRange(c, req.RangeRequest)
	if !ok {
		return
	}

	counts, err := h.bookingService.CountPerDate(c.Request.Context(), uri.ID, span, req.ExcludeBookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, BookingCountsResponse{
		ProductID: uri.ID,
		Start:     daterange.Key(span.Start),
		End:       daterange.Key(span.End),
		Counts:    counts,
	})
}

// parseRange converts bound query dates, writing a 400 on failure. Ordering is checked by the services.
func parseRange(c *gin.Context, req RangeRequest) (daterange.Range, bool) {
	start, err := daterange.Parse(req.Start)
	if err != nil {
		response.BadRequest(c, "invalid start", err)
		return daterange.Range{}, false
	}
	end, err := daterange.Parse(req.End)
	if err != nil {
		response.BadRequest(c, "invalid end", err)
		return daterange.Range{}, false
	}
	return daterange.Range{Start: start, End: end}, true
}
