package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/noq-backend/internal/auth"
	"github.com/nekogravitycat/noq-backend/internal/booking"
	"github.com/nekogravitycat/noq-backend/internal/host"
	"github.com/nekogravitycat/noq-backend/internal/pkg/daterange"
	"github.com/nekogravitycat/noq-backend/internal/pkg/request"
	"github.com/nekogravitycat/noq-backend/internal/pkg/response"
	"github.com/nekogravitycat/noq-backend/internal/product"
	"github.com/nekogravitycat/noq-backend/internal/user"
)

type Handler struct {
	service        booking.Service
	hostService    host.Service
	productService product.Service
}

func NewHandler(service booking.Service, hostService host.Service, productService product.Service) *Handler {
	return &Handler{
		service:        service,
		hostService:    hostService,
		productService: productService,
	}
}

func (h *Handler) List(c *gin.Context) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	filter := booking.Filter{
		ProductID: req.ProductID,
		HostID:    req.HostID,
		ClientID:  req.ClientID,
		Status:    booking.Status(req.Status),
		StartFrom: parseOptionalDate(req.StartFrom),
		StartTo:   parseOptionalDate(req.StartTo),
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: strings.ToUpper(req.SortOrder),
	}

	bookings, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// Create books a client onto a product.
// Any staff member may create a pending booking; other statuses need the status-change permission.
func (h *Handler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	start, err := daterange.Parse(req.StartDate)
	if err != nil {
		response.BadRequest(c, "invalid start_date", err)
		return
	}
	end, err := daterange.Parse(req.EndDate)
	if err != nil {
		response.BadRequest(c, "invalid end_date", err)
		return
	}

	status := booking.Status(req.Status)
	if status != "" && status != booking.StatusPending {
		p, err := h.productService.GetByID(c.Request.Context(), req.ProductID)
		if err != nil {
			response.Error(c, err)
			return
		}
		if !h.canChangeStatus(c, p.HostID) {
			return
		}
	}

	b, err := h.service.Create(c.Request.Context(), booking.CreateRequest{
		ProductID: req.ProductID,
		ClientID:  req.ClientID,
		StartDate: start,
		EndDate:   end,
		Status:    status,
		CreatedBy: auth.GetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

// UpdateStatus transitions a booking.
// Access Control: admin, caseworker, or a member of the product's host.
func (h *Handler) UpdateStatus(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var body UpdateStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	existing, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !h.canChangeStatus(c, existing.HostID) {
		return
	}

	b, err := h.service.UpdateStatus(c.Request.Context(), uri.ID, booking.Status(body.Status))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// Delete cancels a booking.
// Access Control: admin, caseworker, a member of the product's host, or the booking's creator.
func (h *Handler) Delete(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	existing, err := h.service.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	isCreator := existing.CreatedBy != nil && *existing.CreatedBy == auth.GetUserID(c)
	if !isCreator && !h.canChangeStatus(c, existing.HostID) {
		return
	}

	if err := h.service.Delete(c.Request.Context(), req.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// canChangeStatus writes a 403 and returns false unless the caller may manage bookings of hostID.
// The role is the one reloaded by the route's active-account middleware.
func (h *Handler) canChangeStatus(c *gin.Context, hostID string) bool {
	role := auth.GetUserRole(c)
	if role == string(user.RoleCaseworker) {
		return true
	}

	allowed, err := h.hostService.CanManage(c.Request.Context(), hostID, auth.GetUserID(c), role)
	if err != nil {
		response.Error(c, err)
		return false
	}
	if !allowed {
		response.Error(c, booking.ErrPermissionDenied)
		return false
	}
	return true
}

// parseOptionalDate parses a date already validated by binding.
func parseOptionalDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	d, err := daterange.Parse(s)
	if err != nil {
		return nil
	}
	return &d
}
