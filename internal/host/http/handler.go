package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/noq-backend/internal/auth"
	"github.com/nekogravitycat/noq-backend/internal/host"
	"github.com/nekogravitycat/noq-backend/internal/pkg/request"
	"github.com/nekogravitycat/noq-backend/internal/pkg/response"
)

type HostHandler struct {
	service host.Service
}

func NewHandler(service host.Service) *HostHandler {
	return &HostHandler{service: service}
}

// List retrieves a paginated list of hosts with optional filtering.
func (h *HostHandler) List(c *gin.Context) {
	var req ListHostsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	filter := host.HostFilter{
		RegionID:  req.RegionID,
		Name:      req.Name,
		City:      req.City,
		IsActive:  req.IsActive,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: strings.ToUpper(req.SortOrder),
	}

	hosts, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]HostResponse, len(hosts))
	for i, hst := range hosts {
		items[i] = NewHostResponse(hst)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

// Get retrieves a host by its ID.
func (h *HostHandler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	hst, err := h.service.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewHostResponse(hst))
}

// Create adds a new host.
// Access Control: admin only.
func (h *HostHandler) Create(c *gin.Context) {
	var req CreateHostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	hst, err := h.service.Create(c.Request.Context(), host.CreateHostRequest{
		RegionID:          req.RegionID,
		Name:              req.Name,
		Street:            req.Street,
		Postcode:          req.Postcode,
		City:              req.City,
		Longitude:         req.Longitude,
		Latitude:          req.Latitude,
		MaxDaysPerBooking: req.MaxDaysPerBooking,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewHostResponse(hst))
}

// Update modifies a host.
// Access Control: admin or a member of the host.
func (h *HostHandler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var body UpdateHostRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	if !h.authorize(c, uri.ID) {
		return
	}

	hst, err := h.service.Update(c.Request.Context(), uri.ID, host.UpdateHostRequest{
		Name:              body.Name,
		Street:            body.Street,
		Postcode:          body.Postcode,
		City:              body.City,
		Longitude:         body.Longitude,
		Latitude:          body.Latitude,
		MaxDaysPerBooking: body.MaxDaysPerBooking,
		IsActive:          body.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewHostResponse(hst))
}

// Delete soft-deletes a host.
// Access Control: admin only.
func (h *HostHandler) Delete(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), req.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListMembers retrieves the staff of a host.
// Access Control: admin or a member of the host.
func (h *HostHandler) ListMembers(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var req ListMembersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	if !h.authorize(c, uri.ID) {
		return
	}

	members, total, err := h.service.ListMembers(c.Request.Context(), uri.ID, host.MemberFilter{
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortOrder: strings.ToUpper(req.SortOrder),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]MemberResponse, len(members))
	for i, m := range members {
		items[i] = NewMemberResponse(m)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

// AddMember attaches a staff user to a host.
// Access Control: admin only.
func (h *HostHandler) AddMember(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var body AddMemberRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	if err := h.service.AddMember(c.Request.Context(), uri.ID, body.UserID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusCreated)
}

// RemoveMember detaches a staff user from a host.
// Access Control: admin only.
func (h *HostHandler) RemoveMember(c *gin.Context) {
	var req HostMemberRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	if err := h.service.RemoveMember(c.Request.Context(), req.ID, req.UserID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// authorize writes a 403 and returns false unless the caller may manage the host.
func (h *HostHandler) authorize(c *gin.Context, hostID string) bool {
	allowed, err := h.service.CanManage(c.Request.Context(), hostID, auth.GetUserID(c), auth.GetUserRole(c))
	if err != nil {
		response.Error(c, err)
		return false
	}
	if !allowed {
		response.Forbidden(c, "permission denied")
		return false
	}
	return true
}
