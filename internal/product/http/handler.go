package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/noq-backend/internal/auth"
	"github.com/nekogravitycat/noq-backend/internal/host"
	"github.com/nekogravitycat/noq-backend/internal/pkg/request"
	"github.com/nekogravitycat/noq-backend/internal/pkg/response"
	"github.com/nekogravitycat/noq-backend/internal/product"
)

type ProductHandler struct {
	service     product.Service
	hostService host.Service
}

func NewHandler(service product.Service, hostService host.Service) *ProductHandler {
	return &ProductHandler{
		service:     service,
		hostService: hostService,
	}
}

func (h *ProductHandler) List(c *gin.Context) {
	var req ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	filter := product.Filter{
		HostID:    req.HostID,
		RegionID:  req.RegionID,
		Type:      product.Type(req.Type),
		Name:      req.Name,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: strings.ToUpper(req.SortOrder),
	}

	products, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ProductResponse, len(products))
	for i, p := range products {
		items[i] = NewProductResponse(p)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *ProductHandler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewProductResponse(p))
}

// Create adds a product to a host.
// Access Control: admin or a member of the host.
func (h *ProductHandler) Create(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	if !h.authorize(c, req.HostID) {
		return
	}

	p, err := h.service.Create(c.Request.Context(), product.CreateRequest{
		HostID:      req.HostID,
		Name:        req.Name,
		Description: req.Description,
		TotalPlaces: *req.TotalPlaces,
		Type:        product.Type(req.Type),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewProductResponse(p))
}

// Update edits a product.
// Access Control: admin or a member of the owning host.
func (h *ProductHandler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var body UpdateProductRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	existing, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !h.authorize(c, existing.HostID) {
		return
	}

	req := product.UpdateRequest{
		Name:        body.Name,
		Description: body.Description,
		TotalPlaces: body.TotalPlaces,
	}
	if body.Type != nil {
		t := product.Type(*body.Type)
		req.Type = &t
	}

	p, err := h.service.Update(c.Request.Context(), uri.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewProductResponse(p))
}

// Delete removes a product that no longer has bookings.
// Access Control: admin or a member of the owning host.
func (h *ProductHandler) Delete(c *gin.Context) {
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
	if !h.authorize(c, existing.HostID) {
		return
	}

	if err := h.service.Delete(c.Request.Context(), req.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ProductHandler) authorize(c *gin.Context, hostID string) bool {
	allowed, err := h.hostService.CanManage(c.Request.Context(), hostID, auth.GetUserID(c), auth.GetUserRole(c))
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
