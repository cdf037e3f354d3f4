package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/noq-backend/internal/client"
	"github.com/nekogravitycat/noq-backend/internal/pkg/request"
	"github.com/nekogravitycat/noq-backend/internal/pkg/response"
)

type ClientHandler struct {
	service client.Service
}

func NewHandler(service client.Service) *ClientHandler {
	return &ClientHandler{service: service}
}

func (h *ClientHandler) List(c *gin.Context) {
	var req ListClientsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	filter := client.Filter{
		RegionID:  req.RegionID,
		Name:      req.Name,
		Gender:    client.Gender(req.Gender),
		Unokod:    req.Unokod,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: strings.ToUpper(req.SortOrder),
	}

	clients, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ClientResponse, len(clients))
	for i, cl := range clients {
		items[i] = NewClientResponse(cl)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *ClientHandler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	cl, err := h.service.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewClientResponse(cl))
}

func (h *ClientHandler) Create(c *gin.Context) {
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	cl, err := h.service.Create(c.Request.Context(), client.CreateRequest{
		RegionID:  req.RegionID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Gender:    client.Gender(req.Gender),
		Unokod:    req.Unokod,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewClientResponse(cl))
}

func (h *ClientHandler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var body UpdateClientRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	req := client.UpdateRequest{
		RegionID:  body.RegionID,
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Unokod:    body.Unokod,
		Email:     body.Email,
		Phone:     body.Phone,
	}
	if body.Gender != nil {
		g := client.Gender(*body.Gender)
		req.Gender = &g
	}

	cl, err := h.service.Update(c.Request.Context(), uri.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewClientResponse(cl))
}

func (h *ClientHandler) Delete(c *gin.Context) {
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
