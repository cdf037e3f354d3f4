package http

import (
	"time"

	"github.com/nekogravitycat/noq-backend/internal/client"
	"github.com/nekogravitycat/noq-backend/internal/pkg/request"
)

type ClientResponse struct {
	ID        string    `json:"id"`
	RegionID  string    `json:"region_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Gender    string    `json:"gender"`
	Unokod    *string   `json:"unokod"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

func NewClientResponse(cl *client.Client) ClientResponse {
	return ClientResponse{
		ID:        cl.ID,
		RegionID:  cl.RegionID,
		FirstName: cl.FirstName,
		LastName:  cl.LastName,
		Gender:    string(cl.Gender),
		Unokod:    cl.Unokod,
		Email:     cl.Email,
		Phone:     cl.Phone,
		CreatedAt: cl.CreatedAt,
	}
}

type ListClientsRequest struct {
	request.ListParams
	RegionID string `form:"region_id" binding:"omitempty,uuid"`
	Name     string `form:"name"`
	Gender   string `form:"gender" binding:"omitempty,oneof=female male other"`
	Unokod   string `form:"unokod"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=first_name last_name created_at"`
}

type CreateClientRequest struct {
	RegionID  string  `json:"region_id" binding:"required,uuid"`
	FirstName string  `json:"first_name" binding:"required"`
	LastName  string  `json:"last_name" binding:"required"`
	Gender    string  `json:"gender" binding:"required,oneof=female male other"`
	Unokod    *string `json:"unokod"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Phone     *string `json:"phone"`
}

type UpdateClientRequest struct {
	RegionID  *string `json:"region_id" binding:"omitempty,uuid"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Gender    *string `json:"gender" binding:"omitempty,oneof=female male other"`
	Unokod    *string `json:"unokod"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Phone     *string `json:"phone"`
}
