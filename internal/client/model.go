package client

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/noq-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.NewKind(http.StatusNotFound, apperror.KindNotFound, "client not found")
	ErrNameRequired      = apperror.NewKind(http.StatusBadRequest, apperror.KindInvalidInput, "first_name and last_name are required")
	ErrInvalidGender     = apperror.NewKind(http.StatusBadRequest, apperror.KindInvalidInput, "invalid gender")
	ErrUnokodTaken       = apperror.NewKind(http.StatusConflict, apperror.KindConflict, "unokod already registered")
	ErrClientHasBookings = apperror.NewKind(http.StatusConflict, apperror.KindConflict, "client still has bookings")
)

// Gender is the gender marker of a client, matched against gender-restricted products.
type Gender string

const (
	GenderFemale Gender = "female"
	GenderMale   Gender = "male"
	GenderOther  Gender = "other"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderFemale, GenderMale, GenderOther:
		return true
	}
	return false
}

// Client is a guest who can hold bookings.
type Client struct {
	ID        string
	RegionID  string
	FirstName string
	LastName  string
	Gender    Gender
	// Unokod is an optional external identifier used by social services.
	Unokod    *string
	Email     *string
	Phone     *string
	CreatedAt time.Time
}

// FullName joins first and last name the way booking reads render it.
func (c *Client) FullName() string {
	return c.FirstName + " " + c.LastName
}

// Filter defines parameters for listing clients.
type Filter struct {
	RegionID string
	Name     string // Search in first or last name
	Gender   Gender
	Unokod   string

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
