package product

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/noq-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.NewKind(http.StatusNotFound, apperror.KindNotFound, "product not found")
	ErrEmptyName          = apperror.NewKind(http.StatusBadRequest, apperror.KindInvalidInput, "name cannot be empty")
	ErrInvalidType        = apperror.NewKind(http.StatusBadRequest, apperror.KindInvalidInput, "invalid product type")
	ErrInvalidTotalPlaces = apperror.NewKind(http.StatusBadRequest, apperror.KindInvalidInput, "total_places cannot be negative")
	ErrHostInactive       = apperror.NewKind(http.StatusBadRequest, apperror.KindInvalidInput, "host is inactive")
	ErrProductHasBookings = apperror.NewKind(http.StatusConflict, apperror.KindConflict, "product still has bookings")
)

// Type tags a product as open to everyone or gender-restricted.
type Type string

const (
	TypeGeneral   Type = "general"
	TypeWomanOnly Type = "woman_only"
)

// ValidTypes lists the accepted product types.
var ValidTypes = []Type{TypeGeneral, TypeWomanOnly}

func (t Type) IsValid() bool {
	for _, v := range ValidTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Product is a bookable offering at a host, such as a room type or a set of beds.
type Product struct {
	ID          string
	HostID      string
	HostName    string
	Name        string
	Description string
	TotalPlaces int
	Type        Type
	CreatedAt   time.Time

	// HostMaxDays is the owning host's max_days_per_booking.
	HostMaxDays int
}

// RequiredGender returns the client gender a restricted product accepts, or "" when unrestricted.
func (p *Product) RequiredGender() string {
	if p.Type == TypeWomanOnly {
		return "female"
	}
	return ""
}

// Filter defines parameters for listing products.
type Filter struct {
	HostID   string
	RegionID string
	Type     Type
	Name     string

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
