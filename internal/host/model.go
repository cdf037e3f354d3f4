package host

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/noq-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.NewKind(http.StatusNotFound, apperror.KindNotFound, "host not found")
	ErrNameRequired      = apperror.NewKind(http.StatusBadRequest, apperror.KindInvalidInput, "host name is required")
	ErrInvalidMaxDays    = apperror.NewKind(http.StatusBadRequest, apperror.KindInvalidInput, "max_days_per_booking must be at least 1")
	ErrRegionInactive    = apperror.NewKind(http.StatusBadRequest, apperror.KindInvalidInput, "region is inactive")
	ErrUserNotFound      = apperror.NewKind(http.StatusNotFound, apperror.KindNotFound, "user not found")
	ErrUserAlreadyMember = apperror.NewKind(http.StatusConflict, apperror.KindConflict, "user is already a member of this host")
	ErrUserNotMember     = apperror.NewKind(http.StatusNotFound, apperror.KindNotFound, "user is not a member of this host")
)

// DefaultMaxDaysPerBooking applies when a host is created without an explicit stay limit.
const DefaultMaxDaysPerBooking = 1

// Host is a shelter operating one or more products within a region.
type Host struct {
	ID                string
	RegionID          string
	RegionName        string
	Name              string
	Street            string
	Postcode          string
	City              string
	Longitude         *float64
	Latitude          *float64
	MaxDaysPerBooking int
	IsActive          bool
	CreatedAt         time.Time
}

// HostFilter defines parameters for listing hosts.
type HostFilter struct {
	RegionID string
	Name     string
	City     string
	IsActive *bool
	MemberID string

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Member is a staff user attached to a host.
type Member struct {
	UserID      string
	Email       string
	DisplayName *string
	Role        string
	AddedAt     time.Time
}

// MemberFilter defines pagination for listing members.
type MemberFilter struct {
	Page      int
	PageSize  int
	SortOrder string
}
