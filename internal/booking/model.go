package booking

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/noq-backend/internal/availability"
	"github.com/nekogravitycat/noq-backend/internal/pkg/apperror"
)

var (
	ErrNotFound             = apperror.NewKind(http.StatusNotFound, apperror.KindNotFound, "booking not found")
	ErrInvalidStatus        = apperror.NewKind(http.StatusBadRequest, apperror.KindInvalidInput, "invalid booking status")
	ErrMaxDurationExceeded  = apperror.NewKind(http.StatusUnprocessableEntity, apperror.KindPolicyViolation, "max duration exceeded")
	ErrStartBeforeToday     = apperror.NewKind(http.StatusBadRequest, apperror.KindDateRange, "start before today")
	ErrEndBeforeStart       = apperror.NewKind(http.StatusBadRequest, apperror.KindDateRange, "end before start")
	ErrGenderMismatch       = apperror.NewKind(http.StatusUnprocessableEntity, apperror.KindPolicyViolation, "gender mismatch")
	ErrDuplicateBookingDate = apperror.NewKind(http.StatusConflict, apperror.KindConflict, "duplicate booking date")
	ErrOverlappingBooking   = apperror.NewKind(http.StatusConflict, apperror.KindConflict, "overlapping booking")
	ErrCapacityExceeded     = apperror.NewKind(http.StatusConflict, apperror.KindCapacity, "no places left for the requested dates")
	ErrConcurrencyConflict  = apperror.NewKind(http.StatusConflict, apperror.KindConcurrencyConflict, "booking conflicted with a concurrent change, please retry")
	ErrPermissionDenied     = apperror.NewKind(http.StatusForbidden, apperror.KindForbidden, "permission denied")
)

// Booking is a client's stay at a product over the nights [StartDate, EndDate).
type Booking struct {
	ID          string
	ProductID   string
	ProductName string
	HostID      string
	ClientID    string
	ClientName  string
	StartDate   time.Time // inclusive
	EndDate     time.Time // exclusive
	Status      Status
	CreatedBy   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Stay returns the part of the booking the availability counter needs.
func (b *Booking) Stay() availability.Stay {
	return availability.Stay{ID: b.ID, Start: b.StartDate, End: b.EndDate}
}

type Filter struct {
	ProductID string
	HostID    string
	ClientID  string
	Status    Status
	StartFrom *time.Time // start_date >= StartFrom
	StartTo   *time.Time // start_date <= StartTo

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// ConflictDetails identifies the booking a candidate collides with.
type ConflictDetails struct {
	BookingID string `json:"booking_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// CapacityDetails explains a capacity rejection date by date.
type CapacityDetails struct {
	Counts      availability.DateCounts `json:"counts"`
	TotalPlaces int                     `json:"total_places"`
	FullDates   []string                `json:"full_dates"`
}
