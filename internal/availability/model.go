package availability

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/noq-backend/internal/pkg/apperror"
)

var (
	ErrNotFound     = apperror.NewKind(http.StatusNotFound, apperror.KindNotFound, "availability not found")
	ErrRangeTooLong = apperror.NewKind(http.StatusBadRequest, apperror.KindInvalidInput, "date range is too long")
	ErrInvalidRange = apperror.NewKind(http.StatusBadRequest, apperror.KindDateRange, "end before start")
)

// MaxRangeDays bounds calendar and count queries.
const MaxRangeDays = 366

// Availability is the projected number of free places of a product on one date.
// It is a cache rebuilt from bookings, keyed by (ProductID, Date).
type Availability struct {
	ID         string
	ProductID  string
	Date       time.Time
	PlacesLeft int
}

// DayPlaces is one calendar entry. Projected is false when no row exists and
// PlacesLeft fell back to the product's total places.
type DayPlaces struct {
	Date       time.Time
	PlacesLeft int
	Projected  bool
}
