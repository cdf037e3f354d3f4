package booking

import (
	"time"

	"github.com/nekogravitycat/noq-backend/internal/availability"
	"github.com/nekogravitycat/noq-backend/internal/pkg/daterange"
)

// Candidate is a booking about to be persisted. ID is empty for a new booking.
type Candidate struct {
	ID        string
	StartDate time.Time
	EndDate   time.Time
	Status    Status
}

// StateView is the persisted state the validator checks a candidate against.
type StateView struct {
	// MaxDays is the owning host's max_days_per_booking.
	MaxDays int
	// RequiredGender is empty for unrestricted products.
	RequiredGender string
	ClientGender   string
	TotalPlaces    int
	// ClientBookings holds every booking of the client in any status. The candidate itself may be included.
	ClientBookings []*Booking
	// ProductStays holds the capacity-counting bookings of the product overlapping the candidate.
	ProductStays []availability.Stay
}

// Validate runs the admission checks in order and returns the first violation.
func Validate(c Candidate, view StateView, today time.Time) error {
	start := daterange.Day(c.StartDate)
	end := daterange.Day(c.EndDate)
	span := daterange.Range{Start: start, End: end}

	if span.Days() > view.MaxDays {
		return ErrMaxDurationExceeded
	}

	if start.Before(daterange.Day(today)) && c.Status != StatusCompleted {
		return ErrStartBeforeToday
	}

	if !start.Before(end) {
		return ErrEndBeforeStart
	}

	if view.RequiredGender != "" && view.ClientGender != view.RequiredGender {
		return ErrGenderMismatch
	}

	for _, other := range view.ClientBookings {
		if other.ID == c.ID {
			continue
		}
		if daterange.Day(other.StartDate).Equal(start) {
			return ErrDuplicateBookingDate.WithDetails(conflictWith(other))
		}
	}

	for _, other := range view.ClientBookings {
		if other.ID == c.ID {
			continue
		}
		if span.Overlaps(daterange.Of(other.StartDate, other.EndDate)) {
			return ErrOverlappingBooking.WithDetails(conflictWith(other))
		}
	}

	if c.Status == StatusPending {
		counts := availability.CountPerDate(span, view.ProductStays, c.ID)
		if full := counts.FullDates(view.TotalPlaces); len(full) > 0 {
			return ErrCapacityExceeded.WithDetails(CapacityDetails{
				Counts:      counts,
				TotalPlaces: view.TotalPlaces,
				FullDates:   full,
			})
		}
	}

	return nil
}

func conflictWith(b *Booking) ConflictDetails {
	return ConflictDetails{
		BookingID: b.ID,
		StartDate: daterange.Key(b.StartDate),
		EndDate:   daterange.Key(b.EndDate),
	}
}
