package booking

// Status is the lifecycle state of a booking.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusDeclined  Status = "declined"
	StatusInQueue   Status = "in_queue"
	StatusReserved  Status = "reserved"
	StatusConfirmed Status = "confirmed"
	StatusCheckedIn Status = "checked_in"
	StatusCompleted Status = "completed"
)

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []Status{
	StatusPending, StatusAccepted, StatusDeclined, StatusInQueue,
	StatusReserved, StatusConfirmed, StatusCheckedIn, StatusCompleted,
}

// NonCountingStatuses hold no place on the product.
var NonCountingStatuses = []Status{StatusDeclined, StatusInQueue}

func (s Status) IsValid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// CountsTowardCapacity reports whether a booking in this status occupies a place.
func (s Status) CountsTowardCapacity() bool {
	for _, v := range NonCountingStatuses {
		if s == v {
			return false
		}
	}
	return true
}

// IsTerminal reports whether no further transition is expected.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted
}

// ParseStatus converts a raw value, rejecting unknown statuses.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
