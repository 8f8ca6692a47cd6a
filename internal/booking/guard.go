package booking

import (
	"errors"
	"fmt"
	"time"
)

// Operation is a mutation of an existing booking.
type Operation int

const (
	OpUpdate Operation = iota + 1
	OpDelete
)

func (o Operation) String() string {
	switch o {
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return fmt.Sprintf("operation(%d)", int(o))
	}
}

// AuthorizeCreate rejects an owner booking their own spot.
func AuthorizeCreate(spot *Spot, requesterID string) error {
	if spot.OwnerID == requesterID {
		return ErrForbidden
	}
	return nil
}

// AuthorizeMutate decides whether requesterID may apply op to b on the given
// day. The temporal rule is checked first and applies to every caller:
// updates close once now is past the end date, deletions once now is past
// the start date. Only the guest may update. The guest or the spot owner may
// delete.
func AuthorizeMutate(b *Booking, requesterID string, op Operation, now time.Time) error {
	today := Day(now)

	switch op {
	case OpUpdate:
		if today.After(Day(b.EndDate)) {
			return ErrPastBooking
		}
		if b.UserID != requesterID {
			return ErrForbidden
		}
	case OpDelete:
		if today.After(Day(b.StartDate)) {
			return ErrStarted
		}
		if b.UserID != requesterID && b.SpotOwnerID != requesterID {
			return ErrForbidden
		}
	default:
		return fmt.Errorf("unknown booking operation %s", op)
	}
	return nil
}

// IsTooLate reports whether err is a temporal rejection.
func IsTooLate(err error) bool {
	return errors.Is(err, ErrPastBooking) || errors.Is(err, ErrStarted)
}
