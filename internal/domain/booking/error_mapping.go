package booking

import (
	"errors"

	"github.com/lib/pq"
)

const sqlStateUniqueViolation = "23505"

// slotUniqueConstraint is the partial unique index on
// (court_id, booking_date, time_slot_id) WHERE status <> 'cancelled'.
const slotUniqueConstraint = "bookings_slot_unique"

// isSlotConflict reports whether err is the database rejecting a double
// booking. The workflow carries no locking of its own; this constraint
// rejection is the only conflict signal it ever sees.
func isSlotConflict(err error) bool {
	if errors.Is(err, ErrSlotConflict) {
		return true
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if string(pqErr.Code) != sqlStateUniqueViolation {
		return false
	}
	if pqErr.Constraint == slotUniqueConstraint {
		return true
	}
	return pqErr.Table == "bookings"
}
