package booking

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status of a booking. The maintenance sentinel occupies a slot exactly like
// a reservation but marks an administrative block, not a customer.
type Status string

const (
	StatusPending     Status = "pending"
	StatusConfirmed   Status = "confirmed"
	StatusCancelled   Status = "cancelled"
	StatusCompleted   Status = "completed"
	StatusMaintenance Status = "maintenance"
)

// Placeholder contact recorded on maintenance bookings.
const (
	maintenanceCustomerName  = "System"
	maintenanceCustomerEmail = "system@admin.com"
)

// Booking represents one reserved (court, date, slot) triple.
// Uniqueness among non-cancelled rows is enforced by a partial unique index
// in the database; that constraint is the sole cross-session race guard.
type Booking struct {
	ID            uuid.UUID       `db:"id"`
	CourtID       uuid.UUID       `db:"court_id"`
	TimeSlotID    uuid.UUID       `db:"time_slot_id"`
	BookingDate   time.Time       `db:"booking_date"`
	UserID        uuid.NullUUID   `db:"user_id"`
	CustomerName  string          `db:"customer_name"`
	CustomerEmail string          `db:"customer_email"`
	CustomerPhone sql.NullString  `db:"customer_phone"`
	Status        Status          `db:"status"`
	TotalAmount   sql.NullFloat64 `db:"total_amount"`
	Notes         sql.NullString  `db:"notes"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

// DateString returns the booking's calendar date in YYYY-MM-DD form
func (b *Booking) DateString() string {
	return b.BookingDate.Format("2006-01-02")
}

// validTransitions holds the staff-driven lifecycle. Pending bookings get
// confirmed or cancelled; confirmed ones complete or cancel. Cancelled and
// completed are terminal. Maintenance rows are deleted, never transitioned.
var validTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether a booking may move from one status to another
func CanTransition(from, to Status) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsValidStatus reports whether s is a known booking status
func IsValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusMaintenance:
		return true
	}
	return false
}
