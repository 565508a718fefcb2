package timeslot

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// TimeSlot is a global catalog entry: a wall-clock time block with no date
// component, shared by all courts. An optional price override supersedes the
// prorated hourly rate for that block.
type TimeSlot struct {
	ID              uuid.UUID       `db:"id"`
	StartTime       string          `db:"start_time"` // "HH:MM:SS"
	EndTime         string          `db:"end_time"`   // "HH:MM:SS"
	DurationMinutes int             `db:"duration_minutes"`
	PriceOverride   sql.NullFloat64 `db:"price_override"`
	CreatedAt       time.Time       `db:"created_at"`
}

// Price returns the amount charged for this slot at the given hourly rate.
// A price override wins regardless of duration.
func (s *TimeSlot) Price(hourlyRate float64) float64 {
	if s.PriceOverride.Valid {
		return s.PriceOverride.Float64
	}
	return hourlyRate * float64(s.DurationMinutes) / 60
}
