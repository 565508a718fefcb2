package court

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Status of a court. Only active courts are offered to customers.
type Status string

const (
	StatusActive      Status = "active"
	StatusMaintenance Status = "maintenance"
	StatusInactive    Status = "inactive"
)

// DefaultHourlyRate applies when a court has no rate configured.
const DefaultHourlyRate = 20.00

// Court represents a bookable court
type Court struct {
	ID          uuid.UUID       `db:"id"`
	Name        string          `db:"name"`
	Description sql.NullString  `db:"description"`
	ImageURL    sql.NullString  `db:"image_url"`
	Status      Status          `db:"status"`
	Tags        pq.StringArray  `db:"tags"`
	HourlyRate  sql.NullFloat64 `db:"hourly_rate"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

// Rate returns the court's hourly rate, falling back to the default.
func (c *Court) Rate() float64 {
	if c.HourlyRate.Valid {
		return c.HourlyRate.Float64
	}
	return DefaultHourlyRate
}

// IsValidStatus reports whether s is a known court status
func IsValidStatus(s Status) bool {
	switch s {
	case StatusActive, StatusMaintenance, StatusInactive:
		return true
	}
	return false
}
