package timeslot

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines time slot data access interface
type Repository interface {
	List(ctx context.Context) ([]TimeSlot, error)
	GetByID(ctx context.Context, id uuid.UUID) (*TimeSlot, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]TimeSlot, error)
	Create(ctx context.Context, slot *TimeSlot) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// repository implements Repository
type repository struct {
	db *sqlx.DB
}

// NewRepository creates new time slot repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// List returns the full slot catalog ordered by start time
func (r *repository) List(ctx context.Context) ([]TimeSlot, error) {
	query := `SELECT id, start_time::text AS start_time, end_time::text AS end_time, duration_minutes, price_override, created_at
		FROM time_slots ORDER BY start_time`
	var slots []TimeSlot
	err := r.db.SelectContext(ctx, &slots, query)
	return slots, err
}

// GetByID returns a slot by ID, nil when not found
func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*TimeSlot, error) {
	query := `SELECT id, start_time::text AS start_time, end_time::text AS end_time, duration_minutes, price_override, created_at
		FROM time_slots WHERE id = $1`
	var slot TimeSlot
	err := r.db.GetContext(ctx, &slot, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &slot, err
}

// GetByIDs returns the slots matching ids, ordered by start time
func (r *repository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]TimeSlot, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT id, start_time::text AS start_time, end_time::text AS end_time, duration_minutes, price_override, created_at
		FROM time_slots WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	query = r.db.Rebind(query) + ` ORDER BY start_time`
	var slots []TimeSlot
	err = r.db.SelectContext(ctx, &slots, query, args...)
	return slots, err
}

// Create inserts a slot catalog entry
func (r *repository) Create(ctx context.Context, slot *TimeSlot) error {
	query := `
		INSERT INTO time_slots (id, start_time, end_time, duration_minutes, price_override, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		slot.ID,
		slot.StartTime,
		slot.EndTime,
		slot.DurationMinutes,
		slot.PriceOverride,
		slot.CreatedAt,
	)
	return err
}

// Delete removes a slot catalog entry
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM time_slots WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
