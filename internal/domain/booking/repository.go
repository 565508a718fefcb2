package booking

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ListFilter narrows admin booking listings
type ListFilter struct {
	CourtID  uuid.NullUUID
	DateFrom string // YYYY-MM-DD, inclusive
	DateTo   string // YYYY-MM-DD, inclusive
	Status   Status
	Limit    int
	Offset   int
}

// Repository defines booking data access interface
type Repository interface {
	// BookedSlotIDs returns the slot IDs occupied by any non-cancelled
	// booking for (court, date).
	BookedSlotIDs(ctx context.Context, courtID uuid.UUID, date string) ([]uuid.UUID, error)

	// SlotIDsByStatus returns slot IDs for (court, date) with exactly the
	// given status. Used by the staff availability view to distinguish
	// confirmed bookings from maintenance blocks.
	SlotIDsByStatus(ctx context.Context, courtID uuid.UUID, date string, status Status) ([]uuid.UUID, error)

	// CreateAll inserts all bookings in a single transaction. If any row
	// violates the slot uniqueness constraint the whole batch rolls back.
	CreateAll(ctx context.Context, bookings []*Booking) error

	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	List(ctx context.Context, f ListFilter) ([]Booking, error)
	Count(ctx context.Context, f ListFilter) (int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error

	// HasConfirmed reports whether (court, date, slot) has a confirmed
	// customer booking.
	HasConfirmed(ctx context.Context, courtID, slotID uuid.UUID, date string) (bool, error)

	// DeleteMaintenance removes the maintenance block for (court, date, slot).
	// Returns false when no block existed.
	DeleteMaintenance(ctx context.Context, courtID, slotID uuid.UUID, date string) (bool, error)
}

// repository implements Repository
type repository struct {
	db *sqlx.DB
}

// NewRepository creates new booking repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) BookedSlotIDs(ctx context.Context, courtID uuid.UUID, date string) ([]uuid.UUID, error) {
	query := `
		SELECT time_slot_id FROM bookings
		WHERE court_id = $1 AND booking_date = $2 AND status <> $3
	`
	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids, query, courtID, date, StatusCancelled)
	return ids, err
}

func (r *repository) SlotIDsByStatus(ctx context.Context, courtID uuid.UUID, date string, status Status) ([]uuid.UUID, error) {
	query := `
		SELECT time_slot_id FROM bookings
		WHERE court_id = $1 AND booking_date = $2 AND status = $3
	`
	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids, query, courtID, date, status)
	return ids, err
}

func (r *repository) CreateAll(ctx context.Context, bookings []*Booking) error {
	if len(bookings) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO bookings (id, court_id, time_slot_id, booking_date, user_id,
			customer_name, customer_email, customer_phone, status, total_amount, notes,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	for _, b := range bookings {
		_, err := tx.ExecContext(ctx, query,
			b.ID,
			b.CourtID,
			b.TimeSlotID,
			b.BookingDate,
			b.UserID,
			b.CustomerName,
			b.CustomerEmail,
			b.CustomerPhone,
			b.Status,
			b.TotalAmount,
			b.Notes,
			b.CreatedAt,
			b.UpdatedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	query := `SELECT * FROM bookings WHERE id = $1`
	var b Booking
	err := r.db.GetContext(ctx, &b, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &b, err
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]Booking, error) {
	query, args := buildListQuery("SELECT * FROM bookings", f, true)
	var bookings []Booking
	err := r.db.SelectContext(ctx, &bookings, query, args...)
	return bookings, err
}

func (r *repository) Count(ctx context.Context, f ListFilter) (int, error) {
	query, args := buildListQuery("SELECT COUNT(*) FROM bookings", f, false)
	var count int
	err := r.db.GetContext(ctx, &count, query, args...)
	return count, err
}

func buildListQuery(base string, f ListFilter, paged bool) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)
	add := func(cond string, val interface{}) {
		args = append(args, val)
		conds = append(conds, strings.Replace(cond, "?", fmt.Sprintf("$%d", len(args)), 1))
	}

	if f.CourtID.Valid {
		add("court_id = ?", f.CourtID.UUID)
	}
	if f.DateFrom != "" {
		add("booking_date >= ?", f.DateFrom)
	}
	if f.DateTo != "" {
		add("booking_date <= ?", f.DateTo)
	}
	if f.Status != "" {
		add("status = ?", f.Status)
	}

	query := base
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	if paged {
		query += " ORDER BY booking_date DESC, created_at DESC"
		if f.Limit > 0 {
			args = append(args, f.Limit)
			query += fmt.Sprintf(" LIMIT $%d", len(args))
			args = append(args, f.Offset)
			query += fmt.Sprintf(" OFFSET $%d", len(args))
		}
	}
	return query, args
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	query := `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) HasConfirmed(ctx context.Context, courtID, slotID uuid.UUID, date string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM bookings
			WHERE court_id = $1 AND time_slot_id = $2 AND booking_date = $3 AND status = $4
		)
	`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, courtID, slotID, date, StatusConfirmed)
	return exists, err
}

func (r *repository) DeleteMaintenance(ctx context.Context, courtID, slotID uuid.UUID, date string) (bool, error) {
	query := `
		DELETE FROM bookings
		WHERE court_id = $1 AND time_slot_id = $2 AND booking_date = $3 AND status = $4
	`
	res, err := r.db.ExecContext(ctx, query, courtID, slotID, date, StatusMaintenance)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
