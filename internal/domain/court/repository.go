package court

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines court data access interface
type Repository interface {
	ListByStatus(ctx context.Context, status Status) ([]Court, error)
	ListAll(ctx context.Context) ([]Court, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Court, error)
	Update(ctx context.Context, c *Court) error
	UpdateImageURL(ctx context.Context, id uuid.UUID, imageURL string) error
}

// repository implements Repository
type repository struct {
	db *sqlx.DB
}

// NewRepository creates new court repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// ListByStatus returns courts with the given status, ordered by name
func (r *repository) ListByStatus(ctx context.Context, status Status) ([]Court, error) {
	query := `SELECT * FROM courts WHERE status = $1 ORDER BY name`
	var courts []Court
	err := r.db.SelectContext(ctx, &courts, query, status)
	return courts, err
}

// ListAll returns all courts ordered by name
func (r *repository) ListAll(ctx context.Context) ([]Court, error) {
	query := `SELECT * FROM courts ORDER BY name`
	var courts []Court
	err := r.db.SelectContext(ctx, &courts, query)
	return courts, err
}

// GetByID returns a court by ID, nil when not found
func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Court, error) {
	query := `SELECT * FROM courts WHERE id = $1`
	var c Court
	err := r.db.GetContext(ctx, &c, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &c, err
}

// Update saves court metadata
func (r *repository) Update(ctx context.Context, c *Court) error {
	query := `
		UPDATE courts
		SET name = $2, description = $3, status = $4, tags = $5, hourly_rate = $6, updated_at = $7
		WHERE id = $1
	`
	c.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.Name,
		c.Description,
		c.Status,
		pq.StringArray(c.Tags),
		c.HourlyRate,
		c.UpdatedAt,
	)
	return err
}

// UpdateImageURL sets a court's image URL
func (r *repository) UpdateImageURL(ctx context.Context, id uuid.UUID, imageURL string) error {
	query := `UPDATE courts SET image_url = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, imageURL)
	return err
}
