package profile

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	List(ctx context.Context, search string, limit, offset int) ([]Profile, error)
	Count(ctx context.Context, search string) (int, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role string) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	var p Profile
	query := `SELECT id, full_name, email, phone, role, created_at, updated_at
	          FROM profiles WHERE id = $1`
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) List(ctx context.Context, search string, limit, offset int) ([]Profile, error) {
	profiles := []Profile{}
	if search != "" {
		query := `SELECT id, full_name, email, phone, role, created_at, updated_at
		          FROM profiles
		          WHERE full_name ILIKE $1 OR email ILIKE $1
		          ORDER BY created_at DESC
		          LIMIT $2 OFFSET $3`
		err := r.db.SelectContext(ctx, &profiles, query, "%"+search+"%", limit, offset)
		return profiles, err
	}

	query := `SELECT id, full_name, email, phone, role, created_at, updated_at
	          FROM profiles
	          ORDER BY created_at DESC
	          LIMIT $1 OFFSET $2`
	err := r.db.SelectContext(ctx, &profiles, query, limit, offset)
	return profiles, err
}

func (r *repository) Count(ctx context.Context, search string) (int, error) {
	var count int
	if search != "" {
		err := r.db.GetContext(ctx, &count,
			`SELECT COUNT(*) FROM profiles WHERE full_name ILIKE $1 OR email ILIKE $1`,
			"%"+search+"%")
		return count, err
	}
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM profiles`)
	return count, err
}

func (r *repository) UpdateRole(ctx context.Context, id uuid.UUID, role string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET role = $1, updated_at = $2 WHERE id = $3`,
		role, time.Now(), id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
