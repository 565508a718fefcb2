package profile

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

const (
	RoleCustomer = "customer"
	RoleStaff    = "staff"
	RoleAdmin    = "admin"
)

// Profile mirrors an externally managed identity. Rows are provisioned by
// the identity provider; this service only reads them and manages roles.
type Profile struct {
	ID        uuid.UUID      `db:"id"`
	FullName  string         `db:"full_name"`
	Email     string         `db:"email"`
	Phone     sql.NullString `db:"phone"`
	Role      string         `db:"role"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func IsValidRole(role string) bool {
	switch role {
	case RoleCustomer, RoleStaff, RoleAdmin:
		return true
	}
	return false
}
