package database

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// The partial unique index on bookings is the sole concurrency guard for
// slot reservations: only non-cancelled rows count toward uniqueness, so a
// cancelled booking frees its slot for rebooking.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS profiles (
	id UUID PRIMARY KEY,
	full_name TEXT NOT NULL,
	email TEXT UNIQUE NOT NULL,
	phone TEXT,
	role TEXT NOT NULL DEFAULT 'customer' CHECK (role IN ('customer', 'staff', 'admin')),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS courts (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name TEXT NOT NULL,
	description TEXT,
	image_url TEXT,
	status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'maintenance', 'inactive')),
	tags TEXT[] NOT NULL DEFAULT '{}',
	hourly_rate NUMERIC(10,2),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS time_slots (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	start_time TIME NOT NULL,
	end_time TIME NOT NULL,
	duration_minutes INT NOT NULL,
	price_override NUMERIC(10,2),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT time_slots_order CHECK (end_time > start_time)
);

CREATE TABLE IF NOT EXISTS bookings (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	court_id UUID NOT NULL REFERENCES courts(id),
	time_slot_id UUID NOT NULL REFERENCES time_slots(id),
	booking_date DATE NOT NULL,
	user_id UUID REFERENCES profiles(id),
	customer_name TEXT NOT NULL,
	customer_email TEXT NOT NULL,
	customer_phone TEXT,
	status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'confirmed', 'cancelled', 'completed', 'maintenance')),
	total_amount NUMERIC(10,2),
	notes TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS bookings_slot_unique
	ON bookings (court_id, booking_date, time_slot_id)
	WHERE status <> 'cancelled';

CREATE INDEX IF NOT EXISTS idx_bookings_court_date ON bookings (court_id, booking_date);
CREATE INDEX IF NOT EXISTS idx_bookings_user ON bookings (user_id) WHERE user_id IS NOT NULL;
`

// Migrate applies the schema. Statements are idempotent so it is safe to run
// on every startup.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, schemaSQL)
	return err
}
