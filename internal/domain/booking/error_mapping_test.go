package booking

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsSlotConflict(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			"unique violation on slot index",
			&pq.Error{Code: "23505", Constraint: "bookings_slot_unique"},
			true,
		},
		{
			"wrapped unique violation",
			fmt.Errorf("insert: %w", &pq.Error{Code: "23505", Constraint: "bookings_slot_unique"}),
			true,
		},
		{
			"unique violation on another constraint",
			&pq.Error{Code: "23505", Constraint: "profiles_email_key"},
			false,
		},
		{
			"foreign key violation",
			&pq.Error{Code: "23503", Constraint: "bookings_court_id_fkey"},
			false,
		},
		{"plain error", errors.New("connection reset"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isSlotConflict(tt.err); got != tt.want {
				t.Fatalf("isSlotConflict() = %v, want %v", got, tt.want)
			}
		})
	}
}
