package booking

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/courtside/courtside-api/internal/domain/court"
	"github.com/courtside/courtside-api/internal/domain/timeslot"
)

func testCourt(rate float64) *court.Court {
	return &court.Court{
		ID:         uuid.New(),
		Name:       "Center Court",
		Status:     court.StatusActive,
		HourlyRate: sql.NullFloat64{Float64: rate, Valid: rate > 0},
	}
}

func testSlot(minutes int) timeslot.TimeSlot {
	return timeslot.TimeSlot{
		ID:              uuid.New(),
		StartTime:       "09:00:00",
		EndTime:         "10:00:00",
		DurationMinutes: minutes,
	}
}

func readyDraft(t *testing.T, c *court.Court) *Draft {
	t.Helper()
	d := NewDraft(0)
	d.SelectCourt(c)
	if err := d.SelectDate("2030-06-15", time.Now()); err != nil {
		t.Fatalf("SelectDate: %v", err)
	}
	d.SetAvailability(nil)
	return d
}

func TestDraftToggleSlot(t *testing.T) {
	d := readyDraft(t, testCourt(40))
	slot := testSlot(60)

	if !d.ToggleSlot(slot) {
		t.Fatal("expected first toggle to select")
	}
	if !d.IsSelected(slot.ID) {
		t.Fatal("slot should be selected")
	}

	if !d.ToggleSlot(slot) {
		t.Fatal("expected second toggle to deselect")
	}
	if d.IsSelected(slot.ID) {
		t.Fatal("slot should be deselected")
	}
}

func TestDraftToggleBookedSlotIsNoop(t *testing.T) {
	d := readyDraft(t, testCourt(40))
	slot := testSlot(60)
	d.SetAvailability([]uuid.UUID{slot.ID})

	if d.ToggleSlot(slot) {
		t.Fatal("booked slot must not be selectable")
	}
	if len(d.Selected) != 0 {
		t.Fatalf("expected empty selection, got %d", len(d.Selected))
	}
}

func TestDraftToggleWithoutAvailabilityIsNoop(t *testing.T) {
	d := NewDraft(0)
	d.SelectCourt(testCourt(40))
	if err := d.SelectDate("2030-06-15", time.Now()); err != nil {
		t.Fatalf("SelectDate: %v", err)
	}

	// Availability has not been loaded; unknown means not bookable.
	if d.ToggleSlot(testSlot(60)) {
		t.Fatal("slot must not be selectable before availability loads")
	}
}

func TestDraftMaxSlots(t *testing.T) {
	d := NewDraft(2)
	d.SelectCourt(testCourt(40))
	if err := d.SelectDate("2030-06-15", time.Now()); err != nil {
		t.Fatalf("SelectDate: %v", err)
	}
	d.SetAvailability(nil)

	if !d.ToggleSlot(testSlot(60)) || !d.ToggleSlot(testSlot(60)) {
		t.Fatal("first two selections should succeed")
	}
	if d.ToggleSlot(testSlot(60)) {
		t.Fatal("third selection should be refused")
	}
	if len(d.Selected) != 2 {
		t.Fatalf("expected 2 selected, got %d", len(d.Selected))
	}
}

func TestDraftSelectCourtClearsSelection(t *testing.T) {
	d := readyDraft(t, testCourt(40))
	slot := testSlot(60)
	d.ToggleSlot(slot)

	d.SelectCourt(testCourt(25))

	if len(d.Selected) != 0 {
		t.Fatal("changing the court must clear the selection")
	}
	if d.AvailabilityFresh {
		t.Fatal("changing the court must invalidate availability")
	}
	if d.ToggleSlot(slot) {
		t.Fatal("stale availability must block selection after court change")
	}
}

func TestDraftSelectDateClearsSelection(t *testing.T) {
	d := readyDraft(t, testCourt(40))
	d.ToggleSlot(testSlot(60))

	if err := d.SelectDate("2030-06-16", time.Now()); err != nil {
		t.Fatalf("SelectDate: %v", err)
	}
	if len(d.Selected) != 0 || d.AvailabilityFresh {
		t.Fatal("changing the date must clear selection and availability")
	}
}

func TestDraftSelectDateRejectsPast(t *testing.T) {
	d := NewDraft(0)
	now := time.Date(2030, 6, 15, 12, 0, 0, 0, time.UTC)

	if err := d.SelectDate("2030-06-14", now); err != ErrPastDate {
		t.Fatalf("expected ErrPastDate, got %v", err)
	}
	// Today is allowed.
	if err := d.SelectDate("2030-06-15", now); err != nil {
		t.Fatalf("today should be selectable: %v", err)
	}
}

func TestDraftAvailabilityRefreshDropsTakenSlots(t *testing.T) {
	d := readyDraft(t, testCourt(40))
	kept := testSlot(60)
	taken := testSlot(60)
	d.ToggleSlot(kept)
	d.ToggleSlot(taken)

	d.SetAvailability([]uuid.UUID{taken.ID})

	if d.IsSelected(taken.ID) {
		t.Fatal("slot booked elsewhere must be dropped from the selection")
	}
	if !d.IsSelected(kept.ID) {
		t.Fatal("still-free slot must survive the refresh")
	}
}

func TestDraftTotal(t *testing.T) {
	tests := []struct {
		name     string
		rate     float64
		minutes  int
		override sql.NullFloat64
		want     float64
	}{
		{"hourly rate prorated", 20, 30, sql.NullFloat64{}, 10},
		{"full hour", 40, 60, sql.NullFloat64{}, 40},
		{"ninety minutes", 20, 90, sql.NullFloat64{}, 30},
		{"override wins", 40, 60, sql.NullFloat64{Float64: 15, Valid: true}, 15},
		{"default rate", 0, 60, sql.NullFloat64{}, court.DefaultHourlyRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := readyDraft(t, testCourt(tt.rate))
			slot := testSlot(tt.minutes)
			slot.PriceOverride = tt.override
			d.ToggleSlot(slot)

			if got := d.Total(); got != tt.want {
				t.Fatalf("Total() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDraftTotalSumsSelection(t *testing.T) {
	d := readyDraft(t, testCourt(20))
	d.ToggleSlot(testSlot(60)) // 20
	d.ToggleSlot(testSlot(30)) // 10

	if got := d.Total(); got != 30 {
		t.Fatalf("Total() = %v, want 30", got)
	}
}

func TestDraftTotalWithoutCourt(t *testing.T) {
	d := NewDraft(0)
	if got := d.Total(); got != 0 {
		t.Fatalf("Total() = %v, want 0", got)
	}
}

func TestDraftValidate(t *testing.T) {
	d := NewDraft(0)
	details := d.Validate()
	for _, field := range []string{"court_id", "date", "time_slot_ids", "name", "email"} {
		if _, ok := details[field]; !ok {
			t.Errorf("expected validation error for %q", field)
		}
	}

	d = readyDraft(t, testCourt(40))
	d.ToggleSlot(testSlot(60))
	d.Contact = ContactInfo{Name: "Alex Chen", Email: "alex@example.com"}
	if details := d.Validate(); details != nil {
		t.Fatalf("expected valid draft, got %v", details)
	}
}
