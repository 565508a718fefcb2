package timeslot

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

type fakeRepo struct {
	slots   []TimeSlot
	created *TimeSlot
}

func (f *fakeRepo) List(ctx context.Context) ([]TimeSlot, error) { return f.slots, nil }
func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*TimeSlot, error) {
	for i := range f.slots {
		if f.slots[i].ID == id {
			return &f.slots[i], nil
		}
	}
	return nil, nil
}
func (f *fakeRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]TimeSlot, error) {
	return nil, nil
}
func (f *fakeRepo) Create(ctx context.Context, slot *TimeSlot) error {
	f.created = slot
	return nil
}
func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func TestCreateTimeSlot(t *testing.T) {
	repo := &fakeRepo{}
	h := NewHandler(repo)

	body := `{"start_time":"09:00:00","end_time":"10:30:00","duration_minutes":90}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.Create(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if repo.created == nil {
		t.Fatal("expected Create to be called")
	}
	if repo.created.DurationMinutes != 90 {
		t.Fatalf("duration = %d, want 90", repo.created.DurationMinutes)
	}
}

func TestCreateTimeSlotRejectsBadTimes(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"missing seconds", `{"start_time":"09:00","end_time":"10:00:00","duration_minutes":60}`, http.StatusUnprocessableEntity},
		{"invalid hour", `{"start_time":"25:00:00","end_time":"26:00:00","duration_minutes":60}`, http.StatusBadRequest},
		{"not a time", `{"start_time":"ab:cd:ef","end_time":"10:00:00","duration_minutes":60}`, http.StatusBadRequest},
		{"end before start", `{"start_time":"10:00:00","end_time":"09:00:00","duration_minutes":60}`, http.StatusBadRequest},
		{"end equals start", `{"start_time":"09:00:00","end_time":"09:00:00","duration_minutes":60}`, http.StatusBadRequest},
		{"duration too short", `{"start_time":"09:00:00","end_time":"09:05:00","duration_minutes":5}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{}
			h := NewHandler(repo)

			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			h.Create(rr, req)

			if rr.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantCode)
			}
			if repo.created != nil {
				t.Fatal("Create must not run on invalid input")
			}
		})
	}
}

func TestSlotPrice(t *testing.T) {
	tests := []struct {
		name     string
		minutes  int
		rate     float64
		override sql.NullFloat64
		want     float64
	}{
		{"half hour", 30, 20, sql.NullFloat64{}, 10},
		{"full hour", 60, 20, sql.NullFloat64{}, 20},
		{"ninety minutes", 90, 40, sql.NullFloat64{}, 60},
		{"override wins over rate", 60, 40, sql.NullFloat64{Float64: 15, Valid: true}, 15},
		{"zero override is honored", 60, 40, sql.NullFloat64{Float64: 0, Valid: true}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := TimeSlot{DurationMinutes: tt.minutes, PriceOverride: tt.override}
			if got := s.Price(tt.rate); got != tt.want {
				t.Fatalf("Price(%v) = %v, want %v", tt.rate, got, tt.want)
			}
		})
	}
}
