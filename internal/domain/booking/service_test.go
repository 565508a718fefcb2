package booking

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/courtside/courtside-api/internal/domain/court"
	"github.com/courtside/courtside-api/internal/domain/timeslot"
)

type fakeBookingRepo struct {
	booked      []uuid.UUID
	bookedErr   error
	created     []*Booking
	createErr   error
	byID        *Booking
	confirmed   bool
	deleted     bool
	newStatus   Status
	byStatus    map[Status][]uuid.UUID
	updateErr   error
	createCalls int
}

func (f *fakeBookingRepo) BookedSlotIDs(ctx context.Context, courtID uuid.UUID, date string) ([]uuid.UUID, error) {
	return f.booked, f.bookedErr
}

func (f *fakeBookingRepo) SlotIDsByStatus(ctx context.Context, courtID uuid.UUID, date string, status Status) ([]uuid.UUID, error) {
	return f.byStatus[status], nil
}

func (f *fakeBookingRepo) CreateAll(ctx context.Context, bookings []*Booking) error {
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, bookings...)
	return nil
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	if f.byID != nil && f.byID.ID == id {
		return f.byID, nil
	}
	return nil, nil
}

func (f *fakeBookingRepo) List(ctx context.Context, filter ListFilter) ([]Booking, error) {
	out := make([]Booking, 0, len(f.created))
	for _, b := range f.created {
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeBookingRepo) Count(ctx context.Context, filter ListFilter) (int, error) {
	return len(f.created), nil
}

func (f *fakeBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.newStatus = status
	return nil
}

func (f *fakeBookingRepo) HasConfirmed(ctx context.Context, courtID, slotID uuid.UUID, date string) (bool, error) {
	return f.confirmed, nil
}

func (f *fakeBookingRepo) DeleteMaintenance(ctx context.Context, courtID, slotID uuid.UUID, date string) (bool, error) {
	return f.deleted, nil
}

type fakeCourtRepo struct {
	court *court.Court
}

func (f *fakeCourtRepo) ListByStatus(ctx context.Context, status court.Status) ([]court.Court, error) {
	return nil, nil
}
func (f *fakeCourtRepo) ListAll(ctx context.Context) ([]court.Court, error) { return nil, nil }
func (f *fakeCourtRepo) GetByID(ctx context.Context, id uuid.UUID) (*court.Court, error) {
	if f.court != nil && f.court.ID == id {
		return f.court, nil
	}
	return nil, nil
}
func (f *fakeCourtRepo) Update(ctx context.Context, c *court.Court) error { return nil }
func (f *fakeCourtRepo) UpdateImageURL(ctx context.Context, id uuid.UUID, imageURL string) error {
	return nil
}

type fakeSlotRepo struct {
	slots map[uuid.UUID]timeslot.TimeSlot
}

func (f *fakeSlotRepo) List(ctx context.Context) ([]timeslot.TimeSlot, error) { return nil, nil }
func (f *fakeSlotRepo) GetByID(ctx context.Context, id uuid.UUID) (*timeslot.TimeSlot, error) {
	if s, ok := f.slots[id]; ok {
		return &s, nil
	}
	return nil, nil
}
func (f *fakeSlotRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]timeslot.TimeSlot, error) {
	var out []timeslot.TimeSlot
	for _, id := range ids {
		if s, ok := f.slots[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}
func (f *fakeSlotRepo) Create(ctx context.Context, slot *timeslot.TimeSlot) error { return nil }
func (f *fakeSlotRepo) Delete(ctx context.Context, id uuid.UUID) error            { return nil }

type recordingPublisher struct {
	events []SlotEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, event SlotEvent) {
	p.events = append(p.events, event)
}

func slotConflictErr() error {
	return &pq.Error{Code: "23505", Constraint: "bookings_slot_unique"}
}

func futureDate() string {
	return time.Now().AddDate(0, 0, 7).Format("2006-01-02")
}

func newTestService(repo *fakeBookingRepo, c *court.Court, slots map[uuid.UUID]timeslot.TimeSlot, maxSlots int) (*Service, *recordingPublisher) {
	pub := &recordingPublisher{}
	svc := NewService(repo, &fakeCourtRepo{court: c}, &fakeSlotRepo{slots: slots}, nil, pub, maxSlots)
	return svc, pub
}

func activeCourt(rate float64) *court.Court {
	return &court.Court{
		ID:         uuid.New(),
		Name:       "Court 1",
		Status:     court.StatusActive,
		HourlyRate: sql.NullFloat64{Float64: rate, Valid: true},
	}
}

func slotMap(slots ...timeslot.TimeSlot) map[uuid.UUID]timeslot.TimeSlot {
	m := make(map[uuid.UUID]timeslot.TimeSlot, len(slots))
	for _, s := range slots {
		m[s.ID] = s
	}
	return m
}

func TestSubmitCreatesPendingBookings(t *testing.T) {
	c := activeCourt(20)
	slotA := testSlot(60)
	slotB := testSlot(30)
	repo := &fakeBookingRepo{}
	svc, pub := newTestService(repo, c, slotMap(slotA, slotB), 0)

	result, err := svc.Submit(context.Background(), SubmitInput{
		CourtID:     c.ID,
		Date:        futureDate(),
		TimeSlotIDs: []uuid.UUID{slotA.ID, slotB.ID},
		Contact:     ContactInfo{Name: "Alex Chen", Email: "alex@example.com"},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if len(result.Bookings) != 2 {
		t.Fatalf("expected 2 bookings, got %d", len(result.Bookings))
	}
	if result.Total != 30 {
		t.Fatalf("Total = %v, want 30", result.Total)
	}
	for _, b := range result.Bookings {
		if b.Status != StatusPending {
			t.Errorf("status = %s, want pending", b.Status)
		}
	}
	if repo.createCalls != 1 {
		t.Fatalf("expected a single CreateAll call, got %d", repo.createCalls)
	}
	if len(pub.events) != 1 || pub.events[0].Type != EventSlotBooked {
		t.Fatalf("expected one slot_booked event, got %v", pub.events)
	}
}

func TestSubmitSlotConflict(t *testing.T) {
	c := activeCourt(20)
	slot := testSlot(60)
	repo := &fakeBookingRepo{createErr: slotConflictErr()}
	svc, pub := newTestService(repo, c, slotMap(slot), 0)

	_, err := svc.Submit(context.Background(), SubmitInput{
		CourtID:     c.ID,
		Date:        futureDate(),
		TimeSlotIDs: []uuid.UUID{slot.ID},
		Contact:     ContactInfo{Name: "Alex Chen", Email: "alex@example.com"},
	})
	if !errors.Is(err, ErrSlotConflict) {
		t.Fatalf("expected ErrSlotConflict, got %v", err)
	}
	if len(pub.events) != 0 {
		t.Fatal("no event must be published on conflict")
	}
}

func TestSubmitOtherDBErrorIsNotConflict(t *testing.T) {
	c := activeCourt(20)
	slot := testSlot(60)
	repo := &fakeBookingRepo{createErr: errors.New("connection reset")}
	svc, _ := newTestService(repo, c, slotMap(slot), 0)

	_, err := svc.Submit(context.Background(), SubmitInput{
		CourtID:     c.ID,
		Date:        futureDate(),
		TimeSlotIDs: []uuid.UUID{slot.ID},
		Contact:     ContactInfo{Name: "Alex Chen", Email: "alex@example.com"},
	})
	if errors.Is(err, ErrSlotConflict) {
		t.Fatal("generic failure must not map to ErrSlotConflict")
	}
	if !errors.Is(err, ErrSubmissionFailed) {
		t.Fatalf("expected ErrSubmissionFailed, got %v", err)
	}
}

func TestSubmitRejectsInactiveCourt(t *testing.T) {
	c := activeCourt(20)
	c.Status = court.StatusMaintenance
	slot := testSlot(60)
	svc, _ := newTestService(&fakeBookingRepo{}, c, slotMap(slot), 0)

	_, err := svc.Submit(context.Background(), SubmitInput{
		CourtID:     c.ID,
		Date:        futureDate(),
		TimeSlotIDs: []uuid.UUID{slot.ID},
		Contact:     ContactInfo{Name: "Alex Chen", Email: "alex@example.com"},
	})
	if !errors.Is(err, ErrCourtNotBookable) {
		t.Fatalf("expected ErrCourtNotBookable, got %v", err)
	}
}

func TestSubmitRejectsUnknownSlot(t *testing.T) {
	c := activeCourt(20)
	svc, _ := newTestService(&fakeBookingRepo{}, c, slotMap(), 0)

	_, err := svc.Submit(context.Background(), SubmitInput{
		CourtID:     c.ID,
		Date:        futureDate(),
		TimeSlotIDs: []uuid.UUID{uuid.New()},
		Contact:     ContactInfo{Name: "Alex Chen", Email: "alex@example.com"},
	})
	if !errors.Is(err, ErrUnknownSlot) {
		t.Fatalf("expected ErrUnknownSlot, got %v", err)
	}
}

func TestSubmitRejectsPastDate(t *testing.T) {
	c := activeCourt(20)
	slot := testSlot(60)
	svc, _ := newTestService(&fakeBookingRepo{}, c, slotMap(slot), 0)

	_, err := svc.Submit(context.Background(), SubmitInput{
		CourtID:     c.ID,
		Date:        "2020-01-01",
		TimeSlotIDs: []uuid.UUID{slot.ID},
		Contact:     ContactInfo{Name: "Alex Chen", Email: "alex@example.com"},
	})
	if !errors.Is(err, ErrPastDate) {
		t.Fatalf("expected ErrPastDate, got %v", err)
	}
}

func TestSubmitRejectsTooManySlots(t *testing.T) {
	c := activeCourt(20)
	slotA := testSlot(60)
	slotB := testSlot(60)
	svc, _ := newTestService(&fakeBookingRepo{}, c, slotMap(slotA, slotB), 1)

	_, err := svc.Submit(context.Background(), SubmitInput{
		CourtID:     c.ID,
		Date:        futureDate(),
		TimeSlotIDs: []uuid.UUID{slotA.ID, slotB.ID},
		Contact:     ContactInfo{Name: "Alex Chen", Email: "alex@example.com"},
	})
	if !errors.Is(err, ErrTooManySlots) {
		t.Fatalf("expected ErrTooManySlots, got %v", err)
	}
}

func TestSubmitPriceOverrideWins(t *testing.T) {
	c := activeCourt(40)
	slot := testSlot(60)
	slot.PriceOverride = sql.NullFloat64{Float64: 15, Valid: true}
	repo := &fakeBookingRepo{}
	svc, _ := newTestService(repo, c, slotMap(slot), 0)

	result, err := svc.Submit(context.Background(), SubmitInput{
		CourtID:     c.ID,
		Date:        futureDate(),
		TimeSlotIDs: []uuid.UUID{slot.ID},
		Contact:     ContactInfo{Name: "Alex Chen", Email: "alex@example.com"},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.Total != 15 {
		t.Fatalf("Total = %v, want override 15", result.Total)
	}
}

func TestAvailabilityFetchFailed(t *testing.T) {
	repo := &fakeBookingRepo{bookedErr: errors.New("timeout")}
	svc, _ := newTestService(repo, nil, nil, 0)

	_, err := svc.Availability(context.Background(), uuid.New(), futureDate())
	if !errors.Is(err, ErrAvailabilityFetchFailed) {
		t.Fatalf("expected ErrAvailabilityFetchFailed, got %v", err)
	}
}

func TestAvailabilityEmptyIsNotNil(t *testing.T) {
	svc, _ := newTestService(&fakeBookingRepo{}, nil, nil, 0)

	ids, err := svc.Availability(context.Background(), uuid.New(), futureDate())
	if err != nil {
		t.Fatalf("Availability: %v", err)
	}
	if ids == nil {
		t.Fatal("expected empty slice, got nil")
	}
}

func TestQuoteExcludesTakenSlots(t *testing.T) {
	c := activeCourt(20)
	free := testSlot(60)  // 20
	taken := testSlot(30) // would be 10
	repo := &fakeBookingRepo{booked: []uuid.UUID{taken.ID}}
	svc, _ := newTestService(repo, c, slotMap(free, taken), 0)

	draft, err := svc.Quote(context.Background(), c.ID, futureDate(), []uuid.UUID{free.ID, taken.ID})
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}

	if got := draft.Total(); got != 20 {
		t.Fatalf("Total = %v, want 20 (taken slot excluded)", got)
	}
	if !draft.IsBooked(taken.ID) {
		t.Fatal("taken slot must be reported booked")
	}
	if draft.IsSelected(taken.ID) {
		t.Fatal("taken slot must not be selected")
	}
}

func TestQuoteRejectsInactiveCourt(t *testing.T) {
	c := activeCourt(20)
	c.Status = court.StatusInactive
	svc, _ := newTestService(&fakeBookingRepo{}, c, nil, 0)

	_, err := svc.Quote(context.Background(), c.ID, futureDate(), []uuid.UUID{uuid.New()})
	if !errors.Is(err, ErrCourtNotBookable) {
		t.Fatalf("expected ErrCourtNotBookable, got %v", err)
	}
}

func TestBlockRefusedWhenConfirmed(t *testing.T) {
	repo := &fakeBookingRepo{confirmed: true}
	svc, pub := newTestService(repo, nil, nil, 0)

	err := svc.Block(context.Background(), uuid.New(), uuid.New(), futureDate())
	if !errors.Is(err, ErrSlotOccupied) {
		t.Fatalf("expected ErrSlotOccupied, got %v", err)
	}
	if len(pub.events) != 0 {
		t.Fatal("no event must be published on refusal")
	}
}

func TestBlockCreatesMaintenanceBooking(t *testing.T) {
	repo := &fakeBookingRepo{}
	svc, pub := newTestService(repo, nil, nil, 0)

	if err := svc.Block(context.Background(), uuid.New(), uuid.New(), futureDate()); err != nil {
		t.Fatalf("Block: %v", err)
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(repo.created))
	}
	b := repo.created[0]
	if b.Status != StatusMaintenance {
		t.Fatalf("status = %s, want maintenance", b.Status)
	}
	if b.CustomerName != "System" || b.CustomerEmail != "system@admin.com" {
		t.Fatalf("unexpected placeholder contact: %s / %s", b.CustomerName, b.CustomerEmail)
	}
	if len(pub.events) != 1 || pub.events[0].Type != EventSlotBlocked {
		t.Fatalf("expected one slot_blocked event, got %v", pub.events)
	}
}

func TestUnblockNotBlocked(t *testing.T) {
	repo := &fakeBookingRepo{deleted: false}
	svc, _ := newTestService(repo, nil, nil, 0)

	err := svc.Unblock(context.Background(), uuid.New(), uuid.New(), futureDate())
	if !errors.Is(err, ErrNotBlocked) {
		t.Fatalf("expected ErrNotBlocked, got %v", err)
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		wantErr error
	}{
		{"pending to confirmed", StatusPending, StatusConfirmed, nil},
		{"pending to cancelled", StatusPending, StatusCancelled, nil},
		{"confirmed to completed", StatusConfirmed, StatusCompleted, nil},
		{"confirmed to cancelled", StatusConfirmed, StatusCancelled, nil},
		{"cancelled is terminal", StatusCancelled, StatusConfirmed, ErrInvalidTransition},
		{"completed is terminal", StatusCompleted, StatusCancelled, ErrInvalidTransition},
		{"pending cannot complete", StatusPending, StatusCompleted, ErrInvalidTransition},
		{"maintenance never transitions", StatusMaintenance, StatusCancelled, ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Booking{
				ID:          uuid.New(),
				CourtID:     uuid.New(),
				TimeSlotID:  uuid.New(),
				BookingDate: time.Now().AddDate(0, 0, 1),
				Status:      tt.from,
			}
			repo := &fakeBookingRepo{byID: b}
			svc, _ := newTestService(repo, nil, nil, 0)

			_, err := svc.UpdateStatus(context.Background(), b.ID, tt.to)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestUpdateStatusCancelPublishesRelease(t *testing.T) {
	b := &Booking{
		ID:          uuid.New(),
		CourtID:     uuid.New(),
		TimeSlotID:  uuid.New(),
		BookingDate: time.Now().AddDate(0, 0, 1),
		Status:      StatusConfirmed,
	}
	repo := &fakeBookingRepo{byID: b}
	svc, pub := newTestService(repo, nil, nil, 0)

	if _, err := svc.UpdateStatus(context.Background(), b.ID, StatusCancelled); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if len(pub.events) != 1 || pub.events[0].Type != EventSlotReleased {
		t.Fatalf("expected one slot_released event, got %v", pub.events)
	}
}

func TestUpdateStatusNotFound(t *testing.T) {
	svc, _ := newTestService(&fakeBookingRepo{}, nil, nil, 0)

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), StatusConfirmed)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
