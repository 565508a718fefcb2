package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/courtside/courtside-api/internal/domain/court"
	"github.com/courtside/courtside-api/internal/domain/timeslot"
)

// EventPublisher pushes slot state changes to availability subscribers
type EventPublisher interface {
	Publish(ctx context.Context, event SlotEvent)
}

// Service drives the reservation workflow: availability reads, customer
// submissions, staff manual bookings, status transitions, and maintenance
// blocks. Conflict avoidance is optimistic; the database's partial unique
// index is the only cross-session guard, surfaced here as ErrSlotConflict.
type Service struct {
	repo     Repository
	courts   court.Repository
	slots    timeslot.Repository
	cache    *AvailabilityCache
	events   EventPublisher
	maxSlots int
}

// NewService creates a booking service. cache and events may be nil.
func NewService(repo Repository, courts court.Repository, slots timeslot.Repository, cache *AvailabilityCache, events EventPublisher, maxSlots int) *Service {
	return &Service{
		repo:     repo,
		courts:   courts,
		slots:    slots,
		cache:    cache,
		events:   events,
		maxSlots: maxSlots,
	}
}

// SubmitInput is a submission-ready draft: court, date, slots and contact,
// plus the optional authenticated identity to link.
type SubmitInput struct {
	CourtID     uuid.UUID
	Date        string // YYYY-MM-DD
	TimeSlotIDs []uuid.UUID
	Contact     ContactInfo
	Notes       string
	UserID      uuid.NullUUID
}

// SubmitResult describes a committed submission
type SubmitResult struct {
	Bookings []*Booking
	Total    float64
}

// Availability returns the slot IDs occupied by any non-cancelled booking
// for (court, date). Read-only and idempotent. On failure the error wraps
// ErrAvailabilityFetchFailed; callers must treat availability as unknown,
// never as empty.
func (s *Service) Availability(ctx context.Context, courtID uuid.UUID, date string) ([]uuid.UUID, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}

	if ids, ok := s.cache.Get(ctx, courtID, date); ok {
		return ids, nil
	}

	ids, err := s.repo.BookedSlotIDs(ctx, courtID, date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAvailabilityFetchFailed, err)
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}

	s.cache.Set(ctx, courtID, date, ids)
	return ids, nil
}

// Submit creates one pending booking per selected slot, all in a single
// transaction. A uniqueness violation on any row fails the whole submission
// with ErrSlotConflict and commits nothing.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	if err := s.validateSubmit(in); err != nil {
		return nil, err
	}

	c, err := s.courts.GetByID(ctx, in.CourtID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}
	if c == nil || c.Status != court.StatusActive {
		return nil, ErrCourtNotBookable
	}

	slots, err := s.slots.GetByIDs(ctx, in.TimeSlotIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}
	if len(slots) != len(dedupe(in.TimeSlotIDs)) {
		return nil, ErrUnknownSlot
	}

	bookingDate, err := time.Parse("2006-01-02", in.Date)
	if err != nil {
		return nil, ErrPastDate
	}

	rate := c.Rate()
	now := time.Now()
	result := &SubmitResult{Bookings: make([]*Booking, 0, len(slots))}

	for i := range slots {
		slot := slots[i]
		amount := slot.Price(rate)
		result.Total += amount

		b := &Booking{
			ID:            uuid.New(),
			CourtID:       c.ID,
			TimeSlotID:    slot.ID,
			BookingDate:   bookingDate,
			UserID:        in.UserID,
			CustomerName:  in.Contact.Name,
			CustomerEmail: in.Contact.Email,
			Status:        StatusPending,
			TotalAmount:   sql.NullFloat64{Float64: amount, Valid: true},
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if in.Contact.Phone != "" {
			b.CustomerPhone = sql.NullString{String: in.Contact.Phone, Valid: true}
		}
		if in.Notes != "" {
			b.Notes = sql.NullString{String: in.Notes, Valid: true}
		}
		result.Bookings = append(result.Bookings, b)
	}

	if err := s.repo.CreateAll(ctx, result.Bookings); err != nil {
		if isSlotConflict(err) {
			// Someone else took a slot between the availability read and
			// now. The transaction rolled back; reflect the true state.
			s.cache.Invalidate(ctx, in.CourtID, in.Date)
			return nil, ErrSlotConflict
		}
		return nil, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}

	s.cache.Invalidate(ctx, in.CourtID, in.Date)
	s.publish(ctx, SlotEvent{
		Type:    EventSlotBooked,
		CourtID: in.CourtID,
		Date:    in.Date,
		SlotIDs: in.TimeSlotIDs,
	})

	log.Info().
		Str("court_id", in.CourtID.String()).
		Str("date", in.Date).
		Int("slots", len(result.Bookings)).
		Float64("total", result.Total).
		Msg("Booking submitted")

	return result, nil
}

// Quote prices a prospective selection without reserving anything. It rebuilds
// the selection as a draft against current availability, so slots taken since
// the client last refreshed drop out of the quote.
func (s *Service) Quote(ctx context.Context, courtID uuid.UUID, date string, slotIDs []uuid.UUID) (*Draft, error) {
	c, err := s.courts.GetByID(ctx, courtID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAvailabilityFetchFailed, err)
	}
	if c == nil || c.Status != court.StatusActive {
		return nil, ErrCourtNotBookable
	}

	d := NewDraft(s.maxSlots)
	d.SelectCourt(c)
	if err := d.SelectDate(date, time.Now()); err != nil {
		return nil, err
	}

	booked, err := s.Availability(ctx, courtID, date)
	if err != nil {
		return nil, err
	}
	d.SetAvailability(booked)

	slots, err := s.slots.GetByIDs(ctx, slotIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAvailabilityFetchFailed, err)
	}
	if len(slots) != len(dedupe(slotIDs)) {
		return nil, ErrUnknownSlot
	}
	for _, slot := range slots {
		d.ToggleSlot(slot)
	}

	return d, nil
}

// CreateManual creates a single staff booking, already confirmed
func (s *Service) CreateManual(ctx context.Context, in SubmitInput) (*Booking, error) {
	if len(in.TimeSlotIDs) != 1 {
		return nil, ErrUnknownSlot
	}
	if err := s.validateSubmit(in); err != nil {
		return nil, err
	}

	c, err := s.courts.GetByID(ctx, in.CourtID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}
	if c == nil {
		return nil, ErrCourtNotBookable
	}

	slot, err := s.slots.GetByID(ctx, in.TimeSlotIDs[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}
	if slot == nil {
		return nil, ErrUnknownSlot
	}

	bookingDate, err := time.Parse("2006-01-02", in.Date)
	if err != nil {
		return nil, ErrPastDate
	}

	now := time.Now()
	amount := slot.Price(c.Rate())
	b := &Booking{
		ID:            uuid.New(),
		CourtID:       c.ID,
		TimeSlotID:    slot.ID,
		BookingDate:   bookingDate,
		UserID:        in.UserID,
		CustomerName:  in.Contact.Name,
		CustomerEmail: in.Contact.Email,
		Status:        StatusConfirmed,
		TotalAmount:   sql.NullFloat64{Float64: amount, Valid: true},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if in.Contact.Phone != "" {
		b.CustomerPhone = sql.NullString{String: in.Contact.Phone, Valid: true}
	}
	if in.Notes != "" {
		b.Notes = sql.NullString{String: in.Notes, Valid: true}
	}

	if err := s.repo.CreateAll(ctx, []*Booking{b}); err != nil {
		if isSlotConflict(err) {
			s.cache.Invalidate(ctx, in.CourtID, in.Date)
			return nil, ErrSlotConflict
		}
		return nil, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}

	s.cache.Invalidate(ctx, in.CourtID, in.Date)
	s.publish(ctx, SlotEvent{
		Type:    EventSlotBooked,
		CourtID: in.CourtID,
		Date:    in.Date,
		SlotIDs: []uuid.UUID{slot.ID},
	})

	return b, nil
}

// Block marks (court, date, slot) administratively unavailable by creating a
// maintenance booking. Refused when a confirmed customer booking holds the
// slot; a uniqueness violation means it is already blocked or booked.
func (s *Service) Block(ctx context.Context, courtID, slotID uuid.UUID, date string) error {
	if err := validateDate(date); err != nil {
		return err
	}

	occupied, err := s.repo.HasConfirmed(ctx, courtID, slotID, date)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}
	if occupied {
		return ErrSlotOccupied
	}

	bookingDate, _ := time.Parse("2006-01-02", date)
	now := time.Now()
	b := &Booking{
		ID:            uuid.New(),
		CourtID:       courtID,
		TimeSlotID:    slotID,
		BookingDate:   bookingDate,
		CustomerName:  maintenanceCustomerName,
		CustomerEmail: maintenanceCustomerEmail,
		Status:        StatusMaintenance,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.CreateAll(ctx, []*Booking{b}); err != nil {
		if isSlotConflict(err) {
			s.cache.Invalidate(ctx, courtID, date)
			return ErrSlotConflict
		}
		return fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}

	s.cache.Invalidate(ctx, courtID, date)
	s.publish(ctx, SlotEvent{
		Type:    EventSlotBlocked,
		CourtID: courtID,
		Date:    date,
		SlotIDs: []uuid.UUID{slotID},
	})

	return nil
}

// Unblock removes the maintenance block for (court, date, slot)
func (s *Service) Unblock(ctx context.Context, courtID, slotID uuid.UUID, date string) error {
	if err := validateDate(date); err != nil {
		return err
	}

	deleted, err := s.repo.DeleteMaintenance(ctx, courtID, slotID, date)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}
	if !deleted {
		return ErrNotBlocked
	}

	s.cache.Invalidate(ctx, courtID, date)
	s.publish(ctx, SlotEvent{
		Type:    EventSlotUnblocked,
		CourtID: courtID,
		Date:    date,
		SlotIDs: []uuid.UUID{slotID},
	})

	return nil
}

// UpdateStatus applies a staff-driven lifecycle transition. Cancelling frees
// the slot for the same (court, date) pair.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, to Status) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}
	if b == nil {
		return nil, ErrNotFound
	}

	if !CanTransition(b.Status, to) {
		return nil, ErrInvalidTransition
	}

	if err := s.repo.UpdateStatus(ctx, id, to); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}
	b.Status = to

	date := b.DateString()
	s.cache.Invalidate(ctx, b.CourtID, date)
	if to == StatusCancelled {
		s.publish(ctx, SlotEvent{
			Type:    EventSlotReleased,
			CourtID: b.CourtID,
			Date:    date,
			SlotIDs: []uuid.UUID{b.TimeSlotID},
		})
	}

	return b, nil
}

// Get returns a booking by ID
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNotFound
	}
	return b, nil
}

// List returns bookings matching the filter, plus the unpaged total
func (s *Service) List(ctx context.Context, f ListFilter) ([]Booking, int, error) {
	bookings, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// BlockedAndBooked returns the maintenance-blocked and confirmed slot IDs
// for (court, date), for the staff availability view.
func (s *Service) BlockedAndBooked(ctx context.Context, courtID uuid.UUID, date string) (blocked, booked []uuid.UUID, err error) {
	if err := validateDate(date); err != nil {
		return nil, nil, err
	}

	blocked, err = s.repo.SlotIDsByStatus(ctx, courtID, date, StatusMaintenance)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrAvailabilityFetchFailed, err)
	}
	booked, err = s.repo.SlotIDsByStatus(ctx, courtID, date, StatusConfirmed)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrAvailabilityFetchFailed, err)
	}
	if blocked == nil {
		blocked = []uuid.UUID{}
	}
	if booked == nil {
		booked = []uuid.UUID{}
	}
	return blocked, booked, nil
}

func (s *Service) validateSubmit(in SubmitInput) error {
	if in.Contact.Name == "" || in.Contact.Email == "" {
		return ErrSubmissionInvalid
	}
	if len(in.TimeSlotIDs) == 0 {
		return ErrSubmissionInvalid
	}
	if s.maxSlots > 0 && len(in.TimeSlotIDs) > s.maxSlots {
		return ErrTooManySlots
	}
	if err := validateDate(in.Date); err != nil {
		return err
	}

	parsed, _ := time.Parse("2006-01-02", in.Date)
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if parsed.Before(today) {
		return ErrPastDate
	}
	return nil
}

func (s *Service) publish(ctx context.Context, event SlotEvent) {
	if s.events != nil {
		s.events.Publish(ctx, event)
	}
}

func validateDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
