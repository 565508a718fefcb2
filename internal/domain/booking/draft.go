package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/courtside/courtside-api/internal/domain/court"
	"github.com/courtside/courtside-api/internal/domain/timeslot"
)

// ContactInfo holds the customer details attached to every booking row
type ContactInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Draft is an explicit snapshot of one in-progress reservation: court, date,
// slot selection, last known availability, and contact info. It owns the
// selection rules; nothing here touches the backend. Serializable so a client
// session can be persisted and restored.
type Draft struct {
	Court         *court.Court        `json:"court,omitempty"`
	Date          string              `json:"date,omitempty"` // YYYY-MM-DD
	Selected      []timeslot.TimeSlot `json:"selected_slots"`
	BookedSlotIDs []uuid.UUID         `json:"booked_slot_ids"`

	// AvailabilityFresh is false until availability for the current court and
	// date has been loaded. While false, no slot can be selected: unknown
	// availability is treated as not bookable.
	AvailabilityFresh bool `json:"availability_fresh"`

	Contact ContactInfo `json:"contact"`

	// MaxSlots limits the selection size; 0 means unbounded.
	MaxSlots int `json:"max_slots,omitempty"`
}

// NewDraft returns an empty draft
func NewDraft(maxSlots int) *Draft {
	return &Draft{MaxSlots: maxSlots}
}

// SelectCourt switches the draft to a court. Slot selections from another
// court are invalid, so the selection and known availability are cleared.
func (d *Draft) SelectCourt(c *court.Court) {
	d.Court = c
	d.Selected = nil
	d.BookedSlotIDs = nil
	d.AvailabilityFresh = false
}

// SelectDate sets the booking date. Dates before today (relative to now in
// its own location) are rejected. Changing the date clears the selection.
func (d *Draft) SelectDate(date string, now time.Time) error {
	parsed, err := time.ParseInLocation("2006-01-02", date, now.Location())
	if err != nil {
		return ErrPastDate
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if parsed.Before(today) {
		return ErrPastDate
	}

	d.Date = date
	d.Selected = nil
	d.BookedSlotIDs = nil
	d.AvailabilityFresh = false
	return nil
}

// SetAvailability records the occupied slot IDs for the current court/date
func (d *Draft) SetAvailability(bookedIDs []uuid.UUID) {
	d.BookedSlotIDs = bookedIDs
	d.AvailabilityFresh = true

	// Drop selections invalidated by the refresh.
	kept := d.Selected[:0]
	for _, s := range d.Selected {
		if !d.IsBooked(s.ID) {
			kept = append(kept, s)
		}
	}
	d.Selected = kept
}

// IsBooked reports whether a slot is occupied for the current court/date
func (d *Draft) IsBooked(slotID uuid.UUID) bool {
	for _, id := range d.BookedSlotIDs {
		if id == slotID {
			return true
		}
	}
	return false
}

// IsSelected reports whether a slot is in the current selection
func (d *Draft) IsSelected(slotID uuid.UUID) bool {
	for _, s := range d.Selected {
		if s.ID == slotID {
			return true
		}
	}
	return false
}

// ToggleSlot adds or removes a slot from the selection. Booked slots and
// slots with unknown availability are not selectable; returns whether the
// selection changed.
func (d *Draft) ToggleSlot(slot timeslot.TimeSlot) bool {
	if !d.AvailabilityFresh || d.IsBooked(slot.ID) {
		return false
	}

	for i, s := range d.Selected {
		if s.ID == slot.ID {
			d.Selected = append(d.Selected[:i], d.Selected[i+1:]...)
			return true
		}
	}

	if d.MaxSlots > 0 && len(d.Selected) >= d.MaxSlots {
		return false
	}
	d.Selected = append(d.Selected, slot)
	return true
}

// Total computes the price of the current selection: per slot, the price
// override when present, otherwise the court's hourly rate prorated by
// duration. Pure; returns 0 with no court or no slots selected.
func (d *Draft) Total() float64 {
	if d.Court == nil {
		return 0
	}
	rate := d.Court.Rate()
	var total float64
	for _, s := range d.Selected {
		total += s.Price(rate)
	}
	return total
}

// SelectedSlotIDs returns the IDs of the selected slots
func (d *Draft) SelectedSlotIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(d.Selected))
	for i, s := range d.Selected {
		ids[i] = s.ID
	}
	return ids
}

// Validate checks submission preconditions before any backend call.
// Returns a field->message map, nil when the draft is submittable.
func (d *Draft) Validate() map[string]string {
	details := make(map[string]string)
	if d.Court == nil {
		details["court_id"] = "Select a court"
	}
	if d.Date == "" {
		details["date"] = "Select a date"
	}
	if len(d.Selected) == 0 {
		details["time_slot_ids"] = "Select at least one time slot"
	}
	if d.Contact.Name == "" {
		details["name"] = "This field is required"
	}
	if d.Contact.Email == "" {
		details["email"] = "This field is required"
	}
	if len(details) == 0 {
		return nil
	}
	return details
}
