package booking

import (
	"github.com/google/uuid"
)

type SubmitRequest struct {
	CourtID     string   `json:"court_id" validate:"required,uuid"`
	Date        string   `json:"date" validate:"required,booking_date"`
	TimeSlotIDs []string `json:"time_slot_ids" validate:"required,min=1,dive,uuid"`
	Name        string   `json:"name" validate:"required,min=2,max=100"`
	Email       string   `json:"email" validate:"required,email"`
	Phone       string   `json:"phone" validate:"omitempty,max=20"`
	Notes       string   `json:"notes" validate:"omitempty,max=500"`
}

type ManualCreateRequest struct {
	CourtID    string `json:"court_id" validate:"required,uuid"`
	Date       string `json:"date" validate:"required,booking_date"`
	TimeSlotID string `json:"time_slot_id" validate:"required,uuid"`
	Name       string `json:"name" validate:"required,min=2,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"omitempty,max=20"`
	Notes      string `json:"notes" validate:"omitempty,max=500"`
}

type QuoteRequest struct {
	CourtID     string   `json:"court_id" validate:"required,uuid"`
	Date        string   `json:"date" validate:"required,booking_date"`
	TimeSlotIDs []string `json:"time_slot_ids" validate:"required,min=1,dive,uuid"`
}

// QuoteResponse reports what a selection would cost right now. Slots already
// taken are listed separately and excluded from the total.
type QuoteResponse struct {
	Total              float64     `json:"total"`
	SelectedSlotIDs    []uuid.UUID `json:"selected_slot_ids"`
	UnavailableSlotIDs []uuid.UUID `json:"unavailable_slot_ids"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,booking_status"`
}

type BlockRequest struct {
	CourtID    string `json:"court_id" validate:"required,uuid"`
	Date       string `json:"date" validate:"required,booking_date"`
	TimeSlotID string `json:"time_slot_id" validate:"required,uuid"`
}

type BookingResponse struct {
	ID            uuid.UUID `json:"id"`
	CourtID       uuid.UUID `json:"court_id"`
	TimeSlotID    uuid.UUID `json:"time_slot_id"`
	BookingDate   string    `json:"booking_date"`
	UserID        *string   `json:"user_id,omitempty"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	CustomerPhone string    `json:"customer_phone,omitempty"`
	Status        Status    `json:"status"`
	TotalAmount   float64   `json:"total_amount"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     string    `json:"created_at"`
}

type SubmitResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    float64           `json:"total"`
}

type AvailabilityResponse struct {
	CourtID       uuid.UUID   `json:"court_id"`
	Date          string      `json:"date"`
	BookedSlotIDs []uuid.UUID `json:"booked_slot_ids"`
}

// AdminAvailabilityResponse separates administrative blocks from confirmed
// customer bookings for the staff calendar.
type AdminAvailabilityResponse struct {
	CourtID        uuid.UUID   `json:"court_id"`
	Date           string      `json:"date"`
	BookedSlotIDs  []uuid.UUID `json:"booked_slot_ids"`
	BlockedSlotIDs []uuid.UUID `json:"blocked_slot_ids"`
}

func ToResponse(b *Booking) BookingResponse {
	resp := BookingResponse{
		ID:            b.ID,
		CourtID:       b.CourtID,
		TimeSlotID:    b.TimeSlotID,
		BookingDate:   b.DateString(),
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		Status:        b.Status,
		CreatedAt:     b.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if b.UserID.Valid {
		id := b.UserID.UUID.String()
		resp.UserID = &id
	}
	if b.CustomerPhone.Valid {
		resp.CustomerPhone = b.CustomerPhone.String
	}
	if b.TotalAmount.Valid {
		resp.TotalAmount = b.TotalAmount.Float64
	}
	if b.Notes.Valid {
		resp.Notes = b.Notes.String
	}
	return resp
}

func ToResponseList(bookings []Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, ToResponse(&bookings[i]))
	}
	return out
}
