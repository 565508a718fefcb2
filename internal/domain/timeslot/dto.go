package timeslot

import "time"

// TimeSlotResponse for API responses
type TimeSlotResponse struct {
	ID              string   `json:"id"`
	StartTime       string   `json:"start_time"`
	EndTime         string   `json:"end_time"`
	DurationMinutes int      `json:"duration_minutes"`
	PriceOverride   *float64 `json:"price_override,omitempty"`
	CreatedAt       string   `json:"created_at"`
}

// ToResponse converts entity to response
func (s *TimeSlot) ToResponse() *TimeSlotResponse {
	resp := &TimeSlotResponse{
		ID:              s.ID.String(),
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		DurationMinutes: s.DurationMinutes,
		CreatedAt:       s.CreatedAt.Format(time.RFC3339),
	}
	if s.PriceOverride.Valid {
		v := s.PriceOverride.Float64
		resp.PriceOverride = &v
	}
	return resp
}

// CreateRequest for staff slot catalog entries
type CreateRequest struct {
	StartTime       string   `json:"start_time" validate:"required,len=8"`
	EndTime         string   `json:"end_time" validate:"required,len=8"`
	DurationMinutes int      `json:"duration_minutes" validate:"required,gte=15,lte=480"`
	PriceOverride   *float64 `json:"price_override" validate:"omitempty,gte=0,lte=10000"`
}
