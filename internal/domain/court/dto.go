package court

import "time"

// CourtResponse for API responses
type CourtResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
	Status      string   `json:"status"`
	Tags        []string `json:"tags"`
	HourlyRate  float64  `json:"hourly_rate"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

// ToResponse converts entity to response
func (c *Court) ToResponse() *CourtResponse {
	resp := &CourtResponse{
		ID:         c.ID.String(),
		Name:       c.Name,
		Status:     string(c.Status),
		Tags:       c.Tags,
		HourlyRate: c.Rate(),
		CreatedAt:  c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  c.UpdatedAt.Format(time.RFC3339),
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if c.Description.Valid {
		resp.Description = c.Description.String
	}
	if c.ImageURL.Valid {
		resp.ImageURL = c.ImageURL.String
	}
	return resp
}

// UpdateRequest for staff court metadata updates
type UpdateRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	Status      string   `json:"status" validate:"required,court_status"`
	Tags        []string `json:"tags" validate:"max=20,dive,min=1,max=50"`
	HourlyRate  *float64 `json:"hourly_rate" validate:"omitempty,gte=0,lte=10000"`
}
