package profile

import "github.com/google/uuid"

type ProfileResponse struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	CreatedAt string    `json:"created_at"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,role"`
}

func ToResponse(p *Profile) ProfileResponse {
	resp := ProfileResponse{
		ID:        p.ID,
		FullName:  p.FullName,
		Email:     p.Email,
		Role:      p.Role,
		CreatedAt: p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if p.Phone.Valid {
		resp.Phone = p.Phone.String
	}
	return resp
}

func ToResponseList(profiles []Profile) []ProfileResponse {
	out := make([]ProfileResponse, 0, len(profiles))
	for i := range profiles {
		out = append(out, ToResponse(&profiles[i]))
	}
	return out
}
