package profile

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/courtside/courtside-api/internal/middleware"
	"github.com/courtside/courtside-api/internal/pkg/errorhandler"
	"github.com/courtside/courtside-api/internal/pkg/response"
	"github.com/courtside/courtside-api/internal/pkg/validator"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// Me handles GET /api/v1/me. The frontend uses it to prefill the booking
// contact form for signed-in customers.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Authentication required")
		return
	}

	p, err := h.repo.GetByID(r.Context(), userID)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError,
			"PROFILE_FETCH_FAILED", "Failed to load profile", err)
		return
	}
	if p == nil {
		response.NotFound(w, "Profile not found")
		return
	}

	response.OK(w, ToResponse(p))
}

// List handles GET /api/admin/profiles?search=&limit=&offset=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	limit := 50
	offset := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	profiles, err := h.repo.List(r.Context(), search, limit, offset)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError,
			"LIST_FAILED", "Failed to list profiles", err)
		return
	}
	total, err := h.repo.Count(r.Context(), search)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError,
			"LIST_FAILED", "Failed to list profiles", err)
		return
	}

	page := offset/limit + 1
	pages := (total + limit - 1) / limit
	response.WithMeta(w, ToResponseList(profiles), response.Meta{
		Total:   total,
		Page:    page,
		Limit:   limit,
		Pages:   pages,
		HasNext: page < pages,
		HasPrev: page > 1,
	})
}

// UpdateRole handles PATCH /api/admin/profiles/{id}/role
func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid profile ID")
		return
	}

	var req UpdateRoleRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	if err := h.repo.UpdateRole(r.Context(), id, req.Role); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Profile not found")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError,
			"UPDATE_FAILED", "Failed to update role", err)
		return
	}

	response.OK(w, map[string]string{"id": id.String(), "role": req.Role})
}
