package timeslot

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/courtside/courtside-api/internal/pkg/errorhandler"
	"github.com/courtside/courtside-api/internal/pkg/response"
	"github.com/courtside/courtside-api/internal/pkg/validator"
)

// Handler handles time slot HTTP requests
type Handler struct {
	repo Repository
}

// NewHandler creates a new time slot handler
func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// List handles GET / - the slot catalog, ordered by start time
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	slots, err := h.repo.List(r.Context())
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "TIMESLOT_LIST_FAILED", "Failed to list time slots", err)
		return
	}

	resp := make([]*TimeSlotResponse, len(slots))
	for i := range slots {
		resp[i] = slots[i].ToResponse()
	}
	response.OK(w, resp)
}

// Create handles POST / - staff catalog entry
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}
	if _, err := time.Parse("15:04:05", req.StartTime); err != nil {
		response.BadRequest(w, "start_time must be HH:MM:SS")
		return
	}
	if _, err := time.Parse("15:04:05", req.EndTime); err != nil {
		response.BadRequest(w, "end_time must be HH:MM:SS")
		return
	}
	if req.EndTime <= req.StartTime {
		response.BadRequest(w, "end_time must be after start_time")
		return
	}

	slot := &TimeSlot{
		ID:              uuid.New(),
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		DurationMinutes: req.DurationMinutes,
		CreatedAt:       time.Now(),
	}
	if req.PriceOverride != nil {
		slot.PriceOverride = sql.NullFloat64{Float64: *req.PriceOverride, Valid: true}
	}

	if err := h.repo.Create(r.Context(), slot); err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "TIMESLOT_CREATE_FAILED", "Failed to create time slot", err)
		return
	}

	response.Created(w, slot.ToResponse())
}

// Delete handles DELETE /{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid time slot ID")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "TIMESLOT_DELETE_FAILED", "Failed to delete time slot", err)
		return
	}

	response.NoContent(w)
}
