package court

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/courtside/courtside-api/internal/pkg/errorhandler"
	imgpkg "github.com/courtside/courtside-api/internal/pkg/imaging"
	"github.com/courtside/courtside-api/internal/pkg/response"
	"github.com/courtside/courtside-api/internal/pkg/storage"
	"github.com/courtside/courtside-api/internal/pkg/validator"
)

const maxImageSize = 10 << 20 // 10 MB

// Handler handles court HTTP requests
type Handler struct {
	repo      Repository
	storage   storage.Storage
	processor *imgpkg.Processor
}

// NewHandler creates a new court handler
func NewHandler(repo Repository, store storage.Storage, processor *imgpkg.Processor) *Handler {
	return &Handler{
		repo:      repo,
		storage:   store,
		processor: processor,
	}
}

// List handles GET / - customer-facing list, active courts only
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	courts, err := h.repo.ListByStatus(r.Context(), StatusActive)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "COURT_LIST_FAILED", "Failed to list courts", err)
		return
	}

	resp := make([]*CourtResponse, len(courts))
	for i := range courts {
		resp[i] = courts[i].ToResponse()
	}
	response.OK(w, resp)
}

// ListAll handles GET /all - staff view including maintenance and inactive courts
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	courts, err := h.repo.ListAll(r.Context())
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "COURT_LIST_FAILED", "Failed to list courts", err)
		return
	}

	resp := make([]*CourtResponse, len(courts))
	for i := range courts {
		resp[i] = courts[i].ToResponse()
	}
	response.OK(w, resp)
}

// Get handles GET /{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid court ID")
		return
	}

	c, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "COURT_FETCH_FAILED", "Failed to fetch court", err)
		return
	}
	if c == nil {
		response.NotFound(w, "Court not found")
		return
	}

	response.OK(w, c.ToResponse())
}

// Update handles PUT /{id} - staff metadata edit
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid court ID")
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	c, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "COURT_FETCH_FAILED", "Failed to fetch court", err)
		return
	}
	if c == nil {
		response.NotFound(w, "Court not found")
		return
	}

	c.Name = req.Name
	c.Description = sql.NullString{String: req.Description, Valid: req.Description != ""}
	c.Status = Status(req.Status)
	c.Tags = req.Tags
	if req.HourlyRate != nil {
		c.HourlyRate = sql.NullFloat64{Float64: *req.HourlyRate, Valid: true}
	} else {
		c.HourlyRate = sql.NullFloat64{}
	}

	if err := h.repo.Update(r.Context(), c); err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "COURT_UPDATE_FAILED", "Failed to update court", err)
		return
	}

	response.OK(w, c.ToResponse())
}

// UploadImage handles POST /{id}/image - staff court photo upload
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid court ID")
		return
	}

	c, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "COURT_FETCH_FAILED", "Failed to fetch court", err)
		return
	}
	if c == nil {
		response.NotFound(w, "Court not found")
		return
	}

	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		response.BadRequest(w, "Invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		response.BadRequest(w, "Missing image file")
		return
	}
	defer file.Close()

	processed, err := h.processor.Process(file)
	if err != nil {
		response.BadRequest(w, "Unsupported or corrupt image")
		return
	}

	key := fmt.Sprintf("courts/%s/%s.jpg", c.ID, uuid.New())
	if err := h.storage.Put(r.Context(), key, bytes.NewReader(processed.Original), processed.ContentType); err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "IMAGE_UPLOAD_FAILED", "Failed to store image", err)
		return
	}

	thumbKey := fmt.Sprintf("courts/%s/thumbs/%s.jpg", c.ID, uuid.New())
	if err := h.storage.Put(r.Context(), thumbKey, bytes.NewReader(processed.Thumbnail), processed.ContentType); err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "IMAGE_UPLOAD_FAILED", "Failed to store thumbnail", err)
		return
	}

	imageURL := h.storage.URL(key)
	if err := h.repo.UpdateImageURL(r.Context(), c.ID, imageURL); err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "COURT_UPDATE_FAILED", "Failed to save image URL", err)
		return
	}

	response.OK(w, map[string]string{
		"image_url":     imageURL,
		"thumbnail_url": h.storage.URL(thumbKey),
	})
}
