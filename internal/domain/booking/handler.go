package booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/courtside/courtside-api/internal/middleware"
	"github.com/courtside/courtside-api/internal/pkg/errorhandler"
	"github.com/courtside/courtside-api/internal/pkg/response"
	"github.com/courtside/courtside-api/internal/pkg/validator"
)

type Handler struct {
	service  *Service
	hub      *Hub
	upgrader websocket.Upgrader
}

func NewHandler(service *Service, hub *Hub, allowedOrigins []string) *Handler {
	return &Handler{
		service: service,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

// Availability handles GET /api/v1/availability?court_id=&date=
func (h *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	courtID, date, ok := h.availabilityParams(w, r)
	if !ok {
		return
	}

	ids, err := h.service.Availability(r.Context(), courtID, date)
	if err != nil {
		if errors.Is(err, ErrInvalidDate) {
			response.BadRequest(w, ErrInvalidDate.Error())
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError,
			"AVAILABILITY_FETCH_FAILED", "Failed to load availability", err)
		return
	}

	response.OK(w, AvailabilityResponse{
		CourtID:       courtID,
		Date:          date,
		BookedSlotIDs: ids,
	})
}

// AdminAvailability handles GET /api/admin/availability?court_id=&date=
// and splits maintenance blocks out from confirmed bookings
func (h *Handler) AdminAvailability(w http.ResponseWriter, r *http.Request) {
	courtID, date, ok := h.availabilityParams(w, r)
	if !ok {
		return
	}

	blocked, booked, err := h.service.BlockedAndBooked(r.Context(), courtID, date)
	if err != nil {
		if errors.Is(err, ErrInvalidDate) {
			response.BadRequest(w, ErrInvalidDate.Error())
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError,
			"AVAILABILITY_FETCH_FAILED", "Failed to load availability", err)
		return
	}

	response.OK(w, AdminAvailabilityResponse{
		CourtID:        courtID,
		Date:           date,
		BookedSlotIDs:  booked,
		BlockedSlotIDs: blocked,
	})
}

// Submit handles POST /api/v1/bookings. Works for anonymous visitors; with a
// valid token the booking is linked to the account.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	courtID, err := uuid.Parse(req.CourtID)
	if err != nil {
		response.BadRequest(w, "Invalid court ID")
		return
	}
	slotIDs, err := parseUUIDs(req.TimeSlotIDs)
	if err != nil {
		response.BadRequest(w, "Invalid time slot ID")
		return
	}

	in := SubmitInput{
		CourtID:     courtID,
		Date:        req.Date,
		TimeSlotIDs: slotIDs,
		Contact:     ContactInfo{Name: req.Name, Email: req.Email, Phone: req.Phone},
		Notes:       req.Notes,
	}
	if userID := middleware.GetUserID(r.Context()); userID != uuid.Nil {
		in.UserID = uuid.NullUUID{UUID: userID, Valid: true}
	}

	result, err := h.service.Submit(r.Context(), in)
	if err != nil {
		h.handleSubmitError(w, r, err)
		return
	}

	response.Created(w, SubmitResponse{
		Bookings: toResponsePtrs(result.Bookings),
		Total:    result.Total,
	})
}

// Quote handles POST /api/v1/bookings/quote. Prices a selection against
// current availability without reserving anything.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	courtID, err := uuid.Parse(req.CourtID)
	if err != nil {
		response.BadRequest(w, "Invalid court ID")
		return
	}
	slotIDs, err := parseUUIDs(req.TimeSlotIDs)
	if err != nil {
		response.BadRequest(w, "Invalid time slot ID")
		return
	}

	draft, err := h.service.Quote(r.Context(), courtID, req.Date, slotIDs)
	if err != nil {
		h.handleSubmitError(w, r, err)
		return
	}

	unavailable := []uuid.UUID{}
	for _, id := range slotIDs {
		if draft.IsBooked(id) {
			unavailable = append(unavailable, id)
		}
	}

	response.OK(w, QuoteResponse{
		Total:              draft.Total(),
		SelectedSlotIDs:    draft.SelectedSlotIDs(),
		UnavailableSlotIDs: unavailable,
	})
}

// Stream handles GET /ws/availability?court_id=&date= and streams slot
// events for that court and date until the client disconnects
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	courtID, date, ok := h.availabilityParams(w, r)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	h.hub.Register(&Connection{
		Topic: courtID.String() + ":" + date,
		Conn:  conn,
		Send:  make(chan []byte, 16),
	})
}

// List handles GET /api/admin/bookings with optional filters
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	f := ListFilter{Limit: 50, Offset: 0}

	if v := r.URL.Query().Get("court_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.BadRequest(w, "Invalid court ID")
			return
		}
		f.CourtID = uuid.NullUUID{UUID: id, Valid: true}
	}
	if v := r.URL.Query().Get("status"); v != "" {
		if !IsValidStatus(Status(v)) {
			response.BadRequest(w, "Invalid status filter")
			return
		}
		f.Status = Status(v)
	}
	f.DateFrom = r.URL.Query().Get("date_from")
	f.DateTo = r.URL.Query().Get("date_to")
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			f.Limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			f.Offset = n
		}
	}

	bookings, total, err := h.service.List(r.Context(), f)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError,
			"LIST_FAILED", "Failed to list bookings", err)
		return
	}

	page := f.Offset/f.Limit + 1
	pages := (total + f.Limit - 1) / f.Limit
	response.WithMeta(w, ToResponseList(bookings), response.Meta{
		Total:   total,
		Page:    page,
		Limit:   f.Limit,
		Pages:   pages,
		HasNext: page < pages,
		HasPrev: page > 1,
	})
}

// Get handles GET /api/admin/bookings/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Booking not found")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError,
			"GET_FAILED", "Failed to load booking", err)
		return
	}

	response.OK(w, ToResponse(b))
}

// CreateManual handles POST /api/admin/bookings, a single-slot confirmed
// booking entered by staff on a customer's behalf
func (h *Handler) CreateManual(w http.ResponseWriter, r *http.Request) {
	var req ManualCreateRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	courtID, err := uuid.Parse(req.CourtID)
	if err != nil {
		response.BadRequest(w, "Invalid court ID")
		return
	}
	slotID, err := uuid.Parse(req.TimeSlotID)
	if err != nil {
		response.BadRequest(w, "Invalid time slot ID")
		return
	}

	b, err := h.service.CreateManual(r.Context(), SubmitInput{
		CourtID:     courtID,
		Date:        req.Date,
		TimeSlotIDs: []uuid.UUID{slotID},
		Contact:     ContactInfo{Name: req.Name, Email: req.Email, Phone: req.Phone},
		Notes:       req.Notes,
	})
	if err != nil {
		h.handleSubmitError(w, r, err)
		return
	}

	response.Created(w, ToResponse(b))
}

// UpdateStatus handles PATCH /api/admin/bookings/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	var req UpdateStatusRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	b, err := h.service.UpdateStatus(r.Context(), id, Status(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(w, "Booking not found")
		case errors.Is(err, ErrInvalidTransition):
			response.Conflict(w, ErrInvalidTransition.Error())
		default:
			errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError,
				"UPDATE_FAILED", "Failed to update booking", err)
		}
		return
	}

	response.OK(w, ToResponse(b))
}

// Block handles POST /api/admin/blocks
func (h *Handler) Block(w http.ResponseWriter, r *http.Request) {
	courtID, slotID, date, ok := h.blockParams(w, r)
	if !ok {
		return
	}

	if err := h.service.Block(r.Context(), courtID, slotID, date); err != nil {
		switch {
		case errors.Is(err, ErrSlotOccupied):
			response.Conflict(w, ErrSlotOccupied.Error())
		case errors.Is(err, ErrSlotConflict):
			response.Conflict(w, "Slot is already blocked or booked")
		case errors.Is(err, ErrInvalidDate):
			response.BadRequest(w, ErrInvalidDate.Error())
		default:
			errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError,
				"BLOCK_FAILED", "Failed to block slot", err)
		}
		return
	}

	response.NoContent(w)
}

// Unblock handles DELETE /api/admin/blocks
func (h *Handler) Unblock(w http.ResponseWriter, r *http.Request) {
	courtID, slotID, date, ok := h.blockParams(w, r)
	if !ok {
		return
	}

	if err := h.service.Unblock(r.Context(), courtID, slotID, date); err != nil {
		switch {
		case errors.Is(err, ErrNotBlocked):
			response.NotFound(w, ErrNotBlocked.Error())
		case errors.Is(err, ErrInvalidDate):
			response.BadRequest(w, ErrInvalidDate.Error())
		default:
			errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError,
				"UNBLOCK_FAILED", "Failed to unblock slot", err)
		}
		return
	}

	response.NoContent(w)
}

func (h *Handler) handleSubmitError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrSlotConflict):
		response.Conflict(w, ErrSlotConflict.Error())
	case errors.Is(err, ErrCourtNotBookable):
		response.Error(w, http.StatusUnprocessableEntity, "COURT_NOT_BOOKABLE", ErrCourtNotBookable.Error())
	case errors.Is(err, ErrUnknownSlot):
		response.Error(w, http.StatusUnprocessableEntity, "UNKNOWN_SLOT", ErrUnknownSlot.Error())
	case errors.Is(err, ErrPastDate):
		response.Error(w, http.StatusUnprocessableEntity, "PAST_DATE", ErrPastDate.Error())
	case errors.Is(err, ErrTooManySlots):
		response.Error(w, http.StatusUnprocessableEntity, "TOO_MANY_SLOTS", ErrTooManySlots.Error())
	case errors.Is(err, ErrInvalidDate), errors.Is(err, ErrSubmissionInvalid):
		response.BadRequest(w, err.Error())
	default:
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError,
			"SUBMISSION_FAILED", "Failed to submit booking", err)
	}
}

func (h *Handler) availabilityParams(w http.ResponseWriter, r *http.Request) (uuid.UUID, string, bool) {
	courtID, err := uuid.Parse(r.URL.Query().Get("court_id"))
	if err != nil {
		response.BadRequest(w, "Invalid court ID")
		return uuid.Nil, "", false
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		response.BadRequest(w, "Missing date")
		return uuid.Nil, "", false
	}
	return courtID, date, true
}

func (h *Handler) blockParams(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, string, bool) {
	var req BlockRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return uuid.Nil, uuid.Nil, "", false
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return uuid.Nil, uuid.Nil, "", false
	}

	courtID, err := uuid.Parse(req.CourtID)
	if err != nil {
		response.BadRequest(w, "Invalid court ID")
		return uuid.Nil, uuid.Nil, "", false
	}
	slotID, err := uuid.Parse(req.TimeSlotID)
	if err != nil {
		response.BadRequest(w, "Invalid time slot ID")
		return uuid.Nil, uuid.Nil, "", false
	}
	return courtID, slotID, req.Date, true
}

func parseUUIDs(in []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(in))
	for _, s := range in {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func toResponsePtrs(bookings []*Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, ToResponse(b))
	}
	return out
}
