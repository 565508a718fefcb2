package timeslot

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns public time slot routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)

	return r
}

// AdminRoutes returns staff-only catalog management routes
func (h *Handler) AdminRoutes(authMiddleware, staffMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)
	r.Use(staffMiddleware)

	r.Post("/", h.Create)
	r.Delete("/{id}", h.Delete)

	return r
}
