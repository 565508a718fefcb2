package booking

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the public booking surface. optionalAuth attaches the
// caller's identity to submissions when a valid token is present.
func (h *Handler) Routes(optionalAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/availability", h.Availability)
	r.Post("/bookings/quote", h.Quote)
	r.With(optionalAuth).Post("/bookings", h.Submit)

	return r
}

// AdminRoutes returns the staff booking surface
func (h *Handler) AdminRoutes(auth, requireStaff func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth)
	r.Use(requireStaff)

	r.Get("/availability", h.AdminAvailability)

	r.Route("/bookings", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.CreateManual)
		r.Get("/{id}", h.Get)
		r.Patch("/{id}/status", h.UpdateStatus)
	})

	r.Route("/blocks", func(r chi.Router) {
		r.Post("/", h.Block)
		r.Delete("/", h.Unblock)
	})

	return r
}
