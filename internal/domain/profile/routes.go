package profile

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the authenticated self-service surface
func (h *Handler) Routes(auth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth)

	r.Get("/", h.Me)

	return r
}

// AdminRoutes returns the admin-only profile management surface
func (h *Handler) AdminRoutes(auth, requireAdmin func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth)
	r.Use(requireAdmin)

	r.Get("/", h.List)
	r.Patch("/{id}/role", h.UpdateRole)

	return r
}
