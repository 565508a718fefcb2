package court

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns public court routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{id}", h.Get)

	return r
}

// AdminRoutes returns staff-only court management routes
func (h *Handler) AdminRoutes(authMiddleware, staffMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)
	r.Use(staffMiddleware)

	r.Get("/", h.ListAll)
	r.Put("/{id}", h.Update)
	r.Post("/{id}/image", h.UploadImage)

	return r
}
