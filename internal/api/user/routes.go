package user

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers user routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/users", func(r chi.Router) {
		r.Post("/auth", h.Authenticate)
		r.Get("/{user_id}", h.GetUser)
		r.Patch("/{user_id}", h.UpdateProfile)
	})
}
