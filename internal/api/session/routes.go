package session

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers session routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.CreateSession)
		r.Get("/", h.ListSessions)
		r.Get("/{session_id}", h.GetSession)
		r.Patch("/{session_id}", h.UpdateSession)
		r.Post("/{session_id}/join", h.JoinSession)
		r.Delete("/{session_id}", h.DeleteSession)
	})
}
