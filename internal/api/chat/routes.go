package chat

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers chat routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/chat", func(r chi.Router) {
		r.Post("/sent", h.SendMessage)
		r.Post("/vote", h.Vote)
		r.Get("/history/{session_id}", h.History)
	})
}
