package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	chatapi "github.com/burbla/burbla-backend/internal/api/chat"
	"github.com/burbla/burbla-backend/internal/api/docs"
	"github.com/burbla/burbla-backend/internal/api/middleware"
	sessionapi "github.com/burbla/burbla-backend/internal/api/session"
	userapi "github.com/burbla/burbla-backend/internal/api/user"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(
	chatHandler *chatapi.Handler,
	sessionHandler *sessionapi.Handler,
	userHandler *userapi.Handler,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)                 // Recover from panics
	r.Use(chimiddleware.RequestID)                 // Add request ID
	r.Use(middleware.Logger(logger))               // Log requests
	r.Use(middleware.CORS)                         // Handle CORS
	r.Use(chimiddleware.Timeout(60 * time.Second)) // Default timeout

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	// Register routes
	chatapi.RegisterRoutes(r, chatHandler)
	sessionapi.RegisterRoutes(r, sessionHandler)
	userapi.RegisterRoutes(r, userHandler)

	return r
}
