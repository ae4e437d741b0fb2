package user

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/burbla/burbla-backend/internal/entity"
	"github.com/burbla/burbla-backend/internal/pkg/logger"
)

type Handler struct {
	usecase UserUsecase
}

func NewHandler(usecase UserUsecase) *Handler {
	return &Handler{usecase: usecase}
}

// Authenticate handles POST /users/auth - Look up or create a user by gmail
func (h *Handler) Authenticate(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Authenticate")

	var req entity.AuthenticationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	req.Gmail = strings.TrimSpace(req.Gmail)
	if req.Gmail == "" {
		h.respondError(ctx, w, http.StatusBadRequest, "gmail is required", entity.ErrMissingField)
		return
	}

	user, err := h.usecase.Authenticate(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, user)
}

// GetUser handles GET /users/{user_id} - Fetch a user profile
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "user_id")

	ctx = logger.AddFields(ctx,
		zap.String("user_id", userID),
		zap.String("action", "GetUser"),
	)

	ctxzap.Debug(ctx, "fetching user")

	user, err := h.usecase.GetUser(ctx, userID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, user)
}

// UpdateProfile handles PATCH /users/{user_id} - Update profile fields
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "user_id")

	ctx = logger.AddFields(ctx,
		zap.String("user_id", userID),
		zap.String("action", "UpdateProfile"),
	)

	var req entity.User
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	req.ID = userID

	user, err := h.usecase.UpdateProfile(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, user)
}

// Helper methods
func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	ctxzap.Error(ctx, message, zap.Error(err))
	h.respondJSON(w, status, entity.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, entity.ErrUserNotFound) {
		h.respondError(ctx, w, http.StatusNotFound, "user not found", err)
	} else if errors.Is(err, entity.ErrInvalidParameter) || errors.Is(err, entity.ErrMissingField) {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid parameter", err)
	} else {
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
