package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/burbla/burbla-backend/internal/entity"
	"github.com/burbla/burbla-backend/internal/pkg/logger"
)

type Handler struct {
	usecase ChatUsecase
}

func NewHandler(usecase ChatUsecase) *Handler {
	return &Handler{usecase: usecase}
}

// SendMessage handles POST /chat/sent - Send a chat message
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "SendMessage")

	var req entity.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if req.UserID == "" || req.SessionID == "" || req.Message == "" {
		h.respondError(ctx, w, http.StatusBadRequest, "user_id, session_id and message are required", entity.ErrMissingField)
		return
	}

	ctx = logger.WithSession(ctx, req.SessionID)
	ctxzap.Info(ctx, "handling chat message", zap.String("user_id", req.UserID))

	reply, err := h.usecase.SendMessage(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	if reply == nil {
		// Context-only note: stored, no reply produced.
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.respondJSON(w, http.StatusOK, reply)
}

// History handles GET /chat/history/{session_id} - Fetch session history
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "session_id")

	ctx = logger.AddFields(ctx,
		zap.String("session_id", sessionID),
		zap.String("action", "History"),
	)

	ctxzap.Debug(ctx, "fetching chat history")

	messages, err := h.usecase.History(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toHistoryDTO(messages))
}

// Vote handles POST /chat/vote - Record or retract a vote
func (h *Handler) Vote(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Vote")

	var req entity.VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if req.SessionID == "" || req.UserID == "" || req.MessageID == "" || req.VoteOptionID == "" {
		h.respondError(ctx, w, http.StatusBadRequest, "session_id, user_id, message_id and vote_option_id are required", entity.ErrMissingField)
		return
	}

	ctx = logger.AddFields(ctx,
		zap.String("session_id", req.SessionID),
		zap.String("message_id", req.MessageID),
		zap.String("vote_option_id", req.VoteOptionID),
	)

	restaurantName, err := h.usecase.RecordVote(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	status := "recorded"
	if restaurantName == nil {
		status = "unchanged"
	}
	h.respondJSON(w, http.StatusOK, entity.VoteResponse{
		Status:         status,
		RestaurantName: restaurantName,
	})
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
	if errors.Is(err, entity.ErrMessageNotFound) || errors.Is(err, entity.ErrVoteOptionNotFound) ||
		errors.Is(err, entity.ErrSessionNotFound) || errors.Is(err, entity.ErrUserNotFound) {
		h.respondError(ctx, w, http.StatusNotFound, "resource not found", err)
	} else if errors.Is(err, entity.ErrMalformedContent) {
		h.respondError(ctx, w, http.StatusBadRequest, "message content is not a vote card", err)
	} else if errors.Is(err, entity.ErrInvalidParameter) || errors.Is(err, entity.ErrMissingField) {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid parameter", err)
	} else {
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
