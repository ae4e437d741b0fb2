package session

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/burbla/burbla-backend/internal/entity"
	"github.com/burbla/burbla-backend/internal/repository"
)

// Usecase implements session business logic
type Usecase struct {
	sessionRepo repository.SessionRepository
	chatRepo    repository.ChatMessageRepository
	logger      *zap.Logger
}

// NewUsecase creates a new session use case
func NewUsecase(
	sessionRepo repository.SessionRepository,
	chatRepo repository.ChatMessageRepository,
	logger *zap.Logger,
) *Usecase {
	return &Usecase{
		sessionRepo: sessionRepo,
		chatRepo:    chatRepo,
		logger:      logger,
	}
}

// CreateSession ensures a session exists. The operation is idempotent:
// re-creating an existing session id is a no-op guarded by the table's
// primary key, so it is safe across concurrent requests and processes.
func (uc *Usecase) CreateSession(ctx context.Context, req *entity.CreateSessionRequest) (*entity.Session, error) {
	members := req.MemberIDs
	if len(members) == 0 {
		members = []string{req.OwnerID}
	}

	session := &entity.Session{
		ID:        req.SessionID,
		Name:      req.SessionName,
		OwnerID:   req.OwnerID,
		MemberIDs: members,
	}

	if err := uc.sessionRepo.UpsertSession(ctx, session); err != nil {
		return nil, fmt.Errorf("upsert session: %w", err)
	}

	created, err := uc.sessionRepo.GetSessionByID(ctx, req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("get session after upsert: %w", err)
	}

	return created, nil
}

// GetSession fetches a session by id
func (uc *Usecase) GetSession(ctx context.Context, sessionID string) (*entity.Session, error) {
	session, err := uc.sessionRepo.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	return session, nil
}

// ListSessionsForUser returns the user's sessions, most recently active first
func (uc *Usecase) ListSessionsForUser(ctx context.Context, userID string) ([]*entity.Session, error) {
	sessions, err := uc.sessionRepo.ListSessionsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	return sessions, nil
}

// UpdateSession renames a session and/or replaces its member list
func (uc *Usecase) UpdateSession(ctx context.Context, sessionID string, req *entity.UpdateSessionRequest) (*entity.Session, error) {
	session, err := uc.sessionRepo.UpdateSession(ctx, sessionID, req.SessionName, req.MemberIDs)
	if err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}

	return session, nil
}

// JoinSession adds a user to the member list; joining twice is a no-op
func (uc *Usecase) JoinSession(ctx context.Context, sessionID, userID string) (*entity.Session, error) {
	session, err := uc.sessionRepo.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	for _, id := range session.MemberIDs {
		if id == userID {
			return session, nil
		}
	}

	members := append(session.MemberIDs, userID)
	updated, err := uc.sessionRepo.UpdateSession(ctx, sessionID, nil, members)
	if err != nil {
		return nil, fmt.Errorf("join session: %w", err)
	}

	ctxzap.Info(ctx, "user joined session",
		zap.String("session_id", sessionID),
		zap.String("user_id", userID),
	)

	return updated, nil
}

// DeleteSession removes the session together with its chat history
func (uc *Usecase) DeleteSession(ctx context.Context, sessionID string) error {
	if err := uc.chatRepo.DeleteSessionMessages(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session messages: %w", err)
	}

	if err := uc.sessionRepo.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}
