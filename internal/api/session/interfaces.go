package session

import (
	"context"

	"github.com/burbla/burbla-backend/internal/entity"
)

type SessionUsecase interface {
	CreateSession(ctx context.Context, req *entity.CreateSessionRequest) (*entity.Session, error)
	GetSession(ctx context.Context, sessionID string) (*entity.Session, error)
	ListSessionsForUser(ctx context.Context, userID string) ([]*entity.Session, error)
	UpdateSession(ctx context.Context, sessionID string, req *entity.UpdateSessionRequest) (*entity.Session, error)
	JoinSession(ctx context.Context, sessionID, userID string) (*entity.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
}
