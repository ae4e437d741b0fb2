package chat

import (
	"context"

	"github.com/burbla/burbla-backend/internal/entity"
)

type ChatUsecase interface {
	SendMessage(ctx context.Context, req *entity.SendMessageRequest) (*entity.AgentMessageDTO, error)
	History(ctx context.Context, sessionID string) ([]*entity.ChatMessage, error)
	RecordVote(ctx context.Context, req *entity.VoteRequest) (*string, error)
}
