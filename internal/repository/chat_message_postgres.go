package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/burbla/burbla-backend/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChatMessageRepository defines the interface for chat message persistence.
// Rows are addressable by (session_id, message_id); content may be rewritten
// in place by vote actions.
type ChatMessageRepository interface {
	SaveMessage(ctx context.Context, msg *entity.ChatMessage) error
	GetMessage(ctx context.Context, sessionID, messageID string) (*entity.ChatMessage, error)
	UpdateMessageContent(ctx context.Context, sessionID, messageID, content string, timestamp time.Time) error
	ListSessionMessages(ctx context.Context, sessionID string) ([]*entity.ChatMessage, error)
	DeleteSessionMessages(ctx context.Context, sessionID string) error
}

var _ ChatMessageRepository = &ChatMessagePostgres{}

// ChatMessagePostgres implements ChatMessageRepository using PostgreSQL
type ChatMessagePostgres struct {
	db *pgxpool.Pool
}

func NewChatMessagePostgres(db *pgxpool.Pool) *ChatMessagePostgres {
	return &ChatMessagePostgres{db: db}
}

func (r *ChatMessagePostgres) SaveMessage(ctx context.Context, msg *entity.ChatMessage) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO chat_messages (session_id, user_id, message_id, content, timestamp)
		VALUES ($1, $2, $3, $4, $5)`,
		msg.SessionID, msg.UserID, msg.MessageID, msg.Content, msg.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("save chat message: %w", err)
	}

	return nil
}

func (r *ChatMessagePostgres) GetMessage(ctx context.Context, sessionID, messageID string) (*entity.ChatMessage, error) {
	var msg entity.ChatMessage
	err := r.db.QueryRow(ctx, `
		SELECT session_id, user_id, message_id, content, timestamp
		FROM chat_messages
		WHERE session_id = $1 AND message_id = $2`,
		sessionID, messageID,
	).Scan(&msg.SessionID, &msg.UserID, &msg.MessageID, &msg.Content, &msg.Timestamp)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, entity.ErrMessageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get chat message: %w", err)
	}

	return &msg, nil
}

func (r *ChatMessagePostgres) UpdateMessageContent(
	ctx context.Context, sessionID, messageID, content string, timestamp time.Time,
) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE chat_messages
		SET content = $3, timestamp = $4
		WHERE session_id = $1 AND message_id = $2`,
		sessionID, messageID, content, timestamp,
	)
	if err != nil {
		return fmt.Errorf("update chat message content: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrMessageNotFound
	}

	return nil
}

func (r *ChatMessagePostgres) ListSessionMessages(ctx context.Context, sessionID string) ([]*entity.ChatMessage, error) {
	rows, err := r.db.Query(ctx, `
		SELECT session_id, user_id, message_id, content, timestamp
		FROM chat_messages
		WHERE session_id = $1
		ORDER BY timestamp ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list session messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*entity.ChatMessage, 0)
	for rows.Next() {
		var msg entity.ChatMessage
		if err := rows.Scan(&msg.SessionID, &msg.UserID, &msg.MessageID, &msg.Content, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		messages = append(messages, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chat messages: %w", err)
	}

	return messages, nil
}

func (r *ChatMessagePostgres) DeleteSessionMessages(ctx context.Context, sessionID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM chat_messages WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("delete session messages: %w", err)
	}

	return nil
}
