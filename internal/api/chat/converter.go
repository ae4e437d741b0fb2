package chat

import "github.com/burbla/burbla-backend/internal/entity"

// toHistoryDTO keeps the history payload a JSON array even when empty.
func toHistoryDTO(messages []*entity.ChatMessage) []*entity.ChatMessage {
	if messages == nil {
		return []*entity.ChatMessage{}
	}
	return messages
}
