package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/burbla/burbla-backend/internal/entity"
	"github.com/burbla/burbla-backend/internal/repository"
)

// VoteLedger maintains single-choice voting state over persisted vote cards.
// A user holds at most one active vote per card; moving the vote to another
// option withdraws it from the previous one in the same operation.
type VoteLedger struct {
	chatRepo repository.ChatMessageRepository
	locks    *rowLocks
}

func NewVoteLedger(chatRepo repository.ChatMessageRepository) *VoteLedger {
	return &VoteLedger{
		chatRepo: chatRepo,
		locks:    newRowLocks(),
	}
}

// RecordVote loads the vote card stored under (sessionID, messageID), applies
// the vote and writes the card back when anything changed. It returns the
// target option's restaurant name on change and nil for idempotent no-ops.
// entity.ErrMessageNotFound, entity.ErrVoteOptionNotFound and
// entity.ErrMalformedContent surface to the caller; the whole
// load-mutate-store cycle runs under a per-row lock so concurrent votes on
// the same card serialize instead of overwriting each other.
func (l *VoteLedger) RecordVote(
	ctx context.Context, sessionID, messageID, userID, optionID string, isUpvote bool,
) (*string, error) {
	release := l.locks.acquire(sessionID + "/" + messageID)
	defer release()

	msg, err := l.chatRepo.GetMessage(ctx, sessionID, messageID)
	if err != nil {
		return nil, fmt.Errorf("load vote card: %w", err)
	}

	card, err := entity.ParseVoteCard(msg.Content)
	if err != nil {
		return nil, fmt.Errorf("decode vote card: %w", err)
	}

	changed, restaurantName, err := card.ApplyVote(userID, optionID, isUpvote)
	if err != nil {
		return nil, err
	}

	if !changed {
		ctxzap.Debug(ctx, "vote was a no-op",
			zap.String("user_id", userID),
			zap.String("vote_option_id", optionID),
			zap.Bool("is_vote_up", isUpvote),
		)
		return nil, nil
	}

	content, err := card.Serialize()
	if err != nil {
		return nil, err
	}

	if err := l.chatRepo.UpdateMessageContent(ctx, sessionID, messageID, content, time.Now()); err != nil {
		return nil, fmt.Errorf("store vote card: %w", err)
	}

	ctxzap.Info(ctx, "vote recorded",
		zap.String("user_id", userID),
		zap.String("vote_option_id", optionID),
		zap.Bool("is_vote_up", isUpvote),
		zap.String("restaurant_name", restaurantName),
	)

	return &restaurantName, nil
}
