package chat

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burbla/burbla-backend/internal/entity"
	"github.com/burbla/burbla-backend/internal/repository"
)

// fakeChatRepo is an in-memory ChatMessageRepository keyed by
// session_id/message_id.
type fakeChatRepo struct {
	mu   sync.Mutex
	rows map[string]*entity.ChatMessage
}

var _ repository.ChatMessageRepository = &fakeChatRepo{}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{rows: map[string]*entity.ChatMessage{}}
}

func (r *fakeChatRepo) key(sessionID, messageID string) string {
	return sessionID + "/" + messageID
}

func (r *fakeChatRepo) SaveMessage(_ context.Context, msg *entity.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *msg
	r.rows[r.key(msg.SessionID, msg.MessageID)] = &clone
	return nil
}

func (r *fakeChatRepo) GetMessage(_ context.Context, sessionID, messageID string) (*entity.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[r.key(sessionID, messageID)]
	if !ok {
		return nil, fmt.Errorf("get message: %w", entity.ErrMessageNotFound)
	}
	clone := *row
	return &clone, nil
}

func (r *fakeChatRepo) UpdateMessageContent(_ context.Context, sessionID, messageID, content string, timestamp time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[r.key(sessionID, messageID)]
	if !ok {
		return fmt.Errorf("update message: %w", entity.ErrMessageNotFound)
	}
	row.Content = content
	row.Timestamp = timestamp
	return nil
}

func (r *fakeChatRepo) ListSessionMessages(_ context.Context, sessionID string) ([]*entity.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.ChatMessage
	for _, row := range r.rows {
		if row.SessionID == sessionID {
			clone := *row
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeChatRepo) DeleteSessionMessages(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, row := range r.rows {
		if row.SessionID == sessionID {
			delete(r.rows, key)
		}
	}
	return nil
}

func seedVoteCard(t *testing.T, repo *fakeChatRepo, sessionID, messageID string) {
	t.Helper()
	card := &entity.VoteCard{
		MessageID:  messageID,
		SenderName: entity.BotName,
		Type:       entity.VoteCardType,
		VoteOptions: []entity.VoteOption{
			{RestaurantID: "place_a", RestaurantName: "Pho Dien", VoteUserIDs: []string{}},
			{RestaurantID: "place_b", RestaurantName: "Sapa Houston", VoteUserIDs: []string{}},
		},
	}
	content, err := card.Serialize()
	require.NoError(t, err)
	require.NoError(t, repo.SaveMessage(context.Background(), &entity.ChatMessage{
		SessionID: sessionID,
		UserID:    entity.BotUserID,
		MessageID: messageID,
		Content:   content,
		Timestamp: time.Now(),
	}))
}

func loadCard(t *testing.T, repo *fakeChatRepo, sessionID, messageID string) *entity.VoteCard {
	t.Helper()
	msg, err := repo.GetMessage(context.Background(), sessionID, messageID)
	require.NoError(t, err)
	card, err := entity.ParseVoteCard(msg.Content)
	require.NoError(t, err)
	return card
}

func TestRecordVote_UpvotePersists(t *testing.T) {
	repo := newFakeChatRepo()
	seedVoteCard(t, repo, "sess_1", "msm_1")
	ledger := NewVoteLedger(repo)

	name, err := ledger.RecordVote(context.Background(), "sess_1", "msm_1", "user_1", "place_a", true)
	require.NoError(t, err)
	require.NotNil(t, name)
	assert.Equal(t, "Pho Dien", *name)

	card := loadCard(t, repo, "sess_1", "msm_1")
	assert.Equal(t, []string{"user_1"}, card.VoteOptions[0].VoteUserIDs)
	assert.Equal(t, 1, card.VoteOptions[0].NumberOfVotes)
}

func TestRecordVote_SwitchingMovesVote(t *testing.T) {
	repo := newFakeChatRepo()
	seedVoteCard(t, repo, "sess_1", "msm_1")
	ledger := NewVoteLedger(repo)
	ctx := context.Background()

	_, err := ledger.RecordVote(ctx, "sess_1", "msm_1", "user_1", "place_a", true)
	require.NoError(t, err)

	name, err := ledger.RecordVote(ctx, "sess_1", "msm_1", "user_1", "place_b", true)
	require.NoError(t, err)
	require.NotNil(t, name)
	assert.Equal(t, "Sapa Houston", *name)

	card := loadCard(t, repo, "sess_1", "msm_1")
	assert.Empty(t, card.VoteOptions[0].VoteUserIDs)
	assert.Equal(t, 0, card.VoteOptions[0].NumberOfVotes)
	assert.Equal(t, []string{"user_1"}, card.VoteOptions[1].VoteUserIDs)
	assert.Equal(t, 1, card.VoteOptions[1].NumberOfVotes)
}

func TestRecordVote_IdempotentNoOpSkipsWrite(t *testing.T) {
	repo := newFakeChatRepo()
	seedVoteCard(t, repo, "sess_1", "msm_1")
	ledger := NewVoteLedger(repo)
	ctx := context.Background()

	_, err := ledger.RecordVote(ctx, "sess_1", "msm_1", "user_1", "place_a", true)
	require.NoError(t, err)
	before, err := repo.GetMessage(ctx, "sess_1", "msm_1")
	require.NoError(t, err)

	name, err := ledger.RecordVote(ctx, "sess_1", "msm_1", "user_1", "place_a", true)
	require.NoError(t, err)
	assert.Nil(t, name)

	after, err := repo.GetMessage(ctx, "sess_1", "msm_1")
	require.NoError(t, err)
	assert.Equal(t, before.Content, after.Content)
	assert.Equal(t, before.Timestamp, after.Timestamp)
}

func TestRecordVote_DownvoteWithoutVoteIsNoOp(t *testing.T) {
	repo := newFakeChatRepo()
	seedVoteCard(t, repo, "sess_1", "msm_1")
	ledger := NewVoteLedger(repo)

	name, err := ledger.RecordVote(context.Background(), "sess_1", "msm_1", "user_1", "place_a", false)
	require.NoError(t, err)
	assert.Nil(t, name)

	card := loadCard(t, repo, "sess_1", "msm_1")
	assert.Equal(t, 0, card.VoteOptions[0].NumberOfVotes)
}

func TestRecordVote_LegacyPythonRowMigrates(t *testing.T) {
	repo := newFakeChatRepo()
	require.NoError(t, repo.SaveMessage(context.Background(), &entity.ChatMessage{
		SessionID: "sess_1",
		UserID:    entity.BotUserID,
		MessageID: "msm_legacy",
		Content:   `{'message_id': 'msm_legacy', 'sender_name': 'Burbla', 'type': 'vote_card', 'vote_options': [{'restaurant_id': 'place_a', 'restaurant_name': 'Pho Dien', 'number_of_vote': 0, 'vote_user_id_list': []}]}`,
		Timestamp: time.Now(),
	}))
	ledger := NewVoteLedger(repo)

	name, err := ledger.RecordVote(context.Background(), "sess_1", "msm_legacy", "user_1", "place_a", true)
	require.NoError(t, err)
	require.NotNil(t, name)

	// the rewritten row is strict JSON from now on
	msg, err := repo.GetMessage(context.Background(), "sess_1", "msm_legacy")
	require.NoError(t, err)
	assert.NotContains(t, msg.Content, "'")
	card := loadCard(t, repo, "sess_1", "msm_legacy")
	assert.Equal(t, 1, card.VoteOptions[0].NumberOfVotes)
}

func TestRecordVote_Errors(t *testing.T) {
	repo := newFakeChatRepo()
	seedVoteCard(t, repo, "sess_1", "msm_1")
	require.NoError(t, repo.SaveMessage(context.Background(), &entity.ChatMessage{
		SessionID: "sess_1",
		UserID:    "user_1",
		MessageID: "msg_prose",
		Content:   "let's do pho tonight",
		Timestamp: time.Now(),
	}))
	ledger := NewVoteLedger(repo)
	ctx := context.Background()

	t.Run("unknown message", func(t *testing.T) {
		_, err := ledger.RecordVote(ctx, "sess_1", "msm_missing", "user_1", "place_a", true)
		assert.ErrorIs(t, err, entity.ErrMessageNotFound)
	})

	t.Run("unknown option", func(t *testing.T) {
		_, err := ledger.RecordVote(ctx, "sess_1", "msm_1", "user_1", "place_zzz", true)
		assert.ErrorIs(t, err, entity.ErrVoteOptionNotFound)
	})

	t.Run("prose row is not a vote card", func(t *testing.T) {
		_, err := ledger.RecordVote(ctx, "sess_1", "msg_prose", "user_1", "place_a", true)
		assert.ErrorIs(t, err, entity.ErrMalformedContent)
	})
}

func TestRecordVote_ConcurrentVotersAllLand(t *testing.T) {
	repo := newFakeChatRepo()
	seedVoteCard(t, repo, "sess_1", "msm_1")
	ledger := NewVoteLedger(repo)

	const voters = 16
	var wg sync.WaitGroup
	errs := make([]error, voters)
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			userID := fmt.Sprintf("user_%d", i)
			option := "place_a"
			if i%2 == 1 {
				option = "place_b"
			}
			_, errs[i] = ledger.RecordVote(context.Background(), "sess_1", "msm_1", userID, option, true)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "voter %d", i)
	}

	card := loadCard(t, repo, "sess_1", "msm_1")
	assert.Equal(t, voters/2, card.VoteOptions[0].NumberOfVotes)
	assert.Equal(t, voters/2, card.VoteOptions[1].NumberOfVotes)
	assert.Len(t, card.VoteOptions[0].VoteUserIDs, voters/2)
	assert.Len(t, card.VoteOptions[1].VoteUserIDs, voters/2)
}
