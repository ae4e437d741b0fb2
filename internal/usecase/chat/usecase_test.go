package chat

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/burbla/burbla-backend/internal/entity"
	"github.com/burbla/burbla-backend/internal/repository"
)

type fakeSessionRepo struct {
	touched []string
}

var _ repository.SessionRepository = &fakeSessionRepo{}

func (r *fakeSessionRepo) UpsertSession(context.Context, *entity.Session) error { return nil }
func (r *fakeSessionRepo) GetSessionByID(context.Context, string) (*entity.Session, error) {
	return nil, entity.ErrSessionNotFound
}
func (r *fakeSessionRepo) ListSessionsForUser(context.Context, string) ([]*entity.Session, error) {
	return nil, nil
}
func (r *fakeSessionRepo) UpdateSession(context.Context, string, *string, []string) (*entity.Session, error) {
	return nil, entity.ErrSessionNotFound
}
func (r *fakeSessionRepo) TouchSession(_ context.Context, id string, _ time.Time) error {
	r.touched = append(r.touched, id)
	return nil
}
func (r *fakeSessionRepo) DeleteSession(context.Context, string) error { return nil }

type fakeUserRepo struct {
	users map[string]*entity.User
}

var _ repository.UserRepository = &fakeUserRepo{}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *entity.User) error {
	r.users[user.ID] = user
	return nil
}
func (r *fakeUserRepo) GetUserByID(_ context.Context, id string) (*entity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, entity.ErrUserNotFound
	}
	return user, nil
}
func (r *fakeUserRepo) GetUserByGmail(context.Context, string) (*entity.User, error) {
	return nil, entity.ErrUserNotFound
}
func (r *fakeUserRepo) UpdateUser(context.Context, *entity.User) error { return nil }

// fakeAgent returns queued responses, capturing what it was asked.
type fakeAgent struct {
	responses []string
	queries   []*entity.AgentQuery
}

func (a *fakeAgent) Invoke(_ context.Context, query *entity.AgentQuery) (string, error) {
	a.queries = append(a.queries, query)
	resp := a.responses[0]
	if len(a.responses) > 1 {
		a.responses = a.responses[1:]
	}
	return resp, nil
}

func newTestUsecase(t *testing.T, agent AgentConnector) (*Usecase, *fakeChatRepo, *fakeSessionRepo) {
	t.Helper()
	chatRepo := newFakeChatRepo()
	sessionRepo := &fakeSessionRepo{}
	name := "Alice"
	prefs := "vietnamese, spicy"
	userRepo := &fakeUserRepo{users: map[string]*entity.User{
		"user_1": {ID: "user_1", Name: &name, Preferences: &prefs},
	}}
	uc := NewUsecase(chatRepo, sessionRepo, userRepo, agent, testNormalizer(), zap.NewNop())
	return uc, chatRepo, sessionRepo
}

func TestSendMessage_ProseReply(t *testing.T) {
	agent := &fakeAgent{responses: []string{"Pho Dien would be a great pick!"}}
	uc, chatRepo, sessionRepo := newTestUsecase(t, agent)
	ctx := context.Background()

	reply, err := uc.SendMessage(ctx, &entity.SendMessageRequest{
		UserID:    "user_1",
		SessionID: "sess_1",
		Message:   "where should we eat tonight?",
	})
	require.NoError(t, err)
	require.NotNil(t, reply)
	assert.Equal(t, entity.BotUserID, reply.UserID)
	assert.Equal(t, entity.BotName, reply.Name)
	assert.Equal(t, "Pho Dien would be a great pick!", reply.Message)
	assert.True(t, strings.HasPrefix(reply.MessageID, "msm_"))

	// inbound message and reply both persisted
	messages, err := chatRepo.ListSessionMessages(ctx, "sess_1")
	require.NoError(t, err)
	assert.Len(t, messages, 2)

	// user profile is injected into the agent query
	require.Len(t, agent.queries, 1)
	assert.Contains(t, agent.queries[0].Query, "Alice")
	assert.Contains(t, agent.queries[0].Query, "vietnamese, spicy")
	assert.Contains(t, agent.queries[0].Query, "where should we eat tonight?")

	assert.Equal(t, []string{"sess_1"}, sessionRepo.touched)
}

func TestSendMessage_NonAgentNoteStoredWithoutReply(t *testing.T) {
	agent := &fakeAgent{responses: []string{"should not be returned"}}
	uc, chatRepo, _ := newTestUsecase(t, agent)
	ctx := context.Background()

	toAgent := false
	reply, err := uc.SendMessage(ctx, &entity.SendMessageRequest{
		UserID:    "user_1",
		SessionID: "sess_1",
		Message:   "I'm fine with anything",
		IsToAgent: &toAgent,
	})
	require.NoError(t, err)
	assert.Nil(t, reply)

	// only the user's message is stored
	messages, err := chatRepo.ListSessionMessages(ctx, "sess_1")
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "user_1", messages[0].UserID)

	// the agent still sees the note, wrapped as context-only
	require.Len(t, agent.queries, 1)
	assert.Contains(t, agent.queries[0].Query, "NON-AGENT QUERY")
}

func TestSendMessage_StructuredReplyNormalized(t *testing.T) {
	agent := &fakeAgent{responses: []string{
		"```json\n{\"type\": \"vote\", \"message_id\": \"stale\", \"vote_options\": []}\n```",
	}}
	uc, chatRepo, _ := newTestUsecase(t, agent)
	ctx := context.Background()

	reply, err := uc.SendMessage(ctx, &entity.SendMessageRequest{
		UserID:    "user_1",
		SessionID: "sess_1",
		Message:   "start a vote",
	})
	require.NoError(t, err)
	require.NotNil(t, reply)

	assert.False(t, strings.Contains(reply.Message, "```"), "fences must be stripped")
	assert.NotContains(t, reply.Message, "stale")
	assert.Contains(t, reply.Message, "msm_")

	// the stored reply row holds the canonical JSON
	messages, err := chatRepo.ListSessionMessages(ctx, "sess_1")
	require.NoError(t, err)
	var stored *entity.ChatMessage
	for _, m := range messages {
		if m.UserID == entity.BotUserID {
			stored = m
		}
	}
	require.NotNil(t, stored)
	assert.Equal(t, reply.Message, stored.Content)
}

func TestSendMessage_UnknownUser(t *testing.T) {
	uc, _, _ := newTestUsecase(t, &fakeAgent{responses: []string{"hi"}})

	_, err := uc.SendMessage(context.Background(), &entity.SendMessageRequest{
		UserID:    "user_ghost",
		SessionID: "sess_1",
		Message:   "hello",
	})
	assert.ErrorIs(t, err, entity.ErrUserNotFound)
}

func TestHistory_SeedsGreetingOnce(t *testing.T) {
	uc, chatRepo, _ := newTestUsecase(t, &fakeAgent{responses: []string{"hi"}})
	ctx := context.Background()

	first, err := uc.History(ctx, "sess_new")
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, entity.BotUserID, first[0].UserID)
	assert.Equal(t, "I am Burbla, how can I help you today?", first[0].Content)

	// the seed row is persisted, not synthesized per call
	second, err := uc.History(ctx, "sess_new")
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].MessageID, second[0].MessageID)

	stored, err := chatRepo.ListSessionMessages(ctx, "sess_new")
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestRecordVote_WritesConfirmationMessage(t *testing.T) {
	uc, chatRepo, _ := newTestUsecase(t, &fakeAgent{responses: []string{"hi"}})
	ctx := context.Background()
	seedVoteCard(t, chatRepo, "sess_1", "msm_1")

	name, err := uc.RecordVote(ctx, &entity.VoteRequest{
		SessionID:    "sess_1",
		UserID:       "user_1",
		MessageID:    "msm_1",
		VoteOptionID: "place_a",
		IsVoteUp:     true,
	})
	require.NoError(t, err)
	require.NotNil(t, name)
	assert.Equal(t, "Pho Dien", *name)

	messages, err := chatRepo.ListSessionMessages(ctx, "sess_1")
	require.NoError(t, err)

	var confirmation *entity.ChatMessage
	for _, m := range messages {
		if m.UserID == entity.BotUserID && m.MessageID != "msm_1" {
			confirmation = m
		}
	}
	require.NotNil(t, confirmation)
	assert.Equal(t, "Alice voted for Pho Dien", confirmation.Content)
}

func TestRecordVote_NoOpSkipsConfirmation(t *testing.T) {
	uc, chatRepo, _ := newTestUsecase(t, &fakeAgent{responses: []string{"hi"}})
	ctx := context.Background()
	seedVoteCard(t, chatRepo, "sess_1", "msm_1")

	req := &entity.VoteRequest{
		SessionID:    "sess_1",
		UserID:       "user_1",
		MessageID:    "msm_1",
		VoteOptionID: "place_a",
		IsVoteUp:     false,
	}
	name, err := uc.RecordVote(ctx, req)
	require.NoError(t, err)
	assert.Nil(t, name)

	messages, err := chatRepo.ListSessionMessages(ctx, "sess_1")
	require.NoError(t, err)
	assert.Len(t, messages, 1)
}
