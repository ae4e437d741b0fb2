package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/burbla/burbla-backend/internal/entity"
	"github.com/burbla/burbla-backend/internal/repository"
)

const greeting = "I am Burbla, how can I help you today?"

// Usecase implements chat business logic: message exchange with the agent,
// history, and vote actions against persisted vote cards.
type Usecase struct {
	chatRepo    repository.ChatMessageRepository
	sessionRepo repository.SessionRepository
	userRepo    repository.UserRepository
	agent       AgentConnector
	normalizer  *Normalizer
	ledger      *VoteLedger
	logger      *zap.Logger
}

// NewUsecase creates a new chat use case
func NewUsecase(
	chatRepo repository.ChatMessageRepository,
	sessionRepo repository.SessionRepository,
	userRepo repository.UserRepository,
	agent AgentConnector,
	normalizer *Normalizer,
	logger *zap.Logger,
) *Usecase {
	return &Usecase{
		chatRepo:    chatRepo,
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		agent:       agent,
		normalizer:  normalizer,
		ledger:      NewVoteLedger(chatRepo),
		logger:      logger,
	}
}

// SendMessage persists the user's message and, for agent-bound messages,
// invokes the agent, normalizes its output and persists the reply. Non-agent
// notes are still fed to the agent for conversational context but produce no
// reply (nil DTO).
func (uc *Usecase) SendMessage(ctx context.Context, req *entity.SendMessageRequest) (*entity.AgentMessageDTO, error) {
	user, err := uc.userRepo.GetUserByID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	inbound := &entity.ChatMessage{
		SessionID: req.SessionID,
		UserID:    req.UserID,
		MessageID: newUserMessageID(),
		Content:   req.Message,
		Timestamp: time.Now(),
	}
	if err := uc.chatRepo.SaveMessage(ctx, inbound); err != nil {
		return nil, fmt.Errorf("save user message: %w", err)
	}

	if err := uc.sessionRepo.TouchSession(ctx, req.SessionID, inbound.Timestamp); err != nil {
		ctxzap.Warn(ctx, "failed to touch session", zap.Error(err))
	}

	history, err := uc.chatRepo.ListSessionMessages(ctx, req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("load session history: %w", err)
	}

	toAgent := req.IsToAgent == nil || *req.IsToAgent
	query := &entity.AgentQuery{
		Query:     wrapQuery(user, req.Message, toAgent),
		SessionID: req.SessionID,
		History:   history,
	}

	raw, err := uc.agent.Invoke(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("invoke agent: %w", err)
	}

	if !toAgent {
		// Context-only note: recorded, no reply produced.
		return nil, nil
	}

	final, err := uc.normalizer.Normalize(ctx, raw, func(ctx context.Context) (string, error) {
		return uc.agent.Invoke(ctx, query)
	})
	if err != nil {
		return nil, fmt.Errorf("normalize agent response: %w", err)
	}

	reply := &entity.ChatMessage{
		SessionID: req.SessionID,
		UserID:    entity.BotUserID,
		MessageID: newAgentMessageID(),
		Content:   final,
		Timestamp: time.Now(),
	}
	if err := uc.chatRepo.SaveMessage(ctx, reply); err != nil {
		return nil, fmt.Errorf("save agent message: %w", err)
	}

	return &entity.AgentMessageDTO{
		UserID:    entity.BotUserID,
		Name:      entity.BotName,
		Message:   final,
		MessageID: reply.MessageID,
	}, nil
}

// History returns all messages of a session in timestamp order. A session
// without history is seeded with a bot greeting row first.
func (uc *Usecase) History(ctx context.Context, sessionID string) ([]*entity.ChatMessage, error) {
	messages, err := uc.chatRepo.ListSessionMessages(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list session messages: %w", err)
	}

	if len(messages) > 0 {
		return messages, nil
	}

	seed := &entity.ChatMessage{
		SessionID: sessionID,
		UserID:    entity.BotUserID,
		MessageID: newAgentMessageID(),
		Content:   greeting,
		Timestamp: time.Now(),
	}
	if err := uc.chatRepo.SaveMessage(ctx, seed); err != nil {
		return nil, fmt.Errorf("seed session greeting: %w", err)
	}

	return []*entity.ChatMessage{seed}, nil
}

// RecordVote applies a vote through the ledger and, when the vote changed the
// card, persists a bot confirmation message. The returned name is nil for
// idempotent no-ops.
func (uc *Usecase) RecordVote(ctx context.Context, req *entity.VoteRequest) (*string, error) {
	restaurantName, err := uc.ledger.RecordVote(
		ctx, req.SessionID, req.MessageID, req.UserID, req.VoteOptionID, req.IsVoteUp,
	)
	if err != nil {
		return nil, err
	}

	if restaurantName == nil {
		return nil, nil
	}

	confirmation := &entity.ChatMessage{
		SessionID: req.SessionID,
		UserID:    entity.BotUserID,
		MessageID: newAgentMessageID(),
		Content:   confirmationText(ctx, uc.userRepo, req, *restaurantName),
		Timestamp: time.Now(),
	}
	if err := uc.chatRepo.SaveMessage(ctx, confirmation); err != nil {
		// The vote itself is durable; a lost confirmation is only noise.
		ctxzap.Warn(ctx, "failed to save vote confirmation", zap.Error(err))
	}

	return restaurantName, nil
}

func confirmationText(ctx context.Context, users repository.UserRepository, req *entity.VoteRequest, restaurant string) string {
	display := req.UserID
	if user, err := users.GetUserByID(ctx, req.UserID); err == nil && user.Name != nil {
		display = *user.Name
	}

	if req.IsVoteUp {
		return fmt.Sprintf("%s voted for %s", display, restaurant)
	}
	return fmt.Sprintf("%s removed their vote for %s", display, restaurant)
}

// wrapQuery decorates the raw query with the sender's profile so the agent
// can personalize answers; context-only notes additionally carry a
// do-not-respond instruction.
func wrapQuery(user *entity.User, query string, toAgent bool) string {
	profile := fmt.Sprintf(
		"Information about the user for more context: Name: %s, Preferences: %s, Location: %s\n"+
			"Only use it if the user query requires more context about the user.",
		strOrEmpty(user.Name), strOrEmpty(user.Preferences), strOrEmpty(user.Location),
	)

	if toAgent {
		return fmt.Sprintf("%s\nQuery: %s", profile, query)
	}

	return fmt.Sprintf(
		"Note: THIS IS A NON-AGENT QUERY, DO NOT RESPOND TO THE USER. "+
			"Remember the conversation for future context.\n%s\nQuery: %s",
		profile, query,
	)
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func newUserMessageID() string {
	return "msg_" + uuid.NewString()
}

func newAgentMessageID() string {
	return "msm_" + uuid.NewString()
}
