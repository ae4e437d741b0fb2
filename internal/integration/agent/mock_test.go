package agent

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/burbla/burbla-backend/internal/entity"
	"github.com/burbla/burbla-backend/internal/integration/places"
)

func TestMockConnectorVoteCard(t *testing.T) {
	conn := NewMockConnector(places.NewMockConnector(zap.NewNop()))

	reply, err := conn.Invoke(context.Background(), &entity.AgentQuery{
		Query:     "start a vote for dinner",
		SessionID: "sess_1",
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(reply, "```json"), "vote reply should be a fenced card, got %q", reply)

	raw := strings.TrimSuffix(strings.TrimPrefix(reply, "```json"), "```")
	card, err := entity.ParseVoteCard(strings.TrimSpace(raw))
	require.NoError(t, err)

	assert.Equal(t, entity.VoteCardType, card.Type)
	assert.Equal(t, entity.BotName, card.SenderName)
	require.NotEmpty(t, card.VoteOptions)
	for _, opt := range card.VoteOptions {
		assert.NotEmpty(t, opt.RestaurantID)
		assert.NotEmpty(t, opt.RestaurantName)
		assert.Zero(t, opt.NumberOfVotes)
	}
}

func TestMockConnectorRecommendationCard(t *testing.T) {
	conn := NewMockConnector(places.NewMockConnector(zap.NewNop()))

	reply, err := conn.Invoke(context.Background(), &entity.AgentQuery{
		Query:     "recommend something vietnamese",
		SessionID: "sess_1",
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(reply, "```json"), "recommendation reply should be a fenced card, got %q", reply)

	raw := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(reply, "```json"), "```"))
	var card entity.RecommendationCard
	require.NoError(t, json.Unmarshal([]byte(raw), &card))

	assert.Equal(t, entity.RecommendationCardType, card.Type)
	assert.Equal(t, entity.BotName, card.SenderName)
	require.NotEmpty(t, card.Options)
	assert.Equal(t, "Pho Dien", card.Options[0].RestaurantName)
}

func TestMockConnectorSuggestions(t *testing.T) {
	conn := NewMockConnector(places.NewMockConnector(zap.NewNop()))

	reply, err := conn.Invoke(context.Background(), &entity.AgentQuery{
		Query:     "where should we eat tonight?",
		SessionID: "sess_1",
	})
	require.NoError(t, err)

	assert.False(t, strings.HasPrefix(reply, "```"), "suggestion reply should be prose")
	assert.Contains(t, reply, "Pho Dien")
}
