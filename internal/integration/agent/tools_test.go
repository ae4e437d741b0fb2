package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/burbla/burbla-backend/internal/entity"
	"github.com/burbla/burbla-backend/internal/integration/places"
)

func newToolConnector() *Connector {
	return &Connector{
		places: places.NewMockConnector(zap.NewNop()),
		logger: zap.NewNop(),
	}
}

func TestExecuteToolGenerateVote(t *testing.T) {
	conn := newToolConnector()

	result, err := conn.executeTool(context.Background(), &genai.FunctionCall{
		Name: toolGenerateVote,
		Args: map[string]any{"restaurant_ids": []any{"ChIJmock-pho-dien", "ChIJmock-sapa"}},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.VoteCardType, result["type"])
	options, ok := result["vote_options"].([]any)
	require.True(t, ok)
	require.Len(t, options, 2)

	first, ok := options[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Pho Dien", first["restaurant_name"])
	assert.Equal(t, float64(0), first["number_of_vote"])
}

func TestExecuteToolGenerateRecommendations(t *testing.T) {
	conn := newToolConnector()

	result, err := conn.executeTool(context.Background(), &genai.FunctionCall{
		Name: toolGenerateRecommendations,
		Args: map[string]any{"restaurant_ids": []any{"ChIJmock-luigis"}},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.RecommendationCardType, result["type"])
	options, ok := result["options"].([]any)
	require.True(t, ok)
	require.Len(t, options, 1)

	first, ok := options[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Luigi's Trattoria", first["restaurant_name"])
	assert.Equal(t, "$$$", first["priceLevel"])
}

func TestExecuteToolErrors(t *testing.T) {
	conn := newToolConnector()

	t.Run("missing ids", func(t *testing.T) {
		for _, name := range []string{toolGenerateVote, toolGenerateRecommendations} {
			_, err := conn.executeTool(context.Background(), &genai.FunctionCall{
				Name: name,
				Args: map[string]any{},
			})
			assert.ErrorContains(t, err, "missing restaurant_ids")
		}
	})

	t.Run("unknown tool", func(t *testing.T) {
		_, err := conn.executeTool(context.Background(), &genai.FunctionCall{Name: "book_table"})
		assert.ErrorContains(t, err, "unknown tool")
	})
}
