package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/burbla/burbla-backend/internal/entity"
	"github.com/burbla/burbla-backend/internal/integration/places"
	"github.com/burbla/burbla-backend/internal/usecase/chat"
)

var _ chat.AgentConnector = &MockConnector{}

// MockConnector answers without calling the model API. Queries mentioning a
// vote get a fenced vote card built from the mock places, everything else a
// canned recommendation.
type MockConnector struct {
	places PlacesService
}

func NewMockConnector(placesSvc PlacesService) *MockConnector {
	return &MockConnector{places: placesSvc}
}

func (c *MockConnector) Invoke(ctx context.Context, query *entity.AgentQuery) (string, error) {
	lowered := strings.ToLower(query.Query)
	if strings.Contains(lowered, "vote") || strings.Contains(lowered, "poll") {
		return c.voteCardReply(ctx)
	}
	if strings.Contains(lowered, "recommend") || strings.Contains(lowered, "suggest") {
		return c.recommendationCardReply(ctx)
	}

	found, err := c.places.SearchPlaces(ctx, query.Query)
	if err != nil || len(found) == 0 {
		return "I could not find anything matching that. Try a cuisine or an area, like \"pho near downtown\".", nil
	}
	names := make([]string, 0, len(found))
	for _, place := range found {
		names = append(names, place.DisplayName)
	}
	return fmt.Sprintf("Here are some places you might like: %s. Want me to start a vote?", strings.Join(names, ", ")), nil
}

func (c *MockConnector) voteCardReply(ctx context.Context) (string, error) {
	found, err := c.places.SearchPlaces(ctx, "restaurants")
	if err != nil {
		return "", fmt.Errorf("mock search: %w", err)
	}
	card := &entity.VoteCard{
		SenderName: entity.BotName,
		Type:       entity.VoteCardType,
	}
	for _, place := range found {
		details, err := c.places.PlaceDetails(ctx, place.ID)
		if err != nil {
			return "", fmt.Errorf("mock details: %w", err)
		}
		card.VoteOptions = append(card.VoteOptions, places.ToVoteOption(details))
	}
	raw, err := card.Serialize()
	if err != nil {
		return "", err
	}
	return "```json\n" + raw + "\n```", nil
}

func (c *MockConnector) recommendationCardReply(ctx context.Context) (string, error) {
	found, err := c.places.SearchPlaces(ctx, "restaurants")
	if err != nil {
		return "", fmt.Errorf("mock search: %w", err)
	}
	card := &entity.RecommendationCard{
		SenderName: entity.BotName,
		Type:       entity.RecommendationCardType,
	}
	for _, place := range found {
		details, err := c.places.PlaceDetails(ctx, place.ID)
		if err != nil {
			return "", fmt.Errorf("mock details: %w", err)
		}
		card.Options = append(card.Options, places.ToRecommendationOption(details))
	}
	raw, err := card.Serialize()
	if err != nil {
		return "", err
	}
	return "```json\n" + raw + "\n```", nil
}
