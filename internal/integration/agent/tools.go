package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"github.com/burbla/burbla-backend/internal/entity"
	"github.com/burbla/burbla-backend/internal/integration/places"
)

const (
	toolSearchPlaces            = "search_places"
	toolDistanceMatrix          = "distance_matrix"
	toolGenerateVote            = "generate_vote"
	toolGenerateRecommendations = "generate_recommendations"
)

func toolDeclarations() []*genai.FunctionDeclaration {
	return []*genai.FunctionDeclaration{
		{
			Name:        toolSearchPlaces,
			Description: "Search for restaurants by free-text query, e.g. 'vietnamese food in Houston'. Returns matching restaurants with ids, ratings and addresses.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"query": {
						Type:        genai.TypeString,
						Description: "Free-text restaurant search query including cuisine and area.",
					},
				},
				Required: []string{"query"},
			},
		},
		{
			Name:        toolDistanceMatrix,
			Description: "Get travel distance and duration from an origin address to a destination address.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"origin": {
						Type:        genai.TypeString,
						Description: "Starting address. Defaults to the user's stored location.",
					},
					"destination": {
						Type:        genai.TypeString,
						Description: "Destination address.",
					},
					"mode": {
						Type:        genai.TypeString,
						Description: "Travel mode: driving, walking, bicycling or transit. Defaults to driving.",
					},
				},
				Required: []string{"destination"},
			},
		},
		{
			Name:        toolGenerateVote,
			Description: "Create a vote card for the given restaurant ids so the group can vote. Return the resulting card JSON to the user verbatim.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"restaurant_ids": {
						Type:        genai.TypeArray,
						Description: "Ids of the restaurants to include as vote options.",
						Items:       &genai.Schema{Type: genai.TypeString},
					},
				},
				Required: []string{"restaurant_ids"},
			},
		},
		{
			Name:        toolGenerateRecommendations,
			Description: "Create a recommendation card for the given restaurant ids. Return the resulting card JSON to the user verbatim.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"restaurant_ids": {
						Type:        genai.TypeArray,
						Description: "Ids of the restaurants to present as recommendations.",
						Items:       &genai.Schema{Type: genai.TypeString},
					},
				},
				Required: []string{"restaurant_ids"},
			},
		},
	}
}

func (c *Connector) executeTool(ctx context.Context, call *genai.FunctionCall) (map[string]any, error) {
	switch call.Name {
	case toolSearchPlaces:
		query, _ := call.Args["query"].(string)
		if query == "" {
			return nil, fmt.Errorf("%s: missing query", call.Name)
		}
		found, err := c.places.SearchPlaces(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("search places: %w", err)
		}
		return toResultMap(map[string]any{"places": found})
	case toolDistanceMatrix:
		origin, _ := call.Args["origin"].(string)
		destination, _ := call.Args["destination"].(string)
		mode, _ := call.Args["mode"].(string)
		if destination == "" {
			return nil, fmt.Errorf("%s: missing destination", call.Name)
		}
		if mode == "" {
			mode = "driving"
		}
		result, err := c.places.DistanceMatrix(ctx, origin, destination, mode)
		if err != nil {
			return nil, fmt.Errorf("distance matrix: %w", err)
		}
		return toResultMap(result)
	case toolGenerateVote:
		ids := stringSlice(call.Args["restaurant_ids"])
		if len(ids) == 0 {
			return nil, fmt.Errorf("%s: missing restaurant_ids", call.Name)
		}
		card, err := c.buildVoteCard(ctx, ids)
		if err != nil {
			return nil, err
		}
		return toResultMap(card)
	case toolGenerateRecommendations:
		ids := stringSlice(call.Args["restaurant_ids"])
		if len(ids) == 0 {
			return nil, fmt.Errorf("%s: missing restaurant_ids", call.Name)
		}
		card, err := c.buildRecommendationCard(ctx, ids)
		if err != nil {
			return nil, err
		}
		return toResultMap(card)
	default:
		return nil, fmt.Errorf("unknown tool %q", call.Name)
	}
}

func (c *Connector) buildVoteCard(ctx context.Context, placeIDs []string) (*entity.VoteCard, error) {
	options := make([]entity.VoteOption, 0, len(placeIDs))
	for _, id := range placeIDs {
		place, err := c.places.PlaceDetails(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("place details %q: %w", id, err)
		}
		options = append(options, places.ToVoteOption(place))
	}
	return &entity.VoteCard{
		SenderName:  entity.BotName,
		Type:        entity.VoteCardType,
		VoteOptions: options,
	}, nil
}

func (c *Connector) buildRecommendationCard(ctx context.Context, placeIDs []string) (*entity.RecommendationCard, error) {
	options := make([]entity.RecommendationOption, 0, len(placeIDs))
	for _, id := range placeIDs {
		place, err := c.places.PlaceDetails(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("place details %q: %w", id, err)
		}
		options = append(options, places.ToRecommendationOption(place))
	}
	return &entity.RecommendationCard{
		SenderName: entity.BotName,
		Type:       entity.RecommendationCardType,
		Options:    options,
	}, nil
}

// toResultMap converts a tool result into the generic map the model API
// expects for function responses.
func toResultMap(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal tool result: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unmarshal tool result: %w", err)
	}
	return out, nil
}

func stringSlice(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
