package agent

import (
	"context"

	"github.com/burbla/burbla-backend/internal/entity"
)

// PlacesService resolves the agent's tool calls: restaurant lookup, place
// details for vote generation, and travel distance.
type PlacesService interface {
	SearchPlaces(ctx context.Context, query string) ([]*entity.Place, error)
	PlaceDetails(ctx context.Context, placeID string) (*entity.Place, error)
	DistanceMatrix(ctx context.Context, origin, destination, mode string) (*entity.DistanceResult, error)
}
