package places

import (
	"context"
	"fmt"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/burbla/burbla-backend/internal/entity"
)

// MockConnector serves canned Houston restaurants for local runs and tests.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

var mockPlaces = []*entity.Place{
	{
		ID:               "ChIJmock-pho-dien",
		DisplayName:      "Pho Dien",
		FormattedAddress: "11830 Bellaire Blvd, Houston, TX 77072",
		PriceLevel:       "$$",
		Rating:           4.5,
		UserRatingCount:  2104,
		MapURL:           "https://maps.google.com/?q=Pho+Dien",
	},
	{
		ID:               "ChIJmock-sapa",
		DisplayName:      "Sapa Houston",
		FormattedAddress: "9889 Bellaire Blvd, Houston, TX 77036",
		PriceLevel:       "$$",
		Rating:           4.3,
		UserRatingCount:  987,
		MapURL:           "https://maps.google.com/?q=Sapa+Houston",
	},
	{
		ID:               "ChIJmock-luigis",
		DisplayName:      "Luigi's Trattoria",
		FormattedAddress: "123 Main St, Houston, TX 77002",
		PriceLevel:       "$$$",
		Rating:           4.6,
		UserRatingCount:  210,
		MapURL:           "https://maps.google.com/?q=Luigi's+Trattoria",
	},
}

func (m *MockConnector) SearchPlaces(ctx context.Context, query string) ([]*entity.Place, error) {
	ctxzap.Info(ctx, "[MOCK] searching places", zap.String("query", query))
	return mockPlaces, nil
}

func (m *MockConnector) PlaceDetails(ctx context.Context, placeID string) (*entity.Place, error) {
	ctxzap.Info(ctx, "[MOCK] place details", zap.String("place_id", placeID))

	for _, place := range mockPlaces {
		if place.ID == placeID {
			return place, nil
		}
	}

	// Unknown ids still resolve so vote generation never breaks mid-card.
	return &entity.Place{
		ID:               placeID,
		DisplayName:      strings.TrimPrefix(placeID, "ChIJmock-"),
		FormattedAddress: "Houston, TX",
		Rating:           4.0,
	}, nil
}

func (m *MockConnector) DistanceMatrix(ctx context.Context, origin, destination, mode string) (*entity.DistanceResult, error) {
	ctxzap.Info(ctx, "[MOCK] distance matrix",
		zap.String("origin", origin),
		zap.String("destination", destination),
	)

	if mode == "" {
		mode = "driving"
	}

	return &entity.DistanceResult{
		Origin:       origin,
		Destination:  destination,
		Mode:         mode,
		DistanceText: "5.2 mi",
		DurationText: fmt.Sprintf("14 mins (%s)", mode),
	}, nil
}
