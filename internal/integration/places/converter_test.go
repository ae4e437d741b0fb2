package places

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/burbla/burbla-backend/internal/entity"
)

func TestToVoteOption(t *testing.T) {
	place := &entity.Place{
		ID:               "place_a",
		DisplayName:      "Pho Dien",
		FormattedAddress: "11210 Bellaire Blvd, Houston, TX",
		Rating:           4.5,
		UserRatingCount:  2107,
		PhotoURL:         "https://example.com/photo.jpg",
		MapURL:           "https://maps.google.com/?cid=1",
	}

	opt := ToVoteOption(place)
	assert.Equal(t, "place_a", opt.RestaurantID)
	assert.Equal(t, "Pho Dien", opt.RestaurantName)
	assert.Equal(t, "4.5", opt.Rating)
	assert.Equal(t, 0, opt.NumberOfVotes)
	assert.NotNil(t, opt.VoteUserIDs)
	assert.Empty(t, opt.VoteUserIDs)
}

func TestToRecommendationOption_Defaults(t *testing.T) {
	opt := ToRecommendationOption(&entity.Place{ID: "place_b", DisplayName: "Sapa Houston"})
	assert.Equal(t, "N/A", opt.Rating)
	assert.Equal(t, "N/A", opt.PriceLevel)
}
