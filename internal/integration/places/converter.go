package places

import (
	"strconv"

	"github.com/burbla/burbla-backend/internal/entity"
)

// ToVoteOption shapes a place into a fresh vote option with no votes.
func ToVoteOption(p *entity.Place) entity.VoteOption {
	return entity.VoteOption{
		RestaurantID:    p.ID,
		RestaurantName:  p.DisplayName,
		Description:     p.FormattedAddress,
		Image:           p.PhotoURL,
		Rating:          ratingString(p.Rating),
		UserRatingCount: p.UserRatingCount,
		NumberOfVotes:   0,
		VoteUserIDs:     []string{},
		Map:             p.MapURL,
	}
}

// ToRecommendationOption shapes a place into a recommendation card entry.
func ToRecommendationOption(p *entity.Place) entity.RecommendationOption {
	priceLevel := p.PriceLevel
	if priceLevel == "" {
		priceLevel = "N/A"
	}

	return entity.RecommendationOption{
		RestaurantID:     p.ID,
		RestaurantName:   p.DisplayName,
		Description:      p.FormattedAddress,
		Image:            p.PhotoURL,
		Rating:           ratingString(p.Rating),
		UserRatingCount:  p.UserRatingCount,
		FormattedAddress: p.FormattedAddress,
		PriceLevel:       priceLevel,
		Map:              p.MapURL,
	}
}

func ratingString(rating float64) string {
	if rating == 0 {
		return "N/A"
	}
	return strconv.FormatFloat(rating, 'f', 1, 64)
}
