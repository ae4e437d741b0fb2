package entity

import "encoding/json"

// RecommendationCardType is the discriminator on recommendation payloads.
const RecommendationCardType = "recommendation_card"

// Place is one result from the places lookup service.
type Place struct {
	ID               string  `json:"id"`
	DisplayName      string  `json:"display_name"`
	FormattedAddress string  `json:"formatted_address"`
	PriceLevel       string  `json:"price_level"`
	Rating           float64 `json:"rating"`
	UserRatingCount  int     `json:"user_rating_count"`
	PhotoURL         string  `json:"photo_url"`
	MapURL           string  `json:"map_url"`
}

// DistanceResult is one origin→destination leg from the distance lookup.
type DistanceResult struct {
	Origin       string `json:"origin"`
	Destination  string `json:"destination"`
	Mode         string `json:"mode"`
	DistanceText string `json:"distance_text"`
	DurationText string `json:"duration_text"`
}

// RecommendationOption is one candidate inside a recommendation card.
type RecommendationOption struct {
	RestaurantID     string `json:"restaurant_id"`
	RestaurantName   string `json:"restaurant_name"`
	Description      string `json:"description"`
	Image            string `json:"image"`
	Rating           string `json:"rating"`
	UserRatingCount  int    `json:"userRatingCount"`
	FormattedAddress string `json:"formattedAddress"`
	PriceLevel       string `json:"priceLevel"`
	Map              string `json:"map"`
}

// RecommendationCard is the structured payload produced for "find me a
// place to eat" style requests.
type RecommendationCard struct {
	MessageID  string                 `json:"message_id"`
	SenderName string                 `json:"sender_name"`
	Type       string                 `json:"type"`
	Options    []RecommendationOption `json:"options"`
}

// Serialize returns the canonical JSON text relayed to the client.
func (c *RecommendationCard) Serialize() (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
