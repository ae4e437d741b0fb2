package places

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/avast/retry-go/v4"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/burbla/burbla-backend/internal/config"
	"github.com/burbla/burbla-backend/internal/entity"
	pkghttp "github.com/burbla/burbla-backend/pkg/http"
)

const (
	searchFieldMask  = "places.id,places.displayName,places.formattedAddress,places.priceLevel,places.rating,places.userRatingCount,places.photos,places.googleMapsUri"
	detailsFieldMask = "id,displayName,formattedAddress,priceLevel,rating,userRatingCount,photos,googleMapsUri"
)

// Connector talks to the Google Places API (New) and the Distance Matrix
// API. Place detail lookups are cached in-process; vote generation hits the
// same handful of place ids repeatedly.
type Connector struct {
	config    config.PlacesConnectorConfig
	connector *pkghttp.Connector
	details   *gocache.Cache
	logger    *zap.Logger
}

func NewConnector(cfg config.PlacesConnectorConfig, logger *zap.Logger) *Connector {
	return &Connector{
		config: cfg,
		connector: pkghttp.NewConnector(
			&pkghttp.ConnectorConfig{
				BaseURL: cfg.Url,
				Logger:  logger,
			},
			pkghttp.WithRequestTimeout(cfg.RequestTimeout),
			pkghttp.WithConnClientTimeout(cfg.ConnTimeout),
			pkghttp.WithClientKeepAlive(cfg.KeepAlive),
			pkghttp.WithIdleConnTimeout(cfg.IdleConnTimeout),
			pkghttp.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
			pkghttp.WithStaticHeaders(map[string]string{
				"X-Goog-Api-Key": cfg.APIKey,
			}),
			pkghttp.WithRequestLogging(),
		),
		details: gocache.New(cfg.DetailsCacheTTL, 2*cfg.DetailsCacheTTL),
		logger:  logger,
	}
}

type textSearchRequest struct {
	TextQuery string `json:"textQuery"`
	PageSize  int    `json:"pageSize,omitempty"`
}

type placePayload struct {
	ID          string `json:"id"`
	DisplayName struct {
		Text string `json:"text"`
	} `json:"displayName"`
	FormattedAddress string  `json:"formattedAddress"`
	PriceLevel       string  `json:"priceLevel"`
	Rating           float64 `json:"rating"`
	UserRatingCount  int     `json:"userRatingCount"`
	Photos           []struct {
		Name string `json:"name"`
	} `json:"photos"`
	GoogleMapsURI string `json:"googleMapsUri"`
}

type textSearchResponse struct {
	Places []placePayload `json:"places"`
}

// SearchPlaces runs a text search ("best pho in Houston") and returns the
// matching places.
func (c *Connector) SearchPlaces(ctx context.Context, query string) ([]*entity.Place, error) {
	ctxzap.Info(ctx, "searching places", zap.String("query", query))

	var resp textSearchResponse
	err := retry.Do(
		func() error {
			return c.connector.DoRequest(ctx, http.MethodPost, "/v1/places:searchText",
				&textSearchRequest{TextQuery: query, PageSize: c.config.MaxResults}, &resp,
				pkghttp.WithHeader("X-Goog-FieldMask", searchFieldMask),
			)
		},
		append(c.config.Retry.ToRetryOptions(), retry.Context(ctx))...,
	)
	if err != nil {
		return nil, fmt.Errorf("places text search: %w", err)
	}

	places := make([]*entity.Place, 0, len(resp.Places))
	for i := range resp.Places {
		places = append(places, c.toEntityPlace(&resp.Places[i]))
	}

	ctxzap.Info(ctx, "places found", zap.Int("count", len(places)))

	return places, nil
}

// PlaceDetails fetches one place by id, serving repeats from the cache.
func (c *Connector) PlaceDetails(ctx context.Context, placeID string) (*entity.Place, error) {
	if cached, ok := c.details.Get(placeID); ok {
		return cached.(*entity.Place), nil
	}

	var payload placePayload
	err := retry.Do(
		func() error {
			return c.connector.DoRequest(ctx, http.MethodGet, "/v1/places/"+url.PathEscape(placeID),
				nil, &payload,
				pkghttp.WithHeader("X-Goog-FieldMask", detailsFieldMask),
			)
		},
		append(c.config.Retry.ToRetryOptions(), retry.Context(ctx))...,
	)
	if err != nil {
		return nil, fmt.Errorf("place details %s: %w", placeID, err)
	}
	if payload.ID == "" {
		payload.ID = placeID
	}

	place := c.toEntityPlace(&payload)
	c.details.SetDefault(placeID, place)

	return place, nil
}

type distanceMatrixResponse struct {
	Rows []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Text string `json:"text"`
			} `json:"distance"`
			Duration struct {
				Text string `json:"text"`
			} `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
	Status string `json:"status"`
}

// DistanceMatrix resolves travel distance and time between two addresses for
// the given transportation mode.
func (c *Connector) DistanceMatrix(ctx context.Context, origin, destination, mode string) (*entity.DistanceResult, error) {
	if mode == "" {
		mode = "driving"
	}

	params := url.Values{}
	params.Set("origins", origin)
	params.Set("destinations", destination)
	params.Set("mode", mode)
	params.Set("units", "imperial")
	params.Set("key", c.config.APIKey)

	var resp distanceMatrixResponse
	err := retry.Do(
		func() error {
			return c.connector.DoRequest(ctx, http.MethodGet, "", nil, &resp,
				pkghttp.WithURL(c.config.DistanceMatrixURL+"?"+params.Encode()),
			)
		},
		append(c.config.Retry.ToRetryOptions(), retry.Context(ctx))...,
	)
	if err != nil {
		return nil, fmt.Errorf("distance matrix: %w", err)
	}

	if resp.Status != "OK" || len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return nil, fmt.Errorf("distance matrix: no route for %q -> %q (status %s)", origin, destination, resp.Status)
	}

	element := resp.Rows[0].Elements[0]
	if element.Status != "OK" {
		return nil, fmt.Errorf("distance matrix: element status %s", element.Status)
	}

	return &entity.DistanceResult{
		Origin:       origin,
		Destination:  destination,
		Mode:         mode,
		DistanceText: element.Distance.Text,
		DurationText: element.Duration.Text,
	}, nil
}

func (c *Connector) toEntityPlace(p *placePayload) *entity.Place {
	photoURL := ""
	if len(p.Photos) > 0 && p.Photos[0].Name != "" {
		photoURL = fmt.Sprintf("%s/v1/%s/media?key=%s&maxHeightPx=400&maxWidthPx=400",
			c.config.Url, p.Photos[0].Name, c.config.APIKey)
	}

	return &entity.Place{
		ID:               p.ID,
		DisplayName:      p.DisplayName.Text,
		FormattedAddress: p.FormattedAddress,
		PriceLevel:       p.PriceLevel,
		Rating:           p.Rating,
		UserRatingCount:  p.UserRatingCount,
		PhotoURL:         photoURL,
		MapURL:           p.GoogleMapsURI,
	}
}
