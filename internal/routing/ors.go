// Package routing requests route geometries from OpenRouteService.
package routing

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/vivu-app/journey-planner/internal/domain"
	"github.com/vivu-app/journey-planner/internal/upstream"
)

const (
	DefaultBaseURL = "https://api.openrouteservice.org"
	DefaultProfile = "cycling-regular"
)

// ORS is an OpenRouteService directions client.
type ORS struct {
	baseURL string
	key     string
	profile string
	client  *upstream.Client
}

// NewORS builds a client. Empty baseURL and profile select the defaults.
func NewORS(baseURL, key, profile string, client *upstream.Client) *ORS {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if profile == "" {
		profile = DefaultProfile
	}
	return &ORS{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		profile: profile,
		client:  client,
	}
}

type directionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

// Directions posts coordinates ([lon, lat] pairs) and returns the GeoJSON
// route body untouched. A non-2xx answer surfaces as *upstream.StatusError
// carrying the upstream body, so it can be relayed as is.
func (o *ORS) Directions(ctx context.Context, coordinates [][]float64) (json.RawMessage, error) {
	if o.key == "" {
		return nil, fmt.Errorf("routing.ORS.Directions: OpenRouteService API key: %w", domain.ErrNotConfigured)
	}

	payload, err := json.Marshal(directionsRequest{Coordinates: coordinates})
	if err != nil {
		return nil, fmt.Errorf("routing.ORS.Directions: encode: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", o.baseURL, o.profile)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("routing.ORS.Directions: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, application/geo+json")
	req.Header.Set("Authorization", o.key)

	body, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("routing.ORS.Directions: %w", err)
	}
	return json.RawMessage(body), nil
}
