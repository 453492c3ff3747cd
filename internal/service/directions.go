package service

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/vivu-app/journey-planner/internal/domain"
)

// Router computes a route through ordered [lon, lat] pairs.
type Router interface {
	Directions(ctx context.Context, coordinates [][]float64) (json.RawMessage, error)
}

// DirectionsService validates route requests before forwarding them.
type DirectionsService struct {
	router Router
}

// NewDirectionsService constructs a DirectionsService.
func NewDirectionsService(r Router) *DirectionsService {
	return &DirectionsService{router: r}
}

// Directions checks that at least two well-formed pairs were given and
// returns the router's GeoJSON untouched. Validation runs before any
// configuration check.
func (s *DirectionsService) Directions(ctx context.Context, coordinates [][]float64) (json.RawMessage, error) {
	if len(coordinates) < 2 {
		return nil, fmt.Errorf("service.DirectionsService.Directions: %w: at least two coordinates are required", domain.ErrValidation)
	}
	for i, pair := range coordinates {
		if len(pair) != 2 {
			return nil, fmt.Errorf("service.DirectionsService.Directions: %w: coordinates[%d] must be a [lon, lat] pair", domain.ErrValidation, i)
		}
	}
	if s.router == nil {
		return nil, fmt.Errorf("service.DirectionsService.Directions: router: %w", domain.ErrNotConfigured)
	}

	body, err := s.router.Directions(ctx, coordinates)
	if err != nil {
		return nil, fmt.Errorf("service.DirectionsService.Directions: %w", err)
	}
	return body, nil
}
