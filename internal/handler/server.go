// Package handler implements the HTTP handlers for the journey planner API.
// Handlers are methods on Server and are split into resource files
// (journey.go, search.go, directions.go, export.go). They decode and bind
// requests, call the service layer, and translate errors into the JSON error
// envelope.
package handler

import (
	"context"
	"log/slog"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/vivu-app/journey-planner/internal/domain"
)

// JourneyServicer defines the journey operations the handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the database or service layer.
type JourneyServicer interface {
	Create(ctx context.Context, ownerID string, locations []domain.Location) (domain.Journey, error)
	List(ctx context.Context, ownerID string) ([]domain.Journey, error)
	Get(ctx context.Context, ownerID string, id uuid.UUID) (domain.Journey, error)
	Update(ctx context.Context, ownerID string, id uuid.UUID, patch domain.JourneyPatch) (domain.Journey, error)
}

// SearchServicer resolves place queries.
type SearchServicer interface {
	Search(ctx context.Context, query string) ([]domain.SearchResult, error)
}

// DirectionsServicer computes routes between [lon, lat] pairs.
type DirectionsServicer interface {
	Directions(ctx context.Context, coordinates [][]float64) (json.RawMessage, error)
}

// ExportServicer renders a journey for download.
type ExportServicer interface {
	Rows(ctx context.Context, ownerID string, id uuid.UUID) (string, []domain.ExportRow, error)
	GeoJSON(ctx context.Context, ownerID string, id uuid.UUID) (domain.FeatureCollection, error)
}

// Server holds the dependencies shared by every handler.
type Server struct {
	journeys   JourneyServicer
	search     SearchServicer
	directions DirectionsServicer
	export     ExportServicer
	logger     *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// A nil logger falls back to slog.Default().
func NewServer(journeys JourneyServicer, search SearchServicer, directions DirectionsServicer, export ExportServicer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		journeys:   journeys,
		search:     search,
		directions: directions,
		export:     export,
		logger:     logger,
	}
}
