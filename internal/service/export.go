package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vivu-app/journey-planner/internal/domain"
	"github.com/vivu-app/journey-planner/internal/repo"
)

// ExportService renders one journey in portable formats.
type ExportService struct {
	journeys repo.JourneyRepo
}

// NewExportService constructs an ExportService backed by the provided repo.
func NewExportService(journeys repo.JourneyRepo) *ExportService {
	return &ExportService{journeys: journeys}
}

// Rows returns the journey name and one ExportRow per location, in order.
// Unplaced locations are included; the flat form is a faithful copy.
func (s *ExportService) Rows(ctx context.Context, ownerID string, id uuid.UUID) (string, []domain.ExportRow, error) {
	j, err := s.load(ctx, ownerID, id)
	if err != nil {
		return "", nil, fmt.Errorf("service.ExportService.Rows: %w", err)
	}

	rows := make([]domain.ExportRow, 0, len(j.Locations))
	for i, loc := range j.Locations {
		row := domain.ExportRow{
			Position: i + 1,
			ID:       loc.ID,
			Name:     loc.Name,
			Lat:      loc.Lat,
			Lon:      loc.Lon,
		}
		if loc.Properties != nil {
			row.Notes = loc.Properties.Notes
			row.Links = loc.Properties.Links
		}
		rows = append(rows, row)
	}
	return j.Name, rows, nil
}

// GeoJSON returns a FeatureCollection with a Point per placed location and,
// when two or more are placed, a LineString joining them in order.
func (s *ExportService) GeoJSON(ctx context.Context, ownerID string, id uuid.UUID) (domain.FeatureCollection, error) {
	j, err := s.load(ctx, ownerID, id)
	if err != nil {
		return domain.FeatureCollection{}, fmt.Errorf("service.ExportService.GeoJSON: %w", err)
	}

	fc := domain.FeatureCollection{Type: "FeatureCollection", Features: []domain.Feature{}}
	var line [][]float64
	for i, loc := range j.Locations {
		if !loc.Placed() {
			continue
		}
		props := map[string]any{
			"id":       loc.ID,
			"name":     loc.Name,
			"position": i + 1,
		}
		if loc.Properties != nil {
			props["notes"] = loc.Properties.Notes
			props["links"] = loc.Properties.Links
		}
		fc.Features = append(fc.Features, domain.Feature{
			Type:       "Feature",
			Geometry:   domain.Geometry{Type: "Point", Coordinates: []float64{loc.Lon, loc.Lat}},
			Properties: props,
		})
		line = append(line, []float64{loc.Lon, loc.Lat})
	}

	if len(line) >= 2 {
		fc.Features = append(fc.Features, domain.Feature{
			Type:       "Feature",
			Geometry:   domain.Geometry{Type: "LineString", Coordinates: line},
			Properties: map[string]any{"name": j.Name},
		})
	}
	return fc, nil
}

func (s *ExportService) load(ctx context.Context, ownerID string, id uuid.UUID) (domain.Journey, error) {
	if ownerID == "" {
		return domain.Journey{}, domain.ErrUnauthorized
	}
	return s.journeys.GetByID(ctx, ownerID, id)
}
