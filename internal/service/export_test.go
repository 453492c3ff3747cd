package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivu-app/journey-planner/internal/domain"
	"github.com/vivu-app/journey-planner/internal/service"
)

func exportRepo(j domain.Journey) *mockJourneyRepo {
	return &mockJourneyRepo{getByID: func(_ context.Context, owner string, id uuid.UUID) (domain.Journey, error) {
		if owner != j.OwnerID || id != j.ID {
			return domain.Journey{}, domain.ErrNotFound
		}
		return j, nil
	}}
}

func exportFixture() domain.Journey {
	j := storedJourney("user-1")
	j.Name = "North bound"
	j.Locations = []domain.Location{
		{ID: "a", Name: "Sài Gòn", Lat: 10.76, Lon: 106.66, Properties: &domain.LocationProperties{
			Notes: "start early",
			Links: []string{"https://a.example", "https://b.example"},
		}},
		{ID: "b", Name: ""},
		{ID: "c", Name: "Hà Nội", Lat: 21.03, Lon: 105.85},
	}
	return j
}

func TestExportService_Rows(t *testing.T) {
	j := exportFixture()
	svc := service.NewExportService(exportRepo(j))

	name, rows, err := svc.Rows(context.Background(), "user-1", j.ID)

	require.NoError(t, err)
	assert.Equal(t, "North bound", name)
	require.Len(t, rows, 3)
	assert.Equal(t, domain.ExportRow{
		Position: 1, ID: "a", Name: "Sài Gòn", Lat: 10.76, Lon: 106.66,
		Notes: "start early", Links: []string{"https://a.example", "https://b.example"},
	}, rows[0])
	assert.Equal(t, 2, rows[1].Position)
	assert.Equal(t, "b", rows[1].ID)
}

func TestExportService_GeoJSON(t *testing.T) {
	j := exportFixture()
	svc := service.NewExportService(exportRepo(j))

	fc, err := svc.GeoJSON(context.Background(), "user-1", j.ID)

	require.NoError(t, err)
	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 3, "two points (unplaced skipped) plus one line")

	assert.Equal(t, "Point", fc.Features[0].Geometry.Type)
	assert.Equal(t, []float64{106.66, 10.76}, fc.Features[0].Geometry.Coordinates)
	assert.Equal(t, 1, fc.Features[0].Properties["position"])
	assert.Equal(t, 3, fc.Features[1].Properties["position"])

	line := fc.Features[2]
	assert.Equal(t, "LineString", line.Geometry.Type)
	assert.Equal(t, [][]float64{{106.66, 10.76}, {105.85, 21.03}}, line.Geometry.Coordinates)
}

func TestExportService_GeoJSON_SinglePointHasNoLine(t *testing.T) {
	j := storedJourney("user-1")
	svc := service.NewExportService(exportRepo(j))

	fc, err := svc.GeoJSON(context.Background(), "user-1", j.ID)

	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "Point", fc.Features[0].Geometry.Type)
}

func TestExportService_OtherOwnerIsNotFound(t *testing.T) {
	j := exportFixture()
	svc := service.NewExportService(exportRepo(j))

	_, _, err := svc.Rows(context.Background(), "user-2", j.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.GeoJSON(context.Background(), "user-2", j.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExportService_Unauthenticated(t *testing.T) {
	svc := service.NewExportService(&mockJourneyRepo{})

	_, _, err := svc.Rows(context.Background(), "", uuid.New())

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
