package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/oapi-codegen/runtime"

	"github.com/vivu-app/journey-planner/internal/auth"
	"github.com/vivu-app/journey-planner/internal/domain"
)

// csvHeaders defines the column names written as the first row of a CSV export.
var csvHeaders = []string{"position", "id", "name", "lat", "lon", "notes", "links"}

// ExportJourney handles GET /api/journeys/{id}/export.
// ?format=geojson (default) or ?format=csv.
func (s *Server) ExportJourney(w http.ResponseWriter, r *http.Request) {
	id, ok := bindJourneyID(w, r)
	if !ok {
		return
	}

	var param *domain.ExportFormat
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &param); err != nil {
		writeErrorBody(w, http.StatusBadRequest, "validation_error", "invalid format parameter")
		return
	}
	format := domain.ExportGeoJSON
	if param != nil && *param != "" {
		format = *param
	}

	owner := auth.UserID(r.Context())
	switch format {
	case domain.ExportGeoJSON:
		fc, err := s.export.GeoJSON(r.Context(), owner, id)
		if err != nil {
			s.writeError(w, r, err, "export failed")
			return
		}
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="journey-%s.geojson"`, id))
		w.Header().Set("Content-Type", "application/geo+json")
		w.WriteHeader(http.StatusOK)
		_ = jsonEncoder(w).Encode(fc)

	case domain.ExportCSV:
		_, rows, err := s.export.Rows(r.Context(), owner, id)
		if err != nil {
			s.writeError(w, r, err, "export failed")
			return
		}
		body := buildCSV(rows)
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="journey-%s.csv"`, id))
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Length", strconv.Itoa(body.Len()))
		w.WriteHeader(http.StatusOK)
		_, _ = body.WriteTo(w)

	default:
		writeErrorBody(w, http.StatusBadRequest, "validation_error", "format must be geojson or csv")
	}
}

// buildCSV encodes rows as CSV. Links within a row are pipe-separated ("|")
// to keep each location on a single line.
func buildCSV(rows []domain.ExportRow) *bytes.Buffer {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	w.Write(csvHeaders)
	for _, r := range rows {
		//nolint:errcheck
		w.Write(rowToCSVRecord(r))
	}
	w.Flush()
	return &buf
}

func rowToCSVRecord(r domain.ExportRow) []string {
	return []string{
		strconv.Itoa(r.Position),
		r.ID,
		r.Name,
		strconv.FormatFloat(r.Lat, 'f', -1, 64),
		strconv.FormatFloat(r.Lon, 'f', -1, 64),
		r.Notes,
		strings.Join(r.Links, "|"),
	}
}
