package handler

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/vivu-app/journey-planner/internal/domain"
	"github.com/vivu-app/journey-planner/internal/upstream"
)

type directionsRequest struct {
	Coordinates json.RawMessage `json:"coordinates"`
}

const coordinatesMessage = "At least two coordinates are required"

// Directions handles POST /api/directions.
// The upstream GeoJSON is relayed byte for byte, and so are upstream error
// answers together with their status.
func (s *Server) Directions(w http.ResponseWriter, r *http.Request) {
	var req directionsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var coords [][]float64
	if len(req.Coordinates) == 0 || json.Unmarshal(req.Coordinates, &coords) != nil || coords == nil {
		writeErrorBody(w, http.StatusBadRequest, "validation_error", coordinatesMessage)
		return
	}

	body, err := s.directions.Directions(r.Context(), coords)
	if err != nil {
		var se *upstream.StatusError
		switch {
		case errors.As(err, &se):
			s.logger.WarnContext(r.Context(), "directions upstream error", "status", se.Status)
			ct := se.ContentType
			if ct == "" {
				ct = "application/json"
			}
			w.Header().Set("Content-Type", ct)
			w.WriteHeader(se.Status)
			_, _ = w.Write(se.Body)
		case errors.Is(err, domain.ErrValidation):
			writeErrorBody(w, http.StatusBadRequest, "validation_error", unwrapMessage(err))
		case errors.Is(err, domain.ErrNotConfigured):
			s.writeError(w, r, err, "OpenRouteService API key not configured")
		default:
			s.writeError(w, r, err, "Failed to fetch directions")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
