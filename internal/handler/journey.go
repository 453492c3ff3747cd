package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/vivu-app/journey-planner/internal/auth"
	"github.com/vivu-app/journey-planner/internal/domain"
)

type createJourneyRequest struct {
	Locations *[]domain.Location `json:"locations"`
}

// patchJourneyRequest uses pointers so that an absent field and an explicit
// null both decode to nil and leave the stored value alone.
type patchJourneyRequest struct {
	Name      *string            `json:"name"`
	Locations *[]domain.Location `json:"locations"`
}

// CreateJourney handles POST /api/journeys.
func (s *Server) CreateJourney(w http.ResponseWriter, r *http.Request) {
	var req createJourneyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Locations == nil {
		writeErrorBody(w, http.StatusBadRequest, "validation_error", "locations must be a non-empty array")
		return
	}

	created, err := s.journeys.Create(r.Context(), auth.UserID(r.Context()), *req.Locations)
	if err != nil {
		s.writeError(w, r, err, "failed to create journey")
		return
	}
	writeJSON(w, http.StatusOK, created)
}

// ListJourneys handles GET /api/journeys.
func (s *Server) ListJourneys(w http.ResponseWriter, r *http.Request) {
	journeys, err := s.journeys.List(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		s.writeError(w, r, err, "failed to list journeys")
		return
	}
	writeJSON(w, http.StatusOK, journeys)
}

// GetJourney handles GET /api/journeys/{id}.
func (s *Server) GetJourney(w http.ResponseWriter, r *http.Request) {
	id, ok := bindJourneyID(w, r)
	if !ok {
		return
	}

	j, err := s.journeys.Get(r.Context(), auth.UserID(r.Context()), id)
	if err != nil {
		s.writeError(w, r, err, "failed to load journey")
		return
	}
	writeJSON(w, http.StatusOK, j)
}

// PatchJourney handles PATCH /api/journeys/{id}.
func (s *Server) PatchJourney(w http.ResponseWriter, r *http.Request) {
	id, ok := bindJourneyID(w, r)
	if !ok {
		return
	}

	var req patchJourneyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	patch := domain.JourneyPatch{Name: req.Name}
	if req.Locations != nil {
		patch.Locations = *req.Locations
		if patch.Locations == nil {
			patch.Locations = []domain.Location{}
		}
	}

	updated, err := s.journeys.Update(r.Context(), auth.UserID(r.Context()), id, patch)
	if err != nil {
		s.writeError(w, r, err, "failed to update journey")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// bindJourneyID parses the {id} path parameter. A malformed id cannot name an
// existing journey, so it is answered like a missing one.
func bindJourneyID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeErrorBody(w, http.StatusNotFound, "not_found", "journey not found")
		return uuid.Nil, false
	}
	return id, true
}
