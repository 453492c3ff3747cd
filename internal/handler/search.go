package handler

import (
	"net/http"

	"github.com/oapi-codegen/runtime"
)

// Search handles GET /api/search?q=.
// The answer is always a JSON array; a blank query yields [].
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var q *string
	if err := runtime.BindQueryParameter("form", true, false, "q", r.URL.Query(), &q); err != nil {
		writeErrorBody(w, http.StatusBadRequest, "validation_error", "invalid q parameter")
		return
	}
	query := ""
	if q != nil {
		query = *q
	}

	results, err := s.search.Search(r.Context(), query)
	if err != nil {
		s.writeError(w, r, err, "search failed")
		return
	}
	writeJSON(w, http.StatusOK, results)
}
