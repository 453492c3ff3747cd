package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/vivu-app/journey-planner/internal/domain"
	"github.com/vivu-app/journey-planner/internal/upstream"
)

// ErrorResponse is the envelope for every non-2xx JSON answer.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = jsonEncoder(w).Encode(v)
}

// jsonEncoder leaves <, >, and & unescaped; place names and links are
// returned exactly as stored.
func jsonEncoder(w io.Writer) *json.Encoder {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc
}

func writeErrorBody(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// writeError maps a service error onto a status code. fallback is the message
// for the 500 answer, so the handler decides what the client learns about an
// internal failure. Unexpected errors are logged here and never sent.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeErrorBody(w, http.StatusBadRequest, "validation_error", unwrapMessage(err))
	case errors.Is(err, domain.ErrNotFound):
		writeErrorBody(w, http.StatusNotFound, "not_found", "journey not found")
	case errors.Is(err, domain.ErrUnauthorized):
		writeErrorBody(w, http.StatusUnauthorized, "unauthorized", "authentication required")
	case errors.Is(err, upstream.ErrUnavailable):
		s.logger.WarnContext(r.Context(), "upstream unavailable", "error", err)
		writeErrorBody(w, http.StatusServiceUnavailable, "upstream_unavailable", "service temporarily unavailable")
	case errors.Is(err, domain.ErrNotConfigured):
		s.logger.ErrorContext(r.Context(), "missing configuration", "error", err)
		writeErrorBody(w, http.StatusInternalServerError, "configuration_error", fallback)
	default:
		s.logger.ErrorContext(r.Context(), "request failed", "error", err)
		writeErrorBody(w, http.StatusInternalServerError, "internal_error", fallback)
	}
}

// decodeBody decodes a JSON request body into dst, answering 413 or 400 on
// failure. It reports whether the handler may continue.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeErrorBody(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
		return false
	}
	writeErrorBody(w, http.StatusBadRequest, "validation_error", "request body must be a JSON object")
	return false
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.JourneyService.Update: validation error: name must not be blank" → "name must not be blank"
func unwrapMessage(err error) string {
	msg := err.Error()
	marker := domain.ErrValidation.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 && i+len(marker) < len(msg) {
		return msg[i+len(marker):]
	}
	return msg
}
