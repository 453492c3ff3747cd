package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivu-app/journey-planner/internal/domain"
	"github.com/vivu-app/journey-planner/internal/upstream"
)

func TestSearch_Returns200(t *testing.T) {
	svc := &mockSearchServicer{search: func(_ context.Context, q string) ([]domain.SearchResult, error) {
		assert.Equal(t, "chợ bến thành", q)
		return []domain.SearchResult{{Name: "Chợ Bến Thành", DisplayName: "Chợ Bến Thành, Quận 1", Lat: "10.772", Lon: "106.698"}}, nil
	}}
	h := newHTTPHandler(services{search: svc})

	rec := do(t, h, http.MethodGet, "/api/search?q=ch%E1%BB%A3%20b%E1%BA%BFn%20th%C3%A0nh", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"name":"Chợ Bến Thành","display_name":"Chợ Bến Thành, Quận 1","lat":"10.772","lon":"106.698"}]`, rec.Body.String())
}

func TestSearch_MissingQueryPassesEmpty(t *testing.T) {
	svc := &mockSearchServicer{search: func(_ context.Context, q string) ([]domain.SearchResult, error) {
		assert.Equal(t, "", q)
		return []domain.SearchResult{}, nil
	}}
	h := newHTTPHandler(services{search: svc})

	rec := do(t, h, http.MethodGet, "/api/search", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestSearch_Errors(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"not configured", fmt.Errorf("x: %w", domain.ErrNotConfigured), http.StatusInternalServerError, "configuration_error", "search failed"},
		{"upstream status", &upstream.StatusError{Service: "maptiler", Status: 502}, http.StatusInternalServerError, "internal_error", "search failed"},
		{"transport", errors.New("dial tcp: i/o timeout"), http.StatusInternalServerError, "internal_error", "search failed"},
		{"breaker open", fmt.Errorf("maptiler: %w", upstream.ErrUnavailable), http.StatusServiceUnavailable, "upstream_unavailable", "service temporarily unavailable"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockSearchServicer{search: func(context.Context, string) ([]domain.SearchResult, error) { return nil, tc.err }}
			h := newHTTPHandler(services{search: svc})

			rec := do(t, h, http.MethodGet, "/api/search?q=hue", "", nil)

			require.Equal(t, tc.status, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tc.code, body.Error.Code)
			assert.Equal(t, tc.message, body.Error.Message)
		})
	}
}
