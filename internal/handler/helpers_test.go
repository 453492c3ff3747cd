package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vivu-app/journey-planner/internal/auth"
	"github.com/vivu-app/journey-planner/internal/domain"
	"github.com/vivu-app/journey-planner/internal/handler"
)

// mockJourneyServicer is a test double for handler.JourneyServicer.
// Set only the method fields your test needs.
type mockJourneyServicer struct {
	create func(ctx context.Context, owner string, locs []domain.Location) (domain.Journey, error)
	list   func(ctx context.Context, owner string) ([]domain.Journey, error)
	get    func(ctx context.Context, owner string, id uuid.UUID) (domain.Journey, error)
	update func(ctx context.Context, owner string, id uuid.UUID, p domain.JourneyPatch) (domain.Journey, error)
}

func (m *mockJourneyServicer) Create(ctx context.Context, owner string, locs []domain.Location) (domain.Journey, error) {
	return m.create(ctx, owner, locs)
}
func (m *mockJourneyServicer) List(ctx context.Context, owner string) ([]domain.Journey, error) {
	return m.list(ctx, owner)
}
func (m *mockJourneyServicer) Get(ctx context.Context, owner string, id uuid.UUID) (domain.Journey, error) {
	return m.get(ctx, owner, id)
}
func (m *mockJourneyServicer) Update(ctx context.Context, owner string, id uuid.UUID, p domain.JourneyPatch) (domain.Journey, error) {
	return m.update(ctx, owner, id, p)
}

var _ handler.JourneyServicer = (*mockJourneyServicer)(nil)

type mockSearchServicer struct {
	search func(ctx context.Context, q string) ([]domain.SearchResult, error)
}

func (m *mockSearchServicer) Search(ctx context.Context, q string) ([]domain.SearchResult, error) {
	return m.search(ctx, q)
}

type mockDirectionsServicer struct {
	directions func(ctx context.Context, coords [][]float64) (json.RawMessage, error)
}

func (m *mockDirectionsServicer) Directions(ctx context.Context, coords [][]float64) (json.RawMessage, error) {
	return m.directions(ctx, coords)
}

type mockExportServicer struct {
	rows    func(ctx context.Context, owner string, id uuid.UUID) (string, []domain.ExportRow, error)
	geoJSON func(ctx context.Context, owner string, id uuid.UUID) (domain.FeatureCollection, error)
}

func (m *mockExportServicer) Rows(ctx context.Context, owner string, id uuid.UUID) (string, []domain.ExportRow, error) {
	return m.rows(ctx, owner, id)
}
func (m *mockExportServicer) GeoJSON(ctx context.Context, owner string, id uuid.UUID) (domain.FeatureCollection, error) {
	return m.geoJSON(ctx, owner, id)
}

// ---- helpers ---------------------------------------------------------------

const userHeader = "X-Test-User"

// fakeAuth stands in for the real authenticator: the user id comes from a
// test header and a missing header is a 401.
func fakeAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid := r.Header.Get(userHeader)
		if uid == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), uid)))
	})
}

type services struct {
	journeys   handler.JourneyServicer
	search     handler.SearchServicer
	directions handler.DirectionsServicer
	export     handler.ExportServicer
}

// newHTTPHandler wires a Server with the given mocks into the chi router.
// This mirrors how main.go wires it in production.
func newHTTPHandler(s services) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := handler.NewServer(s.journeys, s.search, s.directions, s.export, logger)
	return handler.Handler(srv, handler.RouterOptions{Authenticate: fakeAuth})
}

func do(t *testing.T, h http.Handler, method, path, user string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set(userHeader, user)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorResponse {
	t.Helper()
	var body handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func journeyFixture(owner string) domain.Journey {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	return domain.Journey{
		ID:        uuid.New(),
		OwnerID:   owner,
		Name:      domain.DefaultJourneyName,
		Locations: []domain.Location{{ID: "a", Name: "Sài Gòn", Lat: 10.762622, Lon: 106.660172}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
