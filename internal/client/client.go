// Package client is a typed Go client for the journey planner HTTP API.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/vivu-app/journey-planner/internal/domain"
	"github.com/vivu-app/journey-planner/internal/upstream"
)

// APIError is a non-2xx answer from the API. Code and Message come from the
// error envelope; answers without one (relayed routing errors) leave Code
// empty and carry the raw body as Message.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: status %d: %s: %s", e.Status, e.Code, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == http.StatusNotFound
}

// TokenSource returns the bearer token to send, or "" for none.
type TokenSource func(ctx context.Context) (string, error)

// StaticToken always sends token.
func StaticToken(token string) TokenSource {
	return func(context.Context) (string, error) { return token, nil }
}

// Client calls the API at one base URL.
type Client struct {
	baseURL string
	http    *upstream.Client
	token   TokenSource
}

// Option configures a Client.
type Option func(*options)

type options struct {
	httpClient *http.Client
	token      TokenSource
	logger     *slog.Logger
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithToken sets where bearer tokens come from.
func WithToken(ts TokenSource) Option {
	return func(o *options) { o.token = ts }
}

// WithLogger sets the logger used for circuit breaker transitions.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New returns a Client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    upstream.NewClient("journey-api", o.httpClient, nil, o.logger),
		token:   o.token,
	}
}

// Search looks up places. A blank query returns an empty list without a
// request.
func (c *Client) Search(ctx context.Context, q string) ([]domain.SearchResult, error) {
	if strings.TrimSpace(q) == "" {
		return []domain.SearchResult{}, nil
	}
	var out []domain.SearchResult
	if err := c.do(ctx, http.MethodGet, "/api/search?q="+url.QueryEscape(q), nil, &out); err != nil {
		return nil, fmt.Errorf("client.Search: %w", err)
	}
	if out == nil {
		out = []domain.SearchResult{}
	}
	return out, nil
}

// Directions asks for a route through coords, given as [lon, lat] pairs.
// The GeoJSON answer is returned untouched.
func (c *Client) Directions(ctx context.Context, coords [][]float64) (json.RawMessage, error) {
	body := struct {
		Coordinates [][]float64 `json:"coordinates"`
	}{coords}
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/directions", body, &out); err != nil {
		return nil, fmt.Errorf("client.Directions: %w", err)
	}
	return out, nil
}

// ListJourneys returns the caller's journeys, newest first.
func (c *Client) ListJourneys(ctx context.Context) ([]domain.Journey, error) {
	var out []domain.Journey
	if err := c.do(ctx, http.MethodGet, "/api/journeys", nil, &out); err != nil {
		return nil, fmt.Errorf("client.ListJourneys: %w", err)
	}
	if out == nil {
		out = []domain.Journey{}
	}
	return out, nil
}

// CreateJourney saves locs as a new journey.
func (c *Client) CreateJourney(ctx context.Context, locs []domain.Location) (domain.Journey, error) {
	body := struct {
		Locations []domain.Location `json:"locations"`
	}{locs}
	var out domain.Journey
	if err := c.do(ctx, http.MethodPost, "/api/journeys", body, &out); err != nil {
		return domain.Journey{}, fmt.Errorf("client.CreateJourney: %w", err)
	}
	return out, nil
}

// GetJourney fetches one journey.
func (c *Client) GetJourney(ctx context.Context, id uuid.UUID) (domain.Journey, error) {
	var out domain.Journey
	if err := c.do(ctx, http.MethodGet, "/api/journeys/"+id.String(), nil, &out); err != nil {
		return domain.Journey{}, fmt.Errorf("client.GetJourney: %w", err)
	}
	return out, nil
}

type patchBody struct {
	Name      *string            `json:"name,omitempty"`
	Locations *[]domain.Location `json:"locations,omitempty"`
}

// UpdateJourney sends the non-nil fields of patch.
func (c *Client) UpdateJourney(ctx context.Context, id uuid.UUID, patch domain.JourneyPatch) (domain.Journey, error) {
	body := patchBody{Name: patch.Name}
	if patch.Locations != nil {
		body.Locations = &patch.Locations
	}
	var out domain.Journey
	if err := c.do(ctx, http.MethodPatch, "/api/journeys/"+id.String(), body, &out); err != nil {
		return domain.Journey{}, fmt.Errorf("client.UpdateJourney: %w", err)
	}
	return out, nil
}

// ExportJourney downloads a journey as GeoJSON or CSV.
func (c *Client) ExportJourney(ctx context.Context, id uuid.UUID, format domain.ExportFormat) ([]byte, error) {
	path := "/api/journeys/" + id.String() + "/export"
	if format != "" {
		path += "?format=" + url.QueryEscape(string(format))
	}
	var out []byte
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("client.ExportJourney: %w", err)
	}
	return out, nil
}

// do sends one request. A *[]byte destination receives the raw body; any
// other destination is JSON-decoded.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		token, err := c.token(ctx)
		if err != nil {
			return fmt.Errorf("token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		var se *upstream.StatusError
		if errors.As(err, &se) {
			return decodeAPIError(se)
		}
		return err
	}

	switch dst := out.(type) {
	case nil:
		return nil
	case *[]byte:
		*dst = resp
		return nil
	default:
		if err := json.Unmarshal(resp, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
}

// maxMessageBytes bounds how much of a non-envelope body ends up in an error.
const maxMessageBytes = 512

func decodeAPIError(se *upstream.StatusError) *APIError {
	var env struct {
		Error *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(se.Body, &env); err == nil && env.Error != nil && env.Error.Code != "" {
		return &APIError{Status: se.Status, Code: env.Error.Code, Message: env.Error.Message}
	}

	msg := strings.TrimSpace(string(se.Body))
	if len(msg) > maxMessageBytes {
		msg = msg[:maxMessageBytes]
	}
	if msg == "" {
		msg = http.StatusText(se.Status)
	}
	return &APIError{Status: se.Status, Message: msg}
}
