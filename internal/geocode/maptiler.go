// Package geocode resolves free-text place queries through the MapTiler
// geocoding API and reshapes the answer into domain.SearchResult values.
package geocode

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/vivu-app/journey-planner/internal/domain"
	"github.com/vivu-app/journey-planner/internal/upstream"
)

// DefaultBaseURL is the public MapTiler API endpoint.
const DefaultBaseURL = "https://api.maptiler.com"

// MapTiler is a geocoding client for the MapTiler API.
type MapTiler struct {
	baseURL  string
	key      string
	language string
	client   *upstream.Client
}

// NewMapTiler builds a client. An empty baseURL selects DefaultBaseURL.
func NewMapTiler(baseURL, key, language string, client *upstream.Client) *MapTiler {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &MapTiler{
		baseURL:  strings.TrimRight(baseURL, "/"),
		key:      key,
		language: language,
		client:   client,
	}
}

// Language returns the language the client asks results in.
func (m *MapTiler) Language() string {
	return m.language
}

type featureCollection struct {
	Features []map[string]any `json:"features"`
}

// Search forwards query to MapTiler. It returns domain.ErrNotConfigured when
// no API key is set, without contacting the service.
func (m *MapTiler) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	if m.key == "" {
		return nil, fmt.Errorf("geocode.MapTiler.Search: maptiler key: %w", domain.ErrNotConfigured)
	}

	params := url.Values{}
	params.Set("key", m.key)
	if m.language != "" {
		params.Set("language", m.language)
	}
	endpoint := fmt.Sprintf("%s/geocoding/%s.json?%s", m.baseURL, url.PathEscape(query), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("geocode.MapTiler.Search: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	body, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode.MapTiler.Search: %w", err)
	}

	var fc featureCollection
	if err := json.Unmarshal(body, &fc); err != nil {
		return nil, fmt.Errorf("geocode.MapTiler.Search: decode: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(fc.Features))
	for _, f := range fc.Features {
		results = append(results, m.reshape(f))
	}
	return results, nil
}

// reshape maps one MapTiler feature to a SearchResult. The localized text
// field wins over the plain one; center is [lon, lat].
func (m *MapTiler) reshape(f map[string]any) domain.SearchResult {
	r := domain.SearchResult{
		Name:        stringField(f, "text_"+m.language),
		DisplayName: stringField(f, "place_name"),
	}
	if r.Name == "" {
		r.Name = stringField(f, "text")
	}

	if center, ok := f["center"].([]any); ok && len(center) == 2 {
		r.Lon = formatCoord(center[0])
		r.Lat = formatCoord(center[1])
	}
	return r
}

func stringField(f map[string]any, key string) string {
	s, _ := f[key].(string)
	return s
}

func formatCoord(v any) string {
	n, ok := v.(float64)
	if !ok {
		return ""
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
