package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/vivu-app/journey-planner/internal/domain"
	"github.com/vivu-app/journey-planner/internal/metrics"
)

// Geocoder resolves place names to candidates.
type Geocoder interface {
	Search(ctx context.Context, query string) ([]domain.SearchResult, error)
	Language() string
}

// SearchCache stores results per language and query.
type SearchCache interface {
	Get(ctx context.Context, language, query string) ([]domain.SearchResult, bool, error)
	Set(ctx context.Context, language, query string, results []domain.SearchResult) error
}

// SearchService answers place searches through a geocoder, with an optional
// cache in front of it. Identical concurrent misses share one upstream call.
type SearchService struct {
	geocoder Geocoder
	cache    SearchCache
	group    singleflight.Group
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewSearchService constructs a SearchService. cache may be nil.
func NewSearchService(g Geocoder, cache SearchCache, m *metrics.Metrics, logger *slog.Logger) *SearchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchService{geocoder: g, cache: cache, metrics: m, logger: logger}
}

// Search returns candidates for query. A blank query yields an empty slice
// without touching the cache or the geocoder.
func (s *SearchService) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	query = strings.Join(strings.Fields(query), " ")
	if query == "" {
		return []domain.SearchResult{}, nil
	}
	if s.geocoder == nil {
		return nil, fmt.Errorf("service.SearchService.Search: geocoder: %w", domain.ErrNotConfigured)
	}

	lang := s.geocoder.Language()
	if results, ok := s.fromCache(ctx, lang, query); ok {
		return results, nil
	}

	// The shared call must not die with whichever caller started it.
	flightCtx := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do(lang+"\x00"+strings.ToLower(query), func() (any, error) {
		results, err := s.geocoder.Search(flightCtx, query)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.Set(flightCtx, lang, query, results); err != nil {
				s.logger.WarnContext(ctx, "search cache write failed", "error", err)
			}
		}
		return results, nil
	})
	if err != nil {
		return nil, fmt.Errorf("service.SearchService.Search: %w", err)
	}
	return v.([]domain.SearchResult), nil
}

func (s *SearchService) fromCache(ctx context.Context, lang, query string) ([]domain.SearchResult, bool) {
	if s.cache == nil {
		return nil, false
	}
	results, ok, err := s.cache.Get(ctx, lang, query)
	switch {
	case err != nil:
		s.metrics.ObserveCache("error")
		s.logger.WarnContext(ctx, "search cache read failed", "error", err)
		return nil, false
	case !ok:
		s.metrics.ObserveCache("miss")
		return nil, false
	default:
		s.metrics.ObserveCache("hit")
		return results, true
	}
}
