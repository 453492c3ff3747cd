// Package cache stores geocoding results in Redis so repeated searches for
// the same place skip the upstream call.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/vivu-app/journey-planner/internal/domain"
)

const keyPrefix = "search:v1:"

// SearchCache is a Redis-backed cache of search results.
type SearchCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSearchCache returns a cache whose entries expire after ttl.
func NewSearchCache(rdb *redis.Client, ttl time.Duration) *SearchCache {
	return &SearchCache{rdb: rdb, ttl: ttl}
}

// Normalize folds a query to the form used as its cache key: lower case,
// inner whitespace collapsed, outer whitespace removed.
func Normalize(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}

func key(language, query string) string {
	return keyPrefix + language + ":" + Normalize(query)
}

// Get returns the cached results for query. The boolean is false on a miss.
func (c *SearchCache) Get(ctx context.Context, language, query string) ([]domain.SearchResult, bool, error) {
	raw, err := c.rdb.Get(ctx, key(language, query)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache.SearchCache.Get: %w", err)
	}

	var results []domain.SearchResult
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, false, fmt.Errorf("cache.SearchCache.Get: decode: %w", err)
	}
	if results == nil {
		results = []domain.SearchResult{}
	}
	return results, true, nil
}

// Set stores results for query.
func (c *SearchCache) Set(ctx context.Context, language, query string, results []domain.SearchResult) error {
	if results == nil {
		results = []domain.SearchResult{}
	}
	raw, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("cache.SearchCache.Set: encode: %w", err)
	}
	if err := c.rdb.Set(ctx, key(language, query), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache.SearchCache.Set: %w", err)
	}
	return nil
}
