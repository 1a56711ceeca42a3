package terminology

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"

	"clinicbook/internal/domain"
)

// Cache memoises successful, non-empty lookups per strategy and query
type Cache struct {
	lru *expirable.LRU[string, []domain.SearchResult]
}

// NewCache creates a cache holding at most size entries for ttl. A size of
// zero or less returns nil, and a nil cache disables caching.
func NewCache(size int, ttl time.Duration) *Cache {
	if size <= 0 {
		return nil
	}
	return &Cache{lru: expirable.NewLRU[string, []domain.SearchResult](size, nil, ttl)}
}

// Len reports the number of cached entries
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}

// Purge drops every entry
func (c *Cache) Purge() {
	if c == nil {
		return
	}
	c.lru.Purge()
}

// Wrap returns s decorated with the cache under the given strategy key.
// Strategies without a key are returned unwrapped.
func (c *Cache) Wrap(key string, s Searcher) Searcher {
	if c == nil || key == "" {
		return s
	}
	return SearchFunc(func(ctx context.Context, query string) ([]domain.SearchResult, error) {
		k := key + "|" + strings.ToLower(strings.TrimSpace(query))
		if hit, ok := c.lru.Get(k); ok {
			log.Debug().Str("key", k).Int("results", len(hit)).Msg("terminology: cache hit")
			return append([]domain.SearchResult(nil), hit...), nil
		}

		results, err := s.Search(ctx, query)
		if err != nil || len(results) == 0 {
			return results, err
		}
		c.lru.Add(k, append([]domain.SearchResult(nil), results...))
		return results, nil
	})
}
