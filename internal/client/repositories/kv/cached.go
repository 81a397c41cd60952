package kv

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "datashare_kv_cache_hits_total",
		Help: "Reads served from the in-memory kv cache.",
	})
	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "datashare_kv_cache_misses_total",
		Help: "Reads that fell through to the durable kv backend.",
	})
)

// Cached is a write-through LRU cache in front of a Backend. Writes go to
// the backend first and only reach the cache when they succeed, so the cache
// never holds a value the backend rejected.
type Cached struct {
	next  Backend
	cache *lru.Cache[string, string]
}

// NewCached wraps next with a cache holding at most size values.
func NewCached(next Backend, size int) (*Cached, error) {
	c, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &Cached{next: next, cache: c}, nil
}

func (c *Cached) Get(ctx context.Context, key string) (string, bool, error) {
	if v, ok := c.cache.Get(key); ok {
		cacheHitsTotal.Inc()
		return v, true, nil
	}
	cacheMissesTotal.Inc()

	v, ok, err := c.next.Get(ctx, key)
	if err != nil || !ok {
		return v, ok, err
	}
	c.cache.Add(key, v)
	return v, true, nil
}

func (c *Cached) Set(ctx context.Context, key string, value string) error {
	if err := c.next.Set(ctx, key, value); err != nil {
		c.cache.Remove(key)
		return err
	}
	c.cache.Add(key, value)
	return nil
}

func (c *Cached) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		c.cache.Remove(k)
	}
	return c.next.Delete(ctx, keys...)
}

// Purge drops every cached value, e.g. before re-reading data another
// process may have written.
func (c *Cached) Purge() {
	c.cache.Purge()
}
