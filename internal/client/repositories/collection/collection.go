// Package collection implements a lazily hydrated, persisted list of records
// shared by the metrics and files repositories.
package collection

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/datashare/internal/client/storage"
	"github.com/dmitrijs2005/datashare/internal/logging"
)

// Item is a persisted, timestamped record.
type Item interface {
	storage.Record
	Timestamp() time.Time
}

// Collection keeps one store key's records in memory. The first read or
// write loads whatever is stored; every write replaces the stored value with
// the full in-memory list.
type Collection[T Item] struct {
	mu    sync.Mutex
	store *storage.Adapter
	key   string
	log   logging.Logger

	items    []T
	hydrated bool
}

func New[T Item](store *storage.Adapter, key string, log logging.Logger) *Collection[T] {
	if log == nil {
		log = logging.Nop()
	}
	return &Collection[T]{store: store, key: key, log: log.With("collection", key)}
}

// hydrate must be called with mu held.
func (c *Collection[T]) hydrate(ctx context.Context) {
	if c.hydrated {
		return
	}
	c.items = storage.Load[T](ctx, c.store, c.key)
	c.hydrated = true
	c.log.Debug(ctx, "collection hydrated", "records", len(c.items))
}

// Append adds item and persists the collection. On a persistence error the
// item stays in memory and the error is returned.
func (c *Collection[T]) Append(ctx context.Context, item T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.hydrate(ctx)
	c.items = append(c.items, item)
	return storage.Save(ctx, c.store, c.key, c.items)
}

// Select returns the records accepted by keep, newest first. Records with
// equal timestamps come back in reverse insertion order. A nil keep selects
// everything.
func (c *Collection[T]) Select(ctx context.Context, keep func(T) bool) []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.hydrate(ctx)

	out := make([]T, 0, len(c.items))
	for i := len(c.items) - 1; i >= 0; i-- {
		if keep == nil || keep(c.items[i]) {
			out = append(out, c.items[i])
		}
	}
	slices.SortStableFunc(out, func(a, b T) int {
		return b.Timestamp().Compare(a.Timestamp())
	})
	return out
}

// Len reports the number of records, hydrating if needed.
func (c *Collection[T]) Len(ctx context.Context) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.hydrate(ctx)
	return len(c.items)
}

// Clear drops every record and removes the stored key. The collection stays
// hydrated: it is known to be empty.
func (c *Collection[T]) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
	c.hydrated = true
	return c.store.Remove(ctx, c.key)
}

// Invalidate forgets the in-memory copy so the next access re-reads the
// store.
func (c *Collection[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
	c.hydrated = false
}
