package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/datashare/internal/client/repositories/kv"
	"github.com/dmitrijs2005/datashare/internal/common"
	"github.com/dmitrijs2005/datashare/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	corruptReadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "datashare_store_corrupt_reads_total",
		Help: "Persisted values or elements discarded because they could not be read.",
	}, []string{"key"})
	writeErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "datashare_store_write_errors_total",
		Help: "Failed attempts to persist a value.",
	}, []string{"key"})
)

// Record is a persisted element. Validate reports whether a decoded value is
// usable.
type Record interface {
	Validate() error
}

type Adapter struct {
	backend kv.Backend
	log     logging.Logger
}

// NewAdapter wraps backend. A nil backend disables persistence.
func NewAdapter(backend kv.Backend, log logging.Logger) *Adapter {
	if log == nil {
		log = logging.Nop()
	}
	return &Adapter{backend: backend, log: log.With("component", "storage")}
}

// Available reports whether a durable medium is attached.
func (a *Adapter) Available() bool {
	return a != nil && a.backend != nil
}

// Remove deletes the given keys.
func (a *Adapter) Remove(ctx context.Context, keys ...string) error {
	if !a.Available() || len(keys) == 0 {
		return nil
	}
	if err := a.backend.Delete(ctx, keys...); err != nil {
		for _, k := range keys {
			writeErrorsTotal.WithLabelValues(k).Inc()
		}
		a.log.Error(ctx, "failed to remove keys", "keys", keys, "error", err)
		return fmt.Errorf("%w: remove %v: %v", common.ErrPersistenceWrite, keys, err)
	}
	return nil
}

func (a *Adapter) read(ctx context.Context, key string) (string, bool) {
	if !a.Available() {
		return "", false
	}
	raw, ok, err := a.backend.Get(ctx, key)
	if err != nil {
		a.readFailed(ctx, key, "failed to read persisted value", err)
		return "", false
	}
	return raw, ok
}

// readFailed records a swallowed read failure. The logged error wraps
// common.ErrPersistenceRead.
func (a *Adapter) readFailed(ctx context.Context, key, msg string, err error, args ...any) {
	corruptReadsTotal.WithLabelValues(key).Inc()
	err = fmt.Errorf("%w: %s: %v", common.ErrPersistenceRead, key, err)
	a.log.Warn(ctx, msg, append([]any{"key", key, "error", err}, args...)...)
}

func (a *Adapter) write(ctx context.Context, key string, v any) error {
	if !a.Available() {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		writeErrorsTotal.WithLabelValues(key).Inc()
		return fmt.Errorf("%w: encode %s: %v", common.ErrPersistenceWrite, key, err)
	}
	if err := a.backend.Set(ctx, key, string(b)); err != nil {
		writeErrorsTotal.WithLabelValues(key).Inc()
		a.log.Error(ctx, "failed to persist value", "key", key, "error", err)
		return fmt.Errorf("%w: %s: %v", common.ErrPersistenceWrite, key, err)
	}
	return nil
}

// Save replaces the collection stored under key with items.
func Save[T Record](ctx context.Context, a *Adapter, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	return a.write(ctx, key, items)
}

// Load returns the collection stored under key, or an empty slice when
// nothing usable is stored. Elements that fail to decode or validate are
// dropped.
func Load[T Record](ctx context.Context, a *Adapter, key string) []T {
	out := []T{}

	raw, ok := a.read(ctx, key)
	if !ok {
		return out
	}

	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		a.readFailed(ctx, key, "discarding unparseable collection", err)
		return out
	}

	for i, e := range elems {
		var item T
		if err := json.Unmarshal(e, &item); err != nil {
			a.readFailed(ctx, key, "dropping undecodable element", err, "index", i)
			continue
		}
		if err := item.Validate(); err != nil {
			a.readFailed(ctx, key, "dropping invalid element", err, "index", i)
			continue
		}
		out = append(out, item)
	}
	return out
}

// SaveOne stores a single object under key.
func SaveOne[T Record](ctx context.Context, a *Adapter, key string, item T) error {
	return a.write(ctx, key, item)
}

// LoadOne returns the object stored under key. ok is false when the key is
// absent or its value is unusable.
func LoadOne[T Record](ctx context.Context, a *Adapter, key string) (item T, ok bool) {
	raw, found := a.read(ctx, key)
	if !found {
		return item, false
	}
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		a.readFailed(ctx, key, "discarding unparseable value", err)
		var zero T
		return zero, false
	}
	if err := item.Validate(); err != nil {
		a.readFailed(ctx, key, "discarding invalid value", err)
		var zero T
		return zero, false
	}
	return item, true
}
