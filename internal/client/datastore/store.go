// Package datastore wires the durable medium, the session holder and the
// record repositories into one object owned by the application.
package datastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/datashare/internal/client/config"
	"github.com/dmitrijs2005/datashare/internal/client/repositories/files"
	"github.com/dmitrijs2005/datashare/internal/client/repositories/kv"
	"github.com/dmitrijs2005/datashare/internal/client/repositories/metrics"
	"github.com/dmitrijs2005/datashare/internal/client/session"
	"github.com/dmitrijs2005/datashare/internal/client/storage"
	"github.com/dmitrijs2005/datashare/internal/logging"
)

// Store is the data-access context object. One Store per process.
type Store struct {
	Adapter *storage.Adapter
	Session *session.Holder
	Metrics metrics.Repository
	Files   files.Repository

	// Backend is the raw medium, nil when running without one. Other
	// components (the local identity provider) keep their own keys in it.
	Backend kv.Backend

	db *sql.DB
}

// New builds a Store over backend. A nil backend means no durable medium.
func New(backend kv.Backend, log logging.Logger, opts ...Option) *Store {
	if log == nil {
		log = logging.Nop()
	}
	o := options{}
	for _, fn := range opts {
		fn(&o)
	}

	adapter := storage.NewAdapter(backend, log)
	return &Store{
		Adapter: adapter,
		Session: session.NewHolder(adapter),
		Metrics: metrics.NewRepository(adapter, log, o.metrics...),
		Files:   files.NewRepository(adapter, log, o.files...),
		Backend: backend,
	}
}

type options struct {
	metrics []metrics.Option
	files   []files.Option
}

type Option func(*options)

func WithMetricsOptions(opts ...metrics.Option) Option {
	return func(o *options) { o.metrics = append(o.metrics, opts...) }
}

func WithFilesOptions(opts ...files.Option) Option {
	return func(o *options) { o.files = append(o.files, opts...) }
}

// Open builds a Store from configuration.
func Open(ctx context.Context, cfg *config.Config, log logging.Logger) (*Store, error) {
	var (
		backend kv.Backend
		db      *sql.DB
	)

	switch cfg.Store {
	case config.StoreSQLite:
		var err error
		db, err = kv.InitDatabase(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open store: %w", err)
		}
		backend = kv.NewSQLiteRepository(db)
	case config.StoreMemory:
		backend = kv.NewMemoryRepository()
	case config.StoreNone:
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}

	if backend != nil && cfg.CacheSize > 0 {
		cached, err := kv.NewCached(backend, cfg.CacheSize)
		if err != nil {
			if db != nil {
				_ = db.Close()
			}
			return nil, fmt.Errorf("failed to create cache: %w", err)
		}
		backend = cached
	}

	s := New(backend, log)
	s.db = db
	return s, nil
}

// ClearAll empties every collection, signs out and removes the three core
// keys. Every step is attempted; the errors are joined.
func (s *Store) ClearAll(ctx context.Context) error {
	return errors.Join(
		s.Metrics.Clear(ctx),
		s.Files.Clear(ctx),
		s.Session.Clear(ctx),
	)
}

// Refresh drops in-memory copies so the next access re-reads the medium,
// picking up writes made by other processes.
func (s *Store) Refresh() {
	if c, ok := s.Backend.(*kv.Cached); ok {
		c.Purge()
	}
	s.Metrics.Invalidate()
	s.Files.Invalidate()
}

// Close releases the underlying database, if any.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
