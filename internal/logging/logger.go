// Package logging defines a minimal structured-logging interface used across
// DataShare. The default implementation wraps log/slog.
package logging

import "context"

// Logger is the logging surface every component depends on. Arguments after
// msg alternate between keys and values:
//
//	log.Info(ctx, "collection hydrated", "key", key, "records", n)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a logger that adds args to every record.
	With(args ...any) Logger
}
