// Package logging defines the minimal structured-logging contract used
// across the project. The sync engine and repositories depend on this
// interface rather than on a concrete logging library.
package logging

import "context"

// Logger is a context-aware, structured logger. The variadic args are
// key–value pairs, e.g.:
//
//	log.Info(ctx, "sync pass finished", "uploads", n, "errors", len(errs))
type Logger interface {
	// Debug logs fine-grained diagnostic details (per-entity decisions).
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs unusual but non-fatal conditions (skipped backups,
	// rollback attempts).
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given
	// key–value pairs.
	With(args ...any) Logger
}
