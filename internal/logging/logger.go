// Package logging defines the structured-logging interface used across
// notekeeper and its slog and zap backends.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key-value pairs, e.g.:
//
//	log.Info(ctx, "note created", "note_id", id, "user_id", userID)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key-value pairs.
	With(args ...any) Logger
}

// Options selects and tunes a backend.
type Options struct {
	Backend string // "slog" (default) or "zap"
	Format  string // "json" (default) or "text"
	Level   string // "debug", "info" (default), "warn", "error"
}

// New builds a Logger for opts.
func New(opts Options) (Logger, error) {
	switch opts.Backend {
	case "", "slog":
		return NewSlogFromOptions(opts), nil
	case "zap":
		return NewZapFromOptions(opts)
	default:
		return nil, &UnknownBackendError{Backend: opts.Backend}
	}
}

// UnknownBackendError is returned by New for an unsupported backend name.
type UnknownBackendError struct {
	Backend string
}

func (e *UnknownBackendError) Error() string {
	return "unknown log backend: " + e.Backend
}

// Nop discards everything. Tests use it where output does not matter.
type Nop struct{}

func (Nop) Debug(context.Context, string, ...any) {}
func (Nop) Info(context.Context, string, ...any)  {}
func (Nop) Warn(context.Context, string, ...any)  {}
func (Nop) Error(context.Context, string, ...any) {}
func (n Nop) With(...any) Logger                  { return n }
