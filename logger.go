package seqmap

import (
	"context"
	"log/slog"
	"os"
	"time"

	"golang.org/x/time/rate"
)

// Logger wraps slog.Logger with seqmap-specific context. Routine status
// messages go through Throttled and are emitted at most once per second;
// Important bypasses the throttle.
type Logger struct {
	*slog.Logger
	limiter *rate.Limiter
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger:  slog.New(handler),
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// Enabled reports whether info messages produce output.
func (l *Logger) Enabled() bool {
	return l != nil && l.Logger.Enabled(context.Background(), slog.LevelInfo)
}

// Throttled logs msg at info level unless another throttled message was
// emitted within the last second.
func (l *Logger) Throttled(ctx context.Context, msg string, args ...any) {
	if !l.Enabled() || !l.limiter.Allow() {
		return
	}
	l.InfoContext(ctx, msg, args...)
}

// Important logs msg at info level regardless of the throttle.
func (l *Logger) Important(ctx context.Context, msg string, args ...any) {
	if !l.Enabled() {
		return
	}
	l.InfoContext(ctx, msg, args...)
}

// WithQuery adds a query name field. The throttle is shared with l.
func (l *Logger) WithQuery(name string) *Logger {
	return &Logger{
		Logger:  l.Logger.With("query", name),
		limiter: l.limiter,
	}
}

// LogBuild logs an index build.
func (l *Logger) LogBuild(ctx context.Context, sequences int, bases uint64, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "index build failed",
			"sequences", sequences,
			"bases", bases,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "index built",
			"sequences", sequences,
			"bases", bases,
			"duration", d,
		)
	}
}

// LogAlign logs the outcome of one query.
func (l *Logger) LogAlign(ctx context.Context, query string, alignments int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "align failed",
			"query", query,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "align completed",
			"query", query,
			"alignments", alignments,
		)
	}
}

// LogBatch logs a completed query batch.
func (l *Logger) LogBatch(ctx context.Context, queries, failed int, hits, skips int64) {
	if failed > 0 {
		l.WarnContext(ctx, "batch completed with failures",
			"total", queries,
			"failed", failed,
		)
		return
	}
	l.Throttled(ctx, "batch completed",
		"queries", queries,
		"cache_hits", hits,
		"skips", skips,
	)
}

// LogSnapshot logs a snapshot save or load. op is "save" or "load".
func (l *Logger) LogSnapshot(ctx context.Context, op, name string, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"op", op,
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot "+op,
			"name", name,
			"duration_ms", d.Milliseconds(),
		)
	}
}
