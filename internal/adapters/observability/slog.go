// Package observability adapts the operation boundary events to structured
// logs and prometheus metrics.
package observability

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/example/patta/internal/apperr"
	"github.com/example/patta/internal/ports/secondary"
)

// NewLogger builds the process logger. format is "json" or "text"; level is
// one of debug, info, warn, error (default info).
func NewLogger(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel maps a config string to a slog level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SlogObserver writes one record per boundary event.
type SlogObserver struct {
	logger *slog.Logger
}

// NewSlogObserver creates an observer on logger.
func NewSlogObserver(logger *slog.Logger) *SlogObserver {
	return &SlogObserver{logger: logger}
}

// OperationCompleted logs successes at debug and failures at warn, or error
// for Internal failures.
func (o *SlogObserver) OperationCompleted(ctx context.Context, op, key string, elapsed time.Duration, err error) {
	attrs := []slog.Attr{
		slog.String("op", op),
		slog.Float64("duration_ms", float64(elapsed.Microseconds())/1000),
	}
	if key != "" {
		attrs = append(attrs, slog.String("key", key))
	}
	if err == nil {
		o.logger.LogAttrs(ctx, slog.LevelDebug, "operation completed", attrs...)
		return
	}

	kind := apperr.KindOf(err)
	attrs = append(attrs, slog.String("error_kind", kind), slog.String("error", err.Error()))
	level := slog.LevelWarn
	if kind == apperr.KindInternal {
		level = slog.LevelError
	}
	o.logger.LogAttrs(ctx, level, "operation failed", attrs...)
}

// RecordSkipped logs an undecodable stored value.
func (o *SlogObserver) RecordSkipped(ctx context.Context, key string, err error) {
	o.logger.WarnContext(ctx, "skipping undecodable record", "key", key, "error", err)
}

var _ secondary.Observer = (*SlogObserver)(nil)
