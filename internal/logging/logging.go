// Package logging wraps log/slog with the handler setup and the event helpers
// used across bible2ppt.
//
// Logs go to stderr so command output on stdout stays clean.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

type contextKey string

// RunIDKey carries a seed run id through a context.
const RunIDKey contextKey = "run_id"

var defaultLogger *slog.Logger

func init() {
	Init(os.Stderr, slog.LevelInfo, FormatText)
}

// Format selects the slog handler.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// ParseLevel maps "debug", "info", "warn" or "error" to a slog level. An empty
// string means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// ParseFormat maps "json" or "text" to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	}
	return FormatText, fmt.Errorf("unknown log format %q", s)
}

// Init replaces the global logger with one writing to w. Timestamps are
// RFC 3339 at second precision.
func Init(w io.Writer, level slog.Level, format Format) {
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}

	var handler slog.Handler = slog.NewTextHandler(w, opts)
	if format == FormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	}
	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

// WithRunID tags ctx with a seed run id.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// GetRunID returns the run id stored by WithRunID, or "".
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(RunIDKey).(string); ok {
		return runID
	}
	return ""
}

// LoggerFromContext returns the global logger with the run id of ctx attached.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if runID := GetRunID(ctx); runID != "" {
		return defaultLogger.With("run_id", runID)
	}
	return defaultLogger
}

func Debug(msg string, args ...any) {
	defaultLogger.Debug(msg, args...)
}

func Info(msg string, args ...any) {
	defaultLogger.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	defaultLogger.Warn(msg, args...)
}

func DebugContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).Debug(msg, args...)
}

func InfoContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).Info(msg, args...)
}

// IngestComplete logs a finished scripture ingestion.
func IngestComplete(source, bibleID string, books, verses int, duration time.Duration, args ...any) {
	defaultLogger.Info("ingest_complete", append([]any{
		"source", source,
		"bible_id", bibleID,
		"books", books,
		"verses", verses,
		"duration_ms", duration.Milliseconds(),
	}, args...)...)
}

// SeedComplete logs the outcome of a store seed. skipped is true when the
// stored copy already matched the source.
func SeedComplete(ctx context.Context, bibleID string, skipped bool, verses int, duration time.Duration, args ...any) {
	LoggerFromContext(ctx).Info("seed_complete", append([]any{
		"bible_id", bibleID,
		"skipped", skipped,
		"verses", verses,
		"duration_ms", duration.Milliseconds(),
	}, args...)...)
}

// PassageResolved logs a resolved passage query at debug level.
func PassageResolved(ctx context.Context, query string, ranges, verses int, args ...any) {
	LoggerFromContext(ctx).Debug("passage_resolved", append([]any{
		"query", query,
		"ranges", ranges,
		"verses", verses,
	}, args...)...)
}
