package logger

import (
	"log/slog"
	"os"
)

// Logger starts as slog's default logger so the helpers below are usable
// before Initialize runs (e.g. in tests); Initialize replaces it.
var Logger = slog.Default()

// Initialize sets up the global logger with appropriate configuration
func Initialize(debug bool) {
	var level slog.Level
	if debug {
		level = slog.LevelDebug
	} else {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Simplify time format for better readability
			if a.Key == slog.TimeKey {
				return slog.String("time", a.Value.Time().Format("2006-01-02 15:04:05"))
			}
			return a
		},
	}

	handler := slog.NewTextHandler(os.Stdout, opts)
	Logger = slog.New(handler)
	slog.SetDefault(Logger)
}

// Feed-domain logging helpers for the pipeline's recurring log shapes:
// a feed's fetch/parse/timeout failures, its successful per-cycle yield,
// a feed being skipped this cycle, and the aggregate resolver's lookup
// misses. Every warn/error site in feedsrc, updater, and aggregate routes
// through one of these instead of calling slog directly.

// FeedError logs a feed-scoped operation failure: network, parse, or
// account-lookup. The cycle continues; the feed contributes zero entries.
func FeedError(feed, operation string, err error) {
	Logger.Warn("feed operation failed", "feed", feed, "operation", operation, "error", err)
}

// FeedTimeout logs a single feed's update exceeding its per-poll budget.
func FeedTimeout(feed string, timeout string) {
	Logger.Warn("feed update timed out", "feed", feed, "timeout", timeout)
}

// FeedSkipped logs a feed that wasn't polled this cycle (not yet due, or a
// 304/unavailable response carrying nothing new).
func FeedSkipped(feed, reason string) {
	Logger.Debug("feed skipped", "feed", feed, "reason", reason)
}

// FeedProcessed logs a feed's successful poll: how many entries it emitted.
func FeedProcessed(feed string, emitted int) {
	Logger.Debug("feed processed", "feed", feed, "emitted", emitted)
}

// AggregateLookupMiss logs the aggregate resolver failing to resolve a
// registered feed id or a child feed name, per spec §4.5's "missing child
// names log a warning and contribute false."
func AggregateLookupMiss(key string, value any) {
	Logger.Warn("aggregate world lacks feed", key, value)
}

// StoreError logs a store operation (insert, tag/content update) failing;
// per spec §7 the specific write is dropped but the cycle continues.
func StoreError(operation string, err error) {
	Logger.Error("store operation failed", "operation", operation, "error", err)
}
