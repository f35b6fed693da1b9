// Package chrono provides best-effort timestamp parsing and the small set
// of duration/HTTP-date helpers the feed pipeline needs. It intentionally
// wraps the standard library rather than a third-party date library: every
// format it accepts (RFC 3339, RFC 2822, a handful of ISO 8601 variants) is
// already exposed by time and net/mail, and net/http already owns HTTP-date
// formatting/parsing.
package chrono

import (
	"errors"
	"net/http"
	"net/mail"
	"time"
)

// ErrBadTimestamp is returned when none of the known formats parse a value.
var ErrBadTimestamp = errors.New("chrono: value matches no known timestamp format")

// fallbackLayouts are tried, in order, after RFC 3339 and RFC 2822 fail.
var fallbackLayouts = []string{
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04Z",
	"2006-01-02",
}

// Parse attempts RFC 3339, then RFC 2822, then the ISO 8601 variants above,
// returning ErrBadTimestamp if nothing matches. All results are normalized
// to UTC.
func Parse(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := mail.ParseDate(value); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrBadTimestamp
}

// Now returns the current time, normalized to UTC.
func Now() time.Time {
	return time.Now().UTC()
}

// Epoch returns the Unix epoch, for use as a zero-value sentinel.
func Epoch() time.Time {
	return time.Unix(0, 0).UTC()
}

// HasPassed reports whether t+d is before now.
func HasPassed(t time.Time, d time.Duration) bool {
	return t.Add(d).Before(Now())
}

// ToIfModifiedSince formats t per the HTTP-date grammar used by the
// If-Modified-Since request header ("Wkd, DD Mon YYYY HH:MM:SS GMT").
func ToIfModifiedSince(t time.Time) string {
	return t.UTC().Format(http.TimeFormat)
}

// FromIfModifiedSince parses an HTTP-date, accepting the same fallback
// formats net/http accepts for header values (RFC 1123, ANSI C asctime).
func FromIfModifiedSince(value string) (time.Time, error) {
	t, err := http.ParseTime(value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
