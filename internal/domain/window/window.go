// Package window defines the closed set of analysis windows and the
// threshold policy derived from a window's length.
package window

import (
	"strings"
	"time"
)

// Window is a fixed analysis range over which statistics are computed.
type Window string

// The supported windows. All is represented internally by a zero duration.
const (
	Day     Window = "24h"
	Week    Window = "7d"
	Month   Window = "30d"
	Quarter Window = "90d"
	All     Window = "all"
)

// Default is used when a caller does not specify a window.
const Default = Week

// Parse maps a caller-supplied string onto the window enum.
// Returns ErrInvalidWindow for anything outside the supported set.
func Parse(s string) (Window, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return Default, nil
	case "24h", "1d", "day":
		return Day, nil
	case "7d", "week":
		return Week, nil
	case "30d", "month":
		return Month, nil
	case "90d", "quarter":
		return Quarter, nil
	case "all", "alltime", "all-time":
		return All, nil
	default:
		return "", ErrInvalidWindow
	}
}

// Duration returns the window length. All returns 0, meaning unbounded.
func (w Window) Duration() time.Duration {
	switch w {
	case Day:
		return 24 * time.Hour
	case Week:
		return 7 * 24 * time.Hour
	case Month:
		return 30 * 24 * time.Hour
	case Quarter:
		return 90 * 24 * time.Hour
	default:
		return 0
	}
}

// Since returns the snapshot lower bound for the window relative to now.
// The zero time is returned for All, which repositories treat as unbounded.
func (w Window) Since(now time.Time) time.Time {
	d := w.Duration()
	if d == 0 {
		return time.Time{}
	}
	return now.Add(-d)
}

// String implements fmt.Stringer.
func (w Window) String() string { return string(w) }
