// Package tracker holds the client-side view state: the normalized day
// store, the calendar month grid, macro totals, and the actions that
// keep the store consistent with server responses after mutations.
package tracker

import (
	"fmt"
	"time"
)

// dateKeyLayout is the canonical YYYY-MM-DD form used to index days,
// independent of time-of-day or time-zone artifacts in server payloads.
const dateKeyLayout = "2006-01-02"

// DateKey formats t as a canonical date key in t's own location.
func DateKey(t time.Time) string {
	return t.Format(dateKeyLayout)
}

// ParseDateKey parses a canonical date key as local midnight.
func ParseDateKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation(dateKeyLayout, key, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date key %q: %w", key, err)
	}
	return t, nil
}

// serverDateLayouts are the date shapes the backend has been seen to
// produce. Plain dates are taken at face value; timestamped forms are
// shifted into the viewer's local zone first.
var serverDateLayouts = []string{
	dateKeyLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// ServerDateKey normalizes a backend date-like string to a canonical
// key in the viewer's local calendar.
func ServerDateKey(raw string) (string, error) {
	for _, layout := range serverDateLayouts {
		t, err := time.ParseInLocation(layout, raw, time.Local)
		if err != nil {
			continue
		}
		return DateKey(t.In(time.Local)), nil
	}
	return "", fmt.Errorf("unparseable server date %q", raw)
}
