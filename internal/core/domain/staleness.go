package domain

import (
	"math"
	"time"
)

// Timestamp layouts observed from the upstream. Most records carry a
// trailing Z; a few boards emit local-looking timestamps without a zone,
// which are treated as UTC.
var lastUpdatedLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// ParseLastUpdated parses an upstream lastUpdated value. The boolean is
// false when the value is missing or not a recognizable timestamp.
func ParseLastUpdated(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range lastUpdatedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// HoursStale returns the elapsed hours between lastUpdated and now, rounded
// half-up to one decimal place and floored at zero. It returns nil when the
// timestamp is missing or unparsable; a bad timestamp never fails the
// record, let alone the batch.
func HoursStale(lastUpdated string, now time.Time) *float64 {
	t, ok := ParseLastUpdated(lastUpdated)
	if !ok {
		return nil
	}
	hours := now.Sub(t).Seconds() / 3600
	if hours < 0 {
		hours = 0
	}
	rounded := math.Round(hours*10) / 10
	return &rounded
}
