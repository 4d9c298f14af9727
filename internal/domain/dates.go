package domain

import (
	"net/mail"
	"strings"
	"time"
)

// DateLayout is the storage form of published_at.
const DateLayout = "2006-01-02"

var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	DateLayout,
}

// ParseWhen normalizes a feed or stored date string into a comparable
// instant. ISO-8601 forms are tried first, then the RFC 2822 header form
// common in RSS. Any timezone offset is discarded: the wall-clock reading
// is kept and the instant compared as naive. Same-date articles from
// different timezones therefore compare equal, an accepted approximation.
// ok is false when the string is empty or neither form parses.
func ParseWhen(value string) (when time.Time, ok bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return stripOffset(t), true
		}
	}

	if t, err := mail.ParseDate(value); err == nil {
		return stripOffset(t), true
	}

	return time.Time{}, false
}

// stripOffset rebuilds the wall-clock reading of t in UTC, dropping
// whatever offset the source carried.
func stripOffset(t time.Time) time.Time {
	year, month, day := t.Date()
	hour, minute, second := t.Clock()
	return time.Date(year, month, day, hour, minute, second, t.Nanosecond(), time.UTC)
}
