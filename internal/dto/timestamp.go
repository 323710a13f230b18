package dto

import (
	"errors"
	"strings"
	"time"
)

// ErrInvalidTimestamp is returned for input no accepted layout matches.
var ErrInvalidTimestamp = errors.New("must be a timestamp like 2024-01-01T10:00 or RFC 3339")

// Timestamp layouts accepted from clients. Layouts without a zone are read
// as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp parses a client supplied timestamp and returns it in UTC.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrInvalidTimestamp
}
