package dto

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidDueDate = errors.New("due_date must be an ISO-8601 date or date-time")

// dueDateLayouts are tried in order. Layouts without an offset are read as UTC.
var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDueDate parses an ISO-8601 date or date-time. A blank value yields
// nil, meaning "no due date".
func ParseDueDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, ErrInvalidDueDate
}
