package services

import (
	"time"

	"github.com/Ashvita9/ProjectDashboard/internal/payload"
)

// Accepted date formats, tried in order. Bare dates resolve to midnight UTC.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func ParseDate(field, value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, &InvalidDateError{Field: field, Value: value}
}

// resolveDate maps a tri-state date field to its stored value: absent,
// explicit null, and empty text all mean unset; anything else must parse.
func resolveDate(field string, f payload.String) (*time.Time, error) {
	value, ok := f.Get()
	if !ok || value == "" {
		return nil, nil
	}
	t, err := ParseDate(field, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
