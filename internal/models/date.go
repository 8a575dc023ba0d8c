package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

const (
	// DateLayout is the only date format accepted and produced on the wire.
	DateLayout = "2006-01-02"
	// NoDate is how an unset date is rendered, and is accepted back as "unset".
	NoDate = "None"
)

// FormatDate renders a nullable date column for JSON responses.
func FormatDate(d *datatypes.Date) string {
	if d == nil {
		return NoDate
	}
	return time.Time(*d).Format(DateLayout)
}

// IsEmptyDate reports whether a raw wire value means "no date".
func IsEmptyDate(raw string) bool {
	raw = strings.TrimSpace(raw)
	return raw == "" || raw == NoDate
}

// ParseDate parses a YYYY-MM-DD value. Empty strings and "None" yield nil.
func ParseDate(raw string) (*datatypes.Date, error) {
	if IsEmptyDate(raw) {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return nil, err
	}
	d := datatypes.Date(t)
	return &d, nil
}

// DateOf returns the midnight-UTC instant of a date column.
func DateOf(d datatypes.Date) time.Time {
	y, m, day := time.Time(d).Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}
