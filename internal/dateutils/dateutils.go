// Package dateutils holds the compact date layouts used on the MoneyWorks wire.
package dateutils

import (
	"fmt"
	"strings"
	"time"
)

// Wire layouts. The export format and the import format both use them.
const (
	LayoutDate      = "20060102"
	LayoutTimestamp = "20060102150405"
	LayoutISO       = "2006-01-02"
)

// FormatDate renders t as YYYYMMDD. The time of day is ignored.
func FormatDate(t time.Time) string {
	return t.Format(LayoutDate)
}

// FormatTimestamp renders t as YYYYMMDDHHMMSS.
func FormatTimestamp(t time.Time) string {
	return t.Format(LayoutTimestamp)
}

// ParseDate parses a YYYYMMDD value into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(LayoutDate, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected YYYYMMDD: %w", err)
	}
	return t, nil
}

// ParseTimestamp parses a YYYYMMDDHHMMSS value in UTC.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.ParseInLocation(LayoutTimestamp, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected YYYYMMDDHHMMSS: %w", err)
	}
	return t, nil
}

// ParseUserDate accepts the date forms people type on the command line
// (2006-06-14 or 20060614) and returns UTC midnight.
func ParseUserDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{LayoutISO, LayoutDate} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", s)
}

// IsDateField reports whether a field name carries a calendar date in exports.
func IsDateField(name string) bool {
	return strings.HasSuffix(name, "date")
}

// IsTimeField reports whether a field name carries a timestamp in exports.
func IsTimeField(name string) bool {
	return strings.HasSuffix(name, "time")
}
