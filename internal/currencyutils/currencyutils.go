// Package currencyutils parses money amounts written the way people type
// them into drafts: with currency markers and thousands separators.
package currencyutils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var currencyMarkers = regexp.MustCompile(`[€$£¥\s]|CHF|EUR|USD|GBP|AUD|NZD`)

// ParseAmount accepts "1234.56", "1,234.56", "1.234,56", "1'234.56",
// "$1,234.56" or "CHF 12,50". An empty string is an error.
func ParseAmount(s string) (decimal.Decimal, error) {
	normalized := Normalize(s)
	if normalized == "" {
		return decimal.Zero, fmt.Errorf("empty amount %q", s)
	}
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount %q: %w", s, err)
	}
	return d, nil
}

// Normalize strips currency markers and thousands separators and leaves a
// dot as the decimal separator.
func Normalize(s string) string {
	s = currencyMarkers.ReplaceAllString(strings.ToUpper(s), "")
	s = strings.ReplaceAll(s, "'", "")

	hasComma, hasDot := strings.Contains(s, ","), strings.Contains(s, ".")
	switch {
	case hasComma && hasDot:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasComma:
		// One or two digits after the last comma means a decimal comma.
		last := s[strings.LastIndex(s, ",")+1:]
		if strings.Count(s, ",") == 1 && len(last) <= 2 {
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}
	return s
}
