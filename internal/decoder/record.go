package decoder

import (
	"sort"
	"time"
)

// Record is one decoded export row. Values are time.Time, int64, float64,
// string or []Record.
type Record map[string]any

// String returns the field as text. Numbers and dates are not converted.
func (r Record) String(key string) (string, bool) {
	s, ok := r[key].(string)
	return s, ok
}

// Int returns an integer field.
func (r Record) Int(key string) (int64, bool) {
	i, ok := r[key].(int64)
	return i, ok
}

// Float returns a numeric field as float64, widening integers.
func (r Record) Float(key string) (float64, bool) {
	switch v := r[key].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// Time returns a date or timestamp field.
func (r Record) Time(key string) (time.Time, bool) {
	t, ok := r[key].(time.Time)
	return t, ok
}

// Sub returns a nested collection, e.g. Sub("Details").
func (r Record) Sub(key string) ([]Record, bool) {
	rows, ok := r[key].([]Record)
	return rows, ok
}

// Keys returns the field names in sorted order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
