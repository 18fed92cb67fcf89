// Package core implements the ledger recognition engine: numeric
// normalization, entry adaptation, recognition gating, running-balance
// accumulation, filtering and aggregation. Every function in this package is
// a pure, total, in-memory transformation; the engine never performs I/O and
// never fails outright.
package core

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// ToNumber parses a heterogeneous amount value into a float64. It is total:
// any input that cannot be read as a finite number normalizes to 0.
//
// Strings tolerate locale formatting. A string carrying both '.' and ',' is
// read as European grouped format ("1.234,56" -> 1234.56): dots are thousands
// separators, the comma is the decimal mark. A string with only a comma uses
// it as the decimal mark ("123,45" -> 123.45). Anything else is parsed as a
// plain decimal after stripping whitespace.
func ToNumber(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return finiteOrZero(n)
	case float32:
		return finiteOrZero(float64(n))
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		return parseNumericString(n.String())
	case string:
		return parseNumericString(n)
	default:
		return 0
	}
}

func parseNumericString(s string) float64 {
	s = stripSpace(s)
	if s == "" {
		return 0
	}
	hasDot := strings.Contains(s, ".")
	hasComma := strings.Contains(s, ",")
	switch {
	case hasDot && hasComma:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case hasComma:
		s = strings.ReplaceAll(s, ",", ".")
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return finiteOrZero(n)
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func finiteOrZero(n float64) float64 {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

// dateLayouts covers the date shapes the fetching layer is known to emit.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// coerceDate parses a source-supplied date string. The zero time is returned
// for anything unparseable, which sorts after every real date in the
// newest-first ledger order.
func coerceDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
