package core

import "strings"

// TypeAll matches every entry type in a filter.
const TypeAll = "all"

// Filter is a compositional predicate set over ledger entries. Every
// dimension is optional; empty values pass. Present dimensions are
// AND-combined.
type Filter struct {
	// Type restricts to one entry type; "" and "all" match everything.
	Type string
	// Search is a case-insensitive substring matched against description,
	// reference and customer; any one match is sufficient.
	Search string
	// StartDate and EndDate are inclusive bounds compared against the entry
	// date parsed as a date value. Either may be absent.
	StartDate string
	EndDate   string
	// Customer and Category are independent case-insensitive substring
	// filters over their respective fields.
	Customer string
	Category string
}

// IsZero reports whether no dimension is set, in which case Apply returns
// its input unchanged.
func (f Filter) IsZero() bool {
	return (f.Type == "" || f.Type == TypeAll) && f.Search == "" &&
		f.StartDate == "" && f.EndDate == "" && f.Customer == "" && f.Category == ""
}

// Apply returns the entries matching the filter, preserving order. The input
// slice is never mutated.
func (f Filter) Apply(entries []LedgerEntry) []LedgerEntry {
	if f.IsZero() {
		return entries
	}
	out := make([]LedgerEntry, 0, len(entries))
	for _, e := range entries {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}

// Matches evaluates every present predicate against a single entry.
func (f Filter) Matches(e LedgerEntry) bool {
	if f.Type != "" && f.Type != TypeAll && string(e.Type) != f.Type {
		return false
	}
	if f.Search != "" && !matchesAny(f.Search, e.Description, e.Reference, e.Customer) {
		return false
	}
	if f.StartDate != "" || f.EndDate != "" {
		date := coerceDate(e.Date)
		if date.IsZero() {
			return false
		}
		if f.StartDate != "" && date.Before(coerceDate(f.StartDate)) {
			return false
		}
		if f.EndDate != "" && date.After(coerceDate(f.EndDate)) {
			return false
		}
	}
	if f.Customer != "" && !containsFold(e.Customer, f.Customer) {
		return false
	}
	if f.Category != "" && !containsFold(e.Category, f.Category) {
		return false
	}
	return true
}

func matchesAny(needle string, fields ...string) bool {
	for _, field := range fields {
		if field != "" && containsFold(field, needle) {
			return true
		}
	}
	return false
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
