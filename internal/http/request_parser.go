// Utilities for parsing and validating request data: filter extraction from
// query strings, JSON body decoding with size limits, and numeric parameter
// parsing with defaults.

package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"defter/internal/core"
)

// maxBodySize caps JSON request bodies at 1 MiB.
const maxBodySize = 1 << 20

// parseFilter extracts ledger filter dimensions from query parameters.
// Absent parameters leave their dimension unconstrained; an absent or
// unknown type behaves like "all".
func parseFilter(query url.Values) core.Filter {
	f := core.Filter{
		Type:      strings.TrimSpace(query.Get("type")),
		Search:    strings.TrimSpace(query.Get("q")),
		StartDate: strings.TrimSpace(query.Get("start")),
		EndDate:   strings.TrimSpace(query.Get("end")),
		Customer:  strings.TrimSpace(query.Get("customer")),
		Category:  strings.TrimSpace(query.Get("category")),
	}
	if f.Type == "" {
		f.Type = core.TypeAll
	}
	return f
}

// filterKey builds a stable cache key from the filter dimensions.
func filterKey(f core.Filter) string {
	return strings.Join([]string{f.Type, f.Search, f.StartDate, f.EndDate, f.Customer, f.Category}, "|")
}

// parsePositiveInt parses v as a positive integer, falling back to def when
// absent, malformed, or non-positive.
func parsePositiveInt(v string, def int) int {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// decodeJSON decodes the request body into dst. On failure it writes the
// error response itself and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodySize)
	defer func() { _, _ = io.Copy(io.Discard, body) }()

	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}
