package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"log/slog"

	"defter/internal/books"
	"defter/internal/core"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).String(),
	})
}

// handleReady performs readiness check with dependency verification
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if view, err := s.service.Ledger(ctx, core.Filter{}); err != nil {
		checks["store"] = "failed: " + err.Error()
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["store"] = "ok"
		checks["ledger_entries"] = len(view.Entries)
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": status,
		"checks": checks,
	})
}

// handleLedger serves the assembled ledger: entries in newest-first order
// with running balances, plus recognized and gross summaries. Filtering is
// driven entirely by query parameters.
func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	filter := parseFilter(r.URL.Query())

	key := "ledger:" + filterKey(filter)
	if view, found := s.ledgerCache.Get(key); found {
		slog.DebugContext(r.Context(), "Ledger cache hit", "key", key)
		writeJSON(w, http.StatusOK, view)
		return
	}

	view, err := s.service.Ledger(r.Context(), filter)
	if err != nil {
		slog.ErrorContext(r.Context(), "Ledger assembly error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to assemble ledger")
		return
	}

	s.ledgerCache.Set(key, view)
	writeJSON(w, http.StatusOK, view)
}

// handleSummary serves only the two summaries for the filtered view.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	filter := parseFilter(r.URL.Query())

	key := "summary:" + filterKey(filter)
	if view, found := s.ledgerCache.Get(key); found {
		writeJSON(w, http.StatusOK, map[string]any{
			"recognized": view.Recognized,
			"gross":      view.Gross,
		})
		return
	}

	view, err := s.service.Ledger(r.Context(), filter)
	if err != nil {
		slog.ErrorContext(r.Context(), "Summary error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to summarize ledger")
		return
	}

	s.ledgerCache.Set(key, view)
	writeJSON(w, http.StatusOK, map[string]any{
		"recognized": view.Recognized,
		"gross":      view.Gross,
	})
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	months := parsePositiveInt(r.URL.Query().Get("months"), 12)

	key := "monthly:" + strconv.Itoa(months)
	if cached, found := s.reportCache.Get(key); found {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	series, err := s.service.MonthlyReport(r.Context(), months)
	if err != nil {
		slog.ErrorContext(r.Context(), "Monthly report error", "error", err, "months", months)
		writeError(w, http.StatusInternalServerError, "failed to build monthly report")
		return
	}

	s.reportCache.Set(key, series)
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) handleCategoryReport(w http.ResponseWriter, r *http.Request) {
	key := "categories"
	if cached, found := s.reportCache.Get(key); found {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	totals, err := s.service.CategoryReport(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Category report error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build category report")
		return
	}

	s.reportCache.Set(key, totals)
	writeJSON(w, http.StatusOK, totals)
}

func (s *Server) handleCustomerReport(w http.ResponseWriter, r *http.Request) {
	limit := parsePositiveInt(r.URL.Query().Get("limit"), 10)

	key := "customers:" + strconv.Itoa(limit)
	if cached, found := s.reportCache.Get(key); found {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	totals, err := s.service.CustomerReport(r.Context(), limit)
	if err != nil {
		slog.ErrorContext(r.Context(), "Customer report error", "error", err, "limit", limit)
		writeError(w, http.StatusInternalServerError, "failed to build customer report")
		return
	}

	s.reportCache.Set(key, totals)
	writeJSON(w, http.StatusOK, totals)
}

func (s *Server) handleProfitReport(w http.ResponseWriter, r *http.Request) {
	key := "profit"
	if cached, found := s.reportCache.Get(key); found {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	profit, err := s.service.ProfitReport(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Profit report error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build profit report")
		return
	}

	s.reportCache.Set(key, profit)
	writeJSON(w, http.StatusOK, profit)
}

func (s *Server) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	var inv core.Invoice
	if !decodeJSON(w, r, &inv) {
		return
	}

	ref, err := s.service.CreateInvoice(r.Context(), inv)
	if err != nil {
		s.writeCreateError(w, r, "invoice", err)
		return
	}

	s.invalidateViews()
	writeJSON(w, http.StatusCreated, map[string]string{"id": ref})
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var exp core.Expense
	if !decodeJSON(w, r, &exp) {
		return
	}

	ref, err := s.service.CreateExpense(r.Context(), exp)
	if err != nil {
		s.writeCreateError(w, r, "expense", err)
		return
	}

	s.invalidateViews()
	writeJSON(w, http.StatusCreated, map[string]string{"id": ref})
}

func (s *Server) handleCreateSale(w http.ResponseWriter, r *http.Request) {
	var sale core.Sale
	if !decodeJSON(w, r, &sale) {
		return
	}

	ref, err := s.service.CreateSale(r.Context(), sale)
	if err != nil {
		s.writeCreateError(w, r, "sale", err)
		return
	}

	s.invalidateViews()
	writeJSON(w, http.StatusCreated, map[string]string{"id": ref})
}

// writeCreateError maps validation failures to 422 and everything else to 500.
func (s *Server) writeCreateError(w http.ResponseWriter, r *http.Request, kind string, err error) {
	if errors.Is(err, core.ErrMissingID) || errors.Is(err, core.ErrMissingStatus) || errors.Is(err, core.ErrMissingDate) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	slog.ErrorContext(r.Context(), "Create transaction error", "error", err, "kind", kind)
	writeError(w, http.StatusInternalServerError, "failed to save "+kind)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	entryType, ok := entryTypeFromPath(r.PathValue("kind"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown transaction kind")
		return
	}
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction id")
		return
	}

	if err := s.service.DeleteTransaction(r.Context(), entryType, id); err != nil {
		if errors.Is(err, books.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		slog.ErrorContext(r.Context(), "Delete transaction error", "error", err, "kind", entryType, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to delete transaction")
		return
	}

	s.invalidateViews()
	w.WriteHeader(http.StatusNoContent)
}

// entryTypeFromPath maps the plural path segment to the entry type.
func entryTypeFromPath(kind string) (core.EntryType, bool) {
	switch kind {
	case "invoices":
		return core.TypeInvoice, true
	case "expenses":
		return core.TypeExpense, true
	case "sales":
		return core.TypeSale, true
	default:
		return "", false
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encoding failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
