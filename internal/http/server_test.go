package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"defter/internal/books/memory"
	"defter/internal/core"
	"defter/internal/services"
)

func newTestServer(t *testing.T) (*Server, *memory.Store) {
	t.Helper()
	store := memory.New()
	svc := services.NewLedgerService(store, nil)
	srv := NewServer(":0", svc)
	t.Cleanup(func() {
		_ = srv.Shutdown(context.Background())
	})
	return srv, store
}

func seedBooks(t *testing.T, srv *Server) {
	t.Helper()
	requests := []struct {
		path string
		body string
	}{
		{"/api/invoices", `{"id":"1","invoiceNumber":"INV-001","customerName":"Acme","total":1000,"status":"paid","issueDate":"2024-03-10"}`},
		{"/api/invoices", `{"id":"2","invoiceNumber":"INV-002","customerName":"Beta","total":"1.250,50","status":"pending","issueDate":"2024-03-12"}`},
		{"/api/expenses", `{"id":"7","description":"Office rent","amount":400,"category":"Kira","status":"paid","expenseDate":"2024-03-11"}`},
		{"/api/sales", `{"id":"5","customerName":"Gamma","quantity":2,"unitPrice":125,"status":"completed","date":"2024-03-15"}`},
	}
	for _, req := range requests {
		rec := doRequest(srv, http.MethodPost, req.path, req.body)
		if rec.Code != http.StatusCreated {
			t.Fatalf("seed POST %s = %d, body %s", req.path, rec.Code, rec.Body.String())
		}
	}
}

func doRequest(srv *Server, method, target, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, r)
	return rec
}

func TestLedgerEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	seedBooks(t, srv)

	rec := doRequest(srv, http.MethodGet, "/api/ledger", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/ledger = %d", rec.Code)
	}

	var view services.LedgerView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(view.Entries) != 4 {
		t.Fatalf("entries = %d, want 4", len(view.Entries))
	}
	// Newest first: sale (15th), pending invoice (12th), expense (11th), paid invoice (10th).
	wantIDs := []string{"sal-5", "inv-2", "exp-7", "inv-1"}
	for i, want := range wantIDs {
		if view.Entries[i].ID != want {
			t.Errorf("entries[%d].ID = %q, want %q", i, view.Entries[i].ID, want)
		}
	}

	// Recognized: paid invoice 1000, expense -400, completed sale 250.
	if view.Recognized.Net != 850 {
		t.Errorf("recognized net = %v, want 850", view.Recognized.Net)
	}
	if last := view.Entries[len(view.Entries)-1]; last.RunningBalance != 850 {
		t.Errorf("final balance = %v, want 850", last.RunningBalance)
	}
}

func TestLedgerFilterByType(t *testing.T) {
	srv, _ := newTestServer(t)
	seedBooks(t, srv)

	rec := doRequest(srv, http.MethodGet, "/api/ledger?type=expense", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET = %d", rec.Code)
	}

	var view services.LedgerView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(view.Entries) != 1 || view.Entries[0].ID != "exp-7" {
		t.Fatalf("filtered entries = %+v, want single exp-7", view.Entries)
	}
}

func TestLedgerSearchFilter(t *testing.T) {
	srv, _ := newTestServer(t)
	seedBooks(t, srv)

	rec := doRequest(srv, http.MethodGet, "/api/ledger?q=acme", "")
	var view services.LedgerView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(view.Entries) != 1 || view.Entries[0].ID != "inv-1" {
		t.Fatalf("search entries = %+v, want single inv-1", view.Entries)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	seedBooks(t, srv)

	rec := doRequest(srv, http.MethodGet, "/api/ledger/summary", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET = %d", rec.Code)
	}

	var resp struct {
		Recognized core.Summary `json:"recognized"`
		Gross      core.Summary `json:"gross"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Recognized.TotalCredit != 1250 {
		t.Errorf("recognized credit = %v, want 1250", resp.Recognized.TotalCredit)
	}
	if resp.Gross.TotalCredit != 2500.50 {
		t.Errorf("gross credit = %v, want 2500.50", resp.Gross.TotalCredit)
	}
}

func TestCreateInvoiceValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"missing id", `{"status":"paid","issueDate":"2024-01-01"}`, http.StatusUnprocessableEntity},
		{"missing status", `{"id":"1","issueDate":"2024-01-01"}`, http.StatusUnprocessableEntity},
		{"missing date", `{"id":"1","status":"paid"}`, http.StatusUnprocessableEntity},
		{"malformed json", `{"id":`, http.StatusBadRequest},
		{"valid", `{"id":"1","status":"paid","issueDate":"2024-01-01"}`, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(srv, http.MethodPost, "/api/invoices", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestWriteInvalidatesLedgerCache(t *testing.T) {
	srv, _ := newTestServer(t)
	seedBooks(t, srv)

	// Warm the cache.
	doRequest(srv, http.MethodGet, "/api/ledger", "")

	rec := doRequest(srv, http.MethodPost, "/api/expenses",
		`{"id":"8","description":"Hosting","amount":50,"status":"paid","expenseDate":"2024-03-20"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST expense = %d", rec.Code)
	}

	rec = doRequest(srv, http.MethodGet, "/api/ledger", "")
	var view services.LedgerView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(view.Entries) != 5 {
		t.Fatalf("entries after write = %d, want 5 (stale cache?)", len(view.Entries))
	}
	if view.Entries[0].ID != "exp-8" {
		t.Errorf("entries[0].ID = %q, want exp-8", view.Entries[0].ID)
	}
}

func TestDeleteTransaction(t *testing.T) {
	srv, _ := newTestServer(t)
	seedBooks(t, srv)

	rec := doRequest(srv, http.MethodDelete, "/api/expenses/7", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("DELETE = %d, want 204", rec.Code)
	}

	rec = doRequest(srv, http.MethodDelete, "/api/expenses/7", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second DELETE = %d, want 404", rec.Code)
	}

	rec = doRequest(srv, http.MethodDelete, "/api/widgets/7", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("DELETE unknown kind = %d, want 404", rec.Code)
	}

	rec = doRequest(srv, http.MethodGet, "/api/ledger", "")
	var view services.LedgerView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(view.Entries) != 3 {
		t.Errorf("entries after delete = %d, want 3", len(view.Entries))
	}
}

func TestReportEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)
	seedBooks(t, srv)

	for _, target := range []string{
		"/api/reports/monthly",
		"/api/reports/monthly?months=6",
		"/api/reports/categories",
		"/api/reports/customers",
		"/api/reports/customers?limit=3",
		"/api/reports/profit",
	} {
		rec := doRequest(srv, http.MethodGet, target, "")
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", target, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("GET %s Content-Type = %q", target, ct)
		}
	}
}

func TestProfitReportValues(t *testing.T) {
	srv, _ := newTestServer(t)
	seedBooks(t, srv)

	rec := doRequest(srv, http.MethodGet, "/api/reports/profit", "")
	var profit core.ProfitSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &profit); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if profit.Revenue != 1250 {
		t.Errorf("revenue = %v, want 1250", profit.Revenue)
	}
	if profit.Expenses != 400 {
		t.Errorf("expenses = %v, want 400", profit.Expenses)
	}
	if profit.NetProfit != 850 {
		t.Errorf("net profit = %v, want 850", profit.NetProfit)
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Errorf("GET /healthz = %d", rec.Code)
	}

	rec = doRequest(srv, http.MethodGet, "/readyz", "")
	if rec.Code != http.StatusOK {
		t.Errorf("GET /readyz = %d", rec.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodGet, "/api/ledger", "")
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
}

func TestParseFilter(t *testing.T) {
	rec := doRequest(mustServer(t), http.MethodGet, "/api/ledger?type=invoice&q=acme&start=2024-01-01&end=2024-12-31&customer=Acme&category=Kira", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET = %d", rec.Code)
	}
}

func mustServer(t *testing.T) *Server {
	t.Helper()
	srv, _ := newTestServer(t)
	return srv
}
