package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"defter/internal/books"
	"defter/internal/core"
)

// Store is a mutex-guarded in-memory transaction store. It is the default
// backend for local development and the fixture store in tests.
type Store struct {
	mu       sync.Mutex
	invoices []core.Invoice
	expenses []core.Expense
	sales    []core.Sale
}

var _ books.Store = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// NewFromFiles seeds the store from JSON files under base (invoices.json,
// expenses.json, sales.json). Missing or malformed files are skipped; an
// empty store is a valid starting point.
func NewFromFiles(base string) *Store {
	s := New()
	readSeed(filepath.Join(base, "invoices.json"), &s.invoices)
	readSeed(filepath.Join(base, "expenses.json"), &s.expenses)
	readSeed(filepath.Join(base, "sales.json"), &s.sales)
	return s
}

func readSeed[T any](path string, dst *[]T) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return
	}
	*dst = items
}

func (s *Store) AppendInvoice(_ context.Context, inv core.Invoice) (string, error) {
	if err := inv.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices = append(s.invoices, inv)
	return fmt.Sprintf("mem:inv:%d", len(s.invoices)), nil
}

func (s *Store) AppendExpense(_ context.Context, exp core.Expense) (string, error) {
	if err := exp.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = append(s.expenses, exp)
	return fmt.Sprintf("mem:exp:%d", len(s.expenses)), nil
}

func (s *Store) AppendSale(_ context.Context, sale core.Sale) (string, error) {
	if err := sale.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales = append(s.sales, sale)
	return fmt.Sprintf("mem:sal:%d", len(s.sales)), nil
}

// List methods return copies so callers can hold a snapshot while the store
// keeps mutating.

func (s *Store) ListInvoices(_ context.Context) ([]core.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Invoice(nil), s.invoices...), nil
}

func (s *Store) ListExpenses(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Expense(nil), s.expenses...), nil
}

func (s *Store) ListSales(_ context.Context) ([]core.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Sale(nil), s.sales...), nil
}

func (s *Store) DeleteInvoice(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, inv := range s.invoices {
		if inv.ID == id {
			s.invoices = append(s.invoices[:i], s.invoices[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("invoice %s: %w", id, books.ErrNotFound)
}

func (s *Store) DeleteExpense(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, exp := range s.expenses {
		if exp.ID == id {
			s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("expense %s: %w", id, books.ErrNotFound)
}

func (s *Store) DeleteSale(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sale := range s.sales {
		if sale.ID == id {
			s.sales = append(s.sales[:i], s.sales[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("sale %s: %w", id, books.ErrNotFound)
}
