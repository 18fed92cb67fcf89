package memory

import (
	"context"
	"testing"

	"defter/internal/core"
)

func TestAppendAndList(t *testing.T) {
	s := New()
	ctx := context.Background()

	ref, err := s.AppendInvoice(ctx, core.Invoice{ID: "1", Status: "paid", IssueDate: "2024-03-01", Total: 100})
	if err != nil {
		t.Fatalf("append invoice: %v", err)
	}
	if ref == "" {
		t.Error("expected non-empty reference")
	}

	if _, err := s.AppendExpense(ctx, core.Expense{ID: "1", Status: "paid", ExpenseDate: "2024-02-01", Amount: 40}); err != nil {
		t.Fatalf("append expense: %v", err)
	}
	if _, err := s.AppendSale(ctx, core.Sale{ID: "1", Status: "pending", Date: "2024-01-15", Amount: 25}); err != nil {
		t.Fatalf("append sale: %v", err)
	}

	invoices, _ := s.ListInvoices(ctx)
	expenses, _ := s.ListExpenses(ctx)
	sales, _ := s.ListSales(ctx)
	if len(invoices) != 1 || len(expenses) != 1 || len(sales) != 1 {
		t.Errorf("counts = %d/%d/%d, want 1/1/1", len(invoices), len(expenses), len(sales))
	}
}

func TestAppendRejectsMissingFields(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.AppendInvoice(ctx, core.Invoice{Status: "paid", IssueDate: "2024-01-01"}); err == nil {
		t.Error("expected error for missing id")
	}
	if _, err := s.AppendExpense(ctx, core.Expense{ID: "1", ExpenseDate: "2024-01-01"}); err == nil {
		t.Error("expected error for missing status")
	}
	if _, err := s.AppendSale(ctx, core.Sale{ID: "1", Status: "completed"}); err == nil {
		t.Error("expected error for missing date")
	}
}

func TestDelete(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, _ = s.AppendSale(ctx, core.Sale{ID: "9", Status: "completed", Date: "2024-01-01"})
	if err := s.DeleteSale(ctx, "9"); err != nil {
		t.Fatalf("delete sale: %v", err)
	}
	if sales, _ := s.ListSales(ctx); len(sales) != 0 {
		t.Error("sale not removed")
	}
	if err := s.DeleteSale(ctx, "9"); err == nil {
		t.Error("expected error deleting missing sale")
	}
}

func TestListReturnscopy(t *testing.T) {
	s := New()
	ctx := context.Background()
	_, _ = s.AppendInvoice(ctx, core.Invoice{ID: "1", Status: "paid", IssueDate: "2024-01-01"})

	snapshot, _ := s.ListInvoices(ctx)
	snapshot[0].ID = "mutated"

	fresh, _ := s.ListInvoices(ctx)
	if fresh[0].ID != "1" {
		t.Error("ListInvoices leaked internal slice")
	}
}
