package core

import "testing"

func TestIsRecognized(t *testing.T) {
	tests := []struct {
		typ    EntryType
		status string
		want   bool
	}{
		{TypeInvoice, "paid", true},
		{TypeInvoice, "sent", false},
		{TypeInvoice, "overdue", false},
		{TypeInvoice, "Paid", false}, // case-sensitive allow-list
		{TypeInvoice, "completed", false},
		{TypeExpense, "paid", true},
		{TypeExpense, "approved", false},
		{TypeExpense, "draft", false},
		{TypeSale, "completed", true},
		{TypeSale, "paid", false},
		{TypeSale, "pending", false},
		{TypeSale, "cancelled", false},
		{TypeInvoice, "", false},
		{EntryType("unknown"), "paid", false},
	}
	for _, tt := range tests {
		if got := IsRecognized(tt.typ, tt.status); got != tt.want {
			t.Errorf("IsRecognized(%q, %q) = %v, want %v", tt.typ, tt.status, got, tt.want)
		}
	}
}

func TestEntryTypeSign(t *testing.T) {
	if TypeInvoice.Sign() != 1 || TypeSale.Sign() != 1 {
		t.Error("invoice and sale must be credit-side")
	}
	if TypeExpense.Sign() != -1 {
		t.Error("expense must be debit-side")
	}
}
