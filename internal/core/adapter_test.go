package core

import "testing"

func TestInvoiceGrossPrecedence(t *testing.T) {
	items := []InvoiceItem{{Quantity: 2, UnitPrice: 10}, {Quantity: 1, UnitPrice: 5}}
	tests := []struct {
		name string
		inv  Invoice
		want float64
	}{
		{"explicit total wins over items", Invoice{Total: 100, Items: items}, 100},
		{"amount when no total", Invoice{Amount: 75, Items: items}, 75},
		{"items when no total or amount", Invoice{Items: items}, 25},
		{"localized total string", Invoice{Total: "1.234,56"}, 1234.56},
		{"nothing resolves to zero", Invoice{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InvoiceGross(tt.inv); got != tt.want {
				t.Errorf("InvoiceGross = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSaleGrossPrecedence(t *testing.T) {
	tests := []struct {
		name string
		sale Sale
		want float64
	}{
		{"items win", Sale{Items: []SaleItem{{Quantity: 3, UnitPrice: 4}}, Amount: 999}, 12},
		{"quantity times unit price", Sale{Quantity: 2, UnitPrice: 50}, 100},
		{"zero quantity falls through to amount", Sale{Quantity: 0, UnitPrice: 50, Amount: 30}, 30},
		{"amount fallback", Sale{Amount: 250}, 250},
		{"total fallback", Sale{Total: "99,50"}, 99.5},
		{"nothing resolves to zero", Sale{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SaleGross(tt.sale); got != tt.want {
				t.Errorf("SaleGross = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAdaptInvoice(t *testing.T) {
	inv := Invoice{
		ID:            "42",
		InvoiceNumber: "INV-2024-001",
		CustomerName:  "ABC Teknoloji",
		Total:         1000,
		Status:        InvoiceStatusPaid,
		IssueDate:     "2024-03-01",
		Kind:          "product",
	}
	e := AdaptInvoice(inv)

	if e.ID != "inv-42" {
		t.Errorf("ID = %q, want inv-42", e.ID)
	}
	if e.Type != TypeInvoice {
		t.Errorf("Type = %q", e.Type)
	}
	if e.Description != "Fatura - ABC Teknoloji" {
		t.Errorf("Description = %q", e.Description)
	}
	if e.Category != CategoryProductRevenue {
		t.Errorf("Category = %q", e.Category)
	}
	if e.GrossAmount != 1000 || e.RecognizedAmount != 1000 {
		t.Errorf("amounts = %v/%v, want 1000/1000", e.GrossAmount, e.RecognizedAmount)
	}
	if e.Credit != 1000 || e.Debit != 0 {
		t.Errorf("sides = credit %v debit %v", e.Credit, e.Debit)
	}
}

func TestAdaptInvoiceStructuredCustomerWins(t *testing.T) {
	inv := Invoice{
		ID:           "1",
		CustomerName: "flat name",
		Customer:     &Party{Name: "Structured A.Ş."},
		Status:       InvoiceStatusSent,
		IssueDate:    "2024-01-01",
	}
	e := AdaptInvoice(inv)
	if e.Customer != "Structured A.Ş." {
		t.Errorf("Customer = %q, want structured name", e.Customer)
	}
	if e.Category != CategoryServiceRevenue {
		t.Errorf("Category = %q, want service revenue default", e.Category)
	}
	if e.RecognizedAmount != 0 {
		t.Errorf("sent invoice must not be recognized, got %v", e.RecognizedAmount)
	}
}

func TestAdaptExpense(t *testing.T) {
	exp := Expense{
		ID:          "7",
		Description: "Ofis kirası",
		Supplier:    "Mal Sahibi",
		Amount:      "400,00",
		Category:    "Kira",
		Status:      ExpenseStatusPaid,
		ExpenseDate: "2024-02-01",
	}
	e := AdaptExpense(exp)

	if e.ID != "exp-7" {
		t.Errorf("ID = %q", e.ID)
	}
	if e.Description != "Gider - Ofis kirası" {
		t.Errorf("Description = %q", e.Description)
	}
	if e.GrossAmount != 400 || e.RecognizedAmount != 400 {
		t.Errorf("amounts = %v/%v", e.GrossAmount, e.RecognizedAmount)
	}
	if e.Debit != 400 || e.Credit != 0 {
		t.Errorf("sides = credit %v debit %v, expense must be debit-side", e.Credit, e.Debit)
	}
}

func TestAdaptSale(t *testing.T) {
	sale := Sale{
		ID:           "3",
		CustomerName: "XYZ Şirketi",
		ProductName:  "Lisans",
		Amount:       250,
		Status:       SaleStatusPending,
		Date:         "2024-01-15",
	}
	e := AdaptSale(sale)

	if e.ID != "sal-3" {
		t.Errorf("ID = %q", e.ID)
	}
	if e.Reference != "SAL-3" {
		t.Errorf("Reference = %q, want generated SAL-3", e.Reference)
	}
	if e.Description != "Direkt Satış - Lisans" {
		t.Errorf("Description = %q", e.Description)
	}
	if e.Category != CategorySaleRevenue {
		t.Errorf("Category = %q", e.Category)
	}
	if e.GrossAmount != 250 {
		t.Errorf("GrossAmount = %v", e.GrossAmount)
	}
	if e.RecognizedAmount != 0 || e.Credit != 0 {
		t.Errorf("pending sale must not be recognized, got %v/%v", e.RecognizedAmount, e.Credit)
	}
}
