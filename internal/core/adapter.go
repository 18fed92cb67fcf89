package core

// Display categories assigned to adapted entries. These mirror the labels the
// product has always shown; localization happens outside the engine.
const (
	CategoryProductRevenue = "Ürün Satış Geliri"
	CategoryServiceRevenue = "Hizmet Geliri"
	CategorySaleRevenue    = "Direkt Satış Geliri"
)

// InvoiceGross resolves an invoice's face value. Precedence: explicit total,
// then explicit amount, then reconstruction from line items, then zero.
func InvoiceGross(inv Invoice) float64 {
	if inv.Total != nil {
		return ToNumber(inv.Total)
	}
	if inv.Amount != nil {
		return ToNumber(inv.Amount)
	}
	var sum float64
	for _, it := range inv.Items {
		sum += ToNumber(it.Quantity) * ToNumber(it.UnitPrice)
	}
	return sum
}

// ExpenseGross resolves an expense's face value. Expenses carry a single
// amount field; there is no fallback chain.
func ExpenseGross(exp Expense) float64 {
	return ToNumber(exp.Amount)
}

// SaleGross resolves a direct sale's face value: line items when present,
// else quantity times unit price when both are positive, else the flat
// amount (or total) field.
func SaleGross(sale Sale) float64 {
	if len(sale.Items) > 0 {
		var sum float64
		for _, it := range sale.Items {
			sum += ToNumber(it.UnitPrice) * ToNumber(it.Quantity)
		}
		return sum
	}
	if q, p := ToNumber(sale.Quantity), ToNumber(sale.UnitPrice); q > 0 && p > 0 {
		return q * p
	}
	if sale.Amount != nil {
		return ToNumber(sale.Amount)
	}
	return ToNumber(sale.Total)
}

// AdaptInvoice projects a raw invoice onto a ledger entry. Gross, recognized
// and side amounts are filled; the running balance is assigned later by the
// accumulator.
func AdaptInvoice(inv Invoice) LedgerEntry {
	customer := inv.CustomerName
	if inv.Customer != nil && inv.Customer.Name != "" {
		customer = inv.Customer.Name
	}
	category := CategoryServiceRevenue
	if inv.Kind == "product" {
		category = CategoryProductRevenue
	}
	e := LedgerEntry{
		ID:          "inv-" + inv.ID,
		Date:        inv.IssueDate,
		Type:        TypeInvoice,
		Description: "Fatura - " + customer,
		Reference:   inv.InvoiceNumber,
		Customer:    customer,
		Category:    category,
		GrossAmount: InvoiceGross(inv),
	}
	return gate(e, inv.Status)
}

// AdaptExpense projects a raw expense onto a ledger entry.
func AdaptExpense(exp Expense) LedgerEntry {
	supplier := exp.Supplier
	if exp.SupplierParty != nil && exp.SupplierParty.Name != "" {
		supplier = exp.SupplierParty.Name
	}
	e := LedgerEntry{
		ID:          "exp-" + exp.ID,
		Date:        exp.ExpenseDate,
		Type:        TypeExpense,
		Description: "Gider - " + exp.Description,
		Reference:   exp.ExpenseNumber,
		Customer:    supplier,
		Category:    exp.Category,
		GrossAmount: ExpenseGross(exp),
	}
	return gate(e, exp.Status)
}

// AdaptSale projects a raw direct sale onto a ledger entry.
func AdaptSale(sale Sale) LedgerEntry {
	reference := sale.SaleNumber
	if reference == "" {
		reference = "SAL-" + sale.ID
	}
	e := LedgerEntry{
		ID:          "sal-" + sale.ID,
		Date:        sale.Date,
		Type:        TypeSale,
		Description: "Direkt Satış - " + sale.ProductName,
		Reference:   reference,
		Customer:    sale.CustomerName,
		Category:    CategorySaleRevenue,
		GrossAmount: SaleGross(sale),
	}
	return gate(e, sale.Status)
}

// gate applies the recognition gate and derives the side amounts. Exactly one
// of debit/credit is non-zero for a recognized entry.
func gate(e LedgerEntry, status string) LedgerEntry {
	if IsRecognized(e.Type, status) {
		e.RecognizedAmount = e.GrossAmount
	}
	if e.Type == TypeExpense {
		e.Debit = e.RecognizedAmount
	} else {
		e.Credit = e.RecognizedAmount
	}
	return e
}
