package core

import (
	"sort"
	"time"
)

type (
	// MonthTotal is one point of the income/expense series.
	MonthTotal struct {
		Year    int     `json:"year"`
		Month   int     `json:"month"`
		Income  float64 `json:"income"`
		Expense float64 `json:"expense"`
	}

	// CategoryTotal aggregates paid expenses under one category.
	CategoryTotal struct {
		Category string  `json:"category"`
		Total    float64 `json:"total"`
		Count    int     `json:"count"`
	}

	// CustomerTotal aggregates settled revenue per customer.
	CustomerTotal struct {
		Name         string  `json:"name"`
		Total        float64 `json:"total"`
		Count        int     `json:"count"`
		LastPurchase string  `json:"lastPurchase,omitempty"`
	}

	// ProfitSummary is the headline revenue/expense/profit view.
	ProfitSummary struct {
		Revenue      float64 `json:"revenue"`
		Expenses     float64 `json:"expenses"`
		NetProfit    float64 `json:"netProfit"`
		ProfitMargin float64 `json:"profitMargin"`
	}
)

// MonthlySeries returns the income/expense totals for the `months` calendar
// months ending at `end`, oldest first. Income counts paid invoices plus
// completed direct sales not yet converted to an invoice; the expense side
// counts paid expenses.
func MonthlySeries(invoices []Invoice, expenses []Expense, sales []Sale, end time.Time, months int) []MonthTotal {
	out := make([]MonthTotal, 0, months)
	for i := months - 1; i >= 0; i-- {
		anchor := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
		mt := MonthTotal{Year: anchor.Year(), Month: int(anchor.Month())}
		for _, inv := range invoices {
			if IsRecognized(TypeInvoice, inv.Status) && sameMonth(coerceDate(inv.IssueDate), anchor) {
				mt.Income += InvoiceGross(inv)
			}
		}
		for _, sale := range sales {
			if IsRecognized(TypeSale, sale.Status) && sale.InvoiceID == "" && sameMonth(coerceDate(sale.Date), anchor) {
				mt.Income += SaleGross(sale)
			}
		}
		for _, exp := range expenses {
			if IsRecognized(TypeExpense, exp.Status) && sameMonth(coerceDate(exp.ExpenseDate), anchor) {
				mt.Expense += ExpenseGross(exp)
			}
		}
		out = append(out, mt)
	}
	return out
}

func sameMonth(t, anchor time.Time) bool {
	return !t.IsZero() && t.Year() == anchor.Year() && t.Month() == anchor.Month()
}

// Profit computes total settled revenue (paid invoices plus unconverted
// completed sales), total paid expenses and the resulting margin.
func Profit(invoices []Invoice, expenses []Expense, sales []Sale) ProfitSummary {
	var p ProfitSummary
	for _, inv := range invoices {
		if IsRecognized(TypeInvoice, inv.Status) {
			p.Revenue += InvoiceGross(inv)
		}
	}
	for _, sale := range sales {
		if IsRecognized(TypeSale, sale.Status) && sale.InvoiceID == "" {
			p.Revenue += SaleGross(sale)
		}
	}
	for _, exp := range expenses {
		if IsRecognized(TypeExpense, exp.Status) {
			p.Expenses += ExpenseGross(exp)
		}
	}
	p.NetProfit = p.Revenue - p.Expenses
	if p.Revenue > 0 {
		p.ProfitMargin = p.NetProfit / p.Revenue * 100
	}
	return p
}

// ExpenseCategories groups paid expenses by category, largest total first.
func ExpenseCategories(expenses []Expense) []CategoryTotal {
	byCat := map[string]*CategoryTotal{}
	for _, exp := range expenses {
		if !IsRecognized(TypeExpense, exp.Status) {
			continue
		}
		ct, ok := byCat[exp.Category]
		if !ok {
			ct = &CategoryTotal{Category: exp.Category}
			byCat[exp.Category] = ct
		}
		ct.Total += ExpenseGross(exp)
		ct.Count++
	}
	out := make([]CategoryTotal, 0, len(byCat))
	for _, ct := range byCat {
		out = append(out, *ct)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// TopCustomers ranks customers by settled revenue from paid invoices and
// unconverted completed sales. A non-positive limit returns every customer.
func TopCustomers(invoices []Invoice, sales []Sale, limit int) []CustomerTotal {
	byName := map[string]*CustomerTotal{}
	record := func(name, date string, amount float64) {
		ct, ok := byName[name]
		if !ok {
			ct = &CustomerTotal{Name: name, LastPurchase: date}
			byName[name] = ct
		}
		ct.Total += amount
		ct.Count++
		if coerceDate(date).After(coerceDate(ct.LastPurchase)) {
			ct.LastPurchase = date
		}
	}
	for _, inv := range invoices {
		if IsRecognized(TypeInvoice, inv.Status) {
			name := inv.CustomerName
			if inv.Customer != nil && inv.Customer.Name != "" {
				name = inv.Customer.Name
			}
			record(name, inv.IssueDate, InvoiceGross(inv))
		}
	}
	for _, sale := range sales {
		if IsRecognized(TypeSale, sale.Status) && sale.InvoiceID == "" {
			record(sale.CustomerName, sale.Date, SaleGross(sale))
		}
	}
	out := make([]CustomerTotal, 0, len(byName))
	for _, ct := range byName {
		out = append(out, *ct)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
