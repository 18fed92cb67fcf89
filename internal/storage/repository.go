package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"defter/internal/books"
	"defter/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository persists the three raw transaction collections. Amount
// fields are stored as the raw text upstream supplied (machine numbers or
// locale-formatted strings); the engine's normalizer owns interpreting them,
// so nothing is lost or rounded at the storage boundary.
type SQLiteRepository struct {
	db *sql.DB
}

var _ books.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// rawText converts a loose amount value to its nullable text column form.
func rawText(v any) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: fmt.Sprintf("%v", v), Valid: true}
}

// rawValue converts a nullable text column back to the loose amount form.
func rawValue(ns sql.NullString) any {
	if !ns.Valid {
		return nil
	}
	return ns.String
}

func (r *SQLiteRepository) AppendInvoice(ctx context.Context, inv core.Invoice) (string, error) {
	if err := inv.Validate(); err != nil {
		return "", err
	}

	customer := inv.CustomerName
	if inv.Customer != nil && inv.Customer.Name != "" {
		customer = inv.Customer.Name
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO invoices (id, invoice_number, customer_name, total, amount, status, issue_date, kind)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.InvoiceNumber, customer, rawText(inv.Total), rawText(inv.Amount),
		inv.Status, inv.IssueDate, inv.Kind)
	if err != nil {
		return "", fmt.Errorf("insert invoice: %w", err)
	}

	for _, item := range inv.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO invoice_items (invoice_id, description, quantity, unit_price)
			VALUES (?, ?, ?, ?)`,
			inv.ID, item.Description, rawText(item.Quantity), rawText(item.UnitPrice))
		if err != nil {
			return "", fmt.Errorf("insert invoice item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit invoice: %w", err)
	}

	slog.InfoContext(ctx, "Invoice saved to SQLite",
		"id", inv.ID,
		"customer", customer,
		"status", inv.Status,
		"items", len(inv.Items))

	return inv.ID, nil
}

func (r *SQLiteRepository) AppendExpense(ctx context.Context, exp core.Expense) (string, error) {
	if err := exp.Validate(); err != nil {
		return "", err
	}

	supplier := exp.Supplier
	if exp.SupplierParty != nil && exp.SupplierParty.Name != "" {
		supplier = exp.SupplierParty.Name
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (id, expense_number, description, supplier, amount, category, status, expense_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		exp.ID, exp.ExpenseNumber, exp.Description, supplier, rawText(exp.Amount),
		exp.Category, exp.Status, exp.ExpenseDate)
	if err != nil {
		return "", fmt.Errorf("insert expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", exp.ID,
		"description", exp.Description,
		"status", exp.Status)

	return exp.ID, nil
}

func (r *SQLiteRepository) AppendSale(ctx context.Context, sale core.Sale) (string, error) {
	if err := sale.Validate(); err != nil {
		return "", err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sales (id, sale_number, customer_name, product_name, quantity, unit_price, amount, total, status, sale_date, invoice_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sale.ID, sale.SaleNumber, sale.CustomerName, sale.ProductName,
		rawText(sale.Quantity), rawText(sale.UnitPrice), rawText(sale.Amount), rawText(sale.Total),
		sale.Status, sale.Date, sale.InvoiceID)
	if err != nil {
		return "", fmt.Errorf("insert sale: %w", err)
	}

	for _, item := range sale.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO sale_items (sale_id, product_name, quantity, unit_price)
			VALUES (?, ?, ?, ?)`,
			sale.ID, item.ProductName, rawText(item.Quantity), rawText(item.UnitPrice))
		if err != nil {
			return "", fmt.Errorf("insert sale item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit sale: %w", err)
	}

	slog.InfoContext(ctx, "Sale saved to SQLite",
		"id", sale.ID,
		"product", sale.ProductName,
		"status", sale.Status,
		"items", len(sale.Items))

	return sale.ID, nil
}

func (r *SQLiteRepository) ListInvoices(ctx context.Context) ([]core.Invoice, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, invoice_number, customer_name, total, amount, status, issue_date, kind
		FROM invoices WHERE deleted_at IS NULL ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query invoices: %w", err)
	}
	defer rows.Close()

	var invoices []core.Invoice
	for rows.Next() {
		var inv core.Invoice
		var total, amount sql.NullString
		if err := rows.Scan(&inv.ID, &inv.InvoiceNumber, &inv.CustomerName, &total, &amount,
			&inv.Status, &inv.IssueDate, &inv.Kind); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		inv.Total = rawValue(total)
		inv.Amount = rawValue(amount)
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invoices: %w", err)
	}

	for i := range invoices {
		items, err := r.listInvoiceItems(ctx, invoices[i].ID)
		if err != nil {
			return nil, err
		}
		invoices[i].Items = items
	}
	return invoices, nil
}

func (r *SQLiteRepository) listInvoiceItems(ctx context.Context, invoiceID string) ([]core.InvoiceItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT description, quantity, unit_price FROM invoice_items WHERE invoice_id = ? ORDER BY id`,
		invoiceID)
	if err != nil {
		return nil, fmt.Errorf("query invoice items: %w", err)
	}
	defer rows.Close()

	var items []core.InvoiceItem
	for rows.Next() {
		var item core.InvoiceItem
		var quantity, unitPrice sql.NullString
		if err := rows.Scan(&item.Description, &quantity, &unitPrice); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		item.Quantity = rawValue(quantity)
		item.UnitPrice = rawValue(unitPrice)
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *SQLiteRepository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, expense_number, description, supplier, amount, category, status, expense_date
		FROM expenses WHERE deleted_at IS NULL ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		var exp core.Expense
		var amount sql.NullString
		if err := rows.Scan(&exp.ID, &exp.ExpenseNumber, &exp.Description, &exp.Supplier,
			&amount, &exp.Category, &exp.Status, &exp.ExpenseDate); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		exp.Amount = rawValue(amount)
		expenses = append(expenses, exp)
	}
	return expenses, rows.Err()
}

func (r *SQLiteRepository) ListSales(ctx context.Context) ([]core.Sale, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, sale_number, customer_name, product_name, quantity, unit_price, amount, total, status, sale_date, invoice_id
		FROM sales WHERE deleted_at IS NULL ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	defer rows.Close()

	var sales []core.Sale
	for rows.Next() {
		var sale core.Sale
		var quantity, unitPrice, amount, total sql.NullString
		if err := rows.Scan(&sale.ID, &sale.SaleNumber, &sale.CustomerName, &sale.ProductName,
			&quantity, &unitPrice, &amount, &total, &sale.Status, &sale.Date, &sale.InvoiceID); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		sale.Quantity = rawValue(quantity)
		sale.UnitPrice = rawValue(unitPrice)
		sale.Amount = rawValue(amount)
		sale.Total = rawValue(total)
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales: %w", err)
	}

	for i := range sales {
		items, err := r.listSaleItems(ctx, sales[i].ID)
		if err != nil {
			return nil, err
		}
		sales[i].Items = items
	}
	return sales, nil
}

func (r *SQLiteRepository) listSaleItems(ctx context.Context, saleID string) ([]core.SaleItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT product_name, quantity, unit_price FROM sale_items WHERE sale_id = ? ORDER BY id`,
		saleID)
	if err != nil {
		return nil, fmt.Errorf("query sale items: %w", err)
	}
	defer rows.Close()

	var items []core.SaleItem
	for rows.Next() {
		var item core.SaleItem
		var quantity, unitPrice sql.NullString
		if err := rows.Scan(&item.ProductName, &quantity, &unitPrice); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		item.Quantity = rawValue(quantity)
		item.UnitPrice = rawValue(unitPrice)
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *SQLiteRepository) DeleteInvoice(ctx context.Context, id string) error {
	return r.softDelete(ctx, "invoices", id)
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id string) error {
	return r.softDelete(ctx, "expenses", id)
}

func (r *SQLiteRepository) DeleteSale(ctx context.Context, id string) error {
	return r.softDelete(ctx, "sales", id)
}

func (r *SQLiteRepository) softDelete(ctx context.Context, table, id string) error {
	res, err := r.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET deleted_at = datetime('now') WHERE id = ? AND deleted_at IS NULL`, table), id)
	if err != nil {
		return fmt.Errorf("soft delete from %s: %w", table, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%s record %s: %w", table, id, books.ErrNotFound)
	}

	slog.InfoContext(ctx, "Record soft-deleted", "table", table, "id", id)
	return nil
}
