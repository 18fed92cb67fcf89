// Package google exports assembled ledgers to a Google Sheets spreadsheet so
// an accountant can work from a live copy of the books.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"defter/internal/books"
	"defter/internal/core"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	ledgerSheet   string
	summarySheet  string
}

var _ books.LedgerExporter = (*Client)(nil)

// NewFromEnv creates an exporter from environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Auth: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or
// GOOGLE_APPLICATION_CREDENTIALS.
// Optional sheet names: LEDGER_SHEET_NAME (default "Ledger"),
// SUMMARY_SHEET_NAME (default "Summary").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	ledgerSheet := strings.TrimSpace(os.Getenv("LEDGER_SHEET_NAME"))
	if ledgerSheet == "" {
		ledgerSheet = "Ledger"
	}
	summarySheet := strings.TrimSpace(os.Getenv("SUMMARY_SHEET_NAME"))
	if summarySheet == "" {
		summarySheet = "Summary"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		ledgerSheet:   ledgerSheet,
		summarySheet:  summarySheet,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account
// credentials from the environment.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

var ledgerHeader = []any{
	"ID", "Date", "Type", "Description", "Reference", "Customer", "Category",
	"Gross", "Recognized", "Debit", "Credit", "Balance",
}

// ExportEntries rewrites the ledger sheet with the full entry list, newest
// first, exactly as the engine ordered it.
func (c *Client) ExportEntries(ctx context.Context, entries []core.LedgerEntry) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	clearRange := fmt.Sprintf("%s!A:L", c.ledgerSheet)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear ledger sheet %s: %w", c.ledgerSheet, err)
	}

	values := make([][]any, 0, len(entries)+1)
	values = append(values, ledgerHeader)
	for _, e := range entries {
		values = append(values, []any{
			e.ID, e.Date, string(e.Type), e.Description, e.Reference,
			e.Customer, e.Category, e.GrossAmount, e.RecognizedAmount,
			e.Debit, e.Credit, e.RunningBalance,
		})
	}

	writeRange := fmt.Sprintf("%s!A1:L%d", c.ledgerSheet, len(values))
	vr := &gsheet.ValueRange{Values: values}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, writeRange, vr).
		ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return fmt.Errorf("write ledger sheet %s: %w", c.ledgerSheet, err)
	}

	slog.InfoContext(ctx, "Exported ledger entries to Google Sheets",
		"sheet", c.ledgerSheet,
		"entries", len(entries))
	return nil
}

// ExportSummary writes recognized and gross totals side by side on the
// summary sheet.
func (c *Client) ExportSummary(ctx context.Context, recognized, gross core.Summary) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	values := [][]any{
		{"", "Recognized", "Gross"},
		{"Total Credit", recognized.TotalCredit, gross.TotalCredit},
		{"Total Debit", recognized.TotalDebit, gross.TotalDebit},
		{"Net", recognized.Net, gross.Net},
	}

	writeRange := fmt.Sprintf("%s!A1:C%d", c.summarySheet, len(values))
	vr := &gsheet.ValueRange{Values: values}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, writeRange, vr).
		ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return fmt.Errorf("write summary sheet %s: %w", c.summarySheet, err)
	}

	slog.InfoContext(ctx, "Exported ledger summary to Google Sheets", "sheet", c.summarySheet)
	return nil
}
