// Package sheets appends finished invoices to a shared Google Sheet, one
// row per line item plus a totals row, so the business has a running ledger
// outside the local draft store.
package sheets

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/str8builders/invoice/internal/billing"
	"github.com/str8builders/invoice/internal/logger"
	"github.com/str8builders/invoice/pkg/models"
)

// Service handles Google Sheets operations.
type Service struct {
	sheetsService *sheets.Service
	spreadsheetID string
	log           zerolog.Logger
}

var sheetHeaders = []interface{}{
	"Invoice", "Issued", "Client", "Item Date", "Type",
	"Description", "Hrs/Qty", "Rate", "Amount", "Exported",
}

// NewService creates a sheets exporter for the spreadsheet behind sheetURL.
// credentialsFile points at a service account JSON file; when empty the
// GOOGLE_APPLICATION_CREDENTIALS path is used instead.
func NewService(ctx context.Context, sheetURL, credentialsFile string) (*Service, error) {
	const op = "NewService"

	log := logger.WithComponent("sheets")

	spreadsheetID, err := extractSpreadsheetID(sheetURL)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to extract spreadsheet ID: %w", op, err)
	}

	log.Debug().Str("spreadsheet_id", spreadsheetID).Msg("Extracted spreadsheet ID")

	if credentialsFile == "" {
		credentialsFile = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	}
	if credentialsFile == "" {
		return nil, fmt.Errorf("%s: no service account credentials configured", op)
	}
	creds, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read credentials file: %w", op, err)
	}

	config, err := google.JWTConfigFromJSON(creds, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse credentials: %w", op, err)
	}

	client := config.Client(ctx)
	sheetsService, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create sheets service: %w", op, err)
	}

	return &Service{
		sheetsService: sheetsService,
		spreadsheetID: spreadsheetID,
		log:           log,
	}, nil
}

// extractSpreadsheetID extracts the spreadsheet ID from a Google Sheets URL.
func extractSpreadsheetID(url string) (string, error) {
	re := regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)
	matches := re.FindStringSubmatch(url)

	if len(matches) < 2 {
		return "", fmt.Errorf("invalid Google Sheets URL format")
	}

	return matches[1], nil
}

// AppendInvoice appends the invoice's item rows and a payable row to the
// named worksheet, creating the sheet and its header row if needed.
func (s *Service) AppendInvoice(ctx context.Context, sheetName string, inv models.Invoice) error {
	const op = "AppendInvoice"

	s.log.Info().
		Str("sheet", sheetName).
		Str("invoice", inv.Number).
		Int("items", len(inv.Items)).
		Msg("Appending invoice to Google Sheet")

	if err := s.ensureSheetWithHeaders(ctx, sheetName); err != nil {
		return fmt.Errorf("%s: failed to ensure sheet exists: %w", op, err)
	}

	values := invoiceRows(inv, time.Now())
	valueRange := &sheets.ValueRange{
		Values: values,
	}

	_, err := s.sheetsService.Spreadsheets.Values.Append(
		s.spreadsheetID,
		sheetName+"!A:J",
		valueRange,
	).ValueInputOption("USER_ENTERED").Context(ctx).Do()

	if err != nil {
		return fmt.Errorf("%s: failed to append values to sheet: %w", op, err)
	}

	s.log.Info().
		Int("rows_written", len(values)).
		Msg("Successfully appended invoice to Google Sheet")

	return nil
}

// invoiceRows flattens an invoice into sheet rows: one per line item and a
// closing totals row. Dollar figures and dates use the engine's display
// formatting so the ledger matches the printed invoice.
func invoiceRows(inv models.Invoice, now time.Time) [][]interface{} {
	exportedAt := now.Format("02/01/2006 15:04")

	var rows [][]interface{}
	for _, item := range inv.Items {
		rows = append(rows, []interface{}{
			inv.Number,
			billing.DisplayDate(inv.Date),
			inv.Client.Name,
			billing.DisplayDate(item.Date),
			string(item.Category),
			item.Description,
			item.Hours,
			billing.FormatNZD(item.Rate),
			billing.FormatNZD(item.Amount),
			exportedAt,
		})
	}

	totals := billing.CalculateTotals(inv.Items)
	rows = append(rows, []interface{}{
		inv.Number,
		billing.DisplayDate(inv.Date),
		inv.Client.Name,
		"",
		"total",
		fmt.Sprintf("Payable incl. GST %s, net retained %s",
			billing.FormatNZD(totals.GST), billing.FormatNZD(totals.NetRetained)),
		"",
		"",
		billing.FormatNZD(totals.Payable),
		exportedAt,
	})

	return rows
}

// ensureSheetWithHeaders ensures the sheet exists and has proper headers.
func (s *Service) ensureSheetWithHeaders(ctx context.Context, sheetName string) error {
	const op = "ensureSheetWithHeaders"

	spreadsheet, err := s.sheetsService.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to get spreadsheet: %w", op, err)
	}

	var sheetExists bool
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties.Title == sheetName {
			sheetExists = true
			break
		}
	}

	if !sheetExists {
		s.log.Info().Str("sheet", sheetName).Msg("Creating new sheet")

		addSheetReq := &sheets.AddSheetRequest{
			Properties: &sheets.SheetProperties{
				Title: sheetName,
			},
		}

		batchUpdateReq := &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{
				{AddSheet: addSheetReq},
			},
		}

		if _, err := s.sheetsService.Spreadsheets.BatchUpdate(s.spreadsheetID, batchUpdateReq).Context(ctx).Do(); err != nil {
			return fmt.Errorf("%s: failed to create sheet: %w", op, err)
		}
	}

	headerRange := fmt.Sprintf("%s!A1:J1", sheetName)
	resp, err := s.sheetsService.Spreadsheets.Values.Get(s.spreadsheetID, headerRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to get headers: %w", op, err)
	}

	if len(resp.Values) == 0 || len(resp.Values[0]) == 0 {
		s.log.Info().Str("sheet", sheetName).Msg("Adding headers to sheet")

		valueRange := &sheets.ValueRange{Values: [][]interface{}{sheetHeaders}}
		_, err = s.sheetsService.Spreadsheets.Values.Update(
			s.spreadsheetID,
			headerRange,
			valueRange,
		).ValueInputOption("RAW").Context(ctx).Do()

		if err != nil {
			return fmt.Errorf("%s: failed to add headers: %w", op, err)
		}
	}

	return nil
}
