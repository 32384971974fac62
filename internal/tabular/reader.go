// Package tabular reads line-item rows from spreadsheet and CSV files for
// bulk import. The first non-empty row is the header; every following row
// becomes one raw record keyed by header text, which the billing normalizer
// then classifies and fills. Cell-level interpretation (aliases, currency
// symbols, date formats) is entirely the normalizer's job — this package
// only gets rows off disk.
package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/str8builders/invoice/internal/billing"
	"github.com/str8builders/invoice/internal/logger"
)

// ReadRecords loads all data rows from an .xlsx or .csv file.
func ReadRecords(path string) ([]billing.RawRecord, error) {
	const op = "ReadRecords"

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readExcel(path)
	case ".csv":
		return readCSV(path)
	default:
		return nil, fmt.Errorf("%s: unsupported file type %q (want .xlsx or .csv)", op, filepath.Ext(path))
	}
}

func readExcel(path string) ([]billing.RawRecord, error) {
	const op = "readExcel"

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: opening %s: %w", op, path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: %s has no sheets", op, path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%s: reading sheet %s: %w", op, sheets[0], err)
	}

	return recordsFromRows(path, rows)
}

func readCSV(path string) ([]billing.RawRecord, error) {
	const op = "readCSV"

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: parsing %s: %w", op, path, err)
	}

	return recordsFromRows(path, rows)
}

// recordsFromRows pairs each data row with the header row. Rows with no
// content at all are skipped; short rows simply leave the trailing columns
// absent from the record.
func recordsFromRows(path string, rows [][]string) ([]billing.RawRecord, error) {
	const op = "recordsFromRows"
	log := logger.WithComponent("tabular")

	var header []string
	var records []billing.RawRecord
	skipped := 0

	for _, row := range rows {
		if rowEmpty(row) {
			skipped++
			continue
		}
		if header == nil {
			header = make([]string, len(row))
			for i, cell := range row {
				header[i] = strings.TrimSpace(cell)
			}
			continue
		}

		rec := billing.RawRecord{}
		for i, cell := range row {
			if i >= len(header) || header[i] == "" {
				continue
			}
			rec[header[i]] = strings.TrimSpace(cell)
		}
		records = append(records, rec)
	}

	if header == nil {
		return nil, fmt.Errorf("%s: %s: no header row found", op, path)
	}

	log.Debug().
		Str("file", path).
		Int("records", len(records)).
		Int("skipped_empty", skipped).
		Msg("Loaded tabular rows")

	return records, nil
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
