package tabular_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/str8builders/invoice/internal/tabular"
)

func TestReadRecordsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.csv")
	csv := "Description,Hours,Rate,Amount\n" +
		"Site consultation,,,130\n" +
		"Bunnings screws,,,45\n" +
		"\n" +
		"Renovation work,4,65,\n"
	if err := os.WriteFile(path, []byte(csv), 0644); err != nil {
		t.Fatal(err)
	}

	records, err := tabular.ReadRecords(path)
	if err != nil {
		t.Fatalf("ReadRecords() = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3 (blank row skipped)", len(records))
	}
	if records[0]["Description"] != "Site consultation" || records[0]["Amount"] != "130" {
		t.Errorf("first record = %v", records[0])
	}
	if records[2]["Hours"] != "4" || records[2]["Rate"] != "65" {
		t.Errorf("third record = %v", records[2])
	}
	if _, ok := records[0]["Hours"]; !ok {
		t.Errorf("empty cells should still be keyed: %v", records[0])
	}
}

func TestReadRecordsExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.xlsx")

	f := excelize.NewFile()
	defer f.Close()
	headers := []string{"Date", "Description", "Amount"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetCellValue("Sheet1", cell, h); err != nil {
			t.Fatal(err)
		}
	}
	row := []string{"15/03/2024", "Deck rebuild", "1300"}
	for i, v := range row {
		cell, err := excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetCellValue("Sheet1", cell, v); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}

	records, err := tabular.ReadRecords(path)
	if err != nil {
		t.Fatalf("ReadRecords() = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0]["Description"] != "Deck rebuild" || records[0]["Date"] != "15/03/2024" {
		t.Errorf("record = %v", records[0])
	}
}

func TestReadRecordsRejectsUnknownExtension(t *testing.T) {
	if _, err := tabular.ReadRecords("items.pdf"); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestReadRecordsRequiresHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, []byte("\n\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := tabular.ReadRecords(path); err == nil {
		t.Error("expected error for file without header row")
	}
}
