package docext

import (
	"errors"
	"testing"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	datepb "google.golang.org/genproto/googleapis/type/date"
	moneypb "google.golang.org/genproto/googleapis/type/money"
)

func property(propType, mention string) *documentaipb.Document_Entity {
	return &documentaipb.Document_Entity{Type: propType, MentionText: mention}
}

func moneyProperty(propType string, units int64, nanos int32) *documentaipb.Document_Entity {
	return &documentaipb.Document_Entity{
		Type: propType,
		NormalizedValue: &documentaipb.Document_Entity_NormalizedValue{
			StructuredValue: &documentaipb.Document_Entity_NormalizedValue_MoneyValue{
				MoneyValue: &moneypb.Money{CurrencyCode: "NZD", Units: units, Nanos: nanos},
			},
		},
	}
}

func TestRecordFromLineItem(t *testing.T) {
	t.Run("full line item", func(t *testing.T) {
		entity := &documentaipb.Document_Entity{
			Type: "line_item",
			Properties: []*documentaipb.Document_Entity{
				property("line_item/description", " Decking screws 8g "),
				moneyProperty("line_item/amount", 45, 500000000),
				property("line_item/quantity", "2"),
				moneyProperty("line_item/unit_price", 22, 750000000),
			},
		}

		record := recordFromLineItem(entity)
		if record == nil {
			t.Fatal("recordFromLineItem returned nil")
		}
		want := map[string]string{
			"description": "Decking screws 8g",
			"amount":      "45.5",
			"quantity":    "2",
			"rate":        "22.75",
		}
		for k, v := range want {
			if record[k] != v {
				t.Errorf("record[%q] = %q, want %q", k, record[k], v)
			}
		}
	})

	t.Run("description falls back to line text", func(t *testing.T) {
		entity := &documentaipb.Document_Entity{
			Type:        "line_item",
			MentionText: "Skip hire 180.00",
			Properties: []*documentaipb.Document_Entity{
				moneyProperty("line_item/amount", 180, 0),
			},
		}

		record := recordFromLineItem(entity)
		if record == nil {
			t.Fatal("recordFromLineItem returned nil")
		}
		if record["description"] != "Skip hire 180.00" {
			t.Errorf("description = %q", record["description"])
		}
		if record["amount"] != "180" {
			t.Errorf("amount = %q, want %q", record["amount"], "180")
		}
	})

	t.Run("empty line item dropped", func(t *testing.T) {
		entity := &documentaipb.Document_Entity{Type: "line_item", MentionText: "   "}
		if record := recordFromLineItem(entity); record != nil {
			t.Errorf("recordFromLineItem = %v, want nil", record)
		}
	})
}

func TestRecordsFromDocument(t *testing.T) {
	doc := &documentaipb.Document{
		Entities: []*documentaipb.Document_Entity{
			{
				Type: "invoice_date",
				NormalizedValue: &documentaipb.Document_Entity_NormalizedValue{
					StructuredValue: &documentaipb.Document_Entity_NormalizedValue_DateValue{
						DateValue: &datepb.Date{Year: 2024, Month: 3, Day: 15},
					},
				},
			},
			{Type: "supplier_name", MentionText: "PlaceMakers"},
			{
				Type: "line_item",
				Properties: []*documentaipb.Document_Entity{
					property("line_item/description", "GIB plasterboard"),
					property("line_item/amount", "$310.00"),
				},
			},
			{
				Type: "line_item",
				Properties: []*documentaipb.Document_Entity{
					property("line_item/description", "Delivery"),
					property("line_item/date", "2024-03-16"),
				},
			},
		},
	}

	extractor := NewDocumentAIExtractorWithClient(Config{ProjectID: "p", ProcessorID: "x"}, nil)
	records := extractor.recordsFromDocument(doc)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2: %v", len(records), records)
	}
	if records[0]["description"] != "GIB plasterboard" {
		t.Errorf("first description = %q", records[0]["description"])
	}
	if records[0]["amount"] != "$310.00" {
		t.Errorf("amount passes through raw text, got %q", records[0]["amount"])
	}
	if records[0]["date"] != "2024-03-15" {
		t.Errorf("invoice date not applied, date = %q", records[0]["date"])
	}
	if records[1]["date"] != "2024-03-15" {
		t.Errorf("second record date = %q, want invoice date", records[1]["date"])
	}
}

func TestSniffMimeType(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    string
		wantErr error
	}{
		{name: "pdf", data: []byte("%PDF-1.4 ..."), want: "application/pdf"},
		{name: "jpeg", data: []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00}, want: "image/jpeg"},
		{name: "png", data: []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0x00}, want: "image/png"},
		{name: "plain text", data: []byte("hello"), wantErr: ErrUnsupportedFormat},
		{name: "empty", data: nil, wantErr: ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sniffMimeType(tt.data)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("sniffMimeType() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("sniffMimeType() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("sniffMimeType() = %q, want %q", got, tt.want)
			}
		})
	}
}
