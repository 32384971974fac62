package ai

import (
	"testing"

	"github.com/str8builders/invoice/internal/billing"
)

func TestParseItemsResponse(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		want         []billing.RawRecord
		wantSalvaged bool
		wantErr      bool
	}{
		{
			name:    "full item",
			content: `{"items":[{"category":"service","description":"Deck framing","date":"2024-03-15","hours":4,"rate":60,"amount":240}]}`,
			want: []billing.RawRecord{{
				"category":    "service",
				"description": "Deck framing",
				"date":        "2024-03-15",
				"hours":       "4",
				"rate":        "60",
				"amount":      "240",
			}},
		},
		{
			name:    "quoted numbers",
			content: `{"items":[{"description":"Screws","amount":"45.50"}]}`,
			want: []billing.RawRecord{{
				"description": "Screws",
				"amount":      "45.50",
			}},
		},
		{
			name:    "fractional hours",
			content: `{"items":[{"description":"Call-out","hours":3.5,"rate":65}]}`,
			want: []billing.RawRecord{{
				"description": "Call-out",
				"hours":       "3.5",
				"rate":        "65",
			}},
		},
		{
			name:    "empty items array",
			content: `{"items":[]}`,
			want:    nil,
		},
		{
			name:    "surrounding whitespace",
			content: "\n  {\"items\":[{\"description\":\"Paint\"}]}  \n",
			want:    []billing.RawRecord{{"description": "Paint"}},
		},
		{
			name:         "item without description is salvaged around",
			content:      `{"items":[{"description":"Labour","hours":2},{"hours":3}]}`,
			want:         []billing.RawRecord{{"description": "Labour", "hours": "2"}},
			wantSalvaged: true,
		},
		{
			name:         "bare top-level array",
			content:      `[{"description":"Skip hire","amount":120}]`,
			want:         []billing.RawRecord{{"description": "Skip hire", "amount": "120"}},
			wantSalvaged: true,
		},
		{
			name:    "wrong envelope",
			content: `{"lines":[{"description":"Labour"}]}`,
			wantErr: true,
		},
		{
			name:    "not json",
			content: `sorry, I cannot do that`,
			wantErr: true,
		},
		{
			name:    "empty content",
			content: "   ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, salvaged, err := parseItemsResponse(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseItemsResponse(%q) error = nil, want error", tt.content)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseItemsResponse(%q) unexpected error: %v", tt.content, err)
			}
			if salvaged != tt.wantSalvaged {
				t.Errorf("salvaged = %v, want %v", salvaged, tt.wantSalvaged)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d records, want %d: %v", len(got), len(tt.want), got)
			}
			for i, want := range tt.want {
				if len(got[i]) != len(want) {
					t.Errorf("record %d has %d fields, want %d: %v", i, len(got[i]), len(want), got[i])
				}
				for k, v := range want {
					if got[i][k] != v {
						t.Errorf("record %d field %q = %q, want %q", i, k, got[i][k], v)
					}
				}
			}
		})
	}
}

func TestRecordsFromItems(t *testing.T) {
	items := []map[string]any{
		{"description": "  Labour  ", "hours": float64(8), "supplier": "ignored"},
		{"description": "Materials", "amount": true},
		{},
	}

	got := recordsFromItems(items)
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2: %v", len(got), got)
	}
	if got[0]["description"] != "Labour" {
		t.Errorf("description = %q, want trimmed %q", got[0]["description"], "Labour")
	}
	if got[0]["hours"] != "8" {
		t.Errorf("hours = %q, want %q", got[0]["hours"], "8")
	}
	if _, ok := got[0]["supplier"]; ok {
		t.Error("unknown field survived conversion")
	}
	if _, ok := got[1]["amount"]; ok {
		t.Error("non-numeric amount survived conversion")
	}
}
