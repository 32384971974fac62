package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/str8builders/invoice/internal/billing"
)

// buildItemsSchema returns the JSON Schema the extraction response must
// satisfy, as a generic map. Numeric fields also accept strings because
// models sometimes quote numbers; the normalizer parses both.
func buildItemsSchema() map[string]any {
	numeric := map[string]any{"type": []string{"number", "string"}}

	item := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"category":    map[string]any{"type": "string"},
			"description": map[string]any{"type": "string", "minLength": 1},
			"date":        map[string]any{"type": "string"},
			"hours":       numeric,
			"rate":        numeric,
			"amount":      numeric,
		},
		"required": []string{"description"},
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"items": map[string]any{"type": "array", "items": item},
		},
		"required": []string{"items"},
	}
}

// validateItems checks data against the extraction schema.
func validateItems(data []byte) error {
	b, err := json.Marshal(buildItemsSchema())
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// parseItemsResponse turns a model response into raw records. When the
// response fails strict validation it falls back to salvaging whichever
// items are individually well formed; salvaged reports whether that
// happened. An error means nothing usable came back and the caller
// should retry.
func parseItemsResponse(content string) (records []billing.RawRecord, salvaged bool, err error) {
	data := []byte(strings.TrimSpace(content))
	if len(data) == 0 {
		return nil, false, fmt.Errorf("empty response")
	}

	if err := validateItems(data); err == nil {
		var resp struct {
			Items []map[string]any `json:"items"`
		}
		if uerr := json.Unmarshal(data, &resp); uerr != nil {
			return nil, false, fmt.Errorf("parse response: %w", uerr)
		}
		return recordsFromItems(resp.Items), false, nil
	}

	var v any
	if uerr := json.Unmarshal(data, &v); uerr != nil {
		return nil, false, fmt.Errorf("parse response: %w", uerr)
	}
	items := salvageItems(v)
	if len(items) == 0 {
		return nil, false, fmt.Errorf("no usable items in response")
	}
	return recordsFromItems(items), true, nil
}

// salvageItems pulls individually well-formed items out of a response
// that failed strict validation. It accepts either the expected
// {"items": [...]} envelope or a bare top-level array, and keeps any
// object with a non-empty description.
func salvageItems(v any) []map[string]any {
	var raw []any
	switch t := v.(type) {
	case map[string]any:
		arr, ok := t["items"].([]any)
		if !ok {
			return nil
		}
		raw = arr
	case []any:
		raw = t
	default:
		return nil
	}

	var items []map[string]any
	for _, entry := range raw {
		item, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		desc, ok := item["description"].(string)
		if !ok || strings.TrimSpace(desc) == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}

var recordFields = []string{"category", "description", "date", "hours", "rate", "amount"}

// recordsFromItems converts decoded item maps into raw records, keeping
// only the fields the normalizer understands.
func recordsFromItems(items []map[string]any) []billing.RawRecord {
	records := make([]billing.RawRecord, 0, len(items))
	for _, item := range items {
		record := billing.RawRecord{}
		for _, field := range recordFields {
			if s := stringValue(item[field]); s != "" {
				record[field] = s
			}
		}
		if len(record) == 0 {
			continue
		}
		records = append(records, record)
	}
	if len(records) == 0 {
		return nil
	}
	return records
}

// stringValue renders a decoded JSON value as the normalizer's string
// form. Unsupported types come back empty and the field is dropped.
func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}
