package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/str8builders/invoice/pkg/models"
)

const draftPrefix = "draft/"

// ErrDraftNotFound is returned when loading a draft name that was never
// saved.
var ErrDraftNotFound = errors.New("draft not found")

// SaveDraft persists an invoice draft under its name. Saving over an
// existing name replaces it.
func SaveDraft(ctx context.Context, kv KV, name string, inv models.Invoice) error {
	const op = "SaveDraft"

	data, err := json.Marshal(inv)
	if err != nil {
		return fmt.Errorf("%s: encoding draft %s: %w", op, name, err)
	}
	if err := kv.Set(ctx, draftPrefix+name, data); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// LoadDraft retrieves a saved invoice draft by name.
func LoadDraft(ctx context.Context, kv KV, name string) (models.Invoice, error) {
	const op = "LoadDraft"

	data, found, err := kv.Get(ctx, draftPrefix+name)
	if err != nil {
		return models.Invoice{}, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return models.Invoice{}, fmt.Errorf("%s: %s: %w", op, name, ErrDraftNotFound)
	}

	var inv models.Invoice
	if err := json.Unmarshal(data, &inv); err != nil {
		return models.Invoice{}, fmt.Errorf("%s: decoding draft %s: %w", op, name, err)
	}
	return inv, nil
}

// DeleteDraft removes a saved draft. Unknown names are ignored.
func DeleteDraft(ctx context.Context, kv KV, name string) error {
	return kv.Delete(ctx, draftPrefix+name)
}

// ListDrafts returns the names of all saved drafts, sorted.
func ListDrafts(ctx context.Context, kv KV) ([]string, error) {
	const op = "ListDrafts"

	keys, err := kv.Keys(ctx, draftPrefix)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	names := make([]string, 0, len(keys))
	for _, key := range keys {
		names = append(names, strings.TrimPrefix(key, draftPrefix))
	}
	return names, nil
}
