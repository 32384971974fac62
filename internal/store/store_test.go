package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/str8builders/invoice/internal/store"
	"github.com/str8builders/invoice/pkg/models"
)

func openTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestKVRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, found, err := s.Get(ctx, "missing"); err != nil || found {
		t.Fatalf("Get(missing) = found %v, err %v", found, err)
	}

	if err := s.Set(ctx, "a", []byte("one")); err != nil {
		t.Fatalf("Set() = %v", err)
	}
	value, found, err := s.Get(ctx, "a")
	if err != nil || !found || string(value) != "one" {
		t.Fatalf("Get(a) = %q, found %v, err %v", value, found, err)
	}

	// Overwrite replaces.
	if err := s.Set(ctx, "a", []byte("two")); err != nil {
		t.Fatalf("Set() = %v", err)
	}
	value, _, _ = s.Get(ctx, "a")
	if string(value) != "two" {
		t.Errorf("Get(a) after overwrite = %q", value)
	}

	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete() = %v", err)
	}
	if _, found, _ := s.Get(ctx, "a"); found {
		t.Error("key survived delete")
	}
	if err := s.Delete(ctx, "a"); err != nil {
		t.Errorf("deleting absent key = %v", err)
	}
}

func TestKeysFiltersByPrefix(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, key := range []string{"draft/b", "draft/a", "seq/20240315"} {
		if err := s.Set(ctx, key, []byte("x")); err != nil {
			t.Fatalf("Set(%s) = %v", key, err)
		}
	}

	keys, err := s.Keys(ctx, "draft/")
	if err != nil {
		t.Fatalf("Keys() = %v", err)
	}
	if len(keys) != 2 || keys[0] != "draft/a" || keys[1] != "draft/b" {
		t.Errorf("Keys(draft/) = %v", keys)
	}
}

func TestDraftRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	inv := models.Invoice{
		Number: "STR8-20240315-01",
		Date:   "2024-03-15",
		Business: models.BusinessDetails{
			Name:      "STR8 BUILDERS LTD",
			GSTNumber: "123-456-789",
		},
		Client: models.Client{Name: "J Smith"},
		Items: []models.LineItem{
			{ID: "i1", Category: models.CategoryService, Description: "Site consultation", Hours: 2, Rate: 65, Amount: 130},
			{ID: "i2", Category: models.CategoryExpense, Description: "Bunnings screws", Hours: 1, Rate: 45, Amount: 45},
		},
		CreatedAt: time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC),
	}

	if err := store.SaveDraft(ctx, s, "current", inv); err != nil {
		t.Fatalf("SaveDraft() = %v", err)
	}

	loaded, err := store.LoadDraft(ctx, s, "current")
	if err != nil {
		t.Fatalf("LoadDraft() = %v", err)
	}
	if loaded.Number != inv.Number || len(loaded.Items) != 2 {
		t.Errorf("loaded draft = %+v", loaded)
	}
	if loaded.Items[0] != inv.Items[0] || loaded.Items[1] != inv.Items[1] {
		t.Errorf("items did not survive the round trip: %+v", loaded.Items)
	}

	names, err := store.ListDrafts(ctx, s)
	if err != nil {
		t.Fatalf("ListDrafts() = %v", err)
	}
	if len(names) != 1 || names[0] != "current" {
		t.Errorf("ListDrafts() = %v", names)
	}

	if _, err := store.LoadDraft(ctx, s, "nope"); !errors.Is(err, store.ErrDraftNotFound) {
		t.Errorf("LoadDraft(nope) = %v, want ErrDraftNotFound", err)
	}

	if err := store.DeleteDraft(ctx, s, "current"); err != nil {
		t.Fatalf("DeleteDraft() = %v", err)
	}
	if _, err := store.LoadDraft(ctx, s, "current"); !errors.Is(err, store.ErrDraftNotFound) {
		t.Errorf("draft survived delete: %v", err)
	}
}

func TestNextInvoiceNumber(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	day := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	first, err := store.NextInvoiceNumber(ctx, s, "STR8", day)
	if err != nil {
		t.Fatalf("NextInvoiceNumber() = %v", err)
	}
	if first != "STR8-20240315-01" {
		t.Errorf("first = %q", first)
	}

	second, err := store.NextInvoiceNumber(ctx, s, "STR8", day)
	if err != nil {
		t.Fatalf("NextInvoiceNumber() = %v", err)
	}
	if second != "STR8-20240315-02" {
		t.Errorf("second = %q", second)
	}

	nextDay, err := store.NextInvoiceNumber(ctx, s, "STR8", day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("NextInvoiceNumber() = %v", err)
	}
	if nextDay != "STR8-20240316-01" {
		t.Errorf("next day should restart: %q", nextDay)
	}
}
