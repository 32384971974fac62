package billing_test

import (
	"testing"

	"github.com/str8builders/invoice/internal/billing"
	"github.com/str8builders/invoice/pkg/models"
)

func TestForwardEditsRecomputeAmount(t *testing.T) {
	item := models.LineItem{Category: models.CategoryService, Hours: 2, Rate: 65, Amount: 130}

	billing.SetHours(&item, 3)
	if item.Amount != 195 {
		t.Fatalf("after SetHours(3): amount = %v, want 195", item.Amount)
	}

	billing.SetRate(&item, 60)
	if item.Amount != 180 {
		t.Fatalf("after SetRate(60): amount = %v, want 180", item.Amount)
	}

	billing.SetHours(&item, -2)
	if item.Hours != 0 || item.Amount != 0 {
		t.Fatalf("negative hours should clamp to zero: %+v", item)
	}
}

func TestPreviewAmountBackDerivesRateOnly(t *testing.T) {
	item := models.LineItem{Category: models.CategoryService, Hours: 2, Rate: 65, Amount: 130}

	billing.PreviewAmount(&item, 100)

	if item.Amount != 100 {
		t.Errorf("amount = %v, want 100", item.Amount)
	}
	if item.Hours != 2 {
		t.Errorf("hours changed mid-edit: %v", item.Hours)
	}
	if item.Rate != 50 {
		t.Errorf("rate = %v, want back-derived 50", item.Rate)
	}
}

func TestPreviewAmountWithZeroHours(t *testing.T) {
	item := models.LineItem{Category: models.CategoryService}

	billing.PreviewAmount(&item, 80)

	if item.Rate != 0 {
		t.Errorf("rate = %v, want 0 (no division by zero hours)", item.Rate)
	}
	if item.Amount != 80 {
		t.Errorf("amount = %v, want 80", item.Amount)
	}
}

func TestCommitAmountSnapsServiceItems(t *testing.T) {
	item := models.LineItem{Category: models.CategoryService, Hours: 2, Rate: 65, Amount: 130}

	billing.PreviewAmount(&item, 100)
	billing.CommitAmount(&item)

	want := models.LineItem{Category: models.CategoryService, Hours: 2, Rate: 60, Amount: 120}
	if item != want {
		t.Errorf("committed item = %+v, want %+v", item, want)
	}
}

func TestCommitAmountLeavesExpenseAlone(t *testing.T) {
	item := models.LineItem{Category: models.CategoryExpense, Hours: 2, Rate: 50, Amount: 100}

	billing.PreviewAmount(&item, 90)
	billing.CommitAmount(&item)

	if item.Amount != 90 || item.Rate != 45 || item.Hours != 2 {
		t.Errorf("expense commit should keep the typed amount: %+v", item)
	}
}

// Toggling category reinterprets the decomposition but never the total.
func TestSwitchCategoryPreservesAmount(t *testing.T) {
	item := models.LineItem{Category: models.CategoryService, Hours: 5, Rate: 20, Amount: 100}

	billing.SwitchCategory(&item, models.CategoryExpense)
	if item.Category != models.CategoryExpense || item.Hours != 1 || item.Rate != 100 || item.Amount != 100 {
		t.Fatalf("after switch to expense: %+v", item)
	}

	billing.SwitchCategory(&item, models.CategoryService)
	if item.Category != models.CategoryService || item.Hours != 1 || item.Rate != 100 || item.Amount != 100 {
		t.Fatalf("after switch back to service: %+v", item)
	}
}

func TestSwitchCategoryDefaultsZeroHours(t *testing.T) {
	item := models.LineItem{Category: models.CategoryExpense, Hours: 0, Rate: 0, Amount: 40}

	billing.SwitchCategory(&item, models.CategoryService)

	if item.Hours != 1 || item.Rate != 40 || item.Amount != 40 {
		t.Errorf("zero hours should default to 1 with rate re-derived: %+v", item)
	}
}

func TestSwitchCategoryNoOps(t *testing.T) {
	item := models.LineItem{Category: models.CategoryService, Hours: 2, Rate: 65, Amount: 130}
	orig := item

	billing.SwitchCategory(&item, models.CategoryService)
	if item != orig {
		t.Errorf("same-category switch mutated item: %+v", item)
	}

	billing.SwitchCategory(&item, models.Category("materials"))
	if item != orig {
		t.Errorf("unknown category switch mutated item: %+v", item)
	}
}
