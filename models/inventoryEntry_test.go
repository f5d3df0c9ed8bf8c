package models

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCanTransitionTable(t *testing.T) {
	cases := []struct {
		current  InventoryEntryStatus
		target   InventoryEntryStatus
		expected bool
	}{
		{InventoryEntryStatusDraft, InventoryEntryStatusPending, true},
		{InventoryEntryStatusDraft, InventoryEntryStatusApproved, true},
		{InventoryEntryStatusDraft, InventoryEntryStatusCompleted, false},
		{InventoryEntryStatusDraft, InventoryEntryStatusCancelled, true},

		{InventoryEntryStatusPending, InventoryEntryStatusPending, false},
		{InventoryEntryStatusPending, InventoryEntryStatusApproved, true},
		{InventoryEntryStatusPending, InventoryEntryStatusCompleted, true},
		{InventoryEntryStatusPending, InventoryEntryStatusCancelled, true},

		{InventoryEntryStatusApproved, InventoryEntryStatusPending, false},
		{InventoryEntryStatusApproved, InventoryEntryStatusApproved, false},
		{InventoryEntryStatusApproved, InventoryEntryStatusCompleted, true},
		{InventoryEntryStatusApproved, InventoryEntryStatusCancelled, true},

		{InventoryEntryStatusCompleted, InventoryEntryStatusApproved, false},
		{InventoryEntryStatusCompleted, InventoryEntryStatusCompleted, false},
		{InventoryEntryStatusCompleted, InventoryEntryStatusCancelled, false},

		{InventoryEntryStatusCancelled, InventoryEntryStatusApproved, false},
		{InventoryEntryStatusCancelled, InventoryEntryStatusCompleted, false},
		{InventoryEntryStatusCancelled, InventoryEntryStatusCancelled, true},

		{InventoryEntryStatusPending, InventoryEntryStatusDraft, false},
	}
	for _, tc := range cases {
		if got := canTransition(tc.current, tc.target); got != tc.expected {
			t.Fatalf("canTransition(%s, %s) expected %v, got %v", tc.current, tc.target, tc.expected, got)
		}
	}
}

func TestTransitionSourcesMatchesCanTransition(t *testing.T) {
	statuses := []InventoryEntryStatus{
		InventoryEntryStatusDraft, InventoryEntryStatusPending, InventoryEntryStatusApproved,
		InventoryEntryStatusCompleted, InventoryEntryStatusCancelled,
	}
	for _, target := range statuses {
		sources := transitionSources(target)
		for _, current := range statuses {
			inSources := false
			for _, s := range sources {
				if s == current {
					inSources = true
					break
				}
			}
			if inSources != canTransition(current, target) {
				t.Fatalf("transitionSources(%s) disagrees with canTransition for current=%s", target, current)
			}
		}
	}
}

func TestComputeEntryTotalCost(t *testing.T) {
	items := []NewInventoryEntryItem{
		{ProductId: 1, Qty: decimal.NewFromInt(5), UnitCost: decimal.NewFromFloat(2.0)},
		{ProductId: 2, Qty: decimal.NewFromFloat(1.5), UnitCost: decimal.NewFromInt(4)},
		{ProductId: 3, Qty: decimal.NewFromInt(3), UnitCost: decimal.Zero},
	}
	total := computeEntryTotalCost(items)
	if !total.Equal(decimal.NewFromInt(16)) {
		t.Fatalf("expected total 16, got %s", total)
	}

	if !computeEntryTotalCost(nil).IsZero() {
		t.Fatalf("expected zero total for no items")
	}
}

func TestGenerateDocumentNumberFormat(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		number := generateDocumentNumber("PRD")
		if !strings.HasPrefix(number, "PRD-") {
			t.Fatalf("expected PRD- prefix, got %s", number)
		}
		token := strings.TrimPrefix(number, "PRD-")
		if len(token) != 12 {
			t.Fatalf("expected a 12 char token, got %q", token)
		}
		if token != strings.ToUpper(token) {
			t.Fatalf("expected uppercase token, got %q", token)
		}
		if seen[number] {
			t.Fatalf("duplicate number generated: %s", number)
		}
		seen[number] = true
	}
}

func TestEntryNumberPrefixCoversEveryType(t *testing.T) {
	types := []InventoryEntryType{
		InventoryEntryTypeProduction, InventoryEntryTypePurchase, InventoryEntryTypeReturn,
		InventoryEntryTypeAdjustment, InventoryEntryTypeTransfer, InventoryEntryTypeInitial,
	}
	for _, entryType := range types {
		prefix, ok := entryNumberPrefixes[entryType]
		if !ok || len(prefix) != 3 {
			t.Fatalf("missing or malformed prefix for %s: %q", entryType, prefix)
		}
	}
}

func activeProduct(id int, name string) *Product {
	active := true
	return &Product{ID: id, Name: name, IsActive: &active}
}

func inactiveProduct(id int, name string) *Product {
	inactive := false
	return &Product{ID: id, Name: name, IsActive: &inactive}
}

func TestClassifyEntryItems(t *testing.T) {
	products := map[int]*Product{
		1: activeProduct(1, "Bread"),
		2: inactiveProduct(2, "Bun"),
	}

	t.Run("clean purchase item with positive cost", func(t *testing.T) {
		result := classifyEntryItems(InventoryEntryTypePurchase, []InventoryEntryItem{
			{ProductId: 1, Qty: decimal.NewFromInt(2), UnitCost: decimal.NewFromInt(3)},
		}, products)
		if !result.Valid || len(result.Errors) != 0 || len(result.Warnings) != 0 {
			t.Fatalf("expected clean result, got %+v", result)
		}
	})

	t.Run("zero cost on purchase is a warning not an error", func(t *testing.T) {
		result := classifyEntryItems(InventoryEntryTypePurchase, []InventoryEntryItem{
			{ProductId: 1, Qty: decimal.NewFromInt(2), UnitCost: decimal.Zero},
		}, products)
		if !result.Valid {
			t.Fatalf("expected valid, got errors %v", result.Errors)
		}
		if len(result.Warnings) != 1 {
			t.Fatalf("expected one warning, got %v", result.Warnings)
		}
	})

	t.Run("zero cost on transfer is fine", func(t *testing.T) {
		result := classifyEntryItems(InventoryEntryTypeTransfer, []InventoryEntryItem{
			{ProductId: 1, Qty: decimal.NewFromInt(2), UnitCost: decimal.Zero},
		}, products)
		if !result.Valid || len(result.Warnings) != 0 {
			t.Fatalf("expected clean result, got %+v", result)
		}
	})

	t.Run("missing product is an error", func(t *testing.T) {
		result := classifyEntryItems(InventoryEntryTypeProduction, []InventoryEntryItem{
			{ProductId: 99, Qty: decimal.NewFromInt(1), UnitCost: decimal.NewFromInt(1)},
		}, products)
		if result.Valid || len(result.Errors) != 1 {
			t.Fatalf("expected one error, got %+v", result)
		}
	})

	t.Run("inactive product is an error", func(t *testing.T) {
		result := classifyEntryItems(InventoryEntryTypeProduction, []InventoryEntryItem{
			{ProductId: 2, Qty: decimal.NewFromInt(1), UnitCost: decimal.NewFromInt(1)},
		}, products)
		if result.Valid || len(result.Errors) != 1 {
			t.Fatalf("expected one error, got %+v", result)
		}
	})

	t.Run("non positive qty and negative cost are both errors", func(t *testing.T) {
		result := classifyEntryItems(InventoryEntryTypePurchase, []InventoryEntryItem{
			{ProductId: 1, Qty: decimal.Zero, UnitCost: decimal.NewFromInt(-1)},
		}, products)
		if result.Valid || len(result.Errors) != 2 {
			t.Fatalf("expected two errors, got %+v", result)
		}
	})
}
