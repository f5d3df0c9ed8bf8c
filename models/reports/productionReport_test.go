package reports

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func TestComputeProductionRowsShortfall(t *testing.T) {
	rows, summary := computeProductionRows([]ProductDemand{
		{ProductId: 1, Name: "Bread", Committed: d(12), Stock: d(5)},
		{ProductId: 2, Name: "Bun", Committed: d(3), Stock: d(5)},
		{ProductId: 3, Name: "Cake", Committed: d(0), Stock: d(0)},
	})

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].ProductId != 1 || !rows[0].ToProduce.Equal(d(7)) {
		t.Fatalf("expected product 1 with to_produce 7 first, got %+v", rows[0])
	}
	// covered demand still appears, floored at zero
	if rows[1].ProductId != 2 || !rows[1].ToProduce.IsZero() {
		t.Fatalf("expected product 2 with to_produce 0, got %+v", rows[1])
	}

	if summary.ProductsConsidered != 2 || summary.ProductsToProduce != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestComputeProductionRowsInclusionRules(t *testing.T) {
	rows, _ := computeProductionRows([]ProductDemand{
		{ProductId: 1, Committed: d(0), Stock: d(10)},
		{ProductId: 2, Committed: d(4), Stock: d(0)},
		{ProductId: 3, Committed: d(0), Stock: d(0)},
	})
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row.ProductId == 3 {
			t.Fatalf("product with zero committed and zero stock must be excluded")
		}
	}
}

func TestComputeProductionRowsStableSort(t *testing.T) {
	rows, _ := computeProductionRows([]ProductDemand{
		{ProductId: 1, Committed: d(5), Stock: d(0)},
		{ProductId: 2, Committed: d(8), Stock: d(0)},
		{ProductId: 3, Committed: d(5), Stock: d(0)},
		{ProductId: 4, Committed: d(1), Stock: d(0)},
	})

	expected := []int{2, 1, 3, 4}
	if len(rows) != len(expected) {
		t.Fatalf("expected %d rows, got %d", len(expected), len(rows))
	}
	for i, productId := range expected {
		if rows[i].ProductId != productId {
			t.Fatalf("position %d: expected product %d, got %d", i, productId, rows[i].ProductId)
		}
	}
}

func TestComputeProductionRowsEmpty(t *testing.T) {
	rows, summary := computeProductionRows(nil)
	if len(rows) != 0 || summary.ProductsConsidered != 0 || summary.ProductsToProduce != 0 {
		t.Fatalf("expected empty result, got %d rows, summary %+v", len(rows), summary)
	}
}
