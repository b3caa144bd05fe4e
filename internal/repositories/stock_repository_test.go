package repositories

import (
	"testing"

	"warehouse-backend/internal/models"
)

func TestMergeMovements(t *testing.T) {
	moves := []models.StockMovement{
		{ItemKey: "sku:a:m", RackID: "r1", Delta: 5},
		{ItemKey: "sku:b:m", RackID: "r1", Delta: 2},
		{ItemKey: "sku:a:m", RackID: "r1", Delta: 3},
		{ItemKey: "sku:b:m", RackID: "r1", Delta: -2},
		{ItemKey: "sku:c:m", RackID: "", Delta: 4},
		{ItemKey: "sku:d:m", RackID: "r2", Delta: 0},
	}
	got := mergeMovements(moves)
	if len(got) != 1 || got[0].ItemKey != "sku:a:m" || got[0].Delta != 8 {
		t.Fatalf("unexpected merge result %+v", got)
	}
}

func TestPutAwayMovementsSign(t *testing.T) {
	items := []models.PutAwaySessionItem{
		{ItemType: "sku", SkuID: "a", SizeID: "m", RackID: "r1", Quantity: 4},
		{ItemType: "misc", MiscName: "wrap", RackID: "r2", Quantity: 1},
	}
	moves := PutAwayMovements(items, -1)
	if len(moves) != 2 || moves[0].Delta != -4 || moves[1].ItemKey != "misc:wrap" {
		t.Fatalf("unexpected moves %+v", moves)
	}
}

func TestReturnMovementsOnlyStockSide(t *testing.T) {
	items := []models.ReturnSessionItem{
		{ItemType: "sku", SkuID: "a", SizeID: "m", ReturnToVendorQty: 3},
		{ItemType: "sku", SkuID: "b", SizeID: "s", ReturnToVendorQty: 1, AcceptToStockQty: 2, RackID: "r1"},
	}
	moves := ReturnMovements(items, 1)
	if len(moves) != 1 || moves[0].ItemKey != "sku:b:s" || moves[0].Delta != 2 {
		t.Fatalf("unexpected moves %+v", moves)
	}
}
