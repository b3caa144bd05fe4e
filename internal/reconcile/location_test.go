package reconcile_test

import (
	"testing"

	"warehouse-backend/internal/reconcile"
)

func located() reconcile.Entry {
	return reconcile.Entry{ID: "e1", WarehouseID: "w1", FloorID: "f1", LaneID: "l1", RackID: "r1"}
}

func TestSetLocationCascades(t *testing.T) {
	cases := []struct {
		field string
		value string
		want  reconcile.Entry
	}{
		{reconcile.FieldWarehouseID, "w2", reconcile.Entry{ID: "e1", WarehouseID: "w2"}},
		{reconcile.FieldWarehouseID, "w1", reconcile.Entry{ID: "e1", WarehouseID: "w1"}},
		{reconcile.FieldFloorID, "f2", reconcile.Entry{ID: "e1", WarehouseID: "w1", FloorID: "f2"}},
		{reconcile.FieldLaneID, "l2", reconcile.Entry{ID: "e1", WarehouseID: "w1", FloorID: "f1", LaneID: "l2"}},
		{reconcile.FieldRackID, "r2", reconcile.Entry{ID: "e1", WarehouseID: "w1", FloorID: "f1", LaneID: "l1", RackID: "r2"}},
	}
	for _, tc := range cases {
		got := reconcile.SetLocation(located(), tc.field, tc.value)
		if got != tc.want {
			t.Fatalf("SetLocation(%s=%s) = %+v, want %+v", tc.field, tc.value, got, tc.want)
		}
	}
}

func TestPatchApplyClearsChildrenBeforeApplyingThem(t *testing.T) {
	p := reconcile.EntryPatch{WarehouseID: strp("w9"), FloorID: strp("f9")}
	got := p.Apply(located())
	if got.WarehouseID != "w9" || got.FloorID != "f9" || got.LaneID != "" || got.RackID != "" {
		t.Fatalf("unexpected location after patch: %+v", got)
	}
}

func TestPatchFields(t *testing.T) {
	p := reconcile.EntryPatch{Quantity: intp(3), RackID: strp("r1")}
	fields := p.Fields()
	if len(fields) != 2 || fields[0] != reconcile.FieldQuantity || fields[1] != reconcile.FieldRackID {
		t.Fatalf("unexpected fields %v", fields)
	}
}
