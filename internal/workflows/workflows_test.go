package workflows

import (
	"testing"

	"warehouse-backend/internal/reconcile"
)

func sku(id string) reconcile.Entry {
	return reconcile.Entry{ID: id, ItemType: reconcile.ItemTypeSKU, SkuID: "sku-" + id, SizeID: "m", Ordered: 10}
}

func withLocation(e reconcile.Entry) reconcile.Entry {
	e.WarehouseID, e.FloorID, e.LaneID, e.RackID = "w1", "f1", "l1", "r1"
	return e
}

func TestByName(t *testing.T) {
	for _, name := range Names() {
		wf, ok := ByName(name)
		if !ok || wf.Name() != name {
			t.Fatalf("ByName(%q) = %v, %v", name, wf, ok)
		}
	}
	if _, ok := ByName("transfer"); ok {
		t.Fatalf("unknown workflow resolved")
	}
}

func TestPutAwayPrepareSessionData(t *testing.T) {
	ready := withLocation(sku("a"))
	ready.Quantity = 4

	noLocation := sku("b")
	noLocation.Quantity = 3

	zero := withLocation(sku("c"))

	noIdentity := withLocation(reconcile.Entry{ID: "d", ItemType: reconcile.ItemTypeSKU, SkuID: "x"})
	noIdentity.Quantity = 1

	misc := withLocation(reconcile.Entry{ID: "e", ItemType: reconcile.ItemTypeMisc, MiscName: "pallet wrap"})
	misc.Quantity = 2

	records := PutAway{}.PrepareSessionData([]reconcile.Entry{ready, noLocation, zero, noIdentity, misc})
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %+v", records)
	}
	if records[0].ItemID != "a" || records[0].Quantity != 4 || records[0].RackID != "r1" {
		t.Fatalf("unexpected first record %+v", records[0])
	}
	if records[1].ItemType != reconcile.ItemTypeMisc || records[1].MiscName != "pallet wrap" {
		t.Fatalf("unexpected misc record %+v", records[1])
	}
}

func TestPutAwayValidateEntry(t *testing.T) {
	e := sku("a")
	if msg := (PutAway{}).ValidateEntry(e, nil, reconcile.LiveSessionID); msg != "" {
		t.Fatalf("zero quantity should pass, got %q", msg)
	}
	e.Quantity = 2
	if msg := (PutAway{}).ValidateEntry(e, nil, reconcile.LiveSessionID); msg == "" {
		t.Fatalf("expected missing location error")
	}
	if msg := (PutAway{}).ValidateEntry(withLocation(e), nil, reconcile.LiveSessionID); msg != "" {
		t.Fatalf("expected valid entry, got %q", msg)
	}
}

func TestReturnValidateEntry(t *testing.T) {
	base := sku("a")
	base.ReturnToVendorQty = 2
	base.ReturnReason = ReasonDamaged
	base.Condition = ConditionDamaged

	cases := []struct {
		name   string
		mutate func(e *reconcile.Entry)
		ok     bool
	}{
		{"vendor only", func(e *reconcile.Entry) {}, true},
		{"missing reason", func(e *reconcile.Entry) { e.ReturnReason = "" }, false},
		{"unknown reason", func(e *reconcile.Entry) { e.ReturnReason = "bored" }, false},
		{"unknown condition", func(e *reconcile.Entry) { e.Condition = "shiny" }, false},
		{"accept without location", func(e *reconcile.Entry) {
			e.AcceptToStockQty = 1
			e.AcceptCondition = ConditionGood
		}, false},
		{"accept without condition", func(e *reconcile.Entry) {
			*e = withLocation(*e)
			e.AcceptToStockQty = 1
		}, false},
		{"accept complete", func(e *reconcile.Entry) {
			*e = withLocation(*e)
			e.AcceptToStockQty = 1
			e.AcceptCondition = ConditionGood
		}, true},
		{"nothing entered", func(e *reconcile.Entry) {
			e.ReturnToVendorQty = 0
			e.ReturnReason = ""
		}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := base
			tc.mutate(&e)
			msg := Return{}.ValidateEntry(e, nil, reconcile.LiveSessionID)
			if tc.ok && msg != "" {
				t.Fatalf("expected valid, got %q", msg)
			}
			if !tc.ok && msg == "" {
				t.Fatalf("expected an error")
			}
		})
	}
}

func TestReturnPrepareSessionData(t *testing.T) {
	vendor := sku("a")
	vendor.ReturnToVendorQty = 3
	vendor.ReturnReason = ReasonExcess
	vendor.Condition = ConditionNew
	vendor.WarehouseID = "w1"

	split := withLocation(sku("b"))
	split.ReturnToVendorQty = 1
	split.AcceptToStockQty = 2
	split.ReturnReason = ReasonCustomerReturn
	split.Condition = ConditionGood
	split.AcceptCondition = ConditionGood

	noReason := sku("c")
	noReason.ReturnToVendorQty = 1
	noReason.Condition = ConditionGood

	acceptNoRack := sku("d")
	acceptNoRack.AcceptToStockQty = 1
	acceptNoRack.ReturnReason = ReasonOther
	acceptNoRack.Condition = ConditionGood

	unknownReason := sku("e")
	unknownReason.ReturnToVendorQty = 2
	unknownReason.ReturnReason = "bored"
	unknownReason.Condition = "shiny"

	noAcceptCondition := withLocation(sku("f"))
	noAcceptCondition.AcceptToStockQty = 3
	noAcceptCondition.ReturnReason = ReasonCustomerReturn
	noAcceptCondition.Condition = ConditionGood

	records := Return{}.PrepareSessionData([]reconcile.Entry{vendor, split, noReason, acceptNoRack, unknownReason, noAcceptCondition})
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %+v", records)
	}
	if records[0].Quantity != 3 || records[0].WarehouseID != "" {
		t.Fatalf("vendor-only record should carry no location: %+v", records[0])
	}
	r := records[1]
	if r.Quantity != 3 || r.ReturnToVendorQty != 1 || r.AcceptToStockQty != 2 || r.RackID != "r1" || r.AcceptCondition != ConditionGood {
		t.Fatalf("unexpected split record %+v", r)
	}
}
