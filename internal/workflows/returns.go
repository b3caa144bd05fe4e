package workflows

import "warehouse-backend/internal/reconcile"

const NameReturn = "return"

// Return reasons.
const (
	ReasonDamaged        = "damaged"
	ReasonWrongItem      = "wrong_item"
	ReasonExcess         = "excess"
	ReasonDefective      = "defective"
	ReasonCustomerReturn = "customer_return"
	ReasonOther          = "other"
)

// Item conditions, used for both the return and the accept-to-stock side.
const (
	ConditionNew      = "new"
	ConditionGood     = "good"
	ConditionDamaged  = "damaged"
	ConditionUnusable = "unusable"
)

var (
	returnReasons = map[string]bool{
		ReasonDamaged: true, ReasonWrongItem: true, ReasonExcess: true,
		ReasonDefective: true, ReasonCustomerReturn: true, ReasonOther: true,
	}
	conditions = map[string]bool{
		ConditionNew: true, ConditionGood: true, ConditionDamaged: true, ConditionUnusable: true,
	}
)

// Return splits each line between return-to-vendor and accept-to-stock.
// Pending only moves when a session is saved, so the split can be changed
// freely inside the live session.
type Return struct{}

func (Return) Name() string { return NameReturn }

func (Return) Policy() reconcile.Policy {
	return reconcile.Policy{IncludeCurrent: false}
}

func (Return) QuantityFields() []string {
	return []string{reconcile.FieldReturnToVendorQty, reconcile.FieldAcceptToStockQty}
}

func (Return) Committed(e reconcile.Entry) int {
	return e.ReturnToVendorQty + e.AcceptToStockQty
}

func (r Return) ValidateEntry(e reconcile.Entry, _ []reconcile.Session, _ string) string {
	if r.Committed(e) <= 0 {
		return ""
	}
	if e.ReturnReason == "" || e.Condition == "" {
		return "Return reason and condition are required"
	}
	if !returnReasons[e.ReturnReason] {
		return "Unknown return reason: " + e.ReturnReason
	}
	if !conditions[e.Condition] {
		return "Unknown condition: " + e.Condition
	}
	if e.AcceptToStockQty > 0 {
		if !e.HasFullLocation() {
			return "Select warehouse, floor, lane and rack for stock accepted back"
		}
		if e.AcceptCondition == "" {
			return "Accept condition is required when accepting to stock"
		}
		if !conditions[e.AcceptCondition] {
			return "Unknown accept condition: " + e.AcceptCondition
		}
	}
	return ""
}

// PrepareSessionData emits a record per entry with a positive split total
// that passes ValidateEntry: a known reason and condition, plus a location
// path and accept condition when some quantity goes back to stock.
func (r Return) PrepareSessionData(entries []reconcile.Entry) []reconcile.SaveRecord {
	var records []reconcile.SaveRecord
	for _, e := range entries {
		total := r.Committed(e)
		if total <= 0 || !e.HasIdentity() || r.ValidateEntry(e, nil, "") != "" {
			continue
		}
		rec := reconcile.SaveRecord{
			ItemType:          e.ItemType,
			ItemID:            e.ID,
			SkuID:             e.SkuID,
			SizeID:            e.SizeID,
			MiscName:          e.MiscName,
			ReturnReason:      e.ReturnReason,
			Condition:         e.Condition,
			ReturnToVendorQty: e.ReturnToVendorQty,
			AcceptToStockQty:  e.AcceptToStockQty,
			Quantity:          total,
			Notes:             e.Notes,
			CustomerOrderID:   e.CustomerOrderID,
		}
		if e.AcceptToStockQty > 0 {
			rec.WarehouseID = e.WarehouseID
			rec.FloorID = e.FloorID
			rec.LaneID = e.LaneID
			rec.RackID = e.RackID
			rec.AcceptCondition = e.AcceptCondition
		}
		records = append(records, rec)
	}
	return records
}
