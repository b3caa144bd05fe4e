package workflows

import "warehouse-backend/internal/reconcile"

const NamePutAway = "putaway"

// PutAway reconciles received purchase-order lines into rack locations.
// Pending shrinks live while the current session is being filled in.
type PutAway struct{}

func (PutAway) Name() string { return NamePutAway }

func (PutAway) Policy() reconcile.Policy {
	return reconcile.Policy{IncludeCurrent: true}
}

func (PutAway) QuantityFields() []string {
	return []string{reconcile.FieldQuantity}
}

func (PutAway) Committed(e reconcile.Entry) int {
	return e.Quantity
}

func (PutAway) ValidateEntry(e reconcile.Entry, _ []reconcile.Session, _ string) string {
	if e.Quantity > 0 && !e.HasFullLocation() {
		return "Select warehouse, floor, lane and rack before saving"
	}
	return ""
}

// PrepareSessionData emits one record per entry with a positive quantity, a
// full location path and a complete item identity.
func (PutAway) PrepareSessionData(entries []reconcile.Entry) []reconcile.SaveRecord {
	var records []reconcile.SaveRecord
	for _, e := range entries {
		if e.Quantity <= 0 || !e.HasFullLocation() || !e.HasIdentity() {
			continue
		}
		records = append(records, reconcile.SaveRecord{
			ItemType:      e.ItemType,
			ItemID:        e.ID,
			SkuID:         e.SkuID,
			SizeID:        e.SizeID,
			MiscName:      e.MiscName,
			WarehouseID:   e.WarehouseID,
			FloorID:       e.FloorID,
			LaneID:        e.LaneID,
			RackID:        e.RackID,
			LocationNotes: e.LocationNotes,
			Quantity:      e.Quantity,
		})
	}
	return records
}
