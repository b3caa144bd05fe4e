package reconcile

// EntryPatch is a partial update of an entry's mutable fields. Nil fields are
// left untouched.
type EntryPatch struct {
	Quantity          *int `json:"quantity,omitempty"`
	ReturnToVendorQty *int `json:"returnToVendorQty,omitempty"`
	AcceptToStockQty  *int `json:"acceptToStockQty,omitempty"`

	WarehouseID   *string `json:"warehouseId,omitempty"`
	FloorID       *string `json:"floorId,omitempty"`
	LaneID        *string `json:"laneId,omitempty"`
	RackID        *string `json:"rackId,omitempty"`
	LocationNotes *string `json:"locationNotes,omitempty"`

	ReturnReason    *string `json:"returnReason,omitempty"`
	Condition       *string `json:"condition,omitempty"`
	AcceptCondition *string `json:"acceptCondition,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	CustomerOrderID *string `json:"customerOrderId,omitempty"`
}

// Fields lists the names of the fields set in p.
func (p EntryPatch) Fields() []string {
	var out []string
	add := func(set bool, name string) {
		if set {
			out = append(out, name)
		}
	}
	add(p.Quantity != nil, FieldQuantity)
	add(p.ReturnToVendorQty != nil, FieldReturnToVendorQty)
	add(p.AcceptToStockQty != nil, FieldAcceptToStockQty)
	add(p.WarehouseID != nil, FieldWarehouseID)
	add(p.FloorID != nil, FieldFloorID)
	add(p.LaneID != nil, FieldLaneID)
	add(p.RackID != nil, FieldRackID)
	add(p.LocationNotes != nil, "locationNotes")
	add(p.ReturnReason != nil, FieldReturnReason)
	add(p.Condition != nil, FieldCondition)
	add(p.AcceptCondition != nil, FieldAcceptCondition)
	add(p.Notes != nil, "notes")
	add(p.CustomerOrderID != nil, "customerOrderId")
	return out
}

// NegativeField reports the first numeric field of p set below zero.
func (p EntryPatch) NegativeField() (string, bool) {
	for _, f := range []struct {
		v    *int
		name string
	}{
		{p.Quantity, FieldQuantity},
		{p.ReturnToVendorQty, FieldReturnToVendorQty},
		{p.AcceptToStockQty, FieldAcceptToStockQty},
	} {
		if f.v != nil && *f.v < 0 {
			return f.name, true
		}
	}
	return "", false
}

// Apply returns e with the patch merged in. Location fields cascade: a new
// warehouse clears floor, lane and rack; a new floor clears lane and rack; a
// new lane clears rack. Child values carried in the same patch are applied
// after the clear.
func (p EntryPatch) Apply(e Entry) Entry {
	if p.Quantity != nil {
		e.Quantity = *p.Quantity
	}
	if p.ReturnToVendorQty != nil {
		e.ReturnToVendorQty = *p.ReturnToVendorQty
	}
	if p.AcceptToStockQty != nil {
		e.AcceptToStockQty = *p.AcceptToStockQty
	}

	if p.WarehouseID != nil {
		e = SetLocation(e, FieldWarehouseID, *p.WarehouseID)
	}
	if p.FloorID != nil {
		e = SetLocation(e, FieldFloorID, *p.FloorID)
	}
	if p.LaneID != nil {
		e = SetLocation(e, FieldLaneID, *p.LaneID)
	}
	if p.RackID != nil {
		e = SetLocation(e, FieldRackID, *p.RackID)
	}

	if p.LocationNotes != nil {
		e.LocationNotes = *p.LocationNotes
	}
	if p.ReturnReason != nil {
		e.ReturnReason = *p.ReturnReason
	}
	if p.Condition != nil {
		e.Condition = *p.Condition
	}
	if p.AcceptCondition != nil {
		e.AcceptCondition = *p.AcceptCondition
	}
	if p.Notes != nil {
		e.Notes = *p.Notes
	}
	if p.CustomerOrderID != nil {
		e.CustomerOrderID = *p.CustomerOrderID
	}
	return e
}

// SetLocation assigns one level of the warehouse/floor/lane/rack path and
// clears every level below it.
func SetLocation(e Entry, field, value string) Entry {
	switch field {
	case FieldWarehouseID:
		e.WarehouseID = value
		e.FloorID, e.LaneID, e.RackID = "", "", ""
	case FieldFloorID:
		e.FloorID = value
		e.LaneID, e.RackID = "", ""
	case FieldLaneID:
		e.LaneID = value
		e.RackID = ""
	case FieldRackID:
		e.RackID = value
	}
	return e
}
