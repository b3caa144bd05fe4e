// Package reconcile records incremental put-away and return work against a
// fixed ordered quantity. Work is grouped into sessions: saved sessions are
// immutable history, and exactly one live session stays editable and shows
// what is still left to allocate.
package reconcile

import (
	"fmt"
	"time"
)

// LiveSessionID is the reserved id of the single unsaved session.
const LiveSessionID = "today"

// DefaultSessionName labels the live session until it is saved.
const DefaultSessionName = "Today"

type ItemType string

const (
	ItemTypeSKU  ItemType = "sku"
	ItemTypeMisc ItemType = "misc"
)

// Field names used in validation keys and patches.
const (
	FieldQuantity          = "quantity"
	FieldReturnToVendorQty = "returnToVendorQty"
	FieldAcceptToStockQty  = "acceptToStockQty"
	FieldWarehouseID       = "warehouseId"
	FieldFloorID           = "floorId"
	FieldLaneID            = "laneId"
	FieldRackID            = "rackId"
	FieldReturnReason      = "returnReason"
	FieldCondition         = "condition"
	FieldAcceptCondition   = "acceptCondition"
	FieldEntry             = "entry"
)

// Entry is one line item being reconciled inside a session.
type Entry struct {
	ID       string   `json:"id"`
	ItemType ItemType `json:"itemType"`
	SkuID    string   `json:"skuId,omitempty"`
	SizeID   string   `json:"sizeId,omitempty"`
	MiscName string   `json:"miscName,omitempty"`
	Label    string   `json:"label,omitempty"`

	Ordered int `json:"ordered"`
	Pending int `json:"pending"`

	Quantity          int `json:"quantity"`
	ReturnToVendorQty int `json:"returnToVendorQty"`
	AcceptToStockQty  int `json:"acceptToStockQty"`

	WarehouseID   string `json:"warehouseId,omitempty"`
	FloorID       string `json:"floorId,omitempty"`
	LaneID        string `json:"laneId,omitempty"`
	RackID        string `json:"rackId,omitempty"`
	LocationNotes string `json:"locationNotes,omitempty"`

	ReturnReason    string `json:"returnReason,omitempty"`
	Condition       string `json:"condition,omitempty"`
	AcceptCondition string `json:"acceptCondition,omitempty"`
	Notes           string `json:"notes,omitempty"`
	CustomerOrderID string `json:"customerOrderId,omitempty"`
}

// QuantityField returns the value of a numeric field by name.
func (e Entry) QuantityField(name string) (int, bool) {
	switch name {
	case FieldQuantity:
		return e.Quantity, true
	case FieldReturnToVendorQty:
		return e.ReturnToVendorQty, true
	case FieldAcceptToStockQty:
		return e.AcceptToStockQty, true
	}
	return 0, false
}

// HasIdentity reports whether the entry carries the fields that identify its
// item variant.
func (e Entry) HasIdentity() bool {
	switch e.ItemType {
	case ItemTypeSKU:
		return e.SkuID != "" && e.SizeID != ""
	case ItemTypeMisc:
		return e.MiscName != ""
	}
	return false
}

// HasFullLocation reports whether warehouse, floor, lane and rack are all set.
func (e Entry) HasFullLocation() bool {
	return e.WarehouseID != "" && e.FloorID != "" && e.LaneID != "" && e.RackID != ""
}

// Session is a named, timestamped batch of entries.
type Session struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
	Entries   []Entry   `json:"entries"`
	IsSaved   bool      `json:"isSaved"`
}

func (s *Session) entryIndex(entryID string) int {
	for i := range s.Entries {
		if s.Entries[i].ID == entryID {
			return i
		}
	}
	return -1
}

func (s Session) clone() Session {
	c := s
	c.Entries = append([]Entry(nil), s.Entries...)
	return c
}

// SaveRecord is what a Session Service persists for one entry. Put-away fills
// Quantity and the location; returns additionally fill the split quantities,
// reason and condition. Quantity is always the committed total.
type SaveRecord struct {
	ItemType ItemType `json:"itemType"`
	ItemID   string   `json:"itemId"`
	SkuID    string   `json:"skuId,omitempty"`
	SizeID   string   `json:"sizeId,omitempty"`
	MiscName string   `json:"miscName,omitempty"`

	WarehouseID   string `json:"warehouseId,omitempty"`
	FloorID       string `json:"floorId,omitempty"`
	LaneID        string `json:"laneId,omitempty"`
	RackID        string `json:"rackId,omitempty"`
	LocationNotes string `json:"locationNotes,omitempty"`

	Quantity int `json:"quantity"`

	ReturnReason      string `json:"returnReason,omitempty"`
	Condition         string `json:"condition,omitempty"`
	ReturnToVendorQty int    `json:"returnToVendorQty,omitempty"`
	AcceptToStockQty  int    `json:"acceptToStockQty,omitempty"`
	AcceptCondition   string `json:"acceptCondition,omitempty"`
	Notes             string `json:"notes,omitempty"`
	CustomerOrderID   string `json:"customerOrderId,omitempty"`
}

// ValidationKey identifies one field of one entry in one session.
type ValidationKey struct {
	SessionID string `json:"sessionId"`
	EntryID   string `json:"entryId"`
	Field     string `json:"field"`
}

func (k ValidationKey) String() string {
	return k.SessionID + ":" + k.EntryID + ":" + k.Field
}

// ValidationError is returned when an edit is rejected. The store state is
// unchanged when it is returned.
type ValidationError struct {
	Key     ValidationKey
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Key, e.Message)
}
