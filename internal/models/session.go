package models

import "time"

// SessionHeader is a saved put-away or return session row.
type SessionHeader struct {
	ID          string    `json:"id" db:"id"`
	ReferenceID string    `json:"reference_id" db:"reference_id"`
	Name        string    `json:"name" db:"name"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type PutAwaySessionItem struct {
	ID            string `json:"id" db:"id"`
	SessionID     string `json:"session_id" db:"session_id"`
	LineID        string `json:"line_id" db:"line_id"`
	ItemType      string `json:"item_type" db:"item_type"`
	SkuID         string `json:"sku_id" db:"sku_id"`
	SizeID        string `json:"size_id" db:"size_id"`
	MiscName      string `json:"misc_name" db:"misc_name"`
	WarehouseID   string `json:"warehouse_id" db:"warehouse_id"`
	FloorID       string `json:"floor_id" db:"floor_id"`
	LaneID        string `json:"lane_id" db:"lane_id"`
	RackID        string `json:"rack_id" db:"rack_id"`
	LocationNotes string `json:"location_notes" db:"location_notes"`
	Quantity      int    `json:"quantity" db:"quantity"`
}

type ReturnSessionItem struct {
	ID                string `json:"id" db:"id"`
	SessionID         string `json:"session_id" db:"session_id"`
	LineID            string `json:"line_id" db:"line_id"`
	ItemType          string `json:"item_type" db:"item_type"`
	SkuID             string `json:"sku_id" db:"sku_id"`
	SizeID            string `json:"size_id" db:"size_id"`
	MiscName          string `json:"misc_name" db:"misc_name"`
	ReturnReason      string `json:"return_reason" db:"return_reason"`
	Condition         string `json:"condition" db:"item_condition"`
	ReturnToVendorQty int    `json:"return_to_vendor_qty" db:"return_to_vendor_qty"`
	AcceptToStockQty  int    `json:"accept_to_stock_qty" db:"accept_to_stock_qty"`
	Quantity          int    `json:"quantity" db:"quantity"`
	AcceptCondition   string `json:"accept_condition" db:"accept_condition"`
	WarehouseID       string `json:"warehouse_id" db:"warehouse_id"`
	FloorID           string `json:"floor_id" db:"floor_id"`
	LaneID            string `json:"lane_id" db:"lane_id"`
	RackID            string `json:"rack_id" db:"rack_id"`
	Notes             string `json:"notes" db:"notes"`
	CustomerOrderID   string `json:"customer_order_id" db:"customer_order_id"`
}

type PutAwaySession struct {
	SessionHeader
	Items []PutAwaySessionItem `json:"items"`
}

type ReturnSession struct {
	SessionHeader
	Items []ReturnSessionItem `json:"items"`
}

// SaveSessionRequest is the body of a save call.
type SaveSessionRequest struct {
	Name string `json:"name" validate:"max=120"`
}
