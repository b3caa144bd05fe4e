package models

import "time"

// Return reference types: a customer order, a goods receipt note, or free
// stock.
const (
	ReturnRefOrder     = "order"
	ReturnRefGRN       = "grn"
	ReturnRefInventory = "inventory"
)

const (
	ReturnStatusOpen              = "open"
	ReturnStatusPartiallyReturned = "partially_returned"
	ReturnStatusReturned          = "returned"
)

type ReturnReference struct {
	ID              string    `json:"id" db:"id"`
	ReferenceType   string    `json:"reference_type" db:"reference_type"`
	ReferenceNumber string    `json:"reference_number" db:"reference_number"`
	PartyName       string    `json:"party_name" db:"party_name"`
	Status          string    `json:"status" db:"status"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

type ReturnReferenceLine struct {
	ID              string `json:"id" db:"id"`
	ReferenceID     string `json:"reference_id" db:"reference_id"`
	ItemType        string `json:"item_type" db:"item_type"`
	SkuID           string `json:"sku_id" db:"sku_id"`
	SizeID          string `json:"size_id" db:"size_id"`
	MiscName        string `json:"misc_name" db:"misc_name"`
	Label           string `json:"label" db:"label"`
	Quantity        int    `json:"quantity" db:"quantity"`
	CustomerOrderID string `json:"customer_order_id" db:"customer_order_id"`
	Position        int    `json:"position" db:"position"`
}
