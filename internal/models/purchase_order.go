package models

import "time"

const (
	POStatusPending          = "pending"
	POStatusPartiallyPutAway = "partially_put_away"
	POStatusPutAway          = "put_away"
)

type PurchaseOrder struct {
	ID           string    `json:"id" db:"id"`
	PONumber     string    `json:"po_number" db:"po_number"`
	SupplierName string    `json:"supplier_name" db:"supplier_name"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type PurchaseOrderLine struct {
	ID              string `json:"id" db:"id"`
	PurchaseOrderID string `json:"purchase_order_id" db:"purchase_order_id"`
	ItemType        string `json:"item_type" db:"item_type"`
	SkuID           string `json:"sku_id" db:"sku_id"`
	SizeID          string `json:"size_id" db:"size_id"`
	MiscName        string `json:"misc_name" db:"misc_name"`
	Label           string `json:"label" db:"label"`
	OrderedQty      int    `json:"ordered_qty" db:"ordered_qty"`
	Position        int    `json:"position" db:"position"`
}
