package models

import "time"

type StockLevel struct {
	ItemKey   string    `json:"item_key" db:"item_key"`
	RackID    string    `json:"rack_id" db:"rack_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// StockMovement is a signed quantity change for one item on one rack.
type StockMovement struct {
	ItemKey string
	RackID  string
	Delta   int
}

// ItemKey identifies a stocked item: "sku:<sku>:<size>" or "misc:<name>".
func ItemKey(itemType, skuID, sizeID, miscName string) string {
	if itemType == "misc" {
		return "misc:" + miscName
	}
	return "sku:" + skuID + ":" + sizeID
}
