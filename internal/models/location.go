package models

import "time"

type Warehouse struct {
	ID        string    `json:"id" db:"id"`
	Code      string    `json:"code" db:"code"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Floor struct {
	ID          string `json:"id" db:"id"`
	WarehouseID string `json:"warehouse_id" db:"warehouse_id"`
	Name        string `json:"name" db:"name"`
	Position    int    `json:"position" db:"position"`
	Lanes       []Lane `json:"lanes,omitempty"`
}

type Lane struct {
	ID       string `json:"id" db:"id"`
	FloorID  string `json:"floor_id" db:"floor_id"`
	Name     string `json:"name" db:"name"`
	Position int    `json:"position" db:"position"`
	Racks    []Rack `json:"racks,omitempty"`
}

type Rack struct {
	ID       string `json:"id" db:"id"`
	LaneID   string `json:"lane_id" db:"lane_id"`
	Name     string `json:"name" db:"name"`
	Position int    `json:"position" db:"position"`
	Capacity int    `json:"capacity" db:"capacity"`
}

// WarehouseTree is a warehouse with its full floor/lane/rack hierarchy, used
// to drive the cascading location selects.
type WarehouseTree struct {
	Warehouse
	Floors []Floor `json:"floors"`
}

// LocationPath is the four-level address of a rack.
type LocationPath struct {
	WarehouseID string `json:"warehouse_id"`
	FloorID     string `json:"floor_id"`
	LaneID      string `json:"lane_id"`
	RackID      string `json:"rack_id"`
}

// LayoutRequest asks for a regular grid of floors x lanes x racks to be
// generated for a warehouse.
type LayoutRequest struct {
	Floors        int `json:"floors" validate:"required,min=1,max=50"`
	LanesPerFloor int `json:"lanes_per_floor" validate:"required,min=1,max=100"`
	RacksPerLane  int `json:"racks_per_lane" validate:"required,min=1,max=200"`
	RackCapacity  int `json:"rack_capacity" validate:"min=0"`
}

type LayoutResult struct {
	WarehouseID string `json:"warehouse_id"`
	Floors      int    `json:"floors"`
	Lanes       int    `json:"lanes"`
	Racks       int    `json:"racks"`
}
