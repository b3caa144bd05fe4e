package services

import (
	"context"
	"fmt"

	"warehouse-backend/internal/idgen"
	"warehouse-backend/internal/models"
)

type LocationService struct {
	Locations LocationStore
}

func NewLocationService(locations LocationStore) *LocationService {
	return &LocationService{Locations: locations}
}

func (s *LocationService) ListWarehouses(ctx context.Context) ([]models.Warehouse, error) {
	return s.Locations.ListWarehouses(ctx)
}

func (s *LocationService) Tree(ctx context.Context, warehouseID string) (*models.WarehouseTree, error) {
	return s.Locations.Tree(ctx, warehouseID)
}

// GenerateLayout creates floors F1..Fn, lanes F1-L1.. and racks F1-L1-R1..
// for a warehouse that has no layout yet.
func (s *LocationService) GenerateLayout(ctx context.Context, warehouseID string, req models.LayoutRequest) (*models.LayoutResult, error) {
	if _, err := s.Locations.GetWarehouse(ctx, warehouseID); err != nil {
		return nil, err
	}

	floors := BuildLayout(req, idgen.GenerateString)
	if err := s.Locations.CreateLayout(ctx, warehouseID, floors); err != nil {
		return nil, err
	}

	result := &models.LayoutResult{WarehouseID: warehouseID, Floors: len(floors)}
	for _, f := range floors {
		result.Lanes += len(f.Lanes)
		for _, l := range f.Lanes {
			result.Racks += len(l.Racks)
		}
	}
	return result, nil
}

// BuildLayout expands a layout request into the floor/lane/rack tree.
func BuildLayout(req models.LayoutRequest, newID func() string) []models.Floor {
	floors := make([]models.Floor, 0, req.Floors)
	for f := 1; f <= req.Floors; f++ {
		floor := models.Floor{ID: newID(), Name: fmt.Sprintf("F%d", f), Position: f}
		for l := 1; l <= req.LanesPerFloor; l++ {
			lane := models.Lane{ID: newID(), FloorID: floor.ID, Name: fmt.Sprintf("%s-L%d", floor.Name, l), Position: l}
			for r := 1; r <= req.RacksPerLane; r++ {
				lane.Racks = append(lane.Racks, models.Rack{
					ID:       newID(),
					LaneID:   lane.ID,
					Name:     fmt.Sprintf("%s-R%d", lane.Name, r),
					Position: r,
					Capacity: req.RackCapacity,
				})
			}
			floor.Lanes = append(floor.Lanes, lane)
		}
		floors = append(floors, floor)
	}
	return floors
}
