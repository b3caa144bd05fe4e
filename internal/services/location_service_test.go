package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"warehouse-backend/internal/models"
	"warehouse-backend/internal/repositories"
)

func TestBuildLayout(t *testing.T) {
	n := 0
	newID := func() string { n++; return fmt.Sprintf("id-%d", n) }

	floors := BuildLayout(models.LayoutRequest{Floors: 2, LanesPerFloor: 3, RacksPerLane: 4, RackCapacity: 50}, newID)
	if len(floors) != 2 || len(floors[1].Lanes) != 3 || len(floors[1].Lanes[2].Racks) != 4 {
		t.Fatalf("unexpected layout shape")
	}
	rack := floors[1].Lanes[2].Racks[3]
	if rack.Name != "F2-L3-R4" || rack.Capacity != 50 || rack.LaneID != floors[1].Lanes[2].ID {
		t.Fatalf("unexpected rack %+v", rack)
	}
	if n != 2+6+24 {
		t.Fatalf("expected %d ids, got %d", 2+6+24, n)
	}
}

func TestGenerateLayout(t *testing.T) {
	locations := &fakeLocations{}
	svc := NewLocationService(locations)
	ctx := context.Background()

	res, err := svc.GenerateLayout(ctx, "w1", models.LayoutRequest{Floors: 1, LanesPerFloor: 2, RacksPerLane: 3})
	if err != nil {
		t.Fatalf("GenerateLayout: %v", err)
	}
	if res.Floors != 1 || res.Lanes != 2 || res.Racks != 6 {
		t.Fatalf("unexpected result %+v", res)
	}

	if _, err := svc.GenerateLayout(ctx, "w1", models.LayoutRequest{Floors: 1, LanesPerFloor: 1, RacksPerLane: 1}); !errors.Is(err, repositories.ErrLayoutExists) {
		t.Fatalf("expected ErrLayoutExists, got %v", err)
	}
	if _, err := svc.GenerateLayout(ctx, "w9", models.LayoutRequest{Floors: 1, LanesPerFloor: 1, RacksPerLane: 1}); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
