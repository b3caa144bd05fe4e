package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"warehouse-backend/internal/models"
)

var ErrLayoutExists = errors.New("warehouse already has a layout")

type LocationRepository struct {
	DB *pgxpool.Pool
}

func NewLocationRepository(db *pgxpool.Pool) *LocationRepository {
	return &LocationRepository{DB: db}
}

func (r *LocationRepository) ListWarehouses(ctx context.Context) ([]models.Warehouse, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, code, name, created_at FROM warehouses ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var warehouses []models.Warehouse
	for rows.Next() {
		var w models.Warehouse
		if err := rows.Scan(&w.ID, &w.Code, &w.Name, &w.CreatedAt); err != nil {
			return nil, err
		}
		warehouses = append(warehouses, w)
	}
	return warehouses, rows.Err()
}

func (r *LocationRepository) GetWarehouse(ctx context.Context, id string) (*models.Warehouse, error) {
	w := &models.Warehouse{}
	err := r.DB.QueryRow(ctx,
		`SELECT id, code, name, created_at FROM warehouses WHERE id = $1`, id,
	).Scan(&w.ID, &w.Code, &w.Name, &w.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return w, nil
}

// Tree loads a warehouse with every floor, lane and rack beneath it.
func (r *LocationRepository) Tree(ctx context.Context, warehouseID string) (*models.WarehouseTree, error) {
	w, err := r.GetWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx, `
		SELECT f.id, f.name, f.position,
		       l.id, l.name, l.position,
		       rk.id, rk.name, rk.position, rk.capacity
		FROM floors f
		LEFT JOIN lanes l ON l.floor_id = f.id
		LEFT JOIN racks rk ON rk.lane_id = l.id
		WHERE f.warehouse_id = $1
		ORDER BY f.position, l.position, rk.position
	`, warehouseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tree := &models.WarehouseTree{Warehouse: *w, Floors: []models.Floor{}}
	for rows.Next() {
		var (
			floor                 models.Floor
			laneID, laneName      *string
			lanePos               *int
			rackID, rackName      *string
			rackPos, rackCapacity *int
		)
		if err := rows.Scan(
			&floor.ID, &floor.Name, &floor.Position,
			&laneID, &laneName, &lanePos,
			&rackID, &rackName, &rackPos, &rackCapacity,
		); err != nil {
			return nil, err
		}
		floor.WarehouseID = warehouseID

		n := len(tree.Floors)
		if n == 0 || tree.Floors[n-1].ID != floor.ID {
			tree.Floors = append(tree.Floors, floor)
			n++
		}
		f := &tree.Floors[n-1]
		if laneID == nil {
			continue
		}

		m := len(f.Lanes)
		if m == 0 || f.Lanes[m-1].ID != *laneID {
			f.Lanes = append(f.Lanes, models.Lane{ID: *laneID, FloorID: f.ID, Name: *laneName, Position: *lanePos})
			m++
		}
		l := &f.Lanes[m-1]
		if rackID == nil {
			continue
		}
		l.Racks = append(l.Racks, models.Rack{
			ID: *rackID, LaneID: l.ID, Name: *rackName, Position: *rackPos, Capacity: *rackCapacity,
		})
	}
	return tree, rows.Err()
}

// PathExists reports whether the rack sits under the lane, floor and
// warehouse named in p.
func (r *LocationRepository) PathExists(ctx context.Context, p models.LocationPath) (bool, error) {
	var ok bool
	err := r.DB.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM racks rk
			JOIN lanes l ON l.id = rk.lane_id
			JOIN floors f ON f.id = l.floor_id
			WHERE rk.id = $4 AND l.id = $3 AND f.id = $2 AND f.warehouse_id = $1
		)
	`, p.WarehouseID, p.FloorID, p.LaneID, p.RackID).Scan(&ok)
	return ok, err
}

// CreateLayout bulk inserts floors with their lanes and racks. It refuses a
// warehouse that already has floors.
func (r *LocationRepository) CreateLayout(ctx context.Context, warehouseID string, floors []models.Floor) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var existing int
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM floors WHERE warehouse_id = $1`, warehouseID,
	).Scan(&existing); err != nil {
		return err
	}
	if existing > 0 {
		return ErrLayoutExists
	}

	var floorRows, laneRows, rackRows [][]any
	for _, f := range floors {
		floorRows = append(floorRows, []any{f.ID, warehouseID, f.Name, f.Position})
		for _, l := range f.Lanes {
			laneRows = append(laneRows, []any{l.ID, f.ID, l.Name, l.Position})
			for _, rk := range l.Racks {
				rackRows = append(rackRows, []any{rk.ID, l.ID, rk.Name, rk.Position, rk.Capacity})
			}
		}
	}

	copies := []struct {
		table string
		cols  []string
		rows  [][]any
	}{
		{"floors", []string{"id", "warehouse_id", "name", "position"}, floorRows},
		{"lanes", []string{"id", "floor_id", "name", "position"}, laneRows},
		{"racks", []string{"id", "lane_id", "name", "position", "capacity"}, rackRows},
	}
	for _, c := range copies {
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{c.table}, c.cols, pgx.CopyFromRows(c.rows)); err != nil {
			return fmt.Errorf("insert %s: %w", c.table, err)
		}
	}

	return tx.Commit(ctx)
}
