package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"warehouse-backend/internal/models"
)

type StockRepository struct {
	DB *pgxpool.Pool
}

func NewStockRepository(db *pgxpool.Pool) *StockRepository {
	return &StockRepository{DB: db}
}

// Apply adds every movement to stock_levels inside tx.
func (r *StockRepository) Apply(ctx context.Context, tx pgx.Tx, moves []models.StockMovement) error {
	moves = mergeMovements(moves)
	if len(moves) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, m := range moves {
		batch.Queue(`
			INSERT INTO stock_levels (item_key, rack_id, quantity, updated_at)
			VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
			ON CONFLICT (item_key, rack_id)
			DO UPDATE SET quantity = stock_levels.quantity + EXCLUDED.quantity,
			              updated_at = CURRENT_TIMESTAMP
		`, m.ItemKey, m.RackID, m.Delta)
	}

	br := tx.SendBatch(ctx, batch)
	for range moves {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("apply stock movement: %w", err)
		}
	}
	return br.Close()
}

func (r *StockRepository) ListByRack(ctx context.Context, rackID string) ([]models.StockLevel, error) {
	return r.list(ctx, `
		SELECT item_key, rack_id, quantity, updated_at
		FROM stock_levels
		WHERE rack_id = $1 AND quantity <> 0
		ORDER BY item_key
	`, rackID)
}

func (r *StockRepository) ListByItem(ctx context.Context, itemKey string) ([]models.StockLevel, error) {
	return r.list(ctx, `
		SELECT item_key, rack_id, quantity, updated_at
		FROM stock_levels
		WHERE item_key = $1 AND quantity <> 0
		ORDER BY rack_id
	`, itemKey)
}

func (r *StockRepository) list(ctx context.Context, query string, arg string) ([]models.StockLevel, error) {
	rows, err := r.DB.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var levels []models.StockLevel
	for rows.Next() {
		var s models.StockLevel
		if err := rows.Scan(&s.ItemKey, &s.RackID, &s.Quantity, &s.UpdatedAt); err != nil {
			return nil, err
		}
		levels = append(levels, s)
	}
	return levels, rows.Err()
}

// mergeMovements folds movements on the same item and rack together and
// drops the ones that cancel out. Order of first appearance is kept.
func mergeMovements(moves []models.StockMovement) []models.StockMovement {
	type key struct{ item, rack string }
	idx := make(map[key]int, len(moves))
	var out []models.StockMovement
	for _, m := range moves {
		if m.RackID == "" || m.Delta == 0 {
			continue
		}
		k := key{m.ItemKey, m.RackID}
		if i, ok := idx[k]; ok {
			out[i].Delta += m.Delta
			continue
		}
		idx[k] = len(out)
		out = append(out, m)
	}

	kept := out[:0]
	for _, m := range out {
		if m.Delta != 0 {
			kept = append(kept, m)
		}
	}
	return kept
}

// PutAwayMovements is the stock effect of put-away items; sign is +1 when
// saving and -1 when deleting.
func PutAwayMovements(items []models.PutAwaySessionItem, sign int) []models.StockMovement {
	moves := make([]models.StockMovement, 0, len(items))
	for _, it := range items {
		moves = append(moves, models.StockMovement{
			ItemKey: models.ItemKey(it.ItemType, it.SkuID, it.SizeID, it.MiscName),
			RackID:  it.RackID,
			Delta:   sign * it.Quantity,
		})
	}
	return moves
}

// ReturnMovements is the stock effect of return items. Only the quantity
// accepted back to stock lands on a rack.
func ReturnMovements(items []models.ReturnSessionItem, sign int) []models.StockMovement {
	var moves []models.StockMovement
	for _, it := range items {
		if it.AcceptToStockQty <= 0 {
			continue
		}
		moves = append(moves, models.StockMovement{
			ItemKey: models.ItemKey(it.ItemType, it.SkuID, it.SizeID, it.MiscName),
			RackID:  it.RackID,
			Delta:   sign * it.AcceptToStockQty,
		})
	}
	return moves
}
