package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"warehouse-backend/internal/models"
)

type PutAwaySessionRepository struct {
	DB    *pgxpool.Pool
	Stock *StockRepository
}

func NewPutAwaySessionRepository(db *pgxpool.Pool, stock *StockRepository) *PutAwaySessionRepository {
	return &PutAwaySessionRepository{DB: db, Stock: stock}
}

// ListByPurchaseOrder returns every saved session of a purchase order,
// oldest first, with its items.
func (r *PutAwaySessionRepository) ListByPurchaseOrder(ctx context.Context, poID string) ([]models.PutAwaySession, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, purchase_order_id, name, created_at
		FROM putaway_sessions
		WHERE purchase_order_id = $1
		ORDER BY created_at, id
	`, poID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.PutAwaySession
	index := make(map[string]int)
	var ids []string
	for rows.Next() {
		var s models.PutAwaySession
		if err := rows.Scan(&s.ID, &s.ReferenceID, &s.Name, &s.CreatedAt); err != nil {
			return nil, err
		}
		index[s.ID] = len(sessions)
		ids = append(ids, s.ID)
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return sessions, nil
	}

	itemRows, err := r.DB.Query(ctx, `
		SELECT id, session_id, line_id, item_type, sku_id, size_id, misc_name,
		       warehouse_id, floor_id, lane_id, rack_id, location_notes, quantity
		FROM putaway_session_items
		WHERE session_id = ANY($1)
		ORDER BY id
	`, ids)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var it models.PutAwaySessionItem
		if err := itemRows.Scan(
			&it.ID, &it.SessionID, &it.LineID, &it.ItemType, &it.SkuID, &it.SizeID, &it.MiscName,
			&it.WarehouseID, &it.FloorID, &it.LaneID, &it.RackID, &it.LocationNotes, &it.Quantity,
		); err != nil {
			return nil, err
		}
		if i, ok := index[it.SessionID]; ok {
			sessions[i].Items = append(sessions[i].Items, it)
		}
	}
	return sessions, itemRows.Err()
}

// Create inserts a session with its items and books the stock, all in one
// transaction.
func (r *PutAwaySessionRepository) Create(ctx context.Context, s *models.PutAwaySession) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Concurrent saves of one purchase order queue on its row.
	var poID string
	err = tx.QueryRow(ctx,
		`SELECT id FROM purchase_orders WHERE id = $1 FOR UPDATE`,
		s.ReferenceID,
	).Scan(&poID)
	if err != nil {
		return notFound(err)
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO putaway_sessions (id, purchase_order_id, name)
		 VALUES ($1, $2, $3)
		 RETURNING created_at`,
		s.ID, s.ReferenceID, s.Name,
	).Scan(&s.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	rows := make([][]any, 0, len(s.Items))
	for _, it := range s.Items {
		rows = append(rows, []any{
			it.ID, s.ID, it.LineID, it.ItemType, it.SkuID, it.SizeID, it.MiscName,
			it.WarehouseID, it.FloorID, it.LaneID, it.RackID, it.LocationNotes, it.Quantity,
		})
	}
	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"putaway_session_items"},
		[]string{"id", "session_id", "line_id", "item_type", "sku_id", "size_id", "misc_name",
			"warehouse_id", "floor_id", "lane_id", "rack_id", "location_notes", "quantity"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("insert session items: %w", err)
	}

	if err := overAllocated(ctx, tx, `
		SELECT EXISTS (
			SELECT 1
			FROM purchase_order_lines l
			JOIN putaway_session_items i ON i.line_id = l.id
			JOIN putaway_sessions s ON s.id = i.session_id
			WHERE l.purchase_order_id = $1
			GROUP BY l.id, l.ordered_qty
			HAVING SUM(i.quantity) > l.ordered_qty
		)
	`, s.ReferenceID); err != nil {
		return err
	}

	if err := r.Stock.Apply(ctx, tx, PutAwayMovements(s.Items, 1)); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// overAllocated runs an EXISTS query inside tx and reports ErrOverAllocated
// when it matches.
func overAllocated(ctx context.Context, tx pgx.Tx, query string, args ...any) error {
	var over bool
	if err := tx.QueryRow(ctx, query, args...).Scan(&over); err != nil {
		return fmt.Errorf("check allocation: %w", err)
	}
	if over {
		return ErrOverAllocated
	}
	return nil
}

// Delete removes a session of poID and reverses its stock.
func (r *PutAwaySessionRepository) Delete(ctx context.Context, sessionID, poID string) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
		SELECT i.item_type, i.sku_id, i.size_id, i.misc_name, i.rack_id, i.quantity
		FROM putaway_session_items i
		JOIN putaway_sessions s ON s.id = i.session_id
		WHERE s.id = $1 AND s.purchase_order_id = $2
	`, sessionID, poID)
	if err != nil {
		return err
	}
	var items []models.PutAwaySessionItem
	for rows.Next() {
		var it models.PutAwaySessionItem
		if err := rows.Scan(&it.ItemType, &it.SkuID, &it.SizeID, &it.MiscName, &it.RackID, &it.Quantity); err != nil {
			rows.Close()
			return err
		}
		items = append(items, it)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM putaway_sessions WHERE id = $1 AND purchase_order_id = $2`,
		sessionID, poID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if err := r.Stock.Apply(ctx, tx, PutAwayMovements(items, -1)); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
