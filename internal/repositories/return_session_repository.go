package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"warehouse-backend/internal/models"
)

type ReturnSessionRepository struct {
	DB    *pgxpool.Pool
	Stock *StockRepository
}

func NewReturnSessionRepository(db *pgxpool.Pool, stock *StockRepository) *ReturnSessionRepository {
	return &ReturnSessionRepository{DB: db, Stock: stock}
}

var returnItemColumns = []string{
	"id", "session_id", "line_id", "item_type", "sku_id", "size_id", "misc_name",
	"return_reason", "item_condition", "return_to_vendor_qty", "accept_to_stock_qty", "quantity",
	"accept_condition", "warehouse_id", "floor_id", "lane_id", "rack_id", "notes", "customer_order_id",
}

func (r *ReturnSessionRepository) ListByReference(ctx context.Context, refID string) ([]models.ReturnSession, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, reference_id, name, created_at
		FROM return_sessions
		WHERE reference_id = $1
		ORDER BY created_at, id
	`, refID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.ReturnSession
	index := make(map[string]int)
	var ids []string
	for rows.Next() {
		var s models.ReturnSession
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
		       return_reason, item_condition, return_to_vendor_qty, accept_to_stock_qty, quantity,
		       accept_condition, warehouse_id, floor_id, lane_id, rack_id, notes, customer_order_id
		FROM return_session_items
		WHERE session_id = ANY($1)
		ORDER BY id
	`, ids)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var it models.ReturnSessionItem
		if err := itemRows.Scan(
			&it.ID, &it.SessionID, &it.LineID, &it.ItemType, &it.SkuID, &it.SizeID, &it.MiscName,
			&it.ReturnReason, &it.Condition, &it.ReturnToVendorQty, &it.AcceptToStockQty, &it.Quantity,
			&it.AcceptCondition, &it.WarehouseID, &it.FloorID, &it.LaneID, &it.RackID, &it.Notes, &it.CustomerOrderID,
		); err != nil {
			return nil, err
		}
		if i, ok := index[it.SessionID]; ok {
			sessions[i].Items = append(sessions[i].Items, it)
		}
	}
	return sessions, itemRows.Err()
}

func (r *ReturnSessionRepository) Create(ctx context.Context, s *models.ReturnSession) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var refID string
	err = tx.QueryRow(ctx,
		`SELECT id FROM return_references WHERE id = $1 FOR UPDATE`,
		s.ReferenceID,
	).Scan(&refID)
	if err != nil {
		return notFound(err)
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO return_sessions (id, reference_id, name)
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
			it.ReturnReason, it.Condition, it.ReturnToVendorQty, it.AcceptToStockQty, it.Quantity,
			it.AcceptCondition, it.WarehouseID, it.FloorID, it.LaneID, it.RackID, it.Notes, it.CustomerOrderID,
		})
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"return_session_items"}, returnItemColumns, pgx.CopyFromRows(rows)); err != nil {
		return fmt.Errorf("insert session items: %w", err)
	}

	if err := overAllocated(ctx, tx, `
		SELECT EXISTS (
			SELECT 1
			FROM return_reference_lines l
			JOIN return_session_items i ON i.line_id = l.id
			JOIN return_sessions s ON s.id = i.session_id
			WHERE l.reference_id = $1
			GROUP BY l.id, l.quantity
			HAVING SUM(i.quantity) > l.quantity
		)
	`, s.ReferenceID); err != nil {
		return err
	}

	if err := r.Stock.Apply(ctx, tx, ReturnMovements(s.Items, 1)); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *ReturnSessionRepository) Delete(ctx context.Context, sessionID, refID string) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
		SELECT i.item_type, i.sku_id, i.size_id, i.misc_name, i.rack_id, i.accept_to_stock_qty
		FROM return_session_items i
		JOIN return_sessions s ON s.id = i.session_id
		WHERE s.id = $1 AND s.reference_id = $2
	`, sessionID, refID)
	if err != nil {
		return err
	}
	var items []models.ReturnSessionItem
	for rows.Next() {
		var it models.ReturnSessionItem
		if err := rows.Scan(&it.ItemType, &it.SkuID, &it.SizeID, &it.MiscName, &it.RackID, &it.AcceptToStockQty); err != nil {
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
		`DELETE FROM return_sessions WHERE id = $1 AND reference_id = $2`,
		sessionID, refID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if err := r.Stock.Apply(ctx, tx, ReturnMovements(items, -1)); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
