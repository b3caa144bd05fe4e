package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"warehouse-backend/internal/models"
)

type PurchaseOrderRepository struct {
	DB *pgxpool.Pool
}

func NewPurchaseOrderRepository(db *pgxpool.Pool) *PurchaseOrderRepository {
	return &PurchaseOrderRepository{DB: db}
}

func (r *PurchaseOrderRepository) Get(ctx context.Context, id string) (*models.PurchaseOrder, error) {
	query := `
		SELECT id, po_number, supplier_name, status, created_at, updated_at
		FROM purchase_orders
		WHERE id = $1
	`
	po := &models.PurchaseOrder{}
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&po.ID, &po.PONumber, &po.SupplierName, &po.Status, &po.CreatedAt, &po.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return po, nil
}

// ListLines returns the lines of a purchase order in display order.
func (r *PurchaseOrderRepository) ListLines(ctx context.Context, poID string) ([]models.PurchaseOrderLine, error) {
	query := `
		SELECT id, purchase_order_id, item_type, sku_id, size_id, misc_name, label, ordered_qty, position
		FROM purchase_order_lines
		WHERE purchase_order_id = $1
		ORDER BY position, id
	`
	rows, err := r.DB.Query(ctx, query, poID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []models.PurchaseOrderLine
	for rows.Next() {
		var l models.PurchaseOrderLine
		if err := rows.Scan(
			&l.ID, &l.PurchaseOrderID, &l.ItemType, &l.SkuID, &l.SizeID,
			&l.MiscName, &l.Label, &l.OrderedQty, &l.Position,
		); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// Totals returns the ordered quantity and the quantity already put away
// across saved sessions.
func (r *PurchaseOrderRepository) Totals(ctx context.Context, poID string) (ordered, putAway int, err error) {
	query := `
		SELECT
			(SELECT COALESCE(SUM(ordered_qty), 0) FROM purchase_order_lines WHERE purchase_order_id = $1),
			(SELECT COALESCE(SUM(i.quantity), 0)
			   FROM putaway_session_items i
			   JOIN putaway_sessions s ON s.id = i.session_id
			  WHERE s.purchase_order_id = $1)
	`
	err = r.DB.QueryRow(ctx, query, poID).Scan(&ordered, &putAway)
	return ordered, putAway, err
}

func (r *PurchaseOrderRepository) SetStatus(ctx context.Context, poID, status string) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE purchase_orders SET status = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $1`,
		poID, status,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
