package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"warehouse-backend/internal/models"
)

type ReturnReferenceRepository struct {
	DB *pgxpool.Pool
}

func NewReturnReferenceRepository(db *pgxpool.Pool) *ReturnReferenceRepository {
	return &ReturnReferenceRepository{DB: db}
}

func (r *ReturnReferenceRepository) Get(ctx context.Context, id string) (*models.ReturnReference, error) {
	query := `
		SELECT id, reference_type, reference_number, party_name, status, created_at, updated_at
		FROM return_references
		WHERE id = $1
	`
	ref := &models.ReturnReference{}
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&ref.ID, &ref.ReferenceType, &ref.ReferenceNumber, &ref.PartyName,
		&ref.Status, &ref.CreatedAt, &ref.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return ref, nil
}

func (r *ReturnReferenceRepository) ListLines(ctx context.Context, refID string) ([]models.ReturnReferenceLine, error) {
	query := `
		SELECT id, reference_id, item_type, sku_id, size_id, misc_name, label,
		       quantity, customer_order_id, position
		FROM return_reference_lines
		WHERE reference_id = $1
		ORDER BY position, id
	`
	rows, err := r.DB.Query(ctx, query, refID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []models.ReturnReferenceLine
	for rows.Next() {
		var l models.ReturnReferenceLine
		if err := rows.Scan(
			&l.ID, &l.ReferenceID, &l.ItemType, &l.SkuID, &l.SizeID, &l.MiscName,
			&l.Label, &l.Quantity, &l.CustomerOrderID, &l.Position,
		); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// Totals returns the returnable quantity and the quantity already processed
// (vendor plus stock) across saved return sessions.
func (r *ReturnReferenceRepository) Totals(ctx context.Context, refID string) (returnable, returned int, err error) {
	query := `
		SELECT
			(SELECT COALESCE(SUM(quantity), 0) FROM return_reference_lines WHERE reference_id = $1),
			(SELECT COALESCE(SUM(i.quantity), 0)
			   FROM return_session_items i
			   JOIN return_sessions s ON s.id = i.session_id
			  WHERE s.reference_id = $1)
	`
	err = r.DB.QueryRow(ctx, query, refID).Scan(&returnable, &returned)
	return returnable, returned, err
}

func (r *ReturnReferenceRepository) SetStatus(ctx context.Context, refID, status string) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE return_references SET status = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $1`,
		refID, status,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
