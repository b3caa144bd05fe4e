package services

import (
	"context"

	"warehouse-backend/internal/archive"
	"warehouse-backend/internal/events"
	"warehouse-backend/internal/models"
	"warehouse-backend/internal/reconcile"
)

// The interfaces below are satisfied by the pgx repositories, the Redis
// cache helpers and the S3 archiver.

type PurchaseOrderStore interface {
	Get(ctx context.Context, id string) (*models.PurchaseOrder, error)
	ListLines(ctx context.Context, poID string) ([]models.PurchaseOrderLine, error)
	Totals(ctx context.Context, poID string) (ordered, putAway int, err error)
	SetStatus(ctx context.Context, poID, status string) error
}

type PutAwaySessionStore interface {
	ListByPurchaseOrder(ctx context.Context, poID string) ([]models.PutAwaySession, error)
	Create(ctx context.Context, s *models.PutAwaySession) error
	Delete(ctx context.Context, sessionID, poID string) error
}

type ReturnReferenceStore interface {
	Get(ctx context.Context, id string) (*models.ReturnReference, error)
	ListLines(ctx context.Context, refID string) ([]models.ReturnReferenceLine, error)
	Totals(ctx context.Context, refID string) (returnable, returned int, err error)
	SetStatus(ctx context.Context, refID, status string) error
}

type ReturnSessionStore interface {
	ListByReference(ctx context.Context, refID string) ([]models.ReturnSession, error)
	Create(ctx context.Context, s *models.ReturnSession) error
	Delete(ctx context.Context, sessionID, refID string) error
}

type PathChecker interface {
	PathExists(ctx context.Context, p models.LocationPath) (bool, error)
}

type LocationStore interface {
	PathChecker
	ListWarehouses(ctx context.Context) ([]models.Warehouse, error)
	GetWarehouse(ctx context.Context, id string) (*models.Warehouse, error)
	Tree(ctx context.Context, warehouseID string) (*models.WarehouseTree, error)
	CreateLayout(ctx context.Context, warehouseID string, floors []models.Floor) error
}

type SessionArchiver interface {
	Archive(ctx context.Context, doc archive.Document) error
	Remove(ctx context.Context, workflow, referenceID, sessionID string) error
}

type DraftStore interface {
	Save(ctx context.Context, workflow, referenceID string, entries []reconcile.Entry) error
	Load(ctx context.Context, workflow, referenceID string) ([]reconcile.Entry, error)
	Delete(ctx context.Context, workflow, referenceID string) error
}

type SaveLocker interface {
	ObtainSaveLock(ctx context.Context, workflow, referenceID string) (release func(), err error)
}

type EventPublisher interface {
	Publish(e events.Event)
}
