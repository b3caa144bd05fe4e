package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"warehouse-backend/internal/archive"
	"warehouse-backend/internal/events"
	"warehouse-backend/internal/models"
	"warehouse-backend/internal/reconcile"
	"warehouse-backend/internal/repositories"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type fakeOrders struct {
	po        *models.PurchaseOrder
	lines     []models.PurchaseOrderLine
	putAway   int
	status    string
	statusErr error
}

func (f *fakeOrders) Get(ctx context.Context, id string) (*models.PurchaseOrder, error) {
	if f.po == nil || f.po.ID != id {
		return nil, repositories.ErrNotFound
	}
	return f.po, nil
}

func (f *fakeOrders) ListLines(ctx context.Context, poID string) ([]models.PurchaseOrderLine, error) {
	return f.lines, nil
}

func (f *fakeOrders) Totals(ctx context.Context, poID string) (int, int, error) {
	ordered := 0
	for _, l := range f.lines {
		ordered += l.OrderedQty
	}
	return ordered, f.putAway, nil
}

func (f *fakeOrders) SetStatus(ctx context.Context, poID, status string) error {
	if f.statusErr != nil {
		return f.statusErr
	}
	f.status = status
	return nil
}

type fakePutAwaySessions struct {
	orders    *fakeOrders
	sessions  []models.PutAwaySession
	createErr error
	creates   int
}

func (f *fakePutAwaySessions) ListByPurchaseOrder(ctx context.Context, poID string) ([]models.PutAwaySession, error) {
	var out []models.PutAwaySession
	for _, s := range f.sessions {
		if s.ReferenceID == poID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakePutAwaySessions) Create(ctx context.Context, s *models.PutAwaySession) error {
	f.creates++
	if f.createErr != nil {
		return f.createErr
	}
	s.CreatedAt = time.Now()
	f.sessions = append(f.sessions, *s)
	if f.orders != nil {
		for _, it := range s.Items {
			f.orders.putAway += it.Quantity
		}
	}
	return nil
}

func (f *fakePutAwaySessions) Delete(ctx context.Context, sessionID, poID string) error {
	for i, s := range f.sessions {
		if s.ID == sessionID && s.ReferenceID == poID {
			if f.orders != nil {
				for _, it := range s.Items {
					f.orders.putAway -= it.Quantity
				}
			}
			f.sessions = append(f.sessions[:i], f.sessions[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

type fakeReturnRefs struct {
	ref      *models.ReturnReference
	lines    []models.ReturnReferenceLine
	returned int
	status   string
}

func (f *fakeReturnRefs) Get(ctx context.Context, id string) (*models.ReturnReference, error) {
	if f.ref == nil || f.ref.ID != id {
		return nil, repositories.ErrNotFound
	}
	return f.ref, nil
}

func (f *fakeReturnRefs) ListLines(ctx context.Context, refID string) ([]models.ReturnReferenceLine, error) {
	return f.lines, nil
}

func (f *fakeReturnRefs) Totals(ctx context.Context, refID string) (int, int, error) {
	total := 0
	for _, l := range f.lines {
		total += l.Quantity
	}
	return total, f.returned, nil
}

func (f *fakeReturnRefs) SetStatus(ctx context.Context, refID, status string) error {
	f.status = status
	return nil
}

type fakeReturnSessions struct {
	sessions []models.ReturnSession
}

func (f *fakeReturnSessions) ListByReference(ctx context.Context, refID string) ([]models.ReturnSession, error) {
	return f.sessions, nil
}

func (f *fakeReturnSessions) Create(ctx context.Context, s *models.ReturnSession) error {
	s.CreatedAt = time.Now()
	f.sessions = append(f.sessions, *s)
	return nil
}

func (f *fakeReturnSessions) Delete(ctx context.Context, sessionID, refID string) error {
	for i, s := range f.sessions {
		if s.ID == sessionID {
			f.sessions = append(f.sessions[:i], f.sessions[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

// fakeLocations knows a single valid path w1/f1/l1/r1.
type fakeLocations struct {
	calls     int
	layout    []models.Floor
	layoutErr error
}

func (f *fakeLocations) PathExists(ctx context.Context, p models.LocationPath) (bool, error) {
	f.calls++
	return p == models.LocationPath{WarehouseID: "w1", FloorID: "f1", LaneID: "l1", RackID: "r1"}, nil
}

func (f *fakeLocations) ListWarehouses(ctx context.Context) ([]models.Warehouse, error) {
	return []models.Warehouse{{ID: "w1", Code: "MAIN", Name: "Main"}}, nil
}

func (f *fakeLocations) GetWarehouse(ctx context.Context, id string) (*models.Warehouse, error) {
	if id != "w1" {
		return nil, repositories.ErrNotFound
	}
	return &models.Warehouse{ID: "w1", Code: "MAIN", Name: "Main"}, nil
}

func (f *fakeLocations) Tree(ctx context.Context, warehouseID string) (*models.WarehouseTree, error) {
	w, err := f.GetWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	return &models.WarehouseTree{Warehouse: *w, Floors: f.layout}, nil
}

func (f *fakeLocations) CreateLayout(ctx context.Context, warehouseID string, floors []models.Floor) error {
	if f.layoutErr != nil {
		return f.layoutErr
	}
	if len(f.layout) > 0 {
		return repositories.ErrLayoutExists
	}
	f.layout = floors
	return nil
}

type fakeArchive struct {
	docs    []archive.Document
	removed []string
	err     error
}

func (f *fakeArchive) Archive(ctx context.Context, doc archive.Document) error {
	if f.err != nil {
		return f.err
	}
	f.docs = append(f.docs, doc)
	return nil
}

func (f *fakeArchive) Remove(ctx context.Context, workflow, referenceID, sessionID string) error {
	f.removed = append(f.removed, sessionID)
	return f.err
}

type memDrafts struct {
	mu     sync.Mutex
	drafts map[string][]reconcile.Entry
}

func newMemDrafts() *memDrafts {
	return &memDrafts{drafts: make(map[string][]reconcile.Entry)}
}

func (m *memDrafts) Save(ctx context.Context, workflow, referenceID string, entries []reconcile.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(entries) == 0 {
		delete(m.drafts, workflow+":"+referenceID)
		return nil
	}
	m.drafts[workflow+":"+referenceID] = append([]reconcile.Entry(nil), entries...)
	return nil
}

func (m *memDrafts) Load(ctx context.Context, workflow, referenceID string) ([]reconcile.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.drafts[workflow+":"+referenceID], nil
}

func (m *memDrafts) Delete(ctx context.Context, workflow, referenceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, workflow+":"+referenceID)
	return nil
}

type fakeLocker struct {
	err      error
	released int
}

func (f *fakeLocker) ObtainSaveLock(ctx context.Context, workflow, referenceID string) (func(), error) {
	if f.err != nil {
		return nil, f.err
	}
	return func() { f.released++ }, nil
}

type recordingPublisher struct {
	events []events.Event
}

func (r *recordingPublisher) Publish(e events.Event) {
	r.events = append(r.events, e)
}

var errBoom = errors.New("boom")
