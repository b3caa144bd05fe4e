package reconcile_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"warehouse-backend/internal/reconcile"
)

// memService is an in-memory SessionService for tests.
type memService struct {
	reference []reconcile.Entry
	saved     []reconcile.Session
	nextID    int

	saveErr   error
	deleteErr error
	loadErr   error
	statusErr error

	saveCalls   int
	statusCalls int
	lastRecords []reconcile.SaveRecord
}

func newMemService(ref ...reconcile.Entry) *memService {
	return &memService{reference: ref}
}

func (m *memService) LoadReference(ctx context.Context, referenceID string) ([]reconcile.Entry, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]reconcile.Entry(nil), m.reference...), nil
}

func (m *memService) LoadSessions(ctx context.Context, referenceID string) ([]reconcile.Session, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := make([]reconcile.Session, len(m.saved))
	copy(out, m.saved)
	return out, nil
}

func (m *memService) SaveSession(ctx context.Context, referenceID, name string, records []reconcile.SaveRecord) (string, error) {
	m.saveCalls++
	if m.saveErr != nil {
		return "", m.saveErr
	}
	m.nextID++
	id := fmt.Sprintf("s%d", m.nextID)
	sess := reconcile.Session{ID: id, Name: name, Timestamp: time.Now(), IsSaved: true}
	for _, r := range records {
		sess.Entries = append(sess.Entries, reconcile.Entry{
			ID:                r.ItemID,
			ItemType:          r.ItemType,
			SkuID:             r.SkuID,
			SizeID:            r.SizeID,
			MiscName:          r.MiscName,
			Quantity:          r.Quantity,
			ReturnToVendorQty: r.ReturnToVendorQty,
			AcceptToStockQty:  r.AcceptToStockQty,
		})
	}
	m.saved = append(m.saved, sess)
	m.lastRecords = records
	return id, nil
}

func (m *memService) DeleteSession(ctx context.Context, sessionID, referenceID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for i, s := range m.saved {
		if s.ID == sessionID {
			m.saved = append(m.saved[:i], m.saved[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (m *memService) UpdateStatus(ctx context.Context, referenceID string) error {
	m.statusCalls++
	return m.statusErr
}

func skuEntry(id string, ordered int) reconcile.Entry {
	return reconcile.Entry{
		ID:       id,
		ItemType: reconcile.ItemTypeSKU,
		SkuID:    "sku-" + id,
		SizeID:   "size-" + id,
		Ordered:  ordered,
	}
}

func intp(v int) *int       { return &v }
func strp(v string) *string { return &v }

func fullLocation() reconcile.EntryPatch {
	return reconcile.EntryPatch{
		WarehouseID: strp("w1"),
		FloorID:     strp("f1"),
		LaneID:      strp("l1"),
		RackID:      strp("r1"),
	}
}

func findEntry(t *testing.T, s reconcile.Session, id string) reconcile.Entry {
	for _, e := range s.Entries {
		if e.ID == id {
			return e
		}
	}
	t.Helper()
	t.Fatalf("entry %s not found in session %s", id, s.ID)
	return reconcile.Entry{}
}

func liveCount(sessions []reconcile.Session) int {
	n := 0
	for _, s := range sessions {
		if !s.IsSaved {
			n++
		}
	}
	return n
}
