package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"warehouse-backend/internal/archive"
	"warehouse-backend/internal/idgen"
	"warehouse-backend/internal/models"
	"warehouse-backend/internal/reconcile"
	"warehouse-backend/internal/workflows"
)

var ErrInvalidLocation = errors.New("rack does not belong to the selected warehouse, floor and lane")

// PutAwaySessionService persists put-away sessions against purchase orders.
type PutAwaySessionService struct {
	Orders    PurchaseOrderStore
	Sessions  PutAwaySessionStore
	Locations PathChecker
	Archive   SessionArchiver
	Logger    *logrus.Logger
}

func NewPutAwaySessionService(
	orders PurchaseOrderStore,
	sessions PutAwaySessionStore,
	locations PathChecker,
	archiver SessionArchiver,
	logger *logrus.Logger,
) *PutAwaySessionService {
	return &PutAwaySessionService{
		Orders:    orders,
		Sessions:  sessions,
		Locations: locations,
		Archive:   archiver,
		Logger:    logger,
	}
}

func (s *PutAwaySessionService) LoadReference(ctx context.Context, poID string) ([]reconcile.Entry, error) {
	if _, err := s.Orders.Get(ctx, poID); err != nil {
		return nil, err
	}
	lines, err := s.Orders.ListLines(ctx, poID)
	if err != nil {
		return nil, err
	}
	entries := make([]reconcile.Entry, 0, len(lines))
	for _, l := range lines {
		entries = append(entries, reconcile.Entry{
			ID:       l.ID,
			ItemType: reconcile.ItemType(l.ItemType),
			SkuID:    l.SkuID,
			SizeID:   l.SizeID,
			MiscName: l.MiscName,
			Label:    l.Label,
			Ordered:  l.OrderedQty,
		})
	}
	return entries, nil
}

func (s *PutAwaySessionService) LoadSessions(ctx context.Context, poID string) ([]reconcile.Session, error) {
	saved, err := s.Sessions.ListByPurchaseOrder(ctx, poID)
	if err != nil {
		return nil, err
	}
	sessions := make([]reconcile.Session, 0, len(saved))
	for _, ss := range saved {
		sess := reconcile.Session{
			ID:        ss.ID,
			Name:      ss.Name,
			Timestamp: ss.CreatedAt,
			IsSaved:   true,
			Entries:   make([]reconcile.Entry, 0, len(ss.Items)),
		}
		for _, it := range ss.Items {
			sess.Entries = append(sess.Entries, reconcile.Entry{
				ID:            it.LineID,
				ItemType:      reconcile.ItemType(it.ItemType),
				SkuID:         it.SkuID,
				SizeID:        it.SizeID,
				MiscName:      it.MiscName,
				Quantity:      it.Quantity,
				WarehouseID:   it.WarehouseID,
				FloorID:       it.FloorID,
				LaneID:        it.LaneID,
				RackID:        it.RackID,
				LocationNotes: it.LocationNotes,
			})
		}
		sessions = append(sessions, sess)
	}
	return sessions, nil
}

func (s *PutAwaySessionService) SaveSession(ctx context.Context, poID, name string, records []reconcile.SaveRecord) (string, error) {
	checked := make(map[models.LocationPath]bool)
	for _, r := range records {
		p := models.LocationPath{WarehouseID: r.WarehouseID, FloorID: r.FloorID, LaneID: r.LaneID, RackID: r.RackID}
		if err := checkPath(ctx, s.Locations, p, checked); err != nil {
			return "", fmt.Errorf("item %s: %w", r.ItemID, err)
		}
	}

	session := &models.PutAwaySession{
		SessionHeader: models.SessionHeader{ID: idgen.GenerateString(), ReferenceID: poID, Name: name},
	}
	for _, r := range records {
		session.Items = append(session.Items, models.PutAwaySessionItem{
			ID:            idgen.GenerateString(),
			SessionID:     session.ID,
			LineID:        r.ItemID,
			ItemType:      string(r.ItemType),
			SkuID:         r.SkuID,
			SizeID:        r.SizeID,
			MiscName:      r.MiscName,
			WarehouseID:   r.WarehouseID,
			FloorID:       r.FloorID,
			LaneID:        r.LaneID,
			RackID:        r.RackID,
			LocationNotes: r.LocationNotes,
			Quantity:      r.Quantity,
		})
	}

	if err := s.Sessions.Create(ctx, session); err != nil {
		return "", err
	}

	archiveSession(ctx, s.Archive, s.Logger, archive.Document{
		Workflow:    workflows.NamePutAway,
		ReferenceID: poID,
		SessionID:   session.ID,
		Name:        name,
		SavedAt:     session.CreatedAt,
		Records:     records,
	})
	return session.ID, nil
}

func (s *PutAwaySessionService) DeleteSession(ctx context.Context, sessionID, poID string) error {
	if err := s.Sessions.Delete(ctx, sessionID, poID); err != nil {
		return err
	}
	unarchiveSession(ctx, s.Archive, s.Logger, workflows.NamePutAway, poID, sessionID)
	return nil
}

func (s *PutAwaySessionService) UpdateStatus(ctx context.Context, poID string) error {
	ordered, putAway, err := s.Orders.Totals(ctx, poID)
	if err != nil {
		return err
	}
	return s.Orders.SetStatus(ctx, poID, PutAwayStatus(ordered, putAway))
}

// checkPath verifies a location path once per save.
func checkPath(ctx context.Context, locations PathChecker, p models.LocationPath, checked map[models.LocationPath]bool) error {
	if ok, seen := checked[p]; seen {
		if !ok {
			return ErrInvalidLocation
		}
		return nil
	}
	ok, err := locations.PathExists(ctx, p)
	if err != nil {
		return err
	}
	checked[p] = ok
	if !ok {
		return ErrInvalidLocation
	}
	return nil
}

func archiveSession(ctx context.Context, a SessionArchiver, logger *logrus.Logger, doc archive.Document) {
	if a == nil {
		return
	}
	if err := a.Archive(ctx, doc); err != nil {
		logger.WithFields(logrus.Fields{
			"workflow":     doc.Workflow,
			"reference_id": doc.ReferenceID,
			"session_id":   doc.SessionID,
		}).WithError(err).Warn("session archive failed")
	}
}

func unarchiveSession(ctx context.Context, a SessionArchiver, logger *logrus.Logger, workflow, referenceID, sessionID string) {
	if a == nil {
		return
	}
	if err := a.Remove(ctx, workflow, referenceID, sessionID); err != nil {
		logger.WithFields(logrus.Fields{
			"workflow":     workflow,
			"reference_id": referenceID,
			"session_id":   sessionID,
		}).WithError(err).Warn("archived session removal failed")
	}
}
