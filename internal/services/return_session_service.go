package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"warehouse-backend/internal/archive"
	"warehouse-backend/internal/idgen"
	"warehouse-backend/internal/models"
	"warehouse-backend/internal/reconcile"
	"warehouse-backend/internal/workflows"
)

// ReturnSessionService persists return sessions against orders, GRNs and
// inventory references.
type ReturnSessionService struct {
	References ReturnReferenceStore
	Sessions   ReturnSessionStore
	Locations  PathChecker
	Archive    SessionArchiver
	Logger     *logrus.Logger
}

func NewReturnSessionService(
	references ReturnReferenceStore,
	sessions ReturnSessionStore,
	locations PathChecker,
	archiver SessionArchiver,
	logger *logrus.Logger,
) *ReturnSessionService {
	return &ReturnSessionService{
		References: references,
		Sessions:   sessions,
		Locations:  locations,
		Archive:    archiver,
		Logger:     logger,
	}
}

func (s *ReturnSessionService) LoadReference(ctx context.Context, refID string) ([]reconcile.Entry, error) {
	if _, err := s.References.Get(ctx, refID); err != nil {
		return nil, err
	}
	lines, err := s.References.ListLines(ctx, refID)
	if err != nil {
		return nil, err
	}
	entries := make([]reconcile.Entry, 0, len(lines))
	for _, l := range lines {
		entries = append(entries, reconcile.Entry{
			ID:              l.ID,
			ItemType:        reconcile.ItemType(l.ItemType),
			SkuID:           l.SkuID,
			SizeID:          l.SizeID,
			MiscName:        l.MiscName,
			Label:           l.Label,
			Ordered:         l.Quantity,
			CustomerOrderID: l.CustomerOrderID,
		})
	}
	return entries, nil
}

func (s *ReturnSessionService) LoadSessions(ctx context.Context, refID string) ([]reconcile.Session, error) {
	saved, err := s.Sessions.ListByReference(ctx, refID)
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
				ID:                it.LineID,
				ItemType:          reconcile.ItemType(it.ItemType),
				SkuID:             it.SkuID,
				SizeID:            it.SizeID,
				MiscName:          it.MiscName,
				Quantity:          it.Quantity,
				ReturnToVendorQty: it.ReturnToVendorQty,
				AcceptToStockQty:  it.AcceptToStockQty,
				ReturnReason:      it.ReturnReason,
				Condition:         it.Condition,
				AcceptCondition:   it.AcceptCondition,
				WarehouseID:       it.WarehouseID,
				FloorID:           it.FloorID,
				LaneID:            it.LaneID,
				RackID:            it.RackID,
				Notes:             it.Notes,
				CustomerOrderID:   it.CustomerOrderID,
			})
		}
		sessions = append(sessions, sess)
	}
	return sessions, nil
}

func (s *ReturnSessionService) SaveSession(ctx context.Context, refID, name string, records []reconcile.SaveRecord) (string, error) {
	checked := make(map[models.LocationPath]bool)
	for _, r := range records {
		if r.AcceptToStockQty <= 0 {
			continue
		}
		p := models.LocationPath{WarehouseID: r.WarehouseID, FloorID: r.FloorID, LaneID: r.LaneID, RackID: r.RackID}
		if err := checkPath(ctx, s.Locations, p, checked); err != nil {
			return "", fmt.Errorf("item %s: %w", r.ItemID, err)
		}
	}

	session := &models.ReturnSession{
		SessionHeader: models.SessionHeader{ID: idgen.GenerateString(), ReferenceID: refID, Name: name},
	}
	for _, r := range records {
		session.Items = append(session.Items, models.ReturnSessionItem{
			ID:                idgen.GenerateString(),
			SessionID:         session.ID,
			LineID:            r.ItemID,
			ItemType:          string(r.ItemType),
			SkuID:             r.SkuID,
			SizeID:            r.SizeID,
			MiscName:          r.MiscName,
			ReturnReason:      r.ReturnReason,
			Condition:         r.Condition,
			ReturnToVendorQty: r.ReturnToVendorQty,
			AcceptToStockQty:  r.AcceptToStockQty,
			Quantity:          r.Quantity,
			AcceptCondition:   r.AcceptCondition,
			WarehouseID:       r.WarehouseID,
			FloorID:           r.FloorID,
			LaneID:            r.LaneID,
			RackID:            r.RackID,
			Notes:             r.Notes,
			CustomerOrderID:   r.CustomerOrderID,
		})
	}

	if err := s.Sessions.Create(ctx, session); err != nil {
		return "", err
	}

	archiveSession(ctx, s.Archive, s.Logger, archive.Document{
		Workflow:    workflows.NameReturn,
		ReferenceID: refID,
		SessionID:   session.ID,
		Name:        name,
		SavedAt:     session.CreatedAt,
		Records:     records,
	})
	return session.ID, nil
}

func (s *ReturnSessionService) DeleteSession(ctx context.Context, sessionID, refID string) error {
	if err := s.Sessions.Delete(ctx, sessionID, refID); err != nil {
		return err
	}
	unarchiveSession(ctx, s.Archive, s.Logger, workflows.NameReturn, refID, sessionID)
	return nil
}

func (s *ReturnSessionService) UpdateStatus(ctx context.Context, refID string) error {
	returnable, returned, err := s.References.Totals(ctx, refID)
	if err != nil {
		return err
	}
	return s.References.SetStatus(ctx, refID, ReturnStatus(returnable, returned))
}
