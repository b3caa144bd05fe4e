package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"warehouse-backend/internal/cache"
	"warehouse-backend/internal/events"
	"warehouse-backend/internal/metrics"
	"warehouse-backend/internal/reconcile"
	"warehouse-backend/internal/workflows"
)

var (
	ErrSaveInProgress  = errors.New("a save for this reference is already in progress")
	ErrUnknownWorkflow = errors.New("unknown workflow")
)

// FieldError is one entry of the validation error map in API form.
type FieldError struct {
	SessionID string `json:"sessionId"`
	EntryID   string `json:"entryId"`
	Field     string `json:"field"`
	Message   string `json:"message"`
}

// Snapshot is the read model returned to clients after every call.
type Snapshot struct {
	Workflow    string              `json:"workflow"`
	ReferenceID string              `json:"referenceId"`
	Sessions    []reconcile.Session `json:"sessions"`
	Errors      []FieldError        `json:"errors"`
}

type workbenchEntry struct {
	mu       sync.Mutex
	saveMu   sync.Mutex
	store    *reconcile.Store
	lastUsed time.Time
}

// WorkbenchService keeps one session store per (workflow, reference) and
// runs every mutation on it to completion under that store's mutex.
type WorkbenchService struct {
	services map[string]reconcile.SessionService
	drafts   DraftStore
	locker   SaveLocker
	events   EventPublisher
	logger   *logrus.Logger
	now      func() time.Time

	mu     sync.Mutex
	stores map[string]*workbenchEntry
}

func NewWorkbenchService(
	services map[string]reconcile.SessionService,
	drafts DraftStore,
	locker SaveLocker,
	publisher EventPublisher,
	logger *logrus.Logger,
	now func() time.Time,
) *WorkbenchService {
	if now == nil {
		now = time.Now
	}
	return &WorkbenchService{
		services: services,
		drafts:   drafts,
		locker:   locker,
		events:   publisher,
		logger:   logger,
		now:      now,
		stores:   make(map[string]*workbenchEntry),
	}
}

func (w *WorkbenchService) entry(workflow, referenceID string) (*workbenchEntry, error) {
	wf, ok := workflows.ByName(workflow)
	if !ok {
		return nil, ErrUnknownWorkflow
	}
	svc, ok := w.services[workflow]
	if !ok {
		return nil, ErrUnknownWorkflow
	}

	key := workflow + ":" + referenceID
	w.mu.Lock()
	defer w.mu.Unlock()
	if e, ok := w.stores[key]; ok {
		e.lastUsed = w.now()
		return e, nil
	}
	e := &workbenchEntry{
		store: reconcile.NewStore(referenceID, wf, svc,
			reconcile.WithLogger(w.logger),
			reconcile.WithClock(w.now),
		),
		lastUsed: w.now(),
	}
	w.stores[key] = e
	metrics.LiveStores.Set(float64(len(w.stores)))
	return e, nil
}

// EvictIdle drops stores unused for longer than maxIdle. Stores busy with a
// request are kept. Live edits survive eviction through the draft store.
func (w *WorkbenchService) EvictIdle(maxIdle time.Duration) int {
	cutoff := w.now().Add(-maxIdle)
	w.mu.Lock()
	defer w.mu.Unlock()

	evicted := 0
	for key, e := range w.stores {
		if e.lastUsed.After(cutoff) || !e.mu.TryLock() {
			continue
		}
		delete(w.stores, key)
		e.mu.Unlock()
		evicted++
	}
	metrics.LiveStores.Set(float64(len(w.stores)))
	return evicted
}

// RunEviction calls EvictIdle every interval until ctx is done.
func (w *WorkbenchService) RunEviction(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := w.EvictIdle(maxIdle); n > 0 {
				w.logger.WithField("evicted", n).Debug("idle session stores evicted")
			}
		}
	}
}

// ensureLoaded loads the store on first use, or always when reload is set,
// and then re-applies any stored draft of the live session. Callers hold
// e.mu.
func (w *WorkbenchService) ensureLoaded(ctx context.Context, e *workbenchEntry, reload bool) error {
	s := e.store
	if s.Loaded() && !reload {
		return nil
	}
	if err := s.Load(ctx); err != nil {
		return err
	}

	draft, err := w.drafts.Load(ctx, s.Workflow().Name(), s.ReferenceID())
	if err != nil {
		w.log(s).WithError(err).Warn("draft load failed")
		return nil
	}
	if len(draft) > 0 {
		restored := s.RestoreLive(draft)
		w.log(s).WithFields(logrus.Fields{
			"draft_entries": len(draft),
			"restored":      restored,
		}).Debug("live session draft restored")
	}
	return nil
}

func (w *WorkbenchService) Sessions(ctx context.Context, workflow, referenceID string, reload bool) (*Snapshot, error) {
	e, err := w.entry(workflow, referenceID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := w.ensureLoaded(ctx, e, reload); err != nil {
		return nil, err
	}
	return snapshot(e.store), nil
}

// UpdateEntry applies a patch to one entry. A rejected edit returns the
// snapshot together with the *reconcile.ValidationError.
func (w *WorkbenchService) UpdateEntry(ctx context.Context, workflow, referenceID, sessionID, entryID string, patch reconcile.EntryPatch) (*Snapshot, error) {
	e, err := w.entry(workflow, referenceID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := w.ensureLoaded(ctx, e, false); err != nil {
		return nil, err
	}

	s := e.store
	if err := s.UpdateEntry(sessionID, entryID, patch); err != nil {
		var verr *reconcile.ValidationError
		if errors.As(err, &verr) {
			metrics.ValidationFailures.WithLabelValues(workflow, verr.Key.Field).Inc()
			return snapshot(s), err
		}
		return nil, err
	}

	w.persistDraft(ctx, s)
	w.events.Publish(events.Event{
		Type:        events.TypeEntryUpdated,
		Workflow:    workflow,
		ReferenceID: referenceID,
		SessionID:   sessionID,
		Payload:     map[string]string{"entryId": entryID},
	})
	return snapshot(s), nil
}

// Save persists the live session. Only one save per reference runs at a
// time, across all server instances when Redis is available.
func (w *WorkbenchService) Save(ctx context.Context, workflow, referenceID, name string) (*reconcile.SaveResult, *Snapshot, error) {
	e, err := w.entry(workflow, referenceID)
	if err != nil {
		return nil, nil, err
	}
	if !e.saveMu.TryLock() {
		return nil, nil, ErrSaveInProgress
	}
	defer e.saveMu.Unlock()

	release, err := w.locker.ObtainSaveLock(ctx, workflow, referenceID)
	if errors.Is(err, cache.ErrLocked) {
		return nil, nil, ErrSaveInProgress
	}
	if err != nil {
		return nil, nil, err
	}
	defer release()

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := w.ensureLoaded(ctx, e, false); err != nil {
		return nil, nil, err
	}

	s := e.store
	result, err := s.SaveSession(ctx, name)
	if err != nil {
		var verr *reconcile.ValidationError
		if errors.As(err, &verr) {
			metrics.ValidationFailures.WithLabelValues(workflow, verr.Key.Field).Inc()
		}
		if verr != nil || errors.Is(err, reconcile.ErrNothingToSave) {
			return nil, snapshot(s), err
		}
		return nil, nil, err
	}

	metrics.SessionsSaved.WithLabelValues(workflow).Inc()
	if !result.StatusUpdated {
		metrics.StatusUpdateFailures.WithLabelValues(workflow).Inc()
	}
	w.persistDraft(ctx, s)
	w.events.Publish(events.Event{
		Type:        events.TypeSessionSaved,
		Workflow:    workflow,
		ReferenceID: referenceID,
		SessionID:   result.Session.ID,
		Payload:     result,
	})
	return result, snapshot(s), nil
}

func (w *WorkbenchService) Delete(ctx context.Context, workflow, referenceID, sessionID string) (*reconcile.DeleteResult, *Snapshot, error) {
	e, err := w.entry(workflow, referenceID)
	if err != nil {
		return nil, nil, err
	}
	if !e.saveMu.TryLock() {
		return nil, nil, ErrSaveInProgress
	}
	defer e.saveMu.Unlock()

	release, err := w.locker.ObtainSaveLock(ctx, workflow, referenceID)
	if errors.Is(err, cache.ErrLocked) {
		return nil, nil, ErrSaveInProgress
	}
	if err != nil {
		return nil, nil, err
	}
	defer release()

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := w.ensureLoaded(ctx, e, false); err != nil {
		return nil, nil, err
	}

	s := e.store
	result, err := s.DeleteSession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	metrics.SessionsDeleted.WithLabelValues(workflow).Inc()
	if !result.StatusUpdated {
		metrics.StatusUpdateFailures.WithLabelValues(workflow).Inc()
	}
	w.persistDraft(ctx, s)
	w.events.Publish(events.Event{
		Type:        events.TypeSessionDeleted,
		Workflow:    workflow,
		ReferenceID: referenceID,
		SessionID:   sessionID,
		Payload:     result,
	})
	return result, snapshot(s), nil
}

// persistDraft stores the touched entries of the live session.
func (w *WorkbenchService) persistDraft(ctx context.Context, s *reconcile.Store) {
	wf := s.Workflow()
	var touched []reconcile.Entry
	for _, e := range s.Live().Entries {
		if draftable(wf, e) {
			touched = append(touched, e)
		}
	}
	if err := w.drafts.Save(ctx, wf.Name(), s.ReferenceID(), touched); err != nil {
		w.log(s).WithError(err).Warn("draft save failed")
	}
}

func draftable(wf reconcile.Workflow, e reconcile.Entry) bool {
	if wf.Committed(e) != 0 {
		return true
	}
	return e.WarehouseID != "" || e.LocationNotes != "" || e.ReturnReason != "" ||
		e.Condition != "" || e.AcceptCondition != "" || e.Notes != ""
}

func (w *WorkbenchService) log(s *reconcile.Store) *logrus.Entry {
	return w.logger.WithFields(logrus.Fields{
		"workflow":     s.Workflow().Name(),
		"reference_id": s.ReferenceID(),
	})
}

func snapshot(s *reconcile.Store) *Snapshot {
	errs := s.ValidationErrors()
	out := make([]FieldError, 0, len(errs))
	for k, msg := range errs {
		out = append(out, FieldError{SessionID: k.SessionID, EntryID: k.EntryID, Field: k.Field, Message: msg})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.SessionID != b.SessionID {
			return a.SessionID < b.SessionID
		}
		if a.EntryID != b.EntryID {
			return a.EntryID < b.EntryID
		}
		return a.Field < b.Field
	})
	return &Snapshot{
		Workflow:    s.Workflow().Name(),
		ReferenceID: s.ReferenceID(),
		Sessions:    s.Sessions(),
		Errors:      out,
	}
}
