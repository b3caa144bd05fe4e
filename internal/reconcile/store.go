package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	ErrNotLoaded               = errors.New("sessions not loaded")
	ErrSessionNotFound         = errors.New("session not found")
	ErrEntryNotFound           = errors.New("entry not found in session")
	ErrSessionSaved            = errors.New("session is saved and cannot be edited")
	ErrLiveSessionNotDeletable = errors.New("live session cannot be deleted")
	ErrNothingToSave           = errors.New("no entries are ready to save")
)

// Store holds every session of one reference: the saved history plus the
// single live session. A Store is not safe for concurrent use; callers
// serialize access to it.
type Store struct {
	referenceID string
	workflow    Workflow
	service     SessionService
	logger      *logrus.Logger
	now         func() time.Time

	loaded     bool
	reference  []Entry
	sessions   []Session
	errors     map[ValidationKey]string
	lastPrint  uint64
	recomputed bool
}

type Option func(*Store)

func WithLogger(l *logrus.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func NewStore(referenceID string, wf Workflow, svc SessionService, opts ...Option) *Store {
	s := &Store{
		referenceID: referenceID,
		workflow:    wf,
		service:     svc,
		logger:      logrus.StandardLogger(),
		now:         time.Now,
		errors:      make(map[ValidationKey]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) ReferenceID() string { return s.referenceID }

func (s *Store) Workflow() Workflow { return s.workflow }

func (s *Store) Loaded() bool { return s.loaded }

func (s *Store) log() *logrus.Entry {
	return s.logger.WithFields(logrus.Fields{
		"workflow":     s.workflow.Name(),
		"reference_id": s.referenceID,
	})
}

// Load fetches the reference and its saved sessions and rebuilds the live
// session from whatever is still pending. On error the previous state is
// kept.
func (s *Store) Load(ctx context.Context) error {
	ref, err := s.service.LoadReference(ctx, s.referenceID)
	if err != nil {
		return fmt.Errorf("load reference: %w", err)
	}
	saved, err := s.service.LoadSessions(ctx, s.referenceID)
	if err != nil {
		return fmt.Errorf("load sessions: %w", err)
	}

	sessions := history(ref, saved)
	sessions = append(sessions, s.synthesizeLive(ref, sessions, nil))

	s.reference = append([]Entry(nil), ref...)
	s.sessions = sessions
	s.errors = make(map[ValidationKey]string)
	s.recomputed = false
	s.loaded = true
	s.RecomputeAll()

	s.log().WithField("saved_sessions", len(saved)).Debug("sessions loaded")
	return nil
}

// synthesizeLive builds a live session holding every reference entry whose
// history pending is above zero. Entries found in carry keep their values.
func (s *Store) synthesizeLive(ref []Entry, history []Session, carry map[string]Entry) Session {
	live := Session{
		ID:        LiveSessionID,
		Name:      DefaultSessionName,
		Timestamp: s.now(),
		Entries:   []Entry{},
	}
	for _, r := range ref {
		if HistoryPending(r, history, s.workflow.Committed) <= 0 {
			continue
		}
		if c, ok := carry[r.ID]; ok {
			live.Entries = append(live.Entries, c)
			continue
		}
		live.Entries = append(live.Entries, freshEntry(r))
	}
	return live
}

func freshEntry(r Entry) Entry {
	e := r
	e.Quantity = 0
	e.ReturnToVendorQty = 0
	e.AcceptToStockQty = 0
	e.Pending = 0
	return e
}

// Sessions returns a deep copy of all sessions, history first.
func (s *Store) Sessions() []Session {
	out := make([]Session, len(s.sessions))
	for i := range s.sessions {
		out[i] = s.sessions[i].clone()
	}
	return out
}

// Session returns a copy of one session.
func (s *Store) Session(id string) (Session, bool) {
	if i := s.sessionIndex(id); i >= 0 {
		return s.sessions[i].clone(), true
	}
	return Session{}, false
}

// Live returns a copy of the live session.
func (s *Store) Live() Session {
	if i := s.sessionIndex(LiveSessionID); i >= 0 {
		return s.sessions[i].clone()
	}
	return Session{ID: LiveSessionID, Name: DefaultSessionName}
}

func (s *Store) sessionIndex(id string) int {
	for i := range s.sessions {
		if s.sessions[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) locate(sessionID, entryID string) (*Session, int, error) {
	if !s.loaded {
		return nil, -1, ErrNotLoaded
	}
	i := s.sessionIndex(sessionID)
	if i < 0 {
		return nil, -1, ErrSessionNotFound
	}
	sess := &s.sessions[i]
	if sess.IsSaved {
		return nil, -1, ErrSessionSaved
	}
	idx := sess.entryIndex(entryID)
	if idx < 0 {
		return nil, -1, ErrEntryNotFound
	}
	return sess, idx, nil
}

// UpdateEntry validates the quantity fields carried by patch, then merges it
// into the entry and recomputes pending. A rejected edit records one
// validation error and leaves the entry unchanged.
func (s *Store) UpdateEntry(sessionID, entryID string, patch EntryPatch) error {
	sess, idx, err := s.locate(sessionID, entryID)
	if err != nil {
		return err
	}

	if field, ok := patch.NegativeField(); ok {
		key := ValidationKey{SessionID: sessionID, EntryID: entryID, Field: field}
		s.errors[key] = "Quantity cannot be negative"
		return &ValidationError{Key: key, Message: s.errors[key]}
	}

	candidate := patch.Apply(sess.Entries[idx])
	if field, ok := s.firstQuantityField(patch); ok {
		ceiling := Ceiling(candidate, s.sessions, sessionID, s.workflow.Committed)
		msg := ValidateQuantities(candidate, s.workflow.QuantityFields(), s.workflow.Committed(candidate), Constraints{Max: ceiling})
		if msg != "" {
			key := ValidationKey{SessionID: sessionID, EntryID: entryID, Field: field}
			s.errors[key] = msg
			return &ValidationError{Key: key, Message: msg}
		}
	}

	s.commitEntry(sess, idx, candidate, patch)
	return nil
}

// ApplyEntry merges patch without running the quantity validator. Callers
// that use it validate quantity fields themselves.
func (s *Store) ApplyEntry(sessionID, entryID string, patch EntryPatch) error {
	sess, idx, err := s.locate(sessionID, entryID)
	if err != nil {
		return err
	}
	s.commitEntry(sess, idx, patch.Apply(sess.Entries[idx]), patch)
	return nil
}

func (s *Store) commitEntry(sess *Session, idx int, e Entry, patch EntryPatch) {
	sess.Entries[idx] = e
	for _, f := range patch.Fields() {
		delete(s.errors, ValidationKey{SessionID: sess.ID, EntryID: e.ID, Field: f})
	}
	delete(s.errors, ValidationKey{SessionID: sess.ID, EntryID: e.ID, Field: FieldEntry})
	s.RecomputeAll()
}

func (s *Store) firstQuantityField(p EntryPatch) (string, bool) {
	quantity := make(map[string]bool)
	for _, f := range s.workflow.QuantityFields() {
		quantity[f] = true
	}
	for _, f := range p.Fields() {
		if quantity[f] {
			return f, true
		}
	}
	return "", false
}

// RecomputeAll refreshes pending for every entry of every session. It reports
// whether anything was rewritten; unchanged quantities skip the sweep.
func (s *Store) RecomputeAll() bool {
	fp := fingerprint(s.sessions)
	if s.recomputed && fp == s.lastPrint {
		return false
	}
	policy := s.workflow.Policy()
	for i := range s.sessions {
		sess := &s.sessions[i]
		for j := range sess.Entries {
			sess.Entries[j].Pending = ComputePending(sess.Entries[j], s.sessions, sess.ID, policy, s.workflow.Committed)
		}
	}
	s.lastPrint = fp
	s.recomputed = true
	return true
}

// CheckEntry runs the workflow's business rules on one entry.
func (s *Store) CheckEntry(sessionID, entryID string) string {
	i := s.sessionIndex(sessionID)
	if i < 0 {
		return ""
	}
	idx := s.sessions[i].entryIndex(entryID)
	if idx < 0 {
		return ""
	}
	return s.workflow.ValidateEntry(s.sessions[i].Entries[idx], s.sessions, sessionID)
}

// SaveSession persists the live session under name. On success the live
// session becomes saved history and a new live session takes its place.
func (s *Store) SaveSession(ctx context.Context, name string) (*SaveResult, error) {
	if !s.loaded {
		return nil, ErrNotLoaded
	}
	li := s.sessionIndex(LiveSessionID)
	if li < 0 {
		return nil, ErrSessionNotFound
	}
	if err := s.refreshHistory(ctx); err != nil {
		return nil, err
	}
	li = s.sessionIndex(LiveSessionID)
	live := s.sessions[li]
	wf := s.workflow

	for _, e := range live.Entries {
		ceiling := Ceiling(e, s.sessions, live.ID, wf.Committed)
		if msg := ValidateQuantities(e, wf.QuantityFields(), wf.Committed(e), Constraints{Max: ceiling}); msg != "" {
			key := ValidationKey{SessionID: live.ID, EntryID: e.ID, Field: wf.QuantityFields()[0]}
			s.errors[key] = msg
			return nil, &ValidationError{Key: key, Message: msg}
		}
	}

	notReady := make(map[string]string)
	ready := make([]Entry, 0, len(live.Entries))
	for _, e := range live.Entries {
		if wf.Committed(e) != 0 {
			if msg := wf.ValidateEntry(e, s.sessions, live.ID); msg != "" {
				notReady[e.ID] = msg
				continue
			}
		}
		ready = append(ready, e)
	}

	records := wf.PrepareSessionData(ready)
	if len(records) == 0 {
		for id, msg := range notReady {
			s.errors[ValidationKey{SessionID: live.ID, EntryID: id, Field: FieldEntry}] = msg
		}
		return nil, ErrNothingToSave
	}

	if name == "" {
		name = "Session " + s.now().Format("02 Jan 2006 15:04")
	}

	sessionID, err := s.service.SaveSession(ctx, s.referenceID, name, records)
	if err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	persisted := make(map[string]bool, len(records))
	for _, r := range records {
		persisted[r.ItemID] = true
	}
	saved := Session{ID: sessionID, Name: name, Timestamp: s.now(), IsSaved: true}
	carry := make(map[string]Entry)
	var skipped []string
	for _, e := range live.Entries {
		if persisted[e.ID] {
			saved.Entries = append(saved.Entries, e)
			continue
		}
		if wf.Committed(e) > 0 {
			carry[e.ID] = e
			skipped = append(skipped, e.ID)
		}
	}

	sessions := make([]Session, 0, len(s.sessions)+1)
	for i := range s.sessions {
		if i != li {
			sessions = append(sessions, s.sessions[i])
		}
	}
	sessions = append(sessions, saved)
	newLive := s.synthesizeLive(s.reference, sessions, carry)
	sessions = append(sessions, newLive)

	s.sessions = sessions
	s.clearSessionErrors(LiveSessionID)
	for id, msg := range notReady {
		if _, ok := carry[id]; ok {
			s.errors[ValidationKey{SessionID: LiveSessionID, EntryID: id, Field: FieldEntry}] = msg
		}
	}
	s.RecomputeAll()

	result := &SaveResult{
		Workflow:    wf.Name(),
		ReferenceID: s.referenceID,
		Session:     saved.clone(),
		Records:     records,
		Skipped:     skipped,
		LiveEntries: len(newLive.Entries),
	}
	result.StatusUpdated = s.updateStatus(ctx)

	s.log().WithFields(logrus.Fields{
		"session_id": sessionID,
		"records":    len(records),
		"skipped":    len(skipped),
	}).Info("session saved")
	return result, nil
}

// refreshHistory replaces the saved history with the service's current view
// so ceilings account for sessions saved elsewhere since Load. Live entries
// carrying a quantity are kept even when their line is now fully allocated;
// the ceiling check then rejects them instead of dropping the input.
func (s *Store) refreshHistory(ctx context.Context) error {
	saved, err := s.service.LoadSessions(ctx, s.referenceID)
	if err != nil {
		return fmt.Errorf("refresh sessions: %w", err)
	}
	li := s.sessionIndex(LiveSessionID)
	if li < 0 {
		return ErrSessionNotFound
	}
	live := s.sessions[li]
	current := make(map[string]Entry, len(live.Entries))
	for _, e := range live.Entries {
		current[e.ID] = e
	}

	sessions := history(s.reference, saved)
	entries := make([]Entry, 0, len(live.Entries))
	for _, r := range s.reference {
		c, ok := current[r.ID]
		switch {
		case ok && s.workflow.Committed(c) != 0:
			entries = append(entries, c)
		case HistoryPending(r, sessions, s.workflow.Committed) <= 0:
		case ok:
			entries = append(entries, c)
		default:
			entries = append(entries, freshEntry(r))
		}
	}
	live.Entries = entries
	s.sessions = append(sessions, live)
	s.RecomputeAll()
	return nil
}

// history prepares saved sessions from the service: marked saved, ordered
// quantities taken from the reference, oldest first.
func history(ref []Entry, saved []Session) []Session {
	byID := make(map[string]Entry, len(ref))
	for _, e := range ref {
		byID[e.ID] = e
	}
	out := make([]Session, 0, len(saved))
	for _, ss := range saved {
		ss = ss.clone()
		ss.IsSaved = true
		for i := range ss.Entries {
			if r, ok := byID[ss.Entries[i].ID]; ok {
				ss.Entries[i].Ordered = r.Ordered
				if ss.Entries[i].Label == "" {
					ss.Entries[i].Label = r.Label
				}
			}
		}
		out = append(out, ss)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// DeleteSession removes a saved session. Quantities it held return to
// pending and the live session gains any entry that became pending again.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) (*DeleteResult, error) {
	if !s.loaded {
		return nil, ErrNotLoaded
	}
	i := s.sessionIndex(sessionID)
	if i < 0 {
		return nil, ErrSessionNotFound
	}
	if !s.sessions[i].IsSaved {
		return nil, ErrLiveSessionNotDeletable
	}

	if err := s.service.DeleteSession(ctx, sessionID, s.referenceID); err != nil {
		return nil, fmt.Errorf("delete session: %w", err)
	}

	sessions := make([]Session, 0, len(s.sessions))
	sessions = append(sessions, s.sessions[:i]...)
	sessions = append(sessions, s.sessions[i+1:]...)
	s.sessions = sessions
	s.topUpLive()
	s.clearSessionErrors(sessionID)
	s.RecomputeAll()

	result := &DeleteResult{
		Workflow:    s.workflow.Name(),
		ReferenceID: s.referenceID,
		SessionID:   sessionID,
		LiveEntries: len(s.Live().Entries),
	}
	result.StatusUpdated = s.updateStatus(ctx)

	s.log().WithField("session_id", sessionID).Info("session deleted")
	return result, nil
}

// topUpLive rebuilds the live entry list in reference order, keeping current
// live values and adding entries whose history pending rose above zero.
func (s *Store) topUpLive() {
	li := s.sessionIndex(LiveSessionID)
	if li < 0 {
		s.sessions = append(s.sessions, s.synthesizeLive(s.reference, s.sessions, nil))
		return
	}
	current := make(map[string]Entry, len(s.sessions[li].Entries))
	for _, e := range s.sessions[li].Entries {
		current[e.ID] = e
	}
	rebuilt := s.synthesizeLive(s.reference, s.sessions, current)
	s.sessions[li].Entries = rebuilt.Entries
}

func (s *Store) updateStatus(ctx context.Context) bool {
	if err := s.service.UpdateStatus(ctx, s.referenceID); err != nil {
		s.log().WithError(err).Warn("status update failed")
		return false
	}
	return true
}

// RestoreLive re-applies draft values to the live session through
// UpdateEntry. Drafts that no longer validate are dropped. It returns the
// number of entries restored.
func (s *Store) RestoreLive(draft []Entry) int {
	restored := 0
	for _, d := range draft {
		err := s.UpdateEntry(LiveSessionID, d.ID, PatchFrom(d))
		if err == nil {
			restored++
			continue
		}
		var verr *ValidationError
		if errors.As(err, &verr) {
			delete(s.errors, verr.Key)
		}
		s.log().WithError(err).WithField("entry_id", d.ID).Warn("draft entry dropped")
	}
	return restored
}

// PatchFrom builds a patch that carries every mutable field of e.
func PatchFrom(e Entry) EntryPatch {
	str := func(v string) *string { return &v }
	num := func(v int) *int { return &v }
	return EntryPatch{
		Quantity:          num(e.Quantity),
		ReturnToVendorQty: num(e.ReturnToVendorQty),
		AcceptToStockQty:  num(e.AcceptToStockQty),
		WarehouseID:       str(e.WarehouseID),
		FloorID:           str(e.FloorID),
		LaneID:            str(e.LaneID),
		RackID:            str(e.RackID),
		LocationNotes:     str(e.LocationNotes),
		ReturnReason:      str(e.ReturnReason),
		Condition:         str(e.Condition),
		AcceptCondition:   str(e.AcceptCondition),
		Notes:             str(e.Notes),
		CustomerOrderID:   str(e.CustomerOrderID),
	}
}

func (s *Store) SetValidationError(key ValidationKey, message string) {
	s.errors[key] = message
}

func (s *Store) ClearValidationError(key ValidationKey) {
	delete(s.errors, key)
}

// ValidationErrors returns a copy of the current validation messages.
func (s *Store) ValidationErrors() map[ValidationKey]string {
	out := make(map[ValidationKey]string, len(s.errors))
	for k, v := range s.errors {
		out[k] = v
	}
	return out
}

func (s *Store) clearSessionErrors(sessionID string) {
	for k := range s.errors {
		if k.SessionID == sessionID {
			delete(s.errors, k)
		}
	}
}
