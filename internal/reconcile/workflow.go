package reconcile

import "context"

// Workflow supplies the rules of one concrete reconciliation flow.
type Workflow interface {
	Name() string
	Policy() Policy
	// QuantityFields are the numeric fields the user edits.
	QuantityFields() []string
	// Committed is the quantity an entry holds in its session.
	Committed(e Entry) int
	// ValidateEntry checks business rules beyond raw quantity bounds.
	ValidateEntry(e Entry, sessions []Session, sessionID string) string
	// PrepareSessionData filters entries that are ready and maps them to the
	// records persisted by the Session Service.
	PrepareSessionData(entries []Entry) []SaveRecord
}

// SessionService is the persistence contract implemented per workflow.
type SessionService interface {
	// LoadReference returns the reference lines with their ordered quantity.
	LoadReference(ctx context.Context, referenceID string) ([]Entry, error)
	LoadSessions(ctx context.Context, referenceID string) ([]Session, error)
	// SaveSession persists records and returns the new session id.
	SaveSession(ctx context.Context, referenceID, sessionName string, records []SaveRecord) (string, error)
	DeleteSession(ctx context.Context, sessionID, referenceID string) error
	// UpdateStatus syncs the reference status after a commit. Failures are
	// not fatal to the caller.
	UpdateStatus(ctx context.Context, referenceID string) error
}

// SaveResult describes a successful save.
type SaveResult struct {
	Workflow    string       `json:"workflow"`
	ReferenceID string       `json:"referenceId"`
	Session     Session      `json:"session"`
	Records     []SaveRecord `json:"records"`
	// Skipped holds entries with quantity that were not ready to persist.
	Skipped       []string `json:"skipped,omitempty"`
	LiveEntries   int      `json:"liveEntries"`
	StatusUpdated bool     `json:"statusUpdated"`
}

// DeleteResult describes a successful delete.
type DeleteResult struct {
	Workflow      string `json:"workflow"`
	ReferenceID   string `json:"referenceId"`
	SessionID     string `json:"sessionId"`
	LiveEntries   int    `json:"liveEntries"`
	StatusUpdated bool   `json:"statusUpdated"`
}
