package reconcile

import "fmt"

// Constraints bound the numeric fields of a single entry.
type Constraints struct {
	// Max is the save-time ceiling: ordered minus what other saved sessions
	// already hold for the entry.
	Max                  int
	AllowNegative        bool
	MaxExceedanceAllowed bool
}

// ValidateQuantities checks the given numeric fields of e and its committed
// total against c. It returns an empty string when the entry is acceptable.
func ValidateQuantities(e Entry, fields []string, committed int, c Constraints) string {
	if !c.AllowNegative {
		for _, f := range fields {
			v, ok := e.QuantityField(f)
			if ok && v < 0 {
				return "Quantity cannot be negative"
			}
		}
	}
	if !c.MaxExceedanceAllowed && committed > c.Max {
		if len(fields) > 1 {
			return fmt.Sprintf("Total quantity (%d) cannot exceed maximum allowed (%d)", committed, c.Max)
		}
		return fmt.Sprintf("Quantity (%d) cannot exceed maximum allowed (%d)", committed, c.Max)
	}
	return ""
}

// Ceiling returns the maximum quantity the entry may hold in sessionID:
// ordered minus the committed quantities locked into every other saved session.
func Ceiling(e Entry, sessions []Session, sessionID string, committed func(Entry) int) int {
	locked := 0
	for i := range sessions {
		s := &sessions[i]
		if !s.IsSaved || s.ID == sessionID {
			continue
		}
		if idx := s.entryIndex(e.ID); idx >= 0 {
			locked += committed(s.Entries[idx])
		}
	}
	ceiling := e.Ordered - locked
	if ceiling < 0 {
		return 0
	}
	return ceiling
}
