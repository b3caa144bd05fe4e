package reconcile

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Policy selects how the live session takes part in pending.
type Policy struct {
	// IncludeCurrent adds the current session's own in-progress quantity to
	// the committed total, so pending shrinks while the user types. When it
	// is false pending reflects saved history only.
	IncludeCurrent bool
}

// ComputePending derives the remaining quantity of e as seen from
// currentSessionID.
func ComputePending(e Entry, sessions []Session, currentSessionID string, p Policy, committed func(Entry) int) int {
	total := 0
	for i := range sessions {
		s := &sessions[i]
		if !s.IsSaved {
			continue
		}
		if p.IncludeCurrent && s.ID == currentSessionID {
			continue
		}
		if idx := s.entryIndex(e.ID); idx >= 0 {
			total += committed(s.Entries[idx])
		}
	}
	if p.IncludeCurrent {
		for i := range sessions {
			s := &sessions[i]
			if s.ID != currentSessionID {
				continue
			}
			if idx := s.entryIndex(e.ID); idx >= 0 {
				total += committed(s.Entries[idx])
			}
			break
		}
	}
	pending := e.Ordered - total
	if pending < 0 {
		return 0
	}
	return pending
}

// HistoryPending is the pending of e counting saved sessions only.
func HistoryPending(e Entry, sessions []Session, committed func(Entry) int) int {
	return ComputePending(e, sessions, "", Policy{}, committed)
}

// fingerprint hashes every quantity field of every session in order.
func fingerprint(sessions []Session) uint64 {
	d := xxhash.New()
	var buf [8]byte
	for i := range sessions {
		s := &sessions[i]
		d.WriteString(s.ID)
		if s.IsSaved {
			d.WriteString("|s")
		}
		for _, e := range s.Entries {
			d.WriteString(e.ID)
			for _, v := range []int{e.Ordered, e.Quantity, e.ReturnToVendorQty, e.AcceptToStockQty} {
				binary.LittleEndian.PutUint64(buf[:], uint64(int64(v)))
				d.Write(buf[:])
			}
		}
	}
	return d.Sum64()
}
