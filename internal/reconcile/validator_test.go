package reconcile_test

import (
	"strings"
	"testing"

	"warehouse-backend/internal/reconcile"
	"warehouse-backend/internal/workflows"
)

func TestValidateQuantities(t *testing.T) {
	putaway := workflows.PutAway{}
	ret := workflows.Return{}

	cases := []struct {
		name      string
		entry     reconcile.Entry
		fields    []string
		committed int
		c         reconcile.Constraints
		wantErr   string
	}{
		{
			name:      "within ceiling",
			entry:     reconcile.Entry{Quantity: 10},
			fields:    putaway.QuantityFields(),
			committed: 10,
			c:         reconcile.Constraints{Max: 10},
		},
		{
			name:      "negative rejected",
			entry:     reconcile.Entry{Quantity: -1},
			fields:    putaway.QuantityFields(),
			committed: -1,
			c:         reconcile.Constraints{Max: 10},
			wantErr:   "negative",
		},
		{
			name:      "negative allowed",
			entry:     reconcile.Entry{Quantity: -1},
			fields:    putaway.QuantityFields(),
			committed: -1,
			c:         reconcile.Constraints{Max: 10, AllowNegative: true},
		},
		{
			name:      "over ceiling",
			entry:     reconcile.Entry{Quantity: 11},
			fields:    putaway.QuantityFields(),
			committed: 11,
			c:         reconcile.Constraints{Max: 10},
			wantErr:   "(10)",
		},
		{
			name:      "over ceiling tolerated",
			entry:     reconcile.Entry{Quantity: 11},
			fields:    putaway.QuantityFields(),
			committed: 11,
			c:         reconcile.Constraints{Max: 10, MaxExceedanceAllowed: true},
		},
		{
			name:      "split total over ceiling",
			entry:     reconcile.Entry{ReturnToVendorQty: 15, AcceptToStockQty: 10},
			fields:    ret.QuantityFields(),
			committed: 25,
			c:         reconcile.Constraints{Max: 20},
			wantErr:   "Total quantity (25)",
		},
		{
			name:      "negative split field",
			entry:     reconcile.Entry{ReturnToVendorQty: 5, AcceptToStockQty: -2},
			fields:    ret.QuantityFields(),
			committed: 3,
			c:         reconcile.Constraints{Max: 20},
			wantErr:   "negative",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := reconcile.ValidateQuantities(tc.entry, tc.fields, tc.committed, tc.c)
			if tc.wantErr == "" && got != "" {
				t.Fatalf("expected no error, got %q", got)
			}
			if tc.wantErr != "" && !strings.Contains(got, tc.wantErr) {
				t.Fatalf("expected error containing %q, got %q", tc.wantErr, got)
			}
		})
	}
}

func TestCeilingIgnoresLiveAndOwnSession(t *testing.T) {
	wf := workflows.PutAway{}
	e := skuEntry("e1", 100)
	a := e
	a.Quantity = 30
	b := e
	b.Quantity = 25
	live := e
	live.Quantity = 40

	sessions := []reconcile.Session{
		{ID: "s1", IsSaved: true, Entries: []reconcile.Entry{a}},
		{ID: "s2", IsSaved: true, Entries: []reconcile.Entry{b}},
		{ID: reconcile.LiveSessionID, Entries: []reconcile.Entry{live}},
	}

	if got := reconcile.Ceiling(live, sessions, reconcile.LiveSessionID, wf.Committed); got != 45 {
		t.Fatalf("expected ceiling 45 for live session, got %d", got)
	}
	if got := reconcile.Ceiling(b, sessions, "s2", wf.Committed); got != 70 {
		t.Fatalf("expected ceiling 70 for s2, got %d", got)
	}
}
