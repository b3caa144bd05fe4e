package services

import (
	"testing"

	"warehouse-backend/internal/models"
)

func TestStatusDerivation(t *testing.T) {
	cases := []struct {
		total, done int
		putAway     string
		ret         string
	}{
		{10, 0, models.POStatusPending, models.ReturnStatusOpen},
		{10, 4, models.POStatusPartiallyPutAway, models.ReturnStatusPartiallyReturned},
		{10, 10, models.POStatusPutAway, models.ReturnStatusReturned},
		{10, 12, models.POStatusPutAway, models.ReturnStatusReturned},
	}
	for _, tc := range cases {
		if got := PutAwayStatus(tc.total, tc.done); got != tc.putAway {
			t.Fatalf("PutAwayStatus(%d, %d) = %q, want %q", tc.total, tc.done, got, tc.putAway)
		}
		if got := ReturnStatus(tc.total, tc.done); got != tc.ret {
			t.Fatalf("ReturnStatus(%d, %d) = %q, want %q", tc.total, tc.done, got, tc.ret)
		}
	}
}
