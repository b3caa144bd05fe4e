package archive

import (
	"context"
	"testing"

	"warehouse-backend/internal/config"
)

func TestObjectKey(t *testing.T) {
	if got := ObjectKey("sessions", "putaway", "po-1", "123"); got != "sessions/putaway/po-1/123.json" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := ObjectKey("", "return", "r", "9"); got != "return/r/9.json" {
		t.Fatalf("unexpected key without prefix %q", got)
	}
}

func TestDisabledArchiverIsNoop(t *testing.T) {
	a, err := New(context.Background(), &config.Config{})
	if err != nil || a != nil {
		t.Fatalf("expected nil archiver, got %v %v", a, err)
	}
	if err := a.Archive(context.Background(), Document{SessionID: "1"}); err != nil {
		t.Fatalf("Archive on nil archiver: %v", err)
	}
	if err := a.Remove(context.Background(), "putaway", "po", "1"); err != nil {
		t.Fatalf("Remove on nil archiver: %v", err)
	}
}
