package database

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPendingFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_sessions.sql", "001_locations.sql", "999_reset_all.sql", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "old.sql"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := PendingFiles(dir, map[string]bool{"001_locations.sql": false})
	if err != nil {
		t.Fatalf("PendingFiles: %v", err)
	}
	if len(files) != 2 || files[0] != "001_locations.sql" || files[1] != "002_sessions.sql" {
		t.Fatalf("unexpected files %v", files)
	}

	files, err = PendingFiles(dir, map[string]bool{"001_locations.sql": true})
	if err != nil {
		t.Fatalf("PendingFiles: %v", err)
	}
	if len(files) != 1 || files[0] != "002_sessions.sql" {
		t.Fatalf("expected applied migration skipped, got %v", files)
	}
}

func TestPendingFilesMissingDir(t *testing.T) {
	if _, err := PendingFiles(filepath.Join(t.TempDir(), "nope"), nil); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}
