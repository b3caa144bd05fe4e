package idgen

import "testing"

func TestGenerateIDUnique(t *testing.T) {
	seen := make(map[int64]bool)
	for i := 0; i < 1000; i++ {
		id := GenerateID()
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}
	if GenerateString() == "" {
		t.Fatalf("empty string id")
	}
}
