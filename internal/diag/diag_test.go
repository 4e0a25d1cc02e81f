package diag

import (
	"sync"
	"testing"
)

func TestCollectorAppendOrder(t *testing.T) {
	c := New()
	c.Info("symbolgraph", "first", "a.ts")
	c.Warn("coupling", "second", "")
	c.Error("fingerprint", "third", "b.ts")

	entries := c.Entries()
	if len(entries) != 3 {
		t.Fatalf("got %d entries", len(entries))
	}
	if entries[0].Message != "first" || entries[1].Message != "second" || entries[2].Message != "third" {
		t.Errorf("entries out of order: %v", entries)
	}
	if entries[0].Level != LevelInfo || entries[1].Level != LevelWarning || entries[2].Level != LevelError {
		t.Errorf("levels wrong: %v", entries)
	}
}

func TestCollectorHasWarnings(t *testing.T) {
	c := New()
	if c.HasWarnings() {
		t.Error("empty collector has no warnings")
	}
	c.Info("symbolgraph", "just info", "")
	if c.HasWarnings() {
		t.Error("info entries are not warnings")
	}
	c.Warn("coupling", "a warning", "")
	if !c.HasWarnings() {
		t.Error("warning entry not reported")
	}
}

func TestCollectorEntriesIsACopy(t *testing.T) {
	c := New()
	c.Info("symbolgraph", "original", "")

	entries := c.Entries()
	entries[0].Message = "mutated"

	if c.Entries()[0].Message != "original" {
		t.Error("Entries must return a copy")
	}
}

func TestCollectorConcurrentAdd(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Info("symbolgraph", "concurrent", "")
		}()
	}
	wg.Wait()

	if got := len(c.Entries()); got != 50 {
		t.Errorf("got %d entries, want 50", got)
	}
}
