package snapshot

import (
	"testing"
)

func TestCompareIdenticalIgnoringTimestamp(t *testing.T) {
	before := []byte(`{
		"package": "web",
		"analyzedAt": "2026-01-01T00:00:00Z",
		"graph": {"entryModule": "src/index.ts", "exports": [{"name": "run", "file": "src/run.ts"}]},
		"tiers": {"src/run.ts": {"tier": 1, "reason": "Exported from entry module"}}
	}`)
	after := []byte(`{
		"package": "web",
		"analyzedAt": "2026-02-01T00:00:00Z",
		"graph": {"entryModule": "src/index.ts", "exports": [{"name": "run", "file": "src/run.ts"}]},
		"tiers": {"src/run.ts": {"tier": 1, "reason": "Exported from entry module"}}
	}`)

	d, err := Compare(before, after)
	if err != nil {
		t.Fatal(err)
	}
	if !d.Identical {
		t.Error("snapshots differing only in analyzedAt should be identical")
	}
	if len(d.AddedExports)+len(d.RemovedExports)+len(d.MovedExports)+len(d.TierChanges) != 0 {
		t.Errorf("identical snapshots reported changes: %+v", d)
	}
}

func TestCompareExportChanges(t *testing.T) {
	before := []byte(`{
		"package": "web",
		"graph": {"exports": [
			{"name": "keep", "file": "src/a.ts"},
			{"name": "gone", "file": "src/b.ts"},
			{"name": "moved", "file": "src/old.ts"}
		]}
	}`)
	after := []byte(`{
		"package": "web",
		"graph": {"exports": [
			{"name": "keep", "file": "src/a.ts"},
			{"name": "fresh", "file": "src/c.ts"},
			{"name": "moved", "file": "src/new.ts"}
		]}
	}`)

	d, err := Compare(before, after)
	if err != nil {
		t.Fatal(err)
	}
	if d.Identical {
		t.Error("changed exports should not compare identical")
	}
	if len(d.AddedExports) != 1 || d.AddedExports[0] != "fresh" {
		t.Errorf("addedExports = %v", d.AddedExports)
	}
	if len(d.RemovedExports) != 1 || d.RemovedExports[0] != "gone" {
		t.Errorf("removedExports = %v", d.RemovedExports)
	}
	if len(d.MovedExports) != 1 || d.MovedExports[0] != "moved: src/old.ts -> src/new.ts" {
		t.Errorf("movedExports = %v", d.MovedExports)
	}
}

func TestCompareTierChanges(t *testing.T) {
	before := []byte(`{"package": "web", "tiers": {
		"src/a.ts": {"tier": 1, "reason": "Exported from entry module"},
		"src/b.ts": {"tier": 2, "reason": "Internal"}
	}}`)
	after := []byte(`{"package": "web", "tiers": {
		"src/a.ts": {"tier": 2, "reason": "Internal"},
		"src/b.ts": {"tier": 2, "reason": "Internal"}
	}}`)

	d, err := Compare(before, after)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.TierChanges) != 1 || d.TierChanges[0] != "src/a.ts: 1 -> 2" {
		t.Errorf("tierChanges = %v", d.TierChanges)
	}
}

func TestCompareMalformedPayload(t *testing.T) {
	if _, err := Compare([]byte(`{`), []byte(`{}`)); err == nil {
		t.Error("malformed payload should fail")
	}
}
