package snapshot

import (
	"encoding/json"
	"fmt"
	"sort"

	"pkglens/internal/model"
	"pkglens/internal/output"
)

// Diff summarizes the public-surface changes between two snapshots.
type Diff struct {
	Identical      bool     `json:"identical"`
	AddedExports   []string `json:"addedExports,omitempty"`
	RemovedExports []string `json:"removedExports,omitempty"`
	MovedExports   []string `json:"movedExports,omitempty"`
	TierChanges    []string `json:"tierChanges,omitempty"`
}

// Compare diffs two stored snapshot payloads: export additions, removals,
// defining-file moves, and tier reassignments.
func Compare(before, after []byte) (*Diff, error) {
	same, _ := output.CompareSnapshots(before, after)

	var a, b model.AnalysisResult
	if err := json.Unmarshal(before, &a); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if err := json.Unmarshal(after, &b); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	d := &Diff{Identical: same}

	exportFile := func(r *model.AnalysisResult) map[string]string {
		m := make(map[string]string)
		if r.Graph == nil {
			return m
		}
		for _, e := range r.Graph.Exports {
			m[e.Name] = e.File
		}
		return m
	}
	beforeExports := exportFile(&a)
	afterExports := exportFile(&b)

	for name, file := range afterExports {
		prev, ok := beforeExports[name]
		switch {
		case !ok:
			d.AddedExports = append(d.AddedExports, name)
		case prev != file:
			d.MovedExports = append(d.MovedExports, fmt.Sprintf("%s: %s -> %s", name, prev, file))
		}
	}
	for name := range beforeExports {
		if _, ok := afterExports[name]; !ok {
			d.RemovedExports = append(d.RemovedExports, name)
		}
	}

	for file, cur := range b.Tiers {
		if prev, ok := a.Tiers[file]; ok && prev.Tier != cur.Tier {
			d.TierChanges = append(d.TierChanges, fmt.Sprintf("%s: %d -> %d", file, prev.Tier, cur.Tier))
		}
	}

	sort.Strings(d.AddedExports)
	sort.Strings(d.RemovedExports)
	sort.Strings(d.MovedExports)
	sort.Strings(d.TierChanges)
	return d, nil
}
