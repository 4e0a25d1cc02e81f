package tier

import (
	"testing"

	"pkglens/internal/model"
)

func testGraph() *model.SymbolGraph {
	return &model.SymbolGraph{
		EntryModule: "src/index.ts",
		ReachableFiles: map[string]bool{
			"src/index.ts": true,
			"src/api.ts":   true,
		},
	}
}

func TestClassify(t *testing.T) {
	g := testGraph()

	tests := []struct {
		name       string
		file       model.ParsedFile
		wantTier   model.Tier
		wantReason string
	}{
		{
			name:       "test file",
			file:       model.ParsedFile{Path: "src/api.test.ts", IsTest: true},
			wantTier:   model.TierExcluded,
			wantReason: "Test file",
		},
		{
			name:       "generated file",
			file:       model.ParsedFile{Path: "src/schema.gen.ts", IsGenerated: true},
			wantTier:   model.TierExcluded,
			wantReason: "Generated file",
		},
		{
			name:       "entry module",
			file:       model.ParsedFile{Path: "src/index.ts"},
			wantTier:   model.TierPublic,
			wantReason: "Package entry point",
		},
		{
			name:       "reachable from entry",
			file:       model.ParsedFile{Path: "src/api.ts"},
			wantTier:   model.TierPublic,
			wantReason: "Exported from entry module",
		},
		{
			name:       "internal",
			file:       model.ParsedFile{Path: "src/private.ts"},
			wantTier:   model.TierInternal,
			wantReason: "Internal",
		},
		{
			// Rule order is load-bearing: a test file reachable from
			// the entry module never counts as public surface.
			name:       "test file reachable from entry",
			file:       model.ParsedFile{Path: "src/api.ts", IsTest: true},
			wantTier:   model.TierExcluded,
			wantReason: "Test file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := Classify(tt.file, g)
			if info.Tier != tt.wantTier {
				t.Errorf("tier = %d, want %d", info.Tier, tt.wantTier)
			}
			if info.Reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", info.Reason, tt.wantReason)
			}
		})
	}
}

func TestClassifyAllIsTotal(t *testing.T) {
	files := []model.ParsedFile{
		{Path: "src/index.ts"},
		{Path: "src/api.ts"},
		{Path: "src/private.ts"},
		{Path: "src/api.test.ts", IsTest: true},
	}

	tiers := ClassifyAll(files, testGraph())

	if len(tiers) != len(files) {
		t.Fatalf("expected %d tier assignments, got %d", len(files), len(tiers))
	}
	for path, info := range tiers {
		if info.Tier < model.TierPublic || info.Tier > model.TierExcluded {
			t.Errorf("%s has out-of-range tier %d", path, info.Tier)
		}
	}
}

func TestClassifyWithoutGraph(t *testing.T) {
	info := Classify(model.ParsedFile{Path: "src/a.ts"}, nil)
	if info.Tier != model.TierInternal {
		t.Errorf("missing graph should classify internal, got %d", info.Tier)
	}
}
