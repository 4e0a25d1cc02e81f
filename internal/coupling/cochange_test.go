package coupling

import (
	"fmt"
	"strings"
	"testing"

	"pkglens/internal/config"
	"pkglens/internal/diag"
)

func testCoChangeConfig() config.CoChangeConfig {
	cfg := config.Default().CoChange
	cfg.MinCoChangeCount = 1
	cfg.MinJaccard = 0
	return cfg
}

const ts0 = int64(1700000000)

func commitBlock(hash string, ts int64, lines ...string) string {
	return fmt.Sprintf("%s %d\n%s\n", hash, ts, strings.Join(lines, "\n"))
}

func TestParseCommitLog(t *testing.T) {
	raw := strings.Join([]string{
		commitBlock("abc123", ts0,
			"M\tsrc/a.ts",
			"A\tsrc/b.ts",
			"D\tsrc/gone.ts",
			"R100\tsrc/old.ts\tsrc/new.ts",
			"M\tREADME.md",
		),
		commitBlock("def456", ts0+100,
			"M\tsrc/c.tsx",
		),
	}, "\n")

	diags := diag.New()
	commits := ParseCommitLog(raw, diags)

	if len(commits) != 2 {
		t.Fatalf("expected 2 commits, got %d", len(commits))
	}
	want := []string{"src/a.ts", "src/b.ts", "src/new.ts"}
	if len(commits[0].Files) != len(want) {
		t.Fatalf("commit files = %v, want %v", commits[0].Files, want)
	}
	for i, f := range want {
		if commits[0].Files[i] != f {
			t.Errorf("file[%d] = %s, want %s", i, commits[0].Files[i], f)
		}
	}
	if commits[1].Timestamp != ts0+100 {
		t.Errorf("timestamp = %d, want %d", commits[1].Timestamp, ts0+100)
	}
}

func TestParseCommitLogMalformedLines(t *testing.T) {
	raw := "not-a-header\n\n" + commitBlock("abc", ts0, "M\tsrc/a.ts", "garbage-without-tab")

	diags := diag.New()
	commits := ParseCommitLog(raw, diags)

	if len(commits) != 1 {
		t.Fatalf("expected the valid commit to survive, got %d", len(commits))
	}
	if !diags.HasWarnings() {
		t.Error("expected diagnostics for malformed lines")
	}
}

func TestAnalyzeCoChangesBasic(t *testing.T) {
	var blocks []string
	for i := 0; i < 5; i++ {
		blocks = append(blocks, commitBlock(fmt.Sprintf("c%d", i), ts0+int64(i),
			"M\tsrc/a.ts",
			"M\tsrc/b.ts",
		))
	}
	diags := diag.New()
	commits := ParseCommitLog(strings.Join(blocks, "\n"), diags)

	edges := AnalyzeCoChanges(commits, testCoChangeConfig(), diags)

	if len(edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(edges))
	}
	e := edges[0]
	if e.File1 != "src/a.ts" || e.File2 != "src/b.ts" {
		t.Errorf("pair should be canonically ordered, got (%s, %s)", e.File1, e.File2)
	}
	if e.CoChangeCount != 5 {
		t.Errorf("coChangeCount = %d, want 5", e.CoChangeCount)
	}
	if e.Jaccard != 1.0 {
		t.Errorf("jaccard = %f, want 1.0", e.Jaccard)
	}
}

func TestAnalyzeCoChangesJaccardBoundary(t *testing.T) {
	// A and B co-occur in 8 commits, each appears alone in 2 more:
	// jaccard = 8 / (10 + 10 - 8) = 0.666...
	var blocks []string
	for i := 0; i < 8; i++ {
		blocks = append(blocks, commitBlock(fmt.Sprintf("c%d", i), ts0+int64(i), "M\tsrc/a.ts", "M\tsrc/b.ts"))
	}
	blocks = append(blocks,
		commitBlock("a1", ts0+100, "M\tsrc/a.ts"),
		commitBlock("a2", ts0+101, "M\tsrc/a.ts"),
		commitBlock("b1", ts0+102, "M\tsrc/b.ts"),
		commitBlock("b2", ts0+103, "M\tsrc/b.ts"),
	)
	// Filler keeps the history above the young-repository floor so the
	// strict hub fraction applies and neither file counts as a hub.
	for i := 0; i < 20; i++ {
		blocks = append(blocks, commitBlock(fmt.Sprintf("f%d", i), ts0+200+int64(i), fmt.Sprintf("M\tsrc/filler%02d.ts", i)))
	}
	diags := diag.New()
	commits := ParseCommitLog(strings.Join(blocks, "\n"), diags)

	cfg := testCoChangeConfig()
	cfg.MinJaccard = 0.7
	if edges := AnalyzeCoChanges(commits, cfg, diags); len(edges) != 0 {
		t.Errorf("jaccard 0.667 must be excluded at threshold 0.7, got %d edges", len(edges))
	}

	cfg.MinJaccard = 8.0 / 12.0
	edges := AnalyzeCoChanges(commits, cfg, diags)
	if len(edges) != 1 {
		t.Fatalf("jaccard at the exact boundary must be included, got %d edges", len(edges))
	}
	if got := edges[0].Jaccard; got < 0.666 || got > 0.667 {
		t.Errorf("jaccard = %f, want 8/12", got)
	}
}

func TestAnalyzeCoChangesOversizedCommitSkipped(t *testing.T) {
	var lines []string
	for i := 0; i < 25; i++ {
		lines = append(lines, fmt.Sprintf("M\tsrc/f%02d.ts", i))
	}
	raw := commitBlock("big", ts0, lines...) + "\n" +
		commitBlock("ok", ts0+1, "M\tsrc/a.ts", "M\tsrc/b.ts")

	diags := diag.New()
	commits := ParseCommitLog(raw, diags)
	edges := AnalyzeCoChanges(commits, testCoChangeConfig(), diags)

	if len(edges) != 1 {
		t.Fatalf("only the small commit should pair, got %d edges", len(edges))
	}
	found := false
	for _, d := range diags.Entries() {
		if strings.Contains(d.Message, "over-sized") {
			found = true
		}
	}
	if !found {
		t.Error("expected an over-sized commit diagnostic")
	}
}

func TestAnalyzeCoChangesRecencyFilter(t *testing.T) {
	const day = int64(24 * 60 * 60)
	newest := ts0 + 100*day

	raw := strings.Join([]string{
		// old pair, beyond the 45-day window from the newest commit
		commitBlock("old1", ts0, "M\tsrc/stale1.ts", "M\tsrc/stale2.ts"),
		commitBlock("old2", ts0+day, "M\tsrc/stale1.ts", "M\tsrc/stale2.ts"),
		// fresh pair
		commitBlock("new1", newest-day, "M\tsrc/a.ts", "M\tsrc/b.ts"),
		commitBlock("new2", newest, "M\tsrc/a.ts", "M\tsrc/b.ts"),
	}, "\n")

	diags := diag.New()
	commits := ParseCommitLog(raw, diags)
	edges := AnalyzeCoChanges(commits, testCoChangeConfig(), diags)

	if len(edges) != 1 {
		t.Fatalf("stale pair should be dropped, got %d edges", len(edges))
	}
	if edges[0].File1 != "src/a.ts" {
		t.Errorf("surviving edge should be the fresh pair, got %+v", edges[0])
	}
}

func TestAnalyzeCoChangesMinCount(t *testing.T) {
	raw := commitBlock("c1", ts0, "M\tsrc/a.ts", "M\tsrc/b.ts")

	diags := diag.New()
	commits := ParseCommitLog(raw, diags)

	cfg := testCoChangeConfig()
	cfg.MinCoChangeCount = 2
	if edges := AnalyzeCoChanges(commits, cfg, diags); len(edges) != 0 {
		t.Errorf("one-off pairing should be dropped, got %d edges", len(edges))
	}
}

func TestAnalyzeCoChangesHubExclusion(t *testing.T) {
	// types.ts touches most commits; its pairings are noise. Use enough
	// commits to stay above the young-repository floor.
	var blocks []string
	for i := 0; i < 40; i++ {
		blocks = append(blocks, commitBlock(fmt.Sprintf("h%d", i), ts0+int64(i),
			"M\tsrc/types.ts",
			fmt.Sprintf("M\tsrc/f%02d.ts", i%4),
		))
	}
	diags := diag.New()
	commits := ParseCommitLog(strings.Join(blocks, "\n"), diags)

	edges := AnalyzeCoChanges(commits, testCoChangeConfig(), diags)
	for _, e := range edges {
		if e.File1 == "src/types.ts" || e.File2 == "src/types.ts" {
			t.Errorf("hub file should have no pairings: %+v", e)
		}
	}
}

func TestAnalyzeCoChangesYoungRepoLeniency(t *testing.T) {
	// 5 qualifying commits is below the young-repository floor; a file
	// in 3 of 5 commits (60%) would be a hub under the strict fraction
	// but survives under the looser young-repository one.
	raw := strings.Join([]string{
		commitBlock("c1", ts0, "M\tsrc/core.ts", "M\tsrc/a.ts"),
		commitBlock("c2", ts0+1, "M\tsrc/core.ts", "M\tsrc/a.ts"),
		commitBlock("c3", ts0+2, "M\tsrc/core.ts", "M\tsrc/a.ts"),
		commitBlock("c4", ts0+3, "M\tsrc/x.ts"),
		commitBlock("c5", ts0+4, "M\tsrc/y.ts"),
	}, "\n")

	diags := diag.New()
	commits := ParseCommitLog(raw, diags)
	edges := AnalyzeCoChanges(commits, testCoChangeConfig(), diags)

	if len(edges) != 1 {
		t.Fatalf("young-repo leniency should keep the core.ts pair, got %d edges", len(edges))
	}
}
