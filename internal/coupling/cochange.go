// Package coupling derives "if you touch X, also check Y" workflow rules
// from two independent signals: static import fan-in and version-control
// co-change history. The two rule sets are merged with a dedup contract so
// the same file pair never produces redundant guidance.
package coupling

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"pkglens/internal/config"
	"pkglens/internal/diag"
	"pkglens/internal/model"
)

const diagModule = "coupling"

// sourceFileExtensions are the path suffixes kept by the commit-log
// parser; everything else (docs, lockfiles, assets) is dropped.
var sourceFileExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}

// Commit is one parsed commit block from the raw history text.
type Commit struct {
	Hash      string
	Timestamp int64
	Files     []string
}

// ParseCommitLog parses raw commit-history text in the block format
// produced by `git log --format='%H %ct' --name-status`: a header line
// with hash and unix timestamp, one status<TAB>path line per changed
// file, blocks separated by blank lines. Only add/modify/copy entries and
// rename destinations for recognized source extensions are kept; malformed
// lines are skipped with a diagnostic.
func ParseCommitLog(raw string, diags *diag.Collector) []Commit {
	var commits []Commit
	var cur *Commit

	flush := func() {
		if cur != nil && cur.Hash != "" {
			commits = append(commits, *cur)
		}
		cur = nil
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}

		if cur == nil {
			fields := strings.Fields(line)
			if len(fields) < 2 {
				diags.Warn(diagModule, fmt.Sprintf("malformed commit header %q", line), "")
				cur = &Commit{} // swallow the rest of the block
				continue
			}
			ts, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				diags.Warn(diagModule, fmt.Sprintf("malformed commit timestamp %q", fields[1]), "")
				cur = &Commit{}
				continue
			}
			cur = &Commit{Hash: fields[0], Timestamp: ts}
			continue
		}

		parts := strings.Split(line, "\t")
		if len(parts) < 2 {
			diags.Warn(diagModule, fmt.Sprintf("malformed status line %q", line), "")
			continue
		}
		status := parts[0]
		file := ""
		switch {
		case strings.HasPrefix(status, "A"), strings.HasPrefix(status, "M"):
			file = parts[1]
		case strings.HasPrefix(status, "C"), strings.HasPrefix(status, "R"):
			// copy/rename lines carry old<TAB>new; keep the destination
			file = parts[len(parts)-1]
		default:
			continue // deletions and other statuses are dropped
		}
		file = model.NormalizePath(file)
		if !isSourceFile(file) {
			continue
		}
		cur.Files = append(cur.Files, file)
	}
	flush()

	return commits
}

func isSourceFile(p string) bool {
	for _, ext := range sourceFileExtensions {
		if strings.HasSuffix(p, ext) {
			return true
		}
	}
	return false
}

type pairKey struct {
	a, b string // a < b
}

func makePairKey(f1, f2 string) pairKey {
	if f1 < f2 {
		return pairKey{f1, f2}
	}
	return pairKey{f2, f1}
}

// AnalyzeCoChanges computes surviving co-change edges from parsed commits.
// Filters apply in order: over-sized commit skip, hub exclusion (with the
// young-repository leniency), recency window, minimum co-change count,
// minimum Jaccard. Edges come back canonicalized (file1 < file2) and
// sorted by Jaccard descending, then pair ascending.
func AnalyzeCoChanges(commits []Commit, cfg config.CoChangeConfig, diags *diag.Collector) []model.CoChangeEdge {
	type pairStat struct {
		count int
		last  int64
	}

	pairs := make(map[pairKey]*pairStat)
	fileCommits := make(map[string]int)
	qualifying := 0
	skipped := 0
	var newest int64

	for _, c := range commits {
		if len(c.Files) > cfg.MaxFilesPerCommit {
			skipped++
			continue
		}
		if len(c.Files) == 0 {
			continue
		}
		qualifying++
		if c.Timestamp > newest {
			newest = c.Timestamp
		}

		// distinct files only; a rename pair can repeat a path
		seen := make(map[string]bool, len(c.Files))
		var files []string
		for _, f := range c.Files {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
		sort.Strings(files)

		for _, f := range files {
			fileCommits[f]++
		}
		for i := 0; i < len(files); i++ {
			for j := i + 1; j < len(files); j++ {
				key := makePairKey(files[i], files[j])
				st := pairs[key]
				if st == nil {
					st = &pairStat{}
					pairs[key] = st
				}
				st.count++
				if c.Timestamp > st.last {
					st.last = c.Timestamp
				}
			}
		}
	}

	if skipped > 0 {
		diags.Info(diagModule, fmt.Sprintf("skipped %d over-sized commits (more than %d files)", skipped, cfg.MaxFilesPerCommit), "")
	}
	if qualifying == 0 {
		return nil
	}

	// Hub exclusion. Sparse history gets the looser fraction so young
	// repositories are not over-filtered.
	hubFraction := cfg.HubCommitFraction
	if qualifying < cfg.YoungRepoCommitFloor {
		hubFraction = cfg.YoungRepoHubFraction
	}
	hubs := make(map[string]bool)
	for f, n := range fileCommits {
		if float64(n) > hubFraction*float64(qualifying) {
			hubs[f] = true
		}
	}

	cutoff := newest - int64(cfg.RecencyWindowDays)*24*60*60

	var edges []model.CoChangeEdge
	for key, st := range pairs {
		if hubs[key.a] || hubs[key.b] {
			continue
		}
		if st.last < cutoff {
			continue // stale correlation, not actionable
		}
		if st.count < cfg.MinCoChangeCount {
			continue
		}
		union := fileCommits[key.a] + fileCommits[key.b] - st.count
		if union <= 0 {
			continue
		}
		jaccard := float64(st.count) / float64(union)
		if jaccard < cfg.MinJaccard {
			continue
		}
		edges = append(edges, model.CoChangeEdge{
			File1:         key.a,
			File2:         key.b,
			CoChangeCount: st.count,
			File1Commits:  fileCommits[key.a],
			File2Commits:  fileCommits[key.b],
			Jaccard:       jaccard,
			LastCoChange:  st.last,
		})
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Jaccard != edges[j].Jaccard {
			return edges[i].Jaccard > edges[j].Jaccard
		}
		if edges[i].File1 != edges[j].File1 {
			return edges[i].File1 < edges[j].File1
		}
		return edges[i].File2 < edges[j].File2
	})
	return edges
}
