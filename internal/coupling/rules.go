package coupling

import (
	"fmt"
	"sort"
	"strings"

	"pkglens/internal/model"
)

// GenerateCoChangeRules turns surviving co-change edges into workflow
// rules. Edges touching a file already covered by an import-chain rule are
// removed first; the static signal already produced guidance for them.
// Cliques collapse to a single cluster rule each, and leftover edges
// group per endpoint with ≥2 surviving partners. Output is sorted by
// group size descending and capped at maxRules.
func GenerateCoChangeRules(edges []model.CoChangeEdge, covered map[string]bool, maxRules int) []model.WorkflowRule {
	var surviving []model.CoChangeEdge
	for _, e := range edges {
		if covered[e.File1] || covered[e.File2] {
			continue
		}
		surviving = append(surviving, e)
	}
	if len(surviving) == 0 {
		return nil
	}

	clusters := DetectClusters(surviving)

	inCluster := make(map[string]int) // file -> cluster index
	for i, c := range clusters {
		for _, f := range c {
			inCluster[f] = i
		}
	}

	type ruleGroup struct {
		size int
		rule model.WorkflowRule
	}
	var groups []ruleGroup

	for _, c := range clusters {
		groups = append(groups, ruleGroup{
			size: len(c),
			rule: model.WorkflowRule{
				Trigger:    "Modifying any of " + strings.Join(c, ", "),
				Action:     "Also check the other files in this cluster; they historically change together",
				Provenance: model.ProvenanceCoChange,
				Impact:     "high",
			},
		})
	}

	// Edges absorbed by a cluster are those whose endpoints share one.
	type partner struct {
		file    string
		jaccard float64
	}
	partners := make(map[string][]partner)
	for _, e := range surviving {
		c1, ok1 := inCluster[e.File1]
		c2, ok2 := inCluster[e.File2]
		if ok1 && ok2 && c1 == c2 {
			continue
		}
		partners[e.File1] = append(partners[e.File1], partner{e.File2, e.Jaccard})
		partners[e.File2] = append(partners[e.File2], partner{e.File1, e.Jaccard})
	}

	files := make([]string, 0, len(partners))
	for f := range partners {
		files = append(files, f)
	}
	sort.Strings(files)

	for _, f := range files {
		ps := partners[f]
		if len(ps) < 2 {
			continue
		}
		sort.Slice(ps, func(i, j int) bool {
			if ps[i].jaccard != ps[j].jaccard {
				return ps[i].jaccard > ps[j].jaccard
			}
			return ps[i].file < ps[j].file
		})

		var names []string
		for i, p := range ps {
			if i >= 3 {
				break
			}
			names = append(names, p.file)
		}
		action := "Also check " + strings.Join(names, ", ")
		if extra := len(ps) - 3; extra > 0 {
			action += fmt.Sprintf(", and %d more", extra)
		}
		groups = append(groups, ruleGroup{
			size: len(ps) + 1,
			rule: model.WorkflowRule{
				Trigger:    "Modifying " + f,
				Action:     action,
				Provenance: model.ProvenanceCoChange,
				Impact:     "medium",
			},
		})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].size != groups[j].size {
			return groups[i].size > groups[j].size
		}
		return groups[i].rule.Trigger < groups[j].rule.Trigger
	})
	if len(groups) > maxRules {
		groups = groups[:maxRules]
	}

	rules := make([]model.WorkflowRule, len(groups))
	for i, grp := range groups {
		rules[i] = grp.rule
	}
	return rules
}

// MergeRules concatenates the two rule sets; the import-chain dedup
// contract already ran when the co-change rules were generated, so the
// merge itself is a plain append with import-chain rules first.
func MergeRules(importChain, coChange []model.WorkflowRule) []model.WorkflowRule {
	out := make([]model.WorkflowRule, 0, len(importChain)+len(coChange))
	out = append(out, importChain...)
	out = append(out, coChange...)
	return out
}
