package coupling

import (
	"fmt"
	"sort"
	"strings"

	"pkglens/internal/model"
)

// ResolveFunc maps an (importer file, module specifier) pair to a
// package-internal path, or "" when the specifier points outside the
// package. The symbol graph builder supplies this.
type ResolveFunc func(fromFile, spec string) string

// BuildImportEdges emits one FileImportEdge per (importer, source) pair
// where the importer statically pulls at least minShared distinct
// non-type, non-dynamic named symbols from a package-internal source.
// Edges come back sorted by importer then source.
func BuildImportEdges(g *model.SymbolGraph, resolve ResolveFunc, minShared int) []model.FileImportEdge {
	type key struct{ importer, source string }
	symbols := make(map[key]map[string]bool)

	for importer, imports := range g.FileImports {
		for _, imp := range imports {
			if imp.IsTypeOnly || imp.IsDynamic || len(imp.Names) == 0 {
				continue
			}
			source := resolve(importer, imp.Source)
			if source == "" || source == importer {
				continue
			}
			k := key{importer, source}
			if symbols[k] == nil {
				symbols[k] = make(map[string]bool)
			}
			for _, name := range imp.Names {
				symbols[k][name] = true
			}
		}
	}

	var edges []model.FileImportEdge
	for k, names := range symbols {
		if len(names) < minShared {
			continue
		}
		sorted := make([]string, 0, len(names))
		for n := range names {
			sorted = append(sorted, n)
		}
		sort.Strings(sorted)
		edges = append(edges, model.FileImportEdge{
			Importer:    k.importer,
			Source:      k.source,
			SymbolCount: len(sorted),
			Symbols:     sorted,
		})
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Importer != edges[j].Importer {
			return edges[i].Importer < edges[j].Importer
		}
		return edges[i].Source < edges[j].Source
	})
	return edges
}

// GenerateImportChainRules emits one rule per source file with at least
// minDependents high-coupling importers. The returned covered set holds
// every file named by an emitted rule; co-change dedup runs against it.
func GenerateImportChainRules(edges []model.FileImportEdge, minDependents, maxRules int) ([]model.WorkflowRule, map[string]bool) {
	bySource := make(map[string][]model.FileImportEdge)
	for _, e := range edges {
		bySource[e.Source] = append(bySource[e.Source], e)
	}

	type group struct {
		source    string
		importers []model.FileImportEdge
	}
	var groups []group
	for source, deps := range bySource {
		if len(deps) < minDependents {
			continue
		}
		sort.Slice(deps, func(i, j int) bool {
			if deps[i].SymbolCount != deps[j].SymbolCount {
				return deps[i].SymbolCount > deps[j].SymbolCount
			}
			return deps[i].Importer < deps[j].Importer
		})
		groups = append(groups, group{source: source, importers: deps})
	}

	sort.Slice(groups, func(i, j int) bool {
		if len(groups[i].importers) != len(groups[j].importers) {
			return len(groups[i].importers) > len(groups[j].importers)
		}
		return groups[i].source < groups[j].source
	})
	if len(groups) > maxRules {
		groups = groups[:maxRules]
	}

	covered := make(map[string]bool)
	rules := make([]model.WorkflowRule, 0, len(groups))
	for _, grp := range groups {
		var parts []string
		for i, dep := range grp.importers {
			if i >= 3 {
				break
			}
			parts = append(parts, fmt.Sprintf("%s (%d symbols)", dep.Importer, dep.SymbolCount))
		}
		action := "Check importers: " + strings.Join(parts, ", ")
		if extra := len(grp.importers) - 3; extra > 0 {
			action += fmt.Sprintf(", and %d more", extra)
		}
		rules = append(rules, model.WorkflowRule{
			Trigger:    "Modifying " + grp.source,
			Action:     action,
			Provenance: model.ProvenanceImportChain,
			Impact:     "high",
		})
		covered[grp.source] = true
	}
	return rules, covered
}
