package symbolgraph

import (
	"sort"

	"pkglens/internal/model"
)

// RankByImportCount orders the graph's resolved public exports by how many
// distinct package files import them, most-imported first. Ties break on
// name so the ranking is stable. This is the default ranking fed to the
// pattern fingerprinter.
func (b *Builder) RankByImportCount(g *model.SymbolGraph) []model.ResolvedExport {
	importers := make(map[string]map[string]bool)
	for _, p := range b.paths {
		f := b.files[p]
		for _, imp := range f.Imports {
			if imp.IsTypeOnly || imp.IsDynamic {
				continue
			}
			if b.resolveSpecifier(p, imp.Source) == "" {
				continue
			}
			for _, name := range imp.Names {
				if importers[name] == nil {
					importers[name] = make(map[string]bool)
				}
				importers[name][p] = true
			}
		}
	}

	ranked := make([]model.ResolvedExport, len(g.Exports))
	copy(ranked, g.Exports)
	sort.SliceStable(ranked, func(i, j int) bool {
		ci, cj := len(importers[ranked[i].Name]), len(importers[ranked[j].Name])
		if ci != cj {
			return ci > cj
		}
		return ranked[i].Name < ranked[j].Name
	})
	return ranked
}
