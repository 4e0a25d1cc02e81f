// Package tier assigns every parsed file exactly one reachability tier:
// public surface (1), internal (2), or excluded (3). Classification is a
// pure function of the file's flags and the symbol graph; rule order is
// load-bearing and first match wins.
package tier

import (
	"pkglens/internal/model"
)

// Classify returns the tier for a single file. Test and generated files
// classify as excluded even when they are reachable from the entry module;
// tests never count as public surface.
func Classify(f model.ParsedFile, g *model.SymbolGraph) model.TierInfo {
	p := model.NormalizePath(f.Path)
	switch {
	case f.IsTest:
		return model.TierInfo{Tier: model.TierExcluded, Reason: "Test file"}
	case f.IsGenerated:
		return model.TierInfo{Tier: model.TierExcluded, Reason: "Generated file"}
	case g != nil && g.EntryModule != "" && p == g.EntryModule:
		return model.TierInfo{Tier: model.TierPublic, Reason: "Package entry point"}
	case g != nil && g.ReachableFiles[p]:
		return model.TierInfo{Tier: model.TierPublic, Reason: "Exported from entry module"}
	default:
		return model.TierInfo{Tier: model.TierInternal, Reason: "Internal"}
	}
}

// ClassifyAll maps every file to its tier.
func ClassifyAll(files []model.ParsedFile, g *model.SymbolGraph) map[string]model.TierInfo {
	out := make(map[string]model.TierInfo, len(files))
	for _, f := range files {
		out[f.Path] = Classify(f, g)
	}
	return out
}
