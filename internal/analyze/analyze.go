// Package analyze orchestrates one package's full analysis in strict
// dependency order: symbol graph, then tiers and fingerprints, then
// coupling rules. Each run is independent and pure computation over
// in-memory inputs; callers may analyze multiple packages in parallel
// with no coordination.
package analyze

import (
	"context"
	"time"

	"pkglens/internal/config"
	"pkglens/internal/coupling"
	"pkglens/internal/diag"
	"pkglens/internal/fingerprint"
	"pkglens/internal/loader"
	"pkglens/internal/logging"
	"pkglens/internal/model"
	"pkglens/internal/symbolgraph"
	"pkglens/internal/tier"
)

// Runner executes analyses with a fixed configuration.
type Runner struct {
	Root   string // package root on disk, used by the fingerprinter
	Config *config.Config
	Logger *logging.Logger
}

// Run analyzes one package. commitLog may be empty; the co-change
// sub-analyzer is skipped entirely then. The returned diagnostics list
// carries every recoverable condition encountered anywhere in the run.
func (r *Runner) Run(ctx context.Context, dump *loader.ParsedDump, commitLog string) (*model.AnalysisResult, []diag.Diagnostic) {
	diags := diag.New()

	builder := symbolgraph.NewBuilder(dump.Files, diags)
	graph := builder.Build(dump.EntryModule, dump.EntryPoints)

	r.Logger.Debug("Symbol graph built", map[string]interface{}{
		"package":   dump.Package,
		"exports":   len(graph.Exports),
		"reachable": len(graph.ReachableFiles),
		"callEdges": len(graph.CallGraph),
	})

	tiers := tier.ClassifyAll(dump.Files, graph)

	ranked := builder.RankByImportCount(graph)
	candidates := make([]fingerprint.Candidate, 0, len(ranked))
	for _, e := range ranked {
		if e.IsTypeOnly {
			continue
		}
		candidates = append(candidates, fingerprint.Candidate{
			Export: e.Name,
			File:   e.File,
			Kind:   e.Kind,
		})
	}
	fp := fingerprint.NewFingerprinter(r.Root, diags)
	fingerprints := fp.Fingerprint(ctx, candidates, r.Config.Fingerprint.TopExports)

	importEdges := coupling.BuildImportEdges(graph, builder.ResolveSpecifier, r.Config.ImportChain.MinSharedSymbols)
	importRules, covered := coupling.GenerateImportChainRules(importEdges, r.Config.ImportChain.MinDependents, r.Config.ImportChain.MaxRules)

	var coChangeRules []model.WorkflowRule
	if commitLog != "" {
		commits := coupling.ParseCommitLog(commitLog, diags)
		edges := coupling.AnalyzeCoChanges(commits, r.Config.CoChange, diags)
		coChangeRules = coupling.GenerateCoChangeRules(edges, covered, r.Config.CoChange.MaxRules)
	}

	result := &model.AnalysisResult{
		Package:      dump.Package,
		AnalyzedAt:   time.Now().UTC(),
		Graph:        graph,
		Tiers:        tiers,
		Fingerprints: fingerprints,
		Rules:        coupling.MergeRules(importRules, coChangeRules),
	}
	return result, diags.Entries()
}
