// Package symbolgraph resolves a package's public API surface by following
// re-export chains from the entry aggregator module, and builds the
// intra-package call graph. Resolution is cycle-safe: a visited set of
// (file, name) pairs bounds every chain, so adversarially cyclic inputs
// terminate in O(exports x files).
package symbolgraph

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"pkglens/internal/diag"
	"pkglens/internal/model"
)

const diagModule = "symbolgraph"

// sourceExtensions are tried, in order, when a module specifier does not
// name an on-disk file directly. Import paths conventionally carry the
// compiled .js extension even when the source is .ts.
var sourceExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}

// compiledExtensions may appear in import specifiers and are rewritten
// against the source extension list.
var compiledExtensions = []string{".js", ".mjs", ".cjs"}

// Builder resolves one package's files into a SymbolGraph.
type Builder struct {
	files map[string]*model.ParsedFile
	paths []string // sorted, for deterministic iteration
	diags *diag.Collector
}

// NewBuilder indexes the parsed files by normalized path.
func NewBuilder(files []model.ParsedFile, diags *diag.Collector) *Builder {
	b := &Builder{
		files: make(map[string]*model.ParsedFile, len(files)),
		diags: diags,
	}
	for i := range files {
		f := &files[i]
		p := normalizePath(f.Path)
		b.files[p] = f
		b.paths = append(b.paths, p)
	}
	sort.Strings(b.paths)
	return b
}

// Build resolves the public API starting at entryModule and constructs the
// call graph. entryModule may be empty or missing; entryPoints lists
// executable entry scripts whose import closures also count as reachable.
func (b *Builder) Build(entryModule string, entryPoints []string) *model.SymbolGraph {
	g := &model.SymbolGraph{
		FileExports:    make(map[string][]model.ExportEntry, len(b.files)),
		FileImports:    make(map[string][]model.ImportEntry, len(b.files)),
		ReachableFiles: make(map[string]bool),
		Exports:        []model.ResolvedExport{},
		CallGraph:      []model.CallGraphEdge{},
	}
	for p, f := range b.files {
		g.FileExports[p] = f.Exports
		g.FileImports[p] = f.Imports
	}

	// Executable entry points are seeded first so CLI implementation
	// files are never mis-tiered as internal.
	for _, ep := range entryPoints {
		b.seedEntryPoint(normalizePath(ep), g.ReachableFiles)
	}

	entry := normalizePath(entryModule)
	if entry == "" || b.files[entry] == nil {
		if entryModule != "" {
			b.diags.Warn(diagModule, fmt.Sprintf("entry module %q not found; treating all files as internal", entryModule), entryModule)
		} else {
			b.diags.Warn(diagModule, "no entry module designated; treating all files as internal", "")
		}
		b.buildCallGraph(g)
		return g
	}

	g.EntryModule = entry
	g.ReachableFiles[entry] = true

	r := &resolver{
		b:         b,
		stack:     make(map[visitKey]bool),
		memo:      make(map[string][]model.ResolvedExport),
		reachable: g.ReachableFiles,
	}
	r.stack[visitKey{file: entry, name: "*"}] = true
	g.Exports = r.resolveModule(entry)

	b.buildCallGraph(g)
	return g
}

// visitKey identifies one resolution step for cycle detection.
type visitKey struct {
	file string
	name string // "*" for wildcard expansion
}

// resolver carries one Build invocation's resolution state. The stack
// holds the (file, name) pairs of the chain currently being followed, so
// revisiting a pair means a true cycle; diamond-shaped re-export graphs
// are not flagged. The memo bounds wildcard expansion to once per module.
type resolver struct {
	b         *Builder
	stack     map[visitKey]bool
	memo      map[string][]model.ResolvedExport
	reachable map[string]bool
}

// resolveModule resolves every export of one file, applying the collision
// contract: explicit named exports always beat wildcard-merged ones, and
// among wildcard merges the last writer in declaration order wins.
func (r *resolver) resolveModule(file string) []model.ResolvedExport {
	if cached, ok := r.memo[file]; ok {
		return cached
	}
	b := r.b
	f := b.files[file]
	if f == nil {
		return nil
	}

	var order []string
	byName := make(map[string]model.ResolvedExport)
	explicit := make(map[string]bool)

	record := func(re model.ResolvedExport, isExplicit bool) {
		if _, seen := byName[re.Name]; seen {
			if explicit[re.Name] && !isExplicit {
				return // explicit always wins over wildcard
			}
			// otherwise last writer in resolution order wins
		} else {
			order = append(order, re.Name)
		}
		byName[re.Name] = re
		if isExplicit {
			explicit[re.Name] = true
		}
	}

	for _, exp := range f.Exports {
		switch {
		case exp.IsWildcard && exp.Name != "":
			// export * as ns from M: one symbol, never expanded.
			target := b.resolveSpecifier(file, exp.Source)
			if target == "" {
				b.warnUnresolvable(file, exp.Source)
				continue
			}
			r.reachable[target] = true
			record(model.ResolvedExport{
				Name:       exp.Name,
				Kind:       model.KindNamespace,
				IsTypeOnly: exp.IsTypeOnly,
				File:       target,
			}, true)

		case exp.IsWildcard:
			target := b.resolveSpecifier(file, exp.Source)
			if target == "" {
				b.warnUnresolvable(file, exp.Source)
				continue
			}
			key := visitKey{file: target, name: "*"}
			if r.stack[key] {
				b.warnCircular(file, target, "*")
				continue
			}
			r.stack[key] = true
			r.reachable[target] = true
			for _, re := range r.resolveModule(target) {
				record(re, false)
			}
			delete(r.stack, key)

		case exp.IsReExport:
			target := b.resolveSpecifier(file, exp.Source)
			if target == "" {
				b.warnUnresolvable(file, exp.Source)
				continue
			}
			r.reachable[target] = true
			re, ok := r.resolveName(target, exp.SourceName())
			if !ok {
				continue
			}
			re.Name = exp.Name
			if exp.IsTypeOnly {
				re.IsTypeOnly = true
			}
			record(re, true)

		default:
			// Direct declaration resolves immediately to itself.
			record(model.ResolvedExport{
				Name:       exp.Name,
				Kind:       exp.Kind,
				IsTypeOnly: exp.IsTypeOnly,
				File:       file,
			}, true)
		}
	}

	out := make([]model.ResolvedExport, 0, len(order))
	for _, name := range order {
		out = append(out, byName[name])
	}
	r.memo[file] = out
	return out
}

// resolveName resolves one named symbol within a file, following named and
// wildcard re-exports. Returns false when the symbol was dropped (missing
// or circular).
func (r *resolver) resolveName(file, name string) (model.ResolvedExport, bool) {
	b := r.b
	key := visitKey{file: file, name: name}
	if r.stack[key] {
		b.warnCircular(file, file, name)
		return model.ResolvedExport{}, false
	}
	r.stack[key] = true
	defer delete(r.stack, key)
	r.reachable[file] = true

	f := b.files[file]
	if f == nil {
		return model.ResolvedExport{}, false
	}

	// Explicit declarations and named re-exports first.
	for _, exp := range f.Exports {
		if exp.IsWildcard || exp.Name != name {
			continue
		}
		if !exp.IsReExport {
			return model.ResolvedExport{
				Name:       exp.Name,
				Kind:       exp.Kind,
				IsTypeOnly: exp.IsTypeOnly,
				File:       file,
			}, true
		}
		target := b.resolveSpecifier(file, exp.Source)
		if target == "" {
			b.warnUnresolvable(file, exp.Source)
			return model.ResolvedExport{}, false
		}
		re, ok := r.resolveName(target, exp.SourceName())
		if !ok {
			return model.ResolvedExport{}, false
		}
		re.Name = name
		if exp.IsTypeOnly {
			re.IsTypeOnly = true
		}
		return re, true
	}

	// Fall back to wildcard re-exports, in declaration order.
	for _, exp := range f.Exports {
		if !exp.IsWildcard || exp.Name != "" {
			continue
		}
		target := b.resolveSpecifier(file, exp.Source)
		if target == "" {
			continue
		}
		r.reachable[target] = true
		if re, ok := r.resolveName(target, name); ok {
			return re, true
		}
	}

	return model.ResolvedExport{}, false
}

// seedEntryPoint marks an executable entry file and its static import
// closure as reachable.
func (b *Builder) seedEntryPoint(entry string, reachable map[string]bool) {
	f := b.files[entry]
	if f == nil {
		b.diags.Warn(diagModule, fmt.Sprintf("declared entry point %q not found", entry), entry)
		return
	}
	if reachable[entry] {
		return
	}
	reachable[entry] = true
	for _, imp := range f.Imports {
		target := b.resolveSpecifier(entry, imp.Source)
		if target == "" {
			continue
		}
		b.seedEntryPoint(target, reachable)
	}
}

// buildCallGraph emits one edge per internal call reference whose callee
// resolves to a package-internal definition. Callee attribution prefers a
// definition in the caller's own file.
func (b *Builder) buildCallGraph(g *model.SymbolGraph) {
	defs := b.definitionIndex()

	for _, p := range b.paths {
		f := b.files[p]
		for _, call := range f.Calls {
			if !call.IsInternal {
				continue
			}
			calleeFile := ""
			if local, ok := defs[p][call.Callee]; ok {
				calleeFile = local
			} else if global, ok := defs[""][call.Callee]; ok {
				calleeFile = global
			}
			if calleeFile == "" {
				continue // not resolvable to a package-internal definition
			}
			g.CallGraph = append(g.CallGraph, model.CallGraphEdge{
				Caller:     call.Caller,
				Callee:     call.Callee,
				CallerFile: p,
				CalleeFile: calleeFile,
			})
		}
	}
}

// definitionIndex maps symbol names to defining files. Key "" holds the
// package-wide index; per-file keys shadow it for same-file resolution.
// The package-wide index is filled in sorted path order so collisions
// resolve deterministically (first path wins).
func (b *Builder) definitionIndex() map[string]map[string]string {
	idx := map[string]map[string]string{"": {}}
	for _, p := range b.paths {
		f := b.files[p]
		local := make(map[string]string)
		for _, exp := range f.Exports {
			if exp.IsReExport || exp.IsWildcard || exp.Name == "" {
				continue
			}
			local[exp.Name] = p
			if _, taken := idx[""][exp.Name]; !taken {
				idx[""][exp.Name] = p
			}
		}
		idx[p] = local
	}
	return idx
}

// ResolveSpecifier exposes specifier resolution to other analyzers (the
// import-chain coupling analyzer resolves importer sources with the same
// rules the re-export resolver uses).
func (b *Builder) ResolveSpecifier(fromFile, spec string) string {
	return b.resolveSpecifier(normalizePath(fromFile), spec)
}

// resolveSpecifier maps a module specifier to a concrete parsed file,
// rewriting compiled extensions against on-disk source extensions. Returns
// "" when nothing matches.
func (b *Builder) resolveSpecifier(fromFile, spec string) string {
	if spec == "" || !strings.HasPrefix(spec, ".") {
		return "" // bare specifiers point outside the package
	}
	base := normalizePath(path.Join(path.Dir(fromFile), spec))

	if b.files[base] != nil {
		return base
	}

	// Declared extension may not match the on-disk source extension.
	for _, ce := range compiledExtensions {
		if strings.HasSuffix(base, ce) {
			stem := strings.TrimSuffix(base, ce)
			for _, se := range sourceExtensions {
				if b.files[stem+se] != nil {
					return stem + se
				}
			}
		}
	}

	for _, se := range sourceExtensions {
		if b.files[base+se] != nil {
			return base + se
		}
	}
	for _, se := range sourceExtensions {
		if b.files[base+"/index"+se] != nil {
			return base + "/index" + se
		}
	}
	return ""
}

func (b *Builder) warnUnresolvable(file, spec string) {
	b.diags.Warn(diagModule, fmt.Sprintf("unresolvable module specifier %q", spec), file)
}

func (b *Builder) warnCircular(file, target, name string) {
	b.diags.Warn(diagModule, fmt.Sprintf("circular re-export detected resolving %q via %s; symbol dropped", name, target), file)
}

func normalizePath(p string) string {
	return model.NormalizePath(p)
}
