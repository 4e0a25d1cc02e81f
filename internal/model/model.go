// Package model defines the structural analysis data model: the per-file
// parse records consumed from the front-end parser and the derived
// artifacts (symbol graph, tiers, fingerprints, workflow rules) produced
// for downstream documentation and benchmarking tools.
package model

import (
	"path"
	"strings"
	"time"
)

// NormalizePath canonicalizes a repo-relative file path: forward slashes,
// cleaned, no leading "./". All graph keys use this form.
func NormalizePath(p string) string {
	if p == "" {
		return ""
	}
	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Clean(p)
	return strings.TrimPrefix(p, "./")
}

// ExportKind classifies what sort of declaration an export refers to.
type ExportKind string

const (
	KindFunction  ExportKind = "function"
	KindClass     ExportKind = "class"
	KindType      ExportKind = "type"
	KindInterface ExportKind = "interface"
	KindConst     ExportKind = "const"
	KindVariable  ExportKind = "variable"
	KindEnum      ExportKind = "enum"
	KindNamespace ExportKind = "namespace"
	KindUnknown   ExportKind = "unknown"
)

// ExportEntry is one export statement recorded by the front-end parser.
type ExportEntry struct {
	Name       string     `json:"name"`
	Kind       ExportKind `json:"kind"`
	IsReExport bool       `json:"isReExport"`
	IsTypeOnly bool       `json:"isTypeOnly"`
	// Source is the module specifier for `export ... from "src"` forms.
	Source string `json:"source,omitempty"`
	// IsWildcard marks `export * from "src"`. When Name is non-empty the
	// wildcard was namespaced (`export * as ns from "src"`).
	IsWildcard bool `json:"isWildcard,omitempty"`
	// LocalName is the symbol's name inside Source for renamed re-exports
	// (`export {local as name} from "src"`). Empty when unrenamed.
	LocalName string `json:"localName,omitempty"`
	Signature string `json:"signature,omitempty"`
	Doc       string `json:"doc,omitempty"`
}

// SourceName returns the name to resolve inside the re-export source.
func (e ExportEntry) SourceName() string {
	if e.LocalName != "" {
		return e.LocalName
	}
	return e.Name
}

// ImportEntry is one import statement recorded by the front-end parser.
type ImportEntry struct {
	Source     string   `json:"source"`
	Names      []string `json:"names,omitempty"`
	IsTypeOnly bool     `json:"isTypeOnly,omitempty"`
	IsDynamic  bool     `json:"isDynamic,omitempty"`
}

// CallReference is an observed call site inside a file.
type CallReference struct {
	Caller     string `json:"caller"`
	Callee     string `json:"callee"`
	IsInternal bool   `json:"isInternal"`
}

// ContentSignals carries coarse per-file content measurements from the
// front-end parser. They are advisory; nothing in the core depends on any
// particular signal being present.
type ContentSignals struct {
	LineCount     int  `json:"lineCount,omitempty"`
	FunctionCount int  `json:"functionCount,omitempty"`
	ClassCount    int  `json:"classCount,omitempty"`
	HasJSX        bool `json:"hasJsx,omitempty"`
}

// ParsedFile is the external, read-only input record for one source file.
type ParsedFile struct {
	Path            string          `json:"path"`
	Exports         []ExportEntry   `json:"exports,omitempty"`
	Imports         []ImportEntry   `json:"imports,omitempty"`
	Calls           []CallReference `json:"calls,omitempty"`
	Signals         ContentSignals  `json:"signals,omitempty"`
	IsTest          bool            `json:"isTest,omitempty"`
	IsGenerated     bool            `json:"isGenerated,omitempty"`
	HasSyntaxErrors bool            `json:"hasSyntaxErrors,omitempty"`
}

// ResolvedExport is a public API symbol after following all re-export
// chains back to its defining file.
type ResolvedExport struct {
	Name       string     `json:"name"`
	Kind       ExportKind `json:"kind"`
	IsTypeOnly bool       `json:"isTypeOnly,omitempty"`
	File       string     `json:"file"`
}

// CallGraphEdge is one intra-package call, attributed to files on both ends.
type CallGraphEdge struct {
	Caller     string `json:"caller"`
	Callee     string `json:"callee"`
	CallerFile string `json:"callerFile"`
	CalleeFile string `json:"calleeFile"`
}

// SymbolGraph is the resolved structural model of one package.
type SymbolGraph struct {
	// EntryModule is empty when the package has no designated aggregator.
	EntryModule string                   `json:"entryModule,omitempty"`
	Exports     []ResolvedExport         `json:"exports"`
	FileExports map[string][]ExportEntry `json:"fileExports"`
	FileImports map[string][]ImportEntry `json:"fileImports"`
	// ReachableFiles holds every file visited while resolving the public
	// API, plus files reachable from declared executable entry points.
	ReachableFiles map[string]bool `json:"reachableFiles"`
	CallGraph      []CallGraphEdge `json:"callGraph"`
}

// Tier is a file's reachability classification.
type Tier int

const (
	// TierPublic marks files that form the package's public surface.
	TierPublic Tier = 1
	// TierInternal marks implementation files not exported from the entry.
	TierInternal Tier = 2
	// TierExcluded marks test and generated files.
	TierExcluded Tier = 3
)

// TierInfo is the classification of one file with its rationale.
type TierInfo struct {
	Tier   Tier   `json:"tier"`
	Reason string `json:"reason"`
}

// PatternFingerprint is a structural summary of one public export's
// implementation, inferred from body shape alone.
type PatternFingerprint struct {
	Export        string   `json:"export"`
	File          string   `json:"file"`
	ParamShape    string   `json:"paramShape"`
	ReturnShape   string   `json:"returnShape"`
	InternalCalls []string `json:"internalCalls,omitempty"`
	ErrorPattern  string   `json:"errorPattern"`
	AsyncPattern  string   `json:"asyncPattern"`
	Complexity    string   `json:"complexity"`
	Summary       string   `json:"summary"`
}

// FileImportEdge records one importer pulling value symbols from one source.
type FileImportEdge struct {
	Importer    string   `json:"importer"`
	Source      string   `json:"source"`
	SymbolCount int      `json:"symbolCount"`
	Symbols     []string `json:"symbols"`
}

// CoChangeEdge is one surviving pairwise co-change signal. File1 is always
// the lexicographically smaller path.
type CoChangeEdge struct {
	File1         string  `json:"file1"`
	File2         string  `json:"file2"`
	CoChangeCount int     `json:"coChangeCount"`
	File1Commits  int     `json:"file1Commits"`
	File2Commits  int     `json:"file2Commits"`
	Jaccard       float64 `json:"jaccard"`
	LastCoChange  int64   `json:"lastCoChange"`
}

// WorkflowRule is one "if you touch X, also check Y" guidance statement.
type WorkflowRule struct {
	Trigger    string `json:"trigger"`
	Action     string `json:"action"`
	Provenance string `json:"provenance"`
	Impact     string `json:"impact"`
}

// Rule provenance tags.
const (
	ProvenanceImportChain = "import-chain"
	ProvenanceCoChange    = "co-change"
)

// AnalysisResult bundles everything one analysis run produces.
type AnalysisResult struct {
	Package      string               `json:"package"`
	AnalyzedAt   time.Time            `json:"analyzedAt"`
	Graph        *SymbolGraph         `json:"graph"`
	Tiers        map[string]TierInfo  `json:"tiers"`
	Fingerprints []PatternFingerprint `json:"fingerprints,omitempty"`
	Rules        []WorkflowRule       `json:"rules,omitempty"`
}
