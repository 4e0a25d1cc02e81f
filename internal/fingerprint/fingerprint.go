// Package fingerprint infers structural summaries of the top public
// exports: parameter shape, return shape, internal calls, error handling,
// async style, and complexity, derived from function-body shape alone
// without a type checker. Parsing uses tree-sitter and requires CGO; the
// non-CGO build degrades to an unavailable stub.
package fingerprint

import (
	"fmt"
	"strings"

	"pkglens/internal/model"
)

// DefaultTopExports caps how many ranked exports are fingerprinted.
const DefaultTopExports = 5

// maxInternalCalls caps the distinct call targets recorded per export.
const maxInternalCalls = 15

// Error-handling categories.
const (
	ErrorNone       = "none"
	ErrorSwallow    = "try-catch-swallow"
	ErrorRethrow    = "try-catch-rethrow"
	ErrorLog        = "try-catch-log"
	ErrorLogRethrow = "try-catch-log-rethrow"
)

// Async-style categories.
const (
	AsyncAwait   = "async/await"
	PromiseChain = "promise-chain"
	Sync         = "sync"
)

// Complexity categories.
const (
	ComplexitySimple   = "simple"
	ComplexityModerate = "moderate"
	ComplexityComplex  = "complex"
)

// Candidate is one ranked export to fingerprint.
type Candidate struct {
	Export string
	File   string
	Kind   model.ExportKind
}

// classifyComplexity buckets the raw body-shape score.
func classifyComplexity(score int) string {
	switch {
	case score <= 5:
		return ComplexitySimple
	case score <= 15:
		return ComplexityModerate
	default:
		return ComplexityComplex
	}
}

// composeSummary builds the one-line structural summary. Void returns,
// sync style, and absent error handling are omitted rather than stated.
func composeSummary(fp model.PatternFingerprint, kind model.ExportKind) string {
	kindWord := "Function"
	if kind == model.KindClass {
		kindWord = "Class"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s `%s` takes %s", kindWord, fp.Export, fp.ParamShape)

	if len(fp.InternalCalls) > 0 {
		calls := fp.InternalCalls
		if len(calls) > 4 {
			calls = calls[:4]
		}
		fmt.Fprintf(&b, ", calls %s", strings.Join(calls, ", "))
	}
	if fp.ReturnShape != "void" {
		fmt.Fprintf(&b, ", returns %s", fp.ReturnShape)
	}
	if fp.AsyncPattern != Sync {
		fmt.Fprintf(&b, ", %s", fp.AsyncPattern)
	}
	if fp.ErrorPattern != ErrorNone {
		fmt.Fprintf(&b, ", with %s error handling", fp.ErrorPattern)
	}
	return b.String()
}
