//go:build !cgo

// This stub is used when CGO is not available; fingerprinting degrades to
// an empty result with a diagnostic rather than failing the run.
package fingerprint

import (
	"context"

	"pkglens/internal/diag"
	"pkglens/internal/model"
)

// IsAvailable reports whether tree-sitter fingerprinting is compiled in.
func IsAvailable() bool {
	return false
}

// Fingerprinter analyzes export declarations in source files.
// This is a stub implementation when CGO is not available.
type Fingerprinter struct {
	diags *diag.Collector
}

// NewFingerprinter creates a fingerprinter rooted at the package directory.
func NewFingerprinter(root string, diags *diag.Collector) *Fingerprinter {
	return &Fingerprinter{diags: diags}
}

// Fingerprint returns no fingerprints when CGO is not available.
func (f *Fingerprinter) Fingerprint(ctx context.Context, candidates []Candidate, topN int) []model.PatternFingerprint {
	if len(candidates) > 0 {
		f.diags.Info("fingerprint", "tree-sitter not available in this build; skipping pattern fingerprints", "")
	}
	return nil
}
