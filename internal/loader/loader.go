// Package loader reads the analysis inputs: the ParsedFile dump produced
// by the front-end parser, optional raw commit-history text, and the
// optional PKGLENS.toml package declaration. Unreadable required inputs
// are the only fatal condition in the whole pipeline.
package loader

import (
	"encoding/json"
	"fmt"
	"os"

	"pkglens/internal/errors"
	"pkglens/internal/model"
)

// ParsedDump is the top-level structure of the front-end parser's output.
type ParsedDump struct {
	Package string `json:"package"`
	// EntryModule is the designated entry aggregator, empty when the
	// front-end could not determine one.
	EntryModule string `json:"entryModule,omitempty"`
	// EntryPoints lists executable entry scripts (CLI binaries and the
	// like) outside the documentation aggregator.
	EntryPoints []string           `json:"entryPoints,omitempty"`
	Files       []model.ParsedFile `json:"files"`
}

// LoadParsedDump reads and decodes the ParsedFile dump. Missing or
// undecodable files are fatal: nothing downstream can run without them.
func LoadParsedDump(path string) (*ParsedDump, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.InputMissing, fmt.Sprintf("cannot read parsed-file dump %s", path), err)
	}

	var dump ParsedDump
	if err := json.Unmarshal(data, &dump); err != nil {
		return nil, errors.New(errors.InputMalformed, fmt.Sprintf("cannot decode parsed-file dump %s", path), err)
	}
	return &dump, nil
}

// LoadCommitLog reads raw commit-history text. The co-change analyzer is
// optional enrichment, so a missing path yields empty history, not an
// error; only an explicitly named unreadable file is fatal.
func LoadCommitLog(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.New(errors.InputMissing, fmt.Sprintf("cannot read commit history %s", path), err)
	}
	return string(data), nil
}
