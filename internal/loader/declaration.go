package loader

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"pkglens/internal/errors"
)

// DeclarationFile is the default filename for package declarations.
const DeclarationFile = "PKGLENS.toml"

// Declaration carries optional per-package overrides for the analysis:
// which file is the entry aggregator and which scripts are executable
// entry points. Values here take precedence over the front-end dump.
type Declaration struct {
	// Version is the schema version
	Version int `toml:"version"`

	// EntryModule overrides the designated entry aggregator module
	EntryModule string `toml:"entry_module,omitempty"`

	// EntryPoints lists executable entry scripts outside the entry module
	EntryPoints []string `toml:"entry_points,omitempty"`
}

// LoadDeclaration parses PKGLENS.toml from the package root. A missing
// file returns (nil, nil): declarations are optional. A present but
// unparseable declaration is CONFIG_INVALID, which is not fatal; callers
// degrade to the dump-derived defaults.
func LoadDeclaration(root string) (*Declaration, error) {
	path := filepath.Join(root, DeclarationFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.New(errors.InputMissing, fmt.Sprintf("cannot read %s", path), err)
	}

	var decl Declaration
	if err := toml.Unmarshal(data, &decl); err != nil {
		return nil, errors.New(errors.ConfigInvalid, fmt.Sprintf("cannot parse %s", path), err)
	}
	return &decl, nil
}

// ApplyDeclaration overlays declaration values onto a parsed dump.
func ApplyDeclaration(dump *ParsedDump, decl *Declaration) {
	if decl == nil {
		return
	}
	if decl.EntryModule != "" {
		dump.EntryModule = decl.EntryModule
	}
	if len(decl.EntryPoints) > 0 {
		dump.EntryPoints = decl.EntryPoints
	}
}
