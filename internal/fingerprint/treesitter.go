//go:build cgo

package fingerprint

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"pkglens/internal/diag"
	"pkglens/internal/model"
)

const diagModule = "fingerprint"

// WrapperDetector recognizes one known wrapper call (memoization,
// ref-forwarding, ...) and returns the wrapped function node. Detectors
// are registered in a static table at startup; dynamic plugin loading is
// a deployment concern outside this core.
type WrapperDetector interface {
	// Matches reports whether the callee name is this detector's wrapper.
	Matches(callee string) bool
	// Unwrap returns the function node inside the wrapper call, or nil.
	Unwrap(call *sitter.Node) *sitter.Node
}

// firstArgDetector unwraps wrappers whose first argument is the function,
// which covers every wrapper in the default table.
type firstArgDetector struct {
	names map[string]bool
}

func (d *firstArgDetector) Matches(callee string) bool {
	return d.names[callee]
}

func (d *firstArgDetector) Unwrap(call *sitter.Node) *sitter.Node {
	args := call.ChildByFieldName("arguments")
	if args == nil {
		return nil
	}
	for i := 0; i < int(args.NamedChildCount()); i++ {
		arg := args.NamedChild(i)
		if isFunctionNode(arg) {
			return arg
		}
	}
	return nil
}

var wrapperDetectors []WrapperDetector

// RegisterWrapper adds a detector to the static table.
func RegisterWrapper(d WrapperDetector) {
	wrapperDetectors = append(wrapperDetectors, d)
}

func init() {
	RegisterWrapper(&firstArgDetector{names: map[string]bool{
		"memo":        true,
		"forwardRef":  true,
		"observer":    true,
		"memoize":     true,
		"useCallback": true,
	}})
}

// IsAvailable reports whether tree-sitter fingerprinting is compiled in.
func IsAvailable() bool {
	return true
}

// Fingerprinter analyzes export declarations in source files.
type Fingerprinter struct {
	root   string
	parser *sitter.Parser
	diags  *diag.Collector
}

// NewFingerprinter creates a fingerprinter rooted at the package directory.
func NewFingerprinter(root string, diags *diag.Collector) *Fingerprinter {
	return &Fingerprinter{
		root:   root,
		parser: sitter.NewParser(),
		diags:  diags,
	}
}

// Fingerprint analyzes the top-N ranked candidates. Candidates are grouped
// by file so each syntax tree is built once; unparseable files and
// unlocatable declarations are skipped with an informational diagnostic.
func (f *Fingerprinter) Fingerprint(ctx context.Context, candidates []Candidate, topN int) []model.PatternFingerprint {
	if topN <= 0 {
		topN = DefaultTopExports
	}
	if len(candidates) > topN {
		candidates = candidates[:topN]
	}

	byFile := make(map[string][]Candidate)
	var fileOrder []string
	for _, c := range candidates {
		if _, seen := byFile[c.File]; !seen {
			fileOrder = append(fileOrder, c.File)
		}
		byFile[c.File] = append(byFile[c.File], c)
	}
	sort.Strings(fileOrder)

	results := make(map[string]model.PatternFingerprint)
	for _, file := range fileOrder {
		f.fingerprintFile(ctx, file, byFile[file], results)
	}

	// Report in the caller's ranked order.
	var out []model.PatternFingerprint
	for _, c := range candidates {
		if fp, ok := results[c.Export]; ok {
			out = append(out, fp)
		}
	}
	return out
}

func (f *Fingerprinter) fingerprintFile(ctx context.Context, file string, candidates []Candidate, results map[string]model.PatternFingerprint) {
	source, err := os.ReadFile(filepath.Join(f.root, filepath.FromSlash(file)))
	if err != nil {
		f.diags.Info(diagModule, fmt.Sprintf("cannot read %s: %v", file, err), file)
		return
	}

	lang := languageForFile(file)
	f.parser.SetLanguage(lang)
	tree, err := f.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		f.diags.Info(diagModule, fmt.Sprintf("failed to parse %s: %v", file, err), file)
		return
	}
	root := tree.RootNode()

	for _, c := range candidates {
		decl := locateDeclaration(root, source, c.Export)
		if decl == nil {
			f.diags.Info(diagModule, fmt.Sprintf("declaration of %q not found in %s", c.Export, file), file)
			continue
		}
		fp := analyzeDeclaration(decl, source)
		fp.Export = c.Export
		fp.File = c.File
		fp.Summary = composeSummary(fp, c.Kind)
		results[c.Export] = fp
	}
}

func languageForFile(file string) *sitter.Language {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".tsx":
		return tsx.GetLanguage()
	case ".ts":
		return typescript.GetLanguage()
	default:
		return javascript.GetLanguage()
	}
}

// locateDeclaration finds the function node declaring an export: a direct
// function declaration, or a variable bound to an arrow/function
// expression, unwrapping one layer of a known wrapper call.
func locateDeclaration(root *sitter.Node, source []byte, name string) *sitter.Node {
	var found *sitter.Node

	walk(root, func(n *sitter.Node) bool {
		if found != nil {
			return false
		}
		switch n.Type() {
		case "function_declaration", "generator_function_declaration":
			if nameNode := n.ChildByFieldName("name"); nameNode != nil && nodeText(nameNode, source) == name {
				found = n
			}
		case "variable_declarator":
			nameNode := n.ChildByFieldName("name")
			if nameNode == nil || nodeText(nameNode, source) != name {
				return true
			}
			value := n.ChildByFieldName("value")
			if value == nil {
				return true
			}
			if isFunctionNode(value) {
				found = value
				return false
			}
			if value.Type() == "call_expression" {
				callee := calleeName(value, source)
				for _, d := range wrapperDetectors {
					if d.Matches(callee) {
						if inner := d.Unwrap(value); inner != nil {
							found = inner
							return false
						}
					}
				}
			}
		}
		return true
	})

	return found
}

func isFunctionNode(n *sitter.Node) bool {
	if n == nil {
		return false
	}
	switch n.Type() {
	case "arrow_function", "function_expression", "function", "generator_function":
		return true
	}
	return false
}

// calleeName returns the call target: a bare identifier, or obj.method
// when the receiver is itself a simple identifier. Empty otherwise.
func calleeName(call *sitter.Node, source []byte) string {
	fn := call.ChildByFieldName("function")
	if fn == nil {
		return ""
	}
	switch fn.Type() {
	case "identifier":
		return nodeText(fn, source)
	case "member_expression":
		obj := fn.ChildByFieldName("object")
		prop := fn.ChildByFieldName("property")
		if obj != nil && prop != nil && obj.Type() == "identifier" {
			return nodeText(obj, source) + "." + nodeText(prop, source)
		}
	}
	return ""
}

// walk visits nodes in document order. The callback returns false to skip
// a node's subtree.
func walk(n *sitter.Node, fn func(*sitter.Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		walk(n.Child(i), fn)
	}
}

func nodeText(n *sitter.Node, source []byte) string {
	return string(source[n.StartByte():n.EndByte()])
}
