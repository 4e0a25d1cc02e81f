//go:build cgo

package fingerprint

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"pkglens/internal/model"
)

// analyzeDeclaration derives every fingerprint dimension from one function
// node's shape.
func analyzeDeclaration(decl *sitter.Node, source []byte) model.PatternFingerprint {
	body := decl.ChildByFieldName("body")
	calls := collectInternalCalls(body, source)

	return model.PatternFingerprint{
		ParamShape:    paramShape(decl, source),
		ReturnShape:   returnShape(body, source),
		InternalCalls: calls,
		ErrorPattern:  errorPattern(body, source),
		AsyncPattern:  asyncPattern(decl, body, source),
		Complexity:    classifyComplexity(complexityScore(body, len(calls))),
	}
}

// paramShape describes the parameter list: a single destructured or
// object-typed parameter reads as a config object, a single typed
// parameter keeps its annotation, anything longer lists positions.
func paramShape(decl *sitter.Node, source []byte) string {
	params := decl.ChildByFieldName("parameters")
	if params == nil {
		// Arrow functions can bind a single bare identifier.
		if p := decl.ChildByFieldName("parameter"); p != nil {
			return fmt.Sprintf("positional args (1): %s", nodeText(p, source))
		}
		return "no params"
	}

	var entries []*sitter.Node
	for i := 0; i < int(params.NamedChildCount()); i++ {
		entries = append(entries, params.NamedChild(i))
	}
	if len(entries) == 0 {
		return "no params"
	}

	if len(entries) == 1 {
		pattern, typ := parameterParts(entries[0])

		if pattern != nil && pattern.Type() == "object_pattern" {
			return "config object {" + strings.Join(objectPatternProps(pattern, source), ", ") + "}"
		}
		if typ != nil && typ.Type() == "object_type" {
			return "config object {" + strings.Join(objectTypeProps(typ, source), ", ") + "}"
		}
		if pattern != nil && typ != nil && typ.Type() == "type_identifier" {
			return fmt.Sprintf("`%s: %s`", nodeText(pattern, source), nodeText(typ, source))
		}
		if pattern != nil {
			return fmt.Sprintf("positional args (1): %s", paramName(pattern, source))
		}
		return "positional args (1): " + nodeText(entries[0], source)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		pattern, _ := parameterParts(e)
		if pattern != nil {
			names = append(names, paramName(pattern, source))
		} else {
			names = append(names, nodeText(e, source))
		}
	}
	return fmt.Sprintf("positional args (%d): %s", len(entries), strings.Join(names, ", "))
}

// parameterParts splits a formal parameter into its binding pattern and
// the resolved type annotation node, either of which may be absent. Plain
// JavaScript parameters are their own pattern.
func parameterParts(param *sitter.Node) (pattern, typ *sitter.Node) {
	switch param.Type() {
	case "required_parameter", "optional_parameter":
		pattern = param.ChildByFieldName("pattern")
		if ann := param.ChildByFieldName("type"); ann != nil {
			// type_annotation wraps the actual type node
			for i := 0; i < int(ann.NamedChildCount()); i++ {
				typ = ann.NamedChild(i)
			}
		}
	default:
		pattern = param
	}
	return pattern, typ
}

func paramName(pattern *sitter.Node, source []byte) string {
	if pattern.Type() == "object_pattern" {
		return "{" + strings.Join(objectPatternProps(pattern, source), ", ") + "}"
	}
	return nodeText(pattern, source)
}

func objectPatternProps(pattern *sitter.Node, source []byte) []string {
	var props []string
	for i := 0; i < int(pattern.NamedChildCount()); i++ {
		child := pattern.NamedChild(i)
		switch child.Type() {
		case "shorthand_property_identifier_pattern":
			props = append(props, nodeText(child, source))
		case "pair_pattern":
			if key := child.ChildByFieldName("key"); key != nil {
				props = append(props, nodeText(key, source))
			}
		case "object_assignment_pattern":
			if left := child.ChildByFieldName("left"); left != nil {
				props = append(props, nodeText(left, source))
			}
		case "rest_pattern":
			props = append(props, nodeText(child, source))
		}
	}
	return props
}

func objectTypeProps(typ *sitter.Node, source []byte) []string {
	var props []string
	for i := 0; i < int(typ.NamedChildCount()); i++ {
		child := typ.NamedChild(i)
		if child.Type() == "property_signature" {
			if name := child.ChildByFieldName("name"); name != nil {
				props = append(props, nodeText(name, source))
			}
		}
	}
	return props
}

// returnShape scans the body's own return statements (not those of nested
// functions) and reports the first distinct shape encountered.
func returnShape(body *sitter.Node, source []byte) string {
	if body == nil {
		return "void"
	}
	if body.Type() != "statement_block" {
		// Expression-bodied arrow function: the body is the return value.
		return shapeOf(body, source)
	}

	shape := ""
	walkOwnBody(body, func(n *sitter.Node) {
		if shape != "" || n.Type() != "return_statement" {
			return
		}
		var value *sitter.Node
		for i := 0; i < int(n.NamedChildCount()); i++ {
			value = n.NamedChild(i)
		}
		if value == nil {
			return
		}
		shape = shapeOf(value, source)
	})

	if shape == "" {
		return "void"
	}
	return shape
}

func shapeOf(value *sitter.Node, source []byte) string {
	for value != nil && value.Type() == "parenthesized_expression" {
		value = value.NamedChild(0)
	}
	if value == nil {
		return "value"
	}
	switch value.Type() {
	case "object":
		var props []string
		for i := 0; i < int(value.NamedChildCount()); i++ {
			child := value.NamedChild(i)
			switch child.Type() {
			case "pair":
				if key := child.ChildByFieldName("key"); key != nil {
					props = append(props, nodeText(key, source))
				}
			case "shorthand_property_identifier":
				props = append(props, nodeText(child, source))
			case "spread_element":
				props = append(props, "...spread")
			}
		}
		return "{" + strings.Join(props, ", ") + "}"
	case "jsx_element", "jsx_self_closing_element", "jsx_fragment":
		return "UIElement"
	default:
		return "value"
	}
}

// collectInternalCalls gathers distinct call targets in first-occurrence
// order, capped at maxInternalCalls. Only bare identifiers and
// identifier.method receivers qualify.
func collectInternalCalls(body *sitter.Node, source []byte) []string {
	if body == nil {
		return nil
	}
	seen := make(map[string]bool)
	var calls []string
	walk(body, func(n *sitter.Node) bool {
		if len(calls) >= maxInternalCalls {
			return false
		}
		if n.Type() == "call_expression" {
			if name := calleeName(n, source); name != "" && !seen[name] {
				seen[name] = true
				calls = append(calls, name)
			}
		}
		return true
	})
	return calls
}

// errorPattern classifies try/catch usage in the body.
func errorPattern(body *sitter.Node, source []byte) string {
	if body == nil {
		return ErrorNone
	}

	hasTry := false
	hasRethrow := false
	hasLog := false

	walk(body, func(n *sitter.Node) bool {
		if n.Type() != "try_statement" {
			return true
		}
		hasTry = true
		handler := n.ChildByFieldName("handler")
		if handler == nil {
			return true
		}
		walk(handler, func(c *sitter.Node) bool {
			switch c.Type() {
			case "throw_statement":
				hasRethrow = true
			case "call_expression":
				if isLoggingCall(calleeName(c, source)) {
					hasLog = true
				}
			}
			return true
		})
		return true
	})

	switch {
	case !hasTry:
		return ErrorNone
	case hasLog && hasRethrow:
		return ErrorLogRethrow
	case hasRethrow:
		return ErrorRethrow
	case hasLog:
		return ErrorLog
	default:
		return ErrorSwallow
	}
}

func isLoggingCall(name string) bool {
	if name == "" {
		return false
	}
	if strings.HasPrefix(name, "console.") {
		return true
	}
	lower := strings.ToLower(name)
	return strings.Contains(lower, "log") || strings.Contains(lower, "report")
}

// asyncPattern detects async/await, promise chaining, or plain sync style.
func asyncPattern(decl, body *sitter.Node, source []byte) string {
	for i := 0; i < int(decl.ChildCount()); i++ {
		if decl.Child(i).Type() == "async" {
			return AsyncAwait
		}
	}
	if body != nil {
		hasAwait := false
		hasThen := false
		walk(body, func(n *sitter.Node) bool {
			switch n.Type() {
			case "await_expression":
				hasAwait = true
			case "call_expression":
				if fn := n.ChildByFieldName("function"); fn != nil && fn.Type() == "member_expression" {
					if prop := fn.ChildByFieldName("property"); prop != nil && nodeText(prop, source) == "then" {
						hasThen = true
					}
				}
			}
			return true
		})
		if hasAwait {
			return AsyncAwait
		}
		if hasThen {
			return PromiseChain
		}
	}
	return Sync
}

// complexityScore = statements inside nested blocks + 2x conditional
// weight (if/ternary 1, switch 2, loop 1) + internal call count.
func complexityScore(body *sitter.Node, callCount int) int {
	if body == nil {
		return callCount
	}

	nestedStatements := 0
	conditionals := 0

	walkOwnBody(body, func(n *sitter.Node) {
		switch n.Type() {
		case "statement_block":
			if n != body {
				nestedStatements += int(n.NamedChildCount())
			}
		case "if_statement", "ternary_expression":
			conditionals++
		case "switch_statement":
			conditionals += 2
		case "for_statement", "for_in_statement", "while_statement", "do_statement":
			conditionals++
		}
	})

	return nestedStatements + 2*conditionals + callCount
}

// walkOwnBody visits every node of a function body without descending
// into nested function definitions.
func walkOwnBody(body *sitter.Node, fn func(*sitter.Node)) {
	walk(body, func(n *sitter.Node) bool {
		if n != body && isFunctionNode(n) {
			return false
		}
		if n != body && (n.Type() == "function_declaration" || n.Type() == "method_definition") {
			return false
		}
		fn(n)
		return true
	})
}
