package parser

import sitter "github.com/smacker/go-tree-sitter"

// binding is a name introduced by a declaration together with the part of the
// tree it is visible in.
type binding struct {
	text string
	// Identifier node of the declared name.
	name *sitter.Node
	// Node of the whole declaration.
	decl  *sitter.Node
	scope *sitter.Node
	// Ordered bindings are visible only after their declaration.
	ordered bool
	// Members are declared at type or file level.
	member bool
}

// Nodes whose children form a declaration context of a type.
var typeBodyTypes = map[string]bool{
	"class_body":      true,
	"enum_class_body": true,
	"protocol_body":   true,
	"source_file":     true,
}

// Nodes that bindings from their header are scoped to.
var headerScopeTypes = map[string]bool{
	"for_statement":          true,
	"if_statement":           true,
	"while_statement":        true,
	"repeat_while_statement": true,
	"switch_entry":           true,
	"catch_block":            true,
	"lambda_literal":         true,
}

// Nodes that own parameters.
var callableTypes = map[string]bool{
	"function_declaration":          true,
	"init_declaration":              true,
	"subscript_declaration":         true,
	"protocol_function_declaration": true,
	"lambda_literal":                true,
}

func collectBindings(root *sitter.Node, source []byte) []binding {
	var result []binding
	seen := make(map[uint32]bool)
	add := func(b binding) {
		if b.name == nil || b.name.IsNull() || seen[b.name.StartByte()] {
			return
		}
		seen[b.name.StartByte()] = true
		b.text = NodeText(b.name, source)
		result = append(result, b)
	}

	Walk(root, func(n *sitter.Node) bool {
		switch n.Type() {
		case "function_declaration", "protocol_function_declaration", "typealias_declaration":
			add(declBinding(n, n.ChildByFieldName("name")))
		case "class_declaration", "protocol_declaration":
			name := n.ChildByFieldName("name")
			// Extensions name an existing type rather than declaring one.
			if DeclarationKind(n) == "extension" {
				break
			}
			add(declBinding(n, name))
		case "enum_entry":
			for _, name := range childrenByFieldName(n, "name") {
				add(declBinding(n, name))
			}
		case "property_declaration", "protocol_property_declaration":
			for _, pattern := range childrenByFieldName(n, "name") {
				for _, name := range patternIdentifiers(pattern) {
					add(declBinding(n, name))
				}
			}
		case "parameter", "lambda_parameter":
			owner := closestAncestor(n, callableTypes)
			if owner == nil {
				break
			}
			add(binding{name: n.ChildByFieldName("name"), decl: n, scope: owner})
		case "for_statement":
			if item := n.ChildByFieldName("item"); item != nil {
				for _, name := range patternIdentifiers(item) {
					add(binding{name: name, decl: n, scope: n})
				}
			}
		}

		for i := 0; i < int(n.ChildCount()); i++ {
			if n.FieldNameForChild(i) != "bound_identifier" {
				continue
			}
			child := n.Child(i)
			if child == nil || child.Type() != "simple_identifier" {
				continue
			}
			add(boundBinding(n, child))
		}
		return true
	})
	return result
}

// declBinding scopes a declaration to its enclosing statement block when it is
// local, otherwise to the enclosing type body or file.
func declBinding(decl, name *sitter.Node) binding {
	if name == nil {
		return binding{}
	}
	for p := decl.Parent(); p != nil; p = p.Parent() {
		if p.Type() == "statements" {
			scope := p.Parent()
			if scope == nil {
				scope = p
			}
			return binding{name: name, decl: decl, scope: scope, ordered: true}
		}
		if typeBodyTypes[p.Type()] {
			return binding{name: name, decl: decl, scope: p, member: true}
		}
	}
	return binding{name: name, decl: decl, scope: decl, member: true}
}

// boundBinding scopes names bound in conditions and patterns, such as if let
// and case let, to the statement that binds them. Guard bindings leak into the
// enclosing block after the guard.
func boundBinding(parent, name *sitter.Node) binding {
	for p := parent; p != nil; p = p.Parent() {
		if p.Type() == "property_declaration" {
			return declBinding(p, name)
		}
		if p.Type() == "guard_statement" {
			b := declBinding(p, name)
			b.decl = p
			return b
		}
		if headerScopeTypes[p.Type()] {
			return binding{name: name, decl: p, scope: p}
		}
	}
	return binding{}
}

// patternIdentifiers returns the identifiers bound by a pattern. A pattern may
// be a bare identifier or a tuple of patterns.
func patternIdentifiers(pattern *sitter.Node) []*sitter.Node {
	if pattern == nil {
		return nil
	}
	if pattern.Type() == "simple_identifier" {
		return []*sitter.Node{pattern}
	}
	var result []*sitter.Node
	Walk(pattern, func(n *sitter.Node) bool {
		switch n.Type() {
		case "simple_identifier":
			result = append(result, n)
			return false
		// Type annotations and default values are not bound names.
		case "type_annotation", "user_type", "call_expression", "navigation_expression":
			return false
		}
		return true
	})
	return result
}

func childrenByFieldName(n *sitter.Node, field string) []*sitter.Node {
	var result []*sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.FieldNameForChild(i) == field {
			if child := n.Child(i); child != nil {
				result = append(result, child)
			}
		}
	}
	return result
}

func closestAncestor(n *sitter.Node, types map[string]bool) *sitter.Node {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if types[p.Type()] {
			return p
		}
	}
	return nil
}
