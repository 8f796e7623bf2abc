package parser

import (
	"strings"
	"unicode/utf8"

	"github.com/kelly-lin/swift-lang-server/lang"
	sitter "github.com/smacker/go-tree-sitter"
)

type SymbolKind string

const (
	SymbolClass       SymbolKind = "class"
	SymbolStruct      SymbolKind = "struct"
	SymbolEnum        SymbolKind = "enum"
	SymbolExtension   SymbolKind = "extension"
	SymbolActor       SymbolKind = "actor"
	SymbolProtocol    SymbolKind = "protocol"
	SymbolFunction    SymbolKind = "function"
	SymbolMethod      SymbolKind = "method"
	SymbolInitializer SymbolKind = "initializer"
	SymbolProperty    SymbolKind = "property"
	SymbolVariable    SymbolKind = "variable"
	SymbolConstant    SymbolKind = "constant"
	SymbolEnumMember  SymbolKind = "enum_member"
	SymbolTypeAlias   SymbolKind = "typealias"
)

const maxDetailLength = 160

// Symbol is a declaration in a document outline.
type Symbol struct {
	Name string
	Kind SymbolKind
	// Declaration header, e.g. "func add(a: Int, b: Int) -> Int".
	Detail string
	// Range of the whole declaration.
	Range Range
	// Range of the declared name.
	SelectionRange Range
	// Name of the enclosing type, empty at file level.
	Container string
	// Cyclomatic complexity of functions, zero for other declarations.
	Complexity int
	Children   []Symbol
}

// DocumentSymbols returns the outline of type and file level declarations.
// Local declarations inside function bodies are not included.
func DocumentSymbols(root *sitter.Node, source []byte) []Symbol {
	if root == nil {
		return nil
	}
	return symbolsIn(root, source, "", false)
}

// FlattenSymbols returns symbols and all of their descendants in document
// order.
func FlattenSymbols(symbols []Symbol) []Symbol {
	var result []Symbol
	for _, s := range symbols {
		children := s.Children
		s.Children = nil
		result = append(result, s)
		result = append(result, FlattenSymbols(children)...)
	}
	return result
}

func symbolsIn(parent *sitter.Node, source []byte, container string, inType bool) []Symbol {
	var result []Symbol
	for i := 0; i < int(parent.NamedChildCount()); i++ {
		child := parent.NamedChild(i)
		if child == nil {
			continue
		}
		result = append(result, declarationSymbols(child, source, container, inType)...)
	}
	return result
}

func declarationSymbols(n *sitter.Node, source []byte, container string, inType bool) []Symbol {
	newSymbol := func(name *sitter.Node, nameText string, kind SymbolKind) Symbol {
		s := Symbol{
			Name:      nameText,
			Kind:      kind,
			Detail:    DeclarationHeader(n, source),
			Range:     NodeRange(n),
			Container: container,
		}
		if name != nil {
			s.SelectionRange = NodeRange(name)
		} else {
			s.SelectionRange = s.Range
		}
		if lang.IsNodeType(n.Type(), lang.FunctionNodeTypes) {
			s.Complexity = Complexity(n)
		}
		return s
	}

	switch n.Type() {
	case "class_declaration", "protocol_declaration":
		name := n.ChildByFieldName("name")
		if name == nil {
			return nil
		}
		kind := SymbolProtocol
		if n.Type() == "class_declaration" {
			kind = typeSymbolKind(DeclarationKind(n))
		}
		s := newSymbol(name, NodeText(name, source), kind)
		if body := n.ChildByFieldName("body"); body != nil {
			s.Children = symbolsIn(body, source, s.Name, true)
		}
		return []Symbol{s}

	case "function_declaration", "protocol_function_declaration":
		name := n.ChildByFieldName("name")
		if name == nil {
			return nil
		}
		kind := SymbolFunction
		if inType {
			kind = SymbolMethod
		}
		return []Symbol{newSymbol(name, NodeText(name, source), kind)}

	case "init_declaration":
		return []Symbol{newSymbol(nil, "init", SymbolInitializer)}

	case "deinit_declaration":
		return []Symbol{newSymbol(nil, "deinit", SymbolMethod)}

	case "subscript_declaration":
		return []Symbol{newSymbol(nil, "subscript", SymbolMethod)}

	case "typealias_declaration":
		name := n.ChildByFieldName("name")
		if name == nil {
			return nil
		}
		return []Symbol{newSymbol(name, NodeText(name, source), SymbolTypeAlias)}

	case "enum_entry":
		var result []Symbol
		for _, name := range childrenByFieldName(n, "name") {
			result = append(result, newSymbol(name, NodeText(name, source), SymbolEnumMember))
		}
		return result

	case "property_declaration", "protocol_property_declaration":
		kind := SymbolVariable
		switch {
		case inType:
			kind = SymbolProperty
		case isConstantBinding(n, source):
			kind = SymbolConstant
		}
		var result []Symbol
		for _, pattern := range childrenByFieldName(n, "name") {
			for _, name := range patternIdentifiers(pattern) {
				result = append(result, newSymbol(name, NodeText(name, source), kind))
			}
		}
		return result
	}
	return nil
}

// Complexity returns the cyclomatic complexity of a function declaration: one
// plus the number of branches in its body. Closures count towards the
// enclosing function, nested functions do not.
func Complexity(decl *sitter.Node) int {
	result := 1
	Walk(decl, func(n *sitter.Node) bool {
		if n != decl && lang.IsNodeType(n.Type(), lang.FunctionNodeTypes) {
			return false
		}
		if lang.IsNodeType(n.Type(), lang.BranchNodeTypes) {
			result++
		}
		return true
	})
	return result
}

// DeclarationKind returns the keyword that introduced a class declaration:
// class, struct, enum, extension or actor. The grammar parses all of these as
// class_declaration.
func DeclarationKind(n *sitter.Node) string {
	if kind := n.ChildByFieldName("declaration_kind"); kind != nil {
		return kind.Type()
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || child.IsNamed() {
			continue
		}
		switch child.Type() {
		case "class", "struct", "enum", "extension", "actor", "protocol":
			return child.Type()
		}
	}
	return "class"
}

func typeSymbolKind(declarationKind string) SymbolKind {
	switch declarationKind {
	case "struct":
		return SymbolStruct
	case "enum":
		return SymbolEnum
	case "extension":
		return SymbolExtension
	case "actor":
		return SymbolActor
	case "protocol":
		return SymbolProtocol
	default:
		return SymbolClass
	}
}

func isConstantBinding(n *sitter.Node, source []byte) bool {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child != nil && child.Type() == "value_binding_pattern" {
			return strings.HasPrefix(NodeText(child, source), "let")
		}
	}
	return false
}

// DeclarationHeader returns the declaration text up to its body with
// whitespace collapsed, e.g. "public func add(a: Int, b: Int) -> Int".
func DeclarationHeader(decl *sitter.Node, source []byte) string {
	end := decl.EndByte()
	if body := decl.ChildByFieldName("body"); body != nil {
		end = body.StartByte()
	}
	start := decl.StartByte()
	if int(end) > len(source) || start > end {
		return ""
	}
	header := strings.Join(strings.Fields(string(source[start:end])), " ")
	if utf8.RuneCountInString(header) > maxDetailLength {
		runes := []rune(header)
		header = string(runes[:maxDetailLength]) + "..."
	}
	return header
}

// DocComment returns the documentation comment written directly above the
// declaration, either consecutive /// lines or a /** */ block, without comment
// markers. Returns an empty string when there is none.
func DocComment(decl *sitter.Node, source []byte) string {
	lines := strings.Split(string(source), "\n")
	row := int(decl.StartPoint().Row) - 1
	if row < 0 || row >= len(lines) {
		return ""
	}

	var docLines []string
	if strings.HasSuffix(strings.TrimSpace(lines[row]), "*/") {
		for ; row >= 0; row-- {
			line := strings.TrimSpace(lines[row])
			docLines = append([]string{line}, docLines...)
			if strings.HasPrefix(line, "/**") {
				return cleanBlockComment(docLines)
			}
			if strings.HasPrefix(line, "/*") {
				return ""
			}
		}
		return ""
	}

	for ; row >= 0; row-- {
		line := strings.TrimSpace(lines[row])
		if !strings.HasPrefix(line, "///") {
			break
		}
		docLines = append([]string{strings.TrimSpace(strings.TrimPrefix(line, "///"))}, docLines...)
	}
	return strings.Join(docLines, "\n")
}

func cleanBlockComment(lines []string) string {
	var result []string
	for _, line := range lines {
		line = strings.TrimPrefix(line, "/**")
		line = strings.TrimSuffix(line, "*/")
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimPrefix(line, "*"))
		if line == "" && len(result) == 0 {
			continue
		}
		result = append(result, line)
	}
	for len(result) > 0 && result[len(result)-1] == "" {
		result = result[:len(result)-1]
	}
	return strings.Join(result, "\n")
}
