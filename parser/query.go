package parser

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

var ErrNoDefinition = errors.New("no definition found")

// 0 indexed row and column indices of a position in a document.
type Point struct {
	Row    uint32
	Column uint32
}

// Range has a 0 indexed start and end point specifying the row and column
// index of the range. Similar to ranges in programming languages, the end
// point is exclusive.
type Range struct {
	Start Point
	End   Point
}

// Contains reports whether p lies within the range, end inclusive so that a
// cursor placed right after an identifier still counts.
func (r Range) Contains(p Point) bool {
	return !pointBefore(p, r.Start) && !pointBefore(r.End, p)
}

// NodeRange returns the range spanned by node.
func NodeRange(node *sitter.Node) Range {
	start := node.StartPoint()
	end := node.EndPoint()
	return Range{
		Start: Point{Row: start.Row, Column: start.Column},
		End:   Point{Row: end.Row, Column: end.Column},
	}
}

func pointBefore(a, b Point) bool {
	return a.Row < b.Row || (a.Row == b.Row && a.Column < b.Column)
}

// Find the definition of the function with the provided identifier inside
// source and returns the range of its name if it was found. If the definition
// was not found then error ErrNoDefinition will be returned.
func FindFuncDefinition(identifier string, source []byte) (Range, error) {
	n, err := ParseNode(context.Background(), source)
	if err != nil {
		return Range{}, err
	}

	pattern := fmt.Sprintf(`(
    (function_declaration
        name: (simple_identifier) @name)
    (#eq? @name %q)
)`, identifier)
	q, err := sitter.NewQuery([]byte(pattern), GetLanguage())
	if err != nil {
		return Range{}, err
	}
	defer q.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, n)
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		m = qc.FilterPredicates(m, source)
		for _, c := range m.Captures {
			return NodeRange(c.Node), nil
		}
	}
	return Range{}, ErrNoDefinition
}

// Finds the identifier located at the line and column number and returns the
// name if it exists. ErrNoDefinition is returned when the position is not on
// an identifier.
func FindIdentifier(node *sitter.Node, source []byte, lineNum, colNum uint) (string, error) {
	identNode := identifierNodeAt(node, lineNum, colNum)
	if identNode == nil {
		return "", ErrNoDefinition
	}
	return NodeText(identNode, source), nil
}

// FindDefinition returns the range of the declaration name that the
// identifier at the line and column number refers to. The innermost enclosing
// scope wins. Local bindings are only visible after they are declared while
// type members and file level declarations are visible anywhere.
func FindDefinition(root *sitter.Node, source []byte, lineNum, colNum uint) (Range, error) {
	decl, err := findDeclaration(root, source, lineNum, colNum)
	if err != nil {
		return Range{}, err
	}
	return NodeRange(decl.name), nil
}

// FindDeclarationNode returns the declaration node owning the definition that
// the identifier at the line and column number refers to.
func FindDeclarationNode(root *sitter.Node, source []byte, lineNum, colNum uint) (*sitter.Node, error) {
	decl, err := findDeclaration(root, source, lineNum, colNum)
	if err != nil {
		return nil, err
	}
	return decl.decl, nil
}

func findDeclaration(root *sitter.Node, source []byte, lineNum, colNum uint) (binding, error) {
	identNode := identifierNodeAt(root, lineNum, colNum)
	if identNode == nil {
		return binding{}, ErrNoDefinition
	}
	name := NodeText(identNode, source)
	cursor := Point{Row: uint32(lineNum), Column: uint32(colNum)}

	var best *binding
	var fallback *binding
	for _, b := range collectBindings(root, source) {
		b := b
		if b.text != name {
			continue
		}
		if fallback == nil && b.member {
			fallback = &b
		}
		if !NodeRange(b.scope).Contains(cursor) {
			continue
		}
		if b.ordered && pointBefore(cursor, NodeRange(b.name).Start) {
			continue
		}
		if best == nil || isBetterBinding(b, *best) {
			best = &b
		}
	}
	if best != nil {
		return *best, nil
	}
	// Members accessed through another value, such as foo.bar, are not scoped
	// to the cursor so the first unordered declaration is the best guess.
	if fallback != nil {
		return *fallback, nil
	}
	return binding{}, ErrNoDefinition
}

// A binding in an inner scope shadows one in an outer scope. Within the same
// scope the latest ordered binding shadows earlier ones.
func isBetterBinding(candidate, current binding) bool {
	candidateScope := NodeRange(candidate.scope)
	currentScope := NodeRange(current.scope)
	if candidate.scope.StartByte() != current.scope.StartByte() || candidate.scope.EndByte() != current.scope.EndByte() {
		return currentScope.Contains(candidateScope.Start) && currentScope.Contains(candidateScope.End)
	}
	return candidate.ordered && pointBefore(NodeRange(current.name).Start, NodeRange(candidate.name).Start)
}

func identifierNodeAt(root *sitter.Node, lineNum, colNum uint) *sitter.Node {
	if root == nil {
		return nil
	}
	pt := sitter.Point{Row: uint32(lineNum), Column: uint32(colNum)}
	n := root.NamedDescendantForPointRange(pt, pt)
	if n == nil || n.IsNull() {
		return nil
	}
	if isIdentifierType(n.Type()) {
		return n
	}
	// A cursor right after the identifier lands on the enclosing node.
	if colNum > 0 {
		pt.Column--
		n = root.NamedDescendantForPointRange(pt, pt)
		if n != nil && !n.IsNull() && isIdentifierType(n.Type()) {
			return n
		}
	}
	return nil
}

func isIdentifierType(nodeType string) bool {
	return nodeType == "simple_identifier" || nodeType == "type_identifier"
}
