// Package format computes text edits that re-indent Swift source and strip
// trailing whitespace.
package format

import (
	"strings"

	"github.com/kelly-lin/swift-lang-server/parser"
	"github.com/kelly-lin/swift-lang-server/protocol"
	sitter "github.com/smacker/go-tree-sitter"
)

const DefaultIndentWidth = 4

type Options struct {
	IndentWidth            int
	TrimTrailingWhitespace bool
}

type bracket struct {
	row    uint32
	col    uint32
	opener bool
}

// Edits returns the indentation edits followed by the trailing whitespace
// edits when enabled.
func Edits(node *sitter.Node, sourceCode []byte, opts Options) []protocol.TextEdit {
	width := opts.IndentWidth
	if width <= 0 {
		width = DefaultIndentWidth
	}
	result := GetIndentationEdits(node, sourceCode, width)
	if opts.TrimTrailingWhitespace {
		result = append(result, GetTrailingWhitespaceEdits(node, sourceCode)...)
	}
	return result
}

// GetIndentationEdits re-indents every line to width spaces per enclosing
// bracket level. Brackets opened on the same line count as one level. Lines
// starting with a closing bracket dedent and switch case labels line up with
// their switch. Blank lines and lines inside multi-line strings or comments
// are left untouched.
func GetIndentationEdits(node *sitter.Node, sourceCode []byte, width int) []protocol.TextEdit {
	result := []protocol.TextEdit{}
	lines := strings.Split(string(sourceCode), "\n")
	brackets, caseRows := scanTree(node)
	verbatim := verbatimRows(node)

	var openRows []uint32
	next := 0
	for idx, line := range lines {
		row := uint32(idx)
		line = strings.TrimSuffix(line, "\r")
		content := strings.TrimLeft(line, " \t")
		indentation := line[:len(line)-len(content)]

		// Leading closers dedent the line they are on.
		for next < len(brackets) && brackets[next].row == row && !brackets[next].opener &&
			isLeadingCloser(line, brackets[next].col) {
			if len(openRows) > 0 {
				openRows = openRows[:len(openRows)-1]
			}
			next++
		}

		depth := countDistinct(openRows)
		if col, ok := caseRows[row]; ok && col == uint32(len(indentation)) && depth > 0 {
			depth--
		}
		if content != "" && !verbatim[row] {
			targetIndentation := strings.Repeat(" ", depth*width)
			if targetIndentation != indentation {
				result = append(result, protocol.TextEdit{
					Range: protocol.Range{
						Start: protocol.Position{Line: uint(row), Character: 0},
						End:   protocol.Position{Line: uint(row), Character: uint(len(indentation))},
					},
					NewText: targetIndentation,
				})
			}
		}

		for next < len(brackets) && brackets[next].row == row {
			if brackets[next].opener {
				openRows = append(openRows, row)
			} else if len(openRows) > 0 {
				openRows = openRows[:len(openRows)-1]
			}
			next++
		}
	}
	return result
}

// scanTree collects bracket tokens in document order and the row and column
// of every switch case label. Brackets inside string literals are skipped,
// interpolation makes them unbalanced.
func scanTree(node *sitter.Node) ([]bracket, map[uint32]uint32) {
	var brackets []bracket
	caseRows := make(map[uint32]uint32)
	stack := parser.NewStack()
	stack.Push(node)
	for stack.HasItems() {
		currentNode, _ := stack.Pop()
		nodeType := currentNode.Type()
		if isStringLiteral(nodeType) {
			continue
		}
		if nodeType == "switch_entry" {
			caseRows[currentNode.StartPoint().Row] = currentNode.StartPoint().Column
		}
		if currentNode.ChildCount() == 0 {
			switch nodeType {
			case "{", "(", "[":
				brackets = append(brackets, bracket{row: currentNode.StartPoint().Row, col: currentNode.StartPoint().Column, opener: true})
			case "}", ")", "]":
				brackets = append(brackets, bracket{row: currentNode.StartPoint().Row, col: currentNode.StartPoint().Column})
			}
			continue
		}
		// Pushed in reverse so that children pop in document order.
		for i := int(currentNode.ChildCount()) - 1; i >= 0; i-- {
			stack.Push(currentNode.Child(i))
		}
	}
	return brackets, caseRows
}

// verbatimRows returns the rows that continue a multi-line string literal or
// block comment. Their leading whitespace is content.
func verbatimRows(node *sitter.Node) map[uint32]bool {
	result := make(map[uint32]bool)
	parser.Walk(node, func(n *sitter.Node) bool {
		nodeType := n.Type()
		if isStringLiteral(nodeType) || nodeType == "multiline_comment" {
			for row := n.StartPoint().Row + 1; row <= n.EndPoint().Row; row++ {
				result[row] = true
			}
			return false
		}
		return true
	})
	return result
}

func isStringLiteral(nodeType string) bool {
	switch nodeType {
	case "line_string_literal", "multi_line_string_literal", "raw_string_literal":
		return true
	}
	return false
}

func isLeadingCloser(line string, col uint32) bool {
	if int(col) > len(line) {
		return false
	}
	return strings.Trim(line[:col], " \t)]}") == ""
}

// Brackets opened on the same row add a single indentation level.
func countDistinct(rows []uint32) int {
	count := 0
	for i, row := range rows {
		if i == 0 || rows[i-1] != row {
			count++
		}
	}
	return count
}

// GetTrailingWhitespaceEdits removes spaces and tabs at the end of each line,
// except inside multi-line string literals where they are content.
func GetTrailingWhitespaceEdits(node *sitter.Node, sourceCode []byte) []protocol.TextEdit {
	result := []protocol.TextEdit{}
	verbatim := map[uint32]bool{}
	if node != nil {
		verbatim = verbatimRows(node)
	}
	lines := strings.Split(string(sourceCode), "\n")
	for idx, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if verbatim[uint32(idx)] {
			continue
		}
		trimmed := strings.TrimRight(line, " \t")
		numSpaces := len(line) - len(trimmed)
		if numSpaces > 0 {
			result = append(
				result,
				protocol.TextEdit{
					Range: protocol.Range{
						Start: protocol.Position{
							Line:      uint(idx),
							Character: uint(len(trimmed)),
						},
						End: protocol.Position{
							Line:      uint(idx),
							Character: uint(len(line)),
						},
					},
				},
			)
		}
	}
	return result
}
