package parser

import (
	"fmt"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
)

const maxErrorSnippetLength = 40

// SyntaxError is an ERROR or MISSING node in a syntax tree.
type SyntaxError struct {
	Range   Range
	Message string
	// Missing is set when the parser inserted a token the source lacks.
	Missing bool
}

// SyntaxErrors returns the syntax errors in the tree rooted at root in document
// order. Errors nested inside an ERROR node are reported once, by the
// outermost node.
func SyntaxErrors(root *sitter.Node, source []byte) []SyntaxError {
	var result []SyntaxError
	if root == nil || !root.HasError() {
		return result
	}
	Walk(root, func(n *sitter.Node) bool {
		if n.IsMissing() {
			result = append(result, SyntaxError{
				Range:   NodeRange(n),
				Message: fmt.Sprintf("missing %s", n.Type()),
				Missing: true,
			})
			return false
		}
		if n.Type() == "ERROR" {
			text := NodeText(n, source)
			text = truncate(text, maxErrorSnippetLength)
			result = append(result, SyntaxError{
				Range:   NodeRange(n),
				Message: fmt.Sprintf("syntax error near %q", text),
			})
			return false
		}
		return n.HasError()
	})
	return result
}

// Shortens text to at most n runes followed by an ellipsis.
func truncate(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	return string([]rune(text)[:n]) + "..."
}
