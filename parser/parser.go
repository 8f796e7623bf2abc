// Package parser parses Swift source code and answers syntax questions about
// the resulting trees, such as where an identifier is declared.
package parser

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kelly-lin/swift-lang-server/parser/swift"
	sitter "github.com/smacker/go-tree-sitter"
)

// ErrParseFailed is returned when the parser does not produce a tree.
var ErrParseFailed = errors.New("parse failed")

// Parsers are not safe for concurrent use, the language is. Each parse borrows
// a parser from the pool.
var parserPool = sync.Pool{
	New: func() any {
		p := sitter.NewParser()
		p.SetLanguage(GetLanguage())
		return p
	},
}

// GetLanguage returns the Swift tree-sitter language.
func GetLanguage() *sitter.Language {
	return swift.GetLanguage()
}

// Parse parses source into a syntax tree. ctx is checked before and after
// parsing, a parse in progress runs to completion.
func Parse(ctx context.Context, source []byte) (*sitter.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, _ := parserPool.Get().(*sitter.Parser)
	if p == nil {
		return nil, ErrParseFailed
	}
	// Pooled parsers only ever see a context that is never cancelled. A
	// cancellation observed by the parser sticks to it and fails every later
	// parse.
	tree, err := p.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse swift source: %w", err)
	}
	parserPool.Put(p)
	if tree == nil {
		return nil, ErrParseFailed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return tree, nil
}

// ParseNode parses source and returns the root node of the tree.
func ParseNode(ctx context.Context, source []byte) (*sitter.Node, error) {
	tree, err := Parse(ctx, source)
	if err != nil {
		return nil, err
	}
	return tree.RootNode(), nil
}

// WalkFunc is called for each node during traversal. Returning false skips the
// children of the node.
type WalkFunc func(node *sitter.Node) bool

// Walk traverses the tree rooted at node in depth-first order.
func Walk(node *sitter.Node, fn WalkFunc) {
	if node == nil || node.IsNull() {
		return
	}
	if !fn(node) {
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		Walk(node.Child(i), fn)
	}
}

// NodeText returns the source text spanned by node.
func NodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start, end := node.StartByte(), node.EndByte()
	if int(end) > len(source) || start > end {
		return ""
	}
	return string(source[start:end])
}
