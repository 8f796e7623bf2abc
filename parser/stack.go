package parser

import sitter "github.com/smacker/go-tree-sitter"

// Stack is a LIFO of nodes used for iterative tree traversal.
type Stack struct {
	items []*sitter.Node
}

func NewStack() *Stack {
	return &Stack{}
}

func (s *Stack) Push(node *sitter.Node) {
	if node == nil {
		return
	}
	s.items = append(s.items, node)
}

// Pop removes and returns the top node. The boolean is false when the stack is
// empty.
func (s *Stack) Pop() (*sitter.Node, bool) {
	if len(s.items) == 0 {
		return nil, false
	}
	last := len(s.items) - 1
	node := s.items[last]
	s.items[last] = nil
	s.items = s.items[:last]
	return node, true
}

func (s *Stack) HasItems() bool {
	return len(s.items) > 0
}

func (s *Stack) Len() int {
	return len(s.items)
}
