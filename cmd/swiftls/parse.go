package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kelly-lin/swift-lang-server/parser"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var tree bool
	cmd := &cobra.Command{
		Use:   "parse [flags] file",
		Short: "Print the syntax tree of a Swift file",
		Long: `Print the syntax tree of a Swift file as an S-expression, or with --tree
as an indented tree of named nodes with their positions. Syntax errors are
reported on stderr and make the command fail.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			root, err := parser.ParseNode(cmd.Context(), source)
			if err != nil {
				return err
			}
			if tree {
				printTree(cmd.OutOrStdout(), root, source)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), root.String())
			}

			syntaxErrors := parser.SyntaxErrors(root, source)
			for _, syntaxErr := range syntaxErrors {
				start := syntaxErr.Range.Start
				fmt.Fprintf(cmd.ErrOrStderr(), "%s:%d:%d: %s\n", args[0], start.Row+1, start.Column+1, syntaxErr.Message)
			}
			if len(syntaxErrors) > 0 {
				return fmt.Errorf("%s: %d syntax errors", args[0], len(syntaxErrors))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&tree, "tree", false, "print an indented tree instead of an S-expression")
	return cmd
}

// Prints named nodes one per line, indented by depth. Leaf nodes show their
// text.
func printTree(w io.Writer, root *sitter.Node, source []byte) {
	var visit func(n *sitter.Node, depth int)
	visit = func(n *sitter.Node, depth int) {
		start, end := n.StartPoint(), n.EndPoint()
		line := fmt.Sprintf("%s%s [%d:%d-%d:%d]", strings.Repeat("  ", depth), n.Type(),
			start.Row+1, start.Column+1, end.Row+1, end.Column+1)
		if n.NamedChildCount() == 0 {
			line += fmt.Sprintf(" %q", parser.NodeText(n, source))
		}
		fmt.Fprintln(w, line)
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if child := n.NamedChild(i); child != nil {
				visit(child, depth+1)
			}
		}
	}
	visit(root, 0)
}
