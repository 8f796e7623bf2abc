package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/kelly-lin/swift-lang-server/parser"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Declaration as printed by the symbols command. Lines and columns are 1
// based.
type symbolOutput struct {
	Name      string `json:"name" yaml:"name"`
	Kind      string `json:"kind" yaml:"kind"`
	Detail    string `json:"detail,omitempty" yaml:"detail,omitempty"`
	Line      uint32 `json:"line" yaml:"line"`
	Column    uint32 `json:"column" yaml:"column"`
	EndLine   uint32 `json:"end_line" yaml:"end_line"`
	Container string `json:"container,omitempty" yaml:"container,omitempty"`
	// Only set for functions.
	Complexity int            `json:"complexity,omitempty" yaml:"complexity,omitempty"`
	Children   []symbolOutput `json:"children,omitempty" yaml:"children,omitempty"`
}

func toSymbolOutputs(symbols []parser.Symbol) []symbolOutput {
	result := make([]symbolOutput, 0, len(symbols))
	for _, s := range symbols {
		out := symbolOutput{
			Name:       s.Name,
			Kind:       string(s.Kind),
			Detail:     s.Detail,
			Line:       s.SelectionRange.Start.Row + 1,
			Column:     s.SelectionRange.Start.Column + 1,
			EndLine:    s.Range.End.Row + 1,
			Container:  s.Container,
			Complexity: s.Complexity,
		}
		if len(s.Children) > 0 {
			out.Children = toSymbolOutputs(s.Children)
		}
		result = append(result, out)
	}
	return result
}

func newSymbolsCmd() *cobra.Command {
	var (
		outputFormat string
		flat         bool
	)
	cmd := &cobra.Command{
		Use:   "symbols [flags] file",
		Short: "List the declarations of a Swift file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			root, err := parser.ParseNode(cmd.Context(), source)
			if err != nil {
				return err
			}
			symbols := parser.DocumentSymbols(root, source)
			if flat {
				symbols = parser.FlattenSymbols(symbols)
			}
			return writeSymbols(cmd.OutOrStdout(), outputFormat, toSymbolOutputs(symbols))
		},
	}
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "json", "output format: json or yaml")
	cmd.Flags().BoolVar(&flat, "flat", false, "list nested declarations at the top level")
	return cmd
}

func writeSymbols(w io.Writer, outputFormat string, symbols []symbolOutput) error {
	switch outputFormat {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(symbols)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(symbols); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q, expected json or yaml", outputFormat)
	}
}
