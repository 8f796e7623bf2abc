package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/kelly-lin/swift-lang-server/format"
	"github.com/kelly-lin/swift-lang-server/parser"
	"github.com/spf13/cobra"
)

func newFmtCmd(opts *rootOptions) *cobra.Command {
	var (
		write       bool
		list        bool
		indentWidth int
	)
	cmd := &cobra.Command{
		Use:   "fmt [flags] files...",
		Short: "Format Swift source files",
		Long: `Re-indent Swift source files and strip trailing whitespace.

Modes:
  (default)   Print formatted code to stdout
  -w          Write result back to source file
  -l          List files that would be changed`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			formatOpts := format.Options{
				IndentWidth:            cfg.Format.IndentWidth,
				TrimTrailingWhitespace: cfg.Format.TrimTrailingWhitespace,
			}
			if indentWidth > 0 {
				formatOpts.IndentWidth = indentWidth
			}

			out := cmd.OutOrStdout()
			for _, path := range args {
				source, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				root, err := parser.ParseNode(cmd.Context(), source)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				formatted := format.Apply(source, format.Edits(root, source, formatOpts))
				changed := !bytes.Equal(source, formatted)
				switch {
				case list:
					if changed {
						fmt.Fprintln(out, path)
					}
				case write:
					if changed {
						if err := os.WriteFile(path, formatted, 0o644); err != nil {
							return err
						}
					}
				default:
					if _, err := out.Write(formatted); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write result to the source file")
	cmd.Flags().BoolVarP(&list, "list", "l", false, "list files whose formatting differs")
	cmd.Flags().IntVar(&indentWidth, "indent-width", 0, "spaces per indentation level, overrides format.indent_width")
	return cmd
}
