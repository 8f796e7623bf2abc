package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/kelly-lin/swift-lang-server/parser"
	"github.com/spf13/cobra"
)

func newDefCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "def name file...",
		Short: "Print where a function is declared",
		Long: `Print the position of the declaration of the named function in each of the
given files as path:line:column. The command fails when no file declares it.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, paths := args[0], args[1:]
			found := 0
			for _, path := range paths {
				source, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				r, err := parser.FindFuncDefinition(name, source)
				if errors.Is(err, parser.ErrNoDefinition) {
					continue
				}
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				found++
				fmt.Fprintf(cmd.OutOrStdout(), "%s:%d:%d\n", path, r.Start.Row+1, r.Start.Column+1)
			}
			if found == 0 {
				return fmt.Errorf("func %s: %w", name, parser.ErrNoDefinition)
			}
			return nil
		},
	}
}
