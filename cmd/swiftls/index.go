package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/kelly-lin/swift-lang-server/index"
	"github.com/spf13/cobra"
)

func newIndexCmd(opts *rootOptions) *cobra.Command {
	var (
		dbPath string
		query  string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "index [flags] [dir]",
		Short: "Index the Swift declarations of a workspace",
		Long: `Index the Swift declarations under dir, the working directory by default.

The index is kept in the SQLite database given by --db or index.path. Files
whose content is unchanged since the last run are skipped. With --query the
index is searched after indexing.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			if dbPath == "" {
				dbPath = cfg.Index.Path
			}
			logger, cleanUp, err := setupLogging(cfg.Log)
			if err != nil {
				return err
			}
			defer cleanUp()

			store, err := openStore(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := index.NewIndexer(store, logger, cfg.Index.Exclude).Index(cmd.Context(), root)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "files: %d indexed: %d skipped: %d removed: %d symbols: %d\n",
				stats.Files, stats.Indexed, stats.Skipped, stats.Removed, stats.Symbols)
			if query == "" {
				return nil
			}

			symbols, err := store.Search(query, limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, s := range symbols {
				fmt.Fprintf(tw, "%s\t%s\t%s:%d:%d\n", s.Name, s.Kind, s.Path,
					s.SelectionRange.Start.Row+1, s.SelectionRange.Start.Column+1)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "index database path, in memory when empty")
	cmd.Flags().StringVarP(&query, "query", "q", "", "search the index for symbols containing query")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of search results")
	return cmd
}
