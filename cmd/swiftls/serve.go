package main

import (
	"context"
	"errors"
	"os"

	"github.com/kelly-lin/swift-lang-server/index"
	"github.com/kelly-lin/swift-lang-server/server"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		logFile  string
		logLevel string
		noIndex  bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the Language Server Protocol over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			if logFile != "" {
				cfg.Log.File = logFile
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			if noIndex {
				cfg.Index.Enabled = false
			}

			logger, cleanUp, err := setupLogging(cfg.Log)
			if err != nil {
				return err
			}
			defer cleanUp()

			serverOpts := server.Options{
				IndentWidth:            cfg.Format.IndentWidth,
				TrimTrailingWhitespace: cfg.Format.TrimTrailingWhitespace,
				Diagnostics:            cfg.Diagnostics.Enabled,
				Version:                version,
			}
			if cfg.Index.Enabled {
				store, err := openStore(cfg.Index.Path)
				if err != nil {
					return err
				}
				defer store.Close()
				serverOpts.Indexer = index.NewIndexer(store, logger, cfg.Index.Exclude)
			}

			logger.Info("starting server", "version", version)
			langServer := server.NewServer(logger, serverOpts)
			err = langServer.Serve(cmd.Context(), os.Stdin, os.Stdout)
			if errors.Is(err, context.Canceled) {
				logger.Info("server interrupted")
				return nil
			}
			if err != nil {
				logger.Error("server stopped", "err", err)
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&logFile, "log-file", "", "log to this file, overrides log.file")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error, overrides log.level")
	cmd.Flags().BoolVar(&noIndex, "no-index", false, "do not index the workspace")
	return cmd
}

func openStore(path string) (*index.Store, error) {
	if path == "" {
		return index.OpenMemory()
	}
	return index.OpenPath(path)
}
