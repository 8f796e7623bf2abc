package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/kelly-lin/swift-lang-server/config"
	"github.com/spf13/cobra"
)

// Set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	serveCmd := newServeCmd(opts)
	rootCmd := &cobra.Command{
		Use:   "swiftls",
		Short: "Language server and tooling for Swift",
		Long: `swiftls is a Swift language server built on the tree-sitter Swift grammar.

Run without a subcommand to serve the Language Server Protocol over stdio.

Examples:
  swiftls                          Start the language server
  swiftls parse main.swift         Print the syntax tree
  swiftls symbols -o yaml a.swift  List declarations as YAML
  swiftls def area a.swift         Find a function declaration
  swiftls index .                  Index the workspace
  swiftls fmt -w Sources/*.swift   Format files in place`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serveCmd.RunE,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default is .swiftls.yaml in the working or home directory)")
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())

	rootCmd.AddCommand(
		serveCmd,
		newParseCmd(),
		newSymbolsCmd(),
		newDefCmd(),
		newIndexCmd(opts),
		newFmtCmd(opts),
		newVersionCmd(),
	)
	return rootCmd
}

// Loads the configuration and prints validation warnings to stderr.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	for _, warning := range cfg.Validate() {
		fmt.Fprintf(cmd.ErrOrStderr(), "config warning: %s\n", warning)
	}
	return cfg, nil
}

// Since stdio is used for IPC, the logger writes to a file instead of stdout.
// Without a log file nothing is logged.
func setupLogging(cfg config.LogConfig) (*slog.Logger, func(), error) {
	cleanUp := func() {}
	if cfg.File == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), cleanUp, nil
	}
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		return nil, cleanUp, err
	}
	file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, cleanUp, fmt.Errorf("could not open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{Level: level}))
	return logger, func() { file.Close() }, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
