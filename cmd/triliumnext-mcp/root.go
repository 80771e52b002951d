package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "triliumnext-mcp",
	Short: "MCP server for TriliumNext with content validation and optimistic locking",
	Long: `triliumnext-mcp exposes a TriliumNext notes server to AI assistants
over the Model Context Protocol. It validates content against per-type
policies (auto-converting Markdown and plain text where the type stores
HTML) and guards updates with version tokens so concurrent edits are
detected instead of lost.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the process logger. Everything goes to stderr —
// stdout belongs to the MCP stdio transport.
func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	if verbose {
		lvl = zerolog.DebugLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
}
