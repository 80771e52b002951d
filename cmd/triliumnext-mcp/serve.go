package main

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/tan-yong-sheng/triliumnext-mcp-sub000/internal/config"
	mcpserver "github.com/tan-yong-sheng/triliumnext-mcp-sub000/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		log := newLogger(cfg.LogLevel)

		s, cleanup, err := mcpserver.New(cfg, log)
		if err != nil {
			return fmt.Errorf("creating server: %w", err)
		}
		defer cleanup()

		// ServeStdio manages its own lifecycle, including shutdown on
		// stdin close or interrupt.
		return server.ServeStdio(s)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
