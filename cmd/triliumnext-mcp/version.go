package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tan-yong-sheng/triliumnext-mcp-sub000/internal/server"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("triliumnext-mcp v%s\n", server.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
