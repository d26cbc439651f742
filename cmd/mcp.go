package cmd

import (
	"github.com/spf13/cobra"

	"apollonode/internal/server"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP (Model Context Protocol) server on stdin/stdout",
	Long:  "Exposes every Apollo operation as an MCP tool named apollo_<resource>_<operation>.",
	Args:  cobra.NoArgs,
	RunE:  serveMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func serveMCP(cmd *cobra.Command, args []string) error {
	eng, err := newEngine(nil, false)
	if err != nil {
		return err
	}

	srv := server.NewMCPServer(eng, Version)
	return srv.ServeStdio()
}
