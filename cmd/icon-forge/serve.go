package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ironsheep/icon-forge/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP tool server on stdin/stdout",
	Long: `Starts a Model Context Protocol server that exposes icon composition tools
over JSON-RPC on stdin/stdout. Logs go to stderr.

Configure it in your MCP client, for example:

  {"command": "icon-forge", "args": ["serve"]}`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Debug("starting MCP server",
			zap.String("version", Version),
			zap.String("build_time", BuildTime),
			zap.String("commit", GitCommit))

		return server.New(logger, Version).Run(cmd.Context())
	},
}
