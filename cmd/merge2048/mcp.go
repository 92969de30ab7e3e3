package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/merge2048/internal/transport/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve MCP tools on stdio",
	Long: `Run an MCP server on stdin/stdout so an agent can play.

Tools: new_game, game_state, move, undo, keep_playing.
Sessions are saved to the database and can be resumed by session_id.
Logs go to stderr; stdout carries the protocol.

Example client config:
  {"command": "merge2048", "args": ["mcp"]}`,
	Run: runMCP,
}

func runMCP(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	logger := newLogger(os.Stderr, "merge2048-mcp")

	opts := mcp.Options{Config: cfg, Logger: logger, Seed: flagSeed}
	if store := openStore(logger); store != nil {
		defer store.Close()
		opts.Store = store
	}

	if err := mcp.NewServer(opts).ServeStdio(); err != nil {
		logger.Error("MCP server stopped", "error", err)
		os.Exit(1)
	}
}
