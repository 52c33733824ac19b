package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/session"
	"github.com/vovakirdan/tui-2048/internal/transport/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve 2048 to MCP clients over stdio",
	Long: `Run an MCP server on stdin/stdout so assistants can play 2048.

Tools: new_game, move, game_state, list_sessions, best_score, end_session.
Logs go to stderr.

Example client configuration:
  {"command": "t2048", "args": ["mcp"]}`,
	RunE: runMCP,
}

func runMCP(_ *cobra.Command, _ []string) error {
	logger := newLogger("t2048-mcp")

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	opts := session.Options{
		Engine: appConfig.EngineConfig(),
		GameID: t2048.IDEndless,
		Seed:   flagSeed,
		Logger: logger,
	}
	var scores mcp.HighScorer
	if store != nil {
		opts.Sink = store
		scores = store
	}

	sessions, err := session.NewManager(opts)
	if err != nil {
		return err
	}

	srv := mcp.NewServer(sessions, scores, t2048.IDEndless, version, logger)
	logger.Info("serving MCP over stdio")
	return srv.ServeStdio()
}
