// Package mcp exposes 2048 sessions as Model Context Protocol tools so
// agents can play over stdio.
package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vovakirdan/tui-2048/internal/games/t2048/grid"
	"github.com/vovakirdan/tui-2048/internal/session"
)

const instructions = `2048 - MCP Interface

Slide numbered tiles on a square grid. Equal tiles that collide merge into
their sum and add it to the score. Every move that changes the board spawns
a 2 (sometimes a 4) in an empty cell. The game ends when no move can change
the board.

AVAILABLE TOOLS:
- new_game: Start a session (or restart one) and get its id
- move: Slide tiles up/down/left/right
- game_state: Show the board of a session
- list_sessions: List running sessions
- best_score: Best finished score on record
- end_session: Discard a session`

// HighScorer reports the best stored score for a game.
type HighScorer interface {
	HighScore(gameID string) (int, error)
}

// Server holds the MCP server and the sessions it plays.
type Server struct {
	sessions  *session.Manager
	scores    HighScorer
	gameID    string
	mcpServer *server.MCPServer
	logger    *log.Logger
}

// NewServer creates an MCP server. scores may be nil.
func NewServer(sessions *session.Manager, scores HighScorer, gameID, version string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		sessions: sessions,
		scores:   scores,
		gameID:   gameID,
		logger:   logger,
	}
	s.mcpServer = server.NewMCPServer(
		"2048",
		version,
		server.WithToolCapabilities(true),
		server.WithInstructions(instructions),
	)
	s.registerTools()
	return s
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves requests on stdin/stdout until the input closes.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID returned by new_game",
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "new_game",
		Description: "Start a new game. Without session_id a new session is created; with it, that session restarts",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
		},
	}, s.handleNewGame)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Slide all tiles in a direction",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right"},
					"description": "Direction to slide",
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, s.handleMove)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the board, score and status of a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, s.handleGameState)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all running sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListSessions)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "best_score",
		Description: "Best score of any finished game",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleBestScore)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "end_session",
		Description: "Discard a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, s.handleEndSession)
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return map[string]interface{}{}
	}
	return args
}

func (s *Server) session(args map[string]interface{}) (*session.Session, error) {
	id, _ := args["session_id"].(string)
	if id == "" {
		return nil, fmt.Errorf("session_id is required")
	}
	return s.sessions.Get(id)
}

func (s *Server) handleNewGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	if id, _ := args["session_id"].(string); id != "" {
		sess, err := s.sessions.Get(id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		snap, err := sess.NewGame()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(formatState(sess.ID, snap)), nil
	}

	sess, err := s.sessions.Create()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.logger.Info("mcp session created", "session", sess.ID)
	return mcp.NewToolResultText(formatState(sess.ID, sess.Snapshot())), nil
}

func (s *Server) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	sess, err := s.session(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	direction, _ := args["direction"].(string)
	dir, err := grid.ParseDirection(direction)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := sess.Move(dir)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatMove(sess.ID, dir, res, sess.Snapshot())), nil
}

func (s *Server) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := s.session(arguments(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatState(sess.ID, sess.Snapshot())), nil
}

func (s *Server) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	infos := s.sessions.List()
	if len(infos) == 0 {
		return mcp.NewToolResultText("No active sessions"), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active sessions (%d):\n", len(infos))
	for _, info := range infos {
		fmt.Fprintf(&b, "- %s  score %d  max tile %d  %s\n", info.ID, info.Score, info.MaxTile, status(info.Won, info.Over))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleBestScore(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.scores == nil {
		return mcp.NewToolResultText("No scores recorded"), nil
	}
	best, err := s.scores.HighScore(s.gameID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if best == 0 {
		return mcp.NewToolResultText("No scores recorded"), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Best score: %d", best)), nil
}

func (s *Server) handleEndSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, _ := arguments(request)["session_id"].(string)
	if err := s.sessions.Delete(id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Session %s ended", id)), nil
}

func status(won, over bool) string {
	switch {
	case over:
		return "game over"
	case won:
		return "won, still playing"
	default:
		return "playing"
	}
}

func formatState(id string, snap grid.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s\n", id)
	fmt.Fprintf(&b, "Score: %d  Max tile: %d  Target: %d  Status: %s\n", snap.Score, snap.MaxTile(), snap.Target, status(snap.Won, snap.Over))
	b.WriteString(snap.String())
	return b.String()
}

func formatMove(id string, dir grid.Direction, res grid.MoveResult, snap grid.Snapshot) string {
	var b strings.Builder
	switch {
	case !res.Moved && res.Over:
		fmt.Fprintf(&b, "Move %s ignored: the game is over.\n", dir)
	case !res.Moved:
		fmt.Fprintf(&b, "Move %s did not change the board.\n", dir)
	default:
		fmt.Fprintf(&b, "Moved %s: +%d points", dir, res.ScoreGain)
		if len(res.Merges) > 0 {
			fmt.Fprintf(&b, ", %d merge(s)", len(res.Merges))
		}
		if res.Spawned != nil {
			fmt.Fprintf(&b, ", spawned %d at (%d,%d)", res.Spawned.Value, res.Spawned.X, res.Spawned.Y)
		}
		b.WriteString(".\n")
	}
	if res.ReachedTarget {
		fmt.Fprintf(&b, "Reached %d!\n", snap.Target)
	}
	b.WriteString(formatState(id, snap))
	return b.String()
}
