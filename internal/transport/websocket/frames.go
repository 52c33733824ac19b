package websocket

import (
	"github.com/vovakirdan/tui-2048/internal/games/t2048/grid"
)

// Frame types.
const (
	FrameMove    = "move"
	FrameNewGame = "new_game"
	FrameState   = "state"
	FrameError   = "error"
)

// ClientFrame is a frame sent by a player.
type ClientFrame struct {
	Type      string `json:"type"`
	Direction string `json:"direction,omitempty"`
}

// StateFrame carries the session state after a change.
type StateFrame struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	grid.Snapshot
	Board     [][]int         `json:"board"`
	MaxTile   int             `json:"max_tile"`
	Moved     bool            `json:"moved"`
	ScoreGain int             `json:"score_gain"`
	Moves     []grid.TileMove `json:"moves,omitempty"`
	Merges    []grid.Merge    `json:"merges,omitempty"`
	Spawned   *grid.Tile      `json:"spawned,omitempty"`
}

// ErrorFrame reports a rejected client frame.
type ErrorFrame struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func stateFrame(sessionID string, snap grid.Snapshot) StateFrame {
	return StateFrame{
		Type:      FrameState,
		SessionID: sessionID,
		Snapshot:  snap,
		Board:     snap.Cells(),
		MaxTile:   snap.MaxTile(),
	}
}

func moveFrame(sessionID string, snap grid.Snapshot, res grid.MoveResult) StateFrame {
	f := stateFrame(sessionID, snap)
	f.Moved = res.Moved
	f.ScoreGain = res.ScoreGain
	f.Moves = res.Moves
	f.Merges = res.Merges
	f.Spawned = res.Spawned
	return f
}

func errorFrame(err error) ErrorFrame {
	return ErrorFrame{Type: FrameError, Error: err.Error()}
}
