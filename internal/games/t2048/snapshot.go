package t2048

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying      GameStateType = "playing"
	StateLevelCleared GameStateType = "level_cleared"
	StateGameOver     GameStateType = "game_over"
	StateWin          GameStateType = "win"
	StatePaused       GameStateType = "paused"
	StatePausedSmall  GameStateType = "paused_small_window"
)

// Snapshot captures the game state for determinism tests and replays.
type Snapshot struct {
	Tick          uint64        `json:"tick"`
	Mode          string        `json:"mode"`
	Level         int           `json:"level"` // 1-indexed, 0 for endless
	Target        int           `json:"target"`
	Score         int           `json:"score"`
	Board         [][]int       `json:"board"`
	MaxTile       int           `json:"max_tile"`
	TargetReached bool          `json:"target_reached"`
	State         GameStateType `json:"state"`
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.won:
		state = StateWin
	case g.gameOver:
		state = StateGameOver
	case g.levelCleared:
		state = StateLevelCleared
	case g.paused:
		state = StatePaused
	}

	snap := Snapshot{
		Tick:          g.tick,
		Mode:          string(g.mode),
		Target:        g.Target(),
		TargetReached: g.targetReached,
		State:         state,
	}
	if g.mode == ModeCampaign {
		snap.Level = g.levelIndex + 1
	}
	if g.engine != nil {
		es := g.engine.Snapshot()
		snap.Score = es.Score
		snap.Board = es.Cells()
		snap.MaxTile = es.MaxTile()
	}
	return snap
}
