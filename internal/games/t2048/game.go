package t2048

import (
	"math/rand"
	"sync"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/games/t2048/grid"
	"github.com/vovakirdan/tui-2048/internal/registry"
)

// Mode represents the game mode.
type Mode string

const (
	ModeCampaign Mode = "campaign"
	ModeEndless  Mode = "endless"
)

// Registry IDs.
const (
	IDCampaign = "2048"
	IDEndless  = "2048_endless"
)

// levelClearSeconds is how long the level-cleared banner stays up.
const levelClearSeconds = 2

var (
	activeMu  sync.RWMutex
	activeCfg = config.DefaultT2048Config()
)

// Configure sets the configuration used by games created afterwards.
func Configure(cfg config.T2048Config) {
	activeMu.Lock()
	defer activeMu.Unlock()
	activeCfg = cfg
}

// ActiveConfig returns the configuration new games are created with.
func ActiveConfig() config.T2048Config {
	activeMu.RLock()
	defer activeMu.RUnlock()
	return activeCfg
}

// Game adapts a grid.Engine to the registry.Game tick loop.
type Game struct {
	mode Mode
	cfg  config.T2048Config
	rng  *rand.Rand
	tick uint64

	engine     *grid.Engine
	levelIndex int // Current level (0-indexed), campaign only
	startLevel int // 1-based level to start from, 0 for the first

	screenW  int
	screenH  int
	tickRate int

	gameOver        bool
	levelCleared    bool
	won             bool // Campaign finished
	targetReached   bool // Endless mode reached the configured target
	paused          bool
	tooSmall        bool
	levelClearTicks int
	err             error

	anim animator
}

// New creates a campaign game with the active configuration.
func New() *Game {
	return &Game{mode: ModeCampaign, cfg: ActiveConfig()}
}

// NewEndless creates an endless game with the active configuration.
func NewEndless() *Game {
	return &Game{mode: ModeEndless, cfg: ActiveConfig()}
}

func init() {
	registry.Register(IDCampaign, func() registry.Game {
		return New()
	})
	registry.Register(IDEndless, func() registry.Game {
		return NewEndless()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeEndless {
		return IDEndless
	}
	return IDCampaign
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeEndless {
		return "2048 (Endless)"
	}
	return "2048"
}

// SetStartLevel selects the 1-based campaign level the next Reset starts
// from. Out-of-range values start from the first level.
func (g *Game) SetStartLevel(level int) {
	g.startLevel = level
}

// Reset starts a new session.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.tick = 0
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.tickRate = cfg.TickRate
	if g.tickRate <= 0 {
		g.tickRate = core.DefaultConfig().TickRate
	}
	g.gameOver = false
	g.levelCleared = false
	g.won = false
	g.targetReached = false
	g.paused = false
	g.levelClearTicks = 0
	g.err = nil
	g.anim = animator{}

	g.levelIndex = 0
	if g.mode == ModeCampaign && g.startLevel > 0 && g.startLevel <= len(g.cfg.Campaign.Levels) {
		g.levelIndex = g.startLevel - 1
	}

	engine, err := grid.New(g.engineConfig(), g.rng)
	if err != nil {
		g.fail(err)
		return
	}
	g.engine = engine
	if _, err := g.engine.NewGame(); err != nil {
		g.fail(err)
		return
	}

	g.checkScreenSize()
}

// engineConfig returns the grid parameters for the current mode and level.
func (g *Game) engineConfig() grid.Config {
	if g.mode == ModeCampaign && len(g.cfg.Campaign.Levels) > 0 {
		return g.cfg.LevelEngineConfig(g.levelIndex)
	}
	return g.cfg.EngineConfig()
}

func (g *Game) fail(err error) {
	g.err = err
	g.gameOver = true
}

// Resize updates the screen size without restarting the session.
func (g *Game) Resize(width, height int) {
	g.screenW = width
	g.screenH = height
	g.checkScreenSize()
}

// checkScreenSize checks if the screen is large enough for the board and HUD.
func (g *Game) checkScreenSize() {
	w, h := g.minScreenSize()
	g.tooSmall = g.screenW < w || g.screenH < h
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if g.tooSmall || g.engine == nil {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) && !g.gameOver && !g.won {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.anim.update()

	if g.levelCleared {
		g.levelClearTicks++
		if g.levelClearTicks >= levelClearSeconds*g.tickRate {
			g.advanceLevel()
		}
		return core.StepResult{State: g.State()}
	}

	if g.gameOver || g.won {
		return core.StepResult{State: g.State()}
	}

	dir, ok := directionFor(in)
	if !ok {
		return core.StepResult{State: g.State()}
	}

	moved := g.processMove(dir)
	return core.StepResult{State: g.State(), Moved: moved}
}

// directionFor picks the move for this tick. At most one move is applied
// per tick, in the order up, down, left, right.
func directionFor(in core.InputFrame) (grid.Direction, bool) {
	switch {
	case in.Has(core.ActionUp):
		return grid.Up, true
	case in.Has(core.ActionDown):
		return grid.Down, true
	case in.Has(core.ActionLeft):
		return grid.Left, true
	case in.Has(core.ActionRight):
		return grid.Right, true
	}
	return 0, false
}

// processMove applies one engine move and updates the session flags.
func (g *Game) processMove(dir grid.Direction) bool {
	res, err := g.engine.Move(dir)
	if err != nil {
		g.fail(err)
		return false
	}
	if !res.Moved {
		return false
	}

	g.anim.start(res)

	if res.ReachedTarget {
		if g.mode == ModeCampaign {
			g.levelCleared = true
			g.levelClearTicks = 0
			return true
		}
		g.targetReached = true
	}

	if res.Over {
		g.gameOver = true
	}
	return true
}

// advanceLevel moves to the next campaign level, carrying the board and
// score over into an engine configured for the new target.
func (g *Game) advanceLevel() {
	g.levelCleared = false
	g.levelClearTicks = 0

	if g.levelIndex >= len(g.cfg.Campaign.Levels)-1 {
		g.won = true
		return
	}

	snap := g.engine.Snapshot()
	g.levelIndex++

	engine, err := grid.New(g.engineConfig(), g.rng)
	if err != nil {
		g.fail(err)
		return
	}
	if err := engine.Restore(snap.Cells(), snap.Score); err != nil {
		g.fail(err)
		return
	}
	g.engine = engine
	g.anim = animator{}
	g.gameOver = engine.Over()
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	score := 0
	if g.engine != nil {
		score = g.engine.Score()
	}
	return core.GameState{
		Score:    score,
		GameOver: g.gameOver || g.won,
		Paused:   g.paused || g.tooSmall || g.levelCleared,
	}
}

// Target returns the tile value that clears the current level, or the
// endless-mode badge target.
func (g *Game) Target() int {
	return g.engineConfig().Target
}

// Err returns the engine error that ended the session, if any.
func (g *Game) Err() error {
	return g.err
}
