package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/registry"
	"github.com/vovakirdan/tui-2048/internal/reward"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// footerHeight is the number of lines below the game screen.
const footerHeight = 2

var (
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	claimedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// resizer is implemented by games that can change screen size without
// restarting.
type resizer interface {
	Resize(width, height int)
}

// GameModel runs one game with a reward footer and back-to-menu support.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	tracker    *reward.Tracker
	claimant   string
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	help       help.Model
	progress   progress.Model
	status     string
	claimed    bool
	best       int  // Stored high score for this game when the model was built
	standalone bool // Back quits the program instead of returning to a menu
	quitting   bool
	backToMenu bool
	scoreSaved bool
}

// NewGameModel creates a game model. store and tracker may be nil.
// claimant identifies the player for reward claims.
func NewGameModel(game registry.Game, store *storage.Store, tracker *reward.Tracker, cfg core.RuntimeConfig, claimant string) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	h := help.New()
	h.Width = cfg.ScreenW

	m := GameModel{
		game:       game,
		store:      store,
		tracker:    tracker,
		claimant:   claimant,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		help:       h,
		progress:   progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
	m.screen = core.NewScreen(cfg.ScreenW, m.gameConfig().ScreenH)
	m.progress.Width = progressWidth(cfg.ScreenW)

	if tracker != nil {
		m.claimed, _ = tracker.Claimed(claimant)
	}
	if store != nil {
		m.best, _ = store.HighScore(game.ID())
	}
	return m
}

// gameConfig returns the runtime config the game sees, leaving room for
// the footer.
func (m GameModel) gameConfig() core.RuntimeConfig {
	cfg := m.config
	cfg.ScreenH = max(cfg.ScreenH-footerHeight, 1)
	return cfg
}

func progressWidth(screenW int) int {
	return core.Clamp(screenW/3, 10, 40)
}

// Init initializes the game.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.gameConfig())
	return tickCmd(m.config.TickRate)
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	switch action {
	case core.ActionBack:
		if m.gameState.GameOver || m.gameState.Paused {
			m.backToMenu = true
			if m.standalone {
				return m, tea.Quit
			}
		}
	case core.ActionClaim:
		m.claim()
	case core.ActionNone:
	default:
		m.inputFrame.Set(action)
	}

	return m, nil
}

// handleResize keeps the game running at the new size when it can.
func (m GameModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height

	gcfg := m.gameConfig()
	m.screen.Resize(gcfg.ScreenW, gcfg.ScreenH)
	m.help.Width = msg.Width
	m.progress.Width = progressWidth(msg.Width)

	if r, ok := m.game.(resizer); ok {
		r.Resize(gcfg.ScreenW, gcfg.ScreenH)
	} else if !m.gameState.GameOver {
		m.game.Reset(gcfg)
	}
	return m, nil
}

// handleTick processes simulation ticks. Restart starts a new game once
// the current one is over or paused.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) && (m.gameState.GameOver || m.gameState.Paused) {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.gameConfig())
		m.gameState = m.game.State()
		m.scoreSaved = false
		m.status = ""
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	if result.Moved {
		m.status = ""
	}

	// Save score on game over (once)
	if m.gameState.GameOver && !m.scoreSaved && m.gameState.Score > 0 {
		if m.store != nil {
			if _, err := m.store.SaveScore(m.game.ID(), m.gameState.Score); err == nil {
				if rank, err := m.store.Rank(m.game.ID(), m.gameState.Score); err == nil {
					m.status = fmt.Sprintf("Score %d saved, rank #%d", m.gameState.Score, rank)
				}
			}
		}
		m.best = max(m.best, m.gameState.Score)
		m.scoreSaved = true
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// claim records a reward claim for the current score.
func (m *GameModel) claim() {
	if m.tracker == nil {
		m.status = "Rewards are disabled"
		return
	}

	score := m.game.State().Score
	err := m.tracker.Claim(m.claimant, score)
	switch {
	case err == nil:
		m.claimed = true
		m.status = fmt.Sprintf("Reward claimed with %d points!", score)
	case errors.Is(err, reward.ErrNotEligible):
		m.status = fmt.Sprintf("Reach %d points to claim the reward", m.tracker.Threshold())
	case errors.Is(err, reward.ErrAlreadyClaimed):
		m.claimed = true
		m.status = "Reward already claimed"
	default:
		m.status = "Cannot record claim: " + err.Error()
	}
}

// saveScreenshot saves the current screen to a file.
func (m *GameModel) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".t2048", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp)
	path := filepath.Join(dir, filename)

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
	m.status = "Screenshot saved to " + path
}

// View renders the game and the footer.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)

	var b strings.Builder
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")
	b.WriteString(m.rewardLine())
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
	} else {
		b.WriteString(footerStyle.Render(m.help.View(m.keyMapper.Keys())))
	}
	return b.String()
}

// bestScore is the stored best, raised live by the running game.
func (m GameModel) bestScore() int {
	return max(m.best, m.game.State().Score)
}

// rewardLine renders the best score and progress towards the reward
// threshold.
func (m GameModel) rewardLine() string {
	best := fmt.Sprintf(" Best %d", m.bestScore())
	if m.tracker == nil {
		return best
	}

	score := m.game.State().Score
	bar := m.progress.ViewAs(float64(m.tracker.Progress(score)) / 100)

	var state string
	switch {
	case m.claimed:
		state = claimedStyle.Render("claimed")
	case m.tracker.Eligible(score):
		state = statusStyle.Render("press c to claim!")
	default:
		state = fmt.Sprintf("%d/%d", score, m.tracker.Threshold())
	}
	return fmt.Sprintf("%s  Reward %s %s", best, bar, state)
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run plays a single game in its own Bubble Tea program.
// It returns true if the player asked to go back to a menu.
func Run(game registry.Game, store *storage.Store, tracker *reward.Tracker, cfg core.RuntimeConfig, claimant string) (backToMenu bool, err error) {
	model := NewGameModel(game, store, tracker, cfg, claimant)
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := finalModel.(GameModel)
	if !ok {
		return false, nil
	}
	return m.BackToMenu(), nil
}
