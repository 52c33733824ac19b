package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/registry"
)

// LevelSelectModel picks the campaign level to start from.
type LevelSelectModel struct {
	levels    []t2048.Level
	cursor    int
	width     int
	height    int
	keyMapper *KeyMapper
	chosen    int // 1-based, 0 while choosing
	quitting  bool
	back      bool
}

// NewLevelSelectModel lists the levels of the active configuration.
func NewLevelSelectModel(width, height int) LevelSelectModel {
	return LevelSelectModel{
		levels:    t2048.Levels(t2048.ActiveConfig()),
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the model.
func (m LevelSelectModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m LevelSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m LevelSelectModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Digits jump straight to a level.
	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
		if r := msg.Runes[0]; r >= '1' && r <= '9' {
			if n := int(r - '0'); n <= len(m.levels) {
				m.chosen = n
				return m, tea.Quit
			}
			return m, nil
		}
	}

	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionBack:
		m.back = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < len(m.levels)-1 {
			m.cursor++
		}
	case MenuActionSelect:
		if len(m.levels) == 0 {
			m.back = true
		} else {
			m.chosen = m.cursor + 1
		}
		return m, tea.Quit
	}
	return m, nil
}

// View renders the level list.
func (m LevelSelectModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("C A M P A I G N"), m.width))
	b.WriteString("\n\n")

	if len(m.levels) == 0 {
		b.WriteString(centerText(menuDetailStyle.Render("No levels configured"), m.width))
		b.WriteString("\n")
	}
	for i, lvl := range m.levels {
		line := fmt.Sprintf("%2d. %-18s target %5d   4s %3.0f%%", lvl.ID, lvl.Name, lvl.Target, lvl.Spawn4*100)
		style := menuItemStyle
		if i == m.cursor {
			style = menuSelectedStyle
		}
		b.WriteString(centerText(style.Render(line), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(menuDetailStyle.Render("↑/↓ move • enter/1-9 start • esc back • q quit"), m.width))
	b.WriteString("\n")
	return b.String()
}

// Selected returns the chosen 1-based level, or 0 while choosing.
func (m LevelSelectModel) Selected() int {
	return m.chosen
}

// IsQuitting returns true if user wants to quit.
func (m LevelSelectModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back.
func (m LevelSelectModel) WantsBack() bool {
	return m.back
}

// RunLevelSelect runs the level selector. It returns 0 when the player
// backed out or quit.
func RunLevelSelect(cfg core.RuntimeConfig) (int, core.RuntimeConfig, error) {
	finalModel, err := tea.NewProgram(NewLevelSelectModel(cfg.ScreenW, cfg.ScreenH), tea.WithAltScreen()).Run()
	if err != nil {
		return 0, cfg, err
	}
	m, ok := finalModel.(LevelSelectModel)
	if !ok {
		return 0, cfg, nil
	}
	cfg.ScreenW, cfg.ScreenH = m.width, m.height
	return m.Selected(), cfg, nil
}

// startLeveler is implemented by games with selectable campaign levels.
type startLeveler interface {
	SetStartLevel(level int)
}

// CreateGame creates gameID from the registry, starting campaign games at
// the 1-based level when level is positive.
func CreateGame(gameID string, level int) (registry.Game, error) {
	game, err := registry.Create(gameID)
	if err != nil {
		return nil, err
	}
	if sl, ok := game.(startLeveler); ok && level > 0 {
		sl.SetStartLevel(level)
	}
	return game, nil
}
