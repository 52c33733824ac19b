package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/registry"
)

var (
	menuTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuItemStyle     = lipgloss.NewStyle().Padding(0, 1)
	menuSelectedStyle = menuItemStyle.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	menuDetailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// menuEntryKind distinguishes game entries from the other menu rows.
type menuEntryKind int

const (
	entryGame menuEntryKind = iota
	entryScores
	entryQuit
)

// MenuItem is a selectable game mode.
type MenuItem struct {
	GameID string
	Title  string
	Detail string
}

type menuEntry struct {
	kind menuEntryKind
	item MenuItem
}

// MenuModel is the main menu: the two game modes, the scoreboard and quit.
type MenuModel struct {
	entries        []menuEntry
	cursor         int
	width          int
	height         int
	config         core.RuntimeConfig
	keyMapper      *KeyMapper
	quitting       bool
	selected       *MenuItem
	openScoreboard bool
}

// NewMenuModel creates the main menu from the registered games.
func NewMenuModel(cfg core.RuntimeConfig) MenuModel {
	var entries []menuEntry
	for _, g := range registry.List() {
		entries = append(entries, menuEntry{
			kind: entryGame,
			item: MenuItem{GameID: g.ID, Title: g.Title, Detail: modeDetail(g.ID)},
		})
	}
	entries = append(entries,
		menuEntry{kind: entryScores, item: MenuItem{Title: "High Scores"}},
		menuEntry{kind: entryQuit, item: MenuItem{Title: "Quit"}},
	)

	return MenuModel{
		entries:   entries,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
}

// modeDetail describes a game mode under the active configuration.
func modeDetail(gameID string) string {
	cfg := t2048.ActiveConfig()
	size := cfg.Board.Size
	switch gameID {
	case t2048.IDCampaign:
		return fmt.Sprintf("%d levels on a %dx%d board", t2048.LevelCount(), size, size)
	case t2048.IDEndless:
		return fmt.Sprintf("reach %d, then keep going", cfg.Board.Target)
	}
	return ""
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
	}
	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		m.cursor = (m.cursor + len(m.entries) - 1) % len(m.entries)
	case MenuActionDown:
		m.cursor = (m.cursor + 1) % len(m.entries)
	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit
	case MenuActionSelect:
		entry := m.entries[m.cursor]
		switch entry.kind {
		case entryGame:
			item := entry.item
			m.selected = &item
		case entryScores:
			m.openScoreboard = true
		case entryQuit:
			m.quitting = true
		}
		return m, tea.Quit
	}
	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("2 0 4 8"), m.width))
	b.WriteString("\n\n")

	for i, e := range m.entries {
		if e.kind == entryScores {
			b.WriteString("\n")
		}
		style := menuItemStyle
		if i == m.cursor {
			style = menuSelectedStyle
		}
		b.WriteString(centerText(style.Render(e.item.Title), m.width))
		b.WriteString("\n")
		if e.item.Detail != "" {
			b.WriteString(centerText(menuDetailStyle.Render(e.item.Detail), m.width))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(centerText(menuDetailStyle.Render("↑/↓ move • enter select • tab scores • q quit"), m.width))
	b.WriteString("\n")
	return b.String()
}

// Selected returns the chosen game mode, or nil.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested the scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the runtime config, updated by resizes.
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText pads text on the left to center it within width. Styled
// text is measured without its escape sequences.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	GameID          string
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the menu in its own program.
func RunMenu(cfg core.RuntimeConfig) (MenuResult, error) {
	finalModel, err := tea.NewProgram(NewMenuModel(cfg), tea.WithAltScreen()).Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	result := MenuResult{Config: m.Config()}
	switch {
	case m.WantsScoreboard():
		result.WantsScoreboard = true
	case m.Selected() != nil:
		result.GameID = m.Selected().GameID
	default:
		result.Quit = true
	}
	return result, nil
}
