package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

func updateSession(t *testing.T, m SessionModel, msg tea.Msg) (SessionModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	sm, ok := next.(SessionModel)
	if !ok {
		t.Fatalf("Update returned %T, want SessionModel", next)
	}
	return sm, cmd
}

func TestSessionModelEndlessFlow(t *testing.T) {
	m := NewSessionModel(nil, nil, core.DefaultConfig(), "ssh:alice")

	// Second menu entry is endless mode, which starts right away.
	m, _ = updateSession(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := updateSession(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.screen != screenGame || m.gameModel == nil {
		t.Fatalf("screen = %v, want game", m.screen)
	}
	if cmd == nil {
		t.Error("starting a game should schedule a tick")
	}
	if got := m.gameModel.game.ID(); got != t2048.IDEndless {
		t.Errorf("game = %q, want %q", got, t2048.IDEndless)
	}
	if m.gameModel.claimant != "ssh:alice" {
		t.Errorf("claimant = %q, want %q", m.gameModel.claimant, "ssh:alice")
	}
	if m.quitting {
		t.Error("session quit while starting a game")
	}
}

func TestSessionModelCampaignFlow(t *testing.T) {
	m := NewSessionModel(nil, nil, core.DefaultConfig(), "local")

	m, _ = updateSession(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.screen != screenLevelSelect {
		t.Fatalf("screen = %v, want level select", m.screen)
	}

	m, _ = updateSession(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.screen != screenGame || m.gameModel == nil {
		t.Fatalf("screen = %v, want game", m.screen)
	}
	if got := m.gameModel.game.ID(); got != t2048.IDCampaign {
		t.Errorf("game = %q, want %q", got, t2048.IDCampaign)
	}
}

func TestSessionModelLevelSelectBack(t *testing.T) {
	m := NewSessionModel(nil, nil, core.DefaultConfig(), "local")

	m, _ = updateSession(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = updateSession(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.screen != screenMenu {
		t.Errorf("screen = %v, want menu", m.screen)
	}
	if m.menu.Selected() != nil {
		t.Error("menu should be fresh after going back")
	}
	if m.quitting {
		t.Error("back should not quit")
	}
}

func TestSessionModelScoreboard(t *testing.T) {
	m := NewSessionModel(nil, nil, core.DefaultConfig(), "local")

	m, _ = updateSession(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.screen != screenScoreboard {
		t.Fatalf("screen = %v, want scoreboard", m.screen)
	}
	if !strings.Contains(m.View(), "HIGH SCORES") {
		t.Error("scoreboard view missing title")
	}

	m, _ = updateSession(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.screen != screenMenu {
		t.Errorf("screen = %v, want menu", m.screen)
	}
	if m.quitting {
		t.Error("back from scoreboard should not quit")
	}
}

func TestSessionModelQuit(t *testing.T) {
	m := NewSessionModel(nil, nil, core.DefaultConfig(), "local")
	m, cmd := updateSession(t, m, runeKey('q'))
	if !m.quitting {
		t.Error("q should quit the session")
	}
	if cmd == nil {
		t.Error("quit should return a command")
	}
	if m.View() != "" {
		t.Error("view after quit should be empty")
	}
}

func TestSessionModelResize(t *testing.T) {
	m := NewSessionModel(nil, nil, core.DefaultConfig(), "local")
	m, _ = updateSession(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.config.ScreenW != 120 || m.config.ScreenH != 40 {
		t.Errorf("config size = %dx%d, want 120x40", m.config.ScreenW, m.config.ScreenH)
	}
}
