package t2048

import (
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/games/t2048/grid"
	"github.com/vovakirdan/tui-2048/internal/registry"
)

func testConfig() core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 10,
		Seed:     42,
	}
}

func press(actions ...core.Action) core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return in
}

// restore replaces the running board, failing the test on error.
func restore(t *testing.T, g *Game, cells [][]int, score int) {
	t.Helper()
	if err := g.engine.Restore(cells, score); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
}

// idle steps the game n times without input.
func idle(g *Game, n int) {
	for range n {
		g.Step(core.NewInputFrame())
	}
}

func TestRegistered(t *testing.T) {
	for _, id := range []string{IDCampaign, IDEndless} {
		if !registry.Exists(id) {
			t.Errorf("registry.Exists(%q) = false, want true", id)
		}
	}
}

func TestResetStartsWithTwoTiles(t *testing.T) {
	g := New()
	g.Reset(testConfig())

	snap := g.engine.Snapshot()
	if len(snap.Tiles) != 2 {
		t.Errorf("tiles after Reset = %d, want 2", len(snap.Tiles))
	}
	if g.State().Score != 0 {
		t.Errorf("Score = %d, want 0", g.State().Score)
	}
	if g.Err() != nil {
		t.Errorf("Err() = %v, want nil", g.Err())
	}
}

func TestDeterministicGames(t *testing.T) {
	moves := []core.Action{core.ActionLeft, core.ActionUp, core.ActionRight, core.ActionDown, core.ActionLeft, core.ActionUp}

	play := func() Snapshot {
		g := NewEndless()
		g.Reset(testConfig())
		for _, a := range moves {
			g.Step(press(a))
		}
		return g.Snapshot()
	}

	a, b := play(), play()
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same seed and inputs diverged:\n%+v\nvs\n%+v", a, b)
	}
}

func TestMoveAppliesToEngine(t *testing.T) {
	g := NewEndless()
	g.Reset(testConfig())
	restore(t, g, [][]int{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}, 0)

	res := g.Step(press(core.ActionLeft))
	if !res.Moved {
		t.Fatal("Moved = false, want true")
	}
	if res.State.Score != 4 {
		t.Errorf("Score = %d, want 4", res.State.Score)
	}
	if got := g.engine.Snapshot().Cells()[0][0]; got != 4 {
		t.Errorf("cell (0,0) = %d, want 4", got)
	}
	if g.anim.phase != PhaseSlide {
		t.Errorf("animation phase = %v, want PhaseSlide", g.anim.phase)
	}

	// Blocked moves are not reported.
	restore(t, g, [][]int{
		{2, 4, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}, 4)
	if res := g.Step(press(core.ActionLeft)); res.Moved {
		t.Error("blocked move reported Moved = true")
	}
}

func TestCampaignProgression(t *testing.T) {
	g := New()
	g.Reset(testConfig())
	restore(t, g, [][]int{
		{64, 64, 0, 0},
		{2, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}, 500)

	g.Step(press(core.ActionLeft))
	if !g.levelCleared {
		t.Fatal("levelCleared = false after reaching 128")
	}
	if !g.State().Paused {
		t.Error("State().Paused = false during level clear banner")
	}

	// Input is ignored while the banner is up.
	before := g.engine.Snapshot().Cells()
	g.Step(press(core.ActionRight))
	if after := g.engine.Snapshot().Cells(); !reflect.DeepEqual(before, after) {
		t.Error("board changed during level clear banner")
	}

	idle(g, levelClearSeconds*testConfig().TickRate)

	if g.levelIndex != 1 {
		t.Fatalf("level = %d, want 2", g.levelIndex+1)
	}
	if g.levelCleared {
		t.Error("levelCleared still set after advancing")
	}
	if g.Target() != 256 {
		t.Errorf("Target() = %d, want 256", g.Target())
	}
	if g.State().Score != 628 {
		t.Errorf("Score = %d, want 628 (carried over)", g.State().Score)
	}
	if got := g.engine.Snapshot().Cells(); !reflect.DeepEqual(got, before) {
		t.Errorf("board after level advance = %v, want %v", got, before)
	}
}

func TestCampaignComplete(t *testing.T) {
	g := New()
	g.SetStartLevel(LevelCount())
	g.Reset(testConfig())

	if g.levelIndex != LevelCount()-1 {
		t.Fatalf("start level = %d, want %d", g.levelIndex+1, LevelCount())
	}

	restore(t, g, [][]int{
		{4096, 4096, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}, 0)

	g.Step(press(core.ActionLeft))
	idle(g, levelClearSeconds*testConfig().TickRate)

	if !g.won {
		t.Fatal("won = false after clearing the last level")
	}
	if !g.State().GameOver {
		t.Error("State().GameOver = false after campaign complete")
	}
	if g.Snapshot().State != StateWin {
		t.Errorf("Snapshot().State = %s, want %s", g.Snapshot().State, StateWin)
	}
}

func TestSetStartLevelOutOfRange(t *testing.T) {
	for _, level := range []int{-1, 0, 99} {
		g := New()
		g.SetStartLevel(level)
		g.Reset(testConfig())
		if g.levelIndex != 0 {
			t.Errorf("SetStartLevel(%d): level = %d, want 1", level, g.levelIndex+1)
		}
	}
}

func TestEndlessContinuesPastTarget(t *testing.T) {
	g := NewEndless()
	g.Reset(testConfig())
	restore(t, g, [][]int{
		{1024, 1024, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}, 0)

	g.Step(press(core.ActionLeft))
	if !g.targetReached {
		t.Fatal("targetReached = false after making 2048")
	}
	if g.levelCleared || g.won {
		t.Error("endless mode stopped at the target")
	}
	if g.State().GameOver || g.State().Paused {
		t.Errorf("State() = %+v, want playing", g.State())
	}

	res := g.Step(press(core.ActionRight))
	if !res.Moved {
		t.Error("move after reaching the target was not applied")
	}
	if !g.Snapshot().TargetReached {
		t.Error("Snapshot().TargetReached = false")
	}
}

func TestGameOver(t *testing.T) {
	cfg := config.DefaultT2048Config()
	cfg.Board.Spawn4Prob = 0

	g := NewEndless()
	g.cfg = cfg
	g.Reset(testConfig())
	restore(t, g, [][]int{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 0, 16},
	}, 100)

	res := g.Step(press(core.ActionLeft))
	if !res.Moved {
		t.Fatal("Moved = false, want true")
	}
	if !res.State.GameOver {
		t.Fatal("GameOver = false on a locked board")
	}
	if g.Snapshot().State != StateGameOver {
		t.Errorf("Snapshot().State = %s, want %s", g.Snapshot().State, StateGameOver)
	}

	// Further input is ignored.
	if res := g.Step(press(core.ActionUp)); res.Moved {
		t.Error("move applied after game over")
	}
}

func TestPauseToggle(t *testing.T) {
	g := NewEndless()
	g.Reset(testConfig())
	restore(t, g, [][]int{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}, 0)

	g.Step(press(core.ActionPause))
	if !g.paused {
		t.Fatal("paused = false after Pause")
	}
	if res := g.Step(press(core.ActionLeft)); res.Moved {
		t.Error("move applied while paused")
	}

	g.Step(press(core.ActionPause))
	if g.paused {
		t.Fatal("paused = true after second Pause")
	}
	if res := g.Step(press(core.ActionLeft)); !res.Moved {
		t.Error("move not applied after resume")
	}
}

func TestWindowTooSmall(t *testing.T) {
	rc := testConfig()
	rc.ScreenW = 20
	rc.ScreenH = 10

	g := NewEndless()
	g.Reset(rc)

	if res := g.Step(press(core.ActionLeft)); res.Moved {
		t.Error("move applied in a window that is too small")
	}
	if g.Snapshot().State != StatePausedSmall {
		t.Errorf("Snapshot().State = %s, want %s", g.Snapshot().State, StatePausedSmall)
	}

	screen := core.NewScreen(rc.ScreenW, rc.ScreenH)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Window too small") {
		t.Error("Render did not show the resize hint")
	}
}

func TestResizeKeepsBoard(t *testing.T) {
	g := NewEndless()
	g.Reset(testConfig())
	before := g.engine.Snapshot()

	g.Resize(20, 10)
	if !g.tooSmall {
		t.Error("tooSmall = false after shrinking")
	}
	g.Resize(80, 24)
	if g.tooSmall {
		t.Error("tooSmall = true after growing")
	}
	if after := g.engine.Snapshot(); !reflect.DeepEqual(before, after) {
		t.Error("Resize changed the board")
	}
}

func TestAnimationRunsToCompletion(t *testing.T) {
	g := NewEndless()
	g.Reset(testConfig())
	restore(t, g, [][]int{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}, 0)

	g.Step(press(core.ActionLeft))
	if len(g.anim.popped) != 2 {
		t.Errorf("popped cells = %d, want 2 (merge and spawn)", len(g.anim.popped))
	}

	idle(g, slideAnimationDuration)
	if g.anim.phase != PhasePop {
		t.Errorf("phase after slide = %v, want PhasePop", g.anim.phase)
	}
	if !g.anim.isPopping(g.engine.Snapshot().Tiles[len(g.engine.Snapshot().Tiles)-1].Pos()) {
		t.Error("newest tile is not highlighted during the pop phase")
	}

	idle(g, popAnimationDuration)
	if g.anim.phase != PhaseNone {
		t.Errorf("phase after pop = %v, want PhaseNone", g.anim.phase)
	}
}

func TestSlidingTilePosition(t *testing.T) {
	s := slidingTile{value: 2, from: grid.Position{X: 3}, to: grid.Position{}}

	if x, y := s.position(0); x != 3 || y != 0 {
		t.Errorf("position(0) = (%v, %v), want (3, 0)", x, y)
	}
	if x, y := s.position(1); x != 0 || y != 0 {
		t.Errorf("position(1) = (%v, %v), want (0, 0)", x, y)
	}
	if x, _ := s.position(0.5); x <= 0 || x >= 1.5 {
		t.Errorf("position(0.5).x = %v, want eased past the midpoint", x)
	}
}

func TestRenderHUD(t *testing.T) {
	g := New()
	g.Reset(testConfig())

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	out := screen.String()

	for _, want := range []string{"Score: 0", "Level 1/10", "Target: 128", "Campaign"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render output missing %q", want)
		}
	}
	boardW, _ := g.boardDims()
	boardX := (80 - boardW) / 2
	for _, tile := range g.engine.Snapshot().Tiles {
		x := boardX + tile.X*cellWidth + 1
		y := hudHeight + 1 + tile.Y*cellHeight + 1
		var cell strings.Builder
		for i := range cellWidth - 1 {
			cell.WriteRune(screen.Get(x+i, y))
		}
		if !strings.Contains(cell.String(), strconv.Itoa(tile.Value)) {
			t.Errorf("tile %d at (%d,%d) drawn as %q", tile.Value, tile.X, tile.Y, cell.String())
		}
	}
}

func TestRenderHUDRows(t *testing.T) {
	tests := []struct {
		name  string
		game  func() *Game
		level int
		info  string
	}{
		{"campaign last level", New, 10, "Level 10/10  Target: "},
		{"endless", NewEndless, 0, "Target: 2048"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := tt.game()
			if tt.level > 0 {
				g.SetStartLevel(tt.level)
			}
			g.Reset(testConfig())
			cells := [][]int{
				{2, 4, 8, 16},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
				{0, 0, 0, 1024},
			}
			if err := g.engine.Restore(cells, 1234567); err != nil {
				t.Fatalf("Restore() error = %v", err)
			}

			screen := core.NewScreen(80, 24)
			g.Render(screen)

			if row := screen.Row(1); !strings.Contains(row, "Score: 1234567") || !strings.Contains(row, "Max: 1024") {
				t.Errorf("score row = %q, want score and max tile", row)
			}
			if row := screen.Row(2); !strings.Contains(row, tt.info) {
				t.Errorf("info row = %q, want %q", row, tt.info)
			}
			if row := screen.Row(1); strings.Contains(row, "Target") {
				t.Errorf("score row = %q, target text overlaps it", row)
			}
		})
	}
}

func TestRenderOverlays(t *testing.T) {
	g := New()
	g.Reset(testConfig())

	g.paused = true
	screen := core.NewScreen(80, 24)
	g.Render(screen)
	if !strings.Contains(screen.String(), "PAUSED") {
		t.Error("paused overlay not drawn")
	}

	g.paused = false
	g.gameOver = true
	g.Render(screen)
	if !strings.Contains(screen.String(), "GAME OVER") {
		t.Error("game over overlay not drawn")
	}
}

func TestTileColor(t *testing.T) {
	tests := []struct {
		value int
		want  core.Color
	}{
		{2, core.ColorWhite},
		{2048, core.ColorBrightGreen},
		{4096, colorHigh},
		{131072, colorHigh},
	}
	for _, tt := range tests {
		if got := TileColor(tt.value); got != tt.want {
			t.Errorf("TileColor(%d) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestSnapshot(t *testing.T) {
	g := New()
	g.Reset(testConfig())

	snap := g.Snapshot()

	if snap.Mode != "campaign" {
		t.Errorf("Snapshot Mode = %s, want campaign", snap.Mode)
	}
	if snap.Level != 1 {
		t.Errorf("Snapshot Level = %d, want 1", snap.Level)
	}
	if snap.Target != 128 {
		t.Errorf("Snapshot Target = %d, want 128", snap.Target)
	}
	if snap.State != StatePlaying {
		t.Errorf("Snapshot State = %s, want playing", snap.State)
	}
	if len(snap.Board) != 4 {
		t.Errorf("Snapshot Board rows = %d, want 4", len(snap.Board))
	}

	endless := NewEndless()
	endless.Reset(testConfig())
	if s := endless.Snapshot(); s.Level != 0 || s.Target != 2048 {
		t.Errorf("endless Snapshot Level/Target = %d/%d, want 0/2048", s.Level, s.Target)
	}
}

func TestLevels(t *testing.T) {
	if LevelCount() != 10 {
		t.Errorf("LevelCount() = %d, want 10", LevelCount())
	}

	names := LevelNames()
	if len(names) != 10 {
		t.Fatalf("LevelNames() length = %d, want 10", len(names))
	}
	if names[0] != "Warm-up" {
		t.Errorf("First level name = %s, want Warm-up", names[0])
	}

	targets := LevelTargets()
	for i := 1; i < len(targets); i++ {
		if targets[i] < targets[i-1] {
			t.Errorf("LevelTargets()[%d] = %d, less than previous %d", i, targets[i], targets[i-1])
		}
	}
}
