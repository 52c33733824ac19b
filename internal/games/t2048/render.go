package t2048

import (
	"fmt"
	"math"
	"strconv"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/games/t2048/grid"
)

const (
	cellWidth  = 7 // Width of each cell including its left border
	cellHeight = 2 // Height of each cell including its top border
	hudHeight  = 4
)

// tileColors maps tile values to their display color. Values above the
// table use colorHigh.
var tileColors = map[int]core.Color{
	2:    core.ColorWhite,
	4:    core.ColorBrightWhite,
	8:    core.ColorOrange,
	16:   core.ColorBrightRed,
	32:   core.ColorRed,
	64:   core.ColorPink,
	128:  core.ColorYellow,
	256:  core.ColorBrightYellow,
	512:  core.ColorGold,
	1024: core.ColorGreen,
	2048: core.ColorBrightGreen,
}

const colorHigh = core.ColorBrightMagenta

// TileColor returns the display color for a tile value.
func TileColor(value int) core.Color {
	if c, ok := tileColors[value]; ok {
		return c
	}
	return colorHigh
}

func (g *Game) boardDims() (w, h int) {
	n := g.engineConfig().Size
	return n*cellWidth + 1, n*cellHeight + 1
}

func (g *Game) minScreenSize() (w, h int) {
	bw, bh := g.boardDims()
	return max(bw+2, 30), hudHeight + 1 + bh + 1
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}
	if g.engine == nil {
		g.renderError(dst)
		return
	}

	boardW, boardH := g.boardDims()
	boardX := (g.screenW - boardW) / 2
	boardY := hudHeight + 1

	snap := g.engine.Snapshot()
	g.renderHUD(dst, snap, boardX, boardW)
	g.renderGrid(dst, snap.Size, boardX, boardY)
	g.renderTiles(dst, snap, boardX, boardY)
	g.renderOverlays(dst, snap, boardX, boardY, boardW, boardH)
}

func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, "Please resize terminal")
}

func (g *Game) renderError(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCenteredColor(y, "Cannot start game", core.ColorRed)
	if g.err != nil {
		dst.DrawTextCentered(y+1, g.err.Error())
	}
}

// renderHUD draws the title, score, max tile, level or target and mode.
// Each row has its own line so the score is never overdrawn.
func (g *Game) renderHUD(dst *core.Screen, snap grid.Snapshot, boardX, boardW int) {
	title := "2048"
	dst.DrawTextColor(boardX+(boardW-len(title))/2, 0, title, core.ColorGold)

	score := fmt.Sprintf("Score: %d", snap.Score)
	dst.DrawText(boardX, 1, score)
	maxTile := fmt.Sprintf("Max: %d", snap.MaxTile())
	dst.DrawText(max(boardX+len(score)+1, boardX+boardW-len(maxTile)), 1, maxTile)

	var info string
	if g.mode == ModeCampaign {
		info = fmt.Sprintf("Level %d/%d  Target: %d", g.levelIndex+1, max(len(g.cfg.Campaign.Levels), 1), snap.Target)
	} else {
		info = fmt.Sprintf("Target: %d", snap.Target)
	}
	dst.DrawText(boardX+max(0, (boardW-len(info))/2), 2, info)

	mode := "Campaign"
	if g.mode == ModeEndless {
		mode = "Endless"
	}
	if g.targetReached {
		mode = fmt.Sprintf("Endless  *%d reached*", snap.Target)
	}
	modeColor := core.ColorGray
	if g.targetReached {
		modeColor = core.ColorBrightGreen
	}
	dst.DrawTextColor(boardX+max(0, (boardW-len(mode))/2), 3, mode, modeColor)
}

// renderGrid draws the N×N cell borders.
func (g *Game) renderGrid(dst *core.Screen, n, boardX, boardY int) {
	for y := range n + 1 {
		for x := range n + 1 {
			px := boardX + x*cellWidth
			py := boardY + y*cellHeight
			dst.SetColor(px, py, gridCorner(x, y, n), core.ColorGray)

			if x < n {
				for i := 1; i < cellWidth; i++ {
					dst.SetColor(px+i, py, '─', core.ColorGray)
				}
			}
			if y < n {
				for i := 1; i < cellHeight; i++ {
					dst.SetColor(px, py+i, '│', core.ColorGray)
				}
			}
		}
	}
}

func gridCorner(x, y, n int) rune {
	switch {
	case y == 0 && x == 0:
		return '┌'
	case y == 0 && x == n:
		return '┐'
	case y == n && x == 0:
		return '└'
	case y == n && x == n:
		return '┘'
	case y == 0:
		return '┬'
	case y == n:
		return '┴'
	case x == 0:
		return '├'
	case x == n:
		return '┤'
	default:
		return '┼'
	}
}

// renderTiles draws tiles, interpolating positions during a slide.
func (g *Game) renderTiles(dst *core.Screen, snap grid.Snapshot, boardX, boardY int) {
	if g.anim.phase == PhaseSlide {
		for _, t := range g.anim.static {
			drawTile(dst, boardX, boardY, float64(t.X), float64(t.Y), t.Value, false)
		}
		p := g.anim.progress()
		for _, s := range g.anim.sliding {
			x, y := s.position(p)
			drawTile(dst, boardX, boardY, x, y, s.value, false)
		}
		return
	}

	for _, t := range snap.Tiles {
		drawTile(dst, boardX, boardY, float64(t.X), float64(t.Y), t.Value, g.anim.isPopping(t.Pos()))
	}
}

// drawTile draws a value centered in the cell at fractional grid
// coordinates (x, y). Popping tiles are bracketed when they fit.
func drawTile(dst *core.Screen, boardX, boardY int, x, y float64, value int, pop bool) {
	text := strconv.Itoa(value)
	color := TileColor(value)
	if pop && len(text)+2 <= cellWidth-1 {
		text = "[" + text + "]"
		color = core.ColorBrightWhite
	}

	cellX := boardX + int(math.Round(x*cellWidth)) + 1
	cellY := boardY + int(math.Round(y*cellHeight)) + 1
	pad := max((cellWidth-1-len(text))/2, 0)
	dst.DrawTextColor(cellX+pad, cellY, text, color)
}

// renderOverlays draws game state overlays.
func (g *Game) renderOverlays(dst *core.Screen, snap grid.Snapshot, boardX, boardY, boardW, boardH int) {
	centerX := boardX + boardW/2
	centerY := boardY + boardH/2

	switch {
	case g.paused:
		drawOverlay(dst, centerX, centerY, "PAUSED", "P to resume, R to restart")
	case g.levelCleared:
		reached := fmt.Sprintf("Target %d reached!", snap.Target)
		if g.levelIndex >= len(g.cfg.Campaign.Levels)-1 {
			drawOverlay(dst, centerX, centerY, reached, "Final level complete!")
		} else {
			drawOverlay(dst, centerX, centerY, reached, fmt.Sprintf("Next: Level %d", g.levelIndex+2))
		}
	case g.won:
		drawOverlay(dst, centerX, centerY, "CAMPAIGN COMPLETE!", "You are the champion!", "Press R to restart")
	case g.gameOver:
		lines := []string{"GAME OVER", fmt.Sprintf("Max tile: %d", snap.MaxTile()), "Press R to restart"}
		if g.err != nil {
			lines = []string{"GAME STOPPED", g.err.Error(), "Press R to restart"}
		}
		drawOverlay(dst, centerX, centerY, lines...)
	}
}

// drawOverlay draws a boxed block of centered lines.
func drawOverlay(dst *core.Screen, centerX, centerY int, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len(line))
	}

	box := core.CenteredRect(centerX, centerY, maxLen+4, len(lines)+2)

	dst.DrawRect(box, ' ')
	dst.DrawBoxColor(box, core.ColorBrightYellow)

	for i, line := range lines {
		dst.DrawText(centerX-len(line)/2, box.Y+1+i, line)
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "Arrows/WASD: Move | P: Pause | R: Restart | C: Claim | B: Menu | Q: Quit"
}
