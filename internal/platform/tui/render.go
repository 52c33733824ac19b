package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-2048/internal/core"
)

// palette holds the ANSI 256-color code for each core.Color, indexed by
// the color value. ColorDefault renders unstyled.
var palette = [...]string{
	core.ColorDefault:       "",
	core.ColorRed:           "1",
	core.ColorGreen:         "2",
	core.ColorYellow:        "3",
	core.ColorBlue:          "4",
	core.ColorMagenta:       "5",
	core.ColorCyan:          "6",
	core.ColorWhite:         "7",
	core.ColorBrightRed:     "9",
	core.ColorBrightGreen:   "10",
	core.ColorBrightYellow:  "11",
	core.ColorBrightBlue:    "12",
	core.ColorBrightMagenta: "13",
	core.ColorBrightCyan:    "14",
	core.ColorBrightWhite:   "15",
	core.ColorOrange:        "208",
	core.ColorGray:          "245",
	core.ColorPink:          "205",
	core.ColorGold:          "220",
}

// cellStyles is built once from palette. Gold marks the highest tiles
// and is drawn bold.
var cellStyles = func() []lipgloss.Style {
	styles := make([]lipgloss.Style, len(palette))
	for c, code := range palette {
		style := lipgloss.NewStyle()
		if code != "" {
			style = style.Foreground(lipgloss.Color(code))
		}
		if core.Color(c) == core.ColorGold {
			style = style.Bold(true)
		}
		styles[c] = style
	}
	return styles
}()

// styleFor returns the style for c, falling back to unstyled output.
func styleFor(c core.Color) lipgloss.Style {
	if int(c) < len(cellStyles) {
		return cellStyles[c]
	}
	return cellStyles[core.ColorDefault]
}

// RenderScreen converts a Screen buffer to styled terminal output.
// Each row is split into runs of one color so every run costs a single
// escape sequence.
func RenderScreen(s *core.Screen) string {
	lines := make([]string, s.Height())
	var run []rune

	for y := range lines {
		var line strings.Builder
		runColor := core.ColorDefault
		run = run[:0]

		for x := range s.Width() {
			cell := s.GetCell(x, y)
			if len(run) > 0 && cell.Color != runColor {
				line.WriteString(styleFor(runColor).Render(string(run)))
				run = run[:0]
			}
			runColor = cell.Color
			run = append(run, cell.Rune)
		}
		if len(run) > 0 {
			line.WriteString(styleFor(runColor).Render(string(run)))
		}
		lines[y] = line.String()
	}
	return strings.Join(lines, "\n")
}
