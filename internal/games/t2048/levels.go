// Package t2048 runs the 2048 puzzle on the tick-driven game platform, in a
// campaign of increasing targets or an endless mode.
package t2048

import (
	"github.com/vovakirdan/tui-2048/internal/config"
)

// Level is a campaign level as shown in menus.
type Level struct {
	ID     int // 1-based
	Name   string
	Target int
	Spawn4 float64
}

// Levels returns the campaign levels of cfg in play order.
func Levels(cfg config.T2048Config) []Level {
	levels := make([]Level, len(cfg.Campaign.Levels))
	for i, lvl := range cfg.Campaign.Levels {
		levels[i] = Level{
			ID:     i + 1,
			Name:   lvl.Name,
			Target: lvl.Target,
			Spawn4: lvl.Spawn4,
		}
	}
	return levels
}

// LevelCount returns the number of campaign levels in the active configuration.
func LevelCount() int {
	return len(ActiveConfig().Campaign.Levels)
}

// LevelNames returns the names of all levels in the active configuration.
func LevelNames() []string {
	levels := Levels(ActiveConfig())
	names := make([]string, len(levels))
	for i, lvl := range levels {
		names[i] = lvl.Name
	}
	return names
}

// LevelTargets returns the targets of all levels in the active configuration.
func LevelTargets() []int {
	levels := Levels(ActiveConfig())
	targets := make([]int, len(levels))
	for i, lvl := range levels {
		targets[i] = lvl.Target
	}
	return targets
}
