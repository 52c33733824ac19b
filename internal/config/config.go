// Package config loads the YAML game configuration and applies
// difficulty presets.
package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-2048/internal/games/t2048/grid"
)

// T2048Config contains all configuration for the 2048 game.
type T2048Config struct {
	Board    BoardConfig    `yaml:"board"`
	Campaign CampaignConfig `yaml:"campaign"`
	Reward   RewardConfig   `yaml:"reward"`
}

// BoardConfig defines the grid used by endless mode and by every campaign level.
type BoardConfig struct {
	Size       int     `yaml:"size"`
	Target     int     `yaml:"target"`
	Spawn4Prob float64 `yaml:"spawn4_prob"`
}

// CampaignConfig lists campaign levels in play order.
type CampaignConfig struct {
	Levels []LevelConfig `yaml:"levels"`
}

// LevelConfig defines one campaign level.
type LevelConfig struct {
	Name   string  `yaml:"name"`
	Target int     `yaml:"target"`
	Spawn4 float64 `yaml:"spawn4"`
}

// RewardConfig holds reward bookkeeping parameters.
type RewardConfig struct {
	Threshold int `yaml:"threshold"` // Cumulative score that unlocks the reward
}

// EngineConfig returns the grid configuration for endless play.
func (c T2048Config) EngineConfig() grid.Config {
	return grid.Config{
		Size:       c.Board.Size,
		Target:     c.Board.Target,
		Spawn4Prob: c.Board.Spawn4Prob,
	}
}

// LevelEngineConfig returns the grid configuration for campaign level i.
func (c T2048Config) LevelEngineConfig(i int) grid.Config {
	lvl := c.Campaign.Levels[i]
	return grid.Config{
		Size:       c.Board.Size,
		Target:     lvl.Target,
		Spawn4Prob: lvl.Spawn4,
	}
}

// Validate rejects configurations the engine would refuse.
func (c T2048Config) Validate() error {
	var errs []error
	if err := c.EngineConfig().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("board: %w", err))
	}
	for i, lvl := range c.Campaign.Levels {
		if err := c.LevelEngineConfig(i).Validate(); err != nil {
			errs = append(errs, fmt.Errorf("level %d (%s): %w", i+1, lvl.Name, err))
		}
	}
	if c.Reward.Threshold <= 0 {
		errs = append(errs, fmt.Errorf("reward threshold %d must be positive", c.Reward.Threshold))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
