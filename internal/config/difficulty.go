package config

import (
	"fmt"
	"strings"
)

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// presetParams are the board parameters a preset imposes.
type presetParams struct {
	size       int
	spawn4Prob float64
}

var presets = map[DifficultyPreset]presetParams{
	DifficultyEasy:   {size: 5, spawn4Prob: 0.05},
	DifficultyNormal: {size: 4, spawn4Prob: 0.10},
	DifficultyHard:   {size: 4, spawn4Prob: 0.20},
}

// ParseDifficultyPreset parses a preset name. The empty string means no preset.
func ParseDifficultyPreset(s string) (DifficultyPreset, error) {
	p := DifficultyPreset(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return "", nil
	}
	if _, ok := presets[p]; !ok {
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal or hard)", s)
	}
	return p, nil
}

// ApplyT2048Preset sets the board size and spawn rate for preset. Campaign
// levels keep their relative spawn curve, shifted by the preset's offset
// from the normal rate. An empty preset leaves cfg unchanged.
func ApplyT2048Preset(cfg *T2048Config, preset DifficultyPreset) {
	p, ok := presets[preset]
	if !ok {
		return
	}

	delta := p.spawn4Prob - presets[DifficultyNormal].spawn4Prob
	cfg.Board.Size = p.size
	cfg.Board.Spawn4Prob = p.spawn4Prob
	for i := range cfg.Campaign.Levels {
		cfg.Campaign.Levels[i].Spawn4 = clampF(cfg.Campaign.Levels[i].Spawn4+delta, 0, 1)
	}
}

// clampF restricts a float64 to [lo, hi].
func clampF(val, lo, hi float64) float64 {
	return max(lo, min(hi, val))
}
