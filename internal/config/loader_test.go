package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/vovakirdan/tui-2048/internal/games/t2048/grid"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "t2048.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	return path
}

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := parseT2048(defaultT2048YAML)
	if err != nil {
		t.Fatalf("embedded default does not parse: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultT2048Config()) {
		t.Errorf("embedded default = %+v, want %+v", cfg, DefaultT2048Config())
	}
}

func TestLoadT2048Fallback(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadT2048("")
	if err != nil {
		t.Fatalf("LoadT2048() failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultT2048Config()) {
		t.Errorf("LoadT2048() = %+v, want defaults", cfg)
	}
}

func TestLoadT2048UserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".t2048", "configs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll() failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "t2048.yaml"), []byte("board:\n  size: 6\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	cfg, err := LoadT2048("")
	if err != nil {
		t.Fatalf("LoadT2048() failed: %v", err)
	}
	if cfg.Board.Size != 6 {
		t.Errorf("Board.Size = %d, want 6", cfg.Board.Size)
	}
}

func TestLoadT2048CustomPath(t *testing.T) {
	path := writeConfig(t, `
board:
  size: 5
  target: 4096
campaign:
  levels:
    - { name: "Only", target: 64, spawn4: 0.5 }
reward:
  threshold: 1000
`)

	cfg, err := LoadT2048(path)
	if err != nil {
		t.Fatalf("LoadT2048() failed: %v", err)
	}

	if cfg.Board.Size != 5 || cfg.Board.Target != 4096 {
		t.Errorf("Board = %+v, want size 5 target 4096", cfg.Board)
	}
	if cfg.Board.Spawn4Prob != grid.DefaultSpawn4Prob {
		t.Errorf("Spawn4Prob = %v, want default %v for an unset key", cfg.Board.Spawn4Prob, grid.DefaultSpawn4Prob)
	}
	if len(cfg.Campaign.Levels) != 1 || cfg.Campaign.Levels[0].Target != 64 {
		t.Errorf("Levels = %+v, want the single custom level", cfg.Campaign.Levels)
	}
	if cfg.Reward.Threshold != 1000 {
		t.Errorf("Reward.Threshold = %d, want 1000", cfg.Reward.Threshold)
	}
}

func TestLoadT2048Errors(t *testing.T) {
	if _, err := LoadT2048(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing custom config should fail")
	}

	if _, err := LoadT2048(writeConfig(t, "board: [not, a, map]")); err == nil {
		t.Error("malformed YAML should fail")
	}

	_, err := LoadT2048(writeConfig(t, "board:\n  target: 1000\n"))
	if !errors.Is(err, grid.ErrInvalidConfiguration) {
		t.Errorf("non power-of-two target error = %v, want ErrInvalidConfiguration", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*T2048Config)
		ok     bool
	}{
		{"defaults", func(*T2048Config) {}, true},
		{"board too small", func(c *T2048Config) { c.Board.Size = 1 }, false},
		{"bad level target", func(c *T2048Config) { c.Campaign.Levels[2].Target = 100 }, false},
		{"bad level spawn", func(c *T2048Config) { c.Campaign.Levels[0].Spawn4 = -0.1 }, false},
		{"zero threshold", func(c *T2048Config) { c.Reward.Threshold = 0 }, false},
		{"no campaign", func(c *T2048Config) { c.Campaign.Levels = nil }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultT2048Config()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestApplyT2048Preset(t *testing.T) {
	tests := []struct {
		preset     DifficultyPreset
		size       int
		spawn      float64
		firstLevel float64
	}{
		{DifficultyEasy, 5, 0.05, 0.05},
		{DifficultyNormal, 4, 0.10, 0.10},
		{DifficultyHard, 4, 0.20, 0.20},
	}

	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			cfg := DefaultT2048Config()
			ApplyT2048Preset(&cfg, tt.preset)

			if cfg.Board.Size != tt.size {
				t.Errorf("Board.Size = %d, want %d", cfg.Board.Size, tt.size)
			}
			if !approxEqual(cfg.Board.Spawn4Prob, tt.spawn) {
				t.Errorf("Spawn4Prob = %v, want %v", cfg.Board.Spawn4Prob, tt.spawn)
			}
			if !approxEqual(cfg.Campaign.Levels[0].Spawn4, tt.firstLevel) {
				t.Errorf("level 1 Spawn4 = %v, want %v", cfg.Campaign.Levels[0].Spawn4, tt.firstLevel)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("preset produced invalid config: %v", err)
			}
		})
	}

	cfg := DefaultT2048Config()
	ApplyT2048Preset(&cfg, "")
	if !reflect.DeepEqual(cfg, DefaultT2048Config()) {
		t.Error("empty preset should leave the config unchanged")
	}
}

func TestParseDifficultyPreset(t *testing.T) {
	tests := []struct {
		in   string
		want DifficultyPreset
		ok   bool
	}{
		{"", "", true},
		{"easy", DifficultyEasy, true},
		{"HARD", DifficultyHard, true},
		{" normal ", DifficultyNormal, true},
		{"fixed", "", false},
	}

	for _, tt := range tests {
		got, err := ParseDifficultyPreset(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseDifficultyPreset(%q) = %q, %v, want %q ok=%v", tt.in, got, err, tt.want, tt.ok)
		}
	}
}

func approxEqual(a, b float64) bool {
	const eps = 1e-9
	return a-b < eps && b-a < eps
}
