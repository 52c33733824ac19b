// t2048 is a terminal 2048 with campaign levels, an endless mode and a
// reward for high scores.
//
// Usage:
//
//	t2048 list              - List available modes
//	t2048 play [game]       - Play campaign (2048) or endless (2048_endless)
//	t2048 menu              - Start menu to pick a mode interactively
//	t2048 scores [game]     - Show high scores
//	t2048 serve             - Start SSH server for remote play
//	t2048 web               - Start HTTP/WebSocket server for browsers
//	t2048 mcp               - Serve the game to MCP clients over stdio
//	t2048 sim               - Replay a move sequence headlessly
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.t2048/scores.db)
//	--config <path>       - Use a custom YAML config
//	--difficulty <name>   - Apply a preset: easy, normal, hard
//	--log-level <level>   - Server log level (debug, info, warn, error)
package main

import (
	"fmt"
	"os"
	"os/user"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/reward"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string

	// appConfig is the loaded configuration with the preset applied.
	appConfig config.T2048Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "t2048",
	Short: "2048 - Slide and merge tiles in your terminal",
	Long: `2048 is a sliding-tile puzzle for the terminal. Merge equal tiles
to reach the target, clear the campaign or keep going in endless mode.

Available commands:
  list     - Show available game modes
  play     - Play a mode directly
  menu     - Interactive menu
  scores   - View high scores
  serve    - Start SSH server for remote play
  web      - Start HTTP/WebSocket server
  mcp      - Serve the game over MCP (stdio)
  sim      - Replay moves without a terminal

Examples:
  t2048 play
  t2048 play 2048_endless --difficulty easy
  t2048 menu
  t2048 serve --ssh :2222
  t2048 web --addr :8080
  t2048 sim --seed 7 --moves lurd`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.t2048/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(simCmd)
}

// setup loads the configuration shared by every command.
func setup(_ *cobra.Command, _ []string) error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	log.SetLevel(level)

	cfg, err := config.LoadT2048(flagConfig)
	if err != nil {
		return err
	}
	preset, err := config.ParseDifficultyPreset(flagDifficulty)
	if err != nil {
		return err
	}
	config.ApplyT2048Preset(&cfg, preset)
	if err := cfg.Validate(); err != nil {
		return err
	}

	appConfig = cfg
	t2048.Configure(cfg)
	return nil
}

// newLogger creates a server logger writing to stderr.
func newLogger(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           log.GetLevel(),
	})
}

// runtimeConfig sizes the game to the current terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// openStore opens the scores database, or returns nil with a warning.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
		return nil
	}
	return store
}

// newTracker builds the reward tracker. Without a store claims are
// checked but not recorded.
func newTracker(store *storage.Store) *reward.Tracker {
	var claims reward.ClaimStore
	if store != nil {
		claims = store
	}
	return reward.NewTracker(appConfig.Reward.Threshold, claims)
}

// localClaimant identifies the local player for reward claims.
func localClaimant() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return "local:" + u.Username
	}
	return "local"
}
