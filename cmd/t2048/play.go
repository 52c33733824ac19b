package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/registry"
)

var flagLevel int

var playCmd = &cobra.Command{
	Use:   "play [game]",
	Short: "Play 2048",
	Long: `Start playing. The campaign (2048) is the default and shows the
level selector unless --level is given.

Controls:
  Arrows/WASD/hjkl - Slide tiles
  P                - Pause
  R                - Restart (after game over)
  C                - Claim the reward
  B/Esc            - Back (when paused or over)
  Ctrl+S           - Save a screenshot
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - 5x5 board, fewer 4s
  normal - 4x4 board
  hard   - 4x4 board, more 4s

Examples:
  t2048 play
  t2048 play 2048 --level 3
  t2048 play 2048_endless --difficulty hard
  t2048 play --config ./my-2048.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagLevel, "level", 0, "Campaign level to start from (1-based, skips the selector)")
}

func runPlay(_ *cobra.Command, args []string) {
	cfg := runtimeConfig()

	gameID := t2048.IDCampaign
	if len(args) == 1 {
		gameID = args[0]
	}

	// Check if game exists
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 't2048 list' to see available games.")
		os.Exit(1)
	}

	level := flagLevel
	if gameID == t2048.IDCampaign && level == 0 {
		// Show the campaign level selector
		selected, updatedCfg, selErr := tui.RunLevelSelect(cfg)
		if selErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", selErr)
			os.Exit(1)
		}
		cfg = updatedCfg

		// User pressed back or quit
		if selected == 0 {
			return
		}
		level = selected
	}

	game, err := tui.CreateGame(gameID, level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	store := openStore()
	tracker := newTracker(store)

	// Run the game
	_, runErr := tui.Run(game, store, tracker, cfg, localClaimant())

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
