package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/games/t2048/grid"
)

var (
	flagSimMoves   string
	flagSimFormat  string
	flagSimVerbose bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Replay a move sequence without a terminal",
	Long: `Run the engine headlessly. The same seed and moves always give
the same board.

Moves are letters (u, r, d, l) or words (up, right, down, left)
separated by commas or spaces.

Examples:
  t2048 sim --seed 42 --moves lldru
  t2048 sim --seed 42 --moves "left,left,up" --format json
  t2048 sim --seed 7 --moves urdl --verbose`,
	RunE: runSim,
}

func init() {
	simCmd.Flags().StringVar(&flagSimMoves, "moves", "", "Moves to apply")
	simCmd.Flags().StringVar(&flagSimFormat, "format", "text", "Output format: text or json")
	simCmd.Flags().BoolVarP(&flagSimVerbose, "verbose", "v", false, "Print the board after every move (text only)")
}

// simStep records one applied move.
type simStep struct {
	Direction string `json:"direction"`
	Moved     bool   `json:"moved"`
	ScoreGain int    `json:"score_gain"`
	Score     int    `json:"score"`
	board     string
}

// simReport is the outcome of a replay.
type simReport struct {
	Seed    int64         `json:"seed"`
	Steps   []simStep     `json:"steps"`
	Final   grid.Snapshot `json:"final"`
	Board   [][]int       `json:"board"`
	MaxTile int           `json:"max_tile"`
	Initial string        `json:"-"`
}

// parseMoves splits a move string into directions.
func parseMoves(s string) ([]grid.Direction, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var tokens []string
	if strings.ContainsAny(s, ", ") {
		tokens = strings.FieldsFunc(s, func(r rune) bool {
			return r == ',' || unicode.IsSpace(r)
		})
	} else {
		for _, r := range s {
			tokens = append(tokens, string(r))
		}
	}

	dirs := make([]grid.Direction, 0, len(tokens))
	for _, tok := range tokens {
		d, err := grid.ParseDirection(tok)
		if err != nil {
			return nil, err
		}
		dirs = append(dirs, d)
	}
	return dirs, nil
}

// simulate plays moves on a fresh engine seeded with seed.
func simulate(cfg grid.Config, seed int64, moves []grid.Direction) (simReport, error) {
	engine, err := grid.New(cfg, rand.New(rand.NewSource(seed)))
	if err != nil {
		return simReport{}, err
	}
	initial, err := engine.NewGame()
	if err != nil {
		return simReport{}, err
	}

	report := simReport{Seed: seed, Initial: initial.String(), Steps: []simStep{}}
	for _, dir := range moves {
		if engine.Over() {
			break
		}
		res, err := engine.Move(dir)
		if err != nil {
			return simReport{}, err
		}
		report.Steps = append(report.Steps, simStep{
			Direction: dir.String(),
			Moved:     res.Moved,
			ScoreGain: res.ScoreGain,
			Score:     res.Score,
			board:     engine.Snapshot().String(),
		})
	}

	report.Final = engine.Snapshot()
	report.Board = report.Final.Cells()
	report.MaxTile = report.Final.MaxTile()
	return report, nil
}

func runSim(_ *cobra.Command, _ []string) error {
	moves, err := parseMoves(flagSimMoves)
	if err != nil {
		return err
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	report, err := simulate(appConfig.EngineConfig(), seed, moves)
	if err != nil {
		return err
	}

	switch flagSimFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "text":
		writeSimText(os.Stdout, report, flagSimVerbose)
		return nil
	default:
		return fmt.Errorf("unknown --format %q (want text or json)", flagSimFormat)
	}
}

// writeSimText prints a human-readable replay.
func writeSimText(w io.Writer, report simReport, verbose bool) {
	fmt.Fprintf(w, "Seed: %d\n", report.Seed)
	if verbose {
		fmt.Fprintln(w, "Start:")
		fmt.Fprint(w, report.Initial)
		for i, step := range report.Steps {
			fmt.Fprintf(w, "\n%d. %s (+%d, moved=%t)\n", i+1, step.Direction, step.ScoreGain, step.Moved)
			fmt.Fprint(w, step.board)
		}
		fmt.Fprintln(w)
	}

	applied := 0
	for _, step := range report.Steps {
		if step.Moved {
			applied++
		}
	}

	status := "playing"
	switch {
	case report.Final.Over:
		status = "game over"
	case report.Final.Won:
		status = "won"
	}

	fmt.Fprintln(w, "Final:")
	fmt.Fprint(w, report.Final.String())
	fmt.Fprintf(w, "Moves: %d (%d changed the board)\n", len(report.Steps), applied)
	fmt.Fprintf(w, "Score: %d  Max tile: %d  Status: %s\n", report.Final.Score, report.MaxTile, status)
}
