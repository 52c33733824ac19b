package grid

import (
	"fmt"
	"strings"
)

// TileMove records a tile that changed cell during a move. Merged tiles
// end on the cell of the tile they merged into.
type TileMove struct {
	ID     TileID   `json:"id"`
	From   Position `json:"from"`
	To     Position `json:"to"`
	Value  int      `json:"value"`
	Merged bool     `json:"merged"`
}

// Merge records a tile created by merging two tiles.
type Merge struct {
	Tile Tile      `json:"tile"`
	From [2]TileID `json:"from"`
}

// MoveResult is the outcome of a single Move call.
type MoveResult struct {
	Direction     Direction  `json:"-"`
	Tiles         []Tile     `json:"tiles"`
	Moved         bool       `json:"moved"`
	ScoreGain     int        `json:"score_gain"`
	Score         int        `json:"score"`
	ReachedTarget bool       `json:"reached_target"`
	Won           bool       `json:"won"`
	Over          bool       `json:"over"`
	Moves         []TileMove `json:"moves,omitempty"`
	Merges        []Merge    `json:"merges,omitempty"`
	Spawned       *Tile      `json:"spawned,omitempty"`
}

// Snapshot is a read-only copy of the session state.
type Snapshot struct {
	Size   int    `json:"size"`
	Target int    `json:"target"`
	Tiles  []Tile `json:"tiles"`
	Score  int    `json:"score"`
	Won    bool   `json:"won"`
	Over   bool   `json:"over"`
}

// Cells returns the board as a row-major value grid, 0 for empty cells.
func (s Snapshot) Cells() [][]int {
	cells := make([][]int, s.Size)
	for y := range cells {
		cells[y] = make([]int, s.Size)
	}
	for _, t := range s.Tiles {
		cells[t.Y][t.X] = t.Value
	}
	return cells
}

// MaxTile returns the highest tile value, or 0 on an empty board.
func (s Snapshot) MaxTile() int {
	maxVal := 0
	for _, t := range s.Tiles {
		if t.Value > maxVal {
			maxVal = t.Value
		}
	}
	return maxVal
}

// String renders the board as ASCII art.
func (s Snapshot) String() string {
	const cellW = 6
	line := "+" + strings.Repeat(strings.Repeat("-", cellW)+"+", s.Size)

	var b strings.Builder
	b.WriteString(line)
	b.WriteByte('\n')
	for _, row := range s.Cells() {
		b.WriteByte('|')
		for _, v := range row {
			if v == 0 {
				b.WriteString(strings.Repeat(" ", cellW))
			} else {
				fmt.Fprintf(&b, "%*d ", cellW-1, v)
			}
			b.WriteByte('|')
		}
		b.WriteByte('\n')
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
