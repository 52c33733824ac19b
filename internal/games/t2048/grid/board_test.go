package grid

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func boardFrom(cells [][]int) *board {
	b := newBoard(len(cells))
	var ids idAllocator
	for y, row := range cells {
		for x, v := range row {
			if v != 0 {
				b.place(&Tile{ID: ids.next(), X: x, Y: y, Value: v})
			}
		}
	}
	return b
}

func TestFarthestPosition(t *testing.T) {
	b := boardFrom([][]int{
		{0, 0, 2, 0},
		{0, 0, 0, 0},
		{4, 0, 0, 0},
		{0, 0, 0, 0},
	})

	tests := []struct {
		name     string
		from     Position
		dir      Direction
		farthest Position
		next     Position
		hasNext  bool
	}{
		{"slide to wall", Position{2, 0}, Right, Position{3, 0}, Position{4, 0}, false},
		{"blocked by tile", Position{3, 2}, Left, Position{1, 2}, Position{0, 2}, true},
		{"already at wall", Position{2, 0}, Up, Position{2, 0}, Position{2, -1}, false},
		{"down the column", Position{0, 2}, Down, Position{0, 3}, Position{0, 4}, false},
		{"up into tile", Position{2, 3}, Up, Position{2, 1}, Position{2, 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			farthest, next, hasNext := b.farthestPosition(tt.from, tt.dir.Vector())
			if farthest != tt.farthest || next != tt.next || hasNext != tt.hasNext {
				t.Errorf("farthestPosition(%v, %s) = %v, %v, %v, want %v, %v, %v",
					tt.from, tt.dir, farthest, next, hasNext, tt.farthest, tt.next, tt.hasNext)
			}
		})
	}
}

func TestTraversals(t *testing.T) {
	tests := []struct {
		dir    Direction
		wantXs []int
		wantYs []int
	}{
		{Up, []int{0, 1, 2, 3}, []int{0, 1, 2, 3}},
		{Right, []int{3, 2, 1, 0}, []int{0, 1, 2, 3}},
		{Down, []int{0, 1, 2, 3}, []int{3, 2, 1, 0}},
		{Left, []int{0, 1, 2, 3}, []int{0, 1, 2, 3}},
	}

	for _, tt := range tests {
		xs, ys := traversals(tt.dir.Vector(), 4)
		if !reflect.DeepEqual(xs, tt.wantXs) || !reflect.DeepEqual(ys, tt.wantYs) {
			t.Errorf("traversals(%s) = %v, %v, want %v, %v", tt.dir, xs, ys, tt.wantXs, tt.wantYs)
		}
	}
}

func TestMovesAvailable(t *testing.T) {
	tests := []struct {
		name  string
		cells [][]int
		want  bool
	}{
		{"empty board", [][]int{{0, 0}, {0, 0}}, true},
		{"one gap", [][]int{{2, 4}, {4, 0}}, true},
		{"horizontal pair", [][]int{{2, 2}, {4, 8}}, true},
		{"vertical pair", [][]int{{2, 4}, {2, 8}}, true},
		{"pair in last row", [][]int{{2, 4, 2}, {4, 2, 4}, {8, 16, 16}}, true},
		{"locked", [][]int{{2, 4}, {4, 2}}, false},
		{"locked 3x3", [][]int{{2, 4, 2}, {4, 2, 4}, {2, 4, 2}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := boardFrom(tt.cells).movesAvailable(); got != tt.want {
				t.Errorf("movesAvailable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEmptyCellsRowMajor(t *testing.T) {
	b := boardFrom([][]int{
		{2, 0, 0},
		{0, 4, 0},
		{0, 0, 8},
	})

	want := []Position{{1, 0}, {2, 0}, {0, 1}, {2, 1}, {0, 2}, {1, 2}}
	if got := b.emptyCells(); !reflect.DeepEqual(got, want) {
		t.Errorf("emptyCells() = %v, want %v", got, want)
	}
	if b.count() != 3 {
		t.Errorf("count() = %d, want 3", b.count())
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in   string
		want Direction
	}{
		{"up", Up},
		{"U", Up},
		{"Right", Right},
		{"r", Right},
		{" down ", Down},
		{"d", Down},
		{"LEFT", Left},
		{"l", Left},
	}

	for _, tt := range tests {
		got, err := ParseDirection(tt.in)
		if err != nil {
			t.Errorf("ParseDirection(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDirection(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "north", "x", "upp"} {
		if _, err := ParseDirection(bad); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("ParseDirection(%q) error = %v, want ErrInvalidInput", bad, err)
		}
	}
}

func TestDirectionVectors(t *testing.T) {
	want := map[Direction]Vector{
		Up:    {0, -1},
		Right: {1, 0},
		Down:  {0, 1},
		Left:  {-1, 0},
	}
	for dir, v := range want {
		if got := dir.Vector(); got != v {
			t.Errorf("%s.Vector() = %v, want %v", dir, got, v)
		}
	}
	if Direction(-1).Valid() || Direction(4).Valid() {
		t.Error("out-of-range directions should be invalid")
	}
}

func TestSnapshotHelpers(t *testing.T) {
	snap := Snapshot{
		Size: 2,
		Tiles: []Tile{
			{ID: 1, X: 0, Y: 0, Value: 2},
			{ID: 2, X: 1, Y: 1, Value: 128},
		},
	}

	if got, want := snap.Cells(), [][]int{{2, 0}, {0, 128}}; !reflect.DeepEqual(got, want) {
		t.Errorf("Cells() = %v, want %v", got, want)
	}
	if snap.MaxTile() != 128 {
		t.Errorf("MaxTile() = %d, want 128", snap.MaxTile())
	}
	if s := snap.String(); !strings.Contains(s, "128") || strings.Count(s, "\n") < 2 {
		t.Errorf("String() = %q, want a grid containing 128", s)
	}
}
