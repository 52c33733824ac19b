package grid

import "sort"

// board is the mutable tile store behind an Engine. Cells are row-major
// and nil when empty, so a coordinate holds at most one tile.
type board struct {
	size  int
	cells []*Tile
}

func newBoard(size int) *board {
	return &board{
		size:  size,
		cells: make([]*Tile, size*size),
	}
}

func (b *board) index(p Position) int {
	return p.Y*b.size + p.X
}

// inBounds reports whether p lies within [0,size) on both axes.
func (b *board) inBounds(p Position) bool {
	return p.X >= 0 && p.X < b.size && p.Y >= 0 && p.Y < b.size
}

// at returns the tile at p, or nil for an empty or out-of-bounds cell.
func (b *board) at(p Position) *Tile {
	if !b.inBounds(p) {
		return nil
	}
	return b.cells[b.index(p)]
}

func (b *board) place(t *Tile) {
	b.cells[b.index(t.Pos())] = t
}

func (b *board) remove(t *Tile) {
	i := b.index(t.Pos())
	if b.cells[i] == t {
		b.cells[i] = nil
	}
}

// moveTo relocates t to p. The destination must be empty.
func (b *board) moveTo(t *Tile, p Position) {
	b.remove(t)
	t.X, t.Y = p.X, p.Y
	b.place(t)
}

func (b *board) clear() {
	for i := range b.cells {
		b.cells[i] = nil
	}
}

// emptyCells returns all free coordinates, y outer and x inner.
func (b *board) emptyCells() []Position {
	var cells []Position
	for y := range b.size {
		for x := range b.size {
			if b.cells[y*b.size+x] == nil {
				cells = append(cells, Position{X: x, Y: y})
			}
		}
	}
	return cells
}

func (b *board) count() int {
	n := 0
	for _, t := range b.cells {
		if t != nil {
			n++
		}
	}
	return n
}

// tiles returns copies of all live tiles ordered by id.
func (b *board) tiles() []Tile {
	out := make([]Tile, 0, len(b.cells))
	for _, t := range b.cells {
		if t != nil {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}

// farthestPosition walks from p along v while the next cell is in bounds
// and empty. It returns the last free cell reached and the first cell
// beyond it; hasNext is false when that cell is outside the board.
func (b *board) farthestPosition(p Position, v Vector) (farthest, next Position, hasNext bool) {
	farthest = p
	next = p.Add(v)
	for b.inBounds(next) && b.at(next) == nil {
		farthest = next
		next = next.Add(v)
	}
	return farthest, next, b.inBounds(next)
}

// movesAvailable reports whether any empty cell or any pair of
// axis-adjacent equal tiles exists. It always scans the whole board.
func (b *board) movesAvailable() bool {
	for y := range b.size {
		for x := range b.size {
			t := b.cells[y*b.size+x]
			if t == nil {
				return true
			}
			for _, d := range Directions {
				n := b.at(Position{X: x, Y: y}.Add(d.Vector()))
				if n != nil && n.Value == t.Value {
					return true
				}
			}
		}
	}
	return false
}

// traversals returns the x and y visit orders for a move along v, so that
// cells farthest in the direction of travel come first.
func traversals(v Vector, size int) (xs, ys []int) {
	xs = make([]int, size)
	ys = make([]int, size)
	for i := range size {
		xs[i] = i
		ys[i] = i
	}
	if v.DX == 1 {
		reverse(xs)
	}
	if v.DY == 1 {
		reverse(ys)
	}
	return xs, ys
}

func reverse(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
