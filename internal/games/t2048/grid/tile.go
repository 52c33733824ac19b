package grid

// TileID identifies a tile for its whole lifetime. IDs are never reused
// within one engine.
type TileID uint64

// Position is a cell coordinate, x to the right and y downwards.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p shifted by v.
func (p Position) Add(v Vector) Position {
	return Position{X: p.X + v.DX, Y: p.Y + v.DY}
}

// Tile is a numbered tile on the board.
type Tile struct {
	ID    TileID `json:"id"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Value int    `json:"value"`
}

// Pos returns the tile coordinate.
func (t Tile) Pos() Position {
	return Position{X: t.X, Y: t.Y}
}

// idAllocator hands out tile ids. Every tile creation calls next exactly once.
type idAllocator struct {
	last TileID
}

func (a *idAllocator) next() TileID {
	a.last++
	return a.last
}

// isPowerOfTwo reports whether v is 2, 4, 8, ...
func isPowerOfTwo(v int) bool {
	return v >= 2 && v&(v-1) == 0
}
