// Package grid implements the 2048 grid simulation: tile translation,
// merging, spawning and terminal-state detection on an N×N board.
//
// An Engine owns its board exclusively and is not safe for concurrent use.
// All randomness comes from an injected Source, so a seeded source makes
// every NewGame/Move sequence reproducible.
package grid

import (
	"fmt"
)

// Default engine parameters.
const (
	DefaultSize       = 4
	DefaultTarget     = 2048
	DefaultSpawn4Prob = 0.1
)

// Source is the random capability used for spawning. *math/rand.Rand
// satisfies it.
type Source interface {
	Intn(n int) int
	Float64() float64
}

// Config holds construction-time engine parameters.
type Config struct {
	Size       int     // Board dimension N
	Target     int     // Tile value that sets the won flag
	Spawn4Prob float64 // Probability that a spawned tile is 4 instead of 2
}

// DefaultConfig returns the classic 4x4 game with a 2048 target.
func DefaultConfig() Config {
	return Config{
		Size:       DefaultSize,
		Target:     DefaultTarget,
		Spawn4Prob: DefaultSpawn4Prob,
	}
}

// Validate checks that a game is possible with c.
func (c Config) Validate() error {
	if c.Size < 2 {
		return fmt.Errorf("%w: size %d is below 2", ErrInvalidConfiguration, c.Size)
	}
	if c.Target < 4 || !isPowerOfTwo(c.Target) {
		return fmt.Errorf("%w: target %d is not a power of two >= 4", ErrInvalidConfiguration, c.Target)
	}
	if c.Spawn4Prob < 0 || c.Spawn4Prob > 1 {
		return fmt.Errorf("%w: spawn4 probability %v outside [0,1]", ErrInvalidConfiguration, c.Spawn4Prob)
	}
	return nil
}

// Engine owns one game session: the board, the cumulative score and the
// won/over flags.
type Engine struct {
	cfg   Config
	rng   Source
	board *board
	ids   idAllocator
	score int
	won   bool
	over  bool
}

// New creates an engine with an empty board. Call NewGame to start playing.
func New(cfg Config, rng Source) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidConfiguration)
	}
	return &Engine{
		cfg:   cfg,
		rng:   rng,
		board: newBoard(cfg.Size),
	}, nil
}

// Config returns the engine parameters.
func (e *Engine) Config() Config { return e.cfg }

// Score returns the cumulative score since NewGame.
func (e *Engine) Score() int { return e.score }

// Won reports whether a merge has produced the target value.
func (e *Engine) Won() bool { return e.won }

// Over reports whether no legal move remains.
func (e *Engine) Over() bool { return e.over }

// NewGame clears the board, resets score and flags, and spawns two tiles.
func (e *Engine) NewGame() (Snapshot, error) {
	e.board.clear()
	e.score = 0
	e.won = false
	e.over = false

	for range 2 {
		if _, err := e.spawn(); err != nil {
			return Snapshot{}, err
		}
	}
	e.over = !e.board.movesAvailable()
	return e.Snapshot(), nil
}

// Move slides every tile in dir, merging equal neighbours once per move,
// then spawns one tile if anything changed. After game over it is a no-op.
func (e *Engine) Move(dir Direction) (MoveResult, error) {
	if !dir.Valid() {
		return MoveResult{}, fmt.Errorf("%w: %s", ErrInvalidInput, dir)
	}
	if e.over {
		return e.result(MoveResult{Direction: dir}), nil
	}

	res := MoveResult{Direction: dir}
	vec := dir.Vector()
	xs, ys := traversals(vec, e.cfg.Size)
	merged := make(map[TileID]bool)

	for _, y := range ys {
		for _, x := range xs {
			pos := Position{X: x, Y: y}
			t := e.board.at(pos)
			if t == nil {
				continue
			}

			farthest, next, hasNext := e.board.farthestPosition(pos, vec)
			if hasNext {
				other := e.board.at(next)
				if other != nil && other.Value == t.Value && !merged[other.ID] {
					m := e.merge(t, other)
					merged[m.ID] = true
					res.ScoreGain += m.Value
					if m.Value == e.cfg.Target {
						res.ReachedTarget = true
					}
					res.Moves = append(res.Moves, TileMove{ID: t.ID, From: pos, To: next, Value: t.Value, Merged: true})
					res.Merges = append(res.Merges, Merge{Tile: *m, From: [2]TileID{t.ID, other.ID}})
					continue
				}
			}

			if farthest != pos {
				e.board.moveTo(t, farthest)
				res.Moves = append(res.Moves, TileMove{ID: t.ID, From: pos, To: farthest, Value: t.Value})
			}
		}
	}

	res.Moved = len(res.Moves) > 0 || len(res.Merges) > 0
	if res.Moved {
		spawned, err := e.spawn()
		if err != nil {
			return MoveResult{}, err
		}
		res.Spawned = &spawned
	}

	e.score += res.ScoreGain
	e.won = e.won || res.ReachedTarget
	e.over = !e.board.movesAvailable()
	return e.result(res), nil
}

// merge replaces a and b with a single tile of double value on b's cell.
func (e *Engine) merge(a, b *Tile) *Tile {
	e.board.remove(a)
	e.board.remove(b)
	m := &Tile{
		ID:    e.ids.next(),
		X:     b.X,
		Y:     b.Y,
		Value: a.Value * 2,
	}
	e.board.place(m)
	return m
}

// spawn places a 2 (or a 4 with probability Spawn4Prob) on a uniformly
// chosen empty cell.
func (e *Engine) spawn() (Tile, error) {
	empty := e.board.emptyCells()
	if len(empty) == 0 {
		return Tile{}, fmt.Errorf("%w: spawn on a full board", ErrInvariantViolation)
	}

	cell := empty[e.rng.Intn(len(empty))]
	value := 2
	if e.rng.Float64() < e.cfg.Spawn4Prob {
		value = 4
	}

	t := &Tile{ID: e.ids.next(), X: cell.X, Y: cell.Y, Value: value}
	e.board.place(t)
	return *t, nil
}

// Restore replaces the board with a row-major value grid and sets the
// score. Zero cells are empty. The won flag is cleared and over is
// recomputed. Restored tiles get fresh ids in row-major order.
func (e *Engine) Restore(cells [][]int, score int) error {
	if len(cells) != e.cfg.Size {
		return fmt.Errorf("%w: board has %d rows, want %d", ErrInvalidInput, len(cells), e.cfg.Size)
	}
	for y, row := range cells {
		if len(row) != e.cfg.Size {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidInput, y, len(row), e.cfg.Size)
		}
		for x, v := range row {
			if v != 0 && !isPowerOfTwo(v) {
				return fmt.Errorf("%w: value %d at (%d,%d) is not a power of two", ErrInvalidInput, v, x, y)
			}
		}
	}
	if score < 0 {
		return fmt.Errorf("%w: negative score %d", ErrInvalidInput, score)
	}

	e.board.clear()
	for y, row := range cells {
		for x, v := range row {
			if v == 0 {
				continue
			}
			e.board.place(&Tile{ID: e.ids.next(), X: x, Y: y, Value: v})
		}
	}
	e.score = score
	e.won = false
	e.over = !e.board.movesAvailable()
	return nil
}

// Snapshot returns a copy of the current session state.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Size:   e.cfg.Size,
		Target: e.cfg.Target,
		Tiles:  e.board.tiles(),
		Score:  e.score,
		Won:    e.won,
		Over:   e.over,
	}
}

func (e *Engine) result(res MoveResult) MoveResult {
	res.Tiles = e.board.tiles()
	res.Score = e.score
	res.Won = e.won
	res.Over = e.over
	return res
}
