package t2048

import (
	"github.com/vovakirdan/tui-2048/internal/games/t2048/grid"
)

// Animation lengths in ticks.
const (
	slideAnimationDuration = 8 // ~133ms at 60fps
	popAnimationDuration   = 6 // ~100ms at 60fps
)

// AnimationPhase represents the current phase of animation.
type AnimationPhase int

const (
	PhaseNone AnimationPhase = iota
	PhaseSlide
	PhasePop
)

// slidingTile is a tile drawn between its old and new cell during the
// slide phase.
type slidingTile struct {
	value    int
	from, to grid.Position
}

// animator turns a MoveResult into a slide followed by a pop. Tile ids
// are stable across moves, so tiles that did not move are drawn in place.
type animator struct {
	phase   AnimationPhase
	ticks   int
	sliding []slidingTile
	static  []grid.Tile                // Tiles drawn at rest during the slide
	popped  map[grid.Position]struct{} // Merge results and the spawned tile
}

// start begins animating res. A running animation is replaced.
func (a *animator) start(res grid.MoveResult) {
	fresh := make(map[grid.TileID]bool, len(res.Merges)+1)
	a.popped = make(map[grid.Position]struct{}, len(res.Merges)+1)
	for _, m := range res.Merges {
		fresh[m.Tile.ID] = true
		a.popped[m.Tile.Pos()] = struct{}{}
	}
	if res.Spawned != nil {
		fresh[res.Spawned.ID] = true
		a.popped[res.Spawned.Pos()] = struct{}{}
	}

	moved := make(map[grid.TileID]bool, len(res.Moves))
	a.sliding = a.sliding[:0]
	for _, m := range res.Moves {
		moved[m.ID] = true
		a.sliding = append(a.sliding, slidingTile{value: m.Value, from: m.From, to: m.To})
	}

	a.static = a.static[:0]
	for _, t := range res.Tiles {
		if !fresh[t.ID] && !moved[t.ID] {
			a.static = append(a.static, t)
		}
	}

	a.phase = PhaseSlide
	a.ticks = 0
}

// update advances the animation by one tick.
func (a *animator) update() {
	if a.phase == PhaseNone {
		return
	}
	a.ticks++

	switch a.phase {
	case PhaseSlide:
		if a.ticks >= slideAnimationDuration {
			a.phase = PhasePop
			a.ticks = 0
		}
	case PhasePop:
		if a.ticks >= popAnimationDuration {
			*a = animator{}
		}
	}
}

// progress returns how far the current phase has run, in [0,1].
func (a *animator) progress() float64 {
	var duration int
	switch a.phase {
	case PhaseSlide:
		duration = slideAnimationDuration
	case PhasePop:
		duration = popAnimationDuration
	default:
		return 1
	}
	p := float64(a.ticks) / float64(duration)
	if p > 1 {
		p = 1
	}
	return p
}

// isPopping reports whether the tile at p is highlighted in the pop phase.
func (a *animator) isPopping(p grid.Position) bool {
	if a.phase != PhasePop {
		return false
	}
	_, ok := a.popped[p]
	return ok
}

// easeOutQuad provides smooth deceleration for animation.
func easeOutQuad(t float64) float64 {
	return t * (2 - t)
}

// position returns the current fractional cell position of s.
func (s slidingTile) position(progress float64) (x, y float64) {
	t := easeOutQuad(progress)
	x = float64(s.from.X) + float64(s.to.X-s.from.X)*t
	y = float64(s.from.Y) + float64(s.to.Y-s.from.Y)*t
	return x, y
}
