package grid

import (
	"fmt"
	"strings"
)

// Direction is a move direction.
type Direction int

const (
	Up Direction = iota
	Right
	Down
	Left
)

// Directions lists all valid directions in clockwise order.
var Directions = []Direction{Up, Right, Down, Left}

// Vector is the unit offset of a direction.
type Vector struct {
	DX, DY int
}

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool {
	return d >= Up && d <= Left
}

// Vector returns the unit offset for d. Invalid directions map to the zero vector.
func (d Direction) Vector() Vector {
	switch d {
	case Up:
		return Vector{0, -1}
	case Right:
		return Vector{1, 0}
	case Down:
		return Vector{0, 1}
	case Left:
		return Vector{-1, 0}
	default:
		return Vector{}
	}
}

// String returns the lowercase direction name.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// ParseDirection parses "up", "right", "down", "left" or their first letter.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u":
		return Up, nil
	case "right", "r":
		return Right, nil
	case "down", "d":
		return Down, nil
	case "left", "l":
		return Left, nil
	}
	return 0, fmt.Errorf("%w: unknown direction %q", ErrInvalidInput, s)
}
