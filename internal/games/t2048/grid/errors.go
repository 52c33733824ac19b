package grid

import "errors"

var (
	// ErrInvalidInput is returned for an unknown direction or a malformed board.
	ErrInvalidInput = errors.New("grid: invalid input")

	// ErrInvalidConfiguration is returned when an engine cannot be built from a Config.
	ErrInvalidConfiguration = errors.New("grid: invalid configuration")

	// ErrInvariantViolation signals a broken engine invariant, such as a
	// spawn on a board with no empty cell. It should never surface in play.
	ErrInvariantViolation = errors.New("grid: invariant violation")
)
