package board

import "errors"

// Sentinel errors returned by position construction and the text adapters.
// Use errors.Is to test for them; callers receive them wrapped with context.
var (
	// ErrInvalidSquare indicates a malformed algebraic square.
	ErrInvalidSquare = errors.New("invalid square")

	// ErrInvalidFEN indicates a malformed FEN string.
	ErrInvalidFEN = errors.New("invalid FEN string")

	// ErrInvalidSetup indicates a board description that cannot be a legal position.
	ErrInvalidSetup = errors.New("invalid position setup")

	// ErrInvalidMove indicates move text that does not describe a move in the position.
	ErrInvalidMove = errors.New("invalid move")
)
