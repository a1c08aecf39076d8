// Package board implements the 0x88 chess position: squares, pieces, moves,
// incremental hashing and attack detection.
package board

import "fmt"

// Square represents a square on the 0x88 board (file + 16*rank).
// A1=0x00, H1=0x07, A8=0x70, H8=0x77. Any index with a bit of 0x88 set
// lies off the board.
type Square uint8

// Square constants for all 64 squares.
const (
	A1 Square = 0x00 + iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
)

const (
	A2 Square = 0x10 + iota
	B2
	C2
	D2
	E2
	F2
	G2
	H2
)

const (
	A3 Square = 0x20 + iota
	B3
	C3
	D3
	E3
	F3
	G3
	H3
)

const (
	A4 Square = 0x30 + iota
	B4
	C4
	D4
	E4
	F4
	G4
	H4
)

const (
	A5 Square = 0x40 + iota
	B5
	C5
	D5
	E5
	F5
	G5
	H5
)

const (
	A6 Square = 0x50 + iota
	B6
	C6
	D6
	E6
	F6
	G6
	H6
)

const (
	A7 Square = 0x60 + iota
	B7
	C7
	D7
	E7
	F7
	G7
	H7
)

const (
	A8 Square = 0x70 + iota
	B8
	C8
	D8
	E8
	F8
	G8
	H8
)

// NoSquare is the sentinel for "no square". It fits the 7 bit move field.
const NoSquare Square = 0x7F

// BoardSize is the number of slots on the 0x88 board.
const BoardSize = 128

// Direction steps on the 0x88 board.
const (
	North     = 16
	South     = -16
	East      = 1
	West      = -1
	NorthEast = 17
	NorthWest = 15
	SouthEast = -15
	SouthWest = -17
)

// Move deltas per piece kind.
var (
	KnightDeltas = []int{-33, -31, -18, -14, 14, 18, 31, 33}
	BishopDeltas = []int{SouthWest, SouthEast, NorthWest, NorthEast}
	RookDeltas   = []int{South, West, East, North}
	QueenDeltas  = []int{SouthWest, South, SouthEast, West, East, NorthWest, North, NorthEast}
	KingDeltas   = QueenDeltas
)

// File returns the file (column) of the square (0-7, where 0=a, 7=h).
func (sq Square) File() int {
	return int(sq) & 7
}

// Rank returns the rank (row) of the square (0-7, where 0=1, 7=8).
func (sq Square) Rank() int {
	return int(sq) >> 4
}

// IsValid returns true if the square lies on the board.
func (sq Square) IsValid() bool {
	return sq&0x88 == 0
}

// Index64 returns the dense 0-63 index used for occupancy masks.
func (sq Square) Index64() int {
	return int(sq>>4)<<3 | int(sq&7)
}

// SquareFrom64 converts a dense 0-63 index back to a 0x88 square.
func SquareFrom64(i int) Square {
	return Square(i + (i &^ 7))
}

// Add returns the square reached by stepping delta, which may be off the board.
func (sq Square) Add(delta int) Square {
	return Square(int(sq) + delta)
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if !sq.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.File(), '1'+sq.Rank())
}

// NewSquare creates a square from file and rank (0-indexed).
func NewSquare(file, rank int) Square {
	return Square(rank<<4 | file)
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square %q: %w", s, ErrInvalidSquare)
	}

	file := int(s[0]) - 'a'
	rank := int(s[1]) - '1'

	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare, fmt.Errorf("invalid square %q: %w", s, ErrInvalidSquare)
	}

	return NewSquare(file, rank), nil
}

// RelativeRank returns the rank from a given color's perspective.
func (sq Square) RelativeRank(c Color) int {
	if c == White {
		return sq.Rank()
	}
	return 7 - sq.Rank()
}
