package board

import "sync"

// ZobristKeys holds the random keys used for position hashing.
// Uses PRNG with fixed seed for reproducibility.
type ZobristKeys struct {
	piece      [12][BoardSize]uint64 // [Piece][Square]
	enPassant  [8]uint64             // One per file
	castling   [16]uint64            // XOR of the single-flag keys of each combination
	sideToMove uint64                // XOR when black to move
}

// Simple PRNG for reproducible Zobrist keys
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func newZobristKeys(seed uint64) *ZobristKeys {
	z := &ZobristKeys{}
	rng := newPRNG(seed)

	for p := WhitePawn; p < NoPiece; p++ {
		for i := 0; i < 64; i++ {
			z.piece[p][SquareFrom64(i)] = rng.next()
		}
	}

	for file := 0; file < 8; file++ {
		z.enPassant[file] = rng.next()
	}

	// Combinations are linear in the flags, so replacing rights a by b
	// is a single XOR with castling[a^b].
	var flags [4]uint64
	for i := range flags {
		flags[i] = rng.next()
	}
	for cr := 0; cr < 16; cr++ {
		for i := range flags {
			if cr&(1<<i) != 0 {
				z.castling[cr] ^= flags[i]
			}
		}
	}

	z.sideToMove = rng.next()

	return z
}

// Piece returns the key for a piece on a square.
func (z *ZobristKeys) Piece(p Piece, sq Square) uint64 {
	return z.piece[p][sq]
}

// EnPassant returns the key for an en passant file.
func (z *ZobristKeys) EnPassant(file int) uint64 {
	return z.enPassant[file]
}

// Castling returns the key for a set of castling rights.
func (z *ZobristKeys) Castling(cr CastlingRights) uint64 {
	return z.castling[cr]
}

// SideToMove returns the key XORed in when black is to move.
func (z *ZobristKeys) SideToMove() uint64 {
	return z.sideToMove
}

// Tables bundles the immutable lookup tables shared by every position.
type Tables struct {
	Geometry *Geometry
	Zobrist  *ZobristKeys
}

// DefaultSeed seeds the zobrist generator of DefaultTables.
const DefaultSeed uint64 = 0x98F107A2BEEF1234

// NewTables builds geometry and zobrist tables with the given seed.
func NewTables(seed uint64) *Tables {
	return &Tables{
		Geometry: newGeometry(),
		Zobrist:  newZobristKeys(seed),
	}
}

var defaultTables = sync.OnceValue(func() *Tables {
	return NewTables(DefaultSeed)
})

// DefaultTables returns the process-wide tables, built on first use.
func DefaultTables() *Tables {
	return defaultTables()
}
