package board

import (
	"fmt"
	"strings"
)

// MaxGameLength bounds the number of moves that can be made on a position.
const MaxGameLength = 4096

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// CanCastle returns true if the given side can castle in the given direction.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	if c == White {
		if kingSide {
			return cr&WhiteKingSideCastle != 0
		}
		return cr&WhiteQueenSideCastle != 0
	}
	if kingSide {
		return cr&BlackKingSideCastle != 0
	}
	return cr&BlackQueenSideCastle != 0
}

// castlingLoss holds the rights lost when a piece leaves or enters a square.
var castlingLoss = func() (t [BoardSize]CastlingRights) {
	t[A1] = WhiteQueenSideCastle
	t[H1] = WhiteKingSideCastle
	t[E1] = WhiteKingSideCastle | WhiteQueenSideCastle
	t[A8] = BlackQueenSideCastle
	t[H8] = BlackKingSideCastle
	t[E8] = BlackKingSideCastle | BlackQueenSideCastle
	return t
}()

// state is one entry of the undo stack.
type state struct {
	hash          uint64
	pawnHash      uint64
	halfMoveClock int
	enPassant     Square
	captureSquare Square
	castling      CastlingRights
	captured      Piece
}

// Position represents a complete chess position on a 0x88 board.
// It is mutated in place by MakeMove and UndoMove and is never copied during search.
type Position struct {
	tables *Tables
	geo    *Geometry
	keys   *ZobristKeys

	board  [BoardSize]Piece
	pieces [2][6]Bitboard
	kings  [2]Square

	activeColor    Color
	castling       CastlingRights
	enPassant      Square
	captureSquare  Square
	halfMoveClock  int
	halfMoveNumber int

	hash     uint64
	pawnHash uint64

	states []state
	ply    int

	// attacks[ply][color] caches the attacks on the king of color.
	attacks [][2]Attack
	scratch Attack
}

// NewPosition builds a position from a setup.
func NewPosition(t *Tables, s Setup) (*Position, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	p := &Position{
		tables:         t,
		geo:            t.Geometry,
		keys:           t.Zobrist,
		activeColor:    s.ActiveColor,
		castling:       s.Castling,
		enPassant:      s.EnPassant,
		captureSquare:  NoSquare,
		halfMoveClock:  s.HalfMoveClock,
		halfMoveNumber: (s.FullMoveNumber - 1) * 2,
		states:         make([]state, MaxGameLength),
		attacks:        make([][2]Attack, MaxGameLength+1),
	}
	if s.ActiveColor == Black {
		p.halfMoveNumber++
	}
	for sq := range p.board {
		p.board[sq] = NoPiece
	}
	for i, piece := range s.Placement {
		if piece != NoPiece {
			p.put(piece, SquareFrom64(i), false)
		}
	}
	p.hash = p.ComputeHash()
	p.pawnHash = p.ComputePawnHash()
	p.invalidateAttacks()

	if p.IsAttacked(p.kings[p.activeColor.Other()], p.activeColor) {
		return nil, fmt.Errorf("%s king can be captured: %w", p.activeColor.Other(), ErrInvalidSetup)
	}

	return p, nil
}

// NewPositionFromFEN parses a FEN string and builds the position.
func NewPositionFromFEN(t *Tables, fen string) (*Position, error) {
	s, err := ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	return NewPosition(t, s)
}

// Tables returns the lookup tables the position was built with.
func (p *Position) Tables() *Tables {
	return p.tables
}

// Geometry returns the direction tables.
func (p *Position) Geometry() *Geometry {
	return p.geo
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (p *Position) PieceAt(sq Square) Piece {
	return p.board[sq]
}

// IsEmpty returns true if the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.board[sq] == NoPiece
}

// ActiveColor returns the side to move.
func (p *Position) ActiveColor() Color {
	return p.activeColor
}

// CastlingRights returns the remaining castling rights.
func (p *Position) CastlingRights() CastlingRights {
	return p.castling
}

// EnPassant returns the en passant target square, or NoSquare.
func (p *Position) EnPassant() Square {
	return p.enPassant
}

// CaptureSquare returns the square of the last capture if the last move captured, or NoSquare.
func (p *Position) CaptureSquare() Square {
	return p.captureSquare
}

// HalfMoveClock returns the number of half moves since the last pawn move or capture.
func (p *Position) HalfMoveClock() int {
	return p.halfMoveClock
}

// HalfMoveNumber returns the number of half moves since the start of the game.
func (p *Position) HalfMoveNumber() int {
	return p.halfMoveNumber
}

// FullMoveNumber returns the FEN full move counter.
func (p *Position) FullMoveNumber() int {
	return p.halfMoveNumber/2 + 1
}

// Hash returns the zobrist hash of the position.
func (p *Position) Hash() uint64 {
	return p.hash
}

// PawnHash returns the zobrist hash of pawn placement and side to move.
func (p *Position) PawnHash() uint64 {
	return p.pawnHash
}

// King returns the king square of the given color.
func (p *Position) King(c Color) Square {
	return p.kings[c]
}

// Pieces returns the set of squares holding pieces of the given color and type.
func (p *Position) Pieces(c Color, pt PieceType) Bitboard {
	return p.pieces[c][pt]
}

// Occupancy returns the set of squares holding pieces of the given color.
func (p *Position) Occupancy(c Color) Bitboard {
	var b Bitboard
	for pt := Pawn; pt <= King; pt++ {
		b |= p.pieces[c][pt]
	}
	return b
}

// Ply returns the number of moves made since construction.
func (p *Position) Ply() int {
	return p.ply
}

// put places a piece on an empty square.
func (p *Position) put(piece Piece, sq Square, update bool) {
	c, pt := piece.Color(), piece.Type()

	p.board[sq] = piece
	p.pieces[c][pt] |= SquareBB(sq)
	if pt == King {
		p.kings[c] = sq
	}

	if update {
		key := p.keys.Piece(piece, sq)
		p.hash ^= key
		if pt == Pawn {
			p.pawnHash ^= key
		}
	}
}

// remove clears an occupied square and returns the piece that stood there.
func (p *Position) remove(sq Square, update bool) Piece {
	piece := p.board[sq]
	c, pt := piece.Color(), piece.Type()

	p.board[sq] = NoPiece
	p.pieces[c][pt] &^= SquareBB(sq)

	if update {
		key := p.keys.Piece(piece, sq)
		p.hash ^= key
		if pt == Pawn {
			p.pawnHash ^= key
		}
	}

	return piece
}

// move relocates a piece to an empty square and returns it.
func (p *Position) move(start, end Square, update bool) Piece {
	piece := p.board[start]
	c, pt := piece.Color(), piece.Type()

	p.board[start] = NoPiece
	p.board[end] = piece
	p.pieces[c][pt] ^= SquareBB(start) | SquareBB(end)
	if pt == King {
		p.kings[c] = end
	}

	if update {
		key := p.keys.Piece(piece, start) ^ p.keys.Piece(piece, end)
		p.hash ^= key
		if pt == Pawn {
			p.pawnHash ^= key
		}
	}

	return piece
}

// setCastling replaces the castling rights and updates the hash.
func (p *Position) setCastling(cr CastlingRights) {
	if cr != p.castling {
		p.hash ^= p.keys.Castling(cr ^ p.castling)
		p.castling = cr
	}
}

// clearEnPassant removes the en passant square and its hash key.
func (p *Position) clearEnPassant() {
	if p.enPassant != NoSquare {
		p.hash ^= p.keys.EnPassant(p.enPassant.File())
		p.enPassant = NoSquare
	}
}

// ComputeHash computes the zobrist hash for the position from scratch.
func (p *Position) ComputeHash() uint64 {
	var hash uint64

	for sq := Square(0); sq < BoardSize; sq++ {
		if sq.IsValid() && p.board[sq] != NoPiece {
			hash ^= p.keys.Piece(p.board[sq], sq)
		}
	}

	hash ^= p.keys.Castling(p.castling)

	if p.enPassant != NoSquare {
		hash ^= p.keys.EnPassant(p.enPassant.File())
	}

	if p.activeColor == Black {
		hash ^= p.keys.SideToMove()
	}

	return hash
}

// ComputePawnHash computes the pawn hash from scratch.
// It covers pawn placement and the side to move.
func (p *Position) ComputePawnHash() uint64 {
	var hash uint64

	for c := White; c <= Black; c++ {
		bb := p.pieces[c][Pawn]
		for bb != 0 {
			sq := bb.PopLSB()
			hash ^= p.keys.Piece(NewPiece(Pawn, c), sq)
		}
	}

	if p.activeColor == Black {
		hash ^= p.keys.SideToMove()
	}

	return hash
}

// IsRepetition reports whether the current position occurred before with the
// same side to move since the last irreversible move.
func (p *Position) IsRepetition() bool {
	low := max(0, p.ply-p.halfMoveClock)
	for i := p.ply - 2; i >= low; i -= 2 {
		if p.states[i].hash == p.hash {
			return true
		}
	}
	return false
}

// Setup exports the current position as a board description.
func (p *Position) Setup() Setup {
	s := NewSetup()
	for i := range s.Placement {
		s.Placement[i] = p.board[SquareFrom64(i)]
	}
	s.ActiveColor = p.activeColor
	s.Castling = p.castling
	s.EnPassant = p.enPassant
	s.HalfMoveClock = p.halfMoveClock
	s.FullMoveNumber = p.FullMoveNumber()
	return s
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			piece := p.PieceAt(NewSquare(file, rank))
			if piece == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(piece.String() + " ")
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.activeColor)
	fmt.Fprintf(&sb, "Castling: %s\n", p.castling)
	fmt.Fprintf(&sb, "En passant: %s\n", p.enPassant)
	fmt.Fprintf(&sb, "Half-move clock: %d\n", p.halfMoveClock)
	fmt.Fprintf(&sb, "Full move: %d\n", p.FullMoveNumber())
	fmt.Fprintf(&sb, "Hash: %016x\n", p.hash)
	return sb.String()
}
