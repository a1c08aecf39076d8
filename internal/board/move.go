package board

import "fmt"

// Move encodes a chess move in 28 bits:
// bits 0-6:   start square (0x88)
// bits 7-13:  end square (0x88)
// bits 14-17: moving piece
// bits 18-21: captured piece (NoPiece if none)
// bits 22-24: promotion piece type (NoPieceType if none)
// bits 25-27: move kind
type Move uint32

// MoveKind distinguishes moves that need special make/undo handling.
type MoveKind uint8

const (
	Normal MoveKind = iota
	PawnDouble
	Promotion
	EnPassant
	Castling
	NullKind
)

// String returns the move kind name.
func (k MoveKind) String() string {
	switch k {
	case Normal:
		return "Normal"
	case PawnDouble:
		return "PawnDouble"
	case Promotion:
		return "Promotion"
	case EnPassant:
		return "EnPassant"
	case Castling:
		return "Castling"
	case NullKind:
		return "Null"
	default:
		return fmt.Sprintf("MoveKind(%d)", uint8(k))
	}
}

const (
	startShift     = 0
	endShift       = 7
	pieceShift     = 14
	capturedShift  = 18
	promotionShift = 22
	kindShift      = 25

	squareMask    = 0x7F
	pieceMask     = 0xF
	promotionMask = 0x7
	kindMask      = 0x7
)

// NoMove represents the absence of a move. A real move never has start == end.
const NoMove Move = 0

// NewMove packs a move.
func NewMove(kind MoveKind, start, end Square, piece, captured Piece, promotion PieceType) Move {
	return Move(start)<<startShift |
		Move(end)<<endShift |
		Move(piece)<<pieceShift |
		Move(captured)<<capturedShift |
		Move(promotion)<<promotionShift |
		Move(kind)<<kindShift
}

// NullMove returns the null move for the given side. Both squares carry NoSquare.
func NullMove(c Color) Move {
	return NewMove(NullKind, NoSquare, NoSquare, NewPiece(King, c), NoPiece, NoPieceType)
}

// Start returns the origin square.
func (m Move) Start() Square {
	return Square(m >> startShift & squareMask)
}

// End returns the destination square.
func (m Move) End() Square {
	return Square(m >> endShift & squareMask)
}

// Piece returns the moving piece.
func (m Move) Piece() Piece {
	return Piece(m >> pieceShift & pieceMask)
}

// Captured returns the captured piece, or NoPiece.
func (m Move) Captured() Piece {
	return Piece(m >> capturedShift & pieceMask)
}

// Promotion returns the promotion piece type, or NoPieceType.
func (m Move) Promotion() PieceType {
	return PieceType(m >> promotionShift & promotionMask)
}

// Kind returns the move kind.
func (m Move) Kind() MoveKind {
	return MoveKind(m >> kindShift & kindMask)
}

// Color returns the color of the moving side.
func (m Move) Color() Color {
	return m.Piece().Color()
}

// IsCapture returns true if the move removes an enemy piece.
func (m Move) IsCapture() bool {
	return m.Captured() != NoPiece
}

// IsNull returns true for the null move.
func (m Move) IsNull() bool {
	return m.Kind() == NullKind
}

// WithEnd returns the move with a new end square.
func (m Move) WithEnd(end Square) Move {
	return m&^(squareMask<<endShift) | Move(end)<<endShift
}

// WithEndAndCaptured returns the move with a new end square and captured piece.
func (m Move) WithEndAndCaptured(end Square, captured Piece) Move {
	m &^= squareMask<<endShift | pieceMask<<capturedShift
	return m | Move(end)<<endShift | Move(captured)<<capturedShift
}

// WithPromotion returns the move with a new promotion piece type.
func (m Move) WithPromotion(pt PieceType) Move {
	return m&^(promotionMask<<promotionShift) | Move(pt)<<promotionShift
}

// String returns the long algebraic format of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove || m.IsNull() {
		return "0000"
	}

	s := m.Start().String() + m.End().String()

	if m.Kind() == Promotion {
		s += string(m.Promotion().Char())
	}

	return s
}

// ParseMove resolves a long algebraic move string against a position.
// The piece, the captured piece and the move kind are taken from the board.
func ParseMove(pos *Position, s string) (Move, error) {
	if s == "0000" {
		return NullMove(pos.ActiveColor()), nil
	}
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("move %q: %w", s, ErrInvalidMove)
	}

	start, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, fmt.Errorf("move %q: %w", s, err)
	}

	end, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, fmt.Errorf("move %q: %w", s, err)
	}

	piece := pos.PieceAt(start)
	if piece == NoPiece || piece.Color() != pos.ActiveColor() {
		return NoMove, fmt.Errorf("move %q: no %s piece on %s: %w", s, pos.ActiveColor(), start, ErrInvalidMove)
	}
	captured := pos.PieceAt(end)
	if captured != NoPiece && captured.Color() == piece.Color() {
		return NoMove, fmt.Errorf("move %q: own piece on %s: %w", s, end, ErrInvalidMove)
	}

	// Check for promotion
	if len(s) == 5 {
		var promo PieceType
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoMove, fmt.Errorf("move %q: invalid promotion piece %c: %w", s, s[4], ErrInvalidMove)
		}
		if piece.Type() != Pawn || end.RelativeRank(piece.Color()) != 7 {
			return NoMove, fmt.Errorf("move %q: not a promotion: %w", s, ErrInvalidMove)
		}
		return NewMove(Promotion, start, end, piece, captured, promo), nil
	}

	switch piece.Type() {
	case King:
		if abs(int(end)-int(start)) == 2 {
			return NewMove(Castling, start, end, piece, NoPiece, NoPieceType), nil
		}
	case Pawn:
		if end.RelativeRank(piece.Color()) == 7 {
			return NoMove, fmt.Errorf("move %q: missing promotion piece: %w", s, ErrInvalidMove)
		}
		if end == pos.EnPassant() && start.File() != end.File() {
			return NewMove(EnPassant, start, end, piece, NewPiece(Pawn, piece.Color().Other()), NoPieceType), nil
		}
		if abs(int(end)-int(start)) == 32 {
			return NewMove(PawnDouble, start, end, piece, NoPiece, NoPieceType), nil
		}
	}

	return NewMove(Normal, start, end, piece, captured, NoPieceType), nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
