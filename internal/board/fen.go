package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Setup is the external description a position is built from.
type Setup struct {
	Placement      [64]Piece // dense index, NoPiece for empty squares
	ActiveColor    Color
	Castling       CastlingRights
	EnPassant      Square
	HalfMoveClock  int
	FullMoveNumber int
}

// NewSetup returns an empty board with white to move.
func NewSetup() Setup {
	s := Setup{
		ActiveColor:    White,
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
	}
	for i := range s.Placement {
		s.Placement[i] = NoPiece
	}
	return s
}

// PieceAt returns the piece placed on a square.
func (s *Setup) PieceAt(sq Square) Piece {
	return s.Placement[sq.Index64()]
}

// Put places a piece on a square.
func (s *Setup) Put(piece Piece, sq Square) {
	s.Placement[sq.Index64()] = piece
}

// validate checks everything that can be decided without attack detection.
func (s *Setup) validate() error {
	var kings [2]int
	for i, piece := range s.Placement {
		if piece == NoPiece {
			continue
		}
		if piece > NoPiece {
			return fmt.Errorf("bad piece %d on %s: %w", piece, SquareFrom64(i), ErrInvalidSetup)
		}
		sq := SquareFrom64(i)
		switch piece.Type() {
		case King:
			kings[piece.Color()]++
		case Pawn:
			if sq.Rank() == 0 || sq.Rank() == 7 {
				return fmt.Errorf("pawn on %s: %w", sq, ErrInvalidSetup)
			}
		}
	}
	if kings[White] != 1 || kings[Black] != 1 {
		return fmt.Errorf("need exactly one king per side, got %d white and %d black: %w", kings[White], kings[Black], ErrInvalidSetup)
	}

	if s.ActiveColor != White && s.ActiveColor != Black {
		return fmt.Errorf("no side to move: %w", ErrInvalidSetup)
	}

	if s.Castling&^AllCastling != 0 {
		return fmt.Errorf("castling rights %08b: %w", uint8(s.Castling), ErrInvalidSetup)
	}

	type castle struct {
		right      CastlingRights
		king, rook Piece
		kingSquare Square
		rookSquare Square
	}
	for _, c := range []castle{
		{WhiteKingSideCastle, WhiteKing, WhiteRook, E1, H1},
		{WhiteQueenSideCastle, WhiteKing, WhiteRook, E1, A1},
		{BlackKingSideCastle, BlackKing, BlackRook, E8, H8},
		{BlackQueenSideCastle, BlackKing, BlackRook, E8, A8},
	} {
		if s.Castling&c.right == 0 {
			continue
		}
		if s.PieceAt(c.kingSquare) != c.king || s.PieceAt(c.rookSquare) != c.rook {
			return fmt.Errorf("castling right %s without king and rook in place: %w", c.right, ErrInvalidSetup)
		}
	}

	if s.EnPassant != NoSquare {
		ep := s.EnPassant
		if !ep.IsValid() || ep.RelativeRank(s.ActiveColor) != 5 {
			return fmt.Errorf("en passant square %s: %w", ep, ErrInvalidSetup)
		}
		step := North
		if s.ActiveColor == Black {
			step = South
		}
		pawn := NewPiece(Pawn, s.ActiveColor.Other())
		if s.PieceAt(ep) != NoPiece || s.PieceAt(ep.Add(step)) != NoPiece || s.PieceAt(ep.Add(-step)) != pawn {
			return fmt.Errorf("en passant square %s without a pushed pawn: %w", ep, ErrInvalidSetup)
		}
	}

	if s.HalfMoveClock < 0 || s.FullMoveNumber < 1 {
		return fmt.Errorf("clocks %d/%d: %w", s.HalfMoveClock, s.FullMoveNumber, ErrInvalidSetup)
	}

	return nil
}

// ParseFEN parses a FEN string into a Setup.
func ParseFEN(fen string) (Setup, error) {
	s := NewSetup()

	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return s, fmt.Errorf("need at least 4 fields, got %d: %w", len(parts), ErrInvalidFEN)
	}

	// Parse piece placement (field 0)
	if err := parsePiecePlacement(&s, parts[0]); err != nil {
		return s, err
	}

	// Parse side to move (field 1)
	switch parts[1] {
	case "w":
		s.ActiveColor = White
	case "b":
		s.ActiveColor = Black
	default:
		return s, fmt.Errorf("side to move %q: %w", parts[1], ErrInvalidFEN)
	}

	// Parse castling rights (field 2)
	if err := parseCastlingRights(&s, parts[2]); err != nil {
		return s, err
	}

	// Parse en passant square (field 3)
	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return s, fmt.Errorf("en passant square %q: %w", parts[3], ErrInvalidFEN)
		}
		s.EnPassant = sq
	}

	// Parse half-move clock (field 4, optional)
	if len(parts) > 4 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil {
			return s, fmt.Errorf("half-move clock %q: %w", parts[4], ErrInvalidFEN)
		}
		s.HalfMoveClock = hmc
	}

	// Parse full-move number (field 5, optional)
	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil {
			return s, fmt.Errorf("full-move number %q: %w", parts[5], ErrInvalidFEN)
		}
		s.FullMoveNumber = fmn
	}

	return s, nil
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(s *Setup, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("need 8 ranks, got %d: %w", len(ranks), ErrInvalidFEN)
	}

	for i, rankStr := range ranks {
		rank := 7 - i // FEN starts from rank 8
		file := 0

		for _, c := range rankStr {
			if file > 7 {
				return fmt.Errorf("too many squares in rank %d: %w", rank+1, ErrInvalidFEN)
			}

			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}

			piece := PieceFromChar(byte(c))
			if piece == NoPiece {
				return fmt.Errorf("piece character %q: %w", c, ErrInvalidFEN)
			}
			s.Put(piece, NewSquare(file, rank))
			file++
		}

		if file != 8 {
			return fmt.Errorf("rank %d has %d squares: %w", rank+1, file, ErrInvalidFEN)
		}
	}

	return nil
}

// parseCastlingRights parses the castling rights section of a FEN string.
func parseCastlingRights(s *Setup, castling string) error {
	if castling == "-" {
		s.Castling = NoCastling
		return nil
	}

	for _, c := range castling {
		switch c {
		case 'K':
			s.Castling |= WhiteKingSideCastle
		case 'Q':
			s.Castling |= WhiteQueenSideCastle
		case 'k':
			s.Castling |= BlackKingSideCastle
		case 'q':
			s.Castling |= BlackQueenSideCastle
		default:
			return fmt.Errorf("castling character %q: %w", c, ErrInvalidFEN)
		}
	}

	return nil
}

// FEN returns the FEN representation of the setup.
func (s Setup) FEN() string {
	var sb strings.Builder

	// Piece placement
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := s.PieceAt(NewSquare(file, rank))
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	// Side to move
	sb.WriteByte(' ')
	if s.ActiveColor == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(s.Castling.String())

	sb.WriteByte(' ')
	sb.WriteString(s.EnPassant.String())

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(s.HalfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(s.FullMoveNumber))

	return sb.String()
}

// FEN returns the FEN representation of the position.
func (p *Position) FEN() string {
	return p.Setup().FEN()
}
