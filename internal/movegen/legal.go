package movegen

import "github.com/hailam/chesscore/internal/board"

// isLegal tests whether a pseudo-legal move leaves the own king safe.
// The side to move must not be in check unless the move is an evasion.
func (g *Generator) isLegal(m board.Move) bool {
	pos := g.pos
	us := m.Color()

	// Slow test for en passant, which removes two pieces from a line
	if m.Kind() == board.EnPassant {
		pos.MakeMove(m)
		check := pos.GetAttack(us).IsCheck()
		pos.UndoMove(m)
		return !check
	}

	start, end := m.Start(), m.End()

	if m.Piece().Type() == board.King {
		return !pos.IsAttacked(end, us.Other())
	}

	// A pinned piece may only move along the pin line
	if pos.IsPinned(start, us) {
		king := pos.King(us)
		return g.geo.Delta(start, king) == g.geo.Delta(end, king)
	}

	return true
}

// isKillerPseudo tests whether a killer move found at another node of the
// same height is pseudo-legal here. Killers are quiet moves, so captures,
// promotions and en passant are rejected.
func (g *Generator) isKillerPseudo(m board.Move) bool {
	switch m.Kind() {
	case board.Promotion, board.EnPassant, board.NullKind:
		return false
	}
	if m.IsCapture() {
		return false
	}
	return g.isPseudoLegal(m)
}

// isPseudoLegal tests whether a move of any kind could have been generated
// in the current position. It guards moves taken from hash tables.
func (g *Generator) isPseudoLegal(m board.Move) bool {
	pos := g.pos
	us := pos.ActiveColor()
	start, end := m.Start(), m.End()
	piece := m.Piece()

	if m.Kind() == board.NullKind || !start.IsValid() || !end.IsValid() {
		return false
	}
	if piece.Color() != us || pos.PieceAt(start) != piece {
		return false
	}

	captured := pos.PieceAt(end)
	if m.Kind() != board.EnPassant && captured != m.Captured() {
		return false
	}
	if captured != board.NoPiece && (captured.Color() == us || captured.Type() == board.King) {
		return false
	}

	switch m.Kind() {
	case board.Normal:
		if piece.Type() == board.Pawn {
			return end.RelativeRank(us) != 7 && g.isPawnMove(start, end, us, captured)
		}
		return m.Promotion() == board.NoPieceType && pos.CanAttack(piece.Type(), us, start, end)

	case board.PawnDouble:
		forward := pawnForward(us)
		return piece.Type() == board.Pawn &&
			start.RelativeRank(us) == 1 &&
			end == start.Add(2*forward) &&
			pos.IsEmpty(start.Add(forward)) &&
			captured == board.NoPiece

	case board.Promotion:
		promotion := m.Promotion()
		return piece.Type() == board.Pawn &&
			promotion >= board.Knight && promotion <= board.Queen &&
			end.RelativeRank(us) == 7 &&
			g.isPawnMove(start, end, us, captured)

	case board.EnPassant:
		return piece.Type() == board.Pawn &&
			end == pos.EnPassant() &&
			captured == board.NoPiece &&
			m.Captured() == board.NewPiece(board.Pawn, us.Other()) &&
			pos.CanAttack(board.Pawn, us, start, end)

	case board.Castling:
		for i := range castlings[us] {
			c := &castlings[us][i]
			if c.end == end && c.start == start {
				return piece.Type() == board.King && !pos.InCheck() && g.castlingAllowed(c)
			}
		}
		return false
	}

	return false
}

// isPawnMove tests the geometry of a single pawn step: a push onto an empty
// square or a diagonal capture.
func (g *Generator) isPawnMove(start, end board.Square, us board.Color, captured board.Piece) bool {
	if captured == board.NoPiece {
		return end == start.Add(pawnForward(us))
	}
	return g.pos.CanAttack(board.Pawn, us, start, end)
}

// isGoodCapture reports whether a capture is not expected to lose material.
func (g *Generator) isGoodCapture(m board.Move) bool {
	if m.Kind() == board.Promotion {
		return m.Promotion() == board.Queen
	}
	if m.Piece().Value() <= m.Captured().Value() {
		return true
	}
	return SEE(g.pos, m) >= 0
}
