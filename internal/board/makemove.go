package board

import "fmt"

// MakeMove applies a move. Moves must be undone in strict LIFO order.
func (p *Position) MakeMove(m Move) {
	if p.ply >= len(p.states) {
		panic(fmt.Sprintf("board: game longer than %d plies", len(p.states)))
	}

	// Save history
	st := &p.states[p.ply]
	st.hash = p.hash
	st.pawnHash = p.pawnHash
	st.halfMoveClock = p.halfMoveClock
	st.enPassant = p.enPassant
	st.captureSquare = p.captureSquare
	st.castling = p.castling
	st.captured = NoPiece

	p.ply++

	switch m.Kind() {
	case Normal:
		p.makeNormal(m, st)
	case PawnDouble:
		p.makePawnDouble(m)
	case Promotion:
		p.makePromotion(m, st)
	case EnPassant:
		p.makeEnPassant(m, st)
	case Castling:
		p.makeCastling(m)
	case NullKind:
		p.makeNull()
	default:
		panic(fmt.Sprintf("board: unknown move kind %s in %08x", m.Kind(), uint32(m)))
	}

	p.halfMoveNumber++

	p.activeColor = p.activeColor.Other()
	p.hash ^= p.keys.SideToMove()
	p.pawnHash ^= p.keys.SideToMove()

	p.invalidateAttacks()
}

// UndoMove reverts the last move made.
func (p *Position) UndoMove(m Move) {
	p.activeColor = p.activeColor.Other()
	p.halfMoveNumber--
	p.ply--

	st := &p.states[p.ply]
	p.hash = st.hash
	p.pawnHash = st.pawnHash
	p.halfMoveClock = st.halfMoveClock
	p.enPassant = st.enPassant
	p.captureSquare = st.captureSquare
	p.castling = st.castling

	switch m.Kind() {
	case Normal:
		p.move(m.End(), m.Start(), false)
		if st.captured != NoPiece {
			p.put(st.captured, m.End(), false)
		}
	case PawnDouble:
		p.move(m.End(), m.Start(), false)
	case Promotion:
		p.remove(m.End(), false)
		if st.captured != NoPiece {
			p.put(st.captured, m.End(), false)
		}
		p.put(m.Piece(), m.Start(), false)
	case EnPassant:
		p.move(m.End(), m.Start(), false)
		p.put(st.captured, enPassantVictim(m.End(), m.Piece().Color()), false)
	case Castling:
		rookStart, rookEnd := castlingRook(m.End())
		p.move(rookEnd, rookStart, false)
		p.move(m.End(), m.Start(), false)
	case NullKind:
	default:
		panic(fmt.Sprintf("board: unknown move kind %s in %08x", m.Kind(), uint32(m)))
	}
}

func (p *Position) makeNormal(m Move, st *state) {
	start, end := m.Start(), m.End()
	rights := p.castling

	if p.board[end] != NoPiece {
		st.captured = p.remove(end, true)
		p.captureSquare = end
		rights &^= castlingLoss[end]
	} else {
		p.captureSquare = NoSquare
	}

	piece := p.move(start, end, true)
	rights &^= castlingLoss[start]
	p.setCastling(rights)

	p.clearEnPassant()

	if piece.Type() == Pawn || st.captured != NoPiece {
		p.halfMoveClock = 0
	} else {
		p.halfMoveClock++
	}
}

func (p *Position) makePawnDouble(m Move) {
	end := m.End()
	pawn := p.move(m.Start(), end, true)

	p.captureSquare = NoSquare

	p.clearEnPassant()
	p.enPassant = enPassantVictim(end, pawn.Color())
	p.hash ^= p.keys.EnPassant(p.enPassant.File())

	p.halfMoveClock = 0
}

func (p *Position) makePromotion(m Move, st *state) {
	end := m.End()
	pawn := p.remove(m.Start(), true)

	if p.board[end] != NoPiece {
		st.captured = p.remove(end, true)
		p.captureSquare = end
		p.setCastling(p.castling &^ castlingLoss[end])
	} else {
		p.captureSquare = NoSquare
	}

	p.put(NewPiece(m.Promotion(), pawn.Color()), end, true)

	p.clearEnPassant()
	p.halfMoveClock = 0
}

func (p *Position) makeEnPassant(m Move, st *state) {
	end := m.End()
	pawn := p.move(m.Start(), end, true)

	st.captured = p.remove(enPassantVictim(end, pawn.Color()), true)

	// The capture square is the end square, not the square of the captured pawn.
	p.captureSquare = end

	p.clearEnPassant()
	p.halfMoveClock = 0
}

func (p *Position) makeCastling(m Move) {
	king := p.move(m.Start(), m.End(), true)
	rookStart, rookEnd := castlingRook(m.End())
	p.move(rookStart, rookEnd, true)

	if king.Color() == White {
		p.setCastling(p.castling &^ (WhiteKingSideCastle | WhiteQueenSideCastle))
	} else {
		p.setCastling(p.castling &^ (BlackKingSideCastle | BlackQueenSideCastle))
	}

	p.captureSquare = NoSquare
	p.clearEnPassant()
	p.halfMoveClock++
}

func (p *Position) makeNull() {
	p.captureSquare = NoSquare
	p.clearEnPassant()
	p.halfMoveClock++
}

// enPassantVictim returns the square behind end as seen from the capturing color.
func enPassantVictim(end Square, capturer Color) Square {
	if capturer == White {
		return end.Add(South)
	}
	return end.Add(North)
}

// castlingRook returns the rook start and end squares for a castling king destination.
func castlingRook(kingEnd Square) (Square, Square) {
	switch kingEnd {
	case G1:
		return H1, F1
	case C1:
		return A1, D1
	case G8:
		return H8, F8
	case C8:
		return A8, D8
	default:
		panic(fmt.Sprintf("board: castling to %s", kingEnd))
	}
}
