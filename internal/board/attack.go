package board

import "fmt"

// MaxAttackers bounds the attackers recorded for one square.
const MaxAttackers = 16

// staleAttack marks a cache slot that has to be recomputed.
const staleAttack = -1

// Attack lists the pieces attacking a square.
type Attack struct {
	Count   int
	Squares [MaxAttackers]Square
	// Deltas[i] is the unit step from Squares[i] toward the target.
	Deltas [MaxAttackers]int
	// NumberOfMoves is set by the move generator to the number of evasions.
	NumberOfMoves int
}

// IsCheck returns true if at least one attacker was found.
func (a *Attack) IsCheck() bool {
	return a.Count != 0
}

func (a *Attack) add(sq Square, delta int) {
	if a.Count == MaxAttackers {
		panic(fmt.Sprintf("board: more than %d attackers", MaxAttackers))
	}
	a.Squares[a.Count] = sq
	a.Deltas[a.Count] = delta
	a.Count++
}

func (p *Position) invalidateAttacks() {
	p.attacks[p.ply][White].Count = staleAttack
	p.attacks[p.ply][Black].Count = staleAttack
}

// GetAttack returns the attacks on the king of the given color.
// The result is cached per ply and is owned by the position.
func (p *Position) GetAttack(c Color) *Attack {
	a := &p.attacks[p.ply][c]
	if a.Count == staleAttack {
		a.NumberOfMoves = -1
		p.AttackersOf(a, p.kings[c], c.Other())
	}
	return a
}

// InCheck returns true if the side to move is in check.
func (p *Position) InCheck() bool {
	return p.GetAttack(p.activeColor).IsCheck()
}

// IsAttacked returns true if any piece of color by attacks the square.
func (p *Position) IsAttacked(sq Square, by Color) bool {
	return p.attackers(&p.scratch, sq, by, true)
}

// AttackersOf fills a with every piece of color by that attacks target.
func (p *Position) AttackersOf(a *Attack, target Square, by Color) {
	p.attackers(a, target, by, false)
}

// attackers scans pawns, knights, bishops, rooks, queens and finally the king.
// With stop set it returns as soon as one attacker is found.
func (p *Position) attackers(a *Attack, target Square, by Color, stop bool) bool {
	a.Count = 0

	// Pawn attacks
	pawn := NewPiece(Pawn, by)
	left, right := SouthWest, SouthEast
	if by == Black {
		left, right = NorthWest, NorthEast
	}
	for _, d := range [2]int{left, right} {
		sq := target.Add(d)
		if sq.IsValid() && p.board[sq] == pawn {
			if stop {
				return true
			}
			a.add(sq, -d)
		}
	}

	for pt := Knight; pt <= King; pt++ {
		bb := p.pieces[by][pt]
		for bb != 0 {
			sq := bb.PopLSB()
			if p.CanAttack(pt, by, sq, target) {
				if stop {
					return true
				}
				a.add(sq, p.geo.Delta(sq, target))
			}
		}
	}

	return a.Count > 0
}

// CanAttack returns true if a piece of the given type and color on from
// attacks to. Sliders additionally need an empty path.
func (p *Position) CanAttack(pt PieceType, c Color, from, to Square) bool {
	v := p.geo.Vector(from, to)

	switch pt {
	case Pawn:
		return (v == DiagonalUp && c == White) || (v == DiagonalDown && c == Black)
	case Knight:
		return v == KnightHop
	case Bishop:
		switch v {
		case DiagonalUp, DiagonalDown:
			return true
		case Diagonal:
			return p.canSliderAttack(from, to)
		}
	case Rook:
		switch v {
		case StraightAdjacent:
			return true
		case Straight:
			return p.canSliderAttack(from, to)
		}
	case Queen:
		switch v {
		case DiagonalUp, DiagonalDown, StraightAdjacent:
			return true
		case Diagonal, Straight:
			return p.canSliderAttack(from, to)
		}
	case King:
		switch v {
		case DiagonalUp, DiagonalDown, StraightAdjacent:
			return true
		}
	default:
		panic(fmt.Sprintf("board: attack by %s", pt))
	}

	return false
}

// canSliderAttack walks from toward to and reports whether the path is empty.
func (p *Position) canSliderAttack(from, to Square) bool {
	d := p.geo.Delta(from, to)

	sq := from.Add(d)
	for sq.IsValid() && sq != to && p.board[sq] == NoPiece {
		sq = sq.Add(d)
	}

	return sq == to
}

// CanSliderPseudoAttack returns true if a slider on from lies on a line it
// moves along toward to. Blockers are ignored.
func (p *Position) CanSliderPseudoAttack(attacker Piece, from, to Square) bool {
	v := p.geo.Vector(from, to)

	switch attacker.Type() {
	case Bishop:
		return v == DiagonalUp || v == DiagonalDown || v == Diagonal
	case Rook:
		return v == StraightAdjacent || v == Straight
	case Queen:
		return v != NoDirection && v != KnightHop
	}

	return false
}

// IsPinned returns true if the piece on sq shields the king of kingColor
// from an enemy slider.
func (p *Position) IsPinned(sq Square, kingColor Color) bool {
	king := p.kings[kingColor]

	// We can only be pinned on an attack line
	if !p.geo.IsLine(sq, king) {
		return false
	}

	d := p.geo.Delta(sq, king)

	// Walk towards the king
	end := sq.Add(d)
	for p.board[end] == NoPiece {
		end = end.Add(d)
	}
	if end != king {
		return false
	}

	// Walk away from the king
	for end = sq.Add(-d); end.IsValid(); end = end.Add(-d) {
		attacker := p.board[end]
		if attacker != NoPiece {
			return attacker.Color() != kingColor && p.CanSliderPseudoAttack(attacker, end, king)
		}
	}

	return false
}

// IsCheckingMove returns true if the move gives check. The position is unchanged afterwards.
func (p *Position) IsCheckingMove(m Move) bool {
	color := m.Color()
	enemyKing := p.kings[color.Other()]

	switch m.Kind() {
	case Normal, PawnDouble:
		start, end := m.Start(), m.End()

		// Direct attacks
		if p.CanAttack(m.Piece().Type(), color, end, enemyKing) {
			return true
		}

		// Discovered attacks
		if p.IsPinned(start, color.Other()) {
			return p.geo.Delta(start, enemyKing) != p.geo.Delta(end, enemyKing)
		}

		return false
	case Promotion, EnPassant, Castling:
		// Slow test for moves that change more than one line
		p.MakeMove(m)
		check := p.IsAttacked(enemyKing, color)
		p.UndoMove(m)
		return check
	case NullKind:
		return false
	default:
		panic(fmt.Sprintf("board: unknown move kind %s in %08x", m.Kind(), uint32(m)))
	}
}
