package movegen

import "github.com/hailam/chesscore/internal/board"

type seeEntry struct {
	piece  board.Piece
	square board.Square
}

// seeList holds the attackers of one color ordered by ascending value.
type seeList struct {
	size    int
	entries [board.MaxAttackers]seeEntry
}

// shift removes and returns the least valuable attacker.
func (l *seeList) shift() (seeEntry, bool) {
	if l.size == 0 {
		return seeEntry{}, false
	}
	e := l.entries[0]
	copy(l.entries[:], l.entries[1:l.size])
	l.size--
	return e, true
}

func (l *seeList) append(piece board.Piece, sq board.Square) {
	l.entries[l.size] = seeEntry{piece, sq}
	l.size++
}

// insert places an attacker by value. A slider that hides another attacker
// goes before pieces of equal value, so the hidden one is released earlier.
func (l *seeList) insert(piece board.Piece, sq board.Square, hidesAttacker bool) {
	value := piece.Value()
	i := 0
	for ; i < l.size; i++ {
		v := l.entries[i].piece.Value()
		if v > value || (hidesAttacker && v == value) {
			break
		}
	}
	copy(l.entries[i+1:l.size+1], l.entries[i:l.size])
	l.entries[i] = seeEntry{piece, sq}
	l.size++
}

func (l *seeList) remove(sq board.Square) {
	for i := 0; i < l.size; i++ {
		if l.entries[i].square == sq {
			copy(l.entries[i:], l.entries[i+1:l.size])
			l.size--
			return
		}
	}
}

type exchange struct {
	pos   *board.Position
	geo   *board.Geometry
	lists [2]seeList
}

// SEE returns the material balance of the capture sequence started by m
// on its end square, from the point of view of the moving side. Each side
// may stop recapturing when continuing would lose material.
func SEE(pos *board.Position, m board.Move) int {
	x := exchange{pos: pos, geo: pos.Geometry()}

	start, end := m.Start(), m.End()
	us := m.Color()
	them := us.Other()

	attackerValue := m.Piece().Value()
	value := m.Captured().Value()
	if m.Kind() == board.Promotion {
		attackerValue = m.Promotion().Value()
		value += m.Promotion().Value() - board.PawnValue
	}

	x.addAllAttackers(end, us)
	x.addAllAttackers(end, them)

	// The captured pawn may hide an attacker on the file
	if m.Kind() == board.EnPassant {
		victim := end.Add(-pawnForward(us))
		x.addHiddenAttacker(victim, end)
	}

	x.lists[us].remove(start)
	x.addHiddenAttacker(start, end)

	return value - x.capture(end, them, attackerValue)
}

// capture lets color recapture on target, where a piece worth targetValue stands.
func (x *exchange) capture(target board.Square, color board.Color, targetValue int) int {
	attacker, ok := x.lists[color].shift()
	if !ok {
		return 0
	}

	value := targetValue

	// Capturing the king ends the sequence
	if value == board.KingValue {
		return value
	}

	attackerValue := attacker.piece.Value()
	if attacker.piece.Type() == board.Pawn && target.RelativeRank(color) == 7 {
		value += board.QueenValue - board.PawnValue
		attackerValue = board.QueenValue
	}

	x.addHiddenAttacker(attacker.square, target)

	return max(0, value-x.capture(target, color.Other(), attackerValue))
}

func (x *exchange) addAllAttackers(target board.Square, color board.Color) {
	pos := x.pos
	list := &x.lists[color]

	pawn := board.NewPiece(board.Pawn, color)
	for _, d := range pawnCaptureDeltas(color) {
		sq := target.Add(-d)
		if sq.IsValid() && pos.PieceAt(sq) == pawn {
			list.append(pawn, sq)
		}
	}

	bb := pos.Pieces(color, board.Knight)
	for bb != 0 {
		sq := bb.PopLSB()
		if pos.CanAttack(board.Knight, color, sq, target) {
			list.append(pos.PieceAt(sq), sq)
		}
	}

	for pt := board.Bishop; pt <= board.Queen; pt++ {
		bb := pos.Pieces(color, pt)
		for bb != 0 {
			sq := bb.PopLSB()
			if pos.CanAttack(pt, color, sq, target) {
				list.insert(pos.PieceAt(sq), sq, x.hasHiddenAttacker(sq, target))
			}
		}
	}

	king := pos.King(color)
	if pos.CanAttack(board.King, color, king, target) {
		list.append(pos.PieceAt(king), king)
	}
}

// hiddenAttacker walks from sq away from target and returns the first piece
// if it is a slider on that line.
func (x *exchange) hiddenAttacker(sq, target board.Square) (board.Piece, board.Square, bool) {
	if !x.geo.IsLine(sq, target) {
		return board.NoPiece, board.NoSquare, false
	}

	d := x.geo.Delta(target, sq)
	for behind := sq.Add(d); behind.IsValid(); behind = behind.Add(d) {
		piece := x.pos.PieceAt(behind)
		if piece == board.NoPiece {
			continue
		}
		if x.pos.CanSliderPseudoAttack(piece, behind, target) {
			return piece, behind, true
		}
		break
	}
	return board.NoPiece, board.NoSquare, false
}

func (x *exchange) hasHiddenAttacker(sq, target board.Square) bool {
	_, _, ok := x.hiddenAttacker(sq, target)
	return ok
}

func (x *exchange) addHiddenAttacker(sq, target board.Square) {
	piece, behind, ok := x.hiddenAttacker(sq, target)
	if !ok {
		return
	}
	x.lists[piece.Color()].insert(piece, behind, x.hasHiddenAttacker(behind, target))
}
