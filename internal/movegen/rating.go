package movegen

import (
	"math"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/table"
)

// mvvLva rates captures by victim value first and attacker value second.
func mvvLva(m board.Move) int {
	return board.KingValue/m.Piece().Value() + 10*m.Captured().Value()
}

func (g *Generator) rateFromMVVLVA() {
	l := g.moves
	for i := l.head; i < l.tail; i++ {
		l.ratings[i] = mvvLva(l.moves[i])
	}
}

func (g *Generator) rateFromHistory() {
	l := g.moves
	for i := l.head; i < l.tail; i++ {
		l.ratings[i] = g.history.Get(l.moves[i])
	}
}

// rateEvasion orders the transposition move first, then captures, then
// killers, then quiet moves by history.
func (g *Generator) rateEvasion(f *frame) {
	l := g.moves
	for i := l.head; i < l.tail; i++ {
		m := l.moves[i]
		switch {
		case m == f.ttMove:
			l.ratings[i] = math.MaxInt
		case m.IsCapture():
			l.ratings[i] = mvvLva(m)
		case m == f.killer1:
			l.ratings[i] = 0
		case m == f.killer2:
			l.ratings[i] = -1
		default:
			l.ratings[i] = g.history.Get(m) - table.MaxHistoryValue - 2
		}
	}
}
