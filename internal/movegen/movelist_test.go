package movegen

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hailam/chesscore/internal/board"
)

func quietMove(start, end board.Square) board.Move {
	return board.NewMove(board.Normal, start, end, board.WhiteKnight, board.NoPiece, board.NoPieceType)
}

func TestMoveListSort(t *testing.T) {
	l := NewMoveList()
	l.push()

	a, b, c, d := quietMove(board.B1, board.A3), quietMove(board.B1, board.C3), quietMove(board.G1, board.F3), quietMove(board.G1, board.H3)
	for i, m := range []board.Move{a, b, c, d} {
		l.add(m)
		l.ratings[l.tail-1] = []int{5, 10, 5, -3}[i]
	}
	l.sort()

	// Equal ratings keep generation order.
	if diff := cmp.Diff([]board.Move{b, a, c, d}, l.Moves()); diff != "" {
		t.Errorf("sort mismatch (-want +got):\n%s", diff)
	}
}

func TestMoveListWindows(t *testing.T) {
	l := NewMoveList()
	a, b, c := quietMove(board.B1, board.A3), quietMove(board.B1, board.C3), quietMove(board.G1, board.F3)

	l.push()
	l.add(a)
	l.add(b)
	if m, ok := l.next(); !ok || m != a {
		t.Fatalf("next = %s, %v", m, ok)
	}

	l.push()
	if l.Len() != 0 {
		t.Fatalf("child window has %d moves", l.Len())
	}
	l.add(c)
	l.add(c)
	l.reset()
	l.add(c)
	if diff := cmp.Diff([]board.Move{c}, l.Moves()); diff != "" {
		t.Errorf("child window mismatch (-want +got):\n%s", diff)
	}
	l.pop()

	if m, ok := l.next(); !ok || m != b {
		t.Errorf("parent next = %s, %v, want %s", m, ok, b)
	}
	if _, ok := l.next(); ok {
		t.Error("parent window not exhausted")
	}

	other := NewMoveList()
	other.push()
	other.copyFrom(l)
	if diff := cmp.Diff([]board.Move{a, b}, other.Moves()); diff != "" {
		t.Errorf("copyFrom mismatch (-want +got):\n%s", diff)
	}
}

func TestMoveListFullPanics(t *testing.T) {
	l := NewMoveList()
	l.push()
	for range MaxMoves {
		l.add(quietMove(board.B1, board.C3))
	}

	defer func() {
		if recover() == nil {
			t.Error("add past capacity did not panic")
		}
	}()
	l.add(quietMove(board.B1, board.C3))
}
