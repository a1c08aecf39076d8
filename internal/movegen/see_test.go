package movegen

import (
	"testing"

	"github.com/hailam/chesscore/internal/board"
)

func TestSEE(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		move string
		want int
	}{
		{
			name: "undefended pawn",
			fen:  "1k1r4/1pp4p/p7/4p3/8/P5P1/1PP4P/2K1R3 w - - 0 1",
			move: "e1e5",
			want: board.PawnValue,
		},
		{
			name: "pawn takes undefended pawn",
			fen:  "4k3/8/8/4p3/3P4/8/8/4K3 w - - 0 1",
			move: "d4e5",
			want: board.PawnValue,
		},
		{
			name: "defended pawn",
			fen:  "4k3/8/3p4/4p3/8/8/8/4RK2 w - - 0 1",
			move: "e1e5",
			want: board.PawnValue - board.RookValue,
		},
		{
			name: "x-ray battery",
			fen:  "1k1r3q/1ppn3p/p4b2/4p3/8/P2N2P1/1PP1R1BP/2K1Q3 w - - 0 1",
			move: "d3e5",
			want: board.PawnValue - board.KnightValue,
		},
		{
			name: "quiet move to attacked square",
			fen:  "4k3/8/8/8/3p4/8/8/2B1K3 w - - 0 1",
			move: "c1e3",
			want: -board.BishopValue,
		},
		{
			name: "quiet move to safe square",
			fen:  "4k3/8/8/3p4/8/8/8/3NK3 w - - 0 1",
			move: "d1c3",
			want: 0,
		},
		{
			name: "en passant uncovers rook",
			fen:  "3rk3/8/8/3pP3/8/8/8/3RK3 w - d6 0 2",
			move: "e5d6",
			want: board.PawnValue,
		},
		{
			name: "promotion capture",
			fen:  "1r2k3/P7/8/8/8/8/8/4K3 w - - 0 1",
			move: "a7b8q",
			want: board.RookValue + board.QueenValue - board.PawnValue,
		},
		{
			name: "promotion capture recaptured by king",
			fen:  "1rk5/P7/8/8/8/8/8/4K3 w - - 0 1",
			move: "a7b8q",
			want: board.RookValue - board.PawnValue,
		},
		{
			name: "king cannot recapture a defended square",
			fen:  "4k3/3p4/8/8/8/8/3R4/3RK3 w - - 0 1",
			move: "d2d7",
			want: board.PawnValue,
		},
		{
			name: "king recaptures an undefended square",
			fen:  "4k3/3p4/8/8/8/8/8/3RK3 w - - 0 1",
			move: "d1d7",
			want: board.PawnValue - board.RookValue,
		},
		{
			name: "pawn recapture promotes",
			fen:  "rN2k3/P7/8/8/8/8/8/4K3 b - - 0 1",
			move: "a8b8",
			want: board.KnightValue - (board.RookValue + board.QueenValue - board.PawnValue),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := mustPosition(t, tc.fen)
			m := mustMove(t, pos, tc.move)
			before := pos.FEN()

			if got := SEE(pos, m); got != tc.want {
				t.Errorf("SEE(%s) = %d, want %d", tc.move, got, tc.want)
			}
			if pos.FEN() != before {
				t.Errorf("SEE changed the position: %s", pos.FEN())
			}
		})
	}
}

func TestIsGoodCapture(t *testing.T) {
	tests := []struct {
		fen  string
		move string
		want bool
	}{
		{"4k3/8/3p4/4p3/8/8/8/4RK2 w - - 0 1", "e1e5", false},
		{"4k3/8/8/4p3/8/8/8/4RK2 w - - 0 1", "e1e5", true},
		{"4k3/8/3p4/4q3/8/8/8/4RK2 w - - 0 1", "e1e5", true},
		{"1r2k3/P7/8/8/8/8/8/4K3 w - - 0 1", "a7b8q", true},
		{"1r2k3/P7/8/8/8/8/8/4K3 w - - 0 1", "a7b8n", false},
	}

	for _, tc := range tests {
		t.Run(tc.move, func(t *testing.T) {
			pos := mustPosition(t, tc.fen)
			g := New(pos, nil, nil)
			if got := g.isGoodCapture(mustMove(t, pos, tc.move)); got != tc.want {
				t.Errorf("isGoodCapture(%s) = %v, want %v", tc.move, got, tc.want)
			}
		})
	}
}

func TestSEEListOrder(t *testing.T) {
	var l seeList
	l.append(board.WhitePawn, board.D4)
	l.insert(board.WhiteQueen, board.D1, false)
	l.insert(board.WhiteRook, board.A5, false)
	l.insert(board.WhiteBishop, board.B2, false)
	l.append(board.WhiteKnight, board.F3)
	l.insert(board.WhiteBishop, board.H2, true)

	want := []board.Square{board.D4, board.H2, board.B2, board.A5, board.D1, board.F3}
	if l.size != len(want) {
		t.Fatalf("size = %d, want %d", l.size, len(want))
	}
	for i, sq := range want {
		if l.entries[i].square != sq {
			t.Errorf("entries[%d] = %s, want %s", i, l.entries[i].square, sq)
		}
	}

	l.remove(board.A5)
	if e, _ := l.shift(); e.square != board.D4 || l.size != 4 {
		t.Errorf("shift = %s, size %d", e.square, l.size)
	}
}
