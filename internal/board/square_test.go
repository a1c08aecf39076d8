package board

import (
	"errors"
	"testing"
)

func TestSquareIndex(t *testing.T) {
	for i := 0; i < 64; i++ {
		sq := SquareFrom64(i)
		if !sq.IsValid() {
			t.Fatalf("SquareFrom64(%d) = %#x is off the board", i, uint8(sq))
		}
		if sq.Index64() != i {
			t.Errorf("SquareFrom64(%d).Index64() = %d", i, sq.Index64())
		}
	}

	if E4 != NewSquare(4, 3) || E4.File() != 4 || E4.Rank() != 3 {
		t.Errorf("E4 = %#x", uint8(E4))
	}
	if NoSquare.IsValid() {
		t.Error("NoSquare must be off the board")
	}
	if H1.Add(East).IsValid() || A1.Add(South).IsValid() {
		t.Error("Steps off the edge must be invalid")
	}
}

func TestParseSquare(t *testing.T) {
	for _, sq := range []Square{A1, H1, E4, A8, H8} {
		got, err := ParseSquare(sq.String())
		if err != nil || got != sq {
			t.Errorf("ParseSquare(%q) = %s, %v", sq.String(), got, err)
		}
	}

	for _, s := range []string{"", "e", "i1", "a9", "e44"} {
		if _, err := ParseSquare(s); !errors.Is(err, ErrInvalidSquare) {
			t.Errorf("ParseSquare(%q) error = %v, want ErrInvalidSquare", s, err)
		}
	}
}

func TestGeometry(t *testing.T) {
	g := DefaultTables().Geometry

	tests := []struct {
		from, to Square
		vector   Direction
		delta    int
	}{
		{E4, E5, StraightAdjacent, North},
		{E4, E8, Straight, North},
		{E4, A4, Straight, West},
		{E4, F5, DiagonalUp, NorthEast},
		{E4, D5, DiagonalUp, NorthWest},
		{E4, D3, DiagonalDown, SouthWest},
		{E4, H7, Diagonal, NorthEast},
		{E4, A8, Diagonal, NorthWest},
		{E4, F6, KnightHop, 33},
		{E4, F7, NoDirection, 0},
		{A1, H8, Diagonal, NorthEast},
	}

	for _, tc := range tests {
		if got := g.Vector(tc.from, tc.to); got != tc.vector {
			t.Errorf("Vector(%s, %s) = %d, want %d", tc.from, tc.to, got, tc.vector)
		}
		if got := g.Delta(tc.from, tc.to); got != tc.delta {
			t.Errorf("Delta(%s, %s) = %d, want %d", tc.from, tc.to, got, tc.delta)
		}
	}

	if !g.IsLine(A1, H8) || g.IsLine(E4, F6) || g.IsLine(E4, F7) {
		t.Error("IsLine mismatch")
	}
}

func TestZobristCastlingKeysAreLinear(t *testing.T) {
	z := DefaultTables().Zobrist

	if z.Castling(NoCastling) != 0 {
		t.Error("Empty rights must have a zero key")
	}
	for a := CastlingRights(0); a < 16; a++ {
		for b := CastlingRights(0); b < 16; b++ {
			if z.Castling(a)^z.Castling(b) != z.Castling(a^b) {
				t.Fatalf("Castling(%s) ^ Castling(%s) != Castling(%s)", a, b, a^b)
			}
		}
	}
}

func TestTablesAreDeterministic(t *testing.T) {
	a := NewTables(DefaultSeed)
	b := DefaultTables()
	if a.Zobrist.Piece(WhiteKing, E1) != b.Zobrist.Piece(WhiteKing, E1) {
		t.Error("Same seed gave different keys")
	}
	if NewTables(1).Zobrist.SideToMove() == b.Zobrist.SideToMove() {
		t.Error("Different seeds gave the same side key")
	}
}
