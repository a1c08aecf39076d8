package movegen

import (
	"slices"
	"testing"

	"github.com/dylhunn/dragontoothmg"
	"github.com/google/go-cmp/cmp"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/table"
)

const (
	kiwipeteFEN  = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	endgameFEN   = "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"
	mirrorFEN    = "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1"
	talkchessFEN = "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8"
	middleFEN    = "r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10"
)

func mustPosition(t *testing.T, fen string) *board.Position {
	t.Helper()
	pos, err := board.NewPositionFromFEN(board.DefaultTables(), fen)
	if err != nil {
		t.Fatalf("NewPositionFromFEN(%q): %v", fen, err)
	}
	return pos
}

func mustMove(t *testing.T, pos *board.Position, s string) board.Move {
	t.Helper()
	m, err := board.ParseMove(pos, s)
	if err != nil {
		t.Fatalf("ParseMove(%q): %v", s, err)
	}
	return m
}

func moveStrings(moves []board.Move) []string {
	s := make([]string, len(moves))
	for i, m := range moves {
		s[i] = m.String()
	}
	slices.Sort(s)
	return s
}

func referenceMoves(fen string) []string {
	b := dragontoothmg.ParseFen(fen)
	moves := b.GenerateLegalMoves()
	s := make([]string, len(moves))
	for i := range moves {
		s[i] = moves[i].String()
	}
	slices.Sort(s)
	return s
}

// perft drives the staged generator recursively, nesting one frame per ply.
func perft(g *Generator, pos *board.Position, depth, height int) uint64 {
	if depth == 0 {
		return 1
	}

	g.InitializeMain(pos.GetAttack(pos.ActiveColor()), height, board.NoMove)
	defer g.Destroy()

	var nodes uint64
	for m := g.Next(); m != board.NoMove; m = g.Next() {
		pos.MakeMove(m)
		nodes += perft(g, pos, depth-1, height+1)
		pos.UndoMove(m)
	}
	return nodes
}

func TestPerft(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		nodes []uint64
	}{
		{"start", board.StartFEN, []uint64{20, 400, 8902, 197281}},
		{"kiwipete", kiwipeteFEN, []uint64{48, 2039, 97862}},
		{"endgame", endgameFEN, []uint64{14, 191, 2812, 43238}},
		{"mirror", mirrorFEN, []uint64{6, 264, 9467}},
		{"talkchess", talkchessFEN, []uint64{44, 1486, 62379}},
		{"middlegame", middleFEN, []uint64{46, 2079, 89890}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := mustPosition(t, tc.fen)
			g := New(pos, nil, nil)

			for i, want := range tc.nodes {
				depth := i + 1
				if testing.Short() && want > 10000 {
					break
				}
				if got := perft(g, pos, depth, 0); got != want {
					t.Errorf("perft(%d) = %d, want %d", depth, got, want)
				}
			}

			if g.Depth() != 0 {
				t.Errorf("Depth = %d after perft", g.Depth())
			}
			if pos.FEN() != tc.fen {
				t.Errorf("Position changed: %s", pos.FEN())
			}
		})
	}
}

// checkWalk verifies that IsCheckingMove agrees with the attack computed
// after each move, and returns the number of moves compared.
func checkWalk(t *testing.T, g *Generator, pos *board.Position, depth, height int) int {
	t.Helper()
	if depth == 0 {
		return 0
	}

	g.InitializeMain(pos.GetAttack(pos.ActiveColor()), height, board.NoMove)
	defer g.Destroy()

	var n int
	for m := g.Next(); m != board.NoMove; m = g.Next() {
		want := pos.IsCheckingMove(m)
		fen := pos.FEN()
		pos.MakeMove(m)
		if got := pos.GetAttack(pos.ActiveColor()).IsCheck(); got != want {
			t.Errorf("%s in %s: IsCheckingMove = %t, check after move = %t", m, fen, want, got)
		}
		n += 1 + checkWalk(t, g, pos, depth-1, height+1)
		pos.UndoMove(m)
	}
	return n
}

func TestCheckingMovesMatchAttack(t *testing.T) {
	fens := []string{
		board.StartFEN,
		kiwipeteFEN,
		endgameFEN,
		mirrorFEN,
		talkchessFEN,
		middleFEN,
	}

	depth := 3
	if testing.Short() {
		depth = 2
	}

	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			pos := mustPosition(t, fen)
			g := New(pos, nil, nil)
			if n := checkWalk(t, g, pos, depth, 0); n == 0 {
				t.Error("No moves compared")
			}
			if pos.FEN() != fen {
				t.Errorf("Position changed: %s", pos.FEN())
			}
		})
	}
}

func TestPinnedRookStaysOnFile(t *testing.T) {
	const fen = "4r1k1/8/8/8/8/8/4R3/4K3 w - - 0 1"
	pos := mustPosition(t, fen)

	want := []string{
		"e1d1", "e1d2", "e1f1", "e1f2",
		"e2e3", "e2e4", "e2e5", "e2e6", "e2e7", "e2e8",
	}
	got := moveStrings(LegalMoves(pos))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Legal moves mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(referenceMoves(fen), got); diff != "" {
		t.Errorf("Reference mismatch (-want +got):\n%s", diff)
	}
}

func TestLegalMovesMatchReference(t *testing.T) {
	fens := []string{
		board.StartFEN,
		kiwipeteFEN,
		endgameFEN,
		mirrorFEN,
		talkchessFEN,
		middleFEN,
		"4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 2",
		"r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1",
		"8/P6k/8/8/8/8/6Kp/8 b - - 0 1",
	}

	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			pos := mustPosition(t, fen)
			moves := LegalMoves(pos)

			if diff := cmp.Diff(referenceMoves(fen), moveStrings(moves)); diff != "" {
				t.Fatalf("Root moves mismatch (-want +got):\n%s", diff)
			}

			for _, m := range moves {
				pos.MakeMove(m)
				child := pos.FEN()
				if diff := cmp.Diff(referenceMoves(child), moveStrings(LegalMoves(pos))); diff != "" {
					t.Errorf("Moves after %s (%s) mismatch (-want +got):\n%s", m, child, diff)
				}
				pos.UndoMove(m)
			}
		})
	}
}

func TestTranspositionMoveFirst(t *testing.T) {
	pos := mustPosition(t, kiwipeteFEN)
	want := moveStrings(LegalMoves(pos))

	tests := []struct {
		name    string
		ttMove  string
		isFirst bool
	}{
		{"capture", "e2a6", true},
		{"quiet", "a2a3", true},
		{"castling", "e1c1", true},
		{"wrong piece", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ttMove := board.NewMove(board.Normal, board.E2, board.E4, board.WhitePawn, board.NoPiece, board.NoPieceType)
			if tc.ttMove != "" {
				ttMove = mustMove(t, pos, tc.ttMove)
			}

			g := New(pos, nil, nil)
			g.InitializeMain(pos.GetAttack(board.White), 0, ttMove)
			var got []board.Move
			for m := g.Next(); m != board.NoMove; m = g.Next() {
				got = append(got, m)
			}
			g.Destroy()

			if (got[0] == ttMove) != tc.isFirst {
				t.Errorf("First move = %s, transposition move %s", got[0], ttMove)
			}
			if diff := cmp.Diff(want, moveStrings(got)); diff != "" {
				t.Errorf("Move set mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestKillersAfterGoodCaptures(t *testing.T) {
	pos := mustPosition(t, kiwipeteFEN)

	killers := table.NewKillerTable()
	killer1 := mustMove(t, pos, "a2a3")
	killer2 := mustMove(t, pos, "e1g1")
	killers.Add(killer2, 2)
	killers.Add(killer1, 2)
	// Not pseudo-legal here: b1 is empty.
	killers.Add(board.NewMove(board.Normal, board.B1, board.C3, board.WhiteKnight, board.NoPiece, board.NoPieceType), 3)

	history := table.NewHistoryTable()
	history.Add(mustMove(t, pos, "g2g3"), 50)

	g := New(pos, killers, history)
	for _, height := range []int{2, 3} {
		g.InitializeMain(pos.GetAttack(board.White), height, board.NoMove)
		var got []board.Move
		for m := g.Next(); m != board.NoMove; m = g.Next() {
			got = append(got, m)
		}
		g.Destroy()

		if diff := cmp.Diff(moveStrings(LegalMoves(pos)), moveStrings(got)); diff != "" {
			t.Fatalf("height %d: move set mismatch (-want +got):\n%s", height, diff)
		}
		if height != 2 {
			continue
		}

		i1 := slices.Index(got, killer1)
		i2 := slices.Index(got, killer2)
		if i1 < 0 || i2 != i1+1 {
			t.Fatalf("Killers at %d and %d", i1, i2)
		}
		for _, m := range got[:i1] {
			if !m.IsCapture() {
				t.Errorf("Quiet move %s before the killers", m)
			}
		}
		if quiet := got[i2+1]; quiet.String() != "g2g3" {
			t.Errorf("First quiet move = %s, want g2g3 by history", quiet)
		}
	}
}

func TestEvasions(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		moves int
	}{
		{"bishop check", mirrorFEN, 6},
		{"double check", "4k3/8/8/8/8/5n2/8/r3K3 w - - 0 1", 2},
		{"checkmate", "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", 0},
		{"pawn check", "4k3/8/8/8/8/8/3p4/4K3 w - - 0 1", 5},
		{"en passant evasion", "8/8/8/2k5/3Pp3/8/8/4K3 b - d3 0 1", 9},
		{"interpose promotion", "r6K/4P3/8/8/8/8/8/k7 w - - 0 1", 6},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := mustPosition(t, tc.fen)
			attack := pos.GetAttack(pos.ActiveColor())
			if !attack.IsCheck() {
				t.Fatal("Side to move is not in check")
			}

			g := New(pos, nil, nil)
			g.InitializeMain(attack, 0, board.NoMove)
			var got []board.Move
			for m := g.Next(); m != board.NoMove; m = g.Next() {
				got = append(got, m)
			}
			g.Destroy()

			want := referenceMoves(tc.fen)
			if diff := cmp.Diff(want, moveStrings(got)); diff != "" {
				t.Errorf("Evasions mismatch (-want +got):\n%s", diff)
			}
			if len(got) != tc.moves || attack.NumberOfMoves != tc.moves {
				t.Errorf("Got %d evasions, NumberOfMoves %d, want %d", len(got), attack.NumberOfMoves, tc.moves)
			}
		})
	}
}

func TestEvasionOrder(t *testing.T) {
	// Black is in check from the bishop on b5, which the pawn on a6 can take.
	pos := mustPosition(t, "r3k3/8/p7/1B6/8/8/8/4K3 b - - 0 1")

	ttMove := mustMove(t, pos, "e8f8")
	killers := table.NewKillerTable()
	killers.Add(mustMove(t, pos, "e8e7"), 0)

	g := New(pos, killers, nil)
	g.InitializeMain(pos.GetAttack(board.Black), 0, ttMove)
	defer g.Destroy()

	var got []string
	for m := g.Next(); m != board.NoMove; m = g.Next() {
		got = append(got, m.String())
	}

	if len(got) < 3 || got[0] != "e8f8" || got[1] != "a6b5" || got[2] != "e8e7" {
		t.Errorf("Evasion order = %v, want e8f8 a6b5 e8e7 first", got)
	}
}

func TestQuiescentCaptures(t *testing.T) {
	fens := []string{kiwipeteFEN, mirrorFEN, talkchessFEN, middleFEN, "1k1r3q/1ppn3p/p4b2/4p3/8/P2N2P1/1PP1R1BP/2K1Q3 w - - 0 1"}

	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			pos := mustPosition(t, fen)
			g := New(pos, nil, nil)

			attack := pos.GetAttack(pos.ActiveColor())
			if attack.IsCheck() {
				g.InitializeQuiescent(attack, false)
				got := drain(g)
				g.Destroy()
				if diff := cmp.Diff(moveStrings(LegalMoves(pos)), moveStrings(got)); diff != "" {
					t.Errorf("Quiescent evasions mismatch (-want +got):\n%s", diff)
				}
				return
			}

			var captures, checks []board.Move
			for _, m := range LegalMoves(pos) {
				switch {
				case m.IsCapture():
					if g.isGoodCapture(m) {
						captures = append(captures, m)
					}
				case pos.IsCheckingMove(m) && SEE(pos, m) >= 0:
					checks = append(checks, m)
				}
			}

			g.InitializeQuiescent(attack, false)
			got := drain(g)
			g.Destroy()
			if diff := cmp.Diff(moveStrings(captures), moveStrings(got)); diff != "" {
				t.Errorf("Captures mismatch (-want +got):\n%s", diff)
			}

			g.InitializeQuiescent(attack, true)
			got = drain(g)
			g.Destroy()
			want := append(moveStrings(captures), moveStrings(checks)...)
			slices.Sort(want)
			if diff := cmp.Diff(want, moveStrings(got)); diff != "" {
				t.Errorf("Captures and checks mismatch (-want +got):\n%s", diff)
			}
			for _, m := range got[len(captures):] {
				pos.MakeMove(m)
				if !pos.InCheck() {
					t.Errorf("%s does not give check", m)
				}
				pos.UndoMove(m)
			}
		})
	}
}

func TestNestedFrames(t *testing.T) {
	pos := mustPosition(t, kiwipeteFEN)
	want := LegalMoves(pos)

	g := New(pos, nil, nil)
	g.InitializeMain(pos.GetAttack(board.White), 0, board.NoMove)

	var got []board.Move
	for m := g.Next(); m != board.NoMove; m = g.Next() {
		got = append(got, m)

		pos.MakeMove(m)
		g.InitializeQuiescent(pos.GetAttack(pos.ActiveColor()), true)
		drain(g)
		g.Destroy()
		pos.UndoMove(m)
	}
	g.Destroy()

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parent frame disturbed by child frames (-want +got):\n%s", diff)
	}
}

func TestDestroyWithoutInitializePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Destroy did not panic")
		}
	}()
	New(mustPosition(t, board.StartFEN), nil, nil).Destroy()
}

func drain(g *Generator) []board.Move {
	var moves []board.Move
	for m := g.Next(); m != board.NoMove; m = g.Next() {
		moves = append(moves, m)
	}
	return moves
}
