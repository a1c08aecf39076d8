package movegen

import "github.com/hailam/chesscore/internal/board"

// generateEvasion adds the legal replies to a check: king moves, captures
// of a single checker and interpositions against a single sliding checker.
func (g *Generator) generateEvasion(attack *board.Attack) {
	pos := g.pos
	us := pos.ActiveColor()
	them := us.Other()
	kingSquare := pos.King(us)
	king := board.NewPiece(board.King, us)

	// King moves
next:
	for _, d := range board.KingDeltas {
		// Stepping away from a slider along its line stays in check.
		for i := 0; i < attack.Count; i++ {
			if pos.PieceAt(attack.Squares[i]).Type().IsSliding() && attack.Deltas[i] == d {
				continue next
			}
		}

		end := kingSquare.Add(d)
		if !end.IsValid() {
			continue
		}
		target := pos.PieceAt(end)
		if target != board.NoPiece && (target.Color() == us || target.Type() == board.King) {
			continue
		}
		if pos.IsAttacked(end, them) {
			continue
		}
		g.addLegal(board.NewMove(board.Normal, kingSquare, end, king, target, board.NoPieceType))
	}

	// Only the king can escape a double check.
	if attack.Count >= 2 {
		return
	}

	checkerSquare := attack.Squares[0]
	checker := pos.PieceAt(checkerSquare)

	// Capture the checker
	g.addPawnCapturesTo(checkerSquare, us)
	g.addPieceMovesTo(checkerSquare, us)

	// Interpose between a slider and the king
	if checker.Type().IsSliding() {
		d := attack.Deltas[0]
		for sq := checkerSquare.Add(d); sq != kingSquare; sq = sq.Add(d) {
			g.addPawnPushesTo(sq, us)
			g.addPieceMovesTo(sq, us)
		}
	}
}

// addLegal adds a move to the window if it passes the legality test.
func (g *Generator) addLegal(m board.Move) {
	if g.isLegal(m) {
		g.moves.add(m)
	}
}

// addPawnCapturesTo adds captures of the piece on target by unpinned pawns,
// including the en passant capture of a pawn that just moved two squares.
func (g *Generator) addPawnCapturesTo(target board.Square, us board.Color) {
	pos := g.pos
	pawn := board.NewPiece(board.Pawn, us)
	victim := pos.PieceAt(target)

	for _, d := range pawnCaptureDeltas(us) {
		start := target.Add(-d)
		if !start.IsValid() || pos.PieceAt(start) != pawn || pos.IsPinned(start, us) {
			continue
		}
		if target.RelativeRank(us) == 7 {
			for _, pt := range promotionTypes {
				g.addLegal(board.NewMove(board.Promotion, start, target, pawn, victim, pt))
			}
		} else {
			g.addLegal(board.NewMove(board.Normal, start, target, pawn, victim, board.NoPieceType))
		}
	}

	ep := pos.EnPassant()
	if ep == board.NoSquare || target.Add(pawnForward(us)) != ep {
		return
	}
	for _, d := range [2]int{board.West, board.East} {
		start := target.Add(d)
		if !start.IsValid() || pos.PieceAt(start) != pawn || pos.IsPinned(start, us) {
			continue
		}
		g.addLegal(board.NewMove(board.EnPassant, start, ep, pawn, victim, board.NoPieceType))
	}
}

// addPawnPushesTo adds pushes of unpinned pawns onto the empty square target.
func (g *Generator) addPawnPushesTo(target board.Square, us board.Color) {
	pos := g.pos
	pawn := board.NewPiece(board.Pawn, us)
	forward := pawnForward(us)

	start := target.Add(-forward)
	if !start.IsValid() {
		return
	}

	switch pos.PieceAt(start) {
	case pawn:
		if pos.IsPinned(start, us) {
			return
		}
		if target.RelativeRank(us) == 7 {
			for _, pt := range promotionTypes {
				g.addLegal(board.NewMove(board.Promotion, start, target, pawn, board.NoPiece, pt))
			}
			return
		}
		g.addLegal(board.NewMove(board.Normal, start, target, pawn, board.NoPiece, board.NoPieceType))
	case board.NoPiece:
		if target.RelativeRank(us) != 3 {
			return
		}
		start = start.Add(-forward)
		if pos.PieceAt(start) != pawn || pos.IsPinned(start, us) {
			return
		}
		g.addLegal(board.NewMove(board.PawnDouble, start, target, pawn, board.NoPiece, board.NoPieceType))
	}
}

// addPieceMovesTo adds moves of unpinned knights, bishops, rooks and queens
// onto target, which is either empty or holds the checker.
func (g *Generator) addPieceMovesTo(target board.Square, us board.Color) {
	pos := g.pos
	victim := pos.PieceAt(target)

	for pt := board.Knight; pt <= board.Queen; pt++ {
		bb := pos.Pieces(us, pt)
		for bb != 0 {
			start := bb.PopLSB()
			if !pos.CanAttack(pt, us, start, target) || pos.IsPinned(start, us) {
				continue
			}
			g.addLegal(board.NewMove(board.Normal, start, target, board.NewPiece(pt, us), victim, board.NoPieceType))
		}
	}
}
