package movegen

import "github.com/hailam/chesscore/internal/board"

// generateChecks adds quiet moves that give check, directly or by
// uncovering a slider on the enemy king.
func (g *Generator) generateChecks() {
	pos := g.pos
	us := pos.ActiveColor()
	them := us.Other()
	enemyKing := pos.King(them)

	pawns := pos.Pieces(us, board.Pawn)
	for pawns != 0 {
		start := pawns.PopLSB()
		g.addPawnCheckPushes(start, us, enemyKing, pos.IsPinned(start, them))
	}

	for pt := board.Knight; pt <= board.King; pt++ {
		bb := pos.Pieces(us, pt)
		for bb != 0 {
			start := bb.PopLSB()
			g.addPieceChecks(board.NewPiece(pt, us), start, enemyKing, pos.IsPinned(start, them))
		}
	}

	for i := range castlings[us] {
		c := &castlings[us][i]
		if !g.castlingAllowed(c) {
			continue
		}
		if m := c.move(); pos.IsCheckingMove(m) {
			g.moves.add(m)
		}
	}
}

// givesCheck tests a quiet move of a piece that does not change more than one line.
// A piece shielding the enemy king discovers check when it leaves the line.
func (g *Generator) givesCheck(pt board.PieceType, us board.Color, start, end, enemyKing board.Square, shielding bool) bool {
	if shielding && g.geo.Delta(start, enemyKing) != g.geo.Delta(end, enemyKing) {
		return true
	}
	return g.pos.CanAttack(pt, us, end, enemyKing)
}

func (g *Generator) addPawnCheckPushes(start board.Square, us board.Color, enemyKing board.Square, shielding bool) {
	pos := g.pos
	pawn := board.NewPiece(board.Pawn, us)
	forward := pawnForward(us)

	end := start.Add(forward)
	if !pos.IsEmpty(end) {
		return
	}

	if end.RelativeRank(us) == 7 {
		for _, pt := range promotionTypes {
			m := board.NewMove(board.Promotion, start, end, pawn, board.NoPiece, pt)
			if pos.IsCheckingMove(m) {
				g.moves.add(m)
			}
		}
		return
	}

	if g.givesCheck(board.Pawn, us, start, end, enemyKing, shielding) {
		g.moves.add(board.NewMove(board.Normal, start, end, pawn, board.NoPiece, board.NoPieceType))
	}

	if start.RelativeRank(us) == 1 {
		end = end.Add(forward)
		if pos.IsEmpty(end) && g.givesCheck(board.Pawn, us, start, end, enemyKing, shielding) {
			g.moves.add(board.NewMove(board.PawnDouble, start, end, pawn, board.NoPiece, board.NoPieceType))
		}
	}
}

func (g *Generator) addPieceChecks(piece board.Piece, start, enemyKing board.Square, shielding bool) {
	pos := g.pos
	pt, us := piece.Type(), piece.Color()
	sliding := pt.IsSliding()

	for _, d := range pieceDeltas(pt) {
		for end := start.Add(d); end.IsValid() && pos.IsEmpty(end); end = end.Add(d) {
			if g.givesCheck(pt, us, start, end, enemyKing, shielding) {
				g.moves.add(board.NewMove(board.Normal, start, end, piece, board.NoPiece, board.NoPieceType))
			}
			if !sliding {
				break
			}
		}
	}
}
