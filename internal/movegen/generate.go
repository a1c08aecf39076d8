package movegen

import "github.com/hailam/chesscore/internal/board"

var promotionTypes = [4]board.PieceType{board.Queen, board.Rook, board.Bishop, board.Knight}

// pawnForward returns the push direction of pawns of the given color.
func pawnForward(c board.Color) int {
	if c == board.White {
		return board.North
	}
	return board.South
}

// pawnCaptureDeltas returns the capture directions of pawns of the given color.
func pawnCaptureDeltas(c board.Color) [2]int {
	if c == board.White {
		return [2]int{board.NorthWest, board.NorthEast}
	}
	return [2]int{board.SouthWest, board.SouthEast}
}

func pieceDeltas(pt board.PieceType) []int {
	switch pt {
	case board.Knight:
		return board.KnightDeltas
	case board.Bishop:
		return board.BishopDeltas
	case board.Rook:
		return board.RookDeltas
	case board.Queen:
		return board.QueenDeltas
	default:
		return board.KingDeltas
	}
}

// generateCaptures adds every pseudo-legal capture to the move window. Piece
// moves to empty squares seen on the way are kept in the quiet window.
func (g *Generator) generateCaptures() {
	pos := g.pos
	us := pos.ActiveColor()

	pawns := pos.Pieces(us, board.Pawn)
	for pawns != 0 {
		g.addPawnCaptures(pawns.PopLSB(), us)
	}

	for pt := board.Knight; pt <= board.King; pt++ {
		bb := pos.Pieces(us, pt)
		for bb != 0 {
			g.addPieceCaptures(board.NewPiece(pt, us), bb.PopLSB())
		}
	}
}

func (g *Generator) addPawnCaptures(start board.Square, us board.Color) {
	pos := g.pos
	pawn := board.NewPiece(board.Pawn, us)

	for _, d := range pawnCaptureDeltas(us) {
		end := start.Add(d)
		if !end.IsValid() {
			continue
		}

		target := pos.PieceAt(end)
		if target == board.NoPiece {
			if end == pos.EnPassant() {
				victim := board.NewPiece(board.Pawn, us.Other())
				g.moves.add(board.NewMove(board.EnPassant, start, end, pawn, victim, board.NoPieceType))
			}
			continue
		}
		if target.Color() == us || target.Type() == board.King {
			continue
		}

		if end.RelativeRank(us) == 7 {
			for _, pt := range promotionTypes {
				g.moves.add(board.NewMove(board.Promotion, start, end, pawn, target, pt))
			}
		} else {
			g.moves.add(board.NewMove(board.Normal, start, end, pawn, target, board.NoPieceType))
		}
	}
}

func (g *Generator) addPieceCaptures(piece board.Piece, start board.Square) {
	pos := g.pos
	sliding := piece.Type().IsSliding()

	for _, d := range pieceDeltas(piece.Type()) {
		for end := start.Add(d); end.IsValid(); end = end.Add(d) {
			target := pos.PieceAt(end)
			if target == board.NoPiece {
				g.quiet.add(board.NewMove(board.Normal, start, end, piece, board.NoPiece, board.NoPieceType))
				if !sliding {
					break
				}
				continue
			}
			if target.Color() != piece.Color() && target.Type() != board.King {
				g.moves.add(board.NewMove(board.Normal, start, end, piece, target, board.NoPieceType))
			}
			break
		}
	}
}

// generateNonCaptures adds pawn pushes, the piece moves collected during
// capture generation and castling.
func (g *Generator) generateNonCaptures() {
	pos := g.pos
	us := pos.ActiveColor()

	pawns := pos.Pieces(us, board.Pawn)
	for pawns != 0 {
		g.addPawnPushes(pawns.PopLSB(), us)
	}

	g.moves.copyFrom(g.quiet)

	g.addCastling(us)
}

func (g *Generator) addPawnPushes(start board.Square, us board.Color) {
	pos := g.pos
	pawn := board.NewPiece(board.Pawn, us)
	forward := pawnForward(us)

	end := start.Add(forward)
	if !pos.IsEmpty(end) {
		return
	}

	if end.RelativeRank(us) == 7 {
		for _, pt := range promotionTypes {
			g.moves.add(board.NewMove(board.Promotion, start, end, pawn, board.NoPiece, pt))
		}
		return
	}
	g.moves.add(board.NewMove(board.Normal, start, end, pawn, board.NoPiece, board.NoPieceType))

	if start.RelativeRank(us) == 1 {
		end = end.Add(forward)
		if pos.IsEmpty(end) {
			g.moves.add(board.NewMove(board.PawnDouble, start, end, pawn, board.NoPiece, board.NoPieceType))
		}
	}
}

// castling describes one castling option.
type castling struct {
	right    board.CastlingRights
	king     board.Piece
	start    board.Square
	end      board.Square
	passage  board.Square   // square the king crosses
	empty    []board.Square // squares between king and rook
	opponent board.Color
}

var castlings = [2][2]castling{
	board.White: {
		{board.WhiteKingSideCastle, board.WhiteKing, board.E1, board.G1, board.F1, []board.Square{board.F1, board.G1}, board.Black},
		{board.WhiteQueenSideCastle, board.WhiteKing, board.E1, board.C1, board.D1, []board.Square{board.B1, board.C1, board.D1}, board.Black},
	},
	board.Black: {
		{board.BlackKingSideCastle, board.BlackKing, board.E8, board.G8, board.F8, []board.Square{board.F8, board.G8}, board.White},
		{board.BlackQueenSideCastle, board.BlackKing, board.E8, board.C8, board.D8, []board.Square{board.B8, board.C8, board.D8}, board.White},
	},
}

func (c *castling) move() board.Move {
	return board.NewMove(board.Castling, c.start, c.end, c.king, board.NoPiece, board.NoPieceType)
}

// castlingAllowed tests rights, empty squares and the passage square.
// The end square is left to the legality test.
func (g *Generator) castlingAllowed(c *castling) bool {
	pos := g.pos
	if pos.CastlingRights()&c.right == 0 {
		return false
	}
	for _, sq := range c.empty {
		if !pos.IsEmpty(sq) {
			return false
		}
	}
	return !pos.IsAttacked(c.passage, c.opponent)
}

func (g *Generator) addCastling(us board.Color) {
	for i := range castlings[us] {
		c := &castlings[us][i]
		if g.castlingAllowed(c) {
			g.moves.add(c.move())
		}
	}
}
