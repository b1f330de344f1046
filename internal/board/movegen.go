package board

// knightJumps holds the eight knight offsets.
var knightJumps = [8]int{15, 17, 10, 6, -15, -17, -10, -6}

// GeneratePseudoLegalMoves generates all moves for the side to move that obey
// piece movement rules, including ones that leave the own king in check.
func (p *Position) GeneratePseudoLegalMoves() []Move {
	us := p.SideToMove
	moves := make([]Move, 0, 48)

	for i, piece := range p.Squares {
		if piece.Color() != us {
			continue
		}
		from := Square(i)
		switch {
		case piece.IsSlider():
			moves = p.appendSlidingMoves(moves, from, piece, false)
		case piece.Is(Knight):
			moves = p.appendKnightMoves(moves, from, us, false)
		case piece.Is(Pawn):
			moves = p.appendPawnMoves(moves, from, us)
		case piece.Is(King):
			moves = p.appendKingMoves(moves, from, us, false)
		}
	}

	return moves
}

// appendSlidingMoves walks the rays of a queen, rook or bishop standing on
// from. In attack-only mode the first friendly blocker is included as well.
func (p *Position) appendSlidingMoves(moves []Move, from Square, piece Piece, attackOnly bool) []Move {
	friendly := piece.Color()
	opponent := friendly.Other()

	startDir, endDir := 0, 8
	switch piece.Type() {
	case Bishop:
		startDir = 4
	case Rook:
		endDir = 4
	}

	for dir := startDir; dir < endDir; dir++ {
		for n := 1; n <= NumSquaresToEdge[from][dir]; n++ {
			to := from + Square(DirectionOffsets[dir]*n)
			target := p.Squares[to]

			// Blocked by a friendly piece
			if target.Color() == friendly {
				if attackOnly {
					moves = append(moves, NewMove(from, to))
				}
				break
			}

			moves = append(moves, NewMove(from, to))

			// Capture ends the ray
			if target.Color() == opponent {
				break
			}
		}
	}

	return moves
}

// appendKnightMoves adds knight jumps from from. A jump that lands on the
// same checkerboard color as its start has wrapped around a board edge.
func (p *Position) appendKnightMoves(moves []Move, from Square, friendly Color, attackOnly bool) []Move {
	for _, jump := range knightJumps {
		to := from + Square(jump)
		if !to.IsValid() || to.lightSquare() == from.lightSquare() {
			continue
		}
		if attackOnly || p.Squares[to].Color() != friendly {
			moves = append(moves, NewMove(from, to))
		}
	}
	return moves
}

// appendPawnMoves adds pushes, double pushes and captures for a pawn.
func (p *Position) appendPawnMoves(moves []Move, from Square, us Color) []Move {
	if from.Row() == p.promotionRow(us) {
		return moves
	}

	forward := Square(p.pawnForward(us))
	if one := from + forward; p.Squares[one] == Empty {
		moves = append(moves, NewMove(from, one))
		if two := one + forward; from.Row() == p.pawnStartRow(us) && p.Squares[two] == Empty {
			moves = append(moves, NewMove(from, two))
		}
	}

	return p.appendPawnAttacks(moves, from, us, false)
}

// pawnCaptureDirs returns the two diagonal directions a pawn of color c
// captures along.
func (p *Position) pawnCaptureDirs(c Color) [2]int {
	if p.pawnsMoveUp(c) {
		return [2]int{NorthEast, NorthWest}
	}
	return [2]int{SouthWest, SouthEast}
}

// appendPawnAttacks adds diagonal captures onto opposing pieces and, unless
// attackOnly, en passant captures of the pawn that just jumped beside us.
func (p *Position) appendPawnAttacks(moves []Move, from Square, us Color, attackOnly bool) []Move {
	them := us.Other()
	forward := Square(p.pawnForward(us))

	for _, dir := range p.pawnCaptureDirs(us) {
		if NumSquaresToEdge[from][dir] == 0 {
			continue
		}
		to := from + Square(DirectionOffsets[dir])
		target := p.Squares[to]

		if target != Empty && target.Color() == them {
			moves = append(moves, NewMove(from, to))
			continue
		}

		if attackOnly {
			continue
		}

		// The jumped pawn stands beside us, behind the target square.
		victim := to - forward
		if target == Empty && victim == p.PawnJump && p.Squares[victim] == NewPiece(Pawn, them) {
			moves = append(moves, NewEnPassant(from, to, victim))
		}
	}

	return moves
}

// appendKingMoves adds single king steps and, for real moves, castling.
func (p *Position) appendKingMoves(moves []Move, from Square, us Color, attackOnly bool) []Move {
	for dir := 0; dir < 8; dir++ {
		if NumSquaresToEdge[from][dir] == 0 {
			continue
		}
		to := from + Square(DirectionOffsets[dir])
		if attackOnly || p.Squares[to].Color() != us {
			moves = append(moves, NewMove(from, to))
		}
	}

	if attackOnly {
		return moves
	}
	return p.appendCastlingMoves(moves, from, us)
}

// appendCastlingMoves adds castling when the king and the rook are unmoved,
// every square between them is empty, the king is not in check and the
// square it crosses is not attacked.
func (p *Position) appendCastlingMoves(moves []Move, from Square, us Color) []Move {
	if from.Row() != p.backRow(us) || p.Castling.KingMoved(us) {
		return moves
	}
	them := us.Other()
	if p.SquareAttacked(from, them) {
		return moves
	}

	for _, kingSide := range [2]bool{false, true} {
		if p.Castling.RookMoved(us, kingSide) {
			continue
		}

		rookFile, dir := 0, Square(DirectionOffsets[East])
		if kingSide {
			rookFile, dir = 7, Square(DirectionOffsets[West])
		}
		rookSq := NewSquare(from.Row(), rookFile)
		if p.Squares[rookSq] != NewPiece(Rook, us) || abs(int(rookSq-from)) < 3 {
			continue
		}

		blocked := false
		for sq := from + dir; sq != rookSq; sq += dir {
			if p.Squares[sq] != Empty {
				blocked = true
				break
			}
		}
		if blocked || p.SquareAttacked(from+dir, them) {
			continue
		}

		moves = append(moves, NewMove(from, from+2*dir))
	}

	return moves
}
