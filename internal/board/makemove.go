package board

// MakeMove applies a move to the position, pushing everything UnmakeMove
// needs onto the history stacks. Null moves and moves from an empty square
// are ignored.
func (p *Position) MakeMove(m Move) {
	if m.IsNull() {
		return
	}
	piece := p.Squares[m.From]
	if piece == Empty {
		return
	}
	us := piece.Color()

	p.moves = append(p.moves, m)
	p.castlingHistory = append(p.castlingHistory, p.Castling)
	p.PawnJump = pawnJump(piece, m)

	captured := p.Squares[m.To]
	p.markMoved(captured, m.To)
	p.markMoved(piece, m.From)

	p.captured = append(p.captured, captured)
	p.Squares[m.To] = piece
	p.Squares[m.From] = Empty

	// Promotion (always to a queen)
	if piece.Is(Pawn) && m.To.Row() == p.promotionRow(us) {
		p.promotions = append(p.promotions, promotion{Square: m.To, Pawn: piece, Ply: len(p.moves)})
		p.Squares[m.To] = NewPiece(Queen, us)
	}

	// Castling: bring the rook across the king
	if rookFrom, rookTo, ok := castlingRook(piece, m); ok {
		p.Squares[rookTo] = p.Squares[rookFrom]
		p.Squares[rookFrom] = Empty
		*p.Castling.kingFlag(us) = true
		*p.Castling.rookFlag(us, rookFrom.File() == 7) = true
	}

	if m.IsEnPassant() {
		p.enPassantRemoved = append(p.enPassantRemoved, squarePiece{Square: m.EnPassant, Piece: p.Squares[m.EnPassant]})
		p.Squares[m.EnPassant] = Empty
	}

	p.SideToMove = p.SideToMove.Other()
	p.updateOpponents()
}

// UnmakeMove undoes the most recently applied move. It is ignored unless m
// is that move.
func (p *Position) UnmakeMove(m Move) {
	if m.IsNull() || len(p.moves) == 0 || p.moves[len(p.moves)-1] != m {
		return
	}
	ply := len(p.moves)

	piece := p.Squares[m.To]
	if n := len(p.promotions); n > 0 && p.promotions[n-1].Ply == ply {
		piece = p.promotions[n-1].Pawn
		p.promotions = p.promotions[:n-1]
	}

	if rookFrom, rookTo, ok := castlingRook(piece, m); ok {
		p.Squares[rookFrom] = p.Squares[rookTo]
		p.Squares[rookTo] = Empty
	}

	p.Squares[m.From] = piece
	p.Squares[m.To] = p.captured[len(p.captured)-1]
	p.captured = p.captured[:len(p.captured)-1]

	if m.IsEnPassant() {
		n := len(p.enPassantRemoved)
		removed := p.enPassantRemoved[n-1]
		p.Squares[removed.Square] = removed.Piece
		p.enPassantRemoved = p.enPassantRemoved[:n-1]
	}

	p.Castling = p.castlingHistory[len(p.castlingHistory)-1]
	p.castlingHistory = p.castlingHistory[:len(p.castlingHistory)-1]

	p.moves = p.moves[:ply-1]
	p.PawnJump = p.previousPawnJump()

	p.SideToMove = p.SideToMove.Other()
	p.updateOpponents()
}

// markMoved sets the castling flag owned by a king or by a rook standing on
// its home corner.
func (p *Position) markMoved(piece Piece, sq Square) {
	c := piece.Color()
	switch {
	case piece.Is(King):
		*p.Castling.kingFlag(c) = true
	case piece.Is(Rook) && sq.Row() == p.backRow(c):
		switch sq.File() {
		case 0:
			*p.Castling.rookFlag(c, false) = true
		case 7:
			*p.Castling.rookFlag(c, true) = true
		}
	}
}

// previousPawnJump recomputes the pawn-jump marker from the last move left
// in the log. The board must already be restored.
func (p *Position) previousPawnJump() Square {
	if len(p.moves) == 0 {
		return p.initialJump
	}
	return pawnJump(p.Squares[p.moves[len(p.moves)-1].To], p.moves[len(p.moves)-1])
}

// pawnJump returns the target of m if it is a two-rank pawn advance.
func pawnJump(piece Piece, m Move) Square {
	if piece.Is(Pawn) && m.From.File() == m.To.File() && abs(m.To.Row()-m.From.Row()) == 2 {
		return m.To
	}
	return NoSquare
}

// castlingRook returns the rook squares of a castling move made by piece.
func castlingRook(piece Piece, m Move) (from, to Square, ok bool) {
	if !piece.Is(King) || m.From.Row() != m.To.Row() {
		return NoSquare, NoSquare, false
	}
	switch m.To.File() - m.From.File() {
	case 2:
		return NewSquare(m.From.Row(), 7), m.To - 1, true
	case -2:
		return NewSquare(m.From.Row(), 0), m.To + 1, true
	}
	return NoSquare, NoSquare, false
}
