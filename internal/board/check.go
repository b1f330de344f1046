package board

import "golang.org/x/exp/slices"

// Outcome classifies a position with respect to the side to move.
type Outcome int

const (
	Ongoing Outcome = iota
	Checkmated
	Stalemated
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Checkmated:
		return "checkmate"
	case Stalemated:
		return "stalemate"
	default:
		return "ongoing"
	}
}

// attackersOf returns the piece squares of color c, using the cached ones
// when they belong to c.
func (p *Position) attackersOf(c Color) PieceSquares {
	if p.Opponents.Color == c {
		return p.Opponents
	}
	return p.pieceSquares(c)
}

// SquareAttacked reports whether a piece of color by attacks sq.
//
// Attacks are generated outward from sq as if it held a piece of the
// defending color, and each reached square is tested for an attacker of the
// matching kind.
func (p *Position) SquareAttacked(sq Square, by Color) bool {
	attackers := p.attackersOf(by)
	defender := by.Other()
	var targets []Move

	for _, pt := range [3]PieceType{Queen, Bishop, Rook} {
		attacker := NewPiece(pt, by)
		targets = p.appendSlidingMoves(targets[:0], sq, NewPiece(pt, defender), true)
		for _, m := range targets {
			if p.Squares[m.To] == attacker && slices.Contains(attackers.Sliders, m.To) {
				return true
			}
		}
	}

	knight := NewPiece(Knight, by)
	targets = p.appendKnightMoves(targets[:0], sq, defender, true)
	for _, m := range targets {
		if p.Squares[m.To] == knight && slices.Contains(attackers.Knights, m.To) {
			return true
		}
	}

	pawn := NewPiece(Pawn, by)
	targets = p.appendPawnAttacks(targets[:0], sq, defender, true)
	for _, m := range targets {
		if p.Squares[m.To] == pawn && slices.Contains(attackers.Pawns, m.To) {
			return true
		}
	}

	if attackers.King.IsValid() {
		targets = p.appendKingMoves(targets[:0], sq, defender, true)
		for _, m := range targets {
			if m.To == attackers.King {
				return true
			}
		}
	}

	return false
}

// KingInCheck reports whether the king of color c is attacked. A missing
// king counts as in check.
func (p *Position) KingInCheck(c Color) bool {
	ksq := p.KingSquare(c)
	if !ksq.IsValid() {
		return true
	}
	return p.SquareAttacked(ksq, c.Other())
}

// InCheck returns true if the side to move is in check.
func (p *Position) InCheck() bool {
	return p.KingInCheck(p.SideToMove)
}

// GenerateLegalMoves generates all legal moves for the position. Each
// pseudo-legal move is applied, tested for leaving the own king in check and
// undone. Checkmate is set when no move survives, stalemate included.
func (p *Position) GenerateLegalMoves() []Move {
	us := p.SideToMove
	pseudo := p.GeneratePseudoLegalMoves()
	legal := make([]Move, 0, len(pseudo))

	for _, m := range pseudo {
		p.MakeMove(m)
		if !p.KingInCheck(us) {
			legal = append(legal, m)
		}
		p.UnmakeMove(m)
	}

	p.Checkmate = len(legal) == 0
	return legal
}

// IsLegal returns true if m is among the legal moves of the position.
func (p *Position) IsLegal(m Move) bool {
	return slices.Contains(p.GenerateLegalMoves(), m)
}

// HasLegalMoves returns true if the side to move has any legal moves.
func (p *Position) HasLegalMoves() bool {
	return len(p.GenerateLegalMoves()) > 0
}

// Outcome distinguishes checkmate from stalemate, which the Checkmate flag
// does not.
func (p *Position) Outcome() Outcome {
	if p.HasLegalMoves() {
		return Ongoing
	}
	if p.InCheck() {
		return Checkmated
	}
	return Stalemated
}

// IsCheckmate returns true if the side to move is in check with no moves.
func (p *Position) IsCheckmate() bool {
	return p.Outcome() == Checkmated
}

// IsStalemate returns true if the side to move has no moves but is not in check.
func (p *Position) IsStalemate() bool {
	return p.Outcome() == Stalemated
}
