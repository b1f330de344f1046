package board

import "fmt"

// Move is a start and target square. EnPassant is NoSquare unless the move
// captures en passant, in which case it names the square of the pawn that
// is removed (never the target square).
type Move struct {
	From      Square
	To        Square
	EnPassant Square
}

// NoMove represents an absent move.
var NoMove = Move{From: NoSquare, To: NoSquare, EnPassant: NoSquare}

// NewMove creates a normal move.
func NewMove(from, to Square) Move {
	return Move{From: from, To: to, EnPassant: NoSquare}
}

// NewEnPassant creates an en passant capture removing the pawn on victim.
func NewEnPassant(from, to, victim Square) Move {
	return Move{From: from, To: to, EnPassant: victim}
}

// IsNull returns true for NoMove and the zero Move.
func (m Move) IsNull() bool {
	return !m.From.IsValid() || !m.To.IsValid() || m.From == m.To
}

// IsEnPassant returns true if this is an en passant capture.
func (m Move) IsEnPassant() bool {
	return m.EnPassant.IsValid()
}

// IsCapture returns true if this move captures a piece.
func (m Move) IsCapture(pos *Position) bool {
	if m.IsEnPassant() {
		return true
	}
	return pos.Squares[m.To] != Empty
}

// IsPromotion returns true if a pawn moves onto its promotion row.
func (m Move) IsPromotion(pos *Position) bool {
	if m.IsNull() {
		return false
	}
	piece := pos.Squares[m.From]
	return piece.Is(Pawn) && m.To.Row() == pos.promotionRow(piece.Color())
}

// IsCastling returns true if the move is a king stepping two files.
func (m Move) IsCastling(pos *Position) bool {
	if m.IsNull() {
		return false
	}
	return pos.Squares[m.From].Is(King) && m.From.Row() == m.To.Row() && abs(m.To.File()-m.From.File()) == 2
}

// String returns the coordinate form of the move (e.g., "e2e4").
func (m Move) String() string {
	if m.IsNull() {
		return "0000"
	}
	return m.From.String() + m.To.String()
}

// ParseMove parses a coordinate move string against the legal moves of pos.
// A trailing promotion letter is accepted and ignored, since pawns always
// promote to a queen.
func ParseMove(s string, pos *Position) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return NoMove, fmt.Errorf("invalid move string: %s", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}

	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	for _, m := range pos.GenerateLegalMoves() {
		if m.From == from && m.To == to {
			return m, nil
		}
	}

	return NoMove, fmt.Errorf("illegal move: %s", s)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
