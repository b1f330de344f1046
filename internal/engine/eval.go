// Package engine implements move selection for chessness: a material
// evaluator, capture-first move ordering, a fixed-depth minimax search and
// the bots built on top of it.
package engine

import (
	"github.com/hailam/chessness/internal/board"
)

// Evaluation constants
const (
	PawnValue   = 100
	KnightValue = 300
	BishopValue = 300
	RookValue   = 500
	QueenValue  = 900
)

// pieceValues is indexed by board.PieceType. Kings carry no material.
var pieceValues = [7]int{
	board.King:        0,
	board.Queen:       QueenValue,
	board.Rook:        RookValue,
	board.Knight:      KnightValue,
	board.Bishop:      BishopValue,
	board.Pawn:        PawnValue,
	board.NoPieceType: 0,
}

// PieceValue returns the material value of a piece type.
func PieceValue(pt board.PieceType) int {
	if pt > board.NoPieceType {
		return 0
	}
	return pieceValues[pt]
}

// Evaluate returns the material balance from the side to move's perspective.
func Evaluate(pos *board.Position) int {
	counts := pos.Material()
	score := 0
	for pt := board.Queen; pt <= board.Pawn; pt++ {
		score += counts[board.White][pt] * pieceValues[pt]
		score -= counts[board.Black][pt] * pieceValues[pt]
	}
	if pos.SideToMove == board.Black {
		return -score
	}
	return score
}
