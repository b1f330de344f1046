package engine

import (
	"sort"

	"github.com/hailam/chessness/internal/board"
)

// OrderMoves assigns a guess score to each move. Capturing a valuable piece
// with a cheap one scores 10*victim - attacker; a promotion adds a queen.
func OrderMoves(moves []board.Move, pos *board.Position) []int {
	scores := make([]int, len(moves))
	for i, m := range moves {
		scores[i] = scoreMove(pos, m)
	}
	return scores
}

func scoreMove(pos *board.Position, m board.Move) int {
	mover := pos.PieceAt(m.From).Type()
	score := 0

	victim := pos.PieceAt(m.To).Type()
	if m.IsEnPassant() {
		victim = board.Pawn
	}
	if victim != board.NoPieceType {
		score = 10*PieceValue(victim) - PieceValue(mover)
	}

	if m.IsPromotion(pos) {
		score += QueenValue
	}
	return score
}

// scoredMoves sorts moves and scores together.
type scoredMoves struct {
	moves  []board.Move
	scores []int
}

func (s scoredMoves) Len() int           { return len(s.moves) }
func (s scoredMoves) Less(i, j int) bool { return s.scores[i] > s.scores[j] }
func (s scoredMoves) Swap(i, j int) {
	s.moves[i], s.moves[j] = s.moves[j], s.moves[i]
	s.scores[i], s.scores[j] = s.scores[j], s.scores[i]
}

// SortMoves sorts moves by their scores (descending). Equal scores keep
// generation order.
func SortMoves(moves []board.Move, scores []int) {
	sort.Stable(scoredMoves{moves: moves, scores: scores})
}
