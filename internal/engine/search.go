package engine

import (
	"github.com/hailam/chessness/internal/board"
)

// Search constants
const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 64
)

// PVTable stores the principal variation.
type PVTable struct {
	length [MaxPly + 1]int
	moves  [MaxPly + 1][MaxPly + 1]board.Move
}

func (pv *PVTable) clear(ply int) {
	pv.length[ply] = ply
}

// update makes m followed by the child line the variation at ply.
func (pv *PVTable) update(ply int, m board.Move) {
	pv.moves[ply][ply] = m
	for i := ply + 1; i < pv.length[ply+1]; i++ {
		pv.moves[ply][i] = pv.moves[ply+1][i]
	}
	pv.length[ply] = pv.length[ply+1]
}

// Searcher performs a fixed-depth minimax search. Every node is expanded;
// there is no pruning and no transposition table, so depth is the only bound.
//
// Scores use the negamax convention: each ply maximizes its own evaluation
// and the child score is negated on the way up.
type Searcher struct {
	nodes uint64
	pv    PVTable
}

// NewSearcher creates a new searcher.
func NewSearcher() *Searcher {
	return &Searcher{}
}

// Reset resets the searcher for a new search.
func (s *Searcher) Reset() {
	s.nodes = 0
	s.pv = PVTable{}
}

// Nodes returns the number of nodes searched.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// Search returns the best move and its score at the given depth.
//
// The search runs on a copy, so pos is never modified. Moves are tried in
// OrderMoves order and the first move reaching the maximal score wins.
// NoMove is returned when depth <= 0 or the side to move has no legal moves;
// in the latter case the score tells mate from stalemate.
func (s *Searcher) Search(pos *board.Position, depth int) (board.Move, int) {
	s.Reset()
	if depth <= 0 {
		return board.NoMove, 0
	}
	if depth > MaxPly {
		depth = MaxPly
	}

	work := pos.Copy()
	s.nodes++
	s.pv.clear(0)

	moves := work.GenerateLegalMoves()
	if len(moves) == 0 {
		return board.NoMove, terminalScore(work, 0)
	}
	SortMoves(moves, OrderMoves(moves, work))

	bestMove := board.NoMove
	bestScore := -Infinity
	for _, m := range moves {
		work.MakeMove(m)
		score := -s.negamax(work, depth-1, 1)
		work.UnmakeMove(m)

		if score > bestScore {
			bestScore = score
			bestMove = m
			s.pv.update(0, m)
		}
	}

	return bestMove, bestScore
}

func (s *Searcher) negamax(pos *board.Position, depth, ply int) int {
	s.nodes++
	s.pv.clear(ply)

	if depth == 0 {
		return Evaluate(pos)
	}

	moves := pos.GenerateLegalMoves()
	if len(moves) == 0 {
		return terminalScore(pos, ply)
	}
	SortMoves(moves, OrderMoves(moves, pos))

	best := -Infinity
	for _, m := range moves {
		pos.MakeMove(m)
		score := -s.negamax(pos, depth-1, ply+1)
		pos.UnmakeMove(m)

		if score > best {
			best = score
			s.pv.update(ply, m)
		}
	}
	return best
}

// terminalScore scores a position without legal moves. Shorter mates score
// higher for the winner.
func terminalScore(pos *board.Position, ply int) int {
	if pos.InCheck() {
		return -MateScore + ply
	}
	return 0
}

// GetPV returns the principal variation from the last search.
func (s *Searcher) GetPV() []board.Move {
	n := s.pv.length[0]
	pv := make([]board.Move, n)
	copy(pv, s.pv.moves[0][:n])
	return pv
}

// IsMateScore reports whether score is a forced mate for either side.
func IsMateScore(score int) bool {
	return score > MateScore-MaxPly || score < -MateScore+MaxPly
}
