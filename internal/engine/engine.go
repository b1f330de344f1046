package engine

import (
	"io"
	"log"
	"strconv"
	"time"

	"github.com/hailam/chessness/internal/board"
)

// SearchInfo contains information about a finished search.
type SearchInfo struct {
	Depth int
	Score int
	Nodes uint64
	Time  time.Duration
	PV    []board.Move
}

// SearchLimits specifies constraints on the search.
type SearchLimits struct {
	Depth int // Search depth in plies (0 = engine default)
}

// Engine is the chess AI engine.
type Engine struct {
	searcher *Searcher
	bot      Bot
	depth    int
	logger   *log.Logger

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates an engine searching to depth plies. It plays with the
// minimax bot until SetBot is called.
func NewEngine(depth int) *Engine {
	if depth <= 0 {
		depth = DefaultBotDepth
	}
	return &Engine{
		searcher: NewSearcher(),
		bot:      NewMinimaxBot(depth),
		depth:    depth,
		logger:   log.New(io.Discard, "", 0),
	}
}

// SetLogger sets the destination for search summaries. nil discards them.
func (e *Engine) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	e.logger = l
}

// SetDepth sets the default search depth.
func (e *Engine) SetDepth(depth int) {
	if depth > 0 {
		e.depth = depth
		if mb, ok := e.bot.(*MinimaxBot); ok {
			mb.Depth = depth
		}
	}
}

// Depth returns the default search depth.
func (e *Engine) Depth() int {
	return e.depth
}

// SetBot sets the move-selection strategy used by BotMove.
func (e *Engine) SetBot(b Bot) {
	if b == nil {
		b = NoBot{}
	}
	e.bot = b
}

// Bot returns the current move-selection strategy.
func (e *Engine) Bot() Bot {
	return e.bot
}

// Search finds the best move for the given position at the default depth.
func (e *Engine) Search(pos *board.Position) board.Move {
	return e.SearchWithLimits(pos, SearchLimits{Depth: e.depth})
}

// SearchWithLimits finds the best move with specific search limits.
func (e *Engine) SearchWithLimits(pos *board.Position, limits SearchLimits) board.Move {
	depth := limits.Depth
	if depth <= 0 {
		depth = e.depth
	}

	start := time.Now()
	move, score := e.searcher.Search(pos, depth)
	info := SearchInfo{
		Depth: depth,
		Score: score,
		Nodes: e.searcher.Nodes(),
		Time:  time.Since(start),
		PV:    e.searcher.GetPV(),
	}

	e.logger.Printf("search depth %d: best %s score %s nodes %d in %v",
		info.Depth, move, ScoreToString(score), info.Nodes, info.Time)

	if e.OnInfo != nil {
		e.OnInfo(info)
	}
	return move
}

// BotMove asks the current bot for a move in pos.
func (e *Engine) BotMove(pos *board.Position) board.Move {
	legal := pos.GenerateLegalMoves()
	m := e.bot.Move(pos, legal)
	e.logger.Printf("bot %s chose %s from %d moves", e.bot.Name(), m, len(legal))
	return m
}

// Perft performs a perft test (for debugging move generation).
func (e *Engine) Perft(pos *board.Position, depth int) uint64 {
	return pos.Perft(depth)
}

// Evaluate returns the static evaluation of a position.
func (e *Engine) Evaluate(pos *board.Position) int {
	return Evaluate(pos)
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score int) string {
	if score > MateScore-MaxPly {
		mateIn := (MateScore - score + 1) / 2
		return "Mate in " + strconv.Itoa(mateIn)
	}
	if score < -MateScore+MaxPly {
		mateIn := (MateScore + score + 1) / 2
		return "Mated in " + strconv.Itoa(mateIn)
	}

	// Convert centipawns to pawns
	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	return sign + strconv.Itoa(score/100) + "." + strconv.Itoa(score%100/10) + strconv.Itoa(score%10)
}
