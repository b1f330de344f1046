package engine

import (
	"fmt"
	"math/rand"

	"github.com/hailam/chessness/internal/board"
)

// DefaultBotDepth is the search depth of the minimax bot when none is given.
const DefaultBotDepth = 2

// Bot chooses a move for the side to move. The caller supplies the current
// legal moves; NoMove means the bot declines to move.
type Bot interface {
	Name() string
	Move(pos *board.Position, legal []board.Move) board.Move
}

// NoBot never moves. Both sides are played by hand.
type NoBot struct{}

// Name returns "none".
func (NoBot) Name() string { return "none" }

// Move always returns NoMove.
func (NoBot) Move(*board.Position, []board.Move) board.Move { return board.NoMove }

// RandomBot picks uniformly among the legal moves.
type RandomBot struct {
	rng *rand.Rand
}

// NewRandomBot returns a RandomBot whose choices are fixed by seed.
func NewRandomBot(seed int64) *RandomBot {
	return &RandomBot{rng: rand.New(rand.NewSource(seed))}
}

// Name returns "random".
func (b *RandomBot) Name() string { return "random" }

// Move returns a random legal move, or NoMove if there is none.
func (b *RandomBot) Move(_ *board.Position, legal []board.Move) board.Move {
	if len(legal) == 0 {
		return board.NoMove
	}
	return legal[b.rng.Intn(len(legal))]
}

// MinimaxBot plays the best move of a fixed-depth search.
type MinimaxBot struct {
	Depth    int
	searcher *Searcher
}

// NewMinimaxBot returns a MinimaxBot searching to depth plies.
func NewMinimaxBot(depth int) *MinimaxBot {
	if depth <= 0 {
		depth = DefaultBotDepth
	}
	return &MinimaxBot{Depth: depth, searcher: NewSearcher()}
}

// Name returns "minimax".
func (b *MinimaxBot) Name() string { return "minimax" }

// Move searches pos and returns the best move.
func (b *MinimaxBot) Move(pos *board.Position, legal []board.Move) board.Move {
	if len(legal) == 0 {
		return board.NoMove
	}
	m, _ := b.searcher.Search(pos, b.Depth)
	return m
}

// Nodes returns the node count of the last search.
func (b *MinimaxBot) Nodes() uint64 {
	return b.searcher.Nodes()
}

// BotNames lists the selectable bots in menu order.
var BotNames = []string{"none", "random", "minimax"}

// NewBot returns the bot registered under name. depth applies to the
// minimax bot and seed to the random bot.
func NewBot(name string, depth int, seed int64) (Bot, error) {
	switch name {
	case "none", "":
		return NoBot{}, nil
	case "random":
		return NewRandomBot(seed), nil
	case "minimax":
		return NewMinimaxBot(depth), nil
	}
	return nil, fmt.Errorf("unknown bot %q (want one of %v)", name, BotNames)
}
