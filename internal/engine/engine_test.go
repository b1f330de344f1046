package engine

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/hailam/chessness/internal/board"
)

func mustParseFEN(t testing.TB, fen string) *board.Position {
	t.Helper()
	pos, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("Failed to parse FEN %q: %v", fen, err)
	}
	return pos
}

func TestSearchBasic(t *testing.T) {
	pos := board.NewPosition()
	eng := NewEngine(2)

	move := eng.Search(pos)
	if move == board.NoMove {
		t.Error("Search returned NoMove for starting position")
	}
	if !pos.IsLegal(move) {
		t.Errorf("Search returned illegal move %s", move)
	}
	t.Logf("Best move: %s", move.String())
}

func TestSearchDeterministic(t *testing.T) {
	fens := []string{
		board.StartFEN + " - 0 1",
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}

	for _, fen := range fens {
		pos := mustParseFEN(t, fen)
		before := pos.Copy()

		s := NewSearcher()
		m1, score1 := s.Search(pos, 2)
		nodes1 := s.Nodes()
		m2, score2 := s.Search(pos, 2)

		if m1 != m2 || score1 != score2 || nodes1 != s.Nodes() {
			t.Errorf("%s: got %s/%d then %s/%d", fen, m1, score1, m2, score2)
		}
		if !pos.Equal(before) {
			t.Errorf("%s: search modified the position", fen)
		}
	}
}

func TestSearchFindsMateInOne(t *testing.T) {
	pos := mustParseFEN(t, "6k1/5ppp/8/8/8/8/8/R3K3 w - - 0 1")

	s := NewSearcher()
	move, score := s.Search(pos, 2)
	if move != board.NewMove(board.A1, board.A8) {
		t.Errorf("best move = %s, want a1a8", move)
	}
	if score != MateScore-1 {
		t.Errorf("score = %d, want %d", score, MateScore-1)
	}
	if !IsMateScore(score) {
		t.Error("IsMateScore should recognise the mate")
	}
	if got := ScoreToString(score); got != "Mate in 1" {
		t.Errorf("ScoreToString = %q", got)
	}
}

func TestSearchWinsMaterial(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want string
	}{
		{"hanging queen", "4k3/8/8/3q4/8/8/8/3RK3 w - - 0 1", "d1d5"},
		{"black takes rook", "4k3/8/8/8/8/1n6/8/R3K3 b - - 0 1", "b3a1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := mustParseFEN(t, tc.fen)
			move, score := NewSearcher().Search(pos, 2)
			if move.String() != tc.want {
				t.Errorf("best move = %s (score %d), want %s", move, score, tc.want)
			}
		})
	}
}

func TestSearchNoMove(t *testing.T) {
	s := NewSearcher()

	if m, _ := s.Search(board.NewPosition(), 0); m != board.NoMove {
		t.Errorf("depth 0 returned %s", m)
	}

	mated := mustParseFEN(t, "R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	m, score := s.Search(mated, 2)
	if m != board.NoMove || score != -MateScore {
		t.Errorf("checkmated side: got %s score %d", m, score)
	}

	stalemated := mustParseFEN(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	m, score = s.Search(stalemated, 2)
	if m != board.NoMove || score != 0 {
		t.Errorf("stalemated side: got %s score %d", m, score)
	}
}

func TestSearchAvoidsStalemateWhenWinning(t *testing.T) {
	// Qf7 stalemates; any other sensible move keeps the extra queen.
	pos := mustParseFEN(t, "7k/8/6K1/8/8/8/8/5Q2 w - - 0 1")
	move, score := NewSearcher().Search(pos, 2)
	if move == board.NewMove(board.F1, board.F7) {
		t.Error("search chose the stalemating move")
	}
	if score < QueenValue {
		t.Errorf("score = %d, want at least a queen", score)
	}
}

func TestSearchNodeCount(t *testing.T) {
	s := NewSearcher()
	s.Search(board.NewPosition(), 2)
	// Root, 20 children, 400 leaves.
	if s.Nodes() != 421 {
		t.Errorf("nodes = %d, want 421", s.Nodes())
	}
}

func TestSearchPV(t *testing.T) {
	s := NewSearcher()
	move, _ := s.Search(mustParseFEN(t, "4k3/8/8/3q4/8/8/8/3RK3 w - - 0 1"), 3)
	pv := s.GetPV()
	if len(pv) != 3 {
		t.Fatalf("pv length = %d, want 3: %v", len(pv), pv)
	}
	if pv[0] != move {
		t.Errorf("pv starts with %s, best move is %s", pv[0], move)
	}
}

func TestEngineInfoAndLogging(t *testing.T) {
	var buf bytes.Buffer
	eng := NewEngine(1)
	eng.SetLogger(log.New(&buf, "", 0))

	var infos []SearchInfo
	eng.OnInfo = func(info SearchInfo) { infos = append(infos, info) }

	move := eng.SearchWithLimits(board.NewPosition(), SearchLimits{Depth: 2})
	if len(infos) != 1 {
		t.Fatalf("got %d info callbacks, want 1", len(infos))
	}
	if infos[0].Depth != 2 || infos[0].Nodes == 0 || len(infos[0].PV) == 0 || infos[0].PV[0] != move {
		t.Errorf("unexpected info %+v for move %s", infos[0], move)
	}
	if !strings.Contains(buf.String(), "search depth 2") {
		t.Errorf("log output %q lacks search summary", buf.String())
	}
}

func TestEnginePerftAndEvaluate(t *testing.T) {
	eng := NewEngine(2)
	pos := board.NewPosition()
	if got := eng.Perft(pos, 3); got != 8902 {
		t.Errorf("Perft(3) = %d, want 8902", got)
	}
	if got := eng.Evaluate(pos); got != 0 {
		t.Errorf("Evaluate(start) = %d, want 0", got)
	}
}

func TestScoreToString(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{0, "0.00"},
		{150, "1.50"},
		{-905, "-9.05"},
		{MateScore - 3, "Mate in 2"},
		{-MateScore + 2, "Mated in 1"},
	}
	for _, tc := range tests {
		if got := ScoreToString(tc.score); got != tc.want {
			t.Errorf("ScoreToString(%d) = %q, want %q", tc.score, got, tc.want)
		}
	}
}
