package board

import (
	"testing"

	"golang.org/x/exp/slices"
)

func hasMove(moves []Move, from, to Square) bool {
	return slices.IndexFunc(moves, func(m Move) bool { return m.From == from && m.To == to }) >= 0
}

func TestEnPassantCapture(t *testing.T) {
	pos := mustParseFEN(t, "4k3/3p4/8/4P3/8/8/8/4K3 b - - 0 1")

	jump := NewMove(D7, D5)
	pos.MakeMove(jump)
	if pos.PawnJump != D5 {
		t.Fatalf("PawnJump = %v, want d5", pos.PawnJump)
	}

	var ep Move
	for _, m := range pos.GenerateLegalMoves() {
		if m.IsEnPassant() {
			ep = m
		}
	}
	if ep.From != E5 || ep.To != D6 || ep.EnPassant != D5 {
		t.Fatalf("en passant move = %+v, want e5d6 removing d5", ep)
	}

	pos.MakeMove(ep)
	if pos.Squares[D5] != Empty {
		t.Errorf("d5 holds %v after en passant, want empty", pos.Squares[D5])
	}
	if pos.Squares[D6] != WhitePawn {
		t.Errorf("d6 holds %v after en passant, want white pawn", pos.Squares[D6])
	}

	pos.UnmakeMove(ep)
	if pos.Squares[D5] != BlackPawn || pos.Squares[E5] != WhitePawn || pos.Squares[D6] != Empty {
		t.Errorf("undo did not restore the en passant squares\n%s", pos)
	}
}

func TestEnPassantOnlyImmediately(t *testing.T) {
	pos := mustParseFEN(t, "4k3/3p4/8/4P3/8/8/8/4K1N1 b - - 0 1")
	for _, s := range []string{"d7d5", "g1f3", "e8f7"} {
		m, err := ParseMove(s, pos)
		if err != nil {
			t.Fatal(err)
		}
		pos.MakeMove(m)
	}
	for _, m := range pos.GenerateLegalMoves() {
		if m.IsEnPassant() {
			t.Errorf("en passant %v offered a move too late", m)
		}
	}
}

func TestCastlingGating(t *testing.T) {
	tests := []struct {
		name      string
		fen       string
		kingSide  bool
		queenSide bool
	}{
		{"both available", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", true, true},
		{"kingside right only", "r3k2r/8/8/8/8/8/8/R3K2R w Kkq - 0 1", true, false},
		{"no rights", "r3k2r/8/8/8/8/8/8/R3K2R w kq - 0 1", false, false},
		{"blocked queenside", "r3k2r/8/8/8/8/8/8/RN2K2R w KQkq - 0 1", true, false},
		{"blocked kingside", "r3k2r/8/8/8/8/8/8/R3KB1R w KQkq - 0 1", false, true},
		{"in check", "r3k2r/8/8/8/4r3/8/8/R3K2R w KQkq - 0 1", false, false},
		{"crossing attacked square", "r3k2r/8/8/8/2b5/8/8/R3K2R w KQkq - 0 1", false, true},
		{"crossing square attacked by pawn", "r3k2r/8/8/8/8/8/6p1/R3K2R w KQkq - 0 1", false, true},
		{"landing on attacked square", "r3k2r/8/8/8/8/8/7b/R3K2R w KQkq - 0 1", false, true},
		{"rook missing", "r3k2r/8/8/8/8/8/8/4K2R w KQkq - 0 1", true, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := mustParseFEN(t, tc.fen)
			moves := pos.GenerateLegalMoves()
			if got := hasMove(moves, E1, G1); got != tc.kingSide {
				t.Errorf("O-O offered = %v, want %v", got, tc.kingSide)
			}
			if got := hasMove(moves, E1, C1); got != tc.queenSide {
				t.Errorf("O-O-O offered = %v, want %v", got, tc.queenSide)
			}
		})
	}
}

func TestCastlingMovesRook(t *testing.T) {
	pos := mustParseFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")

	castle := NewMove(E1, C1)
	pos.MakeMove(castle)
	if pos.Squares[D1] != WhiteRook || pos.Squares[A1] != Empty || pos.Squares[C1] != WhiteKing {
		t.Fatalf("queenside castle misplaced pieces\n%s", pos)
	}
	if !pos.Castling.KingMoved(White) || !pos.Castling.RookMoved(White, false) {
		t.Errorf("castling flags not set: %+v", pos.Castling)
	}

	pos.UnmakeMove(castle)
	if pos.Squares[A1] != WhiteRook || pos.Squares[E1] != WhiteKing || pos.Squares[D1] != Empty {
		t.Errorf("undo of castle misplaced pieces\n%s", pos)
	}
	if !pos.Castling.CanCastle(White, false) || !pos.Castling.CanCastle(White, true) {
		t.Errorf("castling flags not restored: %+v", pos.Castling)
	}
}

func TestRookMoveClearsRight(t *testing.T) {
	pos := mustParseFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	for _, s := range []string{"h1h2", "a8a7", "h2h1", "a7a8"} {
		m, err := ParseMove(s, pos)
		if err != nil {
			t.Fatal(err)
		}
		pos.MakeMove(m)
	}
	moves := pos.GenerateLegalMoves()
	if hasMove(moves, E1, G1) {
		t.Error("O-O offered after the h1 rook moved and returned")
	}
	if !hasMove(moves, E1, C1) {
		t.Error("O-O-O should still be offered")
	}
}

func TestRookCaptureClearsRight(t *testing.T) {
	// The white rook never moves; black takes it on its home square.
	pos := mustParseFEN(t, "4k3/8/8/8/8/8/6b1/R3K2R b KQ - 0 1")

	capture := NewMove(G2, H1)
	pos.MakeMove(capture)
	if !pos.Castling.RookMoved(White, true) {
		t.Fatal("capturing the h1 rook should clear the kingside right")
	}
	if pos.Castling.RookMoved(White, false) {
		t.Error("queenside right should be untouched")
	}

	pos.UnmakeMove(capture)
	if !pos.Castling.CanCastle(White, true) {
		t.Error("undo should restore the kingside right")
	}
}

func TestKnightDoesNotWrap(t *testing.T) {
	pos := mustParseFEN(t, "4k3/8/8/7N/N7/8/8/4K3 w - - 0 1")

	var fromH5, fromA4 []Square
	for _, m := range pos.GeneratePseudoLegalMoves() {
		switch m.From {
		case H5:
			fromH5 = append(fromH5, m.To)
		case A4:
			fromA4 = append(fromA4, m.To)
		}
	}

	for _, sq := range fromH5 {
		if sq.File() < 5 {
			t.Errorf("knight on h5 wrapped to %v", sq)
		}
	}
	for _, sq := range fromA4 {
		if sq.File() > 2 {
			t.Errorf("knight on a4 wrapped to %v", sq)
		}
	}
	if len(fromH5) != 4 || len(fromA4) != 4 {
		t.Errorf("got %d and %d knight moves, want 4 and 4", len(fromH5), len(fromA4))
	}
}

func TestPawnPushBlocked(t *testing.T) {
	pos := mustParseFEN(t, "4k3/8/8/8/8/4n3/4P3/4K3 w - - 0 1")
	for _, m := range pos.GeneratePseudoLegalMoves() {
		if m.From == E2 {
			t.Errorf("blocked pawn generated %v", m)
		}
	}

	pos = mustParseFEN(t, "4k3/8/8/8/4n3/8/4P3/4K3 w - - 0 1")
	moves := pos.GeneratePseudoLegalMoves()
	if !hasMove(moves, E2, E3) || hasMove(moves, E2, E4) {
		t.Error("pawn should push one square only when the second is occupied")
	}
}

func TestPawnDirectionFollowsPlayerColor(t *testing.T) {
	// With black as the reference color black pawns advance toward row 0.
	pos := &Position{PlayerColor: Black}
	pos.Load("3k4/4p3/8/8/8/8/4P3/3K4 b -")

	moves := pos.GeneratePseudoLegalMoves()
	if !hasMove(moves, E7, E8) || hasMove(moves, E7, E6) {
		t.Errorf("black pawn on e7 should advance to e8 only: %v", moves)
	}
}

func TestSquareAttacked(t *testing.T) {
	pos := mustParseFEN(t, "4k3/8/8/3q4/8/8/2P5/4K3 w - - 0 1")

	tests := []struct {
		sq   Square
		by   Color
		want bool
	}{
		{A8, Black, true},  // queen diagonal
		{D1, Black, true},  // queen file
		{H1, Black, true},  // queen long diagonal
		{B3, White, true},  // pawn
		{C3, White, false}, // pawn does not attack forward
		{D8, Black, true},  // king
		{E2, White, true},  // king
		{A1, Black, false},
	}

	for _, tc := range tests {
		if got := pos.SquareAttacked(tc.sq, tc.by); got != tc.want {
			t.Errorf("SquareAttacked(%v, %s) = %v, want %v", tc.sq, tc.by, got, tc.want)
		}
	}
}

func TestMissingKingCountsAsCheck(t *testing.T) {
	pos := LoadPosition("8/8/8/8/8/8/8/4K3 w")
	if !pos.KingInCheck(Black) {
		t.Error("a missing king should count as in check")
	}
	if pos.KingInCheck(White) {
		t.Error("a lone white king is not in check")
	}
}
