package board

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// CastlingRights records, per king and per rook, whether the piece has moved
// or been captured. A set flag never clears except by undoing the move that
// set it.
type CastlingRights struct {
	WhiteKingMoved      bool
	WhiteQueenRookMoved bool
	WhiteKingRookMoved  bool
	BlackKingMoved      bool
	BlackQueenRookMoved bool
	BlackKingRookMoved  bool
}

// AllMoved returns rights with every flag set (no castling possible).
func AllMoved() CastlingRights {
	return CastlingRights{true, true, true, true, true, true}
}

func (cr *CastlingRights) kingFlag(c Color) *bool {
	if c == White {
		return &cr.WhiteKingMoved
	}
	return &cr.BlackKingMoved
}

func (cr *CastlingRights) rookFlag(c Color, kingSide bool) *bool {
	switch {
	case c == White && kingSide:
		return &cr.WhiteKingRookMoved
	case c == White:
		return &cr.WhiteQueenRookMoved
	case kingSide:
		return &cr.BlackKingRookMoved
	default:
		return &cr.BlackQueenRookMoved
	}
}

// KingMoved reports whether the king of color c has moved.
func (cr CastlingRights) KingMoved(c Color) bool {
	return *cr.kingFlag(c)
}

// RookMoved reports whether the kingside (h-file) or queenside (a-file)
// rook of color c has moved or been captured.
func (cr CastlingRights) RookMoved(c Color, kingSide bool) bool {
	return *cr.rookFlag(c, kingSide)
}

// CanCastle returns true if neither the king nor the given rook has moved.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	return !cr.KingMoved(c) && !cr.RookMoved(c, kingSide)
}

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	s := ""
	if cr.CanCastle(White, true) {
		s += "K"
	}
	if cr.CanCastle(White, false) {
		s += "Q"
	}
	if cr.CanCastle(Black, true) {
		s += "k"
	}
	if cr.CanCastle(Black, false) {
		s += "q"
	}
	if s == "" {
		return "-"
	}
	return s
}

// PieceSquares caches where one color's pieces stand, grouped the way the
// check detector consumes them.
type PieceSquares struct {
	Color   Color
	King    Square
	Sliders []Square
	Knights []Square
	Pawns   []Square
}

func (ps PieceSquares) equal(o PieceSquares) bool {
	return ps.Color == o.Color && ps.King == o.King &&
		slices.Equal(ps.Sliders, o.Sliders) &&
		slices.Equal(ps.Knights, o.Knights) &&
		slices.Equal(ps.Pawns, o.Pawns)
}

func (ps PieceSquares) clone() PieceSquares {
	ps.Sliders = slices.Clone(ps.Sliders)
	ps.Knights = slices.Clone(ps.Knights)
	ps.Pawns = slices.Clone(ps.Pawns)
	return ps
}

// squarePiece remembers what stood on a square before it was emptied.
type squarePiece struct {
	Square Square
	Piece  Piece
}

// promotion remembers the pawn that became a queen at a given ply.
type promotion struct {
	Square Square
	Pawn   Piece
	Ply    int
}

// Position represents a complete chess game state: the board, the side to
// move and every history stack needed to undo moves exactly.
type Position struct {
	Squares [64]Piece

	SideToMove Color

	// PlayerColor is the reference color whose pawns advance toward row 0.
	PlayerColor Color

	Castling CastlingRights

	// PawnJump is the square a pawn double-advanced to on the previous ply,
	// NoSquare if none.
	PawnJump Square

	// Checkmate is set when the last legal move generation found no moves.
	// Stalemate sets it as well.
	Checkmate bool

	// Opponents caches the piece squares of the side to move.
	Opponents PieceSquares

	initialJump   Square
	fullMoveStart int

	moves            []Move
	captured         []Piece
	enPassantRemoved []squarePiece
	promotions       []promotion
	castlingHistory  []CastlingRights
}

// NewPosition creates the starting position.
func NewPosition() *Position {
	return LoadPosition(StartFEN)
}

// Copy creates a deep copy of the position, history included.
func (p *Position) Copy() *Position {
	newPos := *p
	newPos.Opponents = p.Opponents.clone()
	newPos.moves = slices.Clone(p.moves)
	newPos.captured = slices.Clone(p.captured)
	newPos.enPassantRemoved = slices.Clone(p.enPassantRemoved)
	newPos.promotions = slices.Clone(p.promotions)
	newPos.castlingHistory = slices.Clone(p.castlingHistory)
	return &newPos
}

// Equal reports whether two positions hold identical state, including the
// history stacks and derived caches. The checkmate flag is not compared.
func (p *Position) Equal(q *Position) bool {
	return p.Squares == q.Squares &&
		p.SideToMove == q.SideToMove &&
		p.PlayerColor == q.PlayerColor &&
		p.Castling == q.Castling &&
		p.PawnJump == q.PawnJump &&
		p.initialJump == q.initialJump &&
		p.Opponents.equal(q.Opponents) &&
		slices.Equal(p.moves, q.moves) &&
		slices.Equal(p.captured, q.captured) &&
		slices.Equal(p.enPassantRemoved, q.enPassantRemoved) &&
		slices.Equal(p.promotions, q.promotions) &&
		slices.Equal(p.castlingHistory, q.castlingHistory)
}

// Snapshot is a read-only view of a position for consumers.
type Snapshot struct {
	Squares    [64]Piece
	SideToMove Color
	Checkmate  bool
}

// Snapshot returns a copy of the externally visible state.
func (p *Position) Snapshot() Snapshot {
	return Snapshot{
		Squares:    p.Squares,
		SideToMove: p.SideToMove,
		Checkmate:  p.Checkmate,
	}
}

// PieceAt returns the piece at the given square, or Empty.
func (p *Position) PieceAt(sq Square) Piece {
	if !sq.IsValid() {
		return Empty
	}
	return p.Squares[sq]
}

// IsEmpty returns true if the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.Squares[sq] == Empty
}

// Moves returns the moves applied since the position was loaded.
func (p *Position) Moves() []Move {
	return slices.Clone(p.moves)
}

// Ply returns the number of applied, not undone, moves.
func (p *Position) Ply() int {
	return len(p.moves)
}

// LastMove returns the most recently applied move, or NoMove.
func (p *Position) LastMove() Move {
	if len(p.moves) == 0 {
		return NoMove
	}
	return p.moves[len(p.moves)-1]
}

// KingSquare returns the square of the king of color c, NoSquare if absent.
func (p *Position) KingSquare(c Color) Square {
	if p.Opponents.Color == c {
		return p.Opponents.King
	}
	king := NewPiece(King, c)
	for sq, piece := range p.Squares {
		if piece == king {
			return Square(sq)
		}
	}
	return NoSquare
}

// pawnsMoveUp reports whether pawns of color c advance toward row 0.
func (p *Position) pawnsMoveUp(c Color) bool {
	return c == p.PlayerColor
}

// pawnForward returns the square offset of a single pawn push for color c.
func (p *Position) pawnForward(c Color) int {
	if p.pawnsMoveUp(c) {
		return DirectionOffsets[North]
	}
	return DirectionOffsets[South]
}

// promotionRow returns the row on which pawns of color c promote.
func (p *Position) promotionRow(c Color) int {
	if p.pawnsMoveUp(c) {
		return 0
	}
	return 7
}

// backRow returns the row the king and rooks of color c start on.
func (p *Position) backRow(c Color) int {
	return 7 - p.promotionRow(c)
}

// pawnStartRow returns the row from which pawns of color c may advance two.
func (p *Position) pawnStartRow(c Color) int {
	if p.pawnsMoveUp(c) {
		return 6
	}
	return 1
}

// pieceSquares collects the piece squares of color c.
func (p *Position) pieceSquares(c Color) PieceSquares {
	ps := PieceSquares{Color: c, King: NoSquare}
	for i, piece := range p.Squares {
		if piece.Color() != c {
			continue
		}
		sq := Square(i)
		switch {
		case piece.Is(King):
			ps.King = sq
		case piece.IsSlider():
			ps.Sliders = append(ps.Sliders, sq)
		case piece.Is(Knight):
			ps.Knights = append(ps.Knights, sq)
		case piece.Is(Pawn):
			ps.Pawns = append(ps.Pawns, sq)
		}
	}
	return ps
}

// updateOpponents recomputes the piece cache for the side to move.
func (p *Position) updateOpponents() {
	p.Opponents = p.pieceSquares(p.SideToMove)
}

// Clear resets the position to an empty board, keeping the reference color.
func (p *Position) Clear() {
	*p = Position{
		PlayerColor:   p.PlayerColor,
		Castling:      AllMoved(),
		PawnJump:      NoSquare,
		initialJump:   NoSquare,
		fullMoveStart: 1,
	}
	p.updateOpponents()
}

// Validate checks if the position is playable.
func (p *Position) Validate() error {
	for _, c := range []Color{White, Black} {
		kings := 0
		for _, piece := range p.Squares {
			if piece == NewPiece(King, c) {
				kings++
			}
		}
		if kings != 1 {
			return fmt.Errorf("%s must have exactly one king, has %d", strings.ToLower(c.String()), kings)
		}
	}
	for sq, piece := range p.Squares {
		if piece != Empty && piece.Type() == NoPieceType {
			return fmt.Errorf("square %s: %w", Square(sq), ErrBadPiece)
		}
		if piece.Is(Pawn) && (Square(sq).Row() == 0 || Square(sq).Row() == 7) {
			return fmt.Errorf("pawns cannot be on rank 1 or 8")
		}
	}
	return nil
}

// Material returns the count of each piece type per color.
func (p *Position) Material() [2][6]int {
	var counts [2][6]int
	for _, piece := range p.Squares {
		if pt := piece.Type(); pt != NoPieceType {
			counts[piece.Color()][pt]++
		}
	}
	return counts
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	s := "\n"
	for row := 0; row < 8; row++ {
		s += fmt.Sprintf("%d  ", 8-row)
		for file := 0; file < 8; file++ {
			piece := p.Squares[NewSquare(row, file)]
			if piece == Empty {
				s += ". "
			} else {
				s += piece.String() + " "
			}
		}
		s += "\n"
	}
	s += "\n   a b c d e f g h\n\n"
	s += fmt.Sprintf("Side to move: %s\n", p.SideToMove)
	s += fmt.Sprintf("Castling: %s\n", p.Castling)
	s += fmt.Sprintf("Pawn jump: %s\n", p.PawnJump)
	s += fmt.Sprintf("Ply: %d\n", p.Ply())
	return s
}
