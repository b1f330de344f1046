package board

import (
	"errors"
	"fmt"
)

// ErrBadPiece is returned when an occupant value does not decode to a known piece.
var ErrBadPiece = errors.New("board: malformed piece value")

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// PieceType represents the type of a chess piece.
type PieceType uint8

const (
	King PieceType = iota
	Queen
	Rook
	Knight
	Bishop
	Pawn
	NoPieceType PieceType = 6
)

// String returns the piece type name.
func (pt PieceType) String() string {
	switch pt {
	case King:
		return "King"
	case Queen:
		return "Queen"
	case Rook:
		return "Rook"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Pawn:
		return "Pawn"
	default:
		return "None"
	}
}

// Char returns the FEN character for the piece type (lowercase).
func (pt PieceType) Char() byte {
	if pt >= NoPieceType {
		return ' '
	}
	return "kqrnbp"[pt]
}

// Piece is the occupant of a square.
// Encoded additively as kind value (k=1 q=2 r=3 n=4 b=5 p=6) plus a color
// offset of 8 for white or 16 for black. Empty is zero.
type Piece uint8

const (
	whiteOffset = 8
	blackOffset = 16
)

const (
	Empty Piece = 0

	WhiteKing   Piece = whiteOffset + 1
	WhiteQueen  Piece = whiteOffset + 2
	WhiteRook   Piece = whiteOffset + 3
	WhiteKnight Piece = whiteOffset + 4
	WhiteBishop Piece = whiteOffset + 5
	WhitePawn   Piece = whiteOffset + 6

	BlackKing   Piece = blackOffset + 1
	BlackQueen  Piece = blackOffset + 2
	BlackRook   Piece = blackOffset + 3
	BlackKnight Piece = blackOffset + 4
	BlackBishop Piece = blackOffset + 5
	BlackPawn   Piece = blackOffset + 6
)

// kindValues maps an offset-free value back to its piece type.
var kindValues = [8]PieceType{
	NoPieceType, King, Queen, Rook, Knight, Bishop, Pawn, NoPieceType,
}

// NewPiece creates a Piece from PieceType and Color.
func NewPiece(pt PieceType, c Color) Piece {
	if pt >= NoPieceType || c >= NoColor {
		return Empty
	}
	offset := Piece(whiteOffset)
	if c == Black {
		offset = blackOffset
	}
	return offset + Piece(pt) + 1
}

// Color returns the Color of the piece, NoColor for an empty square.
func (p Piece) Color() Color {
	switch {
	case p == Empty:
		return NoColor
	case p < blackOffset:
		return White
	default:
		return Black
	}
}

// Kind decodes the piece type, reporting ErrBadPiece for values that do
// not correspond to any piece.
func (p Piece) Kind() (PieceType, error) {
	var v Piece
	switch p.Color() {
	case White:
		v = p - whiteOffset
	case Black:
		v = p - blackOffset
	default:
		return NoPieceType, fmt.Errorf("%w: %d", ErrBadPiece, p)
	}
	if p < whiteOffset || v >= Piece(len(kindValues)) || kindValues[v] == NoPieceType {
		return NoPieceType, fmt.Errorf("%w: %d", ErrBadPiece, p)
	}
	return kindValues[v], nil
}

// Type returns the PieceType of the piece, NoPieceType if empty or malformed.
func (p Piece) Type() PieceType {
	pt, err := p.Kind()
	if err != nil {
		return NoPieceType
	}
	return pt
}

// Is reports whether p is a piece of the given type.
func (p Piece) Is(pt PieceType) bool {
	return p != Empty && p.Type() == pt
}

// IsSlider returns true for queens, rooks and bishops.
func (p Piece) IsSlider() bool {
	switch p.Type() {
	case Queen, Rook, Bishop:
		return true
	}
	return false
}

// String returns the FEN character for the piece.
// Uppercase for white, lowercase for black.
func (p Piece) String() string {
	pt := p.Type()
	if pt == NoPieceType {
		return " "
	}
	c := pt.Char()
	if p.Color() == White {
		c -= 'a' - 'A'
	}
	return string(c)
}

// PieceFromChar converts a FEN character to a Piece.
func PieceFromChar(c byte) Piece {
	color := Black
	if c >= 'A' && c <= 'Z' {
		color = White
		c += 'a' - 'A'
	}
	switch c {
	case 'k':
		return NewPiece(King, color)
	case 'q':
		return NewPiece(Queen, color)
	case 'r':
		return NewPiece(Rook, color)
	case 'n':
		return NewPiece(Knight, color)
	case 'b':
		return NewPiece(Bishop, color)
	case 'p':
		return NewPiece(Pawn, color)
	default:
		return Empty
	}
}
