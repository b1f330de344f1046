package board

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// StartFEN is the starting position in the short form the loader accepts.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq"

// LoadPosition builds a position from a FEN-like string with the best-effort
// legacy rules of Load. It never fails.
func LoadPosition(fen string) *Position {
	pos := &Position{PlayerColor: White}
	pos.Load(fen)
	return pos
}

// Load clears the board and places pieces from a FEN-like string.
//
// Field one is walked rank by rank; digits skip squares and unknown letters
// are ignored. Field two selects the side to move. Field three sets the
// castling flags: every flag starts as moved, each of K, Q, k, q clears that
// color's king flag and the matching rook flag, "-" marks every piece as
// unmoved and any other character marks every piece as moved. A castling
// field shorter than three characters is joined with the fourth field.
// History is discarded; PlayerColor is kept.
func (p *Position) Load(fen string) {
	p.Clear()

	fields := strings.Fields(fen)
	if len(fields) == 0 {
		return
	}

	row, file := 0, 0
	for _, c := range fields[0] {
		switch {
		case c == '/':
			row++
			file = 0
		case c >= '1' && c <= '8':
			file += int(c - '0')
		case c >= utf8.RuneSelf:
			file++
		default:
			if piece := PieceFromChar(byte(c)); piece != Empty && row < 8 && file < 8 {
				p.Squares[NewSquare(row, file)] = piece
			}
			file++
		}
	}

	if len(fields) >= 2 {
		if fields[1] == "w" {
			p.SideToMove = White
		} else {
			p.SideToMove = Black
		}
	}

	if len(fields) >= 3 {
		token := fields[2]
		if len(token) < 3 && len(fields) >= 4 {
			token += fields[3]
		}
		for _, c := range token {
			switch c {
			case 'K':
				p.Castling.WhiteKingMoved = false
				p.Castling.WhiteKingRookMoved = false
			case 'Q':
				p.Castling.WhiteKingMoved = false
				p.Castling.WhiteQueenRookMoved = false
			case 'k':
				p.Castling.BlackKingMoved = false
				p.Castling.BlackKingRookMoved = false
			case 'q':
				p.Castling.BlackKingMoved = false
				p.Castling.BlackQueenRookMoved = false
			case '-':
				p.Castling = CastlingRights{}
			default:
				p.Castling = AllMoved()
			}
		}
	}

	p.updateOpponents()
}

// ParseFEN parses a standard FEN string and returns a Position.
// Unlike Load it rejects malformed input, treats "-" as no castling and
// honours the en passant field.
func ParseFEN(fen string) (*Position, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return nil, fmt.Errorf("invalid FEN: need at least 4 fields, got %d", len(parts))
	}

	pos := &Position{PlayerColor: White}
	pos.Clear()

	if err := parsePiecePlacement(pos, parts[0]); err != nil {
		return nil, err
	}

	switch parts[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return nil, fmt.Errorf("invalid side to move: %s", parts[1])
	}

	if err := parseCastlingRights(pos, parts[2]); err != nil {
		return nil, err
	}

	if parts[3] != "-" {
		target, err := ParseSquare(parts[3])
		if err != nil {
			return nil, fmt.Errorf("invalid en passant square: %s", parts[3])
		}
		switch target.Row() {
		case 2:
			pos.PawnJump = target + 8
		case 5:
			pos.PawnJump = target - 8
		default:
			return nil, fmt.Errorf("invalid en passant square: %s", parts[3])
		}
		pos.initialJump = pos.PawnJump
	}

	// Half-move clock (field 4) is validated but not tracked.
	if len(parts) > 4 {
		if _, err := strconv.Atoi(parts[4]); err != nil {
			return nil, fmt.Errorf("invalid half-move clock: %s", parts[4])
		}
	}

	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil {
			return nil, fmt.Errorf("invalid full-move number: %s", parts[5])
		}
		pos.fullMoveStart = fmn
	}

	if err := pos.Validate(); err != nil {
		return nil, fmt.Errorf("invalid position: %w", err)
	}

	pos.updateOpponents()
	return pos, nil
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("invalid piece placement: need 8 ranks, got %d", len(ranks))
	}

	for row, rankStr := range ranks {
		file := 0

		for _, c := range rankStr {
			if file > 7 {
				return fmt.Errorf("too many squares in rank %d", 8-row)
			}

			if c >= '1' && c <= '8' {
				file += int(c - '0')
			} else {
				if c >= utf8.RuneSelf {
					return fmt.Errorf("invalid piece character: %c", c)
				}
				piece := PieceFromChar(byte(c))
				if piece == Empty {
					return fmt.Errorf("invalid piece character: %c", c)
				}
				pos.Squares[NewSquare(row, file)] = piece
				file++
			}
		}

		if file != 8 {
			return fmt.Errorf("invalid number of squares in rank %d: got %d", 8-row, file)
		}
	}

	return nil
}

// parseCastlingRights parses the castling rights section of a FEN string.
func parseCastlingRights(pos *Position, castling string) error {
	pos.Castling = AllMoved()
	if castling == "-" {
		return nil
	}

	for _, c := range castling {
		switch c {
		case 'K':
			pos.Castling.WhiteKingMoved = false
			pos.Castling.WhiteKingRookMoved = false
		case 'Q':
			pos.Castling.WhiteKingMoved = false
			pos.Castling.WhiteQueenRookMoved = false
		case 'k':
			pos.Castling.BlackKingMoved = false
			pos.Castling.BlackKingRookMoved = false
		case 'q':
			pos.Castling.BlackKingMoved = false
			pos.Castling.BlackQueenRookMoved = false
		default:
			return fmt.Errorf("invalid castling character: %c", c)
		}
	}

	return nil
}

// ToFEN returns the FEN representation of the position.
func (p *Position) ToFEN() string {
	var sb strings.Builder

	for row := 0; row < 8; row++ {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.Squares[NewSquare(row, file)]
			if piece == Empty {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if row < 7 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if p.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(p.Castling.String())

	sb.WriteByte(' ')
	sb.WriteString(p.enPassantTarget().String())

	// Half-move clock is not tracked.
	sb.WriteString(" 0 ")
	sb.WriteString(strconv.Itoa(p.fullMoveNumber()))

	return sb.String()
}

// enPassantTarget returns the square behind the last double-advanced pawn.
func (p *Position) enPassantTarget() Square {
	switch {
	case !p.PawnJump.IsValid():
		return NoSquare
	case p.PawnJump.Row() == 3:
		return p.PawnJump - 8
	case p.PawnJump.Row() == 4:
		return p.PawnJump + 8
	}
	return NoSquare
}

func (p *Position) fullMoveNumber() int {
	start := max(p.fullMoveStart, 1)
	plies := len(p.moves)
	startedWhite := (p.SideToMove == White) == (plies%2 == 0)
	if startedWhite {
		return start + plies/2
	}
	return start + (plies+1)/2
}
