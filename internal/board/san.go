package board

import (
	"fmt"
	"strings"
)

// ToSAN converts a move to Standard Algebraic Notation.
func (m Move) ToSAN(pos *Position) string {
	if m.IsNull() {
		return "-"
	}

	piece := pos.PieceAt(m.From)
	if piece == Empty {
		return m.String()
	}

	if m.IsCastling(pos) {
		if m.To.File() > m.From.File() {
			return "O-O" + checkSuffix(pos, m)
		}
		return "O-O-O" + checkSuffix(pos, m)
	}

	var sb strings.Builder
	pt := piece.Type()

	if pt != Pawn {
		sb.WriteByte(pt.Char() - ('a' - 'A'))
		sb.WriteString(getDisambiguation(pos, m, piece))
	}

	if m.IsCapture(pos) {
		if pt == Pawn {
			sb.WriteByte('a' + byte(m.From.File()))
		}
		sb.WriteByte('x')
	}

	sb.WriteString(m.To.String())

	if m.IsPromotion(pos) {
		sb.WriteString("=Q")
	}

	sb.WriteString(checkSuffix(pos, m))
	return sb.String()
}

// checkSuffix returns "#", "+" or "" for the position after m.
func checkSuffix(pos *Position, m Move) string {
	next := pos.Copy()
	next.MakeMove(m)
	switch next.Outcome() {
	case Checkmated:
		return "#"
	case Stalemated:
		return ""
	}
	if next.InCheck() {
		return "+"
	}
	return ""
}

// getDisambiguation returns the disambiguation string needed for a move.
func getDisambiguation(pos *Position, m Move, piece Piece) string {
	var candidates []Square
	for _, other := range pos.Copy().GenerateLegalMoves() {
		if other.To != m.To || other.From == m.From {
			continue
		}
		if pos.Squares[other.From] == piece {
			candidates = append(candidates, other.From)
		}
	}

	if len(candidates) == 0 {
		return ""
	}

	sameFile, sameRank := false, false
	for _, sq := range candidates {
		if sq.File() == m.From.File() {
			sameFile = true
		}
		if sq.Row() == m.From.Row() {
			sameRank = true
		}
	}

	if !sameFile {
		return string(rune('a' + m.From.File()))
	}
	if !sameRank {
		return string(rune('0' + m.From.Rank()))
	}
	return m.From.String()
}

// ParseSAN parses a SAN string and returns the corresponding legal move.
func ParseSAN(s string, pos *Position) (Move, error) {
	orig := s
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "+#!?")

	legal := pos.Copy().GenerateLegalMoves()

	if s == "O-O" || s == "0-0" || s == "O-O-O" || s == "0-0-0" {
		kingSide := len(s) == 3
		for _, m := range legal {
			if m.IsCastling(pos) && (m.To.File() > m.From.File()) == kingSide {
				return m, nil
			}
		}
		return NoMove, fmt.Errorf("illegal castling: %s", orig)
	}

	// Promotion is always to a queen; accept and drop the suffix.
	if idx := strings.Index(s, "="); idx >= 0 {
		s = s[:idx]
	}

	isCapture := strings.Contains(s, "x")
	s = strings.ReplaceAll(s, "x", "")

	pt := Pawn
	if len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' {
		switch s[0] {
		case 'N':
			pt = Knight
		case 'B':
			pt = Bishop
		case 'R':
			pt = Rook
		case 'Q':
			pt = Queen
		case 'K':
			pt = King
		default:
			return NoMove, fmt.Errorf("invalid piece letter in %s", orig)
		}
		s = s[1:]
	}

	if len(s) < 2 {
		return NoMove, fmt.Errorf("invalid SAN: %s", orig)
	}
	dest, err := ParseSquare(s[len(s)-2:])
	if err != nil {
		return NoMove, err
	}
	s = s[:len(s)-2]

	disambigFile, disambigRank := -1, -1
	for _, c := range s {
		if c >= 'a' && c <= 'h' {
			disambigFile = int(c - 'a')
		} else if c >= '1' && c <= '8' {
			disambigRank = int(c - '0')
		}
	}

	for _, m := range legal {
		if m.To != dest || pos.Squares[m.From].Type() != pt {
			continue
		}
		if disambigFile >= 0 && m.From.File() != disambigFile {
			continue
		}
		if disambigRank >= 0 && m.From.Rank() != disambigRank {
			continue
		}
		if isCapture && !m.IsCapture(pos) {
			continue
		}
		return m, nil
	}

	return NoMove, fmt.Errorf("no legal move matches %s", orig)
}

// MovesToSAN converts a sequence of moves played from pos to SAN.
func MovesToSAN(pos *Position, moves []Move) []string {
	result := make([]string, len(moves))
	p := pos.Copy()

	for i, m := range moves {
		result[i] = m.ToSAN(p)
		p.MakeMove(m)
	}

	return result
}
