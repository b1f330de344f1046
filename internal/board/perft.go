package board

// Perft counts the leaf nodes of the legal move tree at the given depth.
// This is the standard way to verify move generation correctness.
func (p *Position) Perft(depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	defer p.keepCheckmateFlag()()

	moves := p.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}

	var nodes uint64
	for _, m := range moves {
		p.MakeMove(m)
		nodes += p.Perft(depth - 1)
		p.UnmakeMove(m)
	}
	return nodes
}

// Divide returns the perft count below each root move.
func (p *Position) Divide(depth int) map[Move]uint64 {
	result := make(map[Move]uint64)
	if depth <= 0 {
		return result
	}
	defer p.keepCheckmateFlag()()
	for _, m := range p.GenerateLegalMoves() {
		p.MakeMove(m)
		result[m] = p.Perft(depth - 1)
		p.UnmakeMove(m)
	}
	return result
}

// keepCheckmateFlag returns a func restoring the current checkmate flag,
// which generation inside the tree would otherwise overwrite.
func (p *Position) keepCheckmateFlag() func() {
	flag := p.Checkmate
	return func() { p.Checkmate = flag }
}
