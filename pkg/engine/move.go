package engine

// Move is a single checker movement using one die.
// From is Bar (-1) or a point 0-23; To is a point 0-23 or BearOff (24).
type Move struct {
	From int `json:"from"`
	To   int `json:"to"`
	Die  int `json:"die"`
}

// IsBarEntry reports whether the move enters from the bar.
func (m Move) IsBarEntry() bool { return m.From == Bar }

// IsBearOff reports whether the move bears a checker off.
func (m Move) IsBearOff() bool { return m.To == BearOff }

// LegalMove is a single move reported by CalculateLegalMoves.
type LegalMove struct {
	Move
	Hit bool `json:"hit"`
}

// ApplyMove returns the position after p plays m. A single opposing
// checker on the destination is sent to the bar. m is assumed legal.
func ApplyMove(pos Position, m Move, p Player) Position {
	applySubMove(&pos, m, p)
	return pos
}

// ApplyMoves applies a sequence of moves in order.
func ApplyMoves(pos Position, moves []Move, p Player) Position {
	for _, m := range moves {
		applySubMove(&pos, m, p)
	}
	return pos
}

// applySubMove applies a single checker move in place
func applySubMove(pos *Position, m Move, p Player) {
	sign := p.Sign()

	// Remove checker from source
	if m.From == Bar {
		pos.Bar.Add(p, -1)
	} else {
		pos.Board[m.From] -= sign
	}

	if m.To == BearOff {
		pos.Home.Add(p, 1)
		return
	}

	// Hit
	if IsBlotOf(pos.Board[m.To], p.Opponent()) {
		pos.Board[m.To] = 0
		pos.Bar.Add(p.Opponent(), 1)
	}

	pos.Board[m.To] += sign
}

// CountHits counts the blots hit by a move sequence.
func CountHits(pos Position, moves []Move, p Player) int {
	hits := 0
	for _, m := range moves {
		if m.To != BearOff && IsBlotOf(pos.Board[m.To], p.Opponent()) {
			hits++
		}
		applySubMove(&pos, m, p)
	}
	return hits
}
