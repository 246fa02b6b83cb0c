package engine

// GenerateMovesForDie returns every structurally legal single move p can
// make with die in the given state.
func GenerateMovesForDie(state *GameState, die int, p Player) []Move {
	return generateMovesForDie(&state.Position, die, p, state.Options)
}

// generateMovesForDie is shared by the outward queries and the tree search
func generateMovesForDie(pos *Position, die int, p Player, opts TableOptions) []Move {
	if die < 1 || die > 6 {
		return nil
	}

	// Bar precedence: the only candidate is the entry for this die
	if pos.Bar.Get(p) > 0 {
		to := EntryPoint(p, die)
		if IsBlockedFor(pos.Board[to], p) {
			return nil
		}
		return []Move{{From: Bar, To: to, Die: die}}
	}

	canBearOff := AllHome(pos, p)
	moves := make([]Move, 0, 8)

	// Walk from the back of the board toward home
	start, end, step := NumPoints-1, -1, -1
	if p == Black {
		start, end, step = 0, NumPoints, 1
	}
	for from := start; from != end; from += step {
		if !IsOwnedBy(pos.Board[from], p) {
			continue
		}
		to := Destination(p, from, die)
		if OnBoard(to) {
			if !IsBlockedFor(pos.Board[to], p) {
				moves = append(moves, Move{From: from, To: to, Die: die})
			}
			continue
		}
		if canBearOff && bearOffAllowed(pos, from, die, p, opts) {
			moves = append(moves, Move{From: from, To: BearOff, Die: die})
		}
	}
	return moves
}

// CalculateLegalMoves returns the legal single moves for each distinct
// die in dice. A nil dice slice means the state's remaining dice.
func CalculateLegalMoves(state *GameState, dice []int, p Player) []LegalMove {
	pool := state.RemainingDice()
	if dice != nil {
		pool = NewDicePool(dice...)
	}

	var legal []LegalMove
	for _, die := range pool.Distinct() {
		for _, m := range generateMovesForDie(&state.Position, die, p, state.Options) {
			legal = append(legal, LegalMove{
				Move: m,
				Hit:  detectHit(&state.Position, m, p) != nil,
			})
		}
	}
	return legal
}

// HasLegalMoves reports whether p can play at least one of the state's
// remaining dice. Callers use it to decide an automatic pass.
func HasLegalMoves(state *GameState, p Player) bool {
	for _, die := range state.RemainingDice().Distinct() {
		if len(generateMovesForDie(&state.Position, die, p, state.Options)) > 0 {
			return true
		}
	}
	return false
}
