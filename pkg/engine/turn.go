package engine

import "fmt"

// ValidateMove judges one move against the state and the dice still
// available. Turn ownership short-circuits; every other check runs and
// all violations are reported together. Hit detection runs only for a
// move that passes everything else.
func ValidateMove(state *GameState, m Move, p Player, remaining DicePool) Verdict {
	if v := checkTurn(state, p); !v.Valid {
		return v
	}

	pos := &state.Position
	v := mergeAll(
		checkBarReentry(pos, m, p),
		checkSource(pos, m, p),
		checkDestination(m),
		checkDirection(m, p),
		checkDice(m, p, remaining),
		checkBlocking(pos, m, p),
		checkBearOff(pos, m, p, state.Options),
	)
	if !v.Valid {
		return v
	}

	v.Hit = detectHit(pos, m, p)
	return v
}

// ValidateMoves judges a whole turn. Moves are checked in order against
// a working copy, each accepted move applied before the next is judged;
// the first failing move rejects the turn. When every move is legal the
// turn is checked against the forced-move rule using the original state.
// The input state is never modified.
func ValidateMoves(state *GameState, moves []Move, p Player) Verdict {
	if len(moves) == 0 {
		return validatePass(state, p)
	}

	working := state.Position
	remaining := state.RemainingDice()
	var lastHit *HitInfo

	for i, m := range moves {
		step := &GameState{
			Position:     working,
			ActivePlayer: state.ActivePlayer,
			Options:      state.Options,
		}
		v := ValidateMove(step, m, p, remaining)
		if !v.Valid {
			return Verdict{
				Errors: prefixErrors(v.Errors, i+1),
				Hit:    lastHit,
				Forced: &ForcedMoveInfo{DiceUsed: i},
			}
		}
		if v.Hit != nil {
			lastHit = v.Hit
		}
		working = ApplyMove(working, m, p)
		remaining = remaining.Without(m.Die)
	}

	tree := SearchMoveTree(state.Position, state.RemainingDice(), p, state.Options)
	forced := &ForcedMoveInfo{
		MoreMovesAvailable: len(moves) < tree.MaxDice,
		MaxDiceUsable:      tree.MaxDice,
		DiceUsed:           len(moves),
	}
	out := Verdict{Valid: true, Hit: lastHit, Forced: forced}

	if len(moves) < tree.MaxDice {
		out = out.Merge(fail(forcedMoveViolation(tree.MaxDice, len(moves))))
	} else if v := checkHigherDie(state, moves, tree); !v.Valid {
		out = out.Merge(v)
	}
	return out
}

// validatePass judges an empty turn: legal only when no die can be used.
func validatePass(state *GameState, p Player) Verdict {
	if v := checkTurn(state, p); !v.Valid {
		v.Forced = &ForcedMoveInfo{}
		return v
	}
	maxDice := MaxDiceUsable(state, p)
	out := Verdict{
		Valid: true,
		Forced: &ForcedMoveInfo{
			MoreMovesAvailable: maxDice > 0,
			MaxDiceUsable:      maxDice,
		},
	}
	if maxDice > 0 {
		out = out.Merge(fail(forcedMoveViolation(maxDice, 0)))
	}
	return out
}

func forcedMoveViolation(maxDice, used int) Violation {
	return violation(ForcedMoveViolation,
		"Forced move violation: %d dice could be used but only %d were used", maxDice, used)
}

// checkHigherDie enforces the optional rule that when only one die of a
// non-double roll can be played, it must be the higher one if possible.
func checkHigherDie(state *GameState, moves []Move, tree TreeResult) Verdict {
	if !state.Options.RequireHigherDie || tree.MaxDice != 1 || len(moves) != 1 {
		return ok()
	}
	if NewDicePool(state.Dice...).IsDoubles() {
		return ok()
	}
	if moves[0].Die < tree.MaxPips {
		return fail(violation(HigherDieRequired,
			"Only one die can be used, so the higher die %d must be played", tree.MaxPips))
	}
	return ok()
}

// prefixErrors tags each violation with the 1-based move number
func prefixErrors(errs []Violation, n int) []Violation {
	out := make([]Violation, len(errs))
	for i, e := range errs {
		out[i] = Violation{Kind: e.Kind, Message: fmt.Sprintf("Move %d: %s", n, e.Message)}
	}
	return out
}
