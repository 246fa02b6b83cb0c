package engine

// Single-move validators. Each judges one aspect of a move against the
// current state and returns a verdict fragment; ValidateMove merges them.

// checkTurn rejects a move by the player who is not on roll.
func checkTurn(state *GameState, p Player) Verdict {
	if p != state.ActivePlayer {
		return fail(violation(TurnMismatch, "It is %s's turn, not %s's", state.ActivePlayer, p))
	}
	return ok()
}

// checkSource requires a checker of the mover at the origin.
func checkSource(pos *Position, m Move, p Player) Verdict {
	if m.From == Bar {
		if pos.Bar.Get(p) == 0 {
			return fail(violation(NoCheckerOnBar, "No %s checkers on the bar", p))
		}
		return ok()
	}
	if !OnBoard(m.From) {
		return fail(violation(NoCheckerAtSource, "Invalid source point %d", m.From))
	}
	if !IsOwnedBy(pos.Board[m.From], p) {
		return fail(violation(NoCheckerAtSource, "No %s checker on point %d", p, m.From))
	}
	return ok()
}

// checkDestination requires a target on the board or BearOff.
func checkDestination(m Move) Verdict {
	if OnBoard(m.To) || m.To == BearOff {
		return ok()
	}
	return fail(violation(InvalidDestination, "Invalid destination point %d", m.To))
}

// checkBarReentry enforces bar precedence and the entry rules.
func checkBarReentry(pos *Position, m Move, p Player) Verdict {
	if pos.Bar.Get(p) == 0 {
		return ok()
	}
	if m.From != Bar {
		return fail(violation(BarReentryRequired,
			"%s must re-enter from bar before moving other checkers", p))
	}
	if !IsEntryPoint(p, m.To) {
		lo, hi := EntryRange(p)
		return fail(violation(BarEntryWrongPoint,
			"Bar entry point %d is outside the entry board (%d-%d)", m.To, lo, hi))
	}
	if want := EntryPoint(p, m.Die); m.To != want {
		return fail(violation(BarEntryWrongPoint,
			"Entering with a %d lands on point %d, not %d", m.Die, want, m.To))
	}
	if IsBlockedFor(pos.Board[m.To], p) {
		return fail(violation(BarEntryBlocked, "Entry point %d is blocked", m.To))
	}
	return ok()
}

// checkDirection requires forward movement for ordinary moves.
func checkDirection(m Move, p Player) Verdict {
	if m.From == Bar || m.To == BearOff {
		return ok()
	}
	if (m.To-m.From)*p.Direction() <= 0 {
		if p == White {
			return fail(violation(DirectionViolation,
				"white must move to a lower point (%d to %d)", m.From, m.To))
		}
		return fail(violation(DirectionViolation,
			"black must move to a higher point (%d to %d)", m.From, m.To))
	}
	return ok()
}

// checkDice requires the die to be in the pool and, for ordinary moves,
// to match the distance exactly. Bar entries and bear-offs have their
// distance judged by checkBarReentry and checkBearOff.
func checkDice(m Move, p Player, remaining DicePool) Verdict {
	v := ok()
	if !remaining.Contains(m.Die) {
		v = v.Merge(fail(violation(DiceUnavailable,
			"Die %d is not available (remaining %v)", m.Die, []int(remaining))))
	}
	if m.From == Bar || m.To == BearOff {
		return v
	}
	if need := RequiredDie(p, m); need != m.Die {
		v = v.Merge(fail(violation(DiceMismatch,
			"Moving from %d to %d needs a %d, not a %d", m.From, m.To, need, m.Die)))
	}
	return v
}

// checkBlocking rejects landing on a point held by two or more opposing
// checkers. Bar entries are judged by checkBarReentry.
func checkBlocking(pos *Position, m Move, p Player) Verdict {
	if m.From == Bar || m.To == BearOff || !OnBoard(m.To) {
		return ok()
	}
	if IsBlockedFor(pos.Board[m.To], p) {
		return fail(violation(PointBlocked, "Point %d is blocked", m.To))
	}
	return ok()
}

// checkBearOff applies the bear-off eligibility and overshoot rules.
func checkBearOff(pos *Position, m Move, p Player, opts TableOptions) Verdict {
	if m.To != BearOff || m.From == Bar {
		return ok()
	}
	if pos.Bar.Get(p) > 0 {
		return fail(violation(BearOffIneligible, "Cannot bear off while checkers are on the bar"))
	}
	if !AllHome(pos, p) {
		return fail(violation(BearOffIneligible,
			"Cannot bear off until all checkers are in the home board"))
	}
	exact := DistanceToBearOff(p, m.From)
	if m.Die < exact {
		return fail(violation(DiceMismatch,
			"Die %d is too small to bear off from point %d (needs %d)", m.Die, m.From, exact))
	}
	if m.Die > exact && !opts.AllowBearOffOvershoot {
		if far := FarthestCheckerPoint(pos, p); far != m.From {
			return fail(violation(BearOffOvershootDisallowed,
				"Cannot bear off from point %d with a %d while a checker remains on point %d",
				m.From, m.Die, far))
		}
	}
	return ok()
}

// bearOffAllowed is the enumerator's form of checkBearOff for an
// eligible position.
func bearOffAllowed(pos *Position, from, die int, p Player, opts TableOptions) bool {
	exact := DistanceToBearOff(p, from)
	switch {
	case die == exact:
		return true
	case die < exact:
		return false
	case opts.AllowBearOffOvershoot:
		return true
	}
	return FarthestCheckerPoint(pos, p) == from
}

// detectHit reports the blot a legal move would hit. It never mutates.
func detectHit(pos *Position, m Move, p Player) *HitInfo {
	if m.To == BearOff || !OnBoard(m.To) {
		return nil
	}
	opp := p.Opponent()
	if IsBlotOf(pos.Board[m.To], opp) {
		return &HitInfo{Point: m.To, Player: opp}
	}
	return nil
}
