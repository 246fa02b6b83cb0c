package engine

// Count returns the number of checkers in a board value.
func Count(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// IsOwnedBy reports whether a board value holds at least one of p's checkers.
func IsOwnedBy(v int, p Player) bool {
	if p == White {
		return v > 0
	}
	return v < 0
}

// Owner returns the owner of a non-empty board value.
// ok is false for an empty point.
func Owner(v int) (p Player, ok bool) {
	switch {
	case v > 0:
		return White, true
	case v < 0:
		return Black, true
	}
	return White, false
}

// IsBlockedFor reports whether a point holding v is closed to p
// (two or more opposing checkers).
func IsBlockedFor(v int, p Player) bool {
	return IsOwnedBy(v, p.Opponent()) && Count(v) >= 2
}

// IsBlotOf reports whether v is a single checker belonging to owner.
func IsBlotOf(v int, owner Player) bool {
	return IsOwnedBy(v, owner) && Count(v) == 1
}

// HomeRange returns the first and last board index of p's home board.
func HomeRange(p Player) (lo, hi int) {
	if p == White {
		return 0, 5
	}
	return 18, 23
}

// IsHomePoint reports whether point lies in p's home board.
func IsHomePoint(p Player, point int) bool {
	lo, hi := HomeRange(p)
	return point >= lo && point <= hi
}

// EntryRange returns the board indices p may enter on from the bar,
// which is the opponent's home board.
func EntryRange(p Player) (lo, hi int) {
	return HomeRange(p.Opponent())
}

// IsEntryPoint reports whether point lies in p's entry range.
func IsEntryPoint(p Player, point int) bool {
	lo, hi := EntryRange(p)
	return point >= lo && point <= hi
}

// EntryPoint returns the point a checker on the bar enters on with die.
func EntryPoint(p Player, die int) int {
	if p == White {
		return NumPoints - die
	}
	return die - 1
}

// DistanceToBearOff returns the pips needed to bear a checker off from point.
func DistanceToBearOff(p Player, point int) int {
	if p == White {
		return point + 1
	}
	return NumPoints - point
}

// Destination returns the index reached by moving die pips forward from
// point. The result may fall off the board (<0 or >23).
func Destination(p Player, point, die int) int {
	return point + p.Direction()*die
}

// OnBoard reports whether point is one of the 24 board points.
func OnBoard(point int) bool {
	return point >= 0 && point < NumPoints
}

// RequiredDie returns the die value a move needs for an exact fit.
func RequiredDie(p Player, m Move) int {
	switch {
	case m.From == Bar:
		if p == White {
			return NumPoints - m.To
		}
		return m.To + 1
	case m.To == BearOff:
		return DistanceToBearOff(p, m.From)
	}
	d := m.To - m.From
	if d < 0 {
		return -d
	}
	return d
}

// FarthestCheckerPoint returns the occupied point of p farthest from
// bearing off, or -1 when p has no checkers on the board.
func FarthestCheckerPoint(pos *Position, p Player) int {
	if p == White {
		for i := NumPoints - 1; i >= 0; i-- {
			if IsOwnedBy(pos.Board[i], p) {
				return i
			}
		}
		return -1
	}
	for i := 0; i < NumPoints; i++ {
		if IsOwnedBy(pos.Board[i], p) {
			return i
		}
	}
	return -1
}

// AllHome reports whether every one of p's remaining checkers is in the
// home board: none on the bar and none on a point outside home.
func AllHome(pos *Position, p Player) bool {
	if pos.Bar.Get(p) > 0 {
		return false
	}
	far := FarthestCheckerPoint(pos, p)
	return far == -1 || IsHomePoint(p, far)
}
