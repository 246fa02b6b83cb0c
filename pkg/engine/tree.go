package engine

// TreeResult is the outcome of a move-tree search.
type TreeResult struct {
	MaxDice int      // Most dice any legal sequence consumes
	MaxPips int      // Most pips among sequences using MaxDice dice
	Paths   [][]Move // Every sequence that consumes MaxDice dice
}

// SearchMoveTree explores every legal move sequence p can play from pos
// with the dice in pool and reports the maximum number of dice usable.
//
// Branching is over distinct die values only: with doubles the four dice
// collapse into one branch per level. The depth is bounded by the pool
// size (at most 4), so no memoization is needed.
func SearchMoveTree(pos Position, pool DicePool, p Player, opts TableOptions) TreeResult {
	return searchNode(pos, pool, p, opts)
}

// searchNode is the recursive step; pos is a private copy
func searchNode(pos Position, pool DicePool, p Player, opts TableOptions) TreeResult {
	best := TreeResult{Paths: [][]Move{{}}}
	if pool.Len() == 0 {
		return best
	}

	for _, die := range pool.Distinct() {
		rest := pool.Without(die)
		for _, m := range generateMovesForDie(&pos, die, p, opts) {
			sub := searchNode(ApplyMove(pos, m, p), rest, p, opts)
			dice := sub.MaxDice + 1
			pips := sub.MaxPips + die

			if dice < best.MaxDice {
				continue
			}
			if dice > best.MaxDice {
				best = TreeResult{MaxDice: dice, MaxPips: pips, Paths: nil}
			} else if pips > best.MaxPips {
				best.MaxPips = pips
			}
			for _, path := range sub.Paths {
				full := make([]Move, 0, len(path)+1)
				full = append(full, m)
				full = append(full, path...)
				best.Paths = append(best.Paths, full)
			}
		}
	}
	return best
}

// MaxDiceUsable returns the forced-move ground truth for a state: the
// most of its remaining dice the active player could legally use.
func MaxDiceUsable(state *GameState, p Player) int {
	return SearchMoveTree(state.Position, state.RemainingDice(), p, state.Options).MaxDice
}
