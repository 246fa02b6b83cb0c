package engine

import "sort"

// DicePool is the multiset of dice still available this turn.
// Operations return new pools and never modify the receiver.
type DicePool []int

// NewDicePool builds a pool from die values.
func NewDicePool(dice ...int) DicePool {
	return append(DicePool(nil), dice...)
}

// ExpandRoll turns a two-dice roll into its pool: four dice for doubles.
func ExpandRoll(d1, d2 int) DicePool {
	if d1 == d2 {
		return DicePool{d1, d1, d1, d1}
	}
	return DicePool{d1, d2}
}

// Len returns the number of dice in the pool.
func (dp DicePool) Len() int { return len(dp) }

// Contains reports whether at least one die of value die remains.
func (dp DicePool) Contains(die int) bool {
	return dp.Count(die) > 0
}

// Count returns how many dice of value die remain.
func (dp DicePool) Count(die int) int {
	n := 0
	for _, d := range dp {
		if d == die {
			n++
		}
	}
	return n
}

// Without returns a copy of the pool with one instance of die removed.
// The pool is returned unchanged (as a copy) if die is absent.
func (dp DicePool) Without(die int) DicePool {
	out := make(DicePool, 0, len(dp))
	removed := false
	for _, d := range dp {
		if !removed && d == die {
			removed = true
			continue
		}
		out = append(out, d)
	}
	return out
}

// Distinct returns the distinct die values, highest first.
func (dp DicePool) Distinct() []int {
	seen := [7]bool{}
	out := make([]int, 0, 2)
	for _, d := range dp {
		if d >= 1 && d <= 6 && !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

// Max returns the highest die in the pool, or 0 for an empty pool.
func (dp DicePool) Max() int {
	m := 0
	for _, d := range dp {
		if d > m {
			m = d
		}
	}
	return m
}

// IsDoubles reports whether every die in the pool has the same value.
func (dp DicePool) IsDoubles() bool {
	return len(dp) > 0 && len(dp.Distinct()) == 1
}
