package engine

import "testing"

func TestSearchMoveTreeForcedExample(t *testing.T) {
	gs := layout(map[int]int{12: 2}, PerPlayer{}, White, 3, 5)
	tree := SearchMoveTree(gs.Position, gs.RemainingDice(), White, gs.Options)
	if tree.MaxDice != 2 {
		t.Errorf("MaxDice = %d, want 2", tree.MaxDice)
	}
	if tree.MaxPips != 8 {
		t.Errorf("MaxPips = %d, want 8", tree.MaxPips)
	}
	for _, path := range tree.Paths {
		if len(path) != 2 {
			t.Errorf("path %s uses %d dice, want 2", FormatMoves(path, White), len(path))
		}
	}
}

func TestSearchMoveTreeStartingPosition(t *testing.T) {
	tests := []struct {
		d1, d2 int
		want   int
	}{
		{6, 5, 2},
		{3, 1, 2},
		{6, 6, 4},
		{1, 1, 4},
	}
	for _, tc := range tests {
		gs := startingState(White, tc.d1, tc.d2)
		tree := SearchMoveTree(gs.Position, ExpandRoll(tc.d1, tc.d2), White, gs.Options)
		if tree.MaxDice != tc.want {
			t.Errorf("roll %d-%d: MaxDice = %d, want %d", tc.d1, tc.d2, tree.MaxDice, tc.want)
		}
		if len(tree.Paths) == 0 {
			t.Errorf("roll %d-%d: no paths", tc.d1, tc.d2)
		}
	}
}

func TestSearchMoveTreeDoublesCollapse(t *testing.T) {
	gs := layout(map[int]int{20: 1}, PerPlayer{}, White, 1, 1, 1, 1)
	tree := SearchMoveTree(gs.Position, gs.RemainingDice(), White, gs.Options)
	if tree.MaxDice != 4 {
		t.Errorf("MaxDice = %d, want 4", tree.MaxDice)
	}
	// One checker and one distinct die: exactly one sequence
	if len(tree.Paths) != 1 {
		t.Errorf("got %d paths, want 1", len(tree.Paths))
	}
}

func TestSearchMoveTreeNoMoves(t *testing.T) {
	gs := layout(closedBlackHome(), PerPlayer{White: 1}, White, 3, 5)
	tree := SearchMoveTree(gs.Position, gs.RemainingDice(), White, gs.Options)
	if tree.MaxDice != 0 {
		t.Errorf("MaxDice = %d, want 0", tree.MaxDice)
	}
	if len(tree.Paths) != 1 || len(tree.Paths[0]) != 0 {
		t.Errorf("want a single empty path, got %v", tree.Paths)
	}
}

func TestSearchMoveTreeOnlyOneDie(t *testing.T) {
	gs := layout(map[int]int{8: 1, 1: -2}, PerPlayer{}, White, 6, 1)
	tree := SearchMoveTree(gs.Position, gs.RemainingDice(), White, gs.Options)
	if tree.MaxDice != 1 {
		t.Errorf("MaxDice = %d, want 1", tree.MaxDice)
	}
	if tree.MaxPips != 6 {
		t.Errorf("MaxPips = %d, want 6", tree.MaxPips)
	}
	if len(tree.Paths) != 2 {
		t.Errorf("got %d paths, want 2 (8/2 and 8/7)", len(tree.Paths))
	}
}

func TestSearchMoveTreeDoesNotMutate(t *testing.T) {
	gs := startingState(White, 6, 6)
	before := gs.Position
	pool := gs.RemainingDice()
	SearchMoveTree(gs.Position, pool, White, gs.Options)
	if gs.Position != before {
		t.Error("search mutated the position")
	}
	if pool.Len() != 4 {
		t.Errorf("search mutated the pool: %v", pool)
	}
}

func TestDicePoolDoubles(t *testing.T) {
	pool := ExpandRoll(4, 4)
	if pool.Len() != 4 || pool.Count(4) != 4 {
		t.Fatalf("doubles pool = %v, want four 4s", pool)
	}
	rest := pool.Without(4)
	if rest.Len() != 3 {
		t.Errorf("after consuming one die: %v, want three 4s", rest)
	}
	if pool.Len() != 4 {
		t.Errorf("Without modified the receiver: %v", pool)
	}
	if got := pool.Distinct(); len(got) != 1 || got[0] != 4 {
		t.Errorf("Distinct = %v, want [4]", got)
	}

	mixed := ExpandRoll(3, 5)
	if got := mixed.Distinct(); len(got) != 2 || got[0] != 5 || got[1] != 3 {
		t.Errorf("Distinct = %v, want [5 3]", got)
	}
	if same := mixed.Without(6); same.Len() != 2 {
		t.Errorf("removing an absent die changed the pool: %v", same)
	}
}
