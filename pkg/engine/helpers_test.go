package engine

// layout builds a state from a point->value map. Checkers not placed on
// the board or bar are counted as borne off so each side totals 15.
func layout(points map[int]int, bar PerPlayer, active Player, dice ...int) *GameState {
	gs := &GameState{
		ActivePlayer: active,
		Dice:         dice,
		Options:      DefaultTableOptions(),
	}
	for pt, v := range points {
		gs.Board[pt] = v
	}
	gs.Bar = bar
	for _, p := range []Player{White, Black} {
		placed := gs.CheckersOnBoard(p) + gs.Bar.Get(p)
		gs.Home.Add(p, NumCheckers-placed)
	}
	return gs
}

func startingState(active Player, dice ...int) *GameState {
	return &GameState{
		Position:     StartingPosition(),
		ActivePlayer: active,
		Dice:         dice,
		Options:      DefaultTableOptions(),
	}
}

// closedBlackHome is a black six-point prime on white's entry board
func closedBlackHome() map[int]int {
	return map[int]int{18: -2, 19: -2, 20: -2, 21: -2, 22: -2, 23: -2}
}
