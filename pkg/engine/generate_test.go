package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGenerateMovesForDieStartingPosition(t *testing.T) {
	gs := startingState(White, 6, 5)
	got := GenerateMovesForDie(gs, 6, White)
	want := []Move{
		{From: 23, To: 17, Die: 6},
		{From: 12, To: 6, Die: 6},
		{From: 7, To: 1, Die: 6},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("moves for 6 mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateMovesForDieBarEntry(t *testing.T) {
	gs := layout(map[int]int{12: 2}, PerPlayer{White: 1}, White, 3, 5)

	got := GenerateMovesForDie(gs, 3, White)
	want := []Move{{From: Bar, To: 21, Die: 3}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("bar entry mismatch (-want +got):\n%s", diff)
	}

	gs.Board[21] = -2
	gs.Home.Black -= 2
	if got := GenerateMovesForDie(gs, 3, White); len(got) != 0 {
		t.Errorf("blocked entry should yield no moves, got %v", got)
	}
}

func TestGenerateMovesForDieBearOff(t *testing.T) {
	gs := layout(map[int]int{0: 1, 2: 1, 4: 1}, PerPlayer{}, White, 6, 3)

	gs.Options.AllowBearOffOvershoot = false
	got := GenerateMovesForDie(gs, 6, White)
	want := []Move{{From: 4, To: BearOff, Die: 6}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("strict overshoot mismatch (-want +got):\n%s", diff)
	}

	gs.Options.AllowBearOffOvershoot = true
	got = GenerateMovesForDie(gs, 6, White)
	if len(got) != 3 {
		t.Errorf("with overshoot allowed every checker can bear off with a 6, got %v", got)
	}

	got = GenerateMovesForDie(gs, 3, White)
	want = []Move{
		{From: 4, To: 1, Die: 3},
		{From: 2, To: BearOff, Die: 3},
		{From: 0, To: BearOff, Die: 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("die 3 mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateMovesRespectsBlocks(t *testing.T) {
	gs := layout(map[int]int{12: 2, 9: -2, 7: -1}, PerPlayer{}, White, 3, 5)
	if got := GenerateMovesForDie(gs, 3, White); len(got) != 0 {
		t.Errorf("12->9 is blocked, got %v", got)
	}
	got := CalculateLegalMoves(gs, nil, White)
	want := []LegalMove{{Move: Move{From: 12, To: 7, Die: 5}, Hit: true}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("legal moves mismatch (-want +got):\n%s", diff)
	}
}

func TestEnumeratedMovesPassValidation(t *testing.T) {
	states := []*GameState{
		startingState(White, 6, 5),
		startingState(Black, 4, 4, 4, 4),
		layout(map[int]int{0: 1, 2: 1, 4: 1, 10: -1}, PerPlayer{}, White, 6, 1),
		layout(map[int]int{12: 2, 20: -2}, PerPlayer{White: 1}, White, 2, 4),
	}
	for _, gs := range states {
		for _, lm := range CalculateLegalMoves(gs, nil, gs.ActivePlayer) {
			v := ValidateMove(gs, lm.Move, gs.ActivePlayer, gs.RemainingDice())
			if !v.Valid {
				t.Errorf("enumerated move %+v rejected: %v", lm.Move, v.Messages())
			}
			if (v.Hit != nil) != lm.Hit {
				t.Errorf("hit flag mismatch for %+v", lm.Move)
			}
		}
	}
}

func TestHasLegalMoves(t *testing.T) {
	gs := layout(closedBlackHome(), PerPlayer{White: 1}, White, 3, 5)
	gs.Board[12] = 2
	gs.Home.White -= 2
	if HasLegalMoves(gs, White) {
		t.Error("white on the bar against a closed board has no legal moves")
	}

	if !HasLegalMoves(startingState(White, 3, 1), White) {
		t.Error("starting position should have legal moves")
	}

	// Only the unused die counts
	gs = layout(map[int]int{12: 2, 9: -2}, PerPlayer{}, White, 3, 5)
	gs.DiceUsed = []int{5}
	if HasLegalMoves(gs, White) {
		t.Error("only the blocked 3 remains, expected no legal moves")
	}
}
