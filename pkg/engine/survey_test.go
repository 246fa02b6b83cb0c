package engine

import (
	"context"
	"math"
	"testing"
)

func TestAllRolls(t *testing.T) {
	rolls := AllRolls()
	if len(rolls) != 21 {
		t.Fatalf("got %d rolls, want 21", len(rolls))
	}
	ways := 0
	for _, r := range rolls {
		if r[0] == r[1] {
			ways++
		} else {
			ways += 2
		}
	}
	if ways != 36 {
		t.Errorf("rolls cover %d of 36 outcomes", ways)
	}
}

func TestSurveyRollsStartingPosition(t *testing.T) {
	survey, err := SurveyRolls(context.Background(), StartingPosition(), White, DefaultTableOptions())
	if err != nil {
		t.Fatalf("SurveyRolls: %v", err)
	}
	if survey.NoMoveProbability != 0 || survey.PartialProbability != 0 {
		t.Errorf("every opening roll is fully playable: no-move %.3f partial %.3f",
			survey.NoMoveProbability, survey.PartialProbability)
	}
	// 6 doubles use 4 dice, 30 of 36 rolls use 2
	want := (6.0*4 + 30.0*2) / 36
	if math.Abs(survey.MeanDiceUsable-want) > 1e-9 {
		t.Errorf("MeanDiceUsable = %f, want %f", survey.MeanDiceUsable, want)
	}
	if survey.StdDevDiceUsable <= 0 {
		t.Errorf("StdDevDiceUsable = %f, want > 0", survey.StdDevDiceUsable)
	}
	for _, r := range survey.Rolls {
		if !r.FullUse || r.Sequences == 0 {
			t.Errorf("roll %v: full=%v sequences=%d", r.Dice, r.FullUse, r.Sequences)
		}
	}
}

func TestSurveyRollsClosedBoard(t *testing.T) {
	gs := layout(closedBlackHome(), PerPlayer{White: 1}, White)
	survey, err := SurveyRolls(context.Background(), gs.Position, White, gs.Options)
	if err != nil {
		t.Fatalf("SurveyRolls: %v", err)
	}
	if survey.NoMoveProbability != 1 {
		t.Errorf("NoMoveProbability = %f, want 1", survey.NoMoveProbability)
	}
	if survey.MeanDiceUsable != 0 || survey.StdDevDiceUsable != 0 {
		t.Errorf("mean/std = %f/%f, want 0/0", survey.MeanDiceUsable, survey.StdDevDiceUsable)
	}
}

func TestSurveyRollsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := SurveyRolls(ctx, StartingPosition(), White, DefaultTableOptions()); err == nil {
		t.Error("expected an error from a cancelled context")
	}
}
