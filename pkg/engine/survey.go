package engine

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// RollOutcome is the tree search result for one of the 21 distinct rolls.
type RollOutcome struct {
	Dice      [2]int `json:"dice"`
	Ways      int    `json:"ways"`      // 1 for doubles, 2 otherwise (of 36)
	MaxDice   int    `json:"max_dice"`  // Most dice usable with this roll
	MaxPips   int    `json:"max_pips"`  // Most pips among full-use sequences
	FullUse   bool   `json:"full_use"`  // Whether every die can be played
	Sequences int    `json:"sequences"` // Distinct sequences achieving MaxDice
}

// RollSurvey summarizes how playable a position is across all rolls.
type RollSurvey struct {
	Player             Player        `json:"player"`
	Rolls              []RollOutcome `json:"rolls"`
	MeanDiceUsable     float64       `json:"mean_dice_usable"`
	StdDevDiceUsable   float64       `json:"stddev_dice_usable"`
	MeanPips           float64       `json:"mean_pips"`
	NoMoveProbability  float64       `json:"no_move_probability"` // P(roll with no legal move)
	PartialProbability float64       `json:"partial_probability"` // P(roll that cannot be fully used)
}

// AllRolls returns the 21 distinct rolls, high die first.
func AllRolls() [][2]int {
	rolls := make([][2]int, 0, 21)
	for d1 := 6; d1 >= 1; d1-- {
		for d2 := d1; d2 >= 1; d2-- {
			rolls = append(rolls, [2]int{d1, d2})
		}
	}
	return rolls
}

// SurveyRolls runs the move-tree search for p over every possible roll.
// Rolls are searched concurrently; the result is deterministic.
func SurveyRolls(ctx context.Context, pos Position, p Player, opts TableOptions) (*RollSurvey, error) {
	rolls := AllRolls()
	outcomes := make([]RollOutcome, len(rolls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, roll := range rolls {
		i, roll := i, roll
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			pool := ExpandRoll(roll[0], roll[1])
			tree := SearchMoveTree(pos, pool, p, opts)
			ways := 2
			if roll[0] == roll[1] {
				ways = 1
			}
			outcomes[i] = RollOutcome{
				Dice:      roll,
				Ways:      ways,
				MaxDice:   tree.MaxDice,
				MaxPips:   tree.MaxPips,
				FullUse:   tree.MaxDice == pool.Len(),
				Sequences: countSequences(tree),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return summarize(p, outcomes), nil
}

// countSequences counts paths, treating an empty search as zero
func countSequences(tree TreeResult) int {
	if tree.MaxDice == 0 {
		return 0
	}
	return len(tree.Paths)
}

func summarize(p Player, outcomes []RollOutcome) *RollSurvey {
	n := len(outcomes)
	dice := make([]float64, n)
	pips := make([]float64, n)
	weights := make([]float64, n)
	noMove := make([]float64, n)
	partial := make([]float64, n)

	for i, o := range outcomes {
		dice[i] = float64(o.MaxDice)
		pips[i] = float64(o.MaxPips)
		weights[i] = float64(o.Ways)
		if o.MaxDice == 0 {
			noMove[i] = 1
		}
		if !o.FullUse {
			partial[i] = 1
		}
	}

	mean, std := stat.PopMeanStdDev(dice, weights)
	return &RollSurvey{
		Player:             p,
		Rolls:              outcomes,
		MeanDiceUsable:     mean,
		StdDevDiceUsable:   std,
		MeanPips:           stat.Mean(pips, weights),
		NoMoveProbability:  stat.Mean(noMove, weights),
		PartialProbability: stat.Mean(partial, weights),
	}
}
