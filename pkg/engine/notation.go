package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Notation uses point numbers 1-24 from the mover's perspective, the
// way players write moves: "13/10 6/off bar/22". White's point n is
// board index n-1; black's point n is board index 24-n.

// ErrInvalidNotation is returned when move notation cannot be parsed
var ErrInvalidNotation = errors.New("invalid move notation")

// PointName returns the notation for a board index from p's perspective.
func PointName(p Player, index int) string {
	switch {
	case index == Bar:
		return "bar"
	case index == BearOff:
		return "off"
	case p == White:
		return strconv.Itoa(index + 1)
	}
	return strconv.Itoa(NumPoints - index)
}

// FormatMove converts a move to notation like "8/5".
func FormatMove(m Move, p Player) string {
	return PointName(p, m.From) + "/" + PointName(p, m.To)
}

// FormatMoves converts a move sequence to notation like "8/5 6/5".
func FormatMoves(moves []Move, p Player) string {
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = FormatMove(m, p)
	}
	return strings.Join(parts, " ")
}

// ParseMoves parses notation like "8/5 6/5", "24/18/13" or "6/off(2)"
// into moves for p. Dice are inferred from the distance; a bear-off uses
// the exact die when it is in dice, otherwise the smallest larger one.
func ParseMoves(notation string, p Player, dice DicePool) ([]Move, error) {
	var moves []Move
	remaining := NewDicePool(dice...)

	for _, part := range strings.Fields(notation) {
		count := 1
		if idx := strings.Index(part, "("); idx != -1 {
			end := strings.Index(part, ")")
			if end < idx {
				return nil, fmt.Errorf("%w: unbalanced repeat in %q", ErrInvalidNotation, part)
			}
			n, err := strconv.Atoi(part[idx+1 : end])
			if err != nil || n < 1 || n > 4 {
				return nil, fmt.Errorf("%w: bad repeat count in %q", ErrInvalidNotation, part)
			}
			count = n
			part = part[:idx]
		}

		hops := strings.Split(part, "/")
		if len(hops) < 2 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidNotation, part)
		}
		points := make([]int, len(hops))
		for i, h := range hops {
			pt, err := parsePoint(h, p)
			if err != nil {
				return nil, err
			}
			points[i] = pt
		}

		for c := 0; c < count; c++ {
			for i := 0; i+1 < len(points); i++ {
				m := Move{From: points[i], To: points[i+1]}
				m.Die = inferDie(m, p, remaining)
				remaining = remaining.Without(m.Die)
				moves = append(moves, m)
			}
		}
	}

	if len(moves) == 0 {
		return nil, fmt.Errorf("%w: no moves in %q", ErrInvalidNotation, notation)
	}
	if len(moves) > 4 {
		return nil, fmt.Errorf("%w: %d moves in one turn", ErrInvalidNotation, len(moves))
	}
	return moves, nil
}

// parsePoint converts one notation token to a board index
func parsePoint(s string, p Player) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	// A trailing "*" marks a hit
	s = strings.TrimSuffix(s, "*")
	switch s {
	case "bar", "b":
		return Bar, nil
	case "off", "o", "home":
		return BearOff, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > NumPoints {
		return 0, fmt.Errorf("%w: bad point %q", ErrInvalidNotation, s)
	}
	if p == White {
		return n - 1, nil
	}
	return NumPoints - n, nil
}

// inferDie picks the die a notated move consumes
func inferDie(m Move, p Player, remaining DicePool) int {
	need := RequiredDie(p, m)
	if m.To != BearOff || remaining.Contains(need) {
		return need
	}
	best := 0
	for _, d := range remaining {
		if d > need && (best == 0 || d < best) {
			best = d
		}
	}
	if best == 0 {
		return need
	}
	return best
}
