// Package engine implements the backgammon rules referee: move validation,
// legal move enumeration and forced-move analysis.
//
// Board layout: 24 points indexed 0-23. A positive value is a stack of
// white checkers, a negative value a stack of black checkers.
// White moves from high to low indices and bears off past point 0;
// black moves from low to high indices and bears off past point 23.
package engine

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	// NumPoints is the number of points on the board
	NumPoints = 24
	// NumCheckers is the number of checkers each player owns
	NumCheckers = 15
	// Bar is the pseudo-point a checker re-enters from
	Bar = -1
	// BearOff is the pseudo-point a borne-off checker moves to
	BearOff = 24
)

// Player identifies one side of the board.
type Player int

const (
	White Player = iota
	Black
)

// String returns "white" or "black".
func (p Player) String() string {
	if p == Black {
		return "black"
	}
	return "white"
}

// Opponent returns the other player.
func (p Player) Opponent() Player {
	if p == White {
		return Black
	}
	return White
}

// Direction returns the sign of index change for a forward move.
func (p Player) Direction() int {
	if p == White {
		return -1
	}
	return 1
}

// Sign returns the board value sign used for p's checkers.
func (p Player) Sign() int {
	if p == White {
		return 1
	}
	return -1
}

// MarshalJSON encodes the player as "white" or "black".
func (p Player) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON decodes "white" or "black".
func (p *Player) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParsePlayer(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ErrUnknownPlayer is returned when a player name is not recognized
var ErrUnknownPlayer = errors.New("unknown player")

// ParsePlayer parses "white"/"w" or "black"/"b".
func ParsePlayer(s string) (Player, error) {
	switch s {
	case "white", "w", "White", "WHITE":
		return White, nil
	case "black", "b", "Black", "BLACK":
		return Black, nil
	}
	return White, fmt.Errorf("%w: %q", ErrUnknownPlayer, s)
}

// PerPlayer holds one count for each player (bar or home).
type PerPlayer struct {
	White int `json:"white"`
	Black int `json:"black"`
}

// Get returns the count for p.
func (c PerPlayer) Get(p Player) int {
	if p == White {
		return c.White
	}
	return c.Black
}

// Add adjusts the count for p by n.
func (c *PerPlayer) Add(p Player, n int) {
	if p == White {
		c.White += n
	} else {
		c.Black += n
	}
}

// Position is the checker layout: board, bar and borne-off checkers.
// It is a value type; assigning a Position copies it.
type Position struct {
	Board [NumPoints]int `json:"board"`
	Bar   PerPlayer      `json:"bar"`
	Home  PerPlayer      `json:"home"`
}

// TableOptions holds the per-table ruleset toggles.
type TableOptions struct {
	AllowBearOffOvershoot bool `json:"allowBearOffOvershoot"`
	RequireHigherDie      bool `json:"requireHigherDie"`
}

// DefaultTableOptions returns the options used when a snapshot omits them.
func DefaultTableOptions() TableOptions {
	return TableOptions{AllowBearOffOvershoot: true}
}

// UnmarshalJSON applies the defaults before decoding so an omitted
// allowBearOffOvershoot stays true.
func (o *TableOptions) UnmarshalJSON(data []byte) error {
	type plain TableOptions
	opts := plain(DefaultTableOptions())
	if err := json.Unmarshal(data, &opts); err != nil {
		return err
	}
	*o = TableOptions(opts)
	return nil
}

// GameState is the snapshot a turn is judged against.
type GameState struct {
	Position
	ActivePlayer Player       `json:"activePlayer"`
	Dice         []int        `json:"dice"`
	DiceUsed     []int        `json:"diceUsed,omitempty"`
	Options      TableOptions `json:"tableOptions"`
}

// UnmarshalJSON defaults tableOptions when the snapshot has none.
func (gs *GameState) UnmarshalJSON(data []byte) error {
	type plain GameState
	st := plain{Options: DefaultTableOptions()}
	if err := json.Unmarshal(data, &st); err != nil {
		return err
	}
	*gs = GameState(st)
	return nil
}

// Clone returns a deep copy of the state.
func (gs *GameState) Clone() *GameState {
	c := *gs
	c.Dice = cloneInts(gs.Dice)
	c.DiceUsed = cloneInts(gs.DiceUsed)
	return &c
}

func cloneInts(s []int) []int {
	if s == nil {
		return nil
	}
	out := make([]int, len(s))
	copy(out, s)
	return out
}

// RemainingDice returns the dice not yet consumed this turn.
func (gs *GameState) RemainingDice() DicePool {
	pool := NewDicePool(gs.Dice...)
	for _, d := range gs.DiceUsed {
		pool = pool.Without(d)
	}
	return pool
}

// StartingPosition returns the standard backgammon starting layout.
func StartingPosition() Position {
	var pos Position
	// White
	pos.Board[23] = 2
	pos.Board[12] = 5
	pos.Board[7] = 3
	pos.Board[5] = 5
	// Black, mirrored
	pos.Board[0] = -2
	pos.Board[11] = -5
	pos.Board[16] = -3
	pos.Board[18] = -5
	return pos
}

// CheckersOnBoard counts p's checkers on the 24 points.
func (pos *Position) CheckersOnBoard(p Player) int {
	n := 0
	for _, v := range pos.Board {
		if IsOwnedBy(v, p) {
			n += Count(v)
		}
	}
	return n
}

// TotalCheckers counts p's checkers on the board, the bar and home.
func (pos *Position) TotalCheckers(p Player) int {
	return pos.CheckersOnBoard(p) + pos.Bar.Get(p) + pos.Home.Get(p)
}

// PipCount returns the total pips p needs to bear off every checker.
func (pos *Position) PipCount(p Player) int {
	pips := pos.Bar.Get(p) * 25
	for i, v := range pos.Board {
		if IsOwnedBy(v, p) {
			pips += Count(v) * DistanceToBearOff(p, i)
		}
	}
	return pips
}

// ErrInvalidPosition is returned for structurally impossible positions
var ErrInvalidPosition = errors.New("invalid position")

// Validate checks the checker-count invariant.
func (pos *Position) Validate() error {
	for _, p := range []Player{White, Black} {
		if pos.Bar.Get(p) < 0 || pos.Home.Get(p) < 0 {
			return fmt.Errorf("%w: negative bar or home count for %s", ErrInvalidPosition, p)
		}
		if n := pos.TotalCheckers(p); n != NumCheckers {
			return fmt.Errorf("%w: %s has %d checkers, want %d", ErrInvalidPosition, p, n, NumCheckers)
		}
	}
	return nil
}

// ErrInvalidDice is returned when a roll has the wrong shape
var ErrInvalidDice = errors.New("invalid dice")

// Validate checks the position and the dice shape: two dice, or four
// equal dice for doubles.
func (gs *GameState) Validate() error {
	if err := gs.Position.Validate(); err != nil {
		return err
	}
	if gs.ActivePlayer != White && gs.ActivePlayer != Black {
		return fmt.Errorf("%w: active player %d", ErrUnknownPlayer, gs.ActivePlayer)
	}
	switch len(gs.Dice) {
	case 2:
	case 4:
		for _, d := range gs.Dice[1:] {
			if d != gs.Dice[0] {
				return fmt.Errorf("%w: four dice must be doubles, got %v", ErrInvalidDice, gs.Dice)
			}
		}
	default:
		return fmt.Errorf("%w: need 2 or 4 dice, got %d", ErrInvalidDice, len(gs.Dice))
	}
	for _, d := range gs.Dice {
		if d < 1 || d > 6 {
			return fmt.Errorf("%w: die value %d out of range", ErrInvalidDice, d)
		}
	}
	remaining := NewDicePool(gs.Dice...)
	for _, d := range gs.DiceUsed {
		if !remaining.Contains(d) {
			return fmt.Errorf("%w: used die %d was not rolled", ErrInvalidDice, d)
		}
		remaining = remaining.Without(d)
	}
	return nil
}

// EqualPositions returns true if two positions are identical
func EqualPositions(a, b Position) bool {
	return a == b
}
