// Package external reads board descriptions produced by other backgammon
// software and turns them into referee game states.
package external

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/yourusername/bgreferee/pkg/engine"
)

// ErrInvalidFIBSBoard is returned for board strings that cannot be read
var ErrInvalidFIBSBoard = errors.New("invalid FIBS board")

// Field positions after the "board:" prefix.
const (
	fieldBoard     = 5
	fieldTurn      = 31
	fieldDice      = 32
	fieldOppDice   = 34
	fieldColour    = 40
	fieldDirection = 41
	fieldBar       = 43
	fieldOnBar     = 46
	minFields      = 32
)

// FIBSBoard is a parsed FIBS board string.
// See: http://www.fibs.com/fibs_interface.html#board_state
//
// "You" always maps to engine.White, moving toward index 0.
type FIBSBoard struct {
	Player1     string  // Your name
	Player2     string  // Opponent's name
	MatchLength int     // Match length (0 = unlimited)
	Score1      int     // Your score
	Score2      int     // Opponent's score
	Board       [26]int // Positions 0-25; 0 and 25 are the bars
	Turn        int     // Colour on turn (0 = nobody)
	Dice        [2]int  // Your dice (0,0 if not rolled)
	OppDice     [2]int  // Opponent's dice
	Colour      int     // Your colour (1 or -1); your checkers carry this sign
	Direction   int     // -1 if you move from 24 to 1, 1 otherwise
	BarPoint    int     // Position of your bar (25 or 0)
	OnBar       [2]int  // Checkers on the bar [you, opponent]
}

func atoi(parts []string, i int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
	if err != nil {
		return 0, fmt.Errorf("%w: field %d %q", ErrInvalidFIBSBoard, i, parts[i])
	}
	return n, nil
}

// ParseFIBSBoard parses a FIBS board string.
// Format: board:player1:player2:matchlen:score1:score2:board[26]:turn:dice[4]:cube:...
// Strings cut short after the turn field get colour 1, direction -1 and
// bar counts read from board positions 0 and 25.
func ParseFIBSBoard(s string) (*FIBSBoard, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "board:")

	parts := strings.Split(s, ":")
	if len(parts) < minFields {
		return nil, fmt.Errorf("%w: expected at least %d fields, got %d", ErrInvalidFIBSBoard, minFields, len(parts))
	}

	fb := &FIBSBoard{
		Player1:   parts[0],
		Player2:   parts[1],
		Colour:    1,
		Direction: -1,
		BarPoint:  25,
	}

	var err error
	ints := []struct {
		dst   *int
		field int
	}{
		{&fb.MatchLength, 2},
		{&fb.Score1, 3},
		{&fb.Score2, 4},
		{&fb.Turn, fieldTurn},
	}
	for i := 0; i < 26; i++ {
		ints = append(ints, struct {
			dst   *int
			field int
		}{&fb.Board[i], fieldBoard + i})
	}
	for _, f := range ints {
		if *f.dst, err = atoi(parts, f.field); err != nil {
			return nil, err
		}
	}

	optional := []struct {
		dst   *int
		field int
	}{
		{&fb.Dice[0], fieldDice},
		{&fb.Dice[1], fieldDice + 1},
		{&fb.OppDice[0], fieldOppDice},
		{&fb.OppDice[1], fieldOppDice + 1},
		{&fb.Colour, fieldColour},
		{&fb.Direction, fieldDirection},
		{&fb.BarPoint, fieldBar},
		{&fb.OnBar[0], fieldOnBar},
		{&fb.OnBar[1], fieldOnBar + 1},
	}
	for _, f := range optional {
		if f.field >= len(parts) {
			continue
		}
		if *f.dst, err = atoi(parts, f.field); err != nil {
			return nil, err
		}
	}

	if fb.Colour != 1 && fb.Colour != -1 {
		return nil, fmt.Errorf("%w: colour %d", ErrInvalidFIBSBoard, fb.Colour)
	}
	if fb.Direction != 1 && fb.Direction != -1 {
		return nil, fmt.Errorf("%w: direction %d", ErrInvalidFIBSBoard, fb.Direction)
	}
	if len(parts) <= fieldOnBar+1 {
		fb.OnBar = fb.barFromBoard()
	}
	return fb, nil
}

// barFromBoard reads bar counts from board positions 0 and 25.
func (fb *FIBSBoard) barFromBoard() [2]int {
	mine, theirs := 25, 0
	if fb.Direction == 1 {
		mine, theirs = 0, 25
	}
	return [2]int{abs(fb.Board[mine]), abs(fb.Board[theirs])}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// index maps a FIBS position 1-24 to an engine board index.
func (fb *FIBSBoard) index(pos int) int {
	if fb.Direction == -1 {
		return pos - 1
	}
	return engine.NumPoints - pos
}

// OnRoll returns the player whose turn it is.
func (fb *FIBSBoard) OnRoll() engine.Player {
	if fb.Turn == fb.Colour {
		return engine.White
	}
	return engine.Black
}

// ToGameState converts the board to a referee snapshot. The dice are
// those of the player on roll and stay nil if that player has not rolled.
func (fb *FIBSBoard) ToGameState(opts engine.TableOptions) (*engine.GameState, error) {
	gs := &engine.GameState{
		ActivePlayer: fb.OnRoll(),
		Options:      opts,
	}

	var onBoard engine.PerPlayer
	for pos := 1; pos <= engine.NumPoints; pos++ {
		// Positive is yours after applying the colour
		v := fb.Board[pos] * fb.Colour
		gs.Board[fb.index(pos)] = v
		switch {
		case v > 0:
			onBoard.White += v
		case v < 0:
			onBoard.Black -= v
		}
	}

	gs.Bar = engine.PerPlayer{White: fb.OnBar[0], Black: fb.OnBar[1]}
	gs.Home = engine.PerPlayer{
		White: engine.NumCheckers - onBoard.White - gs.Bar.White,
		Black: engine.NumCheckers - onBoard.Black - gs.Bar.Black,
	}
	if err := gs.Position.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFIBSBoard, err)
	}

	dice := fb.Dice
	if gs.ActivePlayer == engine.Black {
		dice = fb.OppDice
	}
	if dice[0] != 0 && dice[1] != 0 {
		gs.Dice = engine.ExpandRoll(dice[0], dice[1])
	}
	return gs, nil
}
