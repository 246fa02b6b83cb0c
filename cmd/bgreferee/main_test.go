package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bgreferee/pkg/engine"
)

const startingID = "4HPwATDgc/ABMA"

// forcedState has two white checkers on index 12 and dice 3-5.
const forcedState = `{
  "board": [0,0,0,0,0,0,0,0,0,0,0,0,2,0,0,0,0,0,0,0,0,0,0,0],
  "bar": {"white": 0, "black": 0},
  "home": {"white": 13, "black": 15},
  "activePlayer": "white",
  "dice": [3, 5]
}`

// runCLI runs the command with a default config file so the result does
// not depend on the user's XDG config.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{}`), 0644))

	if len(args) > 0 && args[0] != "help" {
		args = append([]string{args[0], "-config", cfgPath}, args[1:]...)
	}
	var out bytes.Buffer
	err := run(context.Background(), args, strings.NewReader(stdin), &out)
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	out, err := runCLI(t, "", "validate", "-p", startingID, "-d", "3-1", "-m", "8/5 6/5")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "VALID: white [3 1] 8/5 6/5"), out)
	assert.Contains(t, out, "Dice used: 2 of 2 usable")
	assert.Contains(t, out, "Result: ")
}

func TestValidateCommandForcedMove(t *testing.T) {
	out, err := runCLI(t, forcedState, "validate", "-state", "-", "-m", "13/10")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "INVALID"), out)
	assert.Contains(t, out, "[ForcedMoveViolation]")
	assert.Contains(t, out, "Dice used: 1 of 2 usable")
}

func TestValidateCommandJSON(t *testing.T) {
	out, err := runCLI(t, forcedState, "validate", "-state", "-", "-m", "13/10 13/8", "-json")
	require.NoError(t, err)

	var got struct {
		Valid          bool                   `json:"valid"`
		ForcedMoveInfo *engine.ForcedMoveInfo `json:"forcedMoveInfo"`
		Notation       string                 `json:"notation"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.Valid)
	assert.Equal(t, "13/10 13/8", got.Notation)
	require.NotNil(t, got.ForcedMoveInfo)
	assert.Equal(t, 2, got.ForcedMoveInfo.DiceUsed)
}

func TestLegalCommand(t *testing.T) {
	out, err := runCLI(t, "", "legal", "-p", startingID, "-d", "6-5")
	require.NoError(t, err)
	assert.Contains(t, out, "24/18")
	assert.Contains(t, out, "Max dice usable: 2")

	closed := `{
  "board": [0,0,0,0,0,14,0,0,0,0,0,0,0,0,0,0,0,0,-2,-2,-2,-2,-2,-2],
  "bar": {"white": 1, "black": 0},
  "home": {"white": 0, "black": 3},
  "activePlayer": "white",
  "dice": [3, 5]
}`
	out, err = runCLI(t, closed, "legal", "-state", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "No legal moves")
}

func TestTreeCommand(t *testing.T) {
	out, err := runCLI(t, forcedState, "tree", "-state", "-", "-n", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Max dice usable: 2 (max pips 8)")
	assert.Contains(t, out, "more")
}

func TestTreeCommandNoMoves(t *testing.T) {
	closed := `{
  "board": [0,0,0,0,0,14,0,0,0,0,0,0,0,0,0,0,0,0,-2,-2,-2,-2,-2,-2],
  "bar": {"white": 1, "black": 0},
  "home": {"white": 0, "black": 3},
  "activePlayer": "white",
  "dice": [3, 5]
}`
	out, err := runCLI(t, closed, "tree", "-state", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Max dice usable: 0 (max pips 0), 0 sequences")
	assert.Contains(t, out, "No legal moves")
	assert.NotContains(t, out, " 1. ")
}

func TestSurveyCommandJSON(t *testing.T) {
	out, err := runCLI(t, "", "survey", "-p", startingID, "-json")
	require.NoError(t, err)

	var got engine.RollSurvey
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Len(t, got.Rolls, 21)
	assert.Zero(t, got.NoMoveProbability)
}

func TestIDCommand(t *testing.T) {
	out, err := runCLI(t, forcedState, "id", "-state", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Position ID: ")
	assert.Contains(t, out, "Off: white 13, black 15")

	out, err = runCLI(t, "", "id", "-p", startingID, "-json")
	require.NoError(t, err)
	var got struct {
		PositionID string          `json:"position_id"`
		Position   engine.Position `json:"position"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, startingID, got.PositionID)
	assert.Equal(t, engine.StartingPosition(), got.Position)
}

func TestLegalCommandFIBS(t *testing.T) {
	board := "board:You:someplayer:3:0:0:" +
		"0:-2:0:0:0:0:5:0:3:0:0:0:-5:5:0:0:0:-3:0:-5:0:0:0:0:2:0:" +
		"1:6:2:0:0:1:1:1:0:1:-1:0:25:0:0:0:0:2:0:0:0"
	out, err := runCLI(t, "", "legal", "-fibs", board)
	require.NoError(t, err)
	assert.Contains(t, out, "24/18")
	assert.Contains(t, out, "13/11")

	_, err = runCLI(t, "", "legal", "-fibs", board, "-p", startingID)
	assert.Error(t, err)
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown command", []string{"evaluate"}},
		{"no state", []string{"legal", "-d", "3-1"}},
		{"bad dice", []string{"legal", "-p", startingID, "-d", "7-1"}},
		{"bad notation", []string{"validate", "-p", startingID, "-d", "3-1", "-m", "8-5"}},
		{"bad position", []string{"id", "-p", "short"}},
		{"bad player", []string{"legal", "-p", startingID, "-d", "3-1", "-player", "green"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := runCLI(t, "", tc.args...)
			assert.Error(t, err)
		})
	}

	var out bytes.Buffer
	assert.Error(t, run(context.Background(), nil, strings.NewReader(""), &out))
	assert.Contains(t, out.String(), "Usage:")
}

func TestParseDice(t *testing.T) {
	tests := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{"3-1", []int{3, 1}, false},
		{"6,5", []int{6, 5}, false},
		{"4-4", []int{4, 4, 4, 4}, false},
		{"0-3", nil, true},
		{"3", nil, true},
		{"a-b", nil, true},
	}
	for _, tc := range tests {
		got, err := parseDice(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}
