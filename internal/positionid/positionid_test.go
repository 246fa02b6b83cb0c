package positionid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bgreferee/pkg/engine"
)

// Known position ID for starting position from gnubg
const startingPositionID = "4HPwATDgc/ABMA"

func TestEncodeStartingPosition(t *testing.T) {
	pos := engine.StartingPosition()
	assert.Equal(t, startingPositionID, Encode(pos, engine.White))
	// The opening layout is symmetric, so the side on roll does not matter
	assert.Equal(t, startingPositionID, Encode(pos, engine.Black))
}

func TestDecodeStartingPosition(t *testing.T) {
	pos, err := Decode(startingPositionID, engine.White)
	require.NoError(t, err)
	assert.Equal(t, engine.StartingPosition(), pos)
	assert.NoError(t, pos.Validate())
}

func TestRoundTrip(t *testing.T) {
	var race engine.Position
	race.Board[0] = 3
	race.Board[2] = 4
	race.Board[5] = 2
	race.Home.White = 6
	race.Board[20] = -5
	race.Board[23] = -2
	race.Home.Black = 8

	withBar := engine.StartingPosition()
	withBar.Board[5] = 4
	withBar.Bar.White = 1
	withBar.Board[18] = -4
	withBar.Bar.Black = 1

	tests := []struct {
		name string
		pos  engine.Position
	}{
		{"starting", engine.StartingPosition()},
		{"bear-off race", race},
		{"both on bar", withBar},
	}
	for _, tc := range tests {
		for _, onRoll := range []engine.Player{engine.White, engine.Black} {
			t.Run(tc.name+"/"+onRoll.String(), func(t *testing.T) {
				require.NoError(t, tc.pos.Validate())
				id := Encode(tc.pos, onRoll)
				assert.Len(t, id, IDLength)

				got, err := Decode(id, onRoll)
				require.NoError(t, err)
				assert.Equal(t, tc.pos, got)
			})
		}
	}
}

func TestEncodeDependsOnPlayerOnRoll(t *testing.T) {
	var pos engine.Position
	pos.Board[0] = 15
	pos.Board[5] = -15
	assert.NotEqual(t, Encode(pos, engine.White), Encode(pos, engine.Black))
}

func TestDecodeIgnoresMatchIDSuffix(t *testing.T) {
	pos, err := Decode(startingPositionID+":cAkAAAAAAAAA", engine.White)
	require.NoError(t, err)
	assert.Equal(t, engine.StartingPosition(), pos)
}

func TestDecodeErrors(t *testing.T) {
	// Opponent on its 1-point (board index 0 for black) and the player on
	// roll on its 1-point (also index 0 for white)
	var overlap tanBoard
	overlap[0][23] = 1
	overlap[1][0] = 1

	var crowded tanBoard
	crowded[1][5] = 16

	tests := []struct {
		name string
		id   string
	}{
		{"too short", "4HPwATDgc"},
		{"bad character", "4HPwATDgc*ABMA"},
		{"overlapping points", idFromKey(makeKey(overlap))},
		{"too many checkers", idFromKey(makeKey(crowded))},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.id, engine.White)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidPositionID)
		})
	}
}

func TestBase64Value(t *testing.T) {
	for i := 0; i < len(base64Chars); i++ {
		assert.Equal(t, byte(i), base64Value(base64Chars[i]))
	}
	assert.Equal(t, byte(255), base64Value('*'))
	assert.False(t, strings.ContainsRune(base64Chars, '*'))
}
