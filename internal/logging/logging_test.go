package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "info", "json")
	require.NoError(t, err)

	logger.Debug().Msg("hidden")
	logger.Info().Int("dice", 2).Msg("turn-validated")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "turn-validated", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.EqualValues(t, 2, entry["dice"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "DEBUG", "console")
	require.NoError(t, err)

	logger.Debug().Str("player", "white").Msg("legal-moves")
	assert.Contains(t, buf.String(), "legal-moves")
	assert.Contains(t, buf.String(), "player=")
}

func TestNewBadLevel(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "loud", "json")
	assert.Error(t, err)
}
