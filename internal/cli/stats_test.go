package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/switchboard/internal/game"
	"github.com/roach88/switchboard/internal/store"
)

func TestStatsEmptyDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "empty.db")
	out, err := execute(t, NewStatsCommand(&RootOptions{Format: "text"}), "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No games found in database.")
}

func TestStatsText(t *testing.T) {
	dbPath := seedArchive(t)

	out, err := execute(t, NewStatsCommand(&RootOptions{Format: "text"}), "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "games:          3\n")
	assert.Contains(t, out, "red wins:")
	assert.Contains(t, out, "invalid clues:  0 of ")
}

func TestStatsJSON(t *testing.T) {
	dbPath := seedArchive(t)

	out, err := execute(t, NewStatsCommand(&RootOptions{Format: "json"}), "--db", dbPath)
	require.NoError(t, err)

	var resp struct {
		Data store.Stats `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 3, resp.Data.Games)
	assert.Equal(t, 3, resp.Data.Wins[game.TeamRed]+resp.Data.Wins[game.TeamBlue])
	assert.Positive(t, resp.Data.Clues)
}

func TestStatsMissingDatabaseFlag(t *testing.T) {
	_, err := execute(t, NewStatsCommand(&RootOptions{Format: "text"}))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestPercent(t *testing.T) {
	assert.Zero(t, percent(3, 0))
	assert.InDelta(t, 50.0, percent(1, 2), 1e-9)
}
