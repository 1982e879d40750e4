package game

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogObserver(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	g := newTestGame(t, fixedBoard(t), WithObserver(LogObserver{Logger: logger}))
	openTurn(t, g, "PRIMARY", Concrete(1))
	_, err := g.Guess("YANKEE")
	require.NoError(t, err)

	out := buf.String()
	assert.NotContains(t, out, "transition")
	assert.Contains(t, out, "game over")
	assert.Contains(t, out, "outcome=\"loss(red, illegal contact)\"")
	assert.Contains(t, out, "winner=blue")
}

func TestLogObserver_TurnEnded(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	g := newTestGame(t, fixedBoard(t), WithObserver(LogObserver{Logger: logger}))
	openTurn(t, g, "PRIMARY", Concrete(1))
	_, err := g.Guess("ALPHA")
	require.NoError(t, err)
	require.NoError(t, g.Stop())

	out := buf.String()
	assert.Contains(t, out, "msg=transition")
	assert.Contains(t, out, "msg=\"turn ended\"")
	assert.Contains(t, out, "turn=1a")
	assert.Contains(t, out, "red_remaining=8")
	assert.Contains(t, out, "blue_remaining=8")
}
