package game

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/switchboard/internal/testutil"
)

func fixedCells(revealed ...string) []Cell {
	layout := testutil.RedStartLayout()
	open := make(map[string]bool, len(revealed))
	for _, n := range revealed {
		open[n] = true
	}
	cells := make([]Cell, len(testutil.Names))
	for i, n := range testutil.Names {
		cells[i] = Cell{Name: n, Identity: Identity(layout[n]), Revealed: open[n]}
	}
	return cells
}

// fixedBoard is the testutil layout with red starting; names listed in
// revealed start revealed.
func fixedBoard(t *testing.T, revealed ...string) *Board {
	t.Helper()
	b, err := NewBoard(fixedCells(revealed...), TeamRed)
	require.NoError(t, err)
	return b
}

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTestGame(t *testing.T, b *Board, opts ...Option) *Game {
	t.Helper()
	base := []Option{
		WithIDGenerator(NewFixedGenerator("game-1")),
		WithLogger(quietLogger()),
	}
	g, err := New(b, append(base, opts...)...)
	require.NoError(t, err)
	return g
}

// openTurn proposes and approves a clue for the current team.
func openTurn(t *testing.T, g *Game, text string, n ClueNumber) {
	t.Helper()
	require.NoError(t, g.ProposeClue(text, n))
	require.NoError(t, g.ApplyVerdict(Approve("")))
	require.Equal(t, PhaseGuessing, g.Phase())
}
