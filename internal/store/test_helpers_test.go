package store

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/roach88/switchboard/internal/game"
	"github.com/roach88/switchboard/internal/testutil"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// newTestGame starts a game on the fixed red-start layout.
func newTestGame(t *testing.T, id string, opts ...game.Option) *game.Game {
	t.Helper()
	layout := testutil.RedStartLayout()
	cells := make([]game.Cell, len(testutil.Names))
	for i, n := range testutil.Names {
		cells[i] = game.Cell{Name: n, Identity: game.Identity(layout[n])}
	}
	board, err := game.NewBoard(cells, game.TeamRed)
	if err != nil {
		t.Fatalf("NewBoard() failed: %v", err)
	}
	base := []game.Option{
		game.WithIDGenerator(game.NewFixedGenerator(id)),
		game.WithLogger(slog.New(slog.DiscardHandler)),
	}
	g, err := game.New(board, append(base, opts...)...)
	if err != nil {
		t.Fatalf("game.New() failed: %v", err)
	}
	return g
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

// playSampleGame plays a short game:
//
//	1a red  "PRIMARY" 2: ALPHA ✓, KILO ✗
//	1b blue "DELTA" 1: invalid exact-match, penalty reveals BRAVO
//	2a red  "SHADOW" 1: YANKEE, illegal contact
func playSampleGame(t *testing.T, g *game.Game) {
	t.Helper()
	must(t, g.ProposeClue("PRIMARY", game.Concrete(2)))
	must(t, g.ApplyVerdict(game.Approve("")))
	_, err := g.Guess("ALPHA")
	must(t, err)
	_, err = g.Guess("KILO")
	must(t, err)

	must(t, g.ProposeClue("DELTA", game.Concrete(1)))
	must(t, g.ApplyVerdict(game.Reject(game.ViolationExactMatch, "DELTA")))

	must(t, g.ProposeClue("SHADOW", game.Concrete(1)))
	must(t, g.ApplyVerdict(game.Approve("")))
	_, err = g.Guess("YANKEE")
	must(t, err)
}

func sampleRecord(t *testing.T, id string) GameRecord {
	t.Helper()
	g := newTestGame(t, id)
	playSampleGame(t, g)
	return GameRecord{Result: g.Result(), Seed: 42, Penalty: game.PenaltyRevealOpposingAlly}
}
