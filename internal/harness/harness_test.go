package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/switchboard/internal/game"
	"github.com/roach88/switchboard/internal/testutil"
)

// fixedLayout is testutil's red-start layout in scenario form.
func fixedLayout() []string {
	layout := testutil.RedStartLayout()
	cells := make([]string, len(testutil.Names))
	for i, n := range testutil.Names {
		cells[i] = n + " " + layout[n]
	}
	return cells
}

func count(n int) *int { return &n }

func TestRun_ScenarioFiles(t *testing.T) {
	files, err := FindScenarios("testdata/scenarios", "")
	require.NoError(t, err)
	require.Len(t, files, 8)

	for _, path := range files {
		t.Run(filepath.Base(path), func(t *testing.T) {
			scenario, result, err := RunFile(path)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Equal(t, scenario.GameID, result.Game.GameID)
		})
	}
}

func TestRun_SeededBoard(t *testing.T) {
	_, result, err := RunFile("testdata/seeded_board.yaml")
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	require.Len(t, result.Trace, 4)
	assert.Equal(t, "guess", result.Trace[2].Action)
	assert.NotEqual(t, "@red", result.Trace[2].Detail, "symbolic target resolved to a name")
}

func TestRun_FailingExpectations(t *testing.T) {
	_, result, err := RunFile("testdata/invalid/failing.yaml")
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "expected outcome ally_hit, got civilian_hit")
	assert.Contains(t, result.Errors[1], "current_team: expected blue, got red")
}

func TestRun_PhasesAreObserved(t *testing.T) {
	s := &Scenario{
		Name:        "phases",
		Description: "phase sequence",
		Board:       BoardSpec{StartingTeam: "red", Cells: fixedLayout()},
		Turns: []TurnStep{{
			Clue:    "PRIMARY",
			Number:  "1",
			Actions: []ActionStep{{Guess: "ALPHA"}, {Stop: true}},
		}},
		Assertions: []Assertion{{Type: AssertPhase, Value: "propose_clue"}},
	}
	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, []game.Phase{
		game.PhaseProposeClue,
		game.PhaseValidating,
		game.PhaseGuessing,
		game.PhaseGuessing,
		game.PhaseResolving,
		game.PhaseProposeClue,
	}, result.Phases)
	assert.Equal(t, "phases", result.Game.GameID, "game id defaults to the name")
}

func TestRun_WrongTeamStopsTheScenario(t *testing.T) {
	s := &Scenario{
		Name:        "wrong_team",
		Description: "blue cannot open a red game",
		Board:       BoardSpec{StartingTeam: "red", Cells: fixedLayout()},
		Turns: []TurnStep{
			{Team: "blue", Clue: "OCEAN", Number: "1"},
			{Clue: "NEVER", Number: "1"},
		},
		Assertions: []Assertion{{Type: AssertRemaining, Team: "blue", Count: count(8)}},
	}
	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Equal(t, []string{"turns[0]: expected blue to play, got red"}, result.Errors)
	assert.Empty(t, result.Trace)
}

func TestRun_UnexpectedErrorStopsTheScenario(t *testing.T) {
	s := &Scenario{
		Name:        "unexpected",
		Description: "a premature stop without an expected error",
		Board:       BoardSpec{StartingTeam: "red", Cells: fixedLayout()},
		Turns: []TurnStep{{
			Clue:    "ANIMALS",
			Number:  "0",
			Actions: []ActionStep{{Stop: true}, {Guess: "ALPHA"}},
		}},
		Assertions: []Assertion{{Type: AssertPhase, Value: "guessing"}},
	}
	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "turns[0].actions[0]: unexpected error")
	require.Len(t, result.Trace, 3)
	assert.Equal(t, "error BUDGET_NOT_MET", result.Trace[2].Result)
}

func TestRun_ExpectedErrorThatDoesNotHappen(t *testing.T) {
	s := &Scenario{
		Name:        "no_error",
		Description: "stop succeeds although an error was expected",
		Board:       BoardSpec{StartingTeam: "red", Cells: fixedLayout()},
		Turns: []TurnStep{{
			Clue:    "PRIMARY",
			Number:  "2",
			Actions: []ActionStep{{Stop: true, Error: "BUDGET_NOT_MET"}},
		}},
		Assertions: []Assertion{{Type: AssertCurrentTeam, Value: "blue"}},
	}
	result, err := Run(s)
	require.NoError(t, err)
	assert.Equal(t, []string{"turns[0].actions[0]: expected error BUDGET_NOT_MET, got success"}, result.Errors)
}

func TestRun_BadBoard(t *testing.T) {
	s := &Scenario{
		Name:  "bad_board",
		Board: BoardSpec{StartingTeam: "red", Cells: fixedLayout()[:24]},
	}
	_, err := Run(s)
	require.Error(t, err)
	assert.ErrorIs(t, err, game.ErrConfiguration)
}

func TestResult_TraceEventString(t *testing.T) {
	assert.Equal(t, "3. red stop => propose_clue",
		TraceEvent{Seq: 3, Team: game.TeamRed, Action: "stop", Result: "propose_clue"}.String())
	assert.Equal(t, "1. blue guess KILO => ally_hit, guessing",
		TraceEvent{Seq: 1, Team: game.TeamBlue, Action: "guess", Detail: "KILO", Result: "ally_hit, guessing"}.String())
}
