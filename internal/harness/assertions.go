package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/switchboard/internal/game"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Type, e.Expected, e.Actual)
}

// checkAssertion evaluates one assertion against the final game state.
func checkAssertion(g *game.Game, a Assertion) error {
	switch a.Type {
	case AssertOutcome:
		return compare(a.Type, a.Value, g.Outcome().String())
	case AssertPhase:
		return compare(a.Type, a.Value, string(g.Phase()))
	case AssertCurrentTeam:
		return compare(a.Type, strings.ToLower(a.Value), string(g.CurrentTeam()))
	case AssertRemaining:
		team, _ := game.ParseTeam(a.Team)
		return compare(a.Type+" "+a.Team, fmt.Sprint(*a.Count), fmt.Sprint(g.Remaining(team)))
	case AssertUnsatisfied:
		team, _ := game.ParseTeam(a.Team)
		return compare(a.Type+" "+a.Team, fmt.Sprint(*a.Count), fmt.Sprint(g.UnsatisfiedCount(team)))
	case AssertEndReasons:
		var got []string
		for _, r := range g.Records() {
			got = append(got, string(r.EndReason))
		}
		return compareList(a.Type, a.Values, got)
	case AssertPenaltyTargets:
		var got []string
		for _, r := range g.Records() {
			if r.PenaltyTarget != "" {
				got = append(got, r.PenaltyTarget)
			}
		}
		return compareList(a.Type, a.Values, got)
	case AssertRevealed, AssertHidden:
		return assertReveals(g.Board(true), a)
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

func assertReveals(view game.BoardView, a Assertion) error {
	wantRevealed := a.Type == AssertRevealed
	var wrong []string
	for _, name := range a.Values {
		i := slices.IndexFunc(view.Cells, func(c game.Cell) bool { return c.Name == name })
		if i < 0 {
			return &AssertionError{Type: a.Type, Expected: name + " on the board", Actual: "no such name"}
		}
		if view.Cells[i].Revealed != wantRevealed {
			wrong = append(wrong, name)
		}
	}
	if len(wrong) > 0 {
		return &AssertionError{
			Type:     a.Type,
			Expected: strings.Join(a.Values, ", ") + " " + a.Type,
			Actual:   "not " + a.Type + ": " + strings.Join(wrong, ", "),
		}
	}
	return nil
}

func compare(typ, want, got string) error {
	if want != got {
		return &AssertionError{Type: typ, Expected: want, Actual: got}
	}
	return nil
}

func compareList(typ string, want, got []string) error {
	if !slices.Equal(want, got) {
		return &AssertionError{
			Type:     typ,
			Expected: "[" + strings.Join(want, ", ") + "]",
			Actual:   "[" + strings.Join(got, ", ") + "]",
		}
	}
	return nil
}
