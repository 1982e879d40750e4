package game

import (
	"fmt"
	"strings"
)

// TurnLabel formats a zero-based turn counter as "1a", "1b", "2a", ...
// The starting team always plays the "a" half.
func TurnLabel(turn int, team, startingTeam Team) string {
	half := "a"
	if team != startingTeam {
		half = "b"
	}
	return fmt.Sprintf("%d%s", turn/2+1, half)
}

// FormatHistory renders the ledger as the play-by-play text shown to
// proposers and choosers:
//
//	Turn 1a: Red Clue: "PRIMARY" (2)
//	  → ALPHA ✓, BRAVO ✗ (enemy)
//
// Records are separated by a blank line.
func FormatHistory(records []PlayRecord, startingTeam Team) string {
	if len(records) == 0 {
		return "None (game just started)"
	}

	blocks := make([]string, 0, len(records))
	for _, r := range records {
		var b strings.Builder
		fmt.Fprintf(&b, "Turn %s: %s Clue: %q (%s)",
			TurnLabel(r.Turn, r.Team, startingTeam), r.Team.Title(), r.Clue, r.Number)

		switch {
		case r.Validity == ValidityInvalid:
			fmt.Fprintf(&b, " [INVALID: %s]\n", violationText(r))
			if r.PenaltyTarget != "" {
				fmt.Fprintf(&b, "  → Turn ended due to invalid clue; %s revealed for %s", r.PenaltyTarget, r.Team.Opponent().Title())
			} else {
				b.WriteString("  → Turn ended due to invalid clue")
			}
		case len(r.Guesses) == 0:
			b.WriteString("\n  → No guesses made")
		default:
			outcomes := make([]string, len(r.Guesses))
			for i, g := range r.Guesses {
				outcomes[i] = formatGuess(g)
			}
			b.WriteString("\n  → " + strings.Join(outcomes, ", "))
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

func violationText(r PlayRecord) string {
	v := r.Violation
	if v == "" {
		v = "rule violation"
	}
	if len(r.Referenced) > 0 {
		v += " " + strings.Join(r.Referenced, ", ")
	}
	return v
}

func formatGuess(g GuessRecord) string {
	switch g.Outcome {
	case OutcomeAllyHit:
		return g.Name + " ✓"
	case OutcomeEnemyHit:
		return g.Name + " ✗ (enemy)"
	case OutcomeCivilianHit:
		return g.Name + " ○ (civilian)"
	case OutcomeIllegalHit:
		return g.Name + " ☠ (illegal)"
	}
	return g.Name
}
