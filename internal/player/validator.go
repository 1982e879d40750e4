package player

import (
	"context"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/switchboard/internal/game"
)

// AllChecks lists every check RuleValidator knows, in evaluation order.
var AllChecks = []string{
	game.ViolationMultipleWords,
	game.ViolationExactMatch,
	game.ViolationVariant,
	game.ViolationLetterCount,
	game.ViolationPosition,
}

// positionWords refer to places on the grid rather than meanings.
var positionWords = map[string]bool{
	"row": true, "rows": true, "column": true, "columns": true,
	"corner": true, "corners": true, "diagonal": true, "square": true,
	"grid": true, "position": true, "top": true, "bottom": true,
	"middle": true, "center": true, "centre": true,
}

// RuleValidator judges clues mechanically: it compares the clue text
// with the unrevealed board names after NFC normalisation and Unicode case
// folding. It makes no semantic judgement.
type RuleValidator struct {
	checks map[string]bool
}

// NewRuleValidator enables the named checks; no names means AllChecks.
// Unknown names are ignored.
func NewRuleValidator(checks ...string) *RuleValidator {
	if len(checks) == 0 {
		checks = AllChecks
	}
	v := &RuleValidator{checks: make(map[string]bool, len(checks))}
	for _, c := range checks {
		v.checks[c] = true
	}
	return v
}

// Validate implements game.Validator. The first failing check wins.
func (v *RuleValidator) Validate(ctx context.Context, req game.ValidationRequest) (game.Verdict, error) {
	if err := ctx.Err(); err != nil {
		return game.Verdict{}, err
	}

	clue := fold(req.Clue.Text)
	names := make([]string, len(req.Unrevealed))
	for i, n := range req.Unrevealed {
		names[i] = fold(n)
	}

	if v.checks[game.ViolationMultipleWords] && len(strings.FieldsFunc(clue, isSeparator)) != 1 {
		return game.Reject(game.ViolationMultipleWords), nil
	}

	if v.checks[game.ViolationExactMatch] {
		for i, n := range names {
			if n == clue {
				return game.Reject(game.ViolationExactMatch, req.Unrevealed[i]), nil
			}
		}
	}

	if v.checks[game.ViolationVariant] {
		for i, n := range names {
			if n != clue && (strings.Contains(n, clue) || strings.Contains(clue, n)) {
				return game.Reject(game.ViolationVariant, req.Unrevealed[i]), nil
			}
		}
	}

	if v.checks[game.ViolationLetterCount] && strings.ContainsFunc(clue, unicode.IsDigit) {
		return game.Reject(game.ViolationLetterCount), nil
	}

	if v.checks[game.ViolationPosition] && positionWords[clue] {
		return game.Reject(game.ViolationPosition), nil
	}

	return game.Approve("passed rule checks"), nil
}

func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || r == '-' || r == '_'
}
