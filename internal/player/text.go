package player

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/switchboard/internal/game"
)

// ErrBadLine is returned for input lines that do not parse.
var ErrBadLine = errors.New("unparseable line")

// ParseClue parses "WORD N" or "WORD unlimited". The last field is the
// number; everything before it is the clue text, so multi-word clues reach
// the validator unchanged.
func ParseClue(line string) (game.Clue, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return game.Clue{}, fmt.Errorf("%w: want WORD NUMBER, got %q", ErrBadLine, line)
	}
	n, err := game.ParseClueNumber(fields[len(fields)-1])
	if err != nil {
		return game.Clue{}, fmt.Errorf("%w: %v", ErrBadLine, err)
	}
	return game.Clue{Text: upperName(strings.Join(fields[:len(fields)-1], " ")), Number: n}, nil
}

// ParseVerdict parses "VALID", "VALID: reason" or "INVALID: kind [NAME, ...]".
func ParseVerdict(line string) (game.Verdict, error) {
	head, rest, _ := strings.Cut(strings.TrimSpace(line), ":")
	rest = strings.TrimSpace(rest)

	switch strings.ToUpper(strings.TrimSpace(head)) {
	case "VALID":
		return game.Approve(rest), nil
	case "INVALID":
		if rest == "" {
			return game.Verdict{}, fmt.Errorf("%w: INVALID needs a violation kind", ErrBadLine)
		}
		kind, names, _ := strings.Cut(rest, " ")
		var referenced []string
		for _, n := range strings.FieldsFunc(names, func(r rune) bool { return r == ',' || r == ' ' }) {
			referenced = append(referenced, upperName(n))
		}
		return game.Reject(strings.ToLower(kind), referenced...), nil
	}
	return game.Verdict{}, fmt.Errorf("%w: want VALID or INVALID, got %q", ErrBadLine, line)
}

// ParseGuess parses a board name or "done".
func ParseGuess(line string) (game.Guess, error) {
	s := strings.TrimSpace(line)
	if s == "" {
		return game.Guess{}, fmt.Errorf("%w: empty guess", ErrBadLine)
	}
	if strings.EqualFold(s, "done") {
		return game.StopGuessing(), nil
	}
	return game.GuessName(upperName(s)), nil
}

// upperName folds typed text the way name banks fold names, so "straße"
// matches the board name STRASSE.
func upperName(s string) string {
	return cases.Upper(language.Und).String(norm.NFC.String(s))
}

// FormatGrid renders a board view as a 5x5 grid. Revealed cells and, for
// an operator view, hidden identities are marked after the name:
//
//	ALPHA [R]   BRAVO  r    ...
//
// Upper case letters in brackets are revealed, lower case are identities the
// viewer knows but that are still hidden.
func FormatGrid(v game.BoardView) string {
	const cols = 5

	width := 0
	for _, c := range v.Cells {
		width = max(width, len(c.Name))
	}

	var lines []string
	for row := 0; row < len(v.Cells); row += cols {
		parts := make([]string, 0, cols)
		for _, c := range v.Cells[row:min(row+cols, len(v.Cells))] {
			mark := identityMark(c.Identity)
			switch {
			case c.Revealed:
				mark = "[" + strings.ToUpper(mark) + "]"
			case mark != "":
				mark = " " + mark + " "
			default:
				mark = "   "
			}
			parts = append(parts, fmt.Sprintf("%-*s %s", width, c.Name, mark))
		}
		lines = append(lines, strings.TrimRight(strings.Join(parts, "  "), " "))
	}
	return strings.Join(lines, "\n")
}

func identityMark(id game.Identity) string {
	switch id {
	case game.IdentityRedAlly:
		return "r"
	case game.IdentityBlueAlly:
		return "b"
	case game.IdentityCivilian:
		return "c"
	case game.IdentityIllegal:
		return "x"
	}
	return ""
}
