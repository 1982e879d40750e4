package player

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/roach88/switchboard/internal/game"
)

// Human is an interactive player that prompts on out and reads one line
// per answer from in. The same Human can act as proposer, chooser and
// referee; unparseable lines are reported and asked again.
type Human struct {
	in   *bufio.Scanner
	out  io.Writer
	name string
}

// NewHuman creates an interactive player. name prefixes every prompt,
// e.g. "red operator".
func NewHuman(name string, in io.Reader, out io.Writer) *Human {
	return NewHumanFromScanner(name, bufio.NewScanner(in), out)
}

// NewHumanFromScanner creates an interactive player reading from sc. Seats
// that take turns on one terminal must share a single scanner: a scanner
// buffers ahead of the line it returns.
func NewHumanFromScanner(name string, sc *bufio.Scanner, out io.Writer) *Human {
	return &Human{in: sc, out: out, name: name}
}

// ProposeClue implements game.Proposer.
func (h *Human) ProposeClue(ctx context.Context, req game.ClueRequest) (game.Clue, error) {
	fmt.Fprintf(h.out, "\n== %s, turn %s ==\n%s\n\nHistory:\n%s\n",
		h.name, game.TurnLabel(req.Turn, req.Team, req.Board.StartingTeam),
		FormatGrid(req.Board), game.FormatHistory(req.History, req.Board.StartingTeam))
	if req.Unsatisfied > 0 {
		fmt.Fprintf(h.out, "Unsatisfied from your last clue: %d\n", req.Unsatisfied)
	}
	return ask(ctx, h, "Clue (WORD NUMBER or WORD unlimited)", ParseClue)
}

// NextGuess implements game.Chooser.
func (h *Human) NextGuess(ctx context.Context, req game.GuessRequest) (game.Guess, error) {
	if req.Rejection != nil {
		fmt.Fprintf(h.out, "Rejected: %v\n", req.Rejection)
	}
	if req.Taken == 0 && req.Rejection == nil {
		fmt.Fprintf(h.out, "\n== %s ==\n%s\n\nClue: %s\n", h.name, FormatGrid(req.Board), req.Clue)
	}
	left := "unlimited"
	if req.Remaining >= 0 {
		left = fmt.Sprint(req.Remaining)
	}
	prompt := fmt.Sprintf("Guess (name or done, %s left, %d taken)", left, req.Taken)
	return ask(ctx, h, prompt, ParseGuess)
}

// Validate implements game.Validator.
func (h *Human) Validate(ctx context.Context, req game.ValidationRequest) (game.Verdict, error) {
	fmt.Fprintf(h.out, "\n== %s ==\n%s proposes %s\nUnrevealed: %v\n", h.name, req.Team.Title(), req.Clue, req.Unrevealed)
	return ask(ctx, h, "Verdict (VALID[: reason] or INVALID: kind [NAMES])", ParseVerdict)
}

func ask[T any](ctx context.Context, h *Human, prompt string, parse func(string) (T, error)) (T, error) {
	var zero T
	for {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		fmt.Fprintf(h.out, "%s> ", prompt)
		if !h.in.Scan() {
			if err := h.in.Err(); err != nil {
				return zero, fmt.Errorf("read %s input: %w", h.name, err)
			}
			return zero, fmt.Errorf("read %s input: %w", h.name, io.ErrUnexpectedEOF)
		}
		v, err := parse(h.in.Text())
		if err == nil {
			return v, nil
		}
		fmt.Fprintf(h.out, "%v\n", err)
	}
}
