package player

import (
	"context"
	"errors"

	"github.com/roach88/switchboard/internal/game"
)

// ErrScriptExhausted is returned when a scripted player runs out of moves.
var ErrScriptExhausted = errors.New("script exhausted")

// ScriptedProposer returns clues in order.
type ScriptedProposer struct {
	Clues []game.Clue
	next  int
}

// ProposeClue implements game.Proposer.
func (p *ScriptedProposer) ProposeClue(context.Context, game.ClueRequest) (game.Clue, error) {
	if p.next >= len(p.Clues) {
		return game.Clue{}, ErrScriptExhausted
	}
	c := p.Clues[p.next]
	p.next++
	return c, nil
}

// ScriptedChooser returns guesses in order.
type ScriptedChooser struct {
	Guesses []game.Guess
	next    int
}

// NextGuess implements game.Chooser.
func (c *ScriptedChooser) NextGuess(context.Context, game.GuessRequest) (game.Guess, error) {
	if c.next >= len(c.Guesses) {
		return game.Guess{}, ErrScriptExhausted
	}
	g := c.Guesses[c.next]
	c.next++
	return g, nil
}

// ScriptedValidator returns verdicts in order.
type ScriptedValidator struct {
	Verdicts []game.Verdict
	next     int
}

// Validate implements game.Validator.
func (v *ScriptedValidator) Validate(context.Context, game.ValidationRequest) (game.Verdict, error) {
	if v.next >= len(v.Verdicts) {
		return game.Verdict{}, ErrScriptExhausted
	}
	verdict := v.Verdicts[v.next]
	v.next++
	return verdict, nil
}

// ApproveAll is a validator that accepts every clue; it stands in for a
// disabled referee.
type ApproveAll struct{}

// Validate implements game.Validator.
func (ApproveAll) Validate(context.Context, game.ValidationRequest) (game.Verdict, error) {
	return game.Approve("referee disabled"), nil
}
