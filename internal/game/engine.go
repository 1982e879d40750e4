package game

import (
	"context"
	"fmt"
	"log/slog"
)

// DefaultMaxRejections bounds how many bad guesses in a row the engine
// feeds back to a chooser before giving up on the turn.
const DefaultMaxRejections = 3

// ClueRequest is what a Proposer sees: the full board, including hidden
// identities.
type ClueRequest struct {
	GameID      string
	Team        Team
	Turn        int
	Board       BoardView
	History     []PlayRecord
	Unsatisfied int
}

// ValidationRequest is what a Validator judges.
type ValidationRequest struct {
	GameID     string
	Team       Team
	Clue       Clue
	Unrevealed []string
	Allied     []string
}

// GuessRequest is what a Chooser sees: the public board only.
type GuessRequest struct {
	GameID  string
	Team    Team
	Clue    Clue
	Board   BoardView
	History []PlayRecord

	// Remaining is the number of guesses left, -1 when unbounded.
	Remaining int
	// Taken is the number of guesses already made this turn.
	Taken int
	// MinGuesses is the floor before Stop is accepted.
	MinGuesses int
	// Rejection is why the previous answer was refused, if it was.
	Rejection error
}

// Guess is a chooser's answer: a name, or a request to stop.
type Guess struct {
	Name string
	Stop bool
}

// GuessName returns a guess of name.
func GuessName(name string) Guess { return Guess{Name: name} }

// StopGuessing returns a request to end the turn.
func StopGuessing() Guess { return Guess{Stop: true} }

// Proposer produces a clue for its team.
type Proposer interface {
	ProposeClue(ctx context.Context, req ClueRequest) (Clue, error)
}

// Validator judges a clue against the clue rules.
type Validator interface {
	Validate(ctx context.Context, req ValidationRequest) (Verdict, error)
}

// Chooser picks the next guess for its team.
type Chooser interface {
	NextGuess(ctx context.Context, req GuessRequest) (Guess, error)
}

// TeamPlayers are the collaborators acting for one team.
type TeamPlayers struct {
	Proposer Proposer
	Chooser  Chooser
}

// Roster assigns collaborators to both teams. A nil Validator approves
// every clue.
type Roster struct {
	Red       TeamPlayers
	Blue      TeamPlayers
	Validator Validator
}

// For returns the players of team.
func (r Roster) For(team Team) TeamPlayers {
	if team == TeamRed {
		return r.Red
	}
	return r.Blue
}

// Engine drives a Game by calling collaborators at each suspension point:
// the proposer in propose_clue, the validator in validating, the chooser in
// guessing.
//
// Thread-safety: an Engine and its Game must be used from one goroutine.
type Engine struct {
	game          *Game
	roster        Roster
	maxRejections int
	rejections    int
	lastRejection error
	logger        *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithMaxRejections sets the consecutive rejection bound per turn.
// Default: DefaultMaxRejections.
func WithMaxRejections(n int) EngineOption {
	return func(e *Engine) {
		e.maxRejections = n
	}
}

// WithEngineLogger sets the engine's logger. Default: slog.Default().
func WithEngineLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = l
	}
}

// NewEngine binds a game to its collaborators.
func NewEngine(g *Game, roster Roster, opts ...EngineOption) (*Engine, error) {
	if g == nil {
		return nil, newError(CodeConfiguration, "game is required")
	}
	for _, t := range Teams {
		p := roster.For(t)
		if p.Proposer == nil || p.Chooser == nil {
			return nil, teamError(CodeConfiguration, t, "proposer and chooser are required")
		}
	}

	e := &Engine{
		game:          g,
		roster:        roster,
		maxRejections: DefaultMaxRejections,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.maxRejections < 1 {
		return nil, newError(CodeConfiguration, "max rejections must be at least 1, got %d", e.maxRejections)
	}
	return e, nil
}

// Game returns the driven game.
func (e *Engine) Game() *Game {
	return e.game
}

// Step advances the game through one suspension point.
//
// A collaborator failure is returned as *CollaboratorError and leaves the
// phase unchanged. A rejected guess is fed back to the chooser on the next
// Step; it returns nil while retries remain.
func (e *Engine) Step(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return &CollaboratorError{Role: "engine", Team: e.game.CurrentTeam(), Err: err}
	}

	switch e.game.Phase() {
	case PhaseProposeClue:
		return e.stepPropose(ctx)
	case PhaseValidating:
		return e.stepValidate(ctx)
	case PhaseGuessing:
		return e.stepGuess(ctx)
	case PhaseGameOver:
		return newError(CodeGameOver, "game %s is over: %s", e.game.ID(), e.game.Outcome())
	}
	return newError(CodeWrongPhase, "cannot step from phase %s", e.game.Phase())
}

func (e *Engine) stepPropose(ctx context.Context) error {
	g := e.game
	team := g.CurrentTeam()
	clue, err := e.roster.For(team).Proposer.ProposeClue(ctx, ClueRequest{
		GameID:      g.ID(),
		Team:        team,
		Turn:        g.Turn(),
		Board:       g.Board(true),
		History:     g.Records(),
		Unsatisfied: g.UnsatisfiedCount(team),
	})
	if err != nil {
		return &CollaboratorError{Role: "proposer", Team: team, Err: err}
	}
	e.rejections, e.lastRejection = 0, nil
	return g.ProposeClue(clue.Text, clue.Number)
}

func (e *Engine) stepValidate(ctx context.Context) error {
	g := e.game
	team := g.CurrentTeam()
	if e.roster.Validator == nil {
		return g.ApplyVerdict(Approve("no validator configured"))
	}

	rec, _ := g.state.Ledger.Open()
	verdict, err := e.roster.Validator.Validate(ctx, ValidationRequest{
		GameID:     g.ID(),
		Team:       team,
		Clue:       Clue{Text: rec.Clue, Number: rec.Number},
		Unrevealed: g.UnrevealedNames(),
		Allied:     g.AlliedNames(team),
	})
	if err != nil {
		return &CollaboratorError{Role: "validator", Team: team, Err: err}
	}
	return g.ApplyVerdict(verdict)
}

func (e *Engine) stepGuess(ctx context.Context) error {
	g := e.game
	team := g.CurrentTeam()
	budget, taken := g.Budget()
	rec, _ := g.state.Ledger.Open()

	guess, err := e.roster.For(team).Chooser.NextGuess(ctx, GuessRequest{
		GameID:     g.ID(),
		Team:       team,
		Clue:       Clue{Text: rec.Clue, Number: rec.Number},
		Board:      g.Board(false),
		History:    g.Records(),
		Remaining:  budget.Remaining(taken),
		Taken:      taken,
		MinGuesses: budget.Min,
		Rejection:  e.lastRejection,
	})
	if err != nil {
		return &CollaboratorError{Role: "chooser", Team: team, Err: err}
	}

	if guess.Stop {
		err = g.Stop()
	} else {
		_, err = g.Guess(guess.Name)
	}
	if err == nil {
		e.rejections, e.lastRejection = 0, nil
		return nil
	}
	if !IsRejection(err) {
		return err
	}

	e.rejections++
	e.lastRejection = err
	e.logger.Warn("guess rejected",
		"game_id", g.ID(),
		"team", team,
		"guess", guess.Name,
		"stop", guess.Stop,
		"attempt", e.rejections,
		"error", err,
	)
	if e.rejections < e.maxRejections {
		return nil
	}

	// Out of retries: close the turn if the floor allows it, otherwise hand
	// the problem to the caller with the turn still open.
	e.rejections = 0
	if !budget.MinMet(taken) {
		return fmt.Errorf("chooser for %s exhausted %d attempts: %w", team, e.maxRejections, err)
	}
	note := fmt.Sprintf("chooser rejected %d times: %v", e.maxRejections, err)
	e.lastRejection = nil
	return g.stop(note)
}

// PlayTurn steps until the current turn closes or the game ends.
func (e *Engine) PlayTurn(ctx context.Context) error {
	turn := e.game.Turn()
	for !e.game.Over() && e.game.Turn() == turn {
		if err := e.Step(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Play steps until the game ends and returns its result. On error the game
// is left where it stopped; calling Play again resumes it.
func (e *Engine) Play(ctx context.Context) (Result, error) {
	for !e.game.Over() {
		if err := e.Step(ctx); err != nil {
			return e.game.Result(), err
		}
	}
	return e.game.Result(), nil
}
