package game

import (
	"fmt"
	"log/slog"
)

// PenaltyMode selects what an invalid clue costs.
type PenaltyMode string

const (
	// PenaltyRevealOpposingAlly reveals one unrevealed ally of the offending
	// team's opponent.
	PenaltyRevealOpposingAlly PenaltyMode = "reveal-opposing-ally"
	// PenaltyNone only ends the offending team's turn.
	PenaltyNone PenaltyMode = "none"
)

// Valid reports whether p is a known penalty mode.
func (p PenaltyMode) Valid() bool {
	return p == PenaltyRevealOpposingAlly || p == PenaltyNone
}

// Game is the turn state machine for one game. It owns the GameState.
//
// Callers push inputs with ProposeClue, ApplyVerdict, Guess and Stop; each
// method checks the phase, applies the input and advances the phase. Engine
// is the usual caller.
type Game struct {
	state     *GameState
	budget    Budget
	taken     int
	penalty   PenaltyMode
	observers []Observer
	logger    *slog.Logger
	idGen     IDGenerator
}

// Option configures a Game.
type Option func(*Game)

// WithObserver registers an observer for transition snapshots.
func WithObserver(o Observer) Option {
	return func(g *Game) {
		g.observers = append(g.observers, o)
	}
}

// WithPenalty selects the invalid-clue penalty. Default: PenaltyRevealOpposingAlly.
func WithPenalty(p PenaltyMode) Option {
	return func(g *Game) {
		g.penalty = p
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(g *Game) {
		g.logger = l
	}
}

// WithIDGenerator sets the game ID source. Default: UUIDv7Generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(g *Game) {
		g.idGen = gen
	}
}

// New starts a game on board. The starting team proposes first. Observers
// receive the initial snapshot before New returns.
func New(board *Board, opts ...Option) (*Game, error) {
	if board == nil {
		return nil, newError(CodeConfiguration, "board is required")
	}

	g := &Game{
		penalty: PenaltyRevealOpposingAlly,
		logger:  slog.Default(),
		idGen:   UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(g)
	}

	if !g.penalty.Valid() {
		return nil, newError(CodeConfiguration, "unknown penalty mode %q", g.penalty)
	}

	g.state = newState(g.idGen.Generate(), board)
	g.logger.Info("game started",
		"game_id", g.state.ID,
		"starting_team", g.state.StartingTeam,
		"penalty", g.penalty,
	)
	g.notify()
	return g, nil
}

// ID returns the game identifier.
func (g *Game) ID() string { return g.state.ID }

// Phase returns the current phase.
func (g *Game) Phase() Phase { return g.state.Phase }

// CurrentTeam returns the team whose turn it is.
func (g *Game) CurrentTeam() Team { return g.state.CurrentTeam }

// StartingTeam returns the team that opened the game.
func (g *Game) StartingTeam() Team { return g.state.StartingTeam }

// Turn returns the zero-based turn counter.
func (g *Game) Turn() int { return g.state.Turn }

// Outcome returns the current outcome.
func (g *Game) Outcome() Outcome { return g.state.Outcome }

// Over reports whether the game has ended.
func (g *Game) Over() bool { return g.state.Phase == PhaseGameOver }

// Remaining returns the cached count of unrevealed allies of team.
func (g *Game) Remaining(team Team) int { return g.state.Remaining[team] }

// Budget returns the budget of the clue being guessed and the guesses taken
// so far in this turn.
func (g *Game) Budget() (Budget, int) { return g.budget, g.taken }

// Board returns a view of the board.
func (g *Game) Board(revealAll bool) BoardView { return g.state.Board.View(revealAll) }

// UnrevealedNames returns the unrevealed names in board order.
func (g *Game) UnrevealedNames() []string { return g.state.Board.UnrevealedNames() }

// AlliedNames returns every ally of team.
func (g *Game) AlliedNames(team Team) []string { return g.state.Board.AlliedNames(team) }

// Records returns a copy of the ledger.
func (g *Game) Records() []PlayRecord { return g.state.Ledger.Records() }

// UnsatisfiedCount is Ledger.UnsatisfiedCount for this game.
func (g *Game) UnsatisfiedCount(team Team) int { return g.state.Ledger.UnsatisfiedCount(team) }

// Snapshot returns a detached copy of the state.
func (g *Game) Snapshot() Snapshot { return g.state.snapshot() }

// ProposeClue records the current team's clue and moves to validating.
func (g *Game) ProposeClue(text string, number ClueNumber) error {
	if err := g.expect(PhaseProposeClue); err != nil {
		return err
	}
	rec, err := g.state.Ledger.RecordClue(g.state.CurrentTeam, text, number)
	if err != nil {
		return err
	}
	g.logger.Info("clue proposed",
		"game_id", g.state.ID,
		"turn", TurnLabel(g.state.Turn, rec.Team, g.state.StartingTeam),
		"team", rec.Team,
		"clue", rec.Clue,
		"number", rec.Number.String(),
	)
	g.transition(PhaseValidating)
	return nil
}

// ApplyVerdict records the validator's verdict. A valid clue opens guessing
// with the clue's budget. An invalid clue applies the penalty and ends the
// turn without guesses.
func (g *Game) ApplyVerdict(v Verdict) error {
	if err := g.expect(PhaseValidating); err != nil {
		return err
	}
	if err := g.state.Ledger.RecordValidity(v); err != nil {
		return err
	}

	rec, _ := g.state.Ledger.Open()
	if v.Valid {
		g.budget = BudgetFor(rec.Number)
		g.taken = 0
		g.transition(PhaseGuessing)
		return nil
	}

	g.logger.Info("clue rejected",
		"game_id", g.state.ID,
		"team", rec.Team,
		"clue", rec.Clue,
		"violation", v.Violation,
		"referenced", v.Referenced,
	)
	g.transition(PhasePenalized)
	if err := g.applyPenalty(); err != nil {
		return err
	}
	if err := g.state.Ledger.CloseTurn(EndInvalidClue); err != nil {
		return err
	}
	g.resolve()
	return nil
}

func (g *Game) applyPenalty() error {
	offender := g.state.CurrentTeam
	target := offender.Opponent()

	if g.penalty == PenaltyNone {
		return g.state.Ledger.RecordPenalty("", "penalty disabled by rules")
	}

	name, err := g.state.Board.ForceComplete(target)
	if err != nil {
		if IsNoTargets(err) {
			g.logger.Info("penalty skipped", "game_id", g.state.ID, "penalized_team", target, "reason", err.Error())
			return g.state.Ledger.RecordPenalty("", err.Error())
		}
		return err
	}
	g.state.Remaining[target]--
	g.logger.Info("penalty applied",
		"game_id", g.state.ID,
		"violating_team", offender,
		"penalized_team", target,
		"revealed", name,
	)
	return g.state.Ledger.RecordPenalty(name, "")
}

// Guess reveals name for the current team.
//
// Unknown or already revealed names return an error and change nothing. A
// revealed cell ends the turn unless it is the team's own ally and budget
// remains; the illegal cell ends the game at once with a loss for the team;
// a reveal that empties either team's allies ends the game with that team's
// win.
func (g *Game) Guess(name string) (GuessRecord, error) {
	if err := g.expect(PhaseGuessing); err != nil {
		return GuessRecord{}, err
	}

	s := g.state
	id, err := s.Board.Reveal(name)
	if err != nil {
		return GuessRecord{}, err
	}

	team := s.CurrentTeam
	rec := GuessRecord{Name: name, Identity: id, Outcome: Classify(team, id)}
	if err := s.Ledger.RecordGuess(rec.Name, rec.Identity, rec.Outcome); err != nil {
		return GuessRecord{}, err
	}
	g.taken++

	g.logger.Info("guess",
		"game_id", s.ID,
		"turn", TurnLabel(s.Turn, team, s.StartingTeam),
		"team", team,
		"name", name,
		"outcome", rec.Outcome,
	)

	switch rec.Outcome {
	case OutcomeIllegalHit:
		s.IllegalContact = team
		s.Outcome = Evaluate(s)
		if err := s.Ledger.CloseTurn(EndIllegalContact); err != nil {
			return rec, err
		}
		g.transition(PhaseGameOver)
		return rec, nil
	case OutcomeAllyHit:
		s.Remaining[team]--
	case OutcomeEnemyHit:
		s.Remaining[team.Opponent()]--
	}

	var reason EndReason
	switch {
	case Evaluate(s).Terminal():
		reason = EndAlliesExhausted
	case rec.Outcome != OutcomeAllyHit:
		reason = EndWrongHit
	case g.budget.Exhausted(g.taken):
		reason = EndBudgetExhausted
	}

	if reason == "" {
		g.notify()
		return rec, nil
	}
	if err := s.Ledger.CloseTurn(reason); err != nil {
		return rec, err
	}
	g.resolve()
	return rec, nil
}

// Stop ends guessing voluntarily. It fails with ErrBudgetNotMet, leaving
// the turn open, when the clue's minimum has not been reached.
func (g *Game) Stop() error {
	return g.stop("")
}

func (g *Game) stop(note string) error {
	if err := g.expect(PhaseGuessing); err != nil {
		return err
	}
	if !g.budget.MinMet(g.taken) {
		return teamError(CodeBudgetNotMet, g.state.CurrentTeam,
			"clue requires at least %d guess(es), %d taken", g.budget.Min, g.taken)
	}
	if note != "" {
		if err := g.state.Ledger.Annotate(note); err != nil {
			return err
		}
	}
	if err := g.state.Ledger.CloseTurn(EndVoluntaryStop); err != nil {
		return err
	}
	g.resolve()
	return nil
}

// resolve runs after every closed turn: a terminal outcome ends the game,
// anything else hands the turn to the other team.
func (g *Game) resolve() {
	s := g.state
	g.transition(PhaseResolving)

	if o := Evaluate(s); o.Terminal() {
		s.Outcome = o
		g.transition(PhaseGameOver)
		return
	}

	s.CurrentTeam = s.CurrentTeam.Opponent()
	s.Turn++
	g.budget = Budget{}
	g.taken = 0
	g.transition(PhaseProposeClue)
}

func (g *Game) expect(p Phase) error {
	if g.state.Phase == PhaseGameOver {
		return newError(CodeGameOver, "game %s is over: %s", g.state.ID, g.state.Outcome)
	}
	if g.state.Phase != p {
		return teamError(CodeWrongPhase, g.state.CurrentTeam, "phase is %s, want %s", g.state.Phase, p)
	}
	return nil
}

func (g *Game) transition(p Phase) {
	g.state.Phase = p
	g.notify()
}

func (g *Game) notify() {
	if len(g.observers) == 0 {
		return
	}
	snap := g.state.snapshot()
	for _, o := range g.observers {
		o.Observe(snap)
	}
}

// Result summarises a finished (or abandoned) game.
type Result struct {
	GameID       string       `json:"game_id"`
	StartingTeam Team         `json:"starting_team"`
	Outcome      Outcome      `json:"outcome"`
	Turns        int          `json:"turns"`
	Remaining    map[Team]int `json:"remaining"`
	Records      []PlayRecord `json:"records"`
	Cells        []Cell       `json:"cells"`
}

// Result returns the summary of the game so far.
func (g *Game) Result() Result {
	snap := g.Snapshot()
	return Result{
		GameID:       snap.GameID,
		StartingTeam: snap.StartingTeam,
		Outcome:      snap.Outcome,
		Turns:        snap.Turn + 1,
		Remaining:    snap.Remaining,
		Records:      snap.Records,
		Cells:        snap.Board.Cells,
	}
}

func (r Result) String() string {
	return fmt.Sprintf("game %s: %s after %d turn(s)", r.GameID, r.Outcome, r.Turns)
}
