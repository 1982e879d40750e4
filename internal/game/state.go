package game

// Phase is a state of the turn state machine.
type Phase string

const (
	PhaseProposeClue Phase = "propose_clue"
	PhaseValidating  Phase = "validating"
	PhaseGuessing    Phase = "guessing"
	PhasePenalized   Phase = "penalized"
	PhaseResolving   Phase = "resolving"
	PhaseGameOver    Phase = "game_over"
)

// OutcomeKind tags an Outcome.
type OutcomeKind string

const (
	OutcomeInProgress OutcomeKind = "in_progress"
	OutcomeWin        OutcomeKind = "win"
	OutcomeLoss       OutcomeKind = "loss"
)

// ReasonIllegalContact is the loss reason for revealing the illegal cell.
const ReasonIllegalContact = "illegal contact"

// Outcome is the game result so far.
type Outcome struct {
	Kind   OutcomeKind `json:"kind"`
	Team   Team        `json:"team,omitempty"`
	Reason string      `json:"reason,omitempty"`
}

// InProgress is the outcome of a running game.
func InProgress() Outcome {
	return Outcome{Kind: OutcomeInProgress}
}

// Win is the outcome of team finding all of its allies.
func Win(team Team) Outcome {
	return Outcome{Kind: OutcomeWin, Team: team}
}

// Loss is the outcome of team losing outright.
func Loss(team Team, reason string) Outcome {
	return Outcome{Kind: OutcomeLoss, Team: team, Reason: reason}
}

// Terminal reports whether the game is over.
func (o Outcome) Terminal() bool {
	return o.Kind == OutcomeWin || o.Kind == OutcomeLoss
}

// Winner returns the winning team of a terminal outcome.
func (o Outcome) Winner() Team {
	switch o.Kind {
	case OutcomeWin:
		return o.Team
	case OutcomeLoss:
		return o.Team.Opponent()
	}
	return ""
}

func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeWin:
		return "win(" + string(o.Team) + ")"
	case OutcomeLoss:
		return "loss(" + string(o.Team) + ", " + o.Reason + ")"
	}
	return string(OutcomeInProgress)
}

// GameState is the single mutable root of one game, owned by a Game.
type GameState struct {
	ID           string
	Board        *Board
	StartingTeam Team
	CurrentTeam  Team
	Turn         int
	Remaining    map[Team]int
	Ledger       *Ledger
	Phase        Phase
	Outcome      Outcome

	// IllegalContact is the team that revealed the illegal cell, if any.
	IllegalContact Team
}

func newState(id string, board *Board) *GameState {
	s := &GameState{
		ID:           id,
		Board:        board,
		StartingTeam: board.StartingTeam(),
		CurrentTeam:  board.StartingTeam(),
		Remaining:    make(map[Team]int, len(Teams)),
		Ledger:       NewLedger(),
		Phase:        PhaseProposeClue,
		Outcome:      InProgress(),
	}
	for _, t := range Teams {
		s.Remaining[t] = board.RemainingCount(t)
	}
	return s
}

// Evaluate is the win condition check. It is pure: an illegal contact is a
// loss for the revealing team; otherwise a team with no remaining allies
// wins, the current team checked first; otherwise the game is in progress.
//
// Reveals happen one at a time and the game stops at the first terminal
// outcome, so both counts never reach zero together.
func Evaluate(s *GameState) Outcome {
	if s.IllegalContact != "" {
		return Loss(s.IllegalContact, ReasonIllegalContact)
	}
	for _, t := range []Team{s.CurrentTeam, s.CurrentTeam.Opponent()} {
		if s.Remaining[t] == 0 {
			return Win(t)
		}
	}
	return InProgress()
}

// Snapshot is a detached, read-only copy of a GameState.
type Snapshot struct {
	GameID       string       `json:"game_id"`
	Phase        Phase        `json:"phase"`
	StartingTeam Team         `json:"starting_team"`
	CurrentTeam  Team         `json:"current_team"`
	Turn         int          `json:"turn"`
	Remaining    map[Team]int `json:"remaining"`
	Board        BoardView    `json:"board"`
	Records      []PlayRecord `json:"records"`
	Outcome      Outcome      `json:"outcome"`
}

func (s *GameState) snapshot() Snapshot {
	remaining := make(map[Team]int, len(s.Remaining))
	for t, n := range s.Remaining {
		remaining[t] = n
	}
	return Snapshot{
		GameID:       s.ID,
		Phase:        s.Phase,
		StartingTeam: s.StartingTeam,
		CurrentTeam:  s.CurrentTeam,
		Turn:         s.Turn,
		Remaining:    remaining,
		Board:        s.Board.View(true),
		Records:      s.Ledger.Records(),
		Outcome:      s.Outcome,
	}
}
