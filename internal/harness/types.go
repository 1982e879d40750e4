package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/switchboard/internal/game"
)

// TraceEvent is one scenario step and what the game made of it.
type TraceEvent struct {
	Seq    int       `json:"seq"`
	Team   game.Team `json:"team"`
	Action string    `json:"action"` // "clue", "verdict", "guess" or "stop"
	Detail string    `json:"detail,omitempty"`
	Result string    `json:"result"`
}

func (e TraceEvent) String() string {
	line := fmt.Sprintf("%d. %s %s", e.Seq, e.Team, e.Action)
	if e.Detail != "" {
		line += " " + e.Detail
	}
	return line + " => " + e.Result
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every step expectation and assertion held.
	Pass bool `json:"pass"`

	// Trace contains every step in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Game is the final state of the scripted game.
	Game game.Result `json:"game"`

	// Phases lists the phase of every snapshot the game emitted.
	Phases []game.Phase `json:"phases"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

func (r *Result) addTrace(team game.Team, action, detail, result string) {
	r.Trace = append(r.Trace, TraceEvent{
		Seq:    len(r.Trace) + 1,
		Team:   team,
		Action: action,
		Detail: detail,
		Result: result,
	})
}

// Transcript renders the result as the text stored in golden files: the
// step trace, the play-by-play history and the final state.
func (r *Result) Transcript(name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", name)
	fmt.Fprintf(&b, "game: %s\n", r.Game.GameID)
	fmt.Fprintf(&b, "starting team: %s\n", r.Game.StartingTeam)

	b.WriteString("\ntrace:\n")
	for _, e := range r.Trace {
		b.WriteString(e.String() + "\n")
	}

	b.WriteString("\nhistory:\n")
	b.WriteString(game.FormatHistory(r.Game.Records, r.Game.StartingTeam) + "\n")

	b.WriteString("\n")
	fmt.Fprintf(&b, "outcome: %s\n", r.Game.Outcome)
	fmt.Fprintf(&b, "remaining: red=%d blue=%d\n",
		r.Game.Remaining[game.TeamRed], r.Game.Remaining[game.TeamBlue])
	return b.String()
}
