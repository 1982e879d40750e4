package harness

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/switchboard/internal/game"
	"github.com/roach88/switchboard/internal/player"
)

// Harness drives one scripted game.
type Harness struct {
	game   *game.Game
	result *Result
}

// Run executes a test scenario and returns the result.
//
// The game is built from the scenario board with a fixed game ID and no
// collaborators: every clue, verdict, guess and stop comes from the
// scenario. Step expectations and assertions that fail are reported in
// Result.Errors. The returned error is reserved for scenarios whose board
// cannot be built.
func Run(scenario *Scenario) (*Result, error) {
	board, err := buildBoard(&scenario.Board)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	result := NewResult()
	id := scenario.GameID
	if id == "" {
		id = scenario.Name
	}
	penalty := game.PenaltyRevealOpposingAlly
	if scenario.Penalty != "" {
		penalty = game.PenaltyMode(scenario.Penalty)
	}

	g, err := game.New(board,
		game.WithIDGenerator(game.NewFixedGenerator(id)),
		game.WithPenalty(penalty),
		game.WithLogger(slog.New(slog.DiscardHandler)),
		game.WithObserver(game.ObserverFunc(func(s game.Snapshot) {
			result.Phases = append(result.Phases, s.Phase)
		})),
	)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	h := &Harness{game: g, result: result}
	for i, turn := range scenario.Turns {
		if !h.playTurn(i, turn) {
			break
		}
	}

	result.Game = g.Result()
	for i, a := range scenario.Assertions {
		if err := checkAssertion(g, a); err != nil {
			result.AddError(fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return result, nil
}

func buildBoard(bs *BoardSpec) (*game.Board, error) {
	team, err := game.ParseTeam(bs.StartingTeam)
	if err != nil {
		return nil, err
	}
	if len(bs.Names) > 0 {
		return game.Setup(bs.Names, bs.Seed, game.SetupOptions{StartingTeam: team})
	}
	cells, err := bs.layout()
	if err != nil {
		return nil, err
	}
	return game.NewBoard(cells, team)
}

// playTurn applies one turn step. It returns false once a step fails in a
// way that leaves later steps meaningless.
func (h *Harness) playTurn(index int, step TurnStep) bool {
	g := h.game
	team := g.CurrentTeam()
	where := fmt.Sprintf("turns[%d]", index)

	if step.Team != "" {
		want, _ := game.ParseTeam(step.Team)
		if want != team {
			h.result.AddError(fmt.Sprintf("%s: expected %s to play, got %s", where, want, team))
			return false
		}
	}

	number, _ := game.ParseClueNumber(step.Number)
	if err := g.ProposeClue(step.Clue, number); err != nil {
		h.result.addTrace(team, "clue", step.Clue+" "+number.String(), errorResult(err))
		h.result.AddError(fmt.Sprintf("%s: clue: %v", where, err))
		return false
	}
	h.result.addTrace(team, "clue", step.Clue+" "+number.String(), string(g.Phase()))

	verdict := game.Approve("")
	if step.Verdict != "" {
		verdict, _ = player.ParseVerdict(step.Verdict)
	}
	if err := g.ApplyVerdict(verdict); err != nil {
		h.result.addTrace(team, "verdict", verdictDetail(verdict), errorResult(err))
		h.result.AddError(fmt.Sprintf("%s: verdict: %v", where, err))
		return false
	}
	res := string(g.Phase())
	if !verdict.Valid {
		records := g.Records()
		if target := records[len(records)-1].PenaltyTarget; target != "" {
			res = "revealed " + target + ", " + res
		}
	}
	h.result.addTrace(team, "verdict", verdictDetail(verdict), res)

	for i, action := range step.Actions {
		if !h.act(fmt.Sprintf("%s.actions[%d]", where, i), team, action) {
			return false
		}
	}
	return true
}

// act applies one guess or stop and checks its expectation.
func (h *Harness) act(where string, team game.Team, a ActionStep) bool {
	g := h.game

	var (
		rec    game.GuessRecord
		err    error
		action = "stop"
		detail string
	)
	if a.Stop {
		err = g.Stop()
	} else {
		action = "guess"
		detail, err = h.resolveTarget(a.Guess)
		if err == nil {
			rec, err = g.Guess(detail)
		}
	}

	if err != nil {
		h.result.addTrace(team, action, detail, errorResult(err))
		switch code := errorCode(err); {
		case a.Error == "":
			h.result.AddError(fmt.Sprintf("%s: unexpected error: %v", where, err))
			return false
		case code != a.Error:
			h.result.AddError(fmt.Sprintf("%s: expected error %s, got %v", where, a.Error, err))
		}
		return true
	}

	res := string(g.Phase())
	if !a.Stop {
		res = string(rec.Outcome) + ", " + res
	}
	h.result.addTrace(team, action, detail, res)

	if a.Error != "" {
		h.result.AddError(fmt.Sprintf("%s: expected error %s, got success", where, a.Error))
	}
	if a.Outcome != "" && string(rec.Outcome) != a.Outcome {
		h.result.AddError(fmt.Sprintf("%s: expected outcome %s, got %s", where, a.Outcome, rec.Outcome))
	}
	return true
}

// resolveTarget maps a symbolic target to the first hidden cell with that
// identity, in board order. Plain names pass through.
func (h *Harness) resolveTarget(target string) (string, error) {
	want, ok := symbolicTargets[target]
	if !ok {
		return target, nil
	}
	for _, c := range h.game.Board(true).Cells {
		if !c.Revealed && c.Identity == want {
			return c.Name, nil
		}
	}
	return target, fmt.Errorf("no hidden %s cell for %s", want, target)
}

func verdictDetail(v game.Verdict) string {
	if v.Valid {
		return "valid"
	}
	detail := "invalid " + v.Violation
	for _, n := range v.Referenced {
		detail += " " + n
	}
	return detail
}

func errorCode(err error) string {
	var ge *game.Error
	if errors.As(err, &ge) {
		return string(ge.Code)
	}
	return ""
}

func errorResult(err error) string {
	if code := errorCode(err); code != "" {
		return "error " + code
	}
	return "error: " + err.Error()
}
