package match

import (
	"fmt"
	"strings"

	"github.com/roach88/switchboard/internal/game"
)

// Summary aggregates a batch.
type Summary struct {
	Games         int               `json:"games"`
	Completed     int               `json:"completed"`
	Failed        int               `json:"failed"`
	Wins          map[game.Team]int `json:"wins"`
	StartingWins  int               `json:"starting_wins"`
	IllegalLosses int               `json:"illegal_losses"`
	TotalTurns    int               `json:"total_turns"`
	Results       []GameResult      `json:"-"`
}

// Summarize folds game results into a Summary. Results not played (zero
// GameResult after a cancelled batch) count as failed.
func Summarize(results []GameResult) Summary {
	s := Summary{
		Games:   len(results),
		Wins:    map[game.Team]int{game.TeamRed: 0, game.TeamBlue: 0},
		Results: results,
	}
	for _, r := range results {
		o := r.Result.Outcome
		if r.Err != nil || !o.Terminal() {
			s.Failed++
			continue
		}
		s.Completed++
		s.TotalTurns += r.Result.Turns
		winner := o.Winner()
		s.Wins[winner]++
		if winner == r.Result.StartingTeam {
			s.StartingWins++
		}
		if o.Kind == game.OutcomeLoss && o.Reason == game.ReasonIllegalContact {
			s.IllegalLosses++
		}
	}
	return s
}

// AvgTurns is the mean turn count of completed games.
func (s Summary) AvgTurns() float64 {
	if s.Completed == 0 {
		return 0
	}
	return float64(s.TotalTurns) / float64(s.Completed)
}

// Table renders one line per game followed by the totals.
func (s Summary) Table() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-5s %-6s %-5s %-28s %s\n", "GAME", "SEED", "START", "OUTCOME", "TURNS")
	for _, r := range s.Results {
		outcome := r.Result.Outcome.String()
		if r.Err != nil {
			outcome = "error"
		}
		fmt.Fprintf(&b, "%-5d %-6d %-5s %-28s %d\n", r.Index+1, r.Seed, r.Result.StartingTeam, outcome, r.Result.Turns)
	}
	fmt.Fprintf(&b, "\n%d game(s): red %d, blue %d, failed %d; starting team won %d; illegal contact %d; avg turns %.1f\n",
		s.Games, s.Wins[game.TeamRed], s.Wins[game.TeamBlue], s.Failed, s.StartingWins, s.IllegalLosses, s.AvgTurns())
	return b.String()
}
