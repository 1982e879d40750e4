package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/switchboard/internal/game"
	"github.com/roach88/switchboard/internal/player"
	"github.com/roach88/switchboard/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
}

// HistoryOutput is the JSON form of one archived game.
type HistoryOutput struct {
	Game      store.GameRecord `json:"game"`
	BoxScores []store.BoxScore `json:"box_scores"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [game-id]",
		Short: "List archived games or show one game's play-by-play",
		Long: `Without a game id, list the archived games. With one, print the game's
play-by-play, its final board and a box score per team.

Exit codes:
  0 - Success
  2 - Command error (database not found, unknown game id)

Examples:
  switchboard history --db games.db
  switchboard history 0192a7c4-... --db games.db
  switchboard history --db games.db --limit 10 --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runListGames(opts, cmd)
			}
			return runShowGame(opts, cmd, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite archive (env: SWITCHBOARD_DB)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "list at most this many games; 0 lists all (env: SWITCHBOARD_LIMIT)")

	return cmd
}

func runListGames(opts *HistoryOptions, cmd *cobra.Command) error {
	st, err := openStore(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	games, err := st.ListGames(commandContext(cmd), opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list games", err)
	}
	if games == nil {
		games = []store.GameSummary{}
	}

	return opts.formatter(cmd).Emit(games, func(w io.Writer) error {
		if len(games) == 0 {
			fmt.Fprintln(w, "No games found in database.")
			return nil
		}
		fmt.Fprintf(w, "%-36s  %-5s  %-28s  %5s  %s\n", "GAME", "START", "OUTCOME", "TURNS", "LEFT")
		for _, g := range games {
			fmt.Fprintf(w, "%-36s  %-5s  %-28s  %5d  red=%d blue=%d\n",
				g.ID, g.StartingTeam, g.Outcome, g.Turns, g.RedRemaining, g.BlueRemaining)
		}
		return nil
	})
}

func runShowGame(opts *HistoryOptions, cmd *cobra.Command, id string) error {
	ctx := commandContext(cmd)

	st, err := openStore(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	rec, err := st.ReadGame(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return NewExitError(ExitCommandError, fmt.Sprintf("game %s not found", id))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read game", err)
	}
	scores, err := st.BoxScores(ctx, id)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read box scores", err)
	}

	out := HistoryOutput{Game: rec, BoxScores: scores}
	return opts.formatter(cmd).Emit(out, func(w io.Writer) error {
		fmt.Fprintf(w, "game: %s\nseed: %d\npenalty: %s\n\n", rec.GameID, rec.Seed, rec.Penalty)
		fmt.Fprintln(w, game.FormatHistory(rec.Records, rec.StartingTeam))
		fmt.Fprintln(w)
		fmt.Fprintln(w, player.FormatGrid(game.BoardView{StartingTeam: rec.StartingTeam, Cells: rec.Cells}))
		fmt.Fprintln(w)
		writeBoxScores(w, scores)
		fmt.Fprintf(w, "\n%s after %d turn(s)\n", rec.Outcome, rec.Turns)
		return nil
	})
}

func writeBoxScores(w io.Writer, scores []store.BoxScore) {
	fmt.Fprintf(w, "%-5s %5s %7s %4s %5s %8s %7s %9s\n",
		"TEAM", "CLUES", "INVALID", "ALLY", "ENEMY", "CIVILIAN", "ILLEGAL", "PENALTIES")
	for _, s := range scores {
		fmt.Fprintf(w, "%-5s %5d %7d %4d %5d %8d %7d %9d\n",
			s.Team, s.Clues, s.InvalidClues, s.AllyHits, s.EnemyHits, s.CivilianHits, s.IllegalHits, s.PenaltiesPaid)
	}
}
