package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/switchboard/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
}

// ReplayGameResult holds the replay result for a single game.
type ReplayGameResult struct {
	GameID     string   `json:"game_id"`
	Archived   string   `json:"archived"`
	Replayed   string   `json:"replayed"`
	Consistent bool     `json:"consistent"`
	Mismatches []string `json:"mismatches,omitempty"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Games         []ReplayGameResult `json:"games"`
	TotalGames    int                `json:"total_games"`
	Unfinished    []string           `json:"unfinished"`
	AllConsistent bool               `json:"all_consistent"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay [game-id]",
		Short: "Re-run archived games and verify their outcomes",
		Long: `Rebuild each archived board with every cell hidden, re-apply the
archived plays through a fresh referee, and compare outcome, remaining
counts and reveals with the archive. Games that left snapshots but were
never archived (an interrupted batch) are reported as unfinished.

Exit codes:
  0 - Every replayed game is consistent
  1 - One or more games replayed differently
  2 - Command error (database not found, unknown game id)

Examples:
  switchboard replay --db games.db
  switchboard replay 0192a7c4-... --db games.db
  switchboard replay --db games.db --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd, args)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite archive (env: SWITCHBOARD_DB)")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	st, err := openStore(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	var ids []string
	if len(args) == 1 {
		ids = args
	} else {
		games, err := st.ListGames(ctx, 0)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list games", err)
		}
		for _, g := range games {
			ids = append(ids, g.ID)
		}
	}

	result := ReplayResult{
		Games:         make([]ReplayGameResult, 0, len(ids)),
		TotalGames:    len(ids),
		Unfinished:    []string{},
		AllConsistent: true,
	}

	for _, id := range ids {
		r, err := st.Replay(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return NewExitError(ExitCommandError, fmt.Sprintf("game %s not found", id))
		}
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay game %s", id), err)
		}
		opts.formatter(cmd).VerboseLog("replayed %s: %d mismatch(es)", id, len(r.Mismatches))

		result.Games = append(result.Games, ReplayGameResult{
			GameID:     r.GameID,
			Archived:   r.Archived.String(),
			Replayed:   r.Replayed.String(),
			Consistent: r.Consistent(),
			Mismatches: r.Mismatches,
		})
		if !r.Consistent() {
			result.AllConsistent = false
		}
	}

	if len(args) == 0 {
		unfinished, err := st.FindUnfinishedGames(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to find unfinished games", err)
		}
		if unfinished != nil {
			result.Unfinished = unfinished
		}
	}

	formatter := opts.formatter(cmd)
	if formatter.IsJSON() {
		return outputReplayJSON(formatter, result)
	}
	return outputReplayText(formatter.Writer, result)
}

// outputReplayJSON outputs the replay result as JSON.
func outputReplayJSON(f *OutputFormatter, result ReplayResult) error {
	if result.AllConsistent {
		return f.Success(result)
	}
	if err := f.Error("E_REPLAY_MISMATCH", "replay verification failed", result); err != nil {
		return err
	}
	return NewExitError(ExitFailure, "replay verification failed")
}

// outputReplayText outputs the replay result as text.
func outputReplayText(w io.Writer, result ReplayResult) error {
	if result.TotalGames == 0 && len(result.Unfinished) == 0 {
		fmt.Fprintln(w, "No games found in database.")
		return nil
	}

	fmt.Fprintf(w, "Replay Summary: %d game(s)\n", result.TotalGames)
	fmt.Fprintln(w)

	for _, g := range result.Games {
		status := "✓"
		if !g.Consistent {
			status = "✗"
		}
		fmt.Fprintf(w, "%s Game: %s\n", status, g.GameID)
		fmt.Fprintf(w, "  Outcome: %s\n", g.Archived)
		for _, m := range g.Mismatches {
			fmt.Fprintf(w, "  Mismatch: %s\n", m)
		}
		fmt.Fprintln(w)
	}

	for _, id := range result.Unfinished {
		fmt.Fprintf(w, "! Unfinished: %s\n", id)
	}
	if len(result.Unfinished) > 0 {
		fmt.Fprintln(w)
	}

	if result.AllConsistent {
		fmt.Fprintln(w, "✓ All games replayed consistently")
		return nil
	}

	fmt.Fprintln(w, "✗ Replay verification failed")
	return NewExitError(ExitFailure, "replay verification failed")
}
