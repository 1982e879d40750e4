package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/switchboard/internal/game"
)

// StatsOptions holds flags for the stats command.
type StatsOptions struct {
	*RootOptions
	Database string
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Aggregate results across the archive",
		Long: `Print win counts, starting-team advantage, illegal-contact losses,
average game length and the invalid clue rate over every archived game.

Examples:
  switchboard stats --db games.db
  switchboard stats --db games.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite archive (env: SWITCHBOARD_DB)")

	return cmd
}

func runStats(opts *StatsOptions, cmd *cobra.Command) error {
	st, err := openStore(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	stats, err := st.Stats(commandContext(cmd))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to compute stats", err)
	}

	return opts.formatter(cmd).Emit(stats, func(w io.Writer) error {
		if stats.Games == 0 {
			fmt.Fprintln(w, "No games found in database.")
			return nil
		}
		fmt.Fprintf(w, "games:          %d\n", stats.Games)
		fmt.Fprintf(w, "red wins:       %d\n", stats.Wins[game.TeamRed])
		fmt.Fprintf(w, "blue wins:      %d\n", stats.Wins[game.TeamBlue])
		fmt.Fprintf(w, "starting wins:  %d (%.1f%%)\n", stats.StartingWins, percent(stats.StartingWins, stats.Games))
		fmt.Fprintf(w, "illegal losses: %d\n", stats.IllegalLosses)
		fmt.Fprintf(w, "avg turns:      %.1f\n", stats.AvgTurns)
		fmt.Fprintf(w, "invalid clues:  %d of %d (%.1f%%)\n", stats.InvalidClues, stats.Clues, percent(stats.InvalidClues, stats.Clues))
		return nil
	})
}

func percent(n, of int) float64 {
	if of == 0 {
		return 0
	}
	return 100 * float64(n) / float64(of)
}
