package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/switchboard/internal/game"
	"github.com/roach88/switchboard/internal/match"
	"github.com/roach88/switchboard/internal/player"
)

// BoardOptions holds flags for the board command.
type BoardOptions struct {
	*RootOptions
	GameSources
	Seed   int64
	Public bool
}

// BoardOutput is the JSON form of a dealt board.
type BoardOutput struct {
	Seed int64 `json:"seed"`
	game.BoardView
}

// NewBoardCommand creates the board command.
func NewBoardCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BoardOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Deal a board from a seed",
		Long: `Deal the board that run would deal for a seed and print it.

The operator view shows every identity; --public shows the lineman view
with unrevealed identities hidden. The same seed, name bank and rules always
deal the same board.

Examples:
  switchboard board --seed 42
  switchboard board --seed 42 --public
  switchboard board --seed 42 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoard(opts, cmd)
		},
	}

	fs := cmd.Flags()
	fs.Int64Var(&opts.Seed, "seed", 0, "board seed (env: SWITCHBOARD_SEED)")
	fs.BoolVar(&opts.Public, "public", false, "hide unrevealed identities (env: SWITCHBOARD_PUBLIC)")
	fs.StringVar(&opts.NamesFile, "names-file", "", "YAML name bank; the built-in bank when empty (env: SWITCHBOARD_NAMES_FILE)")
	fs.StringVar(&opts.RulesFile, "rules", "", "CUE rules file; defaults when empty (env: SWITCHBOARD_RULES)")

	return cmd
}

func runBoard(opts *BoardOptions, cmd *cobra.Command) error {
	bank, r, err := opts.GameSources.load()
	if err != nil {
		return err
	}
	board, err := match.Board(bank, r, opts.Seed)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to deal board", err)
	}
	view := board.View(!opts.Public)

	return opts.formatter(cmd).Emit(BoardOutput{Seed: opts.Seed, BoardView: view}, func(w io.Writer) error {
		fmt.Fprintf(w, "seed %d, %s starts\n\n", opts.Seed, view.StartingTeam)
		_, err := fmt.Fprintln(w, player.FormatGrid(view))
		return err
	})
}
