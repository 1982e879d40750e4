package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/switchboard/internal/game"
	"github.com/roach88/switchboard/internal/match"
	"github.com/roach88/switchboard/internal/player"
	"github.com/roach88/switchboard/internal/rules"
	"github.com/roach88/switchboard/internal/store"
)

// Seat and referee kinds accepted by run.
const (
	SeatRandom = "random"
	SeatHuman  = "human"

	RefereeRules = "rules"
	RefereeHuman = "human"
	RefereeNone  = "none"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	GameSources
	Database string
	Games    int
	Seed     int64
	Parallel int
	Red      string
	Blue     string
	Referee  string

	// IDs allows overriding the game ID generator (for testing).
	// If nil, defaults to game.UUIDv7Generator.
	IDs game.IDGenerator
}

// RunReport is the JSON form of a batch.
type RunReport struct {
	Seed    int64        `json:"seed"`
	Summary match.Summary `json:"summary"`
	Games   []GameReport `json:"games"`
}

// GameReport is one game of a RunReport.
type GameReport struct {
	Index   int    `json:"index"`
	Seed    int64  `json:"seed"`
	GameID  string `json:"game_id"`
	Outcome string `json:"outcome"`
	Turns   int    `json:"turns"`
	Error   string `json:"error,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Play one or more games",
		Long: `Play games between random baseline players and/or humans.

Each game i of a batch uses seed+i for its board and its random players, so
a batch is reproducible from its seed. With --db every game is archived and
every state transition is recorded.

Exit codes:
  0 - All games finished
  1 - One or more games failed
  2 - Command error (bad flags, unreadable files, database error)

Examples:
  switchboard run --games 100 --seed 7 --parallel 4 --db games.db
  switchboard run --red human --referee human
  switchboard run --rules strict.cue --names-file names.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGames(opts, cmd)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&opts.Database, "db", "", "path to SQLite archive; games are not archived when empty (env: SWITCHBOARD_DB)")
	fs.IntVarP(&opts.Games, "games", "n", 1, "number of games to play (env: SWITCHBOARD_GAMES)")
	fs.Int64Var(&opts.Seed, "seed", 0, "batch seed; 0 picks one from the clock (env: SWITCHBOARD_SEED)")
	fs.IntVarP(&opts.Parallel, "parallel", "p", 1, "games played at once; forced to 1 with human seats (env: SWITCHBOARD_PARALLEL)")
	fs.StringVar(&opts.Red, "red", SeatRandom, "red team players, random or human (env: SWITCHBOARD_RED)")
	fs.StringVar(&opts.Blue, "blue", SeatRandom, "blue team players, random or human (env: SWITCHBOARD_BLUE)")
	fs.StringVar(&opts.Referee, "referee", RefereeRules, "clue referee: rules, human or none (env: SWITCHBOARD_REFEREE)")
	fs.StringVar(&opts.NamesFile, "names-file", "", "YAML name bank; the built-in bank when empty (env: SWITCHBOARD_NAMES_FILE)")
	fs.StringVar(&opts.RulesFile, "rules", "", "CUE rules file; defaults when empty (env: SWITCHBOARD_RULES)")

	return cmd
}

func (o *RunOptions) validate() error {
	if o.Games < 1 {
		return fmt.Errorf("--games must be at least 1, got %d", o.Games)
	}
	for flag, seat := range map[string]string{"--red": o.Red, "--blue": o.Blue} {
		if seat != SeatRandom && seat != SeatHuman {
			return fmt.Errorf("%s must be random or human, got %q", flag, seat)
		}
	}
	switch o.Referee {
	case RefereeRules, RefereeHuman, RefereeNone:
	default:
		return fmt.Errorf("--referee must be rules, human or none, got %q", o.Referee)
	}
	return nil
}

func (o *RunOptions) hasHuman() bool {
	return o.Red == SeatHuman || o.Blue == SeatHuman || o.Referee == RefereeHuman
}

// players builds the roster factory. Humans take turns reading lines from in
// through one scanner, prompt on out and are shared by every game of the
// batch.
func (o *RunOptions) players(r rules.Rules, in io.Reader, out io.Writer) match.Players {
	lines := bufio.NewScanner(in)

	var validator game.Validator
	switch o.Referee {
	case RefereeRules:
		validator = player.NewRuleValidator(r.Checks...)
	case RefereeHuman:
		validator = player.NewHumanFromScanner("Referee", lines, out)
	case RefereeNone:
		validator = player.ApproveAll{}
	}

	seats := map[game.Team]*player.Human{}
	if o.Red == SeatHuman {
		seats[game.TeamRed] = player.NewHumanFromScanner("Red", lines, out)
	}
	if o.Blue == SeatHuman {
		seats[game.TeamBlue] = player.NewHumanFromScanner("Blue", lines, out)
	}

	random := match.RandomPlayers(validator)
	return func(index int, seed int64) (game.Roster, error) {
		roster, err := random(index, seed)
		if err != nil {
			return roster, err
		}
		if h := seats[game.TeamRed]; h != nil {
			roster.Red = game.TeamPlayers{Proposer: h, Chooser: h}
		}
		if h := seats[game.TeamBlue]; h != nil {
			roster.Blue = game.TeamPlayers{Proposer: h, Chooser: h}
		}
		return roster, nil
	}
}

func runGames(opts *RunOptions, cmd *cobra.Command) error {
	if err := opts.validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	}
	bank, r, err := opts.GameSources.load()
	if err != nil {
		return err
	}

	logger := opts.logger(cmd.ErrOrStderr())
	formatter := opts.formatter(cmd)

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	parallel := opts.Parallel
	if opts.hasHuman() {
		parallel = 1
	}

	var st *store.Store
	if opts.Database != "" {
		st, err = openStore(opts.Database)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("batch starting", "games", opts.Games, "seed", seed, "parallel", parallel,
		"penalty", r.Penalty, "starting_team", r.StartingTeam, "referee", opts.Referee)

	summary, err := match.Run(ctx, match.Config{
		Games:    opts.Games,
		Seed:     seed,
		Parallel: parallel,
		Rules:    r,
		Bank:     bank,
		Players:  opts.players(r, cmd.InOrStdin(), cmd.OutOrStdout()),
		Store:    st,
		IDs:      opts.IDs,
		Logger:   logger,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "batch aborted", err)
	}

	if err := outputRun(formatter, seed, summary); err != nil {
		return err
	}
	if summary.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d game(s) failed", summary.Failed))
	}
	return nil
}

func outputRun(f *OutputFormatter, seed int64, s match.Summary) error {
	report := RunReport{Seed: seed, Summary: s, Games: make([]GameReport, len(s.Results))}
	for i, r := range s.Results {
		report.Games[i] = GameReport{
			Index:   r.Index,
			Seed:    r.Seed,
			GameID:  r.Result.GameID,
			Outcome: r.Result.Outcome.String(),
			Turns:   r.Result.Turns,
		}
		if r.Err != nil {
			report.Games[i].Error = r.Err.Error()
		}
	}

	return f.Emit(report, func(w io.Writer) error {
		fmt.Fprintf(w, "seed: %d\n", seed)
		if len(s.Results) == 1 {
			return outputSingleGame(w, s.Results[0])
		}
		fmt.Fprintln(w)
		_, err := io.WriteString(w, s.Table())
		return err
	})
}

func outputSingleGame(w io.Writer, r match.GameResult) error {
	res := r.Result
	fmt.Fprintf(w, "game: %s\n\n", res.GameID)
	fmt.Fprintln(w, game.FormatHistory(res.Records, res.StartingTeam))
	fmt.Fprintln(w)
	if len(res.Cells) > 0 {
		fmt.Fprintln(w, player.FormatGrid(game.BoardView{StartingTeam: res.StartingTeam, Cells: res.Cells}))
		fmt.Fprintln(w)
	}
	if r.Err != nil {
		fmt.Fprintf(w, "✗ game stopped: %v\n", r.Err)
		return nil
	}
	fmt.Fprintf(w, "✓ %s after %d turn(s), red %d left, blue %d left\n",
		res.Outcome, res.Turns, res.Remaining[game.TeamRed], res.Remaining[game.TeamBlue])
	return nil
}
