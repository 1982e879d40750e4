package match

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/switchboard/internal/game"
	"github.com/roach88/switchboard/internal/namebank"
	"github.com/roach88/switchboard/internal/player"
	"github.com/roach88/switchboard/internal/rules"
	"github.com/roach88/switchboard/internal/store"
)

// Players builds the roster for one game of a batch.
type Players func(index int, seed int64) (game.Roster, error)

// RandomPlayers seats the random baseline on both teams, each seeded from
// the game seed, with the given validator as referee.
func RandomPlayers(validator game.Validator) Players {
	return func(_ int, seed int64) (game.Roster, error) {
		s := uint64(seed) * 4
		return game.Roster{
			Red: game.TeamPlayers{
				Proposer: player.NewRandomProposer(s, nil),
				Chooser:  player.NewRandomChooser(s + 1),
			},
			Blue: game.TeamPlayers{
				Proposer: player.NewRandomProposer(s+2, nil),
				Chooser:  player.NewRandomChooser(s + 3),
			},
			Validator: validator,
		}, nil
	}
}

// Config describes a batch.
type Config struct {
	Games    int   // number of games, at least 1
	Seed     int64 // game i uses Seed+i
	Parallel int   // worker count; 0 means 1

	// Rules default to rules.Default() when zero.
	Rules rules.Rules

	Bank    *namebank.Bank
	Players Players

	// Store, if set, receives every snapshot and every finished game.
	Store *store.Store

	// IDs defaults to game.UUIDv7Generator.
	IDs    game.IDGenerator
	Logger *slog.Logger
}

// GameResult is one game of a batch. Err is set when the game could not be
// set up or a collaborator failed; Result then holds the game as it stood.
type GameResult struct {
	Index  int
	Seed   int64
	Result game.Result
	Err    error
}

// Run plays the batch and summarises it.
//
// Failures of a single game are recorded in its GameResult and do not stop
// the batch. Archive failures and context cancellation do.
func Run(ctx context.Context, cfg Config) (Summary, error) {
	if cfg.Games < 1 {
		return Summary{}, fmt.Errorf("%w: games must be at least 1, got %d", game.ErrConfiguration, cfg.Games)
	}
	if cfg.Bank == nil || cfg.Players == nil {
		return Summary{}, fmt.Errorf("%w: name bank and players are required", game.ErrConfiguration)
	}
	if cfg.Parallel < 1 {
		cfg.Parallel = 1
	}
	if cfg.Rules.Penalty == "" {
		cfg.Rules = rules.Default()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.IDs == nil {
		cfg.IDs = game.UUIDv7Generator{}
	}

	var recorder *store.Recorder
	if cfg.Store != nil {
		recorder = store.NewRecorder(cfg.Store, cfg.Logger)
	}

	results := make([]GameResult, cfg.Games)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Parallel)

	for i := range cfg.Games {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res := playOne(gctx, cfg, recorder, i)
			results[i] = res
			if res.Err != nil {
				if errors.Is(res.Err, context.Canceled) || errors.Is(res.Err, context.DeadlineExceeded) {
					return res.Err
				}
				cfg.Logger.Warn("game failed", "index", i, "seed", res.Seed, "error", res.Err)
				return nil
			}
			if cfg.Store == nil {
				return nil
			}
			return cfg.Store.WriteGame(gctx, store.GameRecord{
				Result:  res.Result,
				Seed:    res.Seed,
				Penalty: cfg.Rules.Penalty,
			})
		})
	}

	if err := g.Wait(); err != nil {
		return Summarize(results), fmt.Errorf("batch: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Summarize(results), fmt.Errorf("batch: %w", err)
	}
	if recorder != nil {
		if err := recorder.Err(); err != nil {
			return Summarize(results), fmt.Errorf("batch: snapshots: %w", err)
		}
	}
	return Summarize(results), nil
}

// Board builds the board of the game with the given seed: 25 names sampled
// from bank, identities shuffled with the same seed.
func Board(bank *namebank.Bank, r rules.Rules, seed int64) (*game.Board, error) {
	names, err := bank.Sample(game.BoardSize, seed)
	if err != nil {
		return nil, err
	}
	return game.Setup(names, seed, game.SetupOptions{StartingTeam: r.Starting()})
}

func playOne(ctx context.Context, cfg Config, recorder *store.Recorder, index int) GameResult {
	seed := cfg.Seed + int64(index)
	res := GameResult{Index: index, Seed: seed}
	logger := cfg.Logger.With("game", index)

	board, err := Board(cfg.Bank, cfg.Rules, seed)
	if err != nil {
		res.Err = err
		return res
	}

	opts := []game.Option{
		game.WithPenalty(cfg.Rules.Penalty),
		game.WithIDGenerator(cfg.IDs),
		game.WithLogger(logger),
		game.WithObserver(game.LogObserver{Logger: logger}),
	}
	if recorder != nil {
		opts = append(opts, game.WithObserver(recorder))
	}
	gm, err := game.New(board, opts...)
	if err != nil {
		res.Err = err
		return res
	}

	roster, err := cfg.Players(index, seed)
	if err != nil {
		res.Err = fmt.Errorf("players for game %d: %w", index, err)
		res.Result = gm.Result()
		return res
	}
	eng, err := game.NewEngine(gm, roster,
		game.WithMaxRejections(cfg.Rules.MaxRejections),
		game.WithEngineLogger(logger),
	)
	if err != nil {
		res.Err = err
		res.Result = gm.Result()
		return res
	}

	res.Result, res.Err = eng.Play(ctx)
	return res
}
