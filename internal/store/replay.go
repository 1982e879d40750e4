package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/switchboard/internal/game"
)

// ReplayResult compares an archived game with a fresh re-run of its plays.
type ReplayResult struct {
	GameID   string
	Archived game.Outcome
	Replayed game.Outcome

	// Mismatches lists every difference found; empty means the archive is
	// consistent with the rules.
	Mismatches []string
}

// Consistent reports whether the replay matched the archive.
func (r ReplayResult) Consistent() bool {
	return len(r.Mismatches) == 0
}

// Replay rebuilds an archived game's board with every cell hidden and
// re-applies its plays through a new game.Game. Penalty reveals are
// deterministic, so a consistent archive reproduces the same outcome,
// remaining counts and reveals. When the game left snapshots, the replayed
// snapshot sequence must match them row for row.
func (s *Store) Replay(ctx context.Context, id string) (ReplayResult, error) {
	rec, err := s.ReadGame(ctx, id)
	if err != nil {
		return ReplayResult{}, fmt.Errorf("replay: %w", err)
	}
	out := ReplayResult{GameID: id, Archived: rec.Outcome}

	cells := make([]game.Cell, len(rec.Cells))
	for i, c := range rec.Cells {
		cells[i] = game.Cell{Name: c.Name, Identity: c.Identity}
	}
	board, err := game.NewBoard(cells, rec.StartingTeam)
	if err != nil {
		return out, fmt.Errorf("replay %s: %w", id, err)
	}
	var snaps []game.Snapshot
	g, err := game.New(board,
		game.WithIDGenerator(game.NewFixedGenerator(id)),
		game.WithPenalty(rec.Penalty),
		game.WithLogger(slog.New(slog.DiscardHandler)),
		game.WithObserver(game.ObserverFunc(func(s game.Snapshot) {
			snaps = append(snaps, s)
		})),
	)
	if err != nil {
		return out, fmt.Errorf("replay %s: %w", id, err)
	}

	mismatch := func(format string, args ...any) {
		out.Mismatches = append(out.Mismatches, fmt.Sprintf(format, args...))
	}

	for _, p := range rec.Records {
		if err := replayPlay(g, p); err != nil {
			mismatch("play %d: %v", p.Seq, err)
			break
		}
	}

	out.Replayed = g.Outcome()
	if out.Replayed != rec.Outcome {
		mismatch("outcome: archived %s, replayed %s", rec.Outcome, out.Replayed)
	}
	for _, t := range game.Teams {
		if got, want := g.Remaining(t), rec.Remaining[t]; got != want {
			mismatch("%s remaining: archived %d, replayed %d", t, want, got)
		}
	}
	replayed := g.Board(true).Cells
	for i, c := range rec.Cells {
		if i < len(replayed) && replayed[i].Revealed != c.Revealed {
			mismatch("cell %s: archived revealed=%t, replayed revealed=%t", c.Name, c.Revealed, replayed[i].Revealed)
		}
	}

	archived, err := s.ReadSnapshots(ctx, id)
	if err != nil {
		return out, fmt.Errorf("replay %s: %w", id, err)
	}
	if len(archived) > 0 {
		out.Mismatches = append(out.Mismatches, compareSnapshots(archived, snaps)...)
	}
	return out, nil
}

// compareSnapshots reports a length difference and the first row where the
// archived and replayed sequences disagree.
func compareSnapshots(archived []SnapshotRow, replayed []game.Snapshot) []string {
	var diffs []string
	if len(archived) != len(replayed) {
		diffs = append(diffs, fmt.Sprintf("snapshots: archived %d, replayed %d", len(archived), len(replayed)))
	}
	for i := range min(len(archived), len(replayed)) {
		want, got := archived[i], snapshotRow(i, replayed[i])
		if want != got {
			diffs = append(diffs, fmt.Sprintf("snapshot %d: archived %s, replayed %s", i, want, got))
			break
		}
	}
	return diffs
}

// snapshotRow projects a snapshot onto the columns the archive keeps.
func snapshotRow(idx int, s game.Snapshot) SnapshotRow {
	return SnapshotRow{
		Index:         idx,
		Phase:         s.Phase,
		CurrentTeam:   s.CurrentTeam,
		Turn:          s.Turn,
		RedRemaining:  s.Remaining[game.TeamRed],
		BlueRemaining: s.Remaining[game.TeamBlue],
		Outcome:       s.Outcome.String(),
	}
}

func replayPlay(g *game.Game, p game.PlayRecord) error {
	if p.Team != g.CurrentTeam() {
		return fmt.Errorf("team %s played out of turn", p.Team)
	}
	if err := g.ProposeClue(p.Clue, p.Number); err != nil {
		return err
	}

	switch p.Validity {
	case game.ValidityPending:
		return nil
	case game.ValidityInvalid:
		if err := g.ApplyVerdict(game.Verdict{Violation: p.Violation, Referenced: p.Referenced, Reason: p.Reason}); err != nil {
			return err
		}
		if got := g.Records()[len(g.Records())-1].PenaltyTarget; got != p.PenaltyTarget {
			return fmt.Errorf("penalty revealed %q, archive has %q", got, p.PenaltyTarget)
		}
		return nil
	}

	if err := g.ApplyVerdict(game.Approve(p.Reason)); err != nil {
		return err
	}
	for _, guess := range p.Guesses {
		rec, err := g.Guess(guess.Name)
		if err != nil {
			return err
		}
		if rec.Outcome != guess.Outcome {
			return fmt.Errorf("guess %s: replayed %s, archive has %s", guess.Name, rec.Outcome, guess.Outcome)
		}
	}
	if p.EndReason == game.EndVoluntaryStop {
		return g.Stop()
	}
	return nil
}

// FindUnfinishedGames returns ids of games that left snapshots but were
// never archived, e.g. after a crash or an interrupted batch.
func (s *Store) FindUnfinishedGames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT sn.game_id
		FROM snapshots sn
		LEFT JOIN games g ON g.id = sn.game_id
		WHERE g.id IS NULL
		ORDER BY sn.game_id ASC COLLATE BINARY
	`)
	if err != nil {
		return nil, fmt.Errorf("find unfinished games: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("find unfinished games: scan: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find unfinished games: %w", err)
	}
	return ids, nil
}
