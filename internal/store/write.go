package store

import (
	"context"
	"fmt"

	"github.com/roach88/switchboard/internal/game"
)

// GameRecord is a game as archived: its result plus how it was set up.
type GameRecord struct {
	game.Result
	Seed    int64            `json:"seed"`
	Penalty game.PenaltyMode `json:"penalty"`
}

// WriteGame archives a game with all its plays and guesses in one
// transaction. Writing the same game id again is a no-op.
func (s *Store) WriteGame(ctx context.Context, rec GameRecord) error {
	board, err := marshalCells(rec.Cells)
	if err != nil {
		return fmt.Errorf("write game: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write game: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	res, err := tx.ExecContext(ctx, `
		INSERT INTO games
		(id, seed, penalty, starting_team, outcome, outcome_team, outcome_reason,
		 winner, turns, red_remaining, blue_remaining, board)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.GameID,
		rec.Seed,
		string(rec.Penalty),
		string(rec.StartingTeam),
		string(rec.Outcome.Kind),
		string(rec.Outcome.Team),
		rec.Outcome.Reason,
		string(rec.Outcome.Winner()),
		rec.Turns,
		rec.Remaining[game.TeamRed],
		rec.Remaining[game.TeamBlue],
		board,
	)
	if err != nil {
		return fmt.Errorf("write game: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("write game: %w", err)
	} else if n == 0 {
		return nil
	}

	for _, p := range rec.Records {
		referenced, err := marshalNames(p.Referenced)
		if err != nil {
			return fmt.Errorf("write game: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO plays
			(game_id, seq, turn, team, clue, number, validity, violation,
			 referenced, reason, end_reason, penalty_target, note)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			rec.GameID,
			p.Seq,
			p.Turn,
			string(p.Team),
			p.Clue,
			p.Number.String(),
			string(p.Validity),
			p.Violation,
			referenced,
			p.Reason,
			string(p.EndReason),
			p.PenaltyTarget,
			p.Note,
		)
		if err != nil {
			return fmt.Errorf("write play %d: %w", p.Seq, err)
		}

		for i, g := range p.Guesses {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO guesses (game_id, play_seq, idx, name, identity, outcome)
				VALUES (?, ?, ?, ?, ?, ?)
			`, rec.GameID, p.Seq, i, g.Name, string(g.Identity), string(g.Outcome))
			if err != nil {
				return fmt.Errorf("write guess %d of play %d: %w", i, p.Seq, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write game: commit: %w", err)
	}
	return nil
}

// WriteSnapshot stores the idx-th snapshot of a running game.
// Uses ON CONFLICT DO NOTHING so a retried write is harmless.
func (s *Store) WriteSnapshot(ctx context.Context, idx int, snap game.Snapshot) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots
		(game_id, idx, phase, current_team, turn, red_remaining, blue_remaining, outcome)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		snap.GameID,
		idx,
		string(snap.Phase),
		string(snap.CurrentTeam),
		snap.Turn,
		snap.Remaining[game.TeamRed],
		snap.Remaining[game.TeamBlue],
		snap.Outcome.String(),
	)
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
