package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/switchboard/internal/game"
)

// ErrNotFound is returned when a game id is not in the archive.
var ErrNotFound = errors.New("game not found")

// GameSummary is one row of the games table.
type GameSummary struct {
	ID            string       `json:"id"`
	Seed          int64        `json:"seed"`
	StartingTeam  game.Team    `json:"starting_team"`
	Outcome       game.Outcome `json:"outcome"`
	Winner        game.Team    `json:"winner"`
	Turns         int          `json:"turns"`
	RedRemaining  int          `json:"red_remaining"`
	BlueRemaining int          `json:"blue_remaining"`
}

// ReadGame loads an archived game with its plays and guesses.
func (s *Store) ReadGame(ctx context.Context, id string) (GameRecord, error) {
	var (
		rec                         GameRecord
		penalty, starting, kind     string
		outcomeTeam, board          string
		redRemaining, blueRemaining int
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, seed, penalty, starting_team, outcome, outcome_team, outcome_reason,
		       turns, red_remaining, blue_remaining, board
		FROM games
		WHERE id = ?
	`, id).Scan(
		&rec.GameID,
		&rec.Seed,
		&penalty,
		&starting,
		&kind,
		&outcomeTeam,
		&rec.Outcome.Reason,
		&rec.Turns,
		&redRemaining,
		&blueRemaining,
		&board,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GameRecord{}, fmt.Errorf("read game %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return GameRecord{}, fmt.Errorf("read game %s: %w", id, err)
	}

	rec.Penalty = game.PenaltyMode(penalty)
	rec.StartingTeam = game.Team(starting)
	rec.Outcome.Kind = game.OutcomeKind(kind)
	rec.Outcome.Team = game.Team(outcomeTeam)
	rec.Remaining = map[game.Team]int{game.TeamRed: redRemaining, game.TeamBlue: blueRemaining}

	if rec.Cells, err = unmarshalCells(board); err != nil {
		return GameRecord{}, fmt.Errorf("read game %s: %w", id, err)
	}
	if rec.Records, err = s.readPlays(ctx, id); err != nil {
		return GameRecord{}, fmt.Errorf("read game %s: %w", id, err)
	}
	return rec, nil
}

func (s *Store) readPlays(ctx context.Context, id string) ([]game.PlayRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, turn, team, clue, number, validity, violation, referenced,
		       reason, end_reason, penalty_target, note
		FROM plays
		WHERE game_id = ?
		ORDER BY seq ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("read plays: %w", err)
	}
	defer rows.Close()

	var plays []game.PlayRecord
	for rows.Next() {
		var (
			p                                 game.PlayRecord
			team, number, validity, refs, end string
		)
		if err := rows.Scan(&p.Seq, &p.Turn, &team, &p.Clue, &number, &validity, &p.Violation,
			&refs, &p.Reason, &end, &p.PenaltyTarget, &p.Note); err != nil {
			return nil, fmt.Errorf("scan play: %w", err)
		}
		p.Team = game.Team(team)
		p.Validity = game.Validity(validity)
		p.EndReason = game.EndReason(end)
		if p.Number, err = game.ParseClueNumber(number); err != nil {
			return nil, fmt.Errorf("play %d: %w", p.Seq, err)
		}
		if p.Referenced, err = unmarshalNames(refs); err != nil {
			return nil, fmt.Errorf("play %d: %w", p.Seq, err)
		}
		plays = append(plays, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plays: %w", err)
	}

	bySeq := make(map[int64]int, len(plays))
	for i, p := range plays {
		bySeq[p.Seq] = i
	}

	guessRows, err := s.db.QueryContext(ctx, `
		SELECT play_seq, name, identity, outcome
		FROM guesses
		WHERE game_id = ?
		ORDER BY play_seq ASC, idx ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("read guesses: %w", err)
	}
	defer guessRows.Close()

	for guessRows.Next() {
		var (
			seq                     int64
			name, identity, outcome string
		)
		if err := guessRows.Scan(&seq, &name, &identity, &outcome); err != nil {
			return nil, fmt.Errorf("scan guess: %w", err)
		}
		i, ok := bySeq[seq]
		if !ok {
			return nil, fmt.Errorf("guess for unknown play %d", seq)
		}
		plays[i].Guesses = append(plays[i].Guesses, game.GuessRecord{
			Name:     name,
			Identity: game.Identity(identity),
			Outcome:  game.GuessOutcome(outcome),
		})
	}
	if err := guessRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate guesses: %w", err)
	}
	return plays, nil
}

// ListGames returns archived games in creation order. limit <= 0 means all.
func (s *Store) ListGames(ctx context.Context, limit int) ([]GameSummary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seed, starting_team, outcome, outcome_team, outcome_reason,
		       winner, turns, red_remaining, blue_remaining
		FROM games
		ORDER BY id ASC COLLATE BINARY
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var games []GameSummary
	for rows.Next() {
		var (
			g                                   GameSummary
			starting, kind, outcomeTeam, winner string
		)
		if err := rows.Scan(&g.ID, &g.Seed, &starting, &kind, &outcomeTeam, &g.Outcome.Reason,
			&winner, &g.Turns, &g.RedRemaining, &g.BlueRemaining); err != nil {
			return nil, fmt.Errorf("list games: scan: %w", err)
		}
		g.StartingTeam = game.Team(starting)
		g.Outcome.Kind = game.OutcomeKind(kind)
		g.Outcome.Team = game.Team(outcomeTeam)
		g.Winner = game.Team(winner)
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}

// BoxScore is one team's line for one game.
type BoxScore struct {
	Team          game.Team `json:"team"`
	Clues         int       `json:"clues"`
	InvalidClues  int       `json:"invalid_clues"`
	AllyHits      int       `json:"ally_hits"`
	EnemyHits     int       `json:"enemy_hits"`
	CivilianHits  int       `json:"civilian_hits"`
	IllegalHits   int       `json:"illegal_hits"`
	PenaltiesPaid int       `json:"penalties_paid"`
}

// BoxScores returns both teams' lines for a game, red first.
func (s *Store) BoxScores(ctx context.Context, id string) ([]BoxScore, error) {
	scores := []BoxScore{{Team: game.TeamRed}, {Team: game.TeamBlue}}
	index := map[game.Team]int{game.TeamRed: 0, game.TeamBlue: 1}

	rows, err := s.db.QueryContext(ctx, `
		SELECT team,
		       COUNT(*),
		       SUM(CASE WHEN validity = 'invalid' THEN 1 ELSE 0 END),
		       SUM(CASE WHEN penalty_target != '' THEN 1 ELSE 0 END)
		FROM plays
		WHERE game_id = ?
		GROUP BY team
		ORDER BY team ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("box scores: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var team string
		var clues, invalid, penalties int
		if err := rows.Scan(&team, &clues, &invalid, &penalties); err != nil {
			return nil, fmt.Errorf("box scores: scan: %w", err)
		}
		i, ok := index[game.Team(team)]
		if !ok {
			continue
		}
		scores[i].Clues = clues
		scores[i].InvalidClues = invalid
		// The penalty of an invalid clue is paid by the opponent.
		scores[1-i].PenaltiesPaid += penalties
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("box scores: %w", err)
	}

	guessRows, err := s.db.QueryContext(ctx, `
		SELECT p.team, g.outcome, COUNT(*)
		FROM guesses g
		JOIN plays p ON p.game_id = g.game_id AND p.seq = g.play_seq
		WHERE g.game_id = ?
		GROUP BY p.team, g.outcome
		ORDER BY p.team ASC, g.outcome ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("box scores: %w", err)
	}
	defer guessRows.Close()
	for guessRows.Next() {
		var team, outcome string
		var n int
		if err := guessRows.Scan(&team, &outcome, &n); err != nil {
			return nil, fmt.Errorf("box scores: scan: %w", err)
		}
		i, ok := index[game.Team(team)]
		if !ok {
			continue
		}
		switch game.GuessOutcome(outcome) {
		case game.OutcomeAllyHit:
			scores[i].AllyHits = n
		case game.OutcomeEnemyHit:
			scores[i].EnemyHits = n
		case game.OutcomeCivilianHit:
			scores[i].CivilianHits = n
		case game.OutcomeIllegalHit:
			scores[i].IllegalHits = n
		}
	}
	if err := guessRows.Err(); err != nil {
		return nil, fmt.Errorf("box scores: %w", err)
	}
	return scores, nil
}

// Stats aggregates the whole archive.
type Stats struct {
	Games         int               `json:"games"`
	Wins          map[game.Team]int `json:"wins"`
	StartingWins  int               `json:"starting_wins"`
	IllegalLosses int               `json:"illegal_losses"`
	AvgTurns      float64           `json:"avg_turns"`
	InvalidClues  int               `json:"invalid_clues"`
	Clues         int               `json:"clues"`
}

// Stats computes archive-wide totals.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	st := Stats{Wins: map[game.Team]int{game.TeamRed: 0, game.TeamBlue: 0}}

	var avg sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN winner = starting_team THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN outcome = 'loss' THEN 1 ELSE 0 END), 0),
		       AVG(turns)
		FROM games
	`).Scan(&st.Games, &st.StartingWins, &st.IllegalLosses, &avg)
	if err != nil {
		return st, fmt.Errorf("stats: %w", err)
	}
	st.AvgTurns = avg.Float64

	rows, err := s.db.QueryContext(ctx, `
		SELECT winner, COUNT(*) FROM games WHERE winner != '' GROUP BY winner ORDER BY winner ASC
	`)
	if err != nil {
		return st, fmt.Errorf("stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var team string
		var n int
		if err := rows.Scan(&team, &n); err != nil {
			return st, fmt.Errorf("stats: scan: %w", err)
		}
		st.Wins[game.Team(team)] = n
	}
	if err := rows.Err(); err != nil {
		return st, fmt.Errorf("stats: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN validity = 'invalid' THEN 1 ELSE 0 END), 0)
		FROM plays
	`).Scan(&st.Clues, &st.InvalidClues)
	if err != nil {
		return st, fmt.Errorf("stats: %w", err)
	}
	return st, nil
}

// SnapshotRow is one stored snapshot.
type SnapshotRow struct {
	Index         int
	Phase         game.Phase
	CurrentTeam   game.Team
	Turn          int
	RedRemaining  int
	BlueRemaining int
	Outcome       string
}

func (r SnapshotRow) String() string {
	return fmt.Sprintf("{%s %s turn=%d red=%d blue=%d %s}",
		r.Phase, r.CurrentTeam, r.Turn, r.RedRemaining, r.BlueRemaining, r.Outcome)
}

// ReadSnapshots returns a game's snapshots in order.
func (s *Store) ReadSnapshots(ctx context.Context, id string) ([]SnapshotRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT idx, phase, current_team, turn, red_remaining, blue_remaining, outcome
		FROM snapshots
		WHERE game_id = ?
		ORDER BY idx ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("read snapshots: %w", err)
	}
	defer rows.Close()

	var out []SnapshotRow
	for rows.Next() {
		var r SnapshotRow
		var phase, team string
		if err := rows.Scan(&r.Index, &phase, &team, &r.Turn, &r.RedRemaining, &r.BlueRemaining, &r.Outcome); err != nil {
			return nil, fmt.Errorf("read snapshots: scan: %w", err)
		}
		r.Phase = game.Phase(phase)
		r.CurrentTeam = game.Team(team)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read snapshots: %w", err)
	}
	return out, nil
}
