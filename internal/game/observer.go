package game

import (
	"context"
	"log/slog"
)

// Observer receives a snapshot after every state transition. Observers must
// not block for long; the game waits for them.
type Observer interface {
	Observe(Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Snapshot)

// Observe calls f(s).
func (f ObserverFunc) Observe(s Snapshot) {
	f(s)
}

// LogObserver logs transitions at debug level and the end of each turn and
// game at info level.
type LogObserver struct {
	Logger *slog.Logger
}

// Observe implements Observer.
func (o LogObserver) Observe(s Snapshot) {
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ctx := context.Background()

	logger.DebugContext(ctx, "transition",
		"game_id", s.GameID,
		"phase", s.Phase,
		"team", s.CurrentTeam,
		"turn", s.Turn,
	)

	switch s.Phase {
	case PhaseResolving:
		logger.InfoContext(ctx, "turn ended",
			"game_id", s.GameID,
			"turn", TurnLabel(s.Turn, s.CurrentTeam, s.StartingTeam),
			"red_remaining", s.Remaining[TeamRed],
			"blue_remaining", s.Remaining[TeamBlue],
		)
	case PhaseGameOver:
		logger.InfoContext(ctx, "game over",
			"game_id", s.GameID,
			"outcome", s.Outcome.String(),
			"winner", s.Outcome.Winner(),
			"turns", s.Turn+1,
		)
	}
}
