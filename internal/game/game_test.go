package game

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/switchboard/internal/testutil"
)

func TestNew(t *testing.T) {
	g := newTestGame(t, fixedBoard(t))

	assert.Equal(t, "game-1", g.ID())
	assert.Equal(t, PhaseProposeClue, g.Phase())
	assert.Equal(t, TeamRed, g.CurrentTeam())
	assert.Equal(t, TeamRed, g.StartingTeam())
	assert.Equal(t, 0, g.Turn())
	assert.Equal(t, 9, g.Remaining(TeamRed))
	assert.Equal(t, 8, g.Remaining(TeamBlue))
	assert.Equal(t, InProgress(), g.Outcome())
	assert.Empty(t, g.Records())
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = New(fixedBoard(t), WithPenalty("double"), WithLogger(quietLogger()))
	assert.ErrorIs(t, err, ErrConfiguration)
}

// Red clues two allies, finds both and stops.
func TestScenarioA_CorrectGuessesThenStop(t *testing.T) {
	g := newTestGame(t, fixedBoard(t))
	openTurn(t, g, "PRIMARY", Concrete(2))

	budget, taken := g.Budget()
	assert.Equal(t, 3, budget.Max)
	assert.Equal(t, 0, taken)

	for _, name := range []string{"ALPHA", "BRAVO"} {
		rec, err := g.Guess(name)
		require.NoError(t, err)
		assert.Equal(t, OutcomeAllyHit, rec.Outcome)
		assert.Equal(t, PhaseGuessing, g.Phase())
	}
	require.NoError(t, g.Stop())

	assert.Equal(t, 7, g.Remaining(TeamRed))
	assert.Equal(t, 8, g.Remaining(TeamBlue))
	assert.Equal(t, TeamBlue, g.CurrentTeam())
	assert.Equal(t, 1, g.Turn())
	assert.Equal(t, PhaseProposeClue, g.Phase())

	records := g.Records()
	require.Len(t, records, 1)
	assert.Equal(t, ValidityValid, records[0].Validity)
	assert.Equal(t, EndVoluntaryStop, records[0].EndReason)
	assert.Len(t, records[0].Guesses, 2)
	assert.Equal(t, 0, g.UnsatisfiedCount(TeamRed))
}

// A civilian on the first guess ends the turn.
func TestScenarioB_CivilianEndsTurn(t *testing.T) {
	g := newTestGame(t, fixedBoard(t))
	openTurn(t, g, "PRIMARY", Concrete(2))

	rec, err := g.Guess("SIERRA")
	require.NoError(t, err)
	assert.Equal(t, OutcomeCivilianHit, rec.Outcome)

	assert.Equal(t, TeamBlue, g.CurrentTeam())
	assert.Equal(t, 9, g.Remaining(TeamRed))
	records := g.Records()
	assert.Equal(t, EndWrongHit, records[0].EndReason)
	assert.Equal(t, 2, g.UnsatisfiedCount(TeamRed))
}

// The illegal cell loses the game for the guessing team.
func TestScenarioC_IllegalContact(t *testing.T) {
	g := newTestGame(t, fixedBoard(t))
	openTurn(t, g, "PRIMARY", Concrete(2))

	rec, err := g.Guess(testutil.Illegal)
	require.NoError(t, err)
	assert.Equal(t, OutcomeIllegalHit, rec.Outcome)

	assert.True(t, g.Over())
	assert.Equal(t, Loss(TeamRed, ReasonIllegalContact), g.Outcome())
	assert.Equal(t, TeamBlue, g.Outcome().Winner())
	assert.Equal(t, "loss(red, illegal contact)", g.Outcome().String())
	assert.Equal(t, EndIllegalContact, g.Records()[0].EndReason)

	_, err = g.Guess("ALPHA")
	assert.ErrorIs(t, err, ErrGameOver)
	assert.ErrorIs(t, g.ProposeClue("X", Concrete(1)), ErrGameOver)
}

// An invalid clue reveals one opposing ally and ends the turn.
func TestScenarioD_InvalidCluePenalty(t *testing.T) {
	g := newTestGame(t, fixedBoard(t))
	require.NoError(t, g.ProposeClue("DELTA", Concrete(1)))
	require.NoError(t, g.ApplyVerdict(Reject(ViolationExactMatch, "DELTA")))

	assert.Equal(t, 7, g.Remaining(TeamBlue))
	assert.Equal(t, 9, g.Remaining(TeamRed))
	assert.Equal(t, TeamBlue, g.CurrentTeam())
	assert.Equal(t, PhaseProposeClue, g.Phase())
	assert.False(t, g.Board(false).Cells[3].Revealed, "DELTA stays hidden")

	records := g.Records()
	require.Len(t, records, 1)
	r := records[0]
	assert.Equal(t, ValidityInvalid, r.Validity)
	assert.Equal(t, EndInvalidClue, r.EndReason)
	assert.Equal(t, "KILO", r.PenaltyTarget)
	assert.Empty(t, r.Guesses)

	revealed := 0
	for _, c := range g.Board(false).Cells {
		if c.Revealed {
			revealed++
			assert.Equal(t, IdentityBlueAlly, c.Identity)
		}
	}
	assert.Equal(t, 1, revealed)
}

// A Zero clue must be followed by at least one guess.
func TestScenarioE_ZeroClueNeedsAGuess(t *testing.T) {
	g := newTestGame(t, fixedBoard(t))
	openTurn(t, g, "ANIMALS", Zero)

	err := g.Stop()
	require.Error(t, err)
	assert.True(t, IsBudgetNotMet(err))
	assert.Equal(t, PhaseGuessing, g.Phase())
	assert.Equal(t, TeamRed, g.CurrentTeam())

	_, err = g.Guess("ALPHA")
	require.NoError(t, err)
	assert.Equal(t, PhaseGuessing, g.Phase())

	require.NoError(t, g.Stop())
	assert.Equal(t, TeamBlue, g.CurrentTeam())
	assert.Equal(t, EndVoluntaryStop, g.Records()[0].EndReason)
}

func TestGame_UnlimitedHasNoCap(t *testing.T) {
	g := newTestGame(t, fixedBoard(t))
	openTurn(t, g, "EVERYTHING", Unlimited)

	assert.ErrorIs(t, g.Stop(), ErrBudgetNotMet)
	for _, name := range testutil.RedAllies[:5] {
		_, err := g.Guess(name)
		require.NoError(t, err)
	}
	assert.Equal(t, PhaseGuessing, g.Phase())
	require.NoError(t, g.Stop())
}

func TestGame_ConcreteBudgetAllowsKPlusOne(t *testing.T) {
	g := newTestGame(t, fixedBoard(t))
	openTurn(t, g, "PRIMARY", Concrete(2))

	for i, name := range []string{"ALPHA", "BRAVO", "CHARLIE"} {
		_, err := g.Guess(name)
		require.NoError(t, err)
		if i < 2 {
			assert.Equal(t, PhaseGuessing, g.Phase())
		}
	}

	assert.Equal(t, TeamBlue, g.CurrentTeam())
	r := g.Records()[0]
	assert.Equal(t, EndBudgetExhausted, r.EndReason)
	assert.Len(t, r.Guesses, 3)
	assert.Equal(t, 6, g.Remaining(TeamRed))
}

func TestGame_StopWithConcreteClueAllowedImmediately(t *testing.T) {
	g := newTestGame(t, fixedBoard(t))
	openTurn(t, g, "PRIMARY", Concrete(1))
	require.NoError(t, g.Stop())

	r := g.Records()[0]
	assert.Empty(t, r.Guesses)
	assert.Equal(t, EndVoluntaryStop, r.EndReason)
	assert.Equal(t, 1, g.UnsatisfiedCount(TeamRed))
}

func TestGame_EnemyHitEndsTurnAndHelpsOpponent(t *testing.T) {
	g := newTestGame(t, fixedBoard(t))
	openTurn(t, g, "PRIMARY", Concrete(2))

	rec, err := g.Guess("KILO")
	require.NoError(t, err)
	assert.Equal(t, OutcomeEnemyHit, rec.Outcome)
	assert.Equal(t, 7, g.Remaining(TeamBlue))
	assert.Equal(t, TeamBlue, g.CurrentTeam())
	assert.Equal(t, EndWrongHit, g.Records()[0].EndReason)
}

func TestGame_FindingLastAllyWinsMidTurn(t *testing.T) {
	g := newTestGame(t, fixedBoard(t))
	openTurn(t, g, "EVERYTHING", Concrete(9))

	for _, name := range testutil.RedAllies {
		_, err := g.Guess(name)
		require.NoError(t, err)
	}

	assert.True(t, g.Over())
	assert.Equal(t, Win(TeamRed), g.Outcome())
	assert.Equal(t, 0, g.Remaining(TeamRed))
	assert.Equal(t, EndAlliesExhausted, g.Records()[0].EndReason)
}

func TestGame_EnemyHitOnLastOpposingAllyGivesOpponentTheWin(t *testing.T) {
	b := fixedBoard(t, testutil.BlueAllies[:7]...)
	g := newTestGame(t, b)
	require.Equal(t, 1, g.Remaining(TeamBlue))

	openTurn(t, g, "PRIMARY", Concrete(2))
	_, err := g.Guess("ROMEO")
	require.NoError(t, err)

	assert.True(t, g.Over())
	assert.Equal(t, Win(TeamBlue), g.Outcome())
	assert.Equal(t, EndAlliesExhausted, g.Records()[0].EndReason)
}

func TestGame_PenaltyOnLastOpposingAllyGivesOpponentTheWin(t *testing.T) {
	b := fixedBoard(t, testutil.BlueAllies[:7]...)
	g := newTestGame(t, b)

	require.NoError(t, g.ProposeClue("ROMEO", Concrete(1)))
	require.NoError(t, g.ApplyVerdict(Reject(ViolationExactMatch, "ROMEO")))

	assert.True(t, g.Over())
	assert.Equal(t, Win(TeamBlue), g.Outcome())
	assert.Equal(t, "ROMEO", g.Records()[0].PenaltyTarget)
}

func TestGame_PenaltyWithNoTargetsIsRecorded(t *testing.T) {
	b := fixedBoard(t, testutil.BlueAllies...)
	g := newTestGame(t, b)

	require.NoError(t, g.ProposeClue("ROMEO", Concrete(1)))
	require.NoError(t, g.ApplyVerdict(Reject(ViolationExactMatch, "ROMEO")))

	r := g.Records()[0]
	assert.Empty(t, r.PenaltyTarget)
	assert.Contains(t, r.Note, "no unrevealed allies left")
	assert.Equal(t, EndInvalidClue, r.EndReason)
	assert.Equal(t, Win(TeamBlue), g.Outcome())
}

func TestGame_PenaltyNone(t *testing.T) {
	g := newTestGame(t, fixedBoard(t), WithPenalty(PenaltyNone))

	require.NoError(t, g.ProposeClue("DELTA", Concrete(1)))
	require.NoError(t, g.ApplyVerdict(Reject(ViolationExactMatch, "DELTA")))

	assert.Equal(t, 8, g.Remaining(TeamBlue))
	assert.Equal(t, TeamBlue, g.CurrentTeam())
	r := g.Records()[0]
	assert.Empty(t, r.PenaltyTarget)
	assert.Equal(t, "penalty disabled by rules", r.Note)
}

func TestGame_RejectedGuessChangesNothing(t *testing.T) {
	g := newTestGame(t, fixedBoard(t, "ALPHA"))
	openTurn(t, g, "PRIMARY", Concrete(1))
	before := g.Snapshot()

	_, err := g.Guess("ZULU")
	assert.ErrorIs(t, err, ErrUnknownName)
	_, err = g.Guess("ALPHA")
	assert.ErrorIs(t, err, ErrAlreadyRevealed)

	after := g.Snapshot()
	assert.Equal(t, before, after)
	_, taken := g.Budget()
	assert.Equal(t, 0, taken)
}

func TestGame_WrongPhase(t *testing.T) {
	g := newTestGame(t, fixedBoard(t))

	_, err := g.Guess("ALPHA")
	assert.ErrorIs(t, err, ErrWrongPhase)
	assert.ErrorIs(t, g.Stop(), ErrWrongPhase)
	assert.ErrorIs(t, g.ApplyVerdict(Approve("")), ErrWrongPhase)

	require.NoError(t, g.ProposeClue("PRIMARY", Concrete(1)))
	assert.ErrorIs(t, g.ProposeClue("AGAIN", Concrete(1)), ErrWrongPhase)
}

func TestGame_InvalidClueNumber(t *testing.T) {
	g := newTestGame(t, fixedBoard(t))
	assert.ErrorIs(t, g.ProposeClue("PRIMARY", Concrete(-1)), ErrInvalidInput)
	assert.Equal(t, PhaseProposeClue, g.Phase())
}

func TestGame_ObserverSeesEveryTransition(t *testing.T) {
	var phases []Phase
	obs := ObserverFunc(func(s Snapshot) { phases = append(phases, s.Phase) })

	g := newTestGame(t, fixedBoard(t), WithObserver(obs))
	openTurn(t, g, "PRIMARY", Concrete(2))
	_, err := g.Guess("ALPHA")
	require.NoError(t, err)
	_, err = g.Guess("BRAVO")
	require.NoError(t, err)
	require.NoError(t, g.Stop())

	assert.Equal(t, []Phase{
		PhaseProposeClue,
		PhaseValidating,
		PhaseGuessing,
		PhaseGuessing,
		PhaseGuessing,
		PhaseResolving,
		PhaseProposeClue,
	}, phases)
}

func TestGame_InvalidClueTransitions(t *testing.T) {
	var phases []Phase
	obs := ObserverFunc(func(s Snapshot) { phases = append(phases, s.Phase) })

	g := newTestGame(t, fixedBoard(t), WithObserver(obs))
	require.NoError(t, g.ProposeClue("DELTA", Concrete(1)))
	require.NoError(t, g.ApplyVerdict(Reject(ViolationExactMatch)))

	assert.Equal(t, []Phase{
		PhaseProposeClue,
		PhaseValidating,
		PhasePenalized,
		PhaseResolving,
		PhaseProposeClue,
	}, phases)
}

func TestGame_Result(t *testing.T) {
	g := newTestGame(t, fixedBoard(t))
	openTurn(t, g, "PRIMARY", Concrete(1))
	_, err := g.Guess(testutil.Illegal)
	require.NoError(t, err)

	res := g.Result()
	assert.Equal(t, "game-1", res.GameID)
	assert.Equal(t, 1, res.Turns)
	assert.Len(t, res.Cells, BoardSize)
	assert.Equal(t, "game game-1: loss(red, illegal contact) after 1 turn(s)", res.String())
}

// Random play must keep the cached counts equal to the board, never
// exceed a concrete budget and never close an unbounded clue without a
// guess.
func TestGame_RandomPlayInvariants(t *testing.T) {
	for seed := uint64(1); seed <= 200; seed++ {
		rng := rand.New(rand.NewPCG(seed, seed*31))
		board, err := Setup(testutil.Names, int64(seed), SetupOptions{})
		require.NoError(t, err)

		var prev Snapshot
		checks := ObserverFunc(func(s Snapshot) {
			for _, team := range Teams {
				n := 0
				for _, c := range s.Board.Cells {
					if c.Identity == team.Ally() && !c.Revealed {
						n++
					}
				}
				require.Equal(t, n, s.Remaining[team], "seed %d", seed)
				if prev.Remaining != nil {
					require.LessOrEqual(t, s.Remaining[team], prev.Remaining[team])
				}
			}
			require.Equal(t, s.Outcome.Terminal(), s.Phase == PhaseGameOver)
			prev = s
		})

		g, err := New(board,
			WithObserver(checks),
			WithLogger(quietLogger()),
			WithIDGenerator(NewFixedGenerator("rand")),
		)
		require.NoError(t, err)

		numbers := []ClueNumber{Concrete(1), Concrete(2), Concrete(3), Zero, Unlimited}
		for steps := 0; !g.Over(); steps++ {
			require.Less(t, steps, 1000, "seed %d did not terminate", seed)

			switch g.Phase() {
			case PhaseProposeClue:
				require.NoError(t, g.ProposeClue("CLUE", numbers[rng.IntN(len(numbers))]))
			case PhaseValidating:
				v := Approve("")
				if rng.IntN(5) == 0 {
					v = Reject(ViolationVariant)
				}
				require.NoError(t, g.ApplyVerdict(v))
			case PhaseGuessing:
				budget, taken := g.Budget()
				if budget.MinMet(taken) && rng.IntN(4) == 0 {
					require.NoError(t, g.Stop())
					continue
				}
				names := g.UnrevealedNames()
				_, err := g.Guess(names[rng.IntN(len(names))])
				require.NoError(t, err)
			}
		}

		for _, r := range g.Records() {
			require.True(t, r.Closed())
			if r.Validity == ValidityInvalid {
				require.Empty(t, r.Guesses)
				continue
			}
			if r.Number.IsConcrete() {
				require.LessOrEqual(t, len(r.Guesses), r.Number.Value()+1)
			} else {
				require.NotEmpty(t, r.Guesses)
			}
		}
	}
}
