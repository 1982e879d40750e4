// Package game implements the Switchboard referee: a deterministic engine for
// a turn-based team deduction word game.
//
// ARCHITECTURE:
//
// Single Owner:
// One Game owns one GameState (board, ledger, teams, phase, outcome) for the
// whole life of a game. Nothing outside this package mutates the board or
// the ledger. A Game is not safe for concurrent use; run independent games
// in independent goroutines instead.
//
// Phase Flow:
//
//	propose_clue -> validating -> guessing  -> resolving -> propose_clue (other team)
//	                          \-> penalized -/          \-> game_over
//
// Game exposes the push API (ProposeClue, ApplyVerdict, Guess, Stop) and
// Engine drives it by pulling clues, verdicts and guesses from external
// collaborators (Proposer, Validator, Chooser). Each collaborator call is a
// suspension point; a failed call leaves the phase unchanged so the caller
// can retry.
//
// Observers receive a read-only Snapshot after every transition.
//
// INVARIANTS:
//
//   - Identity counts on the board never change after setup.
//   - Remaining[team] equals the number of unrevealed allies of team.
//   - A concrete clue k allows at most k+1 reveals in its turn.
//   - Zero and Unlimited clues never close on zero guesses.
//   - Ledger sequence numbers come from a logical clock, never wall time.
package game
