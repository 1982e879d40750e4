// Package player provides the collaborators that act for a team or judge
// clues: scripted players for tests and scenarios, seeded random baseline
// bots, an interactive human player over any reader/writer pair, and a
// deterministic rule validator.
//
// Every type here implements one or more of game.Proposer, game.Chooser and
// game.Validator. The engine picks collaborators at construction and never
// inspects their concrete types.
package player
