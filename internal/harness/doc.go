// Package harness runs scripted games from YAML scenario files and checks
// the resulting state.
//
// # Scenario Format
//
//	name: scenario_name
//	description: "What this scenario validates"
//	game_id: scenario-a          # optional, defaults to the name
//	penalty: reveal-opposing-ally
//	board:
//	  starting_team: red
//	  cells:                     # board order, "NAME identity"
//	    - ALPHA red_ally
//	    - ...
//	  revealed: [KILO]
//	turns:
//	  - team: red
//	    clue: PRIMARY
//	    number: "2"
//	    verdict: VALID           # or "INVALID: exact-match DELTA"
//	    actions:
//	      - guess: ALPHA
//	        outcome: ally_hit
//	      - stop: true
//	        error: BUDGET_NOT_MET
//	assertions:
//	  - type: outcome
//	    value: in_progress
//	  - type: remaining
//	    team: red
//	    count: 7
//
// Instead of cells a board may give names and a seed, in which case it is
// generated with game.Setup. Guess targets may be symbolic: @red, @blue,
// @civilian and @illegal pick the first hidden cell of that identity in
// board order.
//
// # Assertion Types
//
//   - outcome: final outcome string, e.g. "win(red)"
//   - phase: final phase
//   - current_team: team to play next
//   - remaining: hidden allies of a team
//   - unsatisfied: advisory carry-over count of a team
//   - end_reasons: end reason of every play, in order
//   - penalty_targets: names revealed by penalties, in order
//   - revealed / hidden: names that must be revealed or hidden
//
// # Deterministic Testing
//
// Games run with a fixed game ID and no real collaborators, so the
// transcript of a scenario is byte-for-byte reproducible and can be compared
// against a golden file with RunWithGolden.
package harness
