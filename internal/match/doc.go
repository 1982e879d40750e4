// Package match plays batches of independent games.
//
// Each game gets its own seed (the batch seed plus the game index), its own
// board sampled from the name bank, its own Engine and its own players, so
// games share no mutable state and may run on parallel workers. Finished
// games are archived when a store is configured; the summary is identical
// for a given seed whatever the degree of parallelism.
package match
