// Package store archives games in SQLite.
//
// Tables:
//   - games: one row per finished game (outcome, counts, final board as JSON)
//   - plays: one row per ledger record, keyed by the record's sequence number
//   - guesses: the guesses of each play, in order
//   - snapshots: phase snapshots written by Recorder while a game runs
//
// # Ordering
//
// Every query orders by logical sequence numbers or ids, never by wall time,
// so listings and replays are identical across runs. Game ids are UUIDv7 and
// therefore sort in creation order.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// A Store holds a single connection, so concurrent writers (parallel games
// in a batch) are serialised by database/sql.
package store
