package game

// seqClock is the ledger's logical clock. Sequence numbers count records,
// never wall time, so re-applying a game's plays reproduces them exactly.
type seqClock struct {
	last int64
}

// next advances the clock and returns the new sequence number, starting at 1.
func (c *seqClock) next() int64 {
	c.last++
	return c.last
}
