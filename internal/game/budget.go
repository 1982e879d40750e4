package game

// Budget is how many guesses a team may take for one clue.
type Budget struct {
	// Max is the reveal cap when Unbounded is false.
	Max int
	// Unbounded means no cap; the turn ends on a miss or a stop.
	Unbounded bool
	// Min is the number of guesses required before stopping is allowed.
	Min int
}

// BudgetFor derives the guess budget from a clue number.
//
//	Concrete(k): Max k+1 (the N+1 rule), Min 0
//	Zero:        unbounded, Min 1
//	Unlimited:   unbounded, Min 1
//
// A team is never granted extra guesses for earlier unsatisfied clues; see
// Ledger.UnsatisfiedCount for that information.
func BudgetFor(n ClueNumber) Budget {
	if n.IsConcrete() {
		return Budget{Max: n.Value() + 1}
	}
	return Budget{Unbounded: true, Min: 1}
}

// Exhausted reports whether taken guesses use up the budget.
func (b Budget) Exhausted(taken int) bool {
	return !b.Unbounded && taken >= b.Max
}

// MinMet reports whether taken guesses satisfy the floor.
func (b Budget) MinMet(taken int) bool {
	return taken >= b.Min
}

// Remaining returns guesses left after taken, or -1 when unbounded.
func (b Budget) Remaining(taken int) int {
	if b.Unbounded {
		return -1
	}
	if taken >= b.Max {
		return 0
	}
	return b.Max - taken
}
