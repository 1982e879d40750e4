package game

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator names new games.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator issues UUIDv7 game IDs. They sort by creation time, which
// keeps the archive listing in play order.
type UUIDv7Generator struct{}

// Generate returns a new hyphenated UUIDv7.
func (UUIDv7Generator) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Only fails when the system random source does.
		panic(fmt.Sprintf("game: uuidv7: %v", err))
	}
	return id.String()
}

// FixedGenerator hands out a fixed list of IDs, in order, to any number of
// goroutines. Asking for more IDs than it holds panics.
type FixedGenerator struct {
	mu   sync.Mutex
	ids  []string
	next int
}

// NewFixedGenerator returns a generator that yields ids in order.
func NewFixedGenerator(ids ...string) *FixedGenerator {
	return &FixedGenerator{ids: ids}
}

// Generate returns the next id.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.next == len(g.ids) {
		panic(fmt.Sprintf("game: FixedGenerator exhausted after %d ids", len(g.ids)))
	}
	g.next++
	return g.ids[g.next-1]
}
