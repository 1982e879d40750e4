package player

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"

	"github.com/roach88/switchboard/internal/game"
)

// DefaultVocabulary is the word list random proposers draw clues from.
var DefaultVocabulary = []string{
	"OCEAN", "MUSIC", "FOREST", "ENGINE", "WINTER", "GARDEN", "SIGNAL",
	"MARKET", "THUNDER", "CASTLE", "RIVER", "PLANET", "SHADOW", "CIRCUS",
	"HARBOR", "LANTERN", "DESERT", "VELVET", "COMPASS", "FEATHER",
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xda3e39cb94b95bdb))
}

// RandomProposer is a baseline operator: it picks a vocabulary word that
// passes the variant checks against the board and a small concrete number.
type RandomProposer struct {
	rng   *rand.Rand
	words []string
}

// NewRandomProposer creates a proposer seeded with seed. An empty
// vocabulary means DefaultVocabulary.
func NewRandomProposer(seed uint64, vocabulary []string) *RandomProposer {
	if len(vocabulary) == 0 {
		vocabulary = DefaultVocabulary
	}
	return &RandomProposer{rng: newRand(seed), words: vocabulary}
}

// ProposeClue implements game.Proposer.
func (p *RandomProposer) ProposeClue(ctx context.Context, req game.ClueRequest) (game.Clue, error) {
	if err := ctx.Err(); err != nil {
		return game.Clue{}, err
	}

	remaining := 0
	for _, c := range req.Board.Cells {
		if c.Identity == req.Team.Ally() && !c.Revealed {
			remaining++
		}
	}

	var candidates []string
	for _, w := range p.words {
		if !clashes(w, req.Board.Unrevealed()) {
			candidates = append(candidates, w)
		}
	}
	if len(candidates) == 0 {
		return game.Clue{}, errors.New("no vocabulary word is usable on this board")
	}

	word := candidates[p.rng.IntN(len(candidates))]
	n := min(remaining, 1+p.rng.IntN(2))
	return game.Clue{Text: word, Number: game.Concrete(n)}, nil
}

func clashes(word string, names []string) bool {
	w := fold(word)
	for _, n := range names {
		n = fold(n)
		if strings.Contains(n, w) || strings.Contains(w, n) {
			return true
		}
	}
	return false
}

// RandomChooser is a baseline lineman: it guesses uniformly among the
// unrevealed names and, once the clue's minimum is met, stops with
// probability StopChance before each further guess.
type RandomChooser struct {
	rng        *rand.Rand
	StopChance float64
}

// NewRandomChooser creates a chooser seeded with seed that stops with
// probability 0.25 once allowed to.
func NewRandomChooser(seed uint64) *RandomChooser {
	return &RandomChooser{rng: newRand(seed), StopChance: 0.25}
}

// NextGuess implements game.Chooser.
func (c *RandomChooser) NextGuess(ctx context.Context, req game.GuessRequest) (game.Guess, error) {
	if err := ctx.Err(); err != nil {
		return game.Guess{}, err
	}
	if req.Taken >= req.MinGuesses && c.rng.Float64() < c.StopChance {
		return game.StopGuessing(), nil
	}
	names := req.Board.Unrevealed()
	if len(names) == 0 {
		return game.StopGuessing(), nil
	}
	return game.GuessName(names[c.rng.IntN(len(names))]), nil
}
