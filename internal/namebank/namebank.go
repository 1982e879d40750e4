// Package namebank loads the pool of board names and samples boards from it.
//
// A name bank is a YAML file with a single "names" list. Names are trimmed,
// NFC-normalised and upper-cased; blanks and duplicates are dropped, keeping
// the first occurrence.
package namebank

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/roach88/switchboard/internal/game"
)

// Bank is a deduplicated, ordered list of names.
type Bank struct {
	Names []string
}

type file struct {
	Names []string `yaml:"names"`
}

// Load reads a name bank file. Unknown keys are rejected so typos surface.
func Load(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read name bank: %w", err)
	}
	return Parse(data)
}

// Parse decodes name bank YAML.
func Parse(data []byte) (*Bank, error) {
	var f file
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse name bank: %w", err)
	}

	b := New(f.Names)
	if len(b.Names) < game.BoardSize {
		return nil, fmt.Errorf("%w: name bank has %d unique names, need at least %d",
			game.ErrConfiguration, len(b.Names), game.BoardSize)
	}
	return b, nil
}

// New builds a bank from raw names.
func New(names []string) *Bank {
	upper := cases.Upper(language.Und)
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = upper.String(norm.NFC.String(strings.TrimSpace(n)))
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return &Bank{Names: out}
}

// Sample returns n names drawn without replacement, in a deterministic
// order for a given seed.
func (b *Bank) Sample(n int, seed int64) ([]string, error) {
	if n > len(b.Names) {
		return nil, fmt.Errorf("%w: cannot sample %d names from a bank of %d",
			game.ErrConfiguration, n, len(b.Names))
	}
	s := uint64(seed)
	rng := rand.New(rand.NewPCG(s, s^0x632be59bd9b4e019))
	perm := rng.Perm(len(b.Names))

	out := make([]string, n)
	for i := range out {
		out[i] = b.Names[perm[i]]
	}
	return out, nil
}
