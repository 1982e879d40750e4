package game

import (
	"fmt"
	"strconv"
	"strings"
)

// NumberKind tags a ClueNumber.
type NumberKind int

const (
	NumberConcrete NumberKind = iota + 1
	NumberZero
	NumberUnlimited
)

// ClueNumber is the number attached to a clue: Concrete(k) for k >= 1, Zero,
// or Unlimited. The zero value is invalid.
type ClueNumber struct {
	kind  NumberKind
	value int
}

var (
	// Zero asserts that no unrevealed ally relates to the clue word.
	Zero = ClueNumber{kind: NumberZero}
	// Unlimited relates the clue to more than one ally without saying how many.
	Unlimited = ClueNumber{kind: NumberUnlimited}
)

// Concrete returns the clue number k. Concrete(0) is Zero; negative k is
// invalid (see Valid).
func Concrete(k int) ClueNumber {
	if k == 0 {
		return Zero
	}
	return ClueNumber{kind: NumberConcrete, value: k}
}

// ParseClueNumber parses decimal digits or "unlimited" (case-insensitive).
// "0" parses to Zero.
func ParseClueNumber(s string) (ClueNumber, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "unlimited" {
		return Unlimited, nil
	}
	k, err := strconv.Atoi(s)
	if err != nil || k < 0 {
		return ClueNumber{}, fmt.Errorf("%w: clue number %q must be a non-negative integer or 'unlimited'", ErrInvalidInput, s)
	}
	return Concrete(k), nil
}

// Kind returns the tag.
func (n ClueNumber) Kind() NumberKind {
	return n.kind
}

// Value returns k for Concrete(k) and 0 otherwise.
func (n ClueNumber) Value() int {
	return n.value
}

// IsConcrete reports whether n is Concrete(k) with k >= 1.
func (n ClueNumber) IsConcrete() bool {
	return n.kind == NumberConcrete
}

// Valid reports whether n is a well-formed clue number.
func (n ClueNumber) Valid() bool {
	switch n.kind {
	case NumberConcrete:
		return n.value >= 1
	case NumberZero, NumberUnlimited:
		return true
	}
	return false
}

func (n ClueNumber) String() string {
	switch n.kind {
	case NumberConcrete:
		return strconv.Itoa(n.value)
	case NumberZero:
		return "0"
	case NumberUnlimited:
		return "unlimited"
	}
	return "invalid"
}

// MarshalText implements encoding.TextMarshaler.
func (n ClueNumber) MarshalText() ([]byte, error) {
	if !n.Valid() {
		return nil, fmt.Errorf("%w: cannot marshal invalid clue number", ErrInvalidInput)
	}
	return []byte(n.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (n *ClueNumber) UnmarshalText(text []byte) error {
	parsed, err := ParseClueNumber(string(text))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

// Clue is a word plus a number proposed by a team for its own guesser.
type Clue struct {
	Text   string     `json:"text"`
	Number ClueNumber `json:"number"`
}

func (c Clue) String() string {
	return fmt.Sprintf("%q (%s)", c.Text, c.Number)
}
