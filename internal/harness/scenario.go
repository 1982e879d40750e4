package harness

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/switchboard/internal/game"
	"github.com/roach88/switchboard/internal/player"
)

// Scenario defines a scripted game and the state it must end in.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// GameID is a fixed game ID for deterministic transcripts.
	// Defaults to Name.
	GameID string `yaml:"game_id,omitempty"`

	// Penalty selects the invalid-clue penalty; defaults to
	// reveal-opposing-ally.
	Penalty string `yaml:"penalty,omitempty"`

	// Board describes the starting board.
	Board BoardSpec `yaml:"board"`

	// Turns are played in order, each from the propose_clue phase.
	Turns []TurnStep `yaml:"turns"`

	// Assertions validate the final state.
	Assertions []Assertion `yaml:"assertions"`
}

// BoardSpec is either an explicit layout (Cells) or a generated one
// (Names + Seed).
type BoardSpec struct {
	StartingTeam string `yaml:"starting_team"`

	// Cells lists "NAME identity" pairs in board order.
	Cells []string `yaml:"cells,omitempty"`

	// Revealed names start revealed. Explicit layouts only.
	Revealed []string `yaml:"revealed,omitempty"`

	Names []string `yaml:"names,omitempty"`
	Seed  int64    `yaml:"seed,omitempty"`
}

// TurnStep is one clue and what happens after it.
type TurnStep struct {
	// Team, if set, must be the team to play.
	Team string `yaml:"team,omitempty"`

	Clue   string `yaml:"clue"`
	Number string `yaml:"number"`

	// Verdict uses the referee text protocol; empty means VALID.
	Verdict string `yaml:"verdict,omitempty"`

	// Actions are guesses and stops, applied while guessing.
	Actions []ActionStep `yaml:"actions,omitempty"`
}

// ActionStep is a single guess or stop.
type ActionStep struct {
	// Guess is a board name or a symbolic target (@red, @blue, @civilian,
	// @illegal).
	Guess string `yaml:"guess,omitempty"`
	Stop  bool   `yaml:"stop,omitempty"`

	// Outcome is the expected guess outcome, e.g. ally_hit.
	Outcome string `yaml:"outcome,omitempty"`

	// Error is the expected error code, e.g. BUDGET_NOT_MET. The step
	// must fail with it; game state is left unchanged.
	Error string `yaml:"error,omitempty"`
}

// Assertion validates the final state.
type Assertion struct {
	Type   string   `yaml:"type"`
	Team   string   `yaml:"team,omitempty"`
	Value  string   `yaml:"value,omitempty"`
	Values []string `yaml:"values,omitempty"`

	// Count is a pointer so that zero can be asserted.
	Count *int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertOutcome        = "outcome"
	AssertPhase          = "phase"
	AssertCurrentTeam    = "current_team"
	AssertRemaining      = "remaining"
	AssertUnsatisfied    = "unsatisfied"
	AssertEndReasons     = "end_reasons"
	AssertPenaltyTargets = "penalty_targets"
	AssertRevealed       = "revealed"
	AssertHidden         = "hidden"
)

// Symbolic guess targets.
var symbolicTargets = map[string]game.Identity{
	"@red":      game.IdentityRedAlly,
	"@blue":     game.IdentityBlueAlly,
	"@civilian": game.IdentityCivilian,
	"@illegal":  game.IdentityIllegal,
}

// LoadScenario reads the scenario file at path. Unknown keys are errors.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and checks scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	s := new(Scenario)
	if err := dec.Decode(s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := s.check(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return s, nil
}

func (s *Scenario) check() error {
	switch {
	case s.Name == "":
		return errors.New("name is required")
	case s.Description == "":
		return errors.New("description is required")
	case s.Penalty != "" && !game.PenaltyMode(s.Penalty).Valid():
		return fmt.Errorf("penalty %q is not reveal-opposing-ally or none", s.Penalty)
	}
	if err := validateBoard(&s.Board); err != nil {
		return fmt.Errorf("board: %w", err)
	}

	if len(s.Turns) == 0 {
		return errors.New("turns list is required and must be non-empty")
	}
	for i := range s.Turns {
		if err := validateTurn(i, &s.Turns[i]); err != nil {
			return err
		}
	}

	if len(s.Assertions) == 0 {
		return errors.New("assertions list is required and must be non-empty")
	}
	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateBoard(b *BoardSpec) error {
	if b.StartingTeam == "" {
		return fmt.Errorf("starting_team is required")
	}
	if _, err := game.ParseTeam(b.StartingTeam); err != nil {
		return err
	}

	switch {
	case len(b.Cells) > 0 && len(b.Names) > 0:
		return fmt.Errorf("use either cells or names, not both")
	case len(b.Cells) > 0:
		if _, err := b.layout(); err != nil {
			return err
		}
	case len(b.Names) > 0:
		if len(b.Revealed) > 0 {
			return fmt.Errorf("revealed needs an explicit cells layout")
		}
	default:
		return fmt.Errorf("cells or names is required")
	}
	return nil
}

// layout parses Cells and applies Revealed.
func (b *BoardSpec) layout() ([]game.Cell, error) {
	cells := make([]game.Cell, len(b.Cells))
	index := make(map[string]int, len(b.Cells))
	for i, line := range b.Cells {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("cells[%d]: want \"NAME identity\", got %q", i, line)
		}
		id, err := game.ParseIdentity(fields[1])
		if err != nil {
			return nil, fmt.Errorf("cells[%d]: %w", i, err)
		}
		cells[i] = game.Cell{Name: fields[0], Identity: id}
		index[fields[0]] = i
	}
	for _, name := range b.Revealed {
		i, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("revealed: %q is not on the board", name)
		}
		cells[i].Revealed = true
	}
	return cells, nil
}

func validateTurn(index int, t *TurnStep) error {
	if t.Team != "" {
		if _, err := game.ParseTeam(t.Team); err != nil {
			return fmt.Errorf("turns[%d]: %w", index, err)
		}
	}
	if t.Clue == "" {
		return fmt.Errorf("turns[%d]: clue is required", index)
	}
	if _, err := game.ParseClueNumber(t.Number); err != nil {
		return fmt.Errorf("turns[%d]: %w", index, err)
	}
	if t.Verdict != "" {
		if _, err := player.ParseVerdict(t.Verdict); err != nil {
			return fmt.Errorf("turns[%d]: %w", index, err)
		}
	}

	for i, a := range t.Actions {
		switch {
		case a.Guess == "" && !a.Stop:
			return fmt.Errorf("turns[%d].actions[%d]: guess or stop is required", index, i)
		case a.Guess != "" && a.Stop:
			return fmt.Errorf("turns[%d].actions[%d]: guess and stop are exclusive", index, i)
		case a.Stop && a.Outcome != "":
			return fmt.Errorf("turns[%d].actions[%d]: outcome needs a guess", index, i)
		case a.Outcome != "" && a.Error != "":
			return fmt.Errorf("turns[%d].actions[%d]: outcome and error are exclusive", index, i)
		}
		if strings.HasPrefix(a.Guess, "@") {
			if _, ok := symbolicTargets[a.Guess]; !ok {
				return fmt.Errorf("turns[%d].actions[%d]: unknown target %q", index, i, a.Guess)
			}
		}
	}
	return nil
}

func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertOutcome, AssertPhase:
		if a.Value == "" {
			return fmt.Errorf("assertions[%d]: value is required for %s", index, a.Type)
		}
	case AssertCurrentTeam:
		if _, err := game.ParseTeam(a.Value); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
	case AssertRemaining, AssertUnsatisfied:
		if _, err := game.ParseTeam(a.Team); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: non-negative count is required for %s", index, a.Type)
		}
	case AssertEndReasons, AssertPenaltyTargets:
		// An empty list is a valid expectation.
	case AssertRevealed, AssertHidden:
		if len(a.Values) == 0 {
			return fmt.Errorf("assertions[%d]: values list is required for %s", index, a.Type)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
