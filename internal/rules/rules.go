// Package rules loads game rules from a CUE file.
//
// The file is unified with the embedded #Rules schema, so omitted fields
// take the schema defaults and unknown fields are rejected. An empty file
// yields Default().
package rules

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/switchboard/internal/game"
)

//go:embed schema.cue
var schemaSource []byte

// Error codes.
const (
	ErrCodeRead     = "R001" // rules file unreadable
	ErrCodeSyntax   = "R002" // CUE does not compile
	ErrCodeSchema   = "R003" // value violates #Rules
	ErrCodeDecode   = "R004" // value does not decode
	ErrCodeSemantic = "R005" // decoded value is inconsistent
)

// Rules are the tunable game rules.
type Rules struct {
	Penalty       game.PenaltyMode `json:"penalty"`
	MaxRejections int              `json:"max_rejections"`
	StartingTeam  string           `json:"starting_team"`
	Checks        []string         `json:"checks"`
	NamesPerBoard int              `json:"names_per_board"`
}

// LoadError is a rules file problem with its CUE position, if known.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap marks every rules problem as a configuration error.
func (e *LoadError) Unwrap() error {
	return game.ErrConfiguration
}

// Default returns the schema defaults.
func Default() Rules {
	r, err := Parse("default.cue", nil)
	if err != nil {
		panic(fmt.Sprintf("rules: embedded schema is invalid: %v", err))
	}
	return r
}

// Load reads and validates a rules file.
func Load(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, &LoadError{Code: ErrCodeRead, Message: err.Error()}
	}
	return Parse(path, data)
}

// Parse validates rules source; filename is used in error positions.
func Parse(filename string, src []byte) (Rules, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Rules{}, cueError(ErrCodeSyntax, err)
	}

	user := ctx.CompileBytes(src, cue.Filename(filename))
	if err := user.Err(); err != nil {
		return Rules{}, cueError(ErrCodeSyntax, err)
	}

	v := schema.LookupPath(cue.ParsePath("#Rules")).Unify(user)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return Rules{}, cueError(ErrCodeSchema, err)
	}

	var r Rules
	if err := v.Decode(&r); err != nil {
		return Rules{}, cueError(ErrCodeDecode, err)
	}
	if err := r.validate(); err != nil {
		return Rules{}, err
	}
	return r, nil
}

func (r Rules) validate() error {
	seen := make(map[string]bool, len(r.Checks))
	for _, c := range r.Checks {
		if seen[c] {
			return &LoadError{Code: ErrCodeSemantic, Message: fmt.Sprintf("check %q listed twice", c)}
		}
		seen[c] = true
	}
	return nil
}

// Starting returns the configured starting team, or "" for random.
func (r Rules) Starting() game.Team {
	if r.StartingTeam == "random" {
		return ""
	}
	return game.Team(r.StartingTeam)
}

// cueError converts the first CUE error to a LoadError with its position.
func cueError(code string, err error) *LoadError {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: code, Message: err.Error()}
	}
	first := errs[0]
	le := &LoadError{Code: code, Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}
