package cli

import (
	"github.com/roach88/switchboard/internal/namebank"
	"github.com/roach88/switchboard/internal/rules"
	"github.com/roach88/switchboard/internal/store"
)

// GameSources holds the flags shared by commands that set up boards.
type GameSources struct {
	NamesFile string
	RulesFile string
}

// load reads the name bank and rules, falling back to the embedded bank and
// the rules defaults when no file is given.
func (s GameSources) load() (*namebank.Bank, rules.Rules, error) {
	bank := namebank.Default()
	if s.NamesFile != "" {
		b, err := namebank.Load(s.NamesFile)
		if err != nil {
			return nil, rules.Rules{}, WrapExitError(ExitCommandError, "failed to load name bank", err)
		}
		bank = b
	}

	r := rules.Default()
	if s.RulesFile != "" {
		loaded, err := rules.Load(s.RulesFile)
		if err != nil {
			return nil, rules.Rules{}, WrapExitError(ExitCommandError, "failed to load rules", err)
		}
		r = loaded
	}
	return bank, r, nil
}

// openStore opens the archive named by --db.
func openStore(path string) (*store.Store, error) {
	if path == "" {
		return nil, NewExitError(ExitCommandError, "--db is required (env: SWITCHBOARD_DB)")
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}
