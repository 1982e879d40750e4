package game

import (
	"math/rand/v2"
	"strings"
)

// Cell is one board position. Only Revealed changes after setup.
type Cell struct {
	Name     string   `json:"name" yaml:"name"`
	Identity Identity `json:"identity" yaml:"identity"`
	Revealed bool     `json:"revealed" yaml:"revealed"`
}

// Board holds the 25 cells of one game in display order.
type Board struct {
	cells        []Cell
	index        map[string]int
	startingTeam Team
}

// SetupOptions controls board generation.
type SetupOptions struct {
	// StartingTeam overrides the random choice of the opening team.
	// Empty means choose uniformly with the seeded RNG.
	StartingTeam Team
}

// Setup assigns identities to the first BoardSize unique names.
//
// The starting team (random unless overridden) receives StartingAllies cells,
// the other team SecondAllies, then Civilians and IllegalCells; the identities
// are shuffled over the names with a PCG source seeded from seed, so the same
// names and seed always give the same board.
func Setup(names []string, seed int64, opts SetupOptions) (*Board, error) {
	unique, err := uniqueNames(names)
	if err != nil {
		return nil, err
	}

	rng := newRand(seed)

	starting := opts.StartingTeam
	switch {
	case starting == "":
		starting = Teams[rng.IntN(len(Teams))]
	case !starting.Valid():
		return nil, newError(CodeConfiguration, "invalid starting team %q", starting)
	}

	identities := make([]Identity, 0, BoardSize)
	for _, id := range []Identity{starting.Ally(), starting.Opponent().Ally(), IdentityCivilian, IdentityIllegal} {
		for n := quota(id, starting); n > 0; n-- {
			identities = append(identities, id)
		}
	}
	rng.Shuffle(len(identities), func(i, j int) {
		identities[i], identities[j] = identities[j], identities[i]
	})

	cells := make([]Cell, BoardSize)
	for i := range cells {
		cells[i] = Cell{Name: unique[i], Identity: identities[i]}
	}
	return newBoard(cells, starting), nil
}

// NewBoard builds a board from an explicit layout, e.g. a scenario file or an
// archived game. Cells may already be revealed.
func NewBoard(cells []Cell, startingTeam Team) (*Board, error) {
	if !startingTeam.Valid() {
		return nil, newError(CodeConfiguration, "invalid starting team %q", startingTeam)
	}
	if len(cells) != BoardSize {
		return nil, newError(CodeConfiguration, "board needs %d cells, got %d", BoardSize, len(cells))
	}

	seen := make(map[string]bool, len(cells))
	counts := make(map[Identity]int, 4)
	for _, c := range cells {
		if strings.TrimSpace(c.Name) == "" {
			return nil, newError(CodeConfiguration, "empty cell name")
		}
		if seen[c.Name] {
			return nil, nameError(CodeConfiguration, c.Name, "duplicate cell name")
		}
		if !c.Identity.Valid() {
			return nil, nameError(CodeConfiguration, c.Name, "invalid identity %q", c.Identity)
		}
		seen[c.Name] = true
		counts[c.Identity]++
	}

	for _, id := range []Identity{IdentityRedAlly, IdentityBlueAlly, IdentityCivilian, IdentityIllegal} {
		if want := quota(id, startingTeam); counts[id] != want {
			return nil, newError(CodeConfiguration, "board has %d %s cells, want %d", counts[id], id, want)
		}
	}

	return newBoard(append([]Cell(nil), cells...), startingTeam), nil
}

func newBoard(cells []Cell, startingTeam Team) *Board {
	index := make(map[string]int, len(cells))
	for i, c := range cells {
		index[c.Name] = i
	}
	return &Board{cells: cells, index: index, startingTeam: startingTeam}
}

func uniqueNames(names []string) ([]string, error) {
	seen := make(map[string]bool, len(names))
	unique := make([]string, 0, BoardSize)
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		unique = append(unique, n)
		if len(unique) == BoardSize {
			return unique, nil
		}
	}
	return nil, newError(CodeConfiguration, "need %d unique names, got %d", BoardSize, len(unique))
}

func newRand(seed int64) *rand.Rand {
	s := uint64(seed)
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}

// StartingTeam returns the team that opened the game (and holds 9 allies).
func (b *Board) StartingTeam() Team {
	return b.startingTeam
}

// Reveal marks the named cell revealed and returns its identity.
// On error the board is unchanged.
func (b *Board) Reveal(name string) (Identity, error) {
	i, ok := b.index[name]
	if !ok {
		return "", nameError(CodeUnknownName, name, "name is not on the board")
	}
	if b.cells[i].Revealed {
		return "", nameError(CodeAlreadyRevealed, name, "cell already revealed")
	}
	b.cells[i].Revealed = true
	return b.cells[i].Identity, nil
}

// IdentityOf returns a cell's identity regardless of reveal status.
func (b *Board) IdentityOf(name string) (Identity, bool) {
	i, ok := b.index[name]
	if !ok {
		return "", false
	}
	return b.cells[i].Identity, true
}

// IsRevealed reports whether name is on the board and revealed.
func (b *Board) IsRevealed(name string) bool {
	i, ok := b.index[name]
	return ok && b.cells[i].Revealed
}

// UnrevealedNames returns the unrevealed names in board order.
// The slice is a copy; later reveals do not change it.
func (b *Board) UnrevealedNames() []string {
	names := make([]string, 0, len(b.cells))
	for _, c := range b.cells {
		if !c.Revealed {
			names = append(names, c.Name)
		}
	}
	return names
}

// RemainingCount returns the number of unrevealed allies of team.
func (b *Board) RemainingCount(team Team) int {
	ally := team.Ally()
	n := 0
	for _, c := range b.cells {
		if c.Identity == ally && !c.Revealed {
			n++
		}
	}
	return n
}

// AlliedNames returns every allied name of team in board order, revealed or not.
func (b *Board) AlliedNames(team Team) []string {
	ally := team.Ally()
	var names []string
	for _, c := range b.cells {
		if c.Identity == ally {
			names = append(names, c.Name)
		}
	}
	return names
}

// ForceComplete reveals the first unrevealed ally of team in board order and
// returns its name. It is the invalid-clue penalty primitive: no guess is
// recorded for it. Callers pass the opponent of the offending team.
func (b *Board) ForceComplete(team Team) (string, error) {
	ally := team.Ally()
	for i := range b.cells {
		if b.cells[i].Identity == ally && !b.cells[i].Revealed {
			b.cells[i].Revealed = true
			return b.cells[i].Name, nil
		}
	}
	return "", teamError(CodeNoTargetsRemaining, team, "no unrevealed allies left")
}

// Cells returns a copy of all cells in board order.
func (b *Board) Cells() []Cell {
	return append([]Cell(nil), b.cells...)
}

// View returns a read-only view. With revealAll false, identities of
// unrevealed cells are hidden (the guesser's view); with true, everything is
// shown (the clue giver's and the referee's view).
func (b *Board) View(revealAll bool) BoardView {
	cells := b.Cells()
	if !revealAll {
		for i := range cells {
			if !cells[i].Revealed {
				cells[i].Identity = IdentityHidden
			}
		}
	}
	return BoardView{StartingTeam: b.startingTeam, Cells: cells}
}

// BoardView is a detached copy of the board for collaborators and observers.
type BoardView struct {
	StartingTeam Team   `json:"starting_team"`
	Cells        []Cell `json:"cells"`
}

// Names returns every name in board order.
func (v BoardView) Names() []string {
	names := make([]string, len(v.Cells))
	for i, c := range v.Cells {
		names[i] = c.Name
	}
	return names
}

// Unrevealed returns the unrevealed names in board order.
func (v BoardView) Unrevealed() []string {
	var names []string
	for _, c := range v.Cells {
		if !c.Revealed {
			names = append(names, c.Name)
		}
	}
	return names
}
