package game

import (
	"fmt"
	"strings"
)

// Board quotas.
const (
	BoardSize      = 25
	StartingAllies = 9
	SecondAllies   = 8
	Civilians      = 7
	IllegalCells   = 1
)

// Team is one of the two competing sides.
type Team string

const (
	TeamRed  Team = "red"
	TeamBlue Team = "blue"
)

// Teams lists both teams in a fixed order.
var Teams = [2]Team{TeamRed, TeamBlue}

// Opponent returns the other team.
func (t Team) Opponent() Team {
	if t == TeamRed {
		return TeamBlue
	}
	return TeamRed
}

// Valid reports whether t is red or blue.
func (t Team) Valid() bool {
	return t == TeamRed || t == TeamBlue
}

// Ally returns the identity of this team's allied cells.
func (t Team) Ally() Identity {
	if t == TeamRed {
		return IdentityRedAlly
	}
	return IdentityBlueAlly
}

// Title returns the capitalised team name ("Red", "Blue").
func (t Team) Title() string {
	if t == "" {
		return ""
	}
	return strings.ToUpper(string(t[:1])) + string(t[1:])
}

// ParseTeam parses a case-insensitive team name.
func ParseTeam(s string) (Team, error) {
	t := Team(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("invalid team %q: must be red or blue", s)
	}
	return t, nil
}

// Identity is the hidden role of a board cell.
type Identity string

const (
	// IdentityHidden is what public views show for unrevealed cells.
	IdentityHidden   Identity = ""
	IdentityRedAlly  Identity = "red_ally"
	IdentityBlueAlly Identity = "blue_ally"
	IdentityCivilian Identity = "civilian"
	IdentityIllegal  Identity = "illegal"
)

// Team returns the team owning an allied identity.
func (i Identity) Team() (Team, bool) {
	switch i {
	case IdentityRedAlly:
		return TeamRed, true
	case IdentityBlueAlly:
		return TeamBlue, true
	}
	return "", false
}

// Valid reports whether i is one of the four assignable identities.
func (i Identity) Valid() bool {
	switch i {
	case IdentityRedAlly, IdentityBlueAlly, IdentityCivilian, IdentityIllegal:
		return true
	}
	return false
}

// ParseIdentity parses an identity name as written by String.
func ParseIdentity(s string) (Identity, error) {
	i := Identity(strings.ToLower(strings.TrimSpace(s)))
	if !i.Valid() {
		return "", fmt.Errorf("invalid identity %q", s)
	}
	return i, nil
}

func (i Identity) String() string {
	if i == IdentityHidden {
		return "hidden"
	}
	return string(i)
}

// quota returns how many cells of identity i a board must hold when
// startingTeam opens the game.
func quota(i Identity, startingTeam Team) int {
	switch i {
	case startingTeam.Ally():
		return StartingAllies
	case startingTeam.Opponent().Ally():
		return SecondAllies
	case IdentityCivilian:
		return Civilians
	case IdentityIllegal:
		return IllegalCells
	}
	return 0
}
