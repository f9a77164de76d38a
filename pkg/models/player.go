// Package models contains data structures for NFL gamebook participation data
package models

import (
	"fmt"
	"strings"
)

// Status is the participation status of a player in a single game
type Status int

const (
	StatusStarter Status = iota
	StatusBackup
	StatusInactive
	StatusDidNotPlay
)

// String returns the long status name used in CSV output
func (s Status) String() string {
	switch s {
	case StatusStarter:
		return "starter"
	case StatusBackup:
		return "backup"
	case StatusInactive:
		return "inactive"
	case StatusDidNotPlay:
		return "did_not_play"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Code returns the single character stored by the stats database.
// Players who dressed but did not play are recorded as backups.
func (s Status) Code() string {
	switch s {
	case StatusStarter:
		return "S"
	case StatusInactive:
		return "I"
	default:
		return "B"
	}
}

// Strategy identifies which roster lookup resolved a player
type Strategy int

const (
	StrategyNone Strategy = iota
	StrategyShortName
	StrategyShortNameAnyPosition
	StrategyAltName
	StrategyAltNameAnyPosition
	StrategyCompact
	StrategyCompactAnyPosition
	StrategySurname
)

var strategyNames = [...]string{
	StrategyNone:                 "none",
	StrategyShortName:            "short_name",
	StrategyShortNameAnyPosition: "short_name_any_position",
	StrategyAltName:              "alt_name",
	StrategyAltNameAnyPosition:   "alt_name_any_position",
	StrategyCompact:              "compact",
	StrategyCompactAnyPosition:   "compact_any_position",
	StrategySurname:              "surname",
}

func (s Strategy) String() string {
	if s < 0 || int(s) >= len(strategyNames) {
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
	return strategyNames[s]
}

// PlayerRecord is one player extracted from a gamebook
type PlayerRecord struct {
	Name     string
	Team     string
	Position string
	Number   int
	Status   Status
	GSISID   string
	Strategy Strategy
}

// RosterEntry is one row of the nflverse players database
type RosterEntry struct {
	GSISID       string
	DisplayName  string
	ShortName    string
	FootballName string
	FirstName    string
	LastName     string
	Team         string
	Position     string
	Active       bool
}

// GameContext holds the matchup, final score and season of a gamebook
type GameContext struct {
	VisitorTeam  string
	HomeTeam     string
	VisitorScore *int
	HomeScore    *int
	Season       int
}

// Opponent returns the other side of the matchup, or "" when team played neither side
func (g GameContext) Opponent(team string) string {
	switch {
	case team == "":
		return ""
	case team == g.VisitorTeam:
		return g.HomeTeam
	case team == g.HomeTeam:
		return g.VisitorTeam
	}
	return ""
}

// HasScore reports whether both final scores are known
func (g GameContext) HasScore() bool {
	return g.VisitorScore != nil && g.HomeScore != nil
}

// ScoreLine formats the result as "Visitor 19, Home 22"
func (g GameContext) ScoreLine() string {
	if g.VisitorTeam == "" || g.HomeTeam == "" || !g.HasScore() {
		return ""
	}
	return fmt.Sprintf("%s %d, %s %d", g.VisitorTeam, *g.VisitorScore, g.HomeTeam, *g.HomeScore)
}

// SectionIndex holds the first line index of each gamebook section marker, -1 when absent
type SectionIndex struct {
	Lineups       int
	Substitutions int
	DidNotPlay    int
	NotActive     int
}

// Gamebook is everything extracted from one gamebook page
type Gamebook struct {
	Game     GameContext
	Players  []PlayerRecord
	Sections SectionIndex
}

// Summary reports the outcome of matching a gamebook against the roster
type Summary struct {
	Total       int
	Matched     int
	ByStrategy  map[Strategy]int
	ByTeam      map[string]int
	ByStatus    map[Status]int
	Unmatched   []PlayerRecord
	NonStandard []PlayerRecord
}

// MatchRate returns the matched percentage, truncated
func (s Summary) MatchRate() int {
	if s.Total == 0 {
		return 0
	}
	return s.Matched * 100 / s.Total
}

// Label renders a player as "Name (Team)" for reports
func (p PlayerRecord) Label() string {
	return strings.TrimSpace(fmt.Sprintf("%s (%s)", p.Name, p.Team))
}
