// Package roster loads the nflverse players database and resolves gamebook names to GSIS ids
package roster

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/myusername/nfl-gamebook-scraper/pkg/models"
	"github.com/myusername/nfl-gamebook-scraper/pkg/parser"
)

var log = logrus.WithField("pkg", "roster")

// nameTable is a two-level lookup: team code, then lower-cased name, to the roster entries
// filed under that name in insertion order. Per-team key order is kept so scans are deterministic.
type nameTable struct {
	buckets map[string]map[string][]models.RosterEntry
	order   map[string][]string
}

func newNameTable() nameTable {
	return nameTable{
		buckets: make(map[string]map[string][]models.RosterEntry),
		order:   make(map[string][]string),
	}
}

func (t nameTable) add(team, name string, e models.RosterEntry) {
	names, ok := t.buckets[team]
	if !ok {
		names = make(map[string][]models.RosterEntry)
		t.buckets[team] = names
	}
	if _, seen := names[name]; !seen {
		t.order[team] = append(t.order[team], name)
	}
	names[name] = append(names[name], e)
}

func (t nameTable) lookup(team, name string) []models.RosterEntry {
	return t.buckets[team][name]
}

// scan returns the entries of every bucket of team whose name satisfies match,
// in key insertion order
func (t nameTable) scan(team string, match func(name string) bool) []models.RosterEntry {
	var out []models.RosterEntry
	for _, name := range t.order[team] {
		if match(name) {
			out = append(out, t.buckets[team][name]...)
		}
	}
	return out
}

// Index files every roster entry under its short name and under its alternate names
type Index struct {
	short   nameTable
	alt     nameTable
	entries int
}

// NewIndex returns an empty index
func NewIndex() *Index {
	return &Index{short: newNameTable(), alt: newNameTable()}
}

// Add files e under its short name and every distinct alternate name
func (ix *Index) Add(e models.RosterEntry) {
	team := rosterTeam(e.Team)
	ix.entries++

	if key := normalizeName(e.ShortName); key != "" {
		ix.short.add(team, key, e)
	}
	for _, key := range alternateNames(e) {
		ix.alt.add(team, key, e)
	}
}

// Len returns the number of entries added
func (ix *Index) Len() int {
	return ix.entries
}

// Teams returns the number of teams with at least one short-name entry
func (ix *Index) Teams() int {
	return len(ix.short.order)
}

// alternateNames lists the lower-cased display name, football name, first-initial+surname and
// football-initial+surname of e, without duplicates and without the short name
func alternateNames(e models.RosterEntry) []string {
	candidates := []string{e.DisplayName, e.FootballName}
	if e.LastName != "" {
		if e.FirstName != "" {
			candidates = append(candidates, initial(e.FirstName)+"."+e.LastName)
		}
		if e.FootballName != "" {
			candidates = append(candidates, initial(e.FootballName)+"."+e.LastName)
		}
	}

	short := normalizeName(e.ShortName)
	seen := make(map[string]bool, len(candidates))
	var keys []string
	for _, c := range candidates {
		key := normalizeName(c)
		if key == "" || key == short || seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	return keys
}

func rosterTeam(team string) string {
	if abbr := parser.NormalizeAbbreviation(team); abbr != "" {
		return abbr
	}
	return strings.ToUpper(strings.TrimSpace(team))
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func initial(name string) string {
	for _, r := range strings.TrimSpace(name) {
		return string(r)
	}
	return ""
}
