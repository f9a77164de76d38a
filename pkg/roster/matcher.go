package roster

import (
	"strings"

	"github.com/myusername/nfl-gamebook-scraper/pkg/models"
	"github.com/myusername/nfl-gamebook-scraper/pkg/parser"
)

// positionFamilies groups positions that gamebooks and rosters label differently
var positionFamilies = map[string]string{
	"T": "OL", "OT": "OL", "LT": "OL", "RT": "OL",
	"G": "OL", "OG": "OL", "LG": "OL", "RG": "OL",
	"C": "OL", "OL": "OL",
	"DE": "DL", "DT": "DL", "NT": "DL", "DL": "DL",
	"LB": "LB", "ILB": "LB", "OLB": "LB", "MLB": "LB",
	"CB": "DB", "S": "DB", "FS": "DB", "SS": "DB", "SAF": "DB", "DB": "DB",
	"RB": "RB", "HB": "RB",
	"K": "K", "PK": "K",
}

// nameSuffixes are dropped before the surname of a gamebook name is taken
var nameSuffixes = []string{" jr.", " jr", " sr.", " sr", " ii", " iii", " iv", " v"}

// Matcher resolves gamebook players to roster GSIS ids
type Matcher struct {
	index *Index
}

// NewMatcher creates a matcher over ix
func NewMatcher(ix *Index) *Matcher {
	return &Matcher{index: ix}
}

// Resolve returns the GSIS id for a player and the strategy that found it.
// Strategies are tried in priority order and the first hit wins:
// short name, alternate names, space-insensitive names, then surname; each first restricted
// to the player's position and then for any position. team may be a full name or a code.
func (m *Matcher) Resolve(name, team, position string) (string, models.Strategy) {
	abbr := parser.TeamAbbreviation(team)
	key := normalizeName(name)
	if abbr == "" || key == "" {
		return "", models.StrategyNone
	}

	short := m.index.short.lookup(abbr, key)
	if e, ok := withPosition(short, position); ok {
		return e.GSISID, models.StrategyShortName
	}
	if len(short) > 0 {
		return short[0].GSISID, models.StrategyShortNameAnyPosition
	}

	alt := m.index.alt.lookup(abbr, key)
	if e, ok := withPosition(alt, position); ok {
		return e.GSISID, models.StrategyAltName
	}
	if len(alt) > 0 {
		return alt[0].GSISID, models.StrategyAltNameAnyPosition
	}

	compact := strings.ReplaceAll(key, " ", "")
	spaced := m.scan(abbr, func(k string) bool {
		return strings.ReplaceAll(k, " ", "") == compact
	})
	if e, ok := withPosition(spaced, position); ok {
		return e.GSISID, models.StrategyCompact
	}
	if len(spaced) > 0 {
		return spaced[0].GSISID, models.StrategyCompactAnyPosition
	}

	if surname := surnameOf(name); surname != "" {
		bySurname := m.scan(abbr, func(k string) bool {
			return endsWithWord(k, surname)
		})
		if e, ok := withPosition(bySurname, position); ok {
			return e.GSISID, models.StrategySurname
		}
		if len(bySurname) > 0 {
			return bySurname[0].GSISID, models.StrategySurname
		}
	}

	return "", models.StrategyNone
}

// scan collects matching short-name buckets, then matching alternate-name buckets
func (m *Matcher) scan(team string, match func(string) bool) []models.RosterEntry {
	out := m.index.short.scan(team, match)
	return append(out, m.index.alt.scan(team, match)...)
}

// ResolveAll attaches GSIS ids to players and summarises the outcome.
// The input slice is not modified.
func (m *Matcher) ResolveAll(players []models.PlayerRecord) ([]models.PlayerRecord, models.Summary) {
	summary := models.Summary{
		Total:      len(players),
		ByStrategy: make(map[models.Strategy]int),
		ByTeam:     make(map[string]int),
		ByStatus:   make(map[models.Status]int),
	}

	resolved := make([]models.PlayerRecord, len(players))
	for i, p := range players {
		p.GSISID, p.Strategy = m.Resolve(p.Name, p.Team, p.Position)
		resolved[i] = p

		summary.ByTeam[p.Team]++
		summary.ByStatus[p.Status]++
		if p.GSISID == "" {
			summary.Unmatched = append(summary.Unmatched, p)
			log.Debugf("No roster match for %s", p.Label())
			continue
		}
		summary.Matched++
		summary.ByStrategy[p.Strategy]++
		if models.ClassifyID(p.GSISID) != models.IDStandard {
			summary.NonStandard = append(summary.NonStandard, p)
		}
	}

	return resolved, summary
}

func withPosition(entries []models.RosterEntry, position string) (models.RosterEntry, bool) {
	for _, e := range entries {
		if PositionMatches(position, e.Position) {
			return e, true
		}
	}
	return models.RosterEntry{}, false
}

// PositionMatches reports whether a gamebook position label fits a roster position.
// Depth prefixes such as the 3 in "3QB" are ignored, slash labels such as "C/G" match
// either side, and positions of the same family match each other.
func PositionMatches(gamebook, roster string) bool {
	roster = strings.ToUpper(strings.TrimSpace(roster))
	if roster == "" {
		return false
	}
	for _, part := range strings.Split(strings.ToUpper(gamebook), "/") {
		part = strings.TrimLeft(strings.TrimSpace(part), "0123456789")
		if part == "" {
			continue
		}
		if part == roster {
			return true
		}
		family, ok := positionFamilies[part]
		if ok && family == positionFamilies[roster] {
			return true
		}
	}
	return false
}

// surnameOf returns the lower-cased text after the last period of a name such as "D.Watson",
// ignoring generational suffixes. It returns "" for names without a period.
func surnameOf(name string) string {
	n := normalizeName(name)
	for _, suffix := range nameSuffixes {
		if strings.HasSuffix(n, suffix) {
			n = strings.TrimSpace(strings.TrimSuffix(n, suffix))
			break
		}
	}
	i := strings.LastIndex(n, ".")
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(n[i+1:])
}

// endsWithWord reports whether key ends with word on a name boundary
func endsWithWord(key, word string) bool {
	if !strings.HasSuffix(key, word) {
		return false
	}
	if len(key) == len(word) {
		return true
	}
	prev := key[len(key)-len(word)-1]
	return prev == '.' || prev == ' ' || prev == '-'
}
