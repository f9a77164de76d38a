package roster

import (
	"strings"
	"testing"

	"github.com/myusername/nfl-gamebook-scraper/pkg/models"
)

func newTestIndex(entries ...models.RosterEntry) *Index {
	ix := NewIndex()
	for _, e := range entries {
		ix.Add(e)
	}
	return ix
}

func TestResolveShortNameWithPositionFirst(t *testing.T) {
	ix := newTestIndex(
		models.RosterEntry{GSISID: "00-0099999", FirstName: "Dan", LastName: "Watson", Team: "HOU", Position: "QB"},
		models.RosterEntry{GSISID: "00-0033537", ShortName: "D.Watson", DisplayName: "Deshaun Watson", Team: "HOU", Position: "QB"},
	)
	id, strategy := NewMatcher(ix).Resolve("D.Watson", "Houston Texans", "QB")
	if id != "00-0033537" || strategy != models.StrategyShortName {
		t.Errorf("Resolve = %s, %s; want 00-0033537, short_name", id, strategy)
	}
}

func TestResolveStrategies(t *testing.T) {
	tests := []struct {
		name     string
		entries  []models.RosterEntry
		team     string
		player   string
		position string
		wantID   string
		want     models.Strategy
	}{
		{
			name: "short name any position beats alt name with position",
			entries: []models.RosterEntry{
				{GSISID: "00-0000001", ShortName: "D.Watson", Team: "HOU", Position: "WR"},
				{GSISID: "00-0000002", FirstName: "Dan", LastName: "Watson", Team: "HOU", Position: "QB"},
			},
			player: "D.Watson", position: "QB",
			wantID: "00-0000001", want: models.StrategyShortNameAnyPosition,
		},
		{
			name: "alt name from first initial",
			entries: []models.RosterEntry{
				{GSISID: "00-0035000", FirstName: "Nico", LastName: "Collins", Team: "HOU", Position: "WR"},
			},
			player: "N.Collins", position: "WR",
			wantID: "00-0035000", want: models.StrategyAltName,
		},
		{
			name: "alt name from football name, any position",
			entries: []models.RosterEntry{
				{GSISID: "00-0035001", FootballName: "Tank", FirstName: "Nathaniel", LastName: "Dell", Team: "HOU", Position: "WR"},
			},
			player: "T.Dell", position: "RB",
			wantID: "00-0035001", want: models.StrategyAltNameAnyPosition,
		},
		{
			name: "space-insensitive",
			entries: []models.RosterEntry{
				{GSISID: "00-0035002", ShortName: "A. St. Brown", Team: "DET", Position: "WR"},
			},
			team:   "Detroit Lions",
			player: "A.St.Brown", position: "WR",
			wantID: "00-0035002", want: models.StrategyCompact,
		},
		{
			name: "space-insensitive any position",
			entries: []models.RosterEntry{
				{GSISID: "00-0035002", ShortName: "A. St. Brown", Team: "DET", Position: "WR"},
			},
			team:   "Detroit Lions",
			player: "A.St.Brown", position: "QB",
			wantID: "00-0035002", want: models.StrategyCompactAnyPosition,
		},
		{
			name: "surname",
			entries: []models.RosterEntry{
				{GSISID: "00-0036000", ShortName: "Derek Stingley", Team: "HOU", Position: "CB"},
			},
			player: "D.Stingley Jr.", position: "CB",
			wantID: "00-0036000", want: models.StrategySurname,
		},
		{
			name: "surname requires a word boundary",
			entries: []models.RosterEntry{
				{GSISID: "00-0036001", ShortName: "J.Swatson", Team: "HOU", Position: "QB"},
			},
			player: "D.Watson", position: "QB",
			want: models.StrategyNone,
		},
		{
			name: "team scoped",
			entries: []models.RosterEntry{
				{GSISID: "00-0033537", ShortName: "D.Watson", Team: "CLE", Position: "QB"},
			},
			player: "D.Watson", position: "QB",
			want: models.StrategyNone,
		},
		{
			name: "historical team code",
			entries: []models.RosterEntry{
				{GSISID: "00-0031234", ShortName: "M.Stafford", Team: "LAR", Position: "QB"},
			},
			team:   "Los Angeles Rams",
			player: "M.Stafford", position: "QB",
			wantID: "00-0031234", want: models.StrategyShortName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			team := tt.team
			if team == "" {
				team = "Houston Texans"
			}
			id, strategy := NewMatcher(newTestIndex(tt.entries...)).Resolve(tt.player, team, tt.position)
			if id != tt.wantID || strategy != tt.want {
				t.Errorf("Resolve(%q) = %q, %s; want %q, %s", tt.player, id, strategy, tt.wantID, tt.want)
			}
		})
	}
}

func TestResolveUnknownPlayer(t *testing.T) {
	ix := newTestIndex(models.RosterEntry{GSISID: "00-0033537", ShortName: "D.Watson", Team: "HOU", Position: "QB"})
	id, strategy := NewMatcher(ix).Resolve("Z.Nobody", "Houston Texans", "WR")
	if id != "" || strategy != models.StrategyNone {
		t.Errorf("Resolve = %q, %s; want no match", id, strategy)
	}

	id, _ = NewMatcher(ix).Resolve("D.Watson", "Springfield Atoms", "QB")
	if id != "" {
		t.Errorf("unknown team resolved to %q", id)
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	ix := newTestIndex(
		models.RosterEntry{GSISID: "00-0040001", ShortName: "J.Smith", Team: "SEA", Position: "WR"},
		models.RosterEntry{GSISID: "00-0040002", ShortName: "J.Smith", Team: "SEA", Position: "WR"},
		models.RosterEntry{GSISID: "00-0040003", ShortName: "Jo Smith", Team: "SEA", Position: "TE"},
		models.RosterEntry{GSISID: "00-0040004", ShortName: "Ja Smith", Team: "SEA", Position: "TE"},
	)
	m := NewMatcher(ix)

	for i := 0; i < 50; i++ {
		if id, _ := m.Resolve("J.Smith", "Seattle Seahawks", "WR"); id != "00-0040001" {
			t.Fatalf("iteration %d: short name resolved to %s, want the first added entry", i, id)
		}
		if id, s := m.Resolve("K.Smith", "Seattle Seahawks", "TE"); id != "00-0040003" || s != models.StrategySurname {
			t.Fatalf("iteration %d: surname resolved to %s (%s), want 00-0040003", i, id, s)
		}
	}
}

func TestResolveAll(t *testing.T) {
	ix := newTestIndex(
		models.RosterEntry{GSISID: "00-0033537", ShortName: "D.Watson", Team: "HOU", Position: "QB"},
		models.RosterEntry{GSISID: "WAT123456", ShortName: "D.Hunter", Team: "HOU", Position: "DE"},
	)
	players := []models.PlayerRecord{
		{Name: "D.Watson", Team: "Houston Texans", Position: "QB", Status: models.StatusStarter},
		{Name: "D.Hunter", Team: "Houston Texans", Position: "DE", Status: models.StatusStarter},
		{Name: "Z.Nobody", Team: "Houston Texans", Position: "WR", Status: models.StatusInactive},
	}

	resolved, summary := NewMatcher(ix).ResolveAll(players)

	if players[0].GSISID != "" {
		t.Error("ResolveAll modified its input")
	}
	if resolved[0].GSISID != "00-0033537" || resolved[0].Strategy != models.StrategyShortName {
		t.Errorf("resolved[0] = %+v", resolved[0])
	}
	if summary.Total != 3 || summary.Matched != 2 || summary.MatchRate() != 66 {
		t.Errorf("summary = %+v", summary)
	}
	if len(summary.Unmatched) != 1 || summary.Unmatched[0].Name != "Z.Nobody" {
		t.Errorf("Unmatched = %+v", summary.Unmatched)
	}
	if len(summary.NonStandard) != 1 || summary.NonStandard[0].GSISID != "WAT123456" {
		t.Errorf("NonStandard = %+v", summary.NonStandard)
	}
	if summary.ByTeam["Houston Texans"] != 3 || summary.ByStatus[models.StatusStarter] != 2 {
		t.Errorf("ByTeam = %v, ByStatus = %v", summary.ByTeam, summary.ByStatus)
	}
	if summary.ByStrategy[models.StrategyShortName] != 2 {
		t.Errorf("ByStrategy = %v", summary.ByStrategy)
	}
}

func TestPositionMatches(t *testing.T) {
	tests := []struct {
		gamebook, roster string
		want             bool
	}{
		{"QB", "QB", true},
		{"3QB", "QB", true},
		{"C/G", "G", true},
		{"C/G", "T", true},
		{"OT", "T", true},
		{"OLB", "LB", true},
		{"FS", "SAF", true},
		{"WR", "QB", false},
		{"DE", "CB", false},
		{"QB", "", false},
		{"", "QB", false},
	}
	for _, tt := range tests {
		if got := PositionMatches(tt.gamebook, tt.roster); got != tt.want {
			t.Errorf("PositionMatches(%q, %q) = %v, want %v", tt.gamebook, tt.roster, got, tt.want)
		}
	}
}

func TestSurnameOf(t *testing.T) {
	tests := map[string]string{
		"D.Watson":       "watson",
		"D.Stingley Jr.": "stingley",
		"A.St. Brown":    "brown",
		"J.Smith III":    "smith",
		"Nobody":         "",
	}
	for name, want := range tests {
		if got := surnameOf(name); got != want {
			t.Errorf("surnameOf(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestAlternateNames(t *testing.T) {
	keys := alternateNames(models.RosterEntry{
		ShortName:    "T.Dell",
		DisplayName:  "Tank Dell",
		FootballName: "Tank",
		FirstName:    "Nathaniel",
		LastName:     "Dell",
	})
	got := strings.Join(keys, ",")
	if got != "tank dell,tank,n.dell" {
		t.Errorf("alternateNames = %q", got)
	}
}
