package parser

import "strings"

var teamAbbreviations = map[string]string{
	"Arizona Cardinals":     "ARI",
	"Atlanta Falcons":       "ATL",
	"Baltimore Ravens":      "BAL",
	"Buffalo Bills":         "BUF",
	"Carolina Panthers":     "CAR",
	"Chicago Bears":         "CHI",
	"Cincinnati Bengals":    "CIN",
	"Cleveland Browns":      "CLE",
	"Dallas Cowboys":        "DAL",
	"Denver Broncos":        "DEN",
	"Detroit Lions":         "DET",
	"Green Bay Packers":     "GB",
	"Houston Texans":        "HOU",
	"Indianapolis Colts":    "IND",
	"Jacksonville Jaguars":  "JAX",
	"Kansas City Chiefs":    "KC",
	"Las Vegas Raiders":     "LV",
	"Los Angeles Chargers":  "LAC",
	"Los Angeles Rams":      "LA",
	"Miami Dolphins":        "MIA",
	"Minnesota Vikings":     "MIN",
	"New England Patriots":  "NE",
	"New Orleans Saints":    "NO",
	"New York Giants":       "NYG",
	"New York Jets":         "NYJ",
	"Philadelphia Eagles":   "PHI",
	"Pittsburgh Steelers":   "PIT",
	"San Francisco 49ers":   "SF",
	"Seattle Seahawks":      "SEA",
	"Tampa Bay Buccaneers":  "TB",
	"Tennessee Titans":      "TEN",
	"Washington Commanders": "WAS",
}

// abbreviationAliases maps alternate codes seen in rosters and gamebooks to the canonical one
var abbreviationAliases = map[string]string{
	"LAR": "LA",
	"JAC": "JAX",
	"WSH": "WAS",
	"OAK": "LV",
	"SD":  "LAC",
	"STL": "LA",
}

// TeamAbbreviation converts a full team name, or any known abbreviation, to the roster code.
// It returns "" for unknown teams.
func TeamAbbreviation(team string) string {
	team = strings.TrimSpace(team)
	if abbr, ok := teamAbbreviations[team]; ok {
		return abbr
	}
	for name, abbr := range teamAbbreviations {
		if strings.EqualFold(name, team) {
			return abbr
		}
	}
	return NormalizeAbbreviation(team)
}

// NormalizeAbbreviation upper-cases a team code and folds historical aliases.
// It returns "" when the code is not a current team.
func NormalizeAbbreviation(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if alias, ok := abbreviationAliases[code]; ok {
		return alias
	}
	for _, abbr := range teamAbbreviations {
		if abbr == code {
			return code
		}
	}
	return ""
}

// IsTeamName reports whether name is a full NFL team name
func IsTeamName(name string) bool {
	_, ok := teamAbbreviations[strings.TrimSpace(name)]
	return ok
}
