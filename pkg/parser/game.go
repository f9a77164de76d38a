package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/myusername/nfl-gamebook-scraper/pkg/models"
)

var (
	// "Houston Texans 19, Seattle Seahawks 22"
	scoreLineRegex = regexp.MustCompile(`^\s*(.+?)\s+(\d{1,3})\s*,\s*(.+?)\s+(\d{1,3})\s*$`)
	dateRegex      = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
)

// ExtractGameContext finds the matchup, final score and season on a gamebook page.
// Teams and scores come from the "VISITOR:" and "HOME:" scoring summary lines, falling back
// to a "Team 19, Team 22" result line. Season is the year of the game date, or the year before
// for games played in January or February, and 0 when no game date is found.
func ExtractGameContext(lines []string) models.GameContext {
	var game models.GameContext

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case game.Season == 0 && strings.Contains(trimmed, "Date:"):
			game.Season = seasonFromDateLine(trimmed[strings.Index(trimmed, "Date:"):])
		case strings.HasPrefix(trimmed, "VISITOR:") && game.VisitorTeam == "":
			game.VisitorTeam, game.VisitorScore = parseScoringLine(trimmed)
		case strings.HasPrefix(trimmed, "HOME:") && game.HomeTeam == "":
			game.HomeTeam, game.HomeScore = parseScoringLine(trimmed)
		}
	}

	if game.VisitorTeam == "" || game.HomeTeam == "" {
		for _, line := range lines {
			if g, ok := ParseGameScore(line); ok {
				g.Season = game.Season
				game = g
				break
			}
		}
	}

	log.Debugf("Game context: %q at %q, season %d", game.VisitorTeam, game.HomeTeam, game.Season)
	return game
}

// ParseGameScore parses a "Visitor 19, Home 22" result line.
// Both sides must be known NFL team names.
func ParseGameScore(s string) (models.GameContext, bool) {
	m := scoreLineRegex.FindStringSubmatch(s)
	if m == nil || !IsTeamName(m[1]) || !IsTeamName(m[3]) {
		return models.GameContext{}, false
	}
	visitorScore, err := strconv.Atoi(m[2])
	if err != nil {
		return models.GameContext{}, false
	}
	homeScore, err := strconv.Atoi(m[4])
	if err != nil {
		return models.GameContext{}, false
	}
	return models.GameContext{
		VisitorTeam:  strings.TrimSpace(m[1]),
		HomeTeam:     strings.TrimSpace(m[3]),
		VisitorScore: &visitorScore,
		HomeScore:    &homeScore,
	}, true
}

// parseScoringLine reads "VISITOR: Houston Texans 0 6 6 7 0 19". The team name runs up to the
// first numeric field and the last field is the final score.
func parseScoringLine(line string) (string, *int) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return "", nil
	}
	for i := 1; i < len(fields); i++ {
		if !isDigits(fields[i]) {
			continue
		}
		if i == 1 {
			return "", nil
		}
		team := strings.Join(fields[1:i], " ")
		score, err := strconv.Atoi(fields[len(fields)-1])
		if err != nil {
			return team, nil
		}
		return team, &score
	}
	return strings.Join(fields[1:], " "), nil
}

// seasonFromDateLine reads "Date: Monday, 10/20/2025". Games played in January or February
// belong to the previous season.
func seasonFromDateLine(line string) int {
	m := dateRegex.FindStringSubmatch(line)
	if m == nil {
		return 0
	}
	month, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[3])
	if month < 1 || month > 12 {
		return 0
	}
	if time.Month(month) <= time.February {
		return year - 1
	}
	return year
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
