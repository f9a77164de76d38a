// Package export writes resolved gamebook players as SQL statements or CSV
package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/myusername/nfl-gamebook-scraper/pkg/models"
)

// Stored procedures called by the generated script
const (
	RawStatProcedure = "stats.find_or_create_rawstat_gsis"
	ScoreProcedure   = "stats.record_game_score"
)

// WriteSQL writes one statement per player followed by the game score statement.
// Players whose id is not a valid GSIS id are written as comments so the script still
// accounts for every player.
func WriteSQL(w io.Writer, players []models.PlayerRecord, game models.GameContext, week int) error {
	bw := bufio.NewWriter(w)

	if score := game.ScoreLine(); score != "" {
		fmt.Fprintf(bw, "-- %s\n", score)
	}
	fmt.Fprintf(bw, "-- Week %d, Season %d\n\n", week, game.Season)

	for _, p := range players {
		stmt := RawStatStatement(p, game, week)
		if !models.ValidID(p.GSISID) {
			fmt.Fprintf(bw, "-- invalid id %s: %s -- %s\n", quote(p.GSISID), stmt, commentSafe(p.Name))
			continue
		}
		fmt.Fprintln(bw, stmt)
	}

	if stmt := ScoreStatement(game, week); stmt != "" {
		fmt.Fprintf(bw, "\n%s\n", stmt)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write SQL: %w", err)
	}
	return nil
}

// RawStatStatement renders the participation statement for one player
func RawStatStatement(p models.PlayerRecord, game models.GameContext, week int) string {
	return fmt.Sprintf("exec %s(%s, %s, %s, %d, %d, %s, %s);",
		RawStatProcedure,
		quote(p.GSISID), quote(p.Team), quote(game.Opponent(p.Team)),
		week, game.Season,
		quote(p.Position), quote(p.Status.Code()))
}

// ScoreStatement renders the score statement, or "" when the score is unknown
func ScoreStatement(game models.GameContext, week int) string {
	if !game.HasScore() || game.VisitorTeam == "" || game.HomeTeam == "" {
		return ""
	}
	return fmt.Sprintf("exec %s(%d, %d, %d, %d, %s, %s);",
		ScoreProcedure, game.Season, week, *game.VisitorScore, *game.HomeScore,
		quote(game.VisitorTeam), quote(game.HomeTeam))
}

// quote renders s as a SQL string literal
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func commentSafe(s string) string {
	return strings.NewReplacer("\n", " ", "\r", " ").Replace(s)
}
