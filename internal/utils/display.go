// Package utils provides report rendering for the gamebook scraper
package utils

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/myusername/nfl-gamebook-scraper/pkg/models"
)

const (
	unmatchedLimit   = 10
	nonStandardLimit = 15
	previewLimit     = 10
)

// DisplaySummary prints the matching report for one gamebook
func DisplaySummary(w io.Writer, game models.GameContext, week int, players []models.PlayerRecord, summary models.Summary) {
	fmt.Fprintf(w, "\n=========== WEEK %d, SEASON %d ===========\n", week, game.Season)
	if score := game.ScoreLine(); score != "" {
		fmt.Fprintf(w, "Game Score: %s\n", score)
	}
	fmt.Fprintf(w, "Matched %d/%d players (%d%%)\n", summary.Matched, summary.Total, summary.MatchRate())

	if len(summary.ByStrategy) > 0 {
		strategies := make([]models.Strategy, 0, len(summary.ByStrategy))
		for s := range summary.ByStrategy {
			strategies = append(strategies, s)
		}
		sort.Slice(strategies, func(i, j int) bool { return strategies[i] < strategies[j] })
		fmt.Fprintln(w, "\nMatches by strategy:")
		for _, s := range strategies {
			fmt.Fprintf(w, "  %-24s %d\n", s, summary.ByStrategy[s])
		}
	}

	if n := len(summary.Unmatched); n > 0 {
		fmt.Fprintf(w, "\nUnmatched players (%d):\n", n)
		for _, p := range summary.Unmatched[:min(n, unmatchedLimit)] {
			fmt.Fprintf(w, "  - %s\n", p.Label())
		}
		if n > unmatchedLimit {
			fmt.Fprintf(w, "  ... and %d more\n", n-unmatchedLimit)
		}
	}

	if n := len(summary.NonStandard); n > 0 {
		fmt.Fprintf(w, "\n!!! WARNING: %d player(s) with non-standard GSIS ID format:\n", n)
		for _, p := range summary.NonStandard[:min(n, nonStandardLimit)] {
			fmt.Fprintf(w, "  - %-20s (%-20s) | GSIS: %-15s | %-3s %s | %s\n",
				p.Name, p.Team, p.GSISID, p.Position, p.Status, models.ClassifyID(p.GSISID))
		}
		if n > nonStandardLimit {
			fmt.Fprintf(w, "  ... and %d more\n", n-nonStandardLimit)
		}
	}

	if len(players) > 0 {
		fmt.Fprintln(w, "\nFirst few entries:")
		fmt.Fprintf(w, "  %-13s | %-20s | %-20s | %-5s | %s\n", "GSIS", "Team", "Player", "Pos", "Status")
		fmt.Fprintf(w, "  %s-+-%s-+-%s-+-%s-+-%s\n",
			strings.Repeat("-", 13), strings.Repeat("-", 20), strings.Repeat("-", 20),
			strings.Repeat("-", 5), strings.Repeat("-", 12))
		for _, p := range players[:min(len(players), previewLimit)] {
			id := p.GSISID
			if id == "" {
				id = "N/A"
			}
			fmt.Fprintf(w, "  %-13s | %-20s | %-20s | %-5s | %s\n", id, p.Team, p.Name, p.Position, p.Status)
		}
	}

	teams := make([]string, 0, len(summary.ByTeam))
	for team := range summary.ByTeam {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	fmt.Fprintln(w)
	for _, team := range teams {
		name := team
		if name == "" {
			name = "(unknown team)"
		}
		fmt.Fprintf(w, "%s: %d players\n", name, summary.ByTeam[team])
	}

	fmt.Fprintf(w, "\nStarters: %d, Backups: %d, Inactive: %d, Did Not Play: %d\n",
		summary.ByStatus[models.StatusStarter], summary.ByStatus[models.StatusBackup],
		summary.ByStatus[models.StatusInactive], summary.ByStatus[models.StatusDidNotPlay])
	fmt.Fprintln(w, strings.Repeat("=", 42))
}

// DisplayLines prints lines[from:to] with their indices, clamped to the available range.
// A negative to prints through the last line.
func DisplayLines(w io.Writer, lines []string, from, to int) {
	if from < 0 {
		from = 0
	}
	if to < 0 || to >= len(lines) {
		to = len(lines) - 1
	}
	for i := from; i <= to; i++ {
		fmt.Fprintf(w, "%3d: %s\n", i, lines[i])
	}
}

// DisplayExports prints the ledger entries of one week, oldest first
func DisplayExports(w io.Writer, season, week int, records []models.ExportRecord) {
	fmt.Fprintf(w, "Exports for week %d, season %d: %d\n", week, season, len(records))
	for _, rec := range records {
		game := models.GameContext{
			VisitorTeam: rec.VisitorTeam, HomeTeam: rec.HomeTeam,
			VisitorScore: rec.VisitorScore, HomeScore: rec.HomeScore,
		}
		matchup := game.ScoreLine()
		if matchup == "" {
			matchup = fmt.Sprintf("%s at %s", rec.VisitorTeam, rec.HomeTeam)
		}
		fmt.Fprintf(w, "  %s | %-44s | %-3s | %d/%d matched | %s\n",
			rec.CreatedAt.UTC().Format("2006-01-02 15:04"), matchup, rec.Format, rec.Matched, rec.Players, rec.Output)
	}
}
