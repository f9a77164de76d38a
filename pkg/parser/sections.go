package parser

import (
	"strings"

	"github.com/myusername/nfl-gamebook-scraper/pkg/models"
)

// Section markers as they appear on the first page of a gamebook
const (
	markerLineups       = "Lineups"
	markerSubstitutions = "Substitutions"
	markerDidNotPlay    = "Did Not Play"
	markerNotActive     = "Not Active"
	markerFieldGoals    = "Field Goals"
)

// LocateSections returns the first line index of every section marker, -1 when absent.
// Lineups must be the whole (trimmed) line; the other markers may appear anywhere in a line.
func LocateSections(lines []string) models.SectionIndex {
	idx := models.SectionIndex{Lineups: -1, Substitutions: -1, DidNotPlay: -1, NotActive: -1}

	for i, line := range lines {
		if idx.Lineups < 0 && strings.TrimSpace(line) == markerLineups {
			idx.Lineups = i
		}
		if idx.Substitutions < 0 && strings.Contains(line, markerSubstitutions) {
			idx.Substitutions = i
		}
		if idx.DidNotPlay < 0 && strings.Contains(line, markerDidNotPlay) {
			idx.DidNotPlay = i
		}
		if idx.NotActive < 0 && strings.Contains(line, markerNotActive) {
			idx.NotActive = i
		}
	}

	return idx
}
