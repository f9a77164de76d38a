package parser

import (
	"strings"

	"github.com/myusername/nfl-gamebook-scraper/pkg/models"
)

// DefaultMinGap is the smallest run of spaces treated as a column boundary
const DefaultMinGap = 3

// Options controls how two-team lines are divided between visitor and home
type Options struct {
	// Splitter finds the home column from evidence in the line itself.
	// Nil means DefaultSplitter(nil, MinGap).
	Splitter Splitter
	// Fallback guesses a split for lines that carry no column evidence.
	// Nil means a MidpointSplitter.
	Fallback Splitter
	// MinGap is the indentation, in spaces, that marks a line as home-team only
	MinGap int
}

func (o Options) withDefaults() Options {
	if o.MinGap <= 0 {
		o.MinGap = DefaultMinGap
	}
	if o.Splitter == nil {
		o.Splitter = DefaultSplitter(nil, o.MinGap)
	}
	if o.Fallback == nil {
		o.Fallback = MidpointSplitter{Window: 10}
	}
	return o
}

// ExtractGamebook locates the lineup sections of a gamebook page and extracts every player.
// Sections whose markers are missing are skipped.
func ExtractGamebook(lines []string, opts Options) models.Gamebook {
	opts = opts.withDefaults()

	book := models.Gamebook{
		Game:     ExtractGameContext(lines),
		Sections: LocateSections(lines),
	}
	visitor, home := book.Game.VisitorTeam, book.Game.HomeTeam
	if visitor == "" || home == "" {
		log.Warn("Could not determine visitor and home teams; players will have no team")
	}
	sec := book.Sections

	// Starters: between Lineups and Substitutions
	if sec.Lineups >= 0 && sec.Substitutions > sec.Lineups {
		var starters []models.PlayerRecord
		for _, line := range lines[sec.Lineups+1 : sec.Substitutions] {
			starters = append(starters, parseLineupLine(line, visitor, home, opts)...)
		}
		log.Debugf("Found %d starters", len(starters))
		book.Players = append(book.Players, starters...)
	} else {
		log.Warn("Lineups section not found, skipping starters")
	}

	// Substitutions: up to Did Not Play, or Not Active when there is no Did Not Play list
	if sec.Substitutions >= 0 && sec.NotActive > sec.Substitutions {
		end := sec.NotActive
		if sec.DidNotPlay > sec.Substitutions && sec.DidNotPlay < end {
			end = sec.DidNotPlay
		}
		var body []string
		for _, line := range lines[sec.Substitutions+1 : end] {
			if !strings.Contains(line, markerDidNotPlay) {
				body = append(body, line)
			}
		}
		s := newTwoTeamSection(lines[sec.Substitutions], markerSubstitutions, body, visitor, home, models.StatusBackup, opts)
		backups := s.parse()
		log.Debugf("Found %d substitutes", len(backups))
		book.Players = append(book.Players, backups...)
	} else {
		log.Warn("Substitutions section not found, skipping backups")
	}

	// Did Not Play: between Did Not Play and Not Active
	if sec.DidNotPlay >= 0 && sec.NotActive > sec.DidNotPlay {
		s := newTwoTeamSection(lines[sec.DidNotPlay], markerDidNotPlay, lines[sec.DidNotPlay+1:sec.NotActive],
			visitor, home, models.StatusDidNotPlay, opts)
		dnp := s.parse()
		log.Debugf("Found %d players who did not play", len(dnp))
		book.Players = append(book.Players, dnp...)
	}

	// Not Active: every line after the marker until the lists stop
	if sec.NotActive >= 0 {
		end := sec.NotActive + 1
		for end < len(lines) {
			line := lines[end]
			if strings.TrimSpace(line) == "" || strings.Contains(line, markerFieldGoals) || len(ParseColumns(line)) == 0 {
				break
			}
			end++
		}
		s := newTwoTeamSection(lines[sec.NotActive], markerNotActive, lines[sec.NotActive+1:end],
			visitor, home, models.StatusInactive, opts)
		s.homeContinues = true
		inactive := s.parse()
		log.Debugf("Found %d inactive players", len(inactive))
		book.Players = append(book.Players, inactive...)
	} else {
		log.Warn("Not Active section not found, skipping inactives")
	}

	return book
}

// parseLineupLine reads one starters row. Each row holds the visitor's offense and defense
// columns followed by the home team's, so with an even number of players the first half is
// the visitor's. Otherwise players are placed by which side of the column boundary they start.
func parseLineupLine(line, visitor, home string, opts Options) []models.PlayerRecord {
	triples := ParseColumns(line)
	if len(triples) == 0 {
		return nil
	}

	boundary := -1
	if len(triples)%2 != 0 {
		at, ok := opts.Splitter.Split(line)
		if !ok {
			at, ok = opts.Fallback.Split(line)
		}
		if !ok {
			at = len(line) / 2
		}
		boundary = snapBoundary(triples, at)
	}

	players := make([]models.PlayerRecord, 0, len(triples))
	for i, t := range triples {
		team := home
		if (boundary < 0 && i < len(triples)/2) || (boundary >= 0 && t.Offset < boundary) {
			team = visitor
		}
		players = append(players, newRecord(t, team, models.StatusStarter))
	}
	return players
}

// twoTeamSection is a list section where every line holds the visitor's column, the home
// team's column, or both
type twoTeamSection struct {
	lines         []string
	visitor, home string
	status        models.Status
	opts          Options

	// column is where the home team's column starts in this section, when known
	column    int
	hasColumn bool
	// homeContinues gives unsplittable lines after the first to the home team
	homeContinues bool
}

func newTwoTeamSection(header, marker string, lines []string, visitor, home string, status models.Status, opts Options) *twoTeamSection {
	s := &twoTeamSection{lines: lines, visitor: visitor, home: home, status: status, opts: opts}
	s.column, s.hasColumn = detectHomeColumn(header, marker, lines, opts)
	if s.hasColumn {
		log.Debugf("%s: home column at %d", marker, s.column)
	}
	return s
}

// detectHomeColumn finds the offset of the home team's column across a whole section.
// Every line the splitter can divide votes for the triple start after its split, and the most
// common vote wins. Without votes, a header that repeats the marker after a wide gap puts the
// column at the second marker.
func detectHomeColumn(header, marker string, lines []string, opts Options) (int, bool) {
	votes := make(map[int]int)
	for _, line := range lines {
		if leadingSpaces(line) >= opts.MinGap {
			continue
		}
		triples := ParseColumns(line)
		at, ok := opts.Splitter.Split(line)
		if !ok || len(triples) == 0 {
			continue
		}
		at = snapBoundary(triples, at)
		if triples[0].Offset >= at {
			continue
		}
		for _, t := range triples {
			if t.Offset >= at {
				votes[t.Offset]++
				break
			}
		}
	}

	best, bestVotes := 0, 0
	for at, n := range votes {
		if n > bestVotes || (n == bestVotes && at < best) {
			best, bestVotes = at, n
		}
	}
	if bestVotes > 0 {
		return best, true
	}

	first := strings.Index(header, marker)
	if first < 0 {
		return 0, false
	}
	after := first + len(marker)
	second := strings.Index(header[after:], marker)
	if second < 0 {
		return 0, false
	}
	if gap := header[after : after+second]; len(gap) >= opts.MinGap && strings.TrimSpace(gap) == "" {
		return after + second, true
	}
	return 0, false
}

func (s *twoTeamSection) parse() []models.PlayerRecord {
	var players []models.PlayerRecord
	first := true
	for _, line := range s.lines {
		triples := ParseColumns(line)
		if len(triples) == 0 {
			continue
		}
		boundary := s.boundary(line, triples, first)
		first = false
		for _, t := range triples {
			team := s.home
			if t.Offset < boundary {
				team = s.visitor
			}
			players = append(players, newRecord(t, team, s.status))
		}
	}
	return players
}

// boundary returns the offset from which the triples of line belong to the home team.
// Evidence is taken in order: indentation, the line's own split, the section's home column,
// a break between comma lists, and only then a guess.
func (s *twoTeamSection) boundary(line string, triples []Triple, first bool) int {
	if leadingSpaces(line) >= s.opts.MinGap {
		return 0
	}
	if at, ok := s.opts.Splitter.Split(line); ok {
		return snapBoundary(triples, at)
	}
	if s.hasColumn {
		// Rendering can shift a column by one character between rows
		return s.column - 1
	}
	if breaks := listBreaks(line, triples); len(breaks) > 0 {
		mid := len(line) / 2
		best := breaks[0]
		for _, b := range breaks[1:] {
			if abs(b-mid) < abs(best-mid) {
				best = b
			}
		}
		return best
	}
	if !first && s.homeContinues {
		return 0
	}
	if at, ok := s.opts.Fallback.Split(line); ok {
		return snapBoundary(triples, at)
	}
	return len(line)
}

func newRecord(t Triple, team string, status models.Status) models.PlayerRecord {
	return models.PlayerRecord{
		Name:     t.Name,
		Team:     team,
		Position: t.Position,
		Number:   t.Number,
		Status:   status,
	}
}
