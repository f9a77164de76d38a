package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// playerRegex matches "POS NUM NAME" triples such as "QB 4 D.Watson", "3QB 6 J.Milroe",
// "C/G 65 J.Smith-Njigba", "WR 14 A.St. Brown" or "CB 24 D.Stingley Jr."
var playerRegex = regexp.MustCompile(
	`\b(\d?[A-Z][A-Z/]*)\s+(\d{1,2})\s+` +
		`([A-Z][A-Za-z]?\.\s?[A-Z][A-Za-z'.\-]*(?:\s(?:Jr\.?|Sr\.?|II|III|IV|V|[A-Z][a-z][A-Za-z'\-]*))?)`)

// Triple is one (position, jersey number, name) group found in a line
type Triple struct {
	Position string
	Number   int
	Name     string
	// Offset and End delimit the triple within the parsed text
	Offset int
	End    int
}

// ParseColumns extracts every player triple in text, left to right
func ParseColumns(text string) []Triple {
	var triples []Triple
	for _, m := range playerRegex.FindAllStringSubmatchIndex(text, -1) {
		number, err := strconv.Atoi(text[m[4]:m[5]])
		if err != nil {
			continue
		}
		triples = append(triples, Triple{
			Position: text[m[2]:m[3]],
			Number:   number,
			Name:     strings.TrimRight(text[m[6]:m[7]], ","),
			Offset:   m[0],
			End:      m[1],
		})
	}
	return triples
}

// Splitter finds the byte offset at which a two-team line passes from the visitor's
// column to the home team's column
type Splitter interface {
	Split(line string) (at int, ok bool)
}

// AnchorSplitter splits before the left-most configured anchor found in the line.
// Anchors are usually the first home-team entry of a section, e.g. "CB 1 D.Kendrick".
type AnchorSplitter struct {
	Anchors []string
}

func (s AnchorSplitter) Split(line string) (int, bool) {
	best := -1
	for _, anchor := range s.Anchors {
		if anchor == "" {
			continue
		}
		if i := strings.Index(line, anchor); i >= 0 && (best < 0 || i < best) {
			best = i
		}
	}
	return best, best >= 0
}

// GapSplitter splits at the run of at least MinGap spaces closest to the middle of the line.
// Leading indentation is not a candidate.
type GapSplitter struct {
	MinGap int
}

func (s GapSplitter) Split(line string) (int, bool) {
	minGap := s.MinGap
	if minGap < 2 {
		minGap = 2
	}
	line = strings.TrimRight(line, " ")
	mid := len(line) / 2

	best, bestDist, bestWidth := -1, 0, 0
	start := -1
	for i := 0; i <= len(line); i++ {
		if i < len(line) && line[i] == ' ' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start > 0 && i-start >= minGap {
			width := i - start
			dist := abs((start+i)/2 - mid)
			if best < 0 || dist < bestDist || (dist == bestDist && width > bestWidth) {
				best, bestDist, bestWidth = start, dist, width
			}
		}
		start = -1
	}
	return best, best >= 0
}

// MidpointSplitter looks within Window characters of the middle of the line for a comma,
// or for a capital letter that starts a word, and splits there. When nothing qualifies the
// line is cut at its midpoint.
type MidpointSplitter struct {
	Window int
}

func (s MidpointSplitter) Split(line string) (int, bool) {
	if line == "" {
		return 0, false
	}
	window := s.Window
	if window <= 0 {
		window = 10
	}
	mid := len(line) / 2
	for i := mid - window; i < mid+window; i++ {
		if i <= 0 || i >= len(line) {
			continue
		}
		if line[i] == ',' {
			return i, true
		}
		if line[i-1] == ' ' && line[i] >= 'A' && line[i] <= 'Z' {
			return i, true
		}
	}
	return mid, true
}

// ChainSplitter tries each splitter in order and uses the first that succeeds
type ChainSplitter []Splitter

func (c ChainSplitter) Split(line string) (int, bool) {
	for _, s := range c {
		if at, ok := s.Split(line); ok {
			return at, true
		}
	}
	return 0, false
}

// DefaultSplitter returns the anchor, gap chain. Both only answer when the line itself shows
// where the home column starts; guessing is left to Options.Fallback.
func DefaultSplitter(anchors []string, minGap int) Splitter {
	var chain ChainSplitter
	if len(anchors) > 0 {
		chain = append(chain, AnchorSplitter{Anchors: anchors})
	}
	return append(chain, GapSplitter{MinGap: minGap})
}

// snapBoundary moves a split offset out of any triple it would cut, to the start of that
// triple or of the next one, whichever is nearer
func snapBoundary(triples []Triple, at int) int {
	for i, t := range triples {
		if at <= t.Offset || at >= t.End {
			continue
		}
		next := t.End
		if i+1 < len(triples) {
			next = triples[i+1].Offset
		}
		if at-t.Offset <= next-at {
			return t.Offset
		}
		return next
	}
	return at
}

// listBreaks returns the offsets of the triples that start a new comma separated list.
// Each team's players are listed with commas, so a break marks a change of column.
func listBreaks(line string, triples []Triple) []int {
	var breaks []int
	for i := 1; i < len(triples); i++ {
		if !strings.Contains(line[triples[i-1].End:triples[i].Offset], ",") {
			breaks = append(breaks, triples[i].Offset)
		}
	}
	return breaks
}

func leadingSpaces(line string) int {
	return len(line) - len(strings.TrimLeft(line, " "))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
