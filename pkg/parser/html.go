package parser

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// cellSeparator joins table cells so that the gap splitter sees a column boundary
const cellSeparator = "    "

var whitespaceRegex = regexp.MustCompile(`\s+`)

// ReadHTMLLines reduces an HTML gamebook to text lines.
// Preformatted blocks are used verbatim; otherwise every table row becomes one line.
func ReadHTMLLines(r io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("error parsing HTML content: %w", err)
	}

	var lines []string

	if pre := doc.Find("pre"); pre.Length() > 0 {
		pre.Each(func(i int, s *goquery.Selection) {
			lines = append(lines, splitLines(s.Text())...)
		})
		log.Debugf("Extracted %d lines from %d <pre> blocks", len(lines), pre.Length())
		return lines, nil
	}

	doc.Find("tr").Each(func(i int, row *goquery.Selection) {
		var cells []string
		row.ChildrenFiltered("td, th").Each(func(j int, cell *goquery.Selection) {
			text := collapseSpaces(cell.Text())
			if text != "" {
				cells = append(cells, text)
			}
		})
		if len(cells) > 0 {
			lines = append(lines, strings.Join(cells, cellSeparator))
		}
	})

	if len(lines) == 0 {
		lines = splitLines(doc.Find("body").Text())
	}

	log.Debugf("Extracted %d lines from HTML", len(lines))
	return lines, nil
}

func collapseSpaces(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r \t")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
