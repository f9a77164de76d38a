// Package parser provides functionality to turn NFL gamebooks into player participation records
package parser

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("pkg", "parser")

const (
	// fallbackFontSize is used when the PDF does not report a size for a glyph run
	fallbackFontSize = 8.0
	// wordGapRatio is the horizontal gap, in ems, that separates two words
	wordGapRatio = 0.15
	// charWidthRatio approximates one monospace column, in ems
	charWidthRatio = 0.5
)

// ReadLines returns the text lines of a gamebook.
// PDFs contribute their first page only; HTML pages are reduced to table rows;
// anything else is read as pre-extracted text.
func ReadLines(path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return ReadPDFLines(path)
	case ".html", ".htm":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("error opening HTML: %w", err)
		}
		defer f.Close()
		return ReadHTMLLines(f)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("error opening text file: %w", err)
		}
		defer f.Close()
		return ReadTextLines(f)
	}
}

// ReadPDFLines reads the first page of a PDF file and renders each text row as one line.
// Horizontal gaps are kept as runs of spaces so that column boundaries survive extraction.
func ReadPDFLines(pdfPath string) ([]string, error) {
	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("error opening PDF: %w", err)
	}
	defer f.Close()

	if r.NumPage() < 1 {
		return nil, fmt.Errorf("PDF %s has no pages", pdfPath)
	}
	page := r.Page(1)
	if page.V.IsNull() {
		return nil, fmt.Errorf("PDF %s: first page is empty", pdfPath)
	}

	rows, err := page.GetTextByRow()
	if err != nil {
		return nil, fmt.Errorf("error extracting text rows from PDF: %w", err)
	}

	// PDF y coordinates grow upwards
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Position > rows[j].Position
	})

	origin := math.MaxFloat64
	for _, row := range rows {
		for _, t := range row.Content {
			if t.S != "" && t.X < origin {
				origin = t.X
			}
		}
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, renderRow(row.Content, origin))
	}
	log.Debugf("Extracted %d lines from %s", len(lines), pdfPath)
	return lines, nil
}

// renderRow lays out the glyph runs of one row left to right.
// Gaps wider than a word space become one or more spaces, proportional to their width;
// text starting right of origin is indented the same way.
func renderRow(texts []pdf.Text, origin float64) string {
	sorted := make([]pdf.Text, 0, len(texts))
	for _, t := range texts {
		if t.S != "" {
			sorted = append(sorted, t)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].X < sorted[j].X
	})

	var b strings.Builder
	end := origin
	for _, t := range sorted {
		em := t.FontSize
		if em <= 0 {
			em = fallbackFontSize
		}
		if gap := t.X - end; gap > em*wordGapRatio {
			n := int(math.Round(gap / (em * charWidthRatio)))
			if n < 1 {
				n = 1
			}
			b.WriteString(strings.Repeat(" ", n))
		}
		b.WriteString(t.S)
		end = t.X + t.W
	}
	return strings.TrimRight(b.String(), " ")
}

// ReadTextLines reads newline separated text, dropping carriage returns
func ReadTextLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading text lines: %w", err)
	}
	return lines, nil
}
