package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/myusername/nfl-gamebook-scraper/pkg/models"
)

// LoadStats counts what happened to the rows of a roster file
type LoadStats struct {
	Rows    int
	Loaded  int
	Skipped int
	Active  int // loaded players with status ACT
}

// LoadFile loads the roster CSV at path
func LoadFile(path string) (*Index, LoadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("open roster: %w", err)
	}
	defer f.Close()

	ix, stats, err := Load(f)
	if err != nil {
		return nil, stats, fmt.Errorf("load roster %s: %w", path, err)
	}
	log.Infof("Loaded %d players (%d active) across %d teams from %s (%d rows skipped)",
		stats.Loaded, stats.Active, ix.Teams(), path, stats.Skipped)
	return ix, stats, nil
}

// Load reads an nflverse players CSV. Columns are located by header name; only gsis_id is
// required. Rows without an id, or that fail to parse, are skipped.
func Load(r io.Reader) (*Index, LoadStats, error) {
	var stats LoadStats

	reader := csv.NewReader(r)
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, stats, fmt.Errorf("read header: %w", err)
	}
	idx := func(name string) int {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")), name) {
				return i
			}
		}
		return -1
	}

	iID := idx("gsis_id")
	if iID < 0 {
		return nil, stats, errors.New("required column gsis_id missing")
	}
	iDisplay := idx("display_name")
	iShort := idx("short_name")
	iFootball := idx("football_name")
	iFirst := idx("first_name")
	iLast := idx("last_name")
	iTeam := idx("latest_team")
	iPos := idx("position")
	iStatus := idx("status")

	field := func(rec []string, i int) string {
		if i < 0 || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	ix := NewIndex()
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				stats.Rows++
				stats.Skipped++
				log.Debugf("Skipping malformed roster row: %v", err)
				continue
			}
			return nil, stats, fmt.Errorf("read row: %w", err)
		}
		stats.Rows++

		id := field(rec, iID)
		if id == "" {
			stats.Skipped++
			continue
		}

		entry := models.RosterEntry{
			GSISID:       id,
			DisplayName:  field(rec, iDisplay),
			ShortName:    field(rec, iShort),
			FootballName: field(rec, iFootball),
			FirstName:    field(rec, iFirst),
			LastName:     field(rec, iLast),
			Team:         field(rec, iTeam),
			Position:     strings.ToUpper(field(rec, iPos)),
			Active:       strings.EqualFold(field(rec, iStatus), "ACT"),
		}
		ix.Add(entry)
		stats.Loaded++
		if entry.Active {
			stats.Active++
		}
	}

	return ix, stats, nil
}
