package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/myusername/nfl-gamebook-scraper/pkg/models"
)

var csvHeader = []string{"gsis_id", "team", "name", "position", "status"}

// WriteCSV writes a header row and one row per player
func WriteCSV(w io.Writer, players []models.PlayerRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, p := range players {
		row := []string{p.GSISID, p.Team, p.Name, p.Position, p.Status.String()}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write player data: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
