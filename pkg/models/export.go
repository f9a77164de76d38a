package models

import "time"

// ExportRecord describes one finished gamebook export
type ExportRecord struct {
	RunID        string    `json:"run_id"`
	Input        string    `json:"input"`
	Output       string    `json:"output"`
	Format       string    `json:"format"`
	Season       int       `json:"season"`
	Week         int       `json:"week"`
	VisitorTeam  string    `json:"visitor_team"`
	HomeTeam     string    `json:"home_team"`
	VisitorScore *int      `json:"visitor_score,omitempty"`
	HomeScore    *int      `json:"home_score,omitempty"`
	Players      int       `json:"players"`
	Matched      int       `json:"matched"`
	Unmatched    int       `json:"unmatched"`
	Checksum     string    `json:"checksum"`
	CreatedAt    time.Time `json:"created_at"`
}
