package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/myusername/nfl-gamebook-scraper/pkg/models"
)

// Ledger is a local SQLite record of every export written
type Ledger struct {
	conn *sql.DB
}

// OpenLedger opens (or creates) the ledger database at path
func OpenLedger(path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create ledger directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite only supports one writer
	conn.SetMaxOpenConns(1)

	l := &Ledger{conn: conn}
	if err := l.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return l, nil
}

// Close closes the ledger database
func (l *Ledger) Close() error {
	return l.conn.Close()
}

func (l *Ledger) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS exports (
			run_id TEXT PRIMARY KEY,
			input TEXT NOT NULL,
			output TEXT NOT NULL,
			format TEXT NOT NULL,
			season INTEGER NOT NULL,
			week INTEGER NOT NULL,
			visitor_team TEXT NOT NULL DEFAULT '',
			home_team TEXT NOT NULL DEFAULT '',
			visitor_score INTEGER,
			home_score INTEGER,
			players INTEGER NOT NULL DEFAULT 0,
			matched INTEGER NOT NULL DEFAULT 0,
			unmatched INTEGER NOT NULL DEFAULT 0,
			checksum TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_exports_season_week ON exports(season, week)`,
	}
	for _, m := range migrations {
		if _, err := l.conn.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// Record stores one export
func (l *Ledger) Record(ctx context.Context, rec models.ExportRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := l.conn.ExecContext(ctx, `
		INSERT INTO exports (run_id, input, output, format, season, week, visitor_team, home_team,
			visitor_score, home_score, players, matched, unmatched, checksum, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Input, rec.Output, rec.Format, rec.Season, rec.Week, rec.VisitorTeam, rec.HomeTeam,
		nullableInt(rec.VisitorScore), nullableInt(rec.HomeScore),
		rec.Players, rec.Matched, rec.Unmatched, rec.Checksum,
		rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record export %s: %w", rec.Input, err)
	}
	return nil
}

// ForWeek returns the exports recorded for a season and week, oldest first
func (l *Ledger) ForWeek(ctx context.Context, season, week int) ([]models.ExportRecord, error) {
	rows, err := l.conn.QueryContext(ctx, `
		SELECT run_id, input, output, format, season, week, visitor_team, home_team,
			visitor_score, home_score, players, matched, unmatched, checksum, created_at
		FROM exports
		WHERE season = ? AND week = ?
		ORDER BY created_at, run_id`, season, week)
	if err != nil {
		return nil, fmt.Errorf("query exports: %w", err)
	}
	defer rows.Close()

	var out []models.ExportRecord
	for rows.Next() {
		var (
			rec                     models.ExportRecord
			visitorScore, homeScore sql.NullInt64
			createdAt               string
		)
		if err := rows.Scan(&rec.RunID, &rec.Input, &rec.Output, &rec.Format, &rec.Season, &rec.Week,
			&rec.VisitorTeam, &rec.HomeTeam, &visitorScore, &homeScore,
			&rec.Players, &rec.Matched, &rec.Unmatched, &rec.Checksum, &createdAt); err != nil {
			return nil, fmt.Errorf("scan export: %w", err)
		}
		rec.VisitorScore = intPtr(visitorScore)
		rec.HomeScore = intPtr(homeScore)
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
