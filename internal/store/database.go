// Package store applies exports to a statistics database and keeps a local export ledger
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/lib/pq"              // PostgreSQL driver
	"github.com/sirupsen/logrus"

	"github.com/myusername/nfl-gamebook-scraper/pkg/export"
	"github.com/myusername/nfl-gamebook-scraper/pkg/models"
)

var log = logrus.WithField("pkg", "store")

// dialect knows how one driver invokes a stored procedure
type dialect struct {
	driver string
	call   func(procedure string, args int) string
}

var (
	postgresDialect = dialect{
		driver: "postgres",
		call: func(procedure string, args int) string {
			params := make([]string, args)
			for i := range params {
				params[i] = fmt.Sprintf("$%d", i+1)
			}
			return fmt.Sprintf("SELECT %s(%s)", procedure, strings.Join(params, ", "))
		},
	}
	mysqlDialect = dialect{
		driver: "mysql",
		call: func(procedure string, args int) string {
			return fmt.Sprintf("CALL %s(%s)", procedure, strings.TrimSuffix(strings.Repeat("?, ", args), ", "))
		},
	}
)

// dialectFor picks the driver from the DSN. "mysql://" selects MySQL and is stripped, since
// the MySQL driver takes "user:pass@tcp(host:port)/db"; everything else goes to PostgreSQL.
func dialectFor(dsn string) (dialect, string) {
	if rest, ok := strings.CutPrefix(dsn, "mysql://"); ok {
		return mysqlDialect, rest
	}
	return postgresDialect, dsn
}

// Applier runs export statements directly against the statistics database
type Applier struct {
	conn    *sql.DB
	dialect dialect
}

// OpenApplier connects to the database named by dsn
func OpenApplier(ctx context.Context, dsn string) (*Applier, error) {
	d, driverDSN := dialectFor(dsn)
	db, err := sql.Open(d.driver, driverDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(2)
	db.SetConnMaxLifetime(time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Applier{conn: db, dialect: d}, nil
}

// Close closes the database connection
func (a *Applier) Close() error {
	if a.conn != nil {
		return a.conn.Close()
	}
	return nil
}

// Apply records every player with a valid id, then the game score, in one transaction.
// It returns the number of player rows applied.
func (a *Applier) Apply(ctx context.Context, players []models.PlayerRecord, game models.GameContext, week int) (int, error) {
	tx, err := a.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	rawStat := a.dialect.call(export.RawStatProcedure, 7)
	applied := 0
	for _, p := range players {
		if !models.ValidID(p.GSISID) {
			continue
		}
		_, err := tx.ExecContext(ctx, rawStat,
			p.GSISID, p.Team, game.Opponent(p.Team), week, game.Season, p.Position, p.Status.Code())
		if err != nil {
			return 0, fmt.Errorf("apply %s (%s): %w", p.Name, p.GSISID, err)
		}
		applied++
	}

	if game.HasScore() && game.VisitorTeam != "" && game.HomeTeam != "" {
		_, err := tx.ExecContext(ctx, a.dialect.call(export.ScoreProcedure, 6),
			game.Season, week, *game.VisitorScore, *game.HomeScore, game.VisitorTeam, game.HomeTeam)
		if err != nil {
			return 0, fmt.Errorf("apply game score: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	log.Infof("Applied %d player rows to %s", applied, a.dialect.driver)
	return applied, nil
}
