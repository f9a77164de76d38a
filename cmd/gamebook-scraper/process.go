package main

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/myusername/nfl-gamebook-scraper/internal/publisher"
	"github.com/myusername/nfl-gamebook-scraper/internal/store"
	"github.com/myusername/nfl-gamebook-scraper/internal/utils"
	"github.com/myusername/nfl-gamebook-scraper/pkg/export"
	"github.com/myusername/nfl-gamebook-scraper/pkg/models"
	"github.com/myusername/nfl-gamebook-scraper/pkg/parser"
	"github.com/myusername/nfl-gamebook-scraper/pkg/roster"
	"github.com/myusername/nfl-gamebook-scraper/pkg/scraper"
)

const (
	formatSQL = "sql"
	formatCSV = "csv"
)

// exporter holds everything shared by the files of one run
type exporter struct {
	opts      options
	out       io.Writer
	matcher   *roster.Matcher
	parseOpts parser.Options
	applier   *store.Applier
	ledger    *store.Ledger
	publisher *publisher.Publisher
}

// runExport processes every input file. A failing file is logged and the batch continues;
// the run exits 1 if any input was missing or failed.
func runExport(ctx context.Context, out io.Writer, args []string, opts options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log.Infof("NFL gamebook scraper %s starting", version)

	files, missing := expandInputs(args)
	for _, m := range missing {
		log.Errorf("Input not found: %s", m)
	}
	if len(files) == 0 {
		return withCode(exitFailure, ErrNoInput)
	}

	if opts.outDir != "" {
		if err := os.MkdirAll(opts.outDir, 0755); err != nil {
			return withCode(exitFailure, fmt.Errorf("failed to create output directory: %w", err))
		}
	}

	if err := scraper.EnsureRoster(ctx, opts.rosterPath, opts.rosterURL, opts.refreshRoster, opts.timeout); err != nil {
		return withCode(exitFailure, err)
	}
	index, _, err := roster.LoadFile(opts.rosterPath)
	if err != nil {
		return withCode(exitFailure, err)
	}

	e := &exporter{
		opts:    opts,
		out:     out,
		matcher: roster.NewMatcher(index),
		parseOpts: parser.Options{
			Splitter: parser.DefaultSplitter(opts.anchors, opts.minGap),
			MinGap:   opts.minGap,
		},
	}
	if err := e.openSinks(ctx); err != nil {
		e.close()
		return withCode(exitFailure, err)
	}
	defer e.close()

	failed := len(missing) > 0
	for i, path := range files {
		log.Infof("Processing file %d of %d: %s", i+1, len(files), path)
		if err := e.processFile(ctx, path); err != nil {
			log.Errorf("Error processing %s: %v", path, err)
			failed = true
			continue
		}
	}

	log.Info("Done!")
	if failed {
		return withCode(exitFailure, nil)
	}
	return nil
}

func (e *exporter) openSinks(ctx context.Context) error {
	var err error
	if e.opts.dsn != "" {
		if e.applier, err = store.OpenApplier(ctx, e.opts.dsn); err != nil {
			return err
		}
	}
	if e.opts.ledgerPath != "" {
		if e.ledger, err = store.OpenLedger(e.opts.ledgerPath); err != nil {
			return err
		}
	}
	if e.opts.redisURL != "" {
		if e.publisher, err = publisher.NewPublisher(e.opts.redisURL); err != nil {
			return err
		}
	}
	return nil
}

func (e *exporter) close() {
	if e.applier != nil {
		e.applier.Close()
	}
	if e.ledger != nil {
		e.ledger.Close()
	}
	if e.publisher != nil {
		e.publisher.Close()
	}
}

// processFile extracts, resolves and writes one gamebook
func (e *exporter) processFile(ctx context.Context, path string) error {
	outPath := outputPath(path, e.opts.outDir, e.opts.format)
	if samePath(outPath, path) {
		return fmt.Errorf("%w: %s", ErrOutputIsInput, path)
	}

	lines, err := parser.ReadLines(path)
	if err != nil {
		return err
	}

	book := parser.ExtractGamebook(lines, e.parseOpts)
	switch {
	case e.opts.season > 0:
		log.Infof("Using season from command line: %d", e.opts.season)
		book.Game.Season = e.opts.season
	case book.Game.Season > 0:
		log.Infof("Using season from gamebook: %d", book.Game.Season)
	default:
		return ErrSeasonUnknown
	}
	if score := book.Game.ScoreLine(); score != "" {
		log.Infof("Game Score: %s", score)
	}
	log.Infof("Found %d players", len(book.Players))

	players, summary := e.matcher.ResolveAll(book.Players)

	var buf bytes.Buffer
	if e.opts.format == formatCSV {
		err = export.WriteCSV(&buf, players)
	} else {
		err = export.WriteSQL(&buf, players, book.Game, e.opts.week)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(outPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	log.Infof("Saved %s", outPath)

	utils.DisplaySummary(e.out, book.Game, e.opts.week, players, summary)

	if e.applier != nil {
		if _, err := e.applier.Apply(ctx, players, book.Game, e.opts.week); err != nil {
			return err
		}
	}

	sum := sha256.Sum256(buf.Bytes())
	rec := models.ExportRecord{
		RunID:        uuid.NewString(),
		Input:        path,
		Output:       outPath,
		Format:       e.opts.format,
		Season:       book.Game.Season,
		Week:         e.opts.week,
		VisitorTeam:  book.Game.VisitorTeam,
		HomeTeam:     book.Game.HomeTeam,
		VisitorScore: book.Game.VisitorScore,
		HomeScore:    book.Game.HomeScore,
		Players:      summary.Total,
		Matched:      summary.Matched,
		Unmatched:    len(summary.Unmatched),
		Checksum:     hex.EncodeToString(sum[:]),
		CreatedAt:    time.Now(),
	}
	if e.ledger != nil {
		e.warnIfExported(ctx, rec)
		if err := e.ledger.Record(ctx, rec); err != nil {
			log.Warnf("Could not record export in ledger: %v", err)
		}
	}
	if e.publisher != nil {
		if err := e.publisher.PublishExport(ctx, rec); err != nil {
			log.Warnf("Could not publish export event: %v", err)
		}
	}
	return nil
}

// warnIfExported logs earlier ledger entries for the same game
func (e *exporter) warnIfExported(ctx context.Context, rec models.ExportRecord) {
	prior, err := e.ledger.ForWeek(ctx, rec.Season, rec.Week)
	if err != nil {
		log.Warnf("Could not read ledger: %v", err)
		return
	}
	for _, p := range prior {
		if p.VisitorTeam == rec.VisitorTeam && p.HomeTeam == rec.HomeTeam {
			log.Warnf("%s at %s was already exported for week %d, season %d on %s (%s)",
				p.VisitorTeam, p.HomeTeam, p.Week, p.Season, p.CreatedAt.Format(time.RFC3339), p.Output)
		}
	}
}

// samePath reports whether a and b name the same file
func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// outputPath swaps the input extension for the output format, in outDir when given
func outputPath(input, outDir, format string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
	if outDir == "" {
		return base
	}
	return filepath.Join(outDir, filepath.Base(base))
}
