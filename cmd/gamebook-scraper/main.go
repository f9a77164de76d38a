// Package main is the entry point for the nfl-gamebook-scraper application
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/myusername/nfl-gamebook-scraper/internal/store"
	"github.com/myusername/nfl-gamebook-scraper/internal/utils"
	"github.com/myusername/nfl-gamebook-scraper/pkg/parser"
	"github.com/myusername/nfl-gamebook-scraper/pkg/scraper"
)

// Version is set during build using ldflags
var (
	version = "dev"
)

const (
	exitOK      = 0
	exitFailure = 1
)

var (
	// ErrNoInput is returned when no input file could be found
	ErrNoInput = errors.New("no input files found")
	// ErrSeasonUnknown is returned when the gamebook has no date and no --season was given
	ErrSeasonUnknown = errors.New("could not determine season from gamebook, provide --season")
	// ErrOutputIsInput is returned when writing the output would overwrite the input file
	ErrOutputIsInput = errors.New("output file would overwrite the input")
)

// exitError carries the process exit code out of a command
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func withCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

type options struct {
	week          int
	season        int
	format        string
	outDir        string
	rosterPath    string
	rosterURL     string
	refreshRoster bool
	timeout       time.Duration
	anchors       []string
	minGap        int
	dsn           string
	ledgerPath    string
	redisURL      string
	verbose       bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code
func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			if ee.err != nil {
				log.Error(ee.err)
			}
			return ee.code
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	return exitOK
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "gamebook-scraper [flags] <gamebook.pdf|glob>...",
		Short:         "Extract player participation from NFL gamebooks and generate SQL statements",
		Version:       version,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(stderr, opts.verbose)
		},
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.week <= 0 {
				return withCode(exitFailure, fmt.Errorf("invalid --week %d", opts.week))
			}
			switch opts.format {
			case formatSQL, formatCSV:
			default:
				return withCode(exitFailure, fmt.Errorf("invalid --format %q (want sql or csv)", opts.format))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), stdout, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&opts.week, "week", "w", 0, "Week number (required)")
	flags.IntVarP(&opts.season, "season", "s", 0, "Season year (defaults to the gamebook date; January and February games count as the previous season)")
	flags.StringVar(&opts.format, "format", formatSQL, "Output format: sql or csv")
	flags.StringVar(&opts.outDir, "out-dir", "", "Output directory (default: next to each input)")
	flags.StringVar(&opts.rosterPath, "roster", getEnv("GAMEBOOK_ROSTER", "players.csv"), "Local players database CSV")
	flags.StringVar(&opts.rosterURL, "roster-url", scraper.DefaultRosterURL, "Players database download URL")
	flags.BoolVar(&opts.refreshRoster, "refresh-roster", false, "Download the players database even if a local copy exists")
	flags.DurationVar(&opts.timeout, "timeout", scraper.DefaultTimeout, "Players database download timeout")
	flags.StringArrayVar(&opts.anchors, "anchor", nil, "Text that starts the home team's column in two-team lines (repeatable)")
	flags.IntVar(&opts.minGap, "gap", parser.DefaultMinGap, "Spaces that separate the two teams' columns")
	flags.StringVar(&opts.dsn, "dsn", getEnv("GAMEBOOK_DSN", ""), "Apply statements to this database (postgres://... or mysql://...)")
	flags.StringVar(&opts.ledgerPath, "ledger", getEnv("GAMEBOOK_LEDGER", ""), "Record exports in this SQLite file")
	flags.StringVar(&opts.redisURL, "redis-url", getEnv("GAMEBOOK_REDIS_URL", ""), "Announce exports on this Redis server")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	_ = cmd.MarkFlagRequired("week")

	cmd.AddCommand(newDumpCmd(stdout), newLedgerCmd(stdout))
	return cmd
}

// newDumpCmd prints the extracted lines of a gamebook, to help tune section parsing
func newDumpCmd(stdout io.Writer) *cobra.Command {
	var from, to int

	cmd := &cobra.Command{
		Use:   "dump <gamebook>",
		Short: "Print the numbered text lines extracted from a gamebook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := parser.ReadLines(args[0])
			if err != nil {
				return withCode(exitFailure, err)
			}
			sec := parser.LocateSections(lines)
			log.Debugf("Sections: lineups=%d substitutions=%d did_not_play=%d not_active=%d",
				sec.Lineups, sec.Substitutions, sec.DidNotPlay, sec.NotActive)
			utils.DisplayLines(stdout, lines, from, to)
			return nil
		},
	}
	cmd.Flags().IntVar(&from, "from", 0, "First line to print")
	cmd.Flags().IntVar(&to, "to", -1, "Last line to print (-1 for the end)")
	return cmd
}

// newLedgerCmd lists the exports recorded for one week
func newLedgerCmd(stdout io.Writer) *cobra.Command {
	var (
		ledgerPath   string
		season, week int
	)

	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "List the exports recorded in the ledger for a week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if ledgerPath == "" {
				return withCode(exitFailure, errors.New("no ledger given, set --ledger or GAMEBOOK_LEDGER"))
			}
			if _, err := os.Stat(ledgerPath); err != nil {
				return withCode(exitFailure, fmt.Errorf("ledger not found: %w", err))
			}
			l, err := store.OpenLedger(ledgerPath)
			if err != nil {
				return withCode(exitFailure, err)
			}
			defer l.Close()

			records, err := l.ForWeek(cmd.Context(), season, week)
			if err != nil {
				return withCode(exitFailure, err)
			}
			utils.DisplayExports(stdout, season, week, records)
			return nil
		},
	}
	cmd.Flags().StringVar(&ledgerPath, "ledger", getEnv("GAMEBOOK_LEDGER", ""), "SQLite ledger file")
	cmd.Flags().IntVarP(&season, "season", "s", 0, "Season year (required)")
	cmd.Flags().IntVarP(&week, "week", "w", 0, "Week number (required)")
	_ = cmd.MarkFlagRequired("season")
	_ = cmd.MarkFlagRequired("week")
	return cmd
}

func setupLogging(w io.Writer, verbose bool) {
	log.SetOutput(w)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

// expandInputs resolves plain paths and glob patterns to existing files.
// Missing paths and patterns that match nothing are returned separately.
func expandInputs(args []string) (files, missing []string) {
	seen := make(map[string]bool)
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, arg := range args {
		if strings.ContainsAny(arg, "*?[") {
			matches, err := filepath.Glob(arg)
			if err != nil || len(matches) == 0 {
				missing = append(missing, arg)
				continue
			}
			for _, m := range matches {
				if info, err := os.Stat(m); err == nil && !info.IsDir() {
					add(m)
				}
			}
			continue
		}
		info, err := os.Stat(arg)
		if err != nil || info.IsDir() {
			missing = append(missing, arg)
			continue
		}
		add(arg)
	}
	return files, missing
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
