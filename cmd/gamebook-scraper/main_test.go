package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testRoster = "gsis_id,display_name,short_name,football_name,first_name,last_name,latest_team,position,status\n" +
	"00-0039163,C.J. Stroud,C.Stroud,C.J.,Coleman,Stroud,HOU,QB,ACT\n" +
	"00-0035000,Nico Collins,N.Collins,Nico,Nico,Collins,HOU,WR,ACT\n" +
	"00-0037000,Sam Darnold,S.Darnold,Sam,Samuel,Darnold,SEA,QB,ACT\n" +
	"00-0038000,Jaxon Smith-Njigba,J.Smith-Njigba,Jaxon,Jaxon,Smith-Njigba,SEA,WR,ACT\n" +
	"JMIL0001,Jalen Milroe,J.Milroe,Jalen,Jalen,Milroe,SEA,QB,ACT\n"

// setupRun copies the fixture gamebook and a roster into a temporary directory
func setupRun(t *testing.T) (gamebook, roster string) {
	t.Helper()
	dir := t.TempDir()

	data, err := os.ReadFile(filepath.Join("..", "..", "pkg", "parser", "testdata", "gamebook.txt"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	gamebook = filepath.Join(dir, "hou-sea.txt")
	if err := os.WriteFile(gamebook, data, 0644); err != nil {
		t.Fatal(err)
	}
	roster = filepath.Join(dir, "players.csv")
	if err := os.WriteFile(roster, []byte(testRoster), 0644); err != nil {
		t.Fatal(err)
	}
	return gamebook, roster
}

func TestRunWritesSQL(t *testing.T) {
	gamebook, roster := setupRun(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{gamebook, "--week", "7", "--roster", roster}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("exit code = %d\nstderr:\n%s", code, stderr.String())
	}

	out, err := os.ReadFile(strings.TrimSuffix(gamebook, ".txt") + ".sql")
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	sql := string(out)

	for _, want := range []string{
		"-- Houston Texans 19, Seattle Seahawks 22\n-- Week 7, Season 2025\n",
		"\nexec stats.find_or_create_rawstat_gsis('00-0039163', 'Houston Texans', 'Seattle Seahawks', 7, 2025, 'QB', 'S');\n",
		"\nexec stats.find_or_create_rawstat_gsis('00-0038000', 'Seattle Seahawks', 'Houston Texans', 7, 2025, 'WR', 'S');\n",
		"\nexec stats.find_or_create_rawstat_gsis('JMIL0001', 'Seattle Seahawks', 'Houston Texans', 7, 2025, '3QB', 'I');\n",
		"\n-- invalid id '': exec stats.find_or_create_rawstat_gsis('', 'Seattle Seahawks', 'Houston Texans', 7, 2025, 'QB', 'B'); -- D.Lock\n",
		"\nexec stats.record_game_score(2025, 7, 19, 22, 'Houston Texans', 'Seattle Seahawks');\n",
	} {
		if !strings.Contains(sql, want) {
			t.Errorf("output missing %q:\n%s", want, sql)
		}
	}

	report := stdout.String()
	if !strings.Contains(report, "Matched 5/18 players") {
		t.Errorf("report:\n%s", report)
	}
	if !strings.Contains(report, "JMIL0001") {
		t.Error("report does not flag the non-standard id")
	}
}

func TestRunWritesCSVToOutDir(t *testing.T) {
	gamebook, roster := setupRun(t)
	outDir := filepath.Join(t.TempDir(), "out")

	var stdout, stderr bytes.Buffer
	code := run([]string{"--week", "7", "--roster", roster, "--format", "csv", "--out-dir", outDir, gamebook}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("exit code = %d\nstderr:\n%s", code, stderr.String())
	}

	out, err := os.ReadFile(filepath.Join(outDir, "hou-sea.csv"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if lines[0] != "gsis_id,team,name,position,status" {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines) != 19 {
		t.Errorf("got %d rows, want 18 players plus header", len(lines))
	}
	if lines[1] != "00-0039163,Houston Texans,C.Stroud,QB,starter" {
		t.Errorf("first row = %q", lines[1])
	}
}

func TestRunRecordsLedger(t *testing.T) {
	gamebook, roster := setupRun(t)
	ledger := filepath.Join(t.TempDir(), "ledger.db")

	var stdout, stderr bytes.Buffer
	code := run([]string{gamebook, "-w", "7", "--roster", roster, "--ledger", ledger}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("exit code = %d\nstderr:\n%s", code, stderr.String())
	}
	if _, err := os.Stat(ledger); err != nil {
		t.Errorf("ledger not created: %v", err)
	}
}

func TestRunWarnsOnReExport(t *testing.T) {
	gamebook, roster := setupRun(t)
	ledger := filepath.Join(t.TempDir(), "ledger.db")
	args := []string{gamebook, "-w", "7", "--roster", roster, "--ledger", ledger}

	var stdout, stderr bytes.Buffer
	if code := run(args, &stdout, &stderr); code != exitOK {
		t.Fatalf("first run: exit code = %d\nstderr:\n%s", code, stderr.String())
	}
	if strings.Contains(stderr.String(), "already exported") {
		t.Errorf("first export warned about a previous one:\n%s", stderr.String())
	}

	stdout.Reset()
	stderr.Reset()
	if code := run(args, &stdout, &stderr); code != exitOK {
		t.Fatalf("second run: exit code = %d\nstderr:\n%s", code, stderr.String())
	}
	if !strings.Contains(stderr.String(), "Houston Texans at Seattle Seahawks was already exported for week 7, season 2025") {
		t.Errorf("second export did not warn:\n%s", stderr.String())
	}

	stdout.Reset()
	stderr.Reset()
	if code := run([]string{"ledger", "--ledger", ledger, "-s", "2025", "-w", "7"}, &stdout, &stderr); code != exitOK {
		t.Fatalf("ledger: exit code = %d\nstderr:\n%s", code, stderr.String())
	}
	out := stdout.String()
	if !strings.Contains(out, "Exports for week 7, season 2025: 2") || !strings.Contains(out, "Houston Texans 19, Seattle Seahawks 22") {
		t.Errorf("ledger output:\n%s", out)
	}
}

func TestLedgerCommandFailures(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing ledger", []string{"ledger", "--ledger", filepath.Join(t.TempDir(), "none.db"), "-s", "2025", "-w", "7"}},
		{"no ledger flag", []string{"ledger", "--ledger", "", "-s", "2025", "-w", "7"}},
		{"missing week", []string{"ledger", "--ledger", "ledger.db", "-s", "2025"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(tt.args, &stdout, &stderr); code != exitFailure {
				t.Errorf("exit code = %d, want %d", code, exitFailure)
			}
		})
	}
}

func TestRunContinuesAfterFailedFile(t *testing.T) {
	gamebook, roster := setupRun(t)
	undated := filepath.Join(filepath.Dir(gamebook), "undated.txt")
	content := "VISITOR: Houston Texans 19\nHOME: Seattle Seahawks 22\nNot Active    Not Active\nWR 3 T.Dell    3QB 6 J.Milroe\n"
	if err := os.WriteFile(undated, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	if code := run([]string{undated, gamebook, "--week", "7", "--roster", roster}, &stdout, &stderr); code != exitFailure {
		t.Errorf("exit code = %d, want %d", code, exitFailure)
	}

	if _, err := os.Stat(filepath.Join(filepath.Dir(gamebook), "undated.sql")); err == nil {
		t.Error("output written for the undated gamebook")
	}
	out, err := os.ReadFile(strings.TrimSuffix(gamebook, ".txt") + ".sql")
	if err != nil {
		t.Fatalf("good file was not exported: %v", err)
	}
	if !strings.Contains(string(out), "exec stats.record_game_score(2025, 7, 19, 22, 'Houston Texans', 'Seattle Seahawks');") {
		t.Errorf("output:\n%s", out)
	}
	if !strings.Contains(stdout.String(), "Matched 5/18 players") {
		t.Errorf("report:\n%s", stdout.String())
	}
}

func TestRunRefusesToOverwriteInput(t *testing.T) {
	gamebook, roster := setupRun(t)
	data, err := os.ReadFile(gamebook)
	if err != nil {
		t.Fatal(err)
	}
	input := filepath.Join(filepath.Dir(gamebook), "x.sql")
	if err := os.WriteFile(input, data, 0644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	if code := run([]string{input, "--week", "7", "--roster", roster}, &stdout, &stderr); code != exitFailure {
		t.Errorf("exit code = %d, want %d", code, exitFailure)
	}
	if !strings.Contains(stderr.String(), "would overwrite the input") {
		t.Errorf("stderr:\n%s", stderr.String())
	}
	after, err := os.ReadFile(input)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(after, data) {
		t.Error("input file was modified")
	}

	// Writing elsewhere is fine
	outDir := t.TempDir()
	stdout.Reset()
	stderr.Reset()
	if code := run([]string{input, "--week", "7", "--roster", roster, "--out-dir", outDir}, &stdout, &stderr); code != exitOK {
		t.Fatalf("exit code = %d\nstderr:\n%s", code, stderr.String())
	}
	if _, err := os.Stat(filepath.Join(outDir, "x.sql")); err != nil {
		t.Errorf("output not written: %v", err)
	}
}

func TestSeasonFlagUsage(t *testing.T) {
	var buf bytes.Buffer
	flag := newRootCmd(&buf, &buf).Flags().Lookup("season")
	if flag == nil {
		t.Fatal("no --season flag")
	}
	if !strings.Contains(flag.Usage, "January and February games count as the previous season") {
		t.Errorf("--season usage = %q", flag.Usage)
	}
}

func TestRunSeason(t *testing.T) {
	dir := t.TempDir()
	roster := filepath.Join(dir, "players.csv")
	if err := os.WriteFile(roster, []byte(testRoster), 0644); err != nil {
		t.Fatal(err)
	}
	gamebook := filepath.Join(dir, "undated.txt")
	content := "VISITOR: Houston Texans 19\nHOME: Seattle Seahawks 22\nNot Active    Not Active\nWR 3 T.Dell    3QB 6 J.Milroe\n"
	if err := os.WriteFile(gamebook, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	if code := run([]string{gamebook, "--week", "7", "--roster", roster}, &stdout, &stderr); code != exitFailure {
		t.Errorf("undated gamebook without --season: exit code = %d, want %d", code, exitFailure)
	}
	if !strings.Contains(stderr.String(), "provide --season") {
		t.Errorf("stderr does not explain the failure:\n%s", stderr.String())
	}

	stdout.Reset()
	stderr.Reset()
	if code := run([]string{gamebook, "--week", "7", "--season", "2025", "--roster", roster}, &stdout, &stderr); code != exitOK {
		t.Fatalf("exit code = %d\nstderr:\n%s", code, stderr.String())
	}
	out, err := os.ReadFile(filepath.Join(dir, "undated.sql"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "'JMIL0001', 'Seattle Seahawks', 'Houston Texans', 7, 2025, '3QB', 'I'") {
		t.Errorf("output:\n%s", out)
	}
}

func TestRunFailures(t *testing.T) {
	gamebook, roster := setupRun(t)

	tests := []struct {
		name string
		args []string
	}{
		{"missing input", []string{filepath.Join(t.TempDir(), "nope.pdf"), "--week", "7", "--roster", roster}},
		{"one missing input among good ones", []string{gamebook, "missing.pdf", "--week", "7", "--roster", roster}},
		{"missing week", []string{gamebook, "--roster", roster}},
		{"bad week", []string{gamebook, "--week", "0", "--roster", roster}},
		{"bad format", []string{gamebook, "--week", "7", "--format", "xml", "--roster", roster}},
		{"no arguments", []string{"--week", "7"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(tt.args, &stdout, &stderr); code != exitFailure {
				t.Errorf("exit code = %d, want %d", code, exitFailure)
			}
		})
	}
}

func TestDumpCommand(t *testing.T) {
	gamebook, _ := setupRun(t)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"dump", gamebook, "--from", "4", "--to", "5"}, &stdout, &stderr); code != exitOK {
		t.Fatalf("exit code = %d\nstderr:\n%s", code, stderr.String())
	}
	want := "  4: Lineups\n  5: Houston Texans    Seattle Seahawks\n"
	if stdout.String() != want {
		t.Errorf("dump output = %q, want %q", stdout.String(), want)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		input, outDir, format, want string
	}{
		{"games/hou-sea.pdf", "", "sql", "games/hou-sea.sql"},
		{"games/hou-sea.pdf", "out", "csv", filepath.Join("out", "hou-sea.csv")},
		{"gamebook", "", "sql", "gamebook.sql"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.input, tt.outDir, tt.format); got != tt.want {
			t.Errorf("outputPath(%q, %q, %q) = %q, want %q", tt.input, tt.outDir, tt.format, got, tt.want)
		}
	}
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.pdf", "b.pdf", "c.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	files, missing := expandInputs([]string{
		filepath.Join(dir, "*.pdf"),
		filepath.Join(dir, "a.pdf"),
		filepath.Join(dir, "*.html"),
		filepath.Join(dir, "gone.pdf"),
		dir,
	})
	if len(files) != 2 {
		t.Errorf("files = %v, want a.pdf and b.pdf once each", files)
	}
	if len(missing) != 3 {
		t.Errorf("missing = %v, want the empty glob, gone.pdf and the directory", missing)
	}
}
