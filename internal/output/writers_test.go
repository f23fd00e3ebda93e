package output

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"
)

func sampleDateReport() *DateReport {
	lines := 42
	return &DateReport{
		RepoPath:    "/test/repo",
		Revision:    "main",
		GeneratedAt: time.Unix(1_700_000_500, 0).UTC(),
		Items: []DateItem{
			{Path: "src/a.go", Created: stampAt(1_700_000_000, "1111111111111111111111111111111111111111"), Modified: stampAt(1_700_000_200, "2222222222222222222222222222222222222222"), Lines: &lines},
			{Path: "missing.go", Error: "path not found"},
		},
	}
}

func sampleLogReport() *LogReport {
	return &LogReport{
		RepoPath:    "/test/repo",
		Revision:    "HEAD",
		Path:        "src/a.go",
		GeneratedAt: time.Unix(1_700_000_500, 0).UTC(),
		Items: []LogItem{
			{Commit: "2222222222222222222222222222222222222222", When: time.Unix(1_700_000_200, 0).UTC(), Millis: 1_700_000_200_000, Author: "Ada", Kind: "modified", Summary: "tweak a | b"},
			{Commit: "1111111111111111111111111111111111111111", When: time.Unix(1_700_000_000, 0).UTC(), Millis: 1_700_000_000_000, Author: "Ada", Kind: "added", Summary: "add a"},
		},
	}
}

func TestJSONDateWriter_Write(t *testing.T) {
	tmpFile := t.TempDir() + "/dates.json"
	if err := (&JSONDateWriter{}).Write(sampleDateReport(), OutputOptions{OutputPath: tmpFile}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := readTestFile(tmpFile)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}

	var got JSONDateReport
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}
	if got.Revision != "main" || got.TotalPaths != 2 || got.Failed != 1 {
		t.Errorf("unexpected header: %+v", got)
	}
	if len(got.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got.Items))
	}
	first := got.Items[0]
	if first.Created == nil || first.Created.Millis != 1_700_000_000_000 {
		t.Errorf("Created = %+v, expected millis 1700000000000", first.Created)
	}
	if first.Modified == nil || first.Modified.Date != "2023-11-14T22:16:40Z" {
		t.Errorf("Modified = %+v, expected RFC 3339 date", first.Modified)
	}
	if first.Lines == nil || *first.Lines != 42 {
		t.Errorf("Lines = %v, expected 42", first.Lines)
	}
	if got.Items[1].Error != "path not found" || got.Items[1].Created != nil || got.Items[1].Lines != nil {
		t.Errorf("unexpected failed item: %+v", got.Items[1])
	}
}

func TestJSONLogWriter_Write(t *testing.T) {
	tmpFile := t.TempDir() + "/log.json"
	options := OutputOptions{OutputPath: tmpFile, DateLayout: "2006-01-02", Top: 1}
	if err := (&JSONLogWriter{}).Write(sampleLogReport(), options); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := readTestFile(tmpFile)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}

	var got JSONLogReport
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}
	if got.TotalCommits != 2 {
		t.Errorf("TotalCommits = %d, expected 2", got.TotalCommits)
	}
	if len(got.Items) != 1 {
		t.Fatalf("expected 1 item with Top=1, got %d", len(got.Items))
	}
	if got.Items[0].When != "2023-11-14" || got.Items[0].Change != "modified" {
		t.Errorf("unexpected item: %+v", got.Items[0])
	}
}

func TestCSVDateWriter_Write(t *testing.T) {
	tmpFile := t.TempDir() + "/dates.csv"
	if err := (&CSVDateWriter{}).Write(sampleDateReport(), OutputOptions{OutputPath: tmpFile}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	f, err := os.Open(tmpFile)
	if err != nil {
		t.Fatalf("Failed to open output: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "Path" || len(rows[0]) != 9 {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][2] != "1700000000000" || rows[1][5] != "1700000200000" {
		t.Errorf("unexpected millis columns: %v", rows[1])
	}
	if rows[1][7] != "42" {
		t.Errorf("Lines = %q, expected 42", rows[1][7])
	}
	if rows[2][1] != "" || rows[2][8] != "path not found" {
		t.Errorf("unexpected failed row: %v", rows[2])
	}
}

func TestCSVLogWriter_Write(t *testing.T) {
	tmpFile := t.TempDir() + "/log.csv"
	if err := (&CSVLogWriter{}).Write(sampleLogReport(), OutputOptions{OutputPath: tmpFile}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	f, err := os.Open(tmpFile)
	if err != nil {
		t.Fatalf("Failed to open output: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[2][4] != "added" || rows[2][5] != "add a" {
		t.Errorf("unexpected row: %v", rows[2])
	}
}

func TestMarkdownWriters_Write(t *testing.T) {
	dir := t.TempDir()

	datesFile := dir + "/dates.md"
	if err := (&MarkdownDateWriter{}).Write(sampleDateReport(), OutputOptions{OutputPath: datesFile}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	data, err := readTestFile(datesFile)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	out := string(data)
	for _, want := range []string{"# File Date Results", "`src/a.go`", "`22222222`", "path not found"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected markdown to contain %q:\n%s", want, out)
		}
	}

	logFile := dir + "/log.md"
	if err := (&MarkdownLogWriter{}).Write(sampleLogReport(), OutputOptions{OutputPath: logFile}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	data, err = readTestFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if !strings.Contains(string(data), `tweak a \| b`) {
		t.Errorf("expected escaped pipe in message:\n%s", data)
	}
}

func TestConsoleWriters_Write(t *testing.T) {
	dir := t.TempDir()

	datesFile := dir + "/dates.txt"
	if err := (&ConsoleDateWriter{}).Write(sampleDateReport(), OutputOptions{OutputPath: datesFile}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	data, err := readTestFile(datesFile)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	out := string(data)
	for _, want := range []string{"Repository: /test/repo", "Revision: main", "src/a.go", "missing.go"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected console output to contain %q:\n%s", want, out)
		}
	}

	logFile := dir + "/log.txt"
	if err := (&ConsoleLogWriter{}).Write(sampleLogReport(), OutputOptions{OutputPath: logFile}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	data, err = readTestFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if !strings.Contains(string(data), "Touching commits: 2") {
		t.Errorf("expected commit count in output:\n%s", data)
	}
}
