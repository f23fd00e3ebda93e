package output

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// JSONDateWriter writes date reports as JSON.
type JSONDateWriter struct{}

// JSONDateReport is the JSON output structure for date reports.
type JSONDateReport struct {
	RepoPath    string         `json:"repo"`
	Revision    string         `json:"revision"`
	GeneratedAt string         `json:"generatedAt"`
	TotalPaths  int            `json:"totalPaths"`
	Failed      int            `json:"failed"`
	Items       []JSONDateItem `json:"items"`
}

// JSONDateItem is the JSON output structure for a single path.
type JSONDateItem struct {
	Path     string     `json:"path"`
	Created  *JSONStamp `json:"created,omitempty"`
	Modified *JSONStamp `json:"modified,omitempty"`
	Lines    *int       `json:"lines,omitempty"`
	Error    string     `json:"error,omitempty"`
}

// JSONStamp is the JSON form of a resolved date. Millis is the value the
// resolver reports; Date is the same instant formatted for people.
type JSONStamp struct {
	Commit string `json:"commit"`
	Date   string `json:"date"`
	Millis int64  `json:"millis"`
	Change string `json:"change"`
}

func toJSONStamp(s *Stamp, layout string) *JSONStamp {
	if s == nil {
		return nil
	}
	return &JSONStamp{Commit: s.Commit, Date: s.When.Format(layout), Millis: s.Millis, Change: s.Kind}
}

// Write outputs the date report as JSON.
func (w *JSONDateWriter) Write(report *DateReport, options OutputOptions) error {
	items := limitTop(report.Items, options.Top)
	layout := dateLayout(options)

	jsonItems := make([]JSONDateItem, len(items))
	for i, item := range items {
		jsonItems[i] = JSONDateItem{
			Path:     item.Path,
			Created:  toJSONStamp(item.Created, layout),
			Modified: toJSONStamp(item.Modified, layout),
			Lines:    item.Lines,
			Error:    item.Error,
		}
	}

	jsonReport := JSONDateReport{
		RepoPath:    report.RepoPath,
		Revision:    report.Revision,
		GeneratedAt: report.GeneratedAt.Format(time.RFC3339),
		TotalPaths:  len(report.Items),
		Failed:      summarizeDates(report.Items).failed,
		Items:       jsonItems,
	}

	return writeJSON(jsonReport, options.OutputPath)
}

// JSONLogWriter writes path history reports as JSON.
type JSONLogWriter struct{}

// JSONLogReport is the JSON output structure for path history.
type JSONLogReport struct {
	RepoPath     string        `json:"repo"`
	Revision     string        `json:"revision"`
	Path         string        `json:"path"`
	GeneratedAt  string        `json:"generatedAt"`
	TotalCommits int           `json:"totalCommits"`
	Items        []JSONLogItem `json:"items"`
}

// JSONLogItem is the JSON output structure for a single touching commit.
type JSONLogItem struct {
	SHA     string `json:"sha"`
	When    string `json:"when"`
	Millis  int64  `json:"millis"`
	Author  string `json:"author"`
	Change  string `json:"change"`
	Message string `json:"message"`
}

// Write outputs the path history as JSON.
func (w *JSONLogWriter) Write(report *LogReport, options OutputOptions) error {
	items := limitTop(report.Items, options.Top)
	layout := dateLayout(options)

	jsonItems := make([]JSONLogItem, len(items))
	for i, item := range items {
		jsonItems[i] = JSONLogItem{
			SHA:     item.Commit,
			When:    item.When.Format(layout),
			Millis:  item.Millis,
			Author:  item.Author,
			Change:  item.Kind,
			Message: item.Summary,
		}
	}

	jsonReport := JSONLogReport{
		RepoPath:     report.RepoPath,
		Revision:     report.Revision,
		Path:         report.Path,
		GeneratedAt:  report.GeneratedAt.Format(time.RFC3339),
		TotalCommits: len(report.Items),
		Items:        jsonItems,
	}

	return writeJSON(jsonReport, options.OutputPath)
}

func writeJSON(data interface{}, outputPath string) error {
	encoder := json.NewEncoder(os.Stdout)
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer file.Close()
		encoder = json.NewEncoder(file)
	}

	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
