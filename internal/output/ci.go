package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// CIDateWriter writes date reports as NDJSON (one JSON object per line) for CI pipelines.
type CIDateWriter struct{}

// CISummary is the first line of CI output, containing aggregate statistics.
type CISummary struct {
	Type         string `json:"type"`
	Revision     string `json:"revision"`
	TotalPaths   int    `json:"totalPaths"`
	FailedCount  int    `json:"failedCount"`
	NewestPath   string `json:"newestPath,omitempty"`
	NewestMillis int64  `json:"newestMillis,omitempty"`
}

// CIFileEntry represents a single path entry in CI output.
type CIFileEntry struct {
	Type     string `json:"type"`
	Path     string `json:"path"`
	Created  *int64 `json:"created,omitempty"`
	Modified *int64 `json:"modified,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Write outputs the date report as NDJSON.
func (w *CIDateWriter) Write(report *DateReport, options OutputOptions) error {
	items := limitTop(report.Items, options.Top)

	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	s := summarizeDates(items)

	// Write summary line
	summary := CISummary{
		Type:        "summary",
		Revision:    report.Revision,
		TotalPaths:  s.total,
		FailedCount: s.failed,
	}
	if s.newest != nil {
		summary.NewestPath = s.newest.Path
		summary.NewestMillis = s.newest.Modified.Millis
	}
	if err := writeNDJSONLine(out, summary); err != nil {
		return err
	}

	// Write file entries
	for _, item := range items {
		entry := CIFileEntry{
			Type:  "file",
			Path:  item.Path,
			Error: item.Error,
		}
		if item.Created != nil {
			entry.Created = &item.Created.Millis
		}
		if item.Modified != nil {
			entry.Modified = &item.Modified.Millis
		}
		if err := writeNDJSONLine(out, entry); err != nil {
			return err
		}
	}

	return nil
}

func writeNDJSONLine(w io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal NDJSON: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
