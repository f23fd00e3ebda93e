package output

import (
	"io"
	"os"
	"strconv"
	"time"
)

const (
	reportDateTimeLayout = "2006-01-02T15:04:05"
)

func limitTop[T any](items []T, top int) []T {
	if top <= 0 || top >= len(items) {
		return items
	}
	return items[:top]
}

func dateLayout(options OutputOptions) string {
	if options.DateLayout == "" {
		return time.RFC3339
	}
	return options.DateLayout
}

// formatStamp renders s with layout, or "-" when s is nil.
func formatStamp(s *Stamp, layout string) string {
	if s == nil {
		return "-"
	}
	return s.When.Format(layout)
}

func formatLines(n *int) string {
	if n == nil {
		return "-"
	}
	return strconv.Itoa(*n)
}

func shortOid(oid string) string {
	if len(oid) > 8 {
		return oid[:8]
	}
	return oid
}

// dateSummary aggregates a date report for headers and CI summaries.
type dateSummary struct {
	total    int
	failed   int
	newest   *DateItem
	earliest *DateItem
}

func summarizeDates(items []DateItem) dateSummary {
	s := dateSummary{total: len(items)}
	for i := range items {
		item := &items[i]
		if item.Error != "" {
			s.failed++
		}
		if item.Modified != nil && (s.newest == nil || item.Modified.Millis > s.newest.Modified.Millis) {
			s.newest = item
		}
		if item.Created != nil && (s.earliest == nil || item.Created.Millis < s.earliest.Created.Millis) {
			s.earliest = item
		}
	}
	return s
}

func openOutputWriter(outputPath string) (io.Writer, *os.File, error) {
	if outputPath == "" {
		return os.Stdout, nil, nil
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, nil, err
	}
	return file, file, nil
}
