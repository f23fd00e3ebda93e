package output

import (
	"time"
)

// Compile-time interface conformance checks.
// These ensure that all writer types correctly implement their respective interfaces.
var (
	// DateReportWriter implementations
	_ DateReportWriter = (*ConsoleDateWriter)(nil)
	_ DateReportWriter = (*JSONDateWriter)(nil)
	_ DateReportWriter = (*CSVDateWriter)(nil)
	_ DateReportWriter = (*MarkdownDateWriter)(nil)
	_ DateReportWriter = (*CIDateWriter)(nil)

	// LogReportWriter implementations
	_ LogReportWriter = (*ConsoleLogWriter)(nil)
	_ LogReportWriter = (*JSONLogWriter)(nil)
	_ LogReportWriter = (*CSVLogWriter)(nil)
	_ LogReportWriter = (*MarkdownLogWriter)(nil)
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatConsole  OutputFormat = "console"
	FormatJSON     OutputFormat = "json"
	FormatCSV      OutputFormat = "csv"
	FormatMarkdown OutputFormat = "markdown"
	FormatCI       OutputFormat = "ci"
)

// OutputOptions controls output behavior.
type OutputOptions struct {
	Format     OutputFormat
	Top        int
	OutputPath string
	// DateLayout is the time layout used for human readable timestamps.
	// Empty means RFC 3339.
	DateLayout string
}

// Stamp is the commit that decided one date.
type Stamp struct {
	Commit string
	When   time.Time
	Millis int64
	Kind   string
}

// DateItem holds the resolved dates of a single path. Created or Modified is
// nil when that mode was not requested or failed.
type DateItem struct {
	Path     string
	Created  *Stamp
	Modified *Stamp
	// Lines is the line count at the start revision, nil when not
	// requested or the file is binary.
	Lines    *int
	Error    string
}

// DateReport holds the results of a created/modified date resolution.
type DateReport struct {
	RepoPath    string
	Revision    string
	GeneratedAt time.Time
	Items       []DateItem
}

// LogItem is one commit touching a path.
type LogItem struct {
	Commit  string
	When    time.Time
	Millis  int64
	Author  string
	Kind    string
	Summary string
}

// LogReport holds the touching history of a single path.
type LogReport struct {
	RepoPath    string
	Revision    string
	Path        string
	GeneratedAt time.Time
	Items       []LogItem
}

// DateReportWriter writes date reports.
type DateReportWriter interface {
	Write(report *DateReport, options OutputOptions) error
}

// LogReportWriter writes path history reports.
type LogReportWriter interface {
	Write(report *LogReport, options OutputOptions) error
}

// NewDateReportWriter creates a report writer for the specified format.
func NewDateReportWriter(format OutputFormat) DateReportWriter {
	switch format {
	case FormatJSON:
		return &JSONDateWriter{}
	case FormatCSV:
		return &CSVDateWriter{}
	case FormatMarkdown:
		return &MarkdownDateWriter{}
	case FormatCI:
		return &CIDateWriter{}
	default:
		return &ConsoleDateWriter{}
	}
}

// NewLogReportWriter creates a log report writer for the specified format.
func NewLogReportWriter(format OutputFormat) LogReportWriter {
	switch format {
	case FormatJSON:
		return &JSONLogWriter{}
	case FormatCSV:
		return &CSVLogWriter{}
	case FormatMarkdown:
		return &MarkdownLogWriter{}
	default:
		return &ConsoleLogWriter{}
	}
}
