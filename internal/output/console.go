package output

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
)

// ConsoleDateWriter writes date reports to the console.
type ConsoleDateWriter struct{}

// Write outputs the date report to the console.
func (w *ConsoleDateWriter) Write(report *DateReport, options OutputOptions) error {
	items := limitTop(report.Items, options.Top)
	layout := dateLayout(options)

	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	color.New(color.FgGreen).Fprintln(out, "File Date Results")
	fmt.Fprintf(out, "Repository: %s\n", report.RepoPath)
	fmt.Fprintf(out, "Revision: %s\n", report.Revision)
	summary := summarizeDates(report.Items)
	fmt.Fprintf(out, "Total paths: %d", summary.total)
	if summary.failed > 0 {
		fmt.Fprintf(out, " (%s)", color.RedString("%d failed", summary.failed))
	}
	fmt.Fprint(out, "\n\n")

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	// Write header
	fmt.Fprintln(tw, "#\tPath\tCreated\tModified\tCommit\tLines")

	// Write rows
	for i, item := range items {
		if item.Error != "" {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1, item.Path, color.RedString("error: %s", item.Error))
			continue
		}
		commit := ""
		switch {
		case item.Modified != nil:
			commit = shortOid(item.Modified.Commit)
		case item.Created != nil:
			commit = shortOid(item.Created.Commit)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			i+1,
			item.Path,
			formatStamp(item.Created, layout),
			formatStamp(item.Modified, layout),
			commit,
			formatLines(item.Lines),
		)
	}

	return tw.Flush()
}

// ConsoleLogWriter writes path history reports to the console.
type ConsoleLogWriter struct{}

// Write outputs the path history to the console.
func (w *ConsoleLogWriter) Write(report *LogReport, options OutputOptions) error {
	items := limitTop(report.Items, options.Top)
	layout := dateLayout(options)

	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	color.New(color.FgGreen).Fprintf(out, "History of %s\n", report.Path)
	fmt.Fprintf(out, "Repository: %s\n", report.RepoPath)
	fmt.Fprintf(out, "Revision: %s\n", report.Revision)
	fmt.Fprintf(out, "Touching commits: %d\n\n", len(report.Items))

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tCommit\tDate\tChange\tAuthor\tMessage")
	for i, item := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			i+1,
			shortOid(item.Commit),
			item.When.Format(layout),
			getKindColor(item.Kind)("%s", item.Kind),
			item.Author,
			truncateMessage(item.Summary, 50),
		)
	}

	return tw.Flush()
}

// Helper functions

func truncateMessage(msg string, maxLen int) string {
	if len(msg) <= maxLen {
		return msg
	}
	return msg[:maxLen-3] + "..."
}

func getKindColor(kind string) func(string, ...interface{}) string {
	switch kind {
	case "added":
		return color.GreenString
	case "deleted":
		return color.RedString
	default:
		return color.YellowString
	}
}
