package output

import (
	"fmt"
	"strings"
)

// MarkdownDateWriter writes date reports as Markdown.
type MarkdownDateWriter struct{}

// Write outputs the date report as Markdown.
func (w *MarkdownDateWriter) Write(report *DateReport, options OutputOptions) error {
	items := limitTop(report.Items, options.Top)
	layout := dateLayout(options)

	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	// Header
	fmt.Fprintln(out, "# File Date Results")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "**Repository:** %s\n\n", report.RepoPath)
	fmt.Fprintf(out, "**Revision:** `%s`\n\n", report.Revision)
	fmt.Fprintf(out, "**Total Paths:** %d\n\n", len(report.Items))

	// Table header
	fmt.Fprintln(out, "| # | Path | Created | Modified | Commit | Lines |")
	fmt.Fprintln(out, "|---|------|---------|----------|--------|-------|")

	// Table rows
	for i, item := range items {
		if item.Error != "" {
			fmt.Fprintf(out, "| %d | `%s` | :x: %s | | | |\n", i+1, item.Path, escapeMarkdown(item.Error))
			continue
		}
		commit := ""
		switch {
		case item.Modified != nil:
			commit = shortOid(item.Modified.Commit)
		case item.Created != nil:
			commit = shortOid(item.Created.Commit)
		}
		fmt.Fprintf(out, "| %d | `%s` | %s | %s | `%s` | %s |\n",
			i+1, item.Path, formatStamp(item.Created, layout), formatStamp(item.Modified, layout), commit, formatLines(item.Lines))
	}

	return nil
}

// MarkdownLogWriter writes path history reports as Markdown.
type MarkdownLogWriter struct{}

// Write outputs the path history as Markdown.
func (w *MarkdownLogWriter) Write(report *LogReport, options OutputOptions) error {
	items := limitTop(report.Items, options.Top)
	layout := dateLayout(options)

	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	fmt.Fprintf(out, "# History of `%s`\n", report.Path)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "**Repository:** %s\n\n", report.RepoPath)
	fmt.Fprintf(out, "**Revision:** `%s`\n\n", report.Revision)
	fmt.Fprintf(out, "**Touching Commits:** %d\n\n", len(report.Items))

	fmt.Fprintln(out, "| # | Commit | Date | Change | Author | Message |")
	fmt.Fprintln(out, "|---|--------|------|--------|--------|---------|")
	for i, item := range items {
		fmt.Fprintf(out, "| %d | `%s` | %s | %s %s | %s | %s |\n",
			i+1,
			shortOid(item.Commit),
			item.When.Format(layout),
			getKindEmoji(item.Kind),
			item.Kind,
			escapeMarkdown(item.Author),
			escapeMarkdown(truncateMessage(item.Summary, 60)),
		)
	}

	return nil
}

func getKindEmoji(kind string) string {
	switch kind {
	case "added":
		return "\U0001F7E2"
	case "deleted":
		return "\U0001F534"
	default:
		return "\U0001F7E1"
	}
}

func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"|", "\\|",
		"*", "\\*",
		"_", "\\_",
		"`", "\\`",
	)
	return replacer.Replace(s)
}
