package output

import (
	"encoding/csv"
	"os"
	"strconv"
)

// CSVDateWriter writes date reports as CSV.
type CSVDateWriter struct{}

// Write outputs the date report as CSV.
func (w *CSVDateWriter) Write(report *DateReport, options OutputOptions) error {
	items := limitTop(report.Items, options.Top)

	writer, file, err := createCSVWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	// Write header
	headers := []string{"Path", "Created", "CreatedMillis", "CreatedCommit",
		"Modified", "ModifiedMillis", "ModifiedCommit", "Lines", "Error"}
	if err := writer.Write(headers); err != nil {
		return err
	}

	// Write data
	for _, item := range items {
		row := []string{item.Path}
		row = append(row, stampColumns(item.Created)...)
		row = append(row, stampColumns(item.Modified)...)
		lines := ""
		if item.Lines != nil {
			lines = strconv.Itoa(*item.Lines)
		}
		row = append(row, lines, item.Error)
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func stampColumns(s *Stamp) []string {
	if s == nil {
		return []string{"", "", ""}
	}
	return []string{
		s.When.Format(reportDateTimeLayout),
		strconv.FormatInt(s.Millis, 10),
		s.Commit,
	}
}

// CSVLogWriter writes path history reports as CSV.
type CSVLogWriter struct{}

// Write outputs the path history as CSV.
func (w *CSVLogWriter) Write(report *LogReport, options OutputOptions) error {
	items := limitTop(report.Items, options.Top)

	writer, file, err := createCSVWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	if err := writer.Write([]string{"SHA", "When", "Millis", "Author", "Change", "Message"}); err != nil {
		return err
	}
	for _, item := range items {
		row := []string{
			item.Commit,
			item.When.Format(reportDateTimeLayout),
			strconv.FormatInt(item.Millis, 10),
			item.Author,
			item.Kind,
			item.Summary,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func createCSVWriter(outputPath string) (*csv.Writer, *os.File, error) {
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return nil, nil, err
		}
		return csv.NewWriter(file), file, nil
	}
	return csv.NewWriter(os.Stdout), nil, nil
}
