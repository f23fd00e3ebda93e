package cmd

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/filedate-go/config"
	"github.com/masmgr/filedate-go/internal/output"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "filedate",
		Usage:   "Created and last-modified dates of files from Git history",
		Version: "1.0.0",
		Commands: []*cli.Command{
			ModifiedCmd(),
			CreatedCmd(),
			DatesCmd(),
			LogCmd(),
			HeadCmd(),
			TagsCmd(),
			ShowCmd(),
			FetchCmd(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
			},
		},
	}
}

// Common flags shared across commands
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "repo",
			Aliases: []string{"r"},
			Usage:   "Path inside the Git repository (searched upward)",
			Value:   ".",
		},
		&cli.StringFlag{
			Name:  "rev",
			Usage: "Revision to start from (default: from config or HEAD)",
		},
		&cli.StringFlag{
			Name:  "sort",
			Usage: "Walk order (time, topo)",
		},
		&cli.BoolFlag{
			Name:  "first-parent",
			Usage: "Follow only the first parent of merge commits",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (console, json, csv, markdown, ci)",
		},
		&cli.IntFlag{
			Name:    "top",
			Aliases: []string{"n"},
			Usage:   "Number of results to show (0 for all)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
		&cli.StringFlag{
			Name:  "date-layout",
			Usage: "Go time layout for printed dates",
		},
		&cli.BoolFlag{
			Name:  "async",
			Usage: "Resolve paths concurrently on the worker pool",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Worker pool size (default: number of CPUs)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Print per-path timing to stderr",
		},
	}
}

// filterFlags are the include/exclude globs used by commands that enumerate files.
func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "include",
			Usage: "Glob patterns to include (can be specified multiple times)",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "Glob patterns to exclude (can be specified multiple times)",
		},
	}
}

// getOutputFormat parses the output format flag.
func getOutputFormat(s string) output.OutputFormat {
	switch s {
	case "json":
		return output.FormatJSON
	case "csv":
		return output.FormatCSV
	case "markdown", "md":
		return output.FormatMarkdown
	case "ci", "ndjson":
		return output.FormatCI
	default:
		return output.FormatConsole
	}
}

// loadConfig loads configuration from file or defaults and applies CLI
// overrides for every flag that was set.
func loadConfig(c *cli.Context) (*config.Config, error) {
	configPath := c.String("config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if c.IsSet("rev") {
		cfg.Walk.DefaultRevision = c.String("rev")
	}
	if c.IsSet("sort") {
		cfg.Walk.Sort = c.String("sort")
	}
	if c.IsSet("first-parent") {
		cfg.Walk.FirstParent = c.Bool("first-parent")
	}
	if c.IsSet("async") {
		cfg.Dispatch.Async = c.Bool("async")
	}
	if c.IsSet("workers") {
		cfg.Dispatch.Workers = c.Int("workers")
	}
	if c.IsSet("format") {
		cfg.Output.Format = c.String("format")
	}
	if c.IsSet("date-layout") {
		cfg.Output.DateLayout = c.String("date-layout")
	}

	// Apply filter overrides from CLI
	if includes := c.StringSlice("include"); len(includes) > 0 {
		cfg.Filters.Include = includes
	}
	if excludes := c.StringSlice("exclude"); len(excludes) > 0 {
		cfg.Filters.Exclude = excludes
	}

	return cfg, nil
}

// Run executes the CLI application.
func Run() {
	if err := App().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
