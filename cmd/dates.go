package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/filedate-go/internal/complexity"
	"github.com/masmgr/filedate-go/internal/history"
	"github.com/masmgr/filedate-go/internal/output"
)

// ModifiedCmd returns the modified command.
func ModifiedCmd() *cli.Command {
	return &cli.Command{
		Name:      "modified",
		Aliases:   []string{"m"},
		Usage:     "Print the latest modified date of each path",
		ArgsUsage: "<path>...",
		Flags:     commonFlags(),
		Action: func(c *cli.Context) error {
			return resolvePathsAction(c, history.ModeLatestModified)
		},
	}
}

// CreatedCmd returns the created command.
func CreatedCmd() *cli.Command {
	return &cli.Command{
		Name:      "created",
		Usage:     "Print the created date of each path",
		ArgsUsage: "<path>...",
		Flags:     commonFlags(),
		Action: func(c *cli.Context) error {
			return resolvePathsAction(c, history.ModeCreated)
		},
	}
}

// DatesCmd returns the dates command.
func DatesCmd() *cli.Command {
	flags := append(commonFlags(), filterFlags()...)
	flags = append(flags,
		&cli.BoolFlag{
			Name:  "lines",
			Usage: "Include the line count of each file",
		},
	)

	return &cli.Command{
		Name:    "dates",
		Aliases: []string{"d"},
		Usage:   "Print created and modified dates for every file in the start tree",
		Flags:   flags,
		Action:  datesAction,
	}
}

func resolvePathsAction(c *cli.Context, mode history.Mode) error {
	if c.NArg() == 0 {
		return fmt.Errorf("%s: at least one path is required", c.Command.Name)
	}
	paths := c.Args().Slice()

	return executeWithContext(c, func(ctx *CommandContext, c *cli.Context) error {
		report, err := buildDateReport(c.Context, ctx, paths, mode)
		if err != nil {
			return err
		}
		if err := writeDateReport(c, ctx, report); err != nil {
			return err
		}
		if n := failedItems(report); n > 0 {
			return fmt.Errorf("%w: %d of %d", errSomeFailed, n, len(paths))
		}
		return nil
	})
}

func datesAction(c *cli.Context) error {
	return executeWithContext(c, func(ctx *CommandContext, c *cli.Context) error {
		filter, err := history.NewPathFilter(ctx.Config.Filters.Include, ctx.Config.Filters.Exclude)
		if err != nil {
			return err
		}
		paths, err := ctx.Resolver.Files(filter)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			fmt.Println("No files matched.")
			return nil
		}

		report, err := buildDateReport(c.Context, ctx, paths, history.ModeCreated, history.ModeLatestModified)
		if err != nil {
			return err
		}
		if c.Bool("lines") {
			if err := addLineCounts(ctx, report); err != nil {
				return err
			}
		}
		return writeDateReport(c, ctx, report)
	})
}

// buildDateReport resolves every path in every mode. Per-path failures are
// recorded on the item; only cancellation aborts the report.
func buildDateReport(ctx context.Context, cc *CommandContext, paths []string, modes ...history.Mode) (*output.DateReport, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	items := make([]output.DateItem, len(paths))
	for i, p := range paths {
		items[i].Path = p
	}

	for _, mode := range modes {
		outcomes, err := resolveMode(ctx, cc, mode, paths)
		if err != nil {
			return nil, err
		}
		for i, o := range outcomes {
			if o.Err != nil {
				if items[i].Error == "" {
					items[i].Error = o.Err.Error()
				}
				continue
			}
			stamp := &output.Stamp{
				Commit: o.Result.Commit.String(),
				When:   o.Result.When,
				Millis: o.Result.Millis,
				Kind:   o.Result.Kind.String(),
			}
			if mode == history.ModeCreated {
				items[i].Created = stamp
			} else {
				items[i].Modified = stamp
			}
		}
	}

	if cc.Verbose {
		fmt.Fprintf(os.Stderr, "Resolved %d paths in %s\n", len(paths), time.Since(start))
	}

	return &output.DateReport{
		RepoPath:    cc.RepoPath,
		Revision:    cc.Resolver.Revision(),
		GeneratedAt: time.Now(),
		Items:       items,
	}, nil
}

// resolveMode resolves paths either inline or on the worker pool, depending
// on configuration. Outcomes keep the order of paths.
func resolveMode(ctx context.Context, cc *CommandContext, mode history.Mode, paths []string) ([]history.Outcome, error) {
	if cc.Config.Dispatch.Async {
		return cc.Dispatcher.ResolveAll(ctx, mode, paths)
	}

	out := make([]history.Outcome, len(paths))
	for i, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t := time.Now()
		res, err := cc.Dispatcher.Blocking(mode, p)
		if cc.Verbose {
			fmt.Fprintf(os.Stderr, "%s %s: %s\n", mode, p, time.Since(t))
		}
		out[i] = history.Outcome{Path: p, Result: res, Err: err}
	}
	return out, nil
}

// addLineCounts fills in the line count of every text file in the report.
func addLineCounts(cc *CommandContext, report *output.DateReport) error {
	paths := make([]string, len(report.Items))
	for i, item := range report.Items {
		paths[i] = item.Path
	}
	counts, err := complexity.FileLineCounts(cc.Repo, cc.Resolver.Revision(), paths)
	if err != nil {
		return err
	}
	for i := range report.Items {
		if n, ok := counts[report.Items[i].Path]; ok {
			report.Items[i].Lines = &n
		}
	}
	return nil
}

// failedItems counts report items carrying an error.
func failedItems(report *output.DateReport) int {
	n := 0
	for _, item := range report.Items {
		if item.Error != "" {
			n++
		}
	}
	return n
}

var errSomeFailed = errors.New("some paths could not be resolved")
