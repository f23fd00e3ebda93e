package cmd

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/filedate-go/internal/history"
	"github.com/masmgr/filedate-go/internal/output"
)

// LogCmd returns the log command.
func LogCmd() *cli.Command {
	flags := append(commonFlags(),
		&cli.StringSliceFlag{
			Name:  "grep",
			Usage: "Only commits whose message matches one of these regex patterns",
		},
	)

	return &cli.Command{
		Name:      "log",
		Aliases:   []string{"l"},
		Usage:     "List every commit touching a path",
		ArgsUsage: "<path>",
		Flags:     flags,
		Action:    logAction,
	}
}

func logAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("log: exactly one path is required")
	}
	path := c.Args().First()

	return executeWithContext(c, func(ctx *CommandContext, c *cli.Context) error {
		top := c.Int("top")
		matcher, err := history.NewMessageMatcher(c.StringSlice("grep"))
		if err != nil {
			return err
		}

		var items []output.LogItem
		for e, err := range ctx.Resolver.History(path) {
			if err != nil {
				return err
			}
			if !matcher.Match(e.Commit.Message) {
				continue
			}
			items = append(items, output.LogItem{
				Commit:  e.Commit.Oid.String(),
				When:    e.Commit.Committer.When,
				Millis:  e.Commit.Committer.Millis(),
				Author:  e.Commit.Author.Name,
				Kind:    e.Kind.String(),
				Summary: e.Commit.Summary(),
			})
			if top > 0 && len(items) >= top {
				break
			}
		}

		report := &output.LogReport{
			RepoPath:    ctx.RepoPath,
			Revision:    ctx.Resolver.Revision(),
			Path:        path,
			GeneratedAt: time.Now(),
			Items:       items,
		}
		return writeLogReport(c, ctx, report)
	})
}
