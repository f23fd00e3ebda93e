package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/filedate-go/internal/git"
)

// FetchCmd returns the fetch command.
func FetchCmd() *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "Fetch from a remote, reporting progress on stderr",
		ArgsUsage: "<remote> [refspec...]",
		Flags:     commonFlags(),
		Action:    fetchAction,
	}
}

func fetchAction(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("fetch: remote name is required")
	}
	name := c.Args().First()
	refspecs := c.Args().Tail()

	return executeWithContext(c, func(ctx *CommandContext, c *cli.Context) error {
		remote, err := ctx.Repo.Remote(name)
		if err != nil {
			return err
		}

		start := time.Now()
		color.Green("Fetching %s (%s)", remote.Name(), remote.URL())
		err = remote.Fetch(c.Context, refspecs, printProgress)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Completed in %s\n", time.Since(start))
		return nil
	})
}

func printProgress(p git.Progress) {
	if p.Total > 0 {
		fmt.Fprintf(os.Stderr, "%s: %d%% (%d/%d)\n", p.Stage, p.Percent, p.Current, p.Total)
		return
	}
	fmt.Fprintln(os.Stderr, p.Raw)
}
