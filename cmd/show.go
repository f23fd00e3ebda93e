package cmd

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/filedate-go/internal/git"
)

// ShowCmd returns the show command.
func ShowCmd() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Print the content of a file at the start revision",
		ArgsUsage: "<path>",
		Flags:     commonFlags(),
		Action:    showAction,
	}
}

func showAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("show: exactly one path is required")
	}
	path := c.Args().First()

	return executeWithContext(c, func(ctx *CommandContext, c *cli.Context) error {
		data, err := readFileAt(ctx.Repo, ctx.Resolver.Revision(), path)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	})
}

// readFileAt returns the blob content of path in the tree of rev.
func readFileAt(repo *git.Repository, rev, path string) ([]byte, error) {
	h, err := repo.ResolveRevision(rev)
	if err != nil {
		return nil, err
	}
	obj, err := repo.ReadObject(h)
	if err != nil {
		return nil, err
	}
	tree, err := git.PeelToTree(obj)
	if err != nil {
		return nil, err
	}
	entry, err := tree.GetPath(path)
	if err != nil {
		return nil, err
	}
	target, err := entry.Object()
	if err != nil {
		return nil, err
	}
	blob, err := git.PeelToBlob(target)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return blob.Content()
}
