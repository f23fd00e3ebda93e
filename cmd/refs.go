package cmd

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/filedate-go/internal/git"
)

// HeadCmd returns the head command.
func HeadCmd() *cli.Command {
	return &cli.Command{
		Name:   "head",
		Usage:  "Show the reference HEAD points at",
		Flags:  commonFlags(),
		Action: headAction,
	}
}

// TagsCmd returns the tags command.
func TagsCmd() *cli.Command {
	flags := append(commonFlags(),
		&cli.IntFlag{
			Name:  "limit",
			Usage: "Stop after this many tags (0 for all)",
		},
	)
	return &cli.Command{
		Name:   "tags",
		Usage:  "List tags and the commits they point at",
		Flags:  flags,
		Action: tagsAction,
	}
}

func headAction(c *cli.Context) error {
	return executeWithContext(c, func(ctx *CommandContext, c *cli.Context) error {
		head, err := ctx.Repo.Head()
		if err != nil {
			return fmt.Errorf("failed to read HEAD: %w", err)
		}
		target, err := head.Resolve()
		if err != nil {
			return fmt.Errorf("failed to resolve HEAD: %w", err)
		}

		color.Green("HEAD")
		fmt.Printf("Name: %s\n", head.Name())
		fmt.Printf("Shorthand: %s\n", head.Shorthand())
		fmt.Printf("Target: %s\n", target)
		return nil
	})
}

func tagsAction(c *cli.Context) error {
	return executeWithContext(c, func(ctx *CommandContext, c *cli.Context) error {
		limit := c.Int("limit")

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "Tag\tKind\tCommit")

		count := 0
		err := ctx.Repo.TagForeach(func(oid plumbing.Hash, name []byte) error {
			if limit > 0 && count >= limit {
				return git.ErrStop
			}
			count++

			kind, commit, err := describeTag(ctx.Repo, oid)
			if err != nil {
				return err
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", plumbing.ReferenceName(name).Short(), kind, commit)
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to list tags: %w", err)
		}
		return tw.Flush()
	})
}

// describeTag reports whether oid is an annotated tag object and the commit
// it finally points at. Tags of trees or blobs have no commit.
func describeTag(repo *git.Repository, oid plumbing.Hash) (string, string, error) {
	obj, err := repo.ReadObject(oid)
	if err != nil {
		return "", "", err
	}
	kind := "lightweight"
	if obj.Kind() == git.ObjectKindTag {
		kind = "annotated"
	}
	c, err := git.PeelToCommit(obj)
	if errors.Is(err, git.ErrUnexpectedKind) {
		return kind, "-", nil
	}
	if err != nil {
		return "", "", err
	}
	return kind, c.Oid.String(), nil
}
