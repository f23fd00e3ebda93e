package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/filedate-go/config"
	"github.com/masmgr/filedate-go/internal/git"
	"github.com/masmgr/filedate-go/internal/history"
	"github.com/masmgr/filedate-go/internal/output"
)

// CommandContext holds common state for command execution.
// It encapsulates the shared setup logic across all commands.
type CommandContext struct {
	Config     *config.Config
	Repo       *git.Repository
	RepoPath   string
	Resolver   *history.Resolver
	Dispatcher *history.Dispatcher
	Verbose    bool
}

// NewCommandContext creates a context from CLI flags.
// It performs configuration loading, repository discovery and resolver setup.
func NewCommandContext(c *cli.Context) (*CommandContext, error) {
	// Load configuration
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	sortMode, err := git.ParseSortMode(cfg.Walk.Sort)
	if err != nil {
		return nil, err
	}

	repo, err := git.Discover(c.String("repo"))
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	resolver := history.NewResolver(repo,
		history.WithRevision(cfg.Walk.DefaultRevision),
		history.WithSort(sortMode),
		history.WithFirstParent(cfg.Walk.FirstParent),
	)

	return &CommandContext{
		Config:     cfg,
		Repo:       repo,
		RepoPath:   displayPath(repo),
		Resolver:   resolver,
		Dispatcher: history.NewDispatcher(resolver, cfg.Dispatch.Workers),
		Verbose:    c.Bool("verbose"),
	}, nil
}

// Close waits for outstanding deferred resolutions.
func (ctx *CommandContext) Close() {
	ctx.Dispatcher.Close()
}

// OutputOptions creates OutputOptions from CLI flags and configuration.
func (ctx *CommandContext) OutputOptions(c *cli.Context) output.OutputOptions {
	return output.OutputOptions{
		Format:     getOutputFormat(ctx.Config.Output.Format),
		Top:        c.Int("top"),
		OutputPath: c.String("output"),
		DateLayout: ctx.Config.Output.DateLayout,
	}
}

// displayPath names the repository by its working tree, or by the git
// directory for bare repositories.
func displayPath(repo *git.Repository) string {
	if wd := repo.Workdir(); wd != "" {
		return wd
	}
	return repo.Path()
}

// executeWithContext builds a CommandContext, runs fn with it and releases
// the dispatcher afterwards.
func executeWithContext(c *cli.Context, fn func(ctx *CommandContext, c *cli.Context) error) error {
	ctx, err := NewCommandContext(c)
	if err != nil {
		return err
	}
	defer ctx.Close()
	return fn(ctx, c)
}
