package history

import (
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/masmgr/filedate-go/internal/git"
)

// Mode selects which end of a path's history is resolved.
type Mode int

const (
	// ModeLatestModified resolves the newest commit touching the path.
	ModeLatestModified Mode = iota
	// ModeCreated resolves the oldest commit touching the path.
	ModeCreated
)

// String returns a string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeLatestModified:
		return "modified"
	case ModeCreated:
		return "created"
	default:
		return "unknown"
	}
}

func (m Mode) describe() string {
	if m == ModeCreated {
		return "created date"
	}
	return "latest modified date"
}

// Result is the commit that decided a resolution.
type Result struct {
	Path   string
	Commit plumbing.Hash
	// When is the committer time of Commit.
	When time.Time
	// Millis is When as epoch milliseconds.
	Millis int64
	Kind   git.ChangeKind
}

// Entry is one commit touching a path, as yielded by History.
type Entry struct {
	Commit *git.Commit
	Kind   git.ChangeKind
}

type options struct {
	revision string
	walk     git.WalkOptions
}

// Option configures a Resolver.
type Option func(*options)

// WithRevision sets the revision the walk starts from. Default: HEAD.
func WithRevision(rev string) Option {
	return func(o *options) { o.revision = rev }
}

// WithSort sets the walk order.
func WithSort(s git.SortMode) Option {
	return func(o *options) { o.walk.Sort = s }
}

// WithFirstParent restricts the walk to first parents of merges.
func WithFirstParent(enabled bool) Option {
	return func(o *options) { o.walk.FirstParent = enabled }
}

// Resolver answers "when was this path last modified / created" by walking
// commits from a start revision and classifying each against the path.
// A Resolver holds no per-call state and may be used from several goroutines.
type Resolver struct {
	repo *git.Repository
	diff *git.PathDiff
	opts options
}

// NewResolver creates a resolver over repo.
func NewResolver(repo *git.Repository, opts ...Option) *Resolver {
	o := options{revision: string(plumbing.HEAD)}
	for _, opt := range opts {
		opt(&o)
	}
	return &Resolver{repo: repo, diff: git.NewPathDiff(repo), opts: o}
}

// Repository returns the repository the resolver reads.
func (r *Resolver) Repository() *git.Repository { return r.repo }

// Revision returns the start revision.
func (r *Resolver) Revision() string { return r.opts.revision }

// LatestModified returns the newest commit touching path.
func (r *Resolver) LatestModified(path string) (Result, error) {
	return r.Resolve(ModeLatestModified, path)
}

// Created returns the oldest commit touching path.
func (r *Resolver) Created(path string) (Result, error) {
	return r.Resolve(ModeCreated, path)
}

// LatestModifiedDate returns the committer time, in epoch milliseconds, of
// the newest commit touching path.
func (r *Resolver) LatestModifiedDate(path string) (int64, error) {
	res, err := r.LatestModified(path)
	if err != nil {
		return 0, err
	}
	return res.Millis, nil
}

// CreatedDate returns the committer time, in epoch milliseconds, of the
// oldest commit touching path.
func (r *Resolver) CreatedDate(path string) (int64, error) {
	res, err := r.Created(path)
	if err != nil {
		return 0, err
	}
	return res.Millis, nil
}

// Resolve runs one resolution. The path must exist in the start commit's
// tree. Latest-modified stops at the first touching commit; created walks the
// whole history and keeps the last one seen.
func (r *Resolver) Resolve(mode Mode, path string) (Result, error) {
	res, err := r.resolve(mode, path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to get %s for %s: %w", mode.describe(), path, err)
	}
	return res, nil
}

func (r *Resolver) resolve(mode Mode, path string) (Result, error) {
	w, err := r.start(path)
	if err != nil {
		return Result{}, err
	}

	var (
		found bool
		last  Result
	)
	err = w.ForEach(func(c *git.Commit) error {
		kind, err := r.change(c, path)
		if err != nil {
			return err
		}
		if !kind.Touching() {
			return nil
		}
		found = true
		last = Result{
			Path:   path,
			Commit: c.Oid,
			When:   c.Committer.When,
			Millis: c.Committer.Millis(),
			Kind:   kind,
		}
		if mode == ModeLatestModified {
			return git.ErrStop
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	if !found {
		return Result{}, git.ErrNoHistoryForPath
	}
	return last, nil
}

// History yields every commit touching path, in walk order.
func (r *Resolver) History(path string) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		w, err := r.start(path)
		if err != nil {
			yield(Entry{}, fmt.Errorf("failed to get history for %s: %w", path, err))
			return
		}
		for c, err := range w.Commits() {
			if err != nil {
				yield(Entry{}, err)
				return
			}
			kind, err := r.change(c, path)
			if err != nil {
				yield(Entry{}, err)
				return
			}
			if !kind.Touching() {
				continue
			}
			if !yield(Entry{Commit: c, Kind: kind}, nil) {
				return
			}
		}
	}
}

// change classifies c against path. A first-parent walk never visits the
// other side of a merge, so the merge is judged against its first parent.
func (r *Resolver) change(c *git.Commit, path string) (git.ChangeKind, error) {
	if r.opts.walk.FirstParent {
		return r.diff.CommitChangeFirstParent(c, path)
	}
	return r.diff.CommitChange(c, path)
}

// start resolves the start commit, checks that path exists in its tree and
// returns a walker positioned at it.
func (r *Resolver) start(path string) (*git.Walker, error) {
	h, err := r.repo.ResolveRevision(r.opts.revision)
	if err != nil {
		return nil, err
	}
	head, err := r.repo.ReadCommit(h)
	if err != nil {
		return nil, err
	}
	tree, err := head.Tree()
	if err != nil {
		return nil, err
	}
	if _, err := tree.GetPath(path); err != nil {
		if errors.Is(err, git.ErrPathNotFound) {
			return nil, git.ErrPathNotFound
		}
		return nil, err
	}

	w := r.repo.Walk(r.opts.walk)
	if err := w.Push(h); err != nil {
		return nil, err
	}
	return w, nil
}
