package history

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/masmgr/filedate-go/internal/git"
)

// PathFilter selects repository paths by doublestar include/exclude globs.
// Exclude patterns win; an empty include list accepts everything.
type PathFilter struct {
	include []string
	exclude []string
	cache   map[string]bool
}

// NewPathFilter validates the patterns and returns a filter. It is not safe
// for concurrent use.
func NewPathFilter(include, exclude []string) (*PathFilter, error) {
	for _, p := range exclude {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, doublestar.ErrBadPattern)
		}
	}
	for _, p := range include {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid include pattern %q: %w", p, doublestar.ErrBadPattern)
		}
	}
	return &PathFilter{include: include, exclude: exclude, cache: make(map[string]bool)}, nil
}

// Match reports whether path passes the filter.
func (f *PathFilter) Match(path string) bool {
	if f == nil {
		return true
	}
	// Normalize path separators
	path = strings.ReplaceAll(path, "\\", "/")
	if v, ok := f.cache[path]; ok {
		return v
	}
	v := f.match(path)
	f.cache[path] = v
	return v
}

func (f *PathFilter) match(path string) bool {
	for _, pattern := range f.exclude {
		if doublestar.MatchUnvalidated(pattern, path) {
			return false
		}
	}
	if len(f.include) == 0 {
		return true
	}
	for _, pattern := range f.include {
		if doublestar.MatchUnvalidated(pattern, path) {
			return true
		}
	}
	return false
}

// Files lists every file in the start commit's tree that passes filter, in
// tree order. A nil filter accepts all files.
func (r *Resolver) Files(filter *PathFilter) ([]string, error) {
	h, err := r.repo.ResolveRevision(r.opts.revision)
	if err != nil {
		return nil, fmt.Errorf("failed to list files at %s: %w", r.opts.revision, err)
	}
	c, err := r.repo.ReadCommit(h)
	if err != nil {
		return nil, fmt.Errorf("failed to list files at %s: %w", r.opts.revision, err)
	}
	tree, err := c.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to list files at %s: %w", r.opts.revision, err)
	}

	var paths []string
	err = tree.WalkFiles(func(path string, _ *git.TreeEntry) error {
		if filter.Match(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list files at %s: %w", r.opts.revision, err)
	}
	return paths, nil
}
