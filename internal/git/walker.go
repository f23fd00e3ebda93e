package git

import (
	"container/heap"
	"errors"
	"fmt"
	"io"
	"iter"
	"slices"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
)

// SortMode selects the order in which a Walker emits commits.
type SortMode int

const (
	// SortTime emits commits newest committer time first. Ties keep the
	// order in which commits entered the frontier.
	SortTime SortMode = iota
	// SortTopological never emits a parent before any of its children that
	// are part of the walk. Independent commits are ordered by time.
	SortTopological
)

// String returns the flag spelling of the sort mode.
func (s SortMode) String() string {
	switch s {
	case SortTime:
		return "time"
	case SortTopological:
		return "topo"
	default:
		return "unknown"
	}
}

// ParseSortMode parses "time", "topo" or "topological".
func ParseSortMode(s string) (SortMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "time", "date":
		return SortTime, nil
	case "topo", "topological":
		return SortTopological, nil
	default:
		return SortTime, fmt.Errorf("invalid sort mode %q: must be time or topo", s)
	}
}

// WalkOptions configures a Walker.
type WalkOptions struct {
	Sort SortMode
	// Reverse emits the final order back to front.
	Reverse bool
	// FirstParent follows only the first parent of merge commits.
	FirstParent bool
}

// Walker enumerates the commits reachable from a set of pushed roots and
// not reachable from any hidden commit. Each commit is emitted once.
//
// A Walker is not safe for concurrent use. Independent walkers over the same
// Repository may run in parallel.
type Walker struct {
	repo *Repository
	opts WalkOptions

	roots  []plumbing.Hash
	hidden []plumbing.Hash

	started  bool
	err      error
	seen     map[plumbing.Hash]struct{}
	frontier walkMaxHeap
	seq      uint64

	// buffered holds the full order for modes that need the whole graph
	// before the first commit can be emitted.
	buffered []*Commit
	useBuf   bool
}

// NewWalker creates an empty walker over r.
func NewWalker(r *Repository, opts WalkOptions) *Walker {
	return &Walker{repo: r, opts: opts}
}

// Walk is shorthand for NewWalker(r, opts).
func (r *Repository) Walk(opts WalkOptions) *Walker {
	return NewWalker(r, opts)
}

// Options returns the walker configuration.
func (w *Walker) Options() WalkOptions { return w.opts }

// Push adds a root. h may name a commit or a tag that peels to one.
func (w *Walker) Push(h plumbing.Hash) error {
	c, err := w.peel(h)
	if err != nil {
		return err
	}
	w.roots = append(w.roots, c)
	return nil
}

// PushHead adds the commit HEAD resolves to as a root.
func (w *Walker) PushHead() error {
	return w.PushRef(string(plumbing.HEAD))
}

// PushRef adds the commit the named reference resolves to as a root.
func (w *Walker) PushRef(name string) error {
	h, err := w.repo.ResolveReference(name)
	if err != nil {
		return err
	}
	return w.Push(h)
}

// PushRevision adds the commit a revision expression resolves to as a root.
func (w *Walker) PushRevision(rev string) error {
	h, err := w.repo.ResolveRevision(rev)
	if err != nil {
		return err
	}
	return w.Push(h)
}

// PushRange pushes the head of a "base..head" range and hides its base.
// For "base...head" both sides are pushed and their merge bases hidden.
func (w *Walker) PushRange(spec string) error {
	rr, err := ParseRange(spec)
	if err != nil {
		return err
	}
	base, err := w.repo.ResolveRevision(rr.Base)
	if err != nil {
		return err
	}
	head, err := w.repo.ResolveRevision(rr.Head)
	if err != nil {
		return err
	}

	if !rr.Symmetric {
		if err := w.Hide(base); err != nil {
			return err
		}
		return w.Push(head)
	}

	if err := w.Push(base); err != nil {
		return err
	}
	if err := w.Push(head); err != nil {
		return err
	}
	bases, err := w.repo.MergeBase(w.roots[len(w.roots)-2], w.roots[len(w.roots)-1])
	if err != nil {
		return err
	}
	for _, b := range bases {
		if err := w.Hide(b); err != nil {
			return err
		}
	}
	return nil
}

// Hide excludes h and all of its ancestors from the walk.
func (w *Walker) Hide(h plumbing.Hash) error {
	c, err := w.peel(h)
	if err != nil {
		return err
	}
	w.hidden = append(w.hidden, c)
	return nil
}

// Reset rewinds the walker so the next call to Next starts over from the
// same roots and hidden commits.
func (w *Walker) Reset() {
	w.started = false
	w.err = nil
	w.seen = nil
	w.frontier = nil
	w.seq = 0
	w.buffered = nil
	w.useBuf = false
}

// Next returns the next commit, or io.EOF once the walk is exhausted.
func (w *Walker) Next() (*Commit, error) {
	if w.err != nil {
		return nil, w.err
	}
	if !w.started {
		if err := w.start(); err != nil {
			w.err = err
			return nil, err
		}
	}

	if w.useBuf {
		if len(w.buffered) == 0 {
			return nil, io.EOF
		}
		c := w.buffered[0]
		w.buffered = w.buffered[1:]
		return c, nil
	}

	c, err := w.popTime()
	if err != nil && !errors.Is(err, io.EOF) {
		w.err = err
	}
	return c, err
}

// ForEach calls fn for every remaining commit. Returning ErrStop from fn ends
// the walk without error.
func (w *Walker) ForEach(fn func(*Commit) error) error {
	for {
		c, err := w.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(c); err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}
			return err
		}
	}
}

// Commits returns the remaining commits as a pull-based sequence.
func (w *Walker) Commits() iter.Seq2[*Commit, error] {
	return func(yield func(*Commit, error) bool) {
		for {
			c, err := w.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(c, err) || err != nil {
				return
			}
		}
	}
}

func (w *Walker) peel(h plumbing.Hash) (plumbing.Hash, error) {
	obj, err := w.repo.ReadObject(h)
	if err != nil {
		return plumbing.ZeroHash, err
	}
	c, err := PeelToCommit(obj)
	if err != nil {
		return plumbing.ZeroHash, err
	}
	return c.Oid, nil
}

func (w *Walker) parentsOf(c *Commit) []plumbing.Hash {
	if w.opts.FirstParent && len(c.ParentOids) > 1 {
		return c.ParentOids[:1]
	}
	return c.ParentOids
}

func (w *Walker) start() error {
	w.started = true
	w.seen = make(map[plumbing.Hash]struct{})
	w.frontier = nil
	w.seq = 0

	if err := w.markHidden(); err != nil {
		return err
	}

	for _, h := range w.roots {
		if err := w.enqueue(h); err != nil {
			return err
		}
	}

	if w.opts.Sort == SortTopological {
		order, err := w.topoOrder()
		if err != nil {
			return err
		}
		w.buffered = order
		w.useBuf = true
	} else if w.opts.Reverse {
		var order []*Commit
		for {
			c, err := w.popTime()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return err
			}
			order = append(order, c)
		}
		w.buffered = order
		w.useBuf = true
	}

	if w.useBuf && w.opts.Reverse {
		slices.Reverse(w.buffered)
	}
	return nil
}

// markHidden adds every ancestor of the hidden commits to the seen set so
// they are neither emitted nor traversed.
func (w *Walker) markHidden() error {
	stack := slices.Clone(w.hidden)
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := w.seen[h]; ok {
			continue
		}
		w.seen[h] = struct{}{}
		c, err := w.repo.ReadCommit(h)
		if err != nil {
			return fmt.Errorf("read hidden commit %s: %w", h, err)
		}
		stack = append(stack, c.ParentOids...)
	}
	return nil
}

func (w *Walker) enqueue(h plumbing.Hash) error {
	if _, ok := w.seen[h]; ok {
		return nil
	}
	w.seen[h] = struct{}{}
	c, err := w.repo.ReadCommit(h)
	if err != nil {
		return fmt.Errorf("read commit %s: %w", h, err)
	}
	heap.Push(&w.frontier, walkQueueItem{commit: c, seq: w.seq})
	w.seq++
	return nil
}

func (w *Walker) popTime() (*Commit, error) {
	if w.frontier.Len() == 0 {
		return nil, io.EOF
	}
	item := heap.Pop(&w.frontier).(walkQueueItem)
	for _, p := range w.parentsOf(item.commit) {
		if err := w.enqueue(p); err != nil {
			return nil, err
		}
	}
	return item.commit, nil
}

// topoOrder drains the frontier to collect the reachable set, then emits it
// with Kahn's algorithm: a commit becomes ready once all of its children in
// the set have been emitted. Ready commits are taken newest first.
func (w *Walker) topoOrder() ([]*Commit, error) {
	var all []*Commit
	for {
		c, err := w.popTime()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		all = append(all, c)
	}

	index := make(map[plumbing.Hash]int, len(all))
	for i, c := range all {
		index[c.Oid] = i
	}
	pending := make([]int, len(all))
	for _, c := range all {
		for _, p := range w.parentsOf(c) {
			if j, ok := index[p]; ok {
				pending[j]++
			}
		}
	}

	var ready walkMaxHeap
	for i, c := range all {
		if pending[i] == 0 {
			heap.Push(&ready, walkQueueItem{commit: c, seq: uint64(i)})
		}
	}

	order := make([]*Commit, 0, len(all))
	for ready.Len() > 0 {
		item := heap.Pop(&ready).(walkQueueItem)
		order = append(order, item.commit)
		for _, p := range w.parentsOf(item.commit) {
			j, ok := index[p]
			if !ok {
				continue
			}
			pending[j]--
			if pending[j] == 0 {
				heap.Push(&ready, walkQueueItem{commit: all[j], seq: uint64(j)})
			}
		}
	}
	return order, nil
}
