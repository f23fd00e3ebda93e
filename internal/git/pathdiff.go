package git

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
)

// PathDiff decides whether the entry at a single path differs between a
// commit tree and its parent trees. Only the chain of trees along the path
// is read, so the cost grows with path depth rather than repository size.
type PathDiff struct {
	reader ObjectReader
}

// NewPathDiff creates a path diff engine reading trees from reader.
func NewPathDiff(reader ObjectReader) *PathDiff {
	return &PathDiff{reader: reader}
}

// PathChanged compares path in commitTree against each of parentTrees.
//
// With no parents the path is compared against an absent tree, so a present
// path is ChangeKindAdded. With several parents (a merge) the commit does not
// touch the path if it is unchanged relative to any parent; otherwise the
// change relative to the first parent is returned.
func (d *PathDiff) PathChanged(commitTree plumbing.Hash, parentTrees []plumbing.Hash, path string) (ChangeKind, error) {
	clean, ok := normalizePath(path)
	if !ok {
		return ChangeKindUnchanged, &PathError{Path: path, Err: ErrPathNotFound}
	}
	parts := strings.Split(clean, "/")
	cache := make(map[plumbing.Hash]*Tree)

	if len(parentTrees) == 0 {
		return d.compare(cache, commitTree, plumbing.ZeroHash, parts)
	}

	var first ChangeKind
	for i, parent := range parentTrees {
		kind, err := d.compare(cache, commitTree, parent, parts)
		if err != nil {
			return ChangeKindUnchanged, err
		}
		if kind == ChangeKindUnchanged {
			return ChangeKindUnchanged, nil
		}
		if i == 0 {
			first = kind
		}
	}
	return first, nil
}

// CommitChange compares path in c against the trees of c's parents.
func (d *PathDiff) CommitChange(c *Commit, path string) (ChangeKind, error) {
	return d.commitChange(c, c.ParentOids, path)
}

// CommitChangeFirstParent compares path in c against its first parent only,
// which is how a merge looks from a first-parent walk.
func (d *PathDiff) CommitChangeFirstParent(c *Commit, path string) (ChangeKind, error) {
	parents := c.ParentOids
	if len(parents) > 1 {
		parents = parents[:1]
	}
	return d.commitChange(c, parents, path)
}

func (d *PathDiff) commitChange(c *Commit, parents []plumbing.Hash, path string) (ChangeKind, error) {
	parentTrees := make([]plumbing.Hash, 0, len(parents))
	for _, p := range parents {
		parent, err := d.reader.ReadCommit(p)
		if err != nil {
			return ChangeKindUnchanged, fmt.Errorf("read parent %s of %s: %w", p, c.Oid, err)
		}
		parentTrees = append(parentTrees, parent.TreeOid)
	}
	return d.PathChanged(c.TreeOid, parentTrees, path)
}

// compare descends both sides one segment at a time. A zero hash stands for
// an absent tree. Equal tree Oids at any depth mean everything below them is
// identical, so the descent stops there.
func (d *PathDiff) compare(cache map[plumbing.Hash]*Tree, cur, parent plumbing.Hash, parts []string) (ChangeKind, error) {
	for i, part := range parts {
		if cur == parent {
			return ChangeKindUnchanged, nil
		}

		ce, err := d.child(cache, cur, part)
		if err != nil {
			return ChangeKindUnchanged, err
		}
		pe, err := d.child(cache, parent, part)
		if err != nil {
			return ChangeKindUnchanged, err
		}

		if i == len(parts)-1 {
			return classify(ce, pe), nil
		}
		cur, parent = subtreeOid(ce), subtreeOid(pe)
	}
	return ChangeKindUnchanged, nil
}

func (d *PathDiff) child(cache map[plumbing.Hash]*Tree, tree plumbing.Hash, name string) (*TreeEntry, error) {
	if tree.IsZero() {
		return nil, nil
	}
	t, ok := cache[tree]
	if !ok {
		var err error
		t, err = d.reader.ReadTree(tree)
		if err != nil {
			return nil, fmt.Errorf("read tree %s: %w", tree, err)
		}
		cache[tree] = t
	}
	e, found := t.Entry(name)
	if !found {
		return nil, nil
	}
	return e, nil
}

func subtreeOid(e *TreeEntry) plumbing.Hash {
	if e == nil || !e.IsTree() {
		return plumbing.ZeroHash
	}
	return e.Oid
}

func classify(cur, parent *TreeEntry) ChangeKind {
	switch {
	case cur == nil && parent == nil:
		return ChangeKindUnchanged
	case parent == nil:
		return ChangeKindAdded
	case cur == nil:
		return ChangeKindDeleted
	case cur.Oid == parent.Oid && cur.Mode == parent.Mode:
		return ChangeKindUnchanged
	default:
		return ChangeKindModified
	}
}
