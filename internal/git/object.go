package git

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/binary"
)

// Commit is an immutable snapshot record read from the object store.
type Commit struct {
	Oid        plumbing.Hash
	TreeOid    plumbing.Hash
	ParentOids []plumbing.Hash
	Author     Signature
	Committer  Signature
	Message    string

	repo *Repository
}

func newCommit(r *Repository, c *object.Commit) *Commit {
	parents := make([]plumbing.Hash, len(c.ParentHashes))
	copy(parents, c.ParentHashes)
	return &Commit{
		Oid:        c.Hash,
		TreeOid:    c.TreeHash,
		ParentOids: parents,
		Author:     newSignature(c.Author),
		Committer:  newSignature(c.Committer),
		Message:    c.Message,
		repo:       r,
	}
}

// ID returns the commit Oid.
func (c *Commit) ID() plumbing.Hash { return c.Oid }

// Kind returns ObjectKindCommit.
func (c *Commit) Kind() ObjectKind { return ObjectKindCommit }

// NumParents returns the number of parents: 0 for a root commit, 2 or more for a merge.
func (c *Commit) NumParents() int { return len(c.ParentOids) }

// Tree returns the tree the commit points at.
func (c *Commit) Tree() (*Tree, error) {
	return c.repo.ReadTree(c.TreeOid)
}

// Parent returns the i-th parent of the commit.
func (c *Commit) Parent(i int) (*Commit, error) {
	if i < 0 || i >= len(c.ParentOids) {
		return nil, fmt.Errorf("%w: commit %s has no parent %d", ErrObjectNotFound, c.Oid, i)
	}
	return c.repo.ReadCommit(c.ParentOids[i])
}

// Parents returns all parents of the commit in order.
func (c *Commit) Parents() ([]*Commit, error) {
	parents := make([]*Commit, 0, len(c.ParentOids))
	for i := range c.ParentOids {
		p, err := c.Parent(i)
		if err != nil {
			return nil, err
		}
		parents = append(parents, p)
	}
	return parents, nil
}

// Summary returns the first paragraph of the message with whitespace squashed.
func (c *Commit) Summary() string {
	msg := strings.TrimLeft(c.Message, "\n")
	if idx := strings.Index(msg, "\n\n"); idx != -1 {
		msg = msg[:idx]
	}
	return strings.Join(strings.Fields(msg), " ")
}

// Body returns everything after the first paragraph of the message, trimmed.
func (c *Commit) Body() string {
	msg := strings.TrimLeft(c.Message, "\n")
	idx := strings.Index(msg, "\n\n")
	if idx == -1 {
		return ""
	}
	return strings.TrimSpace(msg[idx+2:])
}

// TreeEntry is one named entry of a tree.
type TreeEntry struct {
	Name string
	Mode filemode.FileMode
	Oid  plumbing.Hash
	Kind ObjectKind

	repo *Repository
}

// IsTree reports whether the entry is a subdirectory.
func (e *TreeEntry) IsTree() bool { return e.Kind == ObjectKindTree }

// IsFile reports whether the entry is a regular file, executable or symlink.
func (e *TreeEntry) IsFile() bool { return isFileMode(e.Mode) }

// Object reads the object the entry points at.
func (e *TreeEntry) Object() (Object, error) {
	return e.repo.ReadObject(e.Oid)
}

// Tree is an immutable directory snapshot. Entries keep the order in which
// Git stores them, which is sorted by name.
type Tree struct {
	Oid     plumbing.Hash
	Entries []TreeEntry

	repo *Repository
}

func newTree(r *Repository, t *object.Tree) *Tree {
	entries := make([]TreeEntry, len(t.Entries))
	for i, e := range t.Entries {
		entries[i] = TreeEntry{
			Name: e.Name,
			Mode: e.Mode,
			Oid:  e.Hash,
			Kind: kindForMode(e.Mode),
			repo: r,
		}
	}
	return &Tree{Oid: t.Hash, Entries: entries, repo: r}
}

// ID returns the tree Oid.
func (t *Tree) ID() plumbing.Hash { return t.Oid }

// Kind returns ObjectKindTree.
func (t *Tree) Kind() ObjectKind { return ObjectKindTree }

// Entry returns the direct child called name.
func (t *Tree) Entry(name string) (*TreeEntry, bool) {
	for i := range t.Entries {
		if t.Entries[i].Name == name {
			return &t.Entries[i], true
		}
	}
	return nil, false
}

// GetPath walks relPath through nested trees and returns the entry it names.
// It fails with ErrPathNotFound when a segment is missing or when a
// non-final segment is not a directory.
func (t *Tree) GetPath(relPath string) (*TreeEntry, error) {
	clean, ok := normalizePath(relPath)
	if !ok {
		return nil, &PathError{Path: relPath, Err: ErrPathNotFound}
	}

	parts := strings.Split(clean, "/")
	current := t
	for i, part := range parts {
		entry, found := current.Entry(part)
		if !found {
			return nil, &PathError{Path: relPath, Err: ErrPathNotFound}
		}
		if i == len(parts)-1 {
			return entry, nil
		}
		if !entry.IsTree() {
			return nil, &PathError{Path: relPath, Err: ErrPathNotFound}
		}
		next, err := t.repo.ReadTree(entry.Oid)
		if err != nil {
			return nil, fmt.Errorf("read tree %s: %w", entry.Oid, err)
		}
		current = next
	}
	return nil, &PathError{Path: relPath, Err: ErrPathNotFound}
}

// WalkFiles calls fn for every file (regular, executable or symlink) below
// the tree, depth first in tree order, with its slash separated path.
// Returning ErrStop from fn ends the walk without error.
func (t *Tree) WalkFiles(fn func(path string, entry *TreeEntry) error) error {
	err := t.walkFiles("", fn)
	if errors.Is(err, ErrStop) {
		return nil
	}
	return err
}

func (t *Tree) walkFiles(prefix string, fn func(string, *TreeEntry) error) error {
	for i := range t.Entries {
		e := &t.Entries[i]
		p := e.Name
		if prefix != "" {
			p = prefix + "/" + e.Name
		}
		switch {
		case e.IsTree():
			sub, err := t.repo.ReadTree(e.Oid)
			if err != nil {
				return fmt.Errorf("read tree %s: %w", p, err)
			}
			if err := sub.walkFiles(p, fn); err != nil {
				return err
			}
		case e.IsFile():
			if err := fn(p, e); err != nil {
				return err
			}
		}
	}
	return nil
}

// Blob is raw file content addressed by Oid.
type Blob struct {
	Oid  plumbing.Hash
	Size int64

	repo *Repository
}

func newBlob(r *Repository, b *object.Blob) *Blob {
	return &Blob{Oid: b.Hash, Size: b.Size, repo: r}
}

// ID returns the blob Oid.
func (b *Blob) ID() plumbing.Hash { return b.Oid }

// Kind returns ObjectKindBlob.
func (b *Blob) Kind() ObjectKind { return ObjectKindBlob }

// Content reads the blob bytes from the object store.
func (b *Blob) Content() ([]byte, error) {
	return b.repo.blobContent(b.Oid)
}

// IsBinary reports whether the content looks binary (a NUL byte within the
// first 8000 bytes, the heuristic Git uses).
func (b *Blob) IsBinary() (bool, error) {
	data, err := b.Content()
	if err != nil {
		return false, err
	}
	return binary.IsBinary(bytes.NewReader(data))
}

// PeelToCommit dereferences tags until a commit is reached.
func PeelToCommit(obj Object) (*Commit, error) {
	obj, err := peelTags(obj)
	if err != nil {
		return nil, err
	}
	if c, ok := obj.(*Commit); ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: cannot peel %s %s to commit", ErrUnexpectedKind, obj.Kind(), obj.ID())
}

// PeelToTree dereferences tags and commits until a tree is reached.
func PeelToTree(obj Object) (*Tree, error) {
	obj, err := peelTags(obj)
	if err != nil {
		return nil, err
	}
	switch o := obj.(type) {
	case *Tree:
		return o, nil
	case *Commit:
		return o.Tree()
	}
	return nil, fmt.Errorf("%w: cannot peel %s %s to tree", ErrUnexpectedKind, obj.Kind(), obj.ID())
}

// PeelToBlob dereferences tags until a blob is reached.
func PeelToBlob(obj Object) (*Blob, error) {
	obj, err := peelTags(obj)
	if err != nil {
		return nil, err
	}
	if b, ok := obj.(*Blob); ok {
		return b, nil
	}
	return nil, fmt.Errorf("%w: cannot peel %s %s to blob", ErrUnexpectedKind, obj.Kind(), obj.ID())
}

func peelTags(obj Object) (Object, error) {
	if tag, ok := obj.(*Tag); ok {
		return tag.Peel()
	}
	return obj, nil
}
