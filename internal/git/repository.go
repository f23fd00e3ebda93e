package git

import (
	"errors"
	"fmt"
	"io"
	"sync"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// Repository is a read-only handle on a Git object and reference store.
//
// A Repository may be shared between goroutines. go-git storage is not safe
// for concurrent reads (packfile scanners keep cursor state), so every read
// that reaches the storage layer is serialized behind mu.
type Repository struct {
	repo *gogit.Repository
	mu   sync.Mutex
}

// Open opens the repository rooted exactly at path. path may be a worktree
// root (containing .git) or a bare repository directory.
func Open(path string) (*Repository, error) {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return nil, mapOpenError(path, err)
	}
	return &Repository{repo: repo}, nil
}

// Discover opens the first repository found at startPath or any of its
// parent directories.
func Discover(startPath string) (*Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(startPath, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, mapOpenError(startPath, err)
	}
	return &Repository{repo: repo}, nil
}

// Path returns the path of the git directory (.git for normal repositories,
// the repository itself for bare ones). It is empty for non-filesystem storage.
func (r *Repository) Path() string {
	if fs, ok := r.repo.Storer.(*filesystem.Storage); ok {
		return fs.Filesystem().Root()
	}
	return ""
}

// Workdir returns the root of the working tree, or "" for bare repositories.
func (r *Repository) Workdir() string {
	wt, err := r.repo.Worktree()
	if err != nil {
		return ""
	}
	return wt.Filesystem.Root()
}

// IsEmpty reports whether HEAD does not yet point at a commit.
func (r *Repository) IsEmpty() (bool, error) {
	_, err := r.Head()
	if errors.Is(err, ErrReferenceNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

// Head returns HEAD resolved to the direct reference it ultimately points at.
func (r *Repository) Head() (*Reference, error) {
	r.mu.Lock()
	ref, err := r.repo.Head()
	r.mu.Unlock()
	if err != nil {
		return nil, mapReferenceError(string(plumbing.HEAD), err)
	}
	return newReference(r, ref), nil
}

// Reference looks up a reference by its full name without resolving it.
func (r *Repository) Reference(name string) (*Reference, error) {
	r.mu.Lock()
	ref, err := r.repo.Reference(plumbing.ReferenceName(name), false)
	r.mu.Unlock()
	if err != nil {
		return nil, mapReferenceError(name, err)
	}
	return newReference(r, ref), nil
}

// ResolveReference follows symbolic references starting at name until a
// direct reference is reached and returns its target.
func (r *Repository) ResolveReference(name string) (plumbing.Hash, error) {
	r.mu.Lock()
	ref, err := r.repo.Reference(plumbing.ReferenceName(name), true)
	r.mu.Unlock()
	if err != nil {
		return plumbing.ZeroHash, mapReferenceError(name, err)
	}
	return ref.Hash(), nil
}

// ResolveRevision resolves a revision expression (HEAD, branch or tag short
// names, hex Oids, HEAD~2, v1.0^{commit}) to a commit Oid.
func (r *Repository) ResolveRevision(rev string) (plumbing.Hash, error) {
	if rev == "" {
		rev = string(plumbing.HEAD)
	}
	r.mu.Lock()
	h, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	r.mu.Unlock()
	if err != nil {
		return plumbing.ZeroHash, mapReferenceError(rev, err)
	}
	return *h, nil
}

// ReadObject reads the object stored under h and returns it as its concrete
// wrapper type (*Commit, *Tree, *Blob or *Tag).
func (r *Repository) ReadObject(h plumbing.Hash) (Object, error) {
	r.mu.Lock()
	obj, err := r.repo.Object(plumbing.AnyObject, h)
	r.mu.Unlock()
	if err != nil {
		return nil, mapObjectError(h, err)
	}

	switch o := obj.(type) {
	case *object.Commit:
		return newCommit(r, o), nil
	case *object.Tree:
		return newTree(r, o), nil
	case *object.Blob:
		return newBlob(r, o), nil
	case *object.Tag:
		return newTag(r, o), nil
	default:
		return nil, fmt.Errorf("%w: %s has type %s", ErrUnexpectedKind, h, obj.Type())
	}
}

// ReadCommit reads the commit stored under h.
func (r *Repository) ReadCommit(h plumbing.Hash) (*Commit, error) {
	obj, err := r.ReadObject(h)
	if err != nil {
		return nil, err
	}
	c, ok := obj.(*Commit)
	if !ok {
		return nil, kindMismatch(obj, ObjectKindCommit)
	}
	return c, nil
}

// ReadTree reads the tree stored under h.
func (r *Repository) ReadTree(h plumbing.Hash) (*Tree, error) {
	obj, err := r.ReadObject(h)
	if err != nil {
		return nil, err
	}
	t, ok := obj.(*Tree)
	if !ok {
		return nil, kindMismatch(obj, ObjectKindTree)
	}
	return t, nil
}

// ReadBlob reads the blob header stored under h. The content is loaded on
// demand by Blob.Content.
func (r *Repository) ReadBlob(h plumbing.Hash) (*Blob, error) {
	obj, err := r.ReadObject(h)
	if err != nil {
		return nil, err
	}
	b, ok := obj.(*Blob)
	if !ok {
		return nil, kindMismatch(obj, ObjectKindBlob)
	}
	return b, nil
}

// ReadTag reads the annotated tag object stored under h.
func (r *Repository) ReadTag(h plumbing.Hash) (*Tag, error) {
	obj, err := r.ReadObject(h)
	if err != nil {
		return nil, err
	}
	t, ok := obj.(*Tag)
	if !ok {
		return nil, kindMismatch(obj, ObjectKindTag)
	}
	return t, nil
}

// MergeBase returns the best common ancestors of a and b.
func (r *Repository) MergeBase(a, b plumbing.Hash) ([]plumbing.Hash, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ca, err := r.repo.CommitObject(a)
	if err != nil {
		return nil, mapObjectError(a, err)
	}
	cb, err := r.repo.CommitObject(b)
	if err != nil {
		return nil, mapObjectError(b, err)
	}
	bases, err := ca.MergeBase(cb)
	if err != nil {
		return nil, fmt.Errorf("merge base of %s and %s: %w", a, b, err)
	}
	out := make([]plumbing.Hash, len(bases))
	for i, c := range bases {
		out[i] = c.Hash
	}
	return out, nil
}

// blobContent reads the full content of the blob h.
func (r *Repository) blobContent(h plumbing.Hash) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, err := r.repo.BlobObject(h)
	if err != nil {
		return nil, mapObjectError(h, err)
	}
	rc, err := b.Reader()
	if err != nil {
		return nil, mapObjectError(h, err)
	}
	data, err := io.ReadAll(rc)
	if cerr := rc.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return nil, mapObjectError(h, err)
	}
	return data, nil
}

// Compile-time interface conformance check.
var _ ObjectReader = (*Repository)(nil)
