package git

import "github.com/go-git/go-git/v5/plumbing"

// ObjectReader defines the read side of the object store used by the walker
// and the path diff engine.
// This abstraction allows tests to observe or fake object reads.
type ObjectReader interface {
	ReadObject(h plumbing.Hash) (Object, error)
	ReadCommit(h plumbing.Hash) (*Commit, error)
	ReadTree(h plumbing.Hash) (*Tree, error)
	ReadBlob(h plumbing.Hash) (*Blob, error)
	ReadTag(h plumbing.Hash) (*Tag, error)
}

// Object is implemented by every wrapper returned from ReadObject.
type Object interface {
	ID() plumbing.Hash
	Kind() ObjectKind
}

// Compile-time interface conformance checks.
var (
	_ Object = (*Commit)(nil)
	_ Object = (*Tree)(nil)
	_ Object = (*Blob)(nil)
	_ Object = (*Tag)(nil)
)
