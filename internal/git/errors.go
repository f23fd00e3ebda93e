package git

import (
	"errors"
	"fmt"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

var (
	// ErrNotARepository is returned when no object store is found at (or above) a path.
	ErrNotARepository = errors.New("not a git repository")
	// ErrReferenceNotFound is returned when a direct or symbolic reference is missing.
	ErrReferenceNotFound = errors.New("reference not found")
	// ErrObjectNotFound is returned when an Oid is absent from the object store.
	ErrObjectNotFound = errors.New("object not found")
	// ErrObjectCorrupt is returned when stored bytes fail integrity or decoding checks.
	ErrObjectCorrupt = errors.New("object corrupt")
	// ErrUnexpectedKind is returned when an object is not of the requested kind
	// and cannot be peeled to it.
	ErrUnexpectedKind = errors.New("unexpected object kind")
	// ErrPathNotFound is returned when a path is absent from a tree.
	ErrPathNotFound = errors.New("path not found")
	// ErrNoHistoryForPath is returned when a walk ends without a commit touching a path.
	ErrNoHistoryForPath = errors.New("no history for path")
	// ErrRemoteNotFound is returned when a named remote is not configured.
	ErrRemoteNotFound = errors.New("remote not found")

	// ErrStop can be returned by enumeration callbacks to end the enumeration
	// early. It is never returned to the caller.
	ErrStop = errors.New("stop iteration")
)

// PathError records a failed path lookup together with the path.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// mapObjectError translates a go-git object read failure into this package's
// error taxonomy. The original error stays in the chain.
func mapObjectError(h plumbing.Hash, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, plumbing.ErrObjectNotFound):
		return fmt.Errorf("%w: %s", ErrObjectNotFound, h)
	case errors.Is(err, plumbing.ErrInvalidType):
		return fmt.Errorf("%w: %s: %w", ErrUnexpectedKind, h, err)
	default:
		return fmt.Errorf("%w: %s: %w", ErrObjectCorrupt, h, err)
	}
}

func mapReferenceError(name string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		return fmt.Errorf("%w: %s", ErrReferenceNotFound, name)
	case errors.Is(err, plumbing.ErrObjectNotFound):
		return fmt.Errorf("%w: %s", ErrObjectNotFound, name)
	default:
		return fmt.Errorf("resolve %s: %w", name, err)
	}
}

func mapOpenError(path string, err error) error {
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		return fmt.Errorf("%w: %s", ErrNotARepository, path)
	}
	return fmt.Errorf("open repository %s: %w", path, err)
}

func kindMismatch(obj Object, want ObjectKind) error {
	return fmt.Errorf("%w: %s is a %s, not a %s", ErrUnexpectedKind, obj.ID(), obj.Kind(), want)
}
