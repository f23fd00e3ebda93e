package git

import (
	"github.com/go-git/go-git/v5/plumbing/filemode"
)

// kindForMode returns the kind of object a tree entry with the given mode
// points at. Submodule entries (gitlinks) reference a commit in another
// repository.
func kindForMode(m filemode.FileMode) ObjectKind {
	switch m {
	case filemode.Dir:
		return ObjectKindTree
	case filemode.Submodule:
		return ObjectKindCommit
	case filemode.Regular, filemode.Executable, filemode.Symlink, filemode.Deprecated:
		return ObjectKindBlob
	default:
		return ObjectKindInvalid
	}
}

// isFileMode returns true if the mode represents a regular file, executable or symlink.
func isFileMode(m filemode.FileMode) bool {
	return kindForMode(m) == ObjectKindBlob
}
