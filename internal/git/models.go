package git

import (
	"strings"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Signature records who performed an action and when.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

func newSignature(s object.Signature) Signature {
	return Signature{Name: s.Name, Email: s.Email, When: s.When}
}

// Seconds returns the timestamp in seconds since the epoch.
func (s Signature) Seconds() int64 {
	return s.When.Unix()
}

// Millis returns the timestamp in milliseconds since the epoch.
// Signatures carry whole seconds, so the value is always a multiple of 1000.
func (s Signature) Millis() int64 {
	return s.When.Unix() * 1000
}

// OffsetMinutes returns the UTC offset of the signature in minutes.
func (s Signature) OffsetMinutes() int {
	_, offset := s.When.Zone()
	return offset / 60
}

// ObjectKind identifies the type of a stored object.
type ObjectKind int

const (
	ObjectKindInvalid ObjectKind = iota
	ObjectKindCommit
	ObjectKindTree
	ObjectKindBlob
	ObjectKindTag
)

// String returns a string representation of the object kind.
func (k ObjectKind) String() string {
	switch k {
	case ObjectKindCommit:
		return "commit"
	case ObjectKindTree:
		return "tree"
	case ObjectKindBlob:
		return "blob"
	case ObjectKindTag:
		return "tag"
	default:
		return "invalid"
	}
}

func objectKindFromPlumbing(t plumbing.ObjectType) ObjectKind {
	switch t {
	case plumbing.CommitObject:
		return ObjectKindCommit
	case plumbing.TreeObject:
		return ObjectKindTree
	case plumbing.BlobObject:
		return ObjectKindBlob
	case plumbing.TagObject:
		return ObjectKindTag
	default:
		return ObjectKindInvalid
	}
}

// ChangeKind represents how a path differs between a commit and its history.
type ChangeKind int

const (
	ChangeKindUnchanged ChangeKind = iota
	ChangeKindAdded
	ChangeKindModified
	ChangeKindDeleted
)

// String returns a string representation of the change kind.
func (k ChangeKind) String() string {
	switch k {
	case ChangeKindUnchanged:
		return "unchanged"
	case ChangeKindAdded:
		return "added"
	case ChangeKindModified:
		return "modified"
	case ChangeKindDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Touching reports whether the change counts as the commit touching the path.
func (k ChangeKind) Touching() bool {
	return k == ChangeKindAdded || k == ChangeKindModified || k == ChangeKindDeleted
}

// normalizePath turns a user supplied path into the slash separated,
// repository relative form used inside trees. ok is false for paths that
// cannot name a tree entry (empty, absolute, or escaping the root).
func normalizePath(p string) (string, bool) {
	p = strings.ReplaceAll(p, "\\", "/")
	if p == "" || strings.HasPrefix(p, "/") {
		return "", false
	}
	parts := strings.Split(p, "/")
	clean := parts[:0]
	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			return "", false
		}
		clean = append(clean, part)
	}
	if len(clean) == 0 {
		return "", false
	}
	return strings.Join(clean, "/"), true
}
