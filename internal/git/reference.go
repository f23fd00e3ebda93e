package git

import (
	"github.com/go-git/go-git/v5/plumbing"
)

// ReferenceKind tells direct references (pointing at an Oid) apart from
// symbolic ones (pointing at another reference).
type ReferenceKind int

const (
	ReferenceKindDirect ReferenceKind = iota
	ReferenceKindSymbolic
)

// String returns a string representation of the reference kind.
func (k ReferenceKind) String() string {
	switch k {
	case ReferenceKindDirect:
		return "direct"
	case ReferenceKindSymbolic:
		return "symbolic"
	default:
		return "unknown"
	}
}

// Reference is a named pointer into the object graph.
type Reference struct {
	name     plumbing.ReferenceName
	kind     ReferenceKind
	target   plumbing.Hash
	symbolic plumbing.ReferenceName

	repo *Repository
}

func newReference(r *Repository, ref *plumbing.Reference) *Reference {
	out := &Reference{name: ref.Name(), repo: r}
	if ref.Type() == plumbing.SymbolicReference {
		out.kind = ReferenceKindSymbolic
		out.symbolic = ref.Target()
	} else {
		out.kind = ReferenceKindDirect
		out.target = ref.Hash()
	}
	return out
}

// Name returns the full reference name, e.g. "refs/heads/main".
func (r *Reference) Name() string { return r.name.String() }

// Shorthand returns the human readable form of the name, e.g. "main".
func (r *Reference) Shorthand() string { return r.name.Short() }

// Kind returns whether the reference is direct or symbolic.
func (r *Reference) Kind() ReferenceKind { return r.kind }

// Target returns the Oid a direct reference points at as a hex string,
// or "" for symbolic references.
func (r *Reference) Target() string {
	if r.kind != ReferenceKindDirect {
		return ""
	}
	return r.target.String()
}

// TargetOid returns the Oid a direct reference points at, or the zero hash.
func (r *Reference) TargetOid() plumbing.Hash { return r.target }

// SymbolicTarget returns the name a symbolic reference points at, or "".
func (r *Reference) SymbolicTarget() string {
	if r.kind != ReferenceKindSymbolic {
		return ""
	}
	return r.symbolic.String()
}

// IsBranch reports whether the reference is a local branch.
func (r *Reference) IsBranch() bool { return r.name.IsBranch() }

// IsTag reports whether the reference is a tag.
func (r *Reference) IsTag() bool { return r.name.IsTag() }

// IsRemote reports whether the reference is a remote tracking branch.
func (r *Reference) IsRemote() bool { return r.name.IsRemote() }

// IsNote reports whether the reference is a note.
func (r *Reference) IsNote() bool { return r.name.IsNote() }

// Resolve follows a symbolic reference to its final Oid. Direct references
// return their own target.
func (r *Reference) Resolve() (plumbing.Hash, error) {
	if r.kind == ReferenceKindDirect {
		return r.target, nil
	}
	return r.repo.ResolveReference(r.name.String())
}

// TargetPeel returns the Oid reached by peeling the reference target when it
// is an annotated tag object. It returns "" when the target is not a tag.
func (r *Reference) TargetPeel() (string, error) {
	h, err := r.Resolve()
	if err != nil {
		return "", err
	}
	obj, err := r.repo.ReadObject(h)
	if err != nil {
		return "", err
	}
	tag, ok := obj.(*Tag)
	if !ok {
		return "", nil
	}
	peeled, err := tag.Peel()
	if err != nil {
		return "", err
	}
	return peeled.ID().String(), nil
}
