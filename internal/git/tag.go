package git

import (
	"errors"
	"fmt"
	"iter"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Tag is an annotated tag object.
type Tag struct {
	Oid        plumbing.Hash
	Name       string
	Message    string
	Tagger     Signature
	TargetOid  plumbing.Hash
	TargetKind ObjectKind

	repo *Repository
}

func newTag(r *Repository, t *object.Tag) *Tag {
	return &Tag{
		Oid:        t.Hash,
		Name:       t.Name,
		Message:    t.Message,
		Tagger:     newSignature(t.Tagger),
		TargetOid:  t.Target,
		TargetKind: objectKindFromPlumbing(t.TargetType),
		repo:       r,
	}
}

// ID returns the tag object Oid.
func (t *Tag) ID() plumbing.Hash { return t.Oid }

// Kind returns ObjectKindTag.
func (t *Tag) Kind() ObjectKind { return ObjectKindTag }

// Target reads the object the tag points at, which may itself be a tag.
func (t *Tag) Target() (Object, error) {
	return t.repo.ReadObject(t.TargetOid)
}

// Peel follows the tag chain until a non-tag object is reached.
func (t *Tag) Peel() (Object, error) {
	var obj Object = t
	for {
		tag, ok := obj.(*Tag)
		if !ok {
			return obj, nil
		}
		next, err := tag.Target()
		if err != nil {
			return nil, fmt.Errorf("peel tag %s: %w", tag.Oid, err)
		}
		obj = next
	}
}

// TagRef is one entry of the tag namespace: the Oid stored in the reference
// (a tag object for annotated tags, usually a commit for lightweight ones)
// and the full reference name.
type TagRef struct {
	Oid  plumbing.Hash
	Name string
}

// tagRefs snapshots refs/tags/* in reference-store order.
func (r *Repository) tagRefs() ([]TagRef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	it, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer it.Close()

	var refs []TagRef
	err = it.ForEach(func(ref *plumbing.Reference) error {
		refs = append(refs, TagRef{Oid: ref.Hash(), Name: ref.Name().String()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return refs, nil
}

// TagForeach calls fn once per tag with the Oid and the full reference name.
// Returning ErrStop from fn ends the enumeration without error; any other
// error ends it and is returned.
func (r *Repository) TagForeach(fn func(oid plumbing.Hash, name []byte) error) error {
	refs, err := r.tagRefs()
	if err != nil {
		return err
	}
	for _, ref := range refs {
		if err := fn(ref.Oid, []byte(ref.Name)); err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}
			return err
		}
	}
	return nil
}

// Tags returns the tags as a pull-based sequence. Breaking out of the range
// loop stops the enumeration.
func (r *Repository) Tags() iter.Seq2[TagRef, error] {
	return func(yield func(TagRef, error) bool) {
		refs, err := r.tagRefs()
		if err != nil {
			yield(TagRef{}, err)
			return
		}
		for _, ref := range refs {
			if !yield(ref, nil) {
				return
			}
		}
	}
}
