// Package gittest builds small Git repositories for tests by writing objects
// straight into the object store. This gives exact control over tree layout,
// parents and timestamps.
package gittest

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Repo is a repository under construction in a temp dir. HEAD is a symbolic
// reference to refs/heads/main.
type Repo struct {
	Dir  string
	Repo *gogit.Repository

	t testing.TB
}

// New initializes an empty non-bare repository in t.TempDir().
func New(t testing.TB) *Repo {
	t.Helper()

	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	r := &Repo{Dir: dir, Repo: repo, t: t}
	r.SetRef(plumbing.NewSymbolicReference(plumbing.HEAD, "refs/heads/main"))
	return r
}

// When returns a deterministic UTC timestamp n seconds after a fixed epoch.
func When(n int) time.Time {
	return time.Unix(1_700_000_000+int64(n), 0).UTC()
}

func (r *Repo) store(obj plumbing.EncodedObject) plumbing.Hash {
	r.t.Helper()
	h, err := r.Repo.Storer.SetEncodedObject(obj)
	if err != nil {
		r.t.Fatalf("SetEncodedObject: %v", err)
	}
	return h
}

// Blob writes content as a blob.
func (r *Repo) Blob(content string) plumbing.Hash {
	r.t.Helper()
	obj := r.Repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	w, err := obj.Writer()
	if err != nil {
		r.t.Fatalf("Writer: %v", err)
	}
	if _, err := w.Write([]byte(content)); err != nil {
		r.t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		r.t.Fatalf("Close: %v", err)
	}
	return r.store(obj)
}

// File is a tree entry with explicit mode.
type File struct {
	Content string
	Mode    filemode.FileMode
}

// Tree writes nested trees for files, a map of slash separated paths to
// contents, and returns the root tree Oid.
func (r *Repo) Tree(files map[string]string) plumbing.Hash {
	r.t.Helper()
	specs := make(map[string]File, len(files))
	for p, c := range files {
		specs[p] = File{Content: c, Mode: filemode.Regular}
	}
	return r.TreeModes(specs)
}

// TreeModes is Tree with per-file modes.
func (r *Repo) TreeModes(files map[string]File) plumbing.Hash {
	r.t.Helper()

	leaves := map[string]File{}
	dirs := map[string]map[string]File{}
	for p, f := range files {
		head, rest, nested := strings.Cut(p, "/")
		if !nested {
			leaves[head] = f
			continue
		}
		if dirs[head] == nil {
			dirs[head] = map[string]File{}
		}
		dirs[head][rest] = f
	}

	var entries []object.TreeEntry
	for name, f := range leaves {
		entries = append(entries, object.TreeEntry{Name: name, Mode: f.Mode, Hash: r.Blob(f.Content)})
	}
	for name, sub := range dirs {
		entries = append(entries, object.TreeEntry{Name: name, Mode: filemode.Dir, Hash: r.TreeModes(sub)})
	}
	sortEntries(entries)

	obj := r.Repo.Storer.NewEncodedObject()
	if err := (&object.Tree{Entries: entries}).Encode(obj); err != nil {
		r.t.Fatalf("encode tree: %v", err)
	}
	return r.store(obj)
}

// sortEntries orders entries the way Git does: directories compare as if
// their name ended in "/".
func sortEntries(entries []object.TreeEntry) {
	key := func(e object.TreeEntry) string {
		if e.Mode == filemode.Dir {
			return e.Name + "/"
		}
		return e.Name
	}
	sort.Slice(entries, func(i, j int) bool { return key(entries[i]) < key(entries[j]) })
}

// Commit writes a commit whose author and committer are both at.
func (r *Repo) Commit(tree plumbing.Hash, at time.Time, msg string, parents ...plumbing.Hash) plumbing.Hash {
	r.t.Helper()
	sig := object.Signature{Name: "Test", Email: "test@example.com", When: at}
	c := &object.Commit{
		Author:       sig,
		Committer:    sig,
		Message:      msg,
		TreeHash:     tree,
		ParentHashes: parents,
	}
	obj := r.Repo.Storer.NewEncodedObject()
	if err := c.Encode(obj); err != nil {
		r.t.Fatalf("encode commit: %v", err)
	}
	return r.store(obj)
}

// SetRef stores ref.
func (r *Repo) SetRef(ref *plumbing.Reference) {
	r.t.Helper()
	if err := r.Repo.Storer.SetReference(ref); err != nil {
		r.t.Fatalf("SetReference: %v", err)
	}
}

// Branch points refs/heads/name at h.
func (r *Repo) Branch(name string, h plumbing.Hash) {
	r.t.Helper()
	r.SetRef(plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), h))
}

// LightweightTag points refs/tags/name at h.
func (r *Repo) LightweightTag(name string, h plumbing.Hash) {
	r.t.Helper()
	r.SetRef(plumbing.NewHashReference(plumbing.NewTagReferenceName(name), h))
}

// AnnotatedTag writes a tag object for target and points refs/tags/name at it.
func (r *Repo) AnnotatedTag(name string, target plumbing.Hash, kind plumbing.ObjectType, at time.Time) plumbing.Hash {
	r.t.Helper()
	tag := &object.Tag{
		Name:       name,
		Tagger:     object.Signature{Name: "Tagger", Email: "tagger@example.com", When: at},
		Message:    "release " + name + "\n",
		TargetType: kind,
		Target:     target,
	}
	obj := r.Repo.Storer.NewEncodedObject()
	if err := tag.Encode(obj); err != nil {
		r.t.Fatalf("encode tag: %v", err)
	}
	h := r.store(obj)
	r.LightweightTag(name, h)
	return h
}

// Linear commits one snapshot per element of history on main, the i-th at
// When(i), and returns the commit Oids oldest first.
func (r *Repo) Linear(history ...map[string]string) []plumbing.Hash {
	r.t.Helper()
	var out []plumbing.Hash
	for i, files := range history {
		var parents []plumbing.Hash
		if len(out) > 0 {
			parents = []plumbing.Hash{out[len(out)-1]}
		}
		out = append(out, r.Commit(r.Tree(files), When(i), "commit", parents...))
	}
	if len(out) > 0 {
		r.Branch("main", out[len(out)-1])
	}
	return out
}

// CorruptLooseObject overwrites the loose object file for h with bytes that
// are not valid zlib data.
func (r *Repo) CorruptLooseObject(h plumbing.Hash) {
	r.t.Helper()
	hex := h.String()
	p := filepath.Join(r.Dir, ".git", "objects", hex[:2], hex[2:])
	if err := os.Chmod(p, 0o644); err != nil {
		r.t.Fatalf("Chmod: %v", err)
	}
	if err := os.WriteFile(p, []byte("definitely not zlib"), 0o644); err != nil {
		r.t.Fatalf("WriteFile: %v", err)
	}
}
