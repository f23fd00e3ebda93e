package history

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/masmgr/filedate-go/internal/git"
	"github.com/masmgr/filedate-go/internal/gittest"
)

func TestResolver_SingleRootCommit(t *testing.T) {
	fx := gittest.New(t)
	commits := fx.Linear(map[string]string{"a.txt": "a"})
	r := NewResolver(openRepo(t, fx))

	created, err := r.CreatedDate("a.txt")
	if err != nil {
		t.Fatalf("CreatedDate: %v", err)
	}
	modified, err := r.LatestModifiedDate("a.txt")
	if err != nil {
		t.Fatalf("LatestModifiedDate: %v", err)
	}
	want := gittest.When(0).Unix() * 1000
	if created != want || modified != want {
		t.Errorf("created = %d, modified = %d, expected both %d", created, modified, want)
	}

	res, err := r.Created("a.txt")
	if err != nil {
		t.Fatalf("Created: %v", err)
	}
	if res.Commit != commits[0] || res.Kind != git.ChangeKindAdded || res.Path != "a.txt" {
		t.Errorf("Created() = %+v", res)
	}
}

func TestResolver_ModifiedThenUnrelated(t *testing.T) {
	fx := gittest.New(t)
	// C1 adds f, C2 modifies f, C3 touches only g.
	commits := fx.Linear(
		map[string]string{"f": "1"},
		map[string]string{"f": "2"},
		map[string]string{"f": "2", "g": "new"},
	)
	r := NewResolver(openRepo(t, fx))

	latest, err := r.LatestModified("f")
	if err != nil {
		t.Fatalf("LatestModified: %v", err)
	}
	if latest.Commit != commits[1] || latest.Millis != gittest.When(1).Unix()*1000 {
		t.Errorf("LatestModified(f) = %s at %d, expected C2 %s", latest.Commit, latest.Millis, commits[1])
	}
	if latest.Kind != git.ChangeKindModified {
		t.Errorf("LatestModified(f).Kind = %s, expected modified", latest.Kind)
	}

	created, err := r.Created("f")
	if err != nil {
		t.Fatalf("Created: %v", err)
	}
	if created.Commit != commits[0] {
		t.Errorf("Created(f) = %s, expected C1 %s", created.Commit, commits[0])
	}
	if created.Millis > latest.Millis {
		t.Errorf("created %d after latest %d", created.Millis, latest.Millis)
	}

	g, err := r.LatestModified("g")
	if err != nil {
		t.Fatalf("LatestModified(g): %v", err)
	}
	if g.Commit != commits[2] {
		t.Errorf("LatestModified(g) = %s, expected C3 %s", g.Commit, commits[2])
	}
}

func TestResolver_MergeTreeSameParentIsTransparent(t *testing.T) {
	fx := gittest.New(t)
	base := fx.Commit(fx.Tree(map[string]string{"f": "base", "g": "base"}), gittest.When(0), "base")
	side := fx.Commit(fx.Tree(map[string]string{"f": "side", "g": "base"}), gittest.When(1), "side changes f", base)
	mainline := fx.Commit(fx.Tree(map[string]string{"f": "base", "g": "main"}), gittest.When(2), "main changes g", base)
	// The merge takes f from side: tree-same to side for f, different from mainline.
	merge := fx.Commit(fx.Tree(map[string]string{"f": "side", "g": "main"}), gittest.When(3), "merge", mainline, side)
	fx.Branch("main", merge)
	r := NewResolver(openRepo(t, fx))

	res, err := r.LatestModified("f")
	if err != nil {
		t.Fatalf("LatestModified: %v", err)
	}
	if res.Commit != side {
		t.Errorf("LatestModified(f) = %s, expected side commit %s (merge %s must not count)", res.Commit, side, merge)
	}

	var touching []plumbing.Hash
	for e, err := range r.History("f") {
		if err != nil {
			t.Fatalf("History: %v", err)
		}
		touching = append(touching, e.Commit.Oid)
	}
	for _, h := range touching {
		if h == merge {
			t.Errorf("History(f) includes the tree-same merge")
		}
	}
	if len(touching) != 2 || touching[0] != side || touching[1] != base {
		t.Errorf("History(f) = %v, expected [%s %s]", touching, side, base)
	}
}

func TestResolver_PathNotFound(t *testing.T) {
	fx := gittest.New(t)
	fx.Linear(map[string]string{"a.txt": "a"})
	r := NewResolver(openRepo(t, fx))

	tests := []struct {
		name string
		call func(string) (int64, error)
		msg  string
	}{
		{name: "modified", call: r.LatestModifiedDate, msg: "failed to get latest modified date for docs/missing.md"},
		{name: "created", call: r.CreatedDate, msg: "failed to get created date for docs/missing.md"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.call("docs/missing.md")
			if !errors.Is(err, git.ErrPathNotFound) {
				t.Fatalf("error = %v, expected ErrPathNotFound", err)
			}
			if !strings.Contains(err.Error(), "docs/missing.md") {
				t.Errorf("error %q should contain the path", err)
			}
			if !strings.HasPrefix(err.Error(), tt.msg) {
				t.Errorf("error %q should start with %q", err, tt.msg)
			}
		})
	}
}

func TestResolver_DeletedPathIsNotFound(t *testing.T) {
	fx := gittest.New(t)
	fx.Linear(
		map[string]string{"gone.txt": "x", "keep.txt": "k"},
		map[string]string{"keep.txt": "k"},
	)
	r := NewResolver(openRepo(t, fx))

	if _, err := r.LatestModifiedDate("gone.txt"); !errors.Is(err, git.ErrPathNotFound) {
		t.Errorf("error = %v, expected ErrPathNotFound", err)
	}
}

func TestResolver_Revision(t *testing.T) {
	fx := gittest.New(t)
	commits := fx.Linear(
		map[string]string{"f": "1"},
		map[string]string{"f": "2"},
		map[string]string{"f": "3"},
	)
	fx.LightweightTag("v1", commits[1])
	repo := openRepo(t, fx)

	r := NewResolver(repo, WithRevision("v1"))
	if r.Revision() != "v1" {
		t.Errorf("Revision() = %q", r.Revision())
	}
	res, err := r.LatestModified("f")
	if err != nil {
		t.Fatalf("LatestModified: %v", err)
	}
	if res.Commit != commits[1] {
		t.Errorf("LatestModified at v1 = %s, expected %s", res.Commit, commits[1])
	}

	_, err = NewResolver(repo, WithRevision("nope")).LatestModified("f")
	if !errors.Is(err, git.ErrReferenceNotFound) {
		t.Errorf("error = %v, expected ErrReferenceNotFound", err)
	}
}

func TestResolver_FirstParentAndTopo(t *testing.T) {
	fx := gittest.New(t)
	base := fx.Commit(fx.Tree(map[string]string{"f": "base"}), gittest.When(0), "base")
	side := fx.Commit(fx.Tree(map[string]string{"f": "side"}), gittest.When(5), "side", base)
	mainline := fx.Commit(fx.Tree(map[string]string{"f": "base", "g": "g"}), gittest.When(1), "main", base)
	merge := fx.Commit(fx.Tree(map[string]string{"f": "merged", "g": "g"}), gittest.When(6), "merge", mainline, side)
	fx.Branch("main", merge)
	repo := openRepo(t, fx)

	for _, opts := range [][]Option{
		nil,
		{WithSort(git.SortTopological)},
		{WithFirstParent(true)},
	} {
		r := NewResolver(repo, opts...)
		res, err := r.LatestModified("f")
		if err != nil {
			t.Fatalf("LatestModified: %v", err)
		}
		if res.Commit != merge {
			t.Errorf("LatestModified = %s, expected merge %s", res.Commit, merge)
		}
		created, err := r.Created("f")
		if err != nil {
			t.Fatalf("Created: %v", err)
		}
		if created.Commit != base {
			t.Errorf("Created = %s, expected base %s", created.Commit, base)
		}
	}

	var all []plumbing.Hash
	for e, err := range NewResolver(repo, WithFirstParent(true)).History("f") {
		if err != nil {
			t.Fatalf("History: %v", err)
		}
		all = append(all, e.Commit.Oid)
	}
	if len(all) != 2 || all[0] != merge || all[1] != base {
		t.Errorf("first-parent History(f) = %v, expected [%s %s]", all, merge, base)
	}
}

func TestResolver_FirstParentSeesMergedChange(t *testing.T) {
	fx := gittest.New(t)
	base := fx.Commit(fx.Tree(map[string]string{"f": "base"}), gittest.When(0), "base")
	side := fx.Commit(fx.Tree(map[string]string{"f": "side"}), gittest.When(1), "side", base)
	merge := fx.Commit(fx.Tree(map[string]string{"f": "side"}), gittest.When(2), "merge", base, side)
	fx.Branch("main", merge)
	repo := openRepo(t, fx)

	full, err := NewResolver(repo).LatestModified("f")
	if err != nil {
		t.Fatalf("LatestModified: %v", err)
	}
	if full.Commit != side {
		t.Errorf("full walk = %s, expected side %s", full.Commit, side)
	}

	fp, err := NewResolver(repo, WithFirstParent(true)).LatestModified("f")
	if err != nil {
		t.Fatalf("LatestModified: %v", err)
	}
	if fp.Commit != merge {
		t.Errorf("first-parent walk = %s, expected merge %s", fp.Commit, merge)
	}
}

func TestResolver_Directory(t *testing.T) {
	fx := gittest.New(t)
	commits := fx.Linear(
		map[string]string{"src/a.go": "1", "README": "r"},
		map[string]string{"src/a.go": "2", "README": "r"},
		map[string]string{"src/a.go": "2", "README": "r2"},
	)
	r := NewResolver(openRepo(t, fx))

	res, err := r.LatestModified("src")
	if err != nil {
		t.Fatalf("LatestModified: %v", err)
	}
	if res.Commit != commits[1] {
		t.Errorf("LatestModified(src) = %s, expected %s", res.Commit, commits[1])
	}
}

func TestResolver_CorruptHistory(t *testing.T) {
	fx := gittest.New(t)
	commits := fx.Linear(
		map[string]string{"f": "1"},
		map[string]string{"f": "1", "g": "1"},
	)
	fx.CorruptLooseObject(commits[0])
	r := NewResolver(openRepo(t, fx))

	_, err := r.Created("f")
	if !errors.Is(err, git.ErrObjectCorrupt) {
		t.Errorf("error = %v, expected ErrObjectCorrupt", err)
	}
}

func TestMode_String(t *testing.T) {
	tests := []struct {
		mode     Mode
		expected string
	}{
		{mode: ModeLatestModified, expected: "modified"},
		{mode: ModeCreated, expected: "created"},
		{mode: Mode(9), expected: "unknown"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.expected {
			t.Errorf("String() = %q, expected %q", got, tt.expected)
		}
	}
}
