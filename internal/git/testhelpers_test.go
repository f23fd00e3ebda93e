package git

import (
	"testing"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/masmgr/filedate-go/internal/gittest"
)

type fixture struct {
	*gittest.Repo
	t testing.TB
}

func newFixture(t testing.TB) *fixture {
	t.Helper()
	return &fixture{Repo: gittest.New(t), t: t}
}

var when = gittest.When

func (f *fixture) open() *Repository {
	f.t.Helper()
	r, err := Open(f.Dir)
	if err != nil {
		f.t.Fatalf("Open: %v", err)
	}
	return r
}

// countingReader records how many trees are read through it.
type countingReader struct {
	ObjectReader
	trees int
}

func (c *countingReader) ReadTree(h plumbing.Hash) (*Tree, error) {
	c.trees++
	return c.ObjectReader.ReadTree(h)
}
