package history

import (
	"testing"

	"github.com/masmgr/filedate-go/internal/git"
	"github.com/masmgr/filedate-go/internal/gittest"
)

func openRepo(t testing.TB, r *gittest.Repo) *git.Repository {
	t.Helper()
	repo, err := git.Open(r.Dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return repo
}
