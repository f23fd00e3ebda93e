package git

import (
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"testing"
)

func TestParseRange_ThreeDot(t *testing.T) {
	rr, err := ParseRange("origin/main...HEAD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rr.Base != "origin/main" {
		t.Errorf("base = %q, want %q", rr.Base, "origin/main")
	}
	if rr.Head != "HEAD" {
		t.Errorf("head = %q, want %q", rr.Head, "HEAD")
	}
	if !rr.Symmetric {
		t.Error("three-dot range should be symmetric")
	}
}

func TestParseRange_TwoDot(t *testing.T) {
	rr, err := ParseRange("abc123..def456")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rr.Base != "abc123" {
		t.Errorf("base = %q, want %q", rr.Base, "abc123")
	}
	if rr.Head != "def456" {
		t.Errorf("head = %q, want %q", rr.Head, "def456")
	}
	if rr.Symmetric {
		t.Error("two-dot range should not be symmetric")
	}
}

func TestParseRange_EmptyHead(t *testing.T) {
	rr, err := ParseRange("  origin/main... ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rr.Base != "origin/main" {
		t.Errorf("base = %q, want %q", rr.Base, "origin/main")
	}
	if rr.Head != "HEAD" {
		t.Errorf("head = %q, want %q", rr.Head, "HEAD")
	}
}

func TestParseRange_Invalid(t *testing.T) {
	for _, spec := range []string{"...HEAD", "..HEAD", "origin/main", ""} {
		t.Run(spec, func(t *testing.T) {
			if _, err := ParseRange(spec); err == nil {
				t.Fatalf("expected error for %q", spec)
			}
		})
	}
}

// TestWalker_MatchesGitRevList compares walker output against the git binary.
func TestWalker_MatchesGitRevList(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}

	dir := t.TempDir()

	runGit := func(args ...string) string {
		t.Helper()
		cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=Test",
			"GIT_AUTHOR_EMAIL=test@test.com",
			"GIT_COMMITTER_NAME=Test",
			"GIT_COMMITTER_EMAIL=test@test.com",
			"GIT_CONFIG_NOSYSTEM=1",
		)
		out, err := cmd.CombinedOutput()
		if err != nil {
			t.Fatalf("git %v failed: %v: %s", args, err, string(out))
		}
		return strings.TrimSpace(string(out))
	}

	writeFile := func(name, content string) {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	commitAt := func(msg string, ts int) {
		t.Helper()
		date := "@" + strconv.Itoa(1_700_000_000+ts) + " +0000"
		cmd := exec.Command("git", "-C", dir, "commit", "-q", "-m", msg)
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=Test",
			"GIT_AUTHOR_EMAIL=test@test.com",
			"GIT_COMMITTER_NAME=Test",
			"GIT_COMMITTER_EMAIL=test@test.com",
			"GIT_AUTHOR_DATE="+date,
			"GIT_COMMITTER_DATE="+date,
			"GIT_CONFIG_NOSYSTEM=1",
		)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git commit failed: %v: %s", err, out)
		}
	}

	runGit("init", "-q", "-b", "main")
	writeFile("base.go", "package main\n")
	runGit("add", ".")
	commitAt("initial commit", 0)

	runGit("checkout", "-q", "-b", "feature")
	writeFile("added.go", "package added\n")
	runGit("add", ".")
	commitAt("feature 1", 10)
	writeFile("base.go", "package main\n// modified\n")
	runGit("add", ".")
	commitAt("feature 2", 20)

	runGit("checkout", "-q", "main")
	writeFile("main.go", "package main\n")
	runGit("add", ".")
	commitAt("main 1", 15)
	runGit("merge", "-q", "--no-ff", "-m", "merge feature", "feature")

	repo, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	tests := []struct {
		name string
		args []string
		opts WalkOptions
		push func(w *Walker) error
	}{
		{
			name: "full history by date",
			args: []string{"rev-list", "--date-order", "HEAD"},
			push: func(w *Walker) error { return w.PushHead() },
		},
		{
			name: "first parent",
			args: []string{"rev-list", "--first-parent", "HEAD"},
			opts: WalkOptions{FirstParent: true},
			push: func(w *Walker) error { return w.PushHead() },
		},
		{
			name: "two dot range",
			args: []string{"rev-list", "--date-order", "main~1..feature"},
			push: func(w *Walker) error { return w.PushRange("main~1..feature") },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expected := strings.Fields(runGit(tt.args...))

			w := repo.Walk(tt.opts)
			if err := tt.push(w); err != nil {
				t.Fatalf("push: %v", err)
			}
			var got []string
			for c, err := range w.Commits() {
				if err != nil {
					t.Fatalf("walk: %v", err)
				}
				got = append(got, c.Oid.String())
			}
			if !slices.Equal(got, expected) {
				t.Errorf("walker = %v\ngit    = %v", got, expected)
			}
		})
	}
}
