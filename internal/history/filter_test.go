package history

import (
	"errors"
	"slices"
	"testing"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/masmgr/filedate-go/internal/gittest"
)

func TestNewPathFilter_InvalidPatternsReturnError(t *testing.T) {
	t.Run("invalid exclude pattern", func(t *testing.T) {
		_, err := NewPathFilter(nil, []string{"["})
		if !errors.Is(err, doublestar.ErrBadPattern) {
			t.Fatalf("expected ErrBadPattern for invalid exclude glob, got %v", err)
		}
	})

	t.Run("invalid include pattern", func(t *testing.T) {
		_, err := NewPathFilter([]string{"["}, nil)
		if !errors.Is(err, doublestar.ErrBadPattern) {
			t.Fatalf("expected ErrBadPattern for invalid include glob, got %v", err)
		}
	})
}

func TestPathFilter_Match(t *testing.T) {
	tests := []struct {
		name     string
		include  []string
		exclude  []string
		path     string
		expected bool
	}{
		{name: "no patterns accept all", path: "a/b.go", expected: true},
		{name: "include matches", include: []string{"**/*.go"}, path: "a/b.go", expected: true},
		{name: "include misses", include: []string{"**/*.go"}, path: "a/b.md", expected: false},
		{name: "exclude wins", include: []string{"**/*.go"}, exclude: []string{"vendor/**"}, path: "vendor/x.go", expected: false},
		{name: "exclude only", exclude: []string{"*.md"}, path: "README.md", expected: false},
		{name: "backslashes normalized", include: []string{"src/*.go"}, path: `src\main.go`, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewPathFilter(tt.include, tt.exclude)
			if err != nil {
				t.Fatalf("NewPathFilter: %v", err)
			}
			if got := f.Match(tt.path); got != tt.expected {
				t.Errorf("Match(%q) = %v, expected %v", tt.path, got, tt.expected)
			}
			// Second call is served from the cache.
			if got := f.Match(tt.path); got != tt.expected {
				t.Errorf("cached Match(%q) = %v, expected %v", tt.path, got, tt.expected)
			}
		})
	}

	var nilFilter *PathFilter
	if !nilFilter.Match("anything") {
		t.Error("expected nil filter to accept every path")
	}
}

func TestResolver_Files(t *testing.T) {
	fx := gittest.New(t)
	fx.Linear(map[string]string{
		"README.md":       "r",
		"src/main.go":     "m",
		"src/util/u.go":   "u",
		"vendor/dep/d.go": "d",
	})
	r := NewResolver(openRepo(t, fx))

	all, err := r.Files(nil)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	expected := []string{"README.md", "src/main.go", "src/util/u.go", "vendor/dep/d.go"}
	if !slices.Equal(all, expected) {
		t.Errorf("Files(nil) = %v, expected %v", all, expected)
	}

	filter, err := NewPathFilter([]string{"**/*.go"}, []string{"vendor/**"})
	if err != nil {
		t.Fatalf("NewPathFilter: %v", err)
	}
	goFiles, err := r.Files(filter)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	expected = []string{"src/main.go", "src/util/u.go"}
	if !slices.Equal(goFiles, expected) {
		t.Errorf("Files(filter) = %v, expected %v", goFiles, expected)
	}
}

func TestResolver_Files_BadRevision(t *testing.T) {
	fx := gittest.New(t)
	fx.Linear(map[string]string{"a": "a"})
	r := NewResolver(openRepo(t, fx), WithRevision("no-such-branch"))

	if _, err := r.Files(nil); err == nil {
		t.Fatal("expected error for unknown revision, got nil")
	}
}
