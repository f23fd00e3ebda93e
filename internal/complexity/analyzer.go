package complexity

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/masmgr/filedate-go/internal/git"
)

// FileLineCounts returns the line count of each path in the tree of rev.
// Paths that are missing, are not files, or hold binary content (a NUL byte)
// are skipped and will not appear in the result.
func FileLineCounts(repo *git.Repository, rev string, paths []string) (map[string]int, error) {
	if len(paths) == 0 {
		return map[string]int{}, nil
	}
	if rev == "" {
		rev = "HEAD"
	}

	h, err := repo.ResolveRevision(rev)
	if err != nil {
		return nil, fmt.Errorf("failed to count lines at %s: %w", rev, err)
	}
	c, err := repo.ReadCommit(h)
	if err != nil {
		return nil, fmt.Errorf("failed to count lines at %s: %w", rev, err)
	}
	tree, err := c.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to count lines at %s: %w", rev, err)
	}

	result := make(map[string]int, len(paths))
	for _, p := range paths {
		content, err := fileContent(repo, tree, p)
		if errors.Is(err, git.ErrPathNotFound) || errors.Is(err, git.ErrUnexpectedKind) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to count lines of %s: %w", p, err)
		}
		// Skip binary files (contain NUL byte)
		if bytes.IndexByte(content, 0) >= 0 {
			continue
		}
		result[p] = countLines(content)
	}
	return result, nil
}

func fileContent(repo *git.Repository, tree *git.Tree, path string) ([]byte, error) {
	entry, err := tree.GetPath(path)
	if err != nil {
		return nil, err
	}
	if !entry.IsFile() {
		return nil, git.ErrUnexpectedKind
	}
	blob, err := repo.ReadBlob(entry.Oid)
	if err != nil {
		return nil, err
	}
	return blob.Content()
}

// countLines counts the number of lines in content.
// An empty file has 0 lines. A file with no trailing newline still counts its last line.
func countLines(content []byte) int {
	if len(content) == 0 {
		return 0
	}
	count := bytes.Count(content, []byte{'\n'})
	// If the last byte is not a newline, there's one more line
	if content[len(content)-1] != '\n' {
		count++
	}
	return count
}
