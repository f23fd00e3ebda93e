package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"sync"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
)

// Remote is a configured remote repository.
type Remote struct {
	name string
	urls []string

	repo *Repository
}

// Name returns the remote name, e.g. "origin".
func (r *Remote) Name() string { return r.name }

// URL returns the first configured fetch URL.
func (r *Remote) URL() string {
	if len(r.urls) == 0 {
		return ""
	}
	return r.urls[0]
}

// Remote looks up a configured remote by name.
func (r *Repository) Remote(name string) (*Remote, error) {
	r.mu.Lock()
	rem, err := r.repo.Remote(name)
	r.mu.Unlock()
	if errors.Is(err, gogit.ErrRemoteNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrRemoteNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("remote %s: %w", name, err)
	}
	cfg := rem.Config()
	return &Remote{name: cfg.Name, urls: cfg.URLs, repo: r}, nil
}

// Remotes lists all configured remotes.
func (r *Repository) Remotes() ([]*Remote, error) {
	r.mu.Lock()
	list, err := r.repo.Remotes()
	r.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("list remotes: %w", err)
	}
	out := make([]*Remote, 0, len(list))
	for _, rem := range list {
		cfg := rem.Config()
		out = append(out, &Remote{name: cfg.Name, urls: cfg.URLs, repo: r})
	}
	return out, nil
}

// Progress is one parsed transfer progress update from the server.
type Progress struct {
	Stage   string
	Percent int
	Current int
	Total   int
	Raw     string
}

// ProgressFunc receives progress updates during a fetch. It is called on the
// fetching goroutine.
type ProgressFunc func(Progress)

// Fetch downloads objects and updates remote tracking references. With no
// refspecs the remote's configured refspecs are used. An up-to-date remote
// is not an error.
func (rem *Remote) Fetch(ctx context.Context, refspecs []string, progress ProgressFunc) error {
	specs := make([]gitconfig.RefSpec, 0, len(refspecs))
	for _, s := range refspecs {
		rs := gitconfig.RefSpec(s)
		if err := rs.Validate(); err != nil {
			return fmt.Errorf("invalid refspec %q: %w", s, err)
		}
		specs = append(specs, rs)
	}

	opts := &gogit.FetchOptions{
		RemoteName: rem.name,
		RefSpecs:   specs,
	}
	var pw *progressWriter
	if progress != nil {
		pw = &progressWriter{fn: progress}
		opts.Progress = pw
	}

	r := rem.repo
	r.mu.Lock()
	err := r.repo.FetchContext(ctx, opts)
	r.mu.Unlock()
	if pw != nil {
		pw.Flush()
	}

	if errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("fetch %s: %w", rem.name, err)
	}
	return nil
}

var (
	progressPercentRe = regexp.MustCompile(`^(.+?):\s+(\d+)%\s+\((\d+)/(\d+)\)`)
	progressCountRe   = regexp.MustCompile(`^(.+?):\s+(\d+)`)
)

// parseProgress interprets one sideband progress line such as
// "Receiving objects:  42% (21/50)" or "Enumerating objects: 7, done.".
func parseProgress(line string) Progress {
	p := Progress{Raw: line}
	if m := progressPercentRe.FindStringSubmatch(line); m != nil {
		p.Stage = m[1]
		p.Percent, _ = strconv.Atoi(m[2])
		p.Current, _ = strconv.Atoi(m[3])
		p.Total, _ = strconv.Atoi(m[4])
		return p
	}
	if m := progressCountRe.FindStringSubmatch(line); m != nil {
		p.Stage = m[1]
		p.Current, _ = strconv.Atoi(m[2])
	}
	return p
}

// progressWriter splits the sideband progress stream on \r and \n and hands
// each complete line to fn.
type progressWriter struct {
	mu  sync.Mutex
	buf []byte
	fn  ProgressFunc
}

func (w *progressWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexAny(w.buf, "\r\n")
		if i < 0 {
			break
		}
		line := string(bytes.TrimSpace(w.buf[:i]))
		w.buf = w.buf[i+1:]
		if line != "" {
			w.fn(parseProgress(line))
		}
	}
	return len(p), nil
}

// Flush emits any trailing partial line.
func (w *progressWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if line := string(bytes.TrimSpace(w.buf)); line != "" {
		w.fn(parseProgress(line))
	}
	w.buf = nil
}
