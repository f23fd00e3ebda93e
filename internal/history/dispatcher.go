package history

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"
)

// ErrDispatcherClosed is returned by futures submitted after Close.
var ErrDispatcherClosed = errors.New("dispatcher closed")

// Dispatcher runs resolutions either inline (Blocking) or on a bounded
// worker pool (Deferred). Both paths call the same PathResolver, so results
// are identical for the same repository state.
type Dispatcher struct {
	resolver PathResolver
	workers  int
	pool     *pool.Pool

	mu        sync.Mutex
	closed    bool
	submits   sync.WaitGroup
	closeOnce sync.Once
}

// NewDispatcher creates a dispatcher with at most workers concurrent
// deferred resolutions. workers <= 0 means runtime.NumCPU().
func NewDispatcher(resolver PathResolver, workers int) *Dispatcher {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Dispatcher{
		resolver: resolver,
		workers:  workers,
		pool:     pool.New().WithMaxGoroutines(workers),
	}
}

// Workers returns the pool size.
func (d *Dispatcher) Workers() int { return d.workers }

// Blocking resolves path on the calling goroutine.
func (d *Dispatcher) Blocking(mode Mode, path string) (Result, error) {
	return d.resolver.Resolve(mode, path)
}

// Deferred schedules the resolution and returns immediately. A panic in the
// resolver is recovered and delivered as the future's error.
func (d *Dispatcher) Deferred(mode Mode, path string) *Future {
	f := newFuture(mode, path)

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		f.complete(Result{}, ErrDispatcherClosed)
		return f
	}
	d.submits.Add(1)
	d.mu.Unlock()

	// pool.Go blocks while all workers are busy; submit off the caller's
	// goroutine so Deferred never waits.
	go func() {
		defer d.submits.Done()
		d.pool.Go(func() {
			f.complete(d.run(mode, path))
		})
	}()
	return f
}

func (d *Dispatcher) run(mode Mode, path string) (res Result, err error) {
	var pc panics.Catcher
	pc.Try(func() {
		res, err = d.resolver.Resolve(mode, path)
	})
	if r := pc.Recovered(); r != nil {
		return Result{}, fmt.Errorf("failed to resolve %s for %s: %w", mode, path, r.AsError())
	}
	return res, err
}

// Outcome pairs a path with its resolution result or error.
type Outcome struct {
	Path   string
	Result Result
	Err    error
}

// ResolveAll resolves every path on the worker pool and returns outcomes in
// the order of paths. Per-path failures are reported in Outcome.Err; the
// returned error is non-nil only when ctx ends first.
func (d *Dispatcher) ResolveAll(ctx context.Context, mode Mode, paths []string) ([]Outcome, error) {
	futures := make([]*Future, len(paths))
	for i, p := range paths {
		futures[i] = d.Deferred(mode, p)
	}

	out := make([]Outcome, len(paths))
	for i, f := range futures {
		res, err := f.Wait(ctx)
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, ctxErr
		}
		out[i] = Outcome{Path: f.Path, Result: res, Err: err}
	}
	return out, nil
}

// Close stops accepting deferred work and waits for in-flight resolutions.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		d.mu.Unlock()

		d.submits.Wait()
		d.pool.Wait()
	})
}
