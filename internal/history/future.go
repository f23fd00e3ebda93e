package history

import "context"

// Future is the pending result of a deferred resolution.
type Future struct {
	Mode Mode
	Path string

	done chan struct{}
	res  Result
	err  error
}

func newFuture(mode Mode, path string) *Future {
	return &Future{Mode: mode, Path: path, done: make(chan struct{})}
}

func (f *Future) complete(res Result, err error) {
	f.res, f.err = res, err
	close(f.done)
}

// Done is closed once the result is available.
func (f *Future) Done() <-chan struct{} { return f.done }

// Wait blocks until the result is available or ctx ends. Abandoning a future
// does not stop the resolution behind it.
func (f *Future) Wait(ctx context.Context) (Result, error) {
	select {
	case <-f.done:
		return f.res, f.err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// WaitMillis is Wait reduced to the epoch millisecond timestamp.
func (f *Future) WaitMillis(ctx context.Context) (int64, error) {
	res, err := f.Wait(ctx)
	if err != nil {
		return 0, err
	}
	return res.Millis, nil
}
