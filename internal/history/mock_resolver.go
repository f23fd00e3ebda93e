package history

import "sync"

// MockResolver is a test double for PathResolver.
// It allows tests to provide predefined results without needing a real Git repository.
type MockResolver struct {
	Results map[string]Result
	Errors  map[string]error
	// Panics lists paths for which Resolve panics.
	Panics map[string]any
	// Gate, when set, is received from before each call returns.
	Gate chan struct{}

	mu    sync.Mutex
	calls []string
}

// NewMockResolver creates a new MockResolver with the given results.
func NewMockResolver(results map[string]Result) *MockResolver {
	return &MockResolver{
		Results: results,
		Errors:  map[string]error{},
		Panics:  map[string]any{},
	}
}

// Resolve returns the predefined result or error for path.
func (m *MockResolver) Resolve(mode Mode, path string) (Result, error) {
	m.mu.Lock()
	m.calls = append(m.calls, mode.String()+":"+path)
	m.mu.Unlock()

	if m.Gate != nil {
		<-m.Gate
	}
	if v, ok := m.Panics[path]; ok {
		panic(v)
	}
	if err, ok := m.Errors[path]; ok {
		return Result{}, err
	}
	return m.Results[path], nil
}

// Calls returns "mode:path" for every call made so far.
func (m *MockResolver) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// Compile-time interface conformance check.
var _ PathResolver = (*MockResolver)(nil)
