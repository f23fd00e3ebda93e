package history

// PathResolver resolves a single path in a single mode.
// This abstraction allows the dispatcher and the CLI to be tested without a
// real repository.
type PathResolver interface {
	Resolve(mode Mode, path string) (Result, error)
}

// Compile-time interface conformance check.
var _ PathResolver = (*Resolver)(nil)
