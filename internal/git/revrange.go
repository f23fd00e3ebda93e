package git

import (
	"fmt"
	"strings"
)

// RevisionRange is a parsed "base..head" or "base...head" expression.
type RevisionRange struct {
	Base string
	Head string
	// Symmetric is set for the three-dot form: commits reachable from either
	// side but not from both.
	Symmetric bool
}

// ParseRange splits a range expression into base and head revisions.
// Supports both "..." (three-dot) and ".." (two-dot) syntax. An empty head
// means HEAD.
func ParseRange(spec string) (RevisionRange, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return RevisionRange{}, fmt.Errorf("empty revision range")
	}

	var rr RevisionRange
	// Try three-dot first (symmetric difference)
	if idx := strings.Index(spec, "..."); idx != -1 {
		rr = RevisionRange{Base: spec[:idx], Head: spec[idx+3:], Symmetric: true}
	} else if idx := strings.Index(spec, ".."); idx != -1 {
		rr = RevisionRange{Base: spec[:idx], Head: spec[idx+2:]}
	} else {
		return RevisionRange{}, fmt.Errorf("invalid revision range %q: expected 'base..head' or 'base...head'", spec)
	}

	if rr.Base == "" {
		return RevisionRange{}, fmt.Errorf("invalid revision range %q: missing base revision", spec)
	}
	if rr.Head == "" {
		rr.Head = "HEAD"
	}

	return rr, nil
}
