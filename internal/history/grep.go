package history

import (
	"fmt"
	"regexp"
	"strings"
)

// MessageMatcher selects commits by matching their messages against regex
// patterns. Patterns are case-insensitive; a matcher without patterns
// accepts every message.
type MessageMatcher struct {
	patterns []*regexp.Regexp
}

// NewMessageMatcher compiles patterns, skipping blank ones.
func NewMessageMatcher(patterns []string) (*MessageMatcher, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		// Add case-insensitive flag if not already present
		if !strings.HasPrefix(p, "(?i)") {
			p = "(?i)" + p
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid message pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return &MessageMatcher{patterns: compiled}, nil
}

// Match reports whether message matches any pattern.
func (m *MessageMatcher) Match(message string) bool {
	if m == nil || len(m.patterns) == 0 {
		return true
	}
	for _, re := range m.patterns {
		if re.MatchString(message) {
			return true
		}
	}
	return false
}
