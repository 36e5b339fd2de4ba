// Package matcher compiles the text rules listingkit applies to free-text
// listing fields: literal stoplists and regular expressions.
// Compiled matchers are immutable and safe for concurrent use.
package matcher

import (
	"fmt"
	"regexp"
	"strings"
)

// PatternType represents the type of pattern matching to use.
type PatternType int

const (
	// Literal matches the whole (trimmed) input against the pattern text.
	Literal PatternType = iota
	// Regex uses regular expressions and matches anywhere in the input.
	Regex
)

// Matcher checks a single input against one compiled pattern.
type Matcher interface {
	// Match checks if the input matches the pattern
	Match(input string) bool
	// Pattern returns the original pattern string.
	Pattern() string
}

type matcher struct {
	pattern         string
	patternType     PatternType
	compiled        *regexp.Regexp
	text            string
	caseInsensitive bool
}

// Options configures the matcher behavior.
type Options struct {
	// CaseInsensitive makes matching case-insensitive
	CaseInsensitive bool
}

// New creates a new Matcher with the specified pattern and type.
func New(patternType PatternType, pattern string, opts ...*Options) (Matcher, error) {
	options := &Options{}
	if len(opts) > 0 && opts[0] != nil {
		options = opts[0]
	}

	m := &matcher{
		pattern:         pattern,
		patternType:     patternType,
		caseInsensitive: options.CaseInsensitive,
	}
	if err := m.compile(); err != nil {
		return nil, fmt.Errorf("failed to compile pattern: %w", err)
	}
	return m, nil
}

func (m *matcher) compile() error {
	switch m.patternType {
	case Literal:
		m.text = m.fold(strings.TrimSpace(m.pattern))
	case Regex:
		pattern := m.pattern
		if m.caseInsensitive && !strings.HasPrefix(pattern, "(?i)") {
			pattern = "(?i)" + pattern
		}
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("invalid regex pattern: %w", err)
		}
		m.compiled = compiled
	default:
		return fmt.Errorf("unsupported pattern type: %d", m.patternType)
	}
	return nil
}

func (m *matcher) fold(s string) string {
	if m.caseInsensitive {
		return strings.ToLower(s)
	}
	return s
}

// Match checks if the input matches the pattern.
func (m *matcher) Match(input string) bool {
	if m.patternType == Literal {
		return m.fold(strings.TrimSpace(input)) == m.text
	}
	return m.compiled.MatchString(input)
}

// Pattern returns the original pattern string.
func (m *matcher) Pattern() string {
	return m.pattern
}

// Set is an ordered collection of matchers. Order matters for FirstMatch.
type Set struct {
	matchers []Matcher
}

// NewSet compiles every pattern with the same type and options.
func NewSet(patternType PatternType, patterns []string, opts ...*Options) (*Set, error) {
	s := &Set{matchers: make([]Matcher, 0, len(patterns))}
	for _, pattern := range patterns {
		m, err := New(patternType, pattern, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create matcher for pattern %q: %w", pattern, err)
		}
		s.matchers = append(s.matchers, m)
	}
	return s, nil
}

// MustNewSet is NewSet for static rule tables; it panics on a bad pattern.
func MustNewSet(patternType PatternType, patterns []string, opts ...*Options) *Set {
	s, err := NewSet(patternType, patterns, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Match returns true if any pattern matches.
func (s *Set) Match(input string) bool {
	_, ok := s.FirstMatch(input)
	return ok
}

// FirstMatch returns the first matcher, in set order, that matches input.
func (s *Set) FirstMatch(input string) (Matcher, bool) {
	for _, m := range s.matchers {
		if m.Match(input) {
			return m, true
		}
	}
	return nil, false
}
