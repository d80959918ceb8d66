package main

import (
	"fmt"
	"os"
	"regexp"

	gitignore "github.com/monochromegane/go-gitignore"
)

// PatternError reports an exclusion rule that could not be compiled.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid exclude pattern '%s': %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// Matcher decides whether a tracked path is excluded from counting.
// A path is excluded when any regular expression matches it, or when the
// optional gitignore-style rule set ignores it.
type Matcher struct {
	patterns []*regexp.Regexp
	ignore   gitignore.IgnoreMatcher
}

// NewMatcher compiles every pattern up front. The first pattern that fails
// to compile aborts with a *PatternError naming it.
func NewMatcher(patterns []string) (*Matcher, error) {
	m := &Matcher{patterns: make([]*regexp.Regexp, 0, len(patterns))}
	for _, p := range patterns {
		rx, err := regexp.Compile(p)
		if err != nil {
			return nil, &PatternError{Pattern: p, Err: err}
		}
		m.patterns = append(m.patterns, rx)
	}
	return m, nil
}

// WithIgnoreFile adds the rules of a gitignore-syntax file. Patterns in the
// file are evaluated relative to the repository root.
func (m *Matcher) WithIgnoreFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to read ignore file '%s': %w", path, err)
	}
	defer f.Close()

	m.ignore = gitignore.NewGitIgnoreFromReader(".", f)
	return nil
}

// Excluded reports whether path matches any exclusion rule.
func (m *Matcher) Excluded(path string) bool {
	for _, rx := range m.patterns {
		if rx.MatchString(path) {
			return true
		}
	}
	if m.ignore == nil {
		return false
	}
	if m.ignore.Match(path, false) {
		return true
	}
	// Rules like "docs/" only match directories, so test every ancestor.
	for i := 1; i < len(path); i++ {
		if path[i] == '/' && m.ignore.Match(path[:i], true) {
			return true
		}
	}
	return false
}

// filterPaths keeps the paths that no rule excludes, preserving order.
func (m *Matcher) filterPaths(paths []string) []string {
	kept := make([]string, 0, len(paths))
	for _, p := range paths {
		if !m.Excluded(p) {
			kept = append(kept, p)
		}
	}
	return kept
}
