// Package discover decides which repository files are packaged.
//
// Patterns are shell globs evaluated against the forward-slash path of a file
// relative to the packaging root. A "*" matches any run of characters,
// separators included, so "*.py" matches "a/b/c.py" and "**" needs no special
// handling. A backslash is an ordinary character, never an escape. Malformed
// patterns never fail; they match nothing.
package discover

import (
	"strings"

	"github.com/gobwas/glob"
)

// Match reports whether candidate, a forward-slash path relative to the root,
// matches the shell glob pattern.
func Match(pattern string, candidate string) bool {
	return compilePattern(pattern).Match(candidate)
}

// MatchAny reports whether any of the patterns matches candidate.
func MatchAny(patterns []string, candidate string) bool {
	return CompilePatterns(patterns).MatchAny(candidate)
}

// PatternSet is an ordered list of compiled glob patterns.
type PatternSet struct {
	patterns []string
	matchers []glob.Glob
}

// CompilePatterns compiles every pattern once. Blank or malformed patterns
// compile to matchers that never match.
func CompilePatterns(patterns []string) PatternSet {
	set := PatternSet{
		patterns: make([]string, 0, len(patterns)),
		matchers: make([]glob.Glob, 0, len(patterns)),
	}
	for _, pattern := range patterns {
		set.patterns = append(set.patterns, pattern)
		set.matchers = append(set.matchers, compilePattern(pattern))
	}
	return set
}

// Empty reports whether the set holds no patterns at all.
func (set PatternSet) Empty() bool {
	return len(set.matchers) == 0
}

// Patterns returns the source patterns in their original order.
func (set PatternSet) Patterns() []string {
	return append([]string(nil), set.patterns...)
}

// MatchAny reports whether any pattern in the set matches candidate.
func (set PatternSet) MatchAny(candidate string) bool {
	for _, matcher := range set.matchers {
		if matcher.Match(candidate) {
			return true
		}
	}
	return false
}

type neverMatch struct{}

func (neverMatch) Match(string) bool { return false }

func compilePattern(pattern string) glob.Glob {
	trimmedPattern := strings.TrimSpace(pattern)
	if trimmedPattern == "" {
		return neverMatch{}
	}
	// No separators: "*" must cross "/" like fnmatch does. Backslashes are
	// literal characters in fnmatch, so they are escaped for glob.
	compiled, compileError := glob.Compile(strings.ReplaceAll(trimmedPattern, `\`, `\\`))
	if compileError != nil {
		return neverMatch{}
	}
	return compiled
}
