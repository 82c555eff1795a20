// pattern: Functional Core

package discovery

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Matcher tests paths against compiled ignore patterns. A path is ignored
// when any pattern matches anywhere in it.
type Matcher struct {
	patterns []*regexp.Regexp
}

// NewMatcher compiles patterns, returning the matcher built from the valid
// ones and the patterns that failed to compile.
func NewMatcher(patterns []string) (*Matcher, []string) {
	m := &Matcher{}
	var invalid []string
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			invalid = append(invalid, p)
			continue
		}
		m.patterns = append(m.patterns, re)
	}
	return m, invalid
}

// Match reports whether path is ignored.
func (m *Matcher) Match(path string) bool {
	for _, re := range m.patterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// MatchBelow reports whether any directory between root (exclusive) and path
// (inclusive) is ignored. This is the set of paths a pruning walk from root
// would test before reaching path.
func (m *Matcher) MatchBelow(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return false
	}
	cur := root
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		cur = filepath.Join(cur, part)
		if m.Match(cur) {
			return true
		}
	}
	return false
}

// literalName matches patterns that are safe to hand to fd as --exclude
// globs: as a glob such a pattern only matches an entry with exactly that
// name, which the regex form would also match.
var literalName = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// within reports the depth of path below root, or false if path is not
// inside root.
func within(root, path string) (int, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return 0, false
	}
	if rel == "." {
		return 0, true
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return 0, false
	}
	return strings.Count(rel, string(filepath.Separator)) + 1, true
}

// depthAllowed applies the depth rule: a repository at depth d is reported
// iff maxDepth is 0 or d < maxDepth.
func depthAllowed(depth, maxDepth int) bool {
	return maxDepth == 0 || depth < maxDepth
}
