// pattern: Functional Core

package discovery

import (
	"slices"
	"strings"
)

// Rank orders repositories with changes first, then by path. The input is
// not modified.
func Rank(repos []Repository) []Repository {
	out := slices.Clone(repos)
	slices.SortFunc(out, compareRepositories)
	return out
}

func compareRepositories(a, b Repository) int {
	if a.HasChanges != b.HasChanges {
		if a.HasChanges {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Path, b.Path)
}
