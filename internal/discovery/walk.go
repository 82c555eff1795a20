// pattern: Imperative Shell

package discovery

import (
	"iter"
	"os"
	"path/filepath"
)

const gitDirName = ".git"

// Walk lazily yields every directory under root that directly contains a
// .git directory. Ignored directories are pruned before they are queued and
// directories at maxDepth or deeper are never expanded. Unreadable
// directories are skipped. The sequence can be iterated more than once.
func Walk(root string, ignore *Matcher, maxDepth int) iter.Seq[string] {
	return func(yield func(string) bool) {
		type pending struct {
			path  string
			depth int
		}
		stack := []pending{{path: filepath.Clean(root)}}

		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			entries, err := os.ReadDir(cur.path)
			if err != nil {
				continue
			}

			var subdirs []string
			isRepo := false
			for _, entry := range entries {
				if !entry.IsDir() {
					continue
				}
				child := filepath.Join(cur.path, entry.Name())
				if ignore.Match(child) {
					continue
				}
				if entry.Name() == gitDirName {
					isRepo = true
					continue
				}
				subdirs = append(subdirs, child)
			}

			if isRepo && !yield(cur.path) {
				return
			}

			if !depthAllowed(cur.depth+1, maxDepth) {
				continue
			}
			// Push in reverse so entries pop in name order.
			for i := len(subdirs) - 1; i >= 0; i-- {
				stack = append(stack, pending{path: subdirs[i], depth: cur.depth + 1})
			}
		}
	}
}
