// Package includes reduces discovered headers to compiler search directories.
package includes

import (
	"path"
	"sort"
)

// Root is how the workspace root appears in a derived directory list.
const Root = "."

// Derive returns the parent directory of every header, deduplicated and
// sorted. Headers are slash-separated workspace-relative paths; a header at
// the root yields Root. The result is never nil.
func Derive(headers []string) []string {
	seen := make(map[string]struct{}, len(headers))
	dirs := make([]string, 0, len(headers))
	for _, h := range headers {
		if h == "" {
			continue
		}
		dir := path.Dir(path.Clean(h))
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}
