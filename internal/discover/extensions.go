package discover

import (
	"path"
	"sort"
)

// ExtensionSet is a set of file extensions including the leading dot.
// Matching is exact (case-sensitive), the same way CMake globs behave on
// case-sensitive filesystems.
type ExtensionSet map[string]struct{}

// Extensions builds an ExtensionSet.
func Extensions(exts ...string) ExtensionSet {
	s := make(ExtensionSet, len(exts))
	for _, e := range exts {
		if e == "" {
			continue
		}
		if e[0] != '.' {
			e = "." + e
		}
		s[e] = struct{}{}
	}
	return s
}

var (
	// SourceExtensions are compiled into the target.
	SourceExtensions = Extensions(".cpp", ".c")
	// HeaderExtensions are listed for IDE visibility and drive include dirs.
	HeaderExtensions = Extensions(".h", ".hpp")
)

// Match reports whether name carries one of the extensions.
func (s ExtensionSet) Match(name string) bool {
	ext := path.Ext(name)
	if ext == "" {
		return false
	}
	_, ok := s[ext]
	return ok
}

// Sorted returns the extensions in lexicographic order.
func (s ExtensionSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for e := range s {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

// Globs returns one "*<ext>" glob per extension, sorted.
func (s ExtensionSet) Globs() []string {
	exts := s.Sorted()
	out := make([]string, len(exts))
	for i, e := range exts {
		out[i] = "*" + e
	}
	return out
}
