package diagfmt

import (
	"path"
	"path/filepath"
)

// formatPath renders a workspace-relative, slash-separated path.
func formatPath(rel, base string, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		if rel == "" || filepath.IsAbs(rel) || base == "" {
			if rel == "" {
				return base
			}
			return rel
		}
		return filepath.Join(base, filepath.FromSlash(rel))
	case PathModeBasename:
		if rel == "" {
			return filepath.Base(base)
		}
		return path.Base(filepath.ToSlash(rel))
	case PathModeRelative:
		return rel
	default:
		if rel == "" {
			return base
		}
		return rel
	}
}
