package discover

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"cmakegen/internal/config"
	"cmakegen/internal/diag"
)

// DefaultExclusions: build output, VCS metadata, CMake's own cache directory.
var DefaultExclusions = []string{"build", ".git", "CMakeFiles"}

// Exclusions is a compiled set of exclusion patterns.
//
// A pattern without a slash is matched against every path component, so
// "build" prunes build/ at any depth. A pattern with a slash, or one written
// with a leading "/" or "./", is anchored: it is matched against the
// workspace-relative path and each of its directory prefixes, so
// "third_party/*/tests" prunes exactly those directories.
type Exclusions struct {
	entries []exclusion
}

type exclusion struct {
	pattern  string
	anchored bool
}

// CompileExclusions validates and compiles patterns. Duplicates are dropped
// and the original order is kept.
func CompileExclusions(patterns []string) (*Exclusions, error) {
	e := &Exclusions{}
	seen := make(map[string]struct{}, len(patterns))
	for _, raw := range patterns {
		if err := config.ValidatePattern(raw); err != nil {
			return nil, diag.Fail(diag.ConfigBadPattern, "", err.Error(), nil)
		}
		anchored := strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "./")
		p := strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(raw, "./"), "/"), "/")
		if p == "" {
			return nil, diag.Fail(diag.ConfigBadPattern, "", fmt.Sprintf("exclusion pattern %q matches the workspace root", raw), nil)
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		e.entries = append(e.entries, exclusion{pattern: p, anchored: anchored || strings.Contains(p, "/")})
	}
	return e, nil
}

// WithDefaults compiles DefaultExclusions followed by extra.
func WithDefaults(extra ...string) (*Exclusions, error) {
	all := make([]string, 0, len(DefaultExclusions)+len(extra))
	all = append(all, DefaultExclusions...)
	all = append(all, extra...)
	return CompileExclusions(all)
}

// WithPaths returns a copy of e that also excludes each workspace-relative
// path literally, anchored at the root.
func (e *Exclusions) WithPaths(rels ...string) *Exclusions {
	out := &Exclusions{}
	if e != nil {
		out.entries = append(out.entries, e.entries...)
	}
	for _, rel := range rels {
		if rel == "" || rel == "." {
			continue
		}
		out.entries = append(out.entries, exclusion{pattern: escapeGlob(rel), anchored: true})
	}
	return out
}

func escapeGlob(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(`*?[]{}\`, s[i]) >= 0 {
			sb.WriteByte('\\')
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// Patterns returns the normalised patterns in declaration order.
func (e *Exclusions) Patterns() []string {
	if e == nil {
		return nil
	}
	out := make([]string, len(e.entries))
	for i, x := range e.entries {
		out[i] = x.pattern
	}
	return out
}

// Excluded reports whether the slash-separated relative path rel, or any of
// its parents, is excluded.
func (e *Exclusions) Excluded(rel string) bool {
	if e == nil || rel == "" || rel == "." {
		return false
	}
	parts := strings.Split(rel, "/")
	for i, comp := range parts {
		prefix := strings.Join(parts[:i+1], "/")
		for _, x := range e.entries {
			subject := comp
			if x.anchored {
				subject = prefix
			}
			// patterns were validated, Match cannot fail
			if ok, _ := doublestar.Match(x.pattern, subject); ok {
				return true
			}
		}
	}
	return false
}
