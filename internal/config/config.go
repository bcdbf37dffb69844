// Package config holds the generator configuration and the rules for
// layering defaults, config files, environment and flags.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"cmakegen/internal/diag"
)

const (
	// DefaultProjectName is used when nothing else names the project.
	DefaultProjectName = "MyProject"
	// DefaultOutputRoot keeps generated artifacts in the CMake binary dir.
	DefaultOutputRoot = "${CMAKE_BINARY_DIR}"
	// DescriptorName is the file written at the workspace root.
	DescriptorName = "CMakeLists.txt"
)

// Standard is a C++ language standard version.
type Standard string

const (
	Std11 Standard = "11"
	Std14 Standard = "14"
	Std17 Standard = "17"
	Std20 Standard = "20"
	Std23 Standard = "23"

	DefaultStandard = Std17
)

// Standards lists every supported value in ascending order.
var Standards = []Standard{Std11, Std14, Std17, Std20, Std23}

// ParseStandard accepts "17", "c++17" and "cxx17" spellings. GNU dialects
// ("gnu++17") are rejected: the descriptor always turns compiler extensions
// off.
func ParseStandard(s string) (Standard, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(v, "gnu") {
		return "", fmt.Errorf("unsupported language standard %q: GNU dialects are not generated (expected one of %s)", s, standardList())
	}
	v = strings.TrimPrefix(v, "c++")
	v = strings.TrimPrefix(v, "cxx")
	for _, std := range Standards {
		if string(std) == v {
			return std, nil
		}
	}
	return "", fmt.Errorf("unsupported language standard %q (expected one of %s)", s, standardList())
}

func standardList() string {
	parts := make([]string, len(Standards))
	for i, s := range Standards {
		parts[i] = string(s)
	}
	return strings.Join(parts, "|")
}

// Config is the fully resolved generator configuration.
type Config struct {
	// Root is the absolute workspace root.
	Root           string
	ProjectName    string
	Standard       Standard
	OutputRoot     string
	Exclude        []string
	FollowSymlinks bool
	// Clean controls whether stale artifacts are purged before generation.
	Clean      bool
	CleanExtra []string
}

// Default returns the built-in configuration for root.
func Default(root string) Config {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return Config{
		Root:        filepath.Clean(root),
		ProjectName: DefaultProjectName,
		Standard:    DefaultStandard,
		OutputRoot:  DefaultOutputRoot,
		Clean:       true,
	}
}

// DescriptorPath returns the absolute path of the generated descriptor.
func (c Config) DescriptorPath() string {
	return filepath.Join(c.Root, DescriptorName)
}

// Overrides carries explicitly supplied values; nil fields are left alone.
type Overrides struct {
	ProjectName    *string
	Standard       *string
	OutputRoot     *string
	Exclude        []string
	FollowSymlinks *bool
	Clean          *bool
	CleanExtra     []string
}

// Apply layers o onto c. Exclusions and clean extras accumulate; scalar
// fields replace. Standard strings are parsed here so that a bad value is
// reported before anything touches the filesystem.
func (c *Config) Apply(o Overrides) error {
	if o.ProjectName != nil {
		c.ProjectName = *o.ProjectName
	}
	if o.Standard != nil {
		std, err := ParseStandard(*o.Standard)
		if err != nil {
			return malformed(diag.ConfigBadStandard, "", err)
		}
		c.Standard = std
	}
	if o.OutputRoot != nil {
		c.OutputRoot = *o.OutputRoot
	}
	if o.FollowSymlinks != nil {
		c.FollowSymlinks = *o.FollowSymlinks
	}
	if o.Clean != nil {
		c.Clean = *o.Clean
	}
	c.Exclude = appendUnique(c.Exclude, o.Exclude...)
	c.CleanExtra = appendUnique(c.CleanExtra, o.CleanExtra...)
	return nil
}

func appendUnique(dst []string, src ...string) []string {
	seen := make(map[string]struct{}, len(dst)+len(src))
	for _, s := range dst {
		seen[s] = struct{}{}
	}
	for _, s := range src {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		dst = append(dst, s)
	}
	return dst
}
