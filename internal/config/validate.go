package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/text/unicode/norm"

	"cmakegen/internal/diag"
)

// CMake accepts more than this in project(), but anything outside the set
// breaks the target name on some generators.
var projectNameRe = regexp.MustCompile(`^[A-Za-z0-9_.+-]+$`)

func malformed(code diag.Code, path string, err error) error {
	return diag.Fail(code, path, err.Error(), nil)
}

// NormalizeName trims and NFC-normalises a project name.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// ValidateName reports whether name can be used as project and target name.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("project name must not be empty")
	}
	if !projectNameRe.MatchString(name) {
		return fmt.Errorf("project name %q contains characters outside [A-Za-z0-9_.+-]", name)
	}
	return nil
}

// ValidatePattern checks one exclusion glob.
func ValidatePattern(p string) error {
	if strings.TrimSpace(p) == "" {
		return fmt.Errorf("empty exclusion pattern")
	}
	if !doublestar.ValidatePattern(p) {
		return fmt.Errorf("invalid exclusion pattern %q", p)
	}
	return nil
}

// ValidateArtifact checks that an extra clean entry names a single entry
// directly under the workspace root.
func ValidateArtifact(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("invalid artifact name %q", name)
	}
	if strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return fmt.Errorf("artifact %q must be a single path component", name)
	}
	return nil
}

// Validate normalises c in place and checks every field. It performs no
// filesystem access, so callers run it before the cleaner.
func (c *Config) Validate() error {
	c.ProjectName = NormalizeName(c.ProjectName)
	if err := ValidateName(c.ProjectName); err != nil {
		return malformed(diag.ConfigBadName, "", err)
	}
	std, err := ParseStandard(string(c.Standard))
	if err != nil {
		return malformed(diag.ConfigBadStandard, "", err)
	}
	c.Standard = std
	c.OutputRoot = strings.TrimRight(strings.TrimSpace(c.OutputRoot), "/")
	if c.OutputRoot == "" {
		return malformed(diag.ConfigBadOutputRoot, "", fmt.Errorf("output root must not be empty"))
	}
	if strings.ContainsAny(c.OutputRoot, "\"\n") {
		return malformed(diag.ConfigBadOutputRoot, "", fmt.Errorf("output root %q contains quotes or newlines", c.OutputRoot))
	}
	for _, p := range c.Exclude {
		if err := ValidatePattern(p); err != nil {
			return malformed(diag.ConfigBadPattern, "", err)
		}
	}
	for _, a := range c.CleanExtra {
		if err := ValidateArtifact(a); err != nil {
			return malformed(diag.ConfigBadArtifact, "", err)
		}
	}
	if c.Root == "" || !filepath.IsAbs(c.Root) {
		return malformed(diag.ConfigBadRoot, c.Root, fmt.Errorf("workspace root must be absolute"))
	}
	return nil
}
