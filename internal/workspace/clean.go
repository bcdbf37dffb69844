// Package workspace removes generated descriptors and transient build
// artifacts from a workspace root.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cmakegen/internal/config"
	"cmakegen/internal/diag"
	"cmakegen/internal/trace"
)

// Kind restricts what an artifact name may match on disk.
type Kind uint8

const (
	KindFile Kind = iota
	KindDir
	// KindAny is used for user-configured extras.
	KindAny
)

// matches reports whether an entry with the given (Lstat) info is of kind k.
// Symlinks match every kind; only the link itself is ever removed.
func (k Kind) matches(st os.FileInfo) bool {
	if st.Mode()&os.ModeSymlink != 0 {
		return true
	}
	switch k {
	case KindFile:
		return !st.IsDir()
	case KindDir:
		return st.IsDir()
	}
	return true
}

// Artifact is one removable entry directly under the workspace root.
type Artifact struct {
	Name string
	Kind Kind
}

// Artifacts is the fixed removal order. The descriptor goes first so that an
// interrupted clean never leaves a descriptor pointing at half-removed caches.
var Artifacts = []Artifact{
	{Name: config.DescriptorName},
	{Name: "CMakeCache.txt"},
	{Name: "cmake_install.cmake"},
	{Name: "Makefile"},
	{Name: "CMakeFiles", Kind: KindDir},
	{Name: "build", Kind: KindDir},
}

// Options tunes Clean.
type Options struct {
	// Extra names additional single-component entries to remove.
	Extra  []string
	DryRun bool
}

// Report lists what Clean did, in removal order.
type Report struct {
	Removed []string
	Skipped []string
	DryRun  bool
}

// Clean removes known artifacts under root. Missing entries are skipped, so
// repeated runs and pristine workspaces both succeed. Any other filesystem
// error is fatal and reported as an FS failure.
func Clean(ctx context.Context, root string, opts Options) (Report, error) {
	report := Report{DryRun: opts.DryRun}

	info, err := os.Stat(root)
	if err != nil {
		return report, diag.Fail(diag.FsAccess, root, "cannot stat workspace", err)
	}
	if !info.IsDir() {
		return report, diag.Fail(diag.FsNotDirectory, root, "", nil)
	}

	targets := make([]Artifact, 0, len(Artifacts)+len(opts.Extra))
	targets = append(targets, Artifacts...)
	for _, name := range opts.Extra {
		if err := config.ValidateArtifact(name); err != nil {
			return report, diag.Fail(diag.ConfigBadArtifact, name, err.Error(), nil)
		}
		targets = append(targets, Artifact{Name: name, Kind: KindAny})
	}

	tracer := trace.FromContext(ctx)
	for _, a := range targets {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		path := filepath.Join(root, a.Name)
		st, err := os.Lstat(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				report.Skipped = append(report.Skipped, a.Name)
				continue
			}
			return report, diag.Fail(diag.FsAccess, a.Name, "cannot stat artifact", err)
		}
		if !a.Kind.matches(st) {
			// e.g. a script named build or a directory named Makefile: user data
			report.Skipped = append(report.Skipped, a.Name)
			continue
		}
		if !opts.DryRun {
			if err := removeEntry(path, st); err != nil {
				return report, diag.Fail(diag.FsAccess, a.Name, "cannot remove artifact", err)
			}
		}
		trace.File(tracer, cleanAction(opts.DryRun), a.Name)
		report.Removed = append(report.Removed, a.Name)
	}
	return report, nil
}

// removeEntry never follows a symlink: the link itself is removed.
func removeEntry(path string, st os.FileInfo) error {
	if st.Mode()&os.ModeSymlink != 0 || !st.IsDir() {
		return os.Remove(path)
	}
	return os.RemoveAll(path)
}

func cleanAction(dry bool) trace.Action {
	if dry {
		return trace.ActionWouldRemove
	}
	return trace.ActionRemoved
}

// String renders a one-line summary.
func (r Report) String() string {
	verb := "removed"
	if r.DryRun {
		verb = "would remove"
	}
	if len(r.Removed) == 0 {
		return "nothing to clean"
	}
	return fmt.Sprintf("%s %d artifact(s)", verb, len(r.Removed))
}
