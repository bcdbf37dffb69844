// Package discover enumerates source and header files under a workspace
// root. The traversal is explicit (no shell or CMake globbing) so that its
// symlink handling and ordering are fixed and testable.
package discover

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"cmakegen/internal/diag"
	"cmakegen/internal/trace"
)

// Options tunes Discover.
type Options struct {
	// FollowSymlinks descends into symlinked directories. A link back to one
	// of its own parents is a cycle; a link whose target lies inside the root,
	// or a directory already walked under another path, is an alias. Both are
	// skipped and listed in Result.Skipped. Symlinked regular files are always
	// included.
	FollowSymlinks bool
	// Reporter receives non-fatal findings (skipped links, cycles).
	Reporter diag.Reporter
}

// Result is an immutable snapshot of one discovery pass.
type Result struct {
	// Root is the absolute workspace root the paths are relative to.
	Root string
	// Files are slash-separated, workspace-relative and sorted.
	Files []string
	// Skipped are directories reached through links that were not entered
	// (cycles and aliases), sorted. Build-time globbing must skip them too.
	Skipped []string
}

// Len returns the number of discovered files.
func (r Result) Len() int { return len(r.Files) }

// Abs returns absolute OS paths for the discovered files.
func (r Result) Abs() []string {
	out := make([]string, len(r.Files))
	for i, f := range r.Files {
		out[i] = filepath.Join(r.Root, filepath.FromSlash(f))
	}
	return out
}

// Discover walks root and returns every file whose extension is in exts and
// whose relative path is not excluded. Excluded directories are not entered.
// An unreadable directory aborts the walk with an FS failure.
func Discover(ctx context.Context, root string, exts ExtensionSet, excl *Exclusions, opts Options) (Result, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return Result{}, diag.Fail(diag.FsAccess, root, "cannot resolve workspace root", err)
	}
	abs = filepath.Clean(abs)
	info, err := os.Stat(abs)
	if err != nil {
		return Result{}, diag.Fail(diag.FsAccess, abs, "cannot stat workspace root", err)
	}
	if !info.IsDir() {
		return Result{}, diag.Fail(diag.FsNotDirectory, abs, "", nil)
	}

	w := &walker{
		ctx:      ctx,
		exts:     exts,
		excl:     excl,
		opts:     opts,
		reporter: opts.Reporter,
		tracer:   trace.FromContext(ctx),
		files:    make([]string, 0, 64),
	}
	if w.reporter == nil {
		w.reporter = diag.NopReporter{}
	}
	if opts.FollowSymlinks {
		w.dirs = newDirTracker()
		id, err := w.dirs.identify(abs)
		if err != nil {
			return Result{}, diag.Fail(diag.FsAccess, abs, "cannot stat workspace root", err)
		}
		if w.realRoot, err = filepath.EvalSymlinks(abs); err != nil {
			return Result{}, diag.Fail(diag.FsAccess, abs, "cannot resolve workspace root", err)
		}
		w.dirs.push(id)
	}
	if err := w.walk(abs, ""); err != nil {
		return Result{}, err
	}
	sort.Strings(w.files)
	sort.Strings(w.skipped)
	return Result{Root: abs, Files: w.files, Skipped: w.skipped}, nil
}

// DiscoverSources discovers SourceExtensions.
func DiscoverSources(ctx context.Context, root string, excl *Exclusions, opts Options) (Result, error) {
	return Discover(ctx, root, SourceExtensions, excl, opts)
}

// DiscoverHeaders discovers HeaderExtensions.
func DiscoverHeaders(ctx context.Context, root string, excl *Exclusions, opts Options) (Result, error) {
	return Discover(ctx, root, HeaderExtensions, excl, opts)
}

type walker struct {
	ctx      context.Context
	exts     ExtensionSet
	excl     *Exclusions
	opts     Options
	reporter diag.Reporter
	tracer   trace.Tracer
	dirs     *dirTracker
	realRoot string
	files    []string
	skipped  []string
}

func (w *walker) walk(absDir, relDir string) error {
	if err := w.ctx.Err(); err != nil {
		return err
	}
	entries, err := os.ReadDir(absDir)
	if err != nil {
		return diag.Fail(diag.FsAccess, relOrDot(relDir), "cannot read directory", err)
	}
	for _, e := range entries {
		rel := e.Name()
		if relDir != "" {
			rel = path.Join(relDir, e.Name())
		}
		if w.excl.Excluded(rel) {
			continue
		}
		abs := filepath.Join(absDir, e.Name())

		switch typ := e.Type(); {
		case typ&fs.ModeSymlink != 0:
			if err := w.visitLink(abs, rel, e.Name()); err != nil {
				return err
			}
		case typ.IsDir():
			if err := w.enter(abs, rel, false); err != nil {
				return err
			}
		case typ.IsRegular():
			w.add(rel, e.Name())
		}
	}
	return nil
}

func (w *walker) visitLink(abs, rel, name string) error {
	target, err := os.Stat(abs)
	if err != nil {
		// dangling link: nothing to compile behind it
		return nil
	}
	if target.IsDir() {
		if !w.opts.FollowSymlinks {
			diag.ReportInfo(w.reporter, diag.SymlinkNotFollowed, rel, "symlinked directory not followed")
			return nil
		}
		return w.enter(abs, rel, true)
	}
	if target.Mode().IsRegular() {
		w.add(rel, name)
	}
	return nil
}

func (w *walker) enter(abs, rel string, viaLink bool) error {
	if w.dirs == nil {
		return w.walk(abs, rel)
	}
	id, err := w.dirs.identify(abs)
	if err != nil {
		return diag.Fail(diag.FsAccess, rel, "cannot stat directory", err)
	}
	switch {
	case w.dirs.onStack(id):
		diag.ReportWarning(w.reporter, diag.SymlinkCycle, rel, "link points back at one of its parent directories")
		w.skip(rel)
		return nil
	case w.dirs.seen(id):
		diag.ReportInfo(w.reporter, diag.SymlinkAlias, rel, "directory already discovered under another path")
		w.skip(rel)
		return nil
	case viaLink && w.insideRoot(abs):
		diag.ReportInfo(w.reporter, diag.SymlinkAlias, rel, "link target lies inside the workspace and is discovered there")
		w.skip(rel)
		return nil
	}
	w.dirs.push(id)
	err = w.walk(abs, rel)
	w.dirs.pop()
	return err
}

func (w *walker) skip(rel string) {
	trace.File(w.tracer, trace.ActionSkippedDir, rel)
	w.skipped = append(w.skipped, rel)
}

// insideRoot reports whether the link at abs resolves to a directory under
// the real workspace root.
func (w *walker) insideRoot(abs string) bool {
	target, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(w.realRoot, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (w *walker) add(rel, name string) {
	if !w.exts.Match(name) {
		return
	}
	trace.File(w.tracer, trace.ActionFound, rel)
	w.files = append(w.files, rel)
}

func relOrDot(rel string) string {
	if rel == "" {
		return "."
	}
	return rel
}
