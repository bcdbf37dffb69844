package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"

	"cmakegen/internal/diag"
	"cmakegen/internal/diagfmt"
	"cmakegen/internal/pipeline"
)

type narrator struct {
	out   io.Writer
	quiet bool
	ok    *color.Color
	warn  *color.Color
	dim   *color.Color
}

func newNarrator(out io.Writer, quiet, colored bool) *narrator {
	n := &narrator{
		out:   out,
		quiet: quiet,
		ok:    color.New(color.FgGreen, color.Bold),
		warn:  color.New(color.FgYellow, color.Bold),
		dim:   color.New(color.FgHiBlack),
	}
	for _, c := range []*color.Color{n.ok, n.warn, n.dim} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return n
}

func (n *narrator) printf(format string, args ...any) {
	if n.quiet {
		return
	}
	_, _ = fmt.Fprintf(n.out, format, args...)
}

// outcome prints the one-line result of a generate run.
func (n *narrator) outcome(res pipeline.Result) {
	rel := formatPathForOutput(res.Config.Root, res.Path)
	switch res.Outcome() {
	case pipeline.OutcomeGenerated:
		n.printf("%s %s (%d sources, %d include dirs)\n",
			n.ok.Sprint("generated"), rel, len(res.Sources), len(res.IncludeDirs))
	case pipeline.OutcomeGeneratedWithWarnings:
		n.printf("%s %s (%d sources, %d include dirs)\n",
			n.warn.Sprint("generated with warnings"), rel, len(res.Sources), len(res.IncludeDirs))
	}
	if len(res.Clean.Removed) > 0 {
		n.printf("%s\n", n.dim.Sprintf("cleaned: %s", res.Clean.String()))
	}
}

func printDiagnostics(w io.Writer, bag *diag.Bag, root string, colored bool) {
	if bag == nil || bag.Len() == 0 {
		return
	}
	_ = diagfmt.Pretty(w, bag, diagfmt.PrettyOpts{
		Color:     colored,
		PathMode:  diagfmt.PathModeAuto,
		BaseDir:   root,
		ShowNotes: true,
	})
}

// formatPathForOutput prints path relative to base when that is shorter.
func formatPathForOutput(base, path string) string {
	if base == "" || path == "" {
		return path
	}
	rel, err := filepath.Rel(base, path)
	if err != nil || len(rel) >= len(path) {
		return path
	}
	return rel
}
