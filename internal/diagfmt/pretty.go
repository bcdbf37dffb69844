package diagfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"cmakegen/internal/diag"
)

// palette keeps one color per severity plus path/note accents.
type palette struct {
	err, warn, info, path, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:  color.New(color.FgRed, color.Bold),
		warn: color.New(color.FgYellow, color.Bold),
		info: color.New(color.FgCyan),
		path: color.New(color.Bold),
		note: color.New(color.FgHiBlack),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.path, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>: <SEV> <CODE>: <Message>
// затем Notes с отступом. Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) error {
	if bag == nil {
		return nil
	}
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		loc := formatPath(d.Path, opts.BaseDir, opts.PathMode)
		prefix := ""
		if loc != "" {
			prefix = p.path.Sprint(loc) + ": "
		}
		sev := p.severity(d.Severity).Sprintf("%s %s", d.Severity, d.Code.ID())
		if _, err := fmt.Fprintf(w, "%s%s: %s\n", prefix, sev, d.Message); err != nil {
			return err
		}
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			line := n.Msg
			if n.Path != "" {
				line = formatPath(n.Path, opts.BaseDir, opts.PathMode) + ": " + n.Msg
			}
			if _, err := fmt.Fprintf(w, "  %s %s\n", p.note.Sprint("note:"), line); err != nil {
				return err
			}
		}
	}
	if dropped := bag.Dropped(); dropped > 0 {
		if _, err := fmt.Fprintf(w, "%s\n", p.note.Sprintf("... %d more diagnostic(s) not shown", dropped)); err != nil {
			return err
		}
	}
	return nil
}
