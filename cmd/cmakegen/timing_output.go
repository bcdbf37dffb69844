package main

import (
	"fmt"
	"io"

	"cmakegen/internal/observ"
)

func printStageTimings(out io.Writer, report observ.Report) {
	if out == nil || len(report.Phases) == 0 {
		return
	}
	for _, p := range report.Phases {
		_, _ = fmt.Fprintf(out, "%-11s %7.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			_, _ = fmt.Fprintf(out, "  (%s)", p.Note)
		}
		_, _ = fmt.Fprintln(out)
	}
	_, _ = fmt.Fprintf(out, "%-11s %7.2f ms\n", "total", report.TotalMS)
}
