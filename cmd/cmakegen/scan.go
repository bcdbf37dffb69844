package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"

	"cmakegen/internal/diag"
	"cmakegen/internal/pipeline"
)

var (
	scanFormat string
	scanOutput string
)

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Show what generate would compile, without touching the workspace",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanFormat, "format", "text", "output format (text|json|msgpack)")
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "", "write the report to a file instead of stdout")
	scanCmd.Flags().StringArray("exclude", nil, "exclusion pattern, repeatable")
	scanCmd.Flags().Bool("follow-symlinks", false, "descend into symlinked directories")
	scanCmd.Flags().String("config", "", "config file (default: cmakegen.toml/.yaml at the workspace root)")
	scanCmd.Flags().Bool("no-config", false, "ignore config files")
}

func runScan(cmd *cobra.Command, args []string) error {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	opts, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}
	format := strings.ToLower(strings.TrimSpace(scanFormat))
	switch format {
	case "text", "json", "msgpack":
	default:
		return fmt.Errorf("unsupported format %q (must be text, json or msgpack)", scanFormat)
	}
	if format == "msgpack" && scanOutput == "" && isTerminal(os.Stdout) {
		return fmt.Errorf("refusing to write msgpack to a terminal; use -o <file>")
	}

	cfg, _, err := resolveConfig(cmd, pathArg(args))
	if err != nil {
		return err
	}
	bag := diag.NewBag(opts.maxDiagnostics)
	report, err := pipeline.Scan(cmd.Context(), cfg, bag)
	if err != nil {
		return err
	}
	if !opts.quiet {
		printDiagnostics(cmd.ErrOrStderr(), bag, cfg.Root, useColor(cmd, os.Stderr))
	}

	if scanOutput == "" {
		return writeScan(cmd.OutOrStdout(), report, format)
	}
	// #nosec G304 -- path comes from the user's -o flag
	f, err := os.Create(scanOutput)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", scanOutput, err)
	}
	if err := writeScan(f, report, format); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %q: %w", scanOutput, err)
	}
	return f.Close()
}

func writeScan(w io.Writer, report pipeline.ScanReport, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "msgpack":
		enc := msgpack.NewEncoder(w)
		enc.SetSortMapKeys(true)
		return enc.Encode(report)
	default:
		return writeScanText(w, report)
	}
}

func writeScanText(w io.Writer, r pipeline.ScanReport) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "root:    %s\n", r.Root)
	fmt.Fprintf(&sb, "project: %s (C++%s)\n", r.ProjectName, r.Standard)
	fmt.Fprintf(&sb, "exclude: %s\n", strings.Join(r.Exclude, ", "))
	section := func(title string, items []string) {
		fmt.Fprintf(&sb, "%s (%d):\n", title, len(items))
		for _, it := range items {
			sb.WriteString("  " + it + "\n")
		}
	}
	section("sources", r.Sources)
	section("headers", r.Headers)
	section("include dirs", r.IncludeDirs)
	if len(r.SkippedDirs) > 0 {
		section("skipped links", r.SkippedDirs)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
