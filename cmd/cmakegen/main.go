package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"cmakegen/internal/diag"
	"cmakegen/internal/diagfmt"
	"cmakegen/internal/version"
)

// Exit statuses. No-sources is a warning and exits with exitOK.
const (
	exitOK         = 0
	exitFailure    = 1
	exitConfig     = 2
	exitFilesystem = 3
)

var rootCmd = &cobra.Command{
	Use:   "cmakegen [path]",
	Short: "Generate a CMakeLists.txt for a C/C++ workspace",
	Long: `cmakegen cleans stale CMake artifacts, discovers .c/.cpp sources and
.h/.hpp headers, derives include directories and writes a CMakeLists.txt
that builds one executable. Without a subcommand it runs generate.`,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	SilenceErrors:     true,
	RunE:              runGenerate,
	PersistentPreRunE: startProfiling,
}

// stopProfiling is replaced by startProfiling and called once the command
// finishes, whether or not it failed.
var stopProfiling = func() {}

func startProfiling(cmd *cobra.Command, _ []string) error {
	stop, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	stopProfiling = stop
	return nil
}

// main initializes the CLI, registers subcommands and persistent flags, and
// executes the root command. Failures map to distinct exit statuses.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("trace", "", "write a trace to file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|phase|detail)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to file")
	addGenerateFlags(rootCmd)

	err := rootCmd.ExecuteContext(context.Background())
	stopProfiling()
	if err != nil {
		reportError(os.Stderr, err, useColor(rootCmd, os.Stderr))
		os.Exit(exitCode(err))
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, diag.ErrMalformedConfig):
		return exitConfig
	case errors.Is(err, diag.ErrFilesystemAccess):
		return exitFilesystem
	default:
		return exitFailure
	}
}

// reportError prints a classified failure as a diagnostic and anything else
// as a plain message.
func reportError(w io.Writer, err error, color bool) {
	if f, ok := diag.AsFailure(err); ok {
		bag := diag.NewBag(1)
		bag.Add(f.Diagnostic())
		if perr := diagfmt.Pretty(w, bag, diagfmt.PrettyOpts{Color: color, PathMode: diagfmt.PathModeRelative}); perr == nil {
			if f.Err != nil {
				fmt.Fprintf(w, "  caused by: %v\n", f.Err)
			}
			fmt.Fprintln(w, "aborted")
			return
		}
	}
	fmt.Fprintf(w, "error: %v\n", err)
}
