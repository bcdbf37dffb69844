package main

import (
	"os"

	"github.com/spf13/cobra"

	"cmakegen/internal/workspace"
)

var cleanDryRun bool

var cleanCmd = &cobra.Command{
	Use:   "clean [path]",
	Short: "Remove CMakeLists.txt and CMake build artifacts",
	Long: `Remove the generated descriptor, CMakeCache.txt, cmake_install.cmake,
Makefile, CMakeFiles/ and build/ from the workspace root. Missing entries are
skipped, so clean always succeeds on a pristine workspace.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().BoolVar(&cleanDryRun, "dry-run", false, "list what would be removed without removing it")
	cleanCmd.Flags().String("config", "", "config file providing clean.extra entries")
	cleanCmd.Flags().Bool("no-config", false, "ignore config files")
}

func runClean(cmd *cobra.Command, args []string) error {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	opts, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}
	cfg, _, err := resolveConfig(cmd, pathArg(args))
	if err != nil {
		return err
	}

	report, err := workspace.Clean(cmd.Context(), cfg.Root, workspace.Options{
		Extra:  cfg.CleanExtra,
		DryRun: cleanDryRun,
	})
	if err != nil {
		return err
	}

	out := newNarrator(cmd.OutOrStdout(), opts.quiet, useColor(cmd, os.Stdout))
	verb := "removed"
	if report.DryRun {
		verb = "would remove"
	}
	for _, name := range report.Removed {
		out.printf("%s %s\n", verb, name)
	}
	out.printf("%s\n", out.dim.Sprint(report.String()))
	return nil
}

