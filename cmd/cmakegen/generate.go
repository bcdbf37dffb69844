package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cmakegen/internal/pipeline"
)

var generateCmd = &cobra.Command{
	Use:     "generate [path]",
	Aliases: []string{"gen"},
	Short:   "Clean, discover and write CMakeLists.txt",
	Long: `Generate removes stale CMake artifacts from the workspace, discovers
sources and headers, derives include directories and writes CMakeLists.txt.
A workspace without sources still gets a descriptor, with a warning.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	addGenerateFlags(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	opts, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	cfg, used, err := resolveConfig(cmd, pathArg(args))
	if err != nil {
		return err
	}
	out := newNarrator(cmd.OutOrStdout(), opts.quiet, useColor(cmd, os.Stdout))
	if used != "" {
		out.printf("%s\n", out.dim.Sprintf("config: %s", formatPathForOutput(cfg.Root, used)))
	}

	req := &pipeline.Request{Config: cfg, MaxDiagnostics: opts.maxDiagnostics}
	var res pipeline.Result
	if shouldUseTUI(mode, currentUIEnv(cmd, opts.quiet)) {
		res, err = runGenerateWithUI(cmd.Context(), "cmakegen "+cfg.ProjectName, req)
	} else {
		res, err = pipeline.Run(cmd.Context(), req)
	}

	printDiagnostics(cmd.ErrOrStderr(), res.Diagnostics, cfg.Root, useColor(cmd, os.Stderr))
	if opts.timings {
		printStageTimings(cmd.ErrOrStderr(), res.Timings)
	}
	if err != nil {
		return err
	}
	out.outcome(res)
	return nil
}
