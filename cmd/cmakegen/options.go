package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cmakegen/internal/config"
)

// globalOptions mirrors the persistent flags.
type globalOptions struct {
	color          string
	quiet          bool
	timings        bool
	maxDiagnostics int
}

func readGlobalOptions(cmd *cobra.Command) (globalOptions, error) {
	flags := cmd.Root().PersistentFlags()
	var (
		opts globalOptions
		err  error
	)
	if opts.color, err = flags.GetString("color"); err != nil {
		return opts, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch opts.color {
	case "auto", "on", "off":
	default:
		return opts, fmt.Errorf("invalid --color value %q (expected auto|on|off)", opts.color)
	}
	if opts.quiet, err = flags.GetBool("quiet"); err != nil {
		return opts, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if opts.timings, err = flags.GetBool("timings"); err != nil {
		return opts, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if opts.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return opts, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	return opts, nil
}

func useColor(cmd *cobra.Command, f *os.File) bool {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		value = "auto"
	}
	return value == "on" || (value == "auto" && isTerminal(f))
}

// addGenerateFlags registers configuration flags on cmd. The root command
// and generate share them so `cmakegen [path]` behaves like generate.
func addGenerateFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("name", "", "project and target name (default "+config.DefaultProjectName+")")
	f.String("std", "", "C++ standard: 11|14|17|20|23 (default "+string(config.DefaultStandard)+")")
	f.String("output-root", "", "directory for binaries and libraries (default "+config.DefaultOutputRoot+")")
	f.StringArray("exclude", nil, "exclusion pattern, repeatable")
	f.Bool("follow-symlinks", false, "descend into symlinked directories")
	f.Bool("no-clean", false, "keep existing artifacts")
	f.String("config", "", "config file (default: cmakegen.toml/.yaml at the workspace root)")
	f.Bool("no-config", false, "ignore config files")
	f.String("ui", "auto", "progress UI (auto|on|off)")
}

// overridesFromFlags collects only the flags the user actually set, so that
// flag defaults never shadow config files or the environment.
func overridesFromFlags(cmd *cobra.Command) (config.Overrides, error) {
	var o config.Overrides
	f := cmd.Flags()
	if f.Changed("name") {
		v, err := f.GetString("name")
		if err != nil {
			return o, err
		}
		o.ProjectName = &v
	}
	if f.Changed("std") {
		v, err := f.GetString("std")
		if err != nil {
			return o, err
		}
		o.Standard = &v
	}
	if f.Changed("output-root") {
		v, err := f.GetString("output-root")
		if err != nil {
			return o, err
		}
		o.OutputRoot = &v
	}
	if f.Changed("exclude") {
		v, err := f.GetStringArray("exclude")
		if err != nil {
			return o, err
		}
		o.Exclude = v
	}
	if f.Changed("follow-symlinks") {
		v, err := f.GetBool("follow-symlinks")
		if err != nil {
			return o, err
		}
		o.FollowSymlinks = &v
	}
	if f.Changed("no-clean") {
		v, err := f.GetBool("no-clean")
		if err != nil {
			return o, err
		}
		clean := !v
		o.Clean = &clean
	}
	return o, nil
}

// resolveConfig layers defaults, config file, environment and flags for the
// workspace at root.
func resolveConfig(cmd *cobra.Command, root string) (config.Config, string, error) {
	flags, err := overridesFromFlags(cmd)
	if err != nil {
		return config.Config{}, "", err
	}
	src := config.Sources{Lookup: os.LookupEnv, Flags: flags}
	if f := cmd.Flags().Lookup("config"); f != nil {
		src.File = strings.TrimSpace(f.Value.String())
	}
	if f := cmd.Flags().Lookup("no-config"); f != nil && f.Value.String() == "true" {
		src.SkipFile = true
	}
	return config.Resolve(root, src)
}

func pathArg(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return "."
}
