package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on", "always":
		return uiModeOn, nil
	case "off", "never":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

// uiEnv is what auto mode decides on.
type uiEnv struct {
	quiet bool
	// the view needs a terminal to draw on and one to read ctrl+c from
	stdoutTTY bool
	stdinTTY  bool
	// a stderr trace stream would tear the redrawn stage table
	traceOnStderr bool
}

// shouldUseTUI: --quiet always wins, explicit modes come next.
func shouldUseTUI(mode uiMode, env uiEnv) bool {
	if env.quiet {
		return false
	}
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return env.stdoutTTY && env.stdinTTY && !env.traceOnStderr
	}
}

func currentUIEnv(cmd *cobra.Command, quiet bool) uiEnv {
	return uiEnv{
		quiet:         quiet,
		stdoutTTY:     isTerminal(os.Stdout),
		stdinTTY:      isTerminal(os.Stdin),
		traceOnStderr: traceTargetsStderr(cmd),
	}
}

// traceTargetsStderr mirrors setupTracing: any enabled trace without a file
// path goes to stderr.
func traceTargetsStderr(cmd *cobra.Command) bool {
	flags := cmd.Root().PersistentFlags()
	out, _ := flags.GetString("trace")
	level, _ := flags.GetString("trace-level")
	enabled := out != "" || (level != "" && !strings.EqualFold(level, "off"))
	return enabled && (out == "" || out == "-")
}
