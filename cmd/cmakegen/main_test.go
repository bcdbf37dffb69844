package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"

	"cmakegen/internal/config"
	"cmakegen/internal/diag"
	"cmakegen/internal/observ"
	"cmakegen/internal/pipeline"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{config.EnvName, config.EnvStandard, config.EnvOutputRoot, config.EnvExclude, config.EnvFollowSymlinks} {
		t.Setenv(key, "")
	}
}

func newFlagCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addGenerateFlags(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return cmd
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, exitOK},
		{errors.New("boom"), exitFailure},
		{diag.Fail(diag.ConfigBadStandard, "", "", nil), exitConfig},
		{fmt.Errorf("discover: %w", diag.Fail(diag.FsAccess, "src", "", nil)), exitFilesystem},
	}
	for _, tc := range cases {
		if got := exitCode(tc.err); got != tc.want {
			t.Errorf("exitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, "on": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatalf("expected error for invalid mode")
	}
	tty := uiEnv{stdoutTTY: true, stdinTTY: true}
	if shouldUseTUI(uiModeOff, tty) || !shouldUseTUI(uiModeOn, uiEnv{}) {
		t.Fatalf("explicit modes ignored")
	}
}

func TestShouldUseTUIAuto(t *testing.T) {
	cases := []struct {
		name string
		mode uiMode
		env  uiEnv
		want bool
	}{
		{"interactive", uiModeAuto, uiEnv{stdoutTTY: true, stdinTTY: true}, true},
		{"piped stdout", uiModeAuto, uiEnv{stdinTTY: true}, false},
		{"no stdin", uiModeAuto, uiEnv{stdoutTTY: true}, false},
		{"trace on stderr", uiModeAuto, uiEnv{stdoutTTY: true, stdinTTY: true, traceOnStderr: true}, false},
		{"quiet beats on", uiModeOn, uiEnv{quiet: true, stdoutTTY: true, stdinTTY: true}, false},
	}
	for _, tc := range cases {
		if got := shouldUseTUI(tc.mode, tc.env); got != tc.want {
			t.Errorf("%s: shouldUseTUI = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestTraceTargetsStderr(t *testing.T) {
	cases := []struct {
		args []string
		want bool
	}{
		{nil, false},
		{[]string{"--trace", "-"}, true},
		{[]string{"--trace-level", "detail"}, true},
		{[]string{"--trace", "run.ndjson"}, false},
		{[]string{"--trace", "run.ndjson", "--trace-level", "detail"}, false},
	}
	for _, tc := range cases {
		root := &cobra.Command{Use: "cmakegen"}
		root.PersistentFlags().String("trace", "", "")
		root.PersistentFlags().String("trace-level", "off", "")
		if err := root.PersistentFlags().Parse(tc.args); err != nil {
			t.Fatalf("parse %v: %v", tc.args, err)
		}
		if got := traceTargetsStderr(root); got != tc.want {
			t.Errorf("traceTargetsStderr(%v) = %v, want %v", tc.args, got, tc.want)
		}
	}
}

func TestOverridesFromFlagsOnlyChanged(t *testing.T) {
	cmd := newFlagCmd(t)
	o, err := overridesFromFlags(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if o.ProjectName != nil || o.Standard != nil || o.Clean != nil || o.Exclude != nil {
		t.Fatalf("defaults leaked into overrides: %+v", o)
	}

	cmd = newFlagCmd(t, "--name", "Demo", "--std", "c++20", "--exclude", "third_party", "--exclude", "docs/*", "--no-clean", "--follow-symlinks")
	o, err = overridesFromFlags(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if *o.ProjectName != "Demo" || *o.Standard != "c++20" {
		t.Fatalf("scalars = %q %q", *o.ProjectName, *o.Standard)
	}
	if len(o.Exclude) != 2 || o.Exclude[1] != "docs/*" {
		t.Fatalf("exclude = %v", o.Exclude)
	}
	if *o.Clean || !*o.FollowSymlinks {
		t.Fatalf("bools = clean %v follow %v", *o.Clean, *o.FollowSymlinks)
	}
}

func TestResolveConfigFlagsBeatFile(t *testing.T) {
	clearEnv(t)
	root := t.TempDir()
	toml := "[project]\nname = \"FromFile\"\nstd = 14\n"
	if err := os.WriteFile(filepath.Join(root, "cmakegen.toml"), []byte(toml), 0o600); err != nil {
		t.Fatal(err)
	}
	cmd := newFlagCmd(t, "--std", "20")
	cfg, used, err := resolveConfig(cmd, root)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.ProjectName != "FromFile" || cfg.Standard != config.Std20 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if filepath.Base(used) != "cmakegen.toml" {
		t.Fatalf("used = %q", used)
	}

	cmd = newFlagCmd(t, "--no-config")
	cfg, used, err = resolveConfig(cmd, root)
	if err != nil {
		t.Fatal(err)
	}
	if used != "" || cfg.ProjectName != config.DefaultProjectName {
		t.Fatalf("--no-config ignored: %q %q", used, cfg.ProjectName)
	}
}

func TestReportError(t *testing.T) {
	var buf bytes.Buffer
	reportError(&buf, diag.Fail(diag.ConfigBadStandard, "", "unsupported standard \"98\"", nil), false)
	out := buf.String()
	if !strings.Contains(out, "ERROR CFG3003: unsupported standard") || !strings.HasSuffix(out, "aborted\n") {
		t.Fatalf("got:\n%s", out)
	}

	buf.Reset()
	reportError(&buf, errors.New("plain"), false)
	if buf.String() != "error: plain\n" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestNarratorOutcome(t *testing.T) {
	var buf bytes.Buffer
	n := newNarrator(&buf, false, false)
	bag := diag.NewBag(4)
	res := pipeline.Result{
		Config:      config.Config{Root: "/ws"},
		Path:        "/ws/CMakeLists.txt",
		Sources:     []string{"main.cpp"},
		Diagnostics: bag,
	}
	n.outcome(res)
	if buf.String() != "generated CMakeLists.txt (1 sources, 0 include dirs)\n" {
		t.Fatalf("got %q", buf.String())
	}

	buf.Reset()
	bag.Add(diag.Diagnostic{Severity: diag.SevWarning, Code: diag.NoSources})
	n.outcome(res)
	if !strings.HasPrefix(buf.String(), "generated with warnings") {
		t.Fatalf("got %q", buf.String())
	}

	buf.Reset()
	newNarrator(&buf, true, false).outcome(res)
	if buf.Len() != 0 {
		t.Fatalf("quiet narrator printed %q", buf.String())
	}
}

func TestWriteScanFormats(t *testing.T) {
	clearEnv(t)
	root := t.TempDir()
	for rel, body := range map[string]string{"main.cpp": "", "inc/a.h": ""} {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	report, err := pipeline.Scan(context.Background(), config.Default(root), nil)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	var text bytes.Buffer
	if err := writeScan(&text, report, "text"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text.String(), "sources (1):\n  main.cpp\n") || !strings.Contains(text.String(), "include dirs (1):\n  inc\n") {
		t.Fatalf("text:\n%s", text.String())
	}
	if strings.Contains(text.String(), "skipped links") {
		t.Fatalf("empty skipped section printed:\n%s", text.String())
	}
	text.Reset()
	withLinks := report
	withLinks.SkippedDirs = []string{"alias"}
	if err := writeScan(&text, withLinks, "text"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text.String(), "skipped links (1):\n  alias\n") {
		t.Fatalf("text:\n%s", text.String())
	}

	var packed bytes.Buffer
	if err := writeScan(&packed, report, "msgpack"); err != nil {
		t.Fatal(err)
	}
	var decoded pipeline.ScanReport
	if err := msgpack.Unmarshal(packed.Bytes(), &decoded); err != nil {
		t.Fatalf("msgpack decode: %v", err)
	}
	if decoded.Root != report.Root || len(decoded.Headers) != 1 || decoded.IncludeDirs[0] != "inc" {
		t.Fatalf("decoded = %+v", decoded)
	}

	var js bytes.Buffer
	if err := writeScan(&js, report, "json"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(js.String(), `"include_dirs": [`) {
		t.Fatalf("json:\n%s", js.String())
	}
}

func TestPrintStageTimings(t *testing.T) {
	var buf bytes.Buffer
	printStageTimings(&buf, observ.Report{
		TotalMS: 3,
		Phases:  []observ.PhaseReport{{Name: "discover", DurationMS: 3, Note: "5"}},
	})
	if !strings.Contains(buf.String(), "discover") || !strings.Contains(buf.String(), "(5)") || !strings.Contains(buf.String(), "total") {
		t.Fatalf("got:\n%s", buf.String())
	}
	buf.Reset()
	printStageTimings(&buf, observ.Report{})
	if buf.Len() != 0 {
		t.Fatalf("empty report printed %q", buf.String())
	}
}

func TestFormatPathForOutput(t *testing.T) {
	base := filepath.FromSlash("/ws")
	if got := formatPathForOutput(base, filepath.Join(base, "CMakeLists.txt")); got != "CMakeLists.txt" {
		t.Fatalf("got %q", got)
	}
	if got := formatPathForOutput("", "x"); got != "x" {
		t.Fatalf("got %q", got)
	}
}
