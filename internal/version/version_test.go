package version

import (
	"strings"
	"testing"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
	if Current().Version != Version {
		t.Errorf("Current().Version = %q, want %q", Current().Version, Version)
	}
}

func TestVersion_CanBeOverridden(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	defer func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate }()

	// simulating build-time ldflags
	Version = "1.2.3"
	GitCommit = "abc123def456"
	BuildDate = "2024-01-15T10:30:00Z"

	got := Current().String()
	want := "cmakegen 1.2.3 (abc123def456) built 2024-01-15T10:30:00Z"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestVersion_EmptyOptionalFields(t *testing.T) {
	info := Info{Version: "0.1.0"}
	if got := info.String(); got != "cmakegen 0.1.0" {
		t.Errorf("String() = %q", got)
	}
}

func TestColored(t *testing.T) {
	if got := Colored("1.2.3-rc.1", false); got != "1.2.3-rc.1" {
		t.Errorf("plain = %q", got)
	}
	colored := Colored("1.2.3-rc.1", true)
	if !strings.Contains(colored, "\x1b[") || !strings.HasSuffix(colored, "-rc.1") {
		t.Errorf("colored = %q", colored)
	}
	if got := Colored("nightly", true); got != "nightly" {
		t.Errorf("non-semver = %q", got)
	}
}
