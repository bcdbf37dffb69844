package diagfmt

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"cmakegen/internal/diag"
)

func sampleBag() *diag.Bag {
	bag := diag.NewBag(10)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevWarning,
		Code:     diag.NoSources,
		Message:  "cmakegen: no source files found",
	})
	bag.Add(diag.Diagnostic{
		Severity: diag.SevInfo,
		Code:     diag.SymlinkNotFollowed,
		Message:  "symlinked directory not followed",
		Path:     "vendor/lib",
	}.WithNote("vendor/lib", "set follow_symlinks to include it"))
	return bag
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	base := filepath.FromSlash("/home/user/project")
	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{name: "Absolute path", mode: PathModeAbsolute, contains: filepath.Join(base, "vendor", "lib") + ": INFO DSC2004"},
		{name: "Relative path", mode: PathModeRelative, contains: "vendor/lib: INFO DSC2004"},
		{name: "Basename only", mode: PathModeBasename, contains: "lib: INFO DSC2004"},
		{name: "Auto", mode: PathModeAuto, contains: "vendor/lib: INFO DSC2004"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Pretty(&buf, sampleBag(), PrettyOpts{PathMode: tt.mode, BaseDir: base}); err != nil {
				t.Fatalf("pretty: %v", err)
			}
			if !strings.Contains(buf.String(), tt.contains) {
				t.Fatalf("expected %q in:\n%s", tt.contains, buf.String())
			}
		})
	}
}

func TestPrettyWorkspaceLevelDiagnostic(t *testing.T) {
	var buf bytes.Buffer
	if err := Pretty(&buf, sampleBag(), PrettyOpts{BaseDir: "/ws"}); err != nil {
		t.Fatalf("pretty: %v", err)
	}
	want := "/ws: WARNING DSC2001: cmakegen: no source files found\n"
	if !strings.HasPrefix(buf.String(), want) {
		t.Fatalf("got:\n%s", buf.String())
	}
}

func TestPrettyNotes(t *testing.T) {
	var buf bytes.Buffer
	if err := Pretty(&buf, sampleBag(), PrettyOpts{ShowNotes: true}); err != nil {
		t.Fatalf("pretty: %v", err)
	}
	if !strings.Contains(buf.String(), "  note: vendor/lib: set follow_symlinks to include it") {
		t.Fatalf("note missing:\n%s", buf.String())
	}

	buf.Reset()
	if err := Pretty(&buf, sampleBag(), PrettyOpts{}); err != nil {
		t.Fatalf("pretty: %v", err)
	}
	if strings.Contains(buf.String(), "note:") {
		t.Fatalf("notes printed without ShowNotes:\n%s", buf.String())
	}
}

func TestPrettyColor(t *testing.T) {
	var plain, colored bytes.Buffer
	if err := Pretty(&plain, sampleBag(), PrettyOpts{}); err != nil {
		t.Fatal(err)
	}
	if err := Pretty(&colored, sampleBag(), PrettyOpts{Color: true}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(plain.String(), "\x1b[") {
		t.Fatalf("unexpected escape codes in plain output")
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Fatalf("expected escape codes in colored output")
	}
}

func TestPrettyDropped(t *testing.T) {
	bag := diag.NewBag(1)
	bag.Add(diag.Diagnostic{Severity: diag.SevInfo, Code: diag.SymlinkNotFollowed, Path: "a"})
	bag.Add(diag.Diagnostic{Severity: diag.SevInfo, Code: diag.SymlinkNotFollowed, Path: "b"})
	var buf bytes.Buffer
	if err := Pretty(&buf, bag, PrettyOpts{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "1 more diagnostic(s) not shown") {
		t.Fatalf("got:\n%s", buf.String())
	}
}
