package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmakegen/internal/config"
	"cmakegen/internal/descriptor"
	"cmakegen/internal/diag"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
}

func scenarioA(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"main.cpp":      "int main() { return 0; }\n",
		"math/calc.cpp": "#include \"calc.h\"\n",
		"math/calc.h":   "#pragma once\n",
		"utils/log.cpp": "#include \"log.h\"\n",
		"utils/log.h":   "#pragma once\n",
	})
	return root
}

type recordSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordSink) OnEvent(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func run(t *testing.T, root string) (Result, error) {
	t.Helper()
	return Run(context.Background(), &Request{Config: config.Default(root)})
}

func TestRunScenarioA(t *testing.T) {
	root := scenarioA(t)
	res, err := run(t, root)
	require.NoError(t, err)

	assert.Equal(t, []string{"main.cpp", "math/calc.cpp", "utils/log.cpp"}, res.Sources)
	assert.Equal(t, []string{"math/calc.h", "utils/log.h"}, res.Headers)
	assert.Equal(t, []string{"math", "utils"}, res.IncludeDirs)
	assert.Equal(t, filepath.Join(res.Config.Root, "CMakeLists.txt"), res.Path)
	assert.Equal(t, OutcomeGenerated, res.Outcome())
	assert.Zero(t, res.Diagnostics.Len())

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Len(t, data, res.Bytes)
	text := string(data)
	assert.Contains(t, text, "project(MyProject LANGUAGES C CXX)")
	assert.Contains(t, text, "add_executable(MyProject ${SOURCES} ${HEADERS})")
	assert.Contains(t, text, `"${CMAKE_SOURCE_DIR}/math"`)
	assert.Contains(t, text, `"${CMAKE_SOURCE_DIR}/utils"`)

	for _, st := range Stages {
		_, ok := res.Timings.Duration(string(st))
		assert.True(t, ok, "missing timing for %s", st)
	}
}

func TestRunScenarioBNoSources(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"tool.py": "print('hi')\n", "README.md": "x"})

	res, err := run(t, root)
	require.NoError(t, err, "no sources is not fatal")
	assert.Empty(t, res.Sources)
	assert.Equal(t, OutcomeGeneratedWithWarnings, res.Outcome())
	assert.True(t, res.Diagnostics.Has(diag.NoSources))
	assert.False(t, res.Diagnostics.HasErrors())

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), descriptor.NoSourcesMarker)
	assert.NotContains(t, string(data), "add_executable(")
}

func TestRunNoSourcesSurvivesFullBag(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"tool.py": "print('hi')\n", "vendor/lib.txt": "x"})
	require.NoError(t, os.Symlink(filepath.Join(root, "vendor"), filepath.Join(root, "third_party")))

	res, err := Run(context.Background(), &Request{Config: config.Default(root), MaxDiagnostics: 1})
	require.NoError(t, err)
	assert.Empty(t, res.Sources)
	assert.Positive(t, res.Diagnostics.Dropped(), "link notes should fill the bag first")
	assert.False(t, res.Diagnostics.Has(diag.NoSources))
	assert.True(t, res.Descriptor.NoSources)
	assert.Equal(t, OutcomeGeneratedWithWarnings, res.Outcome())
}

func TestRunFollowSymlinksExcludesAliasFromGlobs(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"real/x.cpp": "int main() { return 0; }\n"})
	require.NoError(t, os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "alias")))

	cfg := config.Default(root)
	cfg.FollowSymlinks = true
	res, err := Run(context.Background(), &Request{Config: cfg})
	require.NoError(t, err)
	assert.Equal(t, []string{"real/x.cpp"}, res.Sources)
	assert.Equal(t, []string{"alias"}, res.SkippedDirs)
	assert.False(t, res.Diagnostics.Has(diag.SymlinkCycle))
	assert.Equal(t, OutcomeGenerated, res.Outcome())

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "FOLLOW_SYMLINKS")
	assert.Contains(t, text, `|^alias(/|\$)")`)
}

func TestRunScenarioCPicksUpNewSource(t *testing.T) {
	root := scenarioA(t)
	_, err := run(t, root)
	require.NoError(t, err)

	writeTree(t, root, map[string]string{"utils/net.cpp": "void net() {}\n"})
	res, err := run(t, root)
	require.NoError(t, err)
	assert.Contains(t, res.Sources, "utils/net.cpp")
	assert.Len(t, res.Sources, 4)
}

func TestRunScenarioDRootHeader(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"config.h": "#pragma once\n",
		"main.c":   "int main(void) { return 0; }\n",
	})
	res, err := run(t, root)
	require.NoError(t, err)
	assert.Equal(t, []string{"."}, res.IncludeDirs)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "include_directories(\n    \"${CMAKE_SOURCE_DIR}\"\n)")
}

func TestRunIsByteIdentical(t *testing.T) {
	root := scenarioA(t)
	first, err := run(t, root)
	require.NoError(t, err)
	a, err := os.ReadFile(first.Path)
	require.NoError(t, err)

	second, err := run(t, root)
	require.NoError(t, err)
	b, err := os.ReadFile(second.Path)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestRunCleansStaleArtifacts(t *testing.T) {
	root := scenarioA(t)
	writeTree(t, root, map[string]string{
		"CMakeCache.txt":       "stale",
		"build/CMakeFiles/x.o": "obj",
		"build/generated.cpp":  "int dead;",
		"CMakeFiles/tmp/foo.c": "int dead;",
	})
	res, err := run(t, root)
	require.NoError(t, err)
	assert.Contains(t, res.Clean.Removed, "CMakeCache.txt")
	assert.Contains(t, res.Clean.Removed, "build")
	assert.NoFileExists(t, filepath.Join(root, "CMakeCache.txt"))
	assert.NoDirExists(t, filepath.Join(root, "build"))
	for _, s := range res.Sources {
		assert.False(t, strings.HasPrefix(s, "build/") || strings.HasPrefix(s, "CMakeFiles/"), s)
	}
}

func TestRunNoCleanKeepsArtifactsButExcludesThem(t *testing.T) {
	root := scenarioA(t)
	writeTree(t, root, map[string]string{"build/gen.cpp": "int x;"})
	cfg := config.Default(root)
	cfg.Clean = false

	sink := &recordSink{}
	res, err := Run(context.Background(), &Request{Config: cfg, Progress: sink})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(root, "build", "gen.cpp"))
	assert.NotContains(t, res.Sources, "build/gen.cpp")

	var skipped bool
	for _, e := range sink.events {
		if e.Stage == StageClean && e.Status == StatusSkipped {
			skipped = true
		}
	}
	assert.True(t, skipped)
}

func TestRunMalformedConfigDoesNotMutate(t *testing.T) {
	cases := map[string]func(*config.Config){
		"bad std":     func(c *config.Config) { c.Standard = "98" },
		"bad name":    func(c *config.Config) { c.ProjectName = "my project" },
		"bad pattern": func(c *config.Config) { c.Exclude = []string{"[abc"} },
		"bad extra":   func(c *config.Config) { c.CleanExtra = []string{"../up"} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			root := scenarioA(t)
			writeTree(t, root, map[string]string{"CMakeLists.txt": "# hand written\n"})
			cfg := config.Default(root)
			mutate(&cfg)

			res, err := Run(context.Background(), &Request{Config: cfg})
			require.Error(t, err)
			assert.True(t, errors.Is(err, diag.ErrMalformedConfig), "got %v", err)
			assert.Equal(t, OutcomeAborted, res.Outcome())

			data, err := os.ReadFile(filepath.Join(root, "CMakeLists.txt"))
			require.NoError(t, err)
			assert.Equal(t, "# hand written\n", string(data))
		})
	}
}

func TestRunMissingRoot(t *testing.T) {
	_, err := run(t, filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, diag.ErrFilesystemAccess))
}

func TestRunCanceled(t *testing.T) {
	root := scenarioA(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := Run(ctx, &Request{Config: config.Default(root)})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, res.Path)
}

func TestRunCanceledAfterDiscover(t *testing.T) {
	root := scenarioA(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sink := FuncSink(func(e Event) {
		if e.Stage == StageDiscover && e.Status == StatusDone {
			cancel()
		}
	})
	res, err := Run(ctx, &Request{Config: config.Default(root), Progress: sink})
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, res.Sources, 3)
	assert.Nil(t, res.IncludeDirs)
	assert.Empty(t, res.Path)
	assert.Equal(t, OutcomeAborted, res.Outcome())

	_, statErr := os.Stat(filepath.Join(root, "CMakeLists.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunReportsTimingsOnFailure(t *testing.T) {
	res, err := run(t, filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
	_, ok := res.Timings.Duration(string(StageClean))
	assert.True(t, ok, "failed stage should still be timed")
	_, ok = res.Timings.Duration(string(StageWrite))
	assert.False(t, ok)
}

func TestRunNilRequest(t *testing.T) {
	_, err := Run(context.Background(), nil)
	require.Error(t, err)
}

func TestRunProgressEvents(t *testing.T) {
	root := scenarioA(t)
	sink := &recordSink{}
	_, err := Run(context.Background(), &Request{Config: config.Default(root), Progress: sink})
	require.NoError(t, err)

	done := map[Stage]bool{}
	files := 0
	for _, e := range sink.events {
		if e.Status == StatusDone {
			done[e.Stage] = true
		}
		if e.File != "" {
			files++
		}
	}
	for _, st := range Stages {
		assert.True(t, done[st], "stage %s never finished", st)
	}
	assert.Equal(t, 5, files)
	assert.Equal(t, StatusQueued, sink.events[0].Status)
}

func TestChannelSink(t *testing.T) {
	ch := make(chan Event, 1)
	ChannelSink{Ch: ch}.OnEvent(Event{Stage: StageWrite, Status: StatusDone})
	got := <-ch
	assert.Equal(t, StageWrite, got.Stage)

	// nil channel is a no-op
	ChannelSink{}.OnEvent(Event{})
}

func TestScanDoesNotMutate(t *testing.T) {
	root := scenarioA(t)
	writeTree(t, root, map[string]string{"CMakeCache.txt": "keep"})
	bag := diag.NewBag(10)

	rep, err := Scan(context.Background(), config.Default(root), bag)
	require.NoError(t, err)
	assert.Equal(t, []string{"main.cpp", "math/calc.cpp", "utils/log.cpp"}, rep.Sources)
	assert.Equal(t, []string{"math", "utils"}, rep.IncludeDirs)
	assert.Equal(t, []string{"build", ".git", "CMakeFiles"}, rep.Exclude)
	assert.Equal(t, "17", rep.Standard)
	assert.FileExists(t, filepath.Join(root, "CMakeCache.txt"))
	assert.NoFileExists(t, filepath.Join(root, "CMakeLists.txt"))
	assert.Zero(t, bag.Len())
}

func TestScanEmptyWarns(t *testing.T) {
	bag := diag.NewBag(10)
	rep, err := Scan(context.Background(), config.Default(t.TempDir()), bag)
	require.NoError(t, err)
	assert.Empty(t, rep.Sources)
	assert.True(t, bag.Has(diag.NoSources))
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "generated", OutcomeGenerated.String())
	assert.Equal(t, "generated with warnings", OutcomeGeneratedWithWarnings.String())
	assert.Equal(t, "aborted", OutcomeAborted.String())
}
