package descriptor

import (
	"fmt"
	"strings"

	"cmakegen/internal/config"
)

// Input is everything Synthesize depends on. Identical inputs always
// produce identical descriptors.
type Input struct {
	ProjectName string
	Standard    config.Standard
	// Root is the resolved absolute workspace root, reported in status lines.
	Root       string
	OutputRoot string

	Sources     []string
	Headers     []string
	IncludeDirs []string

	SourceGlobs    []string
	HeaderGlobs    []string
	ExcludeRegex   string
	FollowSymlinks bool
}

// Synthesize decides the descriptor's content. It never fails: an empty
// source set degrades to a descriptor without a target plus a marker.
func Synthesize(in Input) Descriptor {
	out := strings.TrimRight(in.OutputRoot, "/")
	if out == "" {
		out = config.DefaultOutputRoot
	}

	d := Descriptor{
		MinimumVersion: MinimumVersion,
		ProjectName:    in.ProjectName,
		Standard:       in.Standard,
		Outputs: []OutputBinding{
			{Var: "CMAKE_RUNTIME_OUTPUT_DIRECTORY", Dir: out + "/bin"},
			{Var: "CMAKE_LIBRARY_OUTPUT_DIRECTORY", Dir: out + "/lib"},
			{Var: "CMAKE_ARCHIVE_OUTPUT_DIRECTORY", Dir: out + "/lib"},
		},
		Rules: []Rule{
			{Var: SourcesVar, Globs: cloneStrings(in.SourceGlobs), ExcludeRegex: in.ExcludeRegex, FollowSymlinks: in.FollowSymlinks},
			{Var: HeadersVar, Globs: cloneStrings(in.HeaderGlobs), ExcludeRegex: in.ExcludeRegex, FollowSymlinks: in.FollowSymlinks},
		},
		IncludeDirs: cloneStrings(in.IncludeDirs),
		Warnings:    cloneStrings(WarningFlags),
		Linkage:     linkTemplates(in.ProjectName),
	}

	if len(in.Sources) == 0 {
		d.NoSources = true
	} else {
		d.Target = &Target{Name: in.ProjectName, Units: []string{SourcesVar, HeadersVar}}
	}

	includeStatus := "(none)"
	if len(in.IncludeDirs) > 0 {
		includeStatus = strings.Join(in.IncludeDirs, ";")
	}
	d.Status = []string{
		"cmakegen: workspace root: " + in.Root,
		fmt.Sprintf("cmakegen: sources discovered: %d", len(in.Sources)),
		"cmakegen: include directories: " + includeStatus,
	}
	return d
}

func linkTemplates(target string) []LinkTemplate {
	return []LinkTemplate{
		{
			Title: "System shared library by name",
			Lines: []string{fmt.Sprintf("target_link_libraries(%s PRIVATE pthread)", target)},
		},
		{
			Title: "Shared library by absolute path",
			Lines: []string{fmt.Sprintf("target_link_libraries(%s PRIVATE /usr/local/lib/libfoo.so)", target)},
		},
		{
			Title: "Static library by absolute path",
			Lines: []string{fmt.Sprintf("target_link_libraries(%s PRIVATE /usr/local/lib/libbar.a)", target)},
		},
		{
			Title: "Library directory plus bare library name",
			Lines: []string{
				"link_directories(/opt/baz/lib)",
				fmt.Sprintf("target_link_libraries(%s PRIVATE baz)", target),
			},
		},
	}
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
