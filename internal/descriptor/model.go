// Package descriptor decides what goes into the generated CMakeLists.txt
// (Synthesize) and, separately, how it is laid out as text (Render).
package descriptor

import "cmakegen/internal/config"

const (
	// MinimumVersion is the oldest CMake the rendered syntax supports
	// (CONFIGURE_DEPENDS needs 3.12 to take effect but is ignored before).
	MinimumVersion = "3.10"

	// NoSourcesMarker is embedded when discovery found nothing to compile.
	NoSourcesMarker = "cmakegen: no source files found"

	SourcesVar  = "SOURCES"
	HeadersVar  = "HEADERS"
	WarningsVar = "CMAKEGEN_WARNING_FLAGS"
)

// WarningFlags is the fixed diagnostic policy: broad warnings, strict
// conformance, missing return values as hard errors, unused parameters
// tolerated (main(argc, argv) that ignores its arguments is fine).
var WarningFlags = []string{
	"-Wall",
	"-Wextra",
	"-Wpedantic",
	"-Werror=return-type",
	"-Wno-unused-parameter",
}

// OutputBinding maps a CMake output variable to a directory.
type OutputBinding struct {
	Var string
	Dir string
}

// Rule is one file(GLOB_RECURSE) discovery rule with its exclusion filter.
type Rule struct {
	Var            string
	Globs          []string
	ExcludeRegex   string
	FollowSymlinks bool
}

// Target is the single compiled executable.
type Target struct {
	Name string
	// Units are variable names whose contents form the build-unit list.
	Units []string
}

// LinkTemplate is an inert, commented-out linkage example.
type LinkTemplate struct {
	Title string
	Lines []string
}

// Descriptor is the structured form of the generated file.
type Descriptor struct {
	MinimumVersion string
	ProjectName    string
	Standard       config.Standard
	Outputs        []OutputBinding
	Rules          []Rule
	// IncludeDirs are workspace-relative; "." is the root itself.
	IncludeDirs []string
	Warnings    []string
	// Target is nil when no sources were discovered.
	Target    *Target
	NoSources bool
	Linkage   []LinkTemplate
	Status    []string
}
