package descriptor

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

const (
	header = "# Generated by cmakegen. Rerun cmakegen instead of editing by hand."
	rule   = "# ---------------------------------------------------------------------------"
	indent = "    "
)

// errWriter keeps the first write error so Render can stay linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) line(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format+"\n", args...)
}

func (ew *errWriter) blank() { ew.line("") }

// Render writes d as CMake. Output depends only on d.
func Render(w io.Writer, d Descriptor) error {
	ew := &errWriter{w: w}

	ew.line("%s", header)
	ew.line("cmake_minimum_required(VERSION %s)", d.MinimumVersion)
	ew.blank()
	ew.line("project(%s LANGUAGES C CXX)", d.ProjectName)
	ew.blank()
	ew.line("set(CMAKE_CXX_STANDARD %s)", d.Standard)
	ew.line("set(CMAKE_CXX_STANDARD_REQUIRED ON)")
	ew.line("set(CMAKE_CXX_EXTENSIONS OFF)")
	ew.line("set(CMAKE_EXPORT_COMPILE_COMMANDS ON)")

	ew.blank()
	ew.line("# Output directories, kept out of the source tree")
	for _, o := range d.Outputs {
		ew.line("set(%s %s)", o.Var, quoteExpand(o.Dir))
	}

	for _, r := range d.Rules {
		ew.blank()
		ew.line("# %s discovery", strings.ToLower(r.Var))
		opts := ""
		if r.FollowSymlinks {
			opts = " FOLLOW_SYMLINKS"
		}
		ew.line("file(GLOB_RECURSE %s%s RELATIVE \"${CMAKE_SOURCE_DIR}\" CONFIGURE_DEPENDS", r.Var, opts)
		for _, g := range r.Globs {
			ew.line("%s\"${CMAKE_SOURCE_DIR}/%s\"", indent, escapeLiteral(g))
		}
		ew.line(")")
		if r.ExcludeRegex != "" {
			ew.line("list(FILTER %s EXCLUDE REGEX %s)", r.Var, quoteLiteral(r.ExcludeRegex))
		}
		ew.line("list(SORT %s)", r.Var)
	}

	if len(d.IncludeDirs) > 0 {
		ew.blank()
		ew.line("# Header search directories")
		ew.line("include_directories(")
		for _, dir := range d.IncludeDirs {
			ew.line("%s%s", indent, sourceDirPath(dir))
		}
		ew.line(")")
	}

	ew.blank()
	ew.line("# Warning policy")
	ew.line("set(%s", WarningsVar)
	for _, f := range d.Warnings {
		ew.line("%s%s", indent, f)
	}
	ew.line(")")

	ew.blank()
	if d.Target != nil {
		units := make([]string, len(d.Target.Units))
		for i, u := range d.Target.Units {
			units[i] = "${" + u + "}"
		}
		ew.line("add_executable(%s %s)", d.Target.Name, strings.Join(units, " "))
		ew.line("if(CMAKE_CXX_COMPILER_ID MATCHES \"GNU|Clang\" OR CMAKE_C_COMPILER_ID MATCHES \"GNU|Clang\")")
		ew.line("%starget_compile_options(%s PRIVATE ${%s})", indent, d.Target.Name, WarningsVar)
		ew.line("endif()")
	}
	if d.NoSources {
		ew.line("# %s; no target declared.", NoSourcesMarker)
		ew.line("message(WARNING %s)", quoteLiteral(NoSourcesMarker+"; add .c/.cpp files and rerun cmakegen"))
	}

	if len(d.Linkage) > 0 {
		ew.blank()
		ew.line("%s", rule)
		ew.line("# Library linkage templates (inert: uncomment and adapt)")
		ew.line("%s", rule)
		for _, lt := range d.Linkage {
			ew.line("# %s:", lt.Title)
			for _, l := range lt.Lines {
				ew.line("#%s%s", indent, l)
			}
		}
		ew.line("%s", rule)
	}

	if len(d.Status) > 0 {
		ew.blank()
		for _, s := range d.Status {
			ew.line("message(STATUS %s)", quoteLiteral(s))
		}
	}
	return ew.err
}

// Text renders d into a byte slice.
func Text(d Descriptor) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sourceDirPath(rel string) string {
	if rel == "" || rel == "." {
		return `"${CMAKE_SOURCE_DIR}"`
	}
	return `"${CMAKE_SOURCE_DIR}/` + escapeLiteral(rel) + `"`
}

// quoteLiteral quotes s so CMake reads it back byte for byte.
func quoteLiteral(s string) string {
	return `"` + escapeLiteral(s) + `"`
}

// quoteExpand quotes s but keeps ${VAR} references live.
func quoteExpand(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}

var literalEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `\$`, "\n", `\n`)

func escapeLiteral(s string) string {
	return literalEscaper.Replace(s)
}
