package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"cmakegen/internal/diag"
)

// FileNames are probed, in order, at the workspace root.
var FileNames = []string{"cmakegen.toml", "cmakegen.yaml", "cmakegen.yml"}

type fileConfig struct {
	Project   projectSection   `toml:"project" yaml:"project"`
	Layout    layoutSection    `toml:"layout" yaml:"layout"`
	Discovery discoverySection `toml:"discovery" yaml:"discovery"`
	Clean     cleanSection     `toml:"clean" yaml:"clean"`
}

type projectSection struct {
	Name string   `toml:"name" yaml:"name"`
	Std  stdValue `toml:"std" yaml:"std"`
}

type layoutSection struct {
	OutputRoot string `toml:"output_root" yaml:"output_root"`
}

type discoverySection struct {
	Exclude        []string `toml:"exclude" yaml:"exclude"`
	FollowSymlinks *bool    `toml:"follow_symlinks" yaml:"follow_symlinks"`
}

type cleanSection struct {
	Enabled *bool    `toml:"enabled" yaml:"enabled"`
	Extra   []string `toml:"extra" yaml:"extra"`
}

// stdValue accepts both `std = 17` and `std = "c++17"`.
type stdValue string

func (s *stdValue) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case string:
		*s = stdValue(x)
	case int64:
		*s = stdValue(fmt.Sprint(x))
	default:
		return fmt.Errorf("std: expected string or integer, got %T", v)
	}
	return nil
}

func (s *stdValue) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("std: expected scalar at line %d", n.Line)
	}
	*s = stdValue(n.Value)
	return nil
}

// FindFile returns the first config file present at root.
func FindFile(root string) (string, bool, error) {
	for _, name := range FileNames {
		candidate := filepath.Join(root, name)
		info, err := os.Stat(candidate)
		if err == nil {
			if info.IsDir() {
				continue
			}
			return candidate, true, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", false, diag.Fail(diag.FsAccess, candidate, "cannot stat config file", err)
		}
	}
	return "", false, nil
}

// LoadFile parses a TOML or YAML config file into Overrides.
func LoadFile(path string) (Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Overrides{}, diag.Fail(diag.FsAccess, path, "cannot read config file", err)
	}
	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		meta, err := toml.Decode(string(data), &fc)
		if err != nil {
			return Overrides{}, diag.Fail(diag.ConfigParse, path, "failed to parse TOML", err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, k := range undecoded {
				keys = append(keys, k.String())
			}
			sort.Strings(keys)
			return Overrides{}, diag.Fail(diag.ConfigParse, path, "unknown keys: "+strings.Join(keys, ", "), nil)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
			return Overrides{}, diag.Fail(diag.ConfigParse, path, "failed to parse YAML", err)
		}
	default:
		return Overrides{}, diag.Fail(diag.ConfigParse, path, "unsupported config format (want .toml, .yaml or .yml)", nil)
	}
	return fc.overrides(), nil
}

func (fc fileConfig) overrides() Overrides {
	var o Overrides
	if fc.Project.Name != "" {
		name := fc.Project.Name
		o.ProjectName = &name
	}
	if fc.Project.Std != "" {
		std := string(fc.Project.Std)
		o.Standard = &std
	}
	if fc.Layout.OutputRoot != "" {
		out := fc.Layout.OutputRoot
		o.OutputRoot = &out
	}
	o.Exclude = fc.Discovery.Exclude
	o.FollowSymlinks = fc.Discovery.FollowSymlinks
	o.Clean = fc.Clean.Enabled
	o.CleanExtra = fc.Clean.Extra
	return o
}
