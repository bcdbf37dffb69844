package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"cmakegen/internal/diag"
)

// Environment keys recognised by LoadEnv.
const (
	EnvName           = "CMAKEGEN_NAME"
	EnvStandard       = "CMAKEGEN_STD"
	EnvOutputRoot     = "CMAKEGEN_OUTPUT_ROOT"
	EnvExclude        = "CMAKEGEN_EXCLUDE"
	EnvFollowSymlinks = "CMAKEGEN_FOLLOW_SYMLINKS"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// LoadEnv reads overrides from the process environment, falling back to a
// .env file at root. Real environment variables win over .env entries.
func LoadEnv(root string, lookup LookupFunc) (Overrides, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	dotenv := map[string]string{}
	path := filepath.Join(root, ".env")
	if _, err := os.Stat(path); err == nil {
		m, err := godotenv.Read(path)
		if err != nil {
			return Overrides{}, diag.Fail(diag.ConfigParse, path, "failed to parse .env", err)
		}
		dotenv = m
	} else if !errors.Is(err, os.ErrNotExist) {
		return Overrides{}, diag.Fail(diag.FsAccess, path, "cannot stat .env", err)
	}

	get := func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}

	var o Overrides
	if v, ok := get(EnvName); ok && strings.TrimSpace(v) != "" {
		o.ProjectName = &v
	}
	if v, ok := get(EnvStandard); ok && strings.TrimSpace(v) != "" {
		o.Standard = &v
	}
	if v, ok := get(EnvOutputRoot); ok && strings.TrimSpace(v) != "" {
		o.OutputRoot = &v
	}
	if v, ok := get(EnvExclude); ok {
		o.Exclude = strings.Split(v, ",")
	}
	if v, ok := get(EnvFollowSymlinks); ok && strings.TrimSpace(v) != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return Overrides{}, diag.Fail(diag.ConfigParse, EnvFollowSymlinks, "expected a boolean", err)
		}
		o.FollowSymlinks = &b
	}
	return o, nil
}
