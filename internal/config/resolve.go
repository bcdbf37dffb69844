package config

// Sources describes where Resolve should look.
type Sources struct {
	// File is an explicit config path; empty probes FileNames at Root.
	File string
	// SkipFile disables config file lookup entirely.
	SkipFile bool
	Lookup   LookupFunc
	Flags    Overrides
}

// Resolve builds and validates the configuration for root, layering
// defaults < config file < environment < flags. It only reads; nothing in
// the workspace is modified, so a MalformedConfiguration error always comes
// before the cleaner runs.
func Resolve(root string, src Sources) (Config, string, error) {
	cfg := Default(root)

	var used string
	if !src.SkipFile {
		path := src.File
		if path == "" {
			found, ok, err := FindFile(cfg.Root)
			if err != nil {
				return Config{}, "", err
			}
			if ok {
				path = found
			}
		}
		if path != "" {
			o, err := LoadFile(path)
			if err != nil {
				return Config{}, "", err
			}
			if err := cfg.Apply(o); err != nil {
				return Config{}, "", err
			}
			used = path
		}
	}

	env, err := LoadEnv(cfg.Root, src.Lookup)
	if err != nil {
		return Config{}, "", err
	}
	if err := cfg.Apply(env); err != nil {
		return Config{}, "", err
	}
	if err := cfg.Apply(src.Flags); err != nil {
		return Config{}, "", err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, "", err
	}
	return cfg, used, nil
}
