package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/3-lines-studio/bifrost-elements/internal/adapters/fs"
	"github.com/3-lines-studio/bifrost-elements/internal/core"
)

const (
	DefaultFile      = "bifrost.toml"
	DefaultNamespace = "app"
	DefaultOutputDir = "dist/custom-elements"
)

// Load decodes a TOML config file. Relative paths are resolved against the
// config file's directory unless root says otherwise.
func Load(files fs.FileSystem, path string) (*core.Config, error) {
	data, err := files.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &core.Config{}
	meta, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		slog.Warn("Unknown config keys ignored", "file", path, "keys", strings.Join(keys, ", "))
	}

	base, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	applyDefaults(cfg, base)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the configuration used when no config file exists.
func Default(root string) (*core.Config, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	cfg := &core.Config{}
	applyDefaults(cfg, abs)
	return cfg, nil
}

func applyDefaults(cfg *core.Config, base string) {
	switch {
	case cfg.RootDir == "":
		cfg.RootDir = base
	case !filepath.IsAbs(cfg.RootDir):
		cfg.RootDir = filepath.Join(base, cfg.RootDir)
	}
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultNamespace
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if len(cfg.OutputTargets) == 0 {
		cfg.OutputTargets = []core.OutputTarget{{
			Type: core.OutputTargetDistCustomElementsBundle,
			Dir:  DefaultOutputDir,
		}}
	}
	for i := range cfg.OutputTargets {
		cfg.OutputTargets[i].Dir = cfg.ResolvePath(cfg.OutputTargets[i].Dir)
	}
}

func Validate(cfg *core.Config) error {
	for i, o := range cfg.OutputTargets {
		if o.Type == "" {
			return fmt.Errorf("output target %d: missing type", i)
		}
		if o.Dir == "" {
			return fmt.Errorf("output target %d: missing dir", i)
		}
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", cfg.LogLevel)
	}

	if cfg.HydratedFlag != nil {
		switch cfg.HydratedFlag.Selector {
		case "", "class", "attribute":
		default:
			return fmt.Errorf("hydrated flag selector must be class or attribute, got %q", cfg.HydratedFlag.Selector)
		}
	}
	return nil
}
