package core

import "path/filepath"

type OutputTarget struct {
	Type string `toml:"type"`
	Dir  string `toml:"dir"`
}

type HydratedFlag struct {
	Name     string `toml:"name"`
	Selector string `toml:"selector"`
}

// Config is the slice of global configuration the custom elements bundle reads.
type Config struct {
	RootDir       string          `toml:"root"`
	Namespace     string          `toml:"namespace"`
	SrcIndex      string          `toml:"src_index"`
	GlobalScript  string          `toml:"global_script"`
	MinifyJS      bool            `toml:"minify_js"`
	SourceMap     bool            `toml:"source_map"`
	DevMode       bool            `toml:"dev_mode"`
	LogLevel      string          `toml:"log_level"`
	HydratedFlag  *HydratedFlag   `toml:"hydrated_flag"`
	Extras        map[string]bool `toml:"extras"`
	OutputTargets []OutputTarget  `toml:"output_targets"`

	// FeatureHook lets embedders adjust build conditionals after config policy is applied.
	FeatureHook func(BuildFeatures) `toml:"-"`
}

// CustomElementsBundleTargets returns the output targets of the custom elements bundle kind.
func (c *Config) CustomElementsBundleTargets() []OutputTarget {
	var targets []OutputTarget
	for _, o := range c.OutputTargets {
		if o.Type == OutputTargetDistCustomElementsBundle {
			targets = append(targets, o)
		}
	}
	return targets
}

// ResolvePath makes p absolute against the configured root.
func (c *Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.RootDir, p)
}
