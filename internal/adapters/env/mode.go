package env

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/3-lines-studio/bifrost-elements/internal/core"
)

// ApplyOverrides lets the environment override build switches from the config file.
func ApplyOverrides(cfg *core.Config) {
	if os.Getenv("BIFROST_DEV") == "1" {
		cfg.DevMode = true
	}
	if v, ok := lookupBool("BIFROST_MINIFY"); ok {
		cfg.MinifyJS = v
	}
	if v, ok := lookupBool("BIFROST_SOURCEMAP"); ok {
		cfg.SourceMap = v
	}
}

func lookupBool(key string) (bool, bool) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		slog.Warn("Ignoring invalid boolean environment variable", "key", key, "value", raw)
		return false, false
	}
	return v, true
}
