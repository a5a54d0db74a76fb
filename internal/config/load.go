package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths Load searches for a config file, in
// priority order. The first one found is used.
var DefaultConfigPaths = []string{
	"amasd.yaml",
	"amasd.yml",
	"/etc/wordforge/amasd.yaml",
	"/etc/wordforge/amasd.yml",
}

// ConfigPathEnvVar names one explicit path that Load tries before the
// search list; if no file exists there, the search list is used.
const ConfigPathEnvVar = "AMASD_CONFIG_PATH"

// Load builds a Config from three layers, lowest to highest precedence:
// built-in defaults, an optional YAML file, and environment variables.
// The returned config has already been validated.
func Load() (*Config, error) {
	k := koanf.New(".")

	defaults := DefaultConfig()
	if err := k.Load(structs.Provider(&defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider("AMASD_", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransformFunc turns "AMASD_STORE_PATH" into "store.path": strip the
// AMASD_ prefix the env provider already matched on and look the remainder
// up in envKeyToPath, which preserves underscored leaf keys like
// "metrics.listen_addr" that a blanket underscore-to-dot replace would
// otherwise split apart. A key absent from the table (not one of Config's
// own fields) falls back to the naive transform so unrecognized variables
// don't silently vanish instead of surfacing as an unmarshal error.
func envTransformFunc(key string) string {
	key = strings.TrimPrefix(key, "AMASD_")
	if path, ok := envKeyToPath[key]; ok {
		return path
	}
	return strings.ReplaceAll(strings.ToLower(key), "_", ".")
}
