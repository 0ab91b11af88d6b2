package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const EnvPrefix = "ROPLINE_"

type Config struct {
	Log     LogConfig     `koanf:"log"`
	Tracing TracingConfig `koanf:"tracing"`
	Batch   BatchConfig   `koanf:"batch"`
}

type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // text, json
}

type TracingConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Service  string `koanf:"service"`
	Exporter string `koanf:"exporter"` // stdout, pretty
}

type BatchConfig struct {
	Workers int  `koanf:"workers"`
	Drain   bool `koanf:"drain"` // report queued inputs as cancelled
}

var defaults = map[string]any{
	"log.level":        "info",
	"log.format":       "text",
	"tracing.enabled":  false,
	"tracing.service":  "ropline",
	"tracing.exporter": "stdout",
	"batch.workers":    4,
	"batch.drain":      true,
}

// Load reads the optional YAML file at path, then ROPLINE_ environment
// variables (ROPLINE_LOG__LEVEL -> log.level), then fills defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config: load %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("config: load env: %w", err)
	}

	for key, val := range defaults {
		if !k.Exists(key) {
			if err := k.Set(key, val); err != nil {
				return nil, fmt.Errorf("config: default %s: %w", key, err)
			}
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if cfg.Batch.Workers < 1 {
		return nil, fmt.Errorf("config: batch.workers must be positive, got %d", cfg.Batch.Workers)
	}

	return &cfg, nil
}
