// Package config loads clash settings: built-in defaults, overlaid by an
// optional YAML file, overlaid by CLASH_* environment variables.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

type History struct {
	Enabled bool   `yaml:"enabled"`
	DBPath  string `yaml:"db_path"`
}

type Config struct {
	Runs             int     `yaml:"runs"`
	Warmup           int     `yaml:"warmup"`
	SampleIntervalMs int     `yaml:"sample_interval_ms"`
	NoColor          bool    `yaml:"no_color"`
	History          History `yaml:"history"`
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./clash-history.db"
	}
	return filepath.Join(home, ".clash", "history.db")
}

// Load reads the config at yamlPath. A missing file is not an error: the
// defaults apply. Environment variables win over the file.
func Load(yamlPath string) (*Config, error) {
	cfg := &Config{
		Runs:             5,
		Warmup:           0,
		SampleIntervalMs: 30,
		History: History{
			Enabled: true,
			DBPath:  defaultDBPath(),
		},
	}

	if yamlPath != "" {
		data, err := os.ReadFile(yamlPath)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CLASH_RUNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Runs = n
		}
	}
	if v := os.Getenv("CLASH_WARMUP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Warmup = n
		}
	}
	if v := os.Getenv("CLASH_SAMPLE_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.SampleIntervalMs = n
		}
	}
	if v := os.Getenv("CLASH_NO_COLOR"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.NoColor = b
		}
	}
	if v := os.Getenv("CLASH_HISTORY_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.History.Enabled = b
		}
	}
	if v := os.Getenv("CLASH_HISTORY_DB_PATH"); v != "" {
		cfg.History.DBPath = v
	}
}
