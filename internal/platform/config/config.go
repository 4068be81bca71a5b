package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const fileName = "config.yaml"

type Config struct {
	DataDir   string
	StorePath string
	DBPath    string
	AuthPath  string

	LogLevel        string
	Location        *time.Location
	SentimentPlugin string
	MetricsAddr     string
}

type fileConfig struct {
	LogLevel        string `yaml:"log_level"`
	Timezone        string `yaml:"timezone"`
	SentimentPlugin string `yaml:"sentiment_plugin"`
	MetricsAddr     string `yaml:"metrics_addr"`
}

// New derives every path from dataDir and overlays <dataDir>/config.yaml when
// it exists.
func New(dataDir string) (Config, error) {
	if dataDir == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	cfg := Config{
		DataDir:   dataDir,
		StorePath: filepath.Join(dataDir, "store"),
		DBPath:    filepath.Join(dataDir, "wellness.db"),
		AuthPath:  filepath.Join(dataDir, "auth.json"),
		LogLevel:  "info",
		Location:  time.Local,
	}

	raw, err := os.ReadFile(filepath.Join(dataDir, fileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	file := fileConfig{}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if v := strings.TrimSpace(file.LogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(file.Timezone); v != "" {
		loc, err := time.LoadLocation(v)
		if err != nil {
			return Config{}, fmt.Errorf("load timezone %q: %w", v, err)
		}
		cfg.Location = loc
	}
	if v := strings.TrimSpace(file.SentimentPlugin); v != "" {
		if !filepath.IsAbs(v) {
			v = filepath.Join(dataDir, v)
		}
		cfg.SentimentPlugin = v
	}
	cfg.MetricsAddr = strings.TrimSpace(file.MetricsAddr)
	return cfg, nil
}
