package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"coppercube-loader/internal/ccb"
	"coppercube-loader/internal/export"
)

// Config holds the paths and decode settings shared by the tools.
type Config struct {
	// Paths
	BaseDir    string `json:"base_dir" yaml:"base_dir" env:"CCB_BASE_DIR"`
	TextureDir string `json:"texture_dir" yaml:"texture_dir" env:"CCB_TEXTURE_DIR"`
	OutputDir  string `json:"output_dir" yaml:"output_dir" env:"CCB_OUTPUT_DIR"`

	// Decode and export settings
	Format      string `json:"format" yaml:"format" env:"CCB_FORMAT"`
	MaxDepth    int    `json:"max_depth" yaml:"max_depth" env:"CCB_MAX_DEPTH"`
	Workers     int    `json:"workers" yaml:"workers" env:"CCB_WORKERS"`
	PreviewSize int    `json:"preview_size" yaml:"preview_size" env:"CCB_PREVIEW_SIZE"`
	LogLevel    string `json:"log_level" yaml:"log_level" env:"CCB_LOG_LEVEL"`
}

// Load reads a JSON or YAML config file, chosen by extension, and
// returns Config. Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// ApplyEnv overrides fields from CCB_* environment variables. Unset
// variables leave the field alone.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	return nil
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file and environment
	if flags.BaseDir != "" {
		c.BaseDir = flags.BaseDir
	}
	if flags.TextureDir != "" {
		c.TextureDir = flags.TextureDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.MaxDepth > 0 {
		c.MaxDepth = flags.MaxDepth
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.PreviewSize > 0 {
		c.PreviewSize = flags.PreviewSize
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}

	// Resolve relative paths against base dir
	if c.BaseDir != "" {
		if c.TextureDir == "" {
			c.TextureDir = c.BaseDir
		} else if !filepath.IsAbs(c.TextureDir) {
			c.TextureDir = filepath.Join(c.BaseDir, c.TextureDir)
		}
		if c.OutputDir != "" && !filepath.IsAbs(c.OutputDir) {
			c.OutputDir = filepath.Join(c.BaseDir, c.OutputDir)
		}
	}

	if c.Format == "" {
		c.Format = string(export.JSON)
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = ccb.DefaultMaxDepth
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.PreviewSize <= 0 {
		c.PreviewSize = 128
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// ExportFormat parses Format.
func (c *Config) ExportFormat() (export.Format, error) {
	return export.ParseFormat(c.Format)
}

// Level parses LogLevel ("debug", "info", "warn", "error").
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: log level %q: %w", c.LogLevel, err)
	}
	return l, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	BaseDir     string
	TextureDir  string
	OutputDir   string
	Format      string
	MaxDepth    int
	Workers     int
	PreviewSize int
	LogLevel    string
}
