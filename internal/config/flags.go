package config

import (
	"io"
	"log/slog"

	"github.com/spf13/pflag"
)

// AddFlags registers the shared override flags on fs.
func (f *Flags) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.BaseDir, "base", "", "base directory relative paths resolve against")
	fs.StringVar(&f.TextureDir, "textures", "", "directory searched for textures missing at their stored path (default: base)")
	fs.StringVarP(&f.OutputDir, "output", "o", "", "output directory")
	fs.StringVarP(&f.Format, "format", "f", "", "export format: json, yaml or cbor (default: json)")
	fs.IntVar(&f.MaxDepth, "max-depth", 0, "maximum node and action handler nesting")
	fs.IntVarP(&f.Workers, "workers", "j", 0, "number of worker goroutines (default: NumCPU)")
	fs.IntVar(&f.PreviewSize, "size", 0, "largest preview side in pixels (default: 128)")
	fs.StringVar(&f.LogLevel, "log-level", "", "debug, info, warn or error (default: info)")
}

// Setup loads path when set, applies the environment and then flags,
// and fills in defaults.
func Setup(path string, flags Flags) (Config, error) {
	var cfg Config
	if path != "" {
		var err error
		cfg, err = Load(path)
		if err != nil {
			return Config{}, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return Config{}, err
	}
	cfg.Resolve(flags)
	if _, err := cfg.ExportFormat(); err != nil {
		return Config{}, err
	}
	if _, err := cfg.Level(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Logger returns a text logger writing to w at the configured level.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := c.Level()
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
