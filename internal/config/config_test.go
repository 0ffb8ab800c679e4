package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"coppercube-loader/internal/ccb"
	"coppercube-loader/internal/export"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		body string
	}{
		{"tools.json", `{"base_dir": "/data", "workers": 3, "format": "yaml"}`},
		{"tools.yaml", "base_dir: /data\nworkers: 3\nformat: yaml\n"},
		{"tools.yml", "base_dir: /data\nworkers: 3\nformat: yaml\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			if err := os.WriteFile(path, []byte(tt.body), 0644); err != nil {
				t.Fatal(err)
			}
			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if cfg.BaseDir != "/data" || cfg.Workers != 3 || cfg.Format != "yaml" {
				t.Errorf("got %+v", cfg)
			}
		})
	}

	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte("{"), 0644)
	if _, err := Load(bad); err == nil {
		t.Errorf("Load(bad): got nil error")
	}
	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Errorf("Load(missing): got nil error")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("CCB_WORKERS", "7")
	t.Setenv("CCB_LOG_LEVEL", "debug")
	cfg := Config{Workers: 2, Format: "cbor"}
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Workers != 7 || cfg.LogLevel != "debug" {
		t.Errorf("env override: got %+v", cfg)
	}
	if cfg.Format != "cbor" {
		t.Errorf("unset variable changed Format: got %q", cfg.Format)
	}

	t.Setenv("CCB_MAX_DEPTH", "deep")
	if err := cfg.ApplyEnv(); err == nil {
		t.Errorf("ApplyEnv: got nil error for a non-numeric depth")
	}
}

func TestResolve(t *testing.T) {
	cfg := Config{BaseDir: "/data", TextureDir: "textures", OutputDir: "out", Workers: 2}
	cfg.Resolve(Flags{Workers: 5, Format: "yml"})

	if cfg.TextureDir != filepath.Join("/data", "textures") || cfg.OutputDir != filepath.Join("/data", "out") {
		t.Errorf("paths: got %q %q", cfg.TextureDir, cfg.OutputDir)
	}
	if cfg.Workers != 5 {
		t.Errorf("Workers: got %d, want the flag value 5", cfg.Workers)
	}
	if f, err := cfg.ExportFormat(); err != nil || f != export.YAML {
		t.Errorf("ExportFormat: got %q, %v", f, err)
	}
	if cfg.MaxDepth != ccb.DefaultMaxDepth || cfg.PreviewSize != 128 {
		t.Errorf("defaults: got depth=%d preview=%d", cfg.MaxDepth, cfg.PreviewSize)
	}
	if l, err := cfg.Level(); err != nil || l != slog.LevelInfo {
		t.Errorf("Level: got %v, %v", l, err)
	}

	var empty Config
	empty.Resolve(Flags{})
	if empty.Workers != runtime.NumCPU() || empty.TextureDir != "" || empty.Format != "json" {
		t.Errorf("empty config: got %+v", empty)
	}
	empty.LogLevel = "loud"
	if _, err := empty.Level(); err == nil {
		t.Errorf("Level(loud): got nil error")
	}
}

func TestSetupOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tools.yaml")
	os.WriteFile(path, []byte("workers: 2\nformat: cbor\nlog_level: warn\n"), 0644)
	t.Setenv("CCB_WORKERS", "4")
	t.Setenv("CCB_FORMAT", "yaml")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	var flags Flags
	flags.AddFlags(fs)
	if err := fs.Parse([]string{"-j", "6"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Setup(path, flags)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if cfg.Workers != 6 || cfg.Format != "yaml" || cfg.LogLevel != "warn" {
		t.Errorf("got workers=%d format=%q level=%q, want 6, yaml, warn", cfg.Workers, cfg.Format, cfg.LogLevel)
	}

	var buf bytes.Buffer
	log := cfg.Logger(&buf)
	log.Info("hidden")
	log.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("log output: %q", buf.String())
	}

	if _, err := Setup("", Flags{Format: "xml"}); err == nil {
		t.Errorf("Setup(format xml): got nil error")
	}
}
