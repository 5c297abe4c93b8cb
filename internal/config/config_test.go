package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"breakstretch/internal/config"
)

func TestLoadDefaultsExpandPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if want := filepath.Join(tempHome, ".config", "breakstretch", "config.toml"); resolved != want {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, want)
	}
	if !filepath.IsAbs(cfg.Paths.OutputDir) || filepath.Base(cfg.Paths.OutputDir) != "output" {
		t.Fatalf("expected absolute ./output, got %q", cfg.Paths.OutputDir)
	}
	if cfg.Paths.LogDir != "" {
		t.Fatalf("expected no log dir by default, got %q", cfg.Paths.LogDir)
	}
	if cfg.Stretch.Crispness != 5 || cfg.Stretch.RangeStep != 10 {
		t.Fatalf("unexpected stretch defaults: %+v", cfg.Stretch)
	}
	if cfg.Stretch.RubberbandBinary != "rubberband" {
		t.Fatalf("unexpected rubberband binary: %q", cfg.Stretch.RubberbandBinary)
	}
	if cfg.Detection.MismatchTolerance != 3.0 || cfg.Detection.WarnMismatch {
		t.Fatalf("unexpected detection defaults: %+v", cfg.Detection)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "warn" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadCustomConfig(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(t.TempDir(), "config.toml")
	payload := map[string]any{
		"paths": map[string]any{
			"output_dir": "~/renders",
			"log_dir":    "~/logs",
		},
		"stretch": map[string]any{
			"crispness":  0,
			"range_step": 5,
		},
		"detection": map[string]any{
			"mismatch_tolerance": 1.5,
			"warn_mismatch":      true,
		},
		"conversion": map[string]any{
			"sample_rate":      48000,
			"bit_depth":        24,
			"mono":             true,
			"resample_quality": " FAST ",
		},
		"logging": map[string]any{
			"format": "JSON",
			"level":  "Debug",
		},
	}
	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected explicit config to be used, got %q (exists=%v)", resolved, exists)
	}
	if cfg.Paths.OutputDir != filepath.Join(tempHome, "renders") {
		t.Fatalf("unexpected output dir: %q", cfg.Paths.OutputDir)
	}
	if cfg.Paths.LogDir != filepath.Join(tempHome, "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if cfg.Stretch.Crispness != 0 {
		t.Fatalf("expected explicit zero crispness to survive, got %d", cfg.Stretch.Crispness)
	}
	if cfg.Stretch.RangeStep != 5 {
		t.Fatalf("unexpected range step: %d", cfg.Stretch.RangeStep)
	}
	if cfg.Detection.MismatchTolerance != 1.5 || !cfg.Detection.WarnMismatch {
		t.Fatalf("unexpected detection: %+v", cfg.Detection)
	}
	if cfg.Conversion.SampleRate != 48000 || cfg.Conversion.BitDepth != 24 || !cfg.Conversion.Mono {
		t.Fatalf("unexpected conversion: %+v", cfg.Conversion)
	}
	if cfg.Conversion.ResampleQuality != "fast" {
		t.Fatalf("expected normalized resample quality, got %q", cfg.Conversion.ResampleQuality)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected normalized logging, got %+v", cfg.Logging)
	}
}

func TestLoadProjectConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	project := t.TempDir()
	t.Chdir(project)
	if err := os.WriteFile("breakstretch.toml", []byte("[stretch]\ncrispness = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || filepath.Base(resolved) != "breakstretch.toml" {
		t.Fatalf("expected project config, got %q (exists=%v)", resolved, exists)
	}
	if cfg.Stretch.Crispness != 2 {
		t.Fatalf("unexpected crispness: %d", cfg.Stretch.Crispness)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[stretch]\ncrispy = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected unknown key to be rejected")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"crispness high", func(c *config.Config) { c.Stretch.Crispness = 7 }, "stretch.crispness"},
		{"crispness negative", func(c *config.Config) { c.Stretch.Crispness = -1 }, "stretch.crispness"},
		{"range step", func(c *config.Config) { c.Stretch.RangeStep = 0 }, "stretch.range_step"},
		{"tolerance", func(c *config.Config) { c.Detection.MismatchTolerance = 0 }, "detection.mismatch_tolerance"},
		{"bit depth", func(c *config.Config) { c.Conversion.BitDepth = 32 }, "conversion.bit_depth"},
		{"sample rate", func(c *config.Config) { c.Conversion.SampleRate = -1 }, "conversion.sample_rate"},
		{"quality", func(c *config.Config) { c.Conversion.ResampleQuality = "ultra" }, "conversion.resample_quality"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"log level", func(c *config.Config) { c.Logging.Level = "trace" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in %q", tt.want, err.Error())
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	defaults := config.Default()
	if cfg.Stretch != defaults.Stretch || cfg.Detection != defaults.Detection {
		t.Fatalf("sample config drifted from defaults: %+v", cfg)
	}
}

func TestExpandPathHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := config.ExpandPath("~/loops")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(home, "loops") {
		t.Fatalf("unexpected expansion: %q", got)
	}
}
