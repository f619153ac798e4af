package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"splice/internal/config"
)

func TestLoadDefaultsAndExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_CACHE_HOME", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantWork := filepath.Join(tempHome, ".local", "share", "splice", "work")
	if cfg.Paths.WorkDir != wantWork {
		t.Fatalf("unexpected work dir: got %q want %q", cfg.Paths.WorkDir, wantWork)
	}
	if cfg.FFmpegBinary() != "ffmpeg" {
		t.Fatalf("unexpected ffmpeg binary: %q", cfg.FFmpegBinary())
	}
	if cfg.FFprobeBinary() != "ffprobe" {
		t.Fatalf("unexpected ffprobe binary: %q", cfg.FFprobeBinary())
	}
	if cfg.Encoder.ProbeTimeout != 10 {
		t.Fatalf("unexpected probe timeout: %d", cfg.Encoder.ProbeTimeout)
	}
	if cfg.Preview.MaxAgeHours != 24 {
		t.Fatalf("unexpected cache max age: %d", cfg.Preview.MaxAgeHours)
	}
	if cfg.Preview.DownscaleFactor != 0.5 {
		t.Fatalf("unexpected downscale factor: %g", cfg.Preview.DownscaleFactor)
	}
	if cfg.Preview.Downscale {
		t.Fatal("expected downscale disabled by default")
	}
	if !cfg.History.Enabled {
		t.Fatal("expected history enabled by default")
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %q/%q", cfg.Logging.Format, cfg.Logging.Level)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.WorkDir, cfg.Paths.LogDir, cfg.Preview.CacheDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q to exist", dir)
		}
	}
}

func TestLoadParsesFileAndOverrides(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(tempHome, "splice.toml")
	content := strings.Join([]string{
		"[paths]",
		`work_dir = "~/scratch"`,
		"[encoder]",
		`ffmpeg_binary = "/opt/ffmpeg/bin/ffmpeg"`,
		"probe_timeout = 5",
		"[preview]",
		"max_age_hours = 48",
		"downscale = true",
		"downscale_factor = 0.25",
		"[logging]",
		`level = "debug"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != path {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Paths.WorkDir != filepath.Join(tempHome, "scratch") {
		t.Fatalf("work dir not expanded: %q", cfg.Paths.WorkDir)
	}
	if cfg.FFmpegBinary() != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("unexpected ffmpeg binary: %q", cfg.FFmpegBinary())
	}
	if cfg.Encoder.ProbeTimeout != 5 {
		t.Fatalf("unexpected probe timeout: %d", cfg.Encoder.ProbeTimeout)
	}
	if cfg.Preview.MaxAgeHours != 48 {
		t.Fatalf("unexpected max age: %d", cfg.Preview.MaxAgeHours)
	}
	if !cfg.Preview.Downscale || cfg.Preview.DownscaleFactor != 0.25 {
		t.Fatalf("unexpected downscale settings: %v/%g", cfg.Preview.Downscale, cfg.Preview.DownscaleFactor)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected log level: %q", cfg.Logging.Level)
	}
}

func TestLoadRejectsBadDownscaleFactor(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(tempHome, "splice.toml")
	if err := os.WriteFile(path, []byte("[preview]\ndownscale_factor = 1.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for downscale_factor > 1")
	}
}

func TestLoadRejectsBadLogFormat(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(tempHome, "splice.toml")
	if err := os.WriteFile(path, []byte("[logging]\nformat = \"yaml\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for unsupported log format")
	}
}

func TestEncoderEnvFallback(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("SPLICE_FFMPEG", "/usr/local/bin/ffmpeg7")

	path := filepath.Join(tempHome, "splice.toml")
	if err := os.WriteFile(path, []byte("[encoder]\nffmpeg_binary = \"\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.FFmpegBinary() != "/usr/local/bin/ffmpeg7" {
		t.Fatalf("expected env fallback, got %q", cfg.FFmpegBinary())
	}
}

func TestHistoryPathDefaultsToLogDir(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(cfg.Paths.LogDir, "history.db")
	if cfg.HistoryPath() != want {
		t.Fatalf("unexpected history path: got %q want %q", cfg.HistoryPath(), want)
	}
}

func TestCreateSampleWritesParseableConfig(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(tempHome, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config did not load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Preview.MaxAgeHours != 24 {
		t.Fatalf("sample config defaults differ: max_age_hours = %d", cfg.Preview.MaxAgeHours)
	}
}
