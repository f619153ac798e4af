package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigInitWritesSample(t *testing.T) {
	configPath := writeCLIConfig(t, nil)
	target := filepath.Join(t.TempDir(), "config.toml")

	out, _, err := runCLI(t, configPath, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	configPath := writeCLIConfig(t, nil)
	target := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(target, []byte("# existing\n"), 0o644); err != nil {
		t.Fatalf("seed config: %v", err)
	}

	_, _, err := runCLI(t, configPath, "config", "init", "--path", target)
	if err == nil {
		t.Fatal("expected error when target exists")
	}
	requireContains(t, err.Error(), "already exists")

	out, _, err := runCLI(t, configPath, "config", "init", "--path", target, "--overwrite")
	if err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
}

func TestConfigValidate(t *testing.T) {
	configPath := writeCLIConfig(t, nil)

	out, _, err := runCLI(t, configPath, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, configPath)
}

func TestConfigValidateRejectsBadFormat(t *testing.T) {
	configPath := writeCLIConfig(t, func(lines []string) []string {
		return append(lines, "", "[logging]", `format = "xml"`)
	})

	_, _, err := runCLI(t, configPath, "config", "validate")
	if err == nil {
		t.Fatal("expected validation error")
	}
	requireContains(t, err.Error(), "logging.format")
}

func TestConfigShowPrintsResolvedConfig(t *testing.T) {
	configPath := writeCLIConfig(t, nil)

	out, _, err := runCLI(t, configPath, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, configPath)
	requireContains(t, out, "work_dir")
	requireContains(t, out, "ffmpeg_binary")
}
