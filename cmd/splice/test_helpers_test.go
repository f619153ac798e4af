package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeCLIConfig writes a config file whose directories all live under a
// fresh temp dir, and returns its path.
func writeCLIConfig(t *testing.T, mutate func(lines []string) []string) string {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(base, "cache"))

	lines := []string{
		"[paths]",
		fmt.Sprintf("work_dir = %q", filepath.Join(base, "work")),
		fmt.Sprintf("log_dir = %q", filepath.Join(base, "logs")),
		"",
		"[preview]",
		fmt.Sprintf("cache_dir = %q", filepath.Join(base, "previews")),
		"",
		"[history]",
		"enabled = true",
		fmt.Sprintf("path = %q", filepath.Join(base, "history.db")),
	}
	if mutate != nil {
		lines = mutate(lines)
	}

	configPath := filepath.Join(base, "config.toml")
	if err := os.WriteFile(configPath, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
