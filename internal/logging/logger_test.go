package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	logger = WithComponent(logger, "prober")
	logger.Info("inspected input", String("path", "/tmp/a.mp4"), Int("streams", 2))

	line := buf.String()
	if !strings.Contains(line, "INFO prober: inspected input") {
		t.Fatalf("unexpected console line: %q", line)
	}
	if !strings.Contains(line, "path=/tmp/a.mp4") {
		t.Fatalf("missing path attr: %q", line)
	}
	if !strings.Contains(line, "streams=2") {
		t.Fatalf("missing streams attr: %q", line)
	}
}

func TestNewConsoleQuotesSpacedValues(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "console", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	logger.Info("progress", String("message", "Merging videos..."), String("stage", "merge running"))

	line := buf.String()
	if !strings.Contains(line, `stage="merge running"`) {
		t.Fatalf("expected quoted stage value, got %q", line)
	}
	if !strings.Contains(line, "message=Merging") {
		t.Fatalf("expected message attr, got %q", line)
	}
}

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	logger.Debug("spawned encoder", String("binary", "ffmpeg"))

	line := buf.String()
	for _, want := range []string{`"level":"debug"`, `"msg":"spawned encoder"`, `"binary":"ffmpeg"`, `"ts":"`} {
		if !strings.Contains(line, want) {
			t.Fatalf("json output missing %s: %q", want, line)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	logger.Info("hidden")
	logger.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line leaked through warn level: %q", out)
	}
	if !strings.Contains(out, "WARN visible") {
		t.Fatalf("warn line missing: %q", out)
	}
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for input, want := range cases {
		if got := parseLevel(input); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestWithComponentNilLogger(t *testing.T) {
	logger := WithComponent(nil, "cache")
	// Must not panic and must swallow output.
	logger.Info("ignored")
}

func TestFlattenGroups(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "console", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	logger.Info("done", slog.Group("job", String("id", "abc"), Int("inputs", 3)))

	line := buf.String()
	if !strings.Contains(line, "job.id=abc") || !strings.Contains(line, "job.inputs=3") {
		t.Fatalf("group attrs not flattened: %q", line)
	}
}
