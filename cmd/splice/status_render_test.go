package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderStatusLinePlain(t *testing.T) {
	line := renderStatusLine("FFmpeg", statusOK, "ffmpeg version 7.1", false)
	requireContains(t, line, "FFmpeg:")
	requireContains(t, line, "[OK] ffmpeg version 7.1")
	if strings.Contains(line, "\x1b[") {
		t.Fatalf("expected no ANSI codes in %q", line)
	}
}

func TestRenderStatusLineColor(t *testing.T) {
	line := renderStatusLine("FFmpeg", statusError, "not found", true)
	if !strings.HasPrefix(line, ansiRed) || !strings.HasSuffix(line, ansiReset) {
		t.Fatalf("expected red wrapping in %q", line)
	}
}

func TestRenderStatusLineWithoutMessage(t *testing.T) {
	line := renderStatusLine("Cache", statusWarn, "", false)
	if !strings.HasSuffix(line, "[WARN]") {
		t.Fatalf("expected bare status suffix in %q", line)
	}
}

func TestRenderSectionHeader(t *testing.T) {
	lines := renderSectionHeader("Tools", false)
	if len(lines) != 2 {
		t.Fatalf("expected header and rule, got %d lines", len(lines))
	}
	if lines[0] != "== Tools ==" {
		t.Fatalf("header = %q", lines[0])
	}
	if len(lines[1]) != len(lines[0]) {
		t.Fatalf("rule length %d != header length %d", len(lines[1]), len(lines[0]))
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(&bytes.Buffer{}) {
		t.Fatal("buffer writer should not colorize")
	}
}
