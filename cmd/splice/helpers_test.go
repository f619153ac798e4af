package main

import "testing"

func TestTitleLabel(t *testing.T) {
	cases := map[string]string{
		"succeeded": "Succeeded",
		"preview":   "Preview",
		"  final ":  "Final",
		"":          "-",
	}
	for in, want := range cases {
		if got := titleLabel(in); got != want {
			t.Errorf("titleLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHumanBytes(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1536, "1.5 KiB"},
		{3 * 1024 * 1024, "3.0 MiB"},
		{5 * 1024 * 1024 * 1024, "5.0 GiB"},
	}
	for _, tc := range cases {
		if got := humanBytes(tc.in); got != tc.want {
			t.Errorf("humanBytes(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestHumanSeconds(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "-"},
		{-3, "-"},
		{4.2, "4.2s"},
		{123, "2m03s"},
		{3723, "1h02m03s"},
	}
	for _, tc := range cases {
		if got := humanSeconds(tc.in); got != tc.want {
			t.Errorf("humanSeconds(%g) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTruncateText(t *testing.T) {
	if got := truncateText("short", 60); got != "short" {
		t.Errorf("truncateText short = %q", got)
	}
	if got := truncateText("abcdefghij", 8); got != "abcde..." {
		t.Errorf("truncateText long = %q", got)
	}
	if got := truncateText("abcdefghij", 3); got != "abcdefghij" {
		t.Errorf("truncateText tiny max = %q", got)
	}
}
