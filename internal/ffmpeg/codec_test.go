package ffmpeg

import "testing"

func TestCodecFor(t *testing.T) {
	cases := []struct {
		label string
		want  string
	}{
		{"H.264", "libx264"},
		{"h.264", "libx264"},
		{"H.265", "libx265"},
		{"VP8", "libvpx"},
		{"VP9", "libvpx-vp9"},
		{"MPEG-4", "mpeg4"},
		{"MPEG-2", "mpeg2video"},
		{"ProRes", "prores"},
		{"theora", "libtheora"},
		{"AV1", "libaom-av1"},
		{"WMV", "wmv2"},
		{"DivX Ultra", "libx264"},
		{"", "libx264"},
		{"  H.265  ", "libx265"},
	}
	for _, tc := range cases {
		if got := CodecFor(tc.label); got != tc.want {
			t.Fatalf("%q: expected %q, got %q", tc.label, tc.want, got)
		}
	}
}

func TestCodecLabels(t *testing.T) {
	labels := CodecLabels()
	if len(labels) != 10 {
		t.Fatalf("expected 10 labels, got %d", len(labels))
	}
	if labels[0] != DefaultCodecLabel {
		t.Fatalf("expected default label first, got %q", labels[0])
	}
}

func TestOutputWithFormat(t *testing.T) {
	cases := []struct {
		path, format string
		want         string
	}{
		{"/out/merged", "", "/out/merged.mp4"},
		{"/out/merged", ".mkv", "/out/merged.mkv"},
		{"/out/merged", "mkv", "/out/merged.mkv"},
		{"/out/merged.mp4", ".mp4", "/out/merged.mp4"},
		{"/out/MERGED.MP4", ".mp4", "/out/MERGED.MP4"},
		{"/out/merged.avi", ".mp4", "/out/merged.avi.mp4"},
	}
	for _, tc := range cases {
		if got := OutputWithFormat(tc.path, tc.format); got != tc.want {
			t.Fatalf("(%q, %q): expected %q, got %q", tc.path, tc.format, tc.want, got)
		}
	}
}
