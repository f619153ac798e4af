package ffmpeg

import (
	"path/filepath"
	"strings"
)

// DefaultCodecLabel is the codec assumed when the caller does not pick one.
const DefaultCodecLabel = "H.264"

// defaultEncoder is the fallback for labels outside the known table.
const defaultEncoder = "libx264"

// codecTable maps human codec labels to encoder identifiers. Lookup is
// case-insensitive; order is preserved for display.
var codecTable = []struct {
	Label   string
	Encoder string
}{
	{"H.264", "libx264"},
	{"H.265", "libx265"},
	{"VP8", "libvpx"},
	{"VP9", "libvpx-vp9"},
	{"MPEG-4", "mpeg4"},
	{"MPEG-2", "mpeg2video"},
	{"ProRes", "prores"},
	{"Theora", "libtheora"},
	{"AV1", "libaom-av1"},
	{"WMV", "wmv2"},
}

// CodecFor maps a human codec label to the encoder identifier passed on the
// command line. Unknown or empty labels fall back to the most broadly
// compatible encoder.
func CodecFor(label string) string {
	label = strings.TrimSpace(label)
	for _, entry := range codecTable {
		if strings.EqualFold(entry.Label, label) {
			return entry.Encoder
		}
	}
	return defaultEncoder
}

// CodecLabels returns the known codec labels in display order.
func CodecLabels() []string {
	labels := make([]string, 0, len(codecTable))
	for _, entry := range codecTable {
		labels = append(labels, entry.Label)
	}
	return labels
}

// OutputWithFormat appends the container format to an output path. The
// format defaults to ".mp4" and gains a leading dot when missing; paths that
// already end in the requested format pass through unchanged.
func OutputWithFormat(path, format string) string {
	format = strings.TrimSpace(format)
	if format == "" {
		format = ".mp4"
	}
	if !strings.HasPrefix(format, ".") {
		format = "." + format
	}
	if strings.EqualFold(filepath.Ext(path), format) {
		return path
	}
	return path + format
}
