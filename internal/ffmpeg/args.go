package ffmpeg

import (
	"fmt"
	"strings"

	"splice/internal/xerrors"
)

// BuildPreviewArgs returns the argument vector for a stream-copy concat.
// No re-encode happens on this path; it is only sound when every input
// shares codec, resolution, and frame rate.
func BuildPreviewArgs(listPath, outPath string) ([]string, error) {
	if err := requireArgPaths(listPath, outPath); err != nil {
		return nil, err
	}
	args := make([]string, 0, 12)
	// Input section.
	args = append(args, "-f", "concat", "-safe", "0", "-i", listPath)
	// Copy every stream as-is.
	args = append(args, "-c", "copy")
	args = append(args, "-movflags", "+faststart")
	args = append(args, "-y", outPath)
	return args, nil
}

// BuildFinalArgs returns the argument vector for a normalizing merge. Video
// is re-encoded with the mapped codec; audio, pixel format, and frame rate
// are forced to common values so heterogeneous inputs produce a consistent
// output.
func BuildFinalArgs(listPath, outPath, codecLabel string) ([]string, error) {
	if err := requireArgPaths(listPath, outPath); err != nil {
		return nil, err
	}
	args := make([]string, 0, 32)
	// Input section.
	args = append(args, "-f", "concat", "-safe", "0", "-i", listPath)
	// Video encode.
	args = append(args, "-c:v", CodecFor(codecLabel))
	// Audio normalization: stereo AAC at 192k/48kHz.
	args = append(args, "-c:a", "aac", "-b:a", "192k", "-ar", "48000", "-ac", "2")
	// Force pixel format and frame rate across mixed inputs.
	args = append(args, "-pix_fmt", "yuv420p", "-r", "30")
	args = append(args, "-preset", "medium", "-crf", "23")
	args = append(args, "-movflags", "+faststart")
	args = append(args, "-max_muxing_queue_size", "1024")
	args = append(args, "-y", outPath)
	return args, nil
}

// BuildDownscaleArgs returns the argument vector for the optional preview
// downscale pass: a fast re-encode of a single input at reduced dimensions
// to keep cache artifacts small. Dimensions must already be even.
func BuildDownscaleArgs(inPath, outPath string, width, height int) ([]string, error) {
	if err := requireArgPaths(inPath, outPath); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, xerrors.Wrap(xerrors.ErrBuild, "build", "arguments", fmt.Sprintf("invalid dimensions %dx%d", width, height), nil)
	}
	args := make([]string, 0, 18)
	args = append(args, "-i", inPath)
	args = append(args, "-vf", fmt.Sprintf("scale=%d:%d", width, height))
	// Speed over quality; previews are disposable.
	args = append(args, "-c:v", "libx264", "-preset", "ultrafast", "-crf", "28")
	args = append(args, "-c:a", "aac", "-b:a", "128k")
	args = append(args, "-movflags", "+faststart")
	args = append(args, "-y", outPath)
	return args, nil
}

func requireArgPaths(inPath, outPath string) error {
	if strings.TrimSpace(inPath) == "" {
		return xerrors.Wrap(xerrors.ErrBuild, "build", "arguments", "input path required", nil)
	}
	if strings.TrimSpace(outPath) == "" {
		return xerrors.Wrap(xerrors.ErrBuild, "build", "arguments", "output path required", nil)
	}
	return nil
}
