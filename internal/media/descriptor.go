package media

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"splice/internal/media/ffprobe"
	"splice/internal/xerrors"
)

// Fallback dimensions used when a probe cannot report the source size.
const (
	FallbackWidth  = 1920
	FallbackHeight = 1080
)

// Prober abstracts ffprobe execution so pipeline code can be exercised
// without the binary installed.
type Prober interface {
	Inspect(ctx context.Context, path string) (ffprobe.Result, error)
}

// ProberFunc adapts a function to the Prober interface.
type ProberFunc func(ctx context.Context, path string) (ffprobe.Result, error)

// Inspect calls the wrapped function.
func (f ProberFunc) Inspect(ctx context.Context, path string) (ffprobe.Result, error) {
	return f(ctx, path)
}

// Descriptor captures the per-file properties the merge pipeline compares
// and reports. CodecName is the probe's short name upper-cased (H264, HEVC);
// FrameRateRational is the raw probe rational (for example "30000/1001").
type Descriptor struct {
	Path              string
	CodecName         string
	Width             int
	Height            int
	FrameRateRational string
	DurationSeconds   float64
}

// Resolution returns the descriptor's dimensions as "WIDTHxHEIGHT", or an
// empty string when either dimension is unknown.
func (d Descriptor) Resolution() string {
	if d.Width <= 0 || d.Height <= 0 {
		return ""
	}
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// FrameRate returns the descriptor's frame rate in frames per second rounded
// to two decimals, or 0 when the rational is unavailable.
func (d Descriptor) FrameRate() float64 {
	rate, ok := parseRationalRate(d.FrameRateRational)
	if !ok {
		return 0
	}
	return math.Round(rate*100) / 100
}

// Summary returns a short one-line description for progress and table output.
func (d Descriptor) Summary() string {
	parts := make([]string, 0, 3)
	if d.CodecName != "" {
		parts = append(parts, d.CodecName)
	}
	if res := d.Resolution(); res != "" {
		parts = append(parts, res)
	}
	if rate := d.FrameRate(); rate > 0 {
		parts = append(parts, fmt.Sprintf("%gfps", rate))
	}
	if len(parts) == 0 {
		return "no video info"
	}
	return strings.Join(parts, " ")
}

// Describe probes a single file and reduces the result to a Descriptor.
// Files without a video stream are rejected.
func Describe(ctx context.Context, prober Prober, path string) (Descriptor, error) {
	result, err := prober.Inspect(ctx, path)
	if err != nil {
		return Descriptor{}, xerrors.Wrap(xerrors.ErrProbe, "probe", "describe", filepath.Base(path), err)
	}
	stream, ok := result.FirstVideoStream()
	if !ok {
		return Descriptor{}, xerrors.Wrap(xerrors.ErrProbe, "probe", "describe", fmt.Sprintf("%s: no video stream", filepath.Base(path)), nil)
	}
	return Descriptor{
		Path:              path,
		CodecName:         strings.ToUpper(strings.TrimSpace(stream.CodecName)),
		Width:             stream.Width,
		Height:            stream.Height,
		FrameRateRational: strings.TrimSpace(stream.FrameRate),
		DurationSeconds:   result.DurationSeconds(),
	}, nil
}

// DescribeAll probes every path in order. The returned slice is positional:
// a failed probe leaves a zero Descriptor at its index and records the error
// at the same index in errs. ok reports whether every probe succeeded.
func DescribeAll(ctx context.Context, prober Prober, paths []string) (descs []Descriptor, errs []error, ok bool) {
	descs = make([]Descriptor, len(paths))
	errs = make([]error, len(paths))
	ok = true
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			errs[i] = err
			ok = false
			continue
		}
		desc, err := Describe(ctx, prober, path)
		if err != nil {
			errs[i] = err
			ok = false
			continue
		}
		descs[i] = desc
	}
	return descs, errs, ok
}

// TotalDuration sums the probed duration of every input. It fails when any
// file cannot be probed or reports a non-positive duration, so callers can
// fall back to indeterminate progress.
func TotalDuration(ctx context.Context, prober Prober, paths []string) (float64, error) {
	var total float64
	for _, path := range paths {
		result, err := prober.Inspect(ctx, path)
		if err != nil {
			return 0, xerrors.Wrap(xerrors.ErrProbe, "probe", "duration", filepath.Base(path), err)
		}
		duration := result.DurationSeconds()
		if duration <= 0 {
			return 0, xerrors.Wrap(xerrors.ErrProbe, "probe", "duration", fmt.Sprintf("%s: duration unavailable", filepath.Base(path)), nil)
		}
		total += duration
	}
	if total <= 0 {
		return 0, xerrors.Wrap(xerrors.ErrProbe, "probe", "duration", "no inputs", nil)
	}
	return total, nil
}

// ProbeDimensions returns the first video stream's dimensions, falling back
// to 1920x1080 when the probe fails or reports non-positive values.
func ProbeDimensions(ctx context.Context, prober Prober, path string) (width, height int) {
	result, err := prober.Inspect(ctx, path)
	if err != nil {
		return FallbackWidth, FallbackHeight
	}
	stream, ok := result.FirstVideoStream()
	if !ok || stream.Width <= 0 || stream.Height <= 0 {
		return FallbackWidth, FallbackHeight
	}
	return stream.Width, stream.Height
}

func parseRationalRate(value string) (float64, bool) {
	return ffprobe.Stream{FrameRate: value}.FrameRateValue()
}
