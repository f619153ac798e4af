package merge

import (
	"fmt"
	"os"
	"strings"

	"splice/internal/ffmpeg"
	"splice/internal/xerrors"
)

// Request describes one merge job. The pipeline never mutates it.
type Request struct {
	// Inputs is the ordered list of video files to merge; order is the
	// merge order.
	Inputs []string
	// Output is the destination path. Required for final merges; previews
	// may leave it empty when a preview cache is wired, in which case the
	// cache reserves the artifact location.
	Output string
	// Preview selects the stream-copy fast path gated on input uniformity.
	// When false the job always re-encodes.
	Preview bool
	// Codec is the human codec label for final merges ("H.264", "VP9", ...).
	// Unknown or empty labels fall back to the default encoder.
	Codec string
	// Format is the container format for final merges; defaults to mp4.
	Format string
	// DownscaleFactor, when in (0, 1), re-encodes the preview at reduced
	// dimensions after the stream copy to keep cache artifacts small.
	DownscaleFactor float64

	// OnState fires on every state transition.
	OnState func(State)
	// OnProgress fires zero or more times with monotonically non-decreasing
	// percentages; Percent is -1 when total duration is unknown.
	OnProgress func(ffmpeg.ProgressUpdate)
	// OnComplete fires exactly once per started job.
	OnComplete func(Result)
}

// Result is the single completion value delivered per job.
type Result struct {
	// Success is true for Succeeded and Skipped outcomes.
	Success bool
	// Skipped marks a preview that completed without an artifact because
	// the inputs were not uniform.
	Skipped bool
	// Message is a human-readable completion summary suitable for display.
	Message string
	// ArtifactPath locates the merged output; empty for skipped and failed
	// jobs.
	ArtifactPath string
}

// validate rejects requests the pipeline cannot start. Failures surface as
// build errors from Start before any callback fires.
func (o *Orchestrator) validate(req Request) error {
	if len(req.Inputs) == 0 {
		return xerrors.Wrap(xerrors.ErrBuild, "validate", "request", "no input videos", nil)
	}
	for _, input := range req.Inputs {
		if strings.TrimSpace(input) == "" {
			return xerrors.Wrap(xerrors.ErrBuild, "validate", "request", "empty input path", nil)
		}
		if _, err := os.Stat(input); err != nil {
			return xerrors.Wrap(xerrors.ErrBuild, "validate", "request", fmt.Sprintf("input %s", input), err)
		}
	}
	if !req.Preview && strings.TrimSpace(req.Output) == "" {
		return xerrors.Wrap(xerrors.ErrBuild, "validate", "request", "output path required", nil)
	}
	if req.Preview && o.cache == nil && strings.TrimSpace(req.Output) == "" {
		return xerrors.Wrap(xerrors.ErrBuild, "validate", "request", "preview needs an output path or a cache", nil)
	}
	if req.DownscaleFactor < 0 || req.DownscaleFactor > 1 {
		return xerrors.Wrap(xerrors.ErrBuild, "validate", "request", fmt.Sprintf("downscale factor %g out of range", req.DownscaleFactor), nil)
	}
	return nil
}
