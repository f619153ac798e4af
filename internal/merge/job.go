package merge

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"log/slog"

	"splice/internal/ffmpeg"
	"splice/internal/fileutil"
	"splice/internal/history"
	"splice/internal/logging"
	"splice/internal/media"
	"splice/internal/xerrors"
)

// job carries the per-run state for one merge. Callbacks fire from the job
// goroutine, except progress during the encoder run, which fires from the
// executor's line reader; the two never overlap because Run joins its
// readers before returning.
type job struct {
	o       *Orchestrator
	req     Request
	handle  *Handle
	ctx     context.Context
	logger  *slog.Logger
	sampler *logging.ProgressSampler

	historyID   int64
	lastPercent int
}

func (j *job) run() {
	j.recordStart()

	j.setState(StateProbing)
	j.emitProgress("probe", 10, "Preparing video merge...")

	var total float64
	if j.req.Preview {
		descs, errs, _ := media.DescribeAll(j.ctx, j.o.prober, j.req.Inputs)
		if j.cancelRequested() {
			j.finishCancelled("")
			return
		}
		verdict := media.Classify(descs, errs)
		if !verdict.Uniform {
			j.finishSkipped(verdict)
			return
		}
		total = sumDurations(descs)
	} else {
		t, err := media.TotalDuration(j.ctx, j.o.prober, j.req.Inputs)
		if err != nil {
			if j.cancelRequested() {
				j.finishCancelled("")
				return
			}
			j.finishFailed(err)
			return
		}
		total = t
	}

	j.setState(StateBuilding)
	j.emitProgress("build", 20, "Building merge command...")

	listPath, err := ffmpeg.WriteConcatList(j.o.workDir, j.req.Inputs)
	if err != nil {
		j.finishFailed(err)
		return
	}
	defer func() {
		if err := ffmpeg.RemoveConcatList(listPath); err != nil {
			j.logger.Warn("failed to remove concat list",
				logging.String("path", listPath), logging.Error(err))
		}
	}()

	outPath := j.outputPath()
	var args []string
	if j.req.Preview {
		args, err = ffmpeg.BuildPreviewArgs(listPath, outPath)
	} else {
		args, err = ffmpeg.BuildFinalArgs(listPath, outPath, j.codecLabel())
	}
	if err != nil {
		j.finishFailed(err)
		return
	}

	j.setState(StateRunning)
	if total > 0 {
		j.emitProgress("merge", ffmpeg.EncodeScale.Offset, "Merging videos...")
	} else {
		j.emitIndeterminate("merge", "Merging videos...")
	}

	if err := j.runEncoder(args, total); err != nil {
		if j.cancelRequested() {
			j.finishCancelled(outPath)
			return
		}
		if removeErr := fileutil.RemoveIfExists(outPath); removeErr != nil {
			j.logger.Warn("failed to remove partial output",
				logging.String("path", outPath), logging.Error(removeErr))
		}
		j.finishFailed(err)
		return
	}
	if j.cancelRequested() {
		// The stop request raced a clean exit; honor the request and
		// discard the output the user no longer wants.
		j.finishCancelled(outPath)
		return
	}

	if !fileutil.NonEmptyFile(outPath) {
		j.finishFailed(xerrors.Wrap(xerrors.ErrExit, "run", "encoder",
			fmt.Sprintf("output %s missing or empty after clean exit", outPath), nil))
		return
	}

	if j.req.Preview && j.req.DownscaleFactor > 0 && j.req.DownscaleFactor < 1 {
		outPath = j.downscale(outPath)
	}

	if j.req.Preview && j.o.cache != nil {
		if err := j.o.cache.Record(j.ctx, outPath); err != nil {
			// Cache bookkeeping never fails a finished merge.
			j.logger.Warn("failed to record preview artifact", logging.Error(err))
		}
	}

	j.emitProgress("complete", 100, "Merge complete!")
	j.complete(StateSucceeded, Result{
		Success:      true,
		Message:      "Merge complete!",
		ArtifactPath: outPath,
	}, nil)
}

// runEncoder executes the encoder, forwarding parsed progress while the
// process is alive. Non-zero exits carry the trailing stderr lines so the
// failure message explains itself.
func (j *job) runEncoder(args []string, total float64) error {
	runCtx := j.ctx
	if j.o.mergeTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, j.o.mergeTimeout)
		defer cancel()
	}

	tail := ffmpeg.NewTail(8)
	_, err := j.o.executor.Run(runCtx, j.o.binary, args, func(line string) {
		tail.Add(line)
		if total <= 0 {
			return
		}
		if elapsed, ok := ffmpeg.ParseTime(line); ok {
			j.emitProgress("merge", ffmpeg.EncodeScale.Percent(elapsed, total), "Merging videos...")
		}
	})
	if err != nil {
		if detail := tail.String(); detail != "" && errors.Is(err, xerrors.ErrExit) {
			return fmt.Errorf("%w\nencoder output:\n%s", err, detail)
		}
		return err
	}
	return nil
}

// downscale re-encodes a finished preview at reduced dimensions. Failures
// keep the full-size artifact; a big preview beats no preview.
func (j *job) downscale(artifact string) string {
	width, height := media.ProbeDimensions(j.ctx, j.o.prober, artifact)
	scaledWidth, scaledHeight := media.CalculateDownscaleDims(width, height, j.req.DownscaleFactor)

	scaled := strings.TrimSuffix(artifact, filepath.Ext(artifact)) + "-scaled.mp4"
	args, err := ffmpeg.BuildDownscaleArgs(artifact, scaled, scaledWidth, scaledHeight)
	if err != nil {
		j.logger.Warn("skipping preview downscale", logging.Error(err))
		return artifact
	}

	j.emitProgress("downscale", ffmpeg.EncodeScale.Cap, "Downscaling preview...")
	if _, err := j.o.executor.Run(j.ctx, j.o.binary, args, nil); err != nil {
		j.logger.Warn("preview downscale failed; keeping full-size preview", logging.Error(err))
		_ = fileutil.RemoveIfExists(scaled)
		return artifact
	}
	if !fileutil.NonEmptyFile(scaled) {
		j.logger.Warn("preview downscale produced no output; keeping full-size preview",
			logging.String("path", scaled))
		_ = fileutil.RemoveIfExists(scaled)
		return artifact
	}
	if err := fileutil.RemoveIfExists(artifact); err != nil {
		j.logger.Warn("failed to remove full-size preview",
			logging.String("path", artifact), logging.Error(err))
	}
	j.logger.Info("downscaled preview",
		logging.String("path", scaled),
		logging.Int("width", scaledWidth),
		logging.Int("height", scaledHeight))
	return scaled
}

// outputPath resolves where the merged artifact lands. Previews without an
// explicit output reserve a slot in the cache, keeping the source container
// extension so the stream copy stays re-mux-safe.
func (j *job) outputPath() string {
	if !j.req.Preview {
		return ffmpeg.OutputWithFormat(j.req.Output, j.req.Format)
	}
	if out := strings.TrimSpace(j.req.Output); out != "" {
		return out
	}
	ext := filepath.Ext(j.req.Inputs[0])
	return j.o.cache.ArtifactPath(ext)
}

func (j *job) codecLabel() string {
	if label := strings.TrimSpace(j.req.Codec); label != "" {
		return label
	}
	return ffmpeg.DefaultCodecLabel
}

// cancelRequested reports whether the user asked for a stop, either through
// the handle or by cancelling the caller's context.
func (j *job) cancelRequested() bool {
	if j.handle.wasCancelled() {
		return true
	}
	return errors.Is(j.ctx.Err(), context.Canceled)
}

func (j *job) setState(state State) {
	j.handle.setState(state)
	j.logger.Debug("state transition", logging.String("state", state.String()))
	if j.req.OnState != nil {
		j.req.OnState(state)
	}
}

// emitProgress delivers a determinate update. Percentages never go
// backwards; a stale parse is clamped to the highest value already reported.
func (j *job) emitProgress(stage string, percent int, message string) {
	if percent < j.lastPercent {
		percent = j.lastPercent
	}
	j.lastPercent = percent
	if j.sampler.ShouldLog(percent, stage) {
		j.logger.Info("merge progress",
			logging.String("stage", stage),
			logging.Int("percent", percent),
			logging.String("message", message))
	}
	if j.req.OnProgress != nil {
		j.req.OnProgress(ffmpeg.ProgressUpdate{Stage: stage, Percent: percent, Message: message})
	}
}

// emitIndeterminate delivers a message-only update for runs whose total
// duration is unknown.
func (j *job) emitIndeterminate(stage, message string) {
	if j.sampler.ShouldLog(ffmpeg.IndeterminatePercent, stage) {
		j.logger.Info("merge progress",
			logging.String("stage", stage),
			logging.String("message", message))
	}
	if j.req.OnProgress != nil {
		j.req.OnProgress(ffmpeg.ProgressUpdate{
			Stage:   stage,
			Percent: ffmpeg.IndeterminatePercent,
			Message: message,
		})
	}
}

func (j *job) finishSkipped(verdict media.Verdict) {
	detail := strings.Join(verdict.Issues, "; ")
	if detail == "" {
		detail = "input properties differ"
	}
	message := fmt.Sprintf("Preview skipped: %s. Use a final merge to combine these videos.", detail)
	j.logger.Info("preview skipped", logging.String("detail", detail))
	j.complete(StateSkipped, Result{Success: true, Skipped: true, Message: message}, nil)
}

func (j *job) finishFailed(err error) {
	j.logger.Error("merge failed", logging.Error(err))
	j.complete(StateFailed, Result{Message: completionMessage(err)}, err)
}

func (j *job) finishCancelled(outPath string) {
	if outPath != "" {
		if err := fileutil.RemoveIfExists(outPath); err != nil {
			j.logger.Warn("failed to remove cancelled output",
				logging.String("path", outPath), logging.Error(err))
		}
	}
	err := xerrors.Wrap(xerrors.ErrCancelled, "run", "merge", "stopped by request", nil)
	j.logger.Info("merge cancelled")
	j.complete(StateCancelled, Result{Message: "Merge cancelled."}, err)
}

// complete records the terminal state and fires the single completion
// callback.
func (j *job) complete(state State, result Result, err error) {
	j.recordOutcome(state, result, err)
	j.handle.finish(state, result, err)
	if j.req.OnState != nil {
		j.req.OnState(state)
	}
	if j.req.OnComplete != nil {
		j.req.OnComplete(result)
	}
}

func (j *job) recordStart() {
	kind := history.KindFinal
	if j.req.Preview {
		kind = history.KindPreview
	}
	id, err := j.o.store.RecordStart(j.ctx, kind, j.req.Inputs, j.req.Output, j.req.Codec)
	if err != nil {
		j.logger.Warn("failed to record job start", logging.Error(err))
		return
	}
	j.historyID = id
}

func (j *job) recordOutcome(state State, result Result, jobErr error) {
	outcome := history.OutcomeFailed
	switch state {
	case StateSucceeded:
		outcome = history.OutcomeSucceeded
	case StateSkipped:
		outcome = history.OutcomeSkipped
	case StateCancelled:
		outcome = history.OutcomeCancelled
	}
	errorText := ""
	if jobErr != nil {
		errorText = jobErr.Error()
	}
	// Outcome recording happens after cancellation, so it gets a fresh
	// context instead of the job's cancelled one.
	if err := j.o.store.RecordOutcome(context.Background(), j.historyID, outcome, result.Message, errorText); err != nil {
		j.logger.Warn("failed to record job outcome", logging.Error(err))
	}
}

func completionMessage(err error) string {
	if err == nil {
		return "Merge failed."
	}
	message, _, _ := strings.Cut(err.Error(), "\n")
	return fmt.Sprintf("Merge failed: %s", message)
}

func sumDurations(descs []media.Descriptor) float64 {
	var total float64
	for _, desc := range descs {
		if desc.DurationSeconds <= 0 {
			return 0
		}
		total += desc.DurationSeconds
	}
	return total
}
