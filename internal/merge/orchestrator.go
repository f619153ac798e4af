package merge

import (
	"context"
	"errors"
	"sync"
	"time"

	"log/slog"

	"splice/internal/ffmpeg"
	"splice/internal/history"
	"splice/internal/logging"
	"splice/internal/media"
	"splice/internal/media/ffprobe"
	"splice/internal/previewcache"
)

// ErrBusy is returned by Start while another job is still in flight on the
// same orchestrator.
var ErrBusy = errors.New("merge already in progress")

// Options wires an orchestrator's collaborators. Zero values fall back to
// production defaults where one exists.
type Options struct {
	// FFmpegBinary is the encoder executable; defaults to "ffmpeg".
	FFmpegBinary string
	// FFprobeBinary is the inspection executable used by the default
	// prober; defaults to "ffprobe".
	FFprobeBinary string
	// WorkDir hosts concat list files; required.
	WorkDir string
	// ProbeTimeout bounds each probe invocation when the default prober is
	// used.
	ProbeTimeout time.Duration
	// MergeTimeout bounds the encoder run; zero disables the limit.
	MergeTimeout time.Duration
	// Prober overrides media inspection, mainly for tests.
	Prober media.Prober
	// Executor overrides encoder execution, mainly for tests.
	Executor ffmpeg.Executor
	// Cache receives successful preview artifacts; nil disables caching.
	Cache *previewcache.Manager
	// History records one row per job; nil disables recording.
	History *history.Store
	Logger  *slog.Logger
}

// Orchestrator drives merge jobs through the pipeline state machine. One job
// may be in flight at a time.
type Orchestrator struct {
	binary       string
	workDir      string
	mergeTimeout time.Duration
	prober       media.Prober
	executor     ffmpeg.Executor
	cache        *previewcache.Manager
	store        *history.Store
	logger       *slog.Logger

	mu     sync.Mutex
	active *Handle
}

// NewOrchestrator builds an orchestrator from the given options.
func NewOrchestrator(opts Options) *Orchestrator {
	binary := opts.FFmpegBinary
	if binary == "" {
		binary = "ffmpeg"
	}
	prober := opts.Prober
	if prober == nil {
		prober = defaultProber(opts.FFprobeBinary, opts.ProbeTimeout)
	}
	executor := opts.Executor
	if executor == nil {
		executor = ffmpeg.NewExecutor()
	}
	return &Orchestrator{
		binary:       binary,
		workDir:      opts.WorkDir,
		mergeTimeout: opts.MergeTimeout,
		prober:       prober,
		executor:     executor,
		cache:        opts.Cache,
		store:        opts.History,
		logger:       logging.WithComponent(opts.Logger, "merge"),
	}
}

// Start validates the request and launches the job on its own goroutine.
// Validation failures return before any callback fires; once a Handle is
// returned, exactly one OnComplete call follows.
func (o *Orchestrator) Start(ctx context.Context, req Request) (*Handle, error) {
	if err := o.validate(req); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	jobCtx, cancel := context.WithCancel(ctx)
	handle := newHandle(cancel)

	o.mu.Lock()
	if o.active != nil {
		select {
		case <-o.active.Done():
			o.active = nil
		default:
			o.mu.Unlock()
			cancel()
			return nil, ErrBusy
		}
	}
	o.active = handle
	o.mu.Unlock()

	j := &job{
		o:       o,
		req:     req,
		handle:  handle,
		ctx:     jobCtx,
		logger:  o.logger,
		sampler: logging.NewProgressSampler(0),
	}
	go func() {
		defer cancel()
		defer o.release(handle)
		j.run()
	}()
	return handle, nil
}

// Active returns the in-flight handle, or nil when the orchestrator is idle.
func (o *Orchestrator) Active() *Handle {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.active == nil {
		return nil
	}
	select {
	case <-o.active.Done():
		return nil
	default:
		return o.active
	}
}

func (o *Orchestrator) release(handle *Handle) {
	o.mu.Lock()
	if o.active == handle {
		o.active = nil
	}
	o.mu.Unlock()
}

// defaultProber runs the real ffprobe binary with a per-call timeout.
func defaultProber(binary string, timeout time.Duration) media.Prober {
	return media.ProberFunc(func(ctx context.Context, path string) (ffprobe.Result, error) {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return ffprobe.Inspect(ctx, binary, path)
	})
}
