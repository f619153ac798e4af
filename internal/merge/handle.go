package merge

import (
	"context"
	"sync"
)

// Handle tracks one running job. All methods are safe to call from any
// goroutine, including after the job has finished.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu        sync.Mutex
	state     State
	cancelled bool
	err       error
	result    Result
}

func newHandle(cancel context.CancelFunc) *Handle {
	return &Handle{
		cancel: cancel,
		done:   make(chan struct{}),
		state:  StateIdle,
	}
}

// State returns the job's current state.
func (h *Handle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Cancel requests termination of the running encoder. It is idempotent and a
// no-op once the job has reached a terminal state.
func (h *Handle) Cancel() {
	h.mu.Lock()
	if h.state.Terminal() {
		h.mu.Unlock()
		return
	}
	h.cancelled = true
	h.mu.Unlock()
	h.cancel()
}

// Done is closed when the job reaches a terminal state.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Err returns the job error once Done is closed; nil for Succeeded and
// Skipped outcomes.
func (h *Handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// Outcome returns the completion result once Done is closed.
func (h *Handle) Outcome() Result {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.result
}

func (h *Handle) setState(state State) {
	h.mu.Lock()
	h.state = state
	h.mu.Unlock()
}

func (h *Handle) wasCancelled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cancelled
}

func (h *Handle) finish(state State, result Result, err error) {
	h.mu.Lock()
	h.state = state
	h.result = result
	h.err = err
	h.mu.Unlock()
	close(h.done)
}
