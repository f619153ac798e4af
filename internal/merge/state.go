package merge

// State identifies where a merge job sits in its lifecycle.
type State int

const (
	// StateIdle means no job has started yet.
	StateIdle State = iota
	// StateProbing covers media inspection across all inputs.
	StateProbing
	// StateSkipped is the preview-only terminal state reached when inputs
	// are not uniform; the job completes successfully without an artifact.
	StateSkipped
	// StateBuilding covers concat-list and argument construction.
	StateBuilding
	// StateRunning means the encoder subprocess is live.
	StateRunning
	// StateSucceeded is the terminal success state with an artifact.
	StateSucceeded
	// StateFailed is the terminal error state.
	StateFailed
	// StateCancelled is the terminal state for user-initiated cancellation.
	StateCancelled
)

// String returns the lowercase state label.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateProbing:
		return "probing"
	case StateSkipped:
		return "skipped"
	case StateBuilding:
		return "building"
	case StateRunning:
		return "running"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state ends a job.
func (s State) Terminal() bool {
	switch s {
	case StateSkipped, StateSucceeded, StateFailed, StateCancelled:
		return true
	default:
		return false
	}
}
