// Package xerrors defines the pipeline error taxonomy.
//
// Every failure surfaced by the merge pipeline is tagged with one of the
// sentinel markers below so callers can classify outcomes with errors.Is
// without parsing messages.
package xerrors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrProbe marks media inspection failures.
	ErrProbe = errors.New("probe error")
	// ErrBuild marks command construction failures (bad inputs, concat list I/O).
	ErrBuild = errors.New("build error")
	// ErrSpawn marks failures to start the encoder process.
	ErrSpawn = errors.New("spawn error")
	// ErrExit marks encoder runs that started but exited unsuccessfully.
	ErrExit = errors.New("exit error")
	// ErrCancelled marks user-requested cancellation.
	ErrCancelled = errors.New("cancelled")
	// ErrCacheIO marks preview cache filesystem failures.
	ErrCacheIO = errors.New("cache io error")
)

// Wrap builds an error that carries stage context while tagging it with the
// provided marker for later classification. The marker should be one of the
// exported sentinels above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExit
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind returns a short label for the taxonomy marker found in err, or
// "unknown" when the error carries none.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCancelled):
		return "cancelled"
	case errors.Is(err, ErrProbe):
		return "probe"
	case errors.Is(err, ErrBuild):
		return "build"
	case errors.Is(err, ErrSpawn):
		return "spawn"
	case errors.Is(err, ErrExit):
		return "exit"
	case errors.Is(err, ErrCacheIO):
		return "cache"
	default:
		return "unknown"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "pipeline failure"
	}
	return strings.Join(parts, ": ")
}
