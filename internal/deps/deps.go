package deps

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"splice/internal/config"
)

// Requirement defines an external dependency splice relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// versionTimeout bounds the `-version` capture per binary.
const versionTimeout = 5 * time.Second

// CheckBinaries evaluates the provided requirements and reports availability.
// When a binary resolves, its first `-version` output line is captured as the
// status detail.
func CheckBinaries(ctx context.Context, requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Command = resolved
		status.Available = true
		if version := captureVersion(ctx, resolved); version != "" {
			status.Detail = version
		}
		results = append(results, status)
	}
	return results
}

// captureVersion runs `binary -version` and returns the first output line.
// Failures return an empty string; availability was already established by
// LookPath and a chatty binary must not fail the check.
func captureVersion(ctx context.Context, binary string) string {
	runCtx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	output, err := exec.CommandContext(runCtx, binary, "-version").Output()
	if err != nil {
		return ""
	}
	line, _, _ := strings.Cut(string(output), "\n")
	return strings.TrimSpace(line)
}

// CheckDirectoryAccess verifies that the directory exists and is readable,
// writable, and traversable.
func CheckDirectoryAccess(name, path string) Status {
	status := Status{Name: name, Command: path}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			status.Detail = fmt.Sprintf("%s does not exist", path)
			return status
		}
		status.Detail = fmt.Sprintf("stat %s: %v", path, err)
		return status
	}
	if !info.IsDir() {
		status.Detail = fmt.Sprintf("%s is not a directory", path)
		return status
	}
	if err := accessReadWrite(path); err != nil {
		status.Detail = fmt.Sprintf("insufficient permissions on %s: %v", path, err)
		return status
	}
	status.Available = true
	status.Detail = "read/write ok"
	return status
}

// Check evaluates every tool and directory requirement for the given config.
// The CLI status command renders the result; nothing here mutates state.
func Check(ctx context.Context, cfg *config.Config) []Status {
	if cfg == nil {
		return nil
	}
	statuses := CheckBinaries(ctx, []Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.FFmpegBinary(),
			Description: "Required for merging",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.FFprobeBinary(),
			Description: "Required for media inspection",
		},
	})
	statuses = append(statuses, CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir))
	statuses = append(statuses, CheckDirectoryAccess("Preview cache", cfg.Preview.CacheDir))
	return statuses
}
