//go:build !windows

package ffmpeg

import (
	"os"
	"syscall"
)

func spawnAttributes() *syscall.SysProcAttr {
	return nil
}

// terminateProcess asks the encoder to shut down cleanly so it can flush
// container trailer data before exiting.
func terminateProcess(process *os.Process) error {
	if process == nil {
		return nil
	}
	return process.Signal(syscall.SIGTERM)
}
