//go:build windows

package ffmpeg

import (
	"os"
	"syscall"

	"golang.org/x/sys/windows"
)

// spawnAttributes suppresses the console window the encoder would otherwise
// flash when the process starts outside a terminal.
func spawnAttributes() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		CreationFlags: windows.CREATE_NO_WINDOW,
		HideWindow:    true,
	}
}

// terminateProcess kills the encoder outright; signal delivery is not
// available on this platform.
func terminateProcess(process *os.Process) error {
	if process == nil {
		return nil
	}
	return process.Kill()
}
