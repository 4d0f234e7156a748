//go:build windows

package daemon

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/windows"
)

// spawnDaemon starts a new daemon process detached from the current console.
func spawnDaemon() error {
	cmd, err := daemonCommand()
	if err != nil {
		return err
	}

	// Detach from console
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP | windows.DETACHED_PROCESS,
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start daemon: %w", err)
	}

	cmd.Process.Release()
	return nil
}

// isProcessAlive checks if a process with the given PID exists.
func isProcessAlive(pid int) bool {
	handle, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		return false
	}
	windows.CloseHandle(handle)
	return true
}
