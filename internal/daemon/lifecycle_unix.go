//go:build !windows

package daemon

import (
	"fmt"
	"os"
	"syscall"
)

// spawnDaemon starts a new daemon process detached from the current terminal.
func spawnDaemon() error {
	cmd, err := daemonCommand()
	if err != nil {
		return err
	}

	// Detach from terminal
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true, // Create new session
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start daemon: %w", err)
	}

	// Release the process so it can run independently
	cmd.Process.Release()
	return nil
}

// isProcessAlive checks if a process with the given PID exists.
func isProcessAlive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// On Unix, FindProcess always succeeds. Use kill(0) to check existence.
	err = process.Signal(syscall.Signal(0))
	return err == nil
}
