package daemon

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bingwall/bingwall/internal/config"
	"github.com/bingwall/bingwall/internal/constants"
	"github.com/bingwall/bingwall/internal/ipc"
)

// PIDFilePath returns the path to the daemon PID file.
func PIDFilePath() string {
	dir, err := config.ConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), constants.AppName+".pid")
	}
	return filepath.Join(dir, constants.AppName+".pid")
}

// WritePIDFile writes the current process's PID to the daemon PID file.
func WritePIDFile() error {
	pidPath := PIDFilePath()
	if err := os.MkdirAll(filepath.Dir(pidPath), 0700); err != nil {
		return fmt.Errorf("failed to create PID file directory: %w", err)
	}
	pid := os.Getpid()
	if err := os.WriteFile(pidPath, []byte(strconv.Itoa(pid)), 0600); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

// RemovePIDFile removes the daemon PID file.
func RemovePIDFile() {
	os.Remove(PIDFilePath())
}

// ReadPIDFile reads the PID from the daemon PID file.
// Returns 0 if the file doesn't exist or is invalid.
func ReadPIDFile() int {
	data, err := os.ReadFile(PIDFilePath())
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(string(data))
	if err != nil {
		return 0
	}
	return pid
}

// IsDaemonRunning reports whether a daemon instance is already running,
// checking the IPC socket first and falling back to the PID file.
func IsDaemonRunning() bool {
	client := ipc.NewClient()
	client.SetTimeout(500 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if _, err := client.GetStatus(ctx); err == nil {
		return true
	}

	pid := ReadPIDFile()
	return pid > 0 && isProcessAlive(pid)
}

// EnsureDaemon connects to a running daemon or spawns one. Used by the
// tray companion so clicking its menu always has a daemon to talk to.
func EnsureDaemon() (*ipc.Client, error) {
	client := ipc.NewClient()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if _, err := client.GetStatus(ctx); err == nil {
		return client, nil
	}

	pid := ReadPIDFile()
	if pid > 0 && isProcessAlive(pid) {
		// Daemon process exists but the socket is not ready yet
		if waitForDaemon(3 * time.Second) {
			return client, nil
		}
	}

	if err := spawnDaemon(); err != nil {
		return nil, fmt.Errorf("failed to spawn daemon: %w", err)
	}

	if !waitForDaemon(5 * time.Second) {
		return nil, fmt.Errorf("daemon did not start within 5s")
	}

	return client, nil
}

// waitForDaemon polls until the daemon answers a status request.
func waitForDaemon(timeout time.Duration) bool {
	client := ipc.NewClient()
	client.SetTimeout(500 * time.Millisecond)
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		_, err := client.GetStatus(ctx)
		cancel()
		if err == nil {
			return true
		}
		time.Sleep(100 * time.Millisecond)
	}
	return false
}

// daemonExecutable resolves the binary that hosts "daemon run". The tray
// companion also spawns the daemon, so the current executable may be
// bingwall-tray; in that case the bingwall binary installed next to it is
// used, with a PATH lookup as a last resort.
func daemonExecutable() (string, error) {
	self, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}
	return resolveDaemonExecutable(self, os.Stat, exec.LookPath)
}

func resolveDaemonExecutable(self string, stat func(string) (os.FileInfo, error), lookPath func(string) (string, error)) (string, error) {
	suffix := ""
	if strings.EqualFold(filepath.Ext(self), ".exe") {
		suffix = filepath.Ext(self)
	}
	if strings.TrimSuffix(filepath.Base(self), suffix) == constants.AppName {
		return self, nil
	}

	sibling := filepath.Join(filepath.Dir(self), constants.AppName+suffix)
	if _, err := stat(sibling); err == nil {
		return sibling, nil
	}

	if path, err := lookPath(constants.AppName); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("%s binary not found next to %s or in PATH", constants.AppName, filepath.Base(self))
}

// daemonCommand builds the command that starts a detached daemon.
func daemonCommand() (*exec.Cmd, error) {
	bin, err := daemonExecutable()
	if err != nil {
		return nil, err
	}
	return newDaemonCommand(bin), nil
}

func newDaemonCommand(bin string) *exec.Cmd {
	cmd := exec.Command(bin, "daemon", "run")
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd
}

// spawnDaemon and isProcessAlive are implemented in platform-specific files:
// - lifecycle_unix.go
// - lifecycle_windows.go
