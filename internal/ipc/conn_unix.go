//go:build !windows

package ipc

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/bingwall/bingwall/internal/config"
)

// SocketPath returns the path to the Unix domain socket.
// Mac/Linux: ~/.config/bingwall/bingwall.sock
func SocketPath() string {
	dir, err := config.ConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "bingwall.sock")
	}
	return filepath.Join(dir, "bingwall.sock")
}

// dial connects to the daemon's Unix socket.
func dial(ctx context.Context, timeout time.Duration) (net.Conn, error) {
	dialer := net.Dialer{Timeout: timeout}

	conn, err := dialer.DialContext(ctx, "unix", SocketPath())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon at %s: %w", SocketPath(), err)
	}
	return conn, nil
}

// listen creates the daemon's Unix socket listener.
// A stale socket file from a crashed daemon is removed first; a live daemon
// is detected by the caller via the PID file before this point.
func listen() (net.Listener, error) {
	socketPath := SocketPath()

	if err := os.MkdirAll(filepath.Dir(socketPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create socket directory: %w", err)
	}

	if _, err := os.Stat(socketPath); err == nil {
		os.Remove(socketPath)
	}

	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", socketPath, err)
	}

	// Owner-only: the socket accepts unauthenticated control requests.
	if err := os.Chmod(socketPath, 0600); err != nil {
		ln.Close()
		return nil, fmt.Errorf("failed to restrict socket permissions: %w", err)
	}

	return ln, nil
}
