//go:build windows

package ipc

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/Microsoft/go-winio"
)

// dial connects to the daemon's named pipe.
func dial(ctx context.Context, timeout time.Duration) (net.Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, err := winio.DialPipeContext(dialCtx, PipeName)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon at %s: %w", PipeName, err)
	}
	return conn, nil
}

// listen creates the daemon's named pipe listener.
// The default pipe security descriptor limits access to the creating user,
// matching the Unix socket's owner-only permissions.
func listen() (net.Listener, error) {
	ln, err := winio.ListenPipe(PipeName, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", PipeName, err)
	}
	return ln, nil
}
