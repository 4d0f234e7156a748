// Package opener opens files, folders, and URLs with the platform handler.
package opener

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// openCommand returns the command line that opens target on the given OS.
// Split out for testability.
func openCommand(goos, target string) []string {
	switch goos {
	case "windows":
		// "start" is a cmd built-in; the empty string is the window title
		// slot so paths with spaces are not mistaken for it.
		return []string{"cmd", "/c", "start", "", target}
	case "darwin":
		return []string{"open", target}
	default:
		return []string{"xdg-open", target}
	}
}

// Open launches the platform handler for a file, directory, or URL.
func Open(ctx context.Context, target string) error {
	if strings.TrimSpace(target) == "" {
		return fmt.Errorf("nothing to open")
	}

	args := openCommand(runtime.GOOS, target)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open %s: %w", target, err)
	}

	// Detach: the handler outlives us and its exit status is not ours to
	// report.
	go cmd.Wait()

	return nil
}
