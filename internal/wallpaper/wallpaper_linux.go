//go:build linux

package wallpaper

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// setWallpaper runs the settings commands for the detected desktop
// environment. All commands for the desktop must succeed.
func setWallpaper(ctx context.Context, absPath string) error {
	desktop := detectDesktop(os.Getenv("XDG_CURRENT_DESKTOP"))

	for _, args := range linuxCommands(desktop, absPath) {
		cmd := exec.CommandContext(ctx, args[0], args[1:]...)
		output, err := cmd.CombinedOutput()
		if err != nil {
			msg := strings.TrimSpace(string(output))
			if msg == "" {
				return fmt.Errorf("%s failed: %w", args[0], err)
			}
			return fmt.Errorf("%s failed: %s: %w", args[0], msg, err)
		}
	}

	return nil
}
