//go:build darwin

package wallpaper

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// setWallpaper tells System Events to update the picture on every desktop.
func setWallpaper(ctx context.Context, absPath string) error {
	cmd := exec.CommandContext(ctx, "osascript", "-e", osascriptScript(absPath))

	output, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(output))
		if msg == "" {
			return fmt.Errorf("osascript failed: %w", err)
		}
		return fmt.Errorf("osascript failed: %s: %w", msg, err)
	}

	return nil
}
