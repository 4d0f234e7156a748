// Package wallpaper installs an image as the desktop background.
//
// Each platform uses its native mechanism: the Windows user32 API, an
// AppleScript invocation on macOS, and the desktop environment's settings
// tool on Linux with a feh fallback for bare window managers.
package wallpaper

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Set applies the image at path as the desktop background on every display.
//
// The path is made absolute first: the Windows API rejects relative paths
// (original client behavior), and the Linux tools resolve file:// URIs
// against their own working directory otherwise.
func Set(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve wallpaper path: %w", err)
	}

	if _, err := os.Stat(abs); err != nil {
		return fmt.Errorf("wallpaper image not accessible: %w", err)
	}

	return setWallpaper(ctx, abs)
}
