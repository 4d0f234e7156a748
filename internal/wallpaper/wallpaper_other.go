//go:build !windows && !darwin && !linux

package wallpaper

import (
	"context"
	"errors"
)

// ErrUnsupportedPlatform is returned on platforms without a setter.
var ErrUnsupportedPlatform = errors.New("setting the wallpaper is not supported on this platform")

func setWallpaper(_ context.Context, _ string) error {
	return ErrUnsupportedPlatform
}
