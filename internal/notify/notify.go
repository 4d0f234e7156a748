// Package notify provides cross-platform desktop notifications.
// It uses github.com/gen2brain/beeep for cross-platform notification support.
package notify

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/gen2brain/beeep"

	"github.com/bingwall/bingwall/internal/config"
	"github.com/bingwall/bingwall/internal/constants"
	"github.com/bingwall/bingwall/internal/logging"
)

// Notifier handles desktop notifications.
type Notifier struct {
	logger *logging.Logger
	mu     sync.RWMutex
	cfg    config.NotificationConfig
}

// NewNotifier creates a new notifier with the given configuration.
func NewNotifier(cfg config.NotificationConfig, logger *logging.Logger) *Notifier {
	return &Notifier{
		logger: logger,
		cfg:    cfg,
	}
}

// SetEnabled enables or disables all notifications.
func (n *Notifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cfg.Enabled = enabled
}

// IsEnabled returns whether notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.cfg.Enabled
}

// WallpaperApplied announces a newly applied wallpaper.
func (n *Notifier) WallpaperApplied(title, path string) {
	n.mu.RLock()
	show := n.cfg.Enabled && n.cfg.ShowApplied
	n.mu.RUnlock()
	if !show {
		return
	}

	message := fmt.Sprintf("%s\n%s", truncate(title, 60), shortenPath(path))
	if err := n.send("Wallpaper Updated", message); err != nil {
		n.logger.Warn().Err(err).Str("title", title).Msg("Failed to send applied notification")
	}
}

// RefreshFailed announces a failed refresh cycle.
func (n *Notifier) RefreshFailed(errMsg string) {
	n.mu.RLock()
	show := n.cfg.Enabled && n.cfg.ShowFailed
	n.mu.RUnlock()
	if !show {
		return
	}

	message := fmt.Sprintf("Wallpaper refresh failed:\n%s", truncate(errMsg, 100))
	if err := n.send(constants.AppDisplayName, message); err != nil {
		n.logger.Warn().Err(err).Msg("Failed to send failure notification")
	}
}

// ServiceStarted announces daemon startup.
func (n *Notifier) ServiceStarted(mode string) {
	if !n.IsEnabled() {
		return
	}

	message := fmt.Sprintf("Background refresh started (mode: %s).", mode)
	if err := n.send(constants.AppDisplayName, message); err != nil {
		n.logger.Warn().Err(err).Msg("Failed to send service started notification")
	}
}

// ServiceStopped announces daemon shutdown.
func (n *Notifier) ServiceStopped() {
	if !n.IsEnabled() {
		return
	}

	if err := n.send(constants.AppDisplayName, "Background refresh stopped."); err != nil {
		n.logger.Warn().Err(err).Msg("Failed to send service stopped notification")
	}
}

// send is the internal method that actually sends the notification.
// beeep is cross-platform: toast on Windows, NSUserNotificationCenter on
// macOS, D-Bus on Linux.
func (n *Notifier) send(title, message string) error {
	return beeep.Notify(title, message, "")
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// shortenPath abbreviates a long path for display in notifications.
func shortenPath(path string) string {
	const maxLen = 60

	if len(path) <= maxLen {
		return path
	}

	_, file := filepath.Split(path)
	parentDir := filepath.Base(filepath.Dir(path))

	short := filepath.Join("...", parentDir, file)

	vol := filepath.VolumeName(path)
	if vol != "" && len(vol)+len(short)+1 <= maxLen {
		short = vol + string(filepath.Separator) + short
	}

	if len(short) > maxLen {
		return "..." + path[len(path)-(maxLen-3):]
	}

	return short
}
