package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fyne.io/systray"

	"github.com/bingwall/bingwall/internal/config"
	"github.com/bingwall/bingwall/internal/constants"
	"github.com/bingwall/bingwall/internal/daemon"
	"github.com/bingwall/bingwall/internal/ipc"
	"github.com/bingwall/bingwall/internal/opener"
	"github.com/bingwall/bingwall/internal/version"
)

// trayApp manages the system tray application state.
type trayApp struct {
	client *ipc.Client
	mu     sync.RWMutex

	// Current status
	daemonRunning bool
	lastStatus    *ipc.StatusData
	lastError     string

	// Menu items (for dynamic updates)
	mStatus     *systray.MenuItem
	mRefreshNow *systray.MenuItem
	mDaily      *systray.MenuItem
	mRandom     *systray.MenuItem
	mOpenFolder *systray.MenuItem
	mQuit       *systray.MenuItem

	// Control channel
	done chan struct{}
}

var app *trayApp

// runTray starts the system tray application.
func runTray() {
	systray.Run(onReady, onExit)
}

func onReady() {
	app = &trayApp{
		client: ipc.NewClient(),
		done:   make(chan struct{}),
	}
	app.client.SetTimeout(2 * time.Second)

	systray.SetIcon(iconData())
	systray.SetTitle(constants.AppDisplayName)
	systray.SetTooltip(constants.AppDisplayName + " - Connecting...")

	app.mStatus = systray.AddMenuItem("Status: Checking...", "Daemon status")
	app.mStatus.Disable()

	systray.AddSeparator()

	app.mRefreshNow = systray.AddMenuItem("Refresh Now", "Download and apply the wallpaper now")

	systray.AddSeparator()

	app.mDaily = systray.AddMenuItemCheckbox("Daily Wallpaper", "Apply the image of the day", false)
	app.mRandom = systray.AddMenuItemCheckbox("Random Wallpaper", "Apply a random archive image", false)

	systray.AddSeparator()

	app.mOpenFolder = systray.AddMenuItem("Open Wallpaper Folder", "Open the image directory")

	systray.AddSeparator()

	app.mQuit = systray.AddMenuItem("Quit", "Exit the tray application")

	go app.refreshLoop()
	go app.handleMenuClicks()
}

func onExit() {
	if app != nil {
		close(app.done)
	}
}

// refreshLoop periodically refreshes the daemon status.
func (a *trayApp) refreshLoop() {
	a.refreshStatus()

	ticker := time.NewTicker(constants.TrayRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.refreshStatus()
		case <-a.done:
			return
		}
	}
}

// refreshStatus fetches current status from the daemon via IPC.
func (a *trayApp) refreshStatus() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	status, err := a.client.GetStatus(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()

	if err != nil {
		a.daemonRunning = false
		a.lastError = err.Error()
		a.lastStatus = nil
		a.updateUI()
		return
	}

	a.daemonRunning = true
	a.lastStatus = status
	a.lastError = ""
	a.updateUI()
}

// updateUI updates the tooltip and menu items based on current state.
// Must be called with a.mu held.
func (a *trayApp) updateUI() {
	if !a.daemonRunning {
		systray.SetTooltip(fmt.Sprintf("%s %s\nDaemon: Not Running", constants.AppDisplayName, version.Version))
		a.mStatus.SetTitle("Status: Daemon Not Running")
		a.mDaily.Uncheck()
		a.mRandom.Uncheck()
		return
	}

	tooltip := fmt.Sprintf("%s %s\nMode: %s", constants.AppDisplayName, version.Version, a.lastStatus.Mode)
	statusText := "Status: Running (mode: " + a.lastStatus.Mode + ")"
	if a.lastStatus.Current != nil {
		tooltip += "\n" + a.lastStatus.Current.Title
		statusText = "Status: " + a.lastStatus.Current.Title
	}
	if a.lastStatus.LastRefresh != nil {
		tooltip += fmt.Sprintf("\nLast Refresh: %s", a.lastStatus.LastRefresh.Format("15:04:05"))
	}
	if a.lastStatus.LastError != "" {
		tooltip += fmt.Sprintf("\nLast Error: %s", truncate(a.lastStatus.LastError, 50))
	}
	systray.SetTooltip(tooltip)
	a.mStatus.SetTitle(truncate(statusText, 60))

	switch a.lastStatus.Mode {
	case config.ModeDaily:
		a.mDaily.Check()
		a.mRandom.Uncheck()
	case config.ModeRandom:
		a.mDaily.Uncheck()
		a.mRandom.Check()
	default:
		a.mDaily.Uncheck()
		a.mRandom.Uncheck()
	}
}

// handleMenuClicks processes menu item clicks.
func (a *trayApp) handleMenuClicks() {
	for {
		select {
		case <-a.mRefreshNow.ClickedCh:
			a.refreshNow()

		case <-a.mDaily.ClickedCh:
			a.toggleMode(config.ModeDaily, a.mDaily.Checked())

		case <-a.mRandom.ClickedCh:
			a.toggleMode(config.ModeRandom, a.mRandom.Checked())

		case <-a.mOpenFolder.ClickedCh:
			a.openFolder()

		case <-a.mQuit.ClickedCh:
			systray.Quit()
			return

		case <-a.done:
			return
		}
	}
}

// ensureDaemon connects to the daemon, spawning it if needed, and records
// any failure for the tooltip.
func (a *trayApp) ensureDaemon() *ipc.Client {
	client, err := daemon.EnsureDaemon()
	if err != nil {
		a.mu.Lock()
		a.lastError = err.Error()
		a.mu.Unlock()
		return nil
	}
	return client
}

// refreshNow triggers an immediate refresh via IPC, starting the daemon
// first when necessary.
func (a *trayApp) refreshNow() {
	client := a.ensureDaemon()
	if client == nil {
		return
	}

	// A refresh downloads an image, so allow more than the status timeout
	ctx, cancel := context.WithTimeout(context.Background(), constants.DownloadTimeout)
	defer cancel()

	if err := client.RefreshNow(ctx); err != nil {
		a.mu.Lock()
		a.lastError = fmt.Sprintf("Refresh failed: %v", err)
		a.mu.Unlock()
	}

	a.refreshStatus()
}

// toggleMode switches the refresh mode. Clicking an already checked entry
// turns the mode off, matching the original menu behavior.
func (a *trayApp) toggleMode(mode string, wasChecked bool) {
	client := a.ensureDaemon()
	if client == nil {
		return
	}

	target := mode
	if wasChecked {
		target = config.ModeOff
	}

	// Activating a mode triggers an immediate refresh in the daemon
	ctx, cancel := context.WithTimeout(context.Background(), constants.DownloadTimeout)
	defer cancel()

	if err := client.SetMode(ctx, target); err != nil {
		a.mu.Lock()
		a.lastError = fmt.Sprintf("Mode change failed: %v", err)
		a.mu.Unlock()
	}

	a.refreshStatus()
}

// openFolder opens the wallpaper image directory.
func (a *trayApp) openFolder() {
	cfg, err := config.Load("")
	if err != nil {
		a.mu.Lock()
		a.lastError = fmt.Sprintf("Failed to load config: %v", err)
		a.mu.Unlock()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := opener.Open(ctx, cfg.Wallpaper.WallpaperDir); err != nil {
		a.mu.Lock()
		a.lastError = fmt.Sprintf("Failed to open folder: %v", err)
		a.mu.Unlock()
	}
}

// truncate shortens a string for menu and tooltip display.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
