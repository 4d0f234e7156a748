package daemon

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	nethttp "net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bingwall/bingwall/internal/bing"
	"github.com/bingwall/bingwall/internal/config"
	"github.com/bingwall/bingwall/internal/constants"
	"github.com/bingwall/bingwall/internal/download"
	"github.com/bingwall/bingwall/internal/http"
	"github.com/bingwall/bingwall/internal/logging"
	"github.com/bingwall/bingwall/internal/models"
	"github.com/bingwall/bingwall/internal/notify"
	"github.com/bingwall/bingwall/internal/wallpaper"
)

// Config holds daemon configuration derived from the client config plus
// command-line overrides.
type Config struct {
	// PollInterval is how often to re-check for a new image
	PollInterval time.Duration

	// WallpaperDir is where images are stored, one file per day
	WallpaperDir string

	// Resolution is the image resolution suffix (UHD, 1920x1080, ...)
	Resolution string

	// KeepDays removes images older than this many days (0 = keep all)
	KeepDays int

	// StateFile is the path to the daemon state file
	StateFile string
}

// FromClientConfig derives the daemon configuration from client.conf.
func FromClientConfig(cfg *config.Config) *Config {
	return &Config{
		PollInterval: time.Duration(cfg.Wallpaper.PollIntervalMinutes) * time.Minute,
		WallpaperDir: cfg.Wallpaper.WallpaperDir,
		Resolution:   cfg.Wallpaper.Resolution,
		KeepDays:     cfg.Wallpaper.KeepDays,
		StateFile:    config.DefaultStateFilePath(),
	}
}

// Daemon is the background service that refreshes the desktop wallpaper.
type Daemon struct {
	cfg        *Config
	apiClient  *bing.Client
	httpClient *nethttp.Client
	state      *State
	notifier   *notify.Notifier
	logger     *logging.Logger

	// setWallpaper applies a downloaded image as the desktop background.
	// Defaults to wallpaper.Set; tests substitute it.
	setWallpaper func(ctx context.Context, path string) error

	startedAt time.Time

	// refreshMu serializes refresh cycles (ticker vs. IPC RefreshNow)
	refreshMu sync.Mutex

	// Shutdown coordination
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
	mu       sync.RWMutex
}

// New creates a new daemon instance.
func New(appCfg *config.Config, daemonCfg *Config, logger *logging.Logger) (*Daemon, error) {
	if daemonCfg == nil {
		daemonCfg = FromClientConfig(appCfg)
	}

	apiClient, err := bing.NewClient(appCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}

	httpClient, err := http.NewClient(appCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to configure download client: %w", err)
	}

	state := NewState(daemonCfg.StateFile)
	if err := state.Load(); err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	state.SetMode(appCfg.Wallpaper.Mode)

	return &Daemon{
		cfg:          daemonCfg,
		apiClient:    apiClient,
		httpClient:   httpClient,
		state:        state,
		notifier:     notify.NewNotifier(appCfg.Notifications, logger),
		logger:       logger,
		setWallpaper: wallpaper.Set,
		stopChan:     make(chan struct{}),
	}, nil
}

// State exposes the daemon state (for the status command).
func (d *Daemon) State() *State {
	return d.state
}

// Start begins the daemon's polling loop.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return fmt.Errorf("daemon is already running")
	}
	d.running = true
	d.startedAt = time.Now()
	d.mu.Unlock()

	d.logger.Info().
		Str("wallpaper_dir", d.cfg.WallpaperDir).
		Str("mode", d.state.GetMode()).
		Str("poll_interval", d.cfg.PollInterval.String()).
		Msg("Daemon starting")

	d.notifier.ServiceStarted(d.state.GetMode())

	// Run initial refresh immediately
	d.refresh(ctx, false)

	d.wg.Add(1)
	go d.pollLoop(ctx)

	return nil
}

// Stop signals the daemon to stop and waits for cleanup.
func (d *Daemon) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	d.mu.Unlock()

	d.logger.Info().Msg("Daemon stopping")
	close(d.stopChan)
	d.wg.Wait()

	// Save final state
	if err := d.state.Save(); err != nil {
		d.logger.Error().Err(err).Msg("Failed to save state on shutdown")
	}

	d.notifier.ServiceStopped()
	d.logger.Info().Msg("Daemon stopped")
}

// IsRunning returns whether the daemon is currently running.
func (d *Daemon) IsRunning() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.running
}

// Uptime returns how long the daemon has been running.
func (d *Daemon) Uptime() time.Duration {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.startedAt.IsZero() {
		return 0
	}
	return time.Since(d.startedAt)
}

// SetMode switches the refresh mode and persists it. Activating a mode
// triggers an immediate forced refresh, matching the original client's
// menu behavior.
func (d *Daemon) SetMode(ctx context.Context, mode string) error {
	switch mode {
	case config.ModeDaily, config.ModeRandom, config.ModeOff:
	default:
		return config.ErrInvalidMode
	}

	previous := d.state.GetMode()
	d.state.SetMode(mode)
	if err := d.state.Save(); err != nil {
		d.logger.Error().Err(err).Msg("Failed to save state after mode change")
	}

	d.logger.Info().Str("from", previous).Str("to", mode).Msg("Refresh mode changed")

	if mode != config.ModeOff && mode != previous {
		d.refresh(ctx, true)
	}

	return nil
}

// pollLoop runs the periodic refresh.
func (d *Daemon) pollLoop(ctx context.Context) {
	defer d.wg.Done()

	ticker := time.NewTicker(d.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info().Msg("Poll loop cancelled by context")
			return
		case <-d.stopChan:
			d.logger.Info().Msg("Poll loop stopped")
			return
		case <-ticker.C:
			d.refresh(ctx, false)
		}
	}
}

// pickIndex selects which archive day to apply for the given mode.
func pickIndex(mode string) int {
	if mode == config.ModeRandom {
		return rand.Intn(constants.MaxArchiveIndex + 1)
	}
	return 0
}

// refresh performs one refresh cycle: resolve the target image, download
// it if needed, and set it as the wallpaper.
//
// force skips the already-applied check and runs even in "off" mode (used
// by mode activation and the RefreshNow IPC request). A non-forced cycle in
// daily mode is a no-op when today's image is already applied and on disk,
// matching the original client's existence check.
func (d *Daemon) refresh(ctx context.Context, force bool) {
	d.refreshMu.Lock()
	defer d.refreshMu.Unlock()

	mode := d.state.GetMode()
	if mode == config.ModeOff && !force {
		return
	}
	if mode == config.ModeOff {
		mode = config.ModeDaily
	}

	cycleID := uuid.NewString()
	logger := d.logger.With().Str("cycle_id", cycleID).Str("mode", mode).Logger()

	logger.Debug().Msg("Starting refresh cycle")

	img, err := d.apiClient.ImageAt(ctx, pickIndex(mode))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to query image archive")
		d.state.MarkFailed("", err)
		d.notifier.RefreshFailed(err.Error())
		d.saveState()
		return
	}

	date := img.DateString()
	localPath := filepath.Join(d.cfg.WallpaperDir, date+".jpg")

	if !force && mode == config.ModeDaily && d.state.IsApplied(date) {
		if _, err := os.Stat(localPath); err == nil {
			logger.Debug().Str("date", date).Msg("Wallpaper already applied, skipping")
			d.state.UpdateLastRefresh()
			return
		}
	}

	result, err := download.Fetch(ctx, download.Params{
		URL:        img.ImageURL(d.apiClient.BaseURL(), d.cfg.Resolution),
		LocalPath:  localPath,
		HTTPClient: d.httpClient,
		Force:      force,
	})
	if err != nil {
		logger.Error().Err(err).Str("date", date).Msg("Failed to download wallpaper")
		d.state.MarkFailed(date, err)
		d.notifier.RefreshFailed(err.Error())
		d.saveState()
		return
	}

	if err := d.setWallpaper(ctx, result.Path); err != nil {
		logger.Error().Err(err).Str("path", result.Path).Msg("Failed to set wallpaper")
		d.state.MarkFailed(date, err)
		d.notifier.RefreshFailed(err.Error())
		d.saveState()
		return
	}

	record := &models.Wallpaper{
		Date:          date,
		Title:         img.Title,
		Copyright:     img.Copyright,
		CopyrightLink: img.CopyrightLink,
		URL:           img.ImageURL(d.apiClient.BaseURL(), d.cfg.Resolution),
		Hash:          img.Hash,
		FilePath:      result.Path,
		AppliedAt:     time.Now(),
	}
	d.state.MarkApplied(record)
	d.state.UpdateLastRefresh()

	logger.Info().
		Str("date", date).
		Str("title", img.Title).
		Str("path", result.Path).
		Int64("size", result.Size).
		Bool("cached", result.Skipped).
		Msg("Wallpaper applied")

	d.notifier.WallpaperApplied(img.Title, result.Path)

	d.sweepOldImages()
	d.saveState()
}

// RefreshNow performs an immediate forced refresh cycle.
func (d *Daemon) RefreshNow(ctx context.Context) error {
	d.refresh(ctx, true)
	if errMsg := d.state.GetLastError(); errMsg != "" {
		return fmt.Errorf("refresh failed: %s", errMsg)
	}
	return nil
}

// RunOnce performs a single forced refresh cycle and exits.
func (d *Daemon) RunOnce(ctx context.Context) error {
	d.logger.Info().Msg("Running single refresh cycle")
	if err := d.RefreshNow(ctx); err != nil {
		return err
	}
	return d.state.Save()
}

// saveState persists state, logging rather than propagating failures so a
// full disk cannot take the refresh loop down.
func (d *Daemon) saveState() {
	if err := d.state.Save(); err != nil {
		d.logger.Error().Err(err).Msg("Failed to save state")
	}
}

// sweepOldImages removes images older than the retention window. The
// currently applied image is never removed.
func (d *Daemon) sweepOldImages() {
	if d.cfg.KeepDays <= 0 {
		return
	}

	cutoff := time.Now().AddDate(0, 0, -d.cfg.KeepDays)
	current := d.state.Current()

	entries, err := os.ReadDir(d.cfg.WallpaperDir)
	if err != nil {
		d.logger.Warn().Err(err).Msg("Retention sweep: failed to read wallpaper dir")
		return
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if filepath.Ext(name) != ".jpg" {
			continue
		}

		date, err := time.Parse("2006-01-02", name[:len(name)-len(".jpg")])
		if err != nil {
			// Not one of ours
			continue
		}

		if !date.Before(cutoff) {
			continue
		}

		fullPath := filepath.Join(d.cfg.WallpaperDir, name)
		if current != nil && current.FilePath == fullPath {
			continue
		}

		if err := os.Remove(fullPath); err != nil {
			d.logger.Warn().Err(err).Str("path", fullPath).Msg("Retention sweep: failed to remove image")
			continue
		}
		d.state.Remove(date.Format("2006-01-02"))
		removed++
	}

	if removed > 0 {
		d.logger.Info().Int("removed", removed).Int("keep_days", d.cfg.KeepDays).Msg("Retention sweep complete")
	}
}

// Status contains daemon status information.
type Status struct {
	Running      bool
	Mode         string
	LastRefresh  time.Time
	Current      *models.Wallpaper
	AppliedCount int
	FailedCount  int
	WallpaperDir string
	PollInterval time.Duration
	LastError    string
}

// GetStatus returns current daemon status information.
func (d *Daemon) GetStatus() *Status {
	return &Status{
		Running:      d.IsRunning(),
		Mode:         d.state.GetMode(),
		LastRefresh:  d.state.GetLastRefresh(),
		Current:      d.state.Current(),
		AppliedCount: d.state.AppliedCount(),
		FailedCount:  len(d.state.GetFailed()),
		WallpaperDir: d.cfg.WallpaperDir,
		PollInterval: d.cfg.PollInterval,
		LastError:    d.state.GetLastError(),
	}
}

// WriteStatus writes status to a writer.
func (s *Status) WriteStatus(w io.Writer) {
	fmt.Fprintf(w, "Daemon Status:\n")
	if s.Running {
		fmt.Fprintf(w, "  Running: Yes\n")
	} else {
		fmt.Fprintf(w, "  Running: No\n")
	}
	fmt.Fprintf(w, "  Mode: %s\n", s.Mode)
	if !s.LastRefresh.IsZero() {
		fmt.Fprintf(w, "  Last Refresh: %s\n", s.LastRefresh.Format(time.RFC3339))
	} else {
		fmt.Fprintf(w, "  Last Refresh: Never\n")
	}
	if s.Current != nil {
		fmt.Fprintf(w, "  Current Wallpaper: %s (%s)\n", s.Current.Title, s.Current.Date)
		fmt.Fprintf(w, "  Image: %s\n", s.Current.FilePath)
	}
	fmt.Fprintf(w, "  Applied: %d\n", s.AppliedCount)
	fmt.Fprintf(w, "  Failed: %d\n", s.FailedCount)
	fmt.Fprintf(w, "  Wallpaper Directory: %s\n", s.WallpaperDir)
	fmt.Fprintf(w, "  Poll Interval: %s\n", s.PollInterval)
	if s.LastError != "" {
		fmt.Fprintf(w, "  Last Error: %s\n", s.LastError)
	}
}
