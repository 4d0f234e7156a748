// Package config provides configuration management for the Bing wallpaper client.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/bingwall/bingwall/internal/constants"
)

// Config represents the unified client configuration.
//
// Config file location:
//   - Windows: %APPDATA%\BingWall\client.conf
//   - Unix: ~/.config/bingwall/client.conf
//
// INI format:
//
//	[wallpaper]
//	mode = daily
//	market = en-US
//	resolution = UHD
//	poll_interval_minutes = 10
//	wallpaper_dir = /Users/me/.bing-wallpaper-client
//	keep_days = 30
//
//	[notifications]
//	enabled = true
//	show_applied = true
//	show_failed = true
//
//	[proxy]
//	mode = system
//	url =
type Config struct {
	Wallpaper     WallpaperConfig
	Notifications NotificationConfig
	Proxy         ProxyConfig
}

// WallpaperConfig contains core refresh settings.
type WallpaperConfig struct {
	// Mode is the refresh mode: "daily", "random", or "off".
	// Default: off
	Mode string `ini:"mode"`

	// Market is the Bing market code (e.g. en-US, zh-CN, de-DE).
	Market string `ini:"market"`

	// Resolution is the image resolution suffix: UHD or WxH (e.g. 1920x1080).
	Resolution string `ini:"resolution"`

	// PollIntervalMinutes is how often the daemon re-checks for a new image.
	// Minimum: 1, Maximum: 1440, Default: 10
	PollIntervalMinutes int `ini:"poll_interval_minutes"`

	// WallpaperDir is the directory where images are stored, one per day.
	// Default: ~/.bing-wallpaper-client
	WallpaperDir string `ini:"wallpaper_dir"`

	// KeepDays removes downloaded images older than this many days.
	// 0 disables the retention sweep. Maximum: 365, Default: 30
	KeepDays int `ini:"keep_days"`
}

// NotificationConfig contains desktop notification settings.
type NotificationConfig struct {
	Enabled     bool `ini:"enabled"`
	ShowApplied bool `ini:"show_applied"`
	ShowFailed  bool `ini:"show_failed"`
}

// ProxyConfig contains outbound proxy settings.
type ProxyConfig struct {
	// Mode is "no-proxy", "system" (environment variables), or "manual".
	Mode string `ini:"mode"`

	// URL is the proxy URL for manual mode.
	URL string `ini:"url"`
}

// Refresh modes.
const (
	ModeDaily  = "daily"
	ModeRandom = "random"
	ModeOff    = "off"
)

// Validation errors.
var (
	ErrInvalidMode         = errors.New(`mode must be "daily", "random", or "off"`)
	ErrInvalidPollInterval = errors.New("poll_interval_minutes must be between 1 and 1440")
	ErrInvalidKeepDays     = errors.New("keep_days must be between 0 and 365")
	ErrInvalidResolution   = errors.New(`resolution must be "UHD" or a WxH size such as "1920x1080"`)
	ErrMissingWallpaperDir = errors.New("wallpaper_dir is required")
	ErrInvalidProxyMode    = errors.New(`proxy mode must be "no-proxy", "system", or "manual"`)
	ErrMissingProxyURL     = errors.New("proxy url is required for manual proxy mode")
)

// DefaultWallpaperDir returns the platform default image directory.
// Matches the original client's ~/.bing-wallpaper-client layout.
func DefaultWallpaperDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		if runtime.GOOS == "windows" {
			return filepath.Join(os.TempDir(), "bing-wallpaper-client")
		}
		return "/tmp/bing-wallpaper-client"
	}
	return filepath.Join(home, ".bing-wallpaper-client")
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		Wallpaper: WallpaperConfig{
			Mode:                ModeOff,
			Market:              constants.DefaultMarket,
			Resolution:          constants.DefaultResolution,
			PollIntervalMinutes: 10,
			WallpaperDir:        DefaultWallpaperDir(),
			KeepDays:            constants.DefaultKeepDays,
		},
		Notifications: NotificationConfig{
			Enabled:     true,
			ShowApplied: true,
			ShowFailed:  true,
		},
		Proxy: ProxyConfig{
			Mode: "system",
		},
	}
}

// Load reads configuration from the client.conf file.
// If path is empty, uses the default path.
// A missing file returns defaults without error; an unreadable or malformed
// file returns an error.
func Load(path string) (*Config, error) {
	cfg := New()

	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return cfg, nil
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	iniFile, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load client.conf: %w", err)
	}

	wp := iniFile.Section("wallpaper")
	cfg.Wallpaper.Mode = strings.ToLower(wp.Key("mode").MustString(ModeOff))
	cfg.Wallpaper.Market = wp.Key("market").MustString(constants.DefaultMarket)
	cfg.Wallpaper.Resolution = wp.Key("resolution").MustString(constants.DefaultResolution)
	cfg.Wallpaper.PollIntervalMinutes = wp.Key("poll_interval_minutes").MustInt(10)
	cfg.Wallpaper.WallpaperDir = wp.Key("wallpaper_dir").MustString(DefaultWallpaperDir())
	cfg.Wallpaper.KeepDays = wp.Key("keep_days").MustInt(constants.DefaultKeepDays)

	nt := iniFile.Section("notifications")
	cfg.Notifications.Enabled = nt.Key("enabled").MustBool(true)
	cfg.Notifications.ShowApplied = nt.Key("show_applied").MustBool(true)
	cfg.Notifications.ShowFailed = nt.Key("show_failed").MustBool(true)

	px := iniFile.Section("proxy")
	cfg.Proxy.Mode = strings.ToLower(px.Key("mode").MustString("system"))
	cfg.Proxy.URL = px.Key("url").String()

	return cfg, nil
}

// Save writes configuration to the client.conf file.
// If path is empty, uses the default path.
// Creates parent directories if they don't exist.
func Save(cfg *Config, path string) error {
	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return fmt.Errorf("failed to determine config path: %w", err)
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	iniFile := ini.Empty()

	wp, err := iniFile.NewSection("wallpaper")
	if err != nil {
		return fmt.Errorf("failed to create wallpaper section: %w", err)
	}
	wp.Key("mode").SetValue(cfg.Wallpaper.Mode)
	wp.Key("market").SetValue(cfg.Wallpaper.Market)
	wp.Key("resolution").SetValue(cfg.Wallpaper.Resolution)
	wp.Key("poll_interval_minutes").SetValue(fmt.Sprintf("%d", cfg.Wallpaper.PollIntervalMinutes))
	wp.Key("wallpaper_dir").SetValue(cfg.Wallpaper.WallpaperDir)
	wp.Key("keep_days").SetValue(fmt.Sprintf("%d", cfg.Wallpaper.KeepDays))

	nt, err := iniFile.NewSection("notifications")
	if err != nil {
		return fmt.Errorf("failed to create notifications section: %w", err)
	}
	nt.Key("enabled").SetValue(fmt.Sprintf("%t", cfg.Notifications.Enabled))
	nt.Key("show_applied").SetValue(fmt.Sprintf("%t", cfg.Notifications.ShowApplied))
	nt.Key("show_failed").SetValue(fmt.Sprintf("%t", cfg.Notifications.ShowFailed))

	px, err := iniFile.NewSection("proxy")
	if err != nil {
		return fmt.Errorf("failed to create proxy section: %w", err)
	}
	px.Key("mode").SetValue(cfg.Proxy.Mode)
	px.Key("url").SetValue(cfg.Proxy.URL)

	// Temporary file + rename for atomicity
	tmpPath := path + ".tmp"
	if err := iniFile.SaveTo(tmpPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if runtime.GOOS != "windows" {
		if err := os.Chmod(tmpPath, 0600); err != nil {
			os.Remove(tmpPath)
			return fmt.Errorf("failed to set config permissions: %w", err)
		}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
func (cfg *Config) Validate() error {
	switch cfg.Wallpaper.Mode {
	case ModeDaily, ModeRandom, ModeOff:
	default:
		return ErrInvalidMode
	}

	if cfg.Wallpaper.PollIntervalMinutes < constants.MinPollIntervalMinutes ||
		cfg.Wallpaper.PollIntervalMinutes > constants.MaxPollIntervalMinutes {
		return ErrInvalidPollInterval
	}

	if cfg.Wallpaper.KeepDays < 0 || cfg.Wallpaper.KeepDays > constants.MaxKeepDays {
		return ErrInvalidKeepDays
	}

	if !ValidResolution(cfg.Wallpaper.Resolution) {
		return ErrInvalidResolution
	}

	if strings.TrimSpace(cfg.Wallpaper.WallpaperDir) == "" {
		return ErrMissingWallpaperDir
	}

	switch cfg.Proxy.Mode {
	case "no-proxy", "system", "":
	case "manual":
		if strings.TrimSpace(cfg.Proxy.URL) == "" {
			return ErrMissingProxyURL
		}
	default:
		return ErrInvalidProxyMode
	}

	return nil
}

// ValidResolution reports whether res is an accepted resolution suffix.
// "UHD" requests the largest available image; otherwise a WxH size.
func ValidResolution(res string) bool {
	if res == "UHD" {
		return true
	}
	parts := strings.Split(res, "x")
	if len(parts) != 2 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
		for _, r := range p {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}
