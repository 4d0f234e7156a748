package constants

import (
	"time"
)

// Application identity
const (
	// AppName - canonical application name, used for config/data directories
	AppName = "bingwall"

	// AppDisplayName - human-readable name used in notifications and the tray
	AppDisplayName = "Bing Wallpaper Client"
)

// Bing image-of-the-day endpoint
const (
	// BingBaseURL - host serving both the archive API and the images
	BingBaseURL = "https://www.bing.com"

	// ImageArchivePath - JSON image-of-the-day archive endpoint
	ImageArchivePath = "/HPImageArchive.aspx"

	// MaxArchiveIndex - Bing serves roughly two weeks of history: the
	// archive accepts idx 0..7 and up to 8 entries per request, so day 14
	// (idx 7, entry 8) is the oldest reachable image
	MaxArchiveIndex = 14

	// MaxArchiveCount - maximum images per archive request
	MaxArchiveCount = 8

	// DefaultMarket - default Bing market when none is configured
	DefaultMarket = "en-US"

	// DefaultResolution - default image resolution suffix
	DefaultResolution = "UHD"
)

// Refresh scheduling
const (
	// DefaultPollInterval - how often the daemon re-checks for a new image.
	// The image of the day rotates once per day; 10 minutes keeps the lag
	// after wake-from-sleep or a failed fetch small.
	DefaultPollInterval = 10 * time.Minute

	// MinPollIntervalMinutes / MaxPollIntervalMinutes - config bounds
	MinPollIntervalMinutes = 1
	MaxPollIntervalMinutes = 1440

	// DefaultKeepDays - retention for downloaded images (0 = keep all)
	DefaultKeepDays = 30

	// MaxKeepDays - config bound for retention
	MaxKeepDays = 365
)

// Retry configuration for image downloads
const (
	// DownloadMaxRetries - maximum attempts for a single image download
	DownloadMaxRetries = 5

	// DownloadRetryInitialDelay - base delay for exponential backoff
	DownloadRetryInitialDelay = 500 * time.Millisecond

	// DownloadRetryMaxDelay - backoff cap
	DownloadRetryMaxDelay = 15 * time.Second

	// DownloadTimeout - per-attempt timeout for fetching one image
	DownloadTimeout = 2 * time.Minute
)

// API client retry configuration (retryablehttp)
const (
	APIRetryMax     = 5
	APIRetryWaitMin = 1 * time.Second
	APIRetryWaitMax = 15 * time.Second
	APITimeout      = 30 * time.Second
)

// HTTP transport tuning
const (
	HTTPIdleConnTimeout       = 90 * time.Second
	HTTPTLSHandshakeTimeout   = 20 * time.Second
	HTTPExpectContinueTimeout = 5 * time.Second
)

// IPC
const (
	// IPCTimeout - default request timeout for tray/CLI clients
	IPCTimeout = 5 * time.Second

	// TrayRefreshInterval - how often the tray polls daemon status
	TrayRefreshInterval = 5 * time.Second
)
