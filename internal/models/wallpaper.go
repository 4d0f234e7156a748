// Package models defines the records shared between the daemon, IPC, and CLI.
package models

import (
	"time"
)

// Wallpaper records one image that the client downloaded and applied.
type Wallpaper struct {
	// Date is the image-of-the-day date in YYYY-MM-DD form.
	// Images are stored as <wallpaper_dir>/<Date>.jpg.
	Date string `json:"date"`

	// Title is the image title from the archive API.
	Title string `json:"title,omitempty"`

	// Copyright is the photographer/location credit line.
	Copyright string `json:"copyright,omitempty"`

	// CopyrightLink points at the Bing page describing the image.
	CopyrightLink string `json:"copyright_link,omitempty"`

	// URL is the full image URL that was downloaded.
	URL string `json:"url,omitempty"`

	// Hash is the image hash reported by the archive API.
	Hash string `json:"hash,omitempty"`

	// FilePath is the local path of the downloaded image.
	FilePath string `json:"file_path"`

	// AppliedAt is when the image was set as the desktop background.
	AppliedAt time.Time `json:"applied_at"`

	// Error is set when downloading or applying this image failed.
	Error string `json:"error,omitempty"`
}

// Failed reports whether this record represents a failed refresh.
func (w *Wallpaper) Failed() bool {
	return w.Error != ""
}
