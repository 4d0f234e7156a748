// Package daemon provides the background service that keeps the desktop
// wallpaper in sync with the Bing image of the day.
package daemon

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/bingwall/bingwall/internal/config"
	"github.com/bingwall/bingwall/internal/models"
)

// State maintains the daemon's persistent state.
type State struct {
	mu sync.RWMutex

	// History of applied wallpapers keyed by image date (YYYY-MM-DD)
	History map[string]*models.Wallpaper `json:"history"`

	// Mode is the active refresh mode ("daily", "random", "off")
	Mode string `json:"mode"`

	// CurrentDate is the date key of the currently applied wallpaper
	CurrentDate string `json:"current_date,omitempty"`

	// LastRefresh records the last completed refresh cycle
	LastRefresh time.Time `json:"last_refresh"`

	// LastError is the most recent cycle error, cleared on success
	LastError string `json:"last_error,omitempty"`

	// Version for state file format migration
	Version string `json:"version"`

	// Path to the state file
	filePath string
}

// NewState creates a new state instance.
func NewState(filePath string) *State {
	if filePath == "" {
		filePath = config.DefaultStateFilePath()
	}
	return &State{
		History:  make(map[string]*models.Wallpaper),
		Mode:     config.ModeOff,
		Version:  "1.0.0",
		filePath: filePath,
	}
}

// Load reads state from the file system.
// If the file doesn't exist, returns an empty state.
func (s *State) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			// Fresh state
			s.History = make(map[string]*models.Wallpaper)
			s.Version = "1.0.0"
			return nil
		}
		return fmt.Errorf("failed to read state file: %w", err)
	}

	if err := json.Unmarshal(data, s); err != nil {
		return fmt.Errorf("failed to parse state file: %w", err)
	}

	if s.History == nil {
		s.History = make(map[string]*models.Wallpaper)
	}
	if s.Mode == "" {
		s.Mode = config.ModeOff
	}

	return nil
}

// Save writes state to the file system.
func (s *State) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	// Write to temp file first, then rename for atomicity
	tmpFile := s.filePath + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	if err := os.Rename(tmpFile, s.filePath); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to rename state file: %w", err)
	}

	return nil
}

// SetMode updates the refresh mode.
func (s *State) SetMode(mode string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Mode = mode
}

// GetMode returns the refresh mode.
func (s *State) GetMode() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Mode
}

// MarkApplied records a wallpaper as downloaded and applied.
func (s *State) MarkApplied(w *models.Wallpaper) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.History[w.Date] = w
	s.CurrentDate = w.Date
	s.LastError = ""
}

// MarkFailed records a refresh failure. When the image date is known the
// failure is also recorded in the history for that date.
func (s *State) MarkFailed(date string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.LastError = err.Error()
	if date != "" {
		s.History[date] = &models.Wallpaper{
			Date:      date,
			AppliedAt: time.Now(),
			Error:     err.Error(),
		}
	}
}

// Current returns the currently applied wallpaper record, or nil.
func (s *State) Current() *models.Wallpaper {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.CurrentDate == "" {
		return nil
	}
	w := s.History[s.CurrentDate]
	if w == nil || w.Error != "" {
		return nil
	}
	return w
}

// IsApplied reports whether the wallpaper for the given date was applied
// successfully.
func (s *State) IsApplied(date string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, exists := s.History[date]
	return exists && w.Error == "" && s.CurrentDate == date
}

// Remove drops a history entry, used by the retention sweep.
func (s *State) Remove(date string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.CurrentDate != date {
		delete(s.History, date)
	}
}

// UpdateLastRefresh records the last completed refresh cycle.
func (s *State) UpdateLastRefresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastRefresh = time.Now()
}

// GetLastRefresh returns the last completed refresh time.
func (s *State) GetLastRefresh() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastRefresh
}

// GetLastError returns the most recent cycle error, or "".
func (s *State) GetLastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastError
}

// GetRecent returns the most recently applied wallpapers, newest first.
func (s *State) GetRecent(limit int) []*models.Wallpaper {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var applied []*models.Wallpaper
	for _, w := range s.History {
		if w.Error == "" {
			applied = append(applied, w)
		}
	}

	sort.Slice(applied, func(i, j int) bool {
		return applied[i].AppliedAt.After(applied[j].AppliedAt)
	})

	if limit > 0 && len(applied) > limit {
		return applied[:limit]
	}
	return applied
}

// GetFailed returns all failed refresh records.
func (s *State) GetFailed() []*models.Wallpaper {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var failed []*models.Wallpaper
	for _, w := range s.History {
		if w.Error != "" {
			failed = append(failed, w)
		}
	}

	sort.Slice(failed, func(i, j int) bool {
		return failed[i].AppliedAt.After(failed[j].AppliedAt)
	})
	return failed
}

// AppliedCount returns the number of successfully applied wallpapers.
func (s *State) AppliedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, w := range s.History {
		if w.Error == "" {
			count++
		}
	}
	return count
}
