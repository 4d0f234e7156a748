package daemon

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bingwall/bingwall/internal/config"
	"github.com/bingwall/bingwall/internal/models"
)

func testWallpaper(date string, appliedAt time.Time) *models.Wallpaper {
	return &models.Wallpaper{
		Date:      date,
		Title:     "Test Image " + date,
		URL:       "https://www.bing.com/th?id=OHR.Test_" + date + "_UHD.jpg",
		FilePath:  "/tmp/" + date + ".jpg",
		AppliedAt: appliedAt,
	}
}

func TestStateMarkAppliedAndCurrent(t *testing.T) {
	state := NewState(filepath.Join(t.TempDir(), "state.json"))

	if state.Current() != nil {
		t.Error("fresh state should have no current wallpaper")
	}

	w := testWallpaper("2026-08-20", time.Now())
	state.MarkApplied(w)

	current := state.Current()
	if current == nil {
		t.Fatal("current is nil after MarkApplied")
	}
	if current.Date != "2026-08-20" {
		t.Errorf("current date = %q, want 2026-08-20", current.Date)
	}
	if !state.IsApplied("2026-08-20") {
		t.Error("IsApplied should report true for the current date")
	}
	if state.IsApplied("2026-08-19") {
		t.Error("IsApplied should report false for other dates")
	}
}

func TestStateMarkFailed(t *testing.T) {
	state := NewState(filepath.Join(t.TempDir(), "state.json"))

	state.MarkFailed("2026-08-20", os.ErrDeadlineExceeded)

	if state.GetLastError() == "" {
		t.Error("last error not recorded")
	}
	if state.IsApplied("2026-08-20") {
		t.Error("failed date should not count as applied")
	}
	failed := state.GetFailed()
	if len(failed) != 1 || failed[0].Date != "2026-08-20" {
		t.Errorf("failed entries = %v, want one entry for 2026-08-20", failed)
	}

	// A later success clears the error
	state.MarkApplied(testWallpaper("2026-08-20", time.Now()))
	if state.GetLastError() != "" {
		t.Error("last error should be cleared on success")
	}
	if !state.IsApplied("2026-08-20") {
		t.Error("date should be applied after recovery")
	}
}

func TestStateSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	state := NewState(path)
	state.SetMode(config.ModeDaily)
	state.MarkApplied(testWallpaper("2026-08-19", time.Now().Add(-24*time.Hour)))
	state.MarkApplied(testWallpaper("2026-08-20", time.Now()))
	state.UpdateLastRefresh()

	if err := state.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := NewState(path)
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.GetMode() != config.ModeDaily {
		t.Errorf("mode = %q, want daily", loaded.GetMode())
	}
	if loaded.AppliedCount() != 2 {
		t.Errorf("applied count = %d, want 2", loaded.AppliedCount())
	}
	current := loaded.Current()
	if current == nil || current.Date != "2026-08-20" {
		t.Errorf("current = %v, want entry for 2026-08-20", current)
	}
	if loaded.GetLastRefresh().IsZero() {
		t.Error("last refresh not persisted")
	}
}

func TestStateLoadMissingFile(t *testing.T) {
	state := NewState(filepath.Join(t.TempDir(), "missing.json"))
	if err := state.Load(); err != nil {
		t.Fatalf("Load of missing file failed: %v", err)
	}
	if state.AppliedCount() != 0 {
		t.Error("fresh state should be empty")
	}
	if state.GetMode() != config.ModeOff {
		t.Errorf("fresh state mode = %q, want off", state.GetMode())
	}
}

func TestStateGetRecentOrder(t *testing.T) {
	state := NewState(filepath.Join(t.TempDir(), "state.json"))

	now := time.Now()
	state.MarkApplied(testWallpaper("2026-08-18", now.Add(-48*time.Hour)))
	state.MarkApplied(testWallpaper("2026-08-20", now))
	state.MarkApplied(testWallpaper("2026-08-19", now.Add(-24*time.Hour)))
	state.MarkFailed("2026-08-17", os.ErrInvalid)

	recent := state.GetRecent(0)
	if len(recent) != 3 {
		t.Fatalf("len(recent) = %d, want 3 (failures excluded)", len(recent))
	}
	want := []string{"2026-08-20", "2026-08-19", "2026-08-18"}
	for i, date := range want {
		if recent[i].Date != date {
			t.Errorf("recent[%d].Date = %q, want %q", i, recent[i].Date, date)
		}
	}

	limited := state.GetRecent(2)
	if len(limited) != 2 {
		t.Errorf("len(recent limit 2) = %d, want 2", len(limited))
	}
}

func TestStateRemoveProtectsCurrent(t *testing.T) {
	state := NewState(filepath.Join(t.TempDir(), "state.json"))

	state.MarkApplied(testWallpaper("2026-08-19", time.Now().Add(-24*time.Hour)))
	state.MarkApplied(testWallpaper("2026-08-20", time.Now()))

	state.Remove("2026-08-19")
	if state.AppliedCount() != 1 {
		t.Errorf("applied count = %d, want 1 after remove", state.AppliedCount())
	}

	// The current entry is never removed
	state.Remove("2026-08-20")
	if state.Current() == nil {
		t.Error("current entry was removed")
	}
	if state.AppliedCount() != 1 {
		t.Errorf("applied count = %d, want 1", state.AppliedCount())
	}
}
