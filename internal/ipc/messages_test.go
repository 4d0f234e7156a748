package ipc

import (
	"testing"
	"time"

	"github.com/bingwall/bingwall/internal/models"
)

func TestRequestEncodeDecode(t *testing.T) {
	req := NewSetModeRequest("daily")
	if req.ID == "" {
		t.Error("request should carry a correlation ID")
	}

	data, err := req.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	decoded, err := DecodeRequest(data)
	if err != nil {
		t.Fatalf("DecodeRequest failed: %v", err)
	}
	if decoded.ID != req.ID {
		t.Errorf("ID = %q, want %q", decoded.ID, req.ID)
	}
	if decoded.Type != MsgSetMode {
		t.Errorf("Type = %q, want %q", decoded.Type, MsgSetMode)
	}
	if decoded.Mode != "daily" {
		t.Errorf("Mode = %q, want daily", decoded.Mode)
	}
}

func TestDecodeRequestMalformed(t *testing.T) {
	if _, err := DecodeRequest([]byte("{not json")); err == nil {
		t.Error("expected error for malformed request")
	}
}

func TestStatusResponseRoundTrip(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	status := &StatusData{
		Mode:        "random",
		Version:     "v0.2.0-dev",
		LastRefresh: &now,
		Current: &models.Wallpaper{
			Date:     "2026-08-20",
			Title:    "A Test Image",
			FilePath: "/tmp/2026-08-20.jpg",
		},
		Uptime: "5m0s",
	}

	resp := NewStatusResponse("req-1", status)
	data, err := resp.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	// The decoded Data field is a map until GetStatusData re-marshals it
	decoded, err := DecodeResponse(data)
	if err != nil {
		t.Fatalf("DecodeResponse failed: %v", err)
	}
	if !decoded.Success {
		t.Error("decoded response should be successful")
	}

	got := decoded.GetStatusData()
	if got == nil {
		t.Fatal("GetStatusData returned nil")
	}
	if got.Mode != "random" {
		t.Errorf("mode = %q, want random", got.Mode)
	}
	if got.LastRefresh == nil || !got.LastRefresh.Equal(now) {
		t.Errorf("last refresh = %v, want %v", got.LastRefresh, now)
	}
	if got.Current == nil || got.Current.Title != "A Test Image" {
		t.Errorf("current = %v, want title A Test Image", got.Current)
	}

	// Direct extraction, without a decode round trip
	if direct := resp.GetStatusData(); direct != status {
		t.Error("GetStatusData on the original response should return the same pointer")
	}
}

func TestHistoryResponseRoundTrip(t *testing.T) {
	entries := []*models.Wallpaper{
		{Date: "2026-08-20", Title: "Newest"},
		{Date: "2026-08-19", Title: "Older"},
	}

	resp := NewHistoryResponse("req-2", entries)
	data, err := resp.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	decoded, err := DecodeResponse(data)
	if err != nil {
		t.Fatalf("DecodeResponse failed: %v", err)
	}

	history := decoded.GetHistoryData()
	if history == nil {
		t.Fatal("GetHistoryData returned nil")
	}
	if len(history.Entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(history.Entries))
	}
	if history.Entries[0].Date != "2026-08-20" {
		t.Errorf("first entry date = %q, want 2026-08-20", history.Entries[0].Date)
	}
}

func TestErrorResponse(t *testing.T) {
	resp := NewErrorResponse("req-3", "refresh failed")
	data, err := resp.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	decoded, err := DecodeResponse(data)
	if err != nil {
		t.Fatalf("DecodeResponse failed: %v", err)
	}
	if decoded.Success {
		t.Error("error response should not be successful")
	}
	if decoded.Error != "refresh failed" {
		t.Errorf("error = %q, want refresh failed", decoded.Error)
	}
	if decoded.GetStatusData() != nil {
		t.Error("GetStatusData should be nil for an error response")
	}
	if decoded.GetHistoryData() != nil {
		t.Error("GetHistoryData should be nil for an error response")
	}
}
