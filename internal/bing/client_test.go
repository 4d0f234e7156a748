package bing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/bingwall/bingwall/internal/config"
)

// newTestClient returns a client pointed at an httptest server that serves
// archive responses. The handler receives the parsed idx and n parameters.
func newTestClient(t *testing.T, handler func(w http.ResponseWriter, idx, n int, mkt string)) *Client {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/HPImageArchive.aspx" {
			http.NotFound(w, r)
			return
		}
		if format := r.URL.Query().Get("format"); format != "js" {
			t.Errorf("format = %q, want js", format)
		}
		idx, _ := strconv.Atoi(r.URL.Query().Get("idx"))
		n, _ := strconv.Atoi(r.URL.Query().Get("n"))
		handler(w, idx, n, r.URL.Query().Get("mkt"))
	}))
	t.Cleanup(server.Close)

	cfg := config.New()
	cfg.Proxy.Mode = "no-proxy"
	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	client.SetBaseURL(server.URL)
	return client
}

// archiveJSON builds a response with count images, the first dated
// firstDay days before a fixed base date.
func archiveJSON(idx, count int) []byte {
	base := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	resp := archiveResponse{}
	for i := 0; i < count; i++ {
		day := base.AddDate(0, 0, -(idx + i))
		resp.Images = append(resp.Images, Image{
			StartDate:     day.Format("20060102"),
			URLBase:       fmt.Sprintf("/th?id=OHR.Day%s", day.Format("20060102")),
			Title:         "Image for " + day.Format("2006-01-02"),
			Copyright:     "Someone (Somewhere)",
			CopyrightLink: "https://www.bing.com/search?q=test",
			Hash:          fmt.Sprintf("hash%d", idx+i),
		})
	}
	data, _ := json.Marshal(resp)
	return data
}

func TestImagesRequestsWindow(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, idx, n int, mkt string) {
		if mkt != "en-US" {
			t.Errorf("mkt = %q, want en-US", mkt)
		}
		w.Write(archiveJSON(idx, n))
	})

	images, err := client.Images(context.Background(), 2, 3)
	if err != nil {
		t.Fatalf("Images failed: %v", err)
	}
	if len(images) != 3 {
		t.Fatalf("len(images) = %d, want 3", len(images))
	}
	if images[0].DateString() != "2026-08-18" {
		t.Errorf("first image date = %q, want 2026-08-18", images[0].DateString())
	}
}

func TestImagesValidatesArguments(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, idx, n int, mkt string) {
		t.Error("request should not be sent for invalid arguments")
	})

	tests := []struct {
		name       string
		idx, count int
	}{
		{"negative idx", -1, 1},
		{"idx past request limit", 8, 1},
		{"zero count", 0, 0},
		{"count too large", 0, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := client.Images(context.Background(), tt.idx, tt.count); err == nil {
				t.Errorf("Images(%d, %d) succeeded, want error", tt.idx, tt.count)
			}
		})
	}
}

func TestImagesEmptyResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, idx, n int, mkt string) {
		w.Write([]byte(`{"images":[]}`))
	})

	_, err := client.Images(context.Background(), 0, 1)
	if !errors.Is(err, ErrNoImage) {
		t.Errorf("error = %v, want ErrNoImage", err)
	}
}

func TestImagesServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, idx, n int, mkt string) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.Images(context.Background(), 0, 1)
	if err == nil {
		t.Fatal("expected error for 404 response")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", apiErr.StatusCode)
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound should report true for a 404 APIError")
	}
}

func TestImageAtDirect(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, idx, n int, mkt string) {
		if idx != 3 || n != 1 {
			t.Errorf("request idx=%d n=%d, want idx=3 n=1", idx, n)
		}
		w.Write(archiveJSON(idx, n))
	})

	img, err := client.ImageAt(context.Background(), 3)
	if err != nil {
		t.Fatalf("ImageAt failed: %v", err)
	}
	if img.DateString() != "2026-08-17" {
		t.Errorf("date = %q, want 2026-08-17", img.DateString())
	}
}

func TestImageAtBeyondRequestLimit(t *testing.T) {
	// Day 12 is past the per-request idx limit of 7: the client asks for a
	// window at idx 7 and picks the sixth entry.
	client := newTestClient(t, func(w http.ResponseWriter, idx, n int, mkt string) {
		if idx != 7 || n != 6 {
			t.Errorf("request idx=%d n=%d, want idx=7 n=6", idx, n)
		}
		w.Write(archiveJSON(idx, n))
	})

	img, err := client.ImageAt(context.Background(), 12)
	if err != nil {
		t.Fatalf("ImageAt failed: %v", err)
	}
	if img.DateString() != "2026-08-08" {
		t.Errorf("date = %q, want 2026-08-08", img.DateString())
	}
}

func TestImageAtOutOfRange(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, idx, n int, mkt string) {
		t.Error("request should not be sent for out-of-range index")
	})

	for _, idx := range []int{-1, 15, 100} {
		if _, err := client.ImageAt(context.Background(), idx); err == nil {
			t.Errorf("ImageAt(%d) succeeded, want error", idx)
		}
	}
}

func TestImageAtShortWindow(t *testing.T) {
	// The archive can return fewer entries than asked for near the end of
	// its history.
	client := newTestClient(t, func(w http.ResponseWriter, idx, n int, mkt string) {
		w.Write(archiveJSON(idx, n-2))
	})

	_, err := client.ImageAt(context.Background(), 14)
	if !errors.Is(err, ErrNoImage) {
		t.Errorf("error = %v, want ErrNoImage", err)
	}
}

func TestImageOfDay(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, idx, n int, mkt string) {
		if idx != 0 || n != 1 {
			t.Errorf("request idx=%d n=%d, want idx=0 n=1", idx, n)
		}
		w.Write(archiveJSON(idx, n))
	})

	img, err := client.ImageOfDay(context.Background())
	if err != nil {
		t.Fatalf("ImageOfDay failed: %v", err)
	}
	if img.DateString() != "2026-08-20" {
		t.Errorf("date = %q, want 2026-08-20", img.DateString())
	}
}

func TestClientUsesConfiguredMarket(t *testing.T) {
	cfg := config.New()
	cfg.Proxy.Mode = "no-proxy"
	cfg.Wallpaper.Market = "ja-JP"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if mkt := r.URL.Query().Get("mkt"); mkt != "ja-JP" {
			t.Errorf("mkt = %q, want ja-JP", mkt)
		}
		w.Write(archiveJSON(0, 1))
	}))
	defer server.Close()

	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	client.SetBaseURL(server.URL)

	if _, err := client.ImageOfDay(context.Background()); err != nil {
		t.Fatalf("ImageOfDay failed: %v", err)
	}
}
