package bing

import "testing"

func TestImageDateString(t *testing.T) {
	tests := []struct {
		name      string
		startDate string
		want      string
	}{
		{"valid date", "20260815", "2026-08-15"},
		{"year boundary", "20251231", "2025-12-31"},
		{"unparseable falls back", "not-a-date", "not-a-date"},
		{"empty falls back", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := &Image{StartDate: tt.startDate}
			if got := img.DateString(); got != tt.want {
				t.Errorf("DateString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestImageDateInvalid(t *testing.T) {
	img := &Image{StartDate: "2026-08-15"} // wrong layout
	if _, err := img.Date(); err == nil {
		t.Error("expected error for wrong date layout")
	}
}

func TestImageURL(t *testing.T) {
	base := "https://www.bing.com"

	img := &Image{
		URL:     "/th?id=OHR.Example_EN-US123_1920x1080.jpg&rf=LaDigue_1920x1080.jpg",
		URLBase: "/th?id=OHR.Example_EN-US123",
	}

	tests := []struct {
		name       string
		resolution string
		want       string
	}{
		{"UHD", "UHD", base + "/th?id=OHR.Example_EN-US123_UHD.jpg"},
		{"1080p", "1920x1080", base + "/th?id=OHR.Example_EN-US123_1920x1080.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := img.ImageURL(base, tt.resolution); got != tt.want {
				t.Errorf("ImageURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestImageURLWithoutURLBase(t *testing.T) {
	img := &Image{URL: "/th?id=OHR.Fallback_1920x1080.jpg"}
	want := "https://www.bing.com/th?id=OHR.Fallback_1920x1080.jpg"
	if got := img.ImageURL("https://www.bing.com", "UHD"); got != want {
		t.Errorf("ImageURL() = %q, want %q", got, want)
	}
}
