package opener

import (
	"context"
	"reflect"
	"testing"
)

func TestOpenCommand(t *testing.T) {
	tests := []struct {
		goos   string
		target string
		want   []string
	}{
		{
			goos:   "windows",
			target: `C:\Users\me\.bing-wallpaper-client`,
			want:   []string{"cmd", "/c", "start", "", `C:\Users\me\.bing-wallpaper-client`},
		},
		{
			goos:   "darwin",
			target: "/Users/me/.bing-wallpaper-client",
			want:   []string{"open", "/Users/me/.bing-wallpaper-client"},
		},
		{
			goos:   "linux",
			target: "https://www.bing.com",
			want:   []string{"xdg-open", "https://www.bing.com"},
		},
		{
			goos:   "freebsd",
			target: "/tmp/img.jpg",
			want:   []string{"xdg-open", "/tmp/img.jpg"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			got := openCommand(tt.goos, tt.target)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("openCommand(%q, %q) = %v, want %v", tt.goos, tt.target, got, tt.want)
			}
		})
	}
}

func TestOpenRejectsEmptyTarget(t *testing.T) {
	if err := Open(context.Background(), ""); err == nil {
		t.Error("expected error for empty target")
	}
	if err := Open(context.Background(), "   "); err == nil {
		t.Error("expected error for blank target")
	}
}
