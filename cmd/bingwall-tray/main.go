// Bing Wallpaper Client Tray Companion - menu bar / system tray application.
//
// A lightweight tray application that talks to the bingwall daemon over IPC
// (Unix socket, or \\.\pipe\bingwall on Windows) and spawns the daemon when
// it is not running.
//
// Build for Windows without a console window:
//
//	GOOS=windows go build -ldflags "-H=windowsgui" ./cmd/bingwall-tray
package main

func main() {
	runTray()
}
