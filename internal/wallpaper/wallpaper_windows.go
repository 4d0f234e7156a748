//go:build windows

package wallpaper

import (
	"context"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	spiSetDeskWallpaper = 0x0014
	spifUpdateIniFile   = 0x01
	spifSendChange      = 0x02
)

var (
	user32                   = windows.NewLazySystemDLL("user32.dll")
	procSystemParametersInfo = user32.NewProc("SystemParametersInfoW")
)

// setWallpaper updates the desktop background via SystemParametersInfoW.
// SPIF_UPDATEINIFILE persists the change across logins; SPIF_SENDCHANGE
// broadcasts it so the desktop repaints immediately.
func setWallpaper(_ context.Context, absPath string) error {
	pathPtr, err := windows.UTF16PtrFromString(absPath)
	if err != nil {
		return fmt.Errorf("invalid wallpaper path: %w", err)
	}

	ret, _, callErr := procSystemParametersInfo.Call(
		uintptr(spiSetDeskWallpaper),
		0,
		uintptr(unsafe.Pointer(pathPtr)),
		uintptr(spifUpdateIniFile|spifSendChange),
	)
	if ret == 0 {
		return fmt.Errorf("SystemParametersInfo failed: %w", callErr)
	}

	return nil
}
