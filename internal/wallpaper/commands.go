package wallpaper

import (
	"fmt"
	"strings"
)

// osascriptScript builds the AppleScript that sets the picture on every
// desktop. The path is embedded as a quoted AppleScript string literal.
func osascriptScript(absPath string) string {
	escaped := strings.ReplaceAll(absPath, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return fmt.Sprintf(
		`tell application "System Events" to tell every desktop to set picture to "%s"`,
		escaped,
	)
}

// detectDesktop normalizes the XDG_CURRENT_DESKTOP value to a known family.
// Returns "" when the desktop environment is unrecognized.
func detectDesktop(xdgCurrentDesktop string) string {
	d := strings.ToLower(xdgCurrentDesktop)
	switch {
	case strings.Contains(d, "gnome"), strings.Contains(d, "unity"), strings.Contains(d, "budgie"):
		return "gnome"
	case strings.Contains(d, "cinnamon"):
		return "cinnamon"
	case strings.Contains(d, "mate"):
		return "mate"
	case strings.Contains(d, "kde"), strings.Contains(d, "plasma"):
		return "kde"
	default:
		return ""
	}
}

// linuxCommands returns the command lines to run for the given desktop
// family. GNOME gets both the light and dark picture keys; unknown desktops
// fall back to feh, which works under bare window managers.
func linuxCommands(desktop, absPath string) [][]string {
	uri := "file://" + absPath

	switch desktop {
	case "gnome":
		return [][]string{
			{"gsettings", "set", "org.gnome.desktop.background", "picture-uri", uri},
			{"gsettings", "set", "org.gnome.desktop.background", "picture-uri-dark", uri},
		}
	case "cinnamon":
		return [][]string{
			{"gsettings", "set", "org.cinnamon.desktop.background", "picture-uri", uri},
		}
	case "mate":
		return [][]string{
			{"gsettings", "set", "org.mate.background", "picture-filename", absPath},
		}
	case "kde":
		return [][]string{
			{"plasma-apply-wallpaperimage", absPath},
		}
	default:
		return [][]string{
			{"feh", "--bg-fill", absPath},
		}
	}
}
