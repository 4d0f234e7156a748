package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bingwall/bingwall/internal/daemon"
	"github.com/bingwall/bingwall/internal/models"
	"github.com/bingwall/bingwall/internal/opener"
)

// newOpenCmd creates the 'open' command.
func newOpenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open [folder|today|copyright]",
		Short: "Open the wallpaper folder, current image, or its copyright page",
		Long: `Open a wallpaper resource with the platform default handler:

  folder      The wallpaper image directory (default)
  today       The currently applied image file
  copyright   The copyright page for the current image`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"folder", "today", "copyright"},
		RunE: func(cmd *cobra.Command, args []string) error {
			what := "folder"
			if len(args) > 0 {
				what = args[0]
			}

			switch what {
			case "folder":
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				return opener.Open(GetContext(), cfg.Wallpaper.WallpaperDir)

			case "today":
				current, err := currentWallpaper()
				if err != nil {
					return err
				}
				return opener.Open(GetContext(), current.FilePath)

			case "copyright":
				current, err := currentWallpaper()
				if err != nil {
					return err
				}
				if current.CopyrightLink == "" {
					return fmt.Errorf("no copyright link recorded for %s", current.Date)
				}
				return opener.Open(GetContext(), current.CopyrightLink)

			default:
				return fmt.Errorf("unknown target %q (expected folder, today, or copyright)", what)
			}
		},
	}

	return cmd
}

// currentWallpaper returns the currently applied wallpaper from the
// persisted daemon state.
func currentWallpaper() (*models.Wallpaper, error) {
	state := daemon.NewState("")
	if err := state.Load(); err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	current := state.Current()
	if current == nil {
		return nil, fmt.Errorf("no wallpaper applied yet; run 'bingwall refresh' first")
	}
	return current, nil
}
