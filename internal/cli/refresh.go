package cli

import (
	"fmt"
	"math/rand"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bingwall/bingwall/internal/bing"
	"github.com/bingwall/bingwall/internal/constants"
	"github.com/bingwall/bingwall/internal/download"
	"github.com/bingwall/bingwall/internal/http"
	"github.com/bingwall/bingwall/internal/progress"
	"github.com/bingwall/bingwall/internal/wallpaper"
)

// newRefreshCmd creates the 'refresh' command.
func newRefreshCmd() *cobra.Command {
	var (
		force      bool
		random     bool
		idx        int
		market     string
		resolution string
		noSet      bool
		dir        string
	)

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Download a Bing image and set it as the wallpaper",
		Long: `Download an image from the Bing image archive and set it as the
desktop wallpaper. By default this is today's image; --random picks one of
the last ` + fmt.Sprintf("%d", constants.MaxArchiveIndex+1) + ` days and --idx selects a specific day (0 = today).

Examples:
  # Today's image
  bingwall refresh

  # A random image from the archive
  bingwall refresh --random

  # The image from three days ago, at 1080p, without applying it
  bingwall refresh --idx 3 --resolution 1920x1080 --no-set`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := GetContext()

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			// Flag overrides
			if market != "" {
				cfg.Wallpaper.Market = market
			}
			if resolution != "" {
				cfg.Wallpaper.Resolution = resolution
			}
			if dir != "" {
				cfg.Wallpaper.WallpaperDir = dir
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if idx < 0 || idx > constants.MaxArchiveIndex {
				return fmt.Errorf("--idx must be between 0 and %d", constants.MaxArchiveIndex)
			}
			if random {
				idx = rand.Intn(constants.MaxArchiveIndex + 1)
			}

			apiClient, err := bing.NewClient(cfg)
			if err != nil {
				return fmt.Errorf("failed to create API client: %w", err)
			}

			img, err := apiClient.ImageAt(ctx, idx)
			if err != nil {
				return fmt.Errorf("failed to query image archive: %w", err)
			}

			fmt.Printf("%s - %s\n", img.DateString(), img.Title)
			if img.Copyright != "" {
				fmt.Printf("%s\n", img.Copyright)
			}

			httpClient, err := http.NewClient(cfg)
			if err != nil {
				return fmt.Errorf("failed to configure download client: %w", err)
			}

			localPath := filepath.Join(cfg.Wallpaper.WallpaperDir, img.DateString()+".jpg")
			imageURL := img.ImageURL(apiClient.BaseURL(), cfg.Wallpaper.Resolution)

			reporter := progress.NewCLIProgress()
			started := false

			result, err := download.Fetch(ctx, download.Params{
				URL:        imageURL,
				LocalPath:  localPath,
				HTTPClient: httpClient,
				Force:      force,
				ProgressCallback: func(written, total int64) {
					if !started {
						reporter.Start(total, "Downloading")
						started = true
					}
					reporter.Update(written)
				},
			})
			if err != nil {
				reporter.Error(err)
				return fmt.Errorf("download failed: %w", err)
			}
			if started {
				reporter.Finish()
			}

			if result.Skipped {
				fmt.Printf("Already downloaded: %s\n", result.Path)
			} else {
				fmt.Printf("Saved: %s (%d bytes)\n", result.Path, result.Size)
			}

			if noSet {
				return nil
			}

			if err := wallpaper.Set(ctx, result.Path); err != nil {
				return fmt.Errorf("failed to set wallpaper: %w", err)
			}
			fmt.Println("Wallpaper applied.")

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Re-download even if the image already exists")
	cmd.Flags().BoolVar(&random, "random", false, "Pick a random day from the archive")
	cmd.Flags().IntVar(&idx, "idx", 0, "Days back in the archive (0 = today)")
	cmd.Flags().StringVar(&market, "market", "", "Bing market code (e.g. en-US, zh-CN)")
	cmd.Flags().StringVar(&resolution, "resolution", "", "Image resolution (UHD or WxH, e.g. 1920x1080)")
	cmd.Flags().BoolVar(&noSet, "no-set", false, "Download only, do not change the wallpaper")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Image directory (overrides config)")

	return cmd
}
