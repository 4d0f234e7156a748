package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bingwall/bingwall/internal/config"
)

// newConfigCmd creates the 'config' command group.
func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage bingwall configuration",
		Long: `Configuration management commands.

Commands:
  show  - Display current configuration
  set   - Set a configuration value
  path  - Show configuration file path`,
	}

	configCmd.AddCommand(newConfigShowCmd())
	configCmd.AddCommand(newConfigSetCmd())
	configCmd.AddCommand(newConfigPathCmd())

	return configCmd
}

// newConfigShowCmd creates the 'config show' command.
func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			fmt.Println("[wallpaper]")
			fmt.Printf("mode = %s\n", cfg.Wallpaper.Mode)
			fmt.Printf("market = %s\n", cfg.Wallpaper.Market)
			fmt.Printf("resolution = %s\n", cfg.Wallpaper.Resolution)
			fmt.Printf("poll_interval_minutes = %d\n", cfg.Wallpaper.PollIntervalMinutes)
			fmt.Printf("wallpaper_dir = %s\n", cfg.Wallpaper.WallpaperDir)
			fmt.Printf("keep_days = %d\n", cfg.Wallpaper.KeepDays)
			fmt.Println()
			fmt.Println("[notifications]")
			fmt.Printf("enabled = %t\n", cfg.Notifications.Enabled)
			fmt.Printf("show_applied = %t\n", cfg.Notifications.ShowApplied)
			fmt.Printf("show_failed = %t\n", cfg.Notifications.ShowFailed)
			fmt.Println()
			fmt.Println("[proxy]")
			fmt.Printf("mode = %s\n", cfg.Proxy.Mode)
			fmt.Printf("url = %s\n", cfg.Proxy.URL)

			return nil
		},
	}
}

// newConfigSetCmd creates the 'config set' command.
func newConfigSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value and save the config file.

Keys use section.name form:

  wallpaper.mode                   daily, random, or off
  wallpaper.market                 Bing market code (e.g. en-US)
  wallpaper.resolution             UHD or WxH (e.g. 1920x1080)
  wallpaper.poll_interval_minutes  1-1440
  wallpaper.wallpaper_dir          image directory
  wallpaper.keep_days              0-365 (0 = keep all)
  notifications.enabled            true or false
  notifications.show_applied       true or false
  notifications.show_failed        true or false
  proxy.mode                       no-proxy, system, or manual
  proxy.url                        proxy URL for manual mode

Examples:
  bingwall config set wallpaper.mode daily
  bingwall config set wallpaper.resolution 1920x1080
  bingwall config set notifications.enabled false`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := strings.ToLower(args[0]), args[1]

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if err := applyConfigValue(cfg, key, value); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			if err := config.Save(cfg, cfgFile); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			fmt.Printf("%s = %s\n", key, value)
			return nil
		},
	}

	return cmd
}

// applyConfigValue sets a single section.name key on the config.
func applyConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "wallpaper.mode":
		cfg.Wallpaper.Mode = strings.ToLower(value)
	case "wallpaper.market":
		cfg.Wallpaper.Market = value
	case "wallpaper.resolution":
		cfg.Wallpaper.Resolution = value
	case "wallpaper.poll_interval_minutes":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid number %q for %s", value, key)
		}
		cfg.Wallpaper.PollIntervalMinutes = n
	case "wallpaper.wallpaper_dir":
		cfg.Wallpaper.WallpaperDir = value
	case "wallpaper.keep_days":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid number %q for %s", value, key)
		}
		cfg.Wallpaper.KeepDays = n
	case "notifications.enabled", "notifications.show_applied", "notifications.show_failed":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q for %s", value, key)
		}
		switch key {
		case "notifications.enabled":
			cfg.Notifications.Enabled = b
		case "notifications.show_applied":
			cfg.Notifications.ShowApplied = b
		case "notifications.show_failed":
			cfg.Notifications.ShowFailed = b
		}
	case "proxy.mode":
		cfg.Proxy.Mode = strings.ToLower(value)
	case "proxy.url":
		cfg.Proxy.URL = value
	default:
		return fmt.Errorf("unknown configuration key %q", key)
	}
	return nil
}

// newConfigPathCmd creates the 'config path' command.
func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile != "" {
				fmt.Println(cfgFile)
				return nil
			}
			path, err := config.DefaultConfigPath()
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
}
