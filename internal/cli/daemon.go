package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bingwall/bingwall/internal/config"
	"github.com/bingwall/bingwall/internal/constants"
	"github.com/bingwall/bingwall/internal/daemon"
	"github.com/bingwall/bingwall/internal/ipc"
	"github.com/bingwall/bingwall/internal/logging"
)

// newDaemonCmd creates the 'daemon' command group.
func newDaemonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Background service that keeps the wallpaper in sync",
		Long: `Background service that periodically checks the Bing image archive and
updates the desktop wallpaper according to the configured refresh mode.

Examples:
  # Run the daemon in the foreground (Ctrl+C to stop)
  bingwall daemon run

  # Run a single refresh cycle and exit (useful for cron)
  bingwall daemon run --once

  # Check daemon status
  bingwall daemon status

  # Switch the refresh mode
  bingwall daemon mode daily
  bingwall daemon mode random
  bingwall daemon mode off

  # Stop a running daemon
  bingwall daemon stop`,
	}

	cmd.AddCommand(newDaemonRunCmd())
	cmd.AddCommand(newDaemonStatusCmd())
	cmd.AddCommand(newDaemonModeCmd())
	cmd.AddCommand(newDaemonStopCmd())

	return cmd
}

// newDaemonRunCmd creates the 'daemon run' command.
func newDaemonRunCmd() *cobra.Command {
	var (
		runOnce      bool
		pollInterval string
		stateFile    string
		logFile      string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the wallpaper refresh daemon",
		Long: `Start the daemon in foreground mode. The daemon checks the image archive
at the configured interval and refreshes the wallpaper when a new image is
available.

Press Ctrl+C to stop the daemon gracefully.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			daemonCfg := daemon.FromClientConfig(cfg)
			if pollInterval != "" {
				interval, err := time.ParseDuration(pollInterval)
				if err != nil {
					return fmt.Errorf("invalid poll interval %q: %w", pollInterval, err)
				}
				if interval < time.Minute {
					return fmt.Errorf("poll interval must be at least 1 minute")
				}
				if interval > 24*time.Hour {
					return fmt.Errorf("poll interval must be at most 24 hours")
				}
				daemonCfg.PollInterval = interval
			}
			if stateFile != "" {
				daemonCfg.StateFile = stateFile
			}

			var logWriter io.Writer
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
				if err != nil {
					return fmt.Errorf("failed to open log file: %w", err)
				}
				defer f.Close()
				logWriter = f
			}
			daemonLogger := logging.NewLogger("daemon", logWriter)
			if verbose || debug {
				logging.SetGlobalLevel(-1)
			}

			if !runOnce && daemon.IsDaemonRunning() {
				return fmt.Errorf("daemon is already running (PID %d)", daemon.ReadPIDFile())
			}

			d, err := daemon.New(cfg, daemonCfg, daemonLogger)
			if err != nil {
				return fmt.Errorf("failed to create daemon: %w", err)
			}

			if runOnce {
				return d.RunOnce(GetContext())
			}

			if err := daemon.WritePIDFile(); err != nil {
				return err
			}
			defer daemon.RemovePIDFile()

			// Signal handling for graceful shutdown
			// Shutdown can arrive from a signal or an IPC request
			done := make(chan struct{})
			var once sync.Once
			stopOnce := func() {
				once.Do(func() { close(done) })
			}

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			go func() {
				sig := <-sigChan
				daemonLogger.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
				stopOnce()
			}()

			if err := d.Start(GetContext()); err != nil {
				return fmt.Errorf("failed to start daemon: %w", err)
			}

			// Expose the daemon over IPC for the CLI and tray companion
			ipcServer := ipc.NewServer(daemon.NewIPCHandler(d, stopOnce), daemonLogger)
			if err := ipcServer.Start(); err != nil {
				d.Stop()
				return fmt.Errorf("failed to start IPC server: %w", err)
			}

			<-done

			ipcServer.Stop()
			d.Stop()
			return nil
		},
	}

	cmd.Flags().BoolVar(&runOnce, "once", false, "Run one refresh cycle and exit")
	cmd.Flags().StringVar(&pollInterval, "poll-interval", "", "Override the poll interval (e.g. 10m, 1h)")
	cmd.Flags().StringVar(&stateFile, "state-file", "", "Path to daemon state file")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Path to log file (empty = stderr)")

	return cmd
}

// newDaemonStatusCmd creates the 'daemon status' command.
func newDaemonStatusCmd() *cobra.Command {
	var stateFile string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		Long: `Display the daemon status. When the daemon is running the live status is
read over IPC; otherwise the last persisted state is shown.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := GetContext()

			// Prefer the live daemon
			client := ipc.NewClient()
			if status, err := client.GetStatus(ctx); err == nil {
				fmt.Println("Daemon: running")
				fmt.Printf("  Version: %s\n", status.Version)
				fmt.Printf("  Mode: %s\n", status.Mode)
				fmt.Printf("  Uptime: %s\n", status.Uptime)
				if status.LastRefresh != nil {
					fmt.Printf("  Last Refresh: %s (%s ago)\n",
						status.LastRefresh.Format(time.RFC3339),
						time.Since(*status.LastRefresh).Round(time.Second))
				} else {
					fmt.Println("  Last Refresh: Never")
				}
				if status.Current != nil {
					fmt.Printf("  Current: %s (%s)\n", status.Current.Title, status.Current.Date)
					fmt.Printf("  Image: %s\n", status.Current.FilePath)
				}
				if status.LastError != "" {
					fmt.Printf("  Last Error: %s\n", status.LastError)
				}
				return nil
			}

			// Fall back to the persisted state
			fmt.Println("Daemon: not running")
			state := daemon.NewState(stateFile)
			if err := state.Load(); err != nil {
				return fmt.Errorf("failed to load state: %w", err)
			}

			fmt.Printf("  Mode: %s\n", state.GetMode())
			lastRefresh := state.GetLastRefresh()
			if lastRefresh.IsZero() {
				fmt.Println("  Last Refresh: Never")
			} else {
				fmt.Printf("  Last Refresh: %s (%s ago)\n",
					lastRefresh.Format(time.RFC3339),
					time.Since(lastRefresh).Round(time.Second))
			}
			if current := state.Current(); current != nil {
				fmt.Printf("  Current: %s (%s)\n", current.Title, current.Date)
				fmt.Printf("  Image: %s\n", current.FilePath)
			}
			if lastErr := state.GetLastError(); lastErr != "" {
				fmt.Printf("  Last Error: %s\n", lastErr)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&stateFile, "state-file", "", "Path to daemon state file")

	return cmd
}

// newDaemonModeCmd creates the 'daemon mode' command.
func newDaemonModeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "mode [daily|random|off]",
		Short:     "Show or switch the refresh mode",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{config.ModeDaily, config.ModeRandom, config.ModeOff},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := GetContext()
			client := ipc.NewClient()

			if len(args) == 0 {
				if status, err := client.GetStatus(ctx); err == nil {
					fmt.Println(status.Mode)
					return nil
				}
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				fmt.Println(cfg.Wallpaper.Mode)
				return nil
			}

			mode := args[0]
			switch mode {
			case config.ModeDaily, config.ModeRandom, config.ModeOff:
			default:
				return config.ErrInvalidMode
			}

			// Persist the mode so a restarted daemon keeps it
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			cfg.Wallpaper.Mode = mode
			if err := config.Save(cfg, cfgFile); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			// Tell the running daemon, if any. Activating a mode triggers an
			// immediate refresh, so the reply can take a download's worth
			// of time.
			modeCtx, cancel := context.WithTimeout(ctx, constants.DownloadTimeout)
			defer cancel()
			if err := client.SetMode(modeCtx, mode); err != nil {
				fmt.Printf("Mode set to %s (daemon not running, will apply on next start)\n", mode)
				return nil
			}

			fmt.Printf("Mode set to %s\n", mode)
			return nil
		},
	}

	return cmd
}

// newDaemonStopCmd creates the 'daemon stop' command.
func newDaemonStopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop a running daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := ipc.NewClient()
			if err := client.Shutdown(GetContext()); err != nil {
				return fmt.Errorf("daemon does not appear to be running: %w", err)
			}
			fmt.Println("Daemon stopped.")
			return nil
		},
	}

	return cmd
}
