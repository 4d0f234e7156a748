package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bingwall/bingwall/internal/daemon"
	"github.com/bingwall/bingwall/internal/ipc"
	"github.com/bingwall/bingwall/internal/models"
)

// newHistoryCmd creates the 'history' command.
func newHistoryCmd() *cobra.Command {
	var (
		limit      int
		showFailed bool
		stateFile  string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List applied wallpapers",
		Long: `List wallpapers that have been downloaded and applied, newest first.
When the daemon is running the history is read over IPC; otherwise the last
persisted state is used.

Use --failed to show failed refresh attempts instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var entries []*models.Wallpaper

			// Prefer the live daemon
			client := ipc.NewClient()
			if history, err := client.GetHistory(GetContext(), limit); err == nil && !showFailed {
				entries = history.Entries
			} else {
				state := daemon.NewState(stateFile)
				if err := state.Load(); err != nil {
					return fmt.Errorf("failed to load state: %w", err)
				}
				if showFailed {
					entries = state.GetFailed()
				} else {
					entries = state.GetRecent(limit)
				}
			}

			if len(entries) == 0 {
				if showFailed {
					fmt.Println("No failed refreshes.")
				} else {
					fmt.Println("No wallpapers applied yet. Run 'bingwall refresh' to get started.")
				}
				return nil
			}

			for _, w := range entries {
				if w.Failed() {
					fmt.Printf("%s  FAILED  %s\n", w.Date, w.Error)
					continue
				}
				fmt.Printf("%s  %s\n", w.Date, w.Title)
				fmt.Printf("            Applied: %s\n", w.AppliedAt.Format(time.RFC3339))
				fmt.Printf("            Image: %s\n", w.FilePath)
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of entries to show (0 = all)")
	cmd.Flags().BoolVar(&showFailed, "failed", false, "Show failed refreshes instead")
	cmd.Flags().StringVar(&stateFile, "state-file", "", "Path to daemon state file")

	return cmd
}
