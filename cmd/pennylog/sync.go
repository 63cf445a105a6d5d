package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pennylog/pennylog/internal/cli"
)

func syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Replay queued offline changes",
		Long: `Drain the sync queue: offline creates, updates, and deletes are
replayed against your account in the order they happened. An entry is
removed only after the backend confirms it; if one fails, draining stops
and resumes on the next run.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			app, err := initApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			if !app.session.Authenticated() {
				fmt.Println(cli.FormatWarning("Sign in first: guest data stays on this device."))
				return nil
			}

			stats, err := app.coordinator.Drain(ctx, app.session)
			if err != nil {
				fmt.Println(cli.FormatWarning(fmt.Sprintf(
					"Replayed %d changes before a failure; %d remain queued.",
					stats.Replayed, stats.Remaining)))
				return err
			}

			if stats.Replayed == 0 {
				fmt.Println(cli.FormatInfo("Nothing to sync."))
				return nil
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Synced %d queued changes in %s",
				stats.Replayed, stats.Duration.Round(time.Millisecond))))
			return nil
		},
	}
}
