package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/pennylog/pennylog/internal/cli"
	"github.com/pennylog/pennylog/internal/pending"
)

func pendingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pending",
		Short: "Review auto-detected transactions",
		Long: `Manage expense candidates detected from payment notifications.
Entries wait 24 hours for a confirm or dismiss, then expire.`,
	}

	cmd.AddCommand(pendingListCmd())
	cmd.AddCommand(pendingConfirmCmd())
	cmd.AddCommand(pendingDismissCmd())
	cmd.AddCommand(pendingIngestCmd())

	return cmd
}

func pendingListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pending transactions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			app, err := initApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			detector := pending.NewDetector(app.store)
			entries, err := detector.List(ctx)
			if err != nil {
				return fmt.Errorf("failed to list pending transactions: %w", err)
			}

			if len(entries) == 0 {
				fmt.Println(cli.InfoStyle.Render("No pending transactions."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				headerStyle.Render("ID"),
				headerStyle.Render("Merchant"),
				headerStyle.Render("Amount"),
				headerStyle.Render("Detected"),
				headerStyle.Render("Expires"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 36),
				strings.Repeat("-", 20),
				strings.Repeat("-", 10),
				strings.Repeat("-", 16),
				strings.Repeat("-", 16))

			for i := range entries {
				e := &entries[i]
				fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%s\n",
					e.ID,
					e.MerchantName,
					e.Amount,
					e.DetectedAt.Format("2006-01-02 15:04"),
					e.ExpiresAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func pendingConfirmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "confirm <id>",
		Short: "Confirm a pending transaction as an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			app, err := initApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			detector := pending.NewDetector(app.store)
			expense, err := detector.Confirm(ctx, app.coordinator, app.session, args[0])
			if errors.Is(err, pending.ErrUnknownDetection) {
				return fmt.Errorf("no live pending transaction %s", args[0])
			}
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Logged %.2f at %s under %s",
				expense.Amount, expense.MerchantName, expense.Category)))
			return nil
		},
	}
}

func pendingDismissCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dismiss <id>",
		Short: "Dismiss a pending transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			app, err := initApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			detector := pending.NewDetector(app.store)
			if err := detector.Dismiss(ctx, args[0]); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess("Dismissed"))
			return nil
		},
	}
}

// pendingIngestCmd feeds a parsed notification payload into the detector.
// The platform notification bridge calls this; it is also handy for testing.
func pendingIngestCmd() *cobra.Command {
	var (
		txnID     string
		sourceApp string
	)

	cmd := &cobra.Command{
		Use:    "ingest <amount> <merchant>",
		Short:  "Ingest a detected payment notification",
		Hidden: true,
		Args:   cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[0], err)
			}

			app, err := initApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			detector := pending.NewDetector(app.store)
			entry, err := detector.Ingest(ctx, pending.Detection{
				TransactionID: txnID,
				MerchantName:  args[1],
				SourceApp:     sourceApp,
				Amount:        amount,
				DetectedAt:    time.Now(),
			})
			if errors.Is(err, pending.ErrDuplicatePayment) {
				fmt.Println(cli.FormatInfo("Duplicate payment, discarded."))
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Pending %s expires %s",
				entry.ID, entry.ExpiresAt.Format("2006-01-02 15:04"))))
			return nil
		},
	}

	cmd.Flags().StringVar(&txnID, "txn-id", "", "payment app transaction id")
	cmd.Flags().StringVar(&sourceApp, "source", "", "originating payment app")

	return cmd
}
