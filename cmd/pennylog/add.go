package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/pennylog/pennylog/internal/cli"
	"github.com/pennylog/pennylog/internal/common"
	syncer "github.com/pennylog/pennylog/internal/sync"
)

func addCmd() *cobra.Command {
	var (
		category string
		merchant string
		note     string
		receipt  string
		dateStr  string
	)

	cmd := &cobra.Command{
		Use:   "add <amount> <description>",
		Short: "Log a new expense",
		Long: `Log a new expense. The category is inferred from the description
unless --category is given; online, the expense is written to your account
and mirrored locally, offline it is queued for the next sync.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[0], err)
			}

			date := time.Now()
			if dateStr != "" {
				date, err = time.Parse("2006-01-02", dateStr)
				if err != nil {
					return fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", dateStr, err)
				}
			}

			app, err := initApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			expense, err := app.coordinator.CreateExpense(ctx, app.session, syncer.CreateInput{
				Date:         date,
				Description:  args[1],
				MerchantName: merchant,
				Category:     category,
				Note:         note,
				ReceiptURL:   receipt,
				Amount:       amount,
			})
			if errors.Is(err, common.ErrDuplicateExpense) {
				fmt.Println(cli.FormatWarning("Looks like you already logged this expense."))
				return nil
			}
			if err != nil {
				return err
			}

			status := "synced"
			if !expense.Synced {
				status = "saved locally, will sync later"
			}
			if !app.session.Authenticated() {
				status = "saved to guest session"
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Logged %.2f under %s (%s)",
				expense.Amount, expense.Category, status)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "category id (inferred when omitted)")
	cmd.Flags().StringVarP(&merchant, "merchant", "m", "", "merchant name")
	cmd.Flags().StringVarP(&note, "note", "n", "", "free-form note")
	cmd.Flags().StringVar(&receipt, "receipt", "", "receipt URL")
	cmd.Flags().StringVarP(&dateStr, "date", "d", "", "expense date (YYYY-MM-DD, default today)")

	return cmd
}
