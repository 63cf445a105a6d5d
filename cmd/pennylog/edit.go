package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/pennylog/pennylog/internal/cli"
)

func editCmd() *cobra.Command {
	var (
		amountStr string
		desc      string
		category  string
		note      string
		dateStr   string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			app, err := initApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			expense, err := app.store.GetExpenseByID(ctx, args[0])
			if err != nil {
				return fmt.Errorf("expense %s: %w", args[0], err)
			}

			if amountStr != "" {
				amount, parseErr := strconv.ParseFloat(amountStr, 64)
				if parseErr != nil {
					return fmt.Errorf("invalid amount %q: %w", amountStr, parseErr)
				}
				expense.Amount = amount
			}
			if desc != "" {
				expense.Description = desc
			}
			if category != "" {
				expense.Category = category
			}
			if note != "" {
				expense.Note = note
			}
			if dateStr != "" {
				date, parseErr := time.Parse("2006-01-02", dateStr)
				if parseErr != nil {
					return fmt.Errorf("invalid date %q: %w", dateStr, parseErr)
				}
				expense.Date = date
			}

			updated, err := app.coordinator.UpdateExpense(ctx, app.session, expense)
			if err != nil {
				return fmt.Errorf("failed to update expense: %w", err)
			}

			status := "synced"
			if !updated.Synced {
				status = "saved locally, will sync later"
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated %s (%s)", updated.ID, status)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&amountStr, "amount", "a", "", "new amount")
	cmd.Flags().StringVar(&desc, "description", "", "new description")
	cmd.Flags().StringVarP(&category, "category", "c", "", "new category id")
	cmd.Flags().StringVarP(&note, "note", "n", "", "new note")
	cmd.Flags().StringVarP(&dateStr, "date", "d", "", "new date (YYYY-MM-DD)")

	return cmd
}
