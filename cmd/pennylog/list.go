package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/pennylog/pennylog/internal/cli"
	"github.com/pennylog/pennylog/internal/service"
)

func listCmd() *cobra.Command {
	var (
		category string
		fromStr  string
		toStr    string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses",
		Long:  `Display expenses, newest first. Online, the list is refreshed from your account; offline, the local cache is shown.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			filter := service.ExpenseFilter{Category: category, Limit: limit}
			if fromStr != "" {
				from, err := time.Parse("2006-01-02", fromStr)
				if err != nil {
					return fmt.Errorf("invalid --from date: %w", err)
				}
				filter.StartDate = &from
			}
			if toStr != "" {
				to, err := time.Parse("2006-01-02", toStr)
				if err != nil {
					return fmt.Errorf("invalid --to date: %w", err)
				}
				filter.EndDate = &to
			}

			app, err := initApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			expenses, err := app.coordinator.ListExpenses(ctx, app.session, filter)
			if err != nil {
				return fmt.Errorf("failed to list expenses: %w", err)
			}

			if len(expenses) == 0 {
				fmt.Println(cli.InfoStyle.Render("No expenses yet. Use 'pennylog add' to log one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				headerStyle.Render("Date"),
				headerStyle.Render("Description"),
				headerStyle.Render("Category"),
				headerStyle.Render("Amount"),
				headerStyle.Render("Sync"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 10),
				strings.Repeat("-", 30),
				strings.Repeat("-", 14),
				strings.Repeat("-", 10),
				strings.Repeat("-", 5))

			var total float64
			for i := range expenses {
				e := &expenses[i]
				syncMark := cli.SuccessIcon
				if !e.Synced {
					syncMark = "…"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\n",
					e.Date.Format("2006-01-02"),
					e.Description,
					e.Category,
					e.Amount,
					syncMark)
				total += e.Amount
			}

			fmt.Fprintf(w, "\t\t%s\t%.2f\t\n", cli.BoldStyle.Render("Total"), total)
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "filter by category id")
	cmd.Flags().StringVar(&fromStr, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toStr, "to", "", "end date (YYYY-MM-DD)")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "maximum rows to show")

	return cmd
}
