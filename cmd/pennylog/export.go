package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pennylog/pennylog/internal/cli"
	"github.com/pennylog/pennylog/internal/export"
	"github.com/pennylog/pennylog/internal/service"
)

func exportCmd() *cobra.Command {
	var (
		format   string
		output   string
		envelope bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export expenses to CSV or JSON",
		Long: `Export expenses. CSV keeps date, description, category, amount, note,
and receipt; JSON keeps every field and can wrap the list in a summary
envelope with per-category totals.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			app, err := initApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			expenses, err := app.coordinator.ListExpenses(ctx, app.session, service.ExpenseFilter{})
			if err != nil {
				return fmt.Errorf("failed to load expenses: %w", err)
			}

			out := os.Stdout
			if output != "" {
				f, createErr := os.Create(output)
				if createErr != nil {
					return fmt.Errorf("failed to create %s: %w", output, createErr)
				}
				defer func() { _ = f.Close() }()
				out = f
			}

			switch strings.ToLower(format) {
			case "csv":
				err = export.WriteCSV(out, expenses)
			case "json":
				if envelope {
					err = export.WriteJSONEnvelope(out, expenses)
				} else {
					err = export.WriteJSON(out, expenses)
				}
			default:
				return fmt.Errorf("unsupported export format %q", format)
			}
			if err != nil {
				return err
			}

			if output != "" {
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Exported %d expenses to %s", len(expenses), output)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "csv", "export format: csv or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&envelope, "summary", false, "wrap JSON output in a summary envelope")

	return cmd
}
