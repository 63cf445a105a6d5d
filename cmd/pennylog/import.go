package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pennylog/pennylog/internal/cli"
	"github.com/pennylog/pennylog/internal/common"
	"github.com/pennylog/pennylog/internal/export"
	"github.com/pennylog/pennylog/internal/model"
	"github.com/pennylog/pennylog/internal/ofx"
	syncer "github.com/pennylog/pennylog/internal/sync"
)

func importCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import expenses from CSV, JSON, or OFX",
		Long: `Import expenses from a file. Rows missing a description, positive amount,
date, or category are skipped; the rest go through the normal create path,
including auto-categorization and the duplicate guard.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer func() { _ = f.Close() }()

			if format == "" {
				format = strings.TrimPrefix(filepath.Ext(args[0]), ".")
			}

			var expenses []model.Expense
			var skipped int
			switch strings.ToLower(format) {
			case "csv":
				expenses, skipped, err = export.ReadCSV(f)
			case "json":
				expenses, skipped, err = export.ReadJSON(f)
			case "ofx", "qfx":
				expenses, err = ofx.NewParser().ParseFile(ctx, f)
			default:
				return fmt.Errorf("unsupported import format %q", format)
			}
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", args[0], err)
			}

			if len(expenses) == 0 {
				fmt.Println(cli.FormatWarning("Nothing to import."))
				return nil
			}

			app, err := initApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			bar := cli.NewProgressBar(len(expenses), "Importing expenses...", os.Stderr)

			imported, duplicates := 0, 0
			for i := range expenses {
				e := &expenses[i]
				_, createErr := app.coordinator.CreateExpense(ctx, app.session, syncer.CreateInput{
					Date:         e.Date,
					Description:  e.Description,
					MerchantName: e.MerchantName,
					Category:     e.Category,
					Note:         e.Note,
					ReceiptURL:   e.ReceiptURL,
					Amount:       e.Amount,
				})
				switch {
				case errors.Is(createErr, common.ErrDuplicateExpense):
					duplicates++
				case createErr != nil:
					return fmt.Errorf("import failed at row %d: %w", i+1, createErr)
				default:
					imported++
				}
				_ = bar.Add(1)
			}
			fmt.Fprintln(os.Stderr)

			msg := fmt.Sprintf("Imported %d expenses", imported)
			if skipped > 0 {
				msg += fmt.Sprintf(", skipped %d invalid rows", skipped)
			}
			if duplicates > 0 {
				msg += fmt.Sprintf(", ignored %d duplicates", duplicates)
			}
			fmt.Println(cli.FormatSuccess(msg))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "file format: csv, json, or ofx (default: from extension)")

	return cmd
}
