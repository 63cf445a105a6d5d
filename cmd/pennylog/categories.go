package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/pennylog/pennylog/internal/taxonomy"
)

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the expense categories",
		Long:  `Display the fixed category taxonomy. Declaration order is the classifier's priority order.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				headerStyle.Render("ID"),
				headerStyle.Render("Name"),
				headerStyle.Render("Keywords"))
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				strings.Repeat("-", 14),
				strings.Repeat("-", 20),
				strings.Repeat("-", 40))

			for _, cat := range taxonomy.Categories() {
				keywords := strings.Join(cat.Keywords, ", ")
				if len(keywords) > 60 {
					keywords = keywords[:57] + "..."
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", cat.ID, cat.Name, keywords)
			}

			return nil
		},
	}
}
