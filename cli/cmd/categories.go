// ABOUTME: Categories command for the ecofinds CLI
// ABOUTME: Lists the product categories the backend accepts

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/models"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List product categories",
	Long:  `List the category values listings can be filed under.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runCategories(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

// runCategories fetches the category list and returns an exit code
func runCategories(ctx context.Context, w io.Writer) int {
	catalog := newCatalogClient()

	categories, err := catalog.Categories(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatCategoriesJSON(categories))
	} else {
		fmt.Fprintln(w, formatCategoriesHuman(categories))
	}
	return 0
}

// formatCategoriesHuman renders categories as value/label rows
func formatCategoriesHuman(categories []models.Category) string {
	if len(categories) == 0 {
		return "No categories available."
	}
	var b strings.Builder
	for i, c := range categories {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("%-15s %s", c.Value, mutedStyle.Render(c.Label)))
	}
	return b.String()
}

// formatCategoriesJSON renders categories as JSON
func formatCategoriesJSON(categories []models.Category) string {
	data, _ := json.MarshalIndent(categories, "", "  ")
	return string(data)
}
