// ABOUTME: Search command for the ecofinds CLI
// ABOUTME: Queries the paginated search endpoint and prints one result page

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/models"
)

var (
	searchCategory string
	searchMinPrice float64
	searchMaxPrice float64
	searchSort     string
	searchPage     int
	searchPageSize int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the catalog",
	Long:  `Search listings by keyword with server-side pagination.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		query := ""
		if len(args) > 0 {
			query = args[0]
		}
		filters := models.SearchFilters{
			Search:   query,
			Category: searchCategory,
			MinPrice: searchMinPrice,
			MaxPrice: searchMaxPrice,
			SortBy:   searchSort,
			Page:     searchPage,
			PageSize: searchPageSize,
		}
		exitCode := runSearch(ctx, os.Stdout, filters)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchCategory, "category", "", "Filter by category")
	searchCmd.Flags().Float64Var(&searchMinPrice, "min-price", 0, "Minimum price")
	searchCmd.Flags().Float64Var(&searchMaxPrice, "max-price", 0, "Maximum price")
	searchCmd.Flags().StringVar(&searchSort, "sort", "", "Sort order (price-low, price-high, newest, oldest)")
	searchCmd.Flags().IntVar(&searchPage, "page", 0, "Result page")
	searchCmd.Flags().IntVar(&searchPageSize, "page-size", 0, "Results per page")
	rootCmd.AddCommand(searchCmd)
}

// runSearch executes the search and returns an exit code
func runSearch(ctx context.Context, w io.Writer, filters models.SearchFilters) int {
	catalog := newCatalogClient()

	resp, err := catalog.Search(ctx, filters)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatSearchJSON(resp))
	} else {
		fmt.Fprintln(w, formatSearchHuman(resp))
	}
	return 0
}

// formatSearchHuman renders one result page with a pagination footer
func formatSearchHuman(resp *models.SearchResponse) string {
	if resp.Count == 0 {
		return "No products found."
	}
	out := formatProductsHuman(resp.Results)
	if resp.TotalPages > 1 {
		out += "\n" + mutedStyle.Render(fmt.Sprintf("Page %d of %d (%d total)",
			resp.Page, resp.TotalPages, resp.Count))
	}
	return out
}

// formatSearchJSON renders the full search envelope as JSON
func formatSearchJSON(resp *models.SearchResponse) string {
	data, _ := json.MarshalIndent(resp, "", "  ")
	return string(data)
}
