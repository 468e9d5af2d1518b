// ABOUTME: Products commands for the ecofinds CLI
// ABOUTME: Lists, inspects, and manages marketplace listings

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/models"
	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/services"
)

var (
	listSearch   string
	listCategory string
	listMinPrice float64
	listMaxPrice float64
	listSort     string
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Browse and manage listings",
	Long:  `Browse the marketplace catalog and manage your own listings.`,
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available products",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		filters := models.SearchFilters{
			Search:   listSearch,
			Category: listCategory,
			MinPrice: listMinPrice,
			MaxPrice: listMaxPrice,
			SortBy:   listSort,
		}
		exitCode := runProductsList(ctx, os.Stdout, filters)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var productsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one product",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		id, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid product id %q\n", args[0])
			os.Exit(1)
		}
		exitCode := runProductsGet(ctx, os.Stdout, id)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var productsMineCmd = &cobra.Command{
	Use:   "mine",
	Short: "List your own listings",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runProductsMine(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var productsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one of your listings",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		id, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid product id %q\n", args[0])
			os.Exit(1)
		}
		exitCode := runProductsDelete(ctx, os.Stdout, id)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var productsToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Toggle a listing between available and sold",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		id, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid product id %q\n", args[0])
			os.Exit(1)
		}
		exitCode := runProductsToggle(ctx, os.Stdout, id)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	productsListCmd.Flags().StringVar(&listSearch, "search", "", "Search in title and description")
	productsListCmd.Flags().StringVar(&listCategory, "category", "", "Filter by category")
	productsListCmd.Flags().Float64Var(&listMinPrice, "min-price", 0, "Minimum price")
	productsListCmd.Flags().Float64Var(&listMaxPrice, "max-price", 0, "Maximum price")
	productsListCmd.Flags().StringVar(&listSort, "sort", "", "Sort order (price-low, price-high, newest, oldest)")

	productsCmd.AddCommand(productsListCmd)
	productsCmd.AddCommand(productsGetCmd)
	productsCmd.AddCommand(productsMineCmd)
	productsCmd.AddCommand(productsDeleteCmd)
	productsCmd.AddCommand(productsToggleCmd)
	rootCmd.AddCommand(productsCmd)
}

// runProductsList fetches and prints the catalog, returning an exit code
func runProductsList(ctx context.Context, w io.Writer, filters models.SearchFilters) int {
	catalog := newCatalogClient()

	products, err := catalog.Products(ctx, filters)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatProductsJSON(products))
	} else {
		fmt.Fprintln(w, formatProductsHuman(products))
	}
	return 0
}

// runProductsGet fetches one product and returns an exit code
func runProductsGet(ctx context.Context, w io.Writer, id int) int {
	catalog := newCatalogClient()

	product, err := catalog.Product(ctx, id)
	if err != nil {
		if services.IsNotFound(err) {
			fmt.Fprintf(w, "Product %d not found.\n", id)
			return 2
		}
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(product, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintln(w, formatProductHuman(product))
	}
	return 0
}

// runProductsMine lists the authenticated user's listings
func runProductsMine(ctx context.Context, w io.Writer) int {
	auth := newAuthClient()
	if !auth.IsAuthenticated() {
		fmt.Fprintln(w, "Not logged in. Run 'ecofinds login' first.")
		return 2
	}
	catalog := newCatalogClient()

	products, err := catalog.UserProducts(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatProductsJSON(products))
	} else {
		fmt.Fprintln(w, formatProductsHuman(products))
	}
	return 0
}

// runProductsDelete removes a listing
func runProductsDelete(ctx context.Context, w io.Writer, id int) int {
	catalog := newCatalogClient()

	if err := catalog.Delete(ctx, id); err != nil {
		if services.IsNotFound(err) {
			fmt.Fprintf(w, "Product %d not found.\n", id)
			return 2
		}
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintf(w, "{\"deleted\": %d}\n", id)
	} else {
		fmt.Fprintf(w, "Deleted product %d.\n", id)
	}
	return 0
}

// runProductsToggle flips a listing's availability
func runProductsToggle(ctx context.Context, w io.Writer, id int) int {
	catalog := newCatalogClient()

	resp, err := catalog.ToggleAvailability(ctx, id)
	if err != nil {
		if services.IsNotFound(err) {
			fmt.Fprintf(w, "Product %d not found.\n", id)
			return 2
		}
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintln(w, formatToggleHuman(id, resp))
	}
	return 0
}

// formatProductsHuman renders a product list as aligned rows
func formatProductsHuman(products []models.Product) string {
	if len(products) == 0 {
		return "No products found."
	}

	var b strings.Builder
	for i, p := range products {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("%-6d %s  %s  %s",
			p.ID,
			titleStyle.Render(fmt.Sprintf("%-30.30s", p.Title)),
			priceStyle.Render(fmt.Sprintf("$%8s", p.Price)),
			availabilityLabel(p.IsAvailable)))
	}
	b.WriteString("\n" + mutedStyle.Render(fmt.Sprintf("%d product(s)", len(products))))
	return b.String()
}

// formatProductHuman renders one product in full
func formatProductHuman(p *models.Product) string {
	return fmt.Sprintf(`%s
ID:        %d
Category:  %s
Price:     %s
Seller:    %s
Status:    %s
Listed:    %s

%s`,
		titleStyle.Render(p.Title),
		p.ID,
		p.Category,
		priceStyle.Render("$"+p.Price),
		p.OwnerUsername,
		availabilityLabel(p.IsAvailable),
		p.CreatedAt,
		p.Description)
}

// formatProductsJSON renders a product list as JSON
func formatProductsJSON(products []models.Product) string {
	data, _ := json.MarshalIndent(products, "", "  ")
	return string(data)
}

// formatToggleHuman renders the toggle result
func formatToggleHuman(id int, resp *models.ToggleAvailabilityResponse) string {
	return fmt.Sprintf("Product %d is now %s.", id, availabilityWord(resp.IsAvailable))
}

func availabilityLabel(available bool) string {
	if available {
		return "available"
	}
	return soldStyle.Render("sold")
}

func availabilityWord(available bool) string {
	if available {
		return "available"
	}
	return "sold"
}
