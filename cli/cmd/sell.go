// ABOUTME: Sell command for the ecofinds CLI
// ABOUTME: Creates a new listing, prompting for missing fields interactively

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

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/models"
)

var (
	sellTitle       string
	sellDescription string
	sellCategory    string
	sellPrice       string
	sellImage       string
)

var sellCmd = &cobra.Command{
	Use:   "sell",
	Short: "Create a new listing",
	Long:  `Create a new listing on the marketplace. Missing fields are prompted for interactively.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if sellTitle == "" || sellCategory == "" || sellPrice == "" {
			if err := promptListing(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}

		exitCode := runSell(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	sellCmd.Flags().StringVar(&sellTitle, "title", "", "Listing title (prompted when omitted)")
	sellCmd.Flags().StringVar(&sellDescription, "description", "", "Listing description")
	sellCmd.Flags().StringVar(&sellCategory, "category", "", "Category value (prompted when omitted)")
	sellCmd.Flags().StringVar(&sellPrice, "price", "", "Price, e.g. 49.90 (prompted when omitted)")
	sellCmd.Flags().StringVar(&sellImage, "image", "", "Path to a product photo")
	rootCmd.AddCommand(sellCmd)
}

// promptListing asks for whichever listing fields were not given as flags.
// Categories come from the backend so the select always matches what the
// server will accept.
func promptListing(ctx context.Context) error {
	var fields []huh.Field
	if sellTitle == "" {
		fields = append(fields, huh.NewInput().
			Title("Title").
			Value(&sellTitle).
			Validate(requireValue("title")))
	}
	if sellDescription == "" {
		fields = append(fields, huh.NewText().
			Title("Description").
			Value(&sellDescription))
	}
	if sellCategory == "" {
		categories, err := newCatalogClient().Categories(ctx)
		if err != nil {
			return fmt.Errorf("fetching categories: %w", err)
		}
		options := make([]huh.Option[string], 0, len(categories))
		for _, c := range categories {
			options = append(options, huh.NewOption(c.Label, c.Value))
		}
		fields = append(fields, huh.NewSelect[string]().
			Title("Category").
			Options(options...).
			Value(&sellCategory))
	}
	if sellPrice == "" {
		fields = append(fields, huh.NewInput().
			Title("Price").
			Placeholder("e.g., 49.90").
			Value(&sellPrice).
			Validate(validatePrice))
	}
	return huh.NewForm(huh.NewGroup(fields...)).Run()
}

func validatePrice(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 {
		return fmt.Errorf("price must be a positive number")
	}
	return nil
}

// runSell creates the listing and returns an exit code
func runSell(ctx context.Context, w io.Writer) int {
	auth := newAuthClient()
	if !auth.IsAuthenticated() {
		fmt.Fprintln(w, "Not logged in. Run 'ecofinds login' first.")
		return 2
	}

	input := models.CreateProductInput{
		Title:       sellTitle,
		Description: sellDescription,
		Category:    sellCategory,
		Price:       strings.TrimSpace(sellPrice),
	}
	if sellImage != "" {
		data, err := os.ReadFile(sellImage)
		if err != nil {
			fmt.Fprintf(w, "Error: reading image: %v\n", err)
			return 1
		}
		input.Image = data
		input.ImageName = sellImage
	}

	product, err := newCatalogClient().Create(ctx, input)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(product, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintf(w, "Created product %d: %s\n", product.ID, titleStyle.Render(product.Title))
	}
	return 0
}
