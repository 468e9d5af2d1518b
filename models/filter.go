// ABOUTME: Pure in-memory filtering and sorting over product lists
// ABOUTME: Recomputed from scratch on every filter change, never incremental

package models

import (
	"sort"
	"strings"
	"time"
)

// Sort keys accepted by SortProducts.
const (
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortNewest    = "newest"
	SortOldest    = "oldest"
)

// ViewFilter describes the list view a user composed on the products page.
type ViewFilter struct {
	Search   string
	Category string // "" or "all" matches everything
	MinPrice float64
	MaxPrice float64 // 0 means unbounded
	SortBy   string
}

// FilterProducts returns the products matching the view filter, preserving
// input order. Matching is a case-insensitive substring check on title and
// description, an exact (case-insensitive) category match, and inclusive
// price bounds.
func FilterProducts(products []Product, f ViewFilter) []Product {
	search := strings.ToLower(f.Search)
	category := strings.ToLower(f.Category)

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		if category != "" && category != "all" && strings.ToLower(p.Category) != category {
			continue
		}
		price := p.PriceValue()
		if price < f.MinPrice {
			continue
		}
		if f.MaxPrice > 0 && price > f.MaxPrice {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SortProducts orders a product list by the given sort key. The input
// slice is not modified. Unknown keys return the list unchanged.
func SortProducts(products []Product, sortBy string) []Product {
	out := make([]Product, len(products))
	copy(out, products)

	switch sortBy {
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].PriceValue() < out[j].PriceValue()
		})
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].PriceValue() > out[j].PriceValue()
		})
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool {
			return createdAt(out[i]).After(createdAt(out[j]))
		})
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool {
			return createdAt(out[i]).Before(createdAt(out[j]))
		})
	}
	return out
}

// ApplyView filters then sorts in one call.
func ApplyView(products []Product, f ViewFilter) []Product {
	return SortProducts(FilterProducts(products, f), f.SortBy)
}

// createdAt parses the product timestamp; unparseable values sort last.
func createdAt(p Product) time.Time {
	t, err := time.Parse(time.RFC3339, p.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}
