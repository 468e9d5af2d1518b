// ABOUTME: Product catalog models for the EcoFinds backend contract
// ABOUTME: Products, categories, search filters, and the paginated search envelope

package models

import (
	"net/url"
	"strconv"
)

// Product is a second-hand listing. The backend owns it; the client only
// holds transient in-memory lists per page view.
type Product struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	Price         string `json:"price"` // decimal-as-string, e.g. "49.90"
	Image         string `json:"image,omitempty"`
	Owner         int    `json:"owner"`
	OwnerUsername string `json:"owner_username"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
	IsAvailable   bool   `json:"is_available"`
}

// PriceValue parses the decimal price, returning 0 for unparseable values.
func (p *Product) PriceValue() float64 {
	v, err := strconv.ParseFloat(p.Price, 64)
	if err != nil {
		return 0
	}
	return v
}

// Category is read-only reference data fetched from the backend.
type Category struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// CreateProductInput holds the fields for a new listing.
// Image is the raw upload; it is sent as a multipart file part.
type CreateProductInput struct {
	Title       string
	Description string
	Category    string
	Price       string
	ImageName   string
	Image       []byte
	IsAvailable *bool
}

// UpdateProductInput holds a sparse set of changes; nil/empty fields are
// omitted from the PATCH payload entirely.
type UpdateProductInput struct {
	Title       string
	Description string
	Category    string
	Price       string
	ImageName   string
	Image       []byte
	IsAvailable *bool
}

// SearchFilters are the query parameters accepted by the list and search
// endpoints. Zero values are omitted from the query string.
type SearchFilters struct {
	Search   string
	Category string
	MinPrice float64
	MaxPrice float64
	SortBy   string
	Page     int
	PageSize int
}

// Values encodes the filters as URL query parameters.
func (f SearchFilters) Values() url.Values {
	params := url.Values{}
	if f.Search != "" {
		params.Set("search", f.Search)
	}
	if f.Category != "" {
		params.Set("category", f.Category)
	}
	if f.MinPrice > 0 {
		params.Set("min_price", strconv.FormatFloat(f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice > 0 {
		params.Set("max_price", strconv.FormatFloat(f.MaxPrice, 'f', -1, 64))
	}
	if f.SortBy != "" {
		params.Set("sort_by", f.SortBy)
	}
	if f.Page > 0 {
		params.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		params.Set("page_size", strconv.Itoa(f.PageSize))
	}
	return params
}

// SearchResponse is the paginated envelope returned by the search endpoint.
type SearchResponse struct {
	Results    []Product `json:"results"`
	Count      int       `json:"count"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}

// ToggleAvailabilityResponse is returned by the availability toggle endpoint.
type ToggleAvailabilityResponse struct {
	Message     string `json:"message"`
	IsAvailable bool   `json:"is_available"`
}

// ErrorResponse is the JSON error envelope the web layer writes.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}
